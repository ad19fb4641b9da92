// Package repository provides Postgres persistence for employee documents.
package repository

import (
	"context"
	"errors"
	"time"

	"crmhr_backend/internal/documents/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotFound is returned when no document matches the lookup.
	ErrNotFound = errors.New("document not found")

	// ErrAlreadyReviewed is returned when a decision targets a document
	// that is no longer pending.
	ErrAlreadyReviewed = errors.New("document already reviewed")
)

// Document is one uploaded employee document with its verification state.
type Document struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Kind        domain.Kind
	FileName    string
	FileKey     string
	ContentType string
	SizeBytes   int64
	Status      domain.Status
	ReviewNote  *string
	ReviewedBy  *uuid.UUID
	ReviewedAt  *time.Time
	CapturedAt  *time.Time
	CaptureLat  *float64
	CaptureLng  *float64
	CreatedAt   time.Time
}

const documentColumns = `id, user_id, kind, file_name, file_key, content_type, size_bytes,
	status, review_note, reviewed_by, reviewed_at, captured_at, capture_lat, capture_lng, created_at`

func scanDocument(row pgx.Row) (Document, error) {
	var d Document
	err := row.Scan(&d.ID, &d.UserID, &d.Kind, &d.FileName, &d.FileKey, &d.ContentType, &d.SizeBytes,
		&d.Status, &d.ReviewNote, &d.ReviewedBy, &d.ReviewedAt, &d.CapturedAt, &d.CaptureLat, &d.CaptureLng, &d.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Document{}, ErrNotFound
	}
	return d, err
}

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateParams carries the fields of a new pending document.
type CreateParams struct {
	UserID      uuid.UUID
	Kind        domain.Kind
	FileName    string
	FileKey     string
	ContentType string
	SizeBytes   int64
	CapturedAt  *time.Time
	CaptureLat  *float64
	CaptureLng  *float64
}

func (r *Repository) Create(ctx context.Context, params CreateParams) (Document, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO documents (user_id, kind, file_name, file_key, content_type, size_bytes,
			status, captured_at, capture_lat, capture_lng)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+documentColumns,
		params.UserID, params.Kind, params.FileName, params.FileKey, params.ContentType,
		params.SizeBytes, domain.StatusPending, params.CapturedAt, params.CaptureLat, params.CaptureLng)
	return scanDocument(row)
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Document, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+documentColumns+` FROM documents WHERE id = $1`, id)
	return scanDocument(row)
}

// ListByUser returns a user's documents, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]Document, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+documentColumns+`
		FROM documents
		WHERE user_id = $1
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDocuments(rows)
}

// ListByStatus returns documents in one verification state, oldest first so
// the review queue drains in upload order.
func (r *Repository) ListByStatus(ctx context.Context, status domain.Status, page, limit int) ([]Document, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM documents WHERE status = $1`, status).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+documentColumns+`
		FROM documents
		WHERE status = $1
		ORDER BY created_at ASC
		LIMIT $2 OFFSET $3`, status, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	documents, err := collectDocuments(rows)
	if err != nil {
		return nil, 0, err
	}
	return documents, total, nil
}

// Review records a verification decision. Only pending documents can be
// decided; a second decision returns ErrAlreadyReviewed.
func (r *Repository) Review(ctx context.Context, id uuid.UUID, status domain.Status, reviewedBy uuid.UUID, note *string) (Document, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE documents
		SET status = $2, reviewed_by = $3, reviewed_at = now(), review_note = $4
		WHERE id = $1 AND status = $5
		RETURNING `+documentColumns,
		id, status, reviewedBy, note, domain.StatusPending)

	document, err := scanDocument(row)
	if errors.Is(err, ErrNotFound) {
		// Disambiguate a missing row from one that was already decided.
		if _, getErr := r.GetByID(ctx, id); getErr == nil {
			return Document{}, ErrAlreadyReviewed
		}
		return Document{}, ErrNotFound
	}
	return document, err
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func collectDocuments(rows pgx.Rows) ([]Document, error) {
	var out []Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
