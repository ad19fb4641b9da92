package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"crmhr_backend/internal/leads/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound = errors.New("lead not found")
	// ErrIdentityConflict is returned when a write violates the unique
	// indexes on email or phone.
	ErrIdentityConflict = errors.New("duplicate lead detected")
)

const uniqueViolation = "23505"

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Lead struct {
	ID         uuid.UUID
	Name       string
	Email      string
	Phone      string
	Position   string
	Status     string
	Source     string
	Priority   string
	Folder     string
	LeadScore  int
	AssignedTo *uuid.UUID
	AssignedBy *uuid.UUID
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

const leadColumns = `id, name, email, phone, position, status, source, priority, folder,
	lead_score, assigned_to, assigned_by, created_at, updated_at`

func scanLead(row pgx.Row) (Lead, error) {
	var l Lead
	err := row.Scan(&l.ID, &l.Name, &l.Email, &l.Phone, &l.Position, &l.Status, &l.Source,
		&l.Priority, &l.Folder, &l.LeadScore, &l.AssignedTo, &l.AssignedBy,
		&l.CreatedAt, &l.UpdatedAt)
	return l, err
}

func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrIdentityConflict
	}
	return err
}

type CreateLeadParams struct {
	Name       string
	Email      string
	Phone      string
	Position   string
	Status     string
	Source     string
	Priority   string
	Folder     string
	LeadScore  int
	AssignedTo *uuid.UUID
	AssignedBy *uuid.UUID
}

func (r *Repository) Create(ctx context.Context, params CreateLeadParams) (Lead, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO leads (name, email, phone, position, status, source, priority, folder,
			lead_score, assigned_to, assigned_by)
		VALUES ($1, lower($2), $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+leadColumns+`
	`, params.Name, params.Email, params.Phone, params.Position, params.Status,
		params.Source, params.Priority, params.Folder, params.LeadScore,
		params.AssignedTo, params.AssignedBy)

	lead, err := scanLead(row)
	if err != nil {
		return Lead{}, mapWriteError(err)
	}
	return lead, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Lead, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id)
	lead, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	return lead, err
}

// FindByEmailOrPhone looks up a lead whose email or phone matches the
// incoming row identity. The import engine depends on this matching either
// field independently.
func (r *Repository) FindByEmailOrPhone(ctx context.Context, email, phoneNumber string) (Lead, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+leadColumns+`
		FROM leads
		WHERE lower(email) = lower($1) OR phone = $2
		ORDER BY created_at ASC
		LIMIT 1
	`, email, phoneNumber)
	lead, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	return lead, err
}

// List returns a page of leads matching the filter, oldest first, with the
// total match count.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]Lead, int, error) {
	filter.Normalize()
	where, args := filter.BuildWhere()

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT count(*) FROM leads "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT %s FROM leads %s
		ORDER BY created_at ASC
		LIMIT $%d OFFSET $%d
	`, leadColumns, where, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := make([]Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, lead)
	}
	if rows.Err() != nil {
		return nil, 0, rows.Err()
	}

	return items, total, nil
}

type UpdateLeadParams struct {
	Name     *string
	Email    *string
	Phone    *string
	Position *string
	Priority *string
	Folder   *string
	Source   *string
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, params UpdateLeadParams) (Lead, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE leads SET
			name = COALESCE($2, name),
			email = COALESCE(lower($3), email),
			phone = COALESCE($4, phone),
			position = COALESCE($5, position),
			priority = COALESCE($6, priority),
			folder = COALESCE($7, folder),
			source = COALESCE($8, source),
			updated_at = now()
		WHERE id = $1
		RETURNING `+leadColumns+`
	`, id, params.Name, params.Email, params.Phone, params.Position,
		params.Priority, params.Folder, params.Source)

	lead, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	if err != nil {
		return Lead{}, mapWriteError(err)
	}
	return lead, nil
}

// SetStatus updates the status and its derived score in one write so the
// score can never drift from the status.
func (r *Repository) SetStatus(ctx context.Context, id uuid.UUID, status string, score int) (Lead, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE leads SET status = $2, lead_score = $3, updated_at = now()
		WHERE id = $1
		RETURNING `+leadColumns+`
	`, id, status, score)
	lead, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	return lead, err
}

// BulkSetStatus updates status and derived score on all given leads.
func (r *Repository) BulkSetStatus(ctx context.Context, ids []uuid.UUID, status string, score int) (int, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE leads SET status = $2, lead_score = $3, updated_at = now()
		WHERE id = ANY($1)
	`, ids, status, score)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

// SetFolder overwrites the lead's folder label.
func (r *Repository) SetFolder(ctx context.Context, id uuid.UUID, folder string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE leads SET folder = $2, updated_at = now() WHERE id = $1
	`, id, folder)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Assign sets the assignment fields and appends a history entry in one
// transaction, so the ledger can never miss a recorded assignment.
func (r *Repository) Assign(ctx context.Context, leadID, assignedTo, assignedBy uuid.UUID, source domain.HistorySource) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE leads SET assigned_to = $2, assigned_by = $3, updated_at = now()
		WHERE id = $1
	`, leadID, assignedTo, assignedBy)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO assignment_history (lead_id, assigned_to, assigned_by, source)
		VALUES ($1, $2, $3, $4)
	`, leadID, assignedTo, assignedBy, string(source)); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// AppendHistory appends an assignment history entry without touching the
// lead's current assignment (used for reimport re-affirmations).
func (r *Repository) AppendHistory(ctx context.Context, leadID, assignedTo uuid.UUID, assignedBy *uuid.UUID, source domain.HistorySource) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO assignment_history (lead_id, assigned_to, assigned_by, source)
		VALUES ($1, $2, $3, $4)
	`, leadID, assignedTo, assignedBy, string(source))
	return err
}

// BulkAssign sets assignment on every given lead. It intentionally does not
// write assignment_history entries; see the management service.
func (r *Repository) BulkAssign(ctx context.Context, ids []uuid.UUID, assignedTo, assignedBy uuid.UUID) (int, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE leads SET assigned_to = $2, assigned_by = $3, updated_at = now()
		WHERE id = ANY($1)
	`, ids, assignedTo, assignedBy)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

// BulkUnassign clears assignment on every given lead.
func (r *Repository) BulkUnassign(ctx context.Context, ids []uuid.UUID) (int, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE leads SET assigned_to = NULL, assigned_by = NULL, updated_at = now()
		WHERE id = ANY($1)
	`, ids)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

// Delete hard-deletes a lead. Only the explicit admin path reaches this;
// import never deletes.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CountByColumn groups leads on a single classification column for the
// dashboard. The column name is constrained to a fixed set by the caller.
func (r *Repository) CountByColumn(ctx context.Context, column string, restrictTo *uuid.UUID) (map[string]int, error) {
	switch column {
	case "status", "source", "priority":
	default:
		return nil, fmt.Errorf("unsupported aggregation column %q", column)
	}

	query := fmt.Sprintf(`SELECT %s, count(*) FROM leads`, column)
	var args []interface{}
	if restrictTo != nil {
		query += ` WHERE assigned_to = $1`
		args = append(args, *restrictTo)
	}
	query += fmt.Sprintf(` GROUP BY %s`, column)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return nil, err
		}
		counts[key] = count
	}
	return counts, rows.Err()
}
