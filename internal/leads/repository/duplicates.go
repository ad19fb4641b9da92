package repository

import (
	"context"
	"time"

	"crmhr_backend/internal/leads/domain"

	"github.com/google/uuid"
)

// DuplicateLead is a quarantined import row that collided with an existing
// lead. At most one quarantine record exists per existing lead; repeated
// collisions overwrite the snapshot with the latest incoming row.
type DuplicateLead struct {
	ID             uuid.UUID
	ExistingLeadID uuid.UUID
	Name           string
	Email          string
	Phone          string
	Position       string
	Reason         domain.DuplicateReason
	Source         string
	OriginalData   map[string]string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type UpsertDuplicateParams struct {
	ExistingLeadID uuid.UUID
	Name           string
	Email          string
	Phone          string
	Position       string
	Reason         domain.DuplicateReason
	Source         string
	// OriginalData is the colliding source row as received, every column
	// included, so triage sees what the import actually carried.
	OriginalData map[string]string
}

// UpsertDuplicate inserts or refreshes the quarantine record keyed on the
// existing lead.
func (r *Repository) UpsertDuplicate(ctx context.Context, params UpsertDuplicateParams) (DuplicateLead, error) {
	original := params.OriginalData
	if original == nil {
		original = map[string]string{}
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO duplicate_leads (existing_lead_id, name, email, phone, position, reason, source, original_data)
		VALUES ($1, $2, lower($3), $4, $5, $6, $7, $8)
		ON CONFLICT (existing_lead_id) DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			position = EXCLUDED.position,
			reason = EXCLUDED.reason,
			source = EXCLUDED.source,
			original_data = EXCLUDED.original_data,
			updated_at = now()
		RETURNING id, existing_lead_id, name, email, phone, position, reason, source, original_data, created_at, updated_at
	`, params.ExistingLeadID, params.Name, params.Email, params.Phone,
		params.Position, string(params.Reason), params.Source, original)

	var d DuplicateLead
	err := row.Scan(&d.ID, &d.ExistingLeadID, &d.Name, &d.Email, &d.Phone,
		&d.Position, &d.Reason, &d.Source, &d.OriginalData, &d.CreatedAt, &d.UpdatedAt)
	return d, err
}

// ListDuplicates returns a page of quarantined rows, newest collision first,
// with the total count.
func (r *Repository) ListDuplicates(ctx context.Context, page, limit int) ([]DuplicateLead, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM duplicate_leads`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, existing_lead_id, name, email, phone, position, reason, source, original_data, created_at, updated_at
		FROM duplicate_leads
		ORDER BY updated_at DESC
		LIMIT $1 OFFSET $2
	`, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := make([]DuplicateLead, 0)
	for rows.Next() {
		var d DuplicateLead
		if err := rows.Scan(&d.ID, &d.ExistingLeadID, &d.Name, &d.Email, &d.Phone,
			&d.Position, &d.Reason, &d.Source, &d.OriginalData, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, 0, err
		}
		items = append(items, d)
	}
	if rows.Err() != nil {
		return nil, 0, rows.Err()
	}
	return items, total, nil
}

// DeleteDuplicate removes a quarantine record once it has been reviewed.
func (r *Repository) DeleteDuplicate(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM duplicate_leads WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
