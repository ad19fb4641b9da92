package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AssignmentHistory is one entry of the append-only assignment ledger.
// Entries are never updated or deleted.
type AssignmentHistory struct {
	ID         uuid.UUID
	LeadID     uuid.UUID
	AssignedTo uuid.UUID
	AssignedBy *uuid.UUID
	Source     string
	CreatedAt  time.Time
}

// ListHistory returns the full assignment ledger of a lead, oldest first.
func (r *Repository) ListHistory(ctx context.Context, leadID uuid.UUID) ([]AssignmentHistory, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, lead_id, assigned_to, assigned_by, source, created_at
		FROM assignment_history
		WHERE lead_id = $1
		ORDER BY created_at ASC
	`, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]AssignmentHistory, 0)
	for rows.Next() {
		var h AssignmentHistory
		if err := rows.Scan(&h.ID, &h.LeadID, &h.AssignedTo, &h.AssignedBy, &h.Source, &h.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, h)
	}
	return entries, rows.Err()
}
