// Package repository persists monthly payroll entries.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound     = errors.New("payroll entry not found")
	ErrPeriodClosed = errors.New("payroll already generated for that period")
)

const uniqueViolation = "23505"

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Entry struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	PeriodYear  int
	PeriodMonth int
	BaseCents   int64
	WorkingDays int
	WorkedDays  int
	LeaveDays   int
	PayableDays int
	NetCents    int64
	GeneratedAt time.Time
}

const entryColumns = `id, user_id, period_year, period_month, base_cents,
	working_days, worked_days, leave_days, payable_days, net_cents, generated_at`

func scanEntry(row pgx.Row) (Entry, error) {
	var e Entry
	err := row.Scan(&e.ID, &e.UserID, &e.PeriodYear, &e.PeriodMonth, &e.BaseCents,
		&e.WorkingDays, &e.WorkedDays, &e.LeaveDays, &e.PayableDays, &e.NetCents, &e.GeneratedAt)
	return e, err
}

type CreateEntryParams struct {
	UserID      uuid.UUID
	PeriodYear  int
	PeriodMonth int
	BaseCents   int64
	WorkingDays int
	WorkedDays  int
	LeaveDays   int
	PayableDays int
	NetCents    int64
}

// CreateEntry writes one user's entry for a period. A unique index on
// (user_id, period_year, period_month) makes month close idempotent-safe.
func (r *Repository) CreateEntry(ctx context.Context, params CreateEntryParams) (Entry, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO payroll_entries (user_id, period_year, period_month, base_cents,
			working_days, worked_days, leave_days, payable_days, net_cents)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+entryColumns+`
	`, params.UserID, params.PeriodYear, params.PeriodMonth, params.BaseCents,
		params.WorkingDays, params.WorkedDays, params.LeaveDays, params.PayableDays, params.NetCents)

	entry, err := scanEntry(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return Entry{}, ErrPeriodClosed
		}
		return Entry{}, err
	}
	return entry, nil
}

// PeriodExists reports whether any entry was already generated for a period.
func (r *Repository) PeriodExists(ctx context.Context, year, month int) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM payroll_entries WHERE period_year = $1 AND period_month = $2)
	`, year, month).Scan(&exists)
	return exists, err
}

func (r *Repository) ListByPeriod(ctx context.Context, year, month int) ([]Entry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+entryColumns+` FROM payroll_entries
		WHERE period_year = $1 AND period_month = $2
		ORDER BY user_id ASC
	`, year, month)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (r *Repository) GetForUser(ctx context.Context, userID uuid.UUID, year, month int) (Entry, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+entryColumns+` FROM payroll_entries
		WHERE user_id = $1 AND period_year = $2 AND period_month = $3
	`, userID, year, month)
	entry, err := scanEntry(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Entry{}, ErrNotFound
	}
	return entry, err
}
