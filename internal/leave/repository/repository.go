// Package repository persists leave requests and the holiday calendar.
package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound        = errors.New("leave request not found")
	ErrHolidayExists   = errors.New("holiday already exists for that date")
	ErrHolidayNotFound = errors.New("holiday not found")
)

// Leave request states.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

const uniqueViolation = "23505"

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type LeaveRequest struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	FromDate  time.Time
	ToDate    time.Time
	Reason    string
	Status    string
	DecidedBy *uuid.UUID
	DecidedAt *time.Time
	CreatedAt time.Time
}

const leaveColumns = `id, user_id, from_date, to_date, reason, status, decided_by, decided_at, created_at`

func scanLeave(row pgx.Row) (LeaveRequest, error) {
	var l LeaveRequest
	err := row.Scan(&l.ID, &l.UserID, &l.FromDate, &l.ToDate, &l.Reason,
		&l.Status, &l.DecidedBy, &l.DecidedAt, &l.CreatedAt)
	return l, err
}

func (r *Repository) Create(ctx context.Context, userID uuid.UUID, from, to time.Time, reason string) (LeaveRequest, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO leave_requests (user_id, from_date, to_date, reason, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+leaveColumns+`
	`, userID, from, to, reason, StatusPending)
	return scanLeave(row)
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (LeaveRequest, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+leaveColumns+` FROM leave_requests WHERE id = $1`, id)
	req, err := scanLeave(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return LeaveRequest{}, ErrNotFound
	}
	return req, err
}

// HasOverlapping reports whether the user already has a pending or approved
// request intersecting [from, to].
func (r *Repository) HasOverlapping(ctx context.Context, userID uuid.UUID, from, to time.Time) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM leave_requests
			WHERE user_id = $1
			  AND status IN ($2, $3)
			  AND from_date <= $5
			  AND to_date >= $4
		)
	`, userID, StatusPending, StatusApproved, from, to).Scan(&exists)
	return exists, err
}

// Decide transitions a pending request to approved or rejected. Decided
// requests are final.
func (r *Repository) Decide(ctx context.Context, id, decidedBy uuid.UUID, status string) (LeaveRequest, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE leave_requests
		SET status = $3, decided_by = $2, decided_at = now()
		WHERE id = $1 AND status = $4
		RETURNING `+leaveColumns+`
	`, id, decidedBy, status, StatusPending)
	req, err := scanLeave(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return LeaveRequest{}, ErrNotFound
	}
	return req, err
}

func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]LeaveRequest, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+leaveColumns+` FROM leave_requests
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectLeaves(rows)
}

// ListByStatus returns a page of requests in the given state, oldest first
// so admins review in arrival order. Empty status lists all.
func (r *Repository) ListByStatus(ctx context.Context, status string, page, limit int) ([]LeaveRequest, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	where := ""
	args := []interface{}{}
	if status != "" {
		where = "WHERE status = $1"
		args = append(args, status)
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT count(*) FROM leave_requests "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := "SELECT " + leaveColumns + " FROM leave_requests " + where +
		" ORDER BY created_at ASC LIMIT $" + strconv.Itoa(len(args)+1) + " OFFSET $" + strconv.Itoa(len(args)+2)
	args = append(args, limit, (page-1)*limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items, err := collectLeaves(rows)
	return items, total, err
}

// ListApprovedInRange returns approved requests of a user intersecting
// [from, to). Payroll consumes this.
func (r *Repository) ListApprovedInRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]LeaveRequest, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+leaveColumns+` FROM leave_requests
		WHERE user_id = $1 AND status = $2 AND from_date < $4 AND to_date >= $3
		ORDER BY from_date ASC
	`, userID, StatusApproved, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectLeaves(rows)
}

func collectLeaves(rows pgx.Rows) ([]LeaveRequest, error) {
	items := make([]LeaveRequest, 0)
	for rows.Next() {
		req, err := scanLeave(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, req)
	}
	return items, rows.Err()
}

type Holiday struct {
	ID   uuid.UUID
	Date time.Time
	Name string
}

func (r *Repository) CreateHoliday(ctx context.Context, date time.Time, name string) (Holiday, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO holidays (holiday_date, name) VALUES ($1, $2)
		RETURNING id, holiday_date, name
	`, date, name)

	var h Holiday
	err := row.Scan(&h.ID, &h.Date, &h.Name)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return Holiday{}, ErrHolidayExists
		}
		return Holiday{}, err
	}
	return h, nil
}

func (r *Repository) DeleteHoliday(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM holidays WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrHolidayNotFound
	}
	return nil
}

// ListHolidays returns holidays in [from, to), soonest first.
func (r *Repository) ListHolidays(ctx context.Context, from, to time.Time) ([]Holiday, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, holiday_date, name FROM holidays
		WHERE holiday_date >= $1 AND holiday_date < $2
		ORDER BY holiday_date ASC
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Holiday, 0)
	for rows.Next() {
		var h Holiday
		if err := rows.Scan(&h.ID, &h.Date, &h.Name); err != nil {
			return nil, err
		}
		items = append(items, h)
	}
	return items, rows.Err()
}

