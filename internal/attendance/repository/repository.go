// Package repository persists offices and attendance sessions.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrOfficeNotFound  = errors.New("office not found")
	ErrSessionNotFound = errors.New("attendance session not found")
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Office struct {
	ID           uuid.UUID
	Name         string
	Address      string
	Latitude     float64
	Longitude    float64
	RadiusMeters float64
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

const officeColumns = `id, name, address, latitude, longitude, radius_meters, is_active, created_at, updated_at`

func scanOffice(row pgx.Row) (Office, error) {
	var o Office
	err := row.Scan(&o.ID, &o.Name, &o.Address, &o.Latitude, &o.Longitude,
		&o.RadiusMeters, &o.IsActive, &o.CreatedAt, &o.UpdatedAt)
	return o, err
}

type CreateOfficeParams struct {
	Name         string
	Address      string
	Latitude     float64
	Longitude    float64
	RadiusMeters float64
}

func (r *Repository) CreateOffice(ctx context.Context, params CreateOfficeParams) (Office, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO offices (name, address, latitude, longitude, radius_meters)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+officeColumns+`
	`, params.Name, params.Address, params.Latitude, params.Longitude, params.RadiusMeters)
	return scanOffice(row)
}

func (r *Repository) GetOffice(ctx context.Context, id uuid.UUID) (Office, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+officeColumns+` FROM offices WHERE id = $1`, id)
	office, err := scanOffice(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Office{}, ErrOfficeNotFound
	}
	return office, err
}

func (r *Repository) ListOffices(ctx context.Context, activeOnly bool) ([]Office, error) {
	query := `SELECT ` + officeColumns + ` FROM offices`
	if activeOnly {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	offices := make([]Office, 0)
	for rows.Next() {
		office, err := scanOffice(rows)
		if err != nil {
			return nil, err
		}
		offices = append(offices, office)
	}
	return offices, rows.Err()
}

type UpdateOfficeParams struct {
	Name         *string
	Address      *string
	Latitude     *float64
	Longitude    *float64
	RadiusMeters *float64
}

func (r *Repository) UpdateOffice(ctx context.Context, id uuid.UUID, params UpdateOfficeParams) (Office, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE offices SET
			name = COALESCE($2, name),
			address = COALESCE($3, address),
			latitude = COALESCE($4, latitude),
			longitude = COALESCE($5, longitude),
			radius_meters = COALESCE($6, radius_meters),
			updated_at = now()
		WHERE id = $1
		RETURNING `+officeColumns+`
	`, id, params.Name, params.Address, params.Latitude, params.Longitude, params.RadiusMeters)

	office, err := scanOffice(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Office{}, ErrOfficeNotFound
	}
	return office, err
}

func (r *Repository) DeactivateOffice(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE offices SET is_active = false, updated_at = now() WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrOfficeNotFound
	}
	return nil
}

type Session struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	OfficeID     uuid.UUID
	WorkDate     time.Time
	ClockInAt    time.Time
	ClockOutAt   *time.Time
	InLatitude   float64
	InLongitude  float64
	OutLatitude  *float64
	OutLongitude *float64
	AutoClosed   bool
	CreatedAt    time.Time
}

const sessionColumns = `id, user_id, office_id, work_date, clock_in_at, clock_out_at,
	in_latitude, in_longitude, out_latitude, out_longitude, auto_closed, created_at`

func scanSession(row pgx.Row) (Session, error) {
	var s Session
	err := row.Scan(&s.ID, &s.UserID, &s.OfficeID, &s.WorkDate, &s.ClockInAt, &s.ClockOutAt,
		&s.InLatitude, &s.InLongitude, &s.OutLatitude, &s.OutLongitude, &s.AutoClosed, &s.CreatedAt)
	return s, err
}

type OpenSessionParams struct {
	UserID    uuid.UUID
	OfficeID  uuid.UUID
	WorkDate  time.Time
	Latitude  float64
	Longitude float64
}

func (r *Repository) OpenSession(ctx context.Context, params OpenSessionParams) (Session, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO attendance_sessions (user_id, office_id, work_date, clock_in_at, in_latitude, in_longitude)
		VALUES ($1, $2, $3, now(), $4, $5)
		RETURNING `+sessionColumns+`
	`, params.UserID, params.OfficeID, params.WorkDate, params.Latitude, params.Longitude)
	return scanSession(row)
}

// FindOpenSession returns the user's open session for the given work date,
// if any. At most one exists per user per day; a partial unique index backs
// the point query.
func (r *Repository) FindOpenSession(ctx context.Context, userID uuid.UUID, workDate time.Time) (Session, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+sessionColumns+`
		FROM attendance_sessions
		WHERE user_id = $1 AND work_date = $2 AND clock_out_at IS NULL
	`, userID, workDate)
	session, err := scanSession(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Session{}, ErrSessionNotFound
	}
	return session, err
}

func (r *Repository) CloseSession(ctx context.Context, sessionID uuid.UUID, latitude, longitude float64) (Session, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE attendance_sessions
		SET clock_out_at = now(), out_latitude = $2, out_longitude = $3
		WHERE id = $1 AND clock_out_at IS NULL
		RETURNING `+sessionColumns+`
	`, sessionID, latitude, longitude)
	session, err := scanSession(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Session{}, ErrSessionNotFound
	}
	return session, err
}

// ListSessions returns a user's sessions within [from, to), newest first.
func (r *Repository) ListSessions(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]Session, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+sessionColumns+`
		FROM attendance_sessions
		WHERE user_id = $1 AND work_date >= $2 AND work_date < $3
		ORDER BY clock_in_at DESC
	`, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := make([]Session, 0)
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

// ListOpenSessionsBefore returns every still-open session whose work date is
// on or before the given date. The auto-logout job feeds on this.
func (r *Repository) ListOpenSessionsBefore(ctx context.Context, workDate time.Time) ([]Session, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+sessionColumns+`
		FROM attendance_sessions
		WHERE clock_out_at IS NULL AND work_date <= $1
		ORDER BY work_date ASC
	`, workDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := make([]Session, 0)
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

// AutoCloseSession force-closes a session at the given instant without
// checkout coordinates, marking it as auto-closed.
func (r *Repository) AutoCloseSession(ctx context.Context, sessionID uuid.UUID, closedAt time.Time) (Session, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE attendance_sessions
		SET clock_out_at = $2, auto_closed = true
		WHERE id = $1 AND clock_out_at IS NULL
		RETURNING `+sessionColumns+`
	`, sessionID, closedAt)
	session, err := scanSession(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Session{}, ErrSessionNotFound
	}
	return session, err
}

// CountWorkedDays counts distinct work dates with a closed session in
// [from, to). Payroll consumes this.
func (r *Repository) CountWorkedDays(ctx context.Context, userID uuid.UUID, from, to time.Time) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT count(DISTINCT work_date)
		FROM attendance_sessions
		WHERE user_id = $1 AND work_date >= $2 AND work_date < $3 AND clock_out_at IS NOT NULL
	`, userID, from, to).Scan(&count)
	return count, err
}
