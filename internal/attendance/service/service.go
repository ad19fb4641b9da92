// Package service implements geofenced clock-in/out and office management.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"crmhr_backend/internal/attendance/repository"
	"crmhr_backend/internal/attendance/transport"
	"crmhr_backend/internal/events"
	"crmhr_backend/platform/apperr"
	"crmhr_backend/platform/geo"
	"crmhr_backend/platform/logger"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
)

// Store is the repository surface the attendance service uses.
type Store interface {
	CreateOffice(ctx context.Context, params repository.CreateOfficeParams) (repository.Office, error)
	GetOffice(ctx context.Context, id uuid.UUID) (repository.Office, error)
	ListOffices(ctx context.Context, activeOnly bool) ([]repository.Office, error)
	UpdateOffice(ctx context.Context, id uuid.UUID, params repository.UpdateOfficeParams) (repository.Office, error)
	DeactivateOffice(ctx context.Context, id uuid.UUID) error

	OpenSession(ctx context.Context, params repository.OpenSessionParams) (repository.Session, error)
	FindOpenSession(ctx context.Context, userID uuid.UUID, workDate time.Time) (repository.Session, error)
	CloseSession(ctx context.Context, sessionID uuid.UUID, latitude, longitude float64) (repository.Session, error)
	ListSessions(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]repository.Session, error)
	ListOpenSessionsBefore(ctx context.Context, workDate time.Time) ([]repository.Session, error)
	AutoCloseSession(ctx context.Context, sessionID uuid.UUID, closedAt time.Time) (repository.Session, error)
}

type Service struct {
	store Store
	bus   events.Bus
	log   *logger.Logger
	now   func() time.Time
}

func New(store Store, bus events.Bus, log *logger.Logger) *Service {
	return &Service{store: store, bus: bus, log: log, now: time.Now}
}

func (s *Service) CreateOffice(ctx context.Context, req transport.CreateOfficeRequest) (transport.OfficeResponse, error) {
	office, err := s.store.CreateOffice(ctx, repository.CreateOfficeParams{
		Name:         req.Name,
		Address:      req.Address,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		RadiusMeters: req.RadiusMeters,
	})
	if err != nil {
		return transport.OfficeResponse{}, err
	}
	return transport.NewOfficeResponse(office), nil
}

func (s *Service) ListOffices(ctx context.Context, activeOnly bool) ([]transport.OfficeResponse, error) {
	offices, err := s.store.ListOffices(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	out := make([]transport.OfficeResponse, len(offices))
	for i, office := range offices {
		out[i] = transport.NewOfficeResponse(office)
	}
	return out, nil
}

func (s *Service) UpdateOffice(ctx context.Context, id uuid.UUID, req transport.UpdateOfficeRequest) (transport.OfficeResponse, error) {
	office, err := s.store.UpdateOffice(ctx, id, repository.UpdateOfficeParams{
		Name:         req.Name,
		Address:      req.Address,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		RadiusMeters: req.RadiusMeters,
	})
	if errors.Is(err, repository.ErrOfficeNotFound) {
		return transport.OfficeResponse{}, apperr.NotFound("office not found")
	}
	if err != nil {
		return transport.OfficeResponse{}, err
	}
	return transport.NewOfficeResponse(office), nil
}

func (s *Service) DeactivateOffice(ctx context.Context, id uuid.UUID) error {
	err := s.store.DeactivateOffice(ctx, id)
	if errors.Is(err, repository.ErrOfficeNotFound) {
		return apperr.NotFound("office not found")
	}
	return err
}

// OfficePosterPNG renders a printable QR code for an office. Scanning the
// code prefills the office id in the clock-in client.
func (s *Service) OfficePosterPNG(ctx context.Context, officeID uuid.UUID) ([]byte, error) {
	office, err := s.store.GetOffice(ctx, officeID)
	if errors.Is(err, repository.ErrOfficeNotFound) {
		return nil, apperr.NotFound("office not found")
	}
	if err != nil {
		return nil, err
	}

	payload := fmt.Sprintf("crmhr://clock-in?office=%s", office.ID)
	png, err := qrcode.Encode(payload, qrcode.Medium, 512)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to render office poster", err)
	}
	return png, nil
}

// ClockIn opens today's session for the caller. The caller must be inside
// the office geofence, and at most one open session per user per day is
// allowed. The open-session check is a point query before insert; the
// partial unique index on the sessions table backs it against races.
func (s *Service) ClockIn(ctx context.Context, userID uuid.UUID, req transport.ClockInRequest) (transport.SessionResponse, error) {
	office, err := s.store.GetOffice(ctx, req.OfficeID)
	if errors.Is(err, repository.ErrOfficeNotFound) {
		return transport.SessionResponse{}, apperr.NotFound("office not found")
	}
	if err != nil {
		return transport.SessionResponse{}, err
	}
	if !office.IsActive {
		return transport.SessionResponse{}, apperr.Validation("office is not active")
	}

	if !geo.WithinRadius(office.Latitude, office.Longitude, req.Latitude, req.Longitude, office.RadiusMeters) {
		distance := geo.DistanceMeters(office.Latitude, office.Longitude, req.Latitude, req.Longitude)
		return transport.SessionResponse{}, apperr.Validationf(
			"you are %.0fm from %s, outside its %.0fm clock-in radius", distance, office.Name, office.RadiusMeters)
	}

	today := s.workDate()
	if _, err := s.store.FindOpenSession(ctx, userID, today); err == nil {
		return transport.SessionResponse{}, apperr.Conflict("you already have an open session today")
	} else if !errors.Is(err, repository.ErrSessionNotFound) {
		return transport.SessionResponse{}, err
	}

	session, err := s.store.OpenSession(ctx, repository.OpenSessionParams{
		UserID:    userID,
		OfficeID:  office.ID,
		WorkDate:  today,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	})
	if err != nil {
		return transport.SessionResponse{}, err
	}
	return transport.NewSessionResponse(session), nil
}

// ClockOut closes the caller's open session for today.
func (s *Service) ClockOut(ctx context.Context, userID uuid.UUID, req transport.ClockOutRequest) (transport.SessionResponse, error) {
	open, err := s.store.FindOpenSession(ctx, userID, s.workDate())
	if errors.Is(err, repository.ErrSessionNotFound) {
		return transport.SessionResponse{}, apperr.NotFound("no open session to clock out of")
	}
	if err != nil {
		return transport.SessionResponse{}, err
	}

	session, err := s.store.CloseSession(ctx, open.ID, req.Latitude, req.Longitude)
	if err != nil {
		return transport.SessionResponse{}, err
	}
	return transport.NewSessionResponse(session), nil
}

// Sessions lists a user's sessions for one calendar month.
func (s *Service) Sessions(ctx context.Context, userID uuid.UUID, year int, month time.Month) ([]transport.SessionResponse, error) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	sessions, err := s.store.ListSessions(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	out := make([]transport.SessionResponse, len(sessions))
	for i, session := range sessions {
		out[i] = transport.NewSessionResponse(session)
	}
	return out, nil
}

// AutoClose force-closes every open session whose cutoff has passed: all
// sessions from previous days, plus today's once local time is past the
// cutoff. Returns the number of sessions closed.
func (s *Service) AutoClose(ctx context.Context, cutoff string) (int, error) {
	cutoffClock, err := time.Parse("15:04", cutoff)
	if err != nil {
		return 0, apperr.Validationf("invalid auto-logout cutoff %q", cutoff)
	}

	now := s.now()
	boundary := s.workDate()
	pastCutoffToday := now.Hour() > cutoffClock.Hour() ||
		(now.Hour() == cutoffClock.Hour() && now.Minute() >= cutoffClock.Minute())
	if !pastCutoffToday {
		boundary = boundary.AddDate(0, 0, -1)
	}

	open, err := s.store.ListOpenSessionsBefore(ctx, boundary)
	if err != nil {
		return 0, err
	}

	closed := 0
	for _, session := range open {
		closedAt := time.Date(session.WorkDate.Year(), session.WorkDate.Month(), session.WorkDate.Day(),
			cutoffClock.Hour(), cutoffClock.Minute(), 0, 0, now.Location())
		if closedAt.Before(session.ClockInAt) {
			closedAt = session.ClockInAt
		}

		updated, err := s.store.AutoCloseSession(ctx, session.ID, closedAt)
		if errors.Is(err, repository.ErrSessionNotFound) {
			continue
		}
		if err != nil {
			return closed, err
		}
		closed++

		if s.bus != nil {
			s.bus.Publish(ctx, events.AttendanceAutoClosed{
				BaseEvent: events.NewBaseEvent(),
				SessionID: updated.ID,
				UserID:    updated.UserID,
				ClosedAt:  closedAt,
			})
		}
	}
	return closed, nil
}

func (s *Service) workDate() time.Time {
	now := s.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
