// Package service implements leave request workflow and the holiday calendar.
package service

import (
	"context"
	"errors"
	"time"

	"crmhr_backend/internal/events"
	"crmhr_backend/internal/leave/repository"
	"crmhr_backend/internal/leave/transport"
	"crmhr_backend/platform/apperr"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// Store is the repository surface the leave service uses.
type Store interface {
	Create(ctx context.Context, userID uuid.UUID, from, to time.Time, reason string) (repository.LeaveRequest, error)
	GetByID(ctx context.Context, id uuid.UUID) (repository.LeaveRequest, error)
	HasOverlapping(ctx context.Context, userID uuid.UUID, from, to time.Time) (bool, error)
	Decide(ctx context.Context, id, decidedBy uuid.UUID, status string) (repository.LeaveRequest, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]repository.LeaveRequest, error)
	ListByStatus(ctx context.Context, status string, page, limit int) ([]repository.LeaveRequest, int, error)
	CreateHoliday(ctx context.Context, date time.Time, name string) (repository.Holiday, error)
	DeleteHoliday(ctx context.Context, id uuid.UUID) error
	ListHolidays(ctx context.Context, from, to time.Time) ([]repository.Holiday, error)
}

type Service struct {
	store Store
	bus   events.Bus
	now   func() time.Time
}

func New(store Store, bus events.Bus) *Service {
	return &Service{store: store, bus: bus, now: time.Now}
}

// Request files a leave request for the caller. Overlapping pending or
// approved requests are rejected outright rather than merged.
func (s *Service) Request(ctx context.Context, userID uuid.UUID, req transport.CreateLeaveRequest) (transport.LeaveResponse, error) {
	from, err := time.Parse(dateLayout, req.FromDate)
	if err != nil {
		return transport.LeaveResponse{}, apperr.Validation("fromDate must be YYYY-MM-DD")
	}
	to, err := time.Parse(dateLayout, req.ToDate)
	if err != nil {
		return transport.LeaveResponse{}, apperr.Validation("toDate must be YYYY-MM-DD")
	}
	if to.Before(from) {
		return transport.LeaveResponse{}, apperr.Validation("toDate must not be before fromDate")
	}
	today := s.today()
	if from.Before(today) {
		return transport.LeaveResponse{}, apperr.Validation("leave cannot start in the past")
	}

	overlapping, err := s.store.HasOverlapping(ctx, userID, from, to)
	if err != nil {
		return transport.LeaveResponse{}, err
	}
	if overlapping {
		return transport.LeaveResponse{}, apperr.Conflict("an overlapping leave request already exists")
	}

	created, err := s.store.Create(ctx, userID, from, to, req.Reason)
	if err != nil {
		return transport.LeaveResponse{}, err
	}
	return transport.NewLeaveResponse(created), nil
}

// Approve transitions a pending request to approved and notifies the owner.
func (s *Service) Approve(ctx context.Context, decidedBy, requestID uuid.UUID) (transport.LeaveResponse, error) {
	return s.decide(ctx, decidedBy, requestID, repository.StatusApproved)
}

// Reject transitions a pending request to rejected and notifies the owner.
func (s *Service) Reject(ctx context.Context, decidedBy, requestID uuid.UUID) (transport.LeaveResponse, error) {
	return s.decide(ctx, decidedBy, requestID, repository.StatusRejected)
}

func (s *Service) decide(ctx context.Context, decidedBy, requestID uuid.UUID, status string) (transport.LeaveResponse, error) {
	decided, err := s.store.Decide(ctx, requestID, decidedBy, status)
	if errors.Is(err, repository.ErrNotFound) {
		// Either unknown or no longer pending; disambiguate for the caller.
		if existing, getErr := s.store.GetByID(ctx, requestID); getErr == nil {
			return transport.LeaveResponse{}, apperr.Conflict("leave request is already " + existing.Status)
		}
		return transport.LeaveResponse{}, apperr.NotFound("leave request not found")
	}
	if err != nil {
		return transport.LeaveResponse{}, err
	}

	if s.bus != nil {
		s.bus.Publish(ctx, events.LeaveDecided{
			BaseEvent: events.NewBaseEvent(),
			RequestID: decided.ID,
			UserID:    decided.UserID,
			DecidedBy: decidedBy,
			Status:    decided.Status,
			FromDate:  decided.FromDate,
			ToDate:    decided.ToDate,
		})
	}
	return transport.NewLeaveResponse(decided), nil
}

func (s *Service) ListMine(ctx context.Context, userID uuid.UUID) ([]transport.LeaveResponse, error) {
	items, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]transport.LeaveResponse, len(items))
	for i, item := range items {
		out[i] = transport.NewLeaveResponse(item)
	}
	return out, nil
}

func (s *Service) List(ctx context.Context, status string, page, limit int) ([]transport.LeaveResponse, int, error) {
	switch status {
	case "", repository.StatusPending, repository.StatusApproved, repository.StatusRejected:
	default:
		return nil, 0, apperr.Validationf("unknown leave status %q", status)
	}

	items, total, err := s.store.ListByStatus(ctx, status, page, limit)
	if err != nil {
		return nil, 0, err
	}
	out := make([]transport.LeaveResponse, len(items))
	for i, item := range items {
		out[i] = transport.NewLeaveResponse(item)
	}
	return out, total, nil
}

func (s *Service) AddHoliday(ctx context.Context, req transport.CreateHolidayRequest) (transport.HolidayResponse, error) {
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return transport.HolidayResponse{}, apperr.Validation("date must be YYYY-MM-DD")
	}

	holiday, err := s.store.CreateHoliday(ctx, date, req.Name)
	if errors.Is(err, repository.ErrHolidayExists) {
		return transport.HolidayResponse{}, apperr.Conflict("a holiday already exists on that date")
	}
	if err != nil {
		return transport.HolidayResponse{}, err
	}
	return transport.NewHolidayResponse(holiday), nil
}

func (s *Service) RemoveHoliday(ctx context.Context, id uuid.UUID) error {
	err := s.store.DeleteHoliday(ctx, id)
	if errors.Is(err, repository.ErrHolidayNotFound) {
		return apperr.NotFound("holiday not found")
	}
	return err
}

// Holidays lists the holidays of one calendar year.
func (s *Service) Holidays(ctx context.Context, year int) ([]transport.HolidayResponse, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)

	items, err := s.store.ListHolidays(ctx, from, to)
	if err != nil {
		return nil, err
	}
	out := make([]transport.HolidayResponse, len(items))
	for i, item := range items {
		out[i] = transport.NewHolidayResponse(item)
	}
	return out, nil
}

func (s *Service) today() time.Time {
	now := s.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
