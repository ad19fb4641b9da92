package service

import (
	"context"
	"testing"
	"time"

	"crmhr_backend/internal/leave/repository"
	"crmhr_backend/internal/leave/transport"
	"crmhr_backend/platform/apperr"

	"github.com/google/uuid"
)

type fakeStore struct {
	requests map[uuid.UUID]repository.LeaveRequest
	holidays map[uuid.UUID]repository.Holiday
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		requests: make(map[uuid.UUID]repository.LeaveRequest),
		holidays: make(map[uuid.UUID]repository.Holiday),
	}
}

func (f *fakeStore) Create(_ context.Context, userID uuid.UUID, from, to time.Time, reason string) (repository.LeaveRequest, error) {
	req := repository.LeaveRequest{
		ID: uuid.New(), UserID: userID, FromDate: from, ToDate: to,
		Reason: reason, Status: repository.StatusPending, CreatedAt: time.Now(),
	}
	f.requests[req.ID] = req
	return req, nil
}

func (f *fakeStore) GetByID(_ context.Context, id uuid.UUID) (repository.LeaveRequest, error) {
	if req, ok := f.requests[id]; ok {
		return req, nil
	}
	return repository.LeaveRequest{}, repository.ErrNotFound
}

func (f *fakeStore) HasOverlapping(_ context.Context, userID uuid.UUID, from, to time.Time) (bool, error) {
	for _, req := range f.requests {
		if req.UserID != userID {
			continue
		}
		if req.Status != repository.StatusPending && req.Status != repository.StatusApproved {
			continue
		}
		if !req.FromDate.After(to) && !req.ToDate.Before(from) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) Decide(_ context.Context, id, decidedBy uuid.UUID, status string) (repository.LeaveRequest, error) {
	req, ok := f.requests[id]
	if !ok || req.Status != repository.StatusPending {
		return repository.LeaveRequest{}, repository.ErrNotFound
	}
	now := time.Now()
	req.Status = status
	req.DecidedBy = &decidedBy
	req.DecidedAt = &now
	f.requests[id] = req
	return req, nil
}

func (f *fakeStore) ListByUser(_ context.Context, userID uuid.UUID) ([]repository.LeaveRequest, error) {
	var out []repository.LeaveRequest
	for _, req := range f.requests {
		if req.UserID == userID {
			out = append(out, req)
		}
	}
	return out, nil
}

func (f *fakeStore) ListByStatus(_ context.Context, status string, _, _ int) ([]repository.LeaveRequest, int, error) {
	var out []repository.LeaveRequest
	for _, req := range f.requests {
		if status == "" || req.Status == status {
			out = append(out, req)
		}
	}
	return out, len(out), nil
}

func (f *fakeStore) CreateHoliday(_ context.Context, date time.Time, name string) (repository.Holiday, error) {
	for _, h := range f.holidays {
		if h.Date.Equal(date) {
			return repository.Holiday{}, repository.ErrHolidayExists
		}
	}
	h := repository.Holiday{ID: uuid.New(), Date: date, Name: name}
	f.holidays[h.ID] = h
	return h, nil
}

func (f *fakeStore) DeleteHoliday(_ context.Context, id uuid.UUID) error {
	if _, ok := f.holidays[id]; !ok {
		return repository.ErrHolidayNotFound
	}
	delete(f.holidays, id)
	return nil
}

func (f *fakeStore) ListHolidays(_ context.Context, from, to time.Time) ([]repository.Holiday, error) {
	var out []repository.Holiday
	for _, h := range f.holidays {
		if !h.Date.Before(from) && h.Date.Before(to) {
			out = append(out, h)
		}
	}
	return out, nil
}

func newTestService(store *fakeStore) *Service {
	svc := New(store, nil)
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC) }
	return svc
}

func TestRequestLeave(t *testing.T) {
	svc := newTestService(newFakeStore())
	resp, err := svc.Request(context.Background(), uuid.New(), transport.CreateLeaveRequest{
		FromDate: "2026-03-10", ToDate: "2026-03-12", Reason: "family",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Status != repository.StatusPending {
		t.Fatalf("new request must be pending, got %q", resp.Status)
	}
}

func TestRequestLeaveValidation(t *testing.T) {
	svc := newTestService(newFakeStore())
	user := uuid.New()
	cases := []transport.CreateLeaveRequest{
		{FromDate: "bad", ToDate: "2026-03-12", Reason: "x"},
		{FromDate: "2026-03-12", ToDate: "2026-03-10", Reason: "x"},
		{FromDate: "2026-02-01", ToDate: "2026-02-02", Reason: "x"}, // past
	}
	for _, req := range cases {
		if _, err := svc.Request(context.Background(), user, req); !apperr.Is(err, apperr.KindValidation) {
			t.Fatalf("expected validation error for %+v, got %v", req, err)
		}
	}
}

func TestRequestLeaveOverlapRejected(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	user := uuid.New()

	if _, err := svc.Request(context.Background(), user, transport.CreateLeaveRequest{
		FromDate: "2026-03-10", ToDate: "2026-03-14", Reason: "trip",
	}); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	_, err := svc.Request(context.Background(), user, transport.CreateLeaveRequest{
		FromDate: "2026-03-14", ToDate: "2026-03-16", Reason: "extension",
	})
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict for overlapping request, got %v", err)
	}

	// A different user may take the same dates.
	if _, err := svc.Request(context.Background(), uuid.New(), transport.CreateLeaveRequest{
		FromDate: "2026-03-14", ToDate: "2026-03-16", Reason: "ok",
	}); err != nil {
		t.Fatalf("other user's request failed: %v", err)
	}
}

func TestApproveAndDoubleDecision(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	user := uuid.New()
	admin := uuid.New()

	created, err := svc.Request(context.Background(), user, transport.CreateLeaveRequest{
		FromDate: "2026-03-10", ToDate: "2026-03-12", Reason: "x",
	})
	if err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	approved, err := svc.Approve(context.Background(), admin, created.ID)
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if approved.Status != repository.StatusApproved || approved.DecidedBy == nil {
		t.Fatalf("unexpected decision: %+v", approved)
	}

	if _, err := svc.Reject(context.Background(), admin, created.ID); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict on second decision, got %v", err)
	}
}

func TestDecideUnknownRequest(t *testing.T) {
	svc := newTestService(newFakeStore())
	if _, err := svc.Approve(context.Background(), uuid.New(), uuid.New()); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestHolidayUniquePerDate(t *testing.T) {
	svc := newTestService(newFakeStore())
	req := transport.CreateHolidayRequest{Date: "2026-01-26", Name: "Republic Day"}

	if _, err := svc.AddHoliday(context.Background(), req); err != nil {
		t.Fatalf("first holiday failed: %v", err)
	}
	if _, err := svc.AddHoliday(context.Background(), req); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict on duplicate date, got %v", err)
	}

	holidays, err := svc.Holidays(context.Background(), 2026)
	if err != nil {
		t.Fatalf("listing failed: %v", err)
	}
	if len(holidays) != 1 {
		t.Fatalf("expected 1 holiday, got %d", len(holidays))
	}
}
