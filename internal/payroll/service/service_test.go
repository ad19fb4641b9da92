package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"crmhr_backend/internal/payroll/repository"
	"crmhr_backend/platform/apperr"
	"crmhr_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeEntries struct {
	mu      sync.Mutex
	entries []repository.Entry
}

func (f *fakeEntries) CreateEntry(_ context.Context, params repository.CreateEntryParams) (repository.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.entries {
		if e.UserID == params.UserID && e.PeriodYear == params.PeriodYear && e.PeriodMonth == params.PeriodMonth {
			return repository.Entry{}, repository.ErrPeriodClosed
		}
	}
	entry := repository.Entry{
		ID: uuid.New(), UserID: params.UserID,
		PeriodYear: params.PeriodYear, PeriodMonth: params.PeriodMonth,
		BaseCents: params.BaseCents, WorkingDays: params.WorkingDays,
		WorkedDays: params.WorkedDays, LeaveDays: params.LeaveDays,
		PayableDays: params.PayableDays, NetCents: params.NetCents,
	}
	f.entries = append(f.entries, entry)
	return entry, nil
}

func (f *fakeEntries) PeriodExists(_ context.Context, year, month int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.entries {
		if e.PeriodYear == year && e.PeriodMonth == month {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeEntries) ListByPeriod(_ context.Context, year, month int) ([]repository.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []repository.Entry
	for _, e := range f.entries {
		if e.PeriodYear == year && e.PeriodMonth == month {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEntries) GetForUser(_ context.Context, userID uuid.UUID, year, month int) (repository.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.entries {
		if e.UserID == userID && e.PeriodYear == year && e.PeriodMonth == month {
			return e, nil
		}
	}
	return repository.Entry{}, repository.ErrNotFound
}

type fakeStaff struct {
	payees []Payee
}

func (f fakeStaff) ListActivePayees(_ context.Context) ([]Payee, error) {
	return f.payees, nil
}

type fakeAttendance struct {
	workedDays map[uuid.UUID]int
}

func (f fakeAttendance) CountWorkedDays(_ context.Context, userID uuid.UUID, _, _ time.Time) (int, error) {
	return f.workedDays[userID], nil
}

type fakeLeave struct {
	ranges   map[uuid.UUID][][2]time.Time
	holidays []time.Time
}

func (f fakeLeave) ApprovedLeaveRanges(_ context.Context, userID uuid.UUID, _, _ time.Time) ([][2]time.Time, error) {
	return f.ranges[userID], nil
}

func (f fakeLeave) Holidays(_ context.Context, _, _ time.Time) ([]time.Time, error) {
	return f.holidays, nil
}

func TestCloseMonthGeneratesEntryPerPayee(t *testing.T) {
	alice := uuid.New()
	bob := uuid.New()
	entries := &fakeEntries{}

	svc := New(entries,
		fakeStaff{payees: []Payee{{UserID: alice, BaseCents: 220000}, {UserID: bob, BaseCents: 110000}}},
		fakeAttendance{workedDays: map[uuid.UUID]int{alice: 22, bob: 11}},
		fakeLeave{},
		logger.New("test"))

	// June 2026 has 22 working days.
	result, err := svc.CloseMonth(context.Background(), 2026, time.June)
	if err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if result.Entries != 2 {
		t.Fatalf("expected 2 entries, got %d", result.Entries)
	}

	aliceEntry, err := svc.Payslip(context.Background(), alice, 2026, 6)
	if err != nil {
		t.Fatalf("payslip failed: %v", err)
	}
	if aliceEntry.NetCents != 220000 {
		t.Fatalf("full attendance should pay full base, got %d", aliceEntry.NetCents)
	}

	bobEntry, err := svc.Payslip(context.Background(), bob, 2026, 6)
	if err != nil {
		t.Fatalf("payslip failed: %v", err)
	}
	if bobEntry.NetCents != 55000 {
		t.Fatalf("half attendance should pay half base, got %d", bobEntry.NetCents)
	}
	if result.TotalCents != aliceEntry.NetCents+bobEntry.NetCents {
		t.Fatalf("total mismatch: %d", result.TotalCents)
	}
}

func TestCloseMonthCountsApprovedLeaveAsPaid(t *testing.T) {
	user := uuid.New()
	entries := &fakeEntries{}

	svc := New(entries,
		fakeStaff{payees: []Payee{{UserID: user, BaseCents: 220000}}},
		fakeAttendance{workedDays: map[uuid.UUID]int{user: 20}},
		fakeLeave{ranges: map[uuid.UUID][][2]time.Time{user: {{
			time.Date(2026, time.June, 4, 0, 0, 0, 0, time.UTC),
			time.Date(2026, time.June, 5, 0, 0, 0, 0, time.UTC),
		}}}},
		logger.New("test"))

	if _, err := svc.CloseMonth(context.Background(), 2026, time.June); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	entry, err := svc.Payslip(context.Background(), user, 2026, 6)
	if err != nil {
		t.Fatalf("payslip failed: %v", err)
	}
	if entry.LeaveDays != 2 || entry.PayableDays != 22 || entry.NetCents != 220000 {
		t.Fatalf("leave must be paid: %+v", entry)
	}
}

func TestCloseMonthTwiceRejected(t *testing.T) {
	user := uuid.New()
	entries := &fakeEntries{}
	svc := New(entries,
		fakeStaff{payees: []Payee{{UserID: user, BaseCents: 100000}}},
		fakeAttendance{workedDays: map[uuid.UUID]int{user: 10}},
		fakeLeave{},
		logger.New("test"))

	if _, err := svc.CloseMonth(context.Background(), 2026, time.June); err != nil {
		t.Fatalf("first close failed: %v", err)
	}
	if _, err := svc.CloseMonth(context.Background(), 2026, time.June); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict on second close, got %v", err)
	}
}

func TestCloseMonthInvalidMonth(t *testing.T) {
	svc := New(&fakeEntries{}, fakeStaff{}, fakeAttendance{}, fakeLeave{}, logger.New("test"))
	if _, err := svc.CloseMonth(context.Background(), 2026, time.Month(13)); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
