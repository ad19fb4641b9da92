// Package service generates monthly payroll from attendance, leave and the
// holiday calendar.
package service

import (
	"context"
	"errors"
	"time"

	"crmhr_backend/internal/payroll/calc"
	"crmhr_backend/internal/payroll/repository"
	"crmhr_backend/internal/payroll/transport"
	"crmhr_backend/platform/apperr"
	"crmhr_backend/platform/logger"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Aggregation fan-out width for month close.
const closeConcurrency = 8

// EntryStore is the payroll repository surface.
type EntryStore interface {
	CreateEntry(ctx context.Context, params repository.CreateEntryParams) (repository.Entry, error)
	PeriodExists(ctx context.Context, year, month int) (bool, error)
	ListByPeriod(ctx context.Context, year, month int) ([]repository.Entry, error)
	GetForUser(ctx context.Context, userID uuid.UUID, year, month int) (repository.Entry, error)
}

// Staff lists the users payroll runs over.
type Staff interface {
	ListActivePayees(ctx context.Context) ([]Payee, error)
}

// Payee is one salaried user in a payroll run.
type Payee struct {
	UserID    uuid.UUID
	BaseCents int64
}

// AttendanceSource supplies worked-day counts per user and period.
type AttendanceSource interface {
	CountWorkedDays(ctx context.Context, userID uuid.UUID, from, to time.Time) (int, error)
}

// LeaveSource supplies approved leave ranges and the holiday calendar.
type LeaveSource interface {
	ApprovedLeaveRanges(ctx context.Context, userID uuid.UUID, from, to time.Time) ([][2]time.Time, error)
	Holidays(ctx context.Context, from, to time.Time) ([]time.Time, error)
}

type Service struct {
	entries    EntryStore
	staff      Staff
	attendance AttendanceSource
	leave      LeaveSource
	log        *logger.Logger
}

func New(entries EntryStore, staff Staff, attendance AttendanceSource, leave LeaveSource, log *logger.Logger) *Service {
	return &Service{entries: entries, staff: staff, attendance: attendance, leave: leave, log: log}
}

// CloseMonth generates payroll entries for every active user for the given
// period. Per-user aggregation fans out over a bounded worker group; each
// user's entry is an independent write. A period can only be closed once.
func (s *Service) CloseMonth(ctx context.Context, year int, month time.Month) (transport.CloseResult, error) {
	if month < time.January || month > time.December {
		return transport.CloseResult{}, apperr.Validationf("invalid month %d", month)
	}

	exists, err := s.entries.PeriodExists(ctx, year, int(month))
	if err != nil {
		return transport.CloseResult{}, err
	}
	if exists {
		return transport.CloseResult{}, apperr.Conflict("payroll already generated for that period")
	}

	payees, err := s.staff.ListActivePayees(ctx)
	if err != nil {
		return transport.CloseResult{}, err
	}

	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	holidays, err := s.leave.Holidays(ctx, from, to)
	if err != nil {
		return transport.CloseResult{}, err
	}
	workingDays := calc.WorkingDays(year, month, holidays)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(closeConcurrency)

	results := make([]repository.Entry, len(payees))
	for i, payee := range payees {
		group.Go(func() error {
			entry, err := s.closeUser(groupCtx, payee, year, month, from, to, workingDays, holidays)
			if err != nil {
				return err
			}
			results[i] = entry
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		if errors.Is(err, repository.ErrPeriodClosed) {
			return transport.CloseResult{}, apperr.Conflict("payroll already generated for that period")
		}
		return transport.CloseResult{}, err
	}

	var totalCents int64
	for _, entry := range results {
		totalCents += entry.NetCents
	}

	s.log.WithContext(ctx).Info("payroll period closed",
		"year", year, "month", int(month), "entries", len(results), "totalCents", totalCents)

	return transport.CloseResult{
		Year:       year,
		Month:      int(month),
		Entries:    len(results),
		TotalCents: totalCents,
	}, nil
}

func (s *Service) closeUser(ctx context.Context, payee Payee, year int, month time.Month, from, to time.Time, workingDays int, holidays []time.Time) (repository.Entry, error) {
	workedDays, err := s.attendance.CountWorkedDays(ctx, payee.UserID, from, to)
	if err != nil {
		return repository.Entry{}, err
	}

	ranges, err := s.leave.ApprovedLeaveRanges(ctx, payee.UserID, from, to)
	if err != nil {
		return repository.Entry{}, err
	}
	leaveDays := 0
	for _, r := range ranges {
		leaveDays += calc.LeaveDays(year, month, r[0], r[1], holidays)
	}

	breakdown := calc.Compute(payee.BaseCents, workingDays, workedDays, leaveDays)

	return s.entries.CreateEntry(ctx, repository.CreateEntryParams{
		UserID:      payee.UserID,
		PeriodYear:  year,
		PeriodMonth: int(month),
		BaseCents:   breakdown.BaseCents,
		WorkingDays: breakdown.WorkingDays,
		WorkedDays:  breakdown.WorkedDays,
		LeaveDays:   breakdown.LeaveDays,
		PayableDays: breakdown.PayableDays,
		NetCents:    breakdown.NetCents,
	})
}

// Period lists all entries of a closed period.
func (s *Service) Period(ctx context.Context, year, month int) ([]transport.EntryResponse, error) {
	entries, err := s.entries.ListByPeriod(ctx, year, month)
	if err != nil {
		return nil, err
	}
	out := make([]transport.EntryResponse, len(entries))
	for i, entry := range entries {
		out[i] = transport.NewEntryResponse(entry)
	}
	return out, nil
}

// Payslip returns one user's entry for a period.
func (s *Service) Payslip(ctx context.Context, userID uuid.UUID, year, month int) (transport.EntryResponse, error) {
	entry, err := s.entries.GetForUser(ctx, userID, year, month)
	if errors.Is(err, repository.ErrNotFound) {
		return transport.EntryResponse{}, apperr.NotFound("no payslip for that period")
	}
	if err != nil {
		return transport.EntryResponse{}, err
	}
	return transport.NewEntryResponse(entry), nil
}
