package calc

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWorkingDaysPlainMonth(t *testing.T) {
	// June 2026: 30 days, starts on a Monday, 22 weekdays.
	if got := WorkingDays(2026, time.June, nil); got != 22 {
		t.Fatalf("WorkingDays(June 2026) = %d, want 22", got)
	}
}

func TestWorkingDaysExcludesWeekdayHolidays(t *testing.T) {
	holidays := []time.Time{
		date(2026, time.June, 1),  // Monday
		date(2026, time.June, 6),  // Saturday, must not double-count
		date(2026, time.June, 10), // Wednesday
	}
	if got := WorkingDays(2026, time.June, holidays); got != 20 {
		t.Fatalf("WorkingDays with holidays = %d, want 20", got)
	}
}

func TestLeaveDaysClipsToMonthAndSkipsWeekends(t *testing.T) {
	// Leave Fri 2026-05-29 .. Tue 2026-06-02; June portion is Mon 1, Tue 2.
	got := LeaveDays(2026, time.June, date(2026, time.May, 29), date(2026, time.June, 2), nil)
	if got != 2 {
		t.Fatalf("LeaveDays = %d, want 2", got)
	}

	// Fully inside the month, spanning a weekend: Fri 5 .. Mon 8 = 2 working days.
	got = LeaveDays(2026, time.June, date(2026, time.June, 5), date(2026, time.June, 8), nil)
	if got != 2 {
		t.Fatalf("LeaveDays across weekend = %d, want 2", got)
	}
}

func TestComputeFullAttendance(t *testing.T) {
	b := Compute(220000, 22, 22, 0)
	if b.NetCents != 220000 || b.AbsenceDays != 0 {
		t.Fatalf("full attendance should pay full base: %+v", b)
	}
}

func TestComputeProratesAbsence(t *testing.T) {
	// 22 working days, 20 worked, 0 leave: 2 unpaid days.
	b := Compute(220000, 22, 20, 0)
	if b.PayableDays != 20 || b.AbsenceDays != 2 {
		t.Fatalf("unexpected day accounting: %+v", b)
	}
	if b.NetCents != 200000 {
		t.Fatalf("NetCents = %d, want 200000", b.NetCents)
	}
}

func TestComputeLeaveIsPaid(t *testing.T) {
	b := Compute(220000, 22, 18, 4)
	if b.NetCents != 220000 {
		t.Fatalf("worked plus approved leave covering the month should pay full base, got %d", b.NetCents)
	}
}

func TestComputeCapsPayableAtWorkingDays(t *testing.T) {
	// Overlapping attendance and leave must not pay more than full base.
	b := Compute(220000, 22, 22, 4)
	if b.PayableDays != 22 || b.NetCents != 220000 {
		t.Fatalf("payable days must be capped: %+v", b)
	}
}

func TestComputeRoundsHalfUp(t *testing.T) {
	// 100001 cents over 2 working days, 1 payable: 50000.5 rounds to 50001.
	b := Compute(100001, 2, 1, 0)
	if b.NetCents != 50001 {
		t.Fatalf("NetCents = %d, want 50001", b.NetCents)
	}
}

func TestComputeDegenerateMonth(t *testing.T) {
	b := Compute(220000, 0, 0, 0)
	if b.NetCents != 220000 {
		t.Fatalf("a month with no working days pays full base, got %d", b.NetCents)
	}
}
