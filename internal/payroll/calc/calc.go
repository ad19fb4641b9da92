// Package calc computes monthly pay from attendance, leave and the holiday
// calendar. All functions are pure; the service layer supplies the inputs.
package calc

import "time"

// WorkingDays counts the weekdays of a month, minus holidays that fall on a
// weekday. Weekend holidays do not reduce the count twice.
func WorkingDays(year int, month time.Month, holidays []time.Time) int {
	holidaySet := make(map[string]bool, len(holidays))
	for _, h := range holidays {
		holidaySet[h.Format("2006-01-02")] = true
	}

	count := 0
	day := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	for day.Month() == month {
		if isWeekday(day) && !holidaySet[day.Format("2006-01-02")] {
			count++
		}
		day = day.AddDate(0, 0, 1)
	}
	return count
}

// LeaveDays counts the working days of [from, to] that fall inside the given
// month, skipping weekends and holidays so leave spanning a weekend is not
// over-counted.
func LeaveDays(year int, month time.Month, from, to time.Time, holidays []time.Time) int {
	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)

	if from.Before(monthStart) {
		from = monthStart
	}
	if to.After(monthEnd.AddDate(0, 0, -1)) {
		to = monthEnd.AddDate(0, 0, -1)
	}

	holidaySet := make(map[string]bool, len(holidays))
	for _, h := range holidays {
		holidaySet[h.Format("2006-01-02")] = true
	}

	count := 0
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		if isWeekday(day) && !holidaySet[day.Format("2006-01-02")] {
			count++
		}
	}
	return count
}

// Breakdown is the result of one user's monthly pay computation.
type Breakdown struct {
	BaseCents    int64
	WorkingDays  int
	WorkedDays   int
	LeaveDays    int
	PayableDays  int
	AbsenceDays  int
	NetCents     int64
}

// Compute prorates base pay over the month's working days. Worked days and
// approved leave days are both payable; remaining working days are unpaid
// absence. Payable days are capped at the month's working days so overlap
// between attendance and leave never inflates pay.
func Compute(baseCents int64, workingDays, workedDays, leaveDays int) Breakdown {
	b := Breakdown{
		BaseCents:   baseCents,
		WorkingDays: workingDays,
		WorkedDays:  workedDays,
		LeaveDays:   leaveDays,
	}

	if workingDays <= 0 {
		// Degenerate month (all holidays). Full base, nothing to prorate.
		b.NetCents = baseCents
		return b
	}

	payable := workedDays + leaveDays
	if payable > workingDays {
		payable = workingDays
	}
	b.PayableDays = payable
	b.AbsenceDays = workingDays - payable

	// Integer proration with half-up rounding.
	numerator := baseCents*int64(payable)*2 + int64(workingDays)
	b.NetCents = numerator / (int64(workingDays) * 2)
	return b
}

func isWeekday(day time.Time) bool {
	wd := day.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}
