// Package transport defines the request and response shapes of the payroll API.
package transport

import (
	"time"

	"crmhr_backend/internal/payroll/repository"

	"github.com/google/uuid"
)

type CloseMonthRequest struct {
	Year  int `json:"year" binding:"required,gte=2000,lte=2100"`
	Month int `json:"month" binding:"required,gte=1,lte=12"`
}

type CloseResult struct {
	Year       int   `json:"year"`
	Month      int   `json:"month"`
	Entries    int   `json:"entries"`
	TotalCents int64 `json:"totalCents"`
}

type EntryResponse struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"userId"`
	PeriodYear  int       `json:"periodYear"`
	PeriodMonth int       `json:"periodMonth"`
	BaseCents   int64     `json:"baseCents"`
	WorkingDays int       `json:"workingDays"`
	WorkedDays  int       `json:"workedDays"`
	LeaveDays   int       `json:"leaveDays"`
	PayableDays int       `json:"payableDays"`
	NetCents    int64     `json:"netCents"`
	GeneratedAt time.Time `json:"generatedAt"`
}

func NewEntryResponse(e repository.Entry) EntryResponse {
	return EntryResponse{
		ID:          e.ID,
		UserID:      e.UserID,
		PeriodYear:  e.PeriodYear,
		PeriodMonth: e.PeriodMonth,
		BaseCents:   e.BaseCents,
		WorkingDays: e.WorkingDays,
		WorkedDays:  e.WorkedDays,
		LeaveDays:   e.LeaveDays,
		PayableDays: e.PayableDays,
		NetCents:    e.NetCents,
		GeneratedAt: e.GeneratedAt,
	}
}
