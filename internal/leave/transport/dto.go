// Package transport defines the request and response shapes of the leave API.
package transport

import (
	"time"

	"crmhr_backend/internal/leave/repository"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

type CreateLeaveRequest struct {
	FromDate string `json:"fromDate" binding:"required"`
	ToDate   string `json:"toDate" binding:"required"`
	Reason   string `json:"reason" binding:"required,max=1000"`
}

type CreateHolidayRequest struct {
	Date string `json:"date" binding:"required"`
	Name string `json:"name" binding:"required"`
}

type LeaveResponse struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"userId"`
	FromDate  string     `json:"fromDate"`
	ToDate    string     `json:"toDate"`
	Reason    string     `json:"reason"`
	Status    string     `json:"status"`
	DecidedBy *uuid.UUID `json:"decidedBy,omitempty"`
	DecidedAt *time.Time `json:"decidedAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

func NewLeaveResponse(l repository.LeaveRequest) LeaveResponse {
	return LeaveResponse{
		ID:        l.ID,
		UserID:    l.UserID,
		FromDate:  l.FromDate.Format(dateLayout),
		ToDate:    l.ToDate.Format(dateLayout),
		Reason:    l.Reason,
		Status:    l.Status,
		DecidedBy: l.DecidedBy,
		DecidedAt: l.DecidedAt,
		CreatedAt: l.CreatedAt,
	}
}

type HolidayResponse struct {
	ID   uuid.UUID `json:"id"`
	Date string    `json:"date"`
	Name string    `json:"name"`
}

func NewHolidayResponse(h repository.Holiday) HolidayResponse {
	return HolidayResponse{ID: h.ID, Date: h.Date.Format(dateLayout), Name: h.Name}
}
