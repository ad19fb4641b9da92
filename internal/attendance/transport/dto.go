// Package transport defines the request and response shapes of the
// attendance API.
package transport

import (
	"time"

	"crmhr_backend/internal/attendance/repository"

	"github.com/google/uuid"
)

type CreateOfficeRequest struct {
	Name         string  `json:"name" binding:"required"`
	Address      string  `json:"address"`
	Latitude     float64 `json:"latitude" binding:"required,gte=-90,lte=90"`
	Longitude    float64 `json:"longitude" binding:"required,gte=-180,lte=180"`
	RadiusMeters float64 `json:"radiusMeters" binding:"required,gt=0"`
}

type UpdateOfficeRequest struct {
	Name         *string  `json:"name"`
	Address      *string  `json:"address"`
	Latitude     *float64 `json:"latitude" binding:"omitempty,gte=-90,lte=90"`
	Longitude    *float64 `json:"longitude" binding:"omitempty,gte=-180,lte=180"`
	RadiusMeters *float64 `json:"radiusMeters" binding:"omitempty,gt=0"`
}

type OfficeResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Address      string    `json:"address,omitempty"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	RadiusMeters float64   `json:"radiusMeters"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
}

func NewOfficeResponse(o repository.Office) OfficeResponse {
	return OfficeResponse{
		ID:           o.ID,
		Name:         o.Name,
		Address:      o.Address,
		Latitude:     o.Latitude,
		Longitude:    o.Longitude,
		RadiusMeters: o.RadiusMeters,
		IsActive:     o.IsActive,
		CreatedAt:    o.CreatedAt,
	}
}

type ClockInRequest struct {
	OfficeID  uuid.UUID `json:"officeId" binding:"required"`
	Latitude  float64   `json:"latitude" binding:"required,gte=-90,lte=90"`
	Longitude float64   `json:"longitude" binding:"required,gte=-180,lte=180"`
}

type ClockOutRequest struct {
	Latitude  float64 `json:"latitude" binding:"required,gte=-90,lte=90"`
	Longitude float64 `json:"longitude" binding:"required,gte=-180,lte=180"`
}

type SessionResponse struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"userId"`
	OfficeID   uuid.UUID  `json:"officeId"`
	WorkDate   string     `json:"workDate"`
	ClockInAt  time.Time  `json:"clockInAt"`
	ClockOutAt *time.Time `json:"clockOutAt,omitempty"`
	AutoClosed bool       `json:"autoClosed"`
}

func NewSessionResponse(s repository.Session) SessionResponse {
	return SessionResponse{
		ID:         s.ID,
		UserID:     s.UserID,
		OfficeID:   s.OfficeID,
		WorkDate:   s.WorkDate.Format("2006-01-02"),
		ClockInAt:  s.ClockInAt,
		ClockOutAt: s.ClockOutAt,
		AutoClosed: s.AutoClosed,
	}
}
