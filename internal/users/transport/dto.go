package transport

import (
	"time"

	"github.com/google/uuid"
)

type CreateUserRequest struct {
	Name            string `json:"name" validate:"required,min=2,max=120"`
	Email           string `json:"email" validate:"required,email"`
	Phone           string `json:"phone" validate:"omitempty,max=32"`
	Password        string `json:"password" validate:"required,min=8"`
	Role            string `json:"role" validate:"required,oneof=admin user"`
	Position        string `json:"position" validate:"omitempty,max=120"`
	BaseSalaryCents int64  `json:"baseSalaryCents" validate:"omitempty,min=0"`
}

type UpdateUserRequest struct {
	Name            *string `json:"name" validate:"omitempty,min=2,max=120"`
	Phone           *string `json:"phone" validate:"omitempty,max=32"`
	Role            *string `json:"role" validate:"omitempty,oneof=admin user"`
	Position        *string `json:"position" validate:"omitempty,max=120"`
	BaseSalaryCents *int64  `json:"baseSalaryCents" validate:"omitempty,min=0"`
}

type UserResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone"`
	Role            string    `json:"role"`
	Position        string    `json:"position"`
	BaseSalaryCents int64     `json:"baseSalaryCents"`
	IsActive        bool      `json:"isActive"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type ListUsersResponse struct {
	Items []UserResponse `json:"items"`
}
