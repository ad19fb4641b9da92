package service

import (
	"context"
	"errors"
	"strings"

	"crmhr_backend/internal/users/repository"
	"crmhr_backend/internal/users/transport"
	"crmhr_backend/platform/apperr"
	"crmhr_backend/platform/phone"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Service struct {
	repo *repository.Repository
}

func New(repo *repository.Repository) *Service {
	return &Service{repo: repo}
}

// Create registers a new user account. Email is unique store-wide.
func (s *Service) Create(ctx context.Context, req transport.CreateUserRequest) (transport.UserResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return transport.UserResponse{}, err
	}

	user, err := s.repo.Create(ctx, repository.CreateUserParams{
		Name:            strings.TrimSpace(req.Name),
		Email:           strings.TrimSpace(req.Email),
		Phone:           phone.NormalizeE164(req.Phone),
		PasswordHash:    string(hash),
		Role:            req.Role,
		Position:        strings.TrimSpace(req.Position),
		BaseSalaryCents: req.BaseSalaryCents,
	})
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return transport.UserResponse{}, apperr.Conflict("a user with this email already exists")
		}
		return transport.UserResponse{}, err
	}

	return toUserResponse(user), nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (transport.UserResponse, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.UserResponse{}, apperr.NotFound("user not found")
		}
		return transport.UserResponse{}, err
	}
	return toUserResponse(user), nil
}

func (s *Service) List(ctx context.Context, page, limit int) (transport.ListUsersResponse, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	users, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return transport.ListUsersResponse{}, 0, err
	}

	items := make([]transport.UserResponse, len(users))
	for i, user := range users {
		items[i] = toUserResponse(user)
	}
	return transport.ListUsersResponse{Items: items}, total, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateUserRequest) (transport.UserResponse, error) {
	params := repository.UpdateUserParams{
		Name:            req.Name,
		Role:            req.Role,
		Position:        req.Position,
		BaseSalaryCents: req.BaseSalaryCents,
	}
	if req.Phone != nil {
		normalized := phone.NormalizeE164(*req.Phone)
		params.Phone = &normalized
	}

	user, err := s.repo.Update(ctx, id, params)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.UserResponse{}, apperr.NotFound("user not found")
		}
		return transport.UserResponse{}, err
	}
	return toUserResponse(user), nil
}

// Deactivate disables login and removes the user from assignment resolution.
func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("user not found")
		}
		return err
	}
	return nil
}

// ResolveAssigneeByName resolves a free-text name to an active user.
// An unresolved name is not an error; callers receive nil.
func (s *Service) ResolveAssigneeByName(ctx context.Context, name string) (*transport.UserResponse, error) {
	if strings.TrimSpace(name) == "" {
		return nil, nil
	}

	user, err := s.repo.FindActiveByName(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	resp := toUserResponse(user)
	return &resp, nil
}

func toUserResponse(user repository.User) transport.UserResponse {
	return transport.UserResponse{
		ID:              user.ID,
		Name:            user.Name,
		Email:           user.Email,
		Phone:           user.Phone,
		Role:            user.Role,
		Position:        user.Position,
		BaseSalaryCents: user.BaseSalaryCents,
		IsActive:        user.IsActive,
		CreatedAt:       user.CreatedAt,
		UpdatedAt:       user.UpdatedAt,
	}
}
