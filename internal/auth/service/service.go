package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"crmhr_backend/internal/auth/domain"
	"crmhr_backend/internal/auth/repository"
	"crmhr_backend/internal/auth/token"
	"crmhr_backend/internal/auth/transport"
	"crmhr_backend/platform/apperr"
	"crmhr_backend/platform/config"
	"crmhr_backend/platform/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	accessTokenType = "access"

	// msgInvalidCredentials never reveals whether email or password was wrong.
	msgInvalidCredentials = "invalid email or password"
)

type Service struct {
	repo *repository.Repository
	cfg  config.AuthServiceConfig
	log  *logger.Logger
}

func New(repo *repository.Repository, cfg config.AuthServiceConfig, log *logger.Logger) *Service {
	return &Service{repo: repo, cfg: cfg, log: log}
}

// Login verifies credentials and issues an access/refresh token pair.
func (s *Service) Login(ctx context.Context, req transport.LoginRequest) (transport.TokenPairResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	creds, err := s.repo.GetCredentialsByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.log.AuthEvent("login", email, false, "unknown email")
			return transport.TokenPairResponse{}, apperr.Unauthorized(msgInvalidCredentials)
		}
		return transport.TokenPairResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte(req.Password)); err != nil {
		s.log.AuthEvent("login", email, false, "bad password")
		return transport.TokenPairResponse{}, apperr.Unauthorized(msgInvalidCredentials)
	}

	if !creds.IsActive {
		s.log.AuthEvent("login", email, false, "inactive account")
		return transport.TokenPairResponse{}, apperr.Forbidden("account is deactivated")
	}

	pair, err := s.issueTokens(ctx, creds)
	if err != nil {
		return transport.TokenPairResponse{}, err
	}

	s.log.AuthEvent("login", email, true, "")
	return pair, nil
}

// Refresh rotates a refresh token into a new token pair.
func (s *Service) Refresh(ctx context.Context, rawRefreshToken string) (transport.TokenPairResponse, error) {
	if strings.TrimSpace(rawRefreshToken) == "" {
		return transport.TokenPairResponse{}, apperr.Unauthorized("missing refresh token")
	}

	userID, err := s.repo.ConsumeRefreshToken(ctx, token.HashSHA256(rawRefreshToken))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.TokenPairResponse{}, apperr.Unauthorized("invalid refresh token")
		}
		return transport.TokenPairResponse{}, err
	}

	creds, err := s.repo.GetCredentialsByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.TokenPairResponse{}, apperr.Unauthorized("invalid refresh token")
		}
		return transport.TokenPairResponse{}, err
	}
	if !creds.IsActive {
		return transport.TokenPairResponse{}, apperr.Forbidden("account is deactivated")
	}

	return s.issueTokens(ctx, creds)
}

// Logout revokes every refresh token for the user.
func (s *Service) Logout(ctx context.Context, userID uuid.UUID) error {
	return s.repo.DeleteRefreshTokensForUser(ctx, userID)
}

// Me returns the caller's own profile summary.
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (transport.MeResponse, error) {
	creds, err := s.repo.GetCredentialsByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.MeResponse{}, apperr.NotFound("user not found")
		}
		return transport.MeResponse{}, err
	}

	return transport.MeResponse{
		ID:    creds.UserID,
		Name:  creds.Name,
		Email: creds.Email,
		Role:  domain.ParseRole(creds.Role).String(),
	}, nil
}

func (s *Service) issueTokens(ctx context.Context, creds repository.Credentials) (transport.TokenPairResponse, error) {
	now := time.Now()
	accessExpiry := now.Add(s.cfg.GetAccessTokenTTL())

	claims := jwt.MapClaims{
		"sub":  creds.UserID.String(),
		"role": domain.ParseRole(creds.Role).String(),
		"type": accessTokenType,
		"iat":  now.Unix(),
		"exp":  accessExpiry.Unix(),
	}

	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(s.cfg.GetJWTAccessSecret()))
	if err != nil {
		return transport.TokenPairResponse{}, err
	}

	refreshToken, err := token.GenerateRandomToken(32)
	if err != nil {
		return transport.TokenPairResponse{}, err
	}

	refreshExpiry := now.Add(s.cfg.GetRefreshTokenTTL())
	if err := s.repo.StoreRefreshToken(ctx, creds.UserID, token.HashSHA256(refreshToken), refreshExpiry); err != nil {
		return transport.TokenPairResponse{}, err
	}

	return transport.TokenPairResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    accessExpiry,
	}, nil
}
