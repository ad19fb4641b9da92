package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Credentials is the subset of a user needed to authenticate.
type Credentials struct {
	UserID       uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	Role         string
	IsActive     bool
}

// GetCredentialsByEmail looks up login credentials by normalized email.
func (r *Repository) GetCredentialsByEmail(ctx context.Context, email string) (Credentials, error) {
	var creds Credentials
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, email, password_hash, role, is_active
		FROM users
		WHERE lower(email) = lower($1)
	`, email).Scan(&creds.UserID, &creds.Name, &creds.Email, &creds.PasswordHash, &creds.Role, &creds.IsActive)
	if errors.Is(err, pgx.ErrNoRows) {
		return Credentials{}, ErrNotFound
	}
	return creds, err
}

// GetCredentialsByID looks up credentials by user ID (used by refresh).
func (r *Repository) GetCredentialsByID(ctx context.Context, id uuid.UUID) (Credentials, error) {
	var creds Credentials
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, email, password_hash, role, is_active
		FROM users
		WHERE id = $1
	`, id).Scan(&creds.UserID, &creds.Name, &creds.Email, &creds.PasswordHash, &creds.Role, &creds.IsActive)
	if errors.Is(err, pgx.ErrNoRows) {
		return Credentials{}, ErrNotFound
	}
	return creds, err
}

// StoreRefreshToken persists the hash of a refresh token.
func (r *Repository) StoreRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO refresh_tokens (user_id, token_hash, expires_at)
		VALUES ($1, $2, $3)
	`, userID, tokenHash, expiresAt)
	return err
}

// ConsumeRefreshToken deletes the token and returns its owner if it was valid
// and unexpired. Rotation: each refresh token is single use.
func (r *Repository) ConsumeRefreshToken(ctx context.Context, tokenHash string) (uuid.UUID, error) {
	var userID uuid.UUID
	err := r.pool.QueryRow(ctx, `
		DELETE FROM refresh_tokens
		WHERE token_hash = $1 AND expires_at > now()
		RETURNING user_id
	`, tokenHash).Scan(&userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, ErrNotFound
	}
	return userID, err
}

// DeleteRefreshTokensForUser revokes every session for the user (logout-all).
func (r *Repository) DeleteRefreshTokensForUser(ctx context.Context, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM refresh_tokens WHERE user_id = $1`, userID)
	return err
}
