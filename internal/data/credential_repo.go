package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	domainauth "github.com/luminara/journey-api/internal/domain/auth"
	apperrors "github.com/luminara/journey-api/internal/errors"
)

// Credential is a directory account: the user record plus its password hash.
type Credential struct {
	User         domainauth.User
	PasswordHash string
}

// CredentialRepo provides database operations for email/password accounts.
type CredentialRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewCredentialRepo creates a CredentialRepo using the system clock.
func NewCredentialRepo(db *sql.DB) *CredentialRepo {
	return &CredentialRepo{DB: db, timeProvider: RealTimeProvider{}}
}

// Create inserts a new account. A duplicate email returns ErrEmailTaken.
func (r *CredentialRepo) Create(ctx context.Context, c Credential) (domainauth.User, error) {
	u := c.User
	if u.CreatedAt.IsZero() {
		u.CreatedAt = r.timeProvider.Now().UTC().Truncate(time.Millisecond)
	}

	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO credentials (user_id, email, name, avatar, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, u.ID, strings.TrimSpace(u.Email), u.Name, u.Avatar, c.PasswordHash, u.CreatedAt)
	if err != nil {
		mapped := apperrors.MapDBError(err)
		if apperrors.IsConflict(mapped) {
			return domainauth.User{}, fmt.Errorf("%w: %w", ErrEmailTaken, mapped)
		}
		return domainauth.User{}, fmt.Errorf("create credential: %w", mapped)
	}
	return u, nil
}

// GetByEmail looks up an account by case-insensitive email.
func (r *CredentialRepo) GetByEmail(ctx context.Context, email string) (Credential, error) {
	var c Credential
	err := r.DB.QueryRowContext(ctx, `
		SELECT user_id, email, name, avatar, password_hash, created_at
		FROM credentials WHERE lower(email) = lower($1)
	`, strings.TrimSpace(email)).Scan(
		&c.User.ID, &c.User.Email, &c.User.Name, &c.User.Avatar, &c.PasswordHash, &c.User.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Credential{}, ErrCredentialNotFound
	}
	if err != nil {
		return Credential{}, fmt.Errorf("get credential: %w", apperrors.MapDBError(err))
	}
	c.User.Provider = domainauth.ProviderEmail
	c.User.CreatedAt = c.User.CreatedAt.UTC()
	return c, nil
}
