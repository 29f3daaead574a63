// Package directory verifies email credentials against the Postgres account directory.
package directory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/luminara/journey-api/internal/data"
	domainauth "github.com/luminara/journey-api/internal/domain/auth"
	"github.com/luminara/journey-api/internal/ports"
)

// Accounts is the persistence the authenticator needs. *data.CredentialRepo satisfies it.
type Accounts interface {
	Create(ctx context.Context, c data.Credential) (domainauth.User, error)
	GetByEmail(ctx context.Context, email string) (data.Credential, error)
}

var _ ports.Authenticator = (*Authenticator)(nil)

// Authenticator implements ports.Authenticator with argon2id password hashes.
type Authenticator struct {
	accounts Accounts
	params   HashParams
	now      func() time.Time
}

// Options configures an Authenticator.
type Options struct {
	Accounts Accounts
	// Params defaults to DefaultHashParams.
	Params *HashParams
}

// New constructs an Authenticator.
func New(opts Options) (*Authenticator, error) {
	if opts.Accounts == nil {
		return nil, errors.New("directory: accounts store is required")
	}
	params := DefaultHashParams
	if opts.Params != nil {
		params = *opts.Params
	}
	return &Authenticator{accounts: opts.Accounts, params: params, now: time.Now}, nil
}

func (a *Authenticator) Authenticate(ctx context.Context, creds domainauth.Credentials) (domainauth.User, error) {
	if err := creds.Validate(); err != nil {
		return domainauth.User{}, domainauth.NewError(domainauth.CodeInvalidInput, err)
	}

	cred, err := a.accounts.GetByEmail(ctx, creds.Email)
	if errors.Is(err, data.ErrCredentialNotFound) {
		return domainauth.User{}, domainauth.NewError(domainauth.CodeInvalidCredentials, err)
	}
	if err != nil {
		return domainauth.User{}, storeError(ctx, err)
	}

	ok, err := VerifyPassword(creds.Password, cred.PasswordHash)
	if err != nil {
		return domainauth.User{}, domainauth.NewError(domainauth.CodeUnavailable, fmt.Errorf("verify password: %w", err))
	}
	if !ok {
		return domainauth.User{}, domainauth.NewError(domainauth.CodeInvalidCredentials, errors.New("password mismatch"))
	}
	return cred.User, nil
}

func (a *Authenticator) Register(ctx context.Context, reg domainauth.Registration) (domainauth.User, error) {
	if err := reg.Validate(); err != nil {
		return domainauth.User{}, domainauth.NewError(domainauth.CodeInvalidInput, err)
	}

	hash, err := HashPassword(reg.Password, a.params)
	if err != nil {
		return domainauth.User{}, domainauth.NewError(domainauth.CodeUnavailable, err)
	}

	u, err := a.accounts.Create(ctx, data.Credential{
		User: domainauth.User{
			ID:        domainauth.NewUserID("user_"),
			Name:      strings.TrimSpace(reg.Name),
			Email:     strings.TrimSpace(reg.Email),
			Provider:  domainauth.ProviderEmail,
			CreatedAt: a.now().UTC().Truncate(time.Millisecond),
		},
		PasswordHash: hash,
	})
	if errors.Is(err, data.ErrEmailTaken) {
		return domainauth.User{}, domainauth.NewError(domainauth.CodeConflict, err)
	}
	if err != nil {
		return domainauth.User{}, storeError(ctx, err)
	}
	return u, nil
}

func storeError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return domainauth.NewError(domainauth.CodeCanceled, err)
	}
	return domainauth.NewError(domainauth.CodeUnavailable, err)
}
