package ports

// Package ports defines interfaces (hexagonal ports) for identity and state persistence.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"

	domainauth "github.com/luminara/journey-api/internal/domain/auth"
)

// Authenticator verifies email credentials and creates accounts.
// Failures are returned as *domainauth.Error.
type Authenticator interface {
	Authenticate(ctx context.Context, creds domainauth.Credentials) (domainauth.User, error)
	Register(ctx context.Context, reg domainauth.Registration) (domainauth.User, error)
}

// BeginInput carries inputs for initiating a federated sign-in.
type BeginInput struct {
	RedirectURL string
}

// ExchangeInput groups parameters for the code/token exchange.
type ExchangeInput struct {
	Code  string
	State string
	Nonce string
}

// FederatedProvider initiates and completes sign-in against an external identity provider.
type FederatedProvider interface {
	// Begin starts the login flow and returns the provider auth URL, an opaque state, and a nonce.
	Begin(ctx context.Context, in BeginInput) (authURL, state, nonce string, err error)

	// Exchange completes the login flow and returns the user record for the federated identity.
	Exchange(ctx context.Context, in ExchangeInput) (domainauth.User, error)
}
