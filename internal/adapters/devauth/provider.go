package devauth

// Package devauth provides a simulated identity backend for local development and demos.
// Every call succeeds after a fixed delay; no credential is ever checked.

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	domainauth "github.com/luminara/journey-api/internal/domain/auth"
	"github.com/luminara/journey-api/internal/ports"
)

// Fixed federated identity returned by Exchange.
const (
	FederatedName   = "John Doe"
	FederatedEmail  = "john.doe@gmail.com"
	FederatedAvatar = "https://storage.googleapis.com/workspace-0f70711f-8b4e-4d94-86f1-2a93ccde5887/image/" +
		"7c4e8037-3c49-4307-9e76-612c38f7ae2d.png"
)

// Config controls the simulated latency of each operation.
type Config struct {
	LoginDelay    time.Duration
	FederateDelay time.Duration
	RegisterDelay time.Duration
	// Now defaults to time.Now.
	Now func() time.Time
}

// DefaultConfig returns the reference delays.
func DefaultConfig() Config {
	return Config{
		LoginDelay:    1000 * time.Millisecond,
		FederateDelay: 1500 * time.Millisecond,
		RegisterDelay: 1200 * time.Millisecond,
	}
}

var (
	_ ports.Authenticator     = (*Provider)(nil)
	_ ports.FederatedProvider = (*Provider)(nil)
)

// Provider fabricates user records.
// Begin short-circuits the federated flow by redirecting straight back to our own callback.
type Provider struct {
	cfg Config
}

// NewProvider constructs a simulated provider.
func NewProvider(cfg Config) *Provider {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Provider{cfg: cfg}
}

// Authenticate accepts any non-empty credentials and derives the name from the email.
func (p *Provider) Authenticate(ctx context.Context, creds domainauth.Credentials) (domainauth.User, error) {
	if err := creds.Validate(); err != nil {
		return domainauth.User{}, domainauth.NewError(domainauth.CodeInvalidInput, err)
	}
	if err := sleep(ctx, p.cfg.LoginDelay); err != nil {
		return domainauth.User{}, err
	}
	email := strings.TrimSpace(creds.Email)
	return domainauth.User{
		ID:        domainauth.NewUserID("user_"),
		Name:      domainauth.NameFromEmail(email),
		Email:     email,
		Provider:  domainauth.ProviderEmail,
		CreatedAt: p.cfg.Now().UTC(),
	}, nil
}

// Register builds the record from the supplied fields.
func (p *Provider) Register(ctx context.Context, reg domainauth.Registration) (domainauth.User, error) {
	if err := reg.Validate(); err != nil {
		return domainauth.User{}, domainauth.NewError(domainauth.CodeInvalidInput, err)
	}
	if err := sleep(ctx, p.cfg.RegisterDelay); err != nil {
		return domainauth.User{}, err
	}
	return domainauth.User{
		ID:        domainauth.NewUserID("user_"),
		Name:      strings.TrimSpace(reg.Name),
		Email:     strings.TrimSpace(reg.Email),
		Provider:  domainauth.ProviderEmail,
		CreatedAt: p.cfg.Now().UTC(),
	}, nil
}

// Begin returns a local callback URL with a generated state and nonce.
func (p *Provider) Begin(_ context.Context, _ ports.BeginInput) (string, string, string, error) {
	state, err := randomString(24)
	if err != nil {
		return "", "", "", fmt.Errorf("generate state: %w", err)
	}
	nonce, err := randomString(24)
	if err != nil {
		return "", "", "", fmt.Errorf("generate nonce: %w", err)
	}
	return "/auth/callback?code=dev&state=" + state, state, nonce, nil
}

// Exchange ignores the code and returns the fixed federated identity.
func (p *Provider) Exchange(ctx context.Context, _ ports.ExchangeInput) (domainauth.User, error) {
	if err := sleep(ctx, p.cfg.FederateDelay); err != nil {
		return domainauth.User{}, err
	}
	return domainauth.User{
		ID:        domainauth.NewUserID("google_"),
		Name:      FederatedName,
		Email:     FederatedEmail,
		Avatar:    FederatedAvatar,
		Provider:  domainauth.ProviderGoogle,
		CreatedAt: p.cfg.Now().UTC(),
	}, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return domainauth.NewError(domainauth.CodeCanceled, ctx.Err())
	}
}

func randomString(n int) (string, error) {
	b := make([]byte, (n*3+3)/4+1)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b)[:n], nil
}
