package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"fmt"
	"sync"
	"time"

	domainauth "github.com/luminara/journey-api/internal/domain/auth"
	"github.com/luminara/journey-api/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.Authenticator     = (*StubAuthenticator)(nil)
	_ ports.FederatedProvider = (*MockFederatedProvider)(nil)
)

// DefaultUser is returned by the doubles when no user is configured.
func DefaultUser() domainauth.User {
	return domainauth.User{
		ID:        "user_mock00001",
		Name:      "Mock User",
		Email:     "mock.user@example.com",
		Provider:  domainauth.ProviderEmail,
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// StubAuthenticator answers every call with User/Err unless a Func override is set.
// Setting Gate makes each call block until the gate is closed or the context ends.
type StubAuthenticator struct {
	AuthenticateFunc func(ctx context.Context, creds domainauth.Credentials) (domainauth.User, error)
	RegisterFunc     func(ctx context.Context, reg domainauth.Registration) (domainauth.User, error)

	User domainauth.User
	Err  error
	Gate chan struct{}

	mu    sync.Mutex
	calls int
}

// NewStubAuthenticator returns a stub that accepts everything as DefaultUser.
func NewStubAuthenticator() *StubAuthenticator {
	return &StubAuthenticator{User: DefaultUser()}
}

// Calls returns how many Authenticate or Register calls were made.
func (s *StubAuthenticator) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *StubAuthenticator) wait(ctx context.Context) error {
	s.mu.Lock()
	s.calls++
	gate := s.Gate
	s.mu.Unlock()
	if gate == nil {
		return nil
	}
	select {
	case <-gate:
		return nil
	case <-ctx.Done():
		return domainauth.NewError(domainauth.CodeCanceled, ctx.Err())
	}
}

func (s *StubAuthenticator) Authenticate(ctx context.Context, creds domainauth.Credentials) (domainauth.User, error) {
	if err := s.wait(ctx); err != nil {
		return domainauth.User{}, err
	}
	if s.AuthenticateFunc != nil {
		return s.AuthenticateFunc(ctx, creds)
	}
	if s.Err != nil {
		return domainauth.User{}, s.Err
	}
	u := s.User
	u.Email = creds.Email
	return u, nil
}

func (s *StubAuthenticator) Register(ctx context.Context, reg domainauth.Registration) (domainauth.User, error) {
	if err := s.wait(ctx); err != nil {
		return domainauth.User{}, err
	}
	if s.RegisterFunc != nil {
		return s.RegisterFunc(ctx, reg)
	}
	if s.Err != nil {
		return domainauth.User{}, s.Err
	}
	u := s.User
	u.Name = reg.Name
	u.Email = reg.Email
	return u, nil
}

// MockFederatedProvider simulates an IdP for tests with deterministic state/nonce handling.
type MockFederatedProvider struct {
	BeginFunc    func(ctx context.Context, in ports.BeginInput) (authURL, state, nonce string, err error)
	ExchangeFunc func(ctx context.Context, in ports.ExchangeInput) (domainauth.User, error)

	AuthURL     string
	StatePrefix string
	NoncePrefix string
	DefaultUser domainauth.User

	mu        sync.Mutex
	callCount int
}

// NewMockFederatedProvider creates a MockFederatedProvider with sensible defaults.
func NewMockFederatedProvider() *MockFederatedProvider {
	u := DefaultUser()
	u.ID = "google_mock00001"
	u.Provider = domainauth.ProviderGoogle
	return &MockFederatedProvider{
		AuthURL:     "https://mock-idp/auth",
		StatePrefix: "state",
		NoncePrefix: "nonce",
		DefaultUser: u,
	}
}

func (m *MockFederatedProvider) Begin(ctx context.Context, in ports.BeginInput) (string, string, string, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx, in)
	}

	m.mu.Lock()
	m.callCount++
	n := m.callCount
	m.mu.Unlock()

	authURL := m.AuthURL
	if authURL == "" {
		authURL = "https://mock-idp/auth"
	}
	statePrefix := m.StatePrefix
	if statePrefix == "" {
		statePrefix = "state"
	}
	noncePrefix := m.NoncePrefix
	if noncePrefix == "" {
		noncePrefix = "nonce"
	}
	return authURL, fmt.Sprintf("%s-%d", statePrefix, n), fmt.Sprintf("%s-%d", noncePrefix, n), nil
}

func (m *MockFederatedProvider) Exchange(ctx context.Context, in ports.ExchangeInput) (domainauth.User, error) {
	if m.ExchangeFunc != nil {
		return m.ExchangeFunc(ctx, in)
	}
	if in.Code == "" {
		return domainauth.User{}, domainauth.NewError(domainauth.CodeInvalidInput, fmt.Errorf("missing code"))
	}
	u := m.DefaultUser
	if u.ID == "" {
		u = DefaultUser()
		u.Provider = domainauth.ProviderGoogle
	}
	return u, nil
}
