package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	domainauth "github.com/luminara/journey-api/internal/domain/auth"
	"github.com/luminara/journey-api/internal/observability/metrics"
	"github.com/luminara/journey-api/internal/observability/statsd"
	"github.com/luminara/journey-api/internal/ports"
)

// SessionOptions groups dependencies for Session.
type SessionOptions struct {
	Scope         string                  // Required: storage partition for this browser session
	Store         ports.StateStore        // Required: persistence for the user-session record
	Authenticator ports.Authenticator     // Required: email login and registration
	Federated     ports.FederatedProvider // Optional: Google sign-in
	Timeout       time.Duration           // Optional: upper bound for one authentication call
	Logger        *slog.Logger            // Optional: structured logger
	Metrics       statsd.Sink             // Optional: metrics sink (StatsD-compatible)
}

// Session owns the authentication state of one scope.
//
// At most one authentication call runs at a time. A second Login, Register or
// LoginWithGoogle while one is pending fails with domainauth.ErrInProgress.
// A Logout supersedes a pending call: its result is dropped and the caller gets
// a CodeCanceled error.
type Session struct {
	scope     string
	store     ports.StateStore
	auth      ports.Authenticator
	federated ports.FederatedProvider
	timeout   time.Duration
	logger    *slog.Logger
	metrics   statsd.Sink

	// writeMu orders record writes against Logout.
	writeMu sync.Mutex

	mu      sync.Mutex
	state   domainauth.SessionState
	pending bool
	gen     uint64
}

// NewSession constructs a Session in the loading state. Call Restore before use.
func NewSession(opts SessionOptions) (*Session, error) {
	if opts.Store == nil {
		return nil, errors.New("StateStore is required")
	}
	if opts.Authenticator == nil {
		return nil, errors.New("Authenticator is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Session{
		scope:     opts.Scope,
		store:     opts.Store,
		auth:      opts.Authenticator,
		federated: opts.Federated,
		timeout:   opts.Timeout,
		logger:    logger.With("component", "session", "scope", opts.Scope),
		metrics:   opts.Metrics,
		state:     domainauth.NewLoadingSession(),
	}, nil
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() domainauth.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domainauth.SessionFor(s.state.User).WithLoading(s.state.Loading)
}

// User returns the signed-in user, if any.
func (s *Session) User() (domainauth.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.User == nil {
		return domainauth.User{}, false
	}
	return *s.state.User, true
}

// Restore loads the persisted user. A missing or unreadable record yields the
// signed-out state. A store failure also yields the signed-out state but is
// returned so the caller can retry instead of treating the scope as empty.
func (s *Session) Restore(ctx context.Context) error {
	var user *domainauth.User

	raw, err := s.store.Load(ctx, s.scope, ports.KeyUserSession)
	switch {
	case errors.Is(err, ports.ErrNotFound):
		err = nil
	case err != nil:
		s.logger.WarnContext(ctx, "load session record failed", "error", err)
		err = fmt.Errorf("load session record: %w", err)
	default:
		var u domainauth.User
		if err := json.Unmarshal(raw, &u); err != nil || u.ID == "" {
			s.logger.WarnContext(ctx, "discarding unreadable session record", "error", err)
		} else {
			user = &u
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = domainauth.SessionFor(user)
	return err
}

// Login verifies email credentials.
func (s *Session) Login(ctx context.Context, creds domainauth.Credentials) (domainauth.User, error) {
	return s.login(ctx, creds, nil)
}

// Register creates an email account and signs it in.
func (s *Session) Register(ctx context.Context, reg domainauth.Registration) (domainauth.User, error) {
	return s.register(ctx, reg, nil)
}

// LoginWithGoogle completes a federated sign-in from the provider callback.
func (s *Session) LoginWithGoogle(ctx context.Context, in ports.ExchangeInput) (domainauth.User, error) {
	return s.loginWithGoogle(ctx, in, nil)
}

func (s *Session) login(ctx context.Context, creds domainauth.Credentials, then func(context.Context)) (domainauth.User, error) {
	return s.attempt(ctx, "login", domainauth.ProviderEmail, func(ctx context.Context) (domainauth.User, error) {
		return s.auth.Authenticate(ctx, creds)
	}, then)
}

func (s *Session) register(ctx context.Context, reg domainauth.Registration, then func(context.Context)) (domainauth.User, error) {
	return s.attempt(ctx, "register", domainauth.ProviderEmail, func(ctx context.Context) (domainauth.User, error) {
		return s.auth.Register(ctx, reg)
	}, then)
}

func (s *Session) loginWithGoogle(ctx context.Context, in ports.ExchangeInput, then func(context.Context)) (domainauth.User, error) {
	if s.federated == nil {
		return domainauth.User{}, domainauth.NewError(domainauth.CodeUnavailable, errors.New("federated sign-in is not configured"))
	}
	return s.attempt(ctx, "federated", domainauth.ProviderGoogle, func(ctx context.Context) (domainauth.User, error) {
		return s.federated.Exchange(ctx, in)
	}, then)
}

// Logout removes both persisted records and resets to the signed-out state.
// The reset happens even when the store fails. A pending authentication call
// is superseded and will not sign the user back in.
func (s *Session) Logout(ctx context.Context) {
	s.logout(ctx, nil)
}

// logout runs reset while record writes are still held off.
func (s *Session) logout(ctx context.Context, reset func()) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	s.gen++
	s.pending = false
	s.state = domainauth.SessionFor(nil)
	s.mu.Unlock()

	if err := s.store.Delete(ctx, s.scope, ports.KeyUserSession, ports.KeyJourneyState); err != nil {
		s.logger.WarnContext(ctx, "delete session records failed", "error", err)
	}
	if reset != nil {
		reset()
	}

	metrics.EmitAuth(s.metrics, metrics.AuthMetric{Operation: "logout", Result: metrics.ResultSuccess})
}

// UpdateProfile merges the set fields into the signed-in user and persists it.
// It reports false, and changes nothing, when nobody is signed in.
func (s *Session) UpdateProfile(ctx context.Context, upd domainauth.ProfileUpdate) (domainauth.User, bool) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	if s.state.User == nil {
		s.mu.Unlock()
		return domainauth.User{}, false
	}
	u := upd.Apply(*s.state.User)
	s.state = domainauth.SessionFor(&u).WithLoading(s.state.Loading)
	s.mu.Unlock()

	s.persist(ctx, u)
	return u, true
}

// Pending reports whether an authentication call is in flight.
func (s *Session) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

func (s *Session) attempt(
	ctx context.Context,
	operation string,
	provider domainauth.Provider,
	call func(context.Context) (domainauth.User, error),
	then func(context.Context),
) (domainauth.User, error) {
	gen, err := s.begin()
	if err != nil {
		metrics.EmitAuth(s.metrics, metrics.AuthMetric{
			Operation: operation,
			Provider:  string(provider),
			Result:    metrics.ResultError,
			Code:      string(domainauth.CodeInProgress),
		})
		return domainauth.User{}, err
	}

	callCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	u, err := call(callCtx)
	elapsed := time.Since(start)

	if err != nil {
		s.end(gen, nil)
		code := domainauth.CodeOf(err)
		s.logger.InfoContext(ctx, "authentication failed", "operation", operation, "code", code, "error", err)
		metrics.EmitAuth(s.metrics, metrics.AuthMetric{
			Operation: operation,
			Provider:  string(provider),
			Result:    metrics.ResultError,
			Code:      string(code),
			Duration:  elapsed,
		})
		return domainauth.User{}, err
	}

	if !s.settle(ctx, gen, u, then) {
		s.logger.InfoContext(ctx, "authentication superseded by logout", "operation", operation, "user_id", u.ID)
		metrics.EmitAuth(s.metrics, metrics.AuthMetric{
			Operation: operation,
			Provider:  string(provider),
			Result:    metrics.ResultError,
			Code:      string(domainauth.CodeCanceled),
			Duration:  elapsed,
		})
		return domainauth.User{}, domainauth.NewError(domainauth.CodeCanceled, errors.New("signed out while authenticating"))
	}
	s.logger.InfoContext(ctx, "authenticated", "operation", operation, "user_id", u.ID, "provider", u.Provider)
	metrics.EmitAuth(s.metrics, metrics.AuthMetric{
		Operation: operation,
		Provider:  string(provider),
		Result:    metrics.ResultSuccess,
		Duration:  elapsed,
	})
	return u, nil
}

func (s *Session) begin() (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending {
		return 0, domainauth.ErrInProgress
	}
	s.pending = true
	s.state.Loading = true
	return s.gen, nil
}

// settle signs u in, persists it and runs then, unless a Logout happened since
// the attempt began.
func (s *Session) settle(ctx context.Context, gen uint64, u domainauth.User, then func(context.Context)) bool {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if !s.end(gen, &u) {
		return false
	}
	s.persist(ctx, u)
	if then != nil {
		then(ctx)
	}
	return true
}

// end settles an attempt. A nil user keeps whatever was signed in before.
// It reports false, changing nothing, when the attempt was superseded.
func (s *Session) end(gen uint64, u *domainauth.User) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return false
	}
	s.pending = false
	if u != nil {
		s.state = domainauth.SessionFor(u)
		return true
	}
	s.state.Loading = false
	return true
}

func (s *Session) persist(ctx context.Context, u domainauth.User) {
	raw, err := json.Marshal(u)
	if err != nil {
		s.logger.ErrorContext(ctx, "encode session record failed", "error", err)
		return
	}
	if err := s.store.Save(ctx, s.scope, ports.KeyUserSession, raw); err != nil {
		s.logger.WarnContext(ctx, "save session record failed", "error", fmt.Errorf("scope %s: %w", s.scope, err))
	}
}
