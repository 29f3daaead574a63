package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	apperrors "github.com/luminara/journey-api/internal/errors"
	"github.com/luminara/journey-api/internal/observability/metrics"
	"github.com/luminara/journey-api/internal/observability/statsd"
	"github.com/luminara/journey-api/internal/ports"
)

// Workspace holds the containers of one scope.
type Workspace struct {
	Scope string
	Onboarding

	restoreMu sync.Mutex
	restored  bool
	lastSeen  time.Time
}

// restore loads both records once. A store failure leaves the workspace
// unrestored so the next request tries again.
func (ws *Workspace) restore(ctx context.Context) error {
	ws.restoreMu.Lock()
	defer ws.restoreMu.Unlock()
	if ws.restored {
		return nil
	}
	if err := errors.Join(ws.Session.Restore(ctx), ws.Journey.Restore(ctx)); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeUnavailable, "Session state is temporarily unavailable.")
	}
	ws.restored = true
	return nil
}

// WorkspacesOptions groups dependencies for Workspaces.
type WorkspacesOptions struct {
	Store         ports.StateStore        // Required: shared persistence for every scope
	Authenticator ports.Authenticator     // Required: email login and registration
	Federated     ports.FederatedProvider // Optional: Google sign-in
	AuthTimeout   time.Duration           // Optional: upper bound for one authentication call
	Logger        *slog.Logger            // Optional: structured logger
	Metrics       statsd.Sink             // Optional: metrics sink (StatsD-compatible)
	Now           func() time.Time        // Optional: clock, defaults to time.Now
}

// Workspaces maps scopes to their containers. Workspaces are created on first
// use and restored from the store once; a failed restore is retried on the next Get.
type Workspaces struct {
	opts   WorkspacesOptions
	logger *slog.Logger
	now    func() time.Time

	mu    sync.Mutex
	items map[string]*Workspace
}

// NewWorkspaces constructs an empty registry.
func NewWorkspaces(opts WorkspacesOptions) (*Workspaces, error) {
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
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Workspaces{
		opts:   opts,
		logger: logger.With("component", "workspaces"),
		now:    now,
		items:  make(map[string]*Workspace),
	}, nil
}

// Get returns the restored workspace for scope, creating it when needed.
func (w *Workspaces) Get(ctx context.Context, scope string) (*Workspace, error) {
	if scope == "" {
		return nil, errors.New("scope is required")
	}

	w.mu.Lock()
	ws, ok := w.items[scope]
	if !ok {
		var err error
		ws, err = w.create(scope)
		if err != nil {
			w.mu.Unlock()
			return nil, err
		}
		w.items[scope] = ws
	}
	ws.lastSeen = w.now()
	w.mu.Unlock()

	if err := ws.restore(ctx); err != nil {
		return nil, err
	}
	return ws, nil
}

func (w *Workspaces) create(scope string) (*Workspace, error) {
	session, err := NewSession(SessionOptions{
		Scope:         scope,
		Store:         w.opts.Store,
		Authenticator: w.opts.Authenticator,
		Federated:     w.opts.Federated,
		Timeout:       w.opts.AuthTimeout,
		Logger:        w.opts.Logger,
		Metrics:       w.opts.Metrics,
	})
	if err != nil {
		return nil, err
	}
	jr, err := NewJourney(JourneyOptions{
		Scope:   scope,
		Store:   w.opts.Store,
		Logger:  w.opts.Logger,
		Metrics: w.opts.Metrics,
	})
	if err != nil {
		return nil, err
	}
	return &Workspace{Scope: scope, Onboarding: Onboarding{Session: session, Journey: jr}}, nil
}

// Len returns the number of live workspaces.
func (w *Workspaces) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.items)
}

// Sweep drops workspaces idle for longer than idle. Workspaces with an
// authentication call in flight are kept. Persisted records are not touched.
func (w *Workspaces) Sweep(ctx context.Context, idle time.Duration) int {
	cutoff := w.now().Add(-idle)

	w.mu.Lock()
	evicted := 0
	for scope, ws := range w.items {
		if ws.lastSeen.After(cutoff) || ws.Session.Pending() {
			continue
		}
		delete(w.items, scope)
		evicted++
	}
	w.mu.Unlock()

	if evicted > 0 {
		w.logger.DebugContext(ctx, "evicted idle workspaces", "count", evicted, "idle", idle)
	}
	metrics.EmitWorkspaces(w.opts.Metrics, evicted)
	return evicted
}
