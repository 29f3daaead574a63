package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/luminara/journey-api/internal/domain/journey"
	"github.com/luminara/journey-api/internal/observability/metrics"
	"github.com/luminara/journey-api/internal/observability/statsd"
	"github.com/luminara/journey-api/internal/ports"
)

// JourneyOptions groups dependencies for Journey.
type JourneyOptions struct {
	Scope   string           // Required: storage partition for this browser session
	Store   ports.StateStore // Required: persistence for the journey-state record
	Logger  *slog.Logger     // Optional: structured logger
	Metrics statsd.Sink      // Optional: metrics sink (StatsD-compatible)
}

// Journey owns the journey state of one scope. Every mutation is persisted
// immediately; persistence failures are logged and the in-memory state wins.
type Journey struct {
	scope   string
	store   ports.StateStore
	logger  *slog.Logger
	metrics statsd.Sink

	mu    sync.Mutex
	state journey.State
}

// NewJourney constructs a Journey positioned on the first step.
func NewJourney(opts JourneyOptions) (*Journey, error) {
	if opts.Store == nil {
		return nil, errors.New("StateStore is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Journey{
		scope:   opts.Scope,
		store:   opts.Store,
		logger:  logger.With("component", "journey", "scope", opts.Scope),
		metrics: opts.Metrics,
		state:   journey.New(),
	}, nil
}

// Restore loads the persisted journey. A missing or unreadable record leaves the default journey.
// A store failure also leaves the default journey but is returned so the caller
// can retry before anything overwrites the stored record.
func (j *Journey) Restore(ctx context.Context) error {
	raw, err := j.store.Load(ctx, j.scope, ports.KeyJourneyState)
	if errors.Is(err, ports.ErrNotFound) {
		return nil
	}
	if err != nil {
		j.logger.WarnContext(ctx, "load journey record failed", "error", err)
		return fmt.Errorf("load journey record: %w", err)
	}

	st, err := journey.Restore(raw)
	if err != nil {
		j.logger.WarnContext(ctx, "discarding unreadable journey record", "error", err)
	}

	j.mu.Lock()
	j.state = st
	j.mu.Unlock()
	return nil
}

// Snapshot returns a copy of the current state.
func (j *Journey) Snapshot() journey.State {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.state.Clone()
}

// MarkStepComplete sets a step's completed flag. Unknown steps are ignored.
func (j *Journey) MarkStepComplete(ctx context.Context, id int, completed bool) journey.State {
	snap := j.mutate(ctx, func(s *journey.State) error {
		s.MarkStepComplete(id, completed)
		return nil
	})
	if _, ok := snap.Step(id); ok {
		transition := "completed"
		if !completed {
			transition = "reopened"
		}
		metrics.EmitStepTransition(j.metrics, id, transition)
	}
	return snap
}

// SetCurrentStep moves the pointer without a lock check. Unknown steps are ignored.
func (j *Journey) SetCurrentStep(ctx context.Context, id int) journey.State {
	return j.mutate(ctx, func(s *journey.State) error {
		s.SetCurrentStep(id)
		return nil
	})
}

// Navigate moves the pointer into an unlocked step. It returns journey.ErrUnknownStep
// or journey.ErrStepLocked, leaving the state untouched, when the move is refused.
func (j *Journey) Navigate(ctx context.Context, id int) (journey.State, error) {
	var navErr error
	snap := j.mutate(ctx, func(s *journey.State) error {
		navErr = s.Navigate(id)
		return navErr
	})
	if navErr != nil {
		return snap, navErr
	}
	metrics.EmitStepTransition(j.metrics, id, "navigated")
	return snap, nil
}

// UpdateUserData shallow-merges data into the data bag.
func (j *Journey) UpdateUserData(ctx context.Context, data map[string]any) journey.State {
	return j.mutate(ctx, func(s *journey.State) error {
		s.UpdateUserData(data)
		return nil
	})
}

// Reset returns the in-memory journey to its initial state without writing it.
// It follows a logout, which already removed the persisted record.
func (j *Journey) Reset() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.state = journey.New()
}

// mutate applies fn and persists the result. When fn fails nothing is written.
func (j *Journey) mutate(ctx context.Context, fn func(*journey.State) error) journey.State {
	j.mu.Lock()
	if err := fn(&j.state); err != nil {
		snap := j.state.Clone()
		j.mu.Unlock()
		return snap
	}
	snap := j.state.Clone()
	raw, err := snap.Marshal()
	j.mu.Unlock()

	if err != nil {
		j.logger.ErrorContext(ctx, "encode journey record failed", "error", err)
		return snap
	}
	if err := j.store.Save(ctx, j.scope, ports.KeyJourneyState, raw); err != nil {
		j.logger.WarnContext(ctx, "save journey record failed", "error", err)
	}
	return snap
}
