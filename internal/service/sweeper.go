package service

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/luminara/journey-api/config"
	"github.com/luminara/journey-api/internal/observability/metrics"
	"github.com/luminara/journey-api/internal/observability/statsd"
)

// RecordPurger deletes persisted records that have not been written for maxAge.
type RecordPurger interface {
	PurgeIdle(ctx context.Context, maxAge time.Duration) (int64, error)
}

// WorkspaceSweeper evicts idle in-memory workspaces.
type WorkspaceSweeper interface {
	Sweep(ctx context.Context, idle time.Duration) int
}

// SweeperServiceOptions groups dependencies for SweeperService.
type SweeperServiceOptions struct {
	Workspaces WorkspaceSweeper     // Optional: in-memory registry to sweep
	Purger     RecordPurger         // Optional: persisted state to purge
	Config     config.SweeperConfig // Required: sweeper configuration
	Logger     *slog.Logger         // Optional: structured logger
	Metrics    statsd.Sink          // Optional: metrics sink (StatsD-compatible)
}

// SweeperService periodically evicts idle workspaces and purges stale records.
type SweeperService struct {
	workspaces WorkspaceSweeper
	purger     RecordPurger
	config     config.SweeperConfig
	logger     *slog.Logger
	metrics    statsd.Sink
}

// NewSweeperService constructs a new SweeperService.
func NewSweeperService(opts SweeperServiceOptions) (*SweeperService, error) {
	if opts.Workspaces == nil && opts.Purger == nil {
		return nil, errors.New("sweeper needs a workspace registry or a record purger")
	}
	if opts.Config.Interval <= 0 {
		return nil, errors.New("sweeper interval must be positive")
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "sweeper_service")
		logger.Debug("SweeperService initialized",
			"interval", opts.Config.Interval,
			"idle_ttl", opts.Config.IdleTTL,
			"record_max_age", opts.Config.RecordMaxAge,
		)
	}

	return &SweeperService{
		workspaces: opts.Workspaces,
		purger:     opts.Purger,
		config:     opts.Config,
		logger:     logger,
		metrics:    opts.Metrics,
	}, nil
}

// Run sweeps at the configured interval until the context is cancelled.
// Returns nil on graceful shutdown (context.Canceled), error otherwise.
func (s *SweeperService) Run(ctx context.Context) error {
	if s.logger != nil {
		s.logger.InfoContext(ctx, "starting sweeper service", "interval", s.config.Interval)
	}

	// Instances started together should not all hit the store at once.
	s.waitWithJitter(ctx)

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	if err := s.SweepOnce(ctx); err != nil {
		s.logSweepError(err, "initial sweep")
	}

	for {
		select {
		case <-ctx.Done():
			if s.logger != nil {
				s.logger.InfoContext(ctx, "sweeper service stopping", "reason", ctx.Err())
			}
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()

		case <-ticker.C:
			if err := s.SweepOnce(ctx); err != nil {
				s.logSweepError(err, "sweep")
			}
		}
	}
}

// SweepOnce runs one eviction and purge pass.
func (s *SweeperService) SweepOnce(ctx context.Context) error {
	start := time.Now()

	if s.workspaces != nil {
		s.workspaces.Sweep(ctx, s.config.IdleTTL)
	}

	var purged int64
	var err error
	if s.purger != nil {
		purged, err = s.purger.PurgeIdle(ctx, s.config.RecordMaxAge)
		if err != nil {
			err = fmt.Errorf("purge idle records: %w", err)
		} else if purged > 0 && s.logger != nil {
			s.logger.InfoContext(ctx, "purged idle state records",
				"count", purged,
				"max_age", s.config.RecordMaxAge,
			)
		}
	}

	s.emitSweepMetrics(purged, err, time.Since(start))
	return err
}

// waitWithJitter adds a random delay up to 10% of the interval.
func (s *SweeperService) waitWithJitter(ctx context.Context) {
	maxJitter := int64(s.config.Interval / 10)
	if maxJitter <= 0 {
		return
	}

	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		if s.logger != nil {
			s.logger.WarnContext(ctx, "failed to generate jitter, skipping", "error", err)
		}
		return
	}

	jitterNanos := binary.BigEndian.Uint64(buf[:]) % uint64(maxJitter)
	jitter := time.Duration(int64(jitterNanos)) // #nosec G115 - bounded by maxJitter which is int64

	select {
	case <-time.After(jitter):
	case <-ctx.Done():
	}
}

func (s *SweeperService) emitSweepMetrics(purged int64, err error, elapsed time.Duration) {
	if s.metrics == nil {
		return
	}
	result := metrics.ResultSuccess
	if err != nil && !isContextCancellation(err) {
		result = metrics.ResultError
	}
	tags := map[string]string{"result": result}
	s.metrics.Count("sweeper.run", 1, tags)
	if purged > 0 {
		s.metrics.Count("sweeper.records_purged", purged, nil)
	}
	if elapsed > 0 {
		s.metrics.Timing("sweeper.duration", elapsed, tags)
	}
}

func (s *SweeperService) logSweepError(err error, label string) {
	if err == nil || s.logger == nil {
		return
	}
	if isContextCancellation(err) {
		s.logger.Debug(label+" cancelled by context", "error", err)
		return
	}
	s.logger.Error(label+" failed", "error", err)
}

func isContextCancellation(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
