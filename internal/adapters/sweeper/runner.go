// Package sweeper provides adapters for running the idle state sweeper.
package sweeper

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/luminara/journey-api/config"
	"github.com/luminara/journey-api/internal/data"
	"github.com/luminara/journey-api/internal/observability/statsd"
	"github.com/luminara/journey-api/internal/service"
)

// Runner constructs the sweeper service and runs its loop.
type Runner struct {
	sweeper *service.SweeperService
	logger  *slog.Logger
}

// RunnerOptions holds the dependencies for creating a Runner.
type RunnerOptions struct {
	// DB enables purging of persisted state records when set.
	DB *sql.DB
	// Workspaces enables eviction of idle in-memory workspaces when set.
	Workspaces service.WorkspaceSweeper
	Config     config.SweeperConfig
	Logger     *slog.Logger
	Metrics    statsd.Sink

	// Purger overrides the DB-backed purger.
	Purger service.RecordPurger
}

// NewRunner creates a new sweeper runner with the given options.
func NewRunner(opts RunnerOptions) (*Runner, error) {
	if err := validateRunnerOptions(&opts); err != nil {
		return nil, err
	}

	svc, err := service.NewSweeperService(service.SweeperServiceOptions{
		Workspaces: opts.Workspaces,
		Purger:     purgerFor(opts),
		Config:     opts.Config,
		Logger:     opts.Logger,
		Metrics:    opts.Metrics,
	})
	if err != nil {
		return nil, fmt.Errorf("wire sweeper service: %w", err)
	}

	return &Runner{sweeper: svc, logger: opts.Logger}, nil
}

func validateRunnerOptions(opts *RunnerOptions) error {
	if opts.DB == nil && opts.Purger == nil && opts.Workspaces == nil {
		return errors.New("sweeper needs a database or a workspace registry")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return nil
}

//nolint:ireturn // nil interface signals "no purge" to the service.
func purgerFor(opts RunnerOptions) service.RecordPurger {
	if opts.Purger != nil {
		return opts.Purger
	}
	if opts.DB != nil {
		return data.NewStateRepo(opts.DB)
	}
	return nil
}

// Run starts the sweeper loop and runs until the context is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.InfoContext(ctx, "starting sweeper runner")
	return r.sweeper.Run(ctx)
}
