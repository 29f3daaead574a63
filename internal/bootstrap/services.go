package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/luminara/journey-api/config"
	"github.com/luminara/journey-api/internal/adapters/sweeper"
	"github.com/luminara/journey-api/internal/observability/statsd"
	"github.com/luminara/journey-api/internal/service"
)

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// ServiceContainer holds the wired application services.
type ServiceContainer struct {
	Config     *config.AppConfig
	Workspaces *service.Workspaces
	Auth       AuthProviders
	DB         *sql.DB
	Metrics    statsd.Sink
	Logger     *slog.Logger

	metricsClient *statsd.Client
}

// NewServices builds the state store, auth providers and workspace registry.
func NewServices(ctx context.Context, deps *ServiceDeps) (*ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return nil, errors.New("service deps with AppConfig are required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config

	store, err := BuildStateStore(StoreDeps{
		Config:      cfg.Store,
		DB:          deps.DB,
		RedisClient: deps.RedisClient,
		Logger:      logger,
	})
	if err != nil {
		return nil, fmt.Errorf("build state store: %w", err)
	}

	auth, err := BuildAuthProviders(ctx, AuthDeps{Auth: cfg.Auth, DB: deps.DB, Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("build auth providers: %w", err)
	}

	client := BuildMetrics(logger, cfg.Observability.Metrics)
	var sink statsd.Sink
	if client != nil {
		sink = client
	}

	workspaces, err := service.NewWorkspaces(service.WorkspacesOptions{
		Store:         store,
		Authenticator: auth.Authenticator,
		Federated:     auth.Federated,
		AuthTimeout:   cfg.Auth.Timeout,
		Logger:        logger,
		Metrics:       sink,
	})
	if err != nil {
		return nil, fmt.Errorf("create workspaces: %w", err)
	}

	return &ServiceContainer{
		Config:        cfg,
		Workspaces:    workspaces,
		Auth:          auth,
		DB:            deps.DB,
		Metrics:       sink,
		Logger:        logger,
		metricsClient: client,
	}, nil
}

// Close releases resources owned by the container.
func (c *ServiceContainer) Close() error {
	if c == nil {
		return nil
	}
	return c.metricsClient.Close()
}

// Run starts every enabled service and blocks until ctx is cancelled or one of them fails.
// Cancellation is a clean shutdown and returns nil.
func Run(ctx context.Context, svcs *ServiceContainer) error {
	if svcs == nil || svcs.Config == nil {
		return errors.New("service container is required")
	}
	enabled, err := svcs.Config.GetEnabledServices()
	if err != nil {
		return fmt.Errorf("determine enabled services: %w", err)
	}
	logger := svcs.Logger
	if logger == nil {
		logger = slog.Default()
	}

	// Wire the sweeper before starting anything.
	var runner *sweeper.Runner
	if enabled[config.ServiceModeSweeper] {
		runner, err = newSweeperRunner(svcs, enabled[config.ServiceModeHTTP], logger)
		if err != nil {
			return err
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	if enabled[config.ServiceModeHTTP] {
		server := NewHTTPServer(HTTPServerConfig{
			HTTP:        svcs.Config.HTTP,
			Workspaces:  svcs.Workspaces,
			Federated:   svcs.Auth.Federated,
			CallbackURL: svcs.Config.Auth.OAuth.RedirectURL,
			Logger:      logger,
		})
		g.Go(func() error {
			if err := ServeHTTP(server, logger); err != nil {
				return fmt.Errorf("http server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			return ShutdownHTTPServer(ShutdownConfig{
				Context: gctx,
				Server:  server,
				Timeout: svcs.Config.HTTP.ShutdownTimeout,
				Logger:  logger,
			})
		})
	}

	if runner != nil {
		g.Go(func() error {
			if err := runner.Run(gctx); err != nil {
				return fmt.Errorf("sweeper: %w", err)
			}
			return nil
		})
	}

	logger.InfoContext(ctx, "services started", "enabled", GetEnabledServices(svcs.Config))
	err = g.Wait()
	logger.InfoContext(ctx, "services stopped")
	return err
}

// newSweeperRunner sweeps the workspace registry only when this process serves HTTP,
// and purges Postgres rows only when Postgres holds the state.
func newSweeperRunner(svcs *ServiceContainer, withHTTP bool, logger *slog.Logger) (*sweeper.Runner, error) {
	opts := sweeper.RunnerOptions{
		Config:  svcs.Config.Sweeper,
		Logger:  logger,
		Metrics: svcs.Metrics,
	}
	if withHTTP && svcs.Workspaces != nil {
		opts.Workspaces = svcs.Workspaces
	}
	if svcs.Config.Store.Backend == config.StoreBackendPostgres {
		opts.DB = svcs.DB
	}
	runner, err := sweeper.NewRunner(opts)
	if err != nil {
		return nil, fmt.Errorf("create sweeper runner: %w", err)
	}
	return runner, nil
}
