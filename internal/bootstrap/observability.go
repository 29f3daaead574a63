package bootstrap

import (
	"log/slog"

	"github.com/luminara/journey-api/config"
	"github.com/luminara/journey-api/internal/observability/statsd"
)

// BuildMetrics returns a statsd client, or nil when metrics are disabled or the
// endpoint cannot be reached. A nil client drops every metric.
func BuildMetrics(logger *slog.Logger, cfg config.ObservabilityMetricsConfig) *statsd.Client {
	if logger == nil {
		logger = slog.Default()
	}
	if !cfg.IsEnabled() {
		return nil
	}

	client, err := statsd.NewClient(statsd.Config{
		Enabled: true,
		Address: cfg.StatsdAddress,
		Prefix:  cfg.Prefix,
		Logger:  logger,
	})
	if err != nil {
		logger.Error("failed to initialise statsd client", "error", err)
		return nil
	}
	return client
}
