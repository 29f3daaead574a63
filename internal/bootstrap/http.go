package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/luminara/journey-api/config"
	httpx "github.com/luminara/journey-api/internal/http"
	"github.com/luminara/journey-api/internal/ports"
	"github.com/luminara/journey-api/internal/service"
)

// HTTPServerConfig contains configuration for the HTTP server.
type HTTPServerConfig struct {
	HTTP       config.HTTPConfig
	Workspaces *service.Workspaces
	Federated  ports.FederatedProvider
	// CallbackURL is the absolute federated callback, normally OAUTH_REDIRECT_URL.
	CallbackURL string
	Logger      *slog.Logger
}

// NewHTTPServer builds the server without starting it.
func NewHTTPServer(cfg HTTPServerConfig) *http.Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	handler := httpx.NewRouter(httpx.RouterServices{
		Workspaces:     cfg.Workspaces,
		Federated:      cfg.Federated,
		CallbackURL:    cfg.CallbackURL,
		CookieDomain:   cfg.HTTP.CookieDomain,
		SecureCookies:  cfg.HTTP.SecureCookies,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		Logger:         logger,
	})

	// An empty addr would make net/http listen on :http.
	addr := cfg.HTTP.Addr
	if addr == "" {
		addr = ":8080"
	}

	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

// ServeHTTP blocks serving requests. A server closed by ShutdownHTTPServer returns nil.
func ServeHTTP(server *http.Server, logger *slog.Logger) error {
	logger.Info("starting HTTP server", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// ShutdownConfig contains dependencies for HTTP server shutdown.
type ShutdownConfig struct {
	Context context.Context
	Server  *http.Server
	Timeout time.Duration
	Logger  *slog.Logger
}

// ShutdownHTTPServer drains in-flight requests within the timeout.
func ShutdownHTTPServer(cfg ShutdownConfig) error {
	if cfg.Server == nil {
		return nil
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	parent := cfg.Context
	if parent == nil {
		parent = context.Background()
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("shutting down HTTP server")
	}

	// The parent is usually already cancelled; only its values carry over.
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(parent), cfg.Timeout)
	defer cancel()

	if err := cfg.Server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("HTTP server stopped")
	}
	return nil
}
