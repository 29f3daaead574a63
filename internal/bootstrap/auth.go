package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/luminara/journey-api/config"
	"github.com/luminara/journey-api/internal/adapters/devauth"
	"github.com/luminara/journey-api/internal/adapters/directory"
	"github.com/luminara/journey-api/internal/adapters/oidc"
	"github.com/luminara/journey-api/internal/data"
	"github.com/luminara/journey-api/internal/ports"
)

// AuthDeps contains configuration for building auth providers.
type AuthDeps struct {
	Auth   config.AuthConfig
	DB     *sql.DB
	Logger *slog.Logger
}

// AuthProviders holds the providers the session containers authenticate through.
// Federated is nil when Google sign-in is not available.
type AuthProviders struct {
	Authenticator ports.Authenticator
	Federated     ports.FederatedProvider
}

// BuildAuthProviders wires providers for the configured auth mode.
//
//   - mock: simulated email and Google sign-in with configured delays.
//   - oauth: real OIDC for Google sign-in, simulated email sign-in.
//   - directory: Postgres-backed email sign-in, OIDC when a client is configured.
func BuildAuthProviders(ctx context.Context, deps AuthDeps) (AuthProviders, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	switch deps.Auth.Mode {
	case config.AuthModeMock, "":
		dev := newDevProvider(deps.Auth.DevAuth)
		return AuthProviders{Authenticator: dev, Federated: dev}, nil

	case config.AuthModeOAuth:
		fed, err := buildOIDCProvider(ctx, deps.Auth.OAuth)
		if err != nil {
			return AuthProviders{}, err
		}
		logger.WarnContext(ctx, "oauth mode uses simulated email sign-in")
		return AuthProviders{Authenticator: newDevProvider(deps.Auth.DevAuth), Federated: fed}, nil

	case config.AuthModeDirectory:
		return buildDirectoryProviders(ctx, deps, logger)

	default:
		return AuthProviders{}, fmt.Errorf("unsupported auth mode %q", deps.Auth.Mode)
	}
}

func newDevProvider(cfg config.DevAuthConfig) *devauth.Provider {
	return devauth.NewProvider(devauth.Config{
		LoginDelay:    cfg.LoginDelay,
		FederateDelay: cfg.FederateDelay,
		RegisterDelay: cfg.RegisterDelay,
	})
}

func buildDirectoryProviders(ctx context.Context, deps AuthDeps, logger *slog.Logger) (AuthProviders, error) {
	if deps.DB == nil {
		return AuthProviders{}, errors.New("directory auth mode requires a database connection")
	}
	dir, err := directory.New(directory.Options{Accounts: data.NewCredentialRepo(deps.DB)})
	if err != nil {
		return AuthProviders{}, fmt.Errorf("create directory authenticator: %w", err)
	}

	providers := AuthProviders{Authenticator: dir}
	if deps.Auth.OAuth.ClientID == "" {
		logger.InfoContext(ctx, "google sign-in disabled: no oauth client configured")
		return providers, nil
	}

	fed, err := buildOIDCProvider(ctx, deps.Auth.OAuth)
	if err != nil {
		return AuthProviders{}, err
	}
	providers.Federated = fed
	return providers, nil
}

func buildOIDCProvider(ctx context.Context, cfg config.OAuthConfig) (*oidc.Provider, error) {
	if cfg.DiscoveryURL == "" || cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf(
			"oauth configuration incomplete (discovery_url_empty=%t client_id_empty=%t client_secret_empty=%t)",
			cfg.DiscoveryURL == "", cfg.ClientID == "", cfg.ClientSecret == "",
		)
	}

	prov, err := oidc.NewProvider(ctx, oidc.ProviderConfig{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Scope:        cfg.Scope,
		DiscoveryURL: cfg.DiscoveryURL,
	})
	if err != nil {
		return nil, fmt.Errorf("create oidc provider: %w", err)
	}
	return prov, nil
}
