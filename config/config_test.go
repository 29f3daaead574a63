package config

import (
	"reflect"
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseServices(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    map[ServiceMode]bool
		expectError bool
	}{
		{
			name:     "single service - http",
			input:    "http",
			expected: map[ServiceMode]bool{ServiceModeHTTP: true},
		},
		{
			name:     "both services with spaces",
			input:    " http , sweeper ",
			expected: map[ServiceMode]bool{ServiceModeHTTP: true, ServiceModeSweeper: true},
		},
		{
			name:     "duplicate services",
			input:    "sweeper,sweeper",
			expected: map[ServiceMode]bool{ServiceModeSweeper: true},
		},
		{name: "empty string", input: "", expectError: true},
		{name: "only commas", input: ",,", expectError: true},
		{name: "unknown service", input: "http,scheduler", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseServices(tt.input)
			if tt.expectError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestAppConfig_Defaults(t *testing.T) {
	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()

	assert.Equal(t, AuthModeMock, cfg.Auth.Mode)
	assert.Equal(t, time.Second, cfg.Auth.DevAuth.LoginDelay)
	assert.Equal(t, 1500*time.Millisecond, cfg.Auth.DevAuth.FederateDelay)
	assert.Equal(t, 1200*time.Millisecond, cfg.Auth.DevAuth.RegisterDelay)
	assert.Equal(t, StoreBackendMemory, cfg.Store.Backend)
	assert.True(t, cfg.IsHTTPServerEnabled())
	assert.True(t, cfg.IsSweeperEnabled())
	assert.False(t, cfg.NeedsPostgres())
	assert.False(t, cfg.NeedsRedis())
}

func TestAppConfig_ParseAuthEnv(t *testing.T) {
	t.Setenv("AUTH_MODE", "OAuth")
	t.Setenv("OAUTH_CLIENT_ID", "app-client")
	t.Setenv("OAUTH_CLIENT_SECRET", "super-secret")
	t.Setenv("OAUTH_REDIRECT_URL", "https://app.example.com/auth/callback")
	t.Setenv("OAUTH_DISCOVERY_URL", "https://login.example.com")
	t.Setenv("OAUTH_SCOPE", "openid email")
	t.Setenv("DEV_AUTH_LOGIN_DELAY", "0s")
	t.Setenv("AUTH_TIMEOUT", "3s")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}

	expected := AuthConfig{
		Mode: AuthModeOAuth,
		OAuth: OAuthConfig{
			ClientID:     "app-client",
			ClientSecret: "super-secret",
			RedirectURL:  "https://app.example.com/auth/callback",
			Scope:        "openid email",
			DiscoveryURL: "https://login.example.com",
		},
		DevAuth: DevAuthConfig{
			LoginDelay:    0,
			FederateDelay: 1500 * time.Millisecond,
			RegisterDelay: 1200 * time.Millisecond,
		},
		Timeout: 3 * time.Second,
	}

	if !reflect.DeepEqual(cfg.Auth, expected) {
		t.Fatalf("unexpected auth configuration:\nexpected: %#v\ngot:      %#v", expected, cfg.Auth)
	}
}

func TestAppConfig_InvalidModes(t *testing.T) {
	t.Run("auth mode", func(t *testing.T) {
		t.Setenv("AUTH_MODE", "ldap")
		var cfg AppConfig
		assert.Error(t, env.Parse(&cfg))
	})
	t.Run("store backend", func(t *testing.T) {
		t.Setenv("STORE_BACKEND", "mongo")
		var cfg AppConfig
		assert.Error(t, env.Parse(&cfg))
	})
}

func TestAppConfig_NeedsInfrastructure(t *testing.T) {
	cfg := AppConfig{
		Auth:  AuthConfig{Mode: AuthModeDirectory},
		Store: StoreConfig{Backend: StoreBackendRedis},
	}
	assert.True(t, cfg.NeedsPostgres())
	assert.True(t, cfg.NeedsRedis())
}

func TestSweeperConfig_Sanitize(t *testing.T) {
	cfg := SweeperConfig{Interval: time.Millisecond, IdleTTL: time.Second, RecordMaxAge: 0}
	cfg.Sanitize()

	assert.Equal(t, time.Second, cfg.Interval)
	assert.Equal(t, time.Minute, cfg.IdleTTL)
	assert.Equal(t, time.Minute, cfg.RecordMaxAge)
}

func TestHTTPConfig_Sanitize(t *testing.T) {
	cfg := HTTPConfig{AllowedOrigins: []string{" https://app.example.com ", "", "http://localhost:5173"}}
	cfg.Sanitize()

	assert.Equal(t, []string{"https://app.example.com", "http://localhost:5173"}, cfg.AllowedOrigins)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestObservabilityMetricsConfig_Sanitize(t *testing.T) {
	cfg := ObservabilityMetricsConfig{Enabled: true, StatsdAddress: "   "}
	cfg.Sanitize()

	assert.False(t, cfg.IsEnabled())
	assert.Empty(t, cfg.StatsdAddress)
}

func TestDBConfig_DSN(t *testing.T) {
	cfg := DBConfig{Host: "db", Port: 5433, User: "u", Password: "p w@", Name: "n", SSLMode: "require"}
	assert.Equal(t, "postgres://u:p%20w%40@db:5433/n?sslmode=require", cfg.DSN())
}
