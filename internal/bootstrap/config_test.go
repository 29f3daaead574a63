package bootstrap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luminara/journey-api/config"
)

func TestValidateServiceConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.AppConfig
		wantErr string
	}{
		{name: "nil config", cfg: nil, wantErr: "service config is required"},
		{
			name:    "unknown service",
			cfg:     &config.AppConfig{Services: "http,reaper"},
			wantErr: "invalid service configuration",
		},
		{
			name: "http with memory store",
			cfg:  &config.AppConfig{Services: "http,sweeper", Store: config.StoreConfig{Backend: config.StoreBackendMemory}},
		},
		{
			name:    "standalone sweeper on memory store",
			cfg:     &config.AppConfig{Services: "sweeper", Store: config.StoreConfig{Backend: config.StoreBackendMemory}},
			wantErr: "requires the postgres store backend",
		},
		{
			name: "standalone sweeper on postgres",
			cfg:  &config.AppConfig{Services: "sweeper", Store: config.StoreConfig{Backend: config.StoreBackendPostgres}},
		},
		{
			name: "oauth without client id",
			cfg: &config.AppConfig{
				Services: "http",
				Auth:     config.AuthConfig{Mode: config.AuthModeOAuth},
			},
			wantErr: "OAUTH_CLIENT_ID",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateServiceConfig(tt.cfg)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGetEnabledServices(t *testing.T) {
	assert.Equal(t, []string{"http", "sweeper"}, GetEnabledServices(&config.AppConfig{Services: "sweeper, http"}))
	assert.Empty(t, GetEnabledServices(&config.AppConfig{Services: "bogus"}))
	assert.Empty(t, GetEnabledServices(nil))
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("SERVICES", "http")
	t.Setenv("STORE_BACKEND", "redis")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "http", cfg.Services)
	assert.Equal(t, config.StoreBackendRedis, cfg.Store.Backend)
	assert.Equal(t, config.AuthModeMock, cfg.Auth.Mode)
}
