package config

import (
	"fmt"
	"strings"
	"time"
)

// AuthMode represents the authentication mode for the application.
type AuthMode string

const (
	// AuthModeMock simulates login, registration and federated sign-in with fixed delays.
	AuthModeMock AuthMode = "mock"
	// AuthModeOAuth uses OIDC for federated sign-in and the credential directory for email login.
	AuthModeOAuth AuthMode = "oauth"
	// AuthModeDirectory verifies email credentials against the Postgres directory only.
	AuthModeDirectory AuthMode = "directory"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "mock", "oauth", "directory":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: mock, oauth, directory)", v)
	}
}

// OAuthConfig contains OAuth/OIDC configuration for federated sign-in.
type OAuthConfig struct {
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	RedirectURL  string `env:"REDIRECT_URL"  envDefault:"http://localhost:8080/auth/callback"`
	Scope        string `env:"SCOPE"         envDefault:"openid profile email"`
	DiscoveryURL string `env:"DISCOVERY_URL" envDefault:"https://accounts.google.com"`
}

// DevAuthConfig controls the simulated authentication backend.
// Used when AUTH_MODE=mock for development and demos.
type DevAuthConfig struct {
	LoginDelay    time.Duration `env:"LOGIN_DELAY"    envDefault:"1000ms"`
	FederateDelay time.Duration `env:"FEDERATE_DELAY" envDefault:"1500ms"`
	RegisterDelay time.Duration `env:"REGISTER_DELAY" envDefault:"1200ms"`
}

// Sanitize clamps negative delays to zero.
func (d *DevAuthConfig) Sanitize() {
	for _, delay := range []*time.Duration{&d.LoginDelay, &d.FederateDelay, &d.RegisterDelay} {
		if *delay < 0 {
			*delay = 0
		}
	}
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	Mode AuthMode `env:"AUTH_MODE" envDefault:"mock"`

	// OAuth configuration (used when Mode=oauth).
	OAuth OAuthConfig `envPrefix:"OAUTH_"`

	// DevAuth configuration (used when Mode=mock).
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`

	// Timeout bounds a single authentication attempt against a real backend.
	Timeout time.Duration `env:"AUTH_TIMEOUT" envDefault:"10s"`
}

// Sanitize applies guardrails to authentication configuration values.
func (a *AuthConfig) Sanitize() {
	a.DevAuth.Sanitize()
	if a.Timeout <= 0 {
		a.Timeout = 10 * time.Second
	}
}
