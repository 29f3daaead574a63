package devauth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/luminara/journey-api/internal/domain/auth"
	"github.com/luminara/journey-api/internal/ports"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func instant() *Provider {
	return NewProvider(Config{Now: func() time.Time { return fixedNow }})
}

func TestProvider_Authenticate(t *testing.T) {
	u, err := instant().Authenticate(context.Background(), domainauth.Credentials{
		Email:    "ana@example.com",
		Password: "x",
	})
	require.NoError(t, err)

	assert.Equal(t, "ana", u.Name)
	assert.Equal(t, "ana@example.com", u.Email)
	assert.Equal(t, domainauth.ProviderEmail, u.Provider)
	assert.Regexp(t, `^user_[0-9a-z]{9}$`, u.ID)
	assert.Equal(t, fixedNow, u.CreatedAt)
}

func TestProvider_AuthenticateRejectsEmptyInput(t *testing.T) {
	_, err := instant().Authenticate(context.Background(), domainauth.Credentials{Email: "ana@example.com"})
	require.Error(t, err)
	assert.Equal(t, domainauth.CodeInvalidInput, domainauth.CodeOf(err))
}

func TestProvider_Register(t *testing.T) {
	u, err := instant().Register(context.Background(), domainauth.Registration{
		Name:     "Ana Lima",
		Email:    "ana@example.com",
		Password: "x",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ana Lima", u.Name)
	assert.Equal(t, domainauth.ProviderEmail, u.Provider)
}

func TestProvider_BeginAndExchange(t *testing.T) {
	prov := instant()
	url, state, nonce, err := prov.Begin(context.Background(), ports.BeginInput{RedirectURL: "/"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/auth/callback?code=dev&state="), url)
	assert.Len(t, state, 24)
	assert.NotEmpty(t, nonce)

	u, err := prov.Exchange(context.Background(), ports.ExchangeInput{Code: "dev", State: state, Nonce: nonce})
	require.NoError(t, err)
	assert.Equal(t, FederatedName, u.Name)
	assert.Equal(t, FederatedEmail, u.Email)
	assert.Equal(t, domainauth.ProviderGoogle, u.Provider)
	assert.Regexp(t, `^google_[0-9a-z]{9}$`, u.ID)
}

func TestProvider_DelayHonoursCancellation(t *testing.T) {
	prov := NewProvider(Config{LoginDelay: time.Hour})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := prov.Authenticate(ctx, domainauth.Credentials{Email: "a@b.c", Password: "x"})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, domainauth.CodeCanceled, domainauth.CodeOf(err))
}

func TestProvider_DelayElapses(t *testing.T) {
	prov := NewProvider(Config{LoginDelay: 20 * time.Millisecond})
	start := time.Now()

	_, err := prov.Authenticate(context.Background(), domainauth.Credentials{Email: "a@b.c", Password: "x"})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, time.Second, cfg.LoginDelay)
	assert.Equal(t, 1500*time.Millisecond, cfg.FederateDelay)
	assert.Equal(t, 1200*time.Millisecond, cfg.RegisterDelay)
}
