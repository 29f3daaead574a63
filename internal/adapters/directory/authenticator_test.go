package directory

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luminara/journey-api/internal/data"
	domainauth "github.com/luminara/journey-api/internal/domain/auth"
	"github.com/luminara/journey-api/internal/testutil"
)

var cheap = HashParams{Memory: 1024, Time: 1, Parallelism: 1, SaltLength: 8, KeyLength: 16}

type fakeAccounts struct {
	mu      sync.Mutex
	byEmail map[string]data.Credential
	err     error
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{byEmail: map[string]data.Credential{}}
}

func (f *fakeAccounts) Create(_ context.Context, c data.Credential) (domainauth.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return domainauth.User{}, f.err
	}
	key := strings.ToLower(c.User.Email)
	if _, ok := f.byEmail[key]; ok {
		return domainauth.User{}, data.ErrEmailTaken
	}
	f.byEmail[key] = c
	return c.User, nil
}

func (f *fakeAccounts) GetByEmail(_ context.Context, email string) (data.Credential, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return data.Credential{}, f.err
	}
	c, ok := f.byEmail[strings.ToLower(email)]
	if !ok {
		return data.Credential{}, data.ErrCredentialNotFound
	}
	return c, nil
}

func newTestAuthenticator(t *testing.T, accounts Accounts) *Authenticator {
	t.Helper()
	a, err := New(Options{Accounts: accounts, Params: &cheap})
	require.NoError(t, err)
	return a
}

func TestNew_RequiresAccounts(t *testing.T) {
	_, err := New(Options{})
	require.Error(t, err)
}

func TestRegisterThenAuthenticate(t *testing.T) {
	ctx := context.Background()
	a := newTestAuthenticator(t, newFakeAccounts())

	reg, err := a.Register(ctx, domainauth.Registration{Name: " Ana ", Email: "ana@example.com", Password: "s3cret"})
	require.NoError(t, err)
	assert.Equal(t, "Ana", reg.Name)
	assert.Equal(t, domainauth.ProviderEmail, reg.Provider)

	got, err := a.Authenticate(ctx, domainauth.Credentials{Email: "ANA@example.com", Password: "s3cret"})
	require.NoError(t, err)
	assert.Equal(t, reg.ID, got.ID)
}

func TestAuthenticate_Failures(t *testing.T) {
	ctx := context.Background()
	accounts := newFakeAccounts()
	a := newTestAuthenticator(t, accounts)
	_, err := a.Register(ctx, domainauth.Registration{Name: "Ana", Email: "ana@example.com", Password: "s3cret"})
	require.NoError(t, err)

	tests := []struct {
		name  string
		creds domainauth.Credentials
		code  domainauth.ErrorCode
	}{
		{"wrong password", domainauth.Credentials{Email: "ana@example.com", Password: "nope"}, domainauth.CodeInvalidCredentials},
		{"unknown email", domainauth.Credentials{Email: "ravi@example.com", Password: "x"}, domainauth.CodeInvalidCredentials},
		{"empty password", domainauth.Credentials{Email: "ana@example.com"}, domainauth.CodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.Authenticate(ctx, tt.creds)
			require.Error(t, err)
			assert.Equal(t, tt.code, domainauth.CodeOf(err))
		})
	}

	accounts.err = errors.New("connection refused")
	_, err = a.Authenticate(ctx, domainauth.Credentials{Email: "ana@example.com", Password: "s3cret"})
	assert.Equal(t, domainauth.CodeUnavailable, domainauth.CodeOf(err))
}

func TestRegister_Conflict(t *testing.T) {
	ctx := context.Background()
	a := newTestAuthenticator(t, newFakeAccounts())
	reg := domainauth.Registration{Name: "Ana", Email: "ana@example.com", Password: "x"}

	_, err := a.Register(ctx, reg)
	require.NoError(t, err)
	_, err = a.Register(ctx, reg)
	assert.Equal(t, domainauth.CodeConflict, domainauth.CodeOf(err))
}

func TestAuthenticator_Postgres(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	a := newTestAuthenticator(t, data.NewCredentialRepo(db))

	_, err := a.Register(ctx, domainauth.Registration{Name: "Ana", Email: "ana@example.com", Password: "s3cret"})
	require.NoError(t, err)

	_, err = a.Register(ctx, domainauth.Registration{Name: "Ana 2", Email: "Ana@example.com", Password: "x"})
	assert.Equal(t, domainauth.CodeConflict, domainauth.CodeOf(err))

	u, err := a.Authenticate(ctx, domainauth.Credentials{Email: "ana@example.com", Password: "s3cret"})
	require.NoError(t, err)
	assert.Equal(t, "Ana", u.Name)
}
