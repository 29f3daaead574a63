package httpx

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luminara/journey-api/internal/adapters/devauth"
	"github.com/luminara/journey-api/internal/adapters/memstore"
	"github.com/luminara/journey-api/internal/ports"
	"github.com/luminara/journey-api/internal/service"
)

type testEnv struct {
	server     *httptest.Server
	client     *http.Client
	store      *memstore.Store
	workspaces *service.Workspaces
}

type envOptions struct {
	Auth      ports.Authenticator
	Federated ports.FederatedProvider
}

// newTestEnv serves the full router over an in-memory store. Unset providers
// fall back to the simulated backend with no delays.
func newTestEnv(t *testing.T, opts envOptions) *testEnv {
	t.Helper()
	dev := devauth.NewProvider(devauth.Config{})
	auth := opts.Auth
	if auth == nil {
		auth = dev
	}
	var federated ports.FederatedProvider = dev
	if opts.Federated != nil {
		federated = opts.Federated
	}
	store := memstore.New()
	logger := slog.New(slog.DiscardHandler)

	workspaces, err := service.NewWorkspaces(service.WorkspacesOptions{
		Store:         store,
		Authenticator: auth,
		Federated:     federated,
		Logger:        logger,
	})
	require.NoError(t, err)

	server := httptest.NewServer(NewRouter(RouterServices{
		Workspaces:     workspaces,
		Federated:      federated,
		CallbackURL:    "/auth/callback",
		AllowedOrigins: []string{"http://localhost:3000"},
		Logger:         logger,
	}))
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &testEnv{
		server: server,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		store:      store,
		workspaces: workspaces,
	}
}

// do sends an API-style request (JSON accepted) and returns the response with its body buffered.
func (e *testEnv) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()
	return e.send(t, method, path, body, "application/json")
}

// browse sends a browser navigation.
func (e *testEnv) browse(t *testing.T, path string) *http.Response {
	t.Helper()
	return e.send(t, http.MethodGet, path, nil, "text/html,application/xhtml+xml")
}

func (e *testEnv) send(t *testing.T, method, path string, body any, accept string) *http.Response {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, e.server.URL+path, rdr)
	require.NoError(t, err)
	req.Header.Set("Accept", accept)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := e.client.Do(req)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	resp.Body = io.NopCloser(bytes.NewReader(raw))
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func (e *testEnv) login(t *testing.T) {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": "ana@example.com", "password": "x"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
