package httpx

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	domainauth "github.com/luminara/journey-api/internal/domain/auth"
	apperrors "github.com/luminara/journey-api/internal/errors"
)

func TestRecover(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	h := Recover(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/welcome", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, buf.String(), `"msg":"panic"`)
	assert.Contains(t, buf.String(), "boom")
}

func TestLogging_RecordsStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	h := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/session", nil))
	assert.Contains(t, buf.String(), `"status":418`)
	assert.Contains(t, buf.String(), `"path":"/api/session"`)
}

func TestIsBrowserRequest(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		accept string
		want   bool
	}{
		{"api path", "/api/session", "text/html", false},
		{"html page", "/welcome", "text/html,application/xhtml+xml", true},
		{"no accept header", "/welcome", "", true},
		{"json client on page", "/welcome", "application/json", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.accept != "" {
				r.Header.Set("Accept", tt.accept)
			}
			assert.Equal(t, tt.want, IsBrowserRequest(r))
		})
	}
}

func TestBrowserDetection_StoresResult(t *testing.T) {
	var seen bool
	h := BrowserDetection()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		// The stored flag wins over headers added after detection.
		r.Header.Set("Accept", "application/json")
		seen = IsBrowserRequest(r)
	}))

	r := httptest.NewRequest(http.MethodGet, "/profile", nil)
	r.Header.Set("Accept", "text/html")
	h.ServeHTTP(httptest.NewRecorder(), r)
	assert.True(t, seen)
}

func TestWriteAuthError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domainauth.NewError(domainauth.CodeInvalidCredentials, nil), http.StatusUnauthorized},
		{domainauth.NewError(domainauth.CodeInvalidInput, nil), http.StatusBadRequest},
		{domainauth.ErrInProgress, http.StatusConflict},
		{domainauth.NewError(domainauth.CodeConflict, nil), http.StatusConflict},
		{domainauth.NewError(domainauth.CodeCanceled, nil), http.StatusRequestTimeout},
		{errors.New("plain"), http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		WriteAuthError(rec, tt.err)
		assert.Equal(t, tt.want, rec.Code, tt.err.Error())
		assert.Contains(t, rec.Body.String(), domainauth.PublicMessage)
	}
}

func TestWorkspaceMissing(t *testing.T) {
	rec := httptest.NewRecorder()
	(&JourneyHandlers{}).Get(rec, httptest.NewRequest(http.MethodGet, "/api/journey", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestWriteAppError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		status   int
		wantCode string
	}{
		{"conflict", apperrors.Conflict("taken"), http.StatusConflict, "conflict"},
		{"timeout", &apperrors.AppError{Code: apperrors.ErrCodeTimeout, Message: "slow"}, http.StatusGatewayTimeout, "timeout"},
		{"wrapped not found", fmt.Errorf("load: %w", apperrors.NotFound("gone")), http.StatusNotFound, "not_found"},
		{"plain error", errors.New("dial tcp: refused"), http.StatusInternalServerError, "workspace_unavailable"},
		{
			"store unavailable",
			apperrors.Wrap(errors.New("dial tcp: refused"), apperrors.ErrCodeUnavailable, "Session state is temporarily unavailable."),
			http.StatusServiceUnavailable, "unavailable",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteAppError(rec, tt.err, "workspace_unavailable")
			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), `"error":"`+tt.wantCode+`"`)
			assert.NotContains(t, rec.Body.String(), "refused")
		})
	}
}

func TestDecodeOptionalJSON(t *testing.T) {
	type body struct {
		Completed *bool `json:"completed"`
	}
	tests := []struct {
		name    string
		body    io.Reader
		wantOK  bool
		wantSet bool
	}{
		{"no body", nil, true, false},
		{"chunked empty body", io.MultiReader(), true, false},
		{"value", strings.NewReader(`{"completed":false}`), true, true},
		{"malformed", strings.NewReader(`{"completed":`), false, false},
		{"unknown field", strings.NewReader(`{"done":true}`), false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/journey/steps/2/complete", tt.body)
			rec := httptest.NewRecorder()
			var dst body

			assert.Equal(t, tt.wantOK, DecodeOptionalJSON(rec, req, &dst))
			assert.Equal(t, tt.wantSet, dst.Completed != nil)
			if !tt.wantOK {
				assert.Equal(t, http.StatusBadRequest, rec.Code)
			}
		})
	}
}
