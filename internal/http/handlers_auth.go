package httpx

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	domainauth "github.com/luminara/journey-api/internal/domain/auth"
	"github.com/luminara/journey-api/internal/http/ui/viewmodel"
	"github.com/luminara/journey-api/internal/ports"
)

const (
	oauthStateCookie = "oauth_state"
	oauthNonceCookie = "oauth_nonce"
	oauthCookieTTL   = 10 * time.Minute
)

// AuthHandlers serves sign-in, registration and sign-out.
type AuthHandlers struct {
	Federated     ports.FederatedProvider // Optional: enables /auth/google
	CallbackURL   string
	CookieDomain  string
	SecureCookies bool
	Logger        *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

type authResponse struct {
	User    domainauth.User         `json:"user"`
	Session domainauth.SessionState `json:"session"`
}

// Session returns the session state of the caller.
// GET /api/session.
func (h *AuthHandlers) Session(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspace(w, r)
	if !ok {
		return
	}
	WriteJSON(w, http.StatusOK, ws.Session.Snapshot())
}

// Login handles email sign-in and completes the authentication step.
// POST /api/auth/login.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspace(w, r)
	if !ok {
		return
	}
	var creds domainauth.Credentials
	if !DecodeJSON(w, r, &creds) {
		return
	}

	u, err := ws.Login(r.Context(), creds)
	if err != nil {
		WriteAuthError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, authResponse{User: u, Session: ws.Session.Snapshot()})
}

// Register creates an account, signs it in and completes the authentication step.
// POST /api/auth/register.
func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspace(w, r)
	if !ok {
		return
	}
	var reg domainauth.Registration
	if !DecodeJSON(w, r, &reg) {
		return
	}

	u, err := ws.Register(r.Context(), reg)
	if err != nil {
		WriteAuthError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, authResponse{User: u, Session: ws.Session.Snapshot()})
}

// Logout removes the session and journey records of the caller.
// POST /api/auth/logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspace(w, r)
	if !ok {
		return
	}
	ws.Logout(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// Google starts a federated sign-in.
// GET /auth/google.
func (h *AuthHandlers) Google(w http.ResponseWriter, r *http.Request) {
	if h.Federated == nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusNotFound,
			ErrCode: "federated_disabled",
			Err:     errors.New("federated sign-in is not configured"),
		})
		return
	}

	authURL, state, nonce, err := h.Federated.Begin(r.Context(), ports.BeginInput{RedirectURL: h.CallbackURL})
	if err != nil {
		h.logger().ErrorContext(r.Context(), "begin federated sign-in failed", "error", err)
		WriteAuthError(w, domainauth.NewError(domainauth.CodeUnavailable, err))
		return
	}

	h.setCookie(w, r, oauthStateCookie, state)
	h.setCookie(w, r, oauthNonceCookie, nonce)
	http.Redirect(w, r, authURL, http.StatusFound)
}

// Callback completes a federated sign-in and continues to the welcome step.
// Failures send the browser back to the entry page with an error code.
// GET /auth/callback?code=<code>&state=<state>.
func (h *AuthHandlers) Callback(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspace(w, r)
	if !ok {
		return
	}

	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	stateCookie, err := r.Cookie(oauthStateCookie)
	if code == "" || state == "" || err != nil || stateCookie.Value != state {
		h.failCallback(w, r, domainauth.NewError(domainauth.CodeInvalidInput, errors.New("invalid or missing state")))
		return
	}
	var nonce string
	if c, err := r.Cookie(oauthNonceCookie); err == nil {
		nonce = c.Value
	}

	h.clearCookie(w, r, oauthStateCookie)
	h.clearCookie(w, r, oauthNonceCookie)

	if _, err := ws.LoginWithGoogle(r.Context(), ports.ExchangeInput{Code: code, State: state, Nonce: nonce}); err != nil {
		h.failCallback(w, r, err)
		return
	}
	http.Redirect(w, r, AfterAuthPath, http.StatusFound)
}

func (h *AuthHandlers) failCallback(w http.ResponseWriter, r *http.Request, err error) {
	h.logger().InfoContext(r.Context(), "federated callback rejected", "error", err)
	u := url.URL{Path: viewmodel.EntryPath}
	q := url.Values{}
	q.Set("error", string(domainauth.CodeOf(err)))
	u.RawQuery = q.Encode()
	http.Redirect(w, r, u.String(), http.StatusFound)
}

// UpdateProfile merges name, email or avatar into the signed-in user.
// PATCH /api/profile.
func (h *AuthHandlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspace(w, r)
	if !ok {
		return
	}
	var upd domainauth.ProfileUpdate
	if !DecodeJSON(w, r, &upd) {
		return
	}
	if upd.Empty() {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "empty_update",
			Err:     errors.New("no profile fields to update"),
		})
		return
	}

	u, ok := ws.Session.UpdateProfile(r.Context(), upd)
	if !ok {
		denyUnauthenticated(w, r)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"user": u})
}

func (h *AuthHandlers) setCookie(w http.ResponseWriter, r *http.Request, name, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   h.SecureCookies || isSecureRequest(r),
		MaxAge:   int(oauthCookieTTL.Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
}

// clearCookie mirrors the attributes used when setting so browsers drop it.
func (h *AuthHandlers) clearCookie(w http.ResponseWriter, r *http.Request, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   h.SecureCookies || isSecureRequest(r),
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}
