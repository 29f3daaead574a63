package httpx

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/luminara/journey-api/internal/domain/journey"
	"github.com/luminara/journey-api/internal/http/ui/viewmodel"
)

// Access is the authentication state a route requires.
type Access int

const (
	// AccessSignedOut is for the entry page; signed-in users are sent onwards.
	AccessSignedOut Access = iota
	// AccessSignedIn requires an authenticated session.
	AccessSignedIn
)

// AfterAuthPath is where signed-in users land when they hit the entry page.
const AfterAuthPath = "/welcome"

// loadingRetryAfter is the Retry-After hint, in seconds, while a session is loading.
const loadingRetryAfter = 1

// Guard gates a route on session state and, when stepID is non-zero, on that
// journey step being unlocked. It must run inside SessionScope.
//
// Loading sessions get 503 with Retry-After. Signed-in users are redirected
// away from AccessSignedOut routes. Signed-out callers of AccessSignedIn routes
// are redirected to the entry page (browsers) or get 401 (API clients). A locked
// step redirects browsers to the step the journey is currently on and gives
// API clients 409.
func Guard(access Access, stepID int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ws, ok := workspace(w, r)
			if !ok {
				return
			}

			session := ws.Session.Snapshot()
			if session.Loading {
				w.Header().Set("Retry-After", strconv.Itoa(loadingRetryAfter))
				WriteError(w, ErrorParams{
					Code:    http.StatusServiceUnavailable,
					ErrCode: "session_loading",
					Err:     errors.New("session is loading"),
				})
				return
			}

			switch access {
			case AccessSignedOut:
				if session.Authenticated {
					http.Redirect(w, r, AfterAuthPath, http.StatusSeeOther)
					return
				}
			case AccessSignedIn:
				if !session.Authenticated {
					denyUnauthenticated(w, r)
					return
				}
			}

			if stepID != 0 {
				st := ws.Journey.Snapshot()
				if step, ok := st.Step(stepID); ok && step.Locked {
					denyLocked(w, r, st)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func denyUnauthenticated(w http.ResponseWriter, r *http.Request) {
	if IsBrowserRequest(r) {
		http.Redirect(w, r, viewmodel.EntryPath, http.StatusSeeOther)
		return
	}
	WriteError(w, ErrorParams{
		Code:    http.StatusUnauthorized,
		ErrCode: "authentication_required",
		Err:     errors.New("authentication required"),
	})
}

func denyLocked(w http.ResponseWriter, r *http.Request, st journey.State) {
	if IsBrowserRequest(r) {
		http.Redirect(w, r, currentPath(st), http.StatusSeeOther)
		return
	}
	WriteError(w, ErrorParams{
		Code:    http.StatusConflict,
		ErrCode: "step_locked",
		Err:     journey.ErrStepLocked,
	})
}

func currentPath(st journey.State) string {
	if cur, ok := st.Current(); ok && cur.Path != "" {
		return cur.Path
	}
	return AfterAuthPath
}
