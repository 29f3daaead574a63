package httpx

import (
	"log/slog"
	"net/http"

	"github.com/luminara/journey-api/internal/domain/journey"
	"github.com/luminara/journey-api/internal/ports"
	"github.com/luminara/journey-api/internal/service"
)

// RouterServices holds everything the HTTP router needs.
type RouterServices struct {
	Workspaces *service.Workspaces
	// Optional: enables the Google sign-in redirect
	Federated      ports.FederatedProvider
	CallbackURL    string
	CookieDomain   string
	SecureCookies  bool
	AllowedOrigins []string
	Logger         *slog.Logger
}

// NewRouter creates and configures the HTTP router.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()
	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	scoped := SessionScope(ScopeOptions{
		Workspaces:   services.Workspaces,
		CookieDomain: services.CookieDomain,
		Secure:       services.SecureCookies,
		Logger:       logger,
	})
	handle := func(pattern string, h http.Handler, mw ...func(http.Handler) http.Handler) {
		for i := len(mw) - 1; i >= 0; i-- {
			h = mw[i](h)
		}
		mux.Handle(pattern, scoped(h))
	}
	signedIn := Guard(AccessSignedIn, 0)

	auth := &AuthHandlers{
		Federated:     services.Federated,
		CallbackURL:   services.CallbackURL,
		CookieDomain:  services.CookieDomain,
		SecureCookies: services.SecureCookies,
		Logger:        logger,
	}
	handle("GET /api/session", http.HandlerFunc(auth.Session))
	handle("POST /api/auth/login", http.HandlerFunc(auth.Login))
	handle("POST /api/auth/register", http.HandlerFunc(auth.Register))
	handle("POST /api/auth/logout", http.HandlerFunc(auth.Logout))
	handle("GET /auth/google", http.HandlerFunc(auth.Google))
	handle("GET /auth/callback", http.HandlerFunc(auth.Callback))
	handle("PATCH /api/profile", http.HandlerFunc(auth.UpdateProfile), signedIn)

	jh := &JourneyHandlers{}
	handle("GET /api/journey", http.HandlerFunc(jh.Get))
	handle("POST /api/journey/steps/{id}/complete", http.HandlerFunc(jh.CompleteStep), signedIn)
	handle("PUT /api/journey/current", http.HandlerFunc(jh.SetCurrent), signedIn)
	handle("PATCH /api/journey/data", http.HandlerFunc(jh.UpdateData), signedIn)
	handle("POST /api/welcome/complete", http.HandlerFunc(jh.CompleteWelcome), Guard(AccessSignedIn, journey.StepWelcome))
	handle("POST /api/profile/submit", http.HandlerFunc(jh.SubmitProfile), Guard(AccessSignedIn, journey.StepProfile))
	handle("GET /api/navigation", http.HandlerFunc(jh.Navigation))
	handle("GET /api/progress", http.HandlerFunc(jh.Progress))

	for _, step := range journey.DefaultSteps() {
		access := AccessSignedIn
		if step.ID == journey.StepAuthentication {
			access = AccessSignedOut
		}
		handle("GET "+step.Path, jh.Page(step), Guard(access, step.ID))
	}

	var h http.Handler = mux
	h = BrowserDetection()(h)
	h = CORS(services.AllowedOrigins)(h)
	h = Logging(logger)(h)
	h = Recover(logger)(h)
	return h
}
