package httpx

import (
	"errors"
	"net/http"
	"strconv"

	domainauth "github.com/luminara/journey-api/internal/domain/auth"
	"github.com/luminara/journey-api/internal/domain/journey"
	"github.com/luminara/journey-api/internal/http/ui/viewmodel"
)

// JourneyHandlers serves the journey state and its display surfaces.
type JourneyHandlers struct{}

// Get returns the journey of the caller.
// GET /api/journey.
func (h *JourneyHandlers) Get(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspace(w, r)
	if !ok {
		return
	}
	WriteJSON(w, http.StatusOK, ws.Journey.Snapshot())
}

type completeStepRequest struct {
	Completed *bool `json:"completed"`
}

// CompleteStep sets a step's completed flag. The body is optional and defaults
// to {"completed": true}. Unknown steps leave the journey unchanged.
// POST /api/journey/steps/{id}/complete.
func (h *JourneyHandlers) CompleteStep(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspace(w, r)
	if !ok {
		return
	}
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_step", Err: errors.New("step id must be an integer")})
		return
	}

	completed := true
	var req completeStepRequest
	if !DecodeOptionalJSON(w, r, &req) {
		return
	}
	if req.Completed != nil {
		completed = *req.Completed
	}

	WriteJSON(w, http.StatusOK, ws.Journey.MarkStepComplete(r.Context(), id, completed))
}

type setCurrentRequest struct {
	StepID int `json:"stepId"`
}

// SetCurrent moves the journey pointer into an unlocked step.
// PUT /api/journey/current.
func (h *JourneyHandlers) SetCurrent(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspace(w, r)
	if !ok {
		return
	}
	var req setCurrentRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	st, err := ws.Journey.Navigate(r.Context(), req.StepID)
	switch {
	case errors.Is(err, journey.ErrUnknownStep):
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "unknown_step", Err: err})
	case errors.Is(err, journey.ErrStepLocked):
		WriteError(w, ErrorParams{Code: http.StatusConflict, ErrCode: "step_locked", Err: err})
	case err != nil:
		WriteAppError(w, err, "internal")
	default:
		WriteJSON(w, http.StatusOK, st)
	}
}

// UpdateData shallow-merges the body into the journey data bag.
// PATCH /api/journey/data.
func (h *JourneyHandlers) UpdateData(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspace(w, r)
	if !ok {
		return
	}
	var data map[string]any
	if !DecodeJSON(w, r, &data) {
		return
	}
	WriteJSON(w, http.StatusOK, ws.Journey.UpdateUserData(r.Context(), data))
}

// CompleteWelcome finishes the welcome step.
// POST /api/welcome/complete.
func (h *JourneyHandlers) CompleteWelcome(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspace(w, r)
	if !ok {
		return
	}
	WriteJSON(w, http.StatusOK, ws.CompleteWelcome(r.Context()))
}

type submitProfileResponse struct {
	journey.State
	ProfileProgress viewmodel.ProfileProgress `json:"profileProgress"`
}

// SubmitProfile stores the profile form and finishes profile setup.
// POST /api/profile/submit.
func (h *JourneyHandlers) SubmitProfile(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspace(w, r)
	if !ok {
		return
	}
	var profile journey.ProfileData
	if !DecodeJSON(w, r, &profile) {
		return
	}
	st, err := ws.SubmitProfile(r.Context(), profile)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_profile", Err: err})
		return
	}
	WriteJSON(w, http.StatusOK, submitProfileResponse{State: st, ProfileProgress: viewmodel.BuildProfileProgress(st)})
}

// Navigation returns the floating navigation for the page at ?path=.
// GET /api/navigation.
func (h *JourneyHandlers) Navigation(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspace(w, r)
	if !ok {
		return
	}
	path := r.URL.Query().Get("path")
	WriteJSON(w, http.StatusOK, viewmodel.BuildNavigation(ws.Session.Snapshot(), ws.Journey.Snapshot(), path))
}

// Progress returns the progress tracker for the page at ?path=.
// GET /api/progress.
func (h *JourneyHandlers) Progress(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspace(w, r)
	if !ok {
		return
	}
	path := r.URL.Query().Get("path")
	WriteJSON(w, http.StatusOK, viewmodel.BuildProgress(ws.Journey.Snapshot(), path))
}

// pagePayload is what a step page renders once the guard lets the caller through.
type pagePayload struct {
	Step       journey.Step            `json:"step"`
	Session    domainauth.SessionState `json:"session"`
	Journey    journey.State           `json:"journey"`
	Navigation viewmodel.Navigation    `json:"navigation"`
	Progress   viewmodel.Progress      `json:"progress"`

	ProfileProgress *viewmodel.ProfileProgress `json:"profileProgress,omitempty"`
}

// Page renders the payload for one journey step.
func (h *JourneyHandlers) Page(step journey.Step) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, ok := workspace(w, r)
		if !ok {
			return
		}
		session := ws.Session.Snapshot()
		st := ws.Journey.Snapshot()
		current := step
		if s, ok := st.Step(step.ID); ok {
			current = s
		}
		payload := pagePayload{
			Step:       current,
			Session:    session,
			Journey:    st,
			Navigation: viewmodel.BuildNavigation(session, st, step.Path),
			Progress:   viewmodel.BuildProgress(st, step.Path),
		}
		if step.ID == journey.StepProfile {
			pp := viewmodel.BuildProfileProgress(st)
			payload.ProfileProgress = &pp
		}
		WriteJSON(w, http.StatusOK, payload)
	}
}
