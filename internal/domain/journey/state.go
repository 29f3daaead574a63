package journey

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
)

var (
	// ErrUnknownStep is returned by Navigate for identifiers outside the journey.
	ErrUnknownStep = errors.New("unknown journey step")
	// ErrStepLocked is returned by Navigate when the target step is locked.
	ErrStepLocked = errors.New("journey step is locked")
)

// State is the journey snapshot. Its JSON form is the `journey-state` record.
type State struct {
	CurrentStep int            `json:"currentStep"`
	Steps       []Step         `json:"steps"`
	UserData    map[string]any `json:"userData"`
	Progress    float64        `json:"progress"`
}

// New returns the initial journey positioned on the first step.
func New() State {
	s := State{
		CurrentStep: StepAuthentication,
		Steps:       DefaultSteps(),
		UserData:    map[string]any{},
	}
	s.settle()
	return s
}

// Clone returns a deep copy of the step list and a shallow copy of the data bag.
func (s State) Clone() State {
	out := s
	out.Steps = append([]Step(nil), s.Steps...)
	out.UserData = maps.Clone(s.UserData)
	if out.UserData == nil {
		out.UserData = map[string]any{}
	}
	return out
}

func (s *State) index(id int) int {
	for i := range s.Steps {
		if s.Steps[i].ID == id {
			return i
		}
	}
	return -1
}

// Step returns the step with the given identifier.
func (s *State) Step(id int) (Step, bool) {
	if i := s.index(id); i >= 0 {
		return s.Steps[i], true
	}
	return Step{}, false
}

// Current returns the step the pointer is on.
func (s *State) Current() (Step, bool) {
	return s.Step(s.CurrentStep)
}

// Next returns the step after the current one.
func (s *State) Next() (Step, bool) {
	return s.Step(s.CurrentStep + 1)
}

// Previous returns the step before the current one.
func (s *State) Previous() (Step, bool) {
	return s.Step(s.CurrentStep - 1)
}

// MarkStepComplete sets the completed flag of a step. Unknown identifiers are ignored.
func (s *State) MarkStepComplete(id int, completed bool) {
	i := s.index(id)
	if i < 0 {
		return
	}
	s.Steps[i].Completed = completed
	s.settle()
}

// SetCurrentStep moves the pointer without checking the target's lock.
// Unknown identifiers are ignored.
func (s *State) SetCurrentStep(id int) {
	if s.index(id) < 0 {
		return
	}
	s.CurrentStep = id
	s.settle()
}

// Navigate moves the pointer only into an existing, unlocked step.
func (s *State) Navigate(id int) error {
	i := s.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %d", ErrUnknownStep, id)
	}
	if s.Steps[i].Locked {
		return fmt.Errorf("%w: %d", ErrStepLocked, id)
	}
	s.CurrentStep = id
	s.settle()
	return nil
}

// UpdateUserData shallow-merges data into the data bag.
func (s *State) UpdateUserData(data map[string]any) {
	if s.UserData == nil {
		s.UserData = make(map[string]any, len(data))
	}
	maps.Copy(s.UserData, data)
}

// CompletedCount returns the number of completed steps.
func (s *State) CompletedCount() int {
	n := 0
	for _, st := range s.Steps {
		if st.Completed {
			n++
		}
	}
	return n
}

// IsComplete reports whether every step is completed.
func (s *State) IsComplete() bool {
	return len(s.Steps) > 0 && s.CompletedCount() == len(s.Steps)
}

// settle runs the unlock pass for the step after the pointer and recomputes progress.
// Steps further ahead are not re-evaluated.
func (s *State) settle() {
	if cur := s.index(s.CurrentStep); cur >= 0 {
		if next := s.index(s.CurrentStep + 1); next >= 0 {
			s.Steps[next].Locked = !s.Steps[cur].Completed
		}
	}
	if first := s.index(StepAuthentication); first >= 0 {
		s.Steps[first].Locked = false
	}
	s.Progress = progress(s.CompletedCount(), len(s.Steps))
}

func progress(completed, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(completed) / float64(total) * 100
}

// Restore layers a persisted snapshot over the default journey. Step flags are
// matched by identifier; identifiers the journey does not know are dropped.
func Restore(data []byte) (State, error) {
	var saved State
	if err := json.Unmarshal(data, &saved); err != nil {
		return New(), fmt.Errorf("decode journey state: %w", err)
	}

	s := New()
	for _, st := range saved.Steps {
		if i := s.index(st.ID); i >= 0 {
			s.Steps[i].Completed = st.Completed
			s.Steps[i].Locked = st.Locked
		}
	}
	if s.index(saved.CurrentStep) >= 0 {
		s.CurrentStep = saved.CurrentStep
	}
	if saved.UserData != nil {
		s.UserData = saved.UserData
	}
	if first := s.index(StepAuthentication); first >= 0 {
		s.Steps[first].Locked = false
	}
	s.Progress = progress(s.CompletedCount(), len(s.Steps))
	return s, nil
}

// Marshal encodes the snapshot for persistence.
func (s State) Marshal() ([]byte, error) {
	return json.Marshal(s)
}
