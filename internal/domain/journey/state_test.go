package journey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lockedFlags(s State) []bool {
	out := make([]bool, len(s.Steps))
	for i, st := range s.Steps {
		out[i] = st.Locked
	}
	return out
}

func TestNew(t *testing.T) {
	s := New()

	require.Len(t, s.Steps, 10)
	assert.Equal(t, 1, s.CurrentStep)
	assert.Zero(t, s.Progress)
	assert.NotNil(t, s.UserData)
	for i, st := range s.Steps {
		assert.Equal(t, i+1, st.ID)
		assert.Equal(t, i != 0, st.Locked, "step %d", st.ID)
	}
}

func TestMarkStepComplete_Progress(t *testing.T) {
	s := New()

	for i := 1; i <= 10; i++ {
		s.MarkStepComplete(i, true)
		assert.InDelta(t, float64(i)*10, s.Progress, 1e-9)
		assert.Equal(t, i, s.CompletedCount())
	}
	assert.True(t, s.IsComplete())

	s.MarkStepComplete(10, false)
	assert.InDelta(t, 90, s.Progress, 1e-9)
}

func TestMarkStepComplete_UnknownIsNoop(t *testing.T) {
	s := New()
	before := s.Clone()

	s.MarkStepComplete(0, true)
	s.MarkStepComplete(11, true)

	assert.Equal(t, before, s)
}

func TestUnlockPass_OnlyTouchesNextStep(t *testing.T) {
	s := New()
	s.MarkStepComplete(1, true)
	s.MarkStepComplete(2, true)
	s.MarkStepComplete(3, true)

	// pointer still on 1: only step 2 is unlocked
	assert.False(t, s.Steps[1].Locked)
	assert.True(t, s.Steps[2].Locked)
	assert.True(t, s.Steps[3].Locked)

	s.SetCurrentStep(3)
	assert.False(t, s.Steps[3].Locked, "step 4 follows completed step 3")
	assert.True(t, s.Steps[2].Locked, "step 3 is not re-evaluated")
}

func TestSetCurrentStep_RelocksWhenIncomplete(t *testing.T) {
	s := New()
	s.MarkStepComplete(1, true)
	s.SetCurrentStep(2)
	s.MarkStepComplete(2, true)
	require.False(t, s.Steps[2].Locked)

	s.MarkStepComplete(2, false)
	assert.True(t, s.Steps[2].Locked)
}

func TestSetCurrentStep_Unchecked(t *testing.T) {
	s := New()
	s.SetCurrentStep(7)

	assert.Equal(t, 7, s.CurrentStep)
	assert.True(t, s.Steps[7].Locked)

	s.SetCurrentStep(42)
	assert.Equal(t, 7, s.CurrentStep)
}

func TestNavigate(t *testing.T) {
	s := New()

	err := s.Navigate(3)
	require.ErrorIs(t, err, ErrStepLocked)
	assert.Equal(t, 1, s.CurrentStep)

	require.ErrorIs(t, s.Navigate(99), ErrUnknownStep)

	s.MarkStepComplete(1, true)
	require.NoError(t, s.Navigate(2))
	assert.Equal(t, 2, s.CurrentStep)
	assert.True(t, s.Steps[2].Locked)
}

func TestStepOneNeverLocked(t *testing.T) {
	s := New()
	ops := []func(){
		func() { s.SetCurrentStep(10) },
		func() { s.MarkStepComplete(1, false) },
		func() { s.SetCurrentStep(1) },
		func() { s.MarkStepComplete(1, true) },
		func() { s.SetCurrentStep(5) },
	}
	for _, op := range ops {
		op()
		assert.False(t, s.Steps[0].Locked)
	}
}

func TestNextPrevious(t *testing.T) {
	s := New()
	_, ok := s.Previous()
	assert.False(t, ok)

	next, ok := s.Next()
	require.True(t, ok)
	assert.Equal(t, "Welcome", next.Name)

	s.SetCurrentStep(10)
	_, ok = s.Next()
	assert.False(t, ok)
	prev, ok := s.Previous()
	require.True(t, ok)
	assert.Equal(t, 9, prev.ID)
}

func TestUpdateUserData_ShallowMerge(t *testing.T) {
	s := New()
	s.UpdateUserData(map[string]any{"profile": map[string]any{"a": 1}, "goal": "x"})
	s.UpdateUserData(map[string]any{"profile": map[string]any{"b": 2}})

	assert.Equal(t, map[string]any{"b": 2}, s.UserData["profile"])
	assert.Equal(t, "x", s.UserData["goal"])
}

func TestRestore_RoundTrip(t *testing.T) {
	s := New()
	s.MarkStepComplete(1, true)
	s.SetCurrentStep(2)
	s.MarkStepComplete(2, true)
	s.SetCurrentStep(3)
	s.UpdateUserData(map[string]any{"goal": "engineering"})

	raw, err := s.Marshal()
	require.NoError(t, err)

	got, err := Restore(raw)
	require.NoError(t, err)

	assert.Equal(t, s.CurrentStep, got.CurrentStep)
	assert.InDelta(t, s.Progress, got.Progress, 1e-9)
	assert.Equal(t, lockedFlags(s), lockedFlags(got))
	assert.Equal(t, s.Steps, got.Steps)
	assert.Equal(t, "engineering", got.UserData["goal"])
}

func TestRestore_LayersOverDefaults(t *testing.T) {
	raw := []byte(`{"currentStep":2,"steps":[
		{"id":1,"name":"Old","completed":true,"locked":true},
		{"id":2,"locked":false},
		{"id":77,"completed":true}
	],"progress":55}`)

	got, err := Restore(raw)
	require.NoError(t, err)

	assert.Len(t, got.Steps, 10)
	assert.Equal(t, "Authentication", got.Steps[0].Name)
	assert.False(t, got.Steps[0].Locked)
	assert.True(t, got.Steps[0].Completed)
	assert.False(t, got.Steps[1].Locked)
	assert.InDelta(t, 10, got.Progress, 1e-9)
	assert.NotNil(t, got.UserData)
}

func TestRestore_Malformed(t *testing.T) {
	got, err := Restore([]byte("{not json"))
	require.Error(t, err)
	assert.Equal(t, New(), got)
}

func TestScenario_LoginThenWelcome(t *testing.T) {
	s := New()
	s.MarkStepComplete(StepAuthentication, true)
	s.SetCurrentStep(StepWelcome)

	assert.False(t, s.Steps[1].Locked)
	assert.InDelta(t, 10, s.Progress, 1e-9)
}
