package journey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileData_CompletedSections(t *testing.T) {
	var p ProfileData
	assert.Zero(t, p.CompletedSections())

	p.PersonalInfo = PersonalInfo{FullName: "Ana Lima", Phone: "+91 90000 00000"}
	p.Career.DreamJob = "Data scientist"
	assert.Equal(t, 2, p.CompletedSections())
	assert.InDelta(t, 40, p.SectionProgress(), 1e-9)

	p.Academic = Academic{CurrentEducation: "Class 12", Institution: "GHS"}
	p.Interests.Hobbies = []string{"chess"}
	p.Skills.Soft = []string{"teamwork"}
	assert.Equal(t, ProfileSections, p.CompletedSections())
}

func TestProfileData_UserDataRoundTrip(t *testing.T) {
	p := ProfileData{
		PersonalInfo: PersonalInfo{FullName: "Ana Lima"},
		Skills:       Skills{Languages: []string{"Hindi", "English"}},
	}

	data, err := p.AsUserData()
	require.NoError(t, err)
	require.Contains(t, data, UserDataProfileKey)

	s := New()
	s.UpdateUserData(data)

	got, ok := ProfileFrom(s.UserData)
	require.True(t, ok)
	assert.Equal(t, "Ana Lima", got.PersonalInfo.FullName)
	assert.Equal(t, []string{"Hindi", "English"}, got.Skills.Languages)

	_, ok = ProfileFrom(map[string]any{})
	assert.False(t, ok)
}
