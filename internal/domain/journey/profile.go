package journey

import (
	"encoding/json"
	"fmt"
	"strings"
)

// UserDataProfileKey is the data bag key the profile form is stored under.
const UserDataProfileKey = "profile"

// ProfileData is the payload of the profile setup step.
type ProfileData struct {
	PersonalInfo PersonalInfo `json:"personalInfo"`
	Academic     Academic     `json:"academic"`
	Interests    Interests    `json:"interests"`
	Career       Career       `json:"career"`
	Skills       Skills       `json:"skills"`
}

type PersonalInfo struct {
	FullName    string `json:"fullName"`
	DateOfBirth string `json:"dateOfBirth"`
	Phone       string `json:"phone"`
	Location    string `json:"location"`
	Avatar      string `json:"avatar,omitempty"`
}

type Academic struct {
	CurrentEducation string   `json:"currentEducation"`
	Institution      string   `json:"institution"`
	Grade            string   `json:"grade"`
	Subjects         []string `json:"subjects"`
}

type Interests struct {
	Hobbies             []string `json:"hobbies"`
	PreferredActivities []string `json:"preferredActivities"`
	PersonalityTraits   []string `json:"personalityTraits"`
}

type Career struct {
	DreamJob          string `json:"dreamJob"`
	WorkEnvironment   string `json:"workEnvironment"`
	SalaryExpectation string `json:"salaryExpectation"`
	JobSecurity       string `json:"jobSecurity"`
}

type Skills struct {
	Technical []string `json:"technical"`
	Soft      []string `json:"soft"`
	Languages []string `json:"languages"`
}

// ProfileSections is the number of sections CompletedSections counts.
const ProfileSections = 5

// CompletedSections counts sections that carry their key answers.
func (p ProfileData) CompletedSections() int {
	done := []bool{
		filled(p.PersonalInfo.FullName) && filled(p.PersonalInfo.Phone),
		filled(p.Academic.CurrentEducation) && filled(p.Academic.Institution),
		len(p.Interests.Hobbies) > 0,
		filled(p.Career.DreamJob),
		len(p.Skills.Technical) > 0 || len(p.Skills.Soft) > 0,
	}
	n := 0
	for _, d := range done {
		if d {
			n++
		}
	}
	return n
}

// SectionProgress is the percentage of completed sections.
func (p ProfileData) SectionProgress() float64 {
	return progress(p.CompletedSections(), ProfileSections)
}

func filled(s string) bool { return strings.TrimSpace(s) != "" }

// AsUserData converts the profile to the generic form stored in the data bag.
func (p ProfileData) AsUserData() (map[string]any, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode profile: %w", err)
	}
	var generic map[string]any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	return map[string]any{UserDataProfileKey: generic}, nil
}

// ProfileFrom extracts the profile stored in a data bag.
func ProfileFrom(data map[string]any) (ProfileData, bool) {
	v, ok := data[UserDataProfileKey]
	if !ok {
		return ProfileData{}, false
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return ProfileData{}, false
	}
	var p ProfileData
	if err := json.Unmarshal(raw, &p); err != nil {
		return ProfileData{}, false
	}
	return p, true
}
