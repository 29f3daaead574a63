package viewmodel

import (
	"fmt"
	"math"

	"github.com/luminara/journey-api/internal/domain/journey"
)

// ProfileProgress is the section counter of the profile form.
type ProfileProgress struct {
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
	Percent   int    `json:"percent"`
	Label     string `json:"label"`
}

// BuildProfileProgress counts the sections of the profile saved in the data bag.
// A journey without a saved profile reports zero sections.
func BuildProfileProgress(st journey.State) ProfileProgress {
	p, _ := journey.ProfileFrom(st.UserData)
	done := p.CompletedSections()
	return ProfileProgress{
		Completed: done,
		Total:     journey.ProfileSections,
		Percent:   int(math.Round(p.SectionProgress())),
		Label:     fmt.Sprintf("%d of %d sections", done, journey.ProfileSections),
	}
}
