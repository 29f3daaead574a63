package viewmodel

import (
	"fmt"
	"math"

	"github.com/luminara/journey-api/internal/domain/journey"
)

// Progress is the progress tracker card.
type Progress struct {
	Visible  bool    `json:"visible"`
	Percent  int     `json:"percent"`
	Exact    float64 `json:"exact"`
	Label    string  `json:"label"`
	Current  string  `json:"current"`
	Next     string  `json:"next,omitempty"`
	Complete bool    `json:"complete"`
}

// BuildProgress summarises the journey. It is hidden on the entry page.
func BuildProgress(st journey.State, path string) Progress {
	if path == EntryPath {
		return Progress{}
	}
	p := Progress{
		Visible:  true,
		Percent:  int(math.Round(st.Progress)),
		Exact:    st.Progress,
		Label:    fmt.Sprintf("Step %d of %d", st.CurrentStep, len(st.Steps)),
		Complete: st.IsComplete(),
	}
	if cur, ok := st.Current(); ok {
		p.Current = cur.Name
	}
	if next, ok := st.Next(); ok {
		p.Next = next.Name
	}
	return p
}
