// Package viewmodel shapes journey state into the payloads the onboarding UI renders.
package viewmodel

import (
	domainauth "github.com/luminara/journey-api/internal/domain/auth"
	"github.com/luminara/journey-api/internal/domain/journey"
)

// EntryPath is the authentication step; display surfaces hide there.
const EntryPath = "/auth"

// User is the signed-in user as shown in the navigation header.
type User struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar,omitempty"`
}

// NavItem is one clickable entry of the floating navigation.
type NavItem struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Path      string `json:"path"`
	Completed bool   `json:"completed"`
	Locked    bool   `json:"locked"`
	Clickable bool   `json:"clickable"`
	Active    bool   `json:"active"`
}

// Navigation is the floating navigation. Items is empty when Visible is false.
type Navigation struct {
	Visible bool      `json:"visible"`
	User    *User     `json:"user,omitempty"`
	Items   []NavItem `json:"items"`
}

// BuildNavigation lists every step after authentication. It is hidden on the
// entry page and for signed-out sessions.
func BuildNavigation(session domainauth.SessionState, st journey.State, path string) Navigation {
	if path == EntryPath || !session.Authenticated || session.User == nil {
		return Navigation{Items: []NavItem{}}
	}

	items := make([]NavItem, 0, len(st.Steps))
	for _, s := range st.Steps {
		if s.ID == journey.StepAuthentication {
			continue
		}
		items = append(items, NavItem{
			ID:        s.ID,
			Name:      s.Name,
			Path:      s.Path,
			Completed: s.Completed,
			Locked:    s.Locked,
			Clickable: !s.Locked,
			Active:    s.Path == path,
		})
	}
	return Navigation{
		Visible: true,
		User: &User{
			Name:   session.User.Name,
			Email:  session.User.Email,
			Avatar: session.User.Avatar,
		},
		Items: items,
	}
}
