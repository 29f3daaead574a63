package auth

import (
	"errors"
	"strings"
)

// SessionState describes who is logged in. Authenticated is true iff User is set.
type SessionState struct {
	User          *User `json:"user"`
	Loading       bool  `json:"loading"`
	Authenticated bool  `json:"authenticated"`
}

// NewLoadingSession returns the state a session starts in before it is restored.
func NewLoadingSession() SessionState {
	return SessionState{Loading: true}
}

// SessionFor returns a settled session for u. A nil user yields the signed-out state.
func SessionFor(u *User) SessionState {
	if u == nil {
		return SessionState{}
	}
	cp := *u
	return SessionState{User: &cp, Authenticated: true}
}

// Credentials are the inputs of an email login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate only requires non-empty fields.
func (c Credentials) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Email) == "" {
		errs = append(errs, errors.New("email is required"))
	}
	if c.Password == "" {
		errs = append(errs, errors.New("password is required"))
	}
	return errors.Join(errs...)
}

// Registration are the inputs of an account creation.
type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate only requires non-empty fields.
func (r Registration) Validate() error {
	var errs []error
	if strings.TrimSpace(r.Name) == "" {
		errs = append(errs, errors.New("name is required"))
	}
	if err := (Credentials{Email: r.Email, Password: r.Password}).Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// WithLoading returns a copy of s with the loading flag set.
func (s SessionState) WithLoading(loading bool) SessionState {
	s.Loading = loading
	return s
}
