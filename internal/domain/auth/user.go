package auth

// Package auth contains domain-level types for user identity and session state.
// It is pure and free of framework/adapter concerns.

import (
	"crypto/rand"
	"math/big"
	"strings"
	"time"
)

// Provider tags how a user record was established.
type Provider string

const (
	ProviderEmail  Provider = "email"
	ProviderGoogle Provider = "google"
)

// Valid reports whether p is one of the known providers.
func (p Provider) Valid() bool {
	return p == ProviderEmail || p == ProviderGoogle
}

// User is the persisted identity record. Its JSON form is the `user-session` record.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Avatar    string    `json:"avatar,omitempty"`
	Provider  Provider  `json:"provider"`
	CreatedAt time.Time `json:"createdAt"`
}

// ProfileUpdate is a partial update of a user record. Nil fields are left untouched.
type ProfileUpdate struct {
	Name   *string `json:"name,omitempty"`
	Email  *string `json:"email,omitempty"`
	Avatar *string `json:"avatar,omitempty"`
}

// Empty reports whether the update sets no fields.
func (p ProfileUpdate) Empty() bool {
	return p.Name == nil && p.Email == nil && p.Avatar == nil
}

// Apply merges the set fields into u and returns the result.
func (p ProfileUpdate) Apply(u User) User {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Avatar != nil {
		u.Avatar = *p.Avatar
	}
	return u
}

const (
	idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	idLength   = 9
)

// NewUserID returns prefix followed by nine random lowercase base36 characters.
func NewUserID(prefix string) string {
	var b strings.Builder
	b.Grow(len(prefix) + idLength)
	b.WriteString(prefix)
	base := big.NewInt(int64(len(idAlphabet)))
	for range idLength {
		n, err := rand.Int(rand.Reader, base)
		if err != nil {
			// crypto/rand does not fail on supported platforms
			panic(err)
		}
		b.WriteByte(idAlphabet[n.Int64()])
	}
	return b.String()
}

// NameFromEmail returns the local part of an email address.
func NameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}
