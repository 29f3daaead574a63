package data

import "errors"

// Shared sentinel errors for data-layer repositories.
var (
	// ErrCredentialNotFound is returned when no account matches an email.
	ErrCredentialNotFound = errors.New("credential not found")
	// ErrEmailTaken is returned when registering an email that already has an account.
	ErrEmailTaken = errors.New("email already registered")
)
