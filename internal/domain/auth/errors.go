package auth

import (
	"errors"
	"fmt"
)

// PublicMessage is the only failure text shown to end users.
const PublicMessage = "Authentication failed. Please try again."

// ErrorCode classifies authentication failures for logs and status mapping.
type ErrorCode string

const (
	CodeInvalidCredentials ErrorCode = "invalid_credentials"
	CodeInvalidInput       ErrorCode = "invalid_input"
	CodeInProgress         ErrorCode = "in_progress"
	CodeConflict           ErrorCode = "conflict"
	CodeUnavailable        ErrorCode = "unavailable"
	CodeCanceled           ErrorCode = "canceled"
)

// Error is returned by authenticators and the session container.
type Error struct {
	Code ErrorCode
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("auth %s: %v", e.Code, e.Err)
	}
	return "auth " + string(e.Code)
}

func (e *Error) Unwrap() error { return e.Err }

// NewError wraps err with code.
func NewError(code ErrorCode, err error) *Error {
	return &Error{Code: code, Err: err}
}

// ErrInProgress is returned when another authentication attempt is already pending.
var ErrInProgress = &Error{Code: CodeInProgress}

// CodeOf returns the ErrorCode carried by err, or CodeUnavailable for foreign errors.
func CodeOf(err error) ErrorCode {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	return CodeUnavailable
}
