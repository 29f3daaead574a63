package ports

import (
	"context"
	"errors"
)

// Record keys. Each container owns exactly one key per scope.
const (
	KeyUserSession  = "user-session"
	KeyJourneyState = "journey-state"
)

// ErrNotFound is returned by StateStore.Load when no record exists.
var ErrNotFound = errors.New("state record not found")

// StateStore is a key-value store for serialized session and journey records,
// partitioned by scope (one scope per browser session).
type StateStore interface {
	Load(ctx context.Context, scope, key string) ([]byte, error)
	Save(ctx context.Context, scope, key string, data []byte) error
	// Delete removes the given keys; missing keys are not an error.
	Delete(ctx context.Context, scope string, keys ...string) error
}
