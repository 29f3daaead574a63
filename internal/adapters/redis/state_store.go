package redis

// Package redis provides Redis-based adapters for session and journey persistence.

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/luminara/journey-api/internal/ports"
)

const defaultPrefix = "luminara:"

var scopeKeys = []string{ports.KeyUserSession, ports.KeyJourneyState}

var _ ports.StateStore = (*StateStore)(nil)

// StateStore persists records under prefix + scope + ":" + key.
// Every save refreshes the TTL of all records in the scope so active sessions
// do not lose one record while the other survives.
type StateStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// StateStoreOptions configures NewStateStore.
type StateStoreOptions struct {
	Prefix string
	// TTL of zero keeps records until deleted.
	TTL time.Duration
}

// NewStateStore creates a Redis-backed StateStore.
func NewStateStore(client redis.UniversalClient, opts StateStoreOptions) *StateStore {
	prefix := opts.Prefix
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &StateStore{client: client, prefix: prefix, ttl: opts.TTL}
}

func (s *StateStore) key(scope, key string) string {
	return s.prefix + scope + ":" + key
}

func (s *StateStore) Load(ctx context.Context, scope, key string) ([]byte, error) {
	if scope == "" {
		return nil, ports.ErrNotFound
	}
	data, err := s.client.Get(ctx, s.key(scope, key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ports.ErrNotFound
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return data, nil
}

func (s *StateStore) Save(ctx context.Context, scope, key string, data []byte) error {
	if scope == "" {
		return errors.New("scope cannot be empty")
	}
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.key(scope, key), data, s.ttl)
		if s.ttl > 0 {
			for _, sibling := range scopeKeys {
				if sibling != key {
					pipe.Expire(ctx, s.key(scope, sibling), s.ttl)
				}
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *StateStore) Delete(ctx context.Context, scope string, keys ...string) error {
	if scope == "" || len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = s.key(scope, k)
	}
	if err := s.client.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
