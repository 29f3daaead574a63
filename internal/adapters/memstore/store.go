package memstore

// Package memstore provides an in-process StateStore for development and tests.

import (
	"context"
	"sync"

	"github.com/luminara/journey-api/internal/ports"
)

var _ ports.StateStore = (*Store)(nil)

// Store keeps records in a map keyed by scope then record key.
// Values are copied on the way in and out.
type Store struct {
	mu      sync.RWMutex
	records map[string]map[string][]byte
}

// New returns an empty Store.
func New() *Store {
	return &Store{records: make(map[string]map[string][]byte)}
}

func (s *Store) Load(_ context.Context, scope, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.records[scope][key]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *Store) Save(_ context.Context, scope, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	bucket, ok := s.records[scope]
	if !ok {
		bucket = make(map[string][]byte)
		s.records[scope] = bucket
	}
	bucket[key] = append([]byte(nil), data...)
	return nil
}

func (s *Store) Delete(_ context.Context, scope string, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	bucket, ok := s.records[scope]
	if !ok {
		return nil
	}
	for _, k := range keys {
		delete(bucket, k)
	}
	if len(bucket) == 0 {
		delete(s.records, scope)
	}
	return nil
}

// Scopes returns the number of scopes holding at least one record.
func (s *Store) Scopes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
