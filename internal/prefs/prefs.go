// Package prefs is the persistence store: a small string key-value store
// that survives restarts.
package prefs

import (
	"context"
	"sync"
)

// Store is the persistence port.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// MemStore keeps values in memory only.
type MemStore struct {
	mu sync.Mutex
	m  map[string]string
}

var _ Store = (*MemStore)(nil)

func NewMemStore() *MemStore { return &MemStore{m: make(map[string]string)} }

func (s *MemStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.m[key]
	return v, ok, nil
}

func (s *MemStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
	return nil
}

func (s *MemStore) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key)
	return nil
}

// ReadOnly wraps s so that writes are accepted and discarded.
func ReadOnly(s Store) Store { return readOnly{s} }

type readOnly struct{ Store }

func (readOnly) Set(context.Context, string, string) error { return nil }
func (readOnly) Remove(context.Context, string) error      { return nil }
