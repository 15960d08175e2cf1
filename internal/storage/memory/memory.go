// Package memory is an in-process storage.KV used by tests and by
// DATA_BACKEND=memory. Nothing survives a restart.
package memory

import (
	"context"
	"sync"

	"expenso/internal/storage"
)

type Store struct {
	mu    sync.Mutex
	items map[string][]byte
}

func New() *Store {
	return &Store{items: make(map[string][]byte)}
}

// NewWithRecords seeds the store, e.g. with fixtures.
func NewWithRecords(records map[string]string) *Store {
	s := New()
	for k, v := range records {
		s.items[k] = []byte(v)
	}
	return s
}

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.items[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *Store) Put(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = append([]byte(nil), value...)
	return nil
}

func (s *Store) Close() error { return nil }
