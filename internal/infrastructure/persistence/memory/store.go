// Package memory provides a process-local key/value store.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/bnema/careshell/internal/application/port"
)

// Store keeps values in a map. Nothing survives a restart.
type Store struct {
	mu     sync.RWMutex
	values map[string]string
}

var _ port.KeyValueStore = (*Store)(nil)

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{values: make(map[string]string)}
}

// Get returns the value stored under key.
func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok, nil
}

// Set creates or overwrites key.
func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

// Delete removes key.
func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

// Keys lists keys with prefix, sorted.
func (s *Store) Keys(_ context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}
