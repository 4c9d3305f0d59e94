package storage

import (
	"context"
	"encoding/json"
	"sync"
)

// MemoryStore is an in-memory Store used by tests and the testing
// environment. It mirrors the sqlite store's notification behavior.
type MemoryStore struct {
	mu       sync.RWMutex
	entries  map[string]json.RawMessage
	notifier *notifier

	// FailWrites makes every Set return a store error; tests use it to
	// verify that callers leave in-memory state untouched on failure.
	FailWrites error
}

// NewMemory creates an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		entries:  make(map[string]json.RawMessage),
		notifier: newNotifier(),
	}
}

// Get fetches the values for the given keys. Absent keys are omitted.
func (s *MemoryStore) Get(ctx context.Context, keys ...string) (map[string]json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]json.RawMessage, len(keys))
	for _, key := range keys {
		if value, ok := s.entries[key]; ok {
			result[key] = value
		}
	}
	return result, nil
}

// Set applies the patch and notifies watchers.
func (s *MemoryStore) Set(ctx context.Context, patch map[string]json.RawMessage) error {
	if s.FailWrites != nil {
		return s.FailWrites
	}
	if len(patch) == 0 {
		return nil
	}

	s.mu.Lock()
	changes := make([]Change, 0, len(patch))
	for key, value := range patch {
		s.entries[key] = value
		changes = append(changes, Change{Key: key, Value: value})
	}
	s.mu.Unlock()

	s.notifier.notify(changes)
	return nil
}

// Watch registers fn for change notifications.
func (s *MemoryStore) Watch(fn WatchFunc) (cancel func()) {
	return s.notifier.watch(fn)
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}
