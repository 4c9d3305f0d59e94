package storage

import (
	"context"
	"encoding/json"

	"taskdeck/internal/errors"
)

// Well-known store keys shared by every context.
const (
	KeyTasks  = "tasks"
	KeyStreak = "streak"
	KeyTheme  = "theme"
)

// Change describes a single key whose value changed in the store.
// A nil Value means the key was removed.
type Change struct {
	Key   string
	Value json.RawMessage
}

// WatchFunc receives change notifications. It is called from the writer's
// goroutine for in-process writes and from the watcher goroutine for
// external writes, never concurrently with itself.
type WatchFunc func(changes []Change)

// Store is the persistent key-value service shared by all contexts.
// It is the single source of truth: in-memory copies held by contexts are
// caches that must be refreshed on change notification.
type Store interface {
	// Get fetches the values for the given keys. Absent keys are omitted
	// from the result rather than reported as errors.
	Get(ctx context.Context, keys ...string) (map[string]json.RawMessage, error)

	// Set applies the patch atomically. Keys not present in the patch are
	// left untouched. The call does not return until the write is durable.
	Set(ctx context.Context, patch map[string]json.RawMessage) error

	// Watch registers fn for change notifications and returns a cancel
	// function that unregisters it.
	Watch(fn WatchFunc) (cancel func())

	// Close releases the store.
	Close() error
}

// GetJSON reads a single key and decodes it into out. It reports whether the
// key was present.
func GetJSON(ctx context.Context, s Store, key string, out interface{}) (bool, error) {
	values, err := s.Get(ctx, key)
	if err != nil {
		return false, err
	}
	raw, ok := values[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, errors.NewStoreError("decode "+key, err)
	}
	return true, nil
}

// SetJSON encodes value and writes it under key.
func SetJSON(ctx context.Context, s Store, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return errors.NewStoreError("encode "+key, err)
	}
	return s.Set(ctx, map[string]json.RawMessage{key: raw})
}
