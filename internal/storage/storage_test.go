package storage

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskdeck/internal/errors"
)

// storeFactories lets every conformance test run against both
// implementations.
var storeFactories = map[string]func(t *testing.T) Store{
	"sqlite": func(t *testing.T) Store {
		t.Helper()
		s, err := NewSQLite(":memory:")
		require.NoError(t, err)
		t.Cleanup(func() { s.Close() })
		return s
	},
	"memory": func(t *testing.T) Store {
		t.Helper()
		return NewMemory()
	},
}

func TestStore_GetSetRoundTrip(t *testing.T) {
	for name, newStore := range storeFactories {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)
			ctx := context.Background()

			require.NoError(t, s.Set(ctx, map[string]json.RawMessage{
				KeyTasks:  json.RawMessage(`[{"id":1}]`),
				KeyStreak: json.RawMessage(`{"count":3}`),
			}))

			values, err := s.Get(ctx, KeyTasks, KeyStreak, KeyTheme)
			require.NoError(t, err)
			assert.JSONEq(t, `[{"id":1}]`, string(values[KeyTasks]))
			assert.JSONEq(t, `{"count":3}`, string(values[KeyStreak]))
			_, ok := values[KeyTheme]
			assert.False(t, ok, "absent keys are omitted, not errors")
		})
	}
}

func TestStore_SetOverwrites(t *testing.T) {
	for name, newStore := range storeFactories {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)
			ctx := context.Background()

			require.NoError(t, s.Set(ctx, map[string]json.RawMessage{KeyTheme: json.RawMessage(`"light"`)}))
			require.NoError(t, s.Set(ctx, map[string]json.RawMessage{KeyTheme: json.RawMessage(`"dark"`)}))

			values, err := s.Get(ctx, KeyTheme)
			require.NoError(t, err)
			assert.JSONEq(t, `"dark"`, string(values[KeyTheme]))
		})
	}
}

func TestStore_SetLeavesOtherKeysUntouched(t *testing.T) {
	for name, newStore := range storeFactories {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)
			ctx := context.Background()

			require.NoError(t, s.Set(ctx, map[string]json.RawMessage{KeyTasks: json.RawMessage(`[]`)}))
			require.NoError(t, s.Set(ctx, map[string]json.RawMessage{KeyStreak: json.RawMessage(`{"count":1}`)}))

			values, err := s.Get(ctx, KeyTasks, KeyStreak)
			require.NoError(t, err)
			assert.Len(t, values, 2, "a patch only touches its own keys")
		})
	}
}

func TestStore_WatchNotifiesOnSet(t *testing.T) {
	for name, newStore := range storeFactories {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)
			ctx := context.Background()

			var received []Change
			cancel := s.Watch(func(changes []Change) {
				received = append(received, changes...)
			})
			defer cancel()

			require.NoError(t, s.Set(ctx, map[string]json.RawMessage{KeyTasks: json.RawMessage(`[]`)}))

			require.Len(t, received, 1, "the write is observed before Set returns")
			assert.Equal(t, KeyTasks, received[0].Key)
			assert.JSONEq(t, `[]`, string(received[0].Value))
		})
	}
}

func TestStore_WatchCancel(t *testing.T) {
	for name, newStore := range storeFactories {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)
			ctx := context.Background()

			calls := 0
			cancel := s.Watch(func([]Change) { calls++ })
			cancel()

			require.NoError(t, s.Set(ctx, map[string]json.RawMessage{KeyTasks: json.RawMessage(`[]`)}))
			assert.Equal(t, 0, calls, "cancelled watchers see nothing")
		})
	}
}

func TestStore_EmptyPatchIsNoOp(t *testing.T) {
	for name, newStore := range storeFactories {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)

			calls := 0
			cancel := s.Watch(func([]Change) { calls++ })
			defer cancel()

			require.NoError(t, s.Set(context.Background(), nil))
			assert.Equal(t, 0, calls)
		})
	}
}

func TestSQLiteStore_PersistsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taskdeck.db")
	ctx := context.Background()

	first, err := NewSQLite(path)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, map[string]json.RawMessage{KeyTasks: json.RawMessage(`[{"id":9}]`)}))
	require.NoError(t, first.Close())

	second, err := NewSQLite(path)
	require.NoError(t, err)
	defer second.Close()

	values, err := second.Get(ctx, KeyTasks)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":9}]`, string(values[KeyTasks]))
}

func TestSQLiteStore_GetAll(t *testing.T) {
	s, err := NewSQLite(":memory:")
	require.NoError(t, err)
	defer s.Close()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, map[string]json.RawMessage{
		KeyTasks: json.RawMessage(`[]`),
		KeyTheme: json.RawMessage(`"dark"`),
	}))

	all, err := s.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestSQLiteStore_Path(t *testing.T) {
	mem, err := NewSQLite(":memory:")
	require.NoError(t, err)
	defer mem.Close()
	assert.Empty(t, mem.Path(), "in-memory stores have no watchable file")

	path := filepath.Join(t.TempDir(), "on-disk.db")
	disk, err := NewSQLite(path)
	require.NoError(t, err)
	defer disk.Close()
	assert.Equal(t, path, disk.Path())
}

func TestGetJSON(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	var out struct {
		Count int `json:"count"`
	}

	found, err := GetJSON(ctx, s, KeyStreak, &out)
	require.NoError(t, err)
	assert.False(t, found, "absent key reports not found without error")

	require.NoError(t, SetJSON(ctx, s, KeyStreak, map[string]int{"count": 5}))

	found, err = GetJSON(ctx, s, KeyStreak, &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 5, out.Count)
}

func TestGetJSON_MalformedValue(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, map[string]json.RawMessage{KeyStreak: json.RawMessage(`{broken`)}))

	var out map[string]int
	_, err := GetJSON(ctx, s, KeyStreak, &out)

	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeStore))
}

func TestMemoryStore_FailWrites(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	s.FailWrites = errors.NewStoreError("write", nil)

	err := s.Set(ctx, map[string]json.RawMessage{KeyTasks: json.RawMessage(`[]`)})
	require.Error(t, err)

	values, getErr := s.Get(ctx, KeyTasks)
	require.NoError(t, getErr)
	assert.Empty(t, values, "a failed write must not land")
}
