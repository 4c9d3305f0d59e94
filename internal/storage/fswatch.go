package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/fsnotify/fsnotify"

	"taskdeck/internal/logging"
)

// debounce window for bursts of filesystem events from a single commit.
const externalWatchDebounce = 100 * time.Millisecond

// ExternalWatcher turns filesystem writes made by other processes into
// store change notifications, so badge and streak stay correct regardless
// of where a write originated.
type ExternalWatcher struct {
	store    *SQLiteStore
	snapshot map[string]json.RawMessage
}

// NewExternalWatcher creates a watcher for the given sqlite store.
// The store must be file-backed.
func NewExternalWatcher(store *SQLiteStore) *ExternalWatcher {
	return &ExternalWatcher{store: store}
}

// Start begins watching and blocks until ctx is done or the watcher fails.
// Callers normally run it on its own goroutine.
func (w *ExternalWatcher) Start(ctx context.Context) error {
	path := w.store.Path()
	if path == "" {
		// In-memory stores have nothing to watch; in-process writes
		// already notify directly.
		<-ctx.Done()
		return nil
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	if err := fsw.Add(path); err != nil {
		return err
	}
	// sqlite may journal beside the database file.
	_ = fsw.Add(path + "-wal")

	snapshot, err := w.store.GetAll(ctx)
	if err != nil {
		return err
	}
	w.snapshot = snapshot

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			pending = time.After(externalWatchDebounce)
		case <-pending:
			pending = nil
			w.diffAndNotify(ctx)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logging.Debugf("storage watcher error: %v\n", err)
		}
	}
}

// diffAndNotify re-reads the store, compares against the last snapshot, and
// forwards any differences through the store's notifier.
func (w *ExternalWatcher) diffAndNotify(ctx context.Context) {
	current, err := w.store.GetAll(ctx)
	if err != nil {
		logging.Debugf("storage watcher read failed: %v\n", err)
		return
	}

	var changes []Change
	for key, value := range current {
		if !bytes.Equal(w.snapshot[key], value) {
			changes = append(changes, Change{Key: key, Value: value})
		}
	}
	for key := range w.snapshot {
		if _, ok := current[key]; !ok {
			changes = append(changes, Change{Key: key, Value: nil})
		}
	}

	w.snapshot = current
	if len(changes) > 0 {
		logging.Debugf("storage watcher: %d external change(s)\n", len(changes))
		w.store.notifier.notify(changes)
	}
}
