package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"taskdeck/internal/errors"
	"taskdeck/internal/storage/migrations"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements the Store interface over a single-table SQLite
// database so independent processes can share one persisted state.
type SQLiteStore struct {
	db       *sql.DB
	path     string
	notifier *notifier
}

// NewSQLite opens (creating if necessary) a SQLite-backed store at path.
// ":memory:" is accepted for tests.
func NewSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.NewStoreError("open database", err)
	}

	// Writers from several contexts may race; keep sqlite's own locking
	// happy by funneling through one connection.
	db.SetMaxOpenConns(1)

	if err := migrations.RunMigrations(db); err != nil {
		db.Close()
		return nil, errors.NewStoreError("run migrations", err)
	}

	return &SQLiteStore{
		db:       db,
		path:     path,
		notifier: newNotifier(),
	}, nil
}

// Path returns the database file path (empty for in-memory stores).
func (s *SQLiteStore) Path() string {
	if s.path == ":memory:" {
		return ""
	}
	return s.path
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Get fetches the values for the given keys. Absent keys are omitted.
func (s *SQLiteStore) Get(ctx context.Context, keys ...string) (map[string]json.RawMessage, error) {
	result := make(map[string]json.RawMessage, len(keys))
	for _, key := range keys {
		var value string
		err := s.db.QueryRowContext(ctx, `SELECT value FROM entries WHERE key = ?`, key).Scan(&value)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return nil, errors.NewStoreError("read "+key, err)
		}
		result[key] = json.RawMessage(value)
	}
	return result, nil
}

// GetAll fetches every key in the store. Used by the external-write watcher
// to diff snapshots.
func (s *SQLiteStore) GetAll(ctx context.Context) (map[string]json.RawMessage, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM entries`)
	if err != nil {
		return nil, errors.NewStoreError("read entries", err)
	}
	defer rows.Close()

	result := make(map[string]json.RawMessage)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, errors.NewStoreError("scan entry", err)
		}
		result[key] = json.RawMessage(value)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStoreError("read entries", err)
	}
	return result, nil
}

// Set applies the patch in one transaction, then notifies watchers.
func (s *SQLiteStore) Set(ctx context.Context, patch map[string]json.RawMessage) error {
	if len(patch) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.NewStoreError("begin write", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	for key, value := range patch {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO entries (key, value, updated_at) VALUES (?, ?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
			key, string(value), now)
		if err != nil {
			tx.Rollback()
			return errors.NewStoreError("write "+key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.NewStoreError("commit write", err)
	}

	changes := make([]Change, 0, len(patch))
	for key, value := range patch {
		changes = append(changes, Change{Key: key, Value: value})
	}
	s.notifier.notify(changes)

	return nil
}

// Watch registers fn for change notifications.
func (s *SQLiteStore) Watch(fn WatchFunc) (cancel func()) {
	return s.notifier.watch(fn)
}
