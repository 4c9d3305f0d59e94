package config

import (
	"fmt"
	"os"

	"taskdeck/internal/storage"
)

// CreateStore opens the file-backed persisted store described by the
// configuration, creating the store directory if needed.
func CreateStore(cfg *Config) (*storage.SQLiteStore, error) {
	if err := os.MkdirAll(cfg.Storage.Dir, os.FileMode(cfg.Storage.DirPermissions)); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	store, err := storage.NewSQLite(cfg.GetStorePath())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}

	return store, nil
}
