// Package backup serializes the task list for file export and parses import
// payloads before they replace the persisted list.
package backup

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"taskdeck/internal/domain"
	"taskdeck/internal/errors"
	"taskdeck/internal/validation"
)

// Export serializes the full task sequence as indented JSON.
func Export(tasks domain.TaskList) ([]byte, error) {
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return nil, errors.NewStoreError("encode export", err)
	}
	return data, nil
}

// Filename returns the date-stamped export filename for the given time.
func Filename(now time.Time) string {
	return fmt.Sprintf("tasks-backup-%s.json", now.UTC().Format("2006-01-02"))
}

// ExportToFile writes the export into dir and returns the written path.
func ExportToFile(dir string, tasks domain.TaskList, now time.Time) (string, error) {
	data, err := Export(tasks)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, Filename(now))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", errors.NewStoreError("write export file", err)
	}
	return path, nil
}

// Import parses an export payload back into a task list. Anything that is
// not a sequence of task-shaped records fails with a validation error.
func Import(data []byte) (domain.TaskList, error) {
	tasks, err := validation.NewImportValidator().ParseTaskSequence(data)
	if err != nil {
		return nil, errors.NewValidationError("import payload is not a valid task sequence", err)
	}
	return tasks, nil
}

// ImportFile reads and parses an export file.
func ImportFile(path string) (domain.TaskList, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewStoreError("read import file", err)
	}
	return Import(data)
}
