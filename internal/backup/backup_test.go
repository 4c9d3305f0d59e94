package backup

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskdeck/internal/domain"
	"taskdeck/internal/errors"
)

func TestFilename(t *testing.T) {
	now := time.Date(2026, 8, 29, 14, 30, 0, 0, time.UTC)
	assert.Equal(t, "tasks-backup-2026-08-29.json", Filename(now))

	// Late evening west of UTC still stamps the UTC date.
	loc := time.FixedZone("UTC-8", -8*3600)
	evening := time.Date(2026, 8, 28, 22, 0, 0, 0, loc)
	assert.Equal(t, "tasks-backup-2026-08-29.json", Filename(evening))
}

func TestExport_Indented(t *testing.T) {
	tasks := domain.TaskList{
		{ID: 1, Text: "one", CreatedAt: time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)},
	}

	data, err := Export(tasks)

	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  ", "export is indented for human readability")
	assert.Contains(t, string(data), `"text": "one"`)
}

func TestExport_EmptyList(t *testing.T) {
	data, err := Export(domain.TaskList{})
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestExportImport_RoundTrip(t *testing.T) {
	due := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	original := domain.TaskList{
		{ID: 1718000000000, Text: "write report", Completed: true, CreatedAt: time.Date(2026, 8, 29, 8, 0, 0, 0, time.UTC), Category: "work"},
		{ID: 1718000000001, Text: "call sam", DueAt: &due, CreatedAt: time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)},
	}

	data, err := Export(original)
	require.NoError(t, err)

	restored, err := Import(data)
	require.NoError(t, err)
	assert.Equal(t, original, restored)
}

func TestImport_InvalidPayloads(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{name: "should reject an object", payload: `{"not":"an array"}`},
		{name: "should reject a number", payload: `42`},
		{name: "should reject malformed JSON", payload: `[{`},
		{name: "should reject records without ids", payload: `[{"text":"no id"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Import([]byte(tt.payload))

			require.Error(t, err)
			assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
		})
	}
}

func TestExportToFile(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	tasks := domain.TaskList{{ID: 1, Text: "persisted"}}

	path, err := ExportToFile(dir, tasks, now)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "tasks-backup-2026-08-29.json"), path)

	restored, err := ImportFile(path)
	require.NoError(t, err)
	require.Len(t, restored, 1)
	assert.Equal(t, "persisted", restored[0].Text)
}

func TestExportToFile_UnwritableDir(t *testing.T) {
	_, err := ExportToFile(filepath.Join(t.TempDir(), "missing"), domain.TaskList{}, time.Now())

	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeStore))
}

func TestImportFile_Missing(t *testing.T) {
	_, err := ImportFile(filepath.Join(t.TempDir(), "nope.json"))

	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeStore))
}

func TestImportFile_ReadsWhatWasWritten(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manual.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id":7,"text":"manual"}]`), 0644))

	tasks, err := ImportFile(path)

	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, int64(7), tasks[0].ID)
}
