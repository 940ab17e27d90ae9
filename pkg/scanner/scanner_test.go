package scanner

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atomicobject/promptvault/pkg/document"
)

func writeDoc(t *testing.T, dir string, meta map[string]any) {
	t.Helper()
	require.NoError(t, document.Write(dir, meta, "body"))
}

func TestScanSeparatesCategoriesFromDocuments(t *testing.T) {
	root := t.TempDir()
	workDir := filepath.Join(root, "Work")
	writeDoc(t, filepath.Join(workDir, "note_one"), document.SynthesizeDefaultMeta("Note One", "note_one", workDir, document.CreateOptions{}))

	result, err := Scan(root)
	require.NoError(t, err)
	require.Len(t, result.CategoryTree.Children, 1)
	assert.Equal(t, "Work", result.CategoryTree.Children[0].Name)
	assert.Len(t, result.CategoryTree.Children[0].Prompts, 1)
	assert.Len(t, result.FlatIndex, 1)
}

func TestScanSkipsReservedTopLevelNames(t *testing.T) {
	root := t.TempDir()
	trashDir := filepath.Join(root, "trash", "old_note")
	writeDoc(t, trashDir, document.SynthesizeDefaultMeta("Old", "old_note", "", document.CreateOptions{}))

	result, err := Scan(root)
	require.NoError(t, err)
	assert.Empty(t, result.CategoryTree.Children)
	assert.Len(t, result.FlatIndex, 1, "trashed documents still populate the flat index for restore")
}

func TestScanIntervalTasksFiltersNonIntervalDocuments(t *testing.T) {
	root := t.TempDir()
	taskDir := filepath.Join(root, "task_one")
	meta := document.SynthesizeDefaultMeta("Task One", "task_one", "", document.CreateOptions{Type: "TASK"})
	meta["recurrence"] = map[string]any{"enabled": true, "type": "interval", "intervalMinutes": 15}
	meta["last_notified"] = int64(100)
	writeDoc(t, taskDir, meta)

	noteDir := filepath.Join(root, "note_one")
	writeDoc(t, noteDir, document.SynthesizeDefaultMeta("Note One", "note_one", "", document.CreateOptions{}))

	records, err := ScanIntervalTasks(root)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 15, records[0].IntervalMinutes)
	assert.Equal(t, int64(100), records[0].LastNotified)
}

func TestTaskRecordDueDetectionIsMonotone(t *testing.T) {
	r := TaskRecord{LastNotified: 1000, IntervalMinutes: 1}
	assert.False(t, r.IsDue(1000))
	assert.True(t, r.IsDue(1060))
	assert.False(t, r.IsDue(1059))
}
