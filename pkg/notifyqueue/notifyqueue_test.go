package notifyqueue

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atomicobject/promptvault/pkg/atomicstore"
	"github.com/atomicobject/promptvault/pkg/document"
	"github.com/atomicobject/promptvault/pkg/scanner"
	"github.com/atomicobject/promptvault/pkg/vaulterr"
)

func makeTaskDir(t *testing.T, root, id string) string {
	t.Helper()
	dir := filepath.Join(root, id)
	meta := map[string]any{
		"id":   id,
		"type": "TASK",
		"recurrence": map[string]any{
			"enabled": true, "type": "interval", "intervalMinutes": 5,
		},
		"last_notified": int64(0),
	}
	require.NoError(t, document.Write(dir, meta, "do the thing"))
	return dir
}

func TestAddIsDeduplicated(t *testing.T) {
	q := New()
	rec := scanner.TaskRecord{ID: "t1"}
	assert.True(t, q.Add(rec))
	assert.False(t, q.Add(rec))
}

func TestListReturnsFullPayloads(t *testing.T) {
	root := t.TempDir()
	dir := makeTaskDir(t, root, "t1")
	q := New()
	q.Add(scanner.TaskRecord{ID: "t1", DirPath: dir})

	docs := q.List()
	require.Len(t, docs, 1)
	assert.Equal(t, "do the thing", docs[0].Body)
}

func TestAcknowledgeRemovesAndPersistsBaseline(t *testing.T) {
	root := t.TempDir()
	dir := makeTaskDir(t, root, "t1")
	q := New()
	q.Add(scanner.TaskRecord{ID: "t1", DirPath: dir})

	require.NoError(t, q.Acknowledge("t1", 555))
	assert.Empty(t, q.List())

	var meta map[string]any
	require.NoError(t, atomicstore.ReadJSON(filepath.Join(dir, document.MetaFileName), &meta))
	assert.EqualValues(t, 555, meta["last_notified"])
}

func TestAcknowledgeMissingTaskFails(t *testing.T) {
	q := New()
	err := q.Acknowledge("nope", 1)
	assert.ErrorIs(t, err, vaulterr.IsMissingTask)
}
