package cache

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atomicobject/promptvault/pkg/document"
)

// noWatcher simulates watcher-creation failure so tests exercise the pure
// mtime-polling fallback deterministically.
func noWatcherFactory() (Watcher, error) {
	return nil, fsnotify.ErrEventOverflow
}

func newPollingService(t *testing.T, root string) *Service {
	t.Helper()
	svc, err := NewService(root, Options{WatcherFactory: noWatcherFactory})
	require.NoError(t, err)
	t.Cleanup(func() { svc.Close() })
	return svc
}

func writeTask(t *testing.T, root, id string, intervalMinutes int) {
	t.Helper()
	dir := filepath.Join(root, id)
	meta := map[string]any{
		"id":   id,
		"type": "TASK",
		"recurrence": map[string]any{
			"enabled": true, "type": "interval", "intervalMinutes": intervalMinutes,
		},
		"last_notified": int64(0),
	}
	require.NoError(t, document.Write(dir, meta, ""))
}

func TestEnsureReadyPopulatesCache(t *testing.T) {
	root := t.TempDir()
	writeTask(t, root, "task-1", 5)

	svc := newPollingService(t, root)
	require.NoError(t, svc.EnsureReady(context.Background()))

	assert.Equal(t, 1, svc.Len())
}

func TestRefreshSkipsRescanWhenMtimeUnchanged(t *testing.T) {
	root := t.TempDir()
	writeTask(t, root, "task-1", 5)

	svc := newPollingService(t, root)
	require.NoError(t, svc.EnsureReady(context.Background()))
	firstMtime := svc.lastScanMtime

	require.NoError(t, svc.Refresh(context.Background()))
	assert.Equal(t, firstMtime, svc.lastScanMtime)
}

func TestForceRescanNextRefreshTriggersRescan(t *testing.T) {
	root := t.TempDir()
	svc := newPollingService(t, root)
	require.NoError(t, svc.EnsureReady(context.Background()))
	assert.Equal(t, 0, svc.Len())

	writeTask(t, root, "task-1", 5)
	svc.ForceRescanNextRefresh()
	require.NoError(t, svc.Refresh(context.Background()))
	assert.Equal(t, 1, svc.Len())
}

func TestUpdateLastNotifiedMutatesInMemoryRecord(t *testing.T) {
	root := t.TempDir()
	writeTask(t, root, "task-1", 5)
	svc := newPollingService(t, root)
	require.NoError(t, svc.EnsureReady(context.Background()))

	svc.UpdateLastNotified("task-1", 999)
	snap := svc.Snapshot()
	require.Len(t, snap, 1)
	assert.EqualValues(t, 999, snap[0].LastNotified)
}
