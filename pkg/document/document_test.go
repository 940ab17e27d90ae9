package document

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugifyOnlyAllowedCharacters(t *testing.T) {
	assert.Equal(t, "hello_world", Slugify("Hello World"))
	assert.Equal(t, "caf", Slugify("Café!!!"))
	assert.Equal(t, "prompt", Slugify("   "))
}

func TestSynthesizeDefaultMetaDefaults(t *testing.T) {
	meta := SynthesizeDefaultMeta("My Title", "my_title", "/vault/Work", CreateOptions{})
	assert.Equal(t, "NOTE", meta["type"])
	assert.Equal(t, "1.0.0", meta["version"])
	assert.Equal(t, "User", meta["author"])
	assert.Equal(t, false, meta["is_favorite"])
	assert.Equal(t, "/vault/Work", meta["category_path"])
	assert.Equal(t, "Work", meta["category"])
	id, ok := meta["id"].(string)
	require.True(t, ok)
	assert.NotEmpty(t, id)
}

func TestWriteReadRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "my_doc")
	meta := SynthesizeDefaultMeta("My Doc", "my_doc", "", CreateOptions{Type: "TASK"})
	require.NoError(t, Write(dir, meta, "body text"))

	doc, err := Read(dir, "")
	require.NoError(t, err)
	assert.Equal(t, "My Doc", doc.Title)
	assert.Equal(t, "TASK", doc.Type)
	assert.Equal(t, "body text", doc.Body)
}

func TestReadMissingBodyIsEmptyNotError(t *testing.T) {
	dir := t.TempDir()
	meta := SynthesizeDefaultMeta("No Body", "no_body", "", CreateOptions{})
	require.NoError(t, Write(dir, meta, ""))
	require.NoError(t, os.Remove(filepath.Join(dir, BodyFileName)))

	doc, err := Read(dir, "")
	require.NoError(t, err)
	assert.Equal(t, "", doc.Body)
}

func TestReadFillsCategoryFromDirWhenAbsent(t *testing.T) {
	dir := t.TempDir()
	meta := SynthesizeDefaultMeta("Untagged", "untagged", "", CreateOptions{})
	require.NoError(t, Write(dir, meta, ""))

	doc, err := Read(dir, "/vault/Inbox")
	require.NoError(t, err)
	assert.Equal(t, "/vault/Inbox", doc.CategoryPath)
	assert.Equal(t, "Inbox", doc.Category)
}

func TestIsIntervalTask(t *testing.T) {
	assert.True(t, IsIntervalTask(map[string]any{
		"type": "TASK",
		"recurrence": map[string]any{
			"enabled":         true,
			"type":            "interval",
			"intervalMinutes": float64(30),
		},
	}))
	assert.False(t, IsIntervalTask(map[string]any{"type": "NOTE"}))
	assert.False(t, IsIntervalTask(map[string]any{
		"type": "TASK",
		"recurrence": map[string]any{
			"enabled": false, "type": "interval", "intervalMinutes": float64(30),
		},
	}))
}
