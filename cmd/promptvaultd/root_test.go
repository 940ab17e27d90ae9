package main

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureStdout runs fn with os.Stdout redirected to a pipe and returns what
// was written. printJSON writes via fmt.Println to the real os.Stdout rather
// than cmd.OutOrStdout(), so cobra's own output-capture flags can't see it.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = old
	var out bytes.Buffer
	_, _ = out.ReadFrom(r)
	return out.String()
}

func TestCreatePromptPrintsNewDocument(t *testing.T) {
	vault := t.TempDir()

	out := captureStdout(t, func() {
		rootCmd.SetArgs([]string{"create", "Notes", "My Title", "--vault", vault})
		require.NoError(t, rootCmd.Execute())
		rootCmd.SetArgs([]string{})
	})

	var created map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &created))
	assert.Equal(t, "My Title", created["title"])
	assert.NotEmpty(t, created["id"])
}

func TestGetRootPrintsResolvedPath(t *testing.T) {
	vault := t.TempDir()

	out := captureStdout(t, func() {
		rootCmd.SetArgs([]string{"get-root", "--vault", vault})
		require.NoError(t, rootCmd.Execute())
		rootCmd.SetArgs([]string{})
	})

	var payload map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Equal(t, vault, payload["root"])
}

func TestDeleteMovesDocumentToTrash(t *testing.T) {
	vault := t.TempDir()

	captureStdout(t, func() {
		rootCmd.SetArgs([]string{"create", "Notes", "Temp", "--vault", vault})
		require.NoError(t, rootCmd.Execute())
		rootCmd.SetArgs([]string{})
	})

	deleteOut := captureStdout(t, func() {
		rootCmd.SetArgs([]string{"delete", "Notes/temp", "--vault", vault})
		require.NoError(t, rootCmd.Execute())
		rootCmd.SetArgs([]string{})
	})
	assert.Contains(t, deleteOut, "\"ok\": true")

	_, statErr := os.Stat(vault + "/Notes/temp")
	assert.True(t, os.IsNotExist(statErr))

	entries, err := os.ReadDir(vault + "/trash")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
