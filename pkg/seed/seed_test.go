package seed_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atomicobject/promptvault/pkg/seed"
	"github.com/atomicobject/promptvault/pkg/vaultops"
)

func TestLoadEmbeddedParsesManifest(t *testing.T) {
	m, err := seed.LoadEmbedded()
	require.NoError(t, err)
	assert.NotEmpty(t, m.Entries)
	for _, e := range m.Entries {
		assert.NotEmpty(t, e.Title)
		assert.NotEmpty(t, e.Type)
	}
}

func TestApplyCreatesEveryEntry(t *testing.T) {
	root := t.TempDir()
	ops := vaultops.New(root)

	m, err := seed.LoadEmbedded()
	require.NoError(t, err)

	require.NoError(t, seed.Apply(ops, m))

	result, err := ops.ScanVault()
	require.NoError(t, err)
	assert.Len(t, result.FlatIndex, len(m.Entries))

	foundTask := false
	for _, doc := range result.FlatIndex {
		if doc.Type == "TASK" {
			foundTask = true
			require.NotNil(t, doc.Recurrence)
			assert.True(t, doc.Recurrence.Enabled)
		}
	}
	assert.True(t, foundTask)
}
