package vaultfs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureWithin_AcceptsDescendant(t *testing.T) {
	root := t.TempDir()
	child := filepath.Join(root, "a", "b")
	resolved, err := EnsureWithin(root, child)
	require.NoError(t, err)
	assert.Equal(t, child, resolved)
}

func TestEnsureWithin_RejectsSiblingWithSharedPrefix(t *testing.T) {
	root := t.TempDir()
	sibling := root + "-backup"
	_, err := EnsureWithin(root, sibling)
	assert.ErrorIs(t, err, ErrPathTraversal)
}

func TestEnsureWithin_RejectsTraversal(t *testing.T) {
	root := t.TempDir()
	escaped := filepath.Join(root, "..", "outside")
	_, err := EnsureWithin(root, escaped)
	assert.ErrorIs(t, err, ErrPathTraversal)
}

func TestEnsureWithin_RejectsSymlinkEscape(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(outside, "secret"), []byte("x"), 0o644))

	link := filepath.Join(root, "escape")
	require.NoError(t, os.Symlink(outside, link))

	_, err := EnsureWithin(root, filepath.Join(link, "secret"))
	assert.ErrorIs(t, err, ErrPathTraversal)
}

func TestEnsureWithin_AcceptsSymlinkedDescendantWithinRoot(t *testing.T) {
	root := t.TempDir()
	realDir := filepath.Join(root, "real")
	require.NoError(t, os.Mkdir(realDir, 0o755))

	link := filepath.Join(root, "alias")
	require.NoError(t, os.Symlink(realDir, link))

	resolved, err := EnsureWithin(root, filepath.Join(link, "doc.json"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(link, "doc.json"), resolved)
}

func TestResolveWithin_JoinsRelative(t *testing.T) {
	root := t.TempDir()
	resolved, err := ResolveWithin(root, "Category/doc")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "Category", "doc"), resolved)
}

func TestNormaliseImportCategory(t *testing.T) {
	cases := map[string]string{
		"Work/Notes":                "Work/Notes",
		"C:\\Users\\me\\vault\\Work": "Work",
		"/home/me/vault/Work/Notes": "Work/Notes",
		"/Vault/Work":               "Work",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormaliseImportCategory(in), in)
	}
}
