package vaultops

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atomicobject/promptvault/pkg/document"
	"github.com/atomicobject/promptvault/pkg/vaulterr"
)

func TestCreatePromptThenRead(t *testing.T) {
	root := t.TempDir()
	ops := New(root)

	doc, err := ops.CreatePrompt("Work", "My First Note", document.CreateOptions{})
	require.NoError(t, err)
	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, "my_first_note", doc.Slug)

	read, err := ops.ReadPrompt(doc.Path)
	require.NoError(t, err)
	assert.Equal(t, doc.ID, read.ID)
}

func TestCreatePromptDeduplicatesSlug(t *testing.T) {
	root := t.TempDir()
	ops := New(root)

	first, err := ops.CreatePrompt("", "Duplicate", document.CreateOptions{})
	require.NoError(t, err)
	second, err := ops.CreatePrompt("", "Duplicate", document.CreateOptions{})
	require.NoError(t, err)

	assert.NotEqual(t, first.Path, second.Path)
	assert.Equal(t, filepath.Base(first.Path)+"_2", filepath.Base(second.Path))
}

func TestDeleteThenRestoreRoundTrip(t *testing.T) {
	root := t.TempDir()
	ops := New(root)

	doc, err := ops.CreatePrompt("Work", "To Trash", document.CreateOptions{})
	require.NoError(t, err)

	require.NoError(t, ops.DeletePrompt(doc.Path, false))
	_, err = os.Stat(doc.Path)
	assert.True(t, os.IsNotExist(err))

	result, err := ops.ScanVault()
	require.NoError(t, err)
	trashed, ok := result.FlatIndex[doc.ID]
	require.True(t, ok, "trashed document must still be in the flat index")

	require.NoError(t, ops.RestorePrompt(trashed.Path))
	_, err = os.Stat(doc.Path)
	assert.NoError(t, err, "document restored to its original path")
}

func TestDeletePermanentRemovesDirectory(t *testing.T) {
	root := t.TempDir()
	ops := New(root)
	doc, err := ops.CreatePrompt("", "Gone", document.CreateOptions{})
	require.NoError(t, err)

	require.NoError(t, ops.DeletePrompt(doc.Path, true))
	_, err = os.Stat(doc.Path)
	assert.True(t, os.IsNotExist(err))
}

func TestCreateCategoryConflict(t *testing.T) {
	root := t.TempDir()
	ops := New(root)
	_, err := ops.CreateCategory("", "Work")
	require.NoError(t, err)

	_, err = ops.CreateCategory("", "Work")
	require.Error(t, err)
	assert.ErrorIs(t, err, vaulterr.IsConflict)
}

func TestMoveCategoryConflict(t *testing.T) {
	root := t.TempDir()
	ops := New(root)
	_, err := ops.CreateCategory("", "Src")
	require.NoError(t, err)
	_, err = ops.CreateCategory("", "Dst")
	require.NoError(t, err)
	_, err = ops.CreateCategory("Dst", "Src")
	require.NoError(t, err)

	_, _, err = ops.MoveCategory("Src", "Dst")
	assert.ErrorIs(t, err, vaulterr.IsConflict)
}

func TestPathEscapeRejected(t *testing.T) {
	root := t.TempDir()
	ops := New(root)
	_, err := ops.ReadPrompt("../../etc/passwd")
	assert.ErrorIs(t, err, vaulterr.IsInvalidPath)
}

func TestTrashExpiryByVisitCount(t *testing.T) {
	root := t.TempDir()
	ops := New(root)
	doc, err := ops.CreatePrompt("", "Expiring", document.CreateOptions{})
	require.NoError(t, err)
	require.NoError(t, ops.DeletePrompt(doc.Path, false))

	threshold := 3
	for i := 0; i < 2; i++ {
		res, err := ops.TrashVisit(&threshold)
		require.NoError(t, err)
		assert.Empty(t, res.Deleted)
	}

	res, err := ops.TrashVisit(&threshold)
	require.NoError(t, err)
	require.Len(t, res.Deleted, 1)
	assert.Equal(t, 3, res.Deleted[0].Visits)

	status, err := ops.TrashStatus(&threshold)
	require.NoError(t, err)
	assert.Empty(t, status.Counts)
}

func TestUploadImageStripsDataURIPrefix(t *testing.T) {
	root := t.TempDir()
	ops := New(root)
	// 1x1 transparent PNG, base64-encoded.
	payload := "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mNk+A8AAQUBAScY42YAAAAASUVORK5CYII="
	rel, err := ops.UploadImage(payload, "doc-123", "")
	require.NoError(t, err)
	assert.Contains(t, rel, filepath.Join("assets", "doc-123"))

	abs := filepath.Join(root, rel)
	_, err = os.Stat(abs)
	assert.NoError(t, err)
}
