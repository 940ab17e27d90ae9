package transfer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atomicobject/promptvault/pkg/document"
	"github.com/atomicobject/promptvault/pkg/vaultops"
)

func scanFlatIndex(t *testing.T, ops *vaultops.Ops) map[string]document.Document {
	t.Helper()
	result, err := ops.ScanVault()
	require.NoError(t, err)
	return result.FlatIndex
}

func TestExportLooksUpByIDAndTracksNotFound(t *testing.T) {
	root := t.TempDir()
	ops := vaultops.New(root)

	doc, err := ops.CreatePrompt("Work", "Exported Note", document.CreateOptions{})
	require.NoError(t, err)

	flat := scanFlatIndex(t, ops)
	result := Export(flat, ExportOptions{IDs: []string{doc.ID, "missing-id"}}, root)

	require.Len(t, result.Records, 1)
	assert.Equal(t, "Exported Note", result.Records[0].Title)
	assert.Equal(t, []string{"missing-id"}, result.NotFound)
}

func TestExportOmitsContentWhenIncludeContentFalse(t *testing.T) {
	root := t.TempDir()
	ops := vaultops.New(root)
	doc, err := ops.CreatePrompt("", "No Content", document.CreateOptions{})
	require.NoError(t, err)
	doc.Body = "secret body"
	require.NoError(t, ops.SavePrompt(doc))

	flat := scanFlatIndex(t, ops)
	include := false
	result := Export(flat, ExportOptions{IDs: []string{doc.ID}, IncludeContent: &include}, root)

	require.Len(t, result.Records, 1)
	assert.Empty(t, result.Records[0].Content)
}

func TestImportCreatesNewDocumentUnderBaseCategory(t *testing.T) {
	root := t.TempDir()
	ops := vaultops.New(root)

	result := Import(ops, map[string]document.Document{}, []ImportRecord{
		{Title: "Imported One", Content: "body one"},
	}, ImportOptions{BaseCategoryPath: "Imported"}, root)

	require.Equal(t, 1, result.Total)
	assert.Equal(t, 1, result.Success)
	assert.Equal(t, "success", result.Details[0].Status)

	flat := scanFlatIndex(t, ops)
	found := false
	for _, d := range flat {
		if d.Title == "Imported One" {
			found = true
			assert.Equal(t, "body one", d.Body)
		}
	}
	assert.True(t, found)
}

func TestImportConflictStrategySkip(t *testing.T) {
	root := t.TempDir()
	ops := vaultops.New(root)
	existing, err := ops.CreatePrompt("Work", "Duplicate Title", document.CreateOptions{})
	require.NoError(t, err)

	flat := scanFlatIndex(t, ops)
	result := Import(ops, flat, []ImportRecord{
		{Title: "Duplicate Title", CategoryPath: "Work"},
	}, ImportOptions{ConflictStrategy: ConflictSkip}, root)

	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, "skipped", result.Details[0].Status)

	after := scanFlatIndex(t, ops)
	assert.Len(t, after, 1)
	_ = existing
}

func TestImportConflictStrategyRenameAppendsSuffix(t *testing.T) {
	root := t.TempDir()
	ops := vaultops.New(root)
	_, err := ops.CreatePrompt("Work", "Duplicate Title", document.CreateOptions{})
	require.NoError(t, err)

	flat := scanFlatIndex(t, ops)
	result := Import(ops, flat, []ImportRecord{
		{Title: "Duplicate Title", CategoryPath: "Work"},
	}, ImportOptions{ConflictStrategy: ConflictRename}, root)

	require.Equal(t, 1, result.Success)
	assert.Equal(t, "Duplicate Title (imported 1)", result.Details[0].Title)

	after := scanFlatIndex(t, ops)
	assert.Len(t, after, 2)
}

func TestImportConflictStrategyOverwriteReplacesContent(t *testing.T) {
	root := t.TempDir()
	ops := vaultops.New(root)
	existing, err := ops.CreatePrompt("Work", "Duplicate Title", document.CreateOptions{})
	require.NoError(t, err)

	flat := scanFlatIndex(t, ops)
	result := Import(ops, flat, []ImportRecord{
		{Title: "Duplicate Title", CategoryPath: "Work", Content: "new content"},
	}, ImportOptions{ConflictStrategy: ConflictOverwrite}, root)

	require.Equal(t, 1, result.Success)

	reread, err := ops.ReadPrompt(existing.Path)
	require.NoError(t, err)
	assert.Equal(t, "new content", reread.Body)

	after := scanFlatIndex(t, ops)
	assert.Len(t, after, 1)
}

func TestImportRejectsBlankTitle(t *testing.T) {
	root := t.TempDir()
	ops := vaultops.New(root)

	result := Import(ops, map[string]document.Document{}, []ImportRecord{
		{Title: "   "},
	}, ImportOptions{}, root)

	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, "failed", result.Details[0].Status)
}

func TestImportFallsBackToDefaultUncategorizedFolder(t *testing.T) {
	root := t.TempDir()
	ops := vaultops.New(root)

	result := Import(ops, map[string]document.Document{}, []ImportRecord{
		{Title: "No Category Given"},
	}, ImportOptions{}, root)

	require.Equal(t, 1, result.Success)

	flat := scanFlatIndex(t, ops)
	for _, d := range flat {
		if d.Title == "No Category Given" {
			assert.Contains(t, d.Path, DefaultUncategorizedFolder)
		}
	}
}
