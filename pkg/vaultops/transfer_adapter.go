package vaultops

import (
	"os"

	"github.com/atomicobject/promptvault/pkg/document"
)

// CreateCategoryPath ensures an absolute category directory exists,
// satisfying transfer.DocWriter.
func (o *Ops) CreateCategoryPath(absCategoryDir string) error {
	return os.MkdirAll(absCategoryDir, 0o755)
}

// UniqueSiblingDir exposes the slug-collision dedup helper used by
// CreatePrompt to the transfer package, satisfying transfer.DocWriter.
func (o *Ops) UniqueSiblingDir(parentDir, slug string) (string, string) {
	return uniqueSibling(parentDir, slug)
}

// WriteDocument writes a document directory directly from an absolute path,
// satisfying transfer.DocWriter.
func (o *Ops) WriteDocument(dir string, meta map[string]any, body string) error {
	return document.Write(dir, meta, body)
}

// ReadDocument reads a document directory directly from an absolute path,
// satisfying transfer.DocWriter.
func (o *Ops) ReadDocument(dir, categoryDir string) (document.Document, error) {
	return document.Read(dir, categoryDir)
}
