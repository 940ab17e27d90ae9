// Package vaultops implements the vault's mutating operations: document and
// category lifecycle, trash, and image upload. Every operation resolves its
// input paths through vaultfs before touching disk.
package vaultops

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/atomicobject/promptvault/pkg/atomicstore"
	"github.com/atomicobject/promptvault/pkg/document"
	"github.com/atomicobject/promptvault/pkg/scanner"
	"github.com/atomicobject/promptvault/pkg/vaulterr"
	"github.com/atomicobject/promptvault/pkg/vaultfs"
)

// Ops is the vault operations surface, bound to a single vault root.
type Ops struct {
	Root string
}

var now = time.Now

func nowMillis() int64 { return now().UnixMilli() }

// New returns Ops bound to root.
func New(root string) *Ops { return &Ops{Root: root} }

// GetRoot returns the vault root path.
func (o *Ops) GetRoot() string { return o.Root }

// ScanVault returns the category tree and flat index, creating the root if
// it does not yet exist.
func (o *Ops) ScanVault() (scanner.Result, error) {
	return scanner.Scan(o.Root)
}

// ReadPrompt reads the document at a vault-relative or absolute path.
func (o *Ops) ReadPrompt(path string) (document.Document, error) {
	abs, err := vaultfs.ResolveWithin(o.Root, path)
	if err != nil {
		return document.Document{}, vaulterr.Wrap(vaulterr.InvalidPath, "read_prompt", "path escapes vault", err)
	}
	doc, err := document.Read(abs, filepath.Dir(abs))
	if err != nil {
		return document.Document{}, vaulterr.Wrap(vaulterr.Io, "read_prompt", "failed to read document", err)
	}
	return doc, nil
}

// SavePrompt rewrites a document's metadata and body, forcing updated_at to
// now.
func (o *Ops) SavePrompt(doc document.Document) error {
	abs, err := vaultfs.ResolveWithin(o.Root, doc.Path)
	if err != nil {
		return vaulterr.Wrap(vaulterr.InvalidPath, "save_prompt", "path escapes vault", err)
	}
	doc.UpdatedAt = now().UTC().Format(time.RFC3339)
	if err := document.Write(abs, doc.ToMeta(), doc.Body); err != nil {
		return vaulterr.Wrap(vaulterr.Io, "save_prompt", "failed to write document", err)
	}
	return nil
}

// CreatePrompt creates a new document under category with a slug derived
// from title, deduplicating against existing siblings.
func (o *Ops) CreatePrompt(category, title string, opts document.CreateOptions) (document.Document, error) {
	categoryAbs, err := vaultfs.ResolveWithin(o.Root, category)
	if err != nil {
		return document.Document{}, vaulterr.Wrap(vaulterr.InvalidPath, "create_prompt", "category escapes vault", err)
	}
	if err := os.MkdirAll(categoryAbs, 0o755); err != nil {
		return document.Document{}, vaulterr.Wrap(vaulterr.Io, "create_prompt", "failed to create category", err)
	}

	slug := document.Slugify(title)
	dir, finalSlug := uniqueSibling(categoryAbs, slug)

	meta := document.SynthesizeDefaultMeta(title, finalSlug, categoryAbs, opts)
	if err := document.Write(dir, meta, ""); err != nil {
		return document.Document{}, vaulterr.Wrap(vaulterr.Io, "create_prompt", "failed to write document", err)
	}
	return document.Read(dir, categoryAbs)
}

// uniqueSibling returns a directory path under parent named slug (or
// slug_N for the smallest N >= 2 that is free) along with the chosen name.
func uniqueSibling(parent, slug string) (string, string) {
	candidate := filepath.Join(parent, slug)
	if _, err := os.Stat(candidate); os.IsNotExist(err) {
		return candidate, slug
	}
	for n := 2; ; n++ {
		name := slug + "_" + strconv.Itoa(n)
		candidate = filepath.Join(parent, name)
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate, name
		}
	}
}

func trashDir(root string) string { return filepath.Join(root, "trash") }

// DeletePrompt moves a document to trash (recording its original absolute
// path), or removes it permanently.
func (o *Ops) DeletePrompt(path string, permanent bool) error {
	abs, err := vaultfs.ResolveWithin(o.Root, path)
	if err != nil {
		return vaulterr.Wrap(vaulterr.InvalidPath, "delete_prompt", "path escapes vault", err)
	}

	if permanent {
		if err := os.RemoveAll(abs); err != nil {
			return vaulterr.Wrap(vaulterr.Io, "delete_prompt", "failed to remove document", err)
		}
		return nil
	}

	trash := trashDir(o.Root)
	if err := os.MkdirAll(trash, 0o755); err != nil {
		return vaulterr.Wrap(vaulterr.Io, "delete_prompt", "failed to create trash", err)
	}

	doc, err := document.Read(abs, "")
	if err != nil {
		return vaulterr.Wrap(vaulterr.Io, "delete_prompt", "failed to read document before trashing", err)
	}
	doc.OriginalPath = abs

	dest := filepath.Join(trash, fmt.Sprintf("%s_%d", filepath.Base(abs), nowMillis()))
	if err := moveDir(abs, dest); err != nil {
		return vaulterr.Wrap(vaulterr.Io, "delete_prompt", "failed to move document to trash", err)
	}
	if err := document.Write(dest, doc.ToMeta(), doc.Body); err != nil {
		return vaulterr.Wrap(vaulterr.Io, "delete_prompt", "failed to record original path", err)
	}
	return nil
}

// RestorePrompt moves a trashed document back to its recorded original
// path (or <root>/Restored if none was recorded).
//
// Its category_path is set to the document's own restored path rather than
// its parent category's path. This mirrors the original implementation's
// behaviour exactly, including the mismatch between field name and content.
func (o *Ops) RestorePrompt(path string) error {
	abs, err := vaultfs.ResolveWithin(o.Root, path)
	if err != nil {
		return vaulterr.Wrap(vaulterr.InvalidPath, "restore_prompt", "path escapes vault", err)
	}
	doc, err := document.Read(abs, "")
	if err != nil {
		return vaulterr.Wrap(vaulterr.Io, "restore_prompt", "failed to read trashed document", err)
	}

	target := doc.OriginalPath
	if target == "" {
		target = filepath.Join(o.Root, "Restored", filepath.Base(abs))
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return vaulterr.Wrap(vaulterr.Io, "restore_prompt", "failed to create restore target parent", err)
	}
	if _, err := os.Stat(target); err == nil {
		target = fmt.Sprintf("%s_restored_%d", target, nowMillis())
	}

	doc.OriginalPath = ""
	doc.CategoryPath = target

	if err := moveDir(abs, target); err != nil {
		return vaulterr.Wrap(vaulterr.Io, "restore_prompt", "failed to move document out of trash", err)
	}
	if err := document.Write(target, doc.ToMeta(), doc.Body); err != nil {
		return vaulterr.Wrap(vaulterr.Io, "restore_prompt", "failed to rewrite restored metadata", err)
	}
	return nil
}

// CreateCategory creates a new category directory, failing with Conflict if
// it already exists.
func (o *Ops) CreateCategory(parent, name string) (string, error) {
	parentAbs, err := vaultfs.ResolveWithin(o.Root, parent)
	if err != nil {
		return "", vaulterr.Wrap(vaulterr.InvalidPath, "create_category", "parent escapes vault", err)
	}
	target := filepath.Join(parentAbs, name)
	if _, err := os.Stat(target); err == nil {
		return "", vaulterr.New(vaulterr.Conflict, "create_category", "category already exists")
	}
	if err := os.MkdirAll(target, 0o755); err != nil {
		return "", vaulterr.Wrap(vaulterr.Io, "create_category", "failed to create category", err)
	}
	return target, nil
}

// RenameCategory renames a category directory in place.
func (o *Ops) RenameCategory(path, newName string) (string, error) {
	abs, err := vaultfs.ResolveWithin(o.Root, path)
	if err != nil {
		return "", vaulterr.Wrap(vaulterr.InvalidPath, "rename_category", "path escapes vault", err)
	}
	target := filepath.Join(filepath.Dir(abs), newName)
	if _, err := os.Stat(target); err == nil {
		return "", vaulterr.New(vaulterr.Conflict, "rename_category", "target name already exists")
	}
	if err := os.Rename(abs, target); err != nil {
		return "", vaulterr.Wrap(vaulterr.Io, "rename_category", "failed to rename category", err)
	}
	return target, nil
}

// MoveCategory moves a category under a new parent, failing with Conflict
// if the destination already exists.
func (o *Ops) MoveCategory(path, targetParent string) (name, newPath string, err error) {
	abs, err := vaultfs.ResolveWithin(o.Root, path)
	if err != nil {
		return "", "", vaulterr.Wrap(vaulterr.InvalidPath, "move_category", "path escapes vault", err)
	}
	parentAbs, err := vaultfs.ResolveWithin(o.Root, targetParent)
	if err != nil {
		return "", "", vaulterr.Wrap(vaulterr.InvalidPath, "move_category", "target parent escapes vault", err)
	}
	base := filepath.Base(abs)
	dest := filepath.Join(parentAbs, base)
	if _, statErr := os.Stat(dest); statErr == nil {
		return "", "", vaulterr.New(vaulterr.Conflict, "move_category", "destination already exists")
	}
	if err := os.MkdirAll(parentAbs, 0o755); err != nil {
		return "", "", vaulterr.Wrap(vaulterr.Io, "move_category", "failed to create destination parent", err)
	}
	if err := os.Rename(abs, dest); err != nil {
		return "", "", vaulterr.Wrap(vaulterr.Io, "move_category", "failed to move category", err)
	}
	return base, dest, nil
}

// DeleteCategory moves a category to trash.
func (o *Ops) DeleteCategory(path string) error {
	abs, err := vaultfs.ResolveWithin(o.Root, path)
	if err != nil {
		return vaulterr.Wrap(vaulterr.InvalidPath, "delete_category", "path escapes vault", err)
	}
	trash := trashDir(o.Root)
	if err := os.MkdirAll(trash, 0o755); err != nil {
		return vaulterr.Wrap(vaulterr.Io, "delete_category", "failed to create trash", err)
	}
	dest := filepath.Join(trash, fmt.Sprintf("%s_%d", filepath.Base(abs), nowMillis()))
	if err := moveDir(abs, dest); err != nil {
		return vaulterr.Wrap(vaulterr.Io, "delete_category", "failed to move category to trash", err)
	}
	return nil
}

// UploadImage decodes a base64 or data-URI payload and writes it under
// assets/<docID>/<fileName>.
func (o *Ops) UploadImage(dataURI, docID, fileName string) (string, error) {
	payload := dataURI
	if idx := strings.Index(payload, "base64,"); idx != -1 {
		payload = payload[idx+len("base64,"):]
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", vaulterr.Wrap(vaulterr.Io, "upload_image", "failed to decode image payload", err)
	}
	if fileName == "" {
		fileName = fmt.Sprintf("image_%d.png", nowMillis())
	}
	dir := filepath.Join(o.Root, "assets", docID)
	dest := filepath.Join(dir, fileName)
	if _, err := vaultfs.EnsureWithin(o.Root, dest); err != nil {
		return "", vaulterr.Wrap(vaulterr.InvalidPath, "upload_image", "asset path escapes vault", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", vaulterr.Wrap(vaulterr.Io, "upload_image", "failed to create assets dir", err)
	}
	if err := atomicstore.WriteFile(dest, data, 0o644); err != nil {
		return "", vaulterr.Wrap(vaulterr.Io, "upload_image", "failed to write image", err)
	}
	return filepath.Join("assets", docID, fileName), nil
}

// moveDir renames src to dest, falling back to a recursive copy-then-delete
// when the rename fails (e.g. src and dest are on different volumes).
func moveDir(src, dest string) error {
	if err := os.Rename(src, dest); err == nil {
		return nil
	}
	if err := copyTree(src, dest); err != nil {
		return err
	}
	return os.RemoveAll(src)
}

func copyTree(src, dest string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if info.IsDir() {
		if err := os.MkdirAll(dest, info.Mode()); err != nil {
			return err
		}
		entries, err := os.ReadDir(src)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			if err := copyTree(filepath.Join(src, entry.Name()), filepath.Join(dest, entry.Name())); err != nil {
				return err
			}
		}
		return nil
	}
	return copyFile(src, dest, info.Mode())
}

func copyFile(src, dest string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = io.Copy(out, in)
	return err
}
