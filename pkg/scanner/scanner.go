// Package scanner walks a vault directory tree, separating category
// directories from document directories and building both the nested
// category tree and a flat id-keyed index consumed by vault operations and
// the scheduler's task cache.
package scanner

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/atomicobject/promptvault/pkg/atomicstore"
	"github.com/atomicobject/promptvault/pkg/document"
)

// Reserved directory names never treated as categories when walking the
// root level: hidden directories, the trash holding area, and the asset
// store.
func isReservedName(name string) bool {
	if name == "" {
		return false
	}
	if name[0] == '.' {
		return true
	}
	return name == "trash" || name == "assets"
}

// CategoryNode is one node of the nested category tree.
type CategoryNode struct {
	Name     string                  `json:"name"`
	Path     string                  `json:"path"`
	Children []*CategoryNode         `json:"children,omitempty"`
	Prompts  []document.Document     `json:"prompts,omitempty"`
}

// Result is the outcome of a full vault scan.
type Result struct {
	RootPath     string
	CategoryTree *CategoryNode
	FlatIndex    map[string]document.Document
}

// Scan walks root, building the category tree and flat index. Directories
// without meta.json are categories and are recursed into; directories with
// meta.json are documents. Trash-level documents are added to the flat
// index (needed for restore) but never to the category tree.
func Scan(root string) (Result, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return Result{}, err
	}

	flat := make(map[string]document.Document)
	tree := &CategoryNode{Name: filepath.Base(root), Path: root}

	if err := walkCategory(root, root, tree, flat, true); err != nil {
		return Result{}, err
	}

	trashDir := filepath.Join(root, "trash")
	if info, err := os.Stat(trashDir); err == nil && info.IsDir() {
		_ = walkTrashForFlatIndex(trashDir, flat)
	}

	return Result{RootPath: root, CategoryTree: tree, FlatIndex: flat}, nil
}

func walkCategory(root, dir string, node *CategoryNode, flat map[string]document.Document, isRoot bool) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		if isRoot && isReservedName(name) {
			continue
		}
		if !isRoot && name[0] == '.' {
			continue
		}
		childPath := filepath.Join(dir, name)

		if hasMeta(childPath) {
			doc, err := document.Read(childPath, dir)
			if err != nil {
				// A malformed document must not abort the rest of the scan.
				continue
			}
			node.Prompts = append(node.Prompts, doc)
			flat[doc.ID] = doc
			continue
		}

		childNode := &CategoryNode{Name: name, Path: childPath}
		if err := walkCategory(root, childPath, childNode, flat, false); err != nil {
			return err
		}
		node.Children = append(node.Children, childNode)
	}
	return nil
}

func walkTrashForFlatIndex(trashDir string, flat map[string]document.Document) error {
	entries, err := os.ReadDir(trashDir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		childPath := filepath.Join(trashDir, entry.Name())
		if hasMeta(childPath) {
			doc, err := document.Read(childPath, "")
			if err != nil {
				continue
			}
			flat[doc.ID] = doc
			continue
		}
		_ = walkTrashForFlatIndex(childPath, flat)
	}
	return nil
}

func hasMeta(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, document.MetaFileName))
	return err == nil
}

// ScanIntervalTasks scans root for TASK documents with interval recurrence
// enabled, returning lightweight task records for the scheduler's cache.
func ScanIntervalTasks(root string) ([]TaskRecord, error) {
	var records []TaskRecord
	err := walkIntervalTasks(root, true, &records)
	return records, err
}

// TaskRecord is the scheduler's minimal cached view of an interval task.
type TaskRecord struct {
	ID              string
	LastNotified    int64
	IntervalMinutes int
	DirPath         string
}

func walkIntervalTasks(dir string, isRoot bool, out *[]TaskRecord) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		if isRoot && isReservedName(name) {
			continue
		}
		if !isRoot && len(name) > 0 && name[0] == '.' {
			continue
		}
		childPath := filepath.Join(dir, name)
		metaPath := filepath.Join(childPath, document.MetaFileName)
		if hasMeta(childPath) {
			var raw map[string]any
			if err := atomicstore.ReadJSON(metaPath, &raw); err != nil {
				// Skip unreadable/malformed metadata without aborting the scan.
				continue
			}
			if !document.IsIntervalTask(raw) {
				continue
			}
			id, _ := raw["id"].(string)
			if id == "" {
				continue
			}
			rec, _ := raw["recurrence"].(map[string]any)
			var lastNotified int64
			switch v := raw["last_notified"].(type) {
			case float64:
				lastNotified = int64(v)
			case int64:
				lastNotified = v
			}
			var interval int64
			switch v := rec["intervalMinutes"].(type) {
			case float64:
				interval = int64(v)
			case int64:
				interval = v
			}
			*out = append(*out, TaskRecord{
				ID:              id,
				LastNotified:    lastNotified,
				IntervalMinutes: int(interval),
				DirPath:         childPath,
			})
			continue
		}
		if err := walkIntervalTasks(childPath, false, out); err != nil {
			return err
		}
	}
	return nil
}

// NextTrigger computes the next UNIX-seconds trigger time for a task record,
// clamping the interval to a minimum of one minute.
func (r TaskRecord) NextTrigger() int64 {
	minutes := r.IntervalMinutes
	if minutes < 1 {
		minutes = 1
	}
	return r.LastNotified + int64(minutes)*60
}

// IsDue reports whether the record is due at currentTime.
func (r TaskRecord) IsDue(currentTime int64) bool {
	return currentTime >= r.NextTrigger()
}

// VaultModifiedTime returns root's own mtime as UNIX seconds, the signal
// TaskCache uses to decide whether a rescan is warranted.
func VaultModifiedTime(root string) (int64, error) {
	info, err := os.Stat(root)
	if err != nil {
		return 0, err
	}
	return info.ModTime().Unix(), nil
}
