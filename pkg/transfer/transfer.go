// Package transfer implements bulk export and import of documents across
// vault boundaries, including conflict resolution for re-imported records.
package transfer

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/atomicobject/promptvault/pkg/document"
	"github.com/atomicobject/promptvault/pkg/vaultfs"
)

// DefaultUncategorizedFolder is where imported records with no category
// land when neither a base category nor a record-level category_path is
// supplied. Hosts that want a different default (see the distilled spec's
// open question about this hardcoded folder name) can override this
// package-level variable before calling Import.
var DefaultUncategorizedFolder = "公共"

// ExportRecord is one document's exported representation.
type ExportRecord struct {
	Title        string         `json:"title"`
	Tags         []string       `json:"tags"`
	Type         string         `json:"type"`
	IsFavorite   bool           `json:"is_favorite"`
	Author       string         `json:"author"`
	Version      string         `json:"version"`
	Content      string         `json:"content,omitempty"`
	ScheduledTime string        `json:"scheduled_time,omitempty"`
	Recurrence   map[string]any `json:"recurrence,omitempty"`
	ModelConfig  map[string]any `json:"model_config,omitempty"`
	CategoryPath string         `json:"category_path,omitempty"`
}

// ExportOptions customises Export.
type ExportOptions struct {
	IDs            []string
	StructuredIDs  []string
	FlatIDs        []string
	IncludeContent *bool
	PreserveStructure bool
}

// ExportResult is the outcome of an export call.
type ExportResult struct {
	Records  []ExportRecord
	NotFound []string
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

// Export builds export records for the requested ids, looked up in the
// supplied flat index.
func Export(flatIndex map[string]document.Document, opts ExportOptions, vaultRoot string) ExportResult {
	includeContent := boolOr(opts.IncludeContent, true)

	structured := make(map[string]bool)

	if len(opts.StructuredIDs) == 0 && len(opts.FlatIDs) == 0 {
		if opts.PreserveStructure {
			for _, id := range opts.IDs {
				structured[id] = true
			}
		}
	} else {
		for _, id := range opts.StructuredIDs {
			structured[id] = true
		}
	}

	var ids []string
	ids = append(ids, opts.IDs...)
	ids = append(ids, opts.StructuredIDs...)
	ids = append(ids, opts.FlatIDs...)

	seen := make(map[string]bool)
	var result ExportResult
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true

		doc, ok := flatIndex[id]
		if !ok {
			result.NotFound = append(result.NotFound, id)
			continue
		}

		rec := ExportRecord{
			Title:      doc.Title,
			Tags:       doc.Tags,
			Type:       doc.Type,
			IsFavorite: doc.IsFavorite,
			Author:     doc.Author,
			Version:    doc.Version,
		}
		if rec.Tags == nil {
			rec.Tags = []string{}
		}
		if rec.Type == "" {
			rec.Type = "NOTE"
		}
		if rec.Version == "" {
			rec.Version = "1.0.0"
		}
		if includeContent {
			rec.Content = doc.Body
		}
		rec.ScheduledTime = doc.ScheduledTime
		if doc.Recurrence != nil {
			rec.Recurrence = map[string]any{
				"enabled": doc.Recurrence.Enabled, "type": doc.Recurrence.Type,
				"intervalMinutes": doc.Recurrence.IntervalMinutes,
			}
		}
		rec.ModelConfig = doc.ModelConfig

		if structured[id] {
			relPath := strings.TrimPrefix(strings.ReplaceAll(doc.CategoryPath, "\\", "/"), strings.ReplaceAll(vaultRoot, "\\", "/"))
			relPath = strings.TrimPrefix(relPath, "/")
			rec.CategoryPath = relPath
		}

		result.Records = append(result.Records, rec)
	}
	return result
}

// ImportRecord is one record submitted to Import. Field tags mirror
// ExportRecord's so a batch round-trips through JSON unchanged.
type ImportRecord struct {
	Title         string         `json:"title"`
	Tags          []string       `json:"tags"`
	Type          string         `json:"type"`
	IsFavorite    bool           `json:"is_favorite"`
	Author        string         `json:"author"`
	Version       string         `json:"version"`
	Content       string         `json:"content"`
	CategoryPath  string         `json:"category_path"`
	ScheduledTime string         `json:"scheduled_time"`
	Recurrence    map[string]any `json:"recurrence"`
	ModelConfig   map[string]any `json:"model_config"`
}

// ConflictStrategy controls how Import handles a (category, title) clash.
type ConflictStrategy string

const (
	ConflictSkip      ConflictStrategy = "skip"
	ConflictOverwrite ConflictStrategy = "overwrite"
	ConflictRename    ConflictStrategy = "rename"
)

// ImportOptions customises Import.
type ImportOptions struct {
	BaseCategoryPath string
	ConflictStrategy ConflictStrategy
}

// ImportDetail records the outcome of a single import record.
type ImportDetail struct {
	Index int    `json:"index"`
	Title string `json:"title"`
	Status string `json:"status"`
	Error string `json:"error,omitempty"`
}

// ImportResult is the outcome of an import call.
type ImportResult struct {
	Total   int            `json:"total"`
	Success int            `json:"success"`
	Failed  int            `json:"failed"`
	Skipped int            `json:"skipped"`
	Details []ImportDetail `json:"details"`
}

// DocWriter is the subset of VaultOps needed to materialise imported
// documents; kept narrow so transfer does not import vaultops (which would
// create an import cycle, since neither package needs the other's full
// surface).
type DocWriter interface {
	CreateCategoryPath(absCategoryDir string) error
	UniqueSiblingDir(parentDir, slug string) (dir, finalSlug string)
	WriteDocument(dir string, meta map[string]any, body string) error
	ReadDocument(dir, categoryDir string) (document.Document, error)
}

var now = time.Now

// Import materialises records into the vault rooted at vaultRoot, resolving
// (target category, title) conflicts per opts.ConflictStrategy. Per-record
// failures are recorded in Details; the overall call still succeeds.
//
// existingTitles is updated incrementally after each successful creation
// within this call, so later records in the same batch see earlier ones as
// conflicts — this mirrors the original importer exactly and is not an
// oversight.
func Import(w DocWriter, flatIndex map[string]document.Document, records []ImportRecord, opts ImportOptions, vaultRoot string) ImportResult {
	strategy := opts.ConflictStrategy
	if strategy == "" {
		strategy = ConflictRename
	}

	existingTitles := make(map[string]string) // "absCategory\x00title" -> doc path
	for _, doc := range flatIndex {
		key := existingTitlesKey(filepath.Dir(doc.Path), doc.Title)
		existingTitles[key] = doc.Path
	}

	result := ImportResult{Total: len(records)}

	for i, rec := range records {
		detail := ImportDetail{Index: i, Title: rec.Title}

		if strings.TrimSpace(rec.Title) == "" {
			detail.Title = "(无标题)"
			detail.Status = "failed"
			detail.Error = "Title is required"
			result.Failed++
			result.Details = append(result.Details, detail)
			continue
		}

		targetCategory := resolveTargetCategory(vaultRoot, opts.BaseCategoryPath, rec.CategoryPath)
		key := existingTitlesKey(targetCategory, rec.Title)

		if existingPath, conflict := existingTitles[key]; conflict {
			switch strategy {
			case ConflictSkip:
				detail.Status = "skipped"
				result.Skipped++
				result.Details = append(result.Details, detail)
				continue
			case ConflictOverwrite:
				if err := overwrite(w, existingPath, rec); err != nil {
					detail.Status = "failed"
					detail.Error = err.Error()
					result.Failed++
				} else {
					detail.Status = "success"
					result.Success++
				}
				result.Details = append(result.Details, detail)
				continue
			default: // rename
				renamed, err := createRenamed(w, targetCategory, rec, existingTitles)
				if err != nil {
					detail.Status = "failed"
					detail.Error = err.Error()
					result.Failed++
				} else {
					detail.Status = "success"
					detail.Title = renamed.Title
					result.Success++
					existingTitles[existingTitlesKey(targetCategory, renamed.Title)] = renamed.Path
				}
				result.Details = append(result.Details, detail)
				continue
			}
		}

		doc, err := create(w, targetCategory, rec)
		if err != nil {
			detail.Status = "failed"
			detail.Error = err.Error()
			result.Failed++
		} else {
			detail.Status = "success"
			result.Success++
			existingTitles[key] = doc.Path
		}
		result.Details = append(result.Details, detail)
	}

	return result
}

func existingTitlesKey(category, title string) string {
	return category + "\x00" + title
}

func resolveTargetCategory(vaultRoot, base, recordCategory string) string {
	normalised := vaultfs.NormaliseImportCategory(recordCategory)
	switch {
	case base != "":
		return filepath.Join(vaultRoot, vaultfs.NormaliseImportCategory(base), normalised)
	case normalised != "":
		return filepath.Join(vaultRoot, normalised)
	default:
		return filepath.Join(vaultRoot, DefaultUncategorizedFolder)
	}
}

func create(w DocWriter, targetCategory string, rec ImportRecord) (document.Document, error) {
	if err := w.CreateCategoryPath(targetCategory); err != nil {
		return document.Document{}, err
	}
	slug := document.Slugify(rec.Title)
	dir, _ := w.UniqueSiblingDir(targetCategory, slug)

	meta := document.SynthesizeDefaultMeta(rec.Title, filepath.Base(dir), targetCategory, document.CreateOptions{
		Type: rec.Type, ScheduledTime: rec.ScheduledTime,
	})
	applyRecordFields(meta, rec)

	if err := w.WriteDocument(dir, meta, rec.Content); err != nil {
		return document.Document{}, err
	}
	return w.ReadDocument(dir, targetCategory)
}

func createRenamed(w DocWriter, targetCategory string, rec ImportRecord, existingTitles map[string]string) (document.Document, error) {
	title := rec.Title
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s (imported %d)", rec.Title, n)
		if _, exists := existingTitles[existingTitlesKey(targetCategory, candidate)]; !exists {
			title = candidate
			break
		}
	}
	renamedRec := rec
	renamedRec.Title = title
	return create(w, targetCategory, renamedRec)
}

func overwrite(w DocWriter, existingPath string, rec ImportRecord) error {
	doc, err := w.ReadDocument(existingPath, filepath.Dir(existingPath))
	if err != nil {
		return err
	}
	meta := doc.ToMeta()
	applyRecordFields(meta, rec)
	meta["updated_at"] = now().UTC().Format(time.RFC3339)
	return w.WriteDocument(existingPath, meta, rec.Content)
}

func applyRecordFields(meta map[string]any, rec ImportRecord) {
	if rec.Tags != nil {
		meta["tags"] = rec.Tags
	}
	if rec.Type != "" {
		meta["type"] = rec.Type
	}
	if rec.ModelConfig != nil {
		meta["model_config"] = rec.ModelConfig
	}
	if rec.Author != "" {
		meta["author"] = rec.Author
	}
	if rec.Version != "" {
		meta["version"] = rec.Version
	}
	meta["is_favorite"] = rec.IsFavorite
	if rec.Recurrence != nil {
		meta["recurrence"] = rec.Recurrence
	}
}
