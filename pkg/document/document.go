// Package document reads and writes the on-disk document directory pair
// (meta.json + prompt.md) and synthesizes default metadata for new
// documents.
package document

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/atomicobject/promptvault/pkg/atomicstore"
)

const (
	MetaFileName = "meta.json"
	BodyFileName = "prompt.md"
)

// Recurrence describes a document's scheduling behaviour. Only the interval
// kind is scheduled; other shapes are stored verbatim and ignored by the
// scheduler.
type Recurrence struct {
	Enabled bool   `json:"enabled"`
	Type    string `json:"type"`
	// IntervalMinutes keeps its camelCase spelling even though sibling
	// metadata fields are snake_case: this asymmetry is load-bearing, not an
	// oversight, and must be preserved verbatim by readers and writers.
	IntervalMinutes int `json:"intervalMinutes"`
}

// Document is the in-memory view of one document directory.
type Document struct {
	Path string `json:"-"`

	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Slug         string         `json:"slug"`
	CreatedAt    string         `json:"created_at"`
	UpdatedAt    string         `json:"updated_at"`
	Tags         []string       `json:"tags"`
	Version      string         `json:"version"`
	Author       string         `json:"author"`
	Type         string         `json:"type"`
	IsFavorite   bool           `json:"is_favorite"`
	IsPinned     bool           `json:"is_pinned"`
	ModelConfig  map[string]any `json:"model_config,omitempty"`
	ScheduledTime string        `json:"scheduled_time,omitempty"`
	Recurrence   *Recurrence    `json:"recurrence,omitempty"`
	CategoryPath string         `json:"category_path,omitempty"`
	Category     string         `json:"category,omitempty"`
	OriginalPath string         `json:"original_path,omitempty"`
	LastNotified int64          `json:"last_notified,omitempty"`

	// Extra preserves unknown metadata keys verbatim across a read/write
	// round trip.
	Extra map[string]any `json:"-"`

	Body string `json:"-"`
}

// CreateOptions customises SynthesizeDefaultMeta.
type CreateOptions struct {
	Type          string
	ScheduledTime string
}

var now = time.Now

// Slugify derives a filesystem-safe slug from a title: lowercase, trim,
// spaces become underscores, then filter to [a-z0-9_-]. An empty result
// falls back to "prompt".
func Slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = strings.ReplaceAll(s, " ", "_")
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-' {
			b.WriteRune(r)
		}
	}
	out := b.String()
	if out == "" {
		return "prompt"
	}
	return out
}

// SynthesizeDefaultMeta builds the default metadata map for a brand-new
// document living under categoryDir.
func SynthesizeDefaultMeta(title, slug, categoryDir string, opts CreateOptions) map[string]any {
	ts := now().UTC().Format(time.RFC3339)
	docType := opts.Type
	if docType == "" {
		docType = "NOTE"
	}
	meta := map[string]any{
		"id":         uuid.NewString(),
		"title":      title,
		"slug":       slug,
		"created_at": ts,
		"updated_at": ts,
		"tags":       []string{},
		"version":    "1.0.0",
		"author":     "User",
		"model_config": map[string]any{
			"default_model": "gpt-4",
			"temperature":   0.7,
			"top_p":         1.0,
		},
		"is_favorite": false,
		"is_pinned":   false,
		"type":        docType,
	}
	if opts.ScheduledTime != "" {
		meta["scheduled_time"] = opts.ScheduledTime
	}
	if categoryDir != "" {
		meta["category_path"] = categoryDir
		meta["category"] = filepath.Base(categoryDir)
	}
	return meta
}

// Read loads the document directory at dir. A missing body is not an error;
// it is treated as an empty string. If the metadata lacks category_path and
// categoryDir is non-empty, category fields are filled in from categoryDir
// at read time without being persisted.
func Read(dir string, categoryDir string) (Document, error) {
	metaPath := filepath.Join(dir, MetaFileName)
	var raw map[string]any
	if err := atomicstore.ReadJSON(metaPath, &raw); err != nil {
		return Document{}, fmt.Errorf("read %s: %w", metaPath, err)
	}

	doc := fromRaw(raw)
	doc.Path = dir

	bodyPath := filepath.Join(dir, BodyFileName)
	body, err := os.ReadFile(bodyPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return Document{}, fmt.Errorf("read %s: %w", bodyPath, err)
		}
		body = nil
	}
	doc.Body = string(body)

	if doc.CategoryPath == "" && categoryDir != "" {
		doc.CategoryPath = categoryDir
		doc.Category = filepath.Base(categoryDir)
	}

	return doc, nil
}

// Write creates dir if necessary and writes metadata and body atomically.
func Write(dir string, meta map[string]any, body string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create document dir: %w", err)
	}
	if err := atomicstore.WriteJSON(filepath.Join(dir, MetaFileName), meta); err != nil {
		return fmt.Errorf("write meta: %w", err)
	}
	if err := atomicstore.WriteFile(filepath.Join(dir, BodyFileName), []byte(body), 0o644); err != nil {
		return fmt.Errorf("write body: %w", err)
	}
	return nil
}

// ToMeta renders doc back into a metadata map suitable for Write, preserving
// any unknown keys recorded in Extra.
func (d Document) ToMeta() map[string]any {
	meta := make(map[string]any, len(d.Extra)+16)
	for k, v := range d.Extra {
		meta[k] = v
	}
	meta["id"] = d.ID
	meta["title"] = d.Title
	meta["slug"] = d.Slug
	meta["created_at"] = d.CreatedAt
	meta["updated_at"] = d.UpdatedAt
	meta["tags"] = d.Tags
	meta["version"] = d.Version
	meta["author"] = d.Author
	meta["type"] = d.Type
	meta["is_favorite"] = d.IsFavorite
	meta["is_pinned"] = d.IsPinned
	if d.ModelConfig != nil {
		meta["model_config"] = d.ModelConfig
	}
	if d.ScheduledTime != "" {
		meta["scheduled_time"] = d.ScheduledTime
	}
	if d.Recurrence != nil {
		meta["recurrence"] = map[string]any{
			"enabled":         d.Recurrence.Enabled,
			"type":            d.Recurrence.Type,
			"intervalMinutes": d.Recurrence.IntervalMinutes,
		}
	}
	if d.CategoryPath != "" {
		meta["category_path"] = d.CategoryPath
	}
	if d.Category != "" {
		meta["category"] = d.Category
	}
	if d.OriginalPath != "" {
		meta["original_path"] = d.OriginalPath
	}
	if d.LastNotified != 0 {
		meta["last_notified"] = d.LastNotified
	}
	return meta
}

func fromRaw(raw map[string]any) Document {
	d := Document{Extra: map[string]any{}}
	for k, v := range raw {
		d.Extra[k] = v
	}
	d.ID, _ = raw["id"].(string)
	d.Title, _ = raw["title"].(string)
	d.Slug, _ = raw["slug"].(string)
	d.CreatedAt, _ = raw["created_at"].(string)
	d.UpdatedAt, _ = raw["updated_at"].(string)
	d.Version, _ = raw["version"].(string)
	d.Author, _ = raw["author"].(string)
	d.Type, _ = raw["type"].(string)
	d.IsFavorite, _ = raw["is_favorite"].(bool)
	d.IsPinned, _ = raw["is_pinned"].(bool)
	d.ScheduledTime, _ = raw["scheduled_time"].(string)
	d.CategoryPath, _ = raw["category_path"].(string)
	d.Category, _ = raw["category"].(string)
	d.OriginalPath, _ = raw["original_path"].(string)

	if tags, ok := raw["tags"].([]any); ok {
		for _, t := range tags {
			if s, ok := t.(string); ok {
				d.Tags = append(d.Tags, s)
			}
		}
	}
	if mc, ok := raw["model_config"].(map[string]any); ok {
		d.ModelConfig = mc
	}
	if ln, ok := raw["last_notified"]; ok {
		d.LastNotified = toInt64(ln)
	}
	if rec, ok := raw["recurrence"].(map[string]any); ok {
		r := &Recurrence{}
		r.Enabled, _ = rec["enabled"].(bool)
		r.Type, _ = rec["type"].(string)
		r.IntervalMinutes = int(toInt64(rec["intervalMinutes"]))
		d.Recurrence = r
	}

	delete(d.Extra, "id")
	delete(d.Extra, "title")
	delete(d.Extra, "slug")
	delete(d.Extra, "created_at")
	delete(d.Extra, "updated_at")
	delete(d.Extra, "tags")
	delete(d.Extra, "version")
	delete(d.Extra, "author")
	delete(d.Extra, "type")
	delete(d.Extra, "is_favorite")
	delete(d.Extra, "is_pinned")
	delete(d.Extra, "model_config")
	delete(d.Extra, "scheduled_time")
	delete(d.Extra, "recurrence")
	delete(d.Extra, "category_path")
	delete(d.Extra, "category")
	delete(d.Extra, "original_path")
	delete(d.Extra, "last_notified")

	return d
}

func toInt64(v any) int64 {
	switch n := v.(type) {
	case float64:
		return int64(n)
	case int64:
		return n
	case int:
		return int64(n)
	default:
		return 0
	}
}

// IsIntervalTask reports whether a decoded metadata map describes a
// scheduled interval task: type TASK, recurrence enabled, interval kind,
// with a positive intervalMinutes.
func IsIntervalTask(raw map[string]any) bool {
	if t, _ := raw["type"].(string); t != "TASK" {
		return false
	}
	rec, ok := raw["recurrence"].(map[string]any)
	if !ok {
		return false
	}
	if enabled, _ := rec["enabled"].(bool); !enabled {
		return false
	}
	if kind, _ := rec["type"].(string); kind != "interval" {
		return false
	}
	minutes := toInt64(rec["intervalMinutes"])
	return minutes > 0
}
