// Package seed applies the bundled first-run sample vault manifest.
package seed

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/atomicobject/promptvault/pkg/document"
)

//go:embed manifest.yaml
var manifestYAML []byte

// Recurrence mirrors the subset of document.Recurrence a manifest entry may
// declare.
type Recurrence struct {
	Enabled         bool   `yaml:"enabled"`
	Type            string `yaml:"type"`
	IntervalMinutes int    `yaml:"intervalMinutes"`
}

// Entry is one document the manifest creates on first run.
type Entry struct {
	CategoryPath string      `yaml:"category_path"`
	Title        string      `yaml:"title"`
	Type         string      `yaml:"type"`
	Body         string      `yaml:"body"`
	Recurrence   *Recurrence `yaml:"recurrence,omitempty"`
}

// Manifest is the top-level decoded shape of manifest.yaml.
type Manifest struct {
	Entries []Entry `yaml:"entries"`
}

// LoadEmbedded parses the manifest bundled into the binary.
func LoadEmbedded() (Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(manifestYAML, &m); err != nil {
		return Manifest{}, fmt.Errorf("parse seed manifest: %w", err)
	}
	return m, nil
}

// Creator is the narrow surface Apply needs from vaultops.Ops: creating a
// prompt under a category, always going through the ordinary atomic-write
// path rather than writing files directly.
type Creator interface {
	CreatePrompt(category, title string, opts document.CreateOptions) (document.Document, error)
	SavePrompt(doc document.Document) error
}

// Apply materializes every manifest entry through Creator, used exactly
// once when a freshly resolved vault root does not yet exist.
func Apply(w Creator, m Manifest) error {
	for _, entry := range m.Entries {
		doc, err := w.CreatePrompt(entry.CategoryPath, entry.Title, document.CreateOptions{Type: entry.Type})
		if err != nil {
			return fmt.Errorf("seed %q: %w", entry.Title, err)
		}
		doc.Body = entry.Body
		if entry.Recurrence != nil {
			doc.Recurrence = &document.Recurrence{
				Enabled:         entry.Recurrence.Enabled,
				Type:            entry.Recurrence.Type,
				IntervalMinutes: entry.Recurrence.IntervalMinutes,
			}
		}
		if err := w.SavePrompt(doc); err != nil {
			return fmt.Errorf("seed %q: %w", entry.Title, err)
		}
	}
	return nil
}
