// Package atomicstore provides write-rename file durability and
// lock-guarded JSON read-modify-write for metadata files shared between the
// foreground vault operations and the background scheduler.
package atomicstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/atomicobject/promptvault/pkg/vaulterr"
)

// WriteFile writes data to path by creating a sibling temp file, syncing it,
// and renaming it over path. A reader at any point during the call observes
// either the previous file content in full or the new content in full; it
// never observes a torn write.
func WriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	base := filepath.Base(path)

	tmp, err := os.CreateTemp(dir, base+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	defer func() {
		if tmp != nil {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Chmod(perm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	tmp = nil

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}

// ReadJSON decodes the JSON object at path into v.
func ReadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// WriteJSON pretty-prints v as JSON and writes it atomically to path.
func WriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	return WriteFile(path, data, 0o644)
}

// ValidateMeta requires that a decoded metadata map carries both "id" and
// "type" keys, the minimum a document needs to be addressable. A failure is
// an InvalidMeta-kind error so callers can branch on it via errors.Is rather
// than matching the message.
func ValidateMeta(meta map[string]any) error {
	if _, ok := meta["id"]; !ok {
		return vaulterr.New(vaulterr.InvalidMeta, "validate_meta", `metadata missing required field "id"`)
	}
	if _, ok := meta["type"]; !ok {
		return vaulterr.New(vaulterr.InvalidMeta, "validate_meta", `metadata missing required field "type"`)
	}
	return nil
}

// LockedUpdate opens path, takes an exclusive OS advisory lock on it so
// concurrent locked updates (scheduler ticks, acknowledgements) cannot tear
// each other's writes, decodes it as a JSON object, hands the decoded map to mutate, validates the
// result, then writes it back atomically before releasing the lock.
func LockedUpdate(path string, mutate func(meta map[string]any) error) error {
	lock := flock.New(path)
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock %s: %w", path, err)
	}
	defer lock.Unlock()

	var meta map[string]any
	if err := ReadJSON(path, &meta); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if meta == nil {
		meta = make(map[string]any)
	}

	if err := mutate(meta); err != nil {
		return err
	}

	if err := ValidateMeta(meta); err != nil {
		return err
	}

	return WriteJSON(path, meta)
}

// UpdateLastNotified is the scheduler's single write path: it bumps a
// document's last_notified baseline through LockedUpdate. Host-initiated
// writes (vaultops saves, trash moves, imports) go through document.Write
// and do not take this lock.
func UpdateLastNotified(metaPath string, unixSeconds int64) error {
	return LockedUpdate(metaPath, func(meta map[string]any) error {
		meta["last_notified"] = unixSeconds
		return nil
	})
}
