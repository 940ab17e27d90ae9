// Package vaultconfig resolves the vault root directory from the host
// environment, in priority order, and triggers first-run seeding.
package vaultconfig

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/atomicobject/promptvault/pkg/seed"
	"github.com/atomicobject/promptvault/pkg/vaultops"
)

const (
	EnvPathOverride  = "PROMPTVAULT_PATH"
	EnvPathFallback  = "PROMPTVAULT_VAULT"
	ConfigDirectory  = "promptvault"
	SettingsFileName = "settings.json"
)

// UserConfigDirectory is a package-level var-as-seam so tests can override
// os.UserConfigDir without touching the real host environment.
var UserConfigDirectory = os.UserConfigDir

// Executable is a package-level var-as-seam over os.Executable for the same
// reason.
var Executable = os.Executable

type settings struct {
	VaultPath string `json:"vault_path"`
}

// SettingsPath returns the path to the host's settings.json, under its
// config directory.
func SettingsPath() (string, error) {
	dir, err := UserConfigDirectory()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigDirectory, SettingsFileName), nil
}

// Resolve determines the vault root in priority order: PROMPTVAULT_PATH,
// PROMPTVAULT_VAULT, settings.json's vault_path, finally <executable_dir>/vault.
func Resolve() (string, error) {
	if p := os.Getenv(EnvPathOverride); p != "" {
		return p, nil
	}
	if p := os.Getenv(EnvPathFallback); p != "" {
		return p, nil
	}
	if p, ok := readSettingsVaultPath(); ok {
		return p, nil
	}
	exe, err := Executable()
	if err != nil {
		return "", err
	}
	return filepath.Join(filepath.Dir(exe), "vault"), nil
}

// ResolveAndSeed resolves the vault root and, if it does not yet exist,
// creates it and seeds it from the embedded sample manifest.
func ResolveAndSeed() (string, error) {
	root, err := Resolve()
	if err != nil {
		return "", err
	}
	if err := SeedIfMissing(root); err != nil {
		return "", err
	}
	return root, nil
}

// SeedIfMissing applies the embedded sample manifest to root exactly once,
// the first time it is observed not to exist. Callers that resolve root by
// some other means (an explicit CLI flag, say) still get first-run seeding
// by routing through this function.
func SeedIfMissing(root string) error {
	if _, statErr := os.Stat(root); !os.IsNotExist(statErr) {
		return nil
	}
	manifest, err := seed.LoadEmbedded()
	if err != nil {
		return err
	}
	return seed.Apply(vaultops.New(root), manifest)
}

func readSettingsVaultPath() (string, bool) {
	path, err := SettingsPath()
	if err != nil {
		return "", false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	var s settings
	if err := json.Unmarshal(data, &s); err != nil {
		return "", false
	}
	if s.VaultPath == "" {
		return "", false
	}
	return s.VaultPath, true
}

// WriteSettings persists vaultPath as the host's remembered vault_path,
// creating the config directory if necessary.
func WriteSettings(vaultPath string) error {
	path, err := SettingsPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(settings{VaultPath: vaultPath}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
