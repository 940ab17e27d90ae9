package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/atomicobject/promptvault/pkg/vaultconfig"
)

var vaultRoot string

var rootCmd = &cobra.Command{
	Use:     "promptvaultd",
	Short:   "promptvaultd - filesystem-backed prompt vault with scheduled reminders",
	Version: "v0.1.0",
	Long:    "promptvaultd - CLI and MCP host for a filesystem-backed prompt vault: categories, documents, trash, bulk transfer, and a recurrence scheduler.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&vaultRoot, "vault", "", "vault root path (overrides PROMPTVAULT_PATH and settings.json)")
}

// resolveRoot honours an explicit --vault flag before falling back to the
// env/settings/executable-relative chain, seeding a fresh root on first run.
func resolveRoot() (string, error) {
	if vaultRoot != "" {
		if err := vaultconfig.SeedIfMissing(vaultRoot); err != nil {
			return "", err
		}
		return vaultRoot, nil
	}
	return vaultconfig.ResolveAndSeed()
}

func fail(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
