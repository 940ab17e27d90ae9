package main

import (
	"github.com/spf13/cobra"

	"github.com/atomicobject/promptvault/pkg/vaultops"
)

var rootCmdGetRoot = &cobra.Command{
	Use:   "get-root",
	Short: "Print the resolved vault root path",
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := resolveRoot()
		if err != nil {
			return fail("get_root", err)
		}
		return printJSON(map[string]string{"root": root})
	},
}

var scanCmd = &cobra.Command{
	Use:     "scan",
	Aliases: []string{"ls"},
	Short:   "Scan the vault and print its category tree and flat index",
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := resolveRoot()
		if err != nil {
			return fail("scan_vault", err)
		}
		result, err := vaultops.New(root).ScanVault()
		if err != nil {
			return fail("scan_vault", err)
		}
		return printJSON(result)
	},
}

func init() {
	rootCmd.AddCommand(rootCmdGetRoot)
	rootCmd.AddCommand(scanCmd)
}
