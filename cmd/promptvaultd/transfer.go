package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/atomicobject/promptvault/pkg/transfer"
	"github.com/atomicobject/promptvault/pkg/vaultops"
)

var (
	exportIDs               []string
	exportStructuredIDs     []string
	exportFlatIDs           []string
	exportNoContent         bool
	exportPreserveStructure bool

	importFile             string
	importBaseCategoryPath string
	importConflictStrategy string
)

var exportPromptsCmd = &cobra.Command{
	Use:   "export",
	Short: "Export documents by id as a JSON record batch",
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := resolveRoot()
		if err != nil {
			return fail("export_prompts", err)
		}
		result, err := vaultops.New(root).ScanVault()
		if err != nil {
			return fail("export_prompts", err)
		}
		opts := transfer.ExportOptions{
			IDs:               exportIDs,
			StructuredIDs:     exportStructuredIDs,
			FlatIDs:           exportFlatIDs,
			PreserveStructure: exportPreserveStructure,
		}
		if exportNoContent {
			f := false
			opts.IncludeContent = &f
		}
		out := transfer.Export(result.FlatIndex, opts, root)
		return printJSON(out)
	},
}

var importPromptsCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a JSON record batch (from --file, default stdin)",
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := resolveRoot()
		if err != nil {
			return fail("import_prompts", err)
		}
		records, err := readImportRecords(importFile)
		if err != nil {
			return fail("import_prompts", err)
		}
		ops := vaultops.New(root)
		result, err := ops.ScanVault()
		if err != nil {
			return fail("import_prompts", err)
		}
		out := transfer.Import(ops, result.FlatIndex, records, transfer.ImportOptions{
			BaseCategoryPath: importBaseCategoryPath,
			ConflictStrategy: transfer.ConflictStrategy(importConflictStrategy),
		}, root)
		return printJSON(out)
	},
}

func readImportRecords(path string) ([]transfer.ImportRecord, error) {
	var data []byte
	var err error
	if path != "" {
		data, err = os.ReadFile(path)
	} else {
		data, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		return nil, err
	}
	var records []transfer.ImportRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func init() {
	exportPromptsCmd.Flags().StringSliceVar(&exportIDs, "ids", nil, "document ids to export, flat by default")
	exportPromptsCmd.Flags().StringSliceVar(&exportStructuredIDs, "structured-ids", nil, "document ids to export with category_path included")
	exportPromptsCmd.Flags().StringSliceVar(&exportFlatIDs, "flat-ids", nil, "document ids to export without category_path")
	exportPromptsCmd.Flags().BoolVar(&exportNoContent, "no-content", false, "omit body content from exported records")
	exportPromptsCmd.Flags().BoolVar(&exportPreserveStructure, "preserve-structure", false, "include category_path for plain --ids")

	importPromptsCmd.Flags().StringVar(&importFile, "file", "", "read the record batch from this file instead of stdin")
	importPromptsCmd.Flags().StringVar(&importBaseCategoryPath, "base-category", "", "category all records import under, before any per-record category_path")
	importPromptsCmd.Flags().StringVar(&importConflictStrategy, "conflict-strategy", "rename", "one of skip, overwrite, rename")

	rootCmd.AddCommand(exportPromptsCmd, importPromptsCmd)
}
