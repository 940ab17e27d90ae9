package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/atomicobject/promptvault/pkg/document"
	"github.com/atomicobject/promptvault/pkg/vaultops"
)

var (
	createType          string
	createScheduledTime string
	deletePermanent     bool
	saveBodyFile        string
)

var readPromptCmd = &cobra.Command{
	Use:   "read <path>",
	Short: "Read a document by vault-relative or absolute path",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := resolveRoot()
		if err != nil {
			return fail("read_prompt", err)
		}
		doc, err := vaultops.New(root).ReadPrompt(args[0])
		if err != nil {
			return fail("read_prompt", err)
		}
		return printJSON(doc)
	},
}

var createPromptCmd = &cobra.Command{
	Use:   "create <category-path> <title>",
	Short: "Create a new document under a category",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := resolveRoot()
		if err != nil {
			return fail("create_prompt", err)
		}
		doc, err := vaultops.New(root).CreatePrompt(args[0], args[1], document.CreateOptions{
			Type:          createType,
			ScheduledTime: createScheduledTime,
		})
		if err != nil {
			return fail("create_prompt", err)
		}
		return printJSON(doc)
	},
}

var savePromptCmd = &cobra.Command{
	Use:   "save <path>",
	Short: "Rewrite a document's body from stdin or --body-file, bumping updated_at",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := resolveRoot()
		if err != nil {
			return fail("save_prompt", err)
		}
		ops := vaultops.New(root)
		doc, err := ops.ReadPrompt(args[0])
		if err != nil {
			return fail("save_prompt", err)
		}
		body, err := readBodyInput(saveBodyFile)
		if err != nil {
			return fail("save_prompt", err)
		}
		doc.Body = body
		if err := ops.SavePrompt(doc); err != nil {
			return fail("save_prompt", err)
		}
		return printJSON(doc)
	},
}

var deletePromptCmd = &cobra.Command{
	Use:   "delete <path>",
	Short: "Move a document to trash, or remove it permanently with --permanent",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := resolveRoot()
		if err != nil {
			return fail("delete_prompt", err)
		}
		if err := vaultops.New(root).DeletePrompt(args[0], deletePermanent); err != nil {
			return fail("delete_prompt", err)
		}
		return printJSON(map[string]bool{"ok": true})
	},
}

var restorePromptCmd = &cobra.Command{
	Use:   "restore <trash-path>",
	Short: "Restore a trashed document to its recorded original path",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := resolveRoot()
		if err != nil {
			return fail("restore_prompt", err)
		}
		if err := vaultops.New(root).RestorePrompt(args[0]); err != nil {
			return fail("restore_prompt", err)
		}
		return printJSON(map[string]bool{"ok": true})
	},
}

func readBodyInput(path string) (string, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func init() {
	createPromptCmd.Flags().StringVar(&createType, "type", "", "document type (default NOTE)")
	createPromptCmd.Flags().StringVar(&createScheduledTime, "scheduled-time", "", "RFC3339 scheduled time")
	savePromptCmd.Flags().StringVar(&saveBodyFile, "body-file", "", "read the new body from this file instead of stdin")
	deletePromptCmd.Flags().BoolVar(&deletePermanent, "permanent", false, "remove the document outright instead of trashing it")

	rootCmd.AddCommand(readPromptCmd, createPromptCmd, savePromptCmd, deletePromptCmd, restorePromptCmd)
}
