package main

import (
	"github.com/spf13/cobra"

	"github.com/atomicobject/promptvault/pkg/vaultops"
)

var createCategoryCmd = &cobra.Command{
	Use:   "category-create <parent-path> <name>",
	Short: "Create a new category directory under parent",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := resolveRoot()
		if err != nil {
			return fail("create_category", err)
		}
		path, err := vaultops.New(root).CreateCategory(args[0], args[1])
		if err != nil {
			return fail("create_category", err)
		}
		return printJSON(map[string]string{"path": path})
	},
}

var renameCategoryCmd = &cobra.Command{
	Use:   "category-rename <path> <new-name>",
	Short: "Rename a category directory in place",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := resolveRoot()
		if err != nil {
			return fail("rename_category", err)
		}
		path, err := vaultops.New(root).RenameCategory(args[0], args[1])
		if err != nil {
			return fail("rename_category", err)
		}
		return printJSON(map[string]string{"path": path})
	},
}

var moveCategoryCmd = &cobra.Command{
	Use:   "category-move <path> <target-parent>",
	Short: "Move a category under a new parent",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := resolveRoot()
		if err != nil {
			return fail("move_category", err)
		}
		name, newPath, err := vaultops.New(root).MoveCategory(args[0], args[1])
		if err != nil {
			return fail("move_category", err)
		}
		return printJSON(map[string]string{"name": name, "path": newPath})
	},
}

var deleteCategoryCmd = &cobra.Command{
	Use:   "category-delete <path>",
	Short: "Move a category to trash",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := resolveRoot()
		if err != nil {
			return fail("delete_category", err)
		}
		if err := vaultops.New(root).DeleteCategory(args[0]); err != nil {
			return fail("delete_category", err)
		}
		return printJSON(map[string]bool{"ok": true})
	},
}

func init() {
	rootCmd.AddCommand(createCategoryCmd, renameCategoryCmd, moveCategoryCmd, deleteCategoryCmd)
}
