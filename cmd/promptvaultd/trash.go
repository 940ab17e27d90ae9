package main

import (
	"github.com/spf13/cobra"

	"github.com/atomicobject/promptvault/pkg/vaultops"
)

var trashThreshold int

var trashStatusCmd = &cobra.Command{
	Use:   "trash-status",
	Short: "Report trash visit counters",
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := resolveRoot()
		if err != nil {
			return fail("trash_status", err)
		}
		status, err := vaultops.New(root).TrashStatus(thresholdArg())
		if err != nil {
			return fail("trash_status", err)
		}
		return printJSON(status)
	},
}

var trashVisitCmd = &cobra.Command{
	Use:   "trash-visit",
	Short: "Increment every trash item's visit counter, purging items that reach the threshold",
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := resolveRoot()
		if err != nil {
			return fail("trash_visit", err)
		}
		result, err := vaultops.New(root).TrashVisit(thresholdArg())
		if err != nil {
			return fail("trash_visit", err)
		}
		return printJSON(result)
	},
}

func thresholdArg() *int {
	if trashThreshold <= 0 {
		return nil
	}
	return &trashThreshold
}

func init() {
	trashStatusCmd.Flags().IntVar(&trashThreshold, "threshold", 0, "override the default deletion threshold")
	trashVisitCmd.Flags().IntVar(&trashThreshold, "threshold", 0, "override the default deletion threshold")
	rootCmd.AddCommand(trashStatusCmd, trashVisitCmd)
}
