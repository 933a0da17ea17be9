// ABOUTME: Export command for writing the local store to stdout
// ABOUTME: Outputs sessions in the on-disk CSV format for backup or spreadsheets

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the local store as CSV to stdout",
	Long:  "Export every locally stored session, including unknown columns, in the on-disk CSV format.",
	RunE: func(cmd *cobra.Command, args []string) error {
		local, err := cfg.OpenLocal(logger)
		if err != nil {
			return fmt.Errorf("failed to open local store: %w", err)
		}
		defer local.Close()

		return local.Export(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
}
