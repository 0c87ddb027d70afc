// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/qrbatch/internal/workspace"
)

var clearCmd = &cobra.Command{
	Use:   "clear [folder]",
	Short: "Delete the files in the output directory",
	Long: `Clear removes every regular file directly under the folder (default: the
output directory). Subfolders, such as rasterized documents and the scan
ledger, are kept.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		folder := pipelineConfig().OutputDir
		if len(args) > 0 {
			folder = args[0]
		}

		result, err := workspace.Clear(folder, os.Stdout)
		if err != nil {
			printFail(os.Stderr, "%v", err)
			return err
		}
		if result.HasFailures() {
			return fmt.Errorf("%d file(s) could not be removed", result.Failed)
		}
		printOK(os.Stderr, "all files removed from %s", folder)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(clearCmd)
}
