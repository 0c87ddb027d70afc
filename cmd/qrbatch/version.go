// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the qrbatch version and the toolchain it was built with",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if short, _ := cmd.Flags().GetBool("short"); short {
			fmt.Fprintln(cmd.OutOrStdout(), version)
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "qrbatch %s (%s %s/%s)\n",
			version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	versionCmd.Flags().Bool("short", false, "print only the version string")

	rootCmd.AddCommand(versionCmd)
}
