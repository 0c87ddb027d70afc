// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/qrbatch/internal/ledger"
	"github.com/pdiddy/qrbatch/internal/report"
	"github.com/pdiddy/qrbatch/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history [scan-id]",
	Short: "List recorded scans or show one scan's renames",
	Long: `History reads the scan ledger. Without arguments it lists the most recent
scans, newest first. With a scan ID it prints that scan's result: every
renamed file with its payload and every file left without a QR code.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of scans to list")
	historyCmd.Flags().String("format", "", "output format: table, yaml, or json (default: table for lists, yaml for a scan)")
	historyCmd.Flags().String("ledger", "", "ledger database path (default: <output-dir>/.qrbatch/ledger.db)")

	bindFlags(historyCmd, map[string]string{
		"ledger": "ledger.path",
	})

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	path := pipelineConfig().Ledger.Path
	format, _ := cmd.Flags().GetString("format")

	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("no ledger at %s: run scan first", path)
	}
	l, err := ledger.Open(path)
	if err != nil {
		return err
	}
	defer l.Close()

	if len(args) == 1 {
		result, err := l.Result(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		f, err := report.ParseFormat(format)
		if err != nil {
			return err
		}
		return report.Encode(os.Stdout, f, result)
	}

	limit, _ := cmd.Flags().GetInt("limit")
	records, err := l.Scans(cmd.Context(), limit)
	if err != nil {
		return err
	}

	if format == "" || format == "table" {
		printScanTable(os.Stdout, records)
		return nil
	}
	f, err := report.ParseFormat(format)
	if err != nil {
		return err
	}
	return report.Encode(os.Stdout, f, records)
}

func printScanTable(w io.Writer, records []types.ScanRecord) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No scans recorded.")
		return
	}

	fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("%-36s  %-20s  %5s  %5s  %s",
		"ID", "Started", "QR", "No QR", "Folder")))
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for _, r := range records {
		fmt.Fprintf(w, "%-36s  %-20s  %5d  %5d  %s\n",
			r.ID, r.StartedAt.Local().Format(time.DateTime), r.Found, r.NotFound, r.Folder)
	}
	fmt.Fprintf(w, "\n%d scans\n", len(records))
}
