// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/qrbatch/internal/ledger"
	"github.com/pdiddy/qrbatch/internal/qrscan"
	"github.com/pdiddy/qrbatch/internal/report"
	"github.com/pdiddy/qrbatch/pkg/types"
)

var scanCmd = &cobra.Command{
	Use:   "scan [folder]",
	Short: "Decode QR codes in a folder of PNGs and rename the images",
	Long: `Scan reads every .png file in the folder (default: the output directory),
decodes its QR code, and renames the file to the sanitized payload. Files
without a readable QR code are left untouched and listed. Other files and
subfolders are ignored. A name collision gets a numeric suffix instead of
overwriting the existing file.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().String("report", "", "write the scan result to this .yaml or .json file")
	scanCmd.Flags().Bool("no-ledger", false, "do not record the scan in the ledger")
	scanCmd.Flags().String("ledger", "", "ledger database path (default: <output-dir>/.qrbatch/ledger.db)")
	scanCmd.Flags().Bool("strict", false, "exit non-zero when any PNG has no readable QR code")

	bindFlags(scanCmd, map[string]string{
		"report":    "scan.report_path",
		"no-ledger": "ledger.disabled",
		"ledger":    "ledger.path",
	})

	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig()
	folder := cfg.Scan.Folder
	if len(args) > 0 {
		folder = args[0]
	}

	scanner := qrscan.NewScanner(qrscan.NewZXingDecoder(), os.Stdout)
	if names, err := qrscan.ListPNGs(folder); err == nil {
		if bar := newProgressBar(os.Stderr, len(names), "scanning"); bar != nil {
			scanner.Progress = func(string) { _ = bar.Add(1) }
		}
	}

	started := time.Now()
	result, err := scanner.Scan(folder)
	if err != nil {
		printFail(os.Stderr, "%v", err)
		return err
	}

	printScanSummary(os.Stdout, result)

	if cfg.Scan.ReportPath != "" {
		if err := report.WriteFile(cfg.Scan.ReportPath, result); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Report written to %s\n", cfg.Scan.ReportPath)
	}

	if !cfg.Ledger.Disabled {
		recordScan(cmd.Context(), cfg.Ledger.Path, result, started)
	}

	strict, _ := cmd.Flags().GetBool("strict")
	if strict && result.HasMisses() {
		return fmt.Errorf("%d PNG file(s) without a readable QR code", len(result.NoQRCodes))
	}
	return nil
}

func printScanSummary(w io.Writer, result types.ScanResult) {
	printOK(w, "QR scan summary for %s", result.Folder)
	fmt.Fprintf(w, "With QR (%d):\n", len(result.FoundQRCodes))
	for _, hit := range result.FoundQRCodes {
		fmt.Fprintf(w, "  %s -> %s  %q\n", hit.OriginalFile, hit.NewFile, hit.QRContent)
	}
	fmt.Fprintf(w, "Without QR (%d):\n", len(result.NoQRCodes))
	for _, name := range result.NoQRCodes {
		fmt.Fprintf(w, "  %s\n", name)
	}
}

// recordScan stores the result in the ledger. Failures are reported but do
// not change the outcome of the scan.
func recordScan(ctx context.Context, path string, result types.ScanResult, started time.Time) {
	l, err := ledger.Open(path)
	if err != nil {
		printWarn(os.Stderr, "ledger unavailable: %v", err)
		return
	}
	defer l.Close()

	id, err := l.RecordScan(ctx, result, started)
	if err != nil {
		printWarn(os.Stderr, "recording scan: %v", err)
		return
	}
	fmt.Fprintf(os.Stdout, "Recorded scan %s in %s\n", id, l.Path())
}
