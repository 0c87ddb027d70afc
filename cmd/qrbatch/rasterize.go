// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/qrbatch/internal/poppler"
	"github.com/pdiddy/qrbatch/internal/rasterize"
)

var rasterizeCmd = &cobra.Command{
	Use:   "rasterize [pdfs...]",
	Short: "Convert PDF pages into PNG images",
	Long: `Rasterize renders every page of each PDF into
<output-dir>/<pdf name>/page-<n>.png using poppler (pdftoppm, or pdftocairo
when pdftoppm is missing). The ".pdf" extension may be omitted. A document
either converts completely or is reported as failed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRasterize,
}

func init() {
	rasterizeCmd.Flags().Int("dpi", rasterize.DefaultDPI, "render resolution in DPI")
	rasterizeCmd.Flags().Int("first", 0, "first page to render (0 = from the start)")
	rasterizeCmd.Flags().Int("last", 0, "last page to render (0 = to the end)")
	rasterizeCmd.Flags().String("prefix", rasterize.DefaultPrefix, "page file name prefix")

	bindFlags(rasterizeCmd, map[string]string{
		"dpi":    "raster.dpi",
		"first":  "raster.first_page",
		"last":   "raster.last_page",
		"prefix": "raster.prefix",
	})

	rootCmd.AddCommand(rasterizeCmd)
}

func runRasterize(cmd *cobra.Command, args []string) error {
	renderer, err := poppler.DetectRenderer()
	if err != nil {
		return err
	}

	r := rasterize.New(renderer, pipelineConfig().Raster, os.Stdout)
	result := r.RasterizeBatch(cmd.Context(), args)
	if result.HasFailures() {
		printFail(os.Stderr, "%d PDF(s) failed rasterization", result.Failed)
		return fmt.Errorf("%d PDF(s) failed rasterization", result.Failed)
	}
	printOK(os.Stderr, "%d PDF(s) rasterized", result.Rasterized)
	return nil
}
