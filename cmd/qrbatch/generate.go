// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/qrbatch/internal/qrgen"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate numbered QR-code images",
	Long: `Generate writes <index>.png into the output directory for every index in
[0, count), each encoding "<prefix><index>". Images are rendered at 300 px
with the highest error-correction level, black on white. All images are
generated concurrently; one failure does not stop the others.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().Int("count", qrgen.DefaultCount, "number of QR codes to generate")
	generateCmd.Flags().String("prefix", qrgen.DefaultLabelPrefix, "label prefix encoded before each index")
	generateCmd.Flags().Int("size", qrgen.DefaultSize, "image width and height in pixels")
	generateCmd.Flags().Int("workers", 0, "maximum concurrent encodes (0 = no limit)")

	bindFlags(generateCmd, map[string]string{
		"count":   "generator.count",
		"prefix":  "generator.label_prefix",
		"size":    "generator.size",
		"workers": "generator.workers",
	})

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig().Generator

	gen := qrgen.NewGenerator(cfg, os.Stdout)
	count := cfg.Count
	if count <= 0 {
		count = qrgen.DefaultCount
	}
	if bar := newProgressBar(os.Stderr, count, "generating"); bar != nil {
		gen.Progress = func(qrgen.Outcome) { _ = bar.Add(1) }
	}

	result, err := gen.Generate()
	if err != nil {
		return err
	}
	if result.HasFailures() {
		printFail(os.Stderr, "%d QR code(s) failed generation", result.Failed)
		return fmt.Errorf("%d QR code(s) failed generation", result.Failed)
	}
	printOK(os.Stderr, "%d QR codes generated in %s", result.Generated, cfg.OutputDir)
	return nil
}
