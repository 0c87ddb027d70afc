// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/qrbatch/internal/ledger"
	"github.com/pdiddy/qrbatch/pkg/types"
)

// bindFlags maps command flags onto viper keys so values can also come from
// the config file or QRBATCH_* environment variables. Binding happens when
// the command runs, so several commands may share a key.
func bindFlags(cmd *cobra.Command, keys map[string]string) {
	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		for flag, key := range keys {
			if err := viper.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
				return err
			}
		}
		return nil
	}
}

// pipelineConfig assembles the typed configuration from viper.
func pipelineConfig() types.PipelineConfig {
	outputDir := viper.GetString("output_dir")
	if outputDir == "" {
		outputDir = defaultOutputDir
	}

	cfg := types.PipelineConfig{
		OutputDir: outputDir,
		Generator: types.GeneratorConfig{
			OutputDir:   outputDir,
			Count:       viper.GetInt("generator.count"),
			LabelPrefix: viper.GetString("generator.label_prefix"),
			Size:        viper.GetInt("generator.size"),
			Workers:     viper.GetInt("generator.workers"),
		},
		Raster: types.RasterConfig{
			OutputDir: outputDir,
			DPI:       viper.GetInt("raster.dpi"),
			FirstPage: viper.GetInt("raster.first_page"),
			LastPage:  viper.GetInt("raster.last_page"),
			Prefix:    viper.GetString("raster.prefix"),
		},
		Scan: types.ScanConfig{
			Folder:     viper.GetString("scan.folder"),
			ReportPath: viper.GetString("scan.report_path"),
		},
		Ledger: types.LedgerConfig{
			Path:     viper.GetString("ledger.path"),
			Disabled: viper.GetBool("ledger.disabled"),
		},
	}

	if cfg.Scan.Folder == "" {
		cfg.Scan.Folder = outputDir
	}
	if cfg.Ledger.Path == "" {
		cfg.Ledger.Path = ledger.DefaultPath(outputDir)
	}
	return cfg
}

func progressEnabled() bool {
	return !viper.GetBool("no_progress")
}
