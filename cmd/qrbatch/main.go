// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the qrbatch CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/qrbatch/internal/qrgen"
)

// version is set at build time via ldflags.
var version = "dev"

const defaultOutputDir = qrgen.DefaultOutputDir

// rootCmd is the base command for the qrbatch CLI.
var rootCmd = &cobra.Command{
	Use:   "qrbatch",
	Short: "Generate, rasterize, and recover QR-coded images in batch",
	Long: `qrbatch works on a shared output directory of PNG images. It generates
numbered QR codes, rasterizes PDF documents into per-page PNGs, and scans a
folder of PNGs, renaming every image whose QR code decodes to the payload.

Each pipeline is a subcommand: generate, rasterize, scan, and clear. Scan
runs are recorded in a local ledger that history can query.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./qrbatch.yaml or ~/.config/qrbatch/config.yaml)")
	rootCmd.PersistentFlags().String("output-dir", defaultOutputDir, "root directory shared by all pipelines")
	rootCmd.PersistentFlags().Bool("no-progress", false, "disable progress bars on stderr")

	_ = viper.BindPFlag("output_dir", rootCmd.PersistentFlags().Lookup("output-dir"))
	_ = viper.BindPFlag("no_progress", rootCmd.PersistentFlags().Lookup("no-progress"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("qrbatch")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "qrbatch"))
		}
	}

	viper.SetEnvPrefix("QRBATCH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
