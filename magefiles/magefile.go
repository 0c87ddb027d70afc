//go:build mage

// Package main contains Mage build targets for qrbatch developer tooling.
package main

import (
	"fmt"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"

	"github.com/pdiddy/qrbatch/internal/workspace"
)

const (
	binDir    = "bin"
	binName   = "qrbatch"
	cmdPkg    = "./cmd/qrbatch"
	outputDir = "qrcodes"
)

// Init creates the output directory the pipelines share.
func Init() error {
	if err := workspace.Ensure(outputDir); err != nil {
		return err
	}
	fmt.Println("  ", outputDir)
	fmt.Println("Output directory initialized.")
	return nil
}

// Build compiles the CLI binary into bin/, stamping the version from git.
func Build() error {
	version, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil || version == "" {
		version = "dev"
	}
	out := filepath.Join(binDir, binName)
	ldflags := "-X main.version=" + version
	if err := sh.RunV("go", "build", "-ldflags", ldflags, "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s (%s)\n", out, version)
	return nil
}

// Test runs the unit tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Vet runs go vet over the module.
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Check runs vet and the tests.
func Check() {
	mg.SerialDeps(Vet, Test)
}
