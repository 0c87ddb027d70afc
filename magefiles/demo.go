//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Demo clears the output directory, generates the default 30 codes, and
// scans them back, renaming each image to its payload.
func Demo() error {
	mg.Deps(Build)
	bin := "./" + binDir + "/" + binName
	for _, args := range [][]string{
		{"clear", outputDir},
		{"generate", "--output-dir", outputDir},
		{"scan", outputDir},
	} {
		if err := sh.RunV(bin, args...); err != nil {
			return err
		}
	}
	return nil
}
