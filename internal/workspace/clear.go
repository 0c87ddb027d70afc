// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package workspace manages the shared output directory: creating it and
// clearing the files left by earlier runs.
package workspace

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ClearResult holds the outcome of clearing a folder.
type ClearResult struct {
	Removed int
	Failed  int
}

// HasFailures reports whether any file could not be removed.
func (r ClearResult) HasFailures() bool {
	return r.Failed > 0
}

// Clear removes every regular file directly under dir. Subfolders (for
// example rasterized documents) and their contents are kept. A missing dir
// is not an error. Per-file failures are reported on w and counted.
func Clear(dir string, w io.Writer) (ClearResult, error) {
	var result ClearResult
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return result, nil
		}
		return result, fmt.Errorf("reading folder %s: %w", dir, err)
	}

	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", entry.Name(), err)
			result.Failed++
			continue
		}
		fmt.Fprintf(w, "removed: %s\n", entry.Name())
		result.Removed++
	}

	fmt.Fprintf(w, "\nClear summary: %d removed, %d failed in %s\n", result.Removed, result.Failed, dir)
	return result, nil
}

// Ensure creates dir and its parents if they do not exist.
func Ensure(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	return nil
}
