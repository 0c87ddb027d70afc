// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rasterize converts PDF documents into per-page PNG images, one
// output folder per document.
package rasterize

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pdiddy/qrbatch/internal/poppler"
	"github.com/pdiddy/qrbatch/pkg/types"
)

const (
	DefaultDPI    = 150
	DefaultPrefix = "page"
)

// RasterizationError reports a document that could not be rasterized. It
// covers the whole document; no per-page outcome exists.
type RasterizationError struct {
	PDF string
	Err error
}

func (e *RasterizationError) Error() string {
	return fmt.Sprintf("rasterizing %s: %v", e.PDF, e.Err)
}

func (e *RasterizationError) Unwrap() error { return e.Err }

// BatchResult holds the outcome of rasterizing several documents.
type BatchResult struct {
	Rasterized int
	Failed     int
}

// Total returns the number of documents processed.
func (r BatchResult) Total() int {
	return r.Rasterized + r.Failed
}

// HasFailures reports whether any document failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Rasterizer renders documents through a poppler.Renderer injected at
// construction time.
type Rasterizer struct {
	renderer poppler.Renderer
	cfg      types.RasterConfig
	out      io.Writer
}

// New returns a rasterizer writing status lines to w. Unset DPI and prefix
// fall back to the defaults.
func New(r poppler.Renderer, cfg types.RasterConfig, w io.Writer) *Rasterizer {
	if cfg.DPI <= 0 {
		cfg.DPI = DefaultDPI
	}
	if cfg.Prefix == "" {
		cfg.Prefix = DefaultPrefix
	}
	if w == nil {
		w = io.Discard
	}
	return &Rasterizer{renderer: r, cfg: cfg, out: w}
}

// OutputFolder returns the folder pages of pdfPath are written to:
// <OutputDir>/<pdf base name without extension>.
func (r *Rasterizer) OutputFolder(pdfPath string) string {
	base := strings.TrimSuffix(filepath.Base(pdfPath), filepath.Ext(pdfPath))
	return filepath.Join(r.cfg.OutputDir, base)
}

// Rasterize writes one PNG per selected page of pdfPath into its output
// folder, creating the folder if needed, and returns the folder path.
func (r *Rasterizer) Rasterize(ctx context.Context, pdfPath string) (string, error) {
	src, err := resolvePDF(pdfPath)
	if err != nil {
		return "", &RasterizationError{PDF: pdfPath, Err: err}
	}

	outDir := r.OutputFolder(src)
	if _, err := os.Stat(outDir); errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return "", &RasterizationError{PDF: src, Err: fmt.Errorf("creating %s: %w", outDir, err)}
		}
		fmt.Fprintf(r.out, "created:    %s\n", outDir)
	}

	opts := poppler.RenderOptions{
		DPI:       r.cfg.DPI,
		FirstPage: r.cfg.FirstPage,
		LastPage:  r.cfg.LastPage,
	}
	if err := r.renderer.RenderPNG(ctx, src, filepath.Join(outDir, r.cfg.Prefix), opts); err != nil {
		return "", &RasterizationError{PDF: src, Err: err}
	}

	pages, err := countPages(outDir, r.cfg.Prefix)
	if err != nil {
		return "", &RasterizationError{PDF: src, Err: err}
	}
	fmt.Fprintf(r.out, "rasterized: %s -> %s (%d pages, %s)\n", src, outDir, pages, r.renderer.Name())
	return outDir, nil
}

// countPages counts the <prefix>-<n>.png files in dir. The prefix is matched
// literally so it may contain glob metacharacters.
func countPages(dir, prefix string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("listing pages: %w", err)
	}
	n := 0
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, prefix+"-") || !strings.HasSuffix(name, ".png") {
			continue
		}
		num := strings.TrimSuffix(strings.TrimPrefix(name, prefix+"-"), ".png")
		if _, err := strconv.Atoi(num); err == nil {
			n++
		}
	}
	return n, nil
}

// RasterizeBatch rasterizes each document in turn, printing per-document
// status to the rasterizer's writer and returning a summary.
func (r *Rasterizer) RasterizeBatch(ctx context.Context, pdfPaths []string) BatchResult {
	var result BatchResult
	for _, p := range pdfPaths {
		if _, err := r.Rasterize(ctx, p); err != nil {
			fmt.Fprintf(r.out, "failed:     %s (%v)\n", p, err)
			result.Failed++
			continue
		}
		result.Rasterized++
	}
	fmt.Fprintf(r.out, "\nRasterize summary: %d rasterized, %d failed (total: %d)\n",
		result.Rasterized, result.Failed, result.Total())
	return result
}

// resolvePDF accepts a path with or without its .pdf extension.
func resolvePDF(p string) (string, error) {
	fi, err := os.Stat(p)
	if err == nil {
		if fi.IsDir() {
			return "", fmt.Errorf("%s is a directory", p)
		}
		return p, nil
	}
	if filepath.Ext(p) == "" {
		if _, extErr := os.Stat(p + ".pdf"); extErr == nil {
			return p + ".pdf", nil
		}
	}
	return "", err
}
