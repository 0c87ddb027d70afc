// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package poppler detects and drives the poppler command-line renderers
// (pdftoppm, pdftocairo) that turn PDF pages into PNG files.
package poppler

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

const (
	binPdftoppm   = "pdftoppm"
	binPdftocairo = "pdftocairo"
)

// RenderOptions selects resolution and page range. Zero values mean the
// tool default (DPI) or no bound (pages).
type RenderOptions struct {
	DPI       int
	FirstPage int
	LastPage  int
}

// Renderer converts PDF pages to PNG images.
type Renderer interface {
	// Name returns the tool name ("pdftoppm" or "pdftocairo").
	Name() string

	// Available reports whether the tool binary exists on PATH.
	Available() bool

	// RenderPNG renders the selected pages of pdfPath to
	// <outPrefix>-<page>.png. All pages are produced by a single tool
	// invocation; a failure covers the whole document.
	RenderPNG(ctx context.Context, pdfPath, outPrefix string, opts RenderOptions) error
}

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	Run(ctx context.Context, name string, args ...string) error
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) Run(ctx context.Context, name string, args ...string) error {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%w: %s", err, msg)
		}
		return err
	}
	return nil
}

// renderer implements Renderer for one poppler binary. pdftoppm and
// pdftocairo accept the same flags for PNG output and name pages the same
// way, so only the binary differs.
type renderer struct {
	bin  string
	exec executor
}

func (r *renderer) Name() string { return r.bin }

func (r *renderer) Available() bool {
	_, err := r.exec.LookPath(r.bin)
	return err == nil
}

func (r *renderer) RenderPNG(ctx context.Context, pdfPath, outPrefix string, opts RenderOptions) error {
	if err := r.exec.Run(ctx, r.bin, renderArgs(pdfPath, outPrefix, opts)...); err != nil {
		return fmt.Errorf("running %s on %s: %w", r.bin, pdfPath, err)
	}
	return nil
}

func renderArgs(pdfPath, outPrefix string, opts RenderOptions) []string {
	args := []string{"-png"}
	if opts.DPI > 0 {
		args = append(args, "-r", strconv.Itoa(opts.DPI))
	}
	if opts.FirstPage > 0 {
		args = append(args, "-f", strconv.Itoa(opts.FirstPage))
	}
	if opts.LastPage > 0 {
		args = append(args, "-l", strconv.Itoa(opts.LastPage))
	}
	return append(args, pdfPath, outPrefix)
}

func newPdftoppm(exec executor) *renderer {
	return &renderer{bin: binPdftoppm, exec: exec}
}

func newPdftocairo(exec executor) *renderer {
	return &renderer{bin: binPdftocairo, exec: exec}
}

var defaultExec = &osExecutor{}

// DetectRenderer tries pdftoppm first, falls back to pdftocairo. Returns an
// error if neither is installed.
func DetectRenderer() (Renderer, error) {
	return detectRenderer(defaultExec)
}

func detectRenderer(exec executor) (Renderer, error) {
	ppm := newPdftoppm(exec)
	if ppm.Available() {
		return ppm, nil
	}

	cairo := newPdftocairo(exec)
	if cairo.Available() {
		return cairo, nil
	}

	return nil, fmt.Errorf(
		"no PDF renderer available: neither %s nor %s found on PATH (install poppler-utils)",
		binPdftoppm, binPdftocairo,
	)
}
