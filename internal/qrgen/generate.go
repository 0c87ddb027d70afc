// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package qrgen renders numbered QR-code images for a label sequence.
package qrgen

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/skip2/go-qrcode"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/qrbatch/pkg/types"
)

const (
	DefaultOutputDir   = "qrcodes"
	DefaultCount       = 30
	DefaultLabelPrefix = "QR_numero_"
	DefaultSize        = 300
)

// Options are the rendering parameters of a single QR image. The quiet
// zone is always four modules wide.
type Options struct {
	Size       int
	Level      qrcode.RecoveryLevel
	Foreground color.Color
	Background color.Color
}

// DefaultOptions renders 300 px black-on-white symbols at the highest
// error-correction level.
func DefaultOptions() Options {
	return Options{
		Size:       DefaultSize,
		Level:      qrcode.Highest,
		Foreground: color.Black,
		Background: color.White,
	}
}

// EncodeFile writes a PNG encoding payload to path.
func EncodeFile(path, payload string, opts Options) error {
	q, err := qrcode.New(payload, opts.Level)
	if err != nil {
		return fmt.Errorf("encoding %q: %w", payload, err)
	}
	q.ForegroundColor = opts.Foreground
	q.BackgroundColor = opts.Background
	q.DisableBorder = false

	if err := q.WriteFile(opts.Size, path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Label returns the payload for index i.
func Label(prefix string, i int) string {
	return prefix + strconv.Itoa(i)
}

// GenerationError reports one image that could not be produced. It never
// affects the other images of the batch.
type GenerationError struct {
	Index int
	Path  string
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generating QR %d at %s: %v", e.Index, e.Path, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// Outcome is the result of generating one image.
type Outcome struct {
	Index   int
	Path    string
	Payload string
	Err     error
}

// BatchResult holds the per-index outcomes of a generation run.
type BatchResult struct {
	Outcomes  []Outcome
	Generated int
	Failed    int
}

// Total returns the number of images attempted.
func (r BatchResult) Total() int {
	return r.Generated + r.Failed
}

// HasFailures reports whether any image failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Generator produces a batch of QR images concurrently.
type Generator struct {
	cfg  types.GeneratorConfig
	opts Options
	out  io.Writer

	// Progress, when set, is called once per finished image. It may be
	// called from several goroutines at once.
	Progress func(o Outcome)
}

// NewGenerator fills unset fields of cfg with the defaults and returns a
// generator writing status lines to w.
func NewGenerator(cfg types.GeneratorConfig, w io.Writer) *Generator {
	if cfg.OutputDir == "" {
		cfg.OutputDir = DefaultOutputDir
	}
	if cfg.Count <= 0 {
		cfg.Count = DefaultCount
	}
	if cfg.LabelPrefix == "" {
		cfg.LabelPrefix = DefaultLabelPrefix
	}
	opts := DefaultOptions()
	if cfg.Size > 0 {
		opts.Size = cfg.Size
	}
	if w == nil {
		w = io.Discard
	}
	return &Generator{cfg: cfg, opts: opts, out: w}
}

// Generate writes <index>.png for every index in [0, Count) and waits for
// all of them. Only a failure to create the output directory is returned
// as an error; per-image failures are reported in the result.
func (g *Generator) Generate() (BatchResult, error) {
	if err := os.MkdirAll(g.cfg.OutputDir, 0o755); err != nil {
		return BatchResult{}, fmt.Errorf("creating output directory %s: %w", g.cfg.OutputDir, err)
	}

	outcomes := make([]Outcome, g.cfg.Count)

	var eg errgroup.Group
	if g.cfg.Workers > 0 {
		eg.SetLimit(g.cfg.Workers)
	}
	for i := 0; i < g.cfg.Count; i++ {
		i := i
		eg.Go(func() error {
			o := Outcome{
				Index:   i,
				Path:    filepath.Join(g.cfg.OutputDir, strconv.Itoa(i)+".png"),
				Payload: Label(g.cfg.LabelPrefix, i),
			}
			if err := EncodeFile(o.Path, o.Payload, g.opts); err != nil {
				o.Err = &GenerationError{Index: i, Path: o.Path, Err: err}
			}
			outcomes[i] = o
			if g.Progress != nil {
				g.Progress(o)
			}
			// Failures stay in the outcome so the rest of the group keeps running.
			return nil
		})
	}
	_ = eg.Wait()

	result := BatchResult{Outcomes: outcomes}
	for _, o := range outcomes {
		if o.Err != nil {
			fmt.Fprintf(g.out, "failed:    %s (%v)\n", filepath.Base(o.Path), o.Err)
			result.Failed++
			continue
		}
		fmt.Fprintf(g.out, "generated: %s (%s)\n", o.Path, o.Payload)
		result.Generated++
	}

	fmt.Fprintf(g.out, "\nGenerate summary: %d generated, %d failed (total: %d)\n",
		result.Generated, result.Failed, result.Total())
	return result, nil
}
