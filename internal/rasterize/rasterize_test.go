// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rasterize

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/qrbatch/internal/poppler"
	"github.com/pdiddy/qrbatch/pkg/types"
)

// fakeRenderer implements poppler.Renderer for testing. It writes the
// configured number of empty page files, or fails for listed documents.
type fakeRenderer struct {
	pages    int
	failures map[string]error
	calls    []string
	opts     poppler.RenderOptions
}

func (f *fakeRenderer) Name() string    { return "fake" }
func (f *fakeRenderer) Available() bool { return true }

func (f *fakeRenderer) RenderPNG(ctx context.Context, pdfPath, outPrefix string, opts poppler.RenderOptions) error {
	f.calls = append(f.calls, pdfPath)
	f.opts = opts
	if err, ok := f.failures[filepath.Base(pdfPath)]; ok {
		return err
	}
	for i := 1; i <= f.pages; i++ {
		if err := os.WriteFile(fmt.Sprintf("%s-%d.png", outPrefix, i), nil, 0o644); err != nil {
			return err
		}
	}
	return nil
}

func writePDF(t *testing.T, dir, name string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte("%PDF-1.4"), 0o644))
	return p
}

func TestRasterize(t *testing.T) {
	srcDir := t.TempDir()
	outRoot := filepath.Join(t.TempDir(), "qrcodes")
	pdf := writePDF(t, srcDir, "PDF_prueba.pdf")

	fr := &fakeRenderer{pages: 3}
	var log bytes.Buffer
	r := New(fr, types.RasterConfig{OutputDir: outRoot}, &log)

	outDir, err := r.Rasterize(context.Background(), pdf)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(outRoot, "PDF_prueba"), outDir)
	for i := 1; i <= 3; i++ {
		assert.FileExists(t, filepath.Join(outDir, fmt.Sprintf("page-%d.png", i)))
	}
	assert.Equal(t, DefaultDPI, fr.opts.DPI)
	assert.Contains(t, log.String(), "created:")
	assert.Contains(t, log.String(), "(3 pages, fake)")
}

func TestRasterizePrefixWithGlobCharacters(t *testing.T) {
	pdf := writePDF(t, t.TempDir(), "doc.pdf")
	outRoot := t.TempDir()
	outDir := filepath.Join(outRoot, "doc")
	require.NoError(t, os.MkdirAll(outDir, 0o755))
	for _, name := range []string{"scan[1-1]-cover.png", "other-1.png", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(outDir, name), nil, 0o644))
	}

	var log bytes.Buffer
	r := New(&fakeRenderer{pages: 2}, types.RasterConfig{OutputDir: outRoot, Prefix: "scan[1-1]"}, &log)

	_, err := r.Rasterize(context.Background(), pdf)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(outDir, "scan[1-1]-2.png"))
	assert.Contains(t, log.String(), "(2 pages, fake)")
}

func TestRasterizeExistingFolder(t *testing.T) {
	srcDir := t.TempDir()
	outRoot := t.TempDir()
	pdf := writePDF(t, srcDir, "doc.pdf")
	require.NoError(t, os.MkdirAll(filepath.Join(outRoot, "doc"), 0o755))

	var log bytes.Buffer
	r := New(&fakeRenderer{pages: 1}, types.RasterConfig{OutputDir: outRoot}, &log)

	_, err := r.Rasterize(context.Background(), pdf)
	require.NoError(t, err)
	assert.NotContains(t, log.String(), "created:")
}

func TestRasterizeWithoutExtension(t *testing.T) {
	srcDir := t.TempDir()
	writePDF(t, srcDir, "report.pdf")

	fr := &fakeRenderer{pages: 1}
	r := New(fr, types.RasterConfig{OutputDir: t.TempDir()}, nil)

	outDir, err := r.Rasterize(context.Background(), filepath.Join(srcDir, "report"))
	require.NoError(t, err)
	assert.Equal(t, "report", filepath.Base(outDir))
	require.Len(t, fr.calls, 1)
	assert.Equal(t, filepath.Join(srcDir, "report.pdf"), fr.calls[0])
}

func TestRasterizeErrors(t *testing.T) {
	srcDir := t.TempDir()
	broken := writePDF(t, srcDir, "broken.pdf")
	boom := errors.New("Syntax Error: couldn't read xref table")

	tests := []struct {
		name    string
		pdf     string
		wantErr error
	}{
		{name: "missing document", pdf: filepath.Join(srcDir, "missing.pdf"), wantErr: os.ErrNotExist},
		{name: "renderer failure", pdf: broken, wantErr: boom},
		{name: "directory instead of document", pdf: srcDir},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fr := &fakeRenderer{failures: map[string]error{"broken.pdf": boom}}
			r := New(fr, types.RasterConfig{OutputDir: t.TempDir()}, nil)

			_, err := r.Rasterize(context.Background(), tt.pdf)
			require.Error(t, err)

			var re *RasterizationError
			require.ErrorAs(t, err, &re)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestRasterizeBatch(t *testing.T) {
	srcDir := t.TempDir()
	a := writePDF(t, srcDir, "a.pdf")
	b := writePDF(t, srcDir, "b.pdf")
	c := writePDF(t, srcDir, "c.pdf")

	fr := &fakeRenderer{pages: 2, failures: map[string]error{"b.pdf": errors.New("bad pdf")}}
	var log bytes.Buffer
	r := New(fr, types.RasterConfig{OutputDir: t.TempDir(), DPI: 300, FirstPage: 1, LastPage: 2}, &log)

	result := r.RasterizeBatch(context.Background(), []string{a, b, c})

	assert.Equal(t, 2, result.Rasterized)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 3, result.Total())
	assert.True(t, result.HasFailures())
	assert.Equal(t, poppler.RenderOptions{DPI: 300, FirstPage: 1, LastPage: 2}, fr.opts)
	assert.True(t, strings.Contains(log.String(), "Rasterize summary: 2 rasterized, 1 failed (total: 3)"))
}
