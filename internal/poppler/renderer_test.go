// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package poppler

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
)

// mockExecutor records calls and returns configured responses.
type mockExecutor struct {
	availableBins map[string]bool // binary -> whether LookPath succeeds
	runErr        error
	calls         [][]string
}

func (m *mockExecutor) LookPath(file string) (string, error) {
	if m.availableBins[file] {
		return "/usr/bin/" + file, nil
	}
	return "", errors.New("not found: " + file)
}

func (m *mockExecutor) Run(ctx context.Context, name string, args ...string) error {
	m.calls = append(m.calls, append([]string{name}, args...))
	return m.runErr
}

func TestDetectRenderer(t *testing.T) {
	tests := []struct {
		name     string
		bins     map[string]bool
		wantName string
		wantErr  bool
	}{
		{
			name:     "pdftoppm available",
			bins:     map[string]bool{"pdftoppm": true},
			wantName: "pdftoppm",
		},
		{
			name:     "pdftocairo fallback",
			bins:     map[string]bool{"pdftocairo": true},
			wantName: "pdftocairo",
		},
		{
			name:     "both available, pdftoppm preferred",
			bins:     map[string]bool{"pdftoppm": true, "pdftocairo": true},
			wantName: "pdftoppm",
		},
		{
			name:    "neither available",
			bins:    map[string]bool{},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := detectRenderer(&mockExecutor{availableBins: tt.bins})
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !strings.Contains(err.Error(), "no PDF renderer available") {
					t.Errorf("error should mention no renderer available, got: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if r.Name() != tt.wantName {
				t.Errorf("got renderer %q, want %q", r.Name(), tt.wantName)
			}
		})
	}
}

func TestRenderArgs(t *testing.T) {
	tests := []struct {
		name string
		opts RenderOptions
		want []string
	}{
		{
			name: "all pages at default resolution",
			opts: RenderOptions{},
			want: []string{"-png", "doc.pdf", "out/page"},
		},
		{
			name: "resolution and page range",
			opts: RenderOptions{DPI: 150, FirstPage: 2, LastPage: 4},
			want: []string{"-png", "-r", "150", "-f", "2", "-l", "4", "doc.pdf", "out/page"},
		},
		{
			name: "open-ended range",
			opts: RenderOptions{FirstPage: 3},
			want: []string{"-png", "-f", "3", "doc.pdf", "out/page"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := renderArgs("doc.pdf", "out/page", tt.opts)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("renderArgs = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRenderPNG(t *testing.T) {
	exec := &mockExecutor{}
	r := newPdftocairo(exec)

	if err := r.RenderPNG(context.Background(), "doc.pdf", "out/page", RenderOptions{DPI: 72}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := [][]string{{"pdftocairo", "-png", "-r", "72", "doc.pdf", "out/page"}}
	if !reflect.DeepEqual(exec.calls, want) {
		t.Errorf("calls = %v, want %v", exec.calls, want)
	}
}

func TestRenderPNGError(t *testing.T) {
	boom := errors.New("exit status 1: Syntax Error")
	r := newPdftoppm(&mockExecutor{runErr: boom})

	err := r.RenderPNG(context.Background(), "broken.pdf", "out/page", RenderOptions{})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, boom) {
		t.Errorf("error should wrap the executor error, got: %v", err)
	}
	if !strings.Contains(err.Error(), "pdftoppm") || !strings.Contains(err.Error(), "broken.pdf") {
		t.Errorf("error should name the tool and document, got: %v", err)
	}
}
