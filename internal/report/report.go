// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report serializes scan results and ledger listings as YAML or
// JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"
)

// Format is an output encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ParseFormat accepts "yaml", "yml" or "json" in any case; empty means
// YAML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported format %q: use yaml or json", s)
	}
}

// FormatForPath picks the format from a file extension.
func FormatForPath(path string) (Format, error) {
	return ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
}

// Marshal encodes v in the given format.
func Marshal(f Format, v any) ([]byte, error) {
	switch f {
	case FormatJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling JSON: %w", err)
		}
		return append(data, '\n'), nil
	case FormatYAML:
		data, err := yaml.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("marshaling YAML: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unsupported format %q", f)
	}
}

// Encode writes v to w in the given format.
func Encode(w io.Writer, f Format, v any) error {
	data, err := Marshal(f, v)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// WriteFile writes v to path, choosing the format from the extension and
// creating parent directories.
func WriteFile(path string, v any) error {
	f, err := FormatForPath(path)
	if err != nil {
		return err
	}
	data, err := Marshal(f, v)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}
