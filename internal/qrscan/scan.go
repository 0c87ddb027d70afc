// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package qrscan recovers QR payloads from a folder of PNG images and
// renames each decoded image to its payload.
//
// Every PNG in the folder ends in exactly one bucket of the returned
// ScanResult: renamed hits or untouched misses. Directories and files with
// other extensions are skipped without being reported.
package qrscan

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/qrbatch/pkg/types"
)

// Scanner walks one folder at a time, strictly sequentially.
type Scanner struct {
	decoder Decoder
	out     io.Writer

	// Progress, when set, is called after each PNG is processed.
	Progress func(name string)
}

// NewScanner returns a scanner that decodes with d and writes per-file
// status lines to w.
func NewScanner(d Decoder, w io.Writer) *Scanner {
	if w == nil {
		w = io.Discard
	}
	return &Scanner{decoder: d, out: w}
}

// ListPNGs returns the names of the regular files in folder whose extension
// is .png in any case, in directory order.
func ListPNGs(folder string) ([]string, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, &DirectoryReadError{Dir: folder, Err: err}
	}

	var names []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if strings.ToLower(filepath.Ext(entry.Name())) != pngExt {
			continue
		}
		names = append(names, entry.Name())
	}
	return names, nil
}

// Scan decodes every PNG in folder and renames hits in place. Per-file
// failures land in NoQRCodes; only an unreadable folder returns an error.
func (s *Scanner) Scan(folder string) (types.ScanResult, error) {
	result := types.ScanResult{
		Folder:       folder,
		FoundQRCodes: []types.QRHit{},
		NoQRCodes:    []string{},
	}

	names, err := ListPNGs(folder)
	if err != nil {
		return result, err
	}

	for _, name := range names {
		hit, err := s.scanFile(folder, name)
		if err != nil {
			if IsRenameError(err) {
				fmt.Fprintf(s.out, "warning: %v\n", err)
			}
			fmt.Fprintf(s.out, "no QR:   %s (%v)\n", name, err)
			result.NoQRCodes = append(result.NoQRCodes, name)
		} else {
			fmt.Fprintf(s.out, "renamed: %s -> %s (%q)\n", hit.OriginalFile, hit.NewFile, hit.QRContent)
			result.FoundQRCodes = append(result.FoundQRCodes, hit)
		}
		if s.Progress != nil {
			s.Progress(name)
		}
	}

	fmt.Fprintf(s.out, "\nScan summary: %d with QR, %d without QR (total: %d)\n",
		len(result.FoundQRCodes), len(result.NoQRCodes), result.Total())
	return result, nil
}

func (s *Scanner) scanFile(folder, name string) (types.QRHit, error) {
	content, err := DecodeFile(s.decoder, filepath.Join(folder, name))
	if err != nil {
		return types.QRHit{}, err
	}

	newName, err := RenameToPayload(folder, name, content)
	if err != nil {
		return types.QRHit{}, err
	}

	return types.QRHit{
		OriginalFile: name,
		NewFile:      newName,
		QRContent:    content,
	}, nil
}
