// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package qrscan

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const pngExt = ".png"

// renameFunc is swapped in tests to simulate rename failures.
var renameFunc = os.Rename

// RenameToPayload renames dir/oldName to the sanitized payload plus ".png".
// An existing file is never overwritten: the first free name among
// "<name>.png", "<name>_1.png", "<name>_2.png", ... is used. It returns the
// name the file has afterwards.
func RenameToPayload(dir, oldName, payload string) (string, error) {
	base := Sanitize(payload)
	if base == "" {
		return "", &RenameError{From: oldName, Err: ErrEmptyName}
	}

	newName, err := freeName(dir, oldName, base)
	if err != nil {
		return "", &RenameError{From: oldName, To: base + pngExt, Err: err}
	}
	if newName == oldName {
		return oldName, nil
	}

	if err := renameFunc(filepath.Join(dir, oldName), filepath.Join(dir, newName)); err != nil {
		return "", &RenameError{From: oldName, To: newName, Err: err}
	}
	return newName, nil
}

// freeName returns the first candidate name that is either unused or
// already refers to current (a rescan, or a case-only change on a
// case-insensitive filesystem).
func freeName(dir, current, base string) (string, error) {
	currentPath := filepath.Join(dir, current)
	for i := 0; ; i++ {
		name := base + pngExt
		if i > 0 {
			name = fmt.Sprintf("%s_%d%s", base, i, pngExt)
		}
		if name == current {
			return name, nil
		}

		fi, err := os.Lstat(filepath.Join(dir, name))
		if os.IsNotExist(err) {
			return name, nil
		}
		if err != nil {
			return "", err
		}
		if strings.EqualFold(name, current) {
			if cur, err := os.Lstat(currentPath); err == nil && os.SameFile(fi, cur) {
				return name, nil
			}
		}
	}
}
