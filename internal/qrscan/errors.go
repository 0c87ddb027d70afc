// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package qrscan

import (
	"errors"
	"fmt"
)

var (
	// ErrImageDecode marks a file that could not be decoded as an image.
	ErrImageDecode = errors.New("image decode failed")

	// ErrQRNotFound marks an image in which no QR code could be located.
	ErrQRNotFound = errors.New("QR code not found")

	// ErrEmptyName marks a payload that sanitizes to an empty file name.
	ErrEmptyName = errors.New("payload sanitizes to an empty file name")
)

// DirectoryReadError reports a scan folder that does not exist or cannot be
// listed. It aborts the whole scan.
type DirectoryReadError struct {
	Dir string
	Err error
}

func (e *DirectoryReadError) Error() string {
	return fmt.Sprintf("reading folder %s: %v", e.Dir, e.Err)
}

func (e *DirectoryReadError) Unwrap() error { return e.Err }

// RenameError reports a decoded file that could not be moved to its new
// name. The file stays where it was.
type RenameError struct {
	From string
	To   string
	Err  error
}

func (e *RenameError) Error() string {
	if e.To == "" {
		return fmt.Sprintf("renaming %s: %v", e.From, e.Err)
	}
	return fmt.Sprintf("renaming %s to %s: %v", e.From, e.To, e.Err)
}

func (e *RenameError) Unwrap() error { return e.Err }

// IsRenameError reports whether err is or wraps a *RenameError.
func IsRenameError(err error) bool {
	var e *RenameError
	return errors.As(err, &e)
}
