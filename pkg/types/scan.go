// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// QRHit records a PNG whose QR code was decoded and which was renamed to
// the sanitized payload.
type QRHit struct {
	// OriginalFile is the file name before the rename.
	OriginalFile string `json:"original_file" yaml:"original_file"`

	// NewFile is the file name on disk after the rename, including any
	// collision suffix.
	NewFile string `json:"new_file" yaml:"new_file"`

	// QRContent is the decoded payload, unsanitized.
	QRContent string `json:"qr_content" yaml:"qr_content"`
}

// ScanResult partitions the PNG files of a scanned folder into hits and
// misses. Non-PNG entries appear in neither list.
type ScanResult struct {
	Folder       string   `json:"folder" yaml:"folder"`
	FoundQRCodes []QRHit  `json:"found_qr_codes" yaml:"found_qr_codes"`
	NoQRCodes    []string `json:"no_qr_codes" yaml:"no_qr_codes"`
}

// Total returns the number of PNG files processed.
func (r ScanResult) Total() int {
	return len(r.FoundQRCodes) + len(r.NoQRCodes)
}

// HasMisses reports whether any PNG ended in the no-QR bucket.
func (r ScanResult) HasMisses() bool {
	return len(r.NoQRCodes) > 0
}

// ScanRecord is a scan run as stored in the ledger.
type ScanRecord struct {
	ID        string    `json:"id" yaml:"id"`
	Folder    string    `json:"folder" yaml:"folder"`
	StartedAt time.Time `json:"started_at" yaml:"started_at"`
	Found     int       `json:"found" yaml:"found"`
	NotFound  int       `json:"not_found" yaml:"not_found"`
}
