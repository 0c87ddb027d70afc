// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger keeps a SQLite history of scan runs: which files were
// renamed to which payloads, and which were left without a QR code.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/qrbatch/pkg/types"
)

const (
	// DirName is the hidden folder under the output directory holding the
	// default ledger database.
	DirName = ".qrbatch"
	dbFile  = "ledger.db"

	defaultLimit = 20

	// timeLayout is fixed width so started_at sorts chronologically as text.
	timeLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

// ErrScanNotFound is returned when a scan ID is not in the ledger.
var ErrScanNotFound = errors.New("scan not found")

// DefaultPath returns the ledger location for an output directory.
func DefaultPath(outputDir string) string {
	return filepath.Join(outputDir, DirName, dbFile)
}

// Ledger is an open scan history database.
type Ledger struct {
	db   *sql.DB
	path string
}

// Open opens or creates the ledger at path, creating parent directories and
// the schema as needed.
func Open(path string) (*Ledger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating ledger directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}

	l := &Ledger{db: db, path: path}
	if err := l.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return l, nil
}

// Path returns the database file path.
func (l *Ledger) Path() string { return l.path }

// Close releases the database connection.
func (l *Ledger) Close() error {
	return l.db.Close()
}

func (l *Ledger) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS scans (
			id TEXT PRIMARY KEY,
			folder TEXT NOT NULL,
			started_at TEXT NOT NULL,
			found INTEGER NOT NULL,
			not_found INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS renames (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			scan_id TEXT NOT NULL REFERENCES scans(id) ON DELETE CASCADE,
			original_file TEXT NOT NULL,
			new_file TEXT NOT NULL,
			qr_content TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS misses (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			scan_id TEXT NOT NULL REFERENCES scans(id) ON DELETE CASCADE,
			file TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_renames_scan_id ON renames(scan_id)`,
		`CREATE INDEX IF NOT EXISTS idx_misses_scan_id ON misses(scan_id)`,
	}

	for _, stmt := range statements {
		if _, err := l.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// RecordScan stores result as one scan run started at startedAt and returns
// the new scan ID.
func (l *Ledger) RecordScan(ctx context.Context, result types.ScanResult, startedAt time.Time) (string, error) {
	id := uuid.NewString()

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO scans (id, folder, started_at, found, not_found) VALUES (?, ?, ?, ?, ?)`,
		id, result.Folder, startedAt.UTC().Format(timeLayout),
		len(result.FoundQRCodes), len(result.NoQRCodes),
	); err != nil {
		return "", fmt.Errorf("inserting scan: %w", err)
	}

	for _, hit := range result.FoundQRCodes {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO renames (scan_id, original_file, new_file, qr_content) VALUES (?, ?, ?, ?)`,
			id, hit.OriginalFile, hit.NewFile, hit.QRContent,
		); err != nil {
			return "", fmt.Errorf("inserting rename %s: %w", hit.OriginalFile, err)
		}
	}

	for _, name := range result.NoQRCodes {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO misses (scan_id, file) VALUES (?, ?)`, id, name,
		); err != nil {
			return "", fmt.Errorf("inserting miss %s: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing scan: %w", err)
	}
	return id, nil
}

// Scans returns the most recent scan runs, newest first. A non-positive
// limit uses the default of 20.
func (l *Ledger) Scans(ctx context.Context, limit int) ([]types.ScanRecord, error) {
	if limit <= 0 {
		limit = defaultLimit
	}

	rows, err := l.db.QueryContext(ctx,
		`SELECT id, folder, started_at, found, not_found FROM scans
		 ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying scans: %w", err)
	}
	defer rows.Close()

	var records []types.ScanRecord
	for rows.Next() {
		var rec types.ScanRecord
		var started string
		if err := rows.Scan(&rec.ID, &rec.Folder, &started, &rec.Found, &rec.NotFound); err != nil {
			return nil, fmt.Errorf("scanning scan row: %w", err)
		}
		if rec.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
			return nil, fmt.Errorf("parsing started_at %q: %w", started, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Result rebuilds the ScanResult recorded under id, preserving the order in
// which files were processed.
func (l *Ledger) Result(ctx context.Context, id string) (types.ScanResult, error) {
	result := types.ScanResult{
		FoundQRCodes: []types.QRHit{},
		NoQRCodes:    []string{},
	}

	err := l.db.QueryRowContext(ctx, `SELECT folder FROM scans WHERE id = ?`, id).Scan(&result.Folder)
	if errors.Is(err, sql.ErrNoRows) {
		return result, fmt.Errorf("%w: %s", ErrScanNotFound, id)
	}
	if err != nil {
		return result, fmt.Errorf("querying scan %s: %w", id, err)
	}

	hits, err := l.db.QueryContext(ctx,
		`SELECT original_file, new_file, qr_content FROM renames WHERE scan_id = ? ORDER BY rowid`, id)
	if err != nil {
		return result, fmt.Errorf("querying renames: %w", err)
	}
	defer hits.Close()
	for hits.Next() {
		var hit types.QRHit
		if err := hits.Scan(&hit.OriginalFile, &hit.NewFile, &hit.QRContent); err != nil {
			return result, fmt.Errorf("scanning rename row: %w", err)
		}
		result.FoundQRCodes = append(result.FoundQRCodes, hit)
	}
	if err := hits.Err(); err != nil {
		return result, err
	}

	misses, err := l.db.QueryContext(ctx,
		`SELECT file FROM misses WHERE scan_id = ? ORDER BY rowid`, id)
	if err != nil {
		return result, fmt.Errorf("querying misses: %w", err)
	}
	defer misses.Close()
	for misses.Next() {
		var name string
		if err := misses.Scan(&name); err != nil {
			return result, fmt.Errorf("scanning miss row: %w", err)
		}
		result.NoQRCodes = append(result.NoQRCodes, name)
	}
	return result, misses.Err()
}
