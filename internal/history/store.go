package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/instanttext/instanttext/internal/config"
	"github.com/instanttext/instanttext/internal/model"
)

// Store provides SQLite-based storage for recognition results.
// It manages connection pooling and exposes append and query operations.
//
// Design decision: We use a single database file for the whole history
// rather than one file per day or per session. The history is small
// (one row per capture) and a single file keeps queries, export, and
// backup trivial.
type Store struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures Store behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a history Store under the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*Store, error) {
	dbPath := filepath.Join(dbDir, config.HistoryDBName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrHistoryNotFound, dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string: mode=rw prevents creating new
	// files, mode=rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer; a single connection also keeps
	// appends from the hotkey path strictly ordered.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	s := &Store{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := s.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the path of the backing database file.
func (s *Store) Path() string {
	return s.dbPath
}

// createTables creates the database schema if it doesn't exist.
func (s *Store) createTables() error {
	schema := `
	-- Results store one row per successful capture-and-recognize run.
	-- The implicit rowid is the tiebreaker for equal timestamps; the
	-- table is append-only so rowids stay monotonic.
	CREATE TABLE IF NOT EXISTS results (
		id TEXT PRIMARY KEY,
		text TEXT NOT NULL,
		timestamp TEXT NOT NULL,
		screenshot_path TEXT,
		image_hash TEXT,
		confidence REAL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_results_timestamp ON results(timestamp);
	`

	_, err := s.db.ExecContext(context.Background(), schema)
	return err
}

// Append stores a new result. The history is append-only: existing rows
// are never modified, and two captures of identical screen content both
// get their own row.
func (s *Store) Append(ctx context.Context, result *model.Result) error {
	query := `
	INSERT INTO results (id, text, timestamp, screenshot_path, image_hash, confidence)
	VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		result.ID,
		result.Text,
		result.Timestamp.UTC().Format(time.RFC3339Nano),
		result.ScreenshotPath,
		result.ImageHash,
		result.Confidence,
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrHistoryWriteFailed, err)
	}

	return nil
}

// List returns results ordered most recent first. Results with equal
// timestamps keep insertion order, newest first. A limit of 0 or less
// returns all results.
func (s *Store) List(ctx context.Context, limit int) ([]*model.Result, error) {
	query := `
	SELECT id, text, timestamp, screenshot_path, image_hash, confidence
	FROM results
	ORDER BY timestamp DESC, rowid DESC
	`
	args := make([]any, 0, 1)

	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var results []*model.Result
	for rows.Next() {
		result, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}

	return results, rows.Err()
}

// Latest returns the most recent result, or nil when the history is empty.
func (s *Store) Latest(ctx context.Context) (*model.Result, error) {
	results, err := s.List(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

// Count returns the number of stored results.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM results`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count history: %w", err)
	}
	return count, nil
}

// scanResult reads one result row.
func scanResult(rows *sql.Rows) (*model.Result, error) {
	var result model.Result
	var timestamp string
	var screenshotPath, imageHash sql.NullString

	err := rows.Scan(
		&result.ID,
		&result.Text,
		&timestamp,
		&screenshotPath,
		&imageHash,
		&result.Confidence,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan result: %w", err)
	}

	result.Timestamp = parseTimestamp(timestamp)
	result.ScreenshotPath = screenshotPath.String
	result.ImageHash = imageHash.String

	return &result, nil
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	time.RFC3339Nano,          // storage format used by Append
	time.RFC3339,              // RFC3339 without fractional seconds
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on configuration.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
