package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// DB provides SQLite-based storage for all skillhound state.
// It manages connection pooling and provides methods for CRUD operations
// on postings, skills, constraints, and the analysis matrix.
//
// Design decision: We use a single database file rather than one file per
// table. All tables are keyed directly or indirectly by posting id, so
// keeping them together makes joins (ranking reads) and backups trivial.
type DB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures DB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent
	// performance. Recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a DB at the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error
// is returned.
func Open(dbDir string, opts Options) (*DB, error) {
	dbPath := filepath.Join(dbDir, "skillhound.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string: mode=rw prevents creating
	// new files, mode=rwc allows creation.
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

	// SQLite only supports one writer. Funneling everything through a
	// single connection also makes the id-index test-and-set a true
	// atomic operation under concurrent crawls.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	sdb := &DB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := sdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return sdb, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// SQL exposes the underlying connection so the task queue can share the
// database file. The queue owns its own table and never touches ours.
func (d *DB) SQL() *sql.DB {
	return d.db
}

// createTables creates the database schema if it doesn't exist.
func (d *DB) createTables() error {
	schema := `
	-- Dedup index: every posting identifier ever seen on a search page.
	-- Insertion here is the atomic test-and-set guarding double-scheduling.
	CREATE TABLE IF NOT EXISTS posting_ids (
		posting_id TEXT PRIMARY KEY,
		discovered_at TEXT NOT NULL
	);

	-- Posting records. A row is created as a shell (id + link) at
	-- discovery time and filled in by the scorer. seq preserves
	-- insertion order for stable ranking ties.
	CREATE TABLE IF NOT EXISTS postings (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		posting_id TEXT NOT NULL UNIQUE,
		link TEXT NOT NULL,
		fields TEXT,
		scraped_at TEXT
	);

	-- The user's skill set. seq preserves insertion order.
	CREATE TABLE IF NOT EXISTS skills (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE COLLATE NOCASE,
		wanted INTEGER NOT NULL,
		last_searched TEXT
	);

	-- Singleton search constraint set; overwritten, never merged.
	CREATE TABLE IF NOT EXISTS constraints (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		params TEXT NOT NULL
	);

	-- Sparse jobs-by-skills matrix: one row per (posting, skill) pair.
	CREATE TABLE IF NOT EXISTS analysis (
		posting_id TEXT NOT NULL,
		skill TEXT NOT NULL COLLATE NOCASE,
		hits INTEGER NOT NULL,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (posting_id, skill)
	);

	CREATE INDEX IF NOT EXISTS idx_analysis_skill ON analysis(skill);
	`

	_, err := d.db.ExecContext(context.Background(), schema)
	return err
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// parseTimestamp attempts to parse a timestamp string using multiple
// formats. If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
