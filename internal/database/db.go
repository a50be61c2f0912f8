// Package database keeps a SQLite mirror of the CSV measurement log for
// aggregate queries. The CSV file stays the source of truth: the index is
// only ever filled from it and never written back.
package database

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps sql.DB with additional methods
type DB struct {
	*sql.DB
}

// New creates a new database connection
func New(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("database open failed: %w", err)
	}

	// Enable WAL mode for better concurrent access
	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA synchronous=NORMAL")

	return &DB{db}, nil
}

// InitSchema creates all necessary tables
func (db *DB) InitSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS measurements (
        seq INTEGER PRIMARY KEY, -- row position in the CSV log, 0-based
        timestamp TEXT NOT NULL, -- local time, YYYY-MM-DD HH:MM:SS
        ping_ms REAL NOT NULL,
        download_mbps REAL NOT NULL,
        upload_mbps REAL NOT NULL,
        server_name TEXT NOT NULL,
        server_location TEXT NOT NULL,
        status TEXT NOT NULL
    );

    CREATE INDEX IF NOT EXISTS idx_measurements_timestamp ON measurements(timestamp);
    CREATE INDEX IF NOT EXISTS idx_measurements_status ON measurements(status);
    `

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("schema creation failed: %w", err)
	}

	return nil
}
