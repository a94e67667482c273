package internal

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const exportsSchema = `
CREATE TABLE IF NOT EXISTS exports (
	input_path     TEXT    NOT NULL,
	format         TEXT    NOT NULL,
	input_mod_time INTEGER NOT NULL,
	input_size     INTEGER NOT NULL,
	output         BLOB    NOT NULL,
	created_at     INTEGER NOT NULL,
	PRIMARY KEY (input_path, format)
)`

// OpenDatabase opens a SQLite database, read-only unless writable is set.
// Writable databases are created if missing.
func OpenDatabase(path string, writable bool) (*sql.DB, error) {
	dsn := path + "?mode=ro"
	if writable {
		dsn = path + "?mode=rwc"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	return db, nil
}

// ensureSchema creates the exports table if it does not exist
func ensureSchema(db *sql.DB) error {
	if _, err := db.Exec(exportsSchema); err != nil {
		return fmt.Errorf("create schema failed: %w", err)
	}
	return nil
}

// dropSchema removes the exports table
func dropSchema(db *sql.DB) error {
	if _, err := db.Exec("DROP TABLE IF EXISTS exports"); err != nil {
		return fmt.Errorf("drop schema failed: %w", err)
	}
	return nil
}
