package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

const exportsTableSQL = `
CREATE TABLE IF NOT EXISTS exports (
	input_path     TEXT    NOT NULL,
	format         TEXT    NOT NULL,
	input_mod_time INTEGER NOT NULL,
	input_size     INTEGER NOT NULL,
	output         BLOB    NOT NULL,
	created_at     INTEGER NOT NULL,
	PRIMARY KEY (input_path, format)
)`

// CreateInMemoryDB creates an in-memory SQLite database with the exports table
func CreateInMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to create in-memory database: %v", err)
	}
	if _, err := db.Exec(exportsTableSQL); err != nil {
		db.Close()
		t.Fatalf("Failed to create exports table: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// CreateSQLiteFixture creates a cache database file at dir/exports.db holding
// one entry and returns its path
func CreateSQLiteFixture(t *testing.T, dir string) string {
	t.Helper()
	dbPath := filepath.Join(dir, "exports.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer func() { _ = db.Close() }()

	if _, err := db.Exec(exportsTableSQL); err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}
	InsertExport(t, db, "/scenes/fixture.yaml", "json", time.Unix(1700000000, 0), 42, []byte(`{"flags": 0}`))
	return dbPath
}

// InsertExport inserts a cached export row
func InsertExport(t *testing.T, db *sql.DB, inputPath, format string, modTime time.Time, size int64, output []byte) {
	t.Helper()
	insertSQL := `INSERT OR REPLACE INTO exports
		(input_path, format, input_mod_time, input_size, output, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	if _, err := db.Exec(insertSQL, inputPath, format, modTime.UnixNano(), size, output, time.Now().Unix()); err != nil {
		t.Fatalf("Failed to insert export: %v", err)
	}
}
