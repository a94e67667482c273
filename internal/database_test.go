package internal

import (
	"path/filepath"
	"testing"

	"github.com/iksnae/scene2json/testutil"
)

func TestOpenDatabase(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(t *testing.T) string
		writable bool
		wantErr  bool
	}{
		{
			name: "existing database read-only",
			setup: func(t *testing.T) string {
				return testutil.CreateSQLiteFixture(t, testutil.CreateTempDir(t))
			},
		},
		{
			name: "non-existent database read-only",
			setup: func(t *testing.T) string {
				return filepath.Join(testutil.CreateTempDir(t), "nonexistent.db")
			},
			wantErr: true,
		},
		{
			name: "non-existent database writable",
			setup: func(t *testing.T) string {
				return filepath.Join(testutil.CreateTempDir(t), "new.db")
			},
			writable: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dbPath := tt.setup(t)
			db, err := OpenDatabase(dbPath, tt.writable)
			if (err != nil) != tt.wantErr {
				t.Errorf("OpenDatabase() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}
			defer db.Close()
			if err := db.Ping(); err != nil {
				t.Errorf("Database ping failed: %v", err)
			}
		})
	}
}

func TestEnsureSchema(t *testing.T) {
	db := testutil.CreateInMemoryDB(t)

	// Existing table is left alone
	testutil.InsertExport(t, db, "/a.yaml", "json", timeZero, 1, []byte("{}"))
	if err := ensureSchema(db); err != nil {
		t.Fatalf("ensureSchema() error = %v", err)
	}
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM exports").Scan(&n); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if n != 1 {
		t.Errorf("rows = %d, want 1", n)
	}

	if err := dropSchema(db); err != nil {
		t.Fatalf("dropSchema() error = %v", err)
	}
	if err := db.QueryRow("SELECT COUNT(*) FROM exports").Scan(&n); err == nil {
		t.Error("exports table should be gone after dropSchema()")
	}
}
