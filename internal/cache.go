package internal

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// CacheVersion changes whenever the exported bytes for the same input could
// change. A cache written by another version is cleared on open.
const CacheVersion = "1.0"

// CacheMetadata stores metadata about the cache
type CacheMetadata struct {
	DatabasePath string    `yaml:"database_path"`
	CacheVersion string    `yaml:"cache_version"`
	CreatedAt    time.Time `yaml:"created_at"`
	UpdatedAt    time.Time `yaml:"updated_at"`
}

// CacheEntry describes one cached export
type CacheEntry struct {
	InputPath    string
	Format       string
	InputModTime time.Time
	InputSize    int64
	OutputSize   int64
	CreatedAt    time.Time
}

// ExportCache stores exported documents keyed by input path and format. An
// entry is served only while the input's modification time and size match.
type ExportCache struct {
	cacheDir string
	db       *sql.DB
}

// DefaultCacheDir returns ~/.scene2json-cache
func DefaultCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".scene2json-cache"
	}
	return filepath.Join(home, ".scene2json-cache")
}

// OpenCache opens or creates the cache in cacheDir
func OpenCache(cacheDir string) (*ExportCache, error) {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, &CacheError{Op: "open", Err: err}
	}

	c := &ExportCache{cacheDir: cacheDir}
	db, err := OpenDatabase(c.DatabasePath(), true)
	if err != nil {
		return nil, &CacheError{Op: "open", Err: err}
	}
	c.db = db

	meta, err := c.LoadMetadata()
	if err == nil && meta.CacheVersion != CacheVersion {
		LogInfo("Cache version changed (%s -> %s), clearing", meta.CacheVersion, CacheVersion)
		if err := dropSchema(db); err != nil {
			db.Close()
			return nil, &CacheError{Op: "open", Err: err}
		}
		meta = nil
	}
	if err := ensureSchema(db); err != nil {
		db.Close()
		return nil, &CacheError{Op: "open", Err: err}
	}

	if meta == nil {
		now := time.Now()
		meta = &CacheMetadata{
			DatabasePath: c.DatabasePath(),
			CacheVersion: CacheVersion,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := c.SaveMetadata(meta); err != nil {
			db.Close()
			return nil, &CacheError{Op: "open", Err: err}
		}
	}
	return c, nil
}

// Dir returns the cache directory
func (c *ExportCache) Dir() string {
	return c.cacheDir
}

// DatabasePath returns the path of the SQLite database
func (c *ExportCache) DatabasePath() string {
	return filepath.Join(c.cacheDir, "exports.db")
}

// MetadataPath returns the path of the YAML metadata file
func (c *ExportCache) MetadataPath() string {
	return filepath.Join(c.cacheDir, "cache.yaml")
}

// LoadMetadata loads the cache metadata
func (c *ExportCache) LoadMetadata() (*CacheMetadata, error) {
	data, err := os.ReadFile(c.MetadataPath())
	if err != nil {
		return nil, err
	}

	var meta CacheMetadata
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
	}
	return &meta, nil
}

// SaveMetadata saves the cache metadata
func (c *ExportCache) SaveMetadata(meta *CacheMetadata) error {
	data, err := yaml.Marshal(meta)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}
	return os.WriteFile(c.MetadataPath(), data, 0644)
}

func cacheKey(inputPath string) string {
	if abs, err := filepath.Abs(inputPath); err == nil {
		return abs
	}
	return inputPath
}

// Lookup returns the cached output for inputPath in format. Stale entries are
// removed and reported as a miss.
func (c *ExportCache) Lookup(inputPath, format string) ([]byte, bool, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, false, &CacheError{Op: "lookup", Err: err}
	}
	key := cacheKey(inputPath)

	var (
		modTime int64
		size    int64
		output  []byte
	)
	row := c.db.QueryRow(
		"SELECT input_mod_time, input_size, output FROM exports WHERE input_path = ? AND format = ?",
		key, format)
	if err := row.Scan(&modTime, &size, &output); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, &CacheError{Op: "lookup", Err: err}
	}

	if modTime != info.ModTime().UnixNano() || size != info.Size() {
		LogDebug("Cache entry for %s is stale", key)
		if _, err := c.db.Exec("DELETE FROM exports WHERE input_path = ? AND format = ?", key, format); err != nil {
			return nil, false, &CacheError{Op: "lookup", Err: err}
		}
		return nil, false, nil
	}
	return output, true, nil
}

// Store records output as the export of inputPath in format
func (c *ExportCache) Store(inputPath, format string, output []byte) error {
	info, err := os.Stat(inputPath)
	if err != nil {
		return &CacheError{Op: "store", Err: err}
	}

	_, err = c.db.Exec(`INSERT OR REPLACE INTO exports
		(input_path, format, input_mod_time, input_size, output, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		cacheKey(inputPath), format, info.ModTime().UnixNano(), info.Size(), output, time.Now().Unix())
	if err != nil {
		return &CacheError{Op: "store", Err: err}
	}

	if meta, err := c.LoadMetadata(); err == nil {
		meta.UpdatedAt = time.Now()
		if err := c.SaveMetadata(meta); err != nil {
			LogWarn("Failed to update cache metadata: %v", err)
		}
	}
	return nil
}

// Entries lists cached exports, most recent first
func (c *ExportCache) Entries() ([]CacheEntry, error) {
	rows, err := c.db.Query(`SELECT input_path, format, input_mod_time, input_size, length(output), created_at
		FROM exports ORDER BY created_at DESC, input_path, format`)
	if err != nil {
		return nil, &CacheError{Op: "list", Err: err}
	}
	defer rows.Close()

	var entries []CacheEntry
	for rows.Next() {
		var (
			e       CacheEntry
			modTime int64
			created int64
		)
		if err := rows.Scan(&e.InputPath, &e.Format, &modTime, &e.InputSize, &e.OutputSize, &created); err != nil {
			return nil, &CacheError{Op: "list", Err: err}
		}
		e.InputModTime = time.Unix(0, modTime)
		e.CreatedAt = time.Unix(created, 0)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, &CacheError{Op: "list", Err: err}
	}
	return entries, nil
}

// Clear removes every cached export and returns how many were removed
func (c *ExportCache) Clear() (int64, error) {
	res, err := c.db.Exec("DELETE FROM exports")
	if err != nil {
		return 0, &CacheError{Op: "clear", Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, &CacheError{Op: "clear", Err: err}
	}
	return n, nil
}

// Close closes the database
func (c *ExportCache) Close() error {
	return c.db.Close()
}
