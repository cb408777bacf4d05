package images

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"
)

// Cache persists content hashes keyed by (path, mtime, size) so unchanged
// files are not re-read on subsequent builds.
type Cache struct {
	db *sql.DB
	mu sync.RWMutex
}

// OpenCache opens or creates the hash cache database.
// Use ":memory:" for an in-memory database, or a file path for persistence.
func OpenCache(dbPath string) (*Cache, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
			return nil, fmt.Errorf("create cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	cache := &Cache{db: db}
	if err := cache.initialize(); err != nil {
		_ = db.Close() // Best effort cleanup on initialization error
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return cache, nil
}

func (c *Cache) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS file_hashes (
		path TEXT NOT NULL,
		mtime INTEGER NOT NULL,
		size INTEGER NOT NULL,
		hash TEXT NOT NULL,
		PRIMARY KEY (path, mtime, size)
	);
	CREATE INDEX IF NOT EXISTS idx_file_hashes_path ON file_hashes(path);
	`
	_, err := c.db.Exec(schema)
	return err
}

// Lookup returns the cached hash for the given file identity.
func (c *Cache) Lookup(ctx context.Context, path string, mtime, size int64) (string, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var hash string
	err := c.db.QueryRowContext(ctx,
		"SELECT hash FROM file_hashes WHERE path = ? AND mtime = ? AND size = ?",
		path, mtime, size,
	).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("query hash: %w", err)
	}
	return hash, true, nil
}

// Store records the hash for a file identity, replacing any rows for
// earlier versions of the same path.
func (c *Cache) Store(ctx context.Context, path string, mtime, size int64, hash string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.db.ExecContext(ctx, "DELETE FROM file_hashes WHERE path = ?", path); err != nil {
		return fmt.Errorf("evict stale rows: %w", err)
	}
	if _, err := c.db.ExecContext(ctx,
		"INSERT INTO file_hashes (path, mtime, size, hash) VALUES (?, ?, ?, ?)",
		path, mtime, size, hash,
	); err != nil {
		return fmt.Errorf("insert hash: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (c *Cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.db.Close()
}
