package hashcache

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite3 driver

	"image-sorter/internal/logging"
	"image-sorter/internal/metrics"
)

// cacheFileName is the well-known store file inside the cache directory.
const cacheFileName = "hashes.db"

type entry struct {
	modTime int64 // mtime in nanoseconds since the Unix epoch
	hash    string
}

// Cache is a persistent memoized mapping from (path, modification time)
// to a base64-encoded perceptual hash. The whole table is loaded on
// Open, mutated in memory during a detection run, and flushed back by
// Persist.
//
// Lookup and Insert are safe for concurrent use from any number of
// workers. The lock covers the table only and is held per operation,
// never across hashing work.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	db      *sql.DB
}

// Open loads the hash store from cacheDir. A missing or corrupt store
// is treated as a cold cache, never as an error: the corrupt file is
// removed and recreated once, and if the store remains unusable the
// cache degrades to memory-only (Persist will then report the failure).
func Open(cacheDir string) *Cache {
	c := &Cache{entries: make(map[string]entry)}

	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		logging.Warn("hashcache: cannot create cache dir %s: %v, running without persistence", cacheDir, err)
		return c
	}

	dbPath := filepath.Join(cacheDir, cacheFileName)

	db, err := openStore(dbPath)
	if err != nil {
		logging.Warn("hashcache: cannot open store %s: %v, recreating", dbPath, err)
		if removeErr := os.Remove(dbPath); removeErr != nil && !os.IsNotExist(removeErr) {
			logging.Warn("hashcache: cannot remove store: %v, running without persistence", removeErr)
			return c
		}
		if db, err = openStore(dbPath); err != nil {
			logging.Warn("hashcache: store unusable: %v, running without persistence", err)
			return c
		}
	}
	c.db = db

	if err := c.load(); err != nil {
		// A load failure after a successful schema init means the table
		// content is unreadable. Start cold; Persist overwrites it.
		logging.Warn("hashcache: cannot load entries: %v, starting cold", err)
		c.entries = make(map[string]entry)
	}

	logging.Debug("hashcache: loaded %d entries from %s", len(c.entries), dbPath)
	metrics.CacheEntries.Set(float64(len(c.entries)))
	return c
}

// openStore opens the sqlite file and ensures the schema exists.
func openStore(dbPath string) (*sql.DB, error) {
	connStr := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000", dbPath)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS image_hashes (
		path     TEXT PRIMARY KEY,
		mod_time INTEGER NOT NULL,
		hash     TEXT NOT NULL
	);`

	if _, err := db.Exec(schema); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("hashcache: failed to close store after init failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return db, nil
}

func (c *Cache) load() error {
	rows, err := c.db.Query(`SELECT path, mod_time, hash FROM image_hashes`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var path, hash string
		var modTime int64
		if err := rows.Scan(&path, &modTime, &hash); err != nil {
			return err
		}
		c.entries[path] = entry{modTime: modTime, hash: hash}
	}
	return rows.Err()
}

// Lookup returns the cached hash for path only if the stored
// modification time matches exactly. Any mismatch is a miss.
func (c *Cache) Lookup(path string, modTime time.Time) (string, bool) {
	c.mu.RLock()
	e, ok := c.entries[path]
	c.mu.RUnlock()

	if !ok || e.modTime != modTime.UnixNano() {
		metrics.CacheMissesTotal.Inc()
		return "", false
	}
	metrics.CacheHitsTotal.Inc()
	return e.hash, true
}

// Insert records the hash for path, overwriting any prior entry
// unconditionally.
func (c *Cache) Insert(path string, modTime time.Time, hash string) {
	c.mu.Lock()
	c.entries[path] = entry{modTime: modTime.UnixNano(), hash: hash}
	c.mu.Unlock()
}

// Len returns the number of entries currently in the table.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Persist flushes the full table back to the store in one transaction.
// A failure is returned for the caller to log; the in-memory table is
// left untouched either way.
func (c *Cache) Persist() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.db == nil {
		metrics.CachePersistTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("hash store is not available")
	}

	tx, err := c.db.Begin()
	if err != nil {
		metrics.CachePersistTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM image_hashes`); err != nil {
		_ = tx.Rollback()
		metrics.CachePersistTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("failed to clear store: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO image_hashes (path, mod_time, hash) VALUES (?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		metrics.CachePersistTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for path, e := range c.entries {
		if _, err := stmt.Exec(path, e.modTime, e.hash); err != nil {
			_ = tx.Rollback()
			metrics.CachePersistTotal.WithLabelValues("error").Inc()
			return fmt.Errorf("failed to write entry for %s: %w", path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		metrics.CachePersistTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("failed to commit: %w", err)
	}

	metrics.CachePersistTotal.WithLabelValues("success").Inc()
	metrics.CacheEntries.Set(float64(len(c.entries)))
	logging.Debug("hashcache: persisted %d entries", len(c.entries))
	return nil
}

// Close releases the underlying store. The in-memory table remains
// readable.
func (c *Cache) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}
