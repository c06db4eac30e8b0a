// Package fetchcache provides a WAL-mode SQLite-backed cache of program
// bytes fetched from a Solana RPC endpoint, keyed by program id. Front-ends
// consult it before making an RPC round-trip and populate it after a
// successful fetch, so repeated analyses of the same program avoid refetching.
package fetchcache

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // register "sqlite" driver with database/sql
)

// Cache is a WAL-mode SQLite-backed program-bytes cache. Safe for concurrent
// use.
type Cache struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at path, enables WAL journal
// mode, and applies the schema. path may be ":memory:" for tests.
func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("fetchcache: open %q: %w", path, err)
	}

	// SQLite allows only one writer at a time; a single connection serialises
	// every Put through it and avoids "database is locked" errors.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA journal_mode = WAL`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("fetchcache: set WAL mode: %w", err)
	}
	if _, err := db.Exec(`PRAGMA synchronous = NORMAL`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("fetchcache: set synchronous = NORMAL: %w", err)
	}
	if _, err := db.Exec(ddl); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("fetchcache: apply schema: %w", err)
	}

	return &Cache{db: db}, nil
}

const ddl = `
CREATE TABLE IF NOT EXISTS program_bytes (
    program_id  TEXT PRIMARY KEY,
    data        BLOB NOT NULL,
    fetched_at  TEXT NOT NULL
);
`

// Get returns the cached bytes for programID, or ok=false if absent.
func (c *Cache) Get(ctx context.Context, programID string) (data []byte, ok bool, err error) {
	row := c.db.QueryRowContext(ctx,
		`SELECT data FROM program_bytes WHERE program_id = ?`, programID)
	if err := row.Scan(&data); err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("fetchcache: get %s: %w", programID, err)
	}
	return data, true, nil
}

// Put stores data under programID, overwriting any prior entry.
func (c *Cache) Put(ctx context.Context, programID string, data []byte) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO program_bytes (program_id, data, fetched_at) VALUES (?, ?, ?)
		 ON CONFLICT(program_id) DO UPDATE SET data = excluded.data, fetched_at = excluded.fetched_at`,
		programID, data, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("fetchcache: put %s: %w", programID, err)
	}
	return nil
}

// Close closes the underlying database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}
