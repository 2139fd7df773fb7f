// Package sqlitekv is a file backed sessions.Backend: one small SQLite table
// playing the part of browser local storage.
package sqlitekv

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/greenpulse/pulse-client/sessions"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

var _ sessions.Backend = (*Backend)(nil)

const createKVTable = `
CREATE TABLE IF NOT EXISTS kv (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`

type Backend struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path. ":memory:" gives a
// private in-memory database.
func Open(path string) (*Backend, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("[sqlitekv.Open] create folder: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("[sqlitekv.Open] failed to open database: %w", err)
	}
	// A single connection serializes writers and keeps ":memory:" on one
	// database.
	db.SetMaxOpenConns(1)

	if path != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("[sqlitekv.Open] failed to enable WAL mode: %w", err)
		}
	}
	if _, err := db.Exec(createKVTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("[sqlitekv.Open] migration failed: %w", err)
	}
	return &Backend{db: db}, nil
}

func (b *Backend) Get(ctx context.Context, keys ...string) (map[string]string, error) {
	found := make(map[string]string, len(keys))
	if len(keys) == 0 {
		return found, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(keys)), ",")
	args := make([]any, len(keys))
	for i, k := range keys {
		args[i] = k
	}

	rows, err := b.db.QueryContext(ctx, "SELECT key, value FROM kv WHERE key IN ("+placeholders+")", args...)
	if err != nil {
		return nil, fmt.Errorf("[sqlitekv.Get] query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("[sqlitekv.Get] scan: %w", err)
		}
		found[k] = v
	}
	return found, rows.Err()
}

func (b *Backend) Apply(ctx context.Context, set map[string]string, del []string) error {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("[sqlitekv.Apply] begin: %w", err)
	}
	defer tx.Rollback()

	for _, k := range del {
		if _, err := tx.ExecContext(ctx, "DELETE FROM kv WHERE key = ?", k); err != nil {
			return fmt.Errorf("[sqlitekv.Apply] delete %s: %w", k, err)
		}
	}
	for k, v := range set {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO kv (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`, k, v); err != nil {
			return fmt.Errorf("[sqlitekv.Apply] upsert %s: %w", k, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("[sqlitekv.Apply] commit: %w", err)
	}
	return nil
}

func (b *Backend) Close() error {
	return b.db.Close()
}
