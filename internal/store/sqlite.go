package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite" // registers the "sqlite" database/sql driver
)

// Open opens (creating if necessary) the SQLite database file at path and
// verifies the connection. SQLite allows only one writer at a time, so the
// pool is capped at a single connection; this also makes ":memory:" databases
// behave (each new connection would otherwise get its own empty database).
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store.Open: open sqlite database: %w", err)
	}

	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store.Open: verify sqlite connection: %w", err)
	}
	return db, nil
}

// SQLiteKV is the SQLite implementation of KV. All entries live in a single
// two-column kv table created by the embedded goose migrations.
type SQLiteKV struct {
	db *sql.DB
}

// NewSQLiteKV constructs a SQLiteKV over an already-opened, migrated database.
func NewSQLiteKV(db *sql.DB) *SQLiteKV {
	return &SQLiteKV{db: db}
}

// compile-time check: SQLiteKV must satisfy KV.
var _ KV = (*SQLiteKV)(nil)

// Get returns the value stored under key, or ErrNoKey if absent.
func (s *SQLiteKV) Get(ctx context.Context, key string) ([]byte, error) {
	const q = `SELECT value FROM kv WHERE key = ?`

	var value []byte
	err := s.db.QueryRowContext(ctx, q, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoKey
		}
		return nil, fmt.Errorf("store.SQLiteKV.Get %q: %w", key, err)
	}
	return value, nil
}

// Put stores value under key, replacing any existing value.
func (s *SQLiteKV) Put(ctx context.Context, key string, value []byte) error {
	const q = `INSERT OR REPLACE INTO kv (key, value) VALUES (?, ?)`

	if _, err := s.db.ExecContext(ctx, q, key, value); err != nil {
		return fmt.Errorf("store.SQLiteKV.Put %q: %w", key, err)
	}
	return nil
}

// Delete removes the value stored under key. Absent keys are a no-op.
func (s *SQLiteKV) Delete(ctx context.Context, key string) error {
	const q = `DELETE FROM kv WHERE key = ?`

	if _, err := s.db.ExecContext(ctx, q, key); err != nil {
		return fmt.Errorf("store.SQLiteKV.Delete %q: %w", key, err)
	}
	return nil
}
