// Package testutil provides shared helpers for tests that need a real
// SQLite-backed store. The store lives in memory and is migrated before the
// helper returns, so tests never share state or leave files behind.
package testutil

import (
	"context"
	"database/sql"
	"testing"

	"github.com/pressly/goose/v3"

	"github.com/fleetflow/navigator/backend/internal/store"
	"github.com/fleetflow/navigator/backend/migrations"
)

// NewStoreDB opens an in-memory SQLite database with all migrations applied.
// The database is closed automatically when the test (and all its subtests)
// finish.
func NewStoreDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("testutil.NewStoreDB: open: %v", err)
	}

	provider, err := goose.NewProvider(goose.DialectSQLite3, db, migrations.FS)
	if err != nil {
		db.Close()
		t.Fatalf("testutil.NewStoreDB: create goose provider: %v", err)
	}
	if _, err := provider.Up(context.Background()); err != nil {
		db.Close()
		t.Fatalf("testutil.NewStoreDB: apply migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// NewKV returns a migrated in-memory key-value store, closed with the test.
func NewKV(t *testing.T) *store.SQLiteKV {
	t.Helper()
	return store.NewSQLiteKV(NewStoreDB(t))
}
