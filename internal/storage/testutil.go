package storage

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

// NewTestDB creates a fully configured in-memory record store for testing.
//
// The database includes:
//   - Foreign key constraints enabled
//   - Full schema created (specs, inputs, outputs, triggers, store_metadata)
//   - A single pooled connection, so every query sees the same ":memory:" database
//   - Automatic cleanup registered with t.Cleanup()
//
// This is the standard test database helper.
//
// Example:
//
//	func TestSomething(t *testing.T) {
//	    db := storage.NewTestDB(t)
//	    w := storage.NewRecordWriter(db)
//	    // ... test code ...
//	    // No need to close - t.Cleanup() handles it
//	}
func NewTestDB(t testing.TB) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// Each new connection to ":memory:" would open its own empty database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	// Enable foreign key constraints (required for cascade deletes)
	_, err = db.Exec("PRAGMA foreign_keys = ON")
	require.NoError(t, err)

	// Create full schema
	err = CreateSchema(db)
	require.NoError(t, err)

	return db
}

// NewTestDBFile opens a file-backed record store in t.TempDir() through Open.
//
// Use this when you need to test:
//   - Records persisting across connections
//   - Reopening an existing store (schema version check)
//
// Returns the database and its path so tests can reopen it.
//
// Example:
//
//	func TestPersistence(t *testing.T) {
//	    db, path := storage.NewTestDBFile(t)
//	    // Write data
//	    db.Close()
//	    reopened, err := storage.Open(path)
//	    // Verify data persisted
//	}
func NewTestDBFile(t testing.TB) (*sql.DB, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "records.db")
	db, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db, path
}

// NewTestDBMinimal creates an in-memory SQLite database without schema.
//
// Use this when you need to test schema creation itself.
// You must create the schema yourself after getting the database.
//
// Example:
//
//	func TestSchemaCreation(t *testing.T) {
//	    db := storage.NewTestDBMinimal(t)
//	    err := storage.CreateSchema(db)
//	    require.NoError(t, err)
//	}
func NewTestDBMinimal(t testing.TB) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	// Enable foreign key constraints
	_, err = db.Exec("PRAGMA foreign_keys = ON")
	require.NoError(t, err)

	// Do NOT create schema - caller is responsible

	return db
}
