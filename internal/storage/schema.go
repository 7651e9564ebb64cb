// Package storage persists extracted records in SQLite.
//
// One row in specs per specification path; its inputs, outputs and triggers
// are child rows ordered by position. Writing a record for a path replaces
// whatever was stored for it before.
package storage

import (
	"database/sql"
	"fmt"
	"time"
)

// SchemaVersion is written to store_metadata on creation.
const SchemaVersion = "1"

// CreateSchema creates all tables and indexes for the record store.
// Uses a transaction so that schema creation succeeds or fails as a whole.
func CreateSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin schema transaction: %w", err)
	}
	defer tx.Rollback() // Safe to call even after commit

	tables := []struct {
		name string
		ddl  string
	}{
		{"specs", createSpecsTable},
		{"inputs", createInputsTable},
		{"outputs", createOutputsTable},
		{"triggers", createTriggersTable},
		{"store_metadata", createStoreMetadataTable},
	}

	for _, table := range tables {
		if _, err := tx.Exec(table.ddl); err != nil {
			return fmt.Errorf("failed to create %s table: %w", table.name, err)
		}
	}

	for i, idx := range indexes {
		if _, err := tx.Exec(idx); err != nil {
			return fmt.Errorf("failed to create index %d: %w", i+1, err)
		}
	}

	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := tx.Exec(
		"INSERT INTO store_metadata (key, value, updated_at) VALUES ('schema_version', ?, ?)",
		SchemaVersion, now,
	); err != nil {
		return fmt.Errorf("failed to bootstrap store_metadata: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit schema transaction: %w", err)
	}

	return nil
}

// GetSchemaVersion retrieves the schema version from store_metadata.
// Returns "0" if the table doesn't exist (new database).
func GetSchemaVersion(db *sql.DB) (string, error) {
	var tableExists int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='store_metadata'").Scan(&tableExists)
	if err != nil {
		return "", fmt.Errorf("failed to check store_metadata existence: %w", err)
	}
	if tableExists == 0 {
		return "0", nil
	}

	var version string
	err = db.QueryRow("SELECT value FROM store_metadata WHERE key = 'schema_version'").Scan(&version)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("schema_version key not found in store_metadata")
	}
	if err != nil {
		return "", fmt.Errorf("failed to query schema version: %w", err)
	}
	return version, nil
}

const createSpecsTable = `
CREATE TABLE specs (
    spec_id TEXT PRIMARY KEY,                    -- UUID
    spec_path TEXT NOT NULL UNIQUE,              -- Path as given to the extractor
    status TEXT NOT NULL,                        -- none, load or parse
    error TEXT NOT NULL DEFAULT '',              -- Failure message, empty on success
    extracted_at TEXT NOT NULL                   -- ISO 8601
)
`

const createInputsTable = `
CREATE TABLE inputs (
    spec_id TEXT NOT NULL,
    position INTEGER NOT NULL,                   -- Declaration order
    name TEXT NOT NULL,
    type TEXT NOT NULL,
    PRIMARY KEY (spec_id, position),
    FOREIGN KEY (spec_id) REFERENCES specs(spec_id) ON DELETE CASCADE
)
`

const createOutputsTable = `
CREATE TABLE outputs (
    spec_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    variable TEXT NOT NULL,
    comparison TEXT NOT NULL,
    PRIMARY KEY (spec_id, position),
    FOREIGN KEY (spec_id) REFERENCES specs(spec_id) ON DELETE CASCADE
)
`

const createTriggersTable = `
CREATE TABLE triggers (
    spec_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    condition TEXT NOT NULL,
    message TEXT NOT NULL,
    PRIMARY KEY (spec_id, position),
    FOREIGN KEY (spec_id) REFERENCES specs(spec_id) ON DELETE CASCADE
)
`

const createStoreMetadataTable = `
CREATE TABLE store_metadata (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at TEXT NOT NULL
)
`

var indexes = []string{
	"CREATE INDEX idx_specs_status ON specs(status)",
	"CREATE INDEX idx_outputs_variable ON outputs(variable)",
}
