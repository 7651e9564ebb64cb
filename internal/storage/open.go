package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// Open opens (creating if needed) the record store at path and ensures the schema exists.
func Open(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}

	if err := ensureSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sql.DB) error {
	version, err := GetSchemaVersion(db)
	if err != nil {
		return err
	}
	switch version {
	case "0":
		return CreateSchema(db)
	case SchemaVersion:
		return nil
	default:
		return fmt.Errorf("unsupported record store schema version %s", version)
	}
}
