package storage

import (
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/mvp-joe/lola-extract/internal/extract"
)

// RecordWriter writes extraction results to SQLite.
type RecordWriter struct {
	db  *sql.DB
	now func() time.Time
}

// NewRecordWriter creates a RecordWriter.
// DB must have schema already created via CreateSchema() or Open().
func NewRecordWriter(db *sql.DB) *RecordWriter {
	return &RecordWriter{db: db, now: time.Now}
}

// WriteRecord stores a successful extraction, replacing any previous entry for path.
// Returns the new spec id.
func (w *RecordWriter) WriteRecord(path string, rec *extract.Record) (string, error) {
	return w.write(path, extract.FailureNone, "", rec)
}

// WriteFailure stores a failed extraction for path, dropping any earlier record.
func (w *RecordWriter) WriteFailure(path string, err error) (string, error) {
	if err == nil {
		return "", fmt.Errorf("no failure given for %s", path)
	}
	return w.write(path, extract.KindOf(err), err.Error(), nil)
}

func (w *RecordWriter) write(path string, kind extract.FailureKind, message string, rec *extract.Record) (string, error) {
	tx, err := w.db.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // Safe to call even after commit

	if err := deleteSpec(tx, path); err != nil {
		return "", err
	}

	specID := uuid.New().String()
	_, err = sq.Insert("specs").
		Columns("spec_id", "spec_path", "status", "error", "extracted_at").
		Values(specID, path, kind.String(), message, w.now().UTC().Format(time.RFC3339)).
		RunWith(tx).
		Exec()
	if err != nil {
		return "", fmt.Errorf("failed to write spec %s: %w", path, err)
	}

	if rec != nil {
		if err := writeChildren(tx, specID, rec); err != nil {
			return "", fmt.Errorf("failed to write record for %s: %w", path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit record for %s: %w", path, err)
	}

	return specID, nil
}

func writeChildren(tx *sql.Tx, specID string, rec *extract.Record) error {
	if len(rec.Inputs) > 0 {
		q := sq.Insert("inputs").Columns("spec_id", "position", "name", "type")
		for i, in := range rec.Inputs {
			q = q.Values(specID, i, in.Name, in.Type)
		}
		if _, err := q.RunWith(tx).Exec(); err != nil {
			return fmt.Errorf("inputs: %w", err)
		}
	}

	if len(rec.Outputs) > 0 {
		q := sq.Insert("outputs").Columns("spec_id", "position", "variable", "comparison")
		for i, out := range rec.Outputs {
			q = q.Values(specID, i, out.Variable, out.Comparison)
		}
		if _, err := q.RunWith(tx).Exec(); err != nil {
			return fmt.Errorf("outputs: %w", err)
		}
	}

	if len(rec.Triggers) > 0 {
		q := sq.Insert("triggers").Columns("spec_id", "position", "condition", "message")
		for i, trig := range rec.Triggers {
			q = q.Values(specID, i, trig.Condition, trig.Message)
		}
		if _, err := q.RunWith(tx).Exec(); err != nil {
			return fmt.Errorf("triggers: %w", err)
		}
	}

	return nil
}

// DeleteRecord removes everything stored for path. Unknown paths are not an error.
func (w *RecordWriter) DeleteRecord(path string) error {
	tx, err := w.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := deleteSpec(tx, path); err != nil {
		return err
	}
	return tx.Commit()
}

// deleteSpec removes a spec row and its children.
// Children are deleted explicitly so that the result does not depend on the
// connection's foreign_keys setting.
func deleteSpec(tx *sql.Tx, path string) error {
	var specID string
	err := sq.Select("spec_id").
		From("specs").
		Where(sq.Eq{"spec_path": path}).
		RunWith(tx).
		QueryRow().
		Scan(&specID)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to look up spec %s: %w", path, err)
	}

	for _, table := range []string{"inputs", "outputs", "triggers", "specs"} {
		if _, err := sq.Delete(table).Where(sq.Eq{"spec_id": specID}).RunWith(tx).Exec(); err != nil {
			return fmt.Errorf("failed to delete %s for %s: %w", table, path, err)
		}
	}
	return nil
}
