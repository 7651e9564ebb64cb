package storage

import (
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/mvp-joe/lola-extract/internal/extract"
)

// SpecEntry is the stored outcome of extracting one specification.
type SpecEntry struct {
	ID          string
	Path        string
	Status      string // FailureKind string: none, load or parse
	Error       string
	ExtractedAt time.Time
}

// RecordReader reads extraction results from SQLite.
type RecordReader struct {
	db *sql.DB
}

// NewRecordReader creates a RecordReader.
func NewRecordReader(db *sql.DB) *RecordReader {
	return &RecordReader{db: db}
}

// GetSpec returns the entry for path, or (nil, nil) if nothing is stored.
func (r *RecordReader) GetSpec(path string) (*SpecEntry, error) {
	row := sq.Select("spec_id", "spec_path", "status", "error", "extracted_at").
		From("specs").
		Where(sq.Eq{"spec_path": path}).
		RunWith(r.db).
		QueryRow()

	entry, err := scanSpec(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get spec %s: %w", path, err)
	}
	return entry, nil
}

// ListSpecs returns every stored entry ordered by path.
func (r *RecordReader) ListSpecs() ([]*SpecEntry, error) {
	rows, err := sq.Select("spec_id", "spec_path", "status", "error", "extracted_at").
		From("specs").
		OrderBy("spec_path").
		RunWith(r.db).
		Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query specs: %w", err)
	}
	defer rows.Close()

	entries := []*SpecEntry{}
	for rows.Next() {
		entry, err := scanSpec(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan spec: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// ReadRecord rebuilds the record stored for path.
// Returns (nil, nil) if nothing is stored or the stored extraction failed.
func (r *RecordReader) ReadRecord(path string) (*extract.Record, error) {
	entry, err := r.GetSpec(path)
	if err != nil || entry == nil || entry.Status != extract.FailureNone.String() {
		return nil, err
	}

	rec := extract.Assemble(nil, nil, nil)

	err = r.each("inputs", []string{"name", "type"}, entry.ID, func(rows *sql.Rows) error {
		var in extract.Input
		if err := rows.Scan(&in.Name, &in.Type); err != nil {
			return err
		}
		rec.Inputs = append(rec.Inputs, in)
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = r.each("outputs", []string{"variable", "comparison"}, entry.ID, func(rows *sql.Rows) error {
		var out extract.Output
		if err := rows.Scan(&out.Variable, &out.Comparison); err != nil {
			return err
		}
		rec.Outputs = append(rec.Outputs, out)
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = r.each("triggers", []string{"condition", "message"}, entry.ID, func(rows *sql.Rows) error {
		var trig extract.Trigger
		if err := rows.Scan(&trig.Condition, &trig.Message); err != nil {
			return err
		}
		rec.Triggers = append(rec.Triggers, trig)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return rec, nil
}

// each runs fn for every child row of specID in position order.
func (r *RecordReader) each(table string, columns []string, specID string, fn func(*sql.Rows) error) error {
	rows, err := sq.Select(columns...).
		From(table).
		Where(sq.Eq{"spec_id": specID}).
		OrderBy("position").
		RunWith(r.db).
		Query()
	if err != nil {
		return fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		if err := fn(rows); err != nil {
			return fmt.Errorf("failed to scan %s: %w", table, err)
		}
	}
	return rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanSpec(s scanner) (*SpecEntry, error) {
	entry := &SpecEntry{}
	var extractedAt string
	if err := s.Scan(&entry.ID, &entry.Path, &entry.Status, &entry.Error, &extractedAt); err != nil {
		return nil, err
	}
	t, err := time.Parse(time.RFC3339, extractedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid extracted_at for %s: %w", entry.Path, err)
	}
	entry.ExtractedAt = t
	return entry, nil
}
