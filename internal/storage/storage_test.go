package storage

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/lola-extract/internal/extract"
)

// Test Plan for record store:
// - CreateSchema writes the schema version; GetSchemaVersion reports "0" on an empty DB
// - WriteRecord/ReadRecord round trip keeps every list in order
// - Writing the same path again replaces the previous record
// - Empty lists read back as empty, not nil
// - WriteFailure stores status and message, ReadRecord returns nil for it
// - DeleteRecord removes the spec and its children; unknown paths are fine
// - ListSpecs orders by path
// - A corrupt extracted_at timestamp is reported as an error, not a zero time
// - Open creates the schema once and reopens an existing store

func sampleRecord() *extract.Record {
	return extract.Assemble(
		[]extract.Input{{Name: "temperature", Type: "Float64"}, {Name: "pos", Type: "(Float64, Float64)"}},
		[]extract.Output{{Variable: "too_hot", Comparison: "temperature > 100.0"}},
		[]extract.Trigger{{Condition: "too_hot", Message: "overheat"}, {Condition: "x", Message: "No message"}},
	)
}

func countRows(t *testing.T, w *RecordWriter, table string) int {
	t.Helper()
	var n int
	require.NoError(t, w.db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

func TestSchema_Version(t *testing.T) {
	t.Parallel()

	db := NewTestDB(t)
	version, err := GetSchemaVersion(db)
	require.NoError(t, err)
	assert.Equal(t, SchemaVersion, version)
}

func TestSchema_EmptyDatabase(t *testing.T) {
	t.Parallel()

	db := NewTestDBMinimal(t)
	version, err := GetSchemaVersion(db)
	require.NoError(t, err)
	assert.Equal(t, "0", version)

	require.NoError(t, CreateSchema(db))
	version, err = GetSchemaVersion(db)
	require.NoError(t, err)
	assert.Equal(t, SchemaVersion, version)
}

func TestRecordStore_RoundTrip(t *testing.T) {
	t.Parallel()

	db := NewTestDB(t)
	w := NewRecordWriter(db)
	r := NewRecordReader(db)

	id, err := w.WriteRecord("specs/a.lola", sampleRecord())
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	rec, err := r.ReadRecord("specs/a.lola")
	require.NoError(t, err)
	assert.Equal(t, sampleRecord(), rec)

	entry, err := r.GetSpec("specs/a.lola")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, id, entry.ID)
	assert.Equal(t, "none", entry.Status)
	assert.Empty(t, entry.Error)
	assert.False(t, entry.ExtractedAt.IsZero())
}

func TestRecordStore_ReplacesPreviousRecord(t *testing.T) {
	t.Parallel()

	db := NewTestDB(t)
	w := NewRecordWriter(db)
	r := NewRecordReader(db)

	firstID, err := w.WriteRecord("a.lola", sampleRecord())
	require.NoError(t, err)

	replacement := extract.Assemble([]extract.Input{{Name: "b", Type: "Bool"}}, nil, nil)
	secondID, err := w.WriteRecord("a.lola", replacement)
	require.NoError(t, err)
	assert.NotEqual(t, firstID, secondID)

	rec, err := r.ReadRecord("a.lola")
	require.NoError(t, err)
	assert.Equal(t, replacement, rec)

	// Old children are gone
	assert.Equal(t, 1, countRows(t, w, "inputs"))
	assert.Equal(t, 0, countRows(t, w, "outputs"))
	assert.Equal(t, 0, countRows(t, w, "triggers"))
}

func TestRecordStore_EmptyRecord(t *testing.T) {
	t.Parallel()

	db := NewTestDB(t)
	w := NewRecordWriter(db)

	_, err := w.WriteRecord("empty.lola", extract.Assemble(nil, nil, nil))
	require.NoError(t, err)

	rec, err := NewRecordReader(db).ReadRecord("empty.lola")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.NotNil(t, rec.Inputs)
	assert.Empty(t, rec.Inputs)
	assert.NotNil(t, rec.Outputs)
	assert.NotNil(t, rec.Triggers)
}

func TestRecordStore_WriteFailure(t *testing.T) {
	t.Parallel()

	db := NewTestDB(t)
	w := NewRecordWriter(db)
	r := NewRecordReader(db)

	_, err := w.WriteRecord("bad.lola", sampleRecord())
	require.NoError(t, err)

	cause := &extract.Failure{Kind: extract.FailureParse, Path: "bad.lola", Err: errors.New("1:1: unexpected token")}
	_, err = w.WriteFailure("bad.lola", cause)
	require.NoError(t, err)

	entry, err := r.GetSpec("bad.lola")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "parse", entry.Status)
	assert.Contains(t, entry.Error, "unexpected token")

	rec, err := r.ReadRecord("bad.lola")
	require.NoError(t, err)
	assert.Nil(t, rec)
	assert.Equal(t, 0, countRows(t, w, "inputs"))

	_, err = w.WriteFailure("bad.lola", nil)
	assert.Error(t, err)
}

func TestRecordStore_DeleteRecord(t *testing.T) {
	t.Parallel()

	db := NewTestDB(t)
	w := NewRecordWriter(db)
	r := NewRecordReader(db)

	_, err := w.WriteRecord("a.lola", sampleRecord())
	require.NoError(t, err)

	require.NoError(t, w.DeleteRecord("a.lola"))
	require.NoError(t, w.DeleteRecord("never-stored.lola"))

	entry, err := r.GetSpec("a.lola")
	require.NoError(t, err)
	assert.Nil(t, entry)

	for _, table := range []string{"specs", "inputs", "outputs", "triggers"} {
		assert.Equal(t, 0, countRows(t, w, table), table)
	}
}

func TestRecordStore_ListSpecs(t *testing.T) {
	t.Parallel()

	db := NewTestDB(t)
	w := NewRecordWriter(db)
	w.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }

	for _, path := range []string{"c.lola", "a.lola", "b.lola"} {
		_, err := w.WriteRecord(path, sampleRecord())
		require.NoError(t, err)
	}

	entries, err := NewRecordReader(db).ListSpecs()
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "a.lola", entries[0].Path)
	assert.Equal(t, "b.lola", entries[1].Path)
	assert.Equal(t, "c.lola", entries[2].Path)
	assert.Equal(t, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), entries[0].ExtractedAt)
}

func TestRecordStore_CorruptTimestamp(t *testing.T) {
	t.Parallel()

	db := NewTestDB(t)
	_, err := db.Exec(`INSERT INTO specs (spec_id, spec_path, status, error, extracted_at)
		VALUES ('id-1', 'bad.lola', 'none', '', 'yesterday')`)
	require.NoError(t, err)

	reader := NewRecordReader(db)

	entry, err := reader.GetSpec("bad.lola")
	require.Error(t, err)
	assert.Nil(t, entry)
	var parseErr *time.ParseError
	assert.True(t, errors.As(err, &parseErr))

	entries, err := reader.ListSpecs()
	require.Error(t, err)
	assert.Nil(t, entries)
	assert.Contains(t, err.Error(), "extracted_at")
}

func TestOpen_ReopensExistingStore(t *testing.T) {
	t.Parallel()

	db, path := NewTestDBFile(t)
	_, err := NewRecordWriter(db).WriteRecord("a.lola", sampleRecord())
	require.NoError(t, err)
	require.NoError(t, db.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	rec, err := NewRecordReader(reopened).ReadRecord("a.lola")
	require.NoError(t, err)
	assert.Equal(t, sampleRecord(), rec)
}
