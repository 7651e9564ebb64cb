package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/lola-extract/internal/extract"
)

// Test Plan for the C boundary helper:
// - A valid specification yields the same JSON as Extract and FailureNone
// - Missing, empty and directory paths yield FailureLoad and no text
// - Invalid source yields FailureParse and no text
// - Failure kinds keep the numeric values the C header documents

func TestExtractForFFI(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	valid := filepath.Join(dir, "ok.lola")
	require.NoError(t, os.WriteFile(valid, []byte("input a: Int64\ntrigger a > 3 \"big\"\n"), 0644))
	invalid := filepath.Join(dir, "bad.lola")
	require.NoError(t, os.WriteFile(invalid, []byte("input a Int64"), 0644))

	e := extract.New(extract.Quiet())

	out, kind := extractForFFI(e, valid)
	assert.Equal(t, extract.FailureNone, kind)
	expected, err := e.Extract(valid)
	require.NoError(t, err)
	assert.Equal(t, expected, out)

	tests := []struct {
		name string
		path string
		kind extract.FailureKind
	}{
		{"missing", filepath.Join(dir, "missing.lola"), extract.FailureLoad},
		{"empty path", "", extract.FailureLoad},
		{"directory", dir, extract.FailureLoad},
		{"invalid", invalid, extract.FailureParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, kind := extractForFFI(e, tt.path)
			assert.Equal(t, tt.kind, kind)
			assert.Empty(t, out)
		})
	}
}

func TestFailureKindValues(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, int(extract.FailureNone))
	assert.Equal(t, 1, int(extract.FailureLoad))
	assert.Equal(t, 2, int(extract.FailureParse))
}
