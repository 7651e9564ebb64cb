package extract

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Assemble / Marshal:
// - Empty record serializes every key as an empty array
// - Keys appear in the order inputs, outputs, triggers
// - Item fields appear as name/type_, variable/comparison, condition/message
// - Output is indented, multi-line JSON
// - Operators and '&' appear verbatim, not as \u escapes; no trailing newline

func compact(t *testing.T, data []byte) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.Compact(&buf, data))
	return buf.String()
}

func TestAssemble_EmptyListsSerializeAsArrays(t *testing.T) {
	t.Parallel()

	data, err := Assemble(nil, nil, nil).Marshal()
	require.NoError(t, err)

	assert.Equal(t, `{"inputs":[],"outputs":[],"triggers":[]}`, compact(t, data))
}

func TestRecord_MarshalNilFields(t *testing.T) {
	t.Parallel()

	data, err := (&Record{}).Marshal()
	require.NoError(t, err)

	assert.Equal(t, `{"inputs":[],"outputs":[],"triggers":[]}`, compact(t, data))
}

func TestRecord_MarshalKeyOrder(t *testing.T) {
	t.Parallel()

	rec := Assemble(
		[]Input{{Name: "temperature", Type: "Float64"}},
		[]Output{{Variable: "hot", Comparison: "temperature > 30"}},
		[]Trigger{{Condition: "temperature > 100", Message: "overheat"}},
	)
	data, err := rec.Marshal()
	require.NoError(t, err)

	want := `{"inputs":[{"name":"temperature","type_":"Float64"}],` +
		`"outputs":[{"variable":"hot","comparison":"temperature > 30"}],` +
		`"triggers":[{"condition":"temperature > 100","message":"overheat"}]}`
	assert.Equal(t, want, compact(t, data))
}

func TestRecord_MarshalIsIndented(t *testing.T) {
	t.Parallel()

	data, err := Assemble([]Input{{Name: "a", Type: "Int64"}}, nil, nil).Marshal()
	require.NoError(t, err)

	text := string(data)
	assert.True(t, strings.HasPrefix(text, "{\n  \"inputs\": ["), "got %q", text)
	assert.Contains(t, text, "\n      \"name\": \"a\",\n")
	assert.Contains(t, text, "\"outputs\": []")
}

func TestRecord_MarshalKeepsOperatorsReadable(t *testing.T) {
	t.Parallel()

	rec := Assemble(
		nil,
		[]Output{
			{Variable: "hot", Comparison: "t > 30"},
			{Variable: "cold", Comparison: "t <= 1"},
		},
		[]Trigger{{Condition: "t > 100", Message: "a & b"}},
	)
	data, err := rec.Marshal()
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, `"comparison": "t > 30"`)
	assert.Contains(t, text, `"comparison": "t <= 1"`)
	assert.Contains(t, text, `"condition": "t > 100"`)
	assert.Contains(t, text, `"message": "a & b"`)
	assert.NotContains(t, text, `\u00`)
	assert.False(t, strings.HasSuffix(text, "\n"), "got %q", text)
}
