package extract

import (
	"testing"

	"github.com/mvp-joe/lola-extract/internal/lola/ast"
	"github.com/mvp-joe/lola-extract/internal/lola/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Project:
// - Inputs are all projected in declaration order with their written types
// - Named outputs with a top-level binary value become output records
// - Named outputs without that shape are silently omitted
// - Only the first eval clause of an output is considered
// - Parameterized and spawned outputs are never projected
// - Every trigger yields exactly one record; sentinels replace missing parts
// - A nil specification projects to empty lists

func mustParse(t *testing.T, src string) *ast.Specification {
	t.Helper()
	spec, err := parser.Parse([]byte(src))
	require.NoError(t, err)
	return spec
}

func TestProject_InputsInOrder(t *testing.T) {
	t.Parallel()

	spec := mustParse(t, `
input c: Float64
input a: Int64, b: Bool
input t: (Int64, Float32)
input o: UInt8?
`)
	inputs, _, _ := Project(spec)

	require.Len(t, inputs, len(spec.Inputs))
	assert.Equal(t, []Input{
		{Name: "c", Type: "Float64"},
		{Name: "a", Type: "Int64"},
		{Name: "b", Type: "Bool"},
		{Name: "t", Type: "(Int64, Float32)"},
		{Name: "o", Type: "UInt8?"},
	}, inputs)
}

func TestProject_OutputsFilteredByShape(t *testing.T) {
	t.Parallel()

	spec := mustParse(t, `
input x: Float64
output hot := x > 30
output sum := x + 1
output copy := x
output held := x.hold().defaults(to: 0.0)
output wrapped := (x > 1)
output cold: Bool := x <= -5
output lit := 3
`)
	_, outputs, triggers := Project(spec)

	assert.Empty(t, triggers)
	assert.Equal(t, []Output{
		{Variable: "hot", Comparison: "x > 30"},
		{Variable: "sum", Comparison: "x unknown 1"},
		{Variable: "cold", Comparison: "x <= -5"},
	}, outputs)
}

func TestProject_FirstEvalClauseOnly(t *testing.T) {
	t.Parallel()

	spec := mustParse(t, `
input x: Int64
output a eval when x > 0 with x eval when x <= 0 with x < 10
output b eval when x > 0 with x == 1 eval with x
`)
	_, outputs, _ := Project(spec)

	// a: first clause value is not binary, so the second clause never counts
	// b: first clause wins, the second is ignored
	assert.Equal(t, []Output{{Variable: "b", Comparison: "x == 1"}}, outputs)
}

func TestProject_OtherOutputsNeverProjected(t *testing.T) {
	t.Parallel()

	spec := mustParse(t, `
input x: Int64
output p(v: Int64) := v > x
output s spawn when x > 0 eval with x > 1
`)
	require.Len(t, spec.Outputs, 2)
	assert.Equal(t, ast.OtherOutput, spec.Outputs[0].Kind)
	assert.Equal(t, ast.OtherOutput, spec.Outputs[1].Kind)

	_, outputs, triggers := Project(spec)
	assert.Empty(t, outputs)
	assert.Empty(t, triggers)
}

func TestProject_TriggersAlwaysProjected(t *testing.T) {
	t.Parallel()

	spec := mustParse(t, `
input x: Float64
trigger x > 100 "overheat"
trigger x < 0
trigger eval with "only message"
trigger @1Hz x.hold() r"raw message"
output between := x != 50
trigger x == 50 "exact"
`)
	_, outputs, triggers := Project(spec)

	assert.Equal(t, []Output{{Variable: "between", Comparison: "x != 50"}}, outputs)
	assert.Equal(t, []Trigger{
		{Condition: "x > 100", Message: "overheat"},
		{Condition: "x < 0", Message: NoMessage},
		{Condition: NoCondition, Message: "only message"},
		{Condition: ComplexExpression, Message: "raw message"},
		{Condition: "x == 50", Message: "exact"},
	}, triggers)
}

func TestProject_TriggerWithoutEvalSpec(t *testing.T) {
	t.Parallel()

	spec := &ast.Specification{
		Outputs: []*ast.Output{{Kind: ast.Trigger}},
	}
	_, _, triggers := Project(spec)

	assert.Equal(t, []Trigger{{Condition: NoCondition, Message: NoMessage}}, triggers)
}

func TestProject_NilSpecification(t *testing.T) {
	t.Parallel()

	inputs, outputs, triggers := Project(nil)
	assert.NotNil(t, inputs)
	assert.NotNil(t, outputs)
	assert.NotNil(t, triggers)
	assert.Empty(t, inputs)
	assert.Empty(t, outputs)
	assert.Empty(t, triggers)
}

func TestIsComparisonOutput(t *testing.T) {
	t.Parallel()

	comparison := &ast.EvalSpec{Value: bin(ast.Gt, ident("a"), num("1"))}

	tests := []struct {
		name string
		out  *ast.Output
		want bool
	}{
		{"nil output", nil, false},
		{"named with binary", &ast.Output{Kind: ast.NamedOutput, Name: "o", Eval: []*ast.EvalSpec{comparison}}, true},
		{"named without eval", &ast.Output{Kind: ast.NamedOutput, Name: "o"}, false},
		{"named with nil eval spec", &ast.Output{Kind: ast.NamedOutput, Name: "o", Eval: []*ast.EvalSpec{nil}}, false},
		{"named without value", &ast.Output{Kind: ast.NamedOutput, Name: "o", Eval: []*ast.EvalSpec{{Guard: ident("g")}}}, false},
		{"named with identifier", &ast.Output{Kind: ast.NamedOutput, Name: "o", Eval: []*ast.EvalSpec{{Value: ident("a")}}}, false},
		{"trigger with binary", &ast.Output{Kind: ast.Trigger, Eval: []*ast.EvalSpec{comparison}}, false},
		{"other with binary", &ast.Output{Kind: ast.OtherOutput, Name: "o", Eval: []*ast.EvalSpec{comparison}}, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsComparisonOutput(tt.out))
		})
	}
}
