package extract

import "github.com/mvp-joe/lola-extract/internal/lola/ast"

const (
	// NoCondition is the condition text of a trigger without a guard.
	NoCondition = "No condition"
	// NoMessage is the message text of a trigger without a message expression.
	NoMessage = "No message"
)

// Project walks the declarations of spec in source order.
//
// Inputs are all kept. Outputs keep only the declarations admitted by
// IsComparisonOutput; the others are skipped without error. Triggers always
// yield one record each, with NoCondition / NoMessage substituted for missing
// parts.
//
// Only the first eval clause of an output or trigger is considered. Outputs
// with several eval clauses (conditional redefinitions) are summarized by
// their first clause alone.
func Project(spec *ast.Specification) ([]Input, []Output, []Trigger) {
	inputs := []Input{}
	outputs := []Output{}
	triggers := []Trigger{}
	if spec == nil {
		return inputs, outputs, triggers
	}

	for _, in := range spec.Inputs {
		inputs = append(inputs, projectInput(in))
	}

	for _, out := range spec.Outputs {
		if !IsComparisonOutput(out) {
			continue
		}
		outputs = append(outputs, Output{
			Variable:   out.Name,
			Comparison: renderBinary(out.Eval[0].Value.(*ast.Binary)),
		})
	}

	for _, out := range spec.Outputs {
		if out.Kind != ast.Trigger {
			continue
		}
		triggers = append(triggers, projectTrigger(out))
	}

	return inputs, outputs, triggers
}

// IsComparisonOutput reports whether out is extracted as an output record:
// a named output whose first eval clause has a value that is a binary
// expression at the top level. Parenthesized values do not qualify.
func IsComparisonOutput(out *ast.Output) bool {
	if out == nil || out.Kind != ast.NamedOutput || len(out.Eval) == 0 || out.Eval[0] == nil {
		return false
	}
	b, ok := out.Eval[0].Value.(*ast.Binary)
	return ok && b != nil
}

func projectInput(in *ast.Input) Input {
	typ := ""
	if in.Type != nil {
		typ = in.Type.String()
	}
	return Input{Name: in.Name, Type: typ}
}

func projectTrigger(out *ast.Output) Trigger {
	t := Trigger{Condition: NoCondition, Message: NoMessage}
	if len(out.Eval) == 0 || out.Eval[0] == nil {
		return t
	}

	first := out.Eval[0]
	if first.Guard != nil {
		t.Condition = Render(first.Guard)
	}
	if first.Value != nil {
		t.Message = Render(first.Value)
	}
	return t
}
