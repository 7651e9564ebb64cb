// Package ast defines the syntax tree of an RTLola specification.
package ast

import "strings"

// Specification is a parsed RTLola specification.
// Every slice keeps declaration order as written in the source.
type Specification struct {
	Imports   []string
	Constants []*Constant
	Inputs    []*Input
	Outputs   []*Output
}

// Pos is a 1-indexed source position.
type Pos struct {
	Line   int
	Column int
}

// Input declares an external stream.
type Input struct {
	Name string
	Type Type
	Pos  Pos
}

// Constant declares a named constant value.
type Constant struct {
	Name  string
	Type  Type
	Value Expression
	Pos   Pos
}

// OutputKind classifies an output declaration.
type OutputKind int

const (
	// NamedOutput is a plain named output stream.
	NamedOutput OutputKind = iota
	// Trigger is an unnamed output that raises a message when its guard holds.
	Trigger
	// OtherOutput covers parameterized and spawned outputs.
	OtherOutput
)

// String returns the name of the output kind.
func (k OutputKind) String() string {
	switch k {
	case NamedOutput:
		return "output"
	case Trigger:
		return "trigger"
	case OtherOutput:
		return "other"
	default:
		return "unknown"
	}
}

// Output declares a derived stream or a trigger.
type Output struct {
	Kind   OutputKind
	Name   string // empty for triggers
	Params []*Parameter
	Type   Type // nil when no annotation was written
	Spawn  *SpawnSpec
	Eval   []*EvalSpec
	Close  *CloseSpec
	Pos    Pos
}

// Parameter is a formal parameter of a parameterized output.
type Parameter struct {
	Name string
	Type Type
}

// EvalSpec pairs an optional guard with an optional value expression.
// Absent parts are nil.
type EvalSpec struct {
	Pacing Expression
	Guard  Expression
	Value  Expression
}

// SpawnSpec describes when and with which parameters an output instance is created.
type SpawnSpec struct {
	Pacing Expression
	Guard  Expression
	Value  Expression
}

// CloseSpec describes when an output instance is closed.
type CloseSpec struct {
	Pacing Expression
	Guard  Expression
}

// Type is a declared type annotation, kept as written.
type Type interface {
	String() string
	typeNode()
}

// SimpleType is a named type such as Float64.
type SimpleType struct {
	Name string
}

// TupleType is a parenthesized list of types.
type TupleType struct {
	Elems []Type
}

// OptionalType is a type followed by '?'.
type OptionalType struct {
	Elem Type
}

func (*SimpleType) typeNode()   {}
func (*TupleType) typeNode()    {}
func (*OptionalType) typeNode() {}

func (t *SimpleType) String() string { return t.Name }

func (t *TupleType) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (t *OptionalType) String() string { return t.Elem.String() + "?" }
