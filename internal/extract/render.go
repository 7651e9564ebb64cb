package extract

import "github.com/mvp-joe/lola-extract/internal/lola/ast"

// ComplexExpression replaces any expression shape the renderer does not spell out.
const ComplexExpression = "complex_expression"

// UnknownOperator is the symbol of every non-comparison operator.
const UnknownOperator = "unknown"

// Render turns an expression into infix text.
//
// Identifiers render as their name and literals as their lexed text. Binary
// expressions render as "left op right" recursively, without adding
// parentheses, so the text does not necessarily reflect the tree's
// precedence. Every other shape, including nil, renders as
// ComplexExpression.
func Render(expr ast.Expression) string {
	switch e := expr.(type) {
	case *ast.Ident:
		return e.Name
	case *ast.Lit:
		return renderLit(e)
	case *ast.Binary:
		return renderBinary(e)
	default:
		return ComplexExpression
	}
}

func renderBinary(e *ast.Binary) string {
	return Render(e.Left) + " " + Symbol(e.Op) + " " + Render(e.Right)
}

// renderLit covers every literal kind. Numeric unit suffixes (1Hz, 0.5s) are
// not rendered; strings render without quotes.
func renderLit(l *ast.Lit) string {
	switch l.Kind {
	case ast.Numeric, ast.Str, ast.RawStr, ast.Bool:
		return l.Value
	default:
		return ComplexExpression
	}
}

// Symbol returns the comparison symbol for op, or UnknownOperator for any
// operator that is not a comparison.
func Symbol(op ast.BinOp) string {
	switch op {
	case ast.Gt:
		return ">"
	case ast.Lt:
		return "<"
	case ast.Eq:
		return "=="
	case ast.Ne:
		return "!="
	case ast.Ge:
		return ">="
	case ast.Le:
		return "<="
	default:
		return UnknownOperator
	}
}
