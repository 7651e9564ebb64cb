package ast

// Expression is a node of an expression tree. The set of implementations is
// closed to this package.
type Expression interface {
	exprNode()
}

// Ident references a stream, constant or parameter by name.
type Ident struct {
	Name string
}

// LitKind enumerates literal kinds.
type LitKind int

const (
	// Numeric literal, possibly carrying a unit suffix such as Hz or s.
	Numeric LitKind = iota
	// Str is a double-quoted string with escapes resolved.
	Str
	// RawStr is an r"..." or r#"..."# string, taken verbatim.
	RawStr
	// Bool is true or false.
	Bool
)

// Lit is a literal. Value holds the text as lexed: the digits of a numeric
// literal, the unescaped content of a string, or "true"/"false".
type Lit struct {
	Kind  LitKind
	Value string
	Unit  string // numeric unit suffix, empty if none
}

// BinOp is a binary operator.
type BinOp int

const (
	Add BinOp = iota
	Sub
	Mul
	Div
	Rem
	Pow
	And
	Or
	Implies
	BitAnd
	BitOr
	BitXor
	Shl
	Shr
	Eq
	Ne
	Lt
	Le
	Gt
	Ge
)

var binOpText = [...]string{
	Add:     "+",
	Sub:     "-",
	Mul:     "*",
	Div:     "/",
	Rem:     "%",
	Pow:     "**",
	And:     "&&",
	Or:      "||",
	Implies: "->",
	BitAnd:  "&",
	BitOr:   "|",
	BitXor:  "^",
	Shl:     "<<",
	Shr:     ">>",
	Eq:      "==",
	Ne:      "!=",
	Lt:      "<",
	Le:      "<=",
	Gt:      ">",
	Ge:      ">=",
}

// String returns the operator as written in source.
func (op BinOp) String() string {
	if op < 0 || int(op) >= len(binOpText) {
		return "?"
	}
	return binOpText[op]
}

// Binary combines two operands with an operator.
type Binary struct {
	Op    BinOp
	Left  Expression
	Right Expression
}

// UnaryOp is a prefix operator.
type UnaryOp int

const (
	Not UnaryOp = iota
	Neg
	BitNot
)

// Unary applies a prefix operator.
type Unary struct {
	Op      UnaryOp
	Operand Expression
}

// Arg is a call argument with an optional label, as in offset(by: -1).
type Arg struct {
	Label string
	Value Expression
}

// Call is a function application f(args).
type Call struct {
	Name string
	Args []Arg
}

// MethodCall is a stream method such as x.hold() or x.aggregate(over: 1s, using: sum).
type MethodCall struct {
	Receiver Expression
	Name     string
	Args     []Arg
}

// Field is a tuple projection (t.0) or named access (x.name).
type Field struct {
	Receiver Expression
	Name     string
}

// Index is a bracketed access such as x[-1, 0].
type Index struct {
	Receiver Expression
	Args     []Expression
}

// Tuple is a parenthesized list with at least one comma, or ().
type Tuple struct {
	Elems []Expression
}

// Paren is a parenthesized expression.
type Paren struct {
	Inner Expression
}

// Ite is if-then-else.
type Ite struct {
	Cond Expression
	Then Expression
	Else Expression
}

func (*Ident) exprNode()      {}
func (*Lit) exprNode()        {}
func (*Binary) exprNode()     {}
func (*Unary) exprNode()      {}
func (*Call) exprNode()       {}
func (*MethodCall) exprNode() {}
func (*Field) exprNode()      {}
func (*Index) exprNode()      {}
func (*Tuple) exprNode()      {}
func (*Paren) exprNode()      {}
func (*Ite) exprNode()        {}
