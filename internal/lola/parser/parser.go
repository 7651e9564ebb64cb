// Package parser reads RTLola specification source into an ast.Specification.
//
// Load reads a file, FromSource wraps in-memory text, and Config.Parse runs the
// lexer and a recursive descent parser. Errors carry line:column positions.
package parser

import (
	"fmt"

	"github.com/mvp-joe/lola-extract/internal/lola/ast"
)

// keywords cannot be used as stream, constant or parameter names.
var keywords = map[string]bool{
	"import":   true,
	"constant": true,
	"input":    true,
	"output":   true,
	"trigger":  true,
	"spawn":    true,
	"eval":     true,
	"close":    true,
	"when":     true,
	"with":     true,
	"if":       true,
	"then":     true,
	"else":     true,
	"true":     true,
	"false":    true,
}

type binaryOp struct {
	op   ast.BinOp
	prec int
}

// binaryOps maps operator tokens to operators and binding strength (higher binds tighter).
var binaryOps = map[string]binaryOp{
	"->": {ast.Implies, 1},
	"||": {ast.Or, 2},
	"&&": {ast.And, 3},
	"|":  {ast.BitOr, 4},
	"^":  {ast.BitXor, 5},
	"&":  {ast.BitAnd, 6},
	"==": {ast.Eq, 7},
	"!=": {ast.Ne, 7},
	"<":  {ast.Lt, 8},
	"<=": {ast.Le, 8},
	">":  {ast.Gt, 8},
	">=": {ast.Ge, 8},
	"<<": {ast.Shl, 9},
	">>": {ast.Shr, 9},
	"+":  {ast.Add, 10},
	"-":  {ast.Sub, 10},
	"*":  {ast.Mul, 11},
	"/":  {ast.Div, 11},
	"%":  {ast.Rem, 11},
	"**": {ast.Pow, 12},
}

// parser is a recursive-descent parser over a token slice ending in tokEOF.
type parser struct {
	toks []token
	i    int
}

func (p *parser) peek() token {
	return p.toks[p.i]
}

func (p *parser) peekAt(n int) token {
	if p.i+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.i+n]
}

func (p *parser) next() token {
	tok := p.toks[p.i]
	if tok.kind != tokEOF {
		p.i++
	}
	return tok
}

func (p *parser) isPunct(text string) bool {
	tok := p.peek()
	return tok.kind == tokPunct && tok.text == text
}

func (p *parser) isKeyword(text string) bool {
	tok := p.peek()
	return tok.kind == tokIdent && tok.text == text
}

func (p *parser) accept(text string) bool {
	if p.isPunct(text) {
		p.next()
		return true
	}
	return false
}

func (p *parser) expect(text string) error {
	if !p.accept(text) {
		return p.errorf(p.peek(), "expected %q, found %s", text, p.peek())
	}
	return nil
}

func (p *parser) expectKeyword(text string) error {
	if !p.isKeyword(text) {
		return p.errorf(p.peek(), "expected %q, found %s", text, p.peek())
	}
	p.next()
	return nil
}

// expectName consumes an identifier that is not a keyword.
func (p *parser) expectName(what string) (token, error) {
	tok := p.peek()
	if tok.kind != tokIdent || keywords[tok.text] {
		return token{}, p.errorf(tok, "expected %s, found %s", what, tok)
	}
	return p.next(), nil
}

func (p *parser) errorf(tok token, format string, args ...interface{}) error {
	return &Error{Pos: tok.pos, Msg: fmt.Sprintf(format, args...)}
}

// parseSpecification parses declarations until end of input.
func (p *parser) parseSpecification() (*ast.Specification, error) {
	spec := &ast.Specification{
		Imports:   []string{},
		Constants: []*ast.Constant{},
		Inputs:    []*ast.Input{},
		Outputs:   []*ast.Output{},
	}

	for p.peek().kind != tokEOF {
		tok := p.peek()
		if tok.kind != tokIdent {
			return nil, p.errorf(tok, "expected declaration, found %s", tok)
		}

		switch tok.text {
		case "import":
			p.next()
			name, err := p.expectName("module name")
			if err != nil {
				return nil, err
			}
			spec.Imports = append(spec.Imports, name.text)
		case "constant":
			c, err := p.parseConstant()
			if err != nil {
				return nil, err
			}
			spec.Constants = append(spec.Constants, c)
		case "input":
			inputs, err := p.parseInputs()
			if err != nil {
				return nil, err
			}
			spec.Inputs = append(spec.Inputs, inputs...)
		case "output":
			out, err := p.parseOutput()
			if err != nil {
				return nil, err
			}
			spec.Outputs = append(spec.Outputs, out)
		case "trigger":
			out, err := p.parseTrigger()
			if err != nil {
				return nil, err
			}
			spec.Outputs = append(spec.Outputs, out)
		default:
			return nil, p.errorf(tok, "expected declaration, found %s", tok)
		}
	}

	return spec, nil
}

// parseConstant parses: constant name : Type := expr
func (p *parser) parseConstant() (*ast.Constant, error) {
	start := p.next()
	name, err := p.expectName("constant name")
	if err != nil {
		return nil, err
	}
	if err := p.expect(":"); err != nil {
		return nil, err
	}
	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if err := p.expect(":="); err != nil {
		return nil, err
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.Constant{Name: name.text, Type: typ, Value: value, Pos: start.pos}, nil
}

// parseInputs parses: input name : Type (, name : Type)*
func (p *parser) parseInputs() ([]*ast.Input, error) {
	p.next()
	var inputs []*ast.Input
	for {
		name, err := p.expectName("input name")
		if err != nil {
			return nil, err
		}
		if err := p.expect(":"); err != nil {
			return nil, err
		}
		typ, err := p.parseType()
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, &ast.Input{Name: name.text, Type: typ, Pos: name.pos})
		if !p.accept(",") {
			return inputs, nil
		}
	}
}

// parseOutput parses a named output with its optional parameters, type,
// pacing, spawn, eval and close clauses.
func (p *parser) parseOutput() (*ast.Output, error) {
	start := p.next()
	name, err := p.expectName("output name")
	if err != nil {
		return nil, err
	}
	out := &ast.Output{Kind: ast.NamedOutput, Name: name.text, Pos: start.pos}

	if p.accept("(") {
		params, err := p.parseParams()
		if err != nil {
			return nil, err
		}
		out.Params = params
	}

	if p.accept(":") {
		typ, err := p.parseType()
		if err != nil {
			return nil, err
		}
		out.Type = typ
	}

	var pacing ast.Expression
clauses:
	for {
		switch {
		case p.isPunct("@"):
			p.next()
			if pacing, err = p.parseExpr(); err != nil {
				return nil, err
			}
		case p.isKeyword("spawn"):
			if out.Spawn != nil {
				return nil, p.errorf(p.peek(), "duplicate spawn clause in output %s", out.Name)
			}
			if out.Spawn, err = p.parseSpawn(); err != nil {
				return nil, err
			}
		case p.isKeyword("eval"):
			spec, err := p.parseEvalClause()
			if err != nil {
				return nil, err
			}
			if spec.Pacing == nil {
				spec.Pacing, pacing = pacing, nil
			}
			out.Eval = append(out.Eval, spec)
		case p.isPunct(":="):
			p.next()
			value, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			out.Eval = append(out.Eval, &ast.EvalSpec{Pacing: pacing, Value: value})
			pacing = nil
		case p.isKeyword("close"):
			if out.Close != nil {
				return nil, p.errorf(p.peek(), "duplicate close clause in output %s", out.Name)
			}
			if out.Close, err = p.parseClose(); err != nil {
				return nil, err
			}
		default:
			break clauses
		}
	}

	if pacing != nil {
		out.Eval = append(out.Eval, &ast.EvalSpec{Pacing: pacing})
	}
	if len(out.Params) > 0 || out.Spawn != nil {
		out.Kind = ast.OtherOutput
	}
	return out, nil
}

func (p *parser) parseParams() ([]*ast.Parameter, error) {
	var params []*ast.Parameter
	if p.accept(")") {
		return params, nil
	}
	for {
		name, err := p.expectName("parameter name")
		if err != nil {
			return nil, err
		}
		param := &ast.Parameter{Name: name.text}
		if p.accept(":") {
			if param.Type, err = p.parseType(); err != nil {
				return nil, err
			}
		}
		params = append(params, param)
		if p.accept(")") {
			return params, nil
		}
		if err := p.expect(","); err != nil {
			return nil, err
		}
	}
}

// parseEvalClause parses: eval [@pacing] [when guard] [with value]
func (p *parser) parseEvalClause() (*ast.EvalSpec, error) {
	p.next()
	spec := &ast.EvalSpec{}
	for {
		var target *ast.Expression
		switch {
		case p.isPunct("@"):
			target = &spec.Pacing
		case p.isKeyword("when"):
			target = &spec.Guard
		case p.isKeyword("with"):
			target = &spec.Value
		default:
			return spec, nil
		}
		tok := p.next()
		if *target != nil {
			return nil, p.errorf(tok, "duplicate %s in eval clause", tok.text)
		}
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		*target = expr
	}
}

// parseSpawn parses: spawn [@pacing] [with params] [when guard]
func (p *parser) parseSpawn() (*ast.SpawnSpec, error) {
	p.next()
	spec := &ast.SpawnSpec{}
	for {
		var target *ast.Expression
		switch {
		case p.isPunct("@"):
			target = &spec.Pacing
		case p.isKeyword("when"):
			target = &spec.Guard
		case p.isKeyword("with"):
			target = &spec.Value
		default:
			return spec, nil
		}
		tok := p.next()
		if *target != nil {
			return nil, p.errorf(tok, "duplicate %s in spawn clause", tok.text)
		}
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		*target = expr
	}
}

// parseClose parses: close [@pacing] when guard
func (p *parser) parseClose() (*ast.CloseSpec, error) {
	start := p.next()
	spec := &ast.CloseSpec{}
	if p.accept("@") {
		pacing, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		spec.Pacing = pacing
	}
	if !p.isKeyword("when") {
		return nil, p.errorf(start, "close clause requires a when condition")
	}
	p.next()
	guard, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	spec.Guard = guard
	return spec, nil
}

// parseTrigger parses either the short form
//
//	trigger [@pacing] condition ["message"] [(info, streams)]
//
// or the clause form trigger [@pacing] eval when condition with message.
func (p *parser) parseTrigger() (*ast.Output, error) {
	start := p.next()
	out := &ast.Output{Kind: ast.Trigger, Pos: start.pos}

	var pacing ast.Expression
	if p.accept("@") {
		var err error
		if pacing, err = p.parseExpr(); err != nil {
			return nil, err
		}
	}

	if p.isKeyword("eval") {
		for p.isKeyword("eval") {
			spec, err := p.parseEvalClause()
			if err != nil {
				return nil, err
			}
			if spec.Pacing == nil {
				spec.Pacing, pacing = pacing, nil
			}
			out.Eval = append(out.Eval, spec)
		}
		return out, nil
	}

	guard, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	spec := &ast.EvalSpec{Pacing: pacing, Guard: guard}

	switch tok := p.peek(); tok.kind {
	case tokString:
		p.next()
		spec.Value = &ast.Lit{Kind: ast.Str, Value: tok.text}
	case tokRawString:
		p.next()
		spec.Value = &ast.Lit{Kind: ast.RawStr, Value: tok.text}
	}

	// Info streams are accepted but not represented.
	if p.accept("(") {
		if !p.accept(")") {
			for {
				if _, err := p.expectName("info stream"); err != nil {
					return nil, err
				}
				if p.accept(")") {
					break
				}
				if err := p.expect(","); err != nil {
					return nil, err
				}
			}
		}
	}

	out.Eval = append(out.Eval, spec)
	return out, nil
}

// parseType parses a simple, tuple or optional type.
func (p *parser) parseType() (ast.Type, error) {
	var typ ast.Type
	if p.accept("(") {
		tuple := &ast.TupleType{}
		if !p.accept(")") {
			for {
				elem, err := p.parseType()
				if err != nil {
					return nil, err
				}
				tuple.Elems = append(tuple.Elems, elem)
				if p.accept(")") {
					break
				}
				if err := p.expect(","); err != nil {
					return nil, err
				}
			}
		}
		typ = tuple
	} else {
		name, err := p.expectName("type")
		if err != nil {
			return nil, err
		}
		typ = &ast.SimpleType{Name: name.text}
	}

	for p.accept("?") {
		typ = &ast.OptionalType{Elem: typ}
	}
	return typ, nil
}

func (p *parser) parseExpr() (ast.Expression, error) {
	return p.parseBinary(1)
}

// parseBinary is a precedence-climbing loop. Implication and power are right-associative.
func (p *parser) parseBinary(minPrec int) (ast.Expression, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for {
		tok := p.peek()
		if tok.kind != tokPunct {
			return left, nil
		}
		info, ok := binaryOps[tok.text]
		if !ok || info.prec < minPrec {
			return left, nil
		}
		p.next()

		nextMin := info.prec + 1
		if info.op == ast.Implies || info.op == ast.Pow {
			nextMin = info.prec
		}
		right, err := p.parseBinary(nextMin)
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Op: info.op, Left: left, Right: right}
	}
}

func (p *parser) parseUnary() (ast.Expression, error) {
	tok := p.peek()
	if tok.kind == tokPunct {
		var op ast.UnaryOp
		switch tok.text {
		case "!":
			op = ast.Not
		case "~":
			op = ast.BitNot
		case "-":
			p.next()
			// A sign directly in front of a number belongs to the literal.
			if num := p.peek(); num.kind == tokNumber {
				p.next()
				return p.parsePostfix(&ast.Lit{Kind: ast.Numeric, Value: "-" + num.text, Unit: num.unit})
			}
			operand, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			return &ast.Unary{Op: ast.Neg, Operand: operand}, nil
		default:
			return p.parsePrimaryWithPostfix()
		}
		p.next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Op: op, Operand: operand}, nil
	}
	return p.parsePrimaryWithPostfix()
}

func (p *parser) parsePrimaryWithPostfix() (ast.Expression, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	return p.parsePostfix(expr)
}

// parsePostfix applies method calls, field projections and index accesses.
func (p *parser) parsePostfix(expr ast.Expression) (ast.Expression, error) {
	for {
		switch {
		case p.accept("."):
			tok := p.next()
			switch {
			case tok.kind == tokNumber && tok.unit == "":
				expr = &ast.Field{Receiver: expr, Name: tok.text}
			case tok.kind == tokIdent && !keywords[tok.text]:
				if p.accept("(") {
					args, err := p.parseArgs()
					if err != nil {
						return nil, err
					}
					expr = &ast.MethodCall{Receiver: expr, Name: tok.text, Args: args}
				} else {
					expr = &ast.Field{Receiver: expr, Name: tok.text}
				}
			default:
				return nil, p.errorf(tok, "expected field or method name after '.', found %s", tok)
			}
		case p.accept("["):
			index := &ast.Index{Receiver: expr}
			for {
				arg, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				index.Args = append(index.Args, arg)
				if p.accept("]") {
					break
				}
				if err := p.expect(","); err != nil {
					return nil, err
				}
			}
			expr = index
		default:
			return expr, nil
		}
	}
}

// parseArgs parses a call argument list after the opening parenthesis.
// Arguments may carry a label: offset(by: -1).
func (p *parser) parseArgs() ([]ast.Arg, error) {
	args := []ast.Arg{}
	if p.accept(")") {
		return args, nil
	}
	for {
		var arg ast.Arg
		if tok := p.peek(); tok.kind == tokIdent && !keywords[tok.text] {
			if next := p.peekAt(1); next.kind == tokPunct && next.text == ":" {
				p.next()
				p.next()
				arg.Label = tok.text
			}
		}
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		arg.Value = value
		args = append(args, arg)

		if p.accept(")") {
			return args, nil
		}
		if err := p.expect(","); err != nil {
			return nil, err
		}
		// trailing comma
		if p.accept(")") {
			return args, nil
		}
	}
}

func (p *parser) parsePrimary() (ast.Expression, error) {
	tok := p.peek()
	switch tok.kind {
	case tokNumber:
		p.next()
		return &ast.Lit{Kind: ast.Numeric, Value: tok.text, Unit: tok.unit}, nil
	case tokString:
		p.next()
		return &ast.Lit{Kind: ast.Str, Value: tok.text}, nil
	case tokRawString:
		p.next()
		return &ast.Lit{Kind: ast.RawStr, Value: tok.text}, nil
	case tokIdent:
		switch tok.text {
		case "true", "false":
			p.next()
			return &ast.Lit{Kind: ast.Bool, Value: tok.text}, nil
		case "if":
			return p.parseIte()
		}
		if keywords[tok.text] {
			return nil, p.errorf(tok, "expected expression, found keyword %q", tok.text)
		}
		p.next()
		if p.accept("(") {
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			return &ast.Call{Name: tok.text, Args: args}, nil
		}
		return &ast.Ident{Name: tok.text}, nil
	case tokPunct:
		if tok.text == "(" {
			p.next()
			return p.parseParenOrTuple()
		}
	}
	return nil, p.errorf(tok, "expected expression, found %s", tok)
}

func (p *parser) parseParenOrTuple() (ast.Expression, error) {
	if p.accept(")") {
		return &ast.Tuple{Elems: []ast.Expression{}}, nil
	}
	first, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.accept(")") {
		return &ast.Paren{Inner: first}, nil
	}

	tuple := &ast.Tuple{Elems: []ast.Expression{first}}
	for {
		if err := p.expect(","); err != nil {
			return nil, err
		}
		if p.accept(")") {
			return tuple, nil
		}
		elem, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		tuple.Elems = append(tuple.Elems, elem)
		if p.accept(")") {
			return tuple, nil
		}
	}
}

func (p *parser) parseIte() (ast.Expression, error) {
	p.next()
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("then"); err != nil {
		return nil, err
	}
	then, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("else"); err != nil {
		return nil, err
	}
	els, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.Ite{Cond: cond, Then: then, Else: els}, nil
}
