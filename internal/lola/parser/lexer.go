package parser

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mvp-joe/lola-extract/internal/lola/ast"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokNumber
	tokString
	tokRawString
	tokPunct
)

// token is a lexical unit. For numbers, text holds the digits and unit the suffix.
type token struct {
	kind tokenKind
	text string
	unit string
	pos  ast.Pos
}

func (t token) String() string {
	switch t.kind {
	case tokEOF:
		return "end of input"
	case tokString, tokRawString:
		return fmt.Sprintf("string %q", t.text)
	case tokNumber:
		return fmt.Sprintf("number %s%s", t.text, t.unit)
	default:
		return fmt.Sprintf("%q", t.text)
	}
}

// punctuation ordered longest first so that greedy matching works.
var punctuation = []string{
	"**", ":=", "->", "||", "&&", "==", "!=", "<=", ">=", "<<", ">>",
	"+", "-", "*", "/", "%", "<", ">", "!", "~", "&", "|", "^",
	"(", ")", "[", "]", ",", ":", "@", ".", "?",
}

type lexer struct {
	src  string
	off  int
	line int
	col  int
}

func newLexer(src []byte) *lexer {
	return &lexer{src: string(src), line: 1, col: 1}
}

// tokenize splits the whole source into tokens, ending with tokEOF.
func (l *lexer) tokenize() ([]token, error) {
	var toks []token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.kind == tokEOF {
			return toks, nil
		}
	}
}

func (l *lexer) pos() ast.Pos {
	return ast.Pos{Line: l.line, Column: l.col}
}

func (l *lexer) peekRune(ahead int) rune {
	off := l.off
	for i := 0; i < ahead; i++ {
		if off >= len(l.src) {
			return 0
		}
		_, size := utf8.DecodeRuneInString(l.src[off:])
		off += size
	}
	if off >= len(l.src) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.src[off:])
	return r
}

func (l *lexer) advance() rune {
	r, size := utf8.DecodeRuneInString(l.src[l.off:])
	l.off += size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

func (l *lexer) errorf(pos ast.Pos, format string, args ...interface{}) error {
	return &Error{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

func (l *lexer) skipSpaceAndComments() error {
	for l.off < len(l.src) {
		r := l.peekRune(0)
		switch {
		case unicode.IsSpace(r):
			l.advance()
		case r == '/' && l.peekRune(1) == '/':
			for l.off < len(l.src) && l.peekRune(0) != '\n' {
				l.advance()
			}
		case r == '/' && l.peekRune(1) == '*':
			start := l.pos()
			l.advance()
			l.advance()
			for {
				if l.off >= len(l.src) {
					return l.errorf(start, "unterminated block comment")
				}
				if l.peekRune(0) == '*' && l.peekRune(1) == '/' {
					l.advance()
					l.advance()
					break
				}
				l.advance()
			}
		default:
			return nil
		}
	}
	return nil
}

func (l *lexer) next() (token, error) {
	if err := l.skipSpaceAndComments(); err != nil {
		return token{}, err
	}
	start := l.pos()
	if l.off >= len(l.src) {
		return token{kind: tokEOF, pos: start}, nil
	}

	r := l.peekRune(0)
	switch {
	case r == 'r' && (l.peekRune(1) == '"' || l.peekRune(1) == '#'):
		return l.rawString(start)
	case isIdentStart(r):
		return token{kind: tokIdent, text: l.takeWhile(isIdentPart), pos: start}, nil
	case unicode.IsDigit(r):
		return l.number(start)
	case r == '"':
		return l.quotedString(start)
	}

	rest := l.src[l.off:]
	for _, p := range punctuation {
		if strings.HasPrefix(rest, p) {
			for range p {
				l.advance()
			}
			return token{kind: tokPunct, text: p, pos: start}, nil
		}
	}
	return token{}, l.errorf(start, "unexpected character %q", r)
}

func (l *lexer) takeWhile(pred func(rune) bool) string {
	begin := l.off
	for l.off < len(l.src) && pred(l.peekRune(0)) {
		l.advance()
	}
	return l.src[begin:l.off]
}

// number lexes digits, an optional fraction and exponent, then an optional unit suffix (1Hz, 0.5s).
func (l *lexer) number(start ast.Pos) (token, error) {
	begin := l.off
	l.takeWhile(isDigitOrUnderscore)
	if l.peekRune(0) == '.' && unicode.IsDigit(l.peekRune(1)) {
		l.advance()
		l.takeWhile(isDigitOrUnderscore)
	}
	if r := l.peekRune(0); r == 'e' || r == 'E' {
		next := l.peekRune(1)
		if unicode.IsDigit(next) || ((next == '+' || next == '-') && unicode.IsDigit(l.peekRune(2))) {
			l.advance()
			if next == '+' || next == '-' {
				l.advance()
			}
			l.takeWhile(unicode.IsDigit)
		}
	}
	text := l.src[begin:l.off]
	unit := l.takeWhile(isUnitRune)
	return token{kind: tokNumber, text: text, unit: unit, pos: start}, nil
}

func (l *lexer) quotedString(start ast.Pos) (token, error) {
	l.advance() // opening quote
	var sb strings.Builder
	for {
		if l.off >= len(l.src) {
			return token{}, l.errorf(start, "unterminated string literal")
		}
		r := l.advance()
		switch r {
		case '"':
			return token{kind: tokString, text: sb.String(), pos: start}, nil
		case '\\':
			if l.off >= len(l.src) {
				return token{}, l.errorf(start, "unterminated string literal")
			}
			esc := l.advance()
			switch esc {
			case 'n':
				sb.WriteRune('\n')
			case 't':
				sb.WriteRune('\t')
			case 'r':
				sb.WriteRune('\r')
			case '0':
				sb.WriteRune(0)
			case '"', '\\', '\'':
				sb.WriteRune(esc)
			default:
				return token{}, l.errorf(start, "unknown escape sequence \\%c", esc)
			}
		default:
			sb.WriteRune(r)
		}
	}
}

// rawString lexes r"..." and r#"..."# with any number of hashes.
func (l *lexer) rawString(start ast.Pos) (token, error) {
	l.advance() // r
	hashes := len(l.takeWhile(func(r rune) bool { return r == '#' }))
	if l.peekRune(0) != '"' {
		return token{}, l.errorf(start, "malformed raw string literal")
	}
	l.advance()
	closing := "\"" + strings.Repeat("#", hashes)
	end := strings.Index(l.src[l.off:], closing)
	if end < 0 {
		return token{}, l.errorf(start, "unterminated raw string literal")
	}
	text := l.src[l.off : l.off+end]
	for range text {
		l.advance()
	}
	for range closing {
		l.advance()
	}
	return token{kind: tokRawString, text: text, pos: start}, nil
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isDigitOrUnderscore(r rune) bool {
	return r == '_' || unicode.IsDigit(r)
}

func isUnitRune(r rune) bool {
	return unicode.IsLetter(r) || r == 'µ'
}
