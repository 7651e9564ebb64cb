package parser

import (
	"errors"
	"fmt"

	"github.com/mvp-joe/lola-extract/internal/lola/ast"
)

var (
	// ErrEmptyPath indicates that no specification path was given
	ErrEmptyPath = errors.New("empty specification path")

	// ErrNotAFile indicates that the specification path names a directory or device
	ErrNotAFile = errors.New("specification path is not a regular file")
)

// Error is a lexical or syntactic error at a source position.
type Error struct {
	Name string // source name, usually the file path
	Pos  ast.Pos
	Msg  string
}

func (e *Error) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("%d:%d: %s", e.Pos.Line, e.Pos.Column, e.Msg)
	}
	return fmt.Sprintf("%s:%d:%d: %s", e.Name, e.Pos.Line, e.Pos.Column, e.Msg)
}
