package parser

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mvp-joe/lola-extract/internal/lola/ast"
)

// Config is a loaded specification source, ready to be parsed.
type Config struct {
	Name   string // file path or caller-chosen name, used in error messages
	Source []byte
}

// Load reads the specification at path.
// Errors returned here are load failures; syntax is not inspected.
func Load(path string) (*Config, error) {
	if strings.TrimSpace(path) == "" {
		return nil, ErrEmptyPath
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat specification %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s", ErrNotAFile, path)
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read specification %s: %w", path, err)
	}

	return &Config{Name: path, Source: source}, nil
}

// FromSource wraps in-memory source text.
func FromSource(name string, source []byte) *Config {
	return &Config{Name: name, Source: source}
}

// Parse lexes and parses the source into a specification AST.
// The returned error is an *Error carrying the source name and position.
func (c *Config) Parse() (*ast.Specification, error) {
	toks, err := newLexer(c.Source).tokenize()
	if err != nil {
		return nil, c.named(err)
	}

	p := &parser{toks: toks}
	spec, err := p.parseSpecification()
	if err != nil {
		return nil, c.named(err)
	}
	return spec, nil
}

func (c *Config) named(err error) error {
	var perr *Error
	if errors.As(err, &perr) {
		perr.Name = c.Name
	}
	return err
}

// Parse parses specification source that has no file name.
func Parse(source []byte) (*ast.Specification, error) {
	return FromSource("", source).Parse()
}
