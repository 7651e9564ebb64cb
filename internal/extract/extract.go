// Package extract turns a parsed specification into a summary record of its
// inputs, comparison outputs and triggers, serialized as indented JSON.
//
// Projection never fails and rendering is total; the only errors come from
// loading or parsing the source and are reported as *Failure.
package extract

import (
	"io"
	"log"

	"github.com/mvp-joe/lola-extract/internal/lola/ast"
	"github.com/mvp-joe/lola-extract/internal/lola/parser"
)

// Extractor runs load, parse, projection and assembly for one specification per call.
// It holds no state between calls.
type Extractor struct {
	logger *log.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets the logger used for progress and failure diagnostics.
func WithLogger(logger *log.Logger) Option {
	return func(e *Extractor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// Quiet discards all log output.
func Quiet() Option {
	return WithLogger(log.New(io.Discard, "", 0))
}

// New creates an Extractor. Without options it logs through the standard logger.
func New(opts ...Option) *Extractor {
	e := &Extractor{logger: log.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract loads and parses the specification at path and returns its record
// as indented JSON. Failures are logged and returned as *Failure.
func (e *Extractor) Extract(path string) (string, error) {
	rec, err := e.ExtractRecord(path)
	if err != nil {
		return "", err
	}
	return marshal(rec)
}

// ExtractRecord is Extract without serialization.
func (e *Extractor) ExtractRecord(path string) (*Record, error) {
	e.logger.Printf("Parsing specification from file: %s", path)

	cfg, err := e.Load(path)
	if err != nil {
		return nil, err
	}
	return e.parseAndProject(cfg, path)
}

// Load reads the specification at path without parsing it.
// A failure is logged and returned as a *Failure of kind FailureLoad.
func (e *Extractor) Load(path string) (*parser.Config, error) {
	cfg, err := parser.Load(path)
	if err != nil {
		e.logger.Printf("Failed to load specification: %v", err)
		return nil, &Failure{Kind: FailureLoad, Path: path, Err: err}
	}
	return cfg, nil
}

// ExtractSource extracts from in-memory source. name is used in diagnostics only.
func (e *Extractor) ExtractSource(name string, source []byte) (string, error) {
	rec, err := e.ExtractSourceRecord(name, source)
	if err != nil {
		return "", err
	}
	return marshal(rec)
}

// ExtractSourceRecord is ExtractSource without serialization.
func (e *Extractor) ExtractSourceRecord(name string, source []byte) (*Record, error) {
	return e.parseAndProject(parser.FromSource(name, source), name)
}

func (e *Extractor) parseAndProject(cfg *parser.Config, path string) (*Record, error) {
	spec, err := cfg.Parse()
	if err != nil {
		e.logger.Printf("Failed to parse specification: %v", err)
		return nil, &Failure{Kind: FailureParse, Path: path, Err: err}
	}
	return FromSpecification(spec), nil
}

// FromSpecification projects and assembles an already parsed specification.
func FromSpecification(spec *ast.Specification) *Record {
	return Assemble(Project(spec))
}

func marshal(rec *Record) (string, error) {
	data, err := rec.Marshal()
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Extract runs a default Extractor on path.
func Extract(path string) (string, error) {
	return New().Extract(path)
}
