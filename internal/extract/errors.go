package extract

import (
	"errors"
	"fmt"
)

// FailureKind identifies the stage at which extraction failed.
type FailureKind int

const (
	// FailureNone means extraction succeeded.
	FailureNone FailureKind = iota
	// FailureLoad means the specification could not be read.
	FailureLoad
	// FailureParse means the specification was read but rejected by the parser.
	FailureParse
)

func (k FailureKind) String() string {
	switch k {
	case FailureNone:
		return "none"
	case FailureLoad:
		return "load"
	case FailureParse:
		return "parse"
	default:
		return fmt.Sprintf("FailureKind(%d)", int(k))
	}
}

var (
	// ErrLoad matches every load failure via errors.Is
	ErrLoad = errors.New("failed to load specification")

	// ErrParse matches every parse failure via errors.Is
	ErrParse = errors.New("failed to parse specification")
)

// Failure is the error returned by extraction when the parsing collaborator fails.
type Failure struct {
	Kind FailureKind
	Path string
	Err  error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %v", f.sentinel(), f.Err)
}

// Unwrap exposes both the stage sentinel and the underlying cause.
func (f *Failure) Unwrap() []error {
	return []error{f.sentinel(), f.Err}
}

func (f *Failure) sentinel() error {
	if f.Kind == FailureParse {
		return ErrParse
	}
	return ErrLoad
}

// KindOf returns the failure kind of err, FailureNone for nil, and
// FailureLoad for errors that are not a *Failure.
func KindOf(err error) FailureKind {
	if err == nil {
		return FailureNone
	}
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind
	}
	return FailureLoad
}
