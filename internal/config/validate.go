package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

var (
	// ErrEmptyRunPath indicates a missing run input or output path
	ErrEmptyRunPath = errors.New("empty run path")

	// ErrSameRunPath indicates that run would overwrite its own input
	ErrSameRunPath = errors.New("run input and output are the same file")

	// ErrEmptyPatterns indicates missing batch patterns
	ErrEmptyPatterns = errors.New("empty batch patterns")

	// ErrInvalidPattern indicates a glob pattern that does not compile
	ErrInvalidPattern = errors.New("invalid glob pattern")

	// ErrInvalidSuffix indicates an unusable batch output suffix
	ErrInvalidSuffix = errors.New("invalid output suffix")

	// ErrInvalidDebounce indicates a negative watch debounce
	ErrInvalidDebounce = errors.New("invalid watch debounce")

	// ErrInvalidCacheSize indicates a non-positive MCP cache size
	ErrInvalidCacheSize = errors.New("invalid cache size")
)

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	errs = append(errs, validateRun(&cfg.Run)...)
	errs = append(errs, validateBatch(&cfg.Batch)...)

	if cfg.Watch.DebounceMs < 0 {
		errs = append(errs, fmt.Errorf("%w: debounce_ms cannot be negative, got %d", ErrInvalidDebounce, cfg.Watch.DebounceMs))
	}

	if cfg.MCP.CacheSize <= 0 {
		errs = append(errs, fmt.Errorf("%w: cache_size must be positive, got %d", ErrInvalidCacheSize, cfg.MCP.CacheSize))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateRun(cfg *RunConfig) []error {
	var errs []error

	if strings.TrimSpace(cfg.Input) == "" {
		errs = append(errs, fmt.Errorf("%w: input is required", ErrEmptyRunPath))
	}
	if strings.TrimSpace(cfg.Output) == "" {
		errs = append(errs, fmt.Errorf("%w: output is required", ErrEmptyRunPath))
	}
	if cfg.Input != "" && filepath.Clean(cfg.Input) == filepath.Clean(cfg.Output) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrSameRunPath, cfg.Input))
	}

	return errs
}

func validateBatch(cfg *BatchConfig) []error {
	var errs []error

	if len(cfg.Patterns) == 0 {
		errs = append(errs, fmt.Errorf("%w: at least one pattern required", ErrEmptyPatterns))
	}

	for _, pattern := range append(append([]string{}, cfg.Patterns...), cfg.Ignore...) {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			errs = append(errs, fmt.Errorf("%w: %q: %v", ErrInvalidPattern, pattern, err))
		}
	}

	// An empty suffix would overwrite the specification itself
	if strings.TrimSpace(cfg.OutputSuffix) == "" {
		errs = append(errs, fmt.Errorf("%w: output_suffix is required", ErrInvalidSuffix))
	} else if strings.ContainsRune(cfg.OutputSuffix, '/') {
		errs = append(errs, fmt.Errorf("%w: output_suffix cannot contain '/', got %q", ErrInvalidSuffix, cfg.OutputSuffix))
	}

	return errs
}

// validationError lists every problem found in one pass.
type validationError struct {
	errs []error
}

func (e *validationError) Error() string {
	var msgs []string
	for _, err := range e.errs {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

func (e *validationError) Unwrap() []error {
	return e.errs
}

// joinErrors combines multiple errors into a single error.
func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	if len(errs) == 1 {
		return errs[0]
	}

	return &validationError{errs: errs}
}
