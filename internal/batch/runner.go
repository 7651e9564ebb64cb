// Package batch extracts many specifications in one pass, writing each record
// next to its specification and optionally into the record store.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/mvp-joe/lola-extract/internal/extract"
)

// ProgressReporter receives batch progress. Implementations must tolerate
// OnSpecDone without a prior OnStart.
type ProgressReporter interface {
	OnStart(total int)
	OnSpecDone(result Result)
	OnComplete(summary *Summary)
}

// Store receives every extraction outcome. *storage.RecordWriter satisfies it.
type Store interface {
	WriteRecord(path string, rec *extract.Record) (string, error)
	WriteFailure(path string, err error) (string, error)
	DeleteRecord(path string) error
}

// Result is the outcome for one specification.
type Result struct {
	Path       string
	OutputPath string // empty when nothing was written
	Kind       extract.FailureKind
	Err        error // extraction, write or store failure
	Removed    bool  // the specification no longer exists
}

// Summary aggregates one batch run.
type Summary struct {
	Results   []Result
	Succeeded int
	Failed    int
	Removed   int
	Duration  time.Duration
}

// Runner extracts specifications. A Runner is not safe for concurrent Run calls.
type Runner struct {
	extractor    *extract.Extractor
	outputSuffix string
	store        Store
	progress     ProgressReporter
}

// Option configures a Runner.
type Option func(*Runner)

// WithStore records every outcome in store.
func WithStore(store Store) Option {
	return func(r *Runner) {
		r.store = store
	}
}

// WithProgress reports progress to p.
func WithProgress(p ProgressReporter) Option {
	return func(r *Runner) {
		r.progress = p
	}
}

// NewRunner creates a Runner writing <spec><outputSuffix> for each specification.
func NewRunner(extractor *extract.Extractor, outputSuffix string, opts ...Option) (*Runner, error) {
	if outputSuffix == "" {
		return nil, errors.New("output suffix is required")
	}
	r := &Runner{
		extractor:    extractor,
		outputSuffix: outputSuffix,
		progress:     nopProgress{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// OutputPath returns where the record for spec is written.
func (r *Runner) OutputPath(spec string) string {
	return spec + r.outputSuffix
}

// Run extracts every path in order. Per-specification failures are reported in
// the summary; the returned error is non-nil only when ctx is cancelled, in
// which case the summary covers the paths handled so far.
//
// A path that no longer exists has its output and stored record removed.
func (r *Runner) Run(ctx context.Context, paths []string) (*Summary, error) {
	start := time.Now()
	summary := &Summary{Results: make([]Result, 0, len(paths))}

	r.progress.OnStart(len(paths))

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			summary.Duration = time.Since(start)
			return summary, err
		}

		var result Result
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			result = r.forget(path)
		} else {
			result = r.extractOne(path)
		}

		switch {
		case result.Removed:
			summary.Removed++
		case result.Err != nil:
			summary.Failed++
		default:
			summary.Succeeded++
		}
		summary.Results = append(summary.Results, result)
		r.progress.OnSpecDone(result)
	}

	summary.Duration = time.Since(start)
	r.progress.OnComplete(summary)
	return summary, nil
}

func (r *Runner) extractOne(path string) Result {
	result := Result{Path: path}
	outPath := r.OutputPath(path)

	rec, err := r.extractor.ExtractRecord(path)
	if err != nil {
		result.Kind = extract.KindOf(err)
		result.Err = err
		// A stale record would misdescribe the specification
		if rmErr := removeIfExists(outPath); rmErr != nil {
			log.Printf("Warning: failed to remove stale output %s: %v", outPath, rmErr)
		}
		if r.store != nil {
			if _, storeErr := r.store.WriteFailure(path, err); storeErr != nil {
				log.Printf("Warning: failed to store failure for %s: %v", path, storeErr)
			}
		}
		return result
	}

	data, err := rec.Marshal()
	if err != nil {
		result.Err = err
		return result
	}
	if err := os.WriteFile(outPath, data, 0644); err != nil {
		result.Err = fmt.Errorf("failed to write %s: %w", outPath, err)
		return result
	}
	result.OutputPath = outPath

	if r.store != nil {
		if _, err := r.store.WriteRecord(path, rec); err != nil {
			result.Err = fmt.Errorf("failed to store record for %s: %w", path, err)
		}
	}
	return result
}

func (r *Runner) forget(path string) Result {
	result := Result{Path: path, Removed: true}
	if err := removeIfExists(r.OutputPath(path)); err != nil {
		result.Err = err
	}
	if r.store != nil {
		if err := r.store.DeleteRecord(path); err != nil && result.Err == nil {
			result.Err = err
		}
	}
	return result
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

type nopProgress struct{}

func (nopProgress) OnStart(int)         {}
func (nopProgress) OnSpecDone(Result)   {}
func (nopProgress) OnComplete(*Summary) {}
