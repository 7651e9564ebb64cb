package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/mvp-joe/lola-extract/internal/batch"
)

// CLIProgressReporter shows batch progress as a progress bar followed by a summary.
type CLIProgressReporter struct {
	quiet    bool
	out      io.Writer
	bar      *progressbar.ProgressBar
	failures []batch.Result
}

// NewCLIProgressReporter creates a progress reporter writing to out.
func NewCLIProgressReporter(out io.Writer, quiet bool) *CLIProgressReporter {
	return &CLIProgressReporter{
		quiet: quiet,
		out:   out,
	}
}

func (c *CLIProgressReporter) OnStart(total int) {
	c.failures = nil
	if c.quiet {
		return
	}
	if total == 0 {
		fmt.Fprintln(c.out, "No specifications found")
		return
	}

	c.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(c.out),
		progressbar.OptionSetDescription("Extracting specifications"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("specs/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(c.out)
		}),
	)
}

func (c *CLIProgressReporter) OnSpecDone(result batch.Result) {
	if result.Err != nil {
		c.failures = append(c.failures, result)
	}
	if c.quiet || c.bar == nil {
		return
	}
	c.bar.Add(1)
}

func (c *CLIProgressReporter) OnComplete(summary *batch.Summary) {
	if c.quiet {
		return
	}
	if c.bar != nil {
		c.bar.Finish()
		c.bar = nil
	}

	fmt.Fprintf(c.out, "✓ Extraction complete: %d specifications in %.1fs\n",
		len(summary.Results), summary.Duration.Seconds())
	fmt.Fprintf(c.out, "  Succeeded: %d\n", summary.Succeeded)
	fmt.Fprintf(c.out, "  Failed:    %d\n", summary.Failed)
	if summary.Removed > 0 {
		fmt.Fprintf(c.out, "  Removed:   %d\n", summary.Removed)
	}
	for _, f := range c.failures {
		fmt.Fprintf(c.out, "  ✗ %s: %v\n", f.Path, f.Err)
	}
}

// lineReporter prints one line per specification. Used by watch mode, where
// batches are small and frequent.
type lineReporter struct {
	quiet bool
	out   io.Writer
}

func (l *lineReporter) OnStart(int) {}

func (l *lineReporter) OnSpecDone(result batch.Result) {
	if l.quiet {
		return
	}
	switch {
	case result.Err != nil:
		fmt.Fprintf(l.out, "✗ %s: %v\n", result.Path, result.Err)
	case result.Removed:
		fmt.Fprintf(l.out, "- %s removed\n", result.Path)
	default:
		fmt.Fprintf(l.out, "✓ %s → %s\n", result.Path, result.OutputPath)
	}
}

func (l *lineReporter) OnComplete(*batch.Summary) {}
