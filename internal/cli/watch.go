package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/lola-extract/internal/config"
	"github.com/mvp-joe/lola-extract/internal/discovery"
	"github.com/mvp-joe/lola-extract/internal/extract"
	"github.com/mvp-joe/lola-extract/internal/watcher"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-extract specifications whenever they change",
	Long: `Watch runs a batch extraction, then keeps watching the project and
re-extracts specifications as they are written. Deleting a specification
removes its summary (and its stored record when a record store is configured).

Stop with Ctrl-C.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	root, cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return executeWatch(ctx, newExtractor(), root, cfg, cmd.OutOrStdout(), nil)
}

// executeWatch blocks until ctx is done. ready, if non-nil, is closed once the
// initial extraction has finished and the watcher is running.
func executeWatch(ctx context.Context, extractor *extract.Extractor, root string, cfg *config.Config, stdout io.Writer, ready chan<- struct{}) error {
	sd, err := discovery.New(root, cfg.Batch.Patterns, cfg.Batch.Ignore)
	if err != nil {
		return err
	}

	reporter := &lineReporter{quiet: quiet, out: stdout}
	runner, closeStore, err := newBatchRunner(extractor, root, &cfg.Batch, reporter)
	if err != nil {
		return err
	}
	defer closeStore()

	specs, err := sd.Discover()
	if err != nil {
		return fmt.Errorf("failed to discover specifications: %w", err)
	}
	summary, err := runner.Run(ctx, specs)
	if err != nil {
		return nil // cancelled during the initial pass
	}
	if !quiet {
		printSummaryLine(stdout, summary)
	}

	sw, err := watcher.New(sd, time.Duration(cfg.Watch.DebounceMs)*time.Millisecond)
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer sw.Stop()

	if err := sw.Start(ctx, func(files []string) {
		runner.Run(ctx, files)
	}); err != nil {
		return err
	}

	if !quiet {
		fmt.Fprintf(stdout, "Watching %s for specification changes...\n", root)
	}
	if ready != nil {
		close(ready)
	}

	<-ctx.Done()
	return nil
}
