package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/lola-extract/internal/batch"
	"github.com/mvp-joe/lola-extract/internal/config"
	"github.com/mvp-joe/lola-extract/internal/discovery"
	"github.com/mvp-joe/lola-extract/internal/extract"
	"github.com/mvp-joe/lola-extract/internal/storage"
)

var batchDBFlag string

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Extract every specification in the project",
	Long: `Batch finds specifications matching batch.patterns (default **/*.lola),
skipping batch.ignore, and writes each summary next to its specification
as <spec><batch.output_suffix>.

With batch.database (or --db) every outcome is also recorded in a SQLite
record store, which the MCP server can query.

Examples:
  lola-extract batch
  lola-extract batch --db .lola-extract/records.db`,
	Args: cobra.NoArgs,
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().StringVar(&batchDBFlag, "db", "", "record store path (overrides batch.database)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	root, cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if batchDBFlag != "" {
		cfg.Batch.Database = batchDBFlag
	}

	reporter := NewCLIProgressReporter(cmd.OutOrStdout(), quiet)
	summary, err := executeBatch(cmd.Context(), newExtractor(), root, &cfg.Batch, reporter)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d specifications failed", summary.Failed, len(summary.Results))
	}
	return nil
}

// executeBatch discovers and extracts every specification under root.
func executeBatch(ctx context.Context, extractor *extract.Extractor, root string, cfg *config.BatchConfig, reporter batch.ProgressReporter) (*batch.Summary, error) {
	sd, err := discovery.New(root, cfg.Patterns, cfg.Ignore)
	if err != nil {
		return nil, err
	}
	specs, err := sd.Discover()
	if err != nil {
		return nil, fmt.Errorf("failed to discover specifications: %w", err)
	}

	runner, closeStore, err := newBatchRunner(extractor, root, cfg, reporter)
	if err != nil {
		return nil, err
	}
	defer closeStore()

	if ctx == nil {
		ctx = context.Background()
	}
	return runner.Run(ctx, specs)
}

// newBatchRunner builds a runner, opening the record store when configured.
// The returned func closes the store.
func newBatchRunner(extractor *extract.Extractor, root string, cfg *config.BatchConfig, reporter batch.ProgressReporter) (*batch.Runner, func(), error) {
	opts := []batch.Option{batch.WithProgress(reporter)}
	closeStore := func() {}

	if cfg.Database != "" {
		db, err := storage.Open(resolve(root, cfg.Database))
		if err != nil {
			return nil, nil, err
		}
		closeStore = func() { db.Close() }
		opts = append(opts, batch.WithStore(storage.NewRecordWriter(db)))
	}

	runner, err := batch.NewRunner(extractor, cfg.OutputSuffix, opts...)
	if err != nil {
		closeStore()
		return nil, nil, err
	}
	return runner, closeStore, nil
}

// printSummaryLine is used where no progress bar is shown.
func printSummaryLine(w io.Writer, summary *batch.Summary) {
	fmt.Fprintf(w, "%d extracted, %d failed, %d removed\n", summary.Succeeded, summary.Failed, summary.Removed)
}
