package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/lola-extract/internal/extract"
)

var extractOutFlag string

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract <spec>",
	Short: "Extract the summary of one specification",
	Long: `Extract parses one specification and prints its JSON summary.

With --out the summary is written to a file instead; nothing is written
when the specification cannot be loaded or parsed.

Examples:
  lola-extract extract monitor.lola
  lola-extract extract monitor.lola --out monitor.json`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().StringVarP(&extractOutFlag, "out", "o", "", "write the summary to this file")
}

func runExtract(cmd *cobra.Command, args []string) error {
	return executeExtract(newExtractor(), args[0], extractOutFlag, cmd.OutOrStdout())
}

// executeExtract extracts spec and prints the record, or writes it to outPath.
func executeExtract(extractor *extract.Extractor, spec, outPath string, stdout io.Writer) error {
	out, err := extractor.Extract(spec)
	if err != nil {
		return err
	}

	if outPath == "" {
		fmt.Fprintln(stdout, out)
		return nil
	}
	return writeRecordFile(outPath, out)
}

// writeRecordFile writes a serialized record, creating parent directories.
func writeRecordFile(path, record string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(record), 0644); err != nil {
		return fmt.Errorf("failed to write JSON file %s: %w", path, err)
	}
	return nil
}
