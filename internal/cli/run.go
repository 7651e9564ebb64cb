package cli

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/lola-extract/internal/config"
	"github.com/mvp-joe/lola-extract/internal/extract"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Extract the configured specification to the configured output",
	Long: `Run reads run.input (default resources/lola_spec.lola) and writes its summary
to run.output (default resources/RTLola_output.json). Relative paths are
resolved against the project directory.

Load and parse failures are reported on stderr and no output file is written.`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	root, cfg, err := loadConfig()
	if err != nil {
		return err
	}
	return executeRun(newExtractor(), root, &cfg.Run, cmd.OutOrStdout())
}

// executeRun performs the standalone run.
func executeRun(extractor *extract.Extractor, root string, cfg *config.RunConfig, stdout io.Writer) error {
	input := resolve(root, cfg.Input)
	output := resolve(root, cfg.Output)

	out, err := extractor.Extract(input)
	if err != nil {
		return err
	}

	if err := writeRecordFile(output, out); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Specification successfully written to %s\n", output)
	return nil
}

func resolve(root, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}
