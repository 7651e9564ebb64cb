// Package cli implements the lola-extract command line.
package cli

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/lola-extract/internal/config"
	"github.com/mvp-joe/lola-extract/internal/extract"
)

var (
	projectDir string
	quiet      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "lola-extract",
	Short: "Summarize RTLola specifications as JSON",
	Long: `lola-extract reads RTLola stream specifications and writes a JSON summary
of their input streams, comparison outputs and triggers.

Configuration is read from .lola-extract/config.yml in the project directory
and from LOLA_EXTRACT_* environment variables.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&projectDir, "dir", "C", "", "project directory (default is the working directory)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress progress and diagnostics")
}

// projectRoot returns the --dir flag or the working directory.
func projectRoot() (string, error) {
	if projectDir != "" {
		return projectDir, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return wd, nil
}

// loadConfig loads configuration for the project root.
func loadConfig() (string, *config.Config, error) {
	root, err := projectRoot()
	if err != nil {
		return "", nil, err
	}
	cfg, err := config.LoadConfigFromDir(root)
	if err != nil {
		return "", nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return root, cfg, nil
}

// newExtractor logs diagnostics to stderr unless --quiet is set.
func newExtractor() *extract.Extractor {
	if quiet {
		return extract.New(extract.Quiet())
	}
	return extract.New(extract.WithLogger(log.New(os.Stderr, "", log.LstdFlags)))
}
