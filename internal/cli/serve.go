package cli

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/lola-extract/internal/mcp"
	"github.com/mvp-joe/lola-extract/internal/storage"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server for specification extraction",
	Long: `Start a Model Context Protocol server on stdio.

Tools:
  lola_extract  summarize a specification given by path or inline source
  lola_records  read results recorded by batch and watch runs (needs batch.database)

Extraction results are cached in memory (mcp.cache_size entries) keyed by
the specification text.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	root, cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var db *sql.DB
	if cfg.Batch.Database != "" {
		db, err = storage.Open(resolve(root, cfg.Batch.Database))
		if err != nil {
			return err
		}
		defer db.Close()
	}

	// stdout carries the protocol
	fmt.Fprintf(os.Stderr, "lola-extract MCP Server\n")
	fmt.Fprintf(os.Stderr, "Project: %s\n\n", root)

	srv, err := mcp.NewServer(&mcp.ServerConfig{
		Root:      root,
		CacheSize: cfg.MCP.CacheSize,
		DB:        db,
		Version:   Version,
	}, newExtractor())
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}
	defer srv.Close()

	return srv.Serve(context.Background())
}
