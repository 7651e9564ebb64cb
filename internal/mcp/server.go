// Package mcp serves specification extraction over the Model Context Protocol.
package mcp

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"

	"github.com/mvp-joe/lola-extract/internal/extract"
	"github.com/mvp-joe/lola-extract/internal/storage"
)

// ServerConfig configures the MCP server.
type ServerConfig struct {
	Root      string  // base for relative specification paths
	CacheSize int     // number of extraction results kept
	DB        *sql.DB // optional record store; nil disables lola_records results
	Version   string
}

// Server manages the MCP server lifecycle.
type Server struct {
	config *ServerConfig
	cache  *resultCache
	mcp    *server.MCPServer
}

// NewServer creates the MCP server and registers its tools.
func NewServer(config *ServerConfig, extractor *extract.Extractor) (*Server, error) {
	if config == nil {
		return nil, fmt.Errorf("server config is required")
	}
	if extractor == nil {
		return nil, fmt.Errorf("extractor is required")
	}

	cache, err := newResultCache(config.CacheSize)
	if err != nil {
		return nil, err
	}

	version := config.Version
	if version == "" {
		version = "dev"
	}
	mcpServer := server.NewMCPServer(
		"lola-extract",
		version,
		server.WithToolCapabilities(true),
	)

	AddExtractTool(mcpServer, extractor, cache, config.Root)

	var reader *storage.RecordReader
	if config.DB != nil {
		reader = storage.NewRecordReader(config.DB)
	}
	AddRecordsTool(mcpServer, reader)

	return &Server{
		config: config,
		cache:  cache,
		mcp:    mcpServer,
	}, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown.
func (s *Server) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting MCP server on stdio...")
		errCh <- server.ServeStdio(s.mcp)
	}()

	select {
	case <-sigCh:
		log.Printf("Received shutdown signal, stopping gracefully...")
		return nil
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("MCP server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close releases the result cache.
func (s *Server) Close() error {
	log.Printf("MCP result cache hits: %d", s.cache.hits())
	s.cache.close()
	return nil
}
