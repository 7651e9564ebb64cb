package mcp

import (
	"context"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mvp-joe/lola-extract/internal/extract"
	"github.com/mvp-joe/lola-extract/internal/lola/parser"
)

// ExtractToolName is the registered name of the extraction tool.
const ExtractToolName = "lola_extract"

// AddExtractTool registers the lola_extract tool with an MCP server.
// Relative paths are resolved against root.
func AddExtractTool(s *server.MCPServer, extractor *extract.Extractor, cache *resultCache, root string) {
	tool := mcp.NewTool(
		ExtractToolName,
		mcp.WithDescription("Extract a summary of an RTLola specification: its input streams with declared types, named outputs defined by a comparison, and triggers with condition and message. Returns the summary as JSON. Give either a file path or inline source."),
		mcp.WithString("path",
			mcp.Description("Path of the specification file, relative to the project root or absolute")),
		mcp.WithString("source",
			mcp.Description("Inline specification text, used when path is not given")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, createExtractHandler(extractor, cache, root))
}

// createExtractHandler creates the handler function for the lola_extract tool.
func createExtractHandler(extractor *extract.Extractor, cache *resultCache, root string) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, errResult := parseToolArguments(request)
		if errResult != nil {
			return errResult, nil
		}

		path, err := parseStringArg(argsMap, "path", false)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		source, err := parseStringArg(argsMap, "source", false)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		var cfg *parser.Config
		switch {
		case path != "" && source != "":
			return mcp.NewToolResultError("give either path or source, not both"), nil
		case path != "":
			if !filepath.IsAbs(path) {
				path = filepath.Join(root, path)
			}
			cfg, err = extractor.Load(path)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
		case source != "":
			cfg = parser.FromSource("<source>", []byte(source))
		default:
			return mcp.NewToolResultError("path or source parameter is required"), nil
		}

		if cached, ok := cache.get(cfg.Source); ok {
			return mcp.NewToolResultText(cached), nil
		}

		out, err := extractor.ExtractSource(cfg.Name, cfg.Source)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		cache.set(cfg.Source, out)

		return mcp.NewToolResultText(out), nil
	}
}
