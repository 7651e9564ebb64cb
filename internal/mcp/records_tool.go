package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mvp-joe/lola-extract/internal/extract"
	"github.com/mvp-joe/lola-extract/internal/storage"
)

// RecordsToolName is the registered name of the record store tool.
const RecordsToolName = "lola_records"

// StoredSpec is one entry in a lola_records listing.
type StoredSpec struct {
	Path        string `json:"path"`
	Status      string `json:"status"`
	Error       string `json:"error,omitempty"`
	ExtractedAt string `json:"extracted_at"`
}

// RecordsResponse is the lola_records result.
// Record is set when a single path was requested and its extraction succeeded.
type RecordsResponse struct {
	Specs  []StoredSpec    `json:"specs"`
	Record *extract.Record `json:"record,omitempty"`
}

// AddRecordsTool registers the lola_records tool, which reads batch results
// from the record store.
func AddRecordsTool(s *server.MCPServer, reader *storage.RecordReader) {
	tool := mcp.NewTool(
		RecordsToolName,
		mcp.WithDescription("List specifications recorded by batch or watch runs with their extraction status. With a path, return that specification's stored summary."),
		mcp.WithString("path",
			mcp.Description("Specification path exactly as recorded; omit to list everything")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, createRecordsHandler(reader))
}

func createRecordsHandler(reader *storage.RecordReader) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if reader == nil {
			return mcp.NewToolResultError("record store not configured (set batch.database)"), nil
		}

		argsMap, errResult := parseToolArguments(request)
		if errResult != nil {
			return errResult, nil
		}
		path, err := parseStringArg(argsMap, "path", false)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		response := &RecordsResponse{Specs: []StoredSpec{}}

		if path == "" {
			entries, err := reader.ListSpecs()
			if err != nil {
				return nil, fmt.Errorf("failed to list records: %w", err)
			}
			for _, entry := range entries {
				response.Specs = append(response.Specs, toStoredSpec(entry))
			}
			return marshalToolResponse(response)
		}

		entry, err := reader.GetSpec(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}
		if entry == nil {
			return mcp.NewToolResultError(fmt.Sprintf("no record stored for %s", path)), nil
		}
		response.Specs = append(response.Specs, toStoredSpec(entry))

		rec, err := reader.ReadRecord(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}
		response.Record = rec

		return marshalToolResponse(response)
	}
}

func toStoredSpec(entry *storage.SpecEntry) StoredSpec {
	return StoredSpec{
		Path:        entry.Path,
		Status:      entry.Status,
		Error:       entry.Error,
		ExtractedAt: entry.ExtractedAt.Format(time.RFC3339),
	}
}
