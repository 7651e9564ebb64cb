package mcp

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// parseToolArguments validates and extracts the arguments map from an MCP tool request.
// Returns the arguments map or an error result if validation fails.
func parseToolArguments(request mcp.CallToolRequest) (map[string]interface{}, *mcp.CallToolResult) {
	if request.Params.Arguments == nil {
		return map[string]interface{}{}, nil
	}
	argsMap, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, mcp.NewToolResultError("invalid arguments format")
	}
	return argsMap, nil
}

// parseStringArg extracts a string argument from an MCP arguments map.
// Returns an error if the argument is required but missing or invalid.
func parseStringArg(argsMap map[string]interface{}, key string, required bool) (string, error) {
	val, ok := argsMap[key]
	if !ok {
		if required {
			return "", fmt.Errorf("%s parameter is required", key)
		}
		return "", nil
	}

	str, ok := val.(string)
	if !ok {
		return "", fmt.Errorf("%s must be a string", key)
	}

	if required && str == "" {
		return "", fmt.Errorf("%s cannot be empty", key)
	}

	return str, nil
}

// marshalToolResponse marshals a response object to JSON and returns it as an MCP tool result.
// HTML escaping is disabled so comparisons keep their operators.
func marshalToolResponse(response interface{}) (*mcp.CallToolResult, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(response); err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}
	return mcp.NewToolResultText(string(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))), nil
}
