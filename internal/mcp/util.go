package mcp

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/takodata/tako-mcp/internal/tako"
)

// Error detail policy: tool errors carry a short user-facing message only.
// Upstream response bodies, URLs, and tokens stay in server logs.

// dataToMCP converts arbitrary data to MCP text content via JSON marshaling.
// All success payloads become one JSON text block; clients parse it.
func dataToMCP(data any) *mcp.CallToolResult {
	b, err := json.Marshal(data)
	if err != nil {
		return errorResult("failed to encode response")
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(b)}},
	}
}

// errorResult builds a single error-flagged text content block.
func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: msg}},
		IsError: true,
	}
}

// upstreamMessage maps an upstream client error to a user-facing message.
// notFound replaces the generic text on a 404 so tools can name what was
// missing without leaking the response body.
func upstreamMessage(err error, notFound string) string {
	switch {
	case tako.IsStatus(err, 404) && notFound != "":
		return notFound
	case tako.IsStatus(err, 408):
		return "Request timed out upstream, try again"
	case errors.Is(err, context.DeadlineExceeded):
		return "Request timed out"
	default:
		return "Tako API request failed"
	}
}

// truncate shortens a string for log fields.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
