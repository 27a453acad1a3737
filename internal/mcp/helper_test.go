package mcp

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/takodata/tako-mcp/internal/log"
	"github.com/takodata/tako-mcp/internal/tako"
)

const testPublicBaseURL = "https://trytako.test"

// newTestServer builds a Server whose Tako client talks to the given stub
// upstream handler.
func newTestServer(t *testing.T, handler http.HandlerFunc) *Server {
	t.Helper()

	upstream := httptest.NewServer(handler)
	t.Cleanup(upstream.Close)

	client, err := tako.New(upstream.URL, "test-key-123")
	if err != nil {
		t.Fatalf("tako.New() unexpected error: %v", err)
	}

	server, err := NewServer(Config{
		Name:          "tako-test",
		Version:       "0.0.0-test",
		Tako:          client,
		PublicBaseURL: testPublicBaseURL,
		Logger:        log.NewNop(),
	})
	if err != nil {
		t.Fatalf("NewServer() unexpected error: %v", err)
	}
	return server
}

// failingUpstream replies to every request with the given status.
func failingUpstream(status int) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream error body", status)
	}
}

// textPayload asserts the result is a single non-error text content block and
// unmarshals its JSON body into out.
func textPayload(t *testing.T, result *mcp.CallToolResult, out any) {
	t.Helper()

	if result.IsError {
		t.Fatalf("result.IsError = true, content: %+v", result.Content)
	}
	if len(result.Content) != 1 {
		t.Fatalf("len(result.Content) = %d, want 1", len(result.Content))
	}
	text, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("content[0] type = %T, want *mcp.TextContent", result.Content[0])
	}
	if err := json.Unmarshal([]byte(text.Text), out); err != nil {
		t.Fatalf("parsing result JSON: %v\ntext: %s", err, text.Text)
	}
}

// errorText asserts the result is a single error-flagged text block and
// returns its message.
func errorText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()

	if !result.IsError {
		t.Fatalf("result.IsError = false, want true; content: %+v", result.Content)
	}
	if len(result.Content) != 1 {
		t.Fatalf("len(result.Content) = %d, want 1", len(result.Content))
	}
	text, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("content[0] type = %T, want *mcp.TextContent", result.Content[0])
	}
	return text.Text
}
