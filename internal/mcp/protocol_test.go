package mcp

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// connectServer connects an SDK client to the given server via in-memory
// transports. Both sessions are cleaned up via t.Cleanup.
func connectServer(t *testing.T, server *Server) *mcp.ClientSession {
	t.Helper()

	ctx := context.Background()
	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	serverSession, err := server.mcpServer.Connect(ctx, serverTransport, nil)
	if err != nil {
		t.Fatalf("server.Connect() unexpected error: %v", err)
	}
	t.Cleanup(func() { _ = serverSession.Close() })

	client := mcp.NewClient(&mcp.Implementation{
		Name:    "test-client",
		Version: "1.0.0",
	}, nil)

	clientSession, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("client.Connect() unexpected error: %v", err)
	}
	t.Cleanup(func() { _ = clientSession.Close() })

	return clientSession
}

// TestProtocol_ListTools verifies that tools/list returns the full tool
// surface with the exact advertised names.
func TestProtocol_ListTools(t *testing.T) {
	server := newTestServer(t, failingUpstream(http.StatusInternalServerError))
	session := connectServer(t, server)

	result, err := session.ListTools(context.Background(), nil)
	if err != nil {
		t.Fatalf("ListTools() unexpected error: %v", err)
	}

	var names []string
	for _, tool := range result.Tools {
		names = append(names, tool.Name)
	}
	sort.Strings(names)

	wantNames := []string{
		"create_chart",
		"explore_knowledge_graph",
		"get_card_insights",
		"get_chart_image",
		"get_chart_schema",
		"knowledge_search",
		"list_chart_schemas",
		"open_chart_ui",
	}

	if len(names) != len(wantNames) {
		t.Fatalf("ListTools() returned %d tools, want %d\ngot:  %v\nwant: %v", len(names), len(wantNames), names, wantNames)
	}
	for i, got := range names {
		if got != wantNames[i] {
			t.Errorf("ListTools() tool[%d] = %q, want %q", i, got, wantNames[i])
		}
	}
}

// TestProtocol_ListTools_HaveDescriptions verifies that all tools include
// non-empty descriptions and input schemas.
func TestProtocol_ListTools_HaveDescriptions(t *testing.T) {
	server := newTestServer(t, failingUpstream(http.StatusInternalServerError))
	session := connectServer(t, server)

	result, err := session.ListTools(context.Background(), nil)
	if err != nil {
		t.Fatalf("ListTools() unexpected error: %v", err)
	}

	for _, tool := range result.Tools {
		if tool.Description == "" {
			t.Errorf("ListTools() tool %q has empty description", tool.Name)
		}
		if tool.InputSchema == nil {
			t.Errorf("ListTools() tool %q has no input schema", tool.Name)
		}
	}
}

// TestProtocol_CallTool_KnowledgeSearch verifies that tools/call works
// end-to-end through the JSON-RPC layer with a stubbed upstream.
func TestProtocol_CallTool_KnowledgeSearch(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/knowledge_search" {
			t.Errorf("upstream path = %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"outputs": {"knowledge_cards": [
			{"card_id": "abc123", "title": "US GDP", "description": "GDP over time",
			 "url": "https://trytako.com/card/abc123", "source": "BEA"}
		]}}`))
	})
	session := connectServer(t, server)

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      ToolKnowledgeSearch,
		Arguments: map[string]any{"query": "US GDP"},
	})
	if err != nil {
		t.Fatalf("CallTool(knowledge_search) unexpected error: %v", err)
	}

	var out struct {
		Results []struct {
			CardID string `json:"card_id"`
			Title  string `json:"title"`
		} `json:"results"`
		Count int `json:"count"`
	}
	textPayload(t, result, &out)

	if out.Count != 1 || len(out.Results) != 1 {
		t.Fatalf("knowledge_search count = %d results = %d, want 1", out.Count, len(out.Results))
	}
	if out.Results[0].CardID != "abc123" || out.Results[0].Title != "US GDP" {
		t.Errorf("result[0] = %+v, want abc123 / US GDP", out.Results[0])
	}
}

// TestProtocol_CallTool_UpstreamFailure verifies that an upstream failure
// surfaces as an error-flagged result, not a protocol error.
func TestProtocol_CallTool_UpstreamFailure(t *testing.T) {
	server := newTestServer(t, failingUpstream(http.StatusBadGateway))
	session := connectServer(t, server)

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      ToolKnowledgeSearch,
		Arguments: map[string]any{"query": "US GDP"},
	})
	if err != nil {
		t.Fatalf("CallTool(knowledge_search) unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("CallTool(knowledge_search) IsError = false, want true on upstream failure")
	}
}

// TestProtocol_CallTool_UnknownTool verifies that calling a non-existent
// tool returns a proper error through the JSON-RPC layer.
func TestProtocol_CallTool_UnknownTool(t *testing.T) {
	server := newTestServer(t, failingUpstream(http.StatusInternalServerError))
	session := connectServer(t, server)

	_, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name: "nonexistent_tool",
	})
	if err == nil {
		t.Fatal("CallTool(nonexistent_tool) expected error, got nil")
	}
	if !strings.Contains(err.Error(), "nonexistent_tool") {
		t.Errorf("CallTool(nonexistent_tool) error = %q, want to contain tool name", err.Error())
	}
}

// TestProtocol_GetPrompt verifies the generate_search_query prompt over the
// JSON-RPC layer.
func TestProtocol_GetPrompt(t *testing.T) {
	server := newTestServer(t, failingUpstream(http.StatusInternalServerError))
	session := connectServer(t, server)

	prompts, err := session.ListPrompts(context.Background(), nil)
	if err != nil {
		t.Fatalf("ListPrompts() unexpected error: %v", err)
	}
	if len(prompts.Prompts) != 1 || prompts.Prompts[0].Name != PromptGenerateSearchQuery {
		t.Fatalf("ListPrompts() = %+v, want one %q prompt", prompts.Prompts, PromptGenerateSearchQuery)
	}

	result, err := session.GetPrompt(context.Background(), &mcp.GetPromptParams{
		Name:      PromptGenerateSearchQuery,
		Arguments: map[string]string{"text": "compare G7 economies"},
	})
	if err != nil {
		t.Fatalf("GetPrompt() unexpected error: %v", err)
	}
	if len(result.Messages) != 1 {
		t.Fatalf("GetPrompt() returned %d messages, want 1", len(result.Messages))
	}

	text, ok := result.Messages[0].Content.(*mcp.TextContent)
	if !ok {
		t.Fatalf("message content type = %T, want *mcp.TextContent", result.Messages[0].Content)
	}
	if !strings.Contains(text.Text, "compare G7 economies") {
		t.Error("GetPrompt() message does not contain the user text")
	}
	if !strings.Contains(text.Text, "knowledge_search") {
		t.Error("GetPrompt() message does not reference the search tool")
	}
}
