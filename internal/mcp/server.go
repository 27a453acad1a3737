package mcp

import (
	"context"
	"fmt"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/takodata/tako-mcp/internal/log"
	"github.com/takodata/tako-mcp/internal/tako"
)

// Tool names as listed by tools/list. These are part of the public contract
// with agents; changing one breaks existing clients.
const (
	ToolKnowledgeSearch       = "knowledge_search"
	ToolGetChartImage         = "get_chart_image"
	ToolGetCardInsights       = "get_card_insights"
	ToolExploreKnowledgeGraph = "explore_knowledge_graph"
	ToolListChartSchemas      = "list_chart_schemas"
	ToolGetChartSchema        = "get_chart_schema"
	ToolCreateChart           = "create_chart"
	ToolOpenChartUI           = "open_chart_ui"
)

// Server wraps the MCP SDK server and the Tako API client.
type Server struct {
	mcpServer     *mcp.Server
	tako          *tako.Client
	publicBaseURL string
	logger        log.Logger
	name          string
	version       string
}

// Config holds MCP server configuration.
type Config struct {
	Name    string
	Version string

	// Tako is the upstream API client all tool handlers call.
	Tako *tako.Client

	// PublicBaseURL is the site embed URLs are built against,
	// e.g. "https://trytako.com".
	PublicBaseURL string

	// Logger defaults to a no-op logger when nil.
	Logger log.Logger
}

// NewServer creates a new MCP server with all tools and prompts registered.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("server name is required")
	}
	if cfg.Version == "" {
		return nil, fmt.Errorf("server version is required")
	}
	if cfg.Tako == nil {
		return nil, fmt.Errorf("tako client is required")
	}
	if cfg.PublicBaseURL == "" {
		return nil, fmt.Errorf("public base URL is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = log.NewNop()
	}

	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, nil)

	s := &Server{
		mcpServer:     mcpServer,
		tako:          cfg.Tako,
		publicBaseURL: cfg.PublicBaseURL,
		logger:        cfg.Logger,
		name:          cfg.Name,
		version:       cfg.Version,
	}

	if err := s.registerTools(); err != nil {
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}
	s.registerPrompts()

	return s, nil
}

// registerTools registers every tool to the MCP server.
func (s *Server) registerTools() error {
	if err := s.registerSearchTools(); err != nil {
		return fmt.Errorf("search tools: %w", err)
	}
	if err := s.registerChartTools(); err != nil {
		return fmt.Errorf("chart tools: %w", err)
	}
	if err := s.registerGraphTools(); err != nil {
		return fmt.Errorf("graph tools: %w", err)
	}
	if err := s.registerSchemaTools(); err != nil {
		return fmt.Errorf("schema tools: %w", err)
	}
	if err := s.registerUITools(); err != nil {
		return fmt.Errorf("ui tools: %w", err)
	}
	return nil
}

// Run starts the MCP server on the given transport.
// This is a blocking call that handles all MCP protocol communication.
func (s *Server) Run(ctx context.Context, transport mcp.Transport) error {
	return s.mcpServer.Run(ctx, transport)
}

// HTTPHandler returns a streamable-HTTP handler for the server, for mounting
// on an HTTP mux in serve mode.
func (s *Server) HTTPHandler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.mcpServer
	}, nil)
}
