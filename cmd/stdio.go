package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	mcpSdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/takodata/tako-mcp/internal/config"
	"github.com/takodata/tako-mcp/internal/mcp"
	"github.com/takodata/tako-mcp/internal/tako"
)

// runStdio initializes and starts the MCP server on stdio transport.
func runStdio() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	server, err := newMCPServer(cfg)
	if err != nil {
		return err
	}

	slog.Info("MCP server ready",
		"name", serverName,
		"version", AppVersion,
		"transport", "stdio",
		"api_url", cfg.APIURL)

	if err := server.Run(ctx, &mcpSdk.StdioTransport{}); err != nil {
		return fmt.Errorf("MCP server error: %w", err)
	}

	slog.Info("MCP server shut down gracefully")
	return nil
}

// newMCPServer builds the Tako client and MCP server from configuration.
func newMCPServer(cfg *config.Config) (*mcp.Server, error) {
	client, err := tako.New(cfg.APIURL, cfg.APIKey)
	if err != nil {
		return nil, fmt.Errorf("creating Tako client: %w", err)
	}

	server, err := mcp.NewServer(mcp.Config{
		Name:          serverName,
		Version:       AppVersion,
		Tako:          client,
		PublicBaseURL: cfg.PublicBaseURL,
		Logger:        slog.Default(),
	})
	if err != nil {
		return nil, fmt.Errorf("creating MCP server: %w", err)
	}
	return server, nil
}
