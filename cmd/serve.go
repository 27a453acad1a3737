package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/takodata/tako-mcp/internal/api"
	"github.com/takodata/tako-mcp/internal/config"
	"github.com/takodata/tako-mcp/internal/security"
)

// runServe initializes and starts the MCP server over streamable HTTP.
func runServe() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err = cfg.ValidateServe(); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := slog.Default()

	server, err := newMCPServer(cfg)
	if err != nil {
		return err
	}

	hosts := security.NewHosts(cfg.AllowedHostList(), cfg.EnableDNSRebinding)

	apiServer, err := api.NewServer(api.ServerConfig{
		MCPHandler: server.HTTPHandler(),
		Hosts:      hosts,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}

	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	logger.Info("HTTP server ready",
		"addr", addr,
		"mcp", "/mcp",
		"health", "/health, /health/detailed",
		"api_url", cfg.APIURL,
		"public_base_url", cfg.PublicBaseURL,
		"dns_rebinding_protection", cfg.EnableDNSRebinding,
	)

	return apiServer.Run(ctx, addr)
}
