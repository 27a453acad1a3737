// Package cmd contains the command-line entry points for the Tako MCP
// server. Following the pattern used by standard Go CLI tools, all
// application logic lives here, leaving main.go as a minimal entry point.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
)

// Version information (injected at build time via ldflags).
var (
	AppVersion = "0.0.1"
	BuildTime  = "unknown"
	GitCommit  = "unknown"
)

// serverName is the MCP implementation name announced to clients.
const serverName = "tako"

// Execute is the main entry point for the tako-mcp CLI.
func Execute() error {
	mode := "stdio"
	if len(os.Args) > 1 {
		mode = os.Args[1]
	}

	switch mode {
	case "version", "--version", "-v":
		return printVersionInfo()
	case "help", "--help", "-h":
		printHelp()
		return nil
	case "serve":
		slog.SetDefault(initLogger())
		return runServe()
	case "stdio":
		slog.SetDefault(initLogger())
		return runStdio()
	default:
		printHelp()
		return fmt.Errorf("unknown command %q", mode)
	}
}

// initLogger initializes the structured logger with appropriate log level.
//
// Log level is controlled by the DEBUG environment variable:
//   - DEBUG set (any value): debug level logging
//   - DEBUG not set: info level logging
//
// IMPORTANT: logs go to stderr. In stdio mode stdout is reserved for
// JSON-RPC messages only.
func initLogger() *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}
	if os.Getenv("DEBUG") != "" {
		opts.Level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// printVersionInfo displays version information.
func printVersionInfo() error {
	fmt.Printf("tako-mcp v%s\n", AppVersion)
	fmt.Printf("Build: %s\n", BuildTime)
	fmt.Printf("Commit: %s\n", GitCommit)
	return nil
}

// printHelp displays the help message.
func printHelp() {
	fmt.Println("tako-mcp - Tako knowledge and visualization MCP server")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  tako-mcp [stdio]     Serve MCP over stdin/stdout (default)")
	fmt.Println("  tako-mcp serve       Serve MCP over HTTP (streamable transport)")
	fmt.Println("  tako-mcp version     Show version information")
	fmt.Println("  tako-mcp help        Show this help")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  TAKO_API_KEY              Required: Tako API key")
	fmt.Println("  TAKO_API_URL              Tako API base URL (default https://api.trytako.com)")
	fmt.Println("  PUBLIC_BASE_URL           Embed base URL (default https://trytako.com)")
	fmt.Println("  HOST, PORT                Bind address for serve mode (default 0.0.0.0:8001)")
	fmt.Println("  MCP_ALLOWED_HOSTS         Extra allowed Host headers, comma-separated")
	fmt.Println("  MCP_ENABLE_DNS_REBINDING  Toggle Host validation (default true)")
	fmt.Println("  DEBUG                     Enable debug logging")
}
