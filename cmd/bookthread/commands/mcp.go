// ABOUTME: MCP command starts Model Context Protocol server
// ABOUTME: Exposes read-only splitting and progress tools to LLM agents via stdio
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harper/bookthread/internal/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs bookthread as an MCP (Model Context Protocol) server so agents can
preview how text splits into posts and check reading progress. The
tools never post.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically called by an MCP client)
  bookthread mcp

  # Configure in claude_desktop_config.json:
  # {
  #   "mcpServers": {
  #     "bookthread": {
  #       "command": "bookthread",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}

	return cmd
}

// runMCP starts the MCP server
func runMCP(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd, false)
	if err != nil {
		return err
	}
	defer a.Close()

	server := mcpserver.NewMCPServer(
		"bookthread",
		build.Version,
	)
	mcp.RegisterTools(server, a.splitter, a.publisher)

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.logger.Info("MCP server starting on stdio")

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	return nil
}
