// ABOUTME: MCP server command implementation for revibe.
// ABOUTME: Starts the MCP server in stdio mode for AI agent integration.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	mcppkg "github.com/2389-research/revibe/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server (stdio mode)",
	Long: `Start the Model Context Protocol server for AI agent integration.

The MCP server communicates via stdio, allowing AI agents to record,
identify, and search reflections as the configured user.`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	user, err := currentUser()
	if err != nil {
		return err
	}

	server, err := mcppkg.NewServer(globalService, user,
		mcppkg.WithAuthorName(globalConfig.MCP.AuthorName),
		mcppkg.WithLogger(globalLog),
	)
	if err != nil {
		return err
	}

	return server.Serve(ctx)
}
