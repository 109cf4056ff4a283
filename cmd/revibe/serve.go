// ABOUTME: Cobra command that runs the revibe HTTP API.
// ABOUTME: Probes the embedding provider, then serves until interrupted.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/2389-research/revibe/internal/api"
	"github.com/2389-research/revibe/internal/embeddings"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Serve the revibe JSON API.

Callers are identified by the X-User-ID header set by the authenticating
proxy in front of this server.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default: server.addr or :8080)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// A provider that is down at startup only disables indexing; writes still work.
	if err := embeddings.Validate(ctx, globalEmbedder); err != nil {
		globalLog.Warn("embedding provider not reachable, new entries will not be indexed until it is",
			"provider", globalConfig.ProviderName(), "error", err)
	}

	addr := serveAddr
	if addr == "" {
		addr = globalConfig.ServerAddr()
	}

	server := api.NewServer(addr, api.RouterConfig{
		Handler:        api.NewHandler(globalService, globalLog),
		Log:            globalLog,
		AllowedOrigins: globalConfig.Server.AllowedOrigins,
		AdminToken:     globalConfig.Server.AdminToken,
	})
	return server.Run(ctx)
}
