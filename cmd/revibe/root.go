// ABOUTME: Root Cobra command and global flags for the revibe CLI.
// ABOUTME: Sets up lifecycle hooks that wire config, logger, store, embedder, and journal service.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/2389-research/revibe/internal/config"
	"github.com/2389-research/revibe/internal/embeddings"
	"github.com/2389-research/revibe/internal/indexing"
	"github.com/2389-research/revibe/internal/journal"
	"github.com/2389-research/revibe/internal/logger"
	"github.com/2389-research/revibe/internal/storage"
)

var (
	globalConfig    *config.Config
	globalLog       *logger.Logger
	globalStore     *storage.SQLStore
	globalEmbedder  embeddings.Embedder
	globalTrigger   indexing.Trigger
	globalReindexer *indexing.Reindexer
	globalService   *journal.Service
)

var userFlag string

// commands that run without a store.
var standalone = map[string]bool{
	"help":       true,
	"version":    true,
	"setup":      true,
	"categories": true,
	"completion": true,
}

var rootCmd = &cobra.Command{
	Use:   "revibe",
	Short: "Reflective journaling with similar-reflection search",
	Long: `
██████╗ ███████╗██╗   ██╗██╗██████╗ ███████╗
██╔══██╗██╔════╝██║   ██║██║██╔══██╗██╔════╝
██████╔╝█████╗  ██║   ██║██║██████╔╝█████╗
██╔══██╗██╔══╝  ╚██╗ ██╔╝██║██╔══██╗██╔══╝
██║  ██║███████╗ ╚████╔╝ ██║██████╔╝███████╗
╚═╝  ╚═╝╚══════╝  ╚═══╝  ╚═╝╚═════╝ ╚══════╝

Record what happened, name the pattern, plan the learning,
and find the past reflections that look most like this one.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if standalone[cmd.Name()] {
			return nil
		}
		return openGlobals(cmd.Context())
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		closeGlobals()
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&userFlag, "user", "", "User id to act as (default: mcp.user_id, then $USER)")
}

func openGlobals(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	globalConfig = cfg

	log, err := logger.New(cfg.Log.Mode, cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	globalLog = log

	dbPath, err := cfg.GetDatabasePath()
	if err != nil {
		return fmt.Errorf("failed to resolve database path: %w", err)
	}
	store, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	globalStore = store

	// A misconfigured provider leaves entries unindexed; it never blocks writes.
	embedder, err := embeddings.NewEmbedder(ctx, cfg)
	if err != nil {
		log.Warn("embedding provider unavailable, entries will not be indexed",
			"provider", cfg.ProviderName(), "error", err)
		embedder = embeddings.NewUnavailableEmbedder(cfg.EmbeddingDimension(), err)
	}
	globalEmbedder = embedder
	log.Debug("embedding provider configured", "provider", cfg.ProviderName(), "dimension", embedder.Dimension())

	index := embeddings.NewIndex(store, log)
	indexer := indexing.NewIndexer(embedder, index, cfg.EmbeddingTimeout(), log)
	globalReindexer = indexing.NewReindexer(store, indexer, log)

	if cfg.IndexMode() == "async" {
		globalTrigger = indexing.NewQueue(indexer, store, cfg.IndexWorkers(), cfg.IndexQueueSize(), log)
	} else {
		globalTrigger = indexing.NewSyncTrigger(indexer)
	}

	globalService = journal.NewService(journal.Deps{
		Entries:   store,
		Comments:  store,
		Indexer:   indexer,
		Reindexer: globalReindexer,
		Trigger:   globalTrigger,
		Log:       log,
	})
	return nil
}

func closeGlobals() {
	if globalTrigger != nil {
		if err := globalTrigger.Close(); err != nil && globalLog != nil {
			globalLog.Warn("index trigger close failed", "error", err)
		}
		globalTrigger = nil
	}
	if globalStore != nil {
		_ = globalStore.Close()
		globalStore = nil
	}
	if globalLog != nil {
		globalLog.Sync()
	}
}

// currentUser resolves who CLI commands act as.
func currentUser() (string, error) {
	if userFlag != "" {
		return userFlag, nil
	}
	if globalConfig != nil && globalConfig.MCP.UserID != "" {
		return globalConfig.MCP.UserID, nil
	}
	if u := os.Getenv("USER"); u != "" {
		return u, nil
	}
	return "", fmt.Errorf("no user id: pass --user or set mcp.user_id")
}
