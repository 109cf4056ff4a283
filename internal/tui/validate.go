// ABOUTME: Embedding provider validation for the setup wizard.
// ABOUTME: Builds the configured embedder and requests one probe embedding.
package tui

import (
	"context"
	"fmt"

	"github.com/2389-research/revibe/internal/config"
	"github.com/2389-research/revibe/internal/embeddings"
)

// ValidateProvider tests the provider by embedding a probe text with the given settings.
// The context allows cancellation when the user quits during validation.
func ValidateProvider(ctx context.Context, ec config.EmbeddingConfig) error {
	ec.MaxRetries = 0
	cfg := &config.Config{Embedding: ec}

	e, err := embeddings.NewEmbedder(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}
	if err := embeddings.Validate(ctx, e); err != nil {
		return fmt.Errorf("probe embedding failed: %w", err)
	}
	return nil
}
