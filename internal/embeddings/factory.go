// ABOUTME: Builds the configured Embedder from revibe config and validates connectivity.
// ABOUTME: Provider settings are injected here once rather than read at call sites.
package embeddings

import (
	"context"
	"fmt"
	"time"

	"github.com/2389-research/revibe/internal/config"
)

// ValidateTimeout bounds the connectivity check used by setup and `serve` startup.
const ValidateTimeout = 10 * time.Second

// NewEmbedder constructs the provider named in cfg, wrapped with retries when configured.
func NewEmbedder(ctx context.Context, cfg *config.Config) (Embedder, error) {
	dim := cfg.EmbeddingDimension()
	timeout := cfg.EmbeddingTimeout()

	var e Embedder
	switch cfg.ProviderName() {
	case "fastapi":
		baseURL := cfg.Embedding.BaseURL
		if baseURL == "" {
			baseURL = config.DefaultFastAPIURL
		}
		e = NewFastAPIEmbedder(baseURL, dim, timeout)

	case "gemini":
		model := cfg.Embedding.Model
		if model == "" {
			model = config.DefaultGeminiModel
		}
		g, err := NewGeminiEmbedder(ctx, cfg.Embedding.APIKey, model, dim)
		if err != nil {
			return nil, err
		}
		e = g

	case "openai":
		model := cfg.Embedding.Model
		if model == "" {
			model = config.DefaultOpenAIModel
		}
		o, err := NewOpenAIEmbedder(cfg.Embedding.APIKey, cfg.Embedding.BaseURL, model, dim, timeout)
		if err != nil {
			return nil, err
		}
		e = o

	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Embedding.Provider)
	}

	return NewRetryingEmbedder(e, cfg.Embedding.MaxRetries), nil
}

// Validate embeds a short probe and checks the returned length.
func Validate(ctx context.Context, e Embedder) error {
	ctx, cancel := context.WithTimeout(ctx, ValidateTimeout)
	defer cancel()

	vec, err := e.Embed(ctx, "revibe connectivity check")
	if err != nil {
		return err
	}
	return CheckDimension(vec, e.Dimension())
}
