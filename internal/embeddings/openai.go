// ABOUTME: Embedder backed by the OpenAI embeddings endpoint or any compatible server.
// ABOUTME: Uses go-openai CreateEmbeddings with an optional base URL override.
package embeddings

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

const openAIProvider = "openai"

// OpenAIEmbedder implements Embedder using an OpenAI-compatible API.
type OpenAIEmbedder struct {
	client    *openai.Client
	model     string
	dimension int
}

// NewOpenAIEmbedder creates a client. An empty baseURL targets api.openai.com.
func NewOpenAIEmbedder(apiKey, baseURL, model string, dimension int, timeout time.Duration) (*OpenAIEmbedder, error) {
	if apiKey == "" {
		return nil, errors.New("openai provider requires an API key")
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimSuffix(baseURL, "/")
	}
	cfg.HTTPClient = &http.Client{Timeout: timeout}

	return &OpenAIEmbedder{
		client:    openai.NewClientWithConfig(cfg),
		model:     model,
		dimension: dimension,
	}, nil
}

// Embed returns the embedding for a single text.
func (o *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := o.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model:      openai.EmbeddingModel(o.model),
		Input:      []string{text},
		Dimensions: o.dimension,
	})
	if err != nil {
		return nil, unavailable(openAIProvider, fmt.Errorf("create embedding: %w", err))
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, unavailable(openAIProvider, errors.New("no embedding in response"))
	}
	return resp.Data[0].Embedding, nil
}

// Dimension returns the requested output dimensionality.
func (o *OpenAIEmbedder) Dimension() int {
	return o.dimension
}
