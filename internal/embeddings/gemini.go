// ABOUTME: Embedder backed by Google's Gemini embedding API via the genai SDK.
// ABOUTME: Requests a fixed output dimensionality so vectors match the configured length.
package embeddings

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

const geminiProvider = "gemini"

// GeminiEmbedder implements Embedder using Google's Gemini API.
type GeminiEmbedder struct {
	client    *genai.Client
	model     string
	dimension int
}

// NewGeminiEmbedder creates a Gemini API client for the given model.
func NewGeminiEmbedder(ctx context.Context, apiKey, model string, dimension int) (*GeminiEmbedder, error) {
	if apiKey == "" {
		return nil, errors.New("gemini provider requires an API key")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &GeminiEmbedder{
		client:    client,
		model:     model,
		dimension: dimension,
	}, nil
}

// Embed returns the embedding for a single text.
func (g *GeminiEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	var config *genai.EmbedContentConfig
	if g.dimension > 0 {
		dim := int32(g.dimension)
		config = &genai.EmbedContentConfig{OutputDimensionality: &dim}
	}

	contents := []*genai.Content{genai.NewContentFromText(text, genai.RoleUser)}
	res, err := g.client.Models.EmbedContent(ctx, g.model, contents, config)
	if err != nil {
		return nil, unavailable(geminiProvider, err)
	}
	if res == nil || len(res.Embeddings) == 0 || len(res.Embeddings[0].Values) == 0 {
		return nil, unavailable(geminiProvider, errors.New("response has no embedding"))
	}
	return res.Embeddings[0].Values, nil
}

// Dimension returns the requested output dimensionality.
func (g *GeminiEmbedder) Dimension() int {
	return g.dimension
}
