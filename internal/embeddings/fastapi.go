// ABOUTME: HTTP client for the FastAPI embedding service.
// ABOUTME: POSTs {"text"} to /embeddings/generate and reads {"embedding","dimensions"}.
package embeddings

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const fastAPIProvider = "fastapi"

// FastAPIEmbedder calls the companion FastAPI service for embeddings.
type FastAPIEmbedder struct {
	baseURL   string
	dimension int
	client    *http.Client
}

// NewFastAPIEmbedder creates a client for the service at baseURL.
func NewFastAPIEmbedder(baseURL string, dimension int, timeout time.Duration) *FastAPIEmbedder {
	return &FastAPIEmbedder{
		baseURL:   strings.TrimRight(baseURL, "/"),
		dimension: dimension,
		client:    &http.Client{Timeout: timeout},
	}
}

type fastAPIRequest struct {
	Text string `json:"text"`
}

type fastAPIResponse struct {
	Embedding  []float32 `json:"embedding"`
	Dimensions int       `json:"dimensions"`
}

// Embed posts text to the service and returns the vector it answers with.
func (f *FastAPIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(fastAPIRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal embedding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.baseURL+"/embeddings/generate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, unavailable(fastAPIProvider, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, unavailable(fastAPIProvider, &StatusError{Code: resp.StatusCode, Body: string(respBody)})
	}

	var out fastAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, unavailable(fastAPIProvider, fmt.Errorf("failed to decode response: %w", err))
	}
	if len(out.Embedding) == 0 {
		return nil, unavailable(fastAPIProvider, errors.New("response has no embedding"))
	}
	return out.Embedding, nil
}

// Dimension returns the configured vector length.
func (f *FastAPIEmbedder) Dimension() int {
	return f.dimension
}
