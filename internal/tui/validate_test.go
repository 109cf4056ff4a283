// ABOUTME: Tests for embedding provider validation.
// ABOUTME: Uses httptest FastAPI and OpenAI-compatible servers to exercise success and failure paths.
package tui

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389-research/revibe/internal/config"
)

func fastAPIServer(t *testing.T, dims int, status int) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/embeddings/generate", r.URL.Path)
		if status != http.StatusOK {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"detail":"nope"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"embedding":  make([]float32, dims),
			"dimensions": dims,
		})
	}))
	t.Cleanup(server.Close)
	return server
}

func TestValidateProvider_FastAPISuccess(t *testing.T) {
	server := fastAPIServer(t, 4, http.StatusOK)

	err := ValidateProvider(context.Background(), config.EmbeddingConfig{
		Provider: "fastapi", BaseURL: server.URL, Dimension: 4,
	})
	require.NoError(t, err)
}

func TestValidateProvider_DimensionMismatch(t *testing.T) {
	server := fastAPIServer(t, 3, http.StatusOK)

	err := ValidateProvider(context.Background(), config.EmbeddingConfig{
		Provider: "fastapi", BaseURL: server.URL, Dimension: 4,
	})
	assert.Error(t, err, "expected error when the provider returns the wrong length")
}

func TestValidateProvider_ServerError(t *testing.T) {
	server := fastAPIServer(t, 4, http.StatusInternalServerError)

	err := ValidateProvider(context.Background(), config.EmbeddingConfig{
		Provider: "fastapi", BaseURL: server.URL, Dimension: 4, MaxRetries: 5,
	})
	assert.Error(t, err, "expected error for 500 response")
}

func TestValidateProvider_OpenAICompatible(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"data":   []map[string]any{{"object": "embedding", "index": 0, "embedding": []float32{0.1, 0.2}}},
			"model":  "text-embedding-3-small",
		})
	}))
	defer server.Close()

	err := ValidateProvider(context.Background(), config.EmbeddingConfig{
		Provider: "openai", BaseURL: server.URL, APIKey: "sk-test", Dimension: 2,
	})
	require.NoError(t, err)
}

func TestValidateProvider_MissingKey(t *testing.T) {
	for _, provider := range []string{"gemini", "openai"} {
		err := ValidateProvider(context.Background(), config.EmbeddingConfig{Provider: provider})
		assert.Error(t, err, "%s without a key", provider)
	}
}

func TestValidateProvider_UnknownProvider(t *testing.T) {
	err := ValidateProvider(context.Background(), config.EmbeddingConfig{Provider: "cohere"})
	assert.Error(t, err, "expected error for unknown provider")
}

func TestValidateProvider_Unreachable(t *testing.T) {
	err := ValidateProvider(context.Background(), config.EmbeddingConfig{
		Provider: "fastapi", BaseURL: "http://localhost:1", Dimension: 4,
	})
	assert.Error(t, err, "expected error for unreachable server")
}

func TestValidateProvider_Cancelled(t *testing.T) {
	server := fastAPIServer(t, 4, http.StatusOK)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := ValidateProvider(ctx, config.EmbeddingConfig{Provider: "fastapi", BaseURL: server.URL, Dimension: 4})
	assert.Error(t, err, "expected error for cancelled context")
}
