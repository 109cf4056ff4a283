// ABOUTME: Tests for the FastAPI and OpenAI providers, the retry wrapper, and the factory.
// ABOUTME: Uses httptest servers standing in for the remote embedding services.
package embeddings

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389-research/revibe/internal/apperrors"
	"github.com/2389-research/revibe/internal/config"
)

func TestFastAPIEmbedderSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/embeddings/generate", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "hello", req["text"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"embedding":[0.1,0.2,0.3],"dimensions":3}`))
	}))
	defer server.Close()

	e := NewFastAPIEmbedder(server.URL+"/", 3, time.Second)
	vec, err := e.Embed(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vec)
	assert.Equal(t, 3, e.Dimension())
}

func TestFastAPIEmbedderFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr int
	}{
		{"server error", http.StatusInternalServerError, `{"detail":"boom"}`, http.StatusInternalServerError},
		{"bad request", http.StatusBadRequest, `{"detail":"no text"}`, http.StatusBadRequest},
		{"missing field", http.StatusOK, `{"dimensions":3}`, 0},
		{"empty vector", http.StatusOK, `{"embedding":[]}`, 0},
		{"not json", http.StatusOK, `<html>`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := NewFastAPIEmbedder(server.URL, 3, time.Second).Embed(context.Background(), "x")
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.ErrProviderUnavailable))
			assert.Equal(t, tt.wantErr, statusCode(err))
		})
	}
}

func TestFastAPIEmbedderTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`{"embedding":[1]}`))
	}))
	defer server.Close()

	_, err := NewFastAPIEmbedder(server.URL, 1, 20*time.Millisecond).Embed(context.Background(), "x")
	assert.True(t, errors.Is(err, apperrors.ErrProviderUnavailable))
}

func TestFastAPIEmbedderUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := NewFastAPIEmbedder(url, 1, time.Second).Embed(context.Background(), "x")
	assert.True(t, errors.Is(err, apperrors.ErrProviderUnavailable))
}

func TestOpenAIEmbedderCompatibleServer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "text-embedding-3-small", req["model"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"list","data":[{"object":"embedding","index":0,"embedding":[0.5,0.25]}],"model":"text-embedding-3-small"}`))
	}))
	defer server.Close()

	e, err := NewOpenAIEmbedder("sk-test", server.URL, "text-embedding-3-small", 2, time.Second)
	require.NoError(t, err)

	vec, err := e.Embed(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, 0.25}, vec)
}

func TestOpenAIEmbedderErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	}))
	defer server.Close()

	e, err := NewOpenAIEmbedder("sk-bad", server.URL, "m", 2, time.Second)
	require.NoError(t, err)

	_, err = e.Embed(context.Background(), "hello")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrProviderUnavailable))
	assert.True(t, isPermanent(err))
}

func TestProvidersRequireKeys(t *testing.T) {
	_, err := NewOpenAIEmbedder("", "", "m", 2, time.Second)
	assert.Error(t, err)
	_, err = NewGeminiEmbedder(context.Background(), "", "m", 2)
	assert.Error(t, err)
}

// flakyEmbedder fails a fixed number of times before succeeding.
type flakyEmbedder struct {
	failures int32
	calls    atomic.Int32
	err      error
}

func (f *flakyEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	n := f.calls.Add(1)
	if n <= f.failures {
		return nil, f.err
	}
	return []float32{1, 2}, nil
}

func (f *flakyEmbedder) Dimension() int { return 2 }

func fastRetry(inner Embedder, retries int) *RetryingEmbedder {
	return &RetryingEmbedder{inner: inner, maxRetries: retries, initial: time.Millisecond}
}

func TestRetryingEmbedderRecovers(t *testing.T) {
	inner := &flakyEmbedder{failures: 2, err: unavailable("test", &StatusError{Code: 503})}
	vec, err := fastRetry(inner, 3).Embed(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2}, vec)
	assert.Equal(t, int32(3), inner.calls.Load())
}

func TestRetryingEmbedderGivesUp(t *testing.T) {
	inner := &flakyEmbedder{failures: 10, err: unavailable("test", &StatusError{Code: 429})}
	_, err := fastRetry(inner, 2).Embed(context.Background(), "x")
	assert.True(t, errors.Is(err, apperrors.ErrProviderUnavailable))
	assert.Equal(t, int32(3), inner.calls.Load())
}

func TestRetryingEmbedderStopsOnClientError(t *testing.T) {
	inner := &flakyEmbedder{failures: 10, err: unavailable("test", &StatusError{Code: 400})}
	_, err := fastRetry(inner, 5).Embed(context.Background(), "x")
	assert.True(t, errors.Is(err, apperrors.ErrProviderUnavailable))
	assert.Equal(t, int32(1), inner.calls.Load())
}

func TestNewRetryingEmbedderPassthrough(t *testing.T) {
	inner := &testEmbedder{dim: 4}
	assert.Same(t, Embedder(inner), NewRetryingEmbedder(inner, 0))
	assert.Equal(t, 4, NewRetryingEmbedder(inner, 2).Dimension())
}

func TestNewEmbedderSelectsProvider(t *testing.T) {
	ctx := context.Background()

	e, err := NewEmbedder(ctx, &config.Config{})
	require.NoError(t, err)
	f, ok := e.(*FastAPIEmbedder)
	require.True(t, ok)
	assert.Equal(t, config.DefaultFastAPIURL, f.baseURL)
	assert.Equal(t, config.DefaultDimension, f.Dimension())

	e, err = NewEmbedder(ctx, &config.Config{Embedding: config.EmbeddingConfig{Provider: "openai", APIKey: "sk", MaxRetries: 2}})
	require.NoError(t, err)
	_, ok = e.(*RetryingEmbedder)
	assert.True(t, ok)

	_, err = NewEmbedder(ctx, &config.Config{Embedding: config.EmbeddingConfig{Provider: "openai"}})
	assert.Error(t, err)

	_, err = NewEmbedder(ctx, &config.Config{Embedding: config.EmbeddingConfig{Provider: "carrier-pigeon"}})
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"embedding":[1,2,3]}`))
	}))
	defer server.Close()

	assert.NoError(t, Validate(context.Background(), NewFastAPIEmbedder(server.URL, 3, time.Second)))

	err := Validate(context.Background(), NewFastAPIEmbedder(server.URL, 768, time.Second))
	assert.True(t, errors.Is(err, apperrors.ErrDimensionMismatch))
}

func TestUnavailableEmbedder(t *testing.T) {
	cause := errors.New("gemini provider requires an API key")
	e := NewUnavailableEmbedder(768, cause)

	vec, err := e.Embed(context.Background(), "anything")
	assert.Nil(t, vec)
	assert.True(t, errors.Is(err, apperrors.ErrProviderUnavailable))
	assert.ErrorContains(t, err, "requires an API key")
	assert.Equal(t, 768, e.Dimension())

	_, err = NewUnavailableEmbedder(3, nil).Embed(context.Background(), "x")
	assert.True(t, errors.Is(err, apperrors.ErrProviderUnavailable))
}
