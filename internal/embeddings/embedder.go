// ABOUTME: Embedding interface and shared error handling for the remote providers.
// ABOUTME: Every provider failure wraps apperrors.ErrProviderUnavailable and may carry an HTTP status.
package embeddings

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/sashabaranov/go-openai"
	"google.golang.org/genai"

	"github.com/2389-research/revibe/internal/apperrors"
)

// Embedder generates vector embeddings from text.
type Embedder interface {
	// Embed returns a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimension returns the dimensionality of the output vectors.
	Dimension() int
}

// StatusError reports a non-2xx answer from an embedding endpoint.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("embedding service returned %d: %s", e.Code, e.Body)
}

// unavailable wraps err so callers can match ErrProviderUnavailable.
func unavailable(provider string, err error) error {
	return fmt.Errorf("%s: %w: %w", provider, apperrors.ErrProviderUnavailable, err)
}

// statusCode extracts an HTTP status from any provider error, or 0 if there is none.
func statusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code
	}
	var gerr *genai.APIError
	if errors.As(err, &gerr) {
		return gerr.Code
	}
	var oerr *openai.APIError
	if errors.As(err, &oerr) {
		return oerr.HTTPStatusCode
	}
	var rerr *openai.RequestError
	if errors.As(err, &rerr) {
		return rerr.HTTPStatusCode
	}
	return 0
}

// isPermanent returns true for client errors that retrying cannot fix.
func isPermanent(err error) bool {
	if errors.Is(err, apperrors.ErrDimensionMismatch) {
		return true
	}
	code := statusCode(err)
	return code >= 400 && code < 500 && code != http.StatusTooManyRequests && code != http.StatusRequestTimeout
}
