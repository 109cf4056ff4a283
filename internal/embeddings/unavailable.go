// ABOUTME: Stand-in Embedder for a provider that could not be configured.
// ABOUTME: Every call fails with ErrProviderUnavailable so writes proceed unindexed.
package embeddings

import (
	"context"
	"fmt"
)

// UnavailableEmbedder reports the configuration error on every call.
type UnavailableEmbedder struct {
	dim   int
	cause error
}

// NewUnavailableEmbedder creates an Embedder that always fails with cause.
func NewUnavailableEmbedder(dim int, cause error) *UnavailableEmbedder {
	if cause == nil {
		cause = fmt.Errorf("no embedding provider configured")
	}
	return &UnavailableEmbedder{dim: dim, cause: cause}
}

// Embed always fails.
func (u *UnavailableEmbedder) Embed(context.Context, string) ([]float32, error) {
	return nil, unavailable("embedding provider", u.cause)
}

// Dimension returns the configured dimension.
func (u *UnavailableEmbedder) Dimension() int {
	return u.dim
}
