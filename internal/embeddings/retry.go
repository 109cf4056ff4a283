// ABOUTME: Retrying wrapper that re-attempts transient embedding failures with exponential backoff.
// ABOUTME: Client errors other than 408 and 429 stop retrying immediately.
package embeddings

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryingEmbedder retries a wrapped Embedder up to maxRetries extra times.
type RetryingEmbedder struct {
	inner      Embedder
	maxRetries int
	initial    time.Duration
}

// NewRetryingEmbedder wraps inner. maxRetries <= 0 returns inner unchanged.
func NewRetryingEmbedder(inner Embedder, maxRetries int) Embedder {
	if maxRetries <= 0 {
		return inner
	}
	return &RetryingEmbedder{inner: inner, maxRetries: maxRetries, initial: 500 * time.Millisecond}
}

// Embed calls the wrapped embedder until it succeeds, fails permanently, or runs out of attempts.
func (r *RetryingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = r.initial
	bo.MaxElapsedTime = 0

	policy := backoff.WithContext(backoff.WithMaxRetries(bo, uint64(r.maxRetries)), ctx)

	var vec []float32
	err := backoff.Retry(func() error {
		v, err := r.inner.Embed(ctx, text)
		if err != nil {
			if isPermanent(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		vec = v
		return nil
	}, policy)
	if err != nil {
		return nil, err
	}
	return vec, nil
}

// Dimension returns the wrapped embedder's dimension.
func (r *RetryingEmbedder) Dimension() int {
	return r.inner.Dimension()
}
