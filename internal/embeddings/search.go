// ABOUTME: Cosine similarity and the per-user similarity index over stored entry embeddings.
// ABOUTME: Queries are a linear scan of one user's indexed entries, ranked with a stable sort.
package embeddings

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"

	"github.com/2389-research/revibe/internal/apperrors"
	"github.com/2389-research/revibe/internal/logger"
	"github.com/2389-research/revibe/internal/models"
	"github.com/2389-research/revibe/internal/storage"
)

// DefaultLimit is the number of neighbors returned when the caller asks for none.
const DefaultLimit = 5

// CosineSimilarity computes the cosine similarity between two vectors.
// Vectors of different length are compared over their common prefix.
// A zero-magnitude vector scores 0.
func CosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	if n == 0 {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := 0; i < n; i++ {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}

// CheckDimension rejects a vector whose length differs from want.
func CheckDimension(vec []float32, want int) error {
	if want > 0 && len(vec) != want {
		return fmt.Errorf("%w: got %d, expected %d", apperrors.ErrDimensionMismatch, len(vec), want)
	}
	return nil
}

// Index stores one embedding per entry and answers nearest-neighbor queries.
type Index struct {
	store storage.EmbeddingStore
	log   *logger.Logger
}

// NewIndex creates an index over the given store.
func NewIndex(store storage.EmbeddingStore, log *logger.Logger) *Index {
	return &Index{store: store, log: log.With("component", "similarity_index")}
}

// Upsert stores or replaces an entry's vector without marking the entry as edited.
func (x *Index) Upsert(ctx context.Context, entryID uuid.UUID, vec []float32) error {
	return x.store.SetEmbedding(ctx, entryID, models.Vector(vec))
}

// Remove clears an entry's vector so it drops out of every query.
func (x *Index) Remove(ctx context.Context, entryID uuid.UUID) error {
	return x.store.SetEmbedding(ctx, entryID, nil)
}

// Query returns up to limit of userID's entries most similar to query, excluding excludeID.
// An empty query vector yields an empty result.
func (x *Index) Query(ctx context.Context, userID string, excludeID uuid.UUID, query []float32, limit int) ([]models.SimilarityResult, error) {
	if len(query) == 0 {
		return []models.SimilarityResult{}, nil
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	candidates, err := x.store.ListEmbedded(ctx, userID, excludeID)
	if err != nil {
		return nil, err
	}

	results := make([]models.SimilarityResult, 0, len(candidates))
	for _, c := range candidates {
		if c.UserID != userID || c.ID == excludeID || !c.HasEmbedding() {
			continue
		}
		if len(c.Embedding) != len(query) {
			x.log.Warn("embedding length mismatch", "entry_id", c.ID, "got", len(c.Embedding), "query", len(query))
		}

		var category *string
		if c.Identification != nil && c.Identification.MainCategory != "" {
			cat := c.Identification.MainCategory
			category = &cat
		}

		results = append(results, models.SimilarityResult{
			ID:          c.ID,
			Title:       c.Title,
			Description: c.Description,
			Category:    category,
			Score:       CosineSimilarity(query, c.Embedding),
			CreatedAt:   c.CreatedAt.Unix(),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if limit < len(results) {
		results = results[:limit]
	}
	return results, nil
}
