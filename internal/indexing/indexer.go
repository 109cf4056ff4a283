// ABOUTME: Indexes one entry at a time: build text, embed, check length, store the vector.
// ABOUTME: Returns an explicit Outcome instead of an error so callers can log and move on.
package indexing

import (
	"context"
	"fmt"
	"time"

	"github.com/2389-research/revibe/internal/embeddings"
	"github.com/2389-research/revibe/internal/logger"
	"github.com/2389-research/revibe/internal/models"
)

// Status describes what happened to an indexing request.
type Status string

const (
	StatusIndexed Status = "indexed"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
	StatusQueued  Status = "queued"
)

// Outcome is the result of one best-effort indexing attempt.
type Outcome struct {
	Status Status
	Err    error
}

// OK returns true unless the attempt failed.
func (o Outcome) OK() bool {
	return o.Status != StatusFailed
}

func failed(err error) Outcome {
	return Outcome{Status: StatusFailed, Err: err}
}

// Indexer computes and stores embeddings for entries.
type Indexer struct {
	embedder embeddings.Embedder
	index    *embeddings.Index
	timeout  time.Duration
	log      *logger.Logger
}

// NewIndexer creates an indexer. timeout bounds each provider call; 0 means no extra bound.
func NewIndexer(embedder embeddings.Embedder, index *embeddings.Index, timeout time.Duration, log *logger.Logger) *Indexer {
	return &Indexer{
		embedder: embedder,
		index:    index,
		timeout:  timeout,
		log:      log.With("component", "indexer"),
	}
}

// IndexEntry embeds the entry's document text and upserts the vector.
// The entry must have its identification and learning loaded.
func (i *Indexer) IndexEntry(ctx context.Context, entry *models.Entry) Outcome {
	if err := ctx.Err(); err != nil {
		return failed(err)
	}

	embedCtx := ctx
	if i.timeout > 0 {
		var cancel context.CancelFunc
		embedCtx, cancel = context.WithTimeout(ctx, i.timeout)
		defer cancel()
	}

	vec, err := i.embedder.Embed(embedCtx, embeddings.BuildDocumentText(entry))
	if err != nil {
		return failed(fmt.Errorf("embed entry %s: %w", entry.ID, err))
	}
	if err := embeddings.CheckDimension(vec, i.embedder.Dimension()); err != nil {
		return failed(fmt.Errorf("embed entry %s: %w", entry.ID, err))
	}
	if err := i.index.Upsert(ctx, entry.ID, vec); err != nil {
		return failed(err)
	}

	entry.Embedding = vec
	i.log.Debug("indexed entry", "entry_id", entry.ID, "dimension", len(vec))
	return Outcome{Status: StatusIndexed}
}

// Forget clears the stored vector of an entry that can no longer be indexed.
func (i *Indexer) Forget(ctx context.Context, entry *models.Entry) error {
	if err := i.index.Remove(ctx, entry.ID); err != nil {
		return fmt.Errorf("clear embedding for entry %s: %w", entry.ID, err)
	}
	entry.Embedding = nil
	return nil
}

// FindSimilar returns the owner's entries nearest to entry. An entry that has not
// been indexed yet has no neighbors.
func (i *Indexer) FindSimilar(ctx context.Context, entry *models.Entry, limit int) ([]models.SimilarityResult, error) {
	if !entry.HasEmbedding() {
		return []models.SimilarityResult{}, nil
	}
	return i.index.Query(ctx, entry.UserID, entry.ID, entry.Embedding, limit)
}
