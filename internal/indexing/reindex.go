// ABOUTME: Bulk recomputation of every entry's embedding for maintenance and backfill.
// ABOUTME: A failure for one entry is counted and logged; the batch always continues.
package indexing

import (
	"context"
	"fmt"

	"github.com/2389-research/revibe/internal/logger"
	"github.com/2389-research/revibe/internal/models"
	"github.com/2389-research/revibe/internal/storage"
)

// Report summarizes a reindex run.
type Report struct {
	Indexed int `json:"indexed"`
	Failed  int `json:"failed"`
	Total   int `json:"total"`
}

// ProgressFunc is called after each entry with the running report.
type ProgressFunc func(entry *models.Entry, outcome Outcome, report Report)

// Reindexer drives the indexer across all stored entries.
type Reindexer struct {
	store    storage.EmbeddingStore
	indexer  *Indexer
	log      *logger.Logger
	progress ProgressFunc
}

// NewReindexer creates a reindexer over store.
func NewReindexer(store storage.EmbeddingStore, indexer *Indexer, log *logger.Logger) *Reindexer {
	return &Reindexer{store: store, indexer: indexer, log: log.With("component", "reindex")}
}

// OnProgress registers a callback invoked after every entry.
func (r *Reindexer) OnProgress(fn ProgressFunc) {
	r.progress = fn
}

// ReindexAll recomputes every entry's embedding. It returns an error only when the
// entries cannot be listed or ctx is cancelled; the partial report is returned either way.
func (r *Reindexer) ReindexAll(ctx context.Context) (Report, error) {
	var report Report

	entries, err := r.store.ListAll(ctx)
	if err != nil {
		return report, fmt.Errorf("list entries for reindex: %w", err)
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		report.Total++
		outcome := r.indexer.IndexEntry(ctx, entry)
		if outcome.Status == StatusIndexed {
			report.Indexed++
		} else {
			report.Failed++
			r.log.Warn("failed to index entry", "entry_id", entry.ID, "error", outcome.Err)
		}

		if r.progress != nil {
			r.progress(entry, outcome, report)
		}
	}

	r.log.Info("reindex complete", "indexed", report.Indexed, "failed", report.Failed, "total", report.Total)
	return report, nil
}
