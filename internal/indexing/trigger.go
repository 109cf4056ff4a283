// ABOUTME: Index-on-write triggers: inline (sync) or a bounded worker queue (async).
// ABOUTME: Entries without an identification are skipped; nothing here fails the primary write.
package indexing

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/2389-research/revibe/internal/apperrors"
	"github.com/2389-research/revibe/internal/logger"
	"github.com/2389-research/revibe/internal/models"
	"github.com/2389-research/revibe/internal/storage"
)

var errQueueClosed = errors.New("index queue closed")

// Trigger reacts to an entry write by (re)computing its embedding.
type Trigger interface {
	// Trigger requests indexing for an entry that was just written.
	Trigger(ctx context.Context, entry *models.Entry) Outcome

	// Close stops background work, if any.
	Close() error
}

// SyncTrigger indexes inline with the write.
type SyncTrigger struct {
	indexer *Indexer
}

// NewSyncTrigger creates an inline trigger.
func NewSyncTrigger(indexer *Indexer) *SyncTrigger {
	return &SyncTrigger{indexer: indexer}
}

// Trigger indexes the entry now if it has an identification.
func (t *SyncTrigger) Trigger(ctx context.Context, entry *models.Entry) Outcome {
	if entry.Identification == nil {
		return Outcome{Status: StatusSkipped}
	}
	return t.indexer.IndexEntry(ctx, entry)
}

// Close is a no-op.
func (t *SyncTrigger) Close() error {
	return nil
}

// Queue indexes entries on a fixed pool of background workers.
type Queue struct {
	indexer *Indexer
	store   storage.EmbeddingStore
	log     *logger.Logger

	jobs   chan uuid.UUID
	group  *errgroup.Group
	cancel context.CancelFunc

	mu     sync.RWMutex
	closed bool
}

// NewQueue starts workers draining a queue of the given capacity.
func NewQueue(indexer *Indexer, store storage.EmbeddingStore, workers, size int, log *logger.Logger) *Queue {
	if workers <= 0 {
		workers = 1
	}
	if size <= 0 {
		size = 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	g, gctx := errgroup.WithContext(ctx)

	q := &Queue{
		indexer: indexer,
		store:   store,
		log:     log.With("component", "index_queue"),
		jobs:    make(chan uuid.UUID, size),
		group:   g,
		cancel:  cancel,
	}
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			q.work(gctx)
			return nil
		})
	}
	return q
}

// Trigger enqueues the entry id. A full queue fails fast with ErrQueueFull.
func (q *Queue) Trigger(_ context.Context, entry *models.Entry) Outcome {
	if entry.Identification == nil {
		return Outcome{Status: StatusSkipped}
	}

	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return failed(errQueueClosed)
	}

	select {
	case q.jobs <- entry.ID:
		return Outcome{Status: StatusQueued}
	default:
		return failed(fmt.Errorf("enqueue entry %s: %w", entry.ID, apperrors.ErrQueueFull))
	}
}

// Close stops accepting work, drains queued jobs, and waits for the workers.
func (q *Queue) Close() error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	close(q.jobs)
	q.mu.Unlock()

	err := q.group.Wait()
	q.cancel()
	return err
}

func (q *Queue) work(ctx context.Context) {
	for id := range q.jobs {
		q.process(ctx, id)
	}
}

// process reloads the entry so the vector reflects its latest content.
func (q *Queue) process(ctx context.Context, id uuid.UUID) {
	entry, err := q.store.GetEntry(ctx, id)
	if err != nil {
		q.log.Warn("queued entry vanished", "entry_id", id, "error", err)
		return
	}
	if entry.Identification == nil {
		return
	}
	if outcome := q.indexer.IndexEntry(ctx, entry); !outcome.OK() {
		q.log.Warn("async indexing failed", "entry_id", id, "error", outcome.Err)
	}
}
