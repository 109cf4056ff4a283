// ABOUTME: Tests for the indexer, bulk reindex, and both trigger modes against a temp sqlite store.
// ABOUTME: Uses scripted embedders to simulate provider failures and wrong-length vectors.
package indexing

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389-research/revibe/internal/apperrors"
	"github.com/2389-research/revibe/internal/embeddings"
	"github.com/2389-research/revibe/internal/logger"
	"github.com/2389-research/revibe/internal/models"
	"github.com/2389-research/revibe/internal/storage"
)

// scriptedEmbedder returns a fixed vector, failing for texts containing failOn.
type scriptedEmbedder struct {
	mu     sync.Mutex
	dim    int
	vec    []float32
	failOn string
	block  chan struct{}
	calls  int
}

func (s *scriptedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.failOn != "" && strings.Contains(text, s.failOn) {
		return nil, apperrors.ErrProviderUnavailable
	}
	return s.vec, nil
}

func (s *scriptedEmbedder) Dimension() int { return s.dim }

func (s *scriptedEmbedder) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type fixture struct {
	store   *storage.SQLStore
	indexer *Indexer
	emb     *scriptedEmbedder
}

func newFixture(t *testing.T, emb *scriptedEmbedder) *fixture {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "revibe.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	log := logger.NewNop()
	idx := embeddings.NewIndex(store, log)
	return &fixture{store: store, indexer: NewIndexer(emb, idx, time.Second, log), emb: emb}
}

func (f *fixture) entry(t *testing.T, userID, title string, identified bool) *models.Entry {
	t.Helper()
	ctx := context.Background()
	e := models.NewEntry(userID, title, "description", 2)
	require.NoError(t, f.store.CreateEntry(ctx, e))
	if identified {
		ident := models.NewIdentification(e.ID, "tag", "", "", models.Assumptions{}, models.PatternRecognition{})
		require.NoError(t, f.store.CreateIdentification(ctx, ident))
	}
	loaded, err := f.store.GetEntry(ctx, e.ID)
	require.NoError(t, err)
	return loaded
}

func TestIndexEntryStoresVector(t *testing.T) {
	f := newFixture(t, &scriptedEmbedder{dim: 3, vec: []float32{1, 0, 0}})
	e := f.entry(t, "user-1", "first", true)

	outcome := f.indexer.IndexEntry(context.Background(), e)
	assert.Equal(t, StatusIndexed, outcome.Status)
	assert.NoError(t, outcome.Err)

	got, err := f.store.GetEntry(context.Background(), e.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Vector{1, 0, 0}, got.Embedding)
}

func TestIndexEntryProviderFailure(t *testing.T) {
	f := newFixture(t, &scriptedEmbedder{dim: 3, vec: []float32{1, 0, 0}, failOn: "doomed"})
	e := f.entry(t, "user-1", "doomed", true)

	outcome := f.indexer.IndexEntry(context.Background(), e)
	assert.Equal(t, StatusFailed, outcome.Status)
	assert.True(t, errors.Is(outcome.Err, apperrors.ErrProviderUnavailable))
	assert.False(t, outcome.OK())

	got, err := f.store.GetEntry(context.Background(), e.ID)
	require.NoError(t, err)
	assert.False(t, got.HasEmbedding())
}

func TestIndexEntryRejectsWrongDimension(t *testing.T) {
	f := newFixture(t, &scriptedEmbedder{dim: 768, vec: []float32{1, 0, 0}})
	e := f.entry(t, "user-1", "short", true)

	outcome := f.indexer.IndexEntry(context.Background(), e)
	assert.Equal(t, StatusFailed, outcome.Status)
	assert.True(t, errors.Is(outcome.Err, apperrors.ErrDimensionMismatch))
}

func TestFindSimilar(t *testing.T) {
	f := newFixture(t, &scriptedEmbedder{dim: 3, vec: []float32{1, 0, 0}})
	ctx := context.Background()

	a := f.entry(t, "user-1", "a", true)
	b := f.entry(t, "user-1", "b", true)
	c := f.entry(t, "user-2", "c", true)
	for _, e := range []*models.Entry{a, b, c} {
		require.Equal(t, StatusIndexed, f.indexer.IndexEntry(ctx, e).Status)
	}

	results, err := f.indexer.FindSimilar(ctx, a, 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, b.ID, results[0].ID)
	assert.InDelta(t, 1.0, results[0].Score, 1e-9)
}

func TestFindSimilarUnindexedEntry(t *testing.T) {
	f := newFixture(t, &scriptedEmbedder{dim: 3, vec: []float32{1, 0, 0}})
	ctx := context.Background()

	a := f.entry(t, "user-1", "a", true)
	b := f.entry(t, "user-1", "b", true)
	require.Equal(t, StatusIndexed, f.indexer.IndexEntry(ctx, b).Status)

	results, err := f.indexer.FindSimilar(ctx, a, 5)
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestReindexAllCountsFailures(t *testing.T) {
	f := newFixture(t, &scriptedEmbedder{dim: 3, vec: []float32{1, 0, 0}, failOn: "broken"})
	f.entry(t, "user-1", "fine one", true)
	f.entry(t, "user-1", "broken one", true)
	f.entry(t, "user-2", "fine two", false)

	r := NewReindexer(f.store, f.indexer, logger.NewNop())
	var seen int
	r.OnProgress(func(_ *models.Entry, _ Outcome, report Report) {
		seen++
		assert.Equal(t, seen, report.Total)
	})

	report, err := r.ReindexAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Report{Indexed: 2, Failed: 1, Total: 3}, report)
	assert.Equal(t, 3, seen)
	assert.LessOrEqual(t, report.Indexed+report.Failed, report.Total)
}

func TestReindexAllEmpty(t *testing.T) {
	f := newFixture(t, &scriptedEmbedder{dim: 3, vec: []float32{1, 0, 0}})
	report, err := NewReindexer(f.store, f.indexer, logger.NewNop()).ReindexAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Report{}, report)
}

func TestReindexAllIsIdempotent(t *testing.T) {
	f := newFixture(t, &scriptedEmbedder{dim: 3, vec: []float32{0, 1, 0}})
	f.entry(t, "user-1", "a", true)
	f.entry(t, "user-1", "b", false)

	r := NewReindexer(f.store, f.indexer, logger.NewNop())
	first, err := r.ReindexAll(context.Background())
	require.NoError(t, err)
	second, err := r.ReindexAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 4, f.emb.callCount())
}

func TestReindexAllCancelled(t *testing.T) {
	f := newFixture(t, &scriptedEmbedder{dim: 3, vec: []float32{1, 0, 0}})
	f.entry(t, "user-1", "a", true)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewReindexer(f.store, f.indexer, logger.NewNop()).ReindexAll(ctx)
	assert.Error(t, err)
}

func TestSyncTrigger(t *testing.T) {
	f := newFixture(t, &scriptedEmbedder{dim: 3, vec: []float32{1, 0, 0}})
	trigger := NewSyncTrigger(f.indexer)
	defer func() { _ = trigger.Close() }()

	plain := f.entry(t, "user-1", "plain", false)
	assert.Equal(t, StatusSkipped, trigger.Trigger(context.Background(), plain).Status)

	identified := f.entry(t, "user-1", "identified", true)
	assert.Equal(t, StatusIndexed, trigger.Trigger(context.Background(), identified).Status)
}

func TestQueueIndexesInBackground(t *testing.T) {
	f := newFixture(t, &scriptedEmbedder{dim: 3, vec: []float32{1, 0, 0}})
	q := NewQueue(f.indexer, f.store, 2, 8, logger.NewNop())

	e := f.entry(t, "user-1", "queued", true)
	outcome := q.Trigger(context.Background(), e)
	assert.Equal(t, StatusQueued, outcome.Status)

	require.NoError(t, q.Close())

	got, err := f.store.GetEntry(context.Background(), e.ID)
	require.NoError(t, err)
	assert.True(t, got.HasEmbedding())

	assert.Equal(t, StatusFailed, q.Trigger(context.Background(), e).Status)
	assert.NoError(t, q.Close())
}

func TestQueueFull(t *testing.T) {
	emb := &scriptedEmbedder{dim: 3, vec: []float32{1, 0, 0}, block: make(chan struct{})}
	f := newFixture(t, emb)
	q := NewQueue(f.indexer, f.store, 1, 1, logger.NewNop())

	e := f.entry(t, "user-1", "busy", true)

	// One job occupies the worker, one fills the buffer; the next must be rejected.
	var outcomes []Outcome
	for i := 0; i < 3; i++ {
		outcomes = append(outcomes, q.Trigger(context.Background(), e))
		time.Sleep(20 * time.Millisecond)
	}
	assert.Equal(t, StatusQueued, outcomes[0].Status)
	assert.Equal(t, StatusQueued, outcomes[1].Status)
	assert.Equal(t, StatusFailed, outcomes[2].Status)
	assert.True(t, errors.Is(outcomes[2].Err, apperrors.ErrQueueFull))

	close(emb.block)
	require.NoError(t, q.Close())
}

func TestQueueSkipsUnidentified(t *testing.T) {
	f := newFixture(t, &scriptedEmbedder{dim: 3, vec: []float32{1, 0, 0}})
	q := NewQueue(f.indexer, f.store, 1, 1, logger.NewNop())
	defer func() { _ = q.Close() }()

	e := f.entry(t, "user-1", "plain", false)
	assert.Equal(t, StatusSkipped, q.Trigger(context.Background(), e).Status)
}
