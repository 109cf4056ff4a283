// ABOUTME: Interface definitions for journal entry, embedding, and comment storage.
// ABOUTME: Defines the contracts the journal service, indexer, and similarity index depend on.
package storage

import (
	"context"

	"github.com/google/uuid"

	"github.com/2389-research/revibe/internal/models"
)

// ListOptions configures pagination for list queries.
type ListOptions struct {
	Limit  int
	Offset int
}

// JournalStore defines operations for journal entry persistence.
type JournalStore interface {
	// CreateEntry persists a new entry. Attachments are written separately.
	CreateEntry(ctx context.Context, entry *models.Entry) error

	// UpdateEntry saves the entry's content fields. The embedding column is left untouched.
	UpdateEntry(ctx context.Context, entry *models.Entry) error

	// GetEntry loads an entry with its identification and learning.
	GetEntry(ctx context.Context, id uuid.UUID) (*models.Entry, error)

	// ListEntries returns a user's entries, newest first.
	ListEntries(ctx context.Context, userID string, opts ListOptions) ([]*models.Entry, error)

	// DeleteEntry removes an entry together with its attachments and comments.
	DeleteEntry(ctx context.Context, id uuid.UUID) error

	// SetPublic toggles community visibility.
	SetPublic(ctx context.Context, id uuid.UUID, public bool) error

	// ListPublic returns shared entries from all users, newest first.
	ListPublic(ctx context.Context, opts ListOptions) ([]*models.Entry, error)

	CreateIdentification(ctx context.Context, ident *models.Identification) error
	UpdateIdentification(ctx context.Context, ident *models.Identification) error
	DeleteIdentification(ctx context.Context, entryID uuid.UUID) error

	CreateLearning(ctx context.Context, learning *models.Learning) error
	UpdateLearning(ctx context.Context, learning *models.Learning) error
	DeleteLearning(ctx context.Context, entryID uuid.UUID) error

	// Close releases any resources held by the store.
	Close() error
}

// EmbeddingStore defines the narrow persistence surface used by indexing.
type EmbeddingStore interface {
	// SetEmbedding writes the vector without firing hooks or touching updated_at.
	SetEmbedding(ctx context.Context, id uuid.UUID, vec models.Vector) error

	// ListEmbedded returns a user's entries with a non-null embedding, excluding one id,
	// in natural order (created_at, id).
	ListEmbedded(ctx context.Context, userID string, excludeID uuid.UUID) ([]*models.Entry, error)

	// ListAll returns every entry in the system with attachments preloaded.
	ListAll(ctx context.Context) ([]*models.Entry, error)

	// GetEntry loads an entry with its identification and learning.
	GetEntry(ctx context.Context, id uuid.UUID) (*models.Entry, error)
}

// CommentStore defines operations for community comment persistence.
type CommentStore interface {
	CreateComment(ctx context.Context, comment *models.Comment) error

	// ListComments returns comments on one target, newest first.
	ListComments(ctx context.Context, commentableType string, commentableID uuid.UUID) ([]*models.Comment, error)

	// GetIdentification loads an identification by its own id.
	GetIdentification(ctx context.Context, id uuid.UUID) (*models.Identification, error)
}
