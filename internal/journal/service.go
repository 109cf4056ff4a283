// ABOUTME: Application service for entries, attachments, the community feed, and similarity search.
// ABOUTME: Enforces ownership and attachment rules and fires the indexing trigger after writes.
package journal

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/2389-research/revibe/internal/apperrors"
	"github.com/2389-research/revibe/internal/indexing"
	"github.com/2389-research/revibe/internal/logger"
	"github.com/2389-research/revibe/internal/models"
	"github.com/2389-research/revibe/internal/storage"
)

// DefaultCommunityLimit caps the community feed page size when the caller asks for none.
const DefaultCommunityLimit = 20

// Deps wires the service to its collaborators.
type Deps struct {
	Entries   storage.JournalStore
	Comments  storage.CommentStore
	Indexer   *indexing.Indexer
	Reindexer *indexing.Reindexer
	Trigger   indexing.Trigger
	Log       *logger.Logger
}

// Service implements the journal operations shared by every surface.
type Service struct {
	entries   storage.JournalStore
	comments  storage.CommentStore
	indexer   *indexing.Indexer
	reindexer *indexing.Reindexer
	trigger   indexing.Trigger
	log       *logger.Logger
}

// NewService creates a journal service.
func NewService(d Deps) *Service {
	return &Service{
		entries:   d.Entries,
		comments:  d.Comments,
		indexer:   d.Indexer,
		reindexer: d.Reindexer,
		trigger:   d.Trigger,
		log:       d.Log.With("component", "journal"),
	}
}

// CreateEntry records a new entry for userID.
func (s *Service) CreateEntry(ctx context.Context, userID string, in EntryInput) (*models.Entry, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", apperrors.ErrInvalidInput)
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	entry := models.NewEntry(userID, in.Title, in.Description, in.Severity)
	in.apply(entry)
	if err := s.entries.CreateEntry(ctx, entry); err != nil {
		return nil, err
	}

	s.index(ctx, entry)
	return entry, nil
}

// GetEntry returns an entry visible to userID: their own, or a shared one.
func (s *Service) GetEntry(ctx context.Context, userID string, id uuid.UUID) (*models.Entry, error) {
	entry, err := s.entries.GetEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry.UserID != userID && !entry.IsPublic {
		return nil, forbidden(id)
	}
	return entry, nil
}

// ListEntries returns userID's entries, newest first.
func (s *Service) ListEntries(ctx context.Context, userID string, opts storage.ListOptions) ([]*models.Entry, error) {
	return s.entries.ListEntries(ctx, userID, opts)
}

// UpdateEntry replaces the content of one of userID's entries.
func (s *Service) UpdateEntry(ctx context.Context, userID string, id uuid.UUID, in EntryInput) (*models.Entry, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	entry, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	in.apply(entry)
	if err := s.entries.UpdateEntry(ctx, entry); err != nil {
		return nil, err
	}

	s.index(ctx, entry)
	return entry, nil
}

// DeleteEntry removes one of userID's entries with everything attached to it.
func (s *Service) DeleteEntry(ctx context.Context, userID string, id uuid.UUID) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	return s.entries.DeleteEntry(ctx, id)
}

// SetPublic shares or unshares one of userID's entries on the community feed.
func (s *Service) SetPublic(ctx context.Context, userID string, id uuid.UUID, public bool) (*models.Entry, error) {
	entry, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.entries.SetPublic(ctx, id, public); err != nil {
		return nil, err
	}
	entry.IsPublic = public
	return entry, nil
}

// CreateIdentification attaches the single identification an entry may have.
func (s *Service) CreateIdentification(ctx context.Context, userID string, entryID uuid.UUID, in IdentificationInput) (*models.Identification, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	entry, err := s.owned(ctx, userID, entryID)
	if err != nil {
		return nil, err
	}
	if entry.Identification != nil {
		return nil, fmt.Errorf("entry %s already has an identification: %w", entryID, apperrors.ErrConflict)
	}

	ident := models.NewIdentification(entryID, in.Tag, in.MainCategory, in.SubCategory, in.Assumptions, in.PatternRecognition)
	if err := s.entries.CreateIdentification(ctx, ident); err != nil {
		return nil, err
	}

	entry.Identification = ident
	s.index(ctx, entry)
	return ident, nil
}

// UpdateIdentification replaces an entry's identification.
func (s *Service) UpdateIdentification(ctx context.Context, userID string, entryID uuid.UUID, in IdentificationInput) (*models.Identification, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	entry, err := s.owned(ctx, userID, entryID)
	if err != nil {
		return nil, err
	}
	ident := entry.Identification
	if ident == nil {
		return nil, fmt.Errorf("identification for entry %s: %w", entryID, apperrors.ErrNotFound)
	}

	updated := models.NewIdentification(entryID, in.Tag, in.MainCategory, in.SubCategory, in.Assumptions, in.PatternRecognition)
	updated.ID = ident.ID
	updated.CreatedAt = ident.CreatedAt
	if err := s.entries.UpdateIdentification(ctx, updated); err != nil {
		return nil, err
	}

	entry.Identification = updated
	s.index(ctx, entry)
	return updated, nil
}

// DeleteIdentification removes an entry's identification. Without one the entry is
// no longer indexable, so its vector is cleared too.
func (s *Service) DeleteIdentification(ctx context.Context, userID string, entryID uuid.UUID) error {
	entry, err := s.owned(ctx, userID, entryID)
	if err != nil {
		return err
	}
	if err := s.entries.DeleteIdentification(ctx, entryID); err != nil {
		return err
	}

	entry.Identification = nil
	if err := s.indexer.Forget(ctx, entry); err != nil {
		s.log.Warn("failed to clear embedding", "entry_id", entryID, "error", err)
	}
	return nil
}

// CreateLearning attaches a learning. The entry must already be identified.
func (s *Service) CreateLearning(ctx context.Context, userID string, entryID uuid.UUID, in LearningInput) (*models.Learning, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	entry, err := s.owned(ctx, userID, entryID)
	if err != nil {
		return nil, err
	}
	if entry.Identification == nil {
		return nil, fmt.Errorf("entry %s needs an identification before a learning: %w", entryID, apperrors.ErrPrerequisite)
	}
	if entry.Learning != nil {
		return nil, fmt.Errorf("entry %s already has a learning: %w", entryID, apperrors.ErrConflict)
	}

	learning := &models.Learning{
		ID:               uuid.New(),
		EntryID:          entryID,
		ActionPlan:       in.ActionPlan,
		NextTimeStrategy: in.NextTimeStrategy,
		Resources:        in.Resources,
	}
	if err := s.entries.CreateLearning(ctx, learning); err != nil {
		return nil, err
	}

	entry.Learning = learning
	s.index(ctx, entry)
	return learning, nil
}

// UpdateLearning replaces an entry's learning.
func (s *Service) UpdateLearning(ctx context.Context, userID string, entryID uuid.UUID, in LearningInput) (*models.Learning, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	entry, err := s.owned(ctx, userID, entryID)
	if err != nil {
		return nil, err
	}
	learning := entry.Learning
	if learning == nil {
		return nil, fmt.Errorf("learning for entry %s: %w", entryID, apperrors.ErrNotFound)
	}

	learning.ActionPlan = in.ActionPlan
	learning.NextTimeStrategy = in.NextTimeStrategy
	learning.Resources = in.Resources
	if err := s.entries.UpdateLearning(ctx, learning); err != nil {
		return nil, err
	}

	s.index(ctx, entry)
	return learning, nil
}

// DeleteLearning removes an entry's learning and reindexes what remains.
func (s *Service) DeleteLearning(ctx context.Context, userID string, entryID uuid.UUID) error {
	entry, err := s.owned(ctx, userID, entryID)
	if err != nil {
		return err
	}
	if err := s.entries.DeleteLearning(ctx, entryID); err != nil {
		return err
	}

	entry.Learning = nil
	s.index(ctx, entry)
	return nil
}

// FindSimilar returns the owner's reflections closest to an entry. Only the owner may ask.
// Indexing and provider failures degrade to an empty list.
func (s *Service) FindSimilar(ctx context.Context, userID string, entryID uuid.UUID, limit int) ([]models.SimilarityResult, error) {
	entry, err := s.owned(ctx, userID, entryID)
	if err != nil {
		return nil, err
	}

	results, err := s.indexer.FindSimilar(ctx, entry, limit)
	if err != nil {
		s.log.Warn("similarity search failed", "entry_id", entryID, "error", err)
		return []models.SimilarityResult{}, nil
	}
	return results, nil
}

// Community returns shared entries from every user, newest first.
func (s *Service) Community(ctx context.Context, opts storage.ListOptions) ([]*models.Entry, error) {
	if opts.Limit <= 0 {
		opts.Limit = DefaultCommunityLimit
	}
	return s.entries.ListPublic(ctx, opts)
}

// AddComment posts a comment as userID on a shared entry, its identification, or userID's own entry.
func (s *Service) AddComment(ctx context.Context, userID, authorName string, in CommentInput) (*models.Comment, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkCommentable(ctx, userID, in.CommentableType, in.CommentableID); err != nil {
		return nil, err
	}

	comment := models.NewComment(userID, authorName, in.CommentableType, in.CommentableID, in.Content)
	if err := s.comments.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// ListComments returns comments on a target visible to userID, newest first.
func (s *Service) ListComments(ctx context.Context, userID, commentableType string, commentableID uuid.UUID) ([]*models.Comment, error) {
	if !models.IsValidCommentable(commentableType) {
		return nil, fmt.Errorf("%w: unknown commentable_type %q", apperrors.ErrInvalidInput, commentableType)
	}
	if err := s.checkCommentable(ctx, userID, commentableType, commentableID); err != nil {
		return nil, err
	}
	return s.comments.ListComments(ctx, commentableType, commentableID)
}

// Reindex recomputes every entry's embedding.
func (s *Service) Reindex(ctx context.Context) (indexing.Report, error) {
	return s.reindexer.ReindexAll(ctx)
}

// checkCommentable resolves a comment target to its entry and checks visibility.
func (s *Service) checkCommentable(ctx context.Context, userID, commentableType string, id uuid.UUID) error {
	entryID := id
	if commentableType == models.CommentOnIdentification {
		ident, err := s.comments.GetIdentification(ctx, id)
		if err != nil {
			return err
		}
		entryID = ident.EntryID
	}

	entry, err := s.entries.GetEntry(ctx, entryID)
	if err != nil {
		return err
	}
	if !entry.IsPublic && entry.UserID != userID {
		return forbidden(entryID)
	}
	return nil
}

// owned loads an entry and checks that userID owns it.
func (s *Service) owned(ctx context.Context, userID string, id uuid.UUID) (*models.Entry, error) {
	entry, err := s.entries.GetEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry.UserID != userID {
		return nil, forbidden(id)
	}
	return entry, nil
}

// index fires the trigger and logs the outcome. Indexing never fails a write.
func (s *Service) index(ctx context.Context, entry *models.Entry) {
	outcome := s.trigger.Trigger(ctx, entry)
	switch outcome.Status {
	case indexing.StatusFailed:
		s.log.Warn("failed to index entry", "entry_id", entry.ID, "error", outcome.Err)
	default:
		s.log.Debug("index trigger", "entry_id", entry.ID, "status", outcome.Status)
	}
}

func forbidden(id uuid.UUID) error {
	return fmt.Errorf("entry %s: %w", id, apperrors.ErrForbidden)
}
