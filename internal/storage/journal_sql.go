// ABOUTME: gorm-backed journal storage for entries, identifications, learnings, and embeddings.
// ABOUTME: Writes skip associations; attachments and the embedding column have their own methods.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/2389-research/revibe/internal/apperrors"
	"github.com/2389-research/revibe/internal/models"
)

// CreateEntry persists a new entry.
func (s *SQLStore) CreateEntry(ctx context.Context, entry *models.Entry) error {
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create entry: %w", err)
	}
	return nil
}

// UpdateEntry saves every content field, including zero values. Identity, ownership,
// creation time, and the embedding are never written here.
func (s *SQLStore) UpdateEntry(ctx context.Context, entry *models.Entry) error {
	res := s.db.WithContext(ctx).
		Model(entry).
		Select("*").
		Omit("ID", "UserID", "CreatedAt", "Embedding", clause.Associations).
		Updates(entry)
	if res.Error != nil {
		return fmt.Errorf("failed to update entry: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("entry %s: %w", entry.ID, apperrors.ErrNotFound)
	}
	return nil
}

// GetEntry loads an entry with its identification and learning.
func (s *SQLStore) GetEntry(ctx context.Context, id uuid.UUID) (*models.Entry, error) {
	var entry models.Entry
	err := s.db.WithContext(ctx).
		Preload("Identification").
		Preload("Learning").
		First(&entry, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err, "entry", id)
	}
	return &entry, nil
}

// ListEntries returns a user's entries, newest first.
func (s *SQLStore) ListEntries(ctx context.Context, userID string, opts ListOptions) ([]*models.Entry, error) {
	var entries []*models.Entry
	err := paginate(s.db.WithContext(ctx), opts).
		Preload("Identification").
		Preload("Learning").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	return entries, nil
}

// DeleteEntry removes an entry, its attachments, and every comment on either.
func (s *SQLStore) DeleteEntry(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var identIDs []uuid.UUID
		if err := tx.Model(&models.Identification{}).Where("entry_id = ?", id).Pluck("id", &identIDs).Error; err != nil {
			return fmt.Errorf("failed to find identification: %w", err)
		}

		comments := tx.Where("commentable_type = ? AND commentable_id = ?", models.CommentOnEvent, id)
		if len(identIDs) > 0 {
			comments = comments.Or("commentable_type = ? AND commentable_id IN ?", models.CommentOnIdentification, identIDs)
		}
		if err := comments.Delete(&models.Comment{}).Error; err != nil {
			return fmt.Errorf("failed to delete comments: %w", err)
		}

		if err := tx.Where("entry_id = ?", id).Delete(&models.Identification{}).Error; err != nil {
			return fmt.Errorf("failed to delete identification: %w", err)
		}
		if err := tx.Where("entry_id = ?", id).Delete(&models.Learning{}).Error; err != nil {
			return fmt.Errorf("failed to delete learning: %w", err)
		}

		res := tx.Where("id = ?", id).Delete(&models.Entry{})
		if res.Error != nil {
			return fmt.Errorf("failed to delete entry: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("entry %s: %w", id, apperrors.ErrNotFound)
		}
		return nil
	})
}

// SetPublic toggles community visibility.
func (s *SQLStore) SetPublic(ctx context.Context, id uuid.UUID, public bool) error {
	res := s.db.WithContext(ctx).Model(&models.Entry{}).Where("id = ?", id).Update("is_public", public)
	if res.Error != nil {
		return fmt.Errorf("failed to update visibility: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("entry %s: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

// ListPublic returns shared entries from all users, newest first.
func (s *SQLStore) ListPublic(ctx context.Context, opts ListOptions) ([]*models.Entry, error) {
	var entries []*models.Entry
	err := paginate(s.db.WithContext(ctx), opts).
		Preload("Identification").
		Preload("Learning").
		Where("is_public = ?", true).
		Order("created_at DESC, id DESC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list public entries: %w", err)
	}
	return entries, nil
}

// CreateIdentification attaches an identification. A second one for the same entry conflicts.
func (s *SQLStore) CreateIdentification(ctx context.Context, ident *models.Identification) error {
	if err := s.db.WithContext(ctx).Create(ident).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("entry %s already has an identification: %w", ident.EntryID, apperrors.ErrConflict)
		}
		return fmt.Errorf("failed to create identification: %w", err)
	}
	return nil
}

// UpdateIdentification saves every field of an existing identification.
func (s *SQLStore) UpdateIdentification(ctx context.Context, ident *models.Identification) error {
	if err := s.db.WithContext(ctx).Save(ident).Error; err != nil {
		return fmt.Errorf("failed to update identification: %w", err)
	}
	return nil
}

// DeleteIdentification removes an entry's identification and the comments on it.
func (s *SQLStore) DeleteIdentification(ctx context.Context, entryID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ident models.Identification
		if err := tx.First(&ident, "entry_id = ?", entryID).Error; err != nil {
			return notFound(err, "identification for entry", entryID)
		}
		if err := tx.Where("commentable_type = ? AND commentable_id = ?", models.CommentOnIdentification, ident.ID).
			Delete(&models.Comment{}).Error; err != nil {
			return fmt.Errorf("failed to delete comments: %w", err)
		}
		if err := tx.Delete(&ident).Error; err != nil {
			return fmt.Errorf("failed to delete identification: %w", err)
		}
		return nil
	})
}

// CreateLearning attaches a learning. A second one for the same entry conflicts.
func (s *SQLStore) CreateLearning(ctx context.Context, learning *models.Learning) error {
	if err := s.db.WithContext(ctx).Create(learning).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("entry %s already has a learning: %w", learning.EntryID, apperrors.ErrConflict)
		}
		return fmt.Errorf("failed to create learning: %w", err)
	}
	return nil
}

// UpdateLearning saves every field of an existing learning.
func (s *SQLStore) UpdateLearning(ctx context.Context, learning *models.Learning) error {
	if err := s.db.WithContext(ctx).Save(learning).Error; err != nil {
		return fmt.Errorf("failed to update learning: %w", err)
	}
	return nil
}

// DeleteLearning removes an entry's learning.
func (s *SQLStore) DeleteLearning(ctx context.Context, entryID uuid.UUID) error {
	res := s.db.WithContext(ctx).Where("entry_id = ?", entryID).Delete(&models.Learning{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete learning: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("learning for entry %s: %w", entryID, apperrors.ErrNotFound)
	}
	return nil
}

// SetEmbedding writes the vector column only. UpdateColumn skips hooks and
// leaves updated_at alone, so storing a vector never looks like a content edit.
func (s *SQLStore) SetEmbedding(ctx context.Context, id uuid.UUID, vec models.Vector) error {
	res := s.db.WithContext(ctx).Model(&models.Entry{}).Where("id = ?", id).UpdateColumn("embedding", vec)
	if res.Error != nil {
		return fmt.Errorf("failed to store embedding: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("entry %s: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

// ListEmbedded returns a user's indexed entries except excludeID, oldest first.
func (s *SQLStore) ListEmbedded(ctx context.Context, userID string, excludeID uuid.UUID) ([]*models.Entry, error) {
	var entries []*models.Entry
	err := s.db.WithContext(ctx).
		Preload("Identification").
		Where("user_id = ? AND id <> ? AND embedding IS NOT NULL", userID, excludeID).
		Order("created_at ASC, id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list embedded entries: %w", err)
	}
	return entries, nil
}

// ListAll returns every entry with attachments preloaded, oldest first.
func (s *SQLStore) ListAll(ctx context.Context) ([]*models.Entry, error) {
	var entries []*models.Entry
	err := s.db.WithContext(ctx).
		Preload("Identification").
		Preload("Learning").
		Order("created_at ASC, id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	return entries, nil
}

func paginate(db *gorm.DB, opts ListOptions) *gorm.DB {
	if opts.Limit > 0 {
		db = db.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		db = db.Offset(opts.Offset)
	}
	return db
}

func notFound(err error, what string, id uuid.UUID) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %s: %w", what, id, apperrors.ErrNotFound)
	}
	return fmt.Errorf("failed to load %s %s: %w", what, id, err)
}
