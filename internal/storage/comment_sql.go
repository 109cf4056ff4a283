// ABOUTME: gorm-backed storage for community comments on shared entries and identifications.
// ABOUTME: Comments are polymorphic on (commentable_type, commentable_id).
package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/2389-research/revibe/internal/models"
)

// CreateComment persists a comment.
func (s *SQLStore) CreateComment(ctx context.Context, comment *models.Comment) error {
	if err := s.db.WithContext(ctx).Create(comment).Error; err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

// ListComments returns comments on one target, newest first.
func (s *SQLStore) ListComments(ctx context.Context, commentableType string, commentableID uuid.UUID) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := s.db.WithContext(ctx).
		Where("commentable_type = ? AND commentable_id = ?", commentableType, commentableID).
		Order("created_at DESC, id DESC").
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

// GetIdentification loads an identification by its own id.
func (s *SQLStore) GetIdentification(ctx context.Context, id uuid.UUID) (*models.Identification, error) {
	var ident models.Identification
	if err := s.db.WithContext(ctx).First(&ident, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "identification", id)
	}
	return &ident, nil
}
