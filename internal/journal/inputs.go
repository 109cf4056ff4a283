// ABOUTME: Request payloads accepted by the journal service and their validation rules.
// ABOUTME: Shared by the HTTP API, the MCP tools, and the CLI so every surface validates alike.
package journal

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/2389-research/revibe/internal/apperrors"
	"github.com/2389-research/revibe/internal/models"
)

// Bounds on entry fields.
const (
	MaxTitleLength = 255
	MinSeverity    = 1
	MaxSeverity    = 5
)

// EntryInput is the editable content of an entry.
type EntryInput struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Triggers    string     `json:"triggers,omitempty"`
	OccurredAt  *time.Time `json:"occurred_at,omitempty"`
	Focus       string     `json:"focus,omitempty"`
	Severity    int        `json:"emotional_severity"`

	models.EntryContext
	models.EntryImpact
}

// Validate checks required fields and bounds.
func (in *EntryInput) Validate() error {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return invalid("title is required")
	}
	if utf8.RuneCountInString(in.Title) > MaxTitleLength {
		return invalid("title must be at most %d characters", MaxTitleLength)
	}
	if strings.TrimSpace(in.Description) == "" {
		return invalid("description is required")
	}
	if in.Severity < MinSeverity || in.Severity > MaxSeverity {
		return invalid("emotional_severity must be between %d and %d", MinSeverity, MaxSeverity)
	}
	return nil
}

// apply copies the input onto an entry, leaving identity and embedding alone.
func (in *EntryInput) apply(e *models.Entry) {
	e.Title = in.Title
	e.Description = in.Description
	e.Triggers = in.Triggers
	e.OccurredAt = in.OccurredAt
	e.Focus = in.Focus
	e.Severity = in.Severity
	e.EntryContext = in.EntryContext
	e.EntryImpact = in.EntryImpact
}

// IdentificationInput tags an entry. Assumptions accept any of their wire shapes.
type IdentificationInput struct {
	Tag                string                    `json:"tag"`
	MainCategory       string                    `json:"main_category,omitempty"`
	SubCategory        string                    `json:"sub_category,omitempty"`
	Assumptions        models.Assumptions        `json:"assumptions"`
	PatternRecognition models.PatternRecognition `json:"pattern_recognition"`
}

// Validate checks the tag and the category pair.
func (in *IdentificationInput) Validate() error {
	in.Tag = strings.TrimSpace(in.Tag)
	if in.Tag == "" {
		return invalid("tag is required")
	}
	return models.ValidateCategory(in.MainCategory, in.SubCategory)
}

// LearningInput is the action plan attached to an identified entry.
type LearningInput struct {
	ActionPlan       string `json:"action_plan"`
	NextTimeStrategy string `json:"next_time_strategy,omitempty"`
	Resources        string `json:"resources,omitempty"`
}

// Validate checks the action plan.
func (in *LearningInput) Validate() error {
	if strings.TrimSpace(in.ActionPlan) == "" {
		return invalid("action_plan is required")
	}
	return nil
}

// CommentInput is a community comment on an event or its identification.
type CommentInput struct {
	CommentableType string    `json:"commentable_type"`
	CommentableID   uuid.UUID `json:"commentable_id"`
	Content         string    `json:"content"`
}

// Validate checks the target type and content length.
func (in *CommentInput) Validate() error {
	if !models.IsValidCommentable(in.CommentableType) {
		return invalid("commentable_type must be %q or %q", models.CommentOnEvent, models.CommentOnIdentification)
	}
	if in.CommentableID == uuid.Nil {
		return invalid("commentable_id is required")
	}
	in.Content = strings.TrimSpace(in.Content)
	if in.Content == "" {
		return invalid("content is required")
	}
	if utf8.RuneCountInString(in.Content) > models.MaxCommentLength {
		return invalid("content must be at most %d characters", models.MaxCommentLength)
	}
	return nil
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", apperrors.ErrInvalidInput, fmt.Sprintf(format, args...))
}
