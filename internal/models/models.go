// ABOUTME: Core data models for journal entries, identifications, learnings, and comments.
// ABOUTME: Provides constructor functions, gorm table mappings, and transient search results.
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Entry is a user's recorded event: a mistake or situation worth reflecting on.
type Entry struct {
	ID          uuid.UUID  `gorm:"type:text;primaryKey" json:"id"`
	UserID      string     `gorm:"not null;index" json:"user_id"`
	Title       string     `gorm:"size:255" json:"title"`
	Description string     `gorm:"not null" json:"description"`
	Triggers    string     `json:"triggers,omitempty"`
	OccurredAt  *time.Time `json:"occurred_at,omitempty"`
	Focus       string     `json:"focus,omitempty"`
	Severity    int        `gorm:"column:emotional_severity" json:"emotional_severity"`
	IsPublic    bool       `gorm:"not null;default:false" json:"is_public"`

	EntryContext
	EntryImpact

	Embedding Vector `gorm:"type:text" json:"-"`

	Identification *Identification `gorm:"foreignKey:EntryID" json:"identification,omitempty"`
	Learning       *Learning       `gorm:"foreignKey:EntryID" json:"learning,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EntryContext describes the circumstances around an event.
type EntryContext struct {
	Location                string `json:"location,omitempty"`
	PeoplePresent           string `json:"people_present,omitempty"`
	PowerDynamics           string `json:"power_dynamics,omitempty"`
	WhatHappenedBefore      string `json:"what_happened_before,omitempty"`
	MentalEmotionalState    string `json:"mental_emotional_state,omitempty"`
	OrganizationalPressures string `json:"organizational_pressures,omitempty"`
}

// EntryImpact describes who and what an event affected.
type EntryImpact struct {
	DirectlyAffected       string `json:"directly_affected,omitempty"`
	IndirectlyAffected     string `json:"indirectly_affected,omitempty"`
	ImmediateConsequences  string `json:"immediate_consequences,omitempty"`
	LongerTermConsequences string `json:"longer_term_consequences,omitempty"`
	ImpactSignificance     *int   `json:"impact_significance,omitempty"`
}

// TableName maps entries onto the events table.
func (Entry) TableName() string { return "events" }

// BeforeCreate assigns an ID when the caller did not.
func (e *Entry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// HasEmbedding reports whether the entry has been indexed.
func (e *Entry) HasEmbedding() bool {
	return len(e.Embedding) > 0
}

// NewEntry creates an entry owned by userID with a generated UUID.
func NewEntry(userID, title, description string, severity int) *Entry {
	return &Entry{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       strings.TrimSpace(title),
		Description: description,
		Severity:    severity,
	}
}

// Identification tags an entry with a category and the thinking behind it.
type Identification struct {
	ID                 uuid.UUID                              `gorm:"type:text;primaryKey" json:"id"`
	EntryID            uuid.UUID                              `gorm:"type:text;not null;uniqueIndex" json:"event_id"`
	Tag                string                                 `gorm:"not null" json:"tag"`
	MainCategory       string                                 `json:"main_category,omitempty"`
	SubCategory        string                                 `json:"sub_category,omitempty"`
	Assumptions        datatypes.JSONType[Assumptions]        `json:"assumptions"`
	PatternRecognition datatypes.JSONType[PatternRecognition] `json:"pattern_recognition"`
	CreatedAt          time.Time                              `json:"created_at"`
	UpdatedAt          time.Time                              `json:"updated_at"`
}

// BeforeCreate assigns an ID when the caller did not.
func (i *Identification) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// NewIdentification builds an identification in canonical form.
func NewIdentification(entryID uuid.UUID, tag, mainCategory, subCategory string, assumptions Assumptions, patterns PatternRecognition) *Identification {
	return &Identification{
		ID:                 uuid.New(),
		EntryID:            entryID,
		Tag:                tag,
		MainCategory:       mainCategory,
		SubCategory:        subCategory,
		Assumptions:        datatypes.NewJSONType(assumptions),
		PatternRecognition: datatypes.NewJSONType(patterns),
	}
}

// PatternRecognition captures notes on whether an event is part of a pattern.
type PatternRecognition struct {
	NoticedBefore            string `json:"noticed_before,omitempty"`
	Triggers                 string `json:"triggers,omitempty"`
	PersonalOrOrganizational string `json:"personal_or_organizational,omitempty"`
	CommonThread             string `json:"common_thread,omitempty"`
}

// Learning is the action plan derived from an identified event.
type Learning struct {
	ID               uuid.UUID `gorm:"type:text;primaryKey" json:"id"`
	EntryID          uuid.UUID `gorm:"type:text;not null;uniqueIndex" json:"event_id"`
	ActionPlan       string    `gorm:"not null" json:"action_plan"`
	NextTimeStrategy string    `json:"next_time_strategy,omitempty"`
	Resources        string    `json:"resources,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// BeforeCreate assigns an ID when the caller did not.
func (l *Learning) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// Commentable target types.
const (
	CommentOnEvent          = "event"
	CommentOnIdentification = "identification"
)

// MaxCommentLength bounds comment content in characters.
const MaxCommentLength = 1000

// Comment is a community reply attached to a shared event or its identification.
type Comment struct {
	ID              uuid.UUID `gorm:"type:text;primaryKey" json:"id"`
	UserID          string    `gorm:"not null;index" json:"user_id"`
	AuthorName      string    `json:"author_name,omitempty"`
	CommentableType string    `gorm:"not null;index:idx_commentable" json:"commentable_type"`
	CommentableID   uuid.UUID `gorm:"type:text;not null;index:idx_commentable" json:"commentable_id"`
	Content         string    `gorm:"not null" json:"content"`
	CreatedAt       time.Time `json:"created_at"`
}

// NewComment creates a comment with generated UUID and timestamp.
func NewComment(userID, authorName, commentableType string, commentableID uuid.UUID, content string) *Comment {
	return &Comment{
		ID:              uuid.New(),
		UserID:          userID,
		AuthorName:      authorName,
		CommentableType: commentableType,
		CommentableID:   commentableID,
		Content:         content,
		CreatedAt:       time.Now(),
	}
}

// IsValidCommentable returns true if t names a commentable target type.
func IsValidCommentable(t string) bool {
	return t == CommentOnEvent || t == CommentOnIdentification
}

// SimilarityResult is one ranked neighbor returned by a similarity query.
type SimilarityResult struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    *string   `json:"category,omitempty"`
	Score       float64   `json:"similarity_score"`
	CreatedAt   int64     `json:"created_at"`
}
