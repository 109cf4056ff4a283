// ABOUTME: gin handlers translating HTTP requests into journal service calls.
// ABOUTME: Covers entries, attachments, similar reflections, community, comments, and admin reindex.
package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/2389-research/revibe/internal/apperrors"
	"github.com/2389-research/revibe/internal/journal"
	"github.com/2389-research/revibe/internal/logger"
	"github.com/2389-research/revibe/internal/models"
	"github.com/2389-research/revibe/internal/storage"
)

// Handler serves the revibe HTTP API.
type Handler struct {
	svc *journal.Service
	log *logger.Logger
}

// NewHandler creates a handler over the journal service.
func NewHandler(svc *journal.Service, log *logger.Logger) *Handler {
	return &Handler{svc: svc, log: log.With("component", "api")}
}

// HealthCheck answers liveness probes.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// Categories returns the taxonomy.
func (h *Handler) Categories(c *gin.Context) {
	RespondOK(c, gin.H{"categories": models.Categories()})
}

// ListEvents returns the caller's entries.
func (h *Handler) ListEvents(c *gin.Context) {
	opts, err := listOptions(c)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	entries, err := h.svc.ListEntries(c.Request.Context(), userID(c), opts)
	if err != nil {
		h.fail(c, err)
		return
	}
	RespondOK(c, gin.H{"events": entries})
}

// CreateEvent records a new entry.
func (h *Handler) CreateEvent(c *gin.Context) {
	var in journal.EntryInput
	if !bind(c, &in) {
		return
	}
	entry, err := h.svc.CreateEntry(c.Request.Context(), userID(c), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"event": entry})
}

// GetEvent returns one entry visible to the caller.
func (h *Handler) GetEvent(c *gin.Context) {
	id, ok := entryID(c)
	if !ok {
		return
	}
	entry, err := h.svc.GetEntry(c.Request.Context(), userID(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	RespondOK(c, gin.H{"event": entry})
}

// UpdateEvent replaces an entry's content.
func (h *Handler) UpdateEvent(c *gin.Context) {
	id, ok := entryID(c)
	if !ok {
		return
	}
	var in journal.EntryInput
	if !bind(c, &in) {
		return
	}
	entry, err := h.svc.UpdateEntry(c.Request.Context(), userID(c), id, in)
	if err != nil {
		h.fail(c, err)
		return
	}
	RespondOK(c, gin.H{"event": entry})
}

// DeleteEvent removes an entry.
func (h *Handler) DeleteEvent(c *gin.Context) {
	id, ok := entryID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteEntry(c.Request.Context(), userID(c), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// MakePublic shares an entry on the community feed.
func (h *Handler) MakePublic(c *gin.Context) {
	id, ok := entryID(c)
	if !ok {
		return
	}
	entry, err := h.svc.SetPublic(c.Request.Context(), userID(c), id, true)
	if err != nil {
		h.fail(c, err)
		return
	}
	RespondOK(c, gin.H{"event": entry})
}

// CreateIdentification attaches an identification.
func (h *Handler) CreateIdentification(c *gin.Context) {
	id, ok := entryID(c)
	if !ok {
		return
	}
	var in journal.IdentificationInput
	if !bind(c, &in) {
		return
	}
	ident, err := h.svc.CreateIdentification(c.Request.Context(), userID(c), id, in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"identification": ident})
}

// UpdateIdentification replaces an identification.
func (h *Handler) UpdateIdentification(c *gin.Context) {
	id, ok := entryID(c)
	if !ok {
		return
	}
	var in journal.IdentificationInput
	if !bind(c, &in) {
		return
	}
	ident, err := h.svc.UpdateIdentification(c.Request.Context(), userID(c), id, in)
	if err != nil {
		h.fail(c, err)
		return
	}
	RespondOK(c, gin.H{"identification": ident})
}

// DeleteIdentification removes an identification.
func (h *Handler) DeleteIdentification(c *gin.Context) {
	id, ok := entryID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteIdentification(c.Request.Context(), userID(c), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CreateLearning attaches a learning.
func (h *Handler) CreateLearning(c *gin.Context) {
	id, ok := entryID(c)
	if !ok {
		return
	}
	var in journal.LearningInput
	if !bind(c, &in) {
		return
	}
	learning, err := h.svc.CreateLearning(c.Request.Context(), userID(c), id, in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"learning": learning})
}

// UpdateLearning replaces a learning.
func (h *Handler) UpdateLearning(c *gin.Context) {
	id, ok := entryID(c)
	if !ok {
		return
	}
	var in journal.LearningInput
	if !bind(c, &in) {
		return
	}
	learning, err := h.svc.UpdateLearning(c.Request.Context(), userID(c), id, in)
	if err != nil {
		h.fail(c, err)
		return
	}
	RespondOK(c, gin.H{"learning": learning})
}

// DeleteLearning removes a learning.
func (h *Handler) DeleteLearning(c *gin.Context) {
	id, ok := entryID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteLearning(c.Request.Context(), userID(c), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SimilarReflections lists the owner's nearest entries. Anything but a missing entry or a
// foreign owner degrades to an empty list.
func (h *Handler) SimilarReflections(c *gin.Context) {
	id, ok := entryID(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))

	results, err := h.svc.FindSimilar(c.Request.Context(), userID(c), id, limit)
	if err != nil {
		if errors.Is(err, apperrors.ErrForbidden) || errors.Is(err, apperrors.ErrNotFound) {
			respondServiceError(c, err)
			return
		}
		h.log.Warn("similar reflections degraded", "entry_id", id, "error", err)
		results = []models.SimilarityResult{}
	}
	RespondOK(c, gin.H{"similar_reflections": results})
}

// Community lists shared entries from all users.
func (h *Handler) Community(c *gin.Context) {
	opts, err := listOptions(c)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	entries, err := h.svc.Community(c.Request.Context(), opts)
	if err != nil {
		h.fail(c, err)
		return
	}
	RespondOK(c, gin.H{"events": entries})
}

// CreateComment posts a comment.
func (h *Handler) CreateComment(c *gin.Context) {
	var in journal.CommentInput
	if !bind(c, &in) {
		return
	}
	comment, err := h.svc.AddComment(c.Request.Context(), userID(c), userName(c), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}

// ListComments returns comments on one target.
func (h *Handler) ListComments(c *gin.Context) {
	targetID, err := uuid.Parse(c.Query("commentable_id"))
	if err != nil {
		respondServiceError(c, fmt.Errorf("%w: commentable_id must be a UUID", apperrors.ErrInvalidInput))
		return
	}
	comments, err := h.svc.ListComments(c.Request.Context(), userID(c), c.Query("commentable_type"), targetID)
	if err != nil {
		h.fail(c, err)
		return
	}
	RespondOK(c, gin.H{"comments": comments})
}

// Reindex recomputes every embedding and returns the counts.
func (h *Handler) Reindex(c *gin.Context) {
	report, err := h.svc.Reindex(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	RespondOK(c, report)
}

func (h *Handler) fail(c *gin.Context, err error) {
	if !isClientError(err) {
		h.log.Error("request failed", "path", c.FullPath(), "error", err)
	}
	respondServiceError(c, err)
}

func isClientError(err error) bool {
	for _, target := range []error{
		apperrors.ErrInvalidInput, apperrors.ErrNotFound, apperrors.ErrForbidden,
		apperrors.ErrConflict, apperrors.ErrPrerequisite,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_json", err)
		return false
	}
	return true
}

func entryID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_input", fmt.Errorf("invalid event id %q", c.Param("id")))
		return uuid.Nil, false
	}
	return id, true
}

func listOptions(c *gin.Context) (storage.ListOptions, error) {
	var opts storage.ListOptions
	for name, dst := range map[string]*int{"limit": &opts.Limit, "offset": &opts.Offset} {
		raw := c.Query(name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return opts, fmt.Errorf("%w: %s must be a non-negative integer", apperrors.ErrInvalidInput, name)
		}
		*dst = n
	}
	return opts, nil
}
