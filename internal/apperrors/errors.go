// ABOUTME: Sentinel errors shared across storage, indexing, and transport layers.
// ABOUTME: Callers wrap these with %w and match them with errors.Is at the edges.
package apperrors

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrForbidden           = errors.New("forbidden")
	ErrConflict            = errors.New("conflict")
	ErrInvalidInput        = errors.New("invalid input")
	ErrPrerequisite        = errors.New("missing prerequisite")
	ErrProviderUnavailable = errors.New("embedding provider unavailable")
	ErrDimensionMismatch   = errors.New("embedding dimension mismatch")
	ErrQueueFull           = errors.New("index queue full")
)
