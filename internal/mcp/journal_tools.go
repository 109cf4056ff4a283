// ABOUTME: MCP tool implementations for private journal operations.
// ABOUTME: Registers record_event, list_events, read_event, identify_event, add_learning, find_similar_reflections, reindex_embeddings.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/2389-research/revibe/internal/apperrors"
	"github.com/2389-research/revibe/internal/journal"
	"github.com/2389-research/revibe/internal/models"
	"github.com/2389-research/revibe/internal/storage"
)

func (s *Server) registerJournalTools() {
	s.mcp.AddTool(&gomcp.Tool{
		Name:        "record_event",
		Description: "Record a new reflective journal event. Title, description and emotional_severity (1-5) are required.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"title": {"type": "string", "description": "Short title for the event", "minLength": 1},
				"description": {"type": "string", "description": "What happened", "minLength": 1},
				"emotional_severity": {"type": "number", "description": "How intense it felt, 1 to 5"},
				"triggers": {"type": "string", "description": "What set it off"},
				"focus": {"type": "string", "description": "What you want to focus on"},
				"location": {"type": "string", "description": "Where it happened"},
				"people_present": {"type": "string", "description": "Who was there"}
			},
			"required": ["title", "description", "emotional_severity"]
		}`),
	}, s.handleRecordEvent)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "list_events",
		Description: "List your journal events, newest first.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"limit": {"type": "number", "description": "Maximum number of events (default 10)"},
				"offset": {"type": "number", "description": "Number of events to skip (default 0)"}
			}
		}`),
	}, s.handleListEvents)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "read_event",
		Description: "Read one event with its identification and learning.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"event_id": {"type": "string", "description": "UUID of the event"}
			},
			"required": ["event_id"]
		}`),
	}, s.handleReadEvent)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "identify_event",
		Description: "Attach an identification (tag, category, assumptions) to an event. This also indexes the event for similarity search.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"event_id": {"type": "string", "description": "UUID of the event"},
				"tag": {"type": "string", "description": "Short label for the pattern", "minLength": 1},
				"main_category": {"type": "string", "description": "Category value, see /api/categories"},
				"sub_category": {"type": "string", "description": "Subcategory value within main_category"},
				"assumptions": {"type": "object", "properties": {
					"what_assumptions": {"type": "string"},
					"ignored_information": {"type": "string"},
					"protected_beliefs": {"type": "string"}
				}}
			},
			"required": ["event_id", "tag"]
		}`),
	}, s.handleIdentifyEvent)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "add_learning",
		Description: "Attach a learning (action plan) to an identified event.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"event_id": {"type": "string", "description": "UUID of the event"},
				"action_plan": {"type": "string", "description": "What you will do differently", "minLength": 1},
				"next_time_strategy": {"type": "string"},
				"resources": {"type": "string"}
			},
			"required": ["event_id", "action_plan"]
		}`),
	}, s.handleAddLearning)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "find_similar_reflections",
		Description: "Find your past events most similar to the given one, ranked by similarity score.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"event_id": {"type": "string", "description": "UUID of the event"},
				"limit": {"type": "number", "description": "Maximum number of results (default 5)"}
			},
			"required": ["event_id"]
		}`),
	}, s.handleFindSimilar)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "reindex_embeddings",
		Description: "Recompute the embedding of every stored event. Reports indexed, failed and total counts.",
		InputSchema: json.RawMessage(`{"type": "object", "properties": {}}`),
	}, s.handleReindex)
}

func (s *Server) handleRecordEvent(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var in journal.EntryInput
	if err := json.Unmarshal(req.Params.Arguments, &in); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}

	entry, err := s.svc.CreateEntry(ctx, s.userID, in)
	if err != nil {
		return s.serviceError("failed to record event", err), nil
	}

	return toolText("Event recorded: %s\nID: %s", entry.Title, entry.ID), nil
}

func (s *Server) handleListEvents(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		Limit  int `json:"limit"`
		Offset int `json:"offset"`
	}
	if err := unmarshalArgs(req, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}
	if args.Limit <= 0 {
		args.Limit = 10
	}

	entries, err := s.svc.ListEntries(ctx, s.userID, storage.ListOptions{Limit: args.Limit, Offset: args.Offset})
	if err != nil {
		return s.serviceError("failed to list events", err), nil
	}
	if len(entries) == 0 {
		return toolText("No events found."), nil
	}

	var sb strings.Builder
	for _, entry := range entries {
		sb.WriteString(summaryLine(entry))
	}
	return toolText("%s", sb.String()), nil
}

func (s *Server) handleReadEvent(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	id, errResult := eventIDArg(req)
	if errResult != nil {
		return errResult, nil
	}

	entry, err := s.svc.GetEntry(ctx, s.userID, id)
	if err != nil {
		return s.serviceError("failed to read event", err), nil
	}
	return toolText("%s", formatEntry(entry)), nil
}

func (s *Server) handleIdentifyEvent(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		EventID string `json:"event_id"`
		journal.IdentificationInput
	}
	if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}
	id, err := uuid.Parse(args.EventID)
	if err != nil {
		return toolError("event_id must be a UUID"), nil
	}

	ident, err := s.svc.CreateIdentification(ctx, s.userID, id, args.IdentificationInput)
	if err != nil {
		return s.serviceError("failed to identify event", err), nil
	}
	return toolText("Event %s identified as %q", id, ident.Tag), nil
}

func (s *Server) handleAddLearning(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		EventID string `json:"event_id"`
		journal.LearningInput
	}
	if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}
	id, err := uuid.Parse(args.EventID)
	if err != nil {
		return toolError("event_id must be a UUID"), nil
	}

	if _, err := s.svc.CreateLearning(ctx, s.userID, id, args.LearningInput); err != nil {
		return s.serviceError("failed to add learning", err), nil
	}
	return toolText("Learning added to event %s", id), nil
}

func (s *Server) handleFindSimilar(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		EventID string `json:"event_id"`
		Limit   int    `json:"limit"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}
	id, err := uuid.Parse(args.EventID)
	if err != nil {
		return toolError("event_id must be a UUID"), nil
	}

	results, err := s.svc.FindSimilar(ctx, s.userID, id, args.Limit)
	if err != nil {
		return s.serviceError("failed to find similar reflections", err), nil
	}
	if len(results) == 0 {
		return toolText("No similar reflections found."), nil
	}

	var sb strings.Builder
	for i, r := range results {
		category := "uncategorized"
		if r.Category != nil {
			category = models.CategoryLabel(*r.Category)
		}
		sb.WriteString(fmt.Sprintf("%d. [%.3f] %s (%s)\n   ID: %s\n", i+1, r.Score, r.Title, category, r.ID))
	}
	return toolText("%s", sb.String()), nil
}

func (s *Server) handleReindex(ctx context.Context, _ *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	report, err := s.svc.Reindex(ctx)
	if err != nil {
		return s.serviceError("reindex stopped", err), nil
	}
	return toolText("Reindex complete: %d indexed, %d failed, %d total", report.Indexed, report.Failed, report.Total), nil
}

func summaryLine(entry *models.Entry) string {
	state := "open"
	switch {
	case entry.Learning != nil:
		state = "learned"
	case entry.Identification != nil:
		state = "identified"
	}
	return fmt.Sprintf("- %s [%s] %s (severity %d)\n  ID: %s\n",
		entry.CreatedAt.Format("2006-01-02 15:04:05"), state, entry.Title, entry.Severity, entry.ID)
}

func formatEntry(entry *models.Entry) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# %s\n", entry.Title))
	sb.WriteString(fmt.Sprintf("ID: %s\n", entry.ID))
	sb.WriteString(fmt.Sprintf("Date: %s\n", entry.CreatedAt.Format("2006-01-02 15:04:05")))
	sb.WriteString(fmt.Sprintf("Severity: %d\n", entry.Severity))
	if entry.IsPublic {
		sb.WriteString("Shared: yes\n")
	}
	sb.WriteString(fmt.Sprintf("\n%s\n", entry.Description))
	if entry.Focus != "" {
		sb.WriteString(fmt.Sprintf("\nFocus: %s\n", entry.Focus))
	}
	if ident := entry.Identification; ident != nil {
		sb.WriteString(fmt.Sprintf("\n## Identification\nTag: %s\n", ident.Tag))
		if ident.MainCategory != "" {
			sb.WriteString(fmt.Sprintf("Category: %s\n", models.CategoryLabel(ident.MainCategory)))
		}
		if values := ident.Assumptions.Data().Values(); len(values) > 0 {
			sb.WriteString(fmt.Sprintf("Assumptions: %s\n", strings.Join(values, "; ")))
		}
	}
	if l := entry.Learning; l != nil {
		sb.WriteString(fmt.Sprintf("\n## Learning\n%s\n", l.ActionPlan))
		if l.NextTimeStrategy != "" {
			sb.WriteString(fmt.Sprintf("Next time: %s\n", l.NextTimeStrategy))
		}
	}
	return sb.String()
}

func eventIDArg(req *gomcp.CallToolRequest) (uuid.UUID, *gomcp.CallToolResult) {
	var args struct {
		EventID string `json:"event_id"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
		return uuid.Nil, toolError("invalid arguments: %v", err)
	}
	if args.EventID == "" {
		return uuid.Nil, toolError("event_id is required")
	}
	id, err := uuid.Parse(args.EventID)
	if err != nil {
		return uuid.Nil, toolError("event_id must be a UUID")
	}
	return id, nil
}

// unmarshalArgs tolerates calls that send no arguments at all.
func unmarshalArgs(req *gomcp.CallToolRequest, dst any) error {
	if len(req.Params.Arguments) == 0 {
		return nil
	}
	return json.Unmarshal(req.Params.Arguments, dst)
}

func toolText(format string, args ...interface{}) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: fmt.Sprintf(format, args...)}},
	}
}

// toolError creates an error result for MCP tool responses.
func toolError(format string, args ...interface{}) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: fmt.Sprintf(format, args...)}},
		IsError: true,
	}
}

// serviceError passes client errors through and logs everything else.
func (s *Server) serviceError(prefix string, err error) *gomcp.CallToolResult {
	for _, target := range []error{
		apperrors.ErrInvalidInput, apperrors.ErrNotFound, apperrors.ErrForbidden,
		apperrors.ErrConflict, apperrors.ErrPrerequisite,
	} {
		if errors.Is(err, target) {
			return toolError("%s: %v", prefix, err)
		}
	}
	s.log.Error(prefix, "error", err)
	return toolError("%s: internal error", prefix)
}
