// ABOUTME: MCP tool implementations for the shared community feed.
// ABOUTME: Registers share_event, read_community, and add_comment tools.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/2389-research/revibe/internal/journal"
	"github.com/2389-research/revibe/internal/models"
	"github.com/2389-research/revibe/internal/storage"
)

func (s *Server) registerCommunityTools() {
	s.mcp.AddTool(&gomcp.Tool{
		Name:        "share_event",
		Description: "Make one of your events public on the community feed. Sharing cannot be undone from here.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"event_id": {"type": "string", "description": "UUID of the event to share"}
			},
			"required": ["event_id"]
		}`),
	}, s.handleShareEvent)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "read_community",
		Description: "Read events other people have shared, newest first.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"limit": {"type": "number", "description": "Maximum number of events (default 20)"},
				"offset": {"type": "number", "description": "Number of events to skip (default 0)"}
			}
		}`),
	}, s.handleReadCommunity)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "add_comment",
		Description: "Comment on a shared event or its identification.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"commentable_type": {"type": "string", "enum": ["event", "identification"], "description": "What the comment is attached to (default event)"},
				"commentable_id": {"type": "string", "description": "UUID of the event or identification"},
				"content": {"type": "string", "description": "Comment text, at most 1000 characters", "minLength": 1}
			},
			"required": ["commentable_id", "content"]
		}`),
	}, s.handleAddComment)
}

func (s *Server) handleShareEvent(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	id, errResult := eventIDArg(req)
	if errResult != nil {
		return errResult, nil
	}

	entry, err := s.svc.SetPublic(ctx, s.userID, id, true)
	if err != nil {
		return s.serviceError("failed to share event", err), nil
	}
	return toolText("Event shared: %s", entry.Title), nil
}

func (s *Server) handleReadCommunity(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		Limit  int `json:"limit"`
		Offset int `json:"offset"`
	}
	if err := unmarshalArgs(req, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}
	if args.Offset < 0 {
		args.Offset = 0
	}

	entries, err := s.svc.Community(ctx, storage.ListOptions{Limit: args.Limit, Offset: args.Offset})
	if err != nil {
		return s.serviceError("failed to read community", err), nil
	}
	if len(entries) == 0 {
		return toolText("No shared events yet."), nil
	}

	var sb strings.Builder
	for i, entry := range entries {
		if i > 0 {
			sb.WriteString("\n---\n")
		}
		sb.WriteString(fmt.Sprintf("%s\n", entry.Title))
		sb.WriteString(fmt.Sprintf("ID: %s\n", entry.ID))
		sb.WriteString(fmt.Sprintf("Date: %s\n", entry.CreatedAt.Format("2006-01-02 15:04:05")))
		if entry.Identification != nil && entry.Identification.MainCategory != "" {
			sb.WriteString(fmt.Sprintf("Category: %s\n", models.CategoryLabel(entry.Identification.MainCategory)))
		}
		sb.WriteString(fmt.Sprintf("\n%s\n", entry.Description))
	}
	return toolText("%s", sb.String()), nil
}

func (s *Server) handleAddComment(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		CommentableType string `json:"commentable_type"`
		CommentableID   string `json:"commentable_id"`
		Content         string `json:"content"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}
	if args.CommentableType == "" {
		args.CommentableType = models.CommentOnEvent
	}
	target, err := uuid.Parse(args.CommentableID)
	if err != nil {
		return toolError("commentable_id must be a UUID"), nil
	}

	comment, err := s.svc.AddComment(ctx, s.userID, s.authorName, journal.CommentInput{
		CommentableType: args.CommentableType,
		CommentableID:   target,
		Content:         args.Content,
	})
	if err != nil {
		return s.serviceError("failed to add comment", err), nil
	}
	return toolText("Comment posted (ID: %s)", comment.ID), nil
}
