// ABOUTME: MCP server initialization and configuration for revibe.
// ABOUTME: Sets up a stdio server exposing journal and community tools to AI agents.
package mcp

import (
	"context"
	"fmt"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/2389-research/revibe/internal/journal"
	"github.com/2389-research/revibe/internal/logger"
)

// Server wraps the MCP server around the journal service. Every tool call acts as one
// configured user.
type Server struct {
	mcp        *gomcp.Server
	svc        *journal.Service
	userID     string
	authorName string
	log        *logger.Logger
}

// ServerOption configures optional Server dependencies.
type ServerOption func(*Server)

// WithAuthorName sets the display name attached to comments.
func WithAuthorName(name string) ServerOption {
	return func(s *Server) {
		s.authorName = name
	}
}

// WithLogger sets the logger used for tool diagnostics.
func WithLogger(log *logger.Logger) ServerOption {
	return func(s *Server) {
		s.log = log
	}
}

// NewServer creates an MCP server acting on behalf of userID.
func NewServer(svc *journal.Service, userID string, opts ...ServerOption) (*Server, error) {
	if svc == nil {
		return nil, fmt.Errorf("journal service is required")
	}
	if userID == "" {
		return nil, fmt.Errorf("user id is required (set mcp.user_id or REVIBE_USER_ID)")
	}

	mcpServer := gomcp.NewServer(
		&gomcp.Implementation{
			Name:    "revibe",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcp:    mcpServer,
		svc:    svc,
		userID: userID,
		log:    logger.NewNop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.registerJournalTools()
	s.registerCommunityTools()

	return s, nil
}

// Serve starts the MCP server in stdio mode.
func (s *Server) Serve(ctx context.Context) error {
	s.log.Info("mcp server starting", "user_id", s.userID)
	return s.mcp.Run(ctx, &gomcp.StdioTransport{})
}
