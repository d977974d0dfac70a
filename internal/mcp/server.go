// ABOUTME: MCP server setup for the nourish habit tracker.
// ABOUTME: Wraps the MCP server with storage and progress sources for one user.
package mcp

import (
	"context"
	"errors"
	"time"

	"github.com/harperreed/nourish/internal/models"
	"github.com/harperreed/nourish/internal/progress"
	"github.com/harperreed/nourish/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server with storage access.
type Server struct {
	mcpServer    *mcp.Server
	repo         storage.Repository
	user         *models.User
	source       progress.Source
	feedback     progress.FeedbackSource
	feedbackDays int
	now          func() time.Time
}

// Option customizes a Server.
type Option func(*Server)

// WithSources replaces the local progress and feedback sources.
func WithSources(src progress.Source, fb progress.FeedbackSource) Option {
	return func(s *Server) {
		s.source = src
		s.feedback = fb
	}
}

// WithFeedbackDays sets the default feedback window.
func WithFeedbackDays(days int) Option {
	return func(s *Server) {
		s.feedbackDays = days
	}
}

// NewServer creates a new MCP server acting for user.
func NewServer(repo storage.Repository, user *models.User, opts ...Option) (*Server, error) {
	if repo == nil {
		return nil, errors.New("repository is required")
	}
	if user == nil {
		return nil, errors.New("user is required")
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "nourish",
			Version: "1.0.0",
		},
		nil,
	)

	local := progress.NewLocalSource(repo)
	s := &Server{
		mcpServer:    mcpServer,
		repo:         repo,
		user:         user,
		source:       local,
		feedback:     local,
		feedbackDays: progress.DefaultFeedbackDays,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
