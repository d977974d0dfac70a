// ABOUTME: MCP resource implementations for nourish.
// ABOUTME: Provides nourish://today and nourish://targets resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/harperreed/nourish/internal/models"
	"github.com/harperreed/nourish/internal/nutrition"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	todayURI   = "nourish://today"
	targetsURI = "nourish://targets"
)

func (s *Server) registerResources() {
	// nourish://today - habit progress, feedback and nutrition for today
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         todayURI,
		Name:        "Today's Progress",
		Description: "Habit progress, feedback and nutrition totals for today",
		MIMEType:    "application/json",
	}, s.handleTodayResource)

	// nourish://targets - active daily targets
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         targetsURI,
		Name:        "Habit Targets",
		Description: "The user's daily habit targets",
		MIMEType:    "application/json",
	}, s.handleTargetsResource)
}

// Resource handlers

func (s *Server) handleTodayResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	today := models.Date(s.now())

	snap, err := s.snapshot(ctx, today, true)
	if err != nil {
		return nil, err
	}

	day, err := nutrition.LoadDay(s.repo, s.user.ID, today, nutrition.DefaultTargets)
	if err != nil {
		return nil, err
	}

	result := map[string]any{
		"date":     models.FormatDate(today),
		"user":     s.user.Name,
		"progress": snap.Progress,
		"feedback": snap.Feedback,
		"partial":  snap.Partial(),
		"failed":   snap.Failed,
		"nutrition": map[string]any{
			"meals":    len(day.Meals),
			"consumed": day.Consumed,
			"targets":  day.Targets,
		},
	}

	return jsonResource(todayURI, result)
}

func (s *Server) handleTargetsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	targets, err := s.repo.ListTargets(s.user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list targets: %w", err)
	}

	return jsonResource(targetsURI, map[string]any{
		"targets": targets,
		"count":   len(targets),
	})
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
