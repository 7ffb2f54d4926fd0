package mcp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/claude/mapty/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
)

func (h *handlers) recentWorkouts(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	end := time.Now()
	start := end.AddDate(0, 0, -14)

	workouts, err := h.ds.QueryWorkouts(ctx, models.Filter{Start: start, End: end})
	if err != nil {
		return nil, err
	}
	return jsonContents(req.Params.URI, records(workouts))
}

func (h *handlers) allTimeSummary(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	workouts, err := h.ds.QueryWorkouts(ctx, models.Filter{})
	if err != nil {
		return nil, err
	}
	return jsonContents(req.Params.URI, Summarize(workouts))
}

func jsonContents(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
