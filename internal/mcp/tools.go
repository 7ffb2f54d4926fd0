package mcp

import (
	"context"
	"errors"
	"time"

	"github.com/claude/mapty/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
)

const dateLayout = "2006-01-02"

// defaultTimeRange returns start/end defaulting to the last days days. A
// date-only end includes that whole day.
func defaultTimeRange(startStr, endStr string, days int) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if endStr != "" {
		end, err = parseFlexTime(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		if _, dateErr := time.Parse(dateLayout, endStr); dateErr == nil {
			end = end.Add(24*time.Hour - time.Nanosecond)
		}
	} else {
		end = time.Now()
	}

	if startStr != "" {
		start, err = parseFlexTime(startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		start = end.AddDate(0, 0, -days)
	}

	return start, end, nil
}

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse(dateLayout, s)
	if err == nil {
		return t, nil
	}
	return time.Time{}, err
}

// filterFromRequest reads the shared kind/start/end arguments.
func filterFromRequest(req mcp.CallToolRequest, days int) (models.Filter, error) {
	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""), days)
	if err != nil {
		return models.Filter{}, err
	}
	f := models.Filter{Start: start, End: end}
	if k := req.GetString("kind", ""); k != "" {
		kind, err := models.ParseKind(k)
		if err != nil {
			return models.Filter{}, err
		}
		f.Kind = kind
	}
	return f, nil
}

func records(workouts []models.Workout) []models.Record {
	out := make([]models.Record, 0, len(workouts))
	for _, w := range workouts {
		out = append(out, w.Record())
	}
	return out
}

// --- Tool definitions ---

var toolListWorkouts = mcp.NewTool("list_workouts",
	mcp.WithDescription("List recorded workouts with their location, distance, duration and derived pace (running) or speed (cycling). Oldest first."),
	mcp.WithString("kind", mcp.Description("Filter by workout kind."), mcp.Enum("Running", "Cycling")),
	mcp.WithString("start", mcp.Description("Start date (ISO 8601 or YYYY-MM-DD). Defaults to 30 days ago.")),
	mcp.WithString("end", mcp.Description("End date (ISO 8601 or YYYY-MM-DD). Defaults to now.")),
	mcp.WithNumber("limit", mcp.Description("Return at most this many of the newest matching workouts. 0 means no limit.")),
)

var toolGetWorkout = mcp.NewTool("get_workout",
	mcp.WithDescription("Get a single workout by id."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Workout id")),
)

var toolWorkoutSummary = mcp.NewTool("workout_summary",
	mcp.WithDescription("Totals and averages per workout kind: count, distance, duration, longest workout, average pace and cadence for running, average speed and elevation gain for cycling."),
	mcp.WithString("kind", mcp.Description("Restrict to one workout kind."), mcp.Enum("Running", "Cycling")),
	mcp.WithString("start", mcp.Description("Start date. Defaults to 30 days ago.")),
	mcp.WithString("end", mcp.Description("End date. Defaults to now.")),
)

// --- Tool handlers ---

func (h *handlers) listWorkouts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	f, err := filterFromRequest(req, 30)
	if err != nil {
		return mcp.NewToolResultError("invalid argument: " + err.Error()), nil
	}

	workouts, err := h.ds.QueryWorkouts(ctx, f)
	if err != nil {
		h.log.Error("mcp list_workouts", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if limit := req.GetInt("limit", 0); limit > 0 && len(workouts) > limit {
		workouts = workouts[len(workouts)-limit:]
	}

	result, err := mcp.NewToolResultJSON(records(workouts))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id parameter is required"), nil
	}

	w, err := h.ds.GetWorkout(ctx, id)
	if errors.Is(err, ErrWorkoutNotFound) {
		return mcp.NewToolResultError("no workout with id " + id), nil
	}
	if err != nil {
		h.log.Error("mcp get_workout", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(w.Record())
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) workoutSummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	f, err := filterFromRequest(req, 30)
	if err != nil {
		return mcp.NewToolResultError("invalid argument: " + err.Error()), nil
	}

	workouts, err := h.ds.QueryWorkouts(ctx, f)
	if err != nil {
		h.log.Error("mcp workout_summary", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(Summarize(workouts))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
