package mcp

import (
	"context"
	"errors"

	"github.com/claude/mapty/internal/models"
)

// ErrWorkoutNotFound is returned by GetWorkout for an unknown id.
var ErrWorkoutNotFound = errors.New("workout not found")

// DataSource abstracts where the MCP tools read workouts from. ListSource
// (in-process) and HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	QueryWorkouts(ctx context.Context, f models.Filter) ([]models.Workout, error)
	GetWorkout(ctx context.Context, id string) (models.Workout, error)
}

// ListSource serves queries from an in-process workout list, such as the
// persistence gateway's Load or a running session's copy.
type ListSource struct {
	List func(ctx context.Context) []models.Workout
}

// Compile-time check: ListSource satisfies DataSource.
var _ DataSource = ListSource{}

func (s ListSource) QueryWorkouts(ctx context.Context, f models.Filter) ([]models.Workout, error) {
	return f.Apply(s.List(ctx)), nil
}

func (s ListSource) GetWorkout(ctx context.Context, id string) (models.Workout, error) {
	for _, w := range s.List(ctx) {
		if w.ID == id {
			return w, nil
		}
	}
	return models.Workout{}, ErrWorkoutNotFound
}
