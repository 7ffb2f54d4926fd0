package tracker

import (
	"errors"
	"fmt"
	"strings"

	"github.com/claude/mapty/internal/models"
)

var (
	// ErrPositionUnavailable wraps the *geolocate.PositionError that stopped
	// the session from reaching the map.
	ErrPositionUnavailable = errors.New("position unavailable")

	// ErrValidation matches every *ValidationError.
	ErrValidation = errors.New("invalid workout input")

	// ErrStorage wraps a failed write of the workout list. The in-memory
	// list and the rendered views keep the new workout.
	ErrStorage = errors.New("workouts not saved")

	// ErrNotReady is returned for an action the current state does not
	// accept, such as a submit without an open form.
	ErrNotReady = errors.New("action not available in current state")
)

// ValidationError lists the form fields that broke the finite/positive
// contract of the selected workout kind.
type ValidationError struct {
	Kind   models.Kind
	Fields []string
}

func (e *ValidationError) Error() string {
	kind := string(e.Kind)
	if kind == "" {
		kind = "workout"
	}
	return fmt.Sprintf("invalid %s input: %s", strings.ToLower(kind), strings.Join(e.Fields, ", "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
