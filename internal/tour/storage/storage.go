// Package storage defines persistence contracts for per-user tour state.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/launchfolio/launchfolio/internal/tour"
)

var (
	// ErrNotFound indicates a requested tour record is missing.
	ErrNotFound = errors.New("record not found")
)

// Completion records one finished tour for a user.
type Completion struct {
	UserID      string
	TourID      string
	CompletedAt time.Time
}

// RunStateStore persists per-user tour progress, completions, and
// preferences.
type RunStateStore interface {
	// GetRunState assembles the user's full tour state. Users with no
	// stored rows get an idle state with default preferences.
	GetRunState(ctx context.Context, userID string) (tour.RunState, error)
	// PutActive stores the active tour and step index. An empty tour id
	// clears the active tour.
	PutActive(ctx context.Context, userID, tourID string, stepIndex int) error
	// AddCompletion records a finished tour. Recording the same tour twice
	// is a no-op.
	AddCompletion(ctx context.Context, userID, tourID string, completedAt time.Time) error
	// ListCompletions returns the user's completions ordered by tour id.
	ListCompletions(ctx context.Context, userID string) ([]Completion, error)
	// PutPreferences replaces the user's tour preferences.
	PutPreferences(ctx context.Context, userID string, prefs tour.Preferences) error
	// ResetRunState removes the user's tour progress, completions, and
	// preferences so defaults apply again.
	ResetRunState(ctx context.Context, userID string) error
}
