package toursapi

import (
	"context"
	"fmt"
	"time"

	"github.com/launchfolio/launchfolio/internal/tour"
	"github.com/launchfolio/launchfolio/internal/tour/storage"
)

// service coordinates runner transitions with persisted per-user state.
type service struct {
	catalog *tour.Catalog
	runner  *tour.Runner
	store   storage.RunStateStore
	clock   func() time.Time
}

func newService(catalog *tour.Catalog, runner *tour.Runner, store storage.RunStateStore) service {
	return service{catalog: catalog, runner: runner, store: store, clock: time.Now}
}

// tourSummary is one catalog entry annotated with the user's completion.
type tourSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category"`
	StepCount   int    `json:"step_count"`
	DurationSec int    `json:"duration_seconds,omitempty"`
	Completed   bool   `json:"completed"`
}

func (s service) list(ctx context.Context, userID string, category tour.Category) ([]tourSummary, error) {
	state, err := s.store.GetRunState(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get run state: %w", err)
	}
	var tours []tour.Tour
	if category != "" {
		tours = s.catalog.ListCategory(category)
	} else {
		tours = s.catalog.List()
	}
	summaries := make([]tourSummary, 0, len(tours))
	for _, t := range tours {
		summaries = append(summaries, tourSummary{
			ID:          t.ID,
			Name:        t.Name,
			Description: t.Description,
			Category:    string(t.Category),
			StepCount:   len(t.Steps),
			DurationSec: int(t.Duration / time.Second),
			Completed:   state.HasCompleted(t.ID),
		})
	}
	return summaries, nil
}

// stateView is the persisted run state as seen by the client.
type stateView struct {
	ActiveTourID string           `json:"active_tour_id,omitempty"`
	StepIndex    int              `json:"step_index"`
	Completed    []string         `json:"completed"`
	Preferences  tour.Preferences `json:"preferences"`
}

func newStateView(state tour.RunState) stateView {
	return stateView{
		ActiveTourID: state.ActiveTourID,
		StepIndex:    state.StepIndex,
		Completed:    state.CompletedIDs(),
		Preferences:  state.Preferences,
	}
}

func (s service) state(ctx context.Context, userID string) (stateView, error) {
	state, err := s.store.GetRunState(ctx, userID)
	if err != nil {
		return stateView{}, fmt.Errorf("get run state: %w", err)
	}
	return newStateView(state), nil
}

// transition applies a runner operation to the user's stored state and
// persists the outcome. The view is returned even when the operation
// failed, since failed transitions still reset the client to idle.
func (s service) transition(
	ctx context.Context,
	userID string,
	op func(context.Context, tour.RunState) (tour.RunState, tour.View, error),
) (tour.View, error) {
	before, err := s.store.GetRunState(ctx, userID)
	if err != nil {
		return tour.IdleView(), fmt.Errorf("get run state: %w", err)
	}
	after, view, opErr := op(ctx, before)
	if err := s.persist(ctx, userID, before, after); err != nil {
		return tour.IdleView(), err
	}
	return view, opErr
}

func (s service) start(ctx context.Context, userID, tourID string) (tour.View, error) {
	return s.transition(ctx, userID, func(ctx context.Context, state tour.RunState) (tour.RunState, tour.View, error) {
		return s.runner.Start(ctx, state, tourID)
	})
}

func (s service) complete(ctx context.Context, userID, tourID string) (tour.View, error) {
	return s.transition(ctx, userID, func(ctx context.Context, state tour.RunState) (tour.RunState, tour.View, error) {
		return s.runner.Complete(ctx, state, tourID)
	})
}

// persist writes the parts of the state that changed: the active pointer
// and any newly completed tours.
func (s service) persist(ctx context.Context, userID string, before, after tour.RunState) error {
	if before.ActiveTourID != after.ActiveTourID || before.StepIndex != after.StepIndex {
		if err := s.store.PutActive(ctx, userID, after.ActiveTourID, after.StepIndex); err != nil {
			return fmt.Errorf("put active tour: %w", err)
		}
	}
	completedAt := s.clock().UTC()
	for tourID := range after.Completed {
		if before.Completed[tourID] {
			continue
		}
		if err := s.store.AddCompletion(ctx, userID, tourID, completedAt); err != nil {
			return fmt.Errorf("add completion: %w", err)
		}
	}
	return nil
}

func (s service) preferences(ctx context.Context, userID string) (tour.Preferences, error) {
	state, err := s.store.GetRunState(ctx, userID)
	if err != nil {
		return tour.Preferences{}, fmt.Errorf("get run state: %w", err)
	}
	return state.Preferences, nil
}

func (s service) updatePreferences(ctx context.Context, userID string, patch tour.PreferencesPatch) (tour.Preferences, error) {
	state, err := s.store.GetRunState(ctx, userID)
	if err != nil {
		return tour.Preferences{}, fmt.Errorf("get run state: %w", err)
	}
	merged := patch.Apply(state.Preferences)
	if err := s.store.PutPreferences(ctx, userID, merged); err != nil {
		return tour.Preferences{}, fmt.Errorf("put preferences: %w", err)
	}
	return merged, nil
}

func (s service) reset(ctx context.Context, userID string) error {
	if err := s.store.ResetRunState(ctx, userID); err != nil {
		return fmt.Errorf("reset run state: %w", err)
	}
	return nil
}
