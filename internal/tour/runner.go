package tour

import (
	"context"
	"log"
	"time"

	apperrors "github.com/launchfolio/launchfolio/internal/platform/errors"
	"github.com/launchfolio/launchfolio/internal/platform/timeouts"
)

// Provider looks up tour definitions by id.
type Provider interface {
	Tour(id string) (Tour, bool)
}

// TargetProbe checks step targets and performs pre-step actions against the
// rendering surface. A nil probe skips actions and treats every target as
// immediately available.
type TargetProbe interface {
	TargetVisible(ctx context.Context, selector string) (bool, error)
	Perform(ctx context.Context, action Action) error
}

// View describes what the client should display after a runner operation.
type View struct {
	Phase     Phase  `json:"phase"`
	TourID    string `json:"tour_id,omitempty"`
	StepIndex int    `json:"step_index"`
	StepCount int    `json:"step_count"`
	Step      *Step  `json:"step,omitempty"`
	// Placement is the placement to use for the current step. It is
	// centered when the step has no target or the target never appeared.
	Placement Placement `json:"placement,omitempty"`
	// TargetMissing is true when placement fell back to centered because
	// the step's target did not become available in time.
	TargetMissing bool `json:"target_missing,omitempty"`
}

// IdleView is the view returned when no tour is running.
func IdleView() View {
	return View{Phase: PhaseIdle}
}

// Runner drives the tour state machine. Operations are pure transitions:
// they take a RunState and return the next state plus the view to display.
// The runner itself holds no per-user state.
type Runner struct {
	catalog      Provider
	probe        TargetProbe
	waitTimeout  time.Duration
	pollInterval time.Duration
	logf         func(format string, v ...any)
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithProbe sets the target probe used for step targets and actions.
func WithProbe(p TargetProbe) RunnerOption {
	return func(r *Runner) { r.probe = p }
}

// WithWait overrides the target wait timeout and poll interval.
func WithWait(timeout, interval time.Duration) RunnerOption {
	return func(r *Runner) {
		r.waitTimeout = timeout
		r.pollInterval = interval
	}
}

// WithLogf overrides the runner's warning logger.
func WithLogf(logf func(format string, v ...any)) RunnerOption {
	return func(r *Runner) { r.logf = logf }
}

// NewRunner creates a runner backed by the given catalog.
func NewRunner(catalog Provider, opts ...RunnerOption) *Runner {
	r := &Runner{
		catalog:      catalog,
		waitTimeout:  timeouts.TourTarget,
		pollInterval: timeouts.TourTargetPoll,
		logf:         log.Printf,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start begins the tour with the given id at its first step. Any tour
// already in progress is abandoned without being marked complete. Starting
// an unknown tour returns the state to idle.
func (r *Runner) Start(ctx context.Context, state RunState, tourID string) (RunState, View, error) {
	state = state.clone()
	t, ok := r.catalog.Tour(tourID)
	if ok {
		if err := t.Validate(); err != nil {
			ok = false
		}
	}
	if !ok {
		r.logf("tour: start requested for unknown tour %q", tourID)
		state.ActiveTourID = ""
		state.StepIndex = 0
		return state, IdleView(), apperrors.WithMetadata(apperrors.CodeTourNotFound, "tour not found", map[string]string{
			"TourID": tourID,
		})
	}
	state.ActiveTourID = t.ID
	state.StepIndex = 0
	view := r.enterStep(ctx, t, 0)
	return state, view, nil
}

// Next advances to the following step. Calling Next on the last step
// completes the tour and returns to idle; completion is idempotent.
func (r *Runner) Next(ctx context.Context, state RunState) (RunState, View, error) {
	state = state.clone()
	t, err := r.active(&state)
	if err != nil {
		return state, IdleView(), err
	}
	if state.StepIndex >= len(t.Steps)-1 {
		state.Completed[t.ID] = true
		state.ActiveTourID = ""
		state.StepIndex = 0
		return state, IdleView(), nil
	}
	state.StepIndex++
	view := r.enterStep(ctx, t, state.StepIndex)
	return state, view, nil
}

// Previous moves back one step. At the first step it is a no-op: the state
// is unchanged and the current step is shown again.
func (r *Runner) Previous(ctx context.Context, state RunState) (RunState, View, error) {
	state = state.clone()
	t, err := r.active(&state)
	if err != nil {
		return state, IdleView(), err
	}
	if state.StepIndex == 0 {
		step := t.Steps[0]
		return state, View{
			Phase:     PhaseActive,
			TourID:    t.ID,
			StepIndex: 0,
			StepCount: len(t.Steps),
			Step:      &step,
			Placement: step.EffectivePlacement(),
		}, nil
	}
	state.StepIndex--
	view := r.enterStep(ctx, t, state.StepIndex)
	return state, view, nil
}

// Skip abandons the current tour without recording a completion, so it is
// offered again later.
func (r *Runner) Skip(ctx context.Context, state RunState) (RunState, View, error) {
	state = state.clone()
	if _, err := r.active(&state); err != nil {
		return state, IdleView(), err
	}
	state.ActiveTourID = ""
	state.StepIndex = 0
	return state, IdleView(), nil
}

// Complete marks a tour finished and returns to idle. An empty tour id
// completes the active tour. Completion is idempotent.
func (r *Runner) Complete(ctx context.Context, state RunState, tourID string) (RunState, View, error) {
	state = state.clone()
	if tourID == "" {
		t, err := r.active(&state)
		if err != nil {
			return state, IdleView(), err
		}
		tourID = t.ID
	}
	if _, ok := r.catalog.Tour(tourID); !ok {
		return state, IdleView(), apperrors.WithMetadata(apperrors.CodeTourNotFound, "tour not found", map[string]string{
			"TourID": tourID,
		})
	}
	state.Completed[tourID] = true
	if state.ActiveTourID == tourID {
		state.ActiveTourID = ""
		state.StepIndex = 0
	}
	return state, IdleView(), nil
}

// Close dismisses the current tour without marking it completed.
func (r *Runner) Close(ctx context.Context, state RunState) (RunState, View, error) {
	state = state.clone()
	if _, err := r.active(&state); err != nil {
		return state, IdleView(), err
	}
	state.ActiveTourID = ""
	state.StepIndex = 0
	return state, IdleView(), nil
}

// active resolves the tour the state points at. When the active tour has
// vanished from the catalog (a hot reload can remove it mid-run), the
// state is reset to idle so the stale pointer is not persisted.
func (r *Runner) active(state *RunState) (Tour, error) {
	if state.Idle() {
		return Tour{}, apperrors.New(apperrors.CodeTourNotActive, "no tour in progress")
	}
	t, ok := r.catalog.Tour(state.ActiveTourID)
	if !ok {
		missing := state.ActiveTourID
		r.logf("tour: active tour %q missing from catalog, resetting to idle", missing)
		state.ActiveTourID = ""
		state.StepIndex = 0
		return Tour{}, apperrors.WithMetadata(apperrors.CodeTourNotFound, "active tour missing from catalog", map[string]string{
			"TourID": missing,
		})
	}
	return t, nil
}

// enterStep performs the step's pre-action and waits for its target. Action
// failures and missing targets are non-fatal; the step is shown centered
// when its target never appears.
func (r *Runner) enterStep(ctx context.Context, t Tour, index int) View {
	step := t.Steps[index]
	view := View{
		Phase:     PhaseActive,
		TourID:    t.ID,
		StepIndex: index,
		StepCount: len(t.Steps),
		Step:      &step,
		Placement: step.EffectivePlacement(),
	}
	if r.probe == nil {
		return view
	}
	if step.Action != nil {
		if err := r.probe.Perform(ctx, *step.Action); err != nil {
			r.logf("tour: step %s/%s action %s failed: %v", t.ID, step.ID, step.Action.Kind, err)
		}
	}
	if step.Target == "" {
		return view
	}
	err := WaitFor(ctx, r.pollInterval, r.waitTimeout, func(ctx context.Context) (bool, error) {
		return r.probe.TargetVisible(ctx, step.Target)
	})
	if err != nil {
		r.logf("tour: step %s/%s target %q unavailable: %v", t.ID, step.ID, step.Target, err)
		view.Placement = PlacementCentered
		view.TargetMissing = true
	}
	return view
}
