package tour

import (
	"context"
	"testing"
	"time"

	apperrors "github.com/launchfolio/launchfolio/internal/platform/errors"
)

type staticCatalog map[string]Tour

func (c staticCatalog) Tour(id string) (Tour, bool) {
	t, ok := c[id]
	return t, ok
}

type fakeProbe struct {
	visible    map[string]bool
	performed  []Action
	performErr error
}

func (p *fakeProbe) TargetVisible(_ context.Context, selector string) (bool, error) {
	return p.visible[selector], nil
}

func (p *fakeProbe) Perform(_ context.Context, action Action) error {
	p.performed = append(p.performed, action)
	return p.performErr
}

func testCatalog() staticCatalog {
	return staticCatalog{
		"welcome-tour": {
			ID:       "welcome-tour",
			Name:     "Welcome",
			Category: CategoryWelcome,
			Steps: []Step{
				{ID: "one", Title: "One"},
				{ID: "two", Title: "Two", Target: "#two", Placement: PlacementTooltip},
				{ID: "three", Title: "Three"},
			},
		},
	}
}

func TestRunnerStartAndWalkToCompletion(t *testing.T) {
	r := NewRunner(testCatalog())
	ctx := context.Background()

	state, view, err := r.Start(ctx, NewRunState(), "welcome-tour")
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if view.Phase != PhaseActive || view.StepIndex != 0 {
		t.Fatalf("Start() view = %+v, want active step 0", view)
	}
	if state.ActiveTourID != "welcome-tour" {
		t.Fatalf("ActiveTourID = %q, want welcome-tour", state.ActiveTourID)
	}

	// Calling next once per step walks every index in order and ends idle.
	for want := 1; want < 3; want++ {
		state, view, err = r.Next(ctx, state)
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		if view.StepIndex != want {
			t.Fatalf("Next() step = %d, want %d", view.StepIndex, want)
		}
	}
	state, view, err = r.Next(ctx, state)
	if err != nil {
		t.Fatalf("final Next() error = %v", err)
	}
	if view.Phase != PhaseIdle {
		t.Fatalf("final view phase = %v, want idle", view.Phase)
	}
	if !state.Idle() {
		t.Fatalf("state = %+v, want idle", state)
	}
	if !state.HasCompleted("welcome-tour") {
		t.Fatal("tour not recorded as completed")
	}
}

func TestRunnerStartUnknownTourReturnsIdle(t *testing.T) {
	r := NewRunner(testCatalog(), WithLogf(func(string, ...any) {}))

	state, view, err := r.Start(context.Background(), NewRunState(), "missing")
	if !apperrors.IsCode(err, apperrors.CodeTourNotFound) {
		t.Fatalf("Start() error = %v, want %v", err, apperrors.CodeTourNotFound)
	}
	if view.Phase != PhaseIdle {
		t.Fatalf("view phase = %v, want idle", view.Phase)
	}
	if !state.Idle() {
		t.Fatalf("state = %+v, want idle", state)
	}
}

func TestRunnerStartReplacesActiveTour(t *testing.T) {
	catalog := testCatalog()
	catalog["other"] = Tour{
		ID:       "other",
		Name:     "Other",
		Category: CategoryFeature,
		Steps:    []Step{{ID: "only", Title: "Only"}},
	}
	r := NewRunner(catalog)
	ctx := context.Background()

	state, _, err := r.Start(ctx, NewRunState(), "welcome-tour")
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	state, _, err = r.Next(ctx, state)
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}

	state, view, err := r.Start(ctx, state, "other")
	if err != nil {
		t.Fatalf("second Start() error = %v", err)
	}
	if state.ActiveTourID != "other" || view.StepIndex != 0 {
		t.Fatalf("state = %+v view = %+v, want other at step 0", state, view)
	}
	if state.HasCompleted("welcome-tour") {
		t.Fatal("abandoned tour must not be marked completed")
	}
}

func TestRunnerNextResetsWhenActiveTourVanishes(t *testing.T) {
	catalog := testCatalog()
	r := NewRunner(catalog, WithLogf(func(string, ...any) {}))
	ctx := context.Background()

	state, _, err := r.Start(ctx, NewRunState(), "welcome-tour")
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	// A catalog reload can remove the tour while the user is mid-run.
	delete(catalog, "welcome-tour")

	state, view, err := r.Next(ctx, state)
	if !apperrors.IsCode(err, apperrors.CodeTourNotFound) {
		t.Fatalf("Next() error = %v, want %v", err, apperrors.CodeTourNotFound)
	}
	if view.Phase != PhaseIdle {
		t.Fatalf("view phase = %v, want idle", view.Phase)
	}
	if !state.Idle() {
		t.Fatalf("state = %+v, want idle after active tour vanished", state)
	}
}

func TestRunnerCloseResetsWhenActiveTourVanishes(t *testing.T) {
	catalog := testCatalog()
	r := NewRunner(catalog, WithLogf(func(string, ...any) {}))
	ctx := context.Background()

	state, _, err := r.Start(ctx, NewRunState(), "welcome-tour")
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	delete(catalog, "welcome-tour")

	state, _, err = r.Close(ctx, state)
	if !apperrors.IsCode(err, apperrors.CodeTourNotFound) {
		t.Fatalf("Close() error = %v, want %v", err, apperrors.CodeTourNotFound)
	}
	if !state.Idle() {
		t.Fatalf("state = %+v, want idle after active tour vanished", state)
	}
}

func TestRunnerPreviousAtFirstStepIsNoOp(t *testing.T) {
	r := NewRunner(testCatalog())
	ctx := context.Background()

	state, _, err := r.Start(ctx, NewRunState(), "welcome-tour")
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	next, view, err := r.Previous(ctx, state)
	if err != nil {
		t.Fatalf("Previous() error = %v", err)
	}
	if next.StepIndex != 0 || next.ActiveTourID != "welcome-tour" {
		t.Fatalf("state = %+v, want unchanged", next)
	}
	if view.Phase != PhaseActive || view.StepIndex != 0 {
		t.Fatalf("view = %+v, want active step 0", view)
	}
}

func TestRunnerPreviousMovesBack(t *testing.T) {
	r := NewRunner(testCatalog())
	ctx := context.Background()

	state, _, _ := r.Start(ctx, NewRunState(), "welcome-tour")
	state, _, err := r.Next(ctx, state)
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	state, view, err := r.Previous(ctx, state)
	if err != nil {
		t.Fatalf("Previous() error = %v", err)
	}
	if state.StepIndex != 0 || view.StepIndex != 0 {
		t.Fatalf("state = %+v view = %+v, want step 0", state, view)
	}
}

func TestRunnerSkipDoesNotMarkCompleted(t *testing.T) {
	r := NewRunner(testCatalog())
	ctx := context.Background()

	state, _, _ := r.Start(ctx, NewRunState(), "welcome-tour")
	state, view, err := r.Skip(ctx, state)
	if err != nil {
		t.Fatalf("Skip() error = %v", err)
	}
	if view.Phase != PhaseIdle || !state.Idle() {
		t.Fatalf("state = %+v view = %+v, want idle", state, view)
	}
	if state.HasCompleted("welcome-tour") {
		t.Fatal("skipped tour must not be marked completed")
	}
}

func TestRunnerCompleteActiveTour(t *testing.T) {
	r := NewRunner(testCatalog())
	ctx := context.Background()

	state, _, _ := r.Start(ctx, NewRunState(), "welcome-tour")
	state, view, err := r.Complete(ctx, state, "")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if view.Phase != PhaseIdle || !state.Idle() {
		t.Fatalf("state = %+v view = %+v, want idle", state, view)
	}
	if !state.HasCompleted("welcome-tour") {
		t.Fatal("completed tour must be recorded")
	}
}

func TestRunnerCompleteByIDWhileIdle(t *testing.T) {
	r := NewRunner(testCatalog())
	ctx := context.Background()

	state, _, err := r.Complete(ctx, NewRunState(), "welcome-tour")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if !state.HasCompleted("welcome-tour") {
		t.Fatal("completed tour must be recorded")
	}

	if _, _, err := r.Complete(ctx, NewRunState(), "ghost-tour"); !apperrors.IsCode(err, apperrors.CodeTourNotFound) {
		t.Fatalf("Complete() error = %v, want %v", err, apperrors.CodeTourNotFound)
	}
}

func TestRunnerCloseDoesNotMarkCompleted(t *testing.T) {
	r := NewRunner(testCatalog())
	ctx := context.Background()

	state, _, _ := r.Start(ctx, NewRunState(), "welcome-tour")
	state, view, err := r.Close(ctx, state)
	if err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if view.Phase != PhaseIdle || !state.Idle() {
		t.Fatalf("state = %+v view = %+v, want idle", state, view)
	}
	if state.HasCompleted("welcome-tour") {
		t.Fatal("closed tour must not be marked completed")
	}
}

func TestRunnerOperationsWhenIdle(t *testing.T) {
	r := NewRunner(testCatalog())
	ctx := context.Background()

	ops := map[string]func(context.Context, RunState) (RunState, View, error){
		"next":     r.Next,
		"previous": r.Previous,
		"skip":     r.Skip,
		"close":    r.Close,
	}
	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			_, _, err := op(ctx, NewRunState())
			if !apperrors.IsCode(err, apperrors.CodeTourNotActive) {
				t.Fatalf("%s error = %v, want %v", name, err, apperrors.CodeTourNotActive)
			}
		})
	}
}

func TestRunnerCompletionIsIdempotent(t *testing.T) {
	r := NewRunner(testCatalog())
	ctx := context.Background()

	state := NewRunState()
	for range 2 {
		var err error
		state, _, err = r.Start(ctx, state, "welcome-tour")
		if err != nil {
			t.Fatalf("Start() error = %v", err)
		}
		state, _, err = r.Complete(ctx, state, "")
		if err != nil {
			t.Fatalf("Complete() error = %v", err)
		}
	}
	if got := state.CompletedIDs(); len(got) != 1 || got[0] != "welcome-tour" {
		t.Fatalf("CompletedIDs() = %v, want [welcome-tour]", got)
	}
}

func TestRunnerTargetTimeoutFallsBackToCentered(t *testing.T) {
	probe := &fakeProbe{visible: map[string]bool{}}
	r := NewRunner(testCatalog(),
		WithProbe(probe),
		WithWait(10*time.Millisecond, time.Millisecond),
		WithLogf(func(string, ...any) {}),
	)
	ctx := context.Background()

	state, _, _ := r.Start(ctx, NewRunState(), "welcome-tour")
	_, view, err := r.Next(ctx, state)
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if view.Placement != PlacementCentered {
		t.Fatalf("placement = %v, want centered fallback", view.Placement)
	}
	if !view.TargetMissing {
		t.Fatal("view must report the missing target")
	}
}

func TestRunnerTargetVisibleUsesTooltip(t *testing.T) {
	probe := &fakeProbe{visible: map[string]bool{"#two": true}}
	r := NewRunner(testCatalog(),
		WithProbe(probe),
		WithWait(10*time.Millisecond, time.Millisecond),
	)
	ctx := context.Background()

	state, _, _ := r.Start(ctx, NewRunState(), "welcome-tour")
	_, view, err := r.Next(ctx, state)
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if view.Placement != PlacementTooltip || view.TargetMissing {
		t.Fatalf("view = %+v, want tooltip with target present", view)
	}
}

func TestRunnerActionFailureIsNonFatal(t *testing.T) {
	catalog := staticCatalog{
		"with-action": {
			ID:       "with-action",
			Name:     "With action",
			Category: CategoryFeature,
			Steps: []Step{
				{ID: "act", Title: "Act", Action: &Action{Kind: ActionClick, Selector: "#button"}},
			},
		},
	}
	probe := &fakeProbe{visible: map[string]bool{}, performErr: context.DeadlineExceeded}
	var warned bool
	r := NewRunner(catalog,
		WithProbe(probe),
		WithWait(10*time.Millisecond, time.Millisecond),
		WithLogf(func(string, ...any) { warned = true }),
	)

	_, view, err := r.Start(context.Background(), NewRunState(), "with-action")
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if view.Phase != PhaseActive {
		t.Fatalf("view phase = %v, want active", view.Phase)
	}
	if len(probe.performed) != 1 || probe.performed[0].Kind != ActionClick {
		t.Fatalf("performed = %+v, want one click", probe.performed)
	}
	if !warned {
		t.Fatal("action failure must be logged")
	}
}
