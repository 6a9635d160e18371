package tour

import "sort"

// Phase is the runner's lifecycle phase.
type Phase string

const (
	// PhaseIdle means no tour is running.
	PhaseIdle Phase = "idle"
	// PhaseActive means a step is displayed.
	PhaseActive Phase = "active"
	// PhaseTransitioning means the runner is waiting for a step's target to
	// become available.
	PhaseTransitioning Phase = "transitioning"
)

// Preferences controls per-user tour behavior.
type Preferences struct {
	SkipIntros   bool `json:"skip_intros"`
	AutoProgress bool `json:"auto_progress"`
	ShowHints    bool `json:"show_hints"`
}

// DefaultPreferences returns the preferences applied to users who never
// changed them.
func DefaultPreferences() Preferences {
	return Preferences{ShowHints: true}
}

// PreferencesPatch is a partial preferences update. Nil fields keep their
// current value.
type PreferencesPatch struct {
	SkipIntros   *bool `json:"skip_intros,omitempty"`
	AutoProgress *bool `json:"auto_progress,omitempty"`
	ShowHints    *bool `json:"show_hints,omitempty"`
}

// Apply merges the patch into p.
func (patch PreferencesPatch) Apply(p Preferences) Preferences {
	if patch.SkipIntros != nil {
		p.SkipIntros = *patch.SkipIntros
	}
	if patch.AutoProgress != nil {
		p.AutoProgress = *patch.AutoProgress
	}
	if patch.ShowHints != nil {
		p.ShowHints = *patch.ShowHints
	}
	return p
}

// RunState is the persisted per-user tour state.
type RunState struct {
	// ActiveTourID is empty when the runner is idle.
	ActiveTourID string
	// StepIndex is the zero-based index of the current step. Meaningless
	// when ActiveTourID is empty.
	StepIndex int
	// Completed holds the ids of tours the user has finished.
	Completed map[string]bool
	// Preferences are the user's tour preferences.
	Preferences Preferences
}

// NewRunState returns an idle state with default preferences.
func NewRunState() RunState {
	return RunState{
		Completed:   map[string]bool{},
		Preferences: DefaultPreferences(),
	}
}

// Idle reports whether no tour is active.
func (s RunState) Idle() bool {
	return s.ActiveTourID == ""
}

// HasCompleted reports whether the tour was finished at least once.
func (s RunState) HasCompleted(tourID string) bool {
	return s.Completed[tourID]
}

// CompletedIDs returns the completed tour ids in sorted order.
func (s RunState) CompletedIDs() []string {
	ids := make([]string, 0, len(s.Completed))
	for id := range s.Completed {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (s RunState) clone() RunState {
	completed := make(map[string]bool, len(s.Completed))
	for id := range s.Completed {
		completed[id] = true
	}
	s.Completed = completed
	return s
}
