// Package tour implements the guided onboarding engine: tour definitions,
// the step state machine, and target-wait behavior.
//
// A tour is an ordered sequence of steps shown to a user. Each step carries
// text content and optionally a target selector, a required route, and a
// pre-step action. The runner walks one tour at a time and records
// completions idempotently.
package tour

import (
	"strings"
	"time"

	apperrors "github.com/launchfolio/launchfolio/internal/platform/errors"
)

// Category groups tours by audience.
type Category string

const (
	CategoryWelcome  Category = "welcome"
	CategoryFeature  Category = "feature"
	CategoryAdvanced Category = "advanced"
)

// Placement controls how a step is displayed.
type Placement string

const (
	// PlacementTooltip anchors the step to its target.
	PlacementTooltip Placement = "tooltip"
	// PlacementCentered shows the step as a centered modal. Steps without a
	// target always use centered placement, as do steps whose target never
	// becomes available.
	PlacementCentered Placement = "centered"
)

// ActionKind identifies a pre-step action performed before a step is shown.
type ActionKind string

const (
	ActionClick  ActionKind = "click"
	ActionFocus  ActionKind = "focus"
	ActionScroll ActionKind = "scroll"
	ActionWait   ActionKind = "wait"
)

// Action is an optional interaction executed before entering a step.
type Action struct {
	Kind     ActionKind `yaml:"kind"`
	Selector string     `yaml:"selector"`
}

// Step is one unit of a tour.
type Step struct {
	ID        string    `yaml:"id"`
	Title     string    `yaml:"title"`
	Body      string    `yaml:"body"`
	Target    string    `yaml:"target,omitempty"`
	Route     string    `yaml:"route,omitempty"`
	Placement Placement `yaml:"placement,omitempty"`
	Action    *Action   `yaml:"action,omitempty"`
}

// Tour is a named, ordered sequence of onboarding steps.
type Tour struct {
	ID          string        `yaml:"id"`
	Name        string        `yaml:"name"`
	Description string        `yaml:"description,omitempty"`
	Category    Category      `yaml:"category"`
	Duration    time.Duration `yaml:"duration,omitempty"`
	Steps       []Step        `yaml:"steps"`
}

func validCategory(c Category) bool {
	switch c {
	case CategoryWelcome, CategoryFeature, CategoryAdvanced:
		return true
	}
	return false
}

func validPlacement(p Placement) bool {
	switch p {
	case "", PlacementTooltip, PlacementCentered:
		return true
	}
	return false
}

func validActionKind(k ActionKind) bool {
	switch k {
	case ActionClick, ActionFocus, ActionScroll, ActionWait:
		return true
	}
	return false
}

func invalidDefinition(tourID string, reason string) error {
	return apperrors.WithMetadata(apperrors.CodeTourInvalidDefinition, reason, map[string]string{
		"TourID": tourID,
	})
}

// Validate checks structural invariants of the tour definition.
func (t Tour) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return apperrors.New(apperrors.CodeTourInvalidDefinition, "tour id is required")
	}
	if strings.TrimSpace(t.Name) == "" {
		return invalidDefinition(t.ID, "tour name is required")
	}
	if !validCategory(t.Category) {
		return invalidDefinition(t.ID, "tour category is invalid")
	}
	if len(t.Steps) == 0 {
		return invalidDefinition(t.ID, "tour has no steps")
	}

	seen := make(map[string]bool, len(t.Steps))
	for _, step := range t.Steps {
		if strings.TrimSpace(step.ID) == "" {
			return invalidDefinition(t.ID, "step id is required")
		}
		if seen[step.ID] {
			return invalidDefinition(t.ID, "duplicate step id "+step.ID)
		}
		seen[step.ID] = true
		if strings.TrimSpace(step.Title) == "" {
			return invalidDefinition(t.ID, "step "+step.ID+" title is required")
		}
		if !validPlacement(step.Placement) {
			return invalidDefinition(t.ID, "step "+step.ID+" placement is invalid")
		}
		if step.Placement == PlacementTooltip && strings.TrimSpace(step.Target) == "" {
			return invalidDefinition(t.ID, "step "+step.ID+" requires a target for tooltip placement")
		}
		if step.Action != nil {
			if !validActionKind(step.Action.Kind) {
				return invalidDefinition(t.ID, "step "+step.ID+" action kind is invalid")
			}
			if strings.TrimSpace(step.Action.Selector) == "" {
				return invalidDefinition(t.ID, "step "+step.ID+" action selector is required")
			}
		}
	}
	return nil
}

// EffectivePlacement returns the placement used when the step's target is
// available. Steps without a target are always centered.
func (s Step) EffectivePlacement() Placement {
	if strings.TrimSpace(s.Target) == "" {
		return PlacementCentered
	}
	if s.Placement == "" {
		return PlacementTooltip
	}
	return s.Placement
}
