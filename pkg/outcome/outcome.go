// Package outcome is the shared vocabulary of results and failures produced
// by resolution and execution, and consumed by the feedback reporter.
package outcome

import "github.com/teslashibe/go-voicebridge/pkg/scene"

// Action is the operation that produced a Result.
type Action int

const (
	ActionGrab Action = iota
	ActionRelease
	ActionClick
	ActionToggle
	ActionSlide
	ActionSelect
	ActionRefresh
	ActionInventory
)

func (a Action) String() string {
	switch a {
	case ActionGrab:
		return "grab"
	case ActionRelease:
		return "release"
	case ActionClick:
		return "click"
	case ActionToggle:
		return "toggle"
	case ActionSlide:
		return "slide"
	case ActionSelect:
		return "select"
	case ActionRefresh:
		return "refresh"
	case ActionInventory:
		return "inventory"
	default:
		return "unknown"
	}
}

// Result describes a successful operation.
type Result struct {
	Action Action
	Kind   scene.Kind
	Name   string // display name of the entity acted on
	Hand   scene.Hand

	// Unchanged is set when the entity was already in the requested state.
	Unchanged bool

	State   bool    // ActionToggle
	Grouped bool    // ActionToggle: the toggle belongs to an exclusive group
	Value   float64 // ActionSlide: value after rounding/clamping
	Option  string  // ActionSelect: the option label as the control spells it

	Count int       // ActionRefresh: number of voice-addressable entities
	Held  [2]string // ActionInventory: display names held per hand, "" if empty
}
