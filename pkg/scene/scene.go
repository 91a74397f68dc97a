// Package scene defines the narrow contracts through which the voice bridge
// sees an interactive 3D environment: entities of each interaction kind,
// the two actor anchors, and a provider that lists entities per kind.
//
// Small interfaces, composed per kind. Consumers depend only on the kind
// they operate on.
package scene

import (
	"math"
	"strings"
)

// Kind is the interaction category of an entity.
type Kind int

const (
	KindGrabbable Kind = iota
	KindClickable
	KindToggleable
	KindRanged
	KindSelectable
)

// Kinds lists every kind in registry order.
var Kinds = []Kind{KindGrabbable, KindClickable, KindToggleable, KindRanged, KindSelectable}

// String returns the spoken noun for the kind.
func (k Kind) String() string {
	switch k {
	case KindGrabbable:
		return "object"
	case KindClickable:
		return "button"
	case KindToggleable:
		return "checkbox"
	case KindRanged:
		return "slider"
	case KindSelectable:
		return "dropdown"
	default:
		return "control"
	}
}

// Vec3 is a position in world space, in meters.
type Vec3 struct {
	X, Y, Z float64
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Length returns the Euclidean norm of v.
func (v Vec3) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Distance returns the distance between v and o.
func (v Vec3) Distance(o Vec3) float64 {
	return v.Sub(o).Length()
}

// Hand identifies one of the two actor slots.
type Hand int

const (
	Left Hand = iota
	Right
)

// Hands lists both hands, left first.
var Hands = [2]Hand{Left, Right}

func (h Hand) String() string {
	if h == Left {
		return "left"
	}
	return "right"
}

// Other returns the opposite hand.
func (h Hand) Other() Hand {
	if h == Left {
		return Right
	}
	return Left
}

// ParseHand accepts "left" or "right" in any case.
func ParseHand(s string) (Hand, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left":
		return Left, true
	case "right":
		return Right, true
	}
	return Left, false
}

// Entity is the common view of anything the bridge can address by name.
type Entity interface {
	// ID is stable for the entity's lifetime and unique in the scene.
	ID() string
	// Name is the entity's own identifier, e.g. "Cube (2)".
	Name() string
	// Label is the visible text shown for it, or "" if there is none.
	Label() string
	// Active reports whether the entity is present and enabled in the scene.
	Active() bool
	Position() Vec3
}

// Interactable is implemented by on-screen controls that can refuse input.
type Interactable interface {
	Entity
	Interactable() bool
}

// Grabbable is an object an actor can hold.
type Grabbable interface {
	Entity
	// Parent returns the id of the current parent, "" for the scene root.
	Parent() string
	// Attach parents the entity to the anchor at identity offset.
	Attach(a Anchor)
	// Detach reparents the entity to parent, keeping its world position.
	Detach(parent string)
	// SetKinematic suspends (true) or resumes (false) independent physics.
	SetKinematic(on bool)
	SetVelocity(v Vec3)
}

// Clickable is a button-like control.
type Clickable interface {
	Interactable
	Click()
}

// Toggleable is a checkbox or radio-style control.
type Toggleable interface {
	Interactable
	On() bool
	SetOn(on bool)
	// Group is the mutually-exclusive group name, "" if ungrouped.
	Group() string
}

// Ranged is a slider-like control with a bounded numeric value.
type Ranged interface {
	Interactable
	Value() float64
	Range() (min, max float64)
	WholeNumbers() bool
	SetValue(v float64)
}

// Selectable is a dropdown-like control with a list of option labels.
type Selectable interface {
	Interactable
	Options() []string
	Selected() int
	Select(index int)
}

// Anchor is an actor reference point (a hand).
type Anchor interface {
	ID() string
	Position() Vec3
}

// Provider lists the current entities of each kind. scope selects a
// sub-tree of the scene; "" means the whole scene.
type Provider interface {
	Grabbables(scope string) []Grabbable
	Buttons(scope string) []Clickable
	Toggles(scope string) []Toggleable
	Sliders(scope string) []Ranged
	Dropdowns(scope string) []Selectable
}

// DisplayName returns the name the entity is known by for voice: its
// visible label when preferLabel is set and a label exists, else its name.
func DisplayName(e Entity, preferLabel bool) string {
	if preferLabel {
		if l := strings.TrimSpace(e.Label()); l != "" {
			return l
		}
	}
	return e.Name()
}
