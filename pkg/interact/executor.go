// Package interact applies voice-selected operations to scene entities:
// holding and releasing objects with two hands, pressing buttons, and
// setting toggles, sliders and dropdowns.
package interact

import (
	"math"
	"strings"
	"time"

	"github.com/teslashibe/go-voicebridge/internal/log"
	"github.com/teslashibe/go-voicebridge/pkg/naming"
	"github.com/teslashibe/go-voicebridge/pkg/outcome"
	"github.com/teslashibe/go-voicebridge/pkg/resolve"
	"github.com/teslashibe/go-voicebridge/pkg/scene"
)

// Slot is one hand. It holds at most one entity plus the parent to restore
// on release.
type Slot struct {
	Entity      scene.Grabbable
	PriorParent string
}

// Empty reports whether the hand holds nothing.
func (s Slot) Empty() bool { return s.Entity == nil }

// Config holds executor settings.
type Config struct {
	// ObserveDelay is how long after a click the scene is re-checked.
	ObserveDelay time.Duration
}

// DefaultConfig returns the default executor settings.
func DefaultConfig() Config {
	return Config{ObserveDelay: 500 * time.Millisecond}
}

// Executor owns the two hand slots and the click observation window.
// It is not safe for concurrent use; the control loop owns it.
type Executor struct {
	cfg      Config
	provider scene.Provider
	anchors  [2]scene.Anchor
	display  func(scene.Entity) string

	slots [2]Slot
	obs   observer
}

// New creates an executor. display names entities in results; nil uses
// Name().
func New(provider scene.Provider, anchors [2]scene.Anchor, cfg Config, display func(scene.Entity) string) *Executor {
	if display == nil {
		display = func(e scene.Entity) string { return e.Name() }
	}
	return &Executor{cfg: cfg, provider: provider, anchors: anchors, display: display}
}

// Slot returns the state of a hand.
func (x *Executor) Slot(h scene.Hand) Slot { return x.slots[h] }

// Anchors returns both hand anchors, left first.
func (x *Executor) Anchors() []scene.Anchor { return x.anchors[:] }

// Holding returns the hand holding e, if any.
func (x *Executor) Holding(e scene.Entity) (scene.Hand, bool) {
	for _, h := range scene.Hands {
		if s := x.slots[h]; !s.Empty() && s.Entity.ID() == e.ID() {
			return h, true
		}
	}
	return scene.Left, false
}

// Grab puts e in the preferred hand, or the other hand if the preferred
// one is busy.
func (x *Executor) Grab(e scene.Grabbable, preferred scene.Hand) (outcome.Result, error) {
	name := x.display(e)
	if _, held := x.Holding(e); held {
		f := outcome.Fail(outcome.ErrAllUnavailable, scene.KindGrabbable, name)
		f.Name = name
		return outcome.Result{}, f
	}

	h := preferred
	if !x.slots[h].Empty() {
		h = h.Other()
	}
	if !x.slots[h].Empty() {
		f := outcome.Fail(outcome.ErrBothBusy, scene.KindGrabbable, name)
		f.Name, f.Hand = name, preferred
		return outcome.Result{}, f
	}

	prior := e.Parent()
	e.Attach(x.anchors[h])
	e.SetKinematic(true)
	x.slots[h] = Slot{Entity: e, PriorParent: prior}

	log.Info("grabbed", "entity", e.ID(), "name", name, "hand", h)
	return outcome.Result{Action: outcome.ActionGrab, Kind: scene.KindGrabbable, Name: name, Hand: h}, nil
}

// Release empties a hand, restoring the held entity's parent and physics.
func (x *Executor) Release(h scene.Hand) (outcome.Result, error) {
	s := x.slots[h]
	if s.Empty() {
		f := outcome.Fail(outcome.ErrSlotEmpty, scene.KindGrabbable, h.String())
		f.Hand = h
		return outcome.Result{}, f
	}

	e := s.Entity
	e.Detach(s.PriorParent)
	e.SetKinematic(false)
	e.SetVelocity(scene.Vec3{})
	x.slots[h] = Slot{}

	name := x.display(e)
	log.Info("released", "entity", e.ID(), "name", name, "hand", h)
	return outcome.Result{Action: outcome.ActionRelease, Kind: scene.KindGrabbable, Name: name, Hand: h}, nil
}

// ReleaseMatching releases whichever hand holds an entity whose canonical
// key the phrase resolves to. The left hand is tried first on a tie.
func (x *Executor) ReleaseMatching(phrase string) (outcome.Result, error) {
	return x.releaseMatching(phrase, scene.Hands[:])
}

// ReleaseMatchingIn releases h only if it holds an entity the phrase
// resolves to.
func (x *Executor) ReleaseMatchingIn(h scene.Hand, phrase string) (outcome.Result, error) {
	r, err := x.releaseMatching(phrase, []scene.Hand{h})
	if f, ok := outcome.AsFailure(err); ok {
		f.Hand = h
	}
	return r, err
}

func (x *Executor) releaseMatching(phrase string, hands []scene.Hand) (outcome.Result, error) {
	var keys []string
	for _, h := range hands {
		if s := x.slots[h]; !s.Empty() {
			keys = append(keys, naming.Key(x.display(s.Entity)))
		}
	}
	if key, ok := resolve.Key(phrase, keys); ok {
		for _, h := range hands {
			if s := x.slots[h]; !s.Empty() && naming.Key(x.display(s.Entity)) == key {
				return x.Release(h)
			}
		}
	}
	return outcome.Result{}, outcome.Fail(outcome.ErrNotHeld, scene.KindGrabbable, phrase)
}

// Inventory reports what each hand holds.
func (x *Executor) Inventory() outcome.Result {
	r := outcome.Result{Action: outcome.ActionInventory, Kind: scene.KindGrabbable}
	for _, h := range scene.Hands {
		if s := x.slots[h]; !s.Empty() {
			r.Held[h] = x.display(s.Entity)
		}
	}
	return r
}

func (x *Executor) unavailable(e scene.Interactable, kind scene.Kind) error {
	if e.Active() && e.Interactable() {
		return nil
	}
	name := x.display(e)
	f := outcome.Fail(outcome.ErrUnavailable, kind, name)
	f.Name = name
	return f
}

// Click presses a button and opens the observation window. A pending
// window from an earlier click is dropped.
func (x *Executor) Click(e scene.Clickable, now time.Time) (outcome.Result, error) {
	if err := x.unavailable(e, scene.KindClickable); err != nil {
		return outcome.Result{}, err
	}
	name := x.display(e)
	before := x.snapshot()
	e.Click()
	id := x.obs.open(e.ID(), name, before, now.Add(x.cfg.ObserveDelay))

	log.Info("clicked", "entity", e.ID(), "name", name, "click", id)
	return outcome.Result{Action: outcome.ActionClick, Kind: scene.KindClickable, Name: name}, nil
}

// SetBoolean switches a toggle.
func (x *Executor) SetBoolean(e scene.Toggleable, on bool) (outcome.Result, error) {
	if err := x.unavailable(e, scene.KindToggleable); err != nil {
		return outcome.Result{}, err
	}
	r := outcome.Result{
		Action:  outcome.ActionToggle,
		Kind:    scene.KindToggleable,
		Name:    x.display(e),
		State:   on,
		Grouped: e.Group() != "",
	}
	if e.On() == on {
		r.Unchanged = true
		return r, nil
	}
	e.SetOn(on)
	log.Info("toggled", "entity", e.ID(), "name", r.Name, "on", on)
	return r, nil
}

// SetNumeric sets a slider. Values outside the declared range are
// rejected; whole-number sliders round to the nearest integer.
func (x *Executor) SetNumeric(e scene.Ranged, v float64) (outcome.Result, error) {
	if err := x.unavailable(e, scene.KindRanged); err != nil {
		return outcome.Result{}, err
	}
	name := x.display(e)
	lo, hi := e.Range()
	if math.IsNaN(v) || v < lo || v > hi {
		f := outcome.Fail(outcome.ErrOutOfRange, scene.KindRanged, name)
		f.Name, f.Min, f.Max, f.Value = name, lo, hi, v
		return outcome.Result{}, f
	}
	if e.WholeNumbers() {
		v = math.Round(v)
	}
	e.SetValue(v)

	log.Info("slider set", "entity", e.ID(), "name", name, "value", e.Value())
	return outcome.Result{Action: outcome.ActionSlide, Kind: scene.KindRanged, Name: name, Value: e.Value()}, nil
}

// SetSelection selects the option whose label matches in spoken form:
// case and punctuation are ignored, so "hi fi" selects "Hi-Fi".
func (x *Executor) SetSelection(e scene.Selectable, label string) (outcome.Result, error) {
	if err := x.unavailable(e, scene.KindSelectable); err != nil {
		return outcome.Result{}, err
	}
	name := x.display(e)
	label = strings.TrimSpace(label)

	want := naming.Words(label)
	idx := -1
	for i, opt := range e.Options() {
		if want != "" && naming.Words(opt) == want {
			idx = i
			break
		}
	}
	if idx < 0 {
		f := outcome.Fail(outcome.ErrOptionNotFound, scene.KindSelectable, name)
		f.Name, f.Option = name, label
		return outcome.Result{}, f
	}

	r := outcome.Result{Action: outcome.ActionSelect, Kind: scene.KindSelectable, Name: name, Option: e.Options()[idx]}
	if e.Selected() == idx {
		r.Unchanged = true
		return r, nil
	}
	e.Select(idx)
	log.Info("option selected", "entity", e.ID(), "name", name, "option", r.Option)
	return r, nil
}
