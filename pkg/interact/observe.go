package interact

import (
	"time"

	"github.com/teslashibe/go-voicebridge/pkg/scene"
)

// Observation is the result of a closed post-click window.
type Observation struct {
	ClickID  uint64
	EntityID string
	Name     string

	// Appeared lists controls that became active after the click, in scan
	// order.
	Appeared []string
	// Vanished is set when the clicked control is no longer active.
	Vanished bool
}

type seen struct {
	id   string
	name string
}

type window struct {
	id       uint64
	entityID string
	name     string
	before   map[string]bool
	due      time.Time
}

// observer keeps at most one pending window. Opening a window replaces the
// pending one; seq numbers clicks for the Observation.
type observer struct {
	seq     uint64
	pending *window
}

func (o *observer) open(entityID, name string, before []seen, due time.Time) uint64 {
	o.seq++
	set := make(map[string]bool, len(before))
	for _, s := range before {
		set[s.id] = true
	}
	o.pending = &window{id: o.seq, entityID: entityID, name: name, before: set, due: due}
	return o.seq
}

// Observing reports whether a post-click window is open.
func (x *Executor) Observing() bool {
	return x.obs.pending != nil
}

// CancelObservation drops the pending window, if any.
func (x *Executor) CancelObservation() {
	x.obs.pending = nil
}

// Tick closes the pending window once it is due and reports what changed.
func (x *Executor) Tick(now time.Time) (Observation, bool) {
	w := x.obs.pending
	if w == nil || now.Before(w.due) {
		return Observation{}, false
	}
	x.obs.pending = nil

	obs := Observation{ClickID: w.id, EntityID: w.entityID, Name: w.name, Vanished: true}
	for _, s := range x.snapshot() {
		if s.id == w.entityID {
			obs.Vanished = false
		}
		if !w.before[s.id] {
			obs.Appeared = append(obs.Appeared, s.name)
		}
	}
	return obs, true
}

// snapshot lists every active on-screen control in the scene.
func (x *Executor) snapshot() []seen {
	var out []seen
	add := func(e scene.Entity) {
		if e.Active() {
			out = append(out, seen{id: e.ID(), name: x.display(e)})
		}
	}
	for _, e := range x.provider.Buttons("") {
		add(e)
	}
	for _, e := range x.provider.Toggles("") {
		add(e)
	}
	for _, e := range x.provider.Sliders("") {
		add(e)
	}
	for _, e := range x.provider.Dropdowns("") {
		add(e)
	}
	return out
}
