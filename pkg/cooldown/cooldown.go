// Package cooldown throttles re-firing of voice commands. Each command has
// its own window; firing one command never delays another.
package cooldown

import "time"

// epsilon keeps a freshly registered command strictly past its window.
const epsilon = time.Millisecond

type entry struct {
	window    time.Duration
	lastFired time.Time
}

// Gate tracks the last fire time of every registered command.
// It is not safe for concurrent use; the control loop owns it.
type Gate struct {
	entries map[string]*entry
}

// New creates an empty gate.
func New() *Gate {
	return &Gate{entries: make(map[string]*entry)}
}

// Register adds a command with its window. The last-fired time is seeded
// so the first TryFire at or after now succeeds. Registering an existing id
// resets it.
func (g *Gate) Register(id string, window time.Duration, now time.Time) {
	g.entries[id] = &entry{
		window:    window,
		lastFired: now.Add(-window - epsilon),
	}
}

// TryFire reports whether id may fire at now. On success the fire time is
// recorded; on failure nothing changes. Unknown ids always fire and are not
// tracked.
func (g *Gate) TryFire(id string, now time.Time) bool {
	e, ok := g.entries[id]
	if !ok {
		return true
	}
	if now.Before(e.lastFired.Add(e.window)) {
		return false
	}
	e.lastFired = now
	return true
}

// Remaining returns how long until id may fire again, zero if it may now.
func (g *Gate) Remaining(id string, now time.Time) time.Duration {
	e, ok := g.entries[id]
	if !ok {
		return 0
	}
	if d := e.lastFired.Add(e.window).Sub(now); d > 0 {
		return d
	}
	return 0
}

// LastFired returns the recorded fire time of id.
func (g *Gate) LastFired(id string) (time.Time, bool) {
	e, ok := g.entries[id]
	if !ok {
		return time.Time{}, false
	}
	return e.lastFired, true
}
