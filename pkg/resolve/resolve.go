// Package resolve maps a spoken phrase to a canonical key and then picks a
// single usable entity among the candidates registered under that key.
//
// One generic implementation serves every interaction kind; what differs
// per kind is carried by Policy.
package resolve

import (
	"math"
	"strings"

	"github.com/teslashibe/go-voicebridge/internal/log"
	"github.com/teslashibe/go-voicebridge/pkg/naming"
	"github.com/teslashibe/go-voicebridge/pkg/outcome"
	"github.com/teslashibe/go-voicebridge/pkg/scene"
)

// Key returns the registry key that the normalized phrase starts with.
// The longest matching key wins, so "cube red block" picks "cubered" over
// "cube". Equal-length matches resolve to the lexicographically smallest
// key. ok is false when nothing matches.
func Key(phrase string, keys []string) (key string, ok bool) {
	in := naming.Input(phrase)
	if in == "" {
		return "", false
	}
	for _, k := range keys {
		if k == "" || !strings.HasPrefix(in, k) {
			continue
		}
		if !ok || len(k) > len(key) || (len(k) == len(key) && k < key) {
			key, ok = k, true
		}
	}
	return key, ok
}

// Ranking selects among several usable candidates.
type Ranking int

const (
	// PickFirst takes the first candidate in registry order.
	PickFirst Ranking = iota
	// PickNearest takes the candidate closest to either anchor.
	PickNearest
)

// ParseRanking maps "first" / "nearest" to a Ranking.
func ParseRanking(s string) (Ranking, bool) {
	switch s {
	case "first":
		return PickFirst, true
	case "nearest":
		return PickNearest, true
	}
	return PickFirst, false
}

// Policy is the per-kind capability set used by Pick.
type Policy[E scene.Entity] struct {
	Kind scene.Kind

	// Available reports whether an active candidate can take the operation.
	// nil means every active candidate is available.
	Available func(E) bool

	Ranking Ranking
	Anchors []scene.Anchor

	// MaxReach bounds the distance of the nearest candidate when more than
	// one is usable and Ranking is PickNearest. Zero disables the check.
	MaxReach float64

	// Display names a candidate for feedback. nil uses Name().
	Display func(E) string
}

func (p *Policy[E]) display(e E) string {
	if p.Display != nil {
		return p.Display(e)
	}
	return e.Name()
}

// Pick chooses exactly one entity from cands, or returns a *outcome.Failure
// wrapping ErrNotFound, ErrAllUnavailable or ErrTooFar.
func Pick[E scene.Entity](phrase string, cands []E, p Policy[E]) (E, error) {
	var zero E

	var usable []E
	excluded := ""
	sawActive := false
	for _, c := range cands {
		if !c.Active() {
			continue
		}
		sawActive = true
		if p.Available != nil && !p.Available(c) {
			if excluded == "" {
				excluded = p.display(c)
			}
			continue
		}
		usable = append(usable, c)
	}

	switch {
	case len(usable) == 0 && sawActive:
		f := outcome.Fail(outcome.ErrAllUnavailable, p.Kind, phrase)
		f.Name = excluded
		return zero, f
	case len(usable) == 0:
		return zero, outcome.Fail(outcome.ErrNotFound, p.Kind, phrase)
	case len(usable) == 1 || p.Ranking == PickFirst || len(p.Anchors) == 0:
		return usable[0], nil
	}

	best, dist := Nearest(usable, p.Anchors)
	log.Debug("ranked candidates", "kind", p.Kind, "phrase", phrase, "count", len(usable),
		"nearest", p.display(best), "distance", dist)
	if p.MaxReach > 0 && dist > p.MaxReach {
		f := outcome.Fail(outcome.ErrTooFar, p.Kind, phrase)
		f.Name = p.display(best)
		f.Distance = dist
		return zero, f
	}
	return best, nil
}

// Nearest returns the candidate closest to any anchor and that distance.
// Ties keep registry order. cands must not be empty.
func Nearest[E scene.Entity](cands []E, anchors []scene.Anchor) (E, float64) {
	best := cands[0]
	bestDist := math.Inf(1)
	for _, c := range cands {
		if d := Reach(c.Position(), anchors); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best, bestDist
}

// Reach is the distance from pos to the nearer anchor.
func Reach(pos scene.Vec3, anchors []scene.Anchor) float64 {
	d := math.Inf(1)
	for _, a := range anchors {
		d = math.Min(d, pos.Distance(a.Position()))
	}
	return d
}
