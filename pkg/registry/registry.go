// Package registry holds the voice lookup tables: for each interaction kind,
// a map from canonical key to every entity currently known by that key.
package registry

import (
	"sort"

	"github.com/teslashibe/go-voicebridge/internal/log"
	"github.com/teslashibe/go-voicebridge/pkg/naming"
	"github.com/teslashibe/go-voicebridge/pkg/resolve"
	"github.com/teslashibe/go-voicebridge/pkg/scene"
)

// Index maps canonical keys to the entities of one kind.
// Candidate order is the order of the scan that built it.
type Index[E scene.Entity] struct {
	kind    scene.Kind
	entries map[string][]E
	keys    []string
	count   int
}

func newIndex[E scene.Entity](kind scene.Kind) *Index[E] {
	return &Index[E]{kind: kind, entries: make(map[string][]E)}
}

// Kind returns the interaction kind of the index.
func (x *Index[E]) Kind() scene.Kind { return x.kind }

// Keys returns every key, sorted.
func (x *Index[E]) Keys() []string { return x.keys }

// Len returns the number of indexed entities.
func (x *Index[E]) Len() int { return x.count }

// Candidates returns the entities registered under key.
func (x *Index[E]) Candidates(key string) []E { return x.entries[key] }

// Resolve maps a spoken phrase to one of the index keys.
func (x *Index[E]) Resolve(phrase string) (string, bool) {
	return resolve.Key(phrase, x.keys)
}

// Lookup resolves phrase and returns the key with its candidates.
func (x *Index[E]) Lookup(phrase string) (string, []E) {
	key, ok := x.Resolve(phrase)
	if !ok {
		return "", nil
	}
	return key, x.entries[key]
}

// fill replaces the index contents with items. Entities whose key is
// naming.Unnamed are left out.
func (x *Index[E]) fill(items []E, preferLabel bool) {
	x.entries = make(map[string][]E, len(items))
	x.keys = make([]string, 0, len(items))
	x.count = 0
	for _, e := range items {
		key := naming.Key(scene.DisplayName(e, preferLabel))
		if key == naming.Unnamed {
			continue
		}
		if _, seen := x.entries[key]; !seen {
			x.keys = append(x.keys, key)
		}
		x.entries[key] = append(x.entries[key], e)
		x.count++
	}
	sort.Strings(x.keys)
}

// Config controls how names are chosen.
type Config struct {
	// PreferLabel uses an entity's visible label over its own name.
	PreferLabel bool
}

// Registry owns one Index per interaction kind.
type Registry struct {
	provider scene.Provider
	cfg      Config
	scope    string
	builds   int

	grabbables *Index[scene.Grabbable]
	buttons    *Index[scene.Clickable]
	toggles    *Index[scene.Toggleable]
	sliders    *Index[scene.Ranged]
	dropdowns  *Index[scene.Selectable]
}

// New creates an empty registry over provider. Call Rebuild to fill it.
func New(provider scene.Provider, cfg Config) *Registry {
	r := &Registry{provider: provider, cfg: cfg}
	r.reset()
	return r
}

func (r *Registry) reset() {
	r.grabbables = newIndex[scene.Grabbable](scene.KindGrabbable)
	r.buttons = newIndex[scene.Clickable](scene.KindClickable)
	r.toggles = newIndex[scene.Toggleable](scene.KindToggleable)
	r.sliders = newIndex[scene.Ranged](scene.KindRanged)
	r.dropdowns = newIndex[scene.Selectable](scene.KindSelectable)
}

// Rebuild discards every index and rescans the provider within scope
// ("" for the whole scene). It never mutates entities and returns the
// number of voice-addressable entities.
func (r *Registry) Rebuild(scope string) int {
	r.reset()
	r.scope = scope
	r.builds++

	p := r.cfg.PreferLabel
	r.grabbables.fill(r.provider.Grabbables(scope), p)
	r.buttons.fill(r.provider.Buttons(scope), p)
	r.toggles.fill(r.provider.Toggles(scope), p)
	r.sliders.fill(r.provider.Sliders(scope), p)
	r.dropdowns.fill(r.provider.Dropdowns(scope), p)

	n := r.Len()
	log.Debug("registry rebuilt", "scope", scope, "entities", n, "build", r.builds)
	return n
}

// Refresh rebuilds with the scope of the previous Rebuild.
func (r *Registry) Refresh() int {
	return r.Rebuild(r.scope)
}

// Scope returns the scope of the last Rebuild.
func (r *Registry) Scope() string { return r.scope }

// Builds returns how many times the registry has been rebuilt.
func (r *Registry) Builds() int { return r.builds }

// Len returns the number of indexed entities across all kinds.
func (r *Registry) Len() int {
	return r.grabbables.Len() + r.buttons.Len() + r.toggles.Len() + r.sliders.Len() + r.dropdowns.Len()
}

// Display returns the name an entity is known by for voice.
func (r *Registry) Display(e scene.Entity) string {
	return scene.DisplayName(e, r.cfg.PreferLabel)
}

func (r *Registry) Grabbables() *Index[scene.Grabbable] { return r.grabbables }
func (r *Registry) Buttons() *Index[scene.Clickable]    { return r.buttons }
func (r *Registry) Toggles() *Index[scene.Toggleable]   { return r.toggles }
func (r *Registry) Sliders() *Index[scene.Ranged]       { return r.sliders }
func (r *Registry) Dropdowns() *Index[scene.Selectable] { return r.dropdowns }

// Keys returns the sorted keys of every kind, by kind noun.
func (r *Registry) Keys() map[string][]string {
	return map[string][]string{
		scene.KindGrabbable.String():  r.grabbables.Keys(),
		scene.KindClickable.String():  r.buttons.Keys(),
		scene.KindToggleable.String(): r.toggles.Keys(),
		scene.KindRanged.String():     r.sliders.Keys(),
		scene.KindSelectable.String(): r.dropdowns.Keys(),
	}
}
