package scene

import (
	"fmt"
	"strings"
)

// World is an in-memory Provider. It backs the voicebridge binary when
// driven from a scene file, and the tests of every package above scene.
// It is not safe for concurrent use; the control loop owns it.
type World struct {
	nodes    map[string]*node
	entities map[string]Entity

	items     []*Item
	buttons   []*Button
	checks    []*Checkbox
	sliders   []*Slider
	dropdowns []*Dropdown

	anchors [2]*Point
}

// NewWorld creates an empty world with both hand anchors at the origin.
func NewWorld() *World {
	return &World{
		nodes:    make(map[string]*node),
		entities: make(map[string]Entity),
		anchors:  [2]*Point{{id: "hand-left"}, {id: "hand-right"}},
	}
}

// node holds what every entity has. path is the slash-separated location
// in the scene hierarchy used for scoping.
type node struct {
	id     string
	name   string
	label  string
	path   string
	active bool
	pos    Vec3
}

func (n *node) ID() string       { return n.id }
func (n *node) Name() string     { return n.name }
func (n *node) Label() string    { return n.label }
func (n *node) Active() bool     { return n.active }
func (n *node) Position() Vec3   { return n.pos }
func (n *node) SetActive(a bool) { n.active = a }

func (n *node) inScope(scope string) bool {
	scope = strings.Trim(scope, "/")
	if scope == "" {
		return true
	}
	return n.path == scope || strings.HasPrefix(n.path, scope+"/")
}

// Point is a movable anchor.
type Point struct {
	id  string
	pos Vec3
}

func (p *Point) ID() string           { return p.id }
func (p *Point) Position() Vec3       { return p.pos }
func (p *Point) SetPosition(pos Vec3) { p.pos = pos }

// Anchor returns the anchor for a hand.
func (w *World) Anchor(h Hand) *Point {
	return w.anchors[h]
}

// Anchors returns both anchors, left first.
func (w *World) Anchors() [2]Anchor {
	return [2]Anchor{w.anchors[Left], w.anchors[Right]}
}

// Get returns any entity by id.
func (w *World) Get(id string) (Entity, bool) {
	e, ok := w.entities[id]
	return e, ok
}

// SetActive shows or hides the entity with the given id.
func (w *World) SetActive(id string, active bool) bool {
	n, ok := w.nodes[id]
	if !ok {
		return false
	}
	n.active = active
	return true
}

func (w *World) add(n *node, e Entity) {
	if n.id == "" {
		n.id = fmt.Sprintf("%s-%d", strings.ToLower(n.name), len(w.nodes)+1)
	}
	w.nodes[n.id] = n
	w.entities[n.id] = e
}

// Item is a grabbable object.
type Item struct {
	node
	parent    string
	anchor    Anchor
	kinematic bool
	velocity  Vec3
}

// AddItem adds a grabbable object at pos.
func (w *World) AddItem(id, name string, pos Vec3) *Item {
	it := &Item{node: node{id: id, name: name, active: true, pos: pos}}
	w.add(&it.node, it)
	w.items = append(w.items, it)
	return it
}

// Position follows the anchor while attached.
func (it *Item) Position() Vec3 {
	if it.anchor != nil {
		return it.anchor.Position()
	}
	return it.pos
}

func (it *Item) Parent() string { return it.parent }

func (it *Item) Attach(a Anchor) {
	it.anchor = a
	it.parent = a.ID()
}

func (it *Item) Detach(parent string) {
	it.pos = it.Position()
	it.anchor = nil
	it.parent = parent
}

func (it *Item) SetKinematic(on bool) { it.kinematic = on }
func (it *Item) Kinematic() bool      { return it.kinematic }
func (it *Item) SetVelocity(v Vec3)   { it.velocity = v }
func (it *Item) Velocity() Vec3       { return it.velocity }

// Button is a clickable control. Clicking applies its reveal/hide effects
// and then calls OnClick if set.
type Button struct {
	node
	world   *World
	enabled bool
	reveals []string
	hides   []string
	clicks  int

	OnClick func()
}

// AddButton adds an enabled button.
func (w *World) AddButton(id, name string) *Button {
	b := &Button{node: node{id: id, name: name, active: true}, world: w, enabled: true}
	w.add(&b.node, b)
	w.buttons = append(w.buttons, b)
	return b
}

func (b *Button) Interactable() bool     { return b.enabled }
func (b *Button) SetInteractable(e bool) { b.enabled = e }
func (b *Button) Clicks() int            { return b.clicks }

// Reveals makes the button activate the given ids when clicked.
func (b *Button) Reveals(ids ...string) *Button {
	b.reveals = append(b.reveals, ids...)
	return b
}

// Hides makes the button deactivate the given ids when clicked.
// A button may hide itself.
func (b *Button) Hides(ids ...string) *Button {
	b.hides = append(b.hides, ids...)
	return b
}

func (b *Button) Click() {
	b.clicks++
	for _, id := range b.reveals {
		b.world.SetActive(id, true)
	}
	for _, id := range b.hides {
		b.world.SetActive(id, false)
	}
	if b.OnClick != nil {
		b.OnClick()
	}
}

// Checkbox is a toggle. Checkboxes sharing a group behave as radio buttons.
type Checkbox struct {
	node
	world   *World
	enabled bool
	on      bool
	group   string
}

// AddCheckbox adds an enabled, unchecked checkbox.
func (w *World) AddCheckbox(id, name, group string) *Checkbox {
	c := &Checkbox{node: node{id: id, name: name, active: true}, world: w, enabled: true, group: group}
	w.add(&c.node, c)
	w.checks = append(w.checks, c)
	return c
}

func (c *Checkbox) Interactable() bool     { return c.enabled }
func (c *Checkbox) SetInteractable(e bool) { c.enabled = e }
func (c *Checkbox) On() bool               { return c.on }
func (c *Checkbox) Group() string          { return c.group }

// SetOn switches the checkbox. Turning a grouped checkbox on turns the
// rest of its group off.
func (c *Checkbox) SetOn(on bool) {
	if on && c.group != "" {
		for _, other := range c.world.checks {
			if other != c && other.group == c.group {
				other.on = false
			}
		}
	}
	c.on = on
}

// Slider is a ranged control.
type Slider struct {
	node
	enabled  bool
	min, max float64
	value    float64
	whole    bool
}

// AddSlider adds an enabled slider over [min, max] at value.
func (w *World) AddSlider(id, name string, min, max, value float64, whole bool) *Slider {
	s := &Slider{node: node{id: id, name: name, active: true}, enabled: true, min: min, max: max, value: value, whole: whole}
	w.add(&s.node, s)
	w.sliders = append(w.sliders, s)
	return s
}

func (s *Slider) Interactable() bool        { return s.enabled }
func (s *Slider) SetInteractable(e bool)    { s.enabled = e }
func (s *Slider) Value() float64            { return s.value }
func (s *Slider) Range() (float64, float64) { return s.min, s.max }
func (s *Slider) WholeNumbers() bool        { return s.whole }

// SetValue clamps v into range.
func (s *Slider) SetValue(v float64) {
	s.value = min(max(v, s.min), s.max)
}

// Dropdown is a selectable control.
type Dropdown struct {
	node
	enabled  bool
	options  []string
	selected int
	refresh  int
}

// AddDropdown adds an enabled dropdown with the first option selected.
func (w *World) AddDropdown(id, name string, options ...string) *Dropdown {
	d := &Dropdown{node: node{id: id, name: name, active: true}, enabled: true, options: options}
	w.add(&d.node, d)
	w.dropdowns = append(w.dropdowns, d)
	return d
}

func (d *Dropdown) Interactable() bool     { return d.enabled }
func (d *Dropdown) SetInteractable(e bool) { d.enabled = e }
func (d *Dropdown) Options() []string      { return d.options }
func (d *Dropdown) Selected() int          { return d.selected }

// Refreshes counts display refreshes caused by Select.
func (d *Dropdown) Refreshes() int { return d.refresh }

func (d *Dropdown) Select(i int) {
	if i < 0 || i >= len(d.options) {
		return
	}
	d.selected = i
	d.refresh++
}

// Node setters shared by every entity type, for building scenes.

// SetLabel sets the visible label.
func (n *node) SetLabel(l string) { n.label = l }

// SetPath sets the hierarchy path used for scoping.
func (n *node) SetPath(p string) { n.path = trimPath(p) }

func trimPath(p string) string { return strings.Trim(p, "/") }

// SetPosition moves the entity.
func (n *node) SetPosition(p Vec3) { n.pos = p }

// Provider implementation.

func (w *World) Grabbables(scope string) []Grabbable {
	var out []Grabbable
	for _, it := range w.items {
		if it.inScope(scope) {
			out = append(out, it)
		}
	}
	return out
}

func (w *World) Buttons(scope string) []Clickable {
	var out []Clickable
	for _, b := range w.buttons {
		if b.inScope(scope) {
			out = append(out, b)
		}
	}
	return out
}

func (w *World) Toggles(scope string) []Toggleable {
	var out []Toggleable
	for _, c := range w.checks {
		if c.inScope(scope) {
			out = append(out, c)
		}
	}
	return out
}

func (w *World) Sliders(scope string) []Ranged {
	var out []Ranged
	for _, s := range w.sliders {
		if s.inScope(scope) {
			out = append(out, s)
		}
	}
	return out
}

func (w *World) Dropdowns(scope string) []Selectable {
	var out []Selectable
	for _, d := range w.dropdowns {
		if d.inScope(scope) {
			out = append(out, d)
		}
	}
	return out
}

var _ Provider = (*World)(nil)
