package scene

import (
	"math"
	"strings"
	"testing"
)

const floatTolerance = 1e-9

func floatEquals(a, b float64) bool {
	return math.Abs(a-b) < floatTolerance
}

func TestVec3_Distance(t *testing.T) {
	a := Vec3{0, 0, 0}
	b := Vec3{3, 4, 0}
	if !floatEquals(a.Distance(b), 5) {
		t.Errorf("Distance: got %v, want 5", a.Distance(b))
	}
}

func TestHand(t *testing.T) {
	if Left.Other() != Right || Right.Other() != Left {
		t.Error("Other should swap hands")
	}
	if h, ok := ParseHand(" Right "); !ok || h != Right {
		t.Errorf("ParseHand(Right) = %v, %v", h, ok)
	}
	if _, ok := ParseHand("both"); ok {
		t.Error("ParseHand(both) should fail")
	}
}

func TestDisplayName(t *testing.T) {
	w := NewWorld()
	b := w.AddButton("b1", "Button (3)")

	if got := DisplayName(b, true); got != "Button (3)" {
		t.Errorf("no label: got %q", got)
	}
	b.SetLabel("Start")
	if got := DisplayName(b, true); got != "Start" {
		t.Errorf("label preferred: got %q", got)
	}
	if got := DisplayName(b, false); got != "Button (3)" {
		t.Errorf("label ignored: got %q", got)
	}
}

func TestItem_AttachDetach(t *testing.T) {
	w := NewWorld()
	it := w.AddItem("ball", "Ball", Vec3{1, 0, 0})
	hand := w.Anchor(Left)
	hand.SetPosition(Vec3{0, 1, 0})

	it.Attach(hand)
	if it.Parent() != "hand-left" {
		t.Errorf("Parent: got %q", it.Parent())
	}
	hand.SetPosition(Vec3{0, 2, 0})
	if it.Position() != (Vec3{0, 2, 0}) {
		t.Errorf("attached item should follow hand, got %v", it.Position())
	}

	it.Detach("table")
	hand.SetPosition(Vec3{5, 5, 5})
	if it.Position() != (Vec3{0, 2, 0}) {
		t.Errorf("detached item should keep world position, got %v", it.Position())
	}
	if it.Parent() != "table" {
		t.Errorf("Parent after detach: got %q", it.Parent())
	}
}

func TestCheckbox_GroupIsExclusive(t *testing.T) {
	w := NewWorld()
	a := w.AddCheckbox("a", "Easy", "difficulty")
	b := w.AddCheckbox("b", "Hard", "difficulty")
	c := w.AddCheckbox("c", "Sound", "")
	c.SetOn(true)

	a.SetOn(true)
	b.SetOn(true)
	if a.On() {
		t.Error("a should be turned off when b is selected")
	}
	if !b.On() || !c.On() {
		t.Error("b and ungrouped c should stay on")
	}
}

func TestSlider_Clamps(t *testing.T) {
	w := NewWorld()
	s := w.AddSlider("v", "Volume", 0, 10, 5, true)
	s.SetValue(12)
	if s.Value() != 10 {
		t.Errorf("got %v, want 10", s.Value())
	}
	s.SetValue(-1)
	if s.Value() != 0 {
		t.Errorf("got %v, want 0", s.Value())
	}
}

func TestButton_ClickEffects(t *testing.T) {
	w := NewWorld()
	panel := w.AddButton("apply", "Apply")
	panel.SetActive(false)
	open := w.AddButton("open", "Open").Reveals("apply").Hides("open")
	called := false
	open.OnClick = func() { called = true }

	open.Click()
	if !panel.Active() || open.Active() {
		t.Errorf("effects not applied: apply=%v open=%v", panel.Active(), open.Active())
	}
	if !called || open.Clicks() != 1 {
		t.Error("OnClick not called once")
	}
}

func TestWorld_Scope(t *testing.T) {
	w := NewWorld()
	w.AddButton("a", "A").SetPath("ui/menu")
	w.AddButton("b", "B").SetPath("ui/menu/sub")
	w.AddButton("c", "C").SetPath("ui/menus")
	w.AddButton("d", "D")

	if n := len(w.Buttons("")); n != 4 {
		t.Errorf("whole scene: got %d, want 4", n)
	}
	if n := len(w.Buttons("ui/menu")); n != 2 {
		t.Errorf("ui/menu scope: got %d, want 2", n)
	}
	if n := len(w.Buttons("/ui/menu/")); n != 2 {
		t.Errorf("slashes should be trimmed: got %d, want 2", n)
	}
}

func TestWorld_GeneratedIDs(t *testing.T) {
	w := NewWorld()
	a := w.AddItem("", "Ball", Vec3{})
	b := w.AddItem("", "Ball", Vec3{})
	if a.ID() == b.ID() {
		t.Errorf("generated ids collide: %q", a.ID())
	}
	if e, ok := w.Get(b.ID()); !ok || e != Entity(b) {
		t.Error("Get should return the item")
	}
}

const sampleScene = `
anchors:
  left: [-0.2, 1.0, 0]
  right: [0.2, 1.0, 0]
items:
  - id: key-1
    name: Key
    position: [0, 1, 0.5]
  - id: key-2
    name: Key (1)
    position: [3, 1, 0]
buttons:
  - id: start
    name: Button
    label: Start
    path: ui/menu
    reveals: [options]
  - id: options
    name: Options
    hidden: true
checkboxes:
  - id: ready
    name: Ready
    checked: true
sliders:
  - id: vol
    name: Volume
    min: 0
    max: 10
    value: 4
    whole: true
dropdowns:
  - id: color
    name: Color
    options: [Red, Green, Blue]
    selected: 2
`

func TestLoad(t *testing.T) {
	w, err := Load(strings.NewReader(sampleScene))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := w.Anchor(Left).Position(); got != (Vec3{-0.2, 1.0, 0}) {
		t.Errorf("left anchor: got %v", got)
	}
	if n := len(w.Grabbables("")); n != 2 {
		t.Errorf("items: got %d, want 2", n)
	}
	start, _ := w.Get("start")
	if start.Label() != "Start" {
		t.Errorf("label: got %q", start.Label())
	}
	opts, _ := w.Get("options")
	if opts.Active() {
		t.Error("options should be hidden")
	}
	if d := w.Dropdowns("")[0]; d.Selected() != 2 {
		t.Errorf("selected: got %d, want 2", d.Selected())
	}
	if s := w.Sliders("")[0]; s.Value() != 4 {
		t.Errorf("slider value: got %v, want 4", s.Value())
	}
	if c := w.Toggles("")[0]; !c.On() {
		t.Error("ready should be checked")
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"bad anchor", "anchors:\n  middle: [0, 0, 0]\n"},
		{"short position", "items:\n  - name: Ball\n    position: [1, 2]\n"},
		{"unknown field", "items:\n  - name: Ball\n    colour: red\n"},
		{"inverted slider", "sliders:\n  - name: V\n    min: 5\n    max: 1\n"},
		{"empty dropdown", "dropdowns:\n  - name: D\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(strings.NewReader(tt.doc)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoad_Empty(t *testing.T) {
	w, err := Load(strings.NewReader(""))
	if err != nil {
		t.Fatalf("empty scene should load: %v", err)
	}
	if len(w.Buttons("")) != 0 {
		t.Error("expected no buttons")
	}
}
