package scene

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the YAML layout of a scene description.
type File struct {
	Anchors    map[string][]float64 `yaml:"anchors"`
	Items      []EntitySpec         `yaml:"items"`
	Buttons    []EntitySpec         `yaml:"buttons"`
	Checkboxes []EntitySpec         `yaml:"checkboxes"`
	Sliders    []EntitySpec         `yaml:"sliders"`
	Dropdowns  []EntitySpec         `yaml:"dropdowns"`
}

// EntitySpec describes one entity. Fields that do not apply to the
// entity's kind are ignored.
type EntitySpec struct {
	ID       string    `yaml:"id"`
	Name     string    `yaml:"name"`
	Label    string    `yaml:"label"`
	Path     string    `yaml:"path"`
	Position []float64 `yaml:"position"`
	Hidden   bool      `yaml:"hidden"`
	Disabled bool      `yaml:"disabled"`

	// Buttons
	Reveals []string `yaml:"reveals"`
	Hides   []string `yaml:"hides"`

	// Checkboxes
	Checked bool   `yaml:"checked"`
	Group   string `yaml:"group"`

	// Sliders
	Min   float64 `yaml:"min"`
	Max   float64 `yaml:"max"`
	Value float64 `yaml:"value"`
	Whole bool    `yaml:"whole"`

	// Dropdowns
	Options  []string `yaml:"options"`
	Selected int      `yaml:"selected"`
}

// LoadFile reads a scene description from path.
func LoadFile(path string) (*World, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scene: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load decodes a scene description and builds a World from it.
func Load(r io.Reader) (*World, error) {
	var file File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	return Build(file)
}

// Build creates a World from a decoded scene description.
func Build(file File) (*World, error) {
	w := NewWorld()

	for name, p := range file.Anchors {
		h, ok := ParseHand(name)
		if !ok {
			return nil, fmt.Errorf("anchor %q: want left or right", name)
		}
		pos, err := vec(p)
		if err != nil {
			return nil, fmt.Errorf("anchor %q: %w", name, err)
		}
		w.Anchor(h).SetPosition(pos)
	}

	for _, s := range file.Items {
		pos, err := vec(s.Position)
		if err != nil {
			return nil, fmt.Errorf("item %q: %w", s.Name, err)
		}
		it := w.AddItem(s.ID, s.Name, pos)
		s.apply(&it.node)
	}
	for _, s := range file.Buttons {
		b := w.AddButton(s.ID, s.Name)
		b.Reveals(s.Reveals...).Hides(s.Hides...)
		b.enabled = !s.Disabled
		if err := s.place(&b.node); err != nil {
			return nil, fmt.Errorf("button %q: %w", s.Name, err)
		}
	}
	for _, s := range file.Checkboxes {
		c := w.AddCheckbox(s.ID, s.Name, s.Group)
		c.enabled = !s.Disabled
		if s.Checked {
			c.SetOn(true)
		}
		if err := s.place(&c.node); err != nil {
			return nil, fmt.Errorf("checkbox %q: %w", s.Name, err)
		}
	}
	for _, s := range file.Sliders {
		if s.Max < s.Min {
			return nil, fmt.Errorf("slider %q: max %v below min %v", s.Name, s.Max, s.Min)
		}
		sl := w.AddSlider(s.ID, s.Name, s.Min, s.Max, s.Min, s.Whole)
		sl.SetValue(s.Value)
		sl.enabled = !s.Disabled
		if err := s.place(&sl.node); err != nil {
			return nil, fmt.Errorf("slider %q: %w", s.Name, err)
		}
	}
	for _, s := range file.Dropdowns {
		if len(s.Options) == 0 {
			return nil, fmt.Errorf("dropdown %q: no options", s.Name)
		}
		d := w.AddDropdown(s.ID, s.Name, s.Options...)
		if s.Selected > 0 && s.Selected < len(s.Options) {
			d.selected = s.Selected
		}
		d.enabled = !s.Disabled
		if err := s.place(&d.node); err != nil {
			return nil, fmt.Errorf("dropdown %q: %w", s.Name, err)
		}
	}
	return w, nil
}

func (s EntitySpec) apply(n *node) {
	n.label = s.Label
	n.path = trimPath(s.Path)
	n.active = !s.Hidden
}

func (s EntitySpec) place(n *node) error {
	s.apply(n)
	pos, err := vec(s.Position)
	if err != nil {
		return err
	}
	n.pos = pos
	return nil
}

func vec(p []float64) (Vec3, error) {
	switch len(p) {
	case 0:
		return Vec3{}, nil
	case 3:
		return Vec3{p[0], p[1], p[2]}, nil
	default:
		return Vec3{}, fmt.Errorf("position needs 3 components, got %d", len(p))
	}
}
