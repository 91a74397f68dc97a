// Package command maps transcripts to registered voice commands.
//
// A command has one or more trigger phrases. A transcript matches when a
// trigger appears in it on word boundaries; the words after the trigger
// become the command's arguments. When several triggers match, the one
// with the most words wins, then the earliest in the transcript, then the
// first registered.
package command

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/teslashibe/go-voicebridge/pkg/naming"
	"github.com/teslashibe/go-voicebridge/pkg/outcome"
)

var (
	// ErrDuplicate means a command id is already registered.
	ErrDuplicate = errors.New("command: duplicate id")

	// ErrInvalid means a descriptor is missing required fields.
	ErrInvalid = errors.New("command: invalid descriptor")
)

// DefaultSeparators split the two arguments of an arity-2 command.
var DefaultSeparators = []string{"to", "from", "in", "on"}

// Call is what a command action receives.
type Call struct {
	// Text is the normalized transcript.
	Text string
	// Trigger is the trigger phrase that matched.
	Trigger string
	// Before holds the words preceding the trigger ("left hand" in
	// "left hand grab key").
	Before string
	// Args holds Arity arguments.
	Args []string
}

// Arg returns argument i or "".
func (c Call) Arg(i int) string {
	if i < len(c.Args) {
		return c.Args[i]
	}
	return ""
}

// Descriptor describes a voice command.
type Descriptor struct {
	// ID is the unique identifier, also used as the cooldown key.
	ID string `json:"id"`

	// Phrases are the trigger phrases, e.g. "pick up".
	Phrases []string `json:"phrases"`

	// Description is shown on the dashboard.
	Description string `json:"description,omitempty"`

	// Arity is the number of arguments: 0, 1 or 2.
	// Arity 1 takes every word after the trigger. Arity 2 splits them on
	// the last separator word.
	Arity int `json:"arity"`

	// Separators overrides DefaultSeparators for arity 2.
	Separators []string `json:"separators,omitempty"`

	// Cooldown is the minimum time between two fires. Zero uses the
	// bridge default.
	Cooldown time.Duration `json:"cooldown"`

	// Action runs the command.
	Action func(Call) (outcome.Result, error) `json:"-"`
}

// Match is a transcript resolved to a command.
type Match struct {
	Command *Descriptor
	Call    Call
}

type trigger struct {
	words []string
	cmd   *Descriptor
	order int
}

// Router holds the registered commands.
// It is not safe for concurrent use.
type Router struct {
	cmds     []*Descriptor
	byID     map[string]*Descriptor
	triggers []trigger
}

// NewRouter creates an empty router.
func NewRouter() *Router {
	return &Router{byID: make(map[string]*Descriptor)}
}

// Register adds a command.
func (r *Router) Register(d Descriptor) error {
	if d.ID == "" || len(d.Phrases) == 0 || d.Action == nil || d.Arity < 0 || d.Arity > 2 {
		return fmt.Errorf("%w: %q", ErrInvalid, d.ID)
	}
	if _, ok := r.byID[d.ID]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicate, d.ID)
	}
	if d.Arity == 2 && len(d.Separators) == 0 {
		d.Separators = DefaultSeparators
	}

	cmd := &d
	for _, p := range d.Phrases {
		words := strings.Fields(naming.Words(p))
		if len(words) == 0 {
			return fmt.Errorf("%w: %q has an empty phrase", ErrInvalid, d.ID)
		}
		r.triggers = append(r.triggers, trigger{words: words, cmd: cmd, order: len(r.triggers)})
	}
	r.cmds = append(r.cmds, cmd)
	r.byID[d.ID] = cmd
	return nil
}

// MustRegister is Register that panics on error. For static command sets.
func (r *Router) MustRegister(ds ...Descriptor) {
	for _, d := range ds {
		if err := r.Register(d); err != nil {
			panic(err)
		}
	}
}

// Get returns the command with the given id.
func (r *Router) Get(id string) (*Descriptor, bool) {
	d, ok := r.byID[id]
	return d, ok
}

// Commands returns the registered commands in registration order.
func (r *Router) Commands() []*Descriptor {
	return slices.Clone(r.cmds)
}

type hit struct {
	t   trigger
	pos int
}

// Match finds the command a transcript invokes.
func (r *Router) Match(text string) (Match, bool) {
	norm := naming.Words(text)
	words := strings.Fields(norm)
	if len(words) == 0 {
		return Match{}, false
	}

	var hits []hit
	for _, t := range r.triggers {
		if pos := indexWords(words, t.words); pos >= 0 {
			hits = append(hits, hit{t: t, pos: pos})
		}
	}
	slices.SortStableFunc(hits, func(a, b hit) int {
		if d := len(b.t.words) - len(a.t.words); d != 0 {
			return d
		}
		if d := a.pos - b.pos; d != 0 {
			return d
		}
		return a.t.order - b.t.order
	})

	for _, h := range hits {
		rest := words[h.pos+len(h.t.words):]
		args, ok := split(rest, h.t.cmd)
		if !ok {
			continue
		}
		return Match{
			Command: h.t.cmd,
			Call: Call{
				Text:    norm,
				Trigger: strings.Join(h.t.words, " "),
				Before:  strings.Join(words[:h.pos], " "),
				Args:    args,
			},
		}, true
	}
	return Match{}, false
}

// split turns the words after a trigger into arguments.
func split(rest []string, d *Descriptor) ([]string, bool) {
	switch d.Arity {
	case 0:
		return nil, true
	case 1:
		if len(rest) == 0 {
			return nil, false
		}
		return []string{strings.Join(rest, " ")}, true
	}
	for i := len(rest) - 2; i > 0; i-- {
		if slices.Contains(d.Separators, rest[i]) {
			return []string{strings.Join(rest[:i], " "), strings.Join(rest[i+1:], " ")}, true
		}
	}
	return nil, false
}

// indexWords returns the position of the first occurrence of sub in words.
func indexWords(words, sub []string) int {
	for i := 0; i+len(sub) <= len(words); i++ {
		if slices.Equal(words[i:i+len(sub)], sub) {
			return i
		}
	}
	return -1
}

var fillers = map[string]bool{
	"the": true, "a": true, "an": true, "my": true, "this": true, "that": true,
}

// TrimFillers drops leading articles and a trailing "please" from a name
// argument: "the red cube please" becomes "red cube".
func TrimFillers(s string) string {
	words := strings.Fields(s)
	for len(words) > 0 && fillers[words[0]] {
		words = words[1:]
	}
	for len(words) > 0 && words[len(words)-1] == "please" {
		words = words[:len(words)-1]
	}
	return strings.Join(words, " ")
}
