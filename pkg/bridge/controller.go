// Package bridge is the voice bridge's exposed surface. A Controller turns
// names and transcripts into interactions with the scene and speaks one
// sentence about each outcome; a Loop drives it from a single goroutine.
package bridge

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/teslashibe/go-voicebridge/internal/log"
	"github.com/teslashibe/go-voicebridge/pkg/command"
	"github.com/teslashibe/go-voicebridge/pkg/cooldown"
	"github.com/teslashibe/go-voicebridge/pkg/feedback"
	"github.com/teslashibe/go-voicebridge/pkg/hub"
	"github.com/teslashibe/go-voicebridge/pkg/interact"
	"github.com/teslashibe/go-voicebridge/pkg/naming"
	"github.com/teslashibe/go-voicebridge/pkg/outcome"
	"github.com/teslashibe/go-voicebridge/pkg/registry"
	"github.com/teslashibe/go-voicebridge/pkg/resolve"
	"github.com/teslashibe/go-voicebridge/pkg/scene"
	"github.com/teslashibe/go-voicebridge/pkg/speech"
)

var (
	// ErrNoScene is returned by New without a scene provider.
	ErrNoScene = errors.New("bridge: scene provider required")

	// ErrNoAnchors is returned by New when either hand anchor is missing.
	ErrNoAnchors = errors.New("bridge: both hand anchors required")
)

// Publisher records bridge events for dashboards. *hub.Hub implements it.
type Publisher interface {
	Publish(ev hub.Event) hub.Event
}

// Deps are the controller's collaborators. Scene and both Anchors are
// required.
type Deps struct {
	Scene scene.Provider

	// Anchors are the left and right hands, in that order.
	Anchors [2]scene.Anchor

	// Sink speaks feedback. Without one, feedback is dropped after a
	// single error log.
	Sink speech.Sink

	// Source is reactivated after it reports that listening ended.
	Source speech.Source

	Events Publisher
	Clock  func() time.Time
}

// Reply is what one operation produced.
type Reply struct {
	// ID identifies the transcript that caused this reply.
	ID string `json:"id,omitempty"`
	// Command is the id of the matched voice command.
	Command string `json:"command,omitempty"`
	// Text is the sentence spoken to the user.
	Text string `json:"text,omitempty"`

	Result outcome.Result `json:"-"`
	Err    error          `json:"-"`
	Error  string         `json:"error,omitempty"`

	// Ignored is set for transcripts that matched nothing.
	Ignored bool `json:"ignored,omitempty"`
	// Throttled is set when the matched command is cooling down.
	Throttled bool `json:"throttled,omitempty"`
}

// Status is a snapshot of the controller.
type Status struct {
	Entities       int    `json:"entities"`
	Builds         int    `json:"builds"`
	Scope          string `json:"scope"`
	Left           string `json:"left,omitempty"`
	Right          string `json:"right,omitempty"`
	Observing      bool   `json:"observing"`
	Reactivating   bool   `json:"reactivating"`
	Transcripts    int    `json:"transcripts"`
	LastTranscript string `json:"last_transcript,omitempty"`
	LastReply      string `json:"last_reply,omitempty"`
}

// CommandInfo describes a registered voice command.
type CommandInfo struct {
	ID          string        `json:"id"`
	Phrases     []string      `json:"phrases"`
	Description string        `json:"description,omitempty"`
	Arity       int           `json:"arity"`
	Cooldown    time.Duration `json:"cooldown"`
	Remaining   time.Duration `json:"remaining"`
}

// Controller owns the registry, the hands, the cooldown gate and the
// command router. It is not safe for concurrent use; run it from a Loop
// or a single goroutine.
type Controller struct {
	cfg    Config
	deps   Deps
	reg    *registry.Registry
	exec   *interact.Executor
	gate   *cooldown.Gate
	router *command.Router

	sinkWarned   bool
	reactivateAt time.Time
	nextRefresh  time.Time

	transcripts    int
	lastTranscript string
	lastReply      string
}

// New creates a controller, builds the registry and registers the default
// voice commands.
func New(cfg Config, deps Deps) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if deps.Scene == nil {
		return nil, ErrNoScene
	}
	for _, a := range deps.Anchors {
		if a == nil {
			return nil, ErrNoAnchors
		}
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}

	c := &Controller{
		cfg:    cfg,
		deps:   deps,
		reg:    registry.New(deps.Scene, registry.Config{PreferLabel: cfg.PreferLabel}),
		gate:   cooldown.New(),
		router: command.NewRouter(),
	}
	c.exec = interact.New(deps.Scene, deps.Anchors, interact.Config{ObserveDelay: cfg.ObserveDelay}, c.reg.Display)

	for _, d := range c.defaultCommands() {
		if err := c.AddCommand(d); err != nil {
			return nil, err
		}
	}

	now := deps.Clock()
	n := c.reg.Rebuild(cfg.Scope)
	if cfg.RefreshInterval > 0 {
		c.nextRefresh = now.Add(cfg.RefreshInterval)
	}
	log.Info("voice bridge ready", "entities", n, "commands", len(c.router.Commands()), "scope", cfg.Scope)
	return c, nil
}

// AddCommand registers a voice command and arms its cooldown.
func (c *Controller) AddCommand(d command.Descriptor) error {
	if d.Cooldown == 0 {
		d.Cooldown = c.cfg.Cooldown
	}
	if err := c.router.Register(d); err != nil {
		return err
	}
	c.gate.Register(d.ID, d.Cooldown, c.deps.Clock())
	return nil
}

// say speaks text, interrupting unless queued.
func (c *Controller) say(text string, queued bool) {
	if text == "" {
		return
	}
	if c.deps.Sink == nil {
		if !c.sinkWarned {
			log.Error("no speech sink configured, feedback will be dropped")
			c.sinkWarned = true
		}
		return
	}
	if queued {
		c.deps.Sink.SpeakQueued(text)
	} else {
		c.deps.Sink.Speak(text)
	}
}

func (c *Controller) publish(ev hub.Event) {
	if c.deps.Events != nil {
		c.deps.Events.Publish(ev)
	}
}

// report speaks the outcome of an operation and wraps it in a Reply.
func (c *Controller) report(r outcome.Result, err error) Reply {
	text := feedback.Report(r, err)
	c.say(text, false)
	c.lastReply = text

	reply := Reply{Text: text, Result: r, Err: err}
	if err != nil {
		reply.Error = err.Error()
		log.Info("voice operation failed", "error", err)
	}
	return reply
}

// ensureRegistry rebuilds an empty registry before a lookup.
func (c *Controller) ensureRegistry() {
	if c.reg.Len() == 0 {
		c.reg.Refresh()
	}
}

// lookup resolves phrase against idx and picks one candidate.
func lookup[E scene.Entity](c *Controller, idx *registry.Index[E], phrase string, p resolve.Policy[E]) (E, error) {
	c.ensureRegistry()
	spoken := command.TrimFillers(naming.Words(phrase))
	key, cands := idx.Lookup(spoken)
	log.Debug("resolved phrase", "kind", idx.Kind(), "phrase", spoken, "key", key, "candidates", len(cands))
	if key == "" {
		var zero E
		return zero, outcome.Fail(outcome.ErrNotFound, idx.Kind(), spoken)
	}
	p.Kind = idx.Kind()
	if p.Display == nil {
		p.Display = func(e E) string { return c.reg.Display(e) }
	}
	return resolve.Pick(spoken, cands, p)
}

func accepts[E scene.Interactable](e E) bool { return e.Interactable() }

// GrabByName puts the named object in hand, or in the other hand when
// that one is busy. With several objects of that name the one nearest to
// either hand is taken.
func (c *Controller) GrabByName(phrase string, hand scene.Hand) Reply {
	return c.report(c.grab(phrase, hand))
}

// ReleaseByName lets go of whichever hand holds the named object.
func (c *Controller) ReleaseByName(phrase string) Reply {
	return c.report(c.release(phrase))
}

// ReleaseFromSlot lets go of the named object only if hand holds it.
func (c *Controller) ReleaseFromSlot(hand scene.Hand, phrase string) Reply {
	return c.report(c.exec.ReleaseMatchingIn(hand, command.TrimFillers(naming.Words(phrase))))
}

// ReleaseBySlot empties a hand.
func (c *Controller) ReleaseBySlot(hand scene.Hand) Reply {
	return c.report(c.exec.Release(hand))
}

// ClickByName presses the named button. What the click revealed or hid
// is reported on a later Tick.
func (c *Controller) ClickByName(phrase string) Reply {
	return c.report(c.click(phrase))
}

// SetToggleByName checks or unchecks the named toggle.
func (c *Controller) SetToggleByName(phrase string, on bool) Reply {
	return c.report(c.toggle(phrase, on))
}

// SetSliderByName moves the named slider to value.
func (c *Controller) SetSliderByName(phrase string, value float64) Reply {
	return c.report(c.slide(phrase, value))
}

// SelectDropdownOptionByName selects option on the named dropdown.
func (c *Controller) SelectDropdownOptionByName(phrase, option string) Reply {
	return c.report(c.selectOption(phrase, option))
}

// RefreshRegistry rescans the scene.
func (c *Controller) RefreshRegistry() Reply {
	return c.report(c.refresh())
}

// Inventory reports what each hand holds.
func (c *Controller) Inventory() Reply {
	return c.report(c.exec.Inventory(), nil)
}

func (c *Controller) grab(phrase string, hand scene.Hand) (outcome.Result, error) {
	e, err := lookup(c, c.reg.Grabbables(), phrase, resolve.Policy[scene.Grabbable]{
		Available: func(g scene.Grabbable) bool {
			_, held := c.exec.Holding(g)
			return !held
		},
		Ranking:  resolve.PickNearest,
		Anchors:  c.exec.Anchors(),
		MaxReach: c.cfg.MaxReach,
	})
	if err != nil {
		return outcome.Result{}, err
	}
	return c.exec.Grab(e, hand)
}

func (c *Controller) release(phrase string) (outcome.Result, error) {
	return c.exec.ReleaseMatching(command.TrimFillers(naming.Words(phrase)))
}

func (c *Controller) click(phrase string) (outcome.Result, error) {
	e, err := lookup(c, c.reg.Buttons(), phrase, resolve.Policy[scene.Clickable]{
		Available: accepts[scene.Clickable],
		Ranking:   c.cfg.Ranking,
		Anchors:   c.exec.Anchors(),
	})
	if err != nil {
		return outcome.Result{}, err
	}
	return c.exec.Click(e, c.deps.Clock())
}

func (c *Controller) toggle(phrase string, on bool) (outcome.Result, error) {
	e, err := lookup(c, c.reg.Toggles(), phrase, resolve.Policy[scene.Toggleable]{
		Available: accepts[scene.Toggleable],
		Ranking:   c.cfg.Ranking,
		Anchors:   c.exec.Anchors(),
	})
	if err != nil {
		return outcome.Result{}, err
	}
	return c.exec.SetBoolean(e, on)
}

func (c *Controller) slide(phrase string, value float64) (outcome.Result, error) {
	e, err := lookup(c, c.reg.Sliders(), phrase, resolve.Policy[scene.Ranged]{
		Available: accepts[scene.Ranged],
		Ranking:   c.cfg.Ranking,
		Anchors:   c.exec.Anchors(),
	})
	if err != nil {
		return outcome.Result{}, err
	}
	return c.exec.SetNumeric(e, value)
}

func (c *Controller) selectOption(phrase, option string) (outcome.Result, error) {
	e, err := lookup(c, c.reg.Dropdowns(), phrase, resolve.Policy[scene.Selectable]{
		Available: accepts[scene.Selectable],
		Ranking:   c.cfg.Ranking,
		Anchors:   c.exec.Anchors(),
	})
	if err != nil {
		return outcome.Result{}, err
	}
	return c.exec.SetSelection(e, option)
}

func (c *Controller) refresh() (outcome.Result, error) {
	n := c.reg.Refresh()
	c.publish(hub.Event{Type: hub.TypeRegistry, Text: fmt.Sprintf("%d entities", n)})
	return outcome.Result{Action: outcome.ActionRefresh, Count: n}, nil
}

// HandleTranscript routes one utterance to a voice command. Empty or
// unrecognized text and commands still cooling down are ignored.
func (c *Controller) HandleTranscript(text string) Reply {
	words := naming.Words(text)
	if words == "" {
		return Reply{Ignored: true}
	}
	id := uuid.NewString()
	c.transcripts++
	c.lastTranscript = words
	c.publish(hub.Event{ID: id, Type: hub.TypeTranscript, Text: words})

	m, ok := c.router.Match(words)
	if !ok {
		log.Debug("no command matched", "transcript", words, "id", id)
		return Reply{ID: id, Ignored: true}
	}
	if !c.gate.TryFire(m.Command.ID, c.deps.Clock()) {
		log.Debug("command cooling down", "command", m.Command.ID, "id", id)
		return Reply{ID: id, Command: m.Command.ID, Ignored: true, Throttled: true}
	}

	log.Debug("command matched", "command", m.Command.ID, "args", m.Call.Args, "id", id)
	r, err := m.Command.Action(m.Call)
	reply := c.report(r, err)
	reply.ID, reply.Command = id, m.Command.ID
	return reply
}

// ListeningEnded schedules reactivation of the speech source.
func (c *Controller) ListeningEnded() {
	if c.deps.Source == nil {
		return
	}
	c.reactivateAt = c.deps.Clock().Add(c.cfg.ReactivateDelay)
}

// Tick advances deferred work: it closes the click observation window and
// speaks what changed, reactivates listening, and runs periodic refreshes.
func (c *Controller) Tick(now time.Time) {
	if obs, ok := c.exec.Tick(now); ok {
		if text := feedback.Observed(obs); text != "" {
			c.say(text, true)
			c.publish(hub.Event{Type: hub.TypeObservation, Text: text})
		}
		c.reg.Refresh()
	}

	if !c.reactivateAt.IsZero() && !now.Before(c.reactivateAt) {
		c.reactivateAt = time.Time{}
		if err := c.deps.Source.Activate(); err != nil {
			log.Warn("reactivate listening", "error", err)
		}
	}

	if c.cfg.RefreshInterval > 0 && !now.Before(c.nextRefresh) {
		c.nextRefresh = now.Add(c.cfg.RefreshInterval)
		c.reg.Refresh()
	}
}

// Status returns a snapshot.
func (c *Controller) Status() Status {
	inv := c.exec.Inventory()
	return Status{
		Entities:       c.reg.Len(),
		Builds:         c.reg.Builds(),
		Scope:          c.reg.Scope(),
		Left:           inv.Held[scene.Left],
		Right:          inv.Held[scene.Right],
		Observing:      c.exec.Observing(),
		Reactivating:   !c.reactivateAt.IsZero(),
		Transcripts:    c.transcripts,
		LastTranscript: c.lastTranscript,
		LastReply:      c.lastReply,
	}
}

// Registry returns the voice-addressable keys by kind.
func (c *Controller) Registry() map[string][]string {
	return c.reg.Keys()
}

// Commands describes the registered voice commands.
func (c *Controller) Commands() []CommandInfo {
	now := c.deps.Clock()
	cmds := c.router.Commands()
	out := make([]CommandInfo, 0, len(cmds))
	for _, d := range cmds {
		out = append(out, CommandInfo{
			ID:          d.ID,
			Phrases:     d.Phrases,
			Description: d.Description,
			Arity:       d.Arity,
			Cooldown:    d.Cooldown,
			Remaining:   c.gate.Remaining(d.ID, now),
		})
	}
	return out
}

// PreferredHand is the hand tried first when a grab names none.
func (c *Controller) PreferredHand() scene.Hand {
	return c.cfg.PreferredHand
}
