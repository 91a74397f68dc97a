package bridge

import (
	"math"
	"slices"
	"strings"

	"github.com/teslashibe/go-voicebridge/pkg/command"
	"github.com/teslashibe/go-voicebridge/pkg/naming"
	"github.com/teslashibe/go-voicebridge/pkg/outcome"
	"github.com/teslashibe/go-voicebridge/pkg/scene"
)

// defaultCommands is the built-in voice vocabulary.
func (c *Controller) defaultCommands() []command.Descriptor {
	return []command.Descriptor{
		{
			ID:          "grab",
			Phrases:     []string{"grab", "pick up", "take", "hold"},
			Description: "Pick up an object, optionally naming the hand",
			Arity:       1,
			Action: func(call command.Call) (outcome.Result, error) {
				hand, name := handFor(call.Before, call.Arg(0), c.cfg.PreferredHand)
				return c.grab(name, hand)
			},
		},
		{
			ID:          "release",
			Phrases:     []string{"drop", "release", "let go of", "put down"},
			Description: "Let go of an object, by name or by hand",
			Arity:       1,
			Action: func(call command.Call) (outcome.Result, error) {
				if hand, ok := handOnly(call.Arg(0)); ok {
					return c.exec.Release(hand)
				}
				return c.release(call.Arg(0))
			},
		},
		{
			ID:          "click",
			Phrases:     []string{"click", "press", "push", "tap"},
			Description: "Press a button",
			Arity:       1,
			Action: func(call command.Call) (outcome.Result, error) {
				return c.click(call.Arg(0))
			},
		},
		{
			ID:          "check",
			Phrases:     []string{"check", "tick", "turn on", "switch on", "enable"},
			Description: "Turn a checkbox or switch on",
			Arity:       1,
			Action: func(call command.Call) (outcome.Result, error) {
				return c.toggle(call.Arg(0), true)
			},
		},
		{
			ID:          "uncheck",
			Phrases:     []string{"uncheck", "untick", "turn off", "switch off", "disable"},
			Description: "Turn a checkbox or switch off",
			Arity:       1,
			Action: func(call command.Call) (outcome.Result, error) {
				return c.toggle(call.Arg(0), false)
			},
		},
		{
			ID:          "set",
			Phrases:     []string{"set", "change"},
			Description: "Set a slider to a number or a dropdown to an option",
			Arity:       2,
			Separators:  []string{"to"},
			Action: func(call command.Call) (outcome.Result, error) {
				return c.set(call.Arg(0), call.Arg(1))
			},
		},
		{
			ID:          "select_option",
			Phrases:     []string{"select", "choose"},
			Description: "Choose an option from a dropdown",
			Arity:       2,
			Separators:  []string{"from", "in", "on", "for"},
			Action: func(call command.Call) (outcome.Result, error) {
				return c.selectOption(call.Arg(1), call.Arg(0))
			},
		},
		{
			ID:          "select_toggle",
			Phrases:     []string{"select", "choose"},
			Description: "Select one toggle of a group",
			Arity:       1,
			Action: func(call command.Call) (outcome.Result, error) {
				return c.toggle(call.Arg(0), true)
			},
		},
		{
			ID:          "refresh",
			Phrases:     []string{"refresh", "rescan", "update controls"},
			Description: "Rescan the scene for controls",
			Action: func(command.Call) (outcome.Result, error) {
				return c.refresh()
			},
		},
		{
			ID:          "inventory",
			Phrases:     []string{"what am i holding", "what is in my hands", "inventory"},
			Description: "Say what each hand holds",
			Action: func(command.Call) (outcome.Result, error) {
				return c.exec.Inventory(), nil
			},
		},
	}
}

// set sends a number to a slider and anything else to a dropdown. A
// number goes to a dropdown only when no slider has that name.
func (c *Controller) set(name, value string) (outcome.Result, error) {
	c.ensureRegistry()
	spoken := command.TrimFillers(naming.Words(name))
	_, slider := c.reg.Sliders().Resolve(spoken)
	_, dropdown := c.reg.Dropdowns().Resolve(spoken)
	v, numeric := command.ParseNumber(value)

	switch {
	case numeric && (slider || !dropdown):
		return c.slide(name, v)
	case dropdown:
		return c.selectOption(name, value)
	case slider:
		return c.slide(name, math.NaN())
	}
	kind := scene.KindSelectable
	if numeric {
		kind = scene.KindRanged
	}
	return outcome.Result{}, outcome.Fail(outcome.ErrNotFound, kind, spoken)
}

var (
	handPrepositions = []string{"with", "in", "using", "by"}
	handPossessives  = []string{"my", "the", "your"}
)

// handFor finds a hand named before the trigger ("left hand grab key") or
// at the end of the argument ("key with my left hand"). It returns the
// hand and the argument without the hand phrase.
func handFor(before, arg string, def scene.Hand) (scene.Hand, string) {
	words := strings.Fields(arg)
	for i := 0; i+1 < len(words); i++ {
		h, ok := scene.ParseHand(words[i])
		if !ok || words[i+1] != "hand" {
			continue
		}
		cut := i
		if cut > 0 && slices.Contains(handPossessives, words[cut-1]) {
			cut--
		}
		if cut > 0 && slices.Contains(handPrepositions, words[cut-1]) {
			cut--
		}
		return h, strings.Join(words[:cut], " ")
	}
	for _, w := range strings.Fields(before) {
		if h, ok := scene.ParseHand(w); ok {
			return h, arg
		}
	}
	return def, arg
}

// handOnly reports whether arg names just a hand: "left", "my right hand",
// "the left one".
func handOnly(arg string) (scene.Hand, bool) {
	words := strings.Fields(command.TrimFillers(arg))
	if len(words) == 0 || len(words) > 2 {
		return scene.Left, false
	}
	h, ok := scene.ParseHand(words[0])
	if !ok {
		return scene.Left, false
	}
	if len(words) == 2 && words[1] != "hand" && words[1] != "one" {
		return scene.Left, false
	}
	return h, true
}
