// Package feedback turns results and failures into the short sentences the
// user hears. Every function here is pure.
package feedback

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/teslashibe/go-voicebridge/pkg/interact"
	"github.com/teslashibe/go-voicebridge/pkg/outcome"
	"github.com/teslashibe/go-voicebridge/pkg/scene"
)

// maxListed caps how many new controls a follow-up names.
const maxListed = 4

// Report returns the sentence for an operation's outcome.
func Report(r outcome.Result, err error) string {
	if err != nil {
		return Failure(err)
	}
	return Success(r)
}

// Success describes a completed operation.
func Success(r outcome.Result) string {
	switch r.Action {
	case outcome.ActionGrab:
		return fmt.Sprintf("Picked up %s with your %s hand.", r.Name, r.Hand)
	case outcome.ActionRelease:
		return fmt.Sprintf("Released %s.", r.Name)
	case outcome.ActionClick:
		return fmt.Sprintf("Pressed %s.", r.Name)
	case outcome.ActionToggle:
		return toggle(r)
	case outcome.ActionSlide:
		return fmt.Sprintf("%s set to %s.", r.Name, Number(r.Value))
	case outcome.ActionSelect:
		if r.Unchanged {
			return fmt.Sprintf("%s is already selected.", r.Option)
		}
		return fmt.Sprintf("%s set to %s.", r.Name, r.Option)
	case outcome.ActionRefresh:
		if r.Count == 1 {
			return "Found 1 control."
		}
		return fmt.Sprintf("Found %d controls.", r.Count)
	case outcome.ActionInventory:
		return inventory(r.Held)
	}
	return "Done."
}

func toggle(r outcome.Result) string {
	word := "unchecked"
	switch {
	case r.Grouped && r.State:
		word = "selected"
	case r.Grouped:
		word = "deselected"
	case r.State:
		word = "checked"
	}
	if r.Unchanged {
		return fmt.Sprintf("%s is already %s.", r.Name, word)
	}
	return fmt.Sprintf("%s %s.", r.Name, word)
}

func inventory(held [2]string) string {
	var parts []string
	for _, h := range scene.Hands {
		if held[h] != "" {
			parts = append(parts, fmt.Sprintf("%s in your %s hand", held[h], h))
		}
	}
	if len(parts) == 0 {
		return "Your hands are empty."
	}
	return "You're holding " + strings.Join(parts, " and ") + "."
}

// Failure explains why an operation did not happen, naming the entity and
// the limit that was hit where there is one.
func Failure(err error) string {
	f, ok := outcome.AsFailure(err)
	if !ok {
		return "Something went wrong."
	}
	name := f.Name
	if name == "" {
		name = f.Phrase
	}

	switch {
	case errors.Is(err, outcome.ErrNotFound):
		if f.Phrase == "" {
			return "I couldn't find that."
		}
		return fmt.Sprintf("I couldn't find %s called %s.", article(f.Kind.String()), f.Phrase)
	case errors.Is(err, outcome.ErrAllUnavailable):
		if f.Kind == scene.KindGrabbable {
			return fmt.Sprintf("You're already holding %s.", name)
		}
		return fmt.Sprintf("%s isn't available right now.", name)
	case errors.Is(err, outcome.ErrUnavailable):
		return fmt.Sprintf("%s isn't available right now.", name)
	case errors.Is(err, outcome.ErrTooFar):
		return fmt.Sprintf("%s is too far away, about %.1f meters.", name, f.Distance)
	case errors.Is(err, outcome.ErrBothBusy):
		return "Both your hands are full."
	case errors.Is(err, outcome.ErrOutOfRange) && math.IsNaN(f.Value):
		return fmt.Sprintf("%s needs a number from %s to %s.", name, Number(f.Min), Number(f.Max))
	case errors.Is(err, outcome.ErrOutOfRange):
		return fmt.Sprintf("%s is out of range. %s goes from %s to %s.", Number(f.Value), name, Number(f.Min), Number(f.Max))
	case errors.Is(err, outcome.ErrOptionNotFound):
		return fmt.Sprintf("%s has no option %s.", name, f.Option)
	case errors.Is(err, outcome.ErrNotHeld):
		return fmt.Sprintf("You're not holding %s.", name)
	case errors.Is(err, outcome.ErrSlotEmpty):
		return fmt.Sprintf("Your %s hand is empty.", f.Hand)
	}
	return "Something went wrong."
}

// Observed describes what a click changed. It returns "" when nothing
// worth saying happened.
func Observed(o interact.Observation) string {
	switch n := len(o.Appeared); {
	case n == 1:
		return fmt.Sprintf("%s appeared.", o.Appeared[0])
	case n > 1:
		return "New controls: " + list(o.Appeared) + "."
	case o.Vanished:
		return fmt.Sprintf("%s is no longer shown.", o.Name)
	}
	return ""
}

func article(noun string) string {
	if noun != "" && strings.ContainsRune("aeiou", rune(noun[0])) {
		return "an " + noun
	}
	return "a " + noun
}

func list(names []string) string {
	extra := 0
	if len(names) > maxListed {
		extra = len(names) - maxListed
		names = names[:maxListed]
	}
	if extra > 0 {
		return strings.Join(names, ", ") + fmt.Sprintf(" and %d more", extra)
	}
	return strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
}

// Number formats a value for speech: at most two decimals, no trailing
// zeros.
func Number(v float64) string {
	v = math.Round(v*100) / 100
	if v == 0 {
		v = 0 // normalizes -0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
