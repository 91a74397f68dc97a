package outcome

import (
	"errors"
	"fmt"

	"github.com/teslashibe/go-voicebridge/pkg/scene"
)

// Sentinel errors for every way a voice operation can fail. All of them are
// recovered by the bridge and turned into one spoken sentence.
var (
	// ErrNotFound means no active entity matched the phrase.
	ErrNotFound = errors.New("voicebridge: not found")

	// ErrAllUnavailable means active candidates exist but none accepts the
	// operation (disabled, or already held).
	ErrAllUnavailable = errors.New("voicebridge: all candidates unavailable")

	// ErrTooFar means the nearest grab candidate is beyond reach.
	ErrTooFar = errors.New("voicebridge: out of reach")

	// ErrBothBusy means both hands are already holding something.
	ErrBothBusy = errors.New("voicebridge: both hands busy")

	// ErrOutOfRange means a numeric value is outside the control's bounds.
	ErrOutOfRange = errors.New("voicebridge: value out of range")

	// ErrOptionNotFound means a dropdown has no option with that label.
	ErrOptionNotFound = errors.New("voicebridge: option not found")

	// ErrNotHeld means a release named something neither hand holds.
	ErrNotHeld = errors.New("voicebridge: not held")

	// ErrSlotEmpty means a release targeted an empty hand.
	ErrSlotEmpty = errors.New("voicebridge: hand empty")

	// ErrUnavailable means the entity stopped accepting input between
	// disambiguation and execution.
	ErrUnavailable = errors.New("voicebridge: entity unavailable")
)

// Failure carries a sentinel plus what the feedback needs to explain it.
type Failure struct {
	Err    error
	Kind   scene.Kind
	Phrase string // what the user said, normalized for speech
	Name   string // display name of the entity involved, if any
	Hand   scene.Hand

	Distance float64 // ErrTooFar
	Min, Max float64 // ErrOutOfRange
	Value    float64 // ErrOutOfRange
	Option   string  // ErrOptionNotFound
}

// Error implements the error interface.
func (f *Failure) Error() string {
	subject := f.Name
	if subject == "" {
		subject = f.Phrase
	}
	switch {
	case errors.Is(f.Err, ErrTooFar):
		return fmt.Sprintf("%v: %s %q at %.2fm", f.Err, f.Kind, subject, f.Distance)
	case errors.Is(f.Err, ErrOutOfRange):
		return fmt.Sprintf("%v: %s %q %v not in [%v, %v]", f.Err, f.Kind, subject, f.Value, f.Min, f.Max)
	case errors.Is(f.Err, ErrOptionNotFound):
		return fmt.Sprintf("%v: %s %q has no %q", f.Err, f.Kind, subject, f.Option)
	case errors.Is(f.Err, ErrSlotEmpty), errors.Is(f.Err, ErrBothBusy):
		return fmt.Sprintf("%v: %s hand", f.Err, f.Hand)
	}
	return fmt.Sprintf("%v: %s %q", f.Err, f.Kind, subject)
}

// Unwrap returns the sentinel.
func (f *Failure) Unwrap() error {
	return f.Err
}

// Fail builds a Failure for kind with the given sentinel.
func Fail(err error, kind scene.Kind, phrase string) *Failure {
	return &Failure{Err: err, Kind: kind, Phrase: phrase}
}

// AsFailure extracts a *Failure from err.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}
