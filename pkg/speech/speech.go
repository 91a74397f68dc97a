// Package speech defines the recognizer and synthesizer the bridge talks
// to, plus a websocket client for an external recognizer, a line-based
// source for terminals, and sinks for logs and tests.
package speech

import (
	"context"
	"time"

	"github.com/teslashibe/go-voicebridge/internal/log"
)

// EventType identifies what a source reported.
type EventType int

const (
	// EventTranscript carries one completed utterance.
	EventTranscript EventType = iota
	// EventListeningEnded means the recognizer stopped listening and needs
	// Activate to resume.
	EventListeningEnded
)

func (t EventType) String() string {
	switch t {
	case EventTranscript:
		return "transcript"
	case EventListeningEnded:
		return "listening_ended"
	default:
		return "unknown"
	}
}

// Event is one report from a source.
type Event struct {
	Type EventType
	Text string
	Time time.Time
}

// Source delivers recognized speech.
type Source interface {
	// Listen streams events until ctx is done or the source ends. The
	// channel is closed when streaming stops.
	Listen(ctx context.Context) (<-chan Event, error)

	// Activate asks the recognizer to start listening again.
	Activate() error
}

// Sink speaks text. Both methods are fire-and-forget.
type Sink interface {
	// Speak interrupts anything playing and says text.
	Speak(text string)
	// SpeakQueued says text after whatever is already queued.
	SpeakQueued(text string)
}

// Multi fans out to several sinks. Nil entries are skipped.
type Multi []Sink

func (m Multi) Speak(text string) {
	for _, s := range m {
		if s != nil {
			s.Speak(text)
		}
	}
}

func (m Multi) SpeakQueued(text string) {
	for _, s := range m {
		if s != nil {
			s.SpeakQueued(text)
		}
	}
}

// LogSink writes spoken text to the log.
type LogSink struct{}

func (LogSink) Speak(text string)       { log.Info("say", "text", text) }
func (LogSink) SpeakQueued(text string) { log.Info("say", "text", text, "queued", true) }

var (
	_ Sink = Multi(nil)
	_ Sink = LogSink{}
)
