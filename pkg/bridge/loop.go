package bridge

import (
	"context"
	"errors"
	"time"

	"github.com/teslashibe/go-voicebridge/internal/log"
	"github.com/teslashibe/go-voicebridge/pkg/speech"
)

// ErrStopped is returned by Do once the loop has exited.
var ErrStopped = errors.New("bridge: loop stopped")

type call struct {
	fn   func(*Controller)
	done chan struct{}
}

// Loop runs a Controller on one goroutine. Speech events, ticks and calls
// from other goroutines are handled one at a time, each to completion.
type Loop struct {
	ctrl    *Controller
	rate    time.Duration
	calls   chan call
	stopped chan struct{}
}

// NewLoop creates a loop that ticks ctrl every rate.
func NewLoop(ctrl *Controller, rate time.Duration) *Loop {
	return &Loop{
		ctrl:    ctrl,
		rate:    rate,
		calls:   make(chan call),
		stopped: make(chan struct{}),
	}
}

// Run drives the controller until ctx is done. With a source it also
// handles transcripts and listening-ended events; the loop keeps running
// if the source ends.
func (l *Loop) Run(ctx context.Context, src speech.Source) error {
	defer close(l.stopped)

	var events <-chan speech.Event
	if src != nil {
		ch, err := src.Listen(ctx)
		if err != nil {
			return err
		}
		events = ch
	}

	ticker := time.NewTicker(l.rate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case now := <-ticker.C:
			l.ctrl.Tick(now)

		case ev, ok := <-events:
			if !ok {
				log.Warn("speech source ended")
				events = nil
				continue
			}
			switch ev.Type {
			case speech.EventTranscript:
				l.ctrl.HandleTranscript(ev.Text)
			case speech.EventListeningEnded:
				l.ctrl.ListeningEnded()
			}

		case c := <-l.calls:
			c.fn(l.ctrl)
			close(c.done)
		}
	}
}

// Do runs fn on the loop goroutine and waits for it. If ctx ends first fn
// may still run later; callers must not read its results then.
func (l *Loop) Do(ctx context.Context, fn func(*Controller)) error {
	c := call{fn: fn, done: make(chan struct{})}
	select {
	case l.calls <- c:
	case <-l.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-c.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Submit handles a transcript on the loop goroutine.
func (l *Loop) Submit(ctx context.Context, text string) (Reply, error) {
	var r Reply
	if err := l.Do(ctx, func(c *Controller) { r = c.HandleTranscript(text) }); err != nil {
		return Reply{}, err
	}
	return r, nil
}

// Status returns a controller snapshot taken on the loop goroutine.
func (l *Loop) Status(ctx context.Context) (Status, error) {
	var s Status
	if err := l.Do(ctx, func(c *Controller) { s = c.Status() }); err != nil {
		return Status{}, err
	}
	return s, nil
}
