package speech

import (
	"bufio"
	"context"
	"io"
	"strings"
	"time"
)

// LineSource treats each non-empty line of a reader as one utterance,
// followed by a listening-ended event. Useful with stdin.
type LineSource struct {
	r io.Reader
}

// NewLineSource creates a source reading from r.
func NewLineSource(r io.Reader) *LineSource {
	return &LineSource{r: r}
}

// Listen streams lines until EOF or ctx is done. A read blocked on r is
// not interrupted by ctx.
func (s *LineSource) Listen(ctx context.Context) (<-chan Event, error) {
	out := make(chan Event, 16)
	go func() {
		defer close(out)
		sc := bufio.NewScanner(s.r)
		for sc.Scan() {
			text := strings.TrimSpace(sc.Text())
			if text == "" {
				continue
			}
			now := time.Now()
			for _, ev := range []Event{
				{Type: EventTranscript, Text: text, Time: now},
				{Type: EventListeningEnded, Time: now},
			} {
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// Activate is a no-op; a reader is always listening.
func (s *LineSource) Activate() error { return nil }

var _ Source = (*LineSource)(nil)
