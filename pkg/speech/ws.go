package speech

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/teslashibe/go-voicebridge/internal/log"
)

// ErrNotConnected is returned when a command is sent before Listen.
var ErrNotConnected = errors.New("speech: not connected")

// Wire message types exchanged with the recognizer service.
const (
	MsgTranscript     = "transcript"
	MsgListeningEnded = "listening_ended"
	MsgStart          = "start"
	MsgStop           = "stop"
)

// Message is the JSON frame in both directions.
type Message struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// WSConfig configures a WSSource.
type WSConfig struct {
	// URL of the recognizer's websocket endpoint.
	URL string

	// HandshakeTimeout bounds the dial.
	HandshakeTimeout time.Duration

	// WriteTimeout bounds each command write.
	WriteTimeout time.Duration
}

// DefaultWSConfig returns sensible defaults for url.
func DefaultWSConfig(url string) WSConfig {
	return WSConfig{
		URL:              url,
		HandshakeTimeout: 10 * time.Second,
		WriteTimeout:     5 * time.Second,
	}
}

// WSSource reads transcripts from a recognizer over a websocket and sends
// it start/stop commands.
type WSSource struct {
	cfg WSConfig

	mu   sync.Mutex // guards conn and writes
	conn *websocket.Conn
}

// NewWSSource creates a source for cfg. It does not connect until Listen.
func NewWSSource(cfg WSConfig) *WSSource {
	return &WSSource{cfg: cfg}
}

// Listen dials the recognizer and streams its events until ctx is done or
// the connection drops.
func (s *WSSource) Listen(ctx context.Context) (<-chan Event, error) {
	dialer := websocket.Dialer{HandshakeTimeout: s.cfg.HandshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, s.cfg.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("dial recognizer %s: %w", s.cfg.URL, err)
	}
	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()
	log.Info("recognizer connected", "url", s.cfg.URL)

	out := make(chan Event, 16)
	done := make(chan struct{})

	go func() {
		select {
		case <-ctx.Done():
		case <-done:
		}
		s.mu.Lock()
		conn.Close()
		if s.conn == conn {
			s.conn = nil
		}
		s.mu.Unlock()
	}()

	go func() {
		defer close(out)
		defer close(done)
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				if ctx.Err() == nil {
					log.Warn("recognizer connection closed", "error", err)
				}
				return
			}
			ev, ok := decode(data)
			if !ok {
				continue
			}
			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func decode(data []byte) (Event, bool) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		log.Debug("recognizer sent malformed frame", "error", err)
		return Event{}, false
	}
	now := time.Now()
	switch msg.Type {
	case MsgTranscript:
		return Event{Type: EventTranscript, Text: msg.Text, Time: now}, true
	case MsgListeningEnded:
		return Event{Type: EventListeningEnded, Time: now}, true
	}
	log.Debug("recognizer sent unknown frame", "type", msg.Type)
	return Event{}, false
}

// Activate tells the recognizer to start listening.
func (s *WSSource) Activate() error {
	return s.send(Message{Type: MsgStart})
}

// Deactivate tells the recognizer to stop listening.
func (s *WSSource) Deactivate() error {
	return s.send(Message{Type: MsgStop})
}

func (s *WSSource) send(msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return ErrNotConnected
	}
	if s.cfg.WriteTimeout > 0 {
		s.conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
	}
	if err := s.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("send %s: %w", msg.Type, err)
	}
	return nil
}

var _ Source = (*WSSource)(nil)
