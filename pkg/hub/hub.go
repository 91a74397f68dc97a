// Package hub fans voice bridge events out to dashboard websocket clients
// using a single goroutine that owns the client set.
package hub

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/teslashibe/go-voicebridge/internal/log"
)

// Event types.
const (
	TypeSay         = "say"
	TypeSayQueued   = "say_queued"
	TypeTranscript  = "transcript"
	TypeObservation = "observation"
	TypeRegistry    = "registry"
)

// historySize is how many recent events a new client receives.
const historySize = 50

// Event is one broadcast record.
type Event struct {
	ID   string    `json:"id"`
	Type string    `json:"type"`
	Text string    `json:"text,omitempty"`
	Time time.Time `json:"time"`
}

// Hub maintains the set of active clients and broadcasts events to them.
type Hub struct {
	name string

	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	mu      sync.RWMutex // guards history and the client count
	history []Event
}

// New creates a hub. name is used in logs.
func New(name string) *Hub {
	return &Hub{
		name:       name,
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run is the hub's main loop. It returns when ctx is done, closing every
// client's send channel.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				close(c.send)
				delete(h.clients, c)
			}
			h.mu.Unlock()
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			count := len(h.clients)
			backlog := h.encodeHistory()
			h.mu.Unlock()
			for _, data := range backlog {
				select {
				case c.send <- data:
				default:
				}
			}
			log.Debug("dashboard client connected", "hub", h.name, "clients", count)

		case c := <-h.unregister:
			h.mu.Lock()
			if h.clients[c] {
				delete(h.clients, c)
				close(c.send)
			}
			count := len(h.clients)
			h.mu.Unlock()
			log.Debug("dashboard client disconnected", "hub", h.name, "clients", count)

		case data := <-h.broadcast:
			h.mu.Lock()
			for c := range h.clients {
				select {
				case c.send <- data:
				default:
					close(c.send)
					delete(h.clients, c)
					log.Warn("dropped slow dashboard client", "hub", h.name)
				}
			}
			h.mu.Unlock()
		}
	}
}

// encodeHistory must be called with mu held.
func (h *Hub) encodeHistory() [][]byte {
	out := make([][]byte, 0, len(h.history))
	for _, ev := range h.history {
		if data, err := json.Marshal(ev); err == nil {
			out = append(out, data)
		}
	}
	return out
}

// Publish stamps ev with an id and time, records it, and broadcasts it.
// It never blocks; events are dropped when the broadcast queue is full.
func (h *Hub) Publish(ev Event) Event {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}

	h.mu.Lock()
	h.history = append(h.history, ev)
	if len(h.history) > historySize {
		h.history = h.history[len(h.history)-historySize:]
	}
	h.mu.Unlock()

	data, err := json.Marshal(ev)
	if err != nil {
		log.Error("encode event", "hub", h.name, "error", err)
		return ev
	}
	select {
	case h.broadcast <- data:
	default:
		log.Warn("broadcast queue full, dropping event", "hub", h.name, "type", ev.Type)
	}
	return ev
}

// Recent returns up to the last historySize events, oldest first.
func (h *Hub) Recent() []Event {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]Event, len(h.history))
	copy(out, h.history)
	return out
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Speak publishes interrupting speech. Together with SpeakQueued it lets
// the hub act as a speech sink.
func (h *Hub) Speak(text string) {
	h.Publish(Event{Type: TypeSay, Text: text})
}

// SpeakQueued publishes queued speech.
func (h *Hub) SpeakQueued(text string) {
	h.Publish(Event{Type: TypeSayQueued, Text: text})
}

func (h *Hub) join(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) leave(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}
