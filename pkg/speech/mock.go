package speech

import (
	"context"
	"sync"
	"time"
)

// Mock implements Sink and Source for testing. Calls are recorded.
type Mock struct {
	// Events, if set, is returned by Listen.
	Events chan Event

	// ActivateFunc is called by Activate. If nil, Activate returns nil.
	ActivateFunc func() error

	mu    sync.Mutex
	calls []MockCall
}

// MockCall records a method invocation for verification.
type MockCall struct {
	Method string
	Text   string
	Time   time.Time
}

// NewMock creates a mock with a buffered event channel.
func NewMock() *Mock {
	return &Mock{Events: make(chan Event, 16)}
}

func (m *Mock) Speak(text string)       { m.recordCall("Speak", text) }
func (m *Mock) SpeakQueued(text string) { m.recordCall("SpeakQueued", text) }

// Listen returns the Events channel.
func (m *Mock) Listen(ctx context.Context) (<-chan Event, error) {
	m.recordCall("Listen", "")
	return m.Events, nil
}

// Activate calls ActivateFunc and records the call.
func (m *Mock) Activate() error {
	m.recordCall("Activate", "")
	if m.ActivateFunc != nil {
		return m.ActivateFunc()
	}
	return nil
}

func (m *Mock) recordCall(method, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, MockCall{Method: method, Text: text, Time: time.Now()})
}

// Calls returns all recorded method calls.
func (m *Mock) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]MockCall, len(m.calls))
	copy(result, m.calls)
	return result
}

// CallCount returns the number of times a method was called.
func (m *Mock) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, c := range m.calls {
		if c.Method == method {
			count++
		}
	}
	return count
}

// Spoken returns the text of every Speak and SpeakQueued call in order.
func (m *Mock) Spoken() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, c := range m.calls {
		if c.Method == "Speak" || c.Method == "SpeakQueued" {
			out = append(out, c.Text)
		}
	}
	return out
}

// LastSpoken returns the most recent spoken text, or "".
func (m *Mock) LastSpoken() string {
	s := m.Spoken()
	if len(s) == 0 {
		return ""
	}
	return s[len(s)-1]
}

// Reset clears all recorded calls.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}

var (
	_ Sink   = (*Mock)(nil)
	_ Source = (*Mock)(nil)
)
