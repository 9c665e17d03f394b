// Package events fans out per-session dialogue progress to dashboard
// subscribers.
package events

import (
	"sync"
	"time"
)

// SessionEvent is one observable step of a screening call.
type SessionEvent struct {
	SessionID  string    `json:"session_id"`
	State      string    `json:"state"`
	Prompt     string    `json:"prompt,omitempty"`
	Transcript string    `json:"transcript,omitempty"`
	CallStatus string    `json:"call_status,omitempty"`
	At         time.Time `json:"at"`
}

const subscriberBuffer = 16

// Hub broadcasts session events to any number of subscribers. Publishing
// never blocks: a subscriber that cannot keep up loses events rather than
// stalling the turn pipeline.
type Hub struct {
	mu   sync.Mutex
	subs map[chan SessionEvent]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[chan SessionEvent]struct{})}
}

// Subscribe registers a listener. The returned cancel func must be called
// exactly once; the channel is closed by cancel.
func (h *Hub) Subscribe() (<-chan SessionEvent, func()) {
	ch := make(chan SessionEvent, subscriberBuffer)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, ch)
			h.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Publish delivers ev to all current subscribers, dropping it for any whose
// buffer is full.
func (h *Hub) Publish(ev SessionEvent) {
	if h == nil {
		return
	}
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	h.mu.Lock()
	for ch := range h.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	h.mu.Unlock()
}

// Count returns the number of active subscribers.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
