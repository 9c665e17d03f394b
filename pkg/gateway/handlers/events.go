package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/futuresoft-ai/riya/pkg/gateway/events"
)

const (
	eventsWriteTimeout = 5 * time.Second
	eventsPingInterval = 20 * time.Second
)

// EventsHandler streams session events to the dashboard over a websocket.
type EventsHandler struct {
	Hub    *events.Hub
	Logger *slog.Logger

	// Upgrader may be customized in tests; the zero value uses defaults
	// with same-origin checks disabled (the dashboard is same-host).
	Upgrader websocket.Upgrader
}

func (h EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	up := h.Upgrader
	if up.CheckOrigin == nil {
		up.CheckOrigin = func(*http.Request) bool { return true }
	}

	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("events upgrade failed", "error", err)
		}
		return
	}
	defer conn.Close()

	ch, cancel := h.Hub.Subscribe()
	defer cancel()

	// Reader goroutine: we never expect client messages, but reading is
	// required to notice the peer closing.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(eventsPingInterval)
	defer ping.Stop()

	for {
		select {
		case <-done:
			return
		case <-r.Context().Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(eventsWriteTimeout))
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(eventsWriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
