package handlers

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/futuresoft-ai/riya/pkg/gateway/events"
)

func TestEventsStreamsPublishedEvents(t *testing.T) {
	hub := events.NewHub()
	srv := httptest.NewServer(EventsHandler{Hub: hub, Logger: testLogger()})
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// The subscription is registered during the upgrade handshake; wait for it.
	deadline := time.Now().Add(2 * time.Second)
	for hub.Count() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("subscriber never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	hub.Publish(events.SessionEvent{SessionID: "s1", State: "interest_check", Prompt: "hello"})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev events.SessionEvent
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("read: %v", err)
	}
	if ev.SessionID != "s1" || ev.State != "interest_check" {
		t.Fatalf("event = %+v", ev)
	}
}

func TestEventsUnsubscribesOnClose(t *testing.T) {
	hub := events.NewHub()
	srv := httptest.NewServer(EventsHandler{Hub: hub, Logger: testLogger()})
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.Count() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("subscriber never removed after close")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
