package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/futuresoft-ai/riya/pkg/gateway/events"
	"github.com/futuresoft-ai/riya/pkg/sessions"
	"github.com/futuresoft-ai/riya/pkg/telephony"
)

// CallStatusHandler receives Twilio status callbacks and evicts the session
// once the call reaches a terminal status.
type CallStatusHandler struct {
	Sessions *sessions.Store
	Hub      *events.Hub
	Logger   *slog.Logger
}

func (h CallStatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sessionID := r.FormValue("session_id")
	callStatus := r.FormValue("CallStatus")

	if h.Logger != nil {
		h.Logger.Info("call status", "session_id", sessionID, "call_status", callStatus)
	}

	if sessionID != "" && telephony.TerminalStatus(callStatus) {
		if sess, ok := h.Sessions.Get(sessionID); ok {
			sess.Lock()
			state := string(sess.State)
			sess.Unlock()
			h.Sessions.Delete(sessionID)
			h.Hub.Publish(events.SessionEvent{
				SessionID:  sessionID,
				State:      state,
				CallStatus: callStatus,
				At:         time.Now(),
			})
		}
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
