package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/futuresoft-ai/riya/pkg/audiostore"
	"github.com/futuresoft-ai/riya/pkg/gateway/apierror"
	"github.com/futuresoft-ai/riya/pkg/gateway/config"
	"github.com/futuresoft-ai/riya/pkg/gateway/events"
	"github.com/futuresoft-ai/riya/pkg/gateway/mw"
	"github.com/futuresoft-ai/riya/pkg/sessions"
	"github.com/futuresoft-ai/riya/pkg/telephony"
	"github.com/futuresoft-ai/riya/pkg/voice/tts"
)

// InitiateCallHandler creates a session, pre-generates the opening prompt
// audio, and places the outbound call.
type InitiateCallHandler struct {
	Config   config.Config
	Sessions *sessions.Store
	TTS      tts.Provider
	Audio    *audiostore.Store
	Caller   telephony.Caller
	Hub      *events.Hub
	Logger   *slog.Logger
}

type initiateResponse struct {
	Success   bool   `json:"success"`
	CallSID   string `json:"call_sid,omitempty"`
	SessionID string `json:"session_id,omitempty"`
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
}

func (h InitiateCallHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	reqID, _ := mw.RequestIDFrom(r.Context())

	if r.Method != http.MethodPost {
		apierror.WriteJSON(w, &apierror.Error{
			Type:      apierror.ErrInvalidRequest,
			Message:   "method not allowed",
			RequestID: reqID,
		})
		return
	}

	phone := strings.TrimSpace(r.FormValue("phone_number"))
	if phone == "" {
		apierror.WriteJSON(w, &apierror.Error{
			Type:      apierror.ErrInvalidRequest,
			Message:   "phone_number is required",
			RequestID: reqID,
		})
		return
	}

	if h.Caller == nil || !h.Caller.Configured() {
		apierror.WriteJSON(w, &apierror.Error{
			Type:      apierror.ErrConfigurationMissing,
			Message:   "telephony is not configured",
			RequestID: reqID,
		})
		return
	}

	sess := h.Sessions.Create(phone)

	sess.Lock()
	opening := sess.Advance("")
	state := string(sess.State)
	sess.Unlock()

	// Pre-generate the opening audio so the first webhook turn can play it
	// immediately. Failure is fine: the turn falls back to native speech.
	if audioURL, ok := synthesize(r.Context(), h.Config, h.TTS, h.Audio, h.Logger, sess.ID, opening); ok {
		sess.Lock()
		sess.LastAudioURL = audioURL
		sess.Unlock()
	}

	call, err := h.Caller.PlaceCall(r.Context(), telephony.CallOptions{
		To:                phone,
		WebhookURL:        h.Config.WebhookURL(sess.ID),
		StatusCallbackURL: h.Config.StatusCallbackURL(sess.ID),
		MachineDetection:  true,
	})

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err != nil {
		if h.Logger != nil {
			h.Logger.Error("call placement failed", "request_id", reqID, "session_id", sess.ID, "error", err)
		}
		h.Sessions.Delete(sess.ID)
		_ = json.NewEncoder(w).Encode(initiateResponse{Success: false, Error: err.Error()})
		return
	}

	if h.Logger != nil {
		h.Logger.Info("call placed", "request_id", reqID, "session_id", sess.ID, "call_sid", call.SID, "to", phone)
	}
	h.Hub.Publish(events.SessionEvent{
		SessionID: sess.ID,
		State:     state,
		Prompt:    opening,
		At:        time.Now(),
	})

	_ = json.NewEncoder(w).Encode(initiateResponse{
		Success:   true,
		CallSID:   call.SID,
		SessionID: sess.ID,
		Message:   "Calling " + phone + "...",
	})
}

// synthesize runs one bounded TTS attempt and stores the artifact. It
// reports ok=false on any failure; callers treat that as a cue to use the
// telephony provider's native voice.
func synthesize(ctx context.Context, cfg config.Config, provider tts.Provider, store *audiostore.Store, logger *slog.Logger, sessionID, text string) (string, bool) {
	if provider == nil || text == "" {
		return "", false
	}

	synthCtx, cancel := context.WithTimeout(ctx, cfg.SynthesisTimeout)
	defer cancel()

	syn, err := provider.Synthesize(synthCtx, text, tts.SynthesizeOptions{
		VoiceID:     cfg.TTSVoiceID,
		SpeechModel: cfg.TTSSpeechModel,
		Language:    cfg.TTSLanguage,
	})
	if err != nil || syn == nil || len(syn.Audio) == 0 {
		if logger != nil {
			logger.Warn("synthesis degraded", "session_id", sessionID, "error", err)
		}
		return "", false
	}

	id, err := store.Put(sessionID, syn.Audio)
	if err != nil {
		if logger != nil {
			logger.Warn("audio artifact write failed", "session_id", sessionID, "error", err)
		}
		return "", false
	}
	return cfg.AudioURL(id), true
}
