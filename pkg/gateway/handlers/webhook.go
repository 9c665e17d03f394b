package handlers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/futuresoft-ai/riya/pkg/audiostore"
	"github.com/futuresoft-ai/riya/pkg/gateway/config"
	"github.com/futuresoft-ai/riya/pkg/gateway/events"
	"github.com/futuresoft-ai/riya/pkg/gateway/mw"
	"github.com/futuresoft-ai/riya/pkg/interview"
	"github.com/futuresoft-ai/riya/pkg/sessions"
	"github.com/futuresoft-ai/riya/pkg/telephony"
	"github.com/futuresoft-ai/riya/pkg/voice/stt"
	"github.com/futuresoft-ai/riya/pkg/voice/tts"
)

// Fallback voice used when synthesis fails and Twilio renders the prompt itself.
const (
	fallbackVoice    = "Polly.Joanna"
	fallbackLanguage = "en-US"
)

// WebhookHandler is the turn orchestrator: it converts one inbound Twilio
// webhook into a state transition plus a TwiML continuation. Upstream
// failures degrade the turn (empty transcript, native-voice fallback);
// every branch answers Twilio with valid TwiML.
type WebhookHandler struct {
	Config   config.Config
	Sessions *sessions.Store
	STT      stt.Provider
	TTS      tts.Provider
	Audio    *audiostore.Store
	Hub      *events.Hub
	Logger   *slog.Logger

	// RecordingClient fetches recording bytes from Twilio; nil means
	// http.DefaultClient.
	RecordingClient *http.Client
}

func (h WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	reqID, _ := mw.RequestIDFrom(r.Context())

	sessionID := r.FormValue("session_id")
	sess, ok := h.Sessions.Get(sessionID)
	if !ok {
		if h.Logger != nil {
			h.Logger.Warn("webhook for unknown session", "request_id", reqID, "session_id", sessionID)
		}
		var v telephony.VoiceResponse
		v.Say(interview.PromptExpired, fallbackVoice, fallbackLanguage)
		h.writeTwiML(w, &v)
		return
	}

	transcript := h.transcript(r.Context(), r.FormValue("RecordingUrl"))

	sess.Lock()
	var prompt string
	if strings.TrimSpace(transcript) == "" {
		prompt = sess.HandleSilence()
	} else {
		prompt = sess.Advance(transcript)
	}
	state := sess.State
	sess.Unlock()

	if h.Logger != nil {
		h.Logger.Info("turn",
			"request_id", reqID,
			"session_id", sessionID,
			"state", state,
			"transcript_len", len(transcript),
		)
	}

	var v telephony.VoiceResponse
	if audioURL, ok := synthesize(r.Context(), h.Config, h.TTS, h.Audio, h.Logger, sessionID, prompt); ok {
		sess.Lock()
		sess.LastAudioURL = audioURL
		sess.Unlock()
		v.Play(audioURL)
	} else {
		v.Say(prompt, fallbackVoice, fallbackLanguage)
	}

	if state.Terminal() {
		v.Hangup()
	} else {
		v.Record(telephony.RecordOptions{
			Action:    h.Config.WebhookURL(sessionID),
			MaxLength: h.Config.RecordMaxLengthSec,
			PlayBeep:  true,
			Trim:      "trim-silence",
			Timeout:   h.Config.RecordInitialTimeoutSec,
		})
	}

	h.Hub.Publish(events.SessionEvent{
		SessionID:  sessionID,
		State:      string(state),
		Prompt:     prompt,
		Transcript: transcript,
		At:         time.Now(),
	})

	h.writeTwiML(w, &v)
}

// transcript turns an optional recording reference into text. Every failure
// mode (no recording, fetch error, provider error, empty result) yields ""
// so the turn can apply the silence policy instead of erroring.
func (h WebhookHandler) transcript(ctx context.Context, recordingURL string) string {
	if strings.TrimSpace(recordingURL) == "" {
		return ""
	}

	audio, err := h.fetchRecording(ctx, recordingURL)
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("recording fetch degraded", "error", err)
		}
		return ""
	}

	if h.STT == nil {
		return ""
	}
	trCtx, cancel := context.WithTimeout(ctx, h.Config.TranscriptionTimeout)
	defer cancel()

	tr, err := h.STT.Transcribe(trCtx, bytes.NewReader(audio), stt.TranscribeOptions{
		Model:    h.Config.STTModel,
		Language: h.Config.STTLanguage,
	})
	if err != nil || tr == nil {
		if h.Logger != nil {
			h.Logger.Warn("transcription degraded", "error", err)
		}
		return ""
	}
	return tr.Text
}

func (h WebhookHandler) fetchRecording(ctx context.Context, recordingURL string) ([]byte, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, h.Config.RecordingFetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(fetchCtx, "GET", recordingURL, nil)
	if err != nil {
		return nil, err
	}

	client := h.RecordingClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("recording fetch status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func (h WebhookHandler) writeTwiML(w http.ResponseWriter, v *telephony.VoiceResponse) {
	body, err := v.XML()
	if err != nil {
		// Should not happen; answer with a bare spoken apology so Twilio
		// still gets a playable directive.
		var fallback telephony.VoiceResponse
		fallback.Say(interview.PromptRepeat, fallbackVoice, fallbackLanguage)
		body, _ = fallback.XML()
	}
	w.Header().Set("Content-Type", "application/xml")
	_, _ = w.Write([]byte(body))
}
