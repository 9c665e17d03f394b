package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/futuresoft-ai/riya/pkg/gateway/events"
	"github.com/futuresoft-ai/riya/pkg/interview"
	"github.com/futuresoft-ai/riya/pkg/sessions"
)

func newWebhookHandler(t *testing.T, store *sessions.Store, sttP *fakeSTT, ttsP *fakeTTS) WebhookHandler {
	t.Helper()
	h := WebhookHandler{
		Config:   testConfig(),
		Sessions: store,
		Audio:    testAudioStore(t),
		Hub:      events.NewHub(),
		Logger:   testLogger(),
	}
	if sttP != nil {
		h.STT = *sttP
	}
	if ttsP != nil {
		h.TTS = ttsP
	}
	return h
}

func postWebhook(h WebhookHandler, sessionID, recordingURL string) *httptest.ResponseRecorder {
	form := url.Values{}
	if recordingURL != "" {
		form.Set("RecordingUrl", recordingURL)
	}
	target := "/twilio-webhook"
	if sessionID != "" {
		target += "?session_id=" + sessionID
	}
	req := httptest.NewRequest("POST", target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestWebhookUnknownSession(t *testing.T) {
	h := newWebhookHandler(t, sessions.NewStore(0), nil, nil)

	rec := postWebhook(h, "nope", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/xml" {
		t.Fatalf("content type = %q", ct)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "<Say") || !strings.Contains(body, interview.PromptExpired) {
		t.Fatalf("body = %q, want expired Say", body)
	}
	if strings.Contains(body, "<Record") {
		t.Fatalf("expired session must not record: %q", body)
	}
}

func TestWebhookTurnWithTranscript(t *testing.T) {
	recSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("RIFFfake"))
	}))
	defer recSrv.Close()

	store := sessions.NewStore(0)
	sess := store.Create("+911234567890")
	sess.Lock()
	sess.Advance("") // greeting -> interest check
	sess.Unlock()

	ttsP := &fakeTTS{audio: []byte("wav-bytes")}
	h := newWebhookHandler(t, store, &fakeSTT{text: "yes I am interested"}, ttsP)

	rec := postWebhook(h, sess.ID, recSrv.URL)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "<Play>") {
		t.Fatalf("synthesized turn should Play, got %q", body)
	}
	if !strings.Contains(body, "http://gw.test/audio/") {
		t.Fatalf("Play URL should point at the audio route, got %q", body)
	}
	if !strings.Contains(body, `action="http://gw.test/twilio-webhook?session_id=`+sess.ID+`"`) {
		t.Fatalf("Record action missing session id: %q", body)
	}
	if !strings.Contains(body, `maxLength="60"`) || !strings.Contains(body, `timeout="5"`) ||
		!strings.Contains(body, `trim="trim-silence"`) || !strings.Contains(body, `playBeep="true"`) {
		t.Fatalf("record attrs wrong: %q", body)
	}

	sess.Lock()
	state := sess.State
	audioURL := sess.LastAudioURL
	sess.Unlock()
	if state != interview.StateExperienceCheck {
		t.Fatalf("state = %q, want experience_check", state)
	}
	if audioURL == "" {
		t.Fatal("LastAudioURL not recorded")
	}
}

func TestWebhookSynthesisFailureFallsBackToSay(t *testing.T) {
	recSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("RIFFfake"))
	}))
	defer recSrv.Close()

	store := sessions.NewStore(0)
	sess := store.Create("+911234567890")
	sess.Lock()
	sess.Advance("")
	sess.Unlock()

	h := newWebhookHandler(t, store, &fakeSTT{text: "yes"}, &fakeTTS{err: errUpstream})

	rec := postWebhook(h, sess.ID, recSrv.URL)

	body := rec.Body.String()
	if strings.Contains(body, "<Play>") {
		t.Fatalf("failed synthesis must not Play: %q", body)
	}
	if !strings.Contains(body, `<Say voice="Polly.Joanna" language="en-US">`) {
		t.Fatalf("missing fallback Say: %q", body)
	}
	if !strings.Contains(body, interview.PromptExperienceAsk) {
		t.Fatalf("fallback Say should carry the turn prompt: %q", body)
	}
	if !strings.Contains(body, "<Record") {
		t.Fatalf("non-terminal turn must keep recording: %q", body)
	}
}

func TestWebhookTranscriptionFailureCountsAsSilence(t *testing.T) {
	recSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("RIFFfake"))
	}))
	defer recSrv.Close()

	store := sessions.NewStore(0)
	sess := store.Create("+911234567890")
	sess.Lock()
	sess.Advance("")
	sess.Unlock()

	h := newWebhookHandler(t, store, &fakeSTT{err: errUpstream}, &fakeTTS{err: errUpstream})

	rec := postWebhook(h, sess.ID, recSrv.URL)

	body := rec.Body.String()
	if !strings.Contains(body, interview.PromptDidNotCatch) {
		t.Fatalf("degraded transcription should re-prompt: %q", body)
	}
	sess.Lock()
	state := sess.State
	sess.Unlock()
	if state != interview.StateInterestCheck {
		t.Fatalf("state = %q, silence outside a narrative question must not transition", state)
	}
}

func TestWebhookNoRecordingAppliesSilencePolicy(t *testing.T) {
	store := sessions.NewStore(0)
	sess := store.Create("+911234567890")
	sess.Lock()
	sess.Advance("")
	sess.Advance("yes")
	sess.Advance("fresher")
	sess.Advance("graduate") // now customer_story
	sess.Unlock()

	h := newWebhookHandler(t, store, &fakeSTT{text: "unused"}, &fakeTTS{err: errUpstream})

	rec := postWebhook(h, sess.ID, "")

	body := rec.Body.String()
	if !strings.Contains(body, interview.PromptSilence) {
		t.Fatalf("silence mid-story should issue the silence corrective: %q", body)
	}
	sess.Lock()
	state := sess.State
	sess.Unlock()
	if state != interview.StateCustomerRetry {
		t.Fatalf("state = %q, want customer_retry", state)
	}
}

func TestWebhookTerminalTurnHangsUp(t *testing.T) {
	recSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("RIFFfake"))
	}))
	defer recSrv.Close()

	store := sessions.NewStore(0)
	sess := store.Create("+911234567890")
	sess.Lock()
	sess.Advance("")
	sess.Unlock()

	h := newWebhookHandler(t, store, &fakeSTT{text: "no thanks"}, &fakeTTS{err: errUpstream})

	rec := postWebhook(h, sess.ID, recSrv.URL)

	body := rec.Body.String()
	if !strings.Contains(body, interview.PromptDecline) {
		t.Fatalf("declined candidate should hear the decline line: %q", body)
	}
	if !strings.Contains(body, "<Hangup>") && !strings.Contains(body, "<Hangup/") {
		t.Fatalf("decline should hang up: %q", body)
	}
	if strings.Contains(body, "<Record") {
		t.Fatalf("terminal turn must not record: %q", body)
	}
}

func TestWebhookRecordingFetchFailureDegrades(t *testing.T) {
	recSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer recSrv.Close()

	store := sessions.NewStore(0)
	sess := store.Create("+911234567890")
	sess.Lock()
	sess.Advance("")
	sess.Unlock()

	h := newWebhookHandler(t, store, &fakeSTT{text: "should not be used"}, &fakeTTS{err: errUpstream})

	rec := postWebhook(h, sess.ID, recSrv.URL)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, degraded fetch must still answer 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), interview.PromptDidNotCatch) {
		t.Fatalf("fetch failure should look like silence: %q", rec.Body.String())
	}
}

func TestWebhookPublishesEvent(t *testing.T) {
	store := sessions.NewStore(0)
	sess := store.Create("+911234567890")

	h := newWebhookHandler(t, store, nil, nil)
	ch, cancel := h.Hub.Subscribe()
	defer cancel()

	postWebhook(h, sess.ID, "")

	select {
	case ev := <-ch:
		if ev.SessionID != sess.ID {
			t.Fatalf("event session = %q, want %q", ev.SessionID, sess.ID)
		}
		if ev.State == "" || ev.Prompt == "" {
			t.Fatalf("event missing state or prompt: %+v", ev)
		}
	default:
		t.Fatal("no event published")
	}
}
