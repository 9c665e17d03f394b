package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/futuresoft-ai/riya/pkg/gateway/apierror"
	"github.com/futuresoft-ai/riya/pkg/gateway/events"
	"github.com/futuresoft-ai/riya/pkg/interview"
	"github.com/futuresoft-ai/riya/pkg/sessions"
)

func newInitiateHandler(t *testing.T, caller *fakeCaller, ttsP *fakeTTS) InitiateCallHandler {
	t.Helper()
	h := InitiateCallHandler{
		Config:   testConfig(),
		Sessions: sessions.NewStore(0),
		Audio:    testAudioStore(t),
		Hub:      events.NewHub(),
		Logger:   testLogger(),
	}
	if caller != nil {
		h.Caller = caller
	}
	if ttsP != nil {
		h.TTS = ttsP
	}
	return h
}

func postInitiate(h InitiateCallHandler, phone string) *httptest.ResponseRecorder {
	body := ""
	if phone != "" {
		body = "phone_number=" + phone
	}
	req := httptest.NewRequest("POST", "/initiate-call", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestInitiateCallSuccess(t *testing.T) {
	caller := &fakeCaller{configured: true}
	h := newInitiateHandler(t, caller, &fakeTTS{audio: []byte("wav")})

	rec := postInitiate(h, "%2B911234567890")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp struct {
		Success   bool   `json:"success"`
		CallSID   string `json:"call_sid"`
		SessionID string `json:"session_id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !resp.Success || resp.CallSID != "CA123" || resp.SessionID == "" {
		t.Fatalf("resp = %+v", resp)
	}

	if !caller.lastOpts.MachineDetection {
		t.Error("machine detection not requested")
	}
	if !strings.Contains(caller.lastOpts.WebhookURL, "session_id="+resp.SessionID) {
		t.Errorf("webhook url = %q", caller.lastOpts.WebhookURL)
	}
	if !strings.Contains(caller.lastOpts.StatusCallbackURL, "/call-status") {
		t.Errorf("status callback url = %q", caller.lastOpts.StatusCallbackURL)
	}

	sess, ok := h.Sessions.Get(resp.SessionID)
	if !ok {
		t.Fatal("session not registered")
	}
	sess.Lock()
	defer sess.Unlock()
	if sess.State != interview.StateInterestCheck {
		t.Errorf("state = %q, want interest_check after the opening turn", sess.State)
	}
	if sess.LastAudioURL == "" {
		t.Error("opening audio not pre-generated")
	}
}

func TestInitiateCallMissingPhone(t *testing.T) {
	h := newInitiateHandler(t, &fakeCaller{configured: true}, nil)

	rec := postInitiate(h, "")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var env apierror.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if env.Error == nil || env.Error.Type != apierror.ErrInvalidRequest {
		t.Fatalf("envelope = %+v", env)
	}
}

func TestInitiateCallTelephonyUnconfigured(t *testing.T) {
	h := newInitiateHandler(t, &fakeCaller{configured: false}, nil)

	rec := postInitiate(h, "%2B911234567890")

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	var env apierror.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if env.Error == nil || env.Error.Type != apierror.ErrConfigurationMissing {
		t.Fatalf("envelope = %+v", env)
	}
	if h.Sessions.Count() != 0 {
		t.Error("no session should be created before dialing is possible")
	}
}

func TestInitiateCallPlacementFailureRollsBack(t *testing.T) {
	h := newInitiateHandler(t, &fakeCaller{configured: true, err: errUpstream}, nil)

	rec := postInitiate(h, "%2B911234567890")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Success || resp.Error == "" {
		t.Fatalf("resp = %+v", resp)
	}
	if h.Sessions.Count() != 0 {
		t.Error("failed placement must evict the session")
	}
}

func TestInitiateCallRejectsGet(t *testing.T) {
	h := newInitiateHandler(t, &fakeCaller{configured: true}, nil)

	req := httptest.NewRequest("GET", "/initiate-call", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
