package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/futuresoft-ai/riya/pkg/gateway/config"
)

type HealthHandler struct{}

func (h HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

type ReadyHandler struct {
	Config config.Config
}

func (h ReadyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	type readyResp struct {
		OK                  bool     `json:"ok"`
		TelephonyConfigured bool     `json:"telephony_configured"`
		Issues              []string `json:"issues,omitempty"`
	}

	issues := make([]string, 0, 4)
	if h.Config.PublicURL == "" {
		issues = append(issues, "public_url must not be empty")
	}
	if h.Config.AssemblyAIAPIKey == "" {
		issues = append(issues, "assemblyai api key not configured; transcription will degrade to empty transcripts")
	}
	if h.Config.CambAPIKey == "" {
		issues = append(issues, "camb api key not configured; prompts will use the telephony fallback voice")
	}
	if h.Config.RecordingFetchTimeout <= 0 || h.Config.SynthesisTimeout <= 0 {
		issues = append(issues, "upstream budgets must be > 0")
	}
	if h.Config.RecordMaxLengthSec <= 0 || h.Config.RecordInitialTimeoutSec <= 0 {
		issues = append(issues, "record directive parameters must be > 0")
	}

	// Degraded upstreams are survivable; only a broken webhook contract is not.
	ok := h.Config.PublicURL != "" &&
		h.Config.RecordingFetchTimeout > 0 && h.Config.SynthesisTimeout > 0 &&
		h.Config.RecordMaxLengthSec > 0 && h.Config.RecordInitialTimeoutSec > 0

	status := http.StatusOK
	if !ok {
		status = http.StatusInternalServerError
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(readyResp{
		OK:                  ok,
		TelephonyConfigured: h.Config.TelephonyConfigured(),
		Issues:              issues,
	})
}
