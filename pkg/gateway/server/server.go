package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/futuresoft-ai/riya/pkg/audiostore"
	"github.com/futuresoft-ai/riya/pkg/gateway/config"
	"github.com/futuresoft-ai/riya/pkg/gateway/events"
	"github.com/futuresoft-ai/riya/pkg/gateway/handlers"
	"github.com/futuresoft-ai/riya/pkg/gateway/mw"
	"github.com/futuresoft-ai/riya/pkg/sessions"
	"github.com/futuresoft-ai/riya/pkg/telephony"
	"github.com/futuresoft-ai/riya/pkg/voice/stt"
	"github.com/futuresoft-ai/riya/pkg/voice/tts"
)

type Server struct {
	cfg    config.Config
	logger *slog.Logger
	mux    *http.ServeMux

	sessions *sessions.Store
	audio    *audiostore.Store
	hub      *events.Hub

	sttProvider stt.Provider
	ttsProvider tts.Provider
	caller      telephony.Caller

	httpClient *http.Client
}

func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}

	httpClient := &http.Client{
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout: 10 * time.Second,
			}).DialContext,
			ForceAttemptHTTP2:     true,
			MaxIdleConns:          100,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		},
	}

	audio, err := audiostore.New(cfg.AudioDir)
	if err != nil {
		return nil, fmt.Errorf("audio store: %w", err)
	}

	s := &Server{
		cfg:    cfg,
		logger: logger,
		mux:    http.NewServeMux(),

		sessions: sessions.NewStore(cfg.SessionTTL),
		audio:    audio,
		hub:      events.NewHub(),

		httpClient: httpClient,
		caller:     telephony.NewTwilioWithClient(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber, httpClient),
	}

	// Providers without keys stay nil: the turn pipeline degrades instead
	// of sending unauthenticated upstream calls.
	if cfg.AssemblyAIAPIKey != "" {
		s.sttProvider = stt.NewAssemblyAIWithClient(cfg.AssemblyAIAPIKey, httpClient)
	}
	if cfg.CambAPIKey != "" {
		s.ttsProvider = tts.NewCambWithClient(cfg.CambAPIKey, httpClient)
	}

	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.mux.Handle("/healthz", handlers.HealthHandler{})
	s.mux.Handle("/readyz", handlers.ReadyHandler{Config: s.cfg})

	s.mux.Handle("GET /{$}", handlers.DashboardHandler{})
	s.mux.Handle("GET /dashboard", handlers.DashboardHandler{})
	s.mux.Handle("GET /ws/events", handlers.EventsHandler{Hub: s.hub, Logger: s.logger})

	s.mux.Handle("/initiate-call", handlers.InitiateCallHandler{
		Config:   s.cfg,
		Sessions: s.sessions,
		TTS:      s.ttsProvider,
		Audio:    s.audio,
		Caller:   s.caller,
		Hub:      s.hub,
		Logger:   s.logger,
	})
	s.mux.Handle("POST /twilio-webhook", handlers.WebhookHandler{
		Config:          s.cfg,
		Sessions:        s.sessions,
		STT:             s.sttProvider,
		TTS:             s.ttsProvider,
		Audio:           s.audio,
		Hub:             s.hub,
		Logger:          s.logger,
		RecordingClient: s.httpClient,
	})
	s.mux.Handle("POST /call-status", handlers.CallStatusHandler{
		Sessions: s.sessions,
		Hub:      s.hub,
		Logger:   s.logger,
	})
	s.mux.Handle("GET /audio/{id}", handlers.AudioHandler{Store: s.audio})
}

func (s *Server) Handler() http.Handler {
	var h http.Handler = s.mux
	h = mw.CORS(s.cfg, h)
	h = mw.Recover(s.logger, h)
	h = mw.AccessLog(s.logger, h)
	h = mw.RequestID(h)
	return h
}

// StartJanitors launches the session and audio sweepers; they stop when ctx
// is cancelled.
func (s *Server) StartJanitors(ctx context.Context) {
	s.sessions.StartJanitor(ctx, s.cfg.JanitorInterval)
	s.audio.StartJanitor(ctx, s.cfg.JanitorInterval, s.cfg.AudioTTL)
}

// Sessions exposes the session registry, mainly for tests.
func (s *Server) Sessions() *sessions.Store {
	return s.sessions
}
