package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Addr string

	// PublicURL is the externally reachable base URL Twilio uses to hit the
	// webhook and fetch generated audio.
	PublicURL string

	// Telephony credentials. May be empty: call initiation then reports a
	// structured configuration error instead of dialing.
	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromNumber string

	// Upstream provider keys.
	AssemblyAIAPIKey string
	CambAPIKey       string

	// Fixed voice/model configuration for the screening agent.
	TTSVoiceID     int
	TTSSpeechModel string
	TTSLanguage    string
	STTModel       string
	STTLanguage    string

	// Per-turn upstream budgets. A blown budget degrades the turn (empty
	// transcript, native-voice fallback); it never fails the webhook.
	RecordingFetchTimeout time.Duration
	TranscriptionTimeout  time.Duration
	SynthesisTimeout      time.Duration

	// Recording directive parameters.
	RecordMaxLengthSec      int
	RecordInitialTimeoutSec int

	// Housekeeping.
	SessionTTL      time.Duration
	AudioTTL        time.Duration
	JanitorInterval time.Duration
	AudioDir        string

	// CORS
	CORSAllowedOrigins map[string]struct{} // empty => disabled

	// Operational defaults
	ReadHeaderTimeout   time.Duration
	ReadTimeout         time.Duration
	ShutdownGracePeriod time.Duration
}

func LoadFromEnv() (Config, error) {
	cfg := Config{
		Addr:                    envOr("RIYA_ADDR", ":8000"),
		PublicURL:               strings.TrimSuffix(envOr("RIYA_PUBLIC_URL", "http://localhost:8000"), "/"),
		TwilioAccountSID:        os.Getenv("RIYA_TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:         os.Getenv("RIYA_TWILIO_AUTH_TOKEN"),
		TwilioFromNumber:        os.Getenv("RIYA_TWILIO_PHONE_NUMBER"),
		AssemblyAIAPIKey:        os.Getenv("RIYA_ASSEMBLYAI_API_KEY"),
		CambAPIKey:              os.Getenv("RIYA_CAMB_API_KEY"),
		TTSVoiceID:              envIntOr("RIYA_TTS_VOICE_ID", 147320),
		TTSSpeechModel:          envOr("RIYA_TTS_SPEECH_MODEL", "mars-flash"),
		TTSLanguage:             envOr("RIYA_TTS_LANGUAGE", "en-us"),
		STTModel:                envOr("RIYA_STT_MODEL", "universal"),
		STTLanguage:             envOr("RIYA_STT_LANGUAGE", "en_us"),
		RecordingFetchTimeout:   envDurationOr("RIYA_RECORDING_FETCH_TIMEOUT", 30*time.Second),
		TranscriptionTimeout:    envDurationOr("RIYA_TRANSCRIPTION_TIMEOUT", 60*time.Second),
		SynthesisTimeout:        envDurationOr("RIYA_SYNTHESIS_TIMEOUT", 60*time.Second),
		RecordMaxLengthSec:      envIntOr("RIYA_RECORD_MAX_LENGTH_SEC", 60),
		RecordInitialTimeoutSec: envIntOr("RIYA_RECORD_TIMEOUT_SEC", 5),
		SessionTTL:              envDurationOr("RIYA_SESSION_TTL", 30*time.Minute),
		AudioTTL:                envDurationOr("RIYA_AUDIO_TTL", time.Hour),
		JanitorInterval:         envDurationOr("RIYA_JANITOR_INTERVAL", time.Minute),
		AudioDir:                os.Getenv("RIYA_AUDIO_DIR"),
		CORSAllowedOrigins:      make(map[string]struct{}),
		ReadHeaderTimeout:       envDurationOr("RIYA_READ_HEADER_TIMEOUT", 10*time.Second),
		ReadTimeout:             envDurationOr("RIYA_READ_TIMEOUT", 30*time.Second),
		ShutdownGracePeriod:     envDurationOr("RIYA_SHUTDOWN_GRACE_PERIOD", 30*time.Second),
	}

	for _, origin := range splitCSV(os.Getenv("RIYA_CORS_ORIGINS")) {
		cfg.CORSAllowedOrigins[origin] = struct{}{}
	}

	if strings.TrimSpace(cfg.PublicURL) == "" {
		return Config{}, fmt.Errorf("RIYA_PUBLIC_URL must not be empty")
	}
	if cfg.TTSVoiceID <= 0 {
		return Config{}, fmt.Errorf("RIYA_TTS_VOICE_ID must be > 0")
	}
	if strings.TrimSpace(cfg.TTSSpeechModel) == "" {
		return Config{}, fmt.Errorf("RIYA_TTS_SPEECH_MODEL must not be empty")
	}
	if strings.TrimSpace(cfg.STTModel) == "" {
		return Config{}, fmt.Errorf("RIYA_STT_MODEL must not be empty")
	}
	if cfg.RecordingFetchTimeout <= 0 {
		return Config{}, fmt.Errorf("RIYA_RECORDING_FETCH_TIMEOUT must be > 0")
	}
	if cfg.TranscriptionTimeout <= 0 {
		return Config{}, fmt.Errorf("RIYA_TRANSCRIPTION_TIMEOUT must be > 0")
	}
	if cfg.SynthesisTimeout <= 0 {
		return Config{}, fmt.Errorf("RIYA_SYNTHESIS_TIMEOUT must be > 0")
	}
	if cfg.RecordMaxLengthSec <= 0 {
		return Config{}, fmt.Errorf("RIYA_RECORD_MAX_LENGTH_SEC must be > 0")
	}
	if cfg.RecordInitialTimeoutSec <= 0 {
		return Config{}, fmt.Errorf("RIYA_RECORD_TIMEOUT_SEC must be > 0")
	}
	if cfg.SessionTTL < 0 {
		return Config{}, fmt.Errorf("RIYA_SESSION_TTL must be >= 0")
	}
	if cfg.AudioTTL < 0 {
		return Config{}, fmt.Errorf("RIYA_AUDIO_TTL must be >= 0")
	}
	if cfg.JanitorInterval <= 0 {
		return Config{}, fmt.Errorf("RIYA_JANITOR_INTERVAL must be > 0")
	}
	if cfg.ReadHeaderTimeout <= 0 {
		return Config{}, fmt.Errorf("RIYA_READ_HEADER_TIMEOUT must be > 0")
	}
	if cfg.ReadTimeout <= 0 {
		return Config{}, fmt.Errorf("RIYA_READ_TIMEOUT must be > 0")
	}
	if cfg.ShutdownGracePeriod <= 0 {
		return Config{}, fmt.Errorf("RIYA_SHUTDOWN_GRACE_PERIOD must be > 0")
	}

	return cfg, nil
}

// TelephonyConfigured reports whether outbound dialing credentials are set.
func (c Config) TelephonyConfigured() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != "" && c.TwilioFromNumber != ""
}

// WebhookURL builds the turn webhook URL for a session.
func (c Config) WebhookURL(sessionID string) string {
	return c.PublicURL + "/twilio-webhook?session_id=" + sessionID
}

// StatusCallbackURL builds the call-status callback URL for a session.
func (c Config) StatusCallbackURL(sessionID string) string {
	return c.PublicURL + "/call-status?session_id=" + sessionID
}

// AudioURL builds the public URL for a generated audio artifact.
func (c Config) AudioURL(audioID string) string {
	return c.PublicURL + "/audio/" + audioID
}

func envOr(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func envIntOr(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

func envDurationOr(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return def
	}
	return d
}

func splitCSV(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
