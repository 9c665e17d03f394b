package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const cambBaseURL = "https://client.camb.ai/apis"

// Voice defaults for the screening agent.
const (
	DefaultVoiceID     = 147320
	DefaultSpeechModel = "mars-flash"
	DefaultLanguage    = "en-us"
)

// CambProvider implements the TTS Provider interface using CambAI's
// streaming synthesis API.
type CambProvider struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
}

// NewCamb creates a new CambAI TTS provider.
func NewCamb(apiKey string) *CambProvider {
	return NewCambWithClient(apiKey, &http.Client{})
}

// NewCambWithClient creates a new CambAI TTS provider with a custom HTTP client.
func NewCambWithClient(apiKey string, client *http.Client) *CambProvider {
	if client == nil {
		client = &http.Client{}
	}
	return &CambProvider{
		apiKey:     strings.TrimSpace(apiKey),
		httpClient: client,
		baseURL:    cambBaseURL,
	}
}

// WithBaseURL overrides the API base URL.
func (c *CambProvider) WithBaseURL(base string) *CambProvider {
	if c == nil {
		return c
	}
	base = strings.TrimSpace(base)
	if base != "" {
		c.baseURL = strings.TrimSuffix(base, "/")
	}
	return c
}

// Name returns the provider identifier.
func (c *CambProvider) Name() string {
	return "camb"
}

type cambTTSRequest struct {
	Text        string `json:"text"`
	Language    string `json:"language"`
	VoiceID     int    `json:"voice_id"`
	SpeechModel string `json:"speech_model"`
}

// Synthesize converts text to audio using CambAI's tts-stream endpoint.
func (c *CambProvider) Synthesize(ctx context.Context, text string, opts SynthesizeOptions) (*Synthesis, error) {
	if c == nil || c.apiKey == "" {
		return nil, fmt.Errorf("camb api key is required")
	}

	reqBody := cambTTSRequest{
		Text:        text,
		Language:    opts.Language,
		VoiceID:     opts.VoiceID,
		SpeechModel: opts.SpeechModel,
	}
	if reqBody.Language == "" {
		reqBody.Language = DefaultLanguage
	}
	if reqBody.VoiceID == 0 {
		reqBody.VoiceID = DefaultVoiceID
	}
	if reqBody.SpeechModel == "" {
		reqBody.SpeechModel = DefaultSpeechModel
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/tts-stream", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("camb request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("camb error %d: %s", resp.StatusCode, string(errBody))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read audio: %w", err)
	}
	return &Synthesis{Audio: audio, Format: "wav"}, nil
}
