package stt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const assemblyAIBaseURL = "https://api.assemblyai.com"

// AssemblyAIProvider implements the STT Provider interface using
// AssemblyAI's async transcription API: upload the audio, create a
// transcript job, then poll it to completion.
type AssemblyAIProvider struct {
	apiKey       string
	httpClient   *http.Client
	baseURL      string
	pollInterval time.Duration
}

// NewAssemblyAI creates a new AssemblyAI STT provider.
func NewAssemblyAI(apiKey string) *AssemblyAIProvider {
	return NewAssemblyAIWithClient(apiKey, &http.Client{})
}

// NewAssemblyAIWithClient creates a new AssemblyAI STT provider with a
// custom HTTP client.
func NewAssemblyAIWithClient(apiKey string, client *http.Client) *AssemblyAIProvider {
	if client == nil {
		client = &http.Client{}
	}
	return &AssemblyAIProvider{
		apiKey:       strings.TrimSpace(apiKey),
		httpClient:   client,
		baseURL:      assemblyAIBaseURL,
		pollInterval: time.Second,
	}
}

// WithBaseURL overrides the API base URL.
func (a *AssemblyAIProvider) WithBaseURL(base string) *AssemblyAIProvider {
	if a == nil {
		return a
	}
	base = strings.TrimSpace(base)
	if base != "" {
		a.baseURL = strings.TrimSuffix(base, "/")
	}
	return a
}

// WithPollInterval overrides the transcript poll interval.
func (a *AssemblyAIProvider) WithPollInterval(d time.Duration) *AssemblyAIProvider {
	if a != nil && d > 0 {
		a.pollInterval = d
	}
	return a
}

// Name returns the provider identifier.
func (a *AssemblyAIProvider) Name() string {
	return "assemblyai"
}

// Transcribe converts audio to text using AssemblyAI.
func (a *AssemblyAIProvider) Transcribe(ctx context.Context, audio io.Reader, opts TranscribeOptions) (*Transcript, error) {
	if a == nil || a.apiKey == "" {
		return nil, fmt.Errorf("assemblyai api key is required")
	}

	audioURL, err := a.upload(ctx, audio)
	if err != nil {
		return nil, err
	}

	id, err := a.createTranscript(ctx, audioURL, opts)
	if err != nil {
		return nil, err
	}

	return a.poll(ctx, id)
}

func (a *AssemblyAIProvider) upload(ctx context.Context, audio io.Reader) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "POST", a.baseURL+"/v2/upload", audio)
	if err != nil {
		return "", fmt.Errorf("create upload request: %w", err)
	}
	req.Header.Set("Authorization", a.apiKey)
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("assemblyai upload: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("assemblyai upload error %d: %s", resp.StatusCode, string(body))
	}

	var out struct {
		UploadURL string `json:"upload_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("parse upload response: %w", err)
	}
	if out.UploadURL == "" {
		return "", fmt.Errorf("assemblyai upload returned no url")
	}
	return out.UploadURL, nil
}

type assemblyAITranscript struct {
	ID       string   `json:"id"`
	Status   string   `json:"status"`
	Text     string   `json:"text"`
	Language string   `json:"language_code"`
	Duration *float64 `json:"audio_duration"`
	Error    string   `json:"error"`
}

func (a *AssemblyAIProvider) createTranscript(ctx context.Context, audioURL string, opts TranscribeOptions) (string, error) {
	model := opts.Model
	if model == "" {
		model = "universal"
	}
	language := opts.Language
	if language == "" {
		language = "en_us"
	}

	body, err := json.Marshal(map[string]any{
		"audio_url":     audioURL,
		"speech_model":  model,
		"language_code": language,
	})
	if err != nil {
		return "", fmt.Errorf("marshal transcript request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", a.baseURL+"/v2/transcript", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create transcript request: %w", err)
	}
	req.Header.Set("Authorization", a.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("assemblyai transcript: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("assemblyai transcript error %d: %s", resp.StatusCode, string(errBody))
	}

	var out assemblyAITranscript
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("parse transcript response: %w", err)
	}
	if out.ID == "" {
		return "", fmt.Errorf("assemblyai transcript returned no id")
	}
	return out.ID, nil
}

func (a *AssemblyAIProvider) poll(ctx context.Context, id string) (*Transcript, error) {
	for {
		req, err := http.NewRequestWithContext(ctx, "GET", a.baseURL+"/v2/transcript/"+id, nil)
		if err != nil {
			return nil, fmt.Errorf("create poll request: %w", err)
		}
		req.Header.Set("Authorization", a.apiKey)

		resp, err := a.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("assemblyai poll: %w", err)
		}

		var out assemblyAITranscript
		decodeErr := json.NewDecoder(resp.Body).Decode(&out)
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("assemblyai poll error %d", resp.StatusCode)
		}
		if decodeErr != nil {
			return nil, fmt.Errorf("parse poll response: %w", decodeErr)
		}

		switch out.Status {
		case "completed":
			tr := &Transcript{Text: out.Text, Language: out.Language}
			if out.Duration != nil {
				tr.Duration = *out.Duration
			}
			return tr, nil
		case "error":
			return nil, fmt.Errorf("assemblyai transcription failed: %s", out.Error)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(a.pollInterval):
		}
	}
}
