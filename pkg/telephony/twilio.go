package telephony

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const twilioBaseURL = "https://api.twilio.com"

// Caller places outbound calls.
type Caller interface {
	// Name returns the provider identifier.
	Name() string

	// Configured reports whether credentials are present.
	Configured() bool

	// PlaceCall dials an outbound call that will drive its dialogue
	// through the given webhook.
	PlaceCall(ctx context.Context, opts CallOptions) (*Call, error)
}

// CallOptions configures an outbound call.
type CallOptions struct {
	To                string // Destination number, E.164
	WebhookURL        string // TwiML webhook driving the call
	StatusCallbackURL string // Receives terminal call status
	MachineDetection  bool   // Enable answering machine detection
}

// Call is a placed outbound call.
type Call struct {
	SID    string // Provider call identifier
	Status string // Initial call status (e.g. "queued")
}

// TwilioCaller implements Caller against the Twilio REST API.
type TwilioCaller struct {
	accountSID string
	authToken  string
	from       string
	httpClient *http.Client
	baseURL    string
}

// NewTwilio creates a Twilio caller. Empty credentials yield an
// unconfigured caller; Configured() lets the gateway surface that as a
// structured error instead of failing the request mid-flight.
func NewTwilio(accountSID, authToken, from string) *TwilioCaller {
	return NewTwilioWithClient(accountSID, authToken, from, &http.Client{})
}

// NewTwilioWithClient creates a Twilio caller with a custom HTTP client.
func NewTwilioWithClient(accountSID, authToken, from string, client *http.Client) *TwilioCaller {
	if client == nil {
		client = &http.Client{}
	}
	return &TwilioCaller{
		accountSID: strings.TrimSpace(accountSID),
		authToken:  strings.TrimSpace(authToken),
		from:       strings.TrimSpace(from),
		httpClient: client,
		baseURL:    twilioBaseURL,
	}
}

// WithBaseURL overrides the API base URL.
func (t *TwilioCaller) WithBaseURL(base string) *TwilioCaller {
	if t == nil {
		return t
	}
	base = strings.TrimSpace(base)
	if base != "" {
		t.baseURL = strings.TrimSuffix(base, "/")
	}
	return t
}

// Name returns the provider identifier.
func (t *TwilioCaller) Name() string {
	return "twilio"
}

// Configured reports whether account credentials and a from number are set.
func (t *TwilioCaller) Configured() bool {
	return t != nil && t.accountSID != "" && t.authToken != "" && t.from != ""
}

// PlaceCall dials opts.To via the Twilio Calls API.
func (t *TwilioCaller) PlaceCall(ctx context.Context, opts CallOptions) (*Call, error) {
	if !t.Configured() {
		return nil, fmt.Errorf("twilio is not configured")
	}

	form := url.Values{}
	form.Set("To", opts.To)
	form.Set("From", t.from)
	form.Set("Url", opts.WebhookURL)
	if opts.StatusCallbackURL != "" {
		form.Set("StatusCallback", opts.StatusCallbackURL)
		form.Add("StatusCallbackEvent", "answered")
		form.Add("StatusCallbackEvent", "completed")
	}
	if opts.MachineDetection {
		form.Set("MachineDetection", "Enable")
	}

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Calls.json", t.baseURL, url.PathEscape(t.accountSID))
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.SetBasicAuth(t.accountSID, t.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("twilio request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("twilio error %d: %s", resp.StatusCode, string(body))
	}

	var out struct {
		SID    string `json:"sid"`
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	return &Call{SID: out.SID, Status: out.Status}, nil
}

// Terminal call statuses reported by the status callback.
const (
	CallStatusCompleted = "completed"
	CallStatusBusy      = "busy"
	CallStatusFailed    = "failed"
	CallStatusNoAnswer  = "no-answer"
	CallStatusCanceled  = "canceled"
)

// TerminalStatus reports whether a callback status ends the call.
func TerminalStatus(status string) bool {
	switch status {
	case CallStatusCompleted, CallStatusBusy, CallStatusFailed, CallStatusNoAnswer, CallStatusCanceled:
		return true
	}
	return false
}
