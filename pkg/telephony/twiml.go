// Package telephony integrates with the Twilio voice API: placing outbound
// calls and composing TwiML webhook responses.
package telephony

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// VoiceResponse accumulates TwiML verbs in the order they should execute.
type VoiceResponse struct {
	verbs []any
}

type playVerb struct {
	XMLName xml.Name `xml:"Play"`
	URL     string   `xml:",chardata"`
}

type sayVerb struct {
	XMLName  xml.Name `xml:"Say"`
	Voice    string   `xml:"voice,attr,omitempty"`
	Language string   `xml:"language,attr,omitempty"`
	Text     string   `xml:",chardata"`
}

type recordVerb struct {
	XMLName   xml.Name `xml:"Record"`
	Action    string   `xml:"action,attr,omitempty"`
	MaxLength int      `xml:"maxLength,attr,omitempty"`
	PlayBeep  bool     `xml:"playBeep,attr"`
	Trim      string   `xml:"trim,attr,omitempty"`
	Timeout   int      `xml:"timeout,attr,omitempty"`
}

type hangupVerb struct {
	XMLName xml.Name `xml:"Hangup"`
}

// Play queues playback of an audio URL.
func (v *VoiceResponse) Play(url string) *VoiceResponse {
	v.verbs = append(v.verbs, playVerb{URL: url})
	return v
}

// Say queues native speech rendering of text. Voice and language may be
// empty to use Twilio defaults.
func (v *VoiceResponse) Say(text, voice, language string) *VoiceResponse {
	v.verbs = append(v.verbs, sayVerb{Voice: voice, Language: language, Text: text})
	return v
}

// RecordOptions configures a Record verb.
type RecordOptions struct {
	Action    string // Webhook the recording is posted to
	MaxLength int    // Max recording length in seconds
	PlayBeep  bool
	Trim      string // e.g. "trim-silence"
	Timeout   int    // Initial silence timeout in seconds
}

// Record queues recording of the caller's next utterance.
func (v *VoiceResponse) Record(opts RecordOptions) *VoiceResponse {
	v.verbs = append(v.verbs, recordVerb{
		Action:    opts.Action,
		MaxLength: opts.MaxLength,
		PlayBeep:  opts.PlayBeep,
		Trim:      opts.Trim,
		Timeout:   opts.Timeout,
	})
	return v
}

// Hangup queues call termination.
func (v *VoiceResponse) Hangup() *VoiceResponse {
	v.verbs = append(v.verbs, hangupVerb{})
	return v
}

// XML renders the accumulated verbs as a TwiML document.
func (v *VoiceResponse) XML() (string, error) {
	var sb strings.Builder
	sb.WriteString(xml.Header)
	sb.WriteString("<Response>")
	for _, verb := range v.verbs {
		b, err := xml.Marshal(verb)
		if err != nil {
			return "", fmt.Errorf("marshal twiml verb: %w", err)
		}
		sb.Write(b)
	}
	sb.WriteString("</Response>")
	return sb.String(), nil
}
