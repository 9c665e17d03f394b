package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/futuresoft-ai/riya/pkg/audiostore"
	"github.com/futuresoft-ai/riya/pkg/gateway/config"
	"github.com/futuresoft-ai/riya/pkg/telephony"
	"github.com/futuresoft-ai/riya/pkg/voice/stt"
	"github.com/futuresoft-ai/riya/pkg/voice/tts"
)

func testConfig() config.Config {
	return config.Config{
		Addr:                    ":8000",
		PublicURL:               "http://gw.test",
		TTSVoiceID:              147320,
		TTSSpeechModel:          "mars-flash",
		TTSLanguage:             "en-us",
		STTModel:                "universal",
		STTLanguage:             "en_us",
		RecordingFetchTimeout:   5 * time.Second,
		TranscriptionTimeout:    5 * time.Second,
		SynthesisTimeout:        5 * time.Second,
		RecordMaxLengthSec:      60,
		RecordInitialTimeoutSec: 5,
		SessionTTL:              30 * time.Minute,
		AudioTTL:                time.Hour,
		JanitorInterval:         time.Minute,
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func testAudioStore(t *testing.T) *audiostore.Store {
	t.Helper()
	store, err := audiostore.New(t.TempDir())
	if err != nil {
		t.Fatalf("audiostore.New: %v", err)
	}
	return store
}

type fakeSTT struct {
	text string
	err  error
}

func (f fakeSTT) Name() string { return "fake-stt" }

func (f fakeSTT) Transcribe(ctx context.Context, audio io.Reader, opts stt.TranscribeOptions) (*stt.Transcript, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &stt.Transcript{Text: f.text, Language: opts.Language}, nil
}

type fakeTTS struct {
	audio []byte
	err   error
	calls int
}

func (f *fakeTTS) Name() string { return "fake-tts" }

func (f *fakeTTS) Synthesize(ctx context.Context, text string, opts tts.SynthesizeOptions) (*tts.Synthesis, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &tts.Synthesis{Audio: f.audio, Format: "wav"}, nil
}

type fakeCaller struct {
	configured bool
	err        error
	lastOpts   telephony.CallOptions
}

func (f *fakeCaller) Name() string     { return "fake-caller" }
func (f *fakeCaller) Configured() bool { return f.configured }

func (f *fakeCaller) PlaceCall(ctx context.Context, opts telephony.CallOptions) (*telephony.Call, error) {
	f.lastOpts = opts
	if f.err != nil {
		return nil, f.err
	}
	return &telephony.Call{SID: "CA123", Status: "queued"}, nil
}

var errUpstream = errors.New("upstream unavailable")
