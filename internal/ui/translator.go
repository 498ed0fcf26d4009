package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"wandergenie/internal/flow"
	"wandergenie/internal/types"
)

// Status is the translator's recording-session state.
type Status string

const (
	StatusIdle         Status = "idle"
	StatusRecording    Status = "recording"
	StatusTranscribing Status = "transcribing"
	StatusTranslating  Status = "translating"
	StatusSpeaking     Status = "speaking"
	StatusError        Status = "error"
)

// DefaultErrorResetDelay is how long the error status is shown.
const DefaultErrorResetDelay = 4 * time.Second

// Environment failures reported by the client's capture layer.
const (
	EnvNoSpeech     = "no-speech"
	EnvNotAllowed   = "not-allowed"
	EnvNotSupported = "not-supported"
)

type Interpreter interface {
	Transcribe(ctx context.Context, req types.TranscriptionRequest) (types.TranscriptionResponse, error)
	TranslateAndSpeak(ctx context.Context, req types.TranslationRequest) (types.TranslationResponse, error)
}

type TranslatorSnapshot struct {
	Status          Status  `json:"status"`
	StatusText      string  `json:"statusText"`
	TargetLanguage  string  `json:"targetLanguage"`
	TranscribedText string  `json:"transcribedText,omitempty"`
	TranslatedText  string  `json:"translatedText,omitempty"`
	AudioDataURI    string  `json:"audioDataUri,omitempty"`
	Notice          *Notice `json:"notice,omitempty"`
}

// TranslatorView drives idle -> recording -> transcribing -> translating ->
// speaking. Any failure enters error and returns to idle after the reset
// delay. Every status change is published to subscribers.
type TranslatorView struct {
	flows      Interpreter
	resetDelay time.Duration

	mu         sync.Mutex
	snap       TranslatorSnapshot
	resetTimer *time.Timer
	subs       map[int]chan TranslatorSnapshot
	nextSub    int
	closed     bool
}

func NewTranslatorView(flows Interpreter, resetDelay time.Duration) *TranslatorView {
	if resetDelay <= 0 {
		resetDelay = DefaultErrorResetDelay
	}
	v := &TranslatorView{
		flows:      flows,
		resetDelay: resetDelay,
		subs:       make(map[int]chan TranslatorSnapshot),
	}
	v.snap = TranslatorSnapshot{Status: StatusIdle, TargetLanguage: types.DefaultTargetLanguage}
	v.snap.StatusText = statusText(StatusIdle, v.snap.TargetLanguage)
	return v
}

func (v *TranslatorView) Snapshot() TranslatorSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.snap
}

// SetTargetLanguage picks one of the supported languages by name.
func (v *TranslatorView) SetTargetLanguage(name string) error {
	lang, ok := types.LookupLanguage(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownLanguage, name)
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return ErrClosed
	}
	v.snap.TargetLanguage = lang.Name
	v.setLocked(v.snap.Status)
	return nil
}

// StartRecording is allowed from idle, error and speaking.
func (v *TranslatorView) StartRecording() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return ErrClosed
	}
	switch v.snap.Status {
	case StatusIdle, StatusError, StatusSpeaking:
	default:
		return ErrBusy
	}
	v.stopResetLocked()
	v.snap.Notice = nil
	v.snap.TranscribedText, v.snap.TranslatedText, v.snap.AudioDataURI = "", "", ""
	v.setLocked(StatusRecording)
	return nil
}

// CancelRecording drops the capture without sending any audio.
func (v *TranslatorView) CancelRecording() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.snap.Status != StatusRecording {
		return ErrInvalidTransition
	}
	v.setLocked(StatusIdle)
	return nil
}

// StopRecording ends the capture and runs transcription, translation and
// speech on the recorded audio.
func (v *TranslatorView) StopRecording(ctx context.Context, audioDataURI string) (TranslatorSnapshot, error) {
	lang, err := v.begin(StatusTranscribing, StatusRecording)
	if err != nil {
		return TranslatorSnapshot{}, err
	}
	tr, err := v.flows.Transcribe(ctx, types.TranscriptionRequest{AudioDataURI: audioDataURI})
	if err != nil {
		return v.fail("Speech recognition failed", err)
	}
	v.mu.Lock()
	v.snap.TranscribedText = tr.Transcription
	v.setLocked(StatusTranslating)
	v.mu.Unlock()
	return v.translate(ctx, tr.Transcription, lang)
}

// TranslateText runs translate-and-speak on text recognised by the client.
func (v *TranslatorView) TranslateText(ctx context.Context, text string) (TranslatorSnapshot, error) {
	lang, err := v.begin(StatusTranslating, StatusIdle, StatusRecording, StatusError, StatusSpeaking)
	if err != nil {
		return TranslatorSnapshot{}, err
	}
	v.mu.Lock()
	v.snap.TranscribedText = strings.TrimSpace(text)
	v.mu.Unlock()
	return v.translate(ctx, text, lang)
}

func (v *TranslatorView) translate(ctx context.Context, text, lang string) (TranslatorSnapshot, error) {
	resp, err := v.flows.TranslateAndSpeak(ctx, types.TranslationRequest{Text: text, TargetLanguage: lang})
	if err != nil {
		return v.fail("Translation/TTS Failed", err)
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.snap.TranslatedText = resp.TranslatedText
	v.snap.AudioDataURI = resp.AudioDataURI
	v.setLocked(StatusSpeaking)
	return v.snap, nil
}

// ReportEnvironmentError records a capture-side failure such as a denied
// microphone and enters the error status.
func (v *TranslatorView) ReportEnvironmentError(kind, message string) TranslatorSnapshot {
	n := environmentNotice(kind, message)
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return v.snap
	}
	v.failLocked(n)
	return v.snap
}

func environmentNotice(kind, message string) *Notice {
	switch strings.TrimSpace(kind) {
	case EnvNoSpeech:
		return &Notice{Title: "No Speech Detected", Description: "I didn't hear anything. Please make sure your microphone is working and try speaking again."}
	case EnvNotAllowed:
		return &Notice{Title: "Microphone Access Denied", Description: "Please allow microphone access in your browser settings to use the translator."}
	case EnvNotSupported:
		return &Notice{Title: "Browser Not Supported", Description: "Speech recognition is not supported in this browser."}
	}
	desc := strings.TrimSpace(message)
	if desc == "" {
		desc = "An unknown error occurred. Please try again."
	}
	return &Notice{Title: "Could not access microphone", Description: desc}
}

// begin moves to next if the current status is one of from.
func (v *TranslatorView) begin(next Status, from ...Status) (string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return "", ErrClosed
	}
	for _, s := range from {
		if v.snap.Status == s {
			v.stopResetLocked()
			v.snap.Notice = nil
			v.snap.TranslatedText, v.snap.AudioDataURI = "", ""
			v.setLocked(next)
			return v.snap.TargetLanguage, nil
		}
	}
	if v.snap.Status == StatusRecording || v.snap.Status == StatusTranscribing || v.snap.Status == StatusTranslating {
		return "", ErrBusy
	}
	return "", ErrInvalidTransition
}

func (v *TranslatorView) fail(title string, err error) (TranslatorSnapshot, error) {
	n := NoticeFor(title, err)
	if !errors.Is(err, flow.ErrInvalidInput) && n.Description == GenericFailure {
		n.Description = "An unknown error occurred. Please try again."
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.failLocked(n)
	return v.snap, err
}

func (v *TranslatorView) failLocked(n *Notice) {
	v.snap.Notice = n
	v.setLocked(StatusError)
	v.stopResetLocked()
	if v.closed {
		return
	}
	v.resetTimer = time.AfterFunc(v.resetDelay, v.resetToIdle)
}

func (v *TranslatorView) resetToIdle() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed || v.snap.Status != StatusError {
		return
	}
	v.resetTimer = nil
	v.setLocked(StatusIdle)
}

func (v *TranslatorView) stopResetLocked() {
	if v.resetTimer != nil {
		v.resetTimer.Stop()
		v.resetTimer = nil
	}
}

func (v *TranslatorView) setLocked(s Status) {
	v.snap.Status = s
	v.snap.StatusText = statusText(s, v.snap.TargetLanguage)
	for _, ch := range v.subs {
		select {
		case ch <- v.snap:
		default:
		}
	}
}

// Subscribe streams snapshots, starting with the current one. Slow
// readers miss intermediate states. Call cancel when done.
func (v *TranslatorView) Subscribe() (<-chan TranslatorSnapshot, func()) {
	ch := make(chan TranslatorSnapshot, 8)
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		close(ch)
		return ch, func() {}
	}
	id := v.nextSub
	v.nextSub++
	v.subs[id] = ch
	ch <- v.snap
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			v.mu.Lock()
			defer v.mu.Unlock()
			if c, ok := v.subs[id]; ok {
				delete(v.subs, id)
				close(c)
			}
		})
	}
}

// Close stops the reset timer and ends every subscription.
func (v *TranslatorView) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.closed = true
	v.stopResetLocked()
	for id, ch := range v.subs {
		delete(v.subs, id)
		close(ch)
	}
}

func statusText(s Status, lang string) string {
	switch s {
	case StatusRecording:
		return "Recording your voice..."
	case StatusTranscribing:
		return "Transcribing speech to text..."
	case StatusTranslating:
		return "Translating to " + lang + "..."
	case StatusSpeaking:
		return "Translation complete! Ready to play."
	case StatusError:
		return "An error occurred. Please try again."
	default:
		return "Ready to translate your voice."
	}
}
