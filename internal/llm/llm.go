package llm

import (
	"context"
	"encoding/json"
	"errors"

	genai "google.golang.org/genai"
)

var (
	// ErrEmptyResult means the provider answered without usable content.
	ErrEmptyResult = errors.New("llm: empty result from model")
	// ErrInvalidJSON means the structured answer did not parse as JSON.
	ErrInvalidJSON = errors.New("llm: invalid JSON from model")
	// ErrCircuitOpen is returned without calling the provider while the
	// breaker considers it unhealthy.
	ErrCircuitOpen = errors.New("llm: circuit open")
)

// Media is an inline binary payload sent to or received from the model.
type Media struct {
	MIMEType string
	Data     []byte
}

// Call is one structured generation request.
type Call struct {
	// Phase names the template that produced Prompt ("itinerary", "chat", ...).
	Phase  string
	Prompt string
	// Schema constrains the JSON the model may return. Optional.
	Schema *genai.Schema
	Media  []Media
}

// Oracle is the only boundary to the generative model. Implementations make
// exactly one provider request per invocation.
type Oracle interface {
	GenerateJSON(ctx context.Context, call Call) (json.RawMessage, error)
	GenerateSpeech(ctx context.Context, text string) (Media, error)
}

// phaseOf prefers the call's own phase and falls back to the context tag.
func phaseOf(ctx context.Context, call Call) string {
	if call.Phase != "" {
		return call.Phase
	}
	return PhaseFrom(ctx)
}
