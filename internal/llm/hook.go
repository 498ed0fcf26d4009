package llm

import (
	"context"
	"encoding/json"
)

// PromptHook observes oracle traffic. Tests use it to capture prompts.
type PromptHook interface {
	Before(ctx context.Context, phase, prompt string, media []Media)
	After(ctx context.Context, phase string, raw json.RawMessage, err error)
}

type ctxKeyHook struct{}
type ctxKeyPhase struct{}

// WithHook attaches a PromptHook to ctx. It fires only when the oracle is
// wrapped with WithHooks.
func WithHook(ctx context.Context, hook PromptHook) context.Context {
	return context.WithValue(ctx, ctxKeyHook{}, hook)
}

func WithPhase(ctx context.Context, phase string) context.Context {
	return context.WithValue(ctx, ctxKeyPhase{}, phase)
}

// HookFrom returns the hook stored in the context.
func HookFrom(ctx context.Context) PromptHook {
	if v := ctx.Value(ctxKeyHook{}); v != nil {
		if h, ok := v.(PromptHook); ok {
			return h
		}
	}
	return nil
}

// PhaseFrom returns the phase string stored in the context, or "unknown".
func PhaseFrom(ctx context.Context) string {
	if v := ctx.Value(ctxKeyPhase{}); v != nil {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return "unknown"
}

// RecordingHook keeps every prompt and result it sees.
type RecordingHook struct {
	Prompts []string
	Phases  []string
	Errors  []error
}

func (h *RecordingHook) Before(_ context.Context, phase, prompt string, _ []Media) {
	h.Phases = append(h.Phases, phase)
	h.Prompts = append(h.Prompts, prompt)
}

func (h *RecordingHook) After(_ context.Context, _ string, _ json.RawMessage, err error) {
	h.Errors = append(h.Errors, err)
}
