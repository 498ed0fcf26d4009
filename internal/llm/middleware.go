package llm

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
)

// Middleware decorates an Oracle to inject cross-cutting concerns
// (timeouts, rate limiting, circuit breaking, logging, hooks).
type Middleware func(Oracle) Oracle

// Wrap applies middlewares in left-to-right order.
// Example: Wrap(inner, A, B) => A(B(inner))
func Wrap(inner Oracle, mws ...Middleware) Oracle {
	out := inner
	for i := len(mws) - 1; i >= 0; i-- {
		out = mws[i](out)
	}
	return out
}

// oracleFuncs adapts a pair of closures to Oracle so each middleware only
// spells out its wrapping logic.
type oracleFuncs struct {
	json   func(ctx context.Context, call Call) (json.RawMessage, error)
	speech func(ctx context.Context, text string) (Media, error)
}

func (o oracleFuncs) GenerateJSON(ctx context.Context, call Call) (json.RawMessage, error) {
	return o.json(ctx, call)
}

func (o oracleFuncs) GenerateSpeech(ctx context.Context, text string) (Media, error) {
	return o.speech(ctx, text)
}

// -------- Timeout --------

// WithTimeout bounds every call. d <= 0 disables it.
func WithTimeout(d time.Duration) Middleware {
	return func(next Oracle) Oracle {
		if d <= 0 {
			return next
		}
		return oracleFuncs{
			json: func(ctx context.Context, call Call) (json.RawMessage, error) {
				ctx, cancel := context.WithTimeout(ctx, d)
				defer cancel()
				return next.GenerateJSON(ctx, call)
			},
			speech: func(ctx context.Context, text string) (Media, error) {
				ctx, cancel := context.WithTimeout(ctx, d)
				defer cancel()
				return next.GenerateSpeech(ctx, text)
			},
		}
	}
}

// -------- Logging & Hooks --------

// WithLogging logs each call with its phase, size, latency and error.
// Media payloads never reach the log.
func WithLogging(logger logrus.FieldLogger) Middleware {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return func(next Oracle) Oracle {
		return oracleFuncs{
			json: func(ctx context.Context, call Call) (json.RawMessage, error) {
				phase := phaseOf(ctx, call)
				entry := logger.WithFields(logrus.Fields{
					"phase":        phase,
					"prompt_bytes": len(call.Prompt),
				})
				if len(call.Media) > 0 {
					entry = entry.WithField("media", RedactMedia(call.Media))
				}
				entry.Debug("oracle request")
				start := time.Now()
				raw, err := next.GenerateJSON(ctx, call)
				entry = entry.WithField("duration", time.Since(start).String())
				if err != nil {
					entry.WithError(err).Warn("oracle call failed")
					return raw, err
				}
				entry.WithField("response_bytes", len(raw)).Info("oracle call")
				return raw, nil
			},
			speech: func(ctx context.Context, text string) (Media, error) {
				entry := logger.WithFields(logrus.Fields{
					"phase":      PhaseSpeech,
					"text_bytes": len(text),
				})
				start := time.Now()
				m, err := next.GenerateSpeech(ctx, text)
				entry = entry.WithField("duration", time.Since(start).String())
				if err != nil {
					entry.WithError(err).Warn("oracle speech failed")
					return m, err
				}
				entry.WithFields(logrus.Fields{"mime": m.MIMEType, "audio_bytes": len(m.Data)}).Info("oracle speech")
				return m, nil
			},
		}
	}
}

// WithHooks calls HookFrom(ctx).Before/After around every call.
// If no hook is present in the context, it is a no-op.
func WithHooks() Middleware {
	return func(next Oracle) Oracle {
		return oracleFuncs{
			json: func(ctx context.Context, call Call) (json.RawMessage, error) {
				phase := phaseOf(ctx, call)
				if hook := HookFrom(ctx); hook != nil {
					hook.Before(ctx, phase, call.Prompt, call.Media)
				}
				raw, err := next.GenerateJSON(ctx, call)
				if hook := HookFrom(ctx); hook != nil {
					hook.After(ctx, phase, raw, err)
				}
				return raw, err
			},
			speech: func(ctx context.Context, text string) (Media, error) {
				if hook := HookFrom(ctx); hook != nil {
					hook.Before(ctx, PhaseSpeech, text, nil)
				}
				m, err := next.GenerateSpeech(ctx, text)
				if hook := HookFrom(ctx); hook != nil {
					hook.After(ctx, PhaseSpeech, nil, err)
				}
				return m, err
			},
		}
	}
}

// -------- Metrics --------

// CallObserver receives one observation per finished oracle call.
type CallObserver interface {
	ObserveOracleCall(phase, outcome string, elapsed time.Duration)
}

// WithMetrics reports every call to obs, classified by Outcome.
func WithMetrics(obs CallObserver) Middleware {
	return func(next Oracle) Oracle {
		if obs == nil {
			return next
		}
		return oracleFuncs{
			json: func(ctx context.Context, call Call) (json.RawMessage, error) {
				start := time.Now()
				raw, err := next.GenerateJSON(ctx, call)
				obs.ObserveOracleCall(phaseOf(ctx, call), Outcome(err), time.Since(start))
				return raw, err
			},
			speech: func(ctx context.Context, text string) (Media, error) {
				start := time.Now()
				m, err := next.GenerateSpeech(ctx, text)
				obs.ObserveOracleCall(PhaseSpeech, Outcome(err), time.Since(start))
				return m, err
			},
		}
	}
}

// Outcome buckets an oracle error into a low-cardinality label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, ErrCircuitOpen):
		return "rejected"
	case errors.Is(err, ErrEmptyResult):
		return "empty"
	case errors.Is(err, ErrInvalidJSON):
		return "invalid"
	default:
		return "error"
	}
}
