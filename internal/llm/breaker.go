package llm

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

// BreakerSettings configures WithBreaker.
type BreakerSettings struct {
	// ConsecutiveFailures opens the circuit. Zero disables the breaker.
	ConsecutiveFailures uint32
	// Cooldown is how long the circuit stays open before a probe.
	Cooldown time.Duration
	Logger   logrus.FieldLogger
}

// WithBreaker fails fast with ErrCircuitOpen while the provider keeps
// failing. Text and speech calls trip independently. Caller cancellation
// does not count as a provider failure.
func WithBreaker(s BreakerSettings) Middleware {
	return func(next Oracle) Oracle {
		if s.ConsecutiveFailures == 0 {
			return next
		}
		text := newBreaker("oracle-text", s)
		speech := newBreaker("oracle-speech", s)
		return oracleFuncs{
			json: func(ctx context.Context, call Call) (json.RawMessage, error) {
				out, err := text.Execute(func() (interface{}, error) {
					return next.GenerateJSON(ctx, call)
				})
				if err != nil {
					return nil, breakerErr(err)
				}
				return out.(json.RawMessage), nil
			},
			speech: func(ctx context.Context, t string) (Media, error) {
				out, err := speech.Execute(func() (interface{}, error) {
					return next.GenerateSpeech(ctx, t)
				})
				if err != nil {
					return Media{}, breakerErr(err)
				}
				return out.(Media), nil
			},
		}
	}
}

func newBreaker(name string, s BreakerSettings) *gobreaker.CircuitBreaker {
	limit := s.ConsecutiveFailures
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     s.Cooldown,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= limit
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if s.Logger != nil {
				s.Logger.WithFields(logrus.Fields{
					"breaker": name,
					"from":    from.String(),
					"to":      to.String(),
				}).Warn("circuit state changed")
			}
		},
	})
}

func breakerErr(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return ErrCircuitOpen
	}
	return err
}
