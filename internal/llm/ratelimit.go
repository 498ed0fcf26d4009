package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/time/rate"
)

// RateLimit throttles provider calls to rps with the given burst. Callers
// wait for a token until their context ends. rps <= 0 disables it.
func RateLimit(rps float64, burst int) Middleware {
	return func(next Oracle) Oracle {
		if rps <= 0 {
			return next
		}
		if burst < 1 {
			burst = 1
		}
		lim := rate.NewLimiter(rate.Limit(rps), burst)
		wait := func(ctx context.Context) error {
			if err := lim.Wait(ctx); err != nil {
				return fmt.Errorf("llm: rate limit wait: %w", err)
			}
			return nil
		}
		return oracleFuncs{
			json: func(ctx context.Context, call Call) (json.RawMessage, error) {
				if err := wait(ctx); err != nil {
					return nil, err
				}
				return next.GenerateJSON(ctx, call)
			},
			speech: func(ctx context.Context, text string) (Media, error) {
				if err := wait(ctx); err != nil {
					return Media{}, err
				}
				return next.GenerateSpeech(ctx, text)
			},
		}
	}
}
