package app

import (
	"context"

	"github.com/sirupsen/logrus"

	"wandergenie/internal/gateway/config"
	"wandergenie/internal/llm"
)

// newOracle builds the Gemini client, or the offline fake, behind the
// middleware stack. The breaker sits closest to the client; rate-limit
// waits never reach it.
func newOracle(ctx context.Context, cfg config.LLMConfig, logger logrus.FieldLogger, obs llm.CallObserver) (llm.Oracle, error) {
	var inner llm.Oracle
	if cfg.Fake {
		logger.Warn("LLM_FAKE is set; using canned oracle replies")
		inner = llm.NewFakeClient()
	} else {
		client, err := llm.NewGeminiClient(ctx, llm.GeminiConfig{
			APIKey:      cfg.APIKey,
			TextModel:   cfg.TextModel,
			SpeechModel: cfg.SpeechModel,
			Voice:       cfg.Voice,
		})
		if err != nil {
			return nil, err
		}
		logger.WithField("oracle", client.Name()).Info("oracle ready")
		inner = client
	}
	return llm.Wrap(inner,
		llm.WithHooks(),
		llm.WithLogging(logger),
		llm.WithMetrics(obs),
		llm.WithTimeout(cfg.Timeout),
		llm.RateLimit(cfg.RPS, cfg.Burst),
		llm.WithBreaker(llm.BreakerSettings{
			ConsecutiveFailures: cfg.BreakerFailures,
			Cooldown:            cfg.BreakerCooldown,
			Logger:              logger,
		}),
	), nil
}
