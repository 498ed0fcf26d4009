package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wandergenie/internal/gateway/config"
)

func fakeConfig() *config.Config {
	return &config.Config{
		Port: ":0",
		Env:  "test",
		LLM: config.LLMConfig{
			Fake:            true,
			Timeout:         time.Second,
			RPS:             100,
			Burst:           100,
			BreakerFailures: 3,
			BreakerCooldown: time.Second,
		},
		Session: config.SessionConfig{TTL: time.Minute, Max: 8, ErrorReset: time.Second},
		HTTP:    config.HTTPConfig{RPS: 10, Burst: 10, CORSOrigins: []string{"*"}},
		Log:     config.LogConfig{Level: "error", Format: "json"},
	}
}

func TestNew_Fake(t *testing.T) {
	a, err := New(context.Background(), fakeConfig())
	require.NoError(t, err)

	sess := a.sessions.Create()
	_, err = sess.Chat.Send(context.Background(), "What should I pack for Iceland?")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, a.Shutdown(ctx))
}

func TestShutdown_LogsThroughAppLogger(t *testing.T) {
	cfg := fakeConfig()
	cfg.Log.Level = "info"
	cfg.Log.File = filepath.Join(t.TempDir(), "api.log")
	a, err := New(context.Background(), cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, a.Shutdown(ctx))

	out, err := os.ReadFile(cfg.Log.File)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"msg":"shutting down server"`)
	assert.Contains(t, string(out), `"msg":"server stopped"`)
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	cfg := fakeConfig()
	cfg.LLM.Fake = false
	_, err := New(context.Background(), cfg)
	assert.ErrorContains(t, err, "GEMINI_API_KEY")
}
