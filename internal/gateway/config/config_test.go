package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allKeys = []string{
	"GEMINI_API_KEY", "GOOGLE_API_KEY", "PORT", "APP_ENV", "LLM_FAKE",
	"LLM_TEXT_MODEL", "LLM_SPEECH_MODEL", "LLM_VOICE", "ORACLE_TIMEOUT",
	"LLM_RPS", "LLM_BURST", "BREAKER_FAILURES", "BREAKER_COOLDOWN",
	"SESSION_TTL", "SESSION_MAX", "TRANSLATOR_ERROR_RESET",
	"HTTP_RPS", "HTTP_BURST", "CORS_ORIGINS", "LOG_LEVEL", "LOG_FORMAT", "LOG_FILE",
}

func clearEnv(t *testing.T) {
	t.Helper()
	// No .env in the test's working directory, so only these matter.
	for _, k := range allKeys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8081", cfg.Port)
	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, 60*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 4*time.Second, cfg.Session.ErrorReset)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
	assert.Equal(t, []string{"*"}, cfg.HTTP.CORSOrigins)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.False(t, cfg.LLM.Fake)

	assert.ErrorContains(t, cfg.Validate(), "GEMINI_API_KEY")
	cfg.LLM.Fake = true
	assert.NoError(t, cfg.Validate())
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("APP_ENV", "production")
	t.Setenv("GOOGLE_API_KEY", "k-google")
	t.Setenv("ORACLE_TIMEOUT", "15s")
	t.Setenv("LLM_RPS", "0.5")
	t.Setenv("SESSION_MAX", "3")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("LLM_FAKE", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Port)
	assert.Equal(t, "k-google", cfg.LLM.APIKey)
	assert.Equal(t, 15*time.Second, cfg.LLM.Timeout)
	assert.InDelta(t, 0.5, cfg.LLM.RPS, 1e-9)
	assert.Equal(t, 3, cfg.Session.Max)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.CORSOrigins)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.True(t, cfg.LLM.Fake)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_GeminiKeyWins(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "k-gemini")
	t.Setenv("GOOGLE_API_KEY", "k-google")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "k-gemini", cfg.LLM.APIKey)
}

func TestLoad_MalformedValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("ORACLE_TIMEOUT", "soon")
	t.Setenv("SESSION_MAX", "lots")
	_, err := Load()
	require.Error(t, err)
	assert.ErrorContains(t, err, "ORACLE_TIMEOUT")
	assert.ErrorContains(t, err, "SESSION_MAX")
}

func TestLoad_BreakerFailures(t *testing.T) {
	clearEnv(t)
	for _, v := range []string{"-1", "4294967296", "three"} {
		t.Setenv("BREAKER_FAILURES", v)
		_, err := Load()
		assert.ErrorContains(t, err, "BREAKER_FAILURES", v)
	}

	t.Setenv("BREAKER_FAILURES", "0")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, uint32(0), cfg.LLM.BreakerFailures)
}

func TestValidate_LogFormat(t *testing.T) {
	clearEnv(t)
	t.Setenv("LLM_FAKE", "1")
	t.Setenv("LOG_FORMAT", "xml")
	cfg, err := Load()
	require.NoError(t, err)
	assert.ErrorContains(t, cfg.Validate(), "LOG_FORMAT")
}

func TestNormalizePort(t *testing.T) {
	assert.Equal(t, ":80", NormalizePort("80"))
	assert.Equal(t, ":80", NormalizePort(":80"))
	assert.Equal(t, "127.0.0.1:80", NormalizePort("127.0.0.1:80"))
}
