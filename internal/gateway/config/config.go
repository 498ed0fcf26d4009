package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port    string
	Env     string
	LLM     LLMConfig
	Session SessionConfig
	HTTP    HTTPConfig
	Log     LogConfig
}

type LLMConfig struct {
	APIKey      string
	Fake        bool
	TextModel   string
	SpeechModel string
	Voice       string
	Timeout     time.Duration
	RPS         float64
	Burst       int

	BreakerFailures uint32
	BreakerCooldown time.Duration
}

type SessionConfig struct {
	TTL        time.Duration
	Max        int
	ErrorReset time.Duration
}

type HTTPConfig struct {
	RPS         float64
	Burst       int
	CORSOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
	File   string
}

// Load reads .env (when present) and the process environment.
// A malformed value is an error; a missing one takes its default.
func Load() (*Config, error) {
	_ = godotenv.Load()

	env := firstNonEmpty(strings.TrimSpace(os.Getenv("APP_ENV")), "local")
	p := &parser{}
	cfg := &Config{
		Port: NormalizePort(firstNonEmpty(strings.TrimSpace(os.Getenv("PORT")), ":8081")),
		Env:  env,
		LLM: LLMConfig{
			APIKey:          firstNonEmpty(strings.TrimSpace(os.Getenv("GEMINI_API_KEY")), strings.TrimSpace(os.Getenv("GOOGLE_API_KEY"))),
			Fake:            p.boolean("LLM_FAKE", false),
			TextModel:       strings.TrimSpace(os.Getenv("LLM_TEXT_MODEL")),
			SpeechModel:     strings.TrimSpace(os.Getenv("LLM_SPEECH_MODEL")),
			Voice:           strings.TrimSpace(os.Getenv("LLM_VOICE")),
			Timeout:         p.duration("ORACLE_TIMEOUT", 60*time.Second),
			RPS:             p.float("LLM_RPS", 2),
			Burst:           p.integer("LLM_BURST", 4),
			BreakerFailures: p.count("BREAKER_FAILURES", 5),
			BreakerCooldown: p.duration("BREAKER_COOLDOWN", 30*time.Second),
		},
		Session: SessionConfig{
			TTL:        p.duration("SESSION_TTL", 30*time.Minute),
			Max:        p.integer("SESSION_MAX", 1024),
			ErrorReset: p.duration("TRANSLATOR_ERROR_RESET", 4*time.Second),
		},
		HTTP: HTTPConfig{
			RPS:         p.float("HTTP_RPS", 5),
			Burst:       p.integer("HTTP_BURST", 10),
			CORSOrigins: splitList(firstNonEmpty(os.Getenv("CORS_ORIGINS"), "*")),
		},
		Log: LogConfig{
			Level:  firstNonEmpty(strings.TrimSpace(os.Getenv("LOG_LEVEL")), "info"),
			Format: firstNonEmpty(strings.TrimSpace(os.Getenv("LOG_FORMAT")), defaultLogFormat(env)),
			File:   strings.TrimSpace(os.Getenv("LOG_FILE")),
		},
	}
	if err := errors.Join(p.errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settled configuration, after flag overrides.
func (c *Config) Validate() error {
	var errs []error
	if !c.LLM.Fake && c.LLM.APIKey == "" {
		errs = append(errs, errors.New("config: GEMINI_API_KEY is required unless LLM_FAKE is set"))
	}
	if c.LLM.Timeout <= 0 {
		errs = append(errs, errors.New("config: ORACLE_TIMEOUT must be positive"))
	}
	if c.LLM.RPS <= 0 || c.LLM.Burst <= 0 {
		errs = append(errs, errors.New("config: LLM_RPS and LLM_BURST must be positive"))
	}
	if c.HTTP.RPS <= 0 || c.HTTP.Burst <= 0 {
		errs = append(errs, errors.New("config: HTTP_RPS and HTTP_BURST must be positive"))
	}
	if c.Session.Max <= 0 {
		errs = append(errs, errors.New("config: SESSION_MAX must be positive"))
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("config: LOG_FORMAT %q is not json or text", c.Log.Format))
	}
	return errors.Join(errs...)
}

// NormalizePort accepts "8080" or ":8080".
func NormalizePort(port string) string {
	port = strings.TrimSpace(port)
	if port == "" || strings.Contains(port, ":") {
		return port
	}
	return ":" + port
}

func defaultLogFormat(env string) string {
	if strings.EqualFold(env, "local") {
		return "text"
	}
	return "json"
}

type parser struct {
	errs []error
}

func (p *parser) raw(key string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	return v, v != ""
}

func (p *parser) fail(key, v string, err error) {
	p.errs = append(p.errs, fmt.Errorf("config: %s=%q: %w", key, v, err))
}

func (p *parser) duration(key string, def time.Duration) time.Duration {
	v, ok := p.raw(key)
	if !ok {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		p.fail(key, v, err)
		return def
	}
	return d
}

func (p *parser) integer(key string, def int) int {
	v, ok := p.raw(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.fail(key, v, err)
		return def
	}
	return n
}

// count parses a non-negative 32-bit integer.
func (p *parser) count(key string, def uint32) uint32 {
	v, ok := p.raw(key)
	if !ok {
		return def
	}
	n, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		p.fail(key, v, err)
		return def
	}
	return uint32(n)
}

func (p *parser) float(key string, def float64) float64 {
	v, ok := p.raw(key)
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		p.fail(key, v, err)
		return def
	}
	return f
}

func (p *parser) boolean(key string, def bool) bool {
	v, ok := p.raw(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.fail(key, v, err)
		return def
	}
	return b
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
