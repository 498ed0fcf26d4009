// Package logging builds the process logger from configuration.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Options struct {
	Level  string
	Format string
	// File, when set, receives a rotated copy of every entry.
	File string

	// Stderr overrides the console writer; tests use it.
	Stderr io.Writer
}

// New returns a configured logger and a close func for the file sink.
func New(opts Options) (*logrus.Logger, func() error, error) {
	level, err := logrus.ParseLevel(firstNonEmpty(opts.Level, "info"))
	if err != nil {
		return nil, nil, fmt.Errorf("logging: %w", err)
	}

	logger := logrus.New()
	logger.SetLevel(level)

	switch strings.ToLower(strings.TrimSpace(opts.Format)) {
	case "", "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "text":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return nil, nil, fmt.Errorf("logging: unknown format %q", opts.Format)
	}

	var out io.Writer = os.Stderr
	if opts.Stderr != nil {
		out = opts.Stderr
	}
	closeFn := func() error { return nil }
	if path := strings.TrimSpace(opts.File); path != "" {
		sink := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    50,
			MaxBackups: 5,
			MaxAge:     14,
			Compress:   true,
		}
		out = io.MultiWriter(out, sink)
		closeFn = sink.Close
	}
	logger.SetOutput(out)
	return logger, closeFn, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
