package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, closeFn, err := New(Options{Level: "debug", Format: "json", Stderr: &buf})
	require.NoError(t, err)
	defer closeFn()

	logger.WithField("phase", "itinerary").Debug("oracle call")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "oracle call", entry["msg"])
	assert.Equal(t, "itinerary", entry["phase"])
	assert.Equal(t, "debug", entry["level"])
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := New(Options{Level: "warn", Format: "text", Stderr: &buf})
	require.NoError(t, err)
	assert.Equal(t, logrus.WarnLevel, logger.GetLevel())

	logger.Info("hidden")
	assert.Empty(t, buf.String())
	logger.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestNew_FileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api.log")
	var buf bytes.Buffer
	logger, closeFn, err := New(Options{File: path, Stderr: &buf})
	require.NoError(t, err)

	logger.Info("session created")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "session created")
	assert.Contains(t, buf.String(), "session created")
}

func TestNew_Rejects(t *testing.T) {
	_, _, err := New(Options{Level: "loud"})
	assert.Error(t, err)
	_, _, err = New(Options{Format: "xml"})
	assert.Error(t, err)
}
