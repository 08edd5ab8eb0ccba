package cmd

import (
	"bytes"
	"encoding/json"
	"testing"

	"event-hub/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_Development(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&config.Config{Environment: "development"}, &buf)

	logger.Debug("origin rejected", "origin", "http://evil.example")

	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), "origin=http://evil.example")
}

func TestNewLogger_Production(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&config.Config{Environment: "production"}, &buf)

	logger.Debug("hidden")
	assert.Empty(t, buf.String())

	logger.Info("Server is running", "port", "5000")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "Server is running", entry["msg"])
	assert.Equal(t, "5000", entry["port"])
}
