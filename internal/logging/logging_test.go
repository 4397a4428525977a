package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Options{Level: "info", Format: "json"}, &buf)
	require.NoError(t, err)

	log.Info("call", zap.String("command", "get_projects"))
	log.Debug("hidden")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "call", entry["msg"])
	assert.Equal(t, "get_projects", entry["command"])
	assert.Contains(t, entry, "ts")
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Options{Format: "console"}, &buf)
	require.NoError(t, err)

	log.Info("started")
	assert.Contains(t, buf.String(), "started")
	assert.Contains(t, buf.String(), "INFO")
}

func TestNew_DebugAndQuiet(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Options{Level: "error", Debug: true}, &buf)
	require.NoError(t, err)
	log.Debug("visible")
	assert.Contains(t, buf.String(), "visible")

	buf.Reset()
	log, err = New(Options{Quiet: true}, &buf)
	require.NoError(t, err)
	log.Info("suppressed")
	log.Warn("kept")
	assert.NotContains(t, buf.String(), "suppressed")
	assert.Contains(t, buf.String(), "kept")
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(Options{Level: "loud"}, &bytes.Buffer{})
	assert.Error(t, err)
}
