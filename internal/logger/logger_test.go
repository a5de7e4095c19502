package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "info", Format: FormatJSON, Output: &buf})
	log.Debug("hidden")
	log.Info("record created", "collection", "users", "id", 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "record created", entry["msg"])
	assert.Equal(t, "users", entry["collection"])
}

func TestFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "")
	opts := FromEnv(FormatText)
	assert.Equal(t, FormatText, opts.Format)
	assert.Equal(t, "debug", opts.Level)

	t.Setenv("LOG_FORMAT", "JSON")
	assert.Equal(t, FormatJSON, FromEnv(FormatText).Format)
}
