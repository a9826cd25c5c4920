package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHandlerJSON(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(NewHandler(&buf, "kinofav", "debug", "json"))

	l.Info("favorite toggled", slog.String("movie_id", "42"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "favorite toggled", entry["msg"])
	assert.Equal(t, "42", entry["movie_id"])
}

func TestNewHandlerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(NewHandler(&buf, "kinofav", "warn", "text"))

	l.Info("dropped")
	assert.Empty(t, buf.String())

	l.Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestNewHandlerUnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(NewHandler(&buf, "kinofav", "loud", "text"))

	l.Debug("dropped")
	assert.Empty(t, buf.String())
	l.Info("kept")
	assert.Contains(t, buf.String(), "kept")
}
