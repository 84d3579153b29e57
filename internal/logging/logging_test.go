package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	require.Equal(t, slog.LevelWarn, ParseLevel("WARNING"))
	require.Equal(t, slog.LevelError, ParseLevel(" error "))
	require.Equal(t, slog.LevelInfo, ParseLevel(""))
	require.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNew_JSONFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: "warn", Format: "json", Output: &buf})

	logger.Info("hidden")
	logger.Warn("shown", "engine_model", "CFM56-7B")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var record map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &record))
	require.Equal(t, "shown", record["msg"])
	require.Equal(t, "CFM56-7B", record["engine_model"])
}

func TestNew_ErrorCarriesStackTrace(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Format: "text", Output: &buf}).With("component", "test")

	logger.Error("boom")

	out := buf.String()
	require.Contains(t, out, "msg=boom")
	require.Contains(t, out, "component=test")
	require.Contains(t, out, "stacktrace=")
}
