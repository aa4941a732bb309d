package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestNew_JSONIncludesSource(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	cfg := DefaultConfig("tags")
	cfg.Format = "json"
	cfg.Output = &buf

	New(cfg).Info("query finished", "matches", 4)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "tags", rec["source"])
	assert.Equal(t, "query finished", rec["msg"])
	assert.EqualValues(t, 4, rec["matches"])
}

func TestNew_LevelFilters(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	cfg := DefaultConfig("cli")
	cfg.Level = slog.LevelWarn
	cfg.Output = &buf

	logger := New(cfg)
	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestFromSettings_EnvOverrides(t *testing.T) {
	t.Setenv("TAGNAV_LOG_LEVEL", "error")
	t.Setenv("TAGNAV_LOG_FORMAT", "JSON")

	cfg := FromSettings("cli", "debug", "text")

	assert.Equal(t, slog.LevelError, cfg.Level)
	assert.Equal(t, "json", cfg.Format)
}

func TestFromSettings_FileValues(t *testing.T) {
	t.Setenv("TAGNAV_LOG_LEVEL", "")
	t.Setenv("TAGNAV_LOG_FORMAT", "")

	cfg := FromSettings("cli", "debug", "json")

	assert.Equal(t, slog.LevelDebug, cfg.Level)
	assert.Equal(t, "json", cfg.Format)
}

func TestDefault_FromEnvironment(t *testing.T) {
	t.Setenv("TAGNAV_LOG_LEVEL", "warn")
	t.Setenv("TAGNAV_LOG_FORMAT", "")

	logger := Default("mcp")

	assert.False(t, logger.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, logger.Enabled(context.Background(), slog.LevelWarn))
}

func TestNop(t *testing.T) {
	t.Parallel()

	assert.NotPanics(t, func() { Nop().Error("discarded") })
}
