package logger_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusgrid/timetable-server/internal/logger"
)

func TestNew_JSONFormatInProduction(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{
		Writer:      &buf,
		Environment: "production",
		Level:       slog.LevelInfo,
	})

	log.Info("records loaded", "count", 3)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "records loaded", entry["msg"])
	assert.Equal(t, float64(3), entry["count"])
}

func TestNew_PrettyFormatInDevelopment(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{
		Writer:      &buf,
		Environment: "development",
		Level:       slog.LevelInfo,
	})

	log.Info("grid assembled", "branch", "CSE")

	out := buf.String()
	assert.Contains(t, out, "grid assembled")
	assert.Contains(t, out, "branch=CSE")
	// Not JSON.
	assert.False(t, strings.HasPrefix(strings.TrimSpace(out), "{"))
}

func TestNew_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{
		Writer: &buf,
		Format: "pretty",
		Level:  slog.LevelWarn,
	})

	log.Debug("dropped")
	log.Info("dropped too")
	log.Warn("kept")

	out := buf.String()
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, "kept")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, logger.ParseLevel(tt.input), "input %q", tt.input)
	}
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{
		Writer: &buf,
		Format: "pretty",
		Level:  slog.LevelInfo,
	})

	log.WithError(assert.AnError).Error("fetch failed")

	assert.Contains(t, buf.String(), "fetch failed")
	assert.Contains(t, buf.String(), "error=")
}

func TestWithField(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{
		Writer: &buf,
		Format: "pretty",
		Level:  slog.LevelInfo,
	})

	log.WithField("dir", "/tmp/import").Info("watcher started")

	assert.Contains(t, buf.String(), "watcher started")
	assert.Contains(t, buf.String(), "dir=")
}
