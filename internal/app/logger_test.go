package app

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/hengshui-vocab/internal/config"
)

func TestNewLogger_InstallsDefault(t *testing.T) {
	logger := NewLogger(config.LogConfig{Level: "warn", Format: "json"})
	t.Cleanup(func() { slog.SetDefault(slog.New(slog.DiscardHandler)) })

	assert.Same(t, logger.Handler(), slog.Default().Handler())
	assert.False(t, logger.Enabled(context.Background(), slog.LevelInfo))
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{" Warn ", slog.LevelWarn},
		{"error", slog.LevelError},
		{"debug-2", slog.LevelDebug - 2},
		{"verbose", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLevel(tt.in), "parseLevel(%q)", tt.in)
	}
}

func TestNewLogger_TextHasShortSource(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	newLogger(&buf, config.LogConfig{Level: "info", Format: "text"}).Info("import finished")

	assert.Contains(t, buf.String(), "source=logger_test.go:")
	assert.NotContains(t, buf.String(), "/internal/app/")
}

func TestNewLogger_JSONWithoutSource(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	newLogger(&buf, config.LogConfig{Level: "debug", Format: "JSON"}).
		Debug("batch written", slog.Int("records", 3), slog.String("grade", "grade7"))

	var m map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &m))
	assert.NotContains(t, m, "source")
	assert.Equal(t, "DEBUG", m["level"])
	assert.Equal(t, float64(3), m["records"])
	assert.Equal(t, "grade7", m["grade"])
}
