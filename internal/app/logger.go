package app

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/heartmarshall/hengshui-vocab/internal/config"
)

// NewLogger creates the process logger on stderr, keeping stdout for command
// output, and installs it as the slog default.
//
// Format "json" writes one JSON object per record. Any other format writes
// text with a short file:line source. Level accepts the slog names (debug,
// info, warn, error, optionally with an offset such as "debug-2") in any
// case; an unparsable level means info.
func NewLogger(cfg config.LogConfig) *slog.Logger {
	logger := newLogger(os.Stderr, cfg)
	slog.SetDefault(logger)
	return logger
}

func newLogger(w io.Writer, cfg config.LogConfig) *slog.Logger {
	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: parseLevel(cfg.Level)}))
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:       parseLevel(cfg.Level),
		AddSource:   true,
		ReplaceAttr: shortSource,
	}))
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return level
}

// shortSource trims the source attribute to the file's base name.
func shortSource(_ []string, a slog.Attr) slog.Attr {
	if a.Key != slog.SourceKey {
		return a
	}
	if src, ok := a.Value.Any().(*slog.Source); ok {
		a.Value = slog.StringValue(fmt.Sprintf("%s:%d", filepath.Base(src.File), src.Line))
	}
	return a
}
