package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Setup installs the process-wide logger and returns its handler so it can
// be combined with other sinks later. format is "json" or "text"; text
// output is colored with tint.
func Setup(format, level string) slog.Handler {
	h := NewHandler(os.Stdout, format, ParseLevel(level))
	slog.SetDefault(slog.New(h))
	return h
}

func NewHandler(w io.Writer, format string, level slog.Level) slog.Handler {
	if strings.EqualFold(format, "text") {
		return tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	}
	return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
}

func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
