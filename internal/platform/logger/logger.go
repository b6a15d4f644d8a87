package logger

import (
	"log/slog"
	"os"
	"strings"
)

// New returns a structured JSON logger using slog. VCT_LOG_LEVEL selects the
// level (debug, info, warn, error).
func New() *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: levelFromEnv(os.Getenv("VCT_LOG_LEVEL")),
	}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}

func levelFromEnv(v string) slog.Level {
	switch strings.ToLower(v) {
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
