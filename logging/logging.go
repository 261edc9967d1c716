package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	once   sync.Once
	logger *slog.Logger
)

// Configure initializes the shared JSON logger writing to w at the given level.
// Only the first call takes effect; later calls return the existing logger.
func Configure(w io.Writer, level slog.Level) *slog.Logger {
	once.Do(func() {
		if w == nil {
			w = os.Stdout
		}
		handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
		logger = slog.New(handler)
	})
	return logger
}

// Logger returns the configured slog logger, configuring it on first use if necessary.
func Logger() *slog.Logger {
	if logger == nil {
		return Configure(os.Stdout, slog.LevelInfo)
	}
	return logger
}

// ParseLevel maps debug, info, warn and error to slog levels. Unknown values yield info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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
