package logging

import (
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		" warn ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		t.Run(in, func(t *testing.T) {
			if got := ParseLevel(in); got != want {
				t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
			}
		})
	}
}

func TestLoggerIsShared(t *testing.T) {
	a := Logger()
	b := Logger()
	if a == nil || a != b {
		t.Fatalf("expected the same non-nil logger, got %p and %p", a, b)
	}
}
