// Package debug carries the debug flag through a context and configures slog.
package debug

import (
	"context"
	"io"
	"log/slog"
	"os"
)

type contextKey string

const debugKey contextKey = "revolut_debug"

// WithDebug returns a context with debug logging enabled or disabled.
func WithDebug(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, debugKey, enabled)
}

// IsEnabled reports whether request-level debug logging is enabled in ctx.
func IsEnabled(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	if v, ok := ctx.Value(debugKey).(bool); ok {
		return v
	}
	return false
}

// SetupLogger installs a text handler on stderr. Debug records are only
// emitted when debugEnabled is set; otherwise warnings and above.
func SetupLogger(debugEnabled bool) {
	SetupLoggerTo(os.Stderr, debugEnabled)
}

func SetupLoggerTo(w io.Writer, debugEnabled bool) {
	level := slog.LevelWarn
	if debugEnabled {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// Redact masks a credential for logging, keeping the last four characters.
func Redact(secret string) string {
	if len(secret) <= 4 {
		return "****"
	}
	return "****" + secret[len(secret)-4:]
}
