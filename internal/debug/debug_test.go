package debug

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestWithDebug(t *testing.T) {
	ctx := WithDebug(context.Background(), true)
	if !IsEnabled(ctx) {
		t.Error("IsEnabled should return true when debug is enabled")
	}
}

func TestIsEnabled_DefaultFalse(t *testing.T) {
	if IsEnabled(context.Background()) {
		t.Error("IsEnabled should return false by default")
	}
}

func TestWithDebug_Disabled(t *testing.T) {
	ctx := WithDebug(context.Background(), false)
	if IsEnabled(ctx) {
		t.Error("IsEnabled should return false when debug is disabled")
	}
}

func TestSetupLoggerTo(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	SetupLoggerTo(&buf, true)
	slog.Debug("request complete", "status", 200)
	if !strings.Contains(buf.String(), "request complete") {
		t.Errorf("expected debug record, got %q", buf.String())
	}

	buf.Reset()
	SetupLoggerTo(&buf, false)
	slog.Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("debug record should be suppressed, got %q", buf.String())
	}
	if !slog.Default().Enabled(context.Background(), slog.LevelWarn) {
		t.Error("warn level should stay enabled")
	}
}

func TestRedact(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "****"},
		{"abc", "****"},
		{"sk_live_abcdef1234", "****1234"},
	}
	for _, tt := range tests {
		if got := Redact(tt.in); got != tt.want {
			t.Errorf("Redact(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
