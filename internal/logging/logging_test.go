package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/harentsoaR/dentaclinic-api/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
		"bogus": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(&buf, &config.Config{Env: "production", LogLevel: "info"})
	log.Info("hello", "k", "v")

	out := buf.String()
	if !strings.HasPrefix(out, "{") {
		t.Fatalf("production logger should emit JSON, got %q", out)
	}
	if !strings.Contains(out, `"service":"dentaclinic-api"`) {
		t.Errorf("missing service attribute: %q", out)
	}

	buf.Reset()
	log = newLogger(&buf, &config.Config{Env: "development", LogLevel: "warn"})
	log.Info("dropped")
	if buf.Len() != 0 {
		t.Errorf("info record should be filtered at warn level, got %q", buf.String())
	}
}
