package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" DEBUG ": slog.LevelDebug,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLogLevel(in); got != want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewStructuredLoggerToAddsModuleAndVersion(t *testing.T) {
	var buf bytes.Buffer
	log := NewStructuredLoggerTo(&buf, "patientnav", "v1.2.3", "info")
	log.Info("hello")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decode log record: %v", err)
	}
	if rec["module"] != "patientnav" || rec["version"] != "v1.2.3" {
		t.Fatalf("unexpected record attributes: %v", rec)
	}
	if _, ok := rec["source"]; ok {
		t.Fatal("source should only be recorded at debug level")
	}
}

func TestNewStructuredLoggerToFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewStructuredLoggerTo(&buf, "patientnav", "v0", "warn")
	log.Info("dropped")
	if buf.Len() != 0 {
		t.Fatalf("expected info record to be filtered, got %q", buf.String())
	}
}
