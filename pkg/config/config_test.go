package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != 8080 {
		t.Fatalf("expected default port 8080, got %d", cfg.Port)
	}
	if cfg.SessionTTL != 30*time.Minute {
		t.Fatalf("expected default ttl 30m, got %s", cfg.SessionTTL)
	}
	if cfg.SweepInterval != time.Minute {
		t.Fatalf("expected default sweep 1m, got %s", cfg.SweepInterval)
	}
	if cfg.CookieSecure {
		t.Fatal("expected insecure cookie by default")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PATIENTNAV_PORT", "9090")
	t.Setenv("PATIENTNAV_SESSION_TTL", "5m")
	t.Setenv("PATIENTNAV_COOKIE_SECURE", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != 9090 || cfg.SessionTTL != 5*time.Minute || !cfg.CookieSecure {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoadParseError(t *testing.T) {
	t.Setenv("PATIENTNAV_PORT", "not-an-int")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero port", Config{Port: 0, SessionTTL: time.Minute, SweepInterval: time.Minute}},
		{"port too large", Config{Port: 70000, SessionTTL: time.Minute, SweepInterval: time.Minute}},
		{"zero ttl", Config{Port: 80, SweepInterval: time.Minute}},
		{"zero sweep", Config{Port: 80, SessionTTL: time.Minute}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
