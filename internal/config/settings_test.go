package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := loadFromPath(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.BaseURL() != defaultBaseURL {
		t.Fatalf("expected default base url, got %q", cfg.BaseURL())
	}
	if cfg.WaitingInterval() != defaultWaitingInterval {
		t.Fatalf("expected default waiting interval")
	}
	if cfg.LogLevel() != "info" {
		t.Fatalf("expected info level")
	}
}

func TestLoadOverlaysFileOnDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := "[server]\nbase_url = \"http://agent.example:9000/\"\n\n[polling]\nwaiting_interval_ms = 500\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := loadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.BaseURL() != "http://agent.example:9000" {
		t.Fatalf("expected trimmed base url, got %q", cfg.BaseURL())
	}
	if cfg.WaitingInterval() != 500*time.Millisecond {
		t.Fatalf("expected overridden waiting interval")
	}
	// Unset sections keep their defaults.
	if cfg.IdleInterval() != defaultIdleInterval {
		t.Fatalf("expected default idle interval")
	}
}

func TestIdleIntervalNeverBelowWaiting(t *testing.T) {
	cfg := Default()
	cfg.Polling.WaitingIntervalMS = 4000
	cfg.Polling.IdleIntervalMS = 1000
	if cfg.IdleInterval() != cfg.WaitingInterval() {
		t.Fatalf("expected idle interval clamped to waiting interval")
	}
}

func TestInputHeightsClamp(t *testing.T) {
	cfg := Default()
	cfg.UI.InputMinHeight = 6
	cfg.UI.InputMaxHeight = 2
	minHeight, maxHeight := cfg.InputHeights()
	if minHeight != 6 || maxHeight != 6 {
		t.Fatalf("expected max clamped to min, got %d/%d", minHeight, maxHeight)
	}
}

func TestResolveTokenMissingFile(t *testing.T) {
	cfg := Default()
	cfg.Server.TokenPath = filepath.Join(t.TempDir(), "token")
	token, err := cfg.ResolveToken()
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if token != "" {
		t.Fatalf("expected empty token for missing file")
	}
}
