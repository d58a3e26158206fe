package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	raw := "api:\n  port: 9090\nstorage:\n  driver: memory\n"
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.API.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.API.Port)
	}
	if cfg.Storage.Driver != "memory" {
		t.Errorf("driver = %q, want memory", cfg.Storage.Driver)
	}
	if cfg.Worker.Count != 2 || cfg.Worker.QueueSize != 100 {
		t.Errorf("worker defaults = %d/%d, want 2/100", cfg.Worker.Count, cfg.Worker.QueueSize)
	}
	if cfg.Cache.TTLSeconds != 300 {
		t.Errorf("cache ttl = %d, want 300", cfg.Cache.TTLSeconds)
	}
	if cfg.Spotify.BaseURL == "" {
		t.Error("spotify base url default missing")
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() on a missing file should fail")
	}

	path := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(path, []byte("api: [not a map"), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() on malformed YAML should fail")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.API.Port != 8080 || cfg.Storage.Driver != "sqlite" {
		t.Errorf("defaults = %+v", cfg)
	}
}
