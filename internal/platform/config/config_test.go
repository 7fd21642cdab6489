package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultsAndEnvPrecedence(t *testing.T) {
	dir := t.TempDir()

	cfg, err := New(dir)
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	if cfg.APIBaseURL != "http://127.0.0.1:8000" {
		t.Fatalf("expected loopback default, got %s", cfg.APIBaseURL)
	}
	if cfg.DBPath != filepath.Join(dir, "formai.db") {
		t.Fatalf("db path not derived from state dir: %s", cfg.DBPath)
	}

	os.Setenv("FORMAI_API_HOST", "10.0.0.7")
	defer os.Unsetenv("FORMAI_API_HOST")
	cfg, err = New(dir)
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	if cfg.APIBaseURL != "http://10.0.0.7:8000" {
		t.Fatalf("expected host env to win, got %s", cfg.APIBaseURL)
	}

	os.Setenv("FORMAI_API_URL", "https://api.formai.dev/")
	defer os.Unsetenv("FORMAI_API_URL")
	cfg, err = New(dir)
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	if cfg.APIBaseURL != "https://api.formai.dev" {
		t.Fatalf("expected full url env to win with trailing slash trimmed, got %s", cfg.APIBaseURL)
	}
}

func TestConfigFileOverridesDefault(t *testing.T) {
	dir := t.TempDir()
	payload := []byte("api_base_url: http://192.168.1.20:9000\n")
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), payload, 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	cfg, err := New(dir)
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	if cfg.APIBaseURL != "http://192.168.1.20:9000" {
		t.Fatalf("expected file value, got %s", cfg.APIBaseURL)
	}
}

func TestMalformedConfigFileFails(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("api_base_url: [oops"), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	if _, err := New(dir); err == nil {
		t.Fatal("expected error for malformed yaml")
	}
}
