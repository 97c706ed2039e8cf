package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Database.Path != "kestrel.db" {
		t.Errorf("default database path = %q", cfg.Database.Path)
	}
	if cfg.HTTP.Addr() != "127.0.0.1:9070" {
		t.Errorf("default addr = %q", cfg.HTTP.Addr())
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
database:
  path: /var/lib/kestrel/data.db
http:
  port: 8080
logging:
  level: debug
`)
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Database.Path != "/var/lib/kestrel/data.db" {
		t.Errorf("database path = %q", cfg.Database.Path)
	}
	if cfg.HTTP.Port != 8080 {
		t.Errorf("port = %d", cfg.HTTP.Port)
	}
	// Unset file values keep defaults.
	if cfg.HTTP.Bind != "127.0.0.1" {
		t.Errorf("bind = %q", cfg.HTTP.Bind)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("level = %q", cfg.Logging.Level)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("KESTREL_DATABASE_PATH", "/tmp/env.db")
	t.Setenv("KESTREL_HTTP_PORT", "7070")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Database.Path != "/tmp/env.db" {
		t.Errorf("database path = %q", cfg.Database.Path)
	}
	if cfg.HTTP.Port != 7070 {
		t.Errorf("port = %d", cfg.HTTP.Port)
	}
}

func TestValidation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	for name, data := range map[string]string{
		"bad port":  "http:\n  port: -1\n",
		"bad level": "logging:\n  level: loud\n",
	} {
		if err := os.WriteFile(path, []byte(data), 0600); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(path); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file should error")
	}
}
