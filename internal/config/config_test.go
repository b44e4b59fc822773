package config

import (
	"os"
	"path/filepath"
	"testing"
)

func tempConfigPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "config.json")
}

func TestLoad_WritesDefaults(t *testing.T) {
	path := tempConfigPath(t)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not written on first load: %v", err)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected default log level info, got %q", cfg.LogLevel)
	}
	if cfg.Port != 8377 {
		t.Errorf("expected default port 8377, got %d", cfg.Port)
	}
	if !cfg.API.Mock {
		t.Error("expected mock mode by default")
	}
	if cfg.Store.Driver != "file" {
		t.Errorf("expected file store driver, got %q", cfg.Store.Driver)
	}
}

func TestSave_ReloadRoundTrip(t *testing.T) {
	path := tempConfigPath(t)

	original := &Config{
		DataDir:       "/tmp/test-data",
		LogLevel:      "debug",
		Port:          9000,
		MaxConcurrent: 8,
	}
	original.API.URL = "https://support.example.com/api/tickets"
	original.API.Key = "sk-round-trip"
	original.API.AuthScheme = "bearer"
	original.Store.Driver = "redis"
	original.Store.RedisAddr = "redis:6379"
	original.Store.RedisTTLHours = 48

	if err := Save(path, original); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.DataDir != original.DataDir {
		t.Errorf("DataDir mismatch: %v != %v", loaded.DataDir, original.DataDir)
	}
	if loaded.LogLevel != original.LogLevel {
		t.Errorf("LogLevel mismatch: %v != %v", loaded.LogLevel, original.LogLevel)
	}
	if loaded.Port != original.Port {
		t.Errorf("Port mismatch: %v != %v", loaded.Port, original.Port)
	}
	if loaded.API.URL != original.API.URL {
		t.Errorf("API.URL mismatch: %v != %v", loaded.API.URL, original.API.URL)
	}
	if loaded.API.Key != original.API.Key {
		t.Errorf("API.Key mismatch: %v != %v", loaded.API.Key, original.API.Key)
	}
	if loaded.Store.Driver != original.Store.Driver {
		t.Errorf("Store.Driver mismatch: %v != %v", loaded.Store.Driver, original.Store.Driver)
	}
	if loaded.Store.RedisTTLHours != original.Store.RedisTTLHours {
		t.Errorf("Store.RedisTTLHours mismatch: %v != %v", loaded.Store.RedisTTLHours, original.Store.RedisTTLHours)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := tempConfigPath(t)

	t.Setenv("HELPLINE_API_URL", "https://env.example.com/tickets")
	t.Setenv("HELPLINE_API_KEY", "env-key")
	t.Setenv("HELPLINE_AUTH_SCHEME", "bearer")
	t.Setenv("HELPLINE_MOCK", "false")
	t.Setenv("HELPLINE_PORT", "9999")
	t.Setenv("HELPLINE_REDIS_ADDR", "envhost:6380")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.API.URL != "https://env.example.com/tickets" {
		t.Errorf("API.URL not overridden: %q", cfg.API.URL)
	}
	if cfg.API.Key != "env-key" {
		t.Errorf("API.Key not overridden: %q", cfg.API.Key)
	}
	if cfg.API.AuthScheme != "bearer" {
		t.Errorf("API.AuthScheme not overridden: %q", cfg.API.AuthScheme)
	}
	if cfg.API.Mock {
		t.Error("HELPLINE_MOCK=false should disable mock mode")
	}
	if cfg.Port != 9999 {
		t.Errorf("Port not overridden: %d", cfg.Port)
	}
	if cfg.Store.RedisAddr != "envhost:6380" {
		t.Errorf("Store.RedisAddr not overridden: %q", cfg.Store.RedisAddr)
	}
}

func TestLoad_BadPortIgnored(t *testing.T) {
	path := tempConfigPath(t)
	t.Setenv("HELPLINE_PORT", "not-a-number")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != 8377 {
		t.Errorf("expected default port for bad env value, got %d", cfg.Port)
	}
}
