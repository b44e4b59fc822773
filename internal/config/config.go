package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

type Config struct {
	DataDir       string `json:"data_dir"`
	LogLevel      string `json:"log_level"`
	Port          int    `json:"port"`
	MaxConcurrent int    `json:"max_concurrent"`
	API           struct {
		URL        string `json:"url"`
		Key        string `json:"key"`
		AuthScheme string `json:"auth_scheme"`
		Mock       bool   `json:"mock"`
		RawPayload bool   `json:"raw_payload"`
	} `json:"api"`
	Store struct {
		Driver        string `json:"driver"`
		RedisAddr     string `json:"redis_addr"`
		RedisTTLHours int    `json:"redis_ttl_hours"`
	} `json:"store"`
}

func Load(path string) (*Config, error) {
	cfg := &Config{
		DataDir:       filepath.Join(os.Getenv("HOME"), ".helpline"),
		LogLevel:      "info",
		Port:          8377,
		MaxConcurrent: 4,
	}
	cfg.API.AuthScheme = "service-key"
	cfg.API.Mock = true
	cfg.Store.Driver = "file"
	cfg.Store.RedisAddr = "localhost:6379"
	cfg.Store.RedisTTLHours = 24

	// Load from file if exists, otherwise write defaults
	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	} else if os.IsNotExist(err) {
		if err := Save(path, cfg); err != nil {
			return nil, err
		}
	}

	// Override from env (highest precedence)
	if url := os.Getenv("HELPLINE_API_URL"); url != "" {
		cfg.API.URL = url
	}
	if key := os.Getenv("HELPLINE_API_KEY"); key != "" {
		cfg.API.Key = key
	}
	if scheme := os.Getenv("HELPLINE_AUTH_SCHEME"); scheme != "" {
		cfg.API.AuthScheme = scheme
	}
	if mock := os.Getenv("HELPLINE_MOCK"); mock != "" {
		cfg.API.Mock = mock == "true" || mock == "1"
	}
	if port := os.Getenv("HELPLINE_PORT"); port != "" {
		if n, err := strconv.Atoi(port); err == nil {
			cfg.Port = n
		}
	}
	if addr := os.Getenv("HELPLINE_REDIS_ADDR"); addr != "" {
		cfg.Store.RedisAddr = addr
	}

	return cfg, nil
}

// Save writes the config atomically, creating the directory if needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	data = append(data, '\n')
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename config: %w", err)
	}
	return nil
}
