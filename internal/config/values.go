package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// ListValues returns the config as a flat key/value map. When mask is
// true, secret values are replaced with "***".
func ListValues(cfg *Config, mask bool) (map[string]any, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	var nested map[string]any
	if err := json.Unmarshal(data, &nested); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	flat := Flatten(nested)
	if mask {
		for k, v := range flat {
			if IsSecretKey(k) && v != "" {
				flat[k] = "***"
			}
		}
	}
	return flat, nil
}

// GetValue loads the config at path and returns the value at the
// dot-separated key.
func GetValue(path, key string) (any, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	values, err := ListValues(cfg, false)
	if err != nil {
		return nil, err
	}
	val, ok := values[key]
	if !ok {
		return nil, fmt.Errorf("unknown config key: %s", key)
	}
	return val, nil
}

// SetValue sets the dot-separated key in the config file at path and
// saves. "true"/"false" and integers are coerced to their native
// types; everything else is stored as a string. Edits apply to the
// file contents only, so env overrides never get baked into the file.
func SetValue(path, key, value string) error {
	// Load validates the key set and writes defaults on first use.
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	known, err := ListValues(cfg, false)
	if err != nil {
		return err
	}
	if _, ok := known[key]; !ok {
		return fmt.Errorf("unknown config key: %s", key)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	var onDisk Config
	if err := json.Unmarshal(data, &onDisk); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}

	raw, err := json.Marshal(&onDisk)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	var nested map[string]any
	if err := json.Unmarshal(raw, &nested); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}

	unflattenSet(nested, key, coerce(value))

	merged, err := json.Marshal(nested)
	if err != nil {
		return fmt.Errorf("marshal updated config: %w", err)
	}
	updated := &Config{}
	if err := json.Unmarshal(merged, updated); err != nil {
		return fmt.Errorf("apply updated config: %w", err)
	}
	return Save(path, updated)
}

func coerce(value string) any {
	switch value {
	case "true":
		return true
	case "false":
		return false
	}
	if n, err := strconv.Atoi(value); err == nil {
		return n
	}
	return value
}
