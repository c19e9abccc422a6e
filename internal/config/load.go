package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// EnvConfig names a config file when --config is not given.
const EnvConfig = "FRIDGEVIEW_CONFIG"

// configName is the file looked up in the working and user config directories.
const configName = "fridgeview.yaml"

// Load builds the config from defaults, then the first config file found,
// then command-line flags, and validates the result.
func Load() (*Config, error) {
	cfg := Default()

	if path := locate(); path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
	}

	applyFlags(cfg)
	cfg.Validate()
	return cfg, nil
}

// locate returns the explicit config path, or the first file found by
// findConfigFile.
func locate() string {
	if p := ConfigPath(); p != "" {
		return p
	}
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}
	return findConfigFile()
}

// findConfigFile checks the working directory, then ConfigDir.
func findConfigFile() string {
	for _, path := range []string{
		configName,
		"config.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	} {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// ConfigDir returns the per-user config directory for the viewer.
func ConfigDir() string {
	if base, err := os.UserConfigDir(); err == nil {
		return filepath.Join(base, "fridgeview")
	}
	if abs, err := filepath.Abs(".fridgeview"); err == nil {
		return abs
	}
	return ".fridgeview"
}

// loadFromFile merges a YAML file over cfg. Unknown keys are an error and an
// empty file changes nothing.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
