// Package config persists user-tunable settings between sessions.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

const appDirName = "gifextractor"

// Config holds persistent application settings.
type Config struct {
	FPS            int    `json:"fps"`
	OptimizeEffort int    `json:"optimize_effort"`
	PreviewEnabled bool   `json:"preview_enabled"`
	LastOpenDir    string `json:"last_open_dir"`
	LastSaveDir    string `json:"last_save_dir"`
}

// Default returns the settings used before the user changes anything.
func Default() *Config {
	return &Config{
		FPS:            15,
		OptimizeEffort: 3,
		PreviewEnabled: true,
	}
}

// path allows tests to redirect the config location.
var path = func() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	appDir := filepath.Join(configDir, appDirName)
	if err := os.MkdirAll(appDir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(appDir, "config.json"), nil
}

// Load reads the config from disk, falling back to defaults when the file
// is missing or unreadable.
func Load() *Config {
	p, err := path()
	if err != nil {
		return Default()
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return Default()
	}
	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return Default()
	}
	if cfg.FPS <= 0 {
		cfg.FPS = Default().FPS
	}
	if cfg.OptimizeEffort < 1 || cfg.OptimizeEffort > 3 {
		cfg.OptimizeEffort = Default().OptimizeEffort
	}
	return cfg
}

// Save writes the config to disk.
func (c *Config) Save() error {
	p, err := path()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, data, 0o644)
}
