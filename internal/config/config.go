// Package config loads the pmboard configuration from a JSON file with
// defaults filled in for anything missing.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the full pmboard configuration.
type Config struct {
	DataDir       string        `json:"dataDir"`
	Backup        BackupConfig  `json:"backup"`
	Notifications NotifyConfig  `json:"notifications"`
	Archive       ArchiveConfig `json:"archive"`
}

// BackupConfig contains snapshot export settings.
type BackupConfig struct {
	Dir string `json:"dir"`
}

// NotifyConfig contains notification display settings.
type NotifyConfig struct {
	DurationMs int `json:"durationMs"`
}

// ArchiveConfig contains archival settings.
type ArchiveConfig struct {
	// RestoreToleranceMs is the timestamp window used to match descendants
	// archived in the same cascade when rows carry no batch token.
	RestoreToleranceMs int `json:"restoreToleranceMs"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	dataDir := filepath.Join(homeDir, ".pmboard")

	return &Config{
		DataDir: dataDir,
		Backup: BackupConfig{
			Dir: filepath.Join(dataDir, "backups"),
		},
		Notifications: NotifyConfig{
			DurationMs: 4000,
		},
		Archive: ArchiveConfig{
			RestoreToleranceMs: 2000,
		},
	}
}

// LoadConfig loads configuration from .pmboard.json in dir, falling back
// to defaults when the file is absent.
func LoadConfig(dir string) (*Config, error) {
	path := filepath.Join(dir, ".pmboard.json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return MergeWithDefaults(&cfg), nil
}

// SaveConfig saves configuration to the specified path.
func SaveConfig(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// MergeWithDefaults fills in missing values with defaults.
func MergeWithDefaults(cfg *Config) *Config {
	defaults := DefaultConfig()

	if cfg.DataDir == "" {
		cfg.DataDir = defaults.DataDir
	}
	if cfg.Backup.Dir == "" {
		cfg.Backup.Dir = defaults.Backup.Dir
	}
	if cfg.Notifications.DurationMs == 0 {
		cfg.Notifications.DurationMs = defaults.Notifications.DurationMs
	}
	if cfg.Archive.RestoreToleranceMs == 0 {
		cfg.Archive.RestoreToleranceMs = defaults.Archive.RestoreToleranceMs
	}
	return cfg
}

// Load is a convenience function that loads config from the current
// directory.
func Load() (*Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}
	return LoadConfig(cwd)
}

// DBPath returns the sqlite database path under the data directory.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "pmboard.db")
}
