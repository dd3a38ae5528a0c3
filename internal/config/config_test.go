package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotEmpty(t, cfg.DataDir)
	assert.Equal(t, filepath.Join(cfg.DataDir, "backups"), cfg.Backup.Dir)
	assert.Equal(t, 4000, cfg.Notifications.DurationMs)
	assert.Equal(t, 2000, cfg.Archive.RestoreToleranceMs)
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	tmpDir := t.TempDir()

	cfg, err := LoadConfig(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_PartialFileMergesDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	configContent := `{
  "dataDir": "/tmp/boards",
  "notifications": {
    "durationMs": 1500
  }
}`
	path := filepath.Join(tmpDir, ".pmboard.json")
	require.NoError(t, os.WriteFile(path, []byte(configContent), 0o644))

	cfg, err := LoadConfig(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/boards", cfg.DataDir)
	assert.Equal(t, 1500, cfg.Notifications.DurationMs)
	// Unset values fall back to defaults.
	assert.Equal(t, DefaultConfig().Backup.Dir, cfg.Backup.Dir)
	assert.Equal(t, 2000, cfg.Archive.RestoreToleranceMs)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, ".pmboard.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o644))

	_, err := LoadConfig(tmpDir)
	assert.Error(t, err)
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, ".pmboard.json")

	cfg := DefaultConfig()
	cfg.Notifications.DurationMs = 2500
	require.NoError(t, SaveConfig(cfg, path))

	loaded, err := LoadConfig(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestDBPath(t *testing.T) {
	cfg := &Config{DataDir: "/data/pm"}
	assert.Equal(t, filepath.Join("/data/pm", "pmboard.db"), cfg.DBPath())
}
