package model

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 100, cfg.Notifications.CleanupThreshold)
	assert.Equal(t, 50, cfg.Notifications.MaxKeep)
	assert.NotEmpty(t, cfg.DatabasePath)
	assert.NotEmpty(t, cfg.Digest.OutboxDir)
}

func TestConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := defaultAppConfig()
	cfg.User.ID = "u1"
	cfg.Notifications.CleanupThreshold = 20
	cfg.Notifications.MaxKeep = 10
	cfg.Digest.FromAddress = "bot@example.com"

	require.NoError(t, SaveConfig(path, cfg))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "u1", loaded.User.ID)
	assert.Equal(t, 20, loaded.Notifications.CleanupThreshold)
	assert.Equal(t, 10, loaded.Notifications.MaxKeep)
	assert.Equal(t, "bot@example.com", loaded.Digest.FromAddress)
}

func TestLoadConfigRejectsNonPositiveBounds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := defaultAppConfig()
	cfg.Notifications.CleanupThreshold = 0
	cfg.Notifications.MaxKeep = -1
	require.NoError(t, SaveConfig(path, cfg))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 100, loaded.Notifications.CleanupThreshold)
	assert.Equal(t, 50, loaded.Notifications.MaxKeep)
}
