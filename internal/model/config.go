package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// NotificationConfig holds the soft-bound policy for per-recipient
// notification logs.
type NotificationConfig struct {
	// CleanupThreshold is the log size that triggers pruning.
	CleanupThreshold int `mapstructure:"cleanup_threshold" yaml:"cleanup_threshold"`

	// MaxKeep is how many entries survive a prune.
	MaxKeep int `mapstructure:"max_keep" yaml:"max_keep"`
}

// UserConfig identifies the member using this client.
type UserConfig struct {
	// ID is the member id of the signed-in user. Mentions of this id
	// authored by this user never produce a self-notification.
	ID string `mapstructure:"id" yaml:"id"`
}

// DigestConfig controls the email digest outbox.
type DigestConfig struct {
	// OutboxDir is where rendered digest messages are written for an
	// MTA to pick up.
	OutboxDir string `mapstructure:"outbox_dir" yaml:"outbox_dir"`

	// FromAddress appears in the From header of digest messages.
	FromAddress string `mapstructure:"from_address" yaml:"from_address"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	// DatabasePath is the SQLite database location.
	DatabasePath string `mapstructure:"database_path" yaml:"database_path"`

	// LogPath is where diagnostic logs are written. TUI programs
	// cannot log to stdout.
	LogPath string `mapstructure:"log_path" yaml:"log_path"`

	User          UserConfig         `mapstructure:"user" yaml:"user"`
	Notifications NotificationConfig `mapstructure:"notifications" yaml:"notifications"`
	Digest        DigestConfig       `mapstructure:"digest" yaml:"digest"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/teamboard/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "teamboard", "config.yaml")
}

// defaultDataDir returns the directory for the database and logs.
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".local", "share", "teamboard")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	dataDir := defaultDataDir()
	return &AppConfig{
		DatabasePath: filepath.Join(dataDir, "teamboard.db"),
		LogPath:      filepath.Join(dataDir, "teamboard.log"),
		Notifications: NotificationConfig{
			CleanupThreshold: 100,
			MaxKeep:          50,
		},
		Digest: DigestConfig{
			OutboxDir:   filepath.Join(dataDir, "outbox"),
			FromAddress: "teamboard@localhost",
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	defaults := defaultAppConfig()

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("database_path", defaults.DatabasePath)
	v.SetDefault("log_path", defaults.LogPath)
	v.SetDefault("notifications.cleanup_threshold", defaults.Notifications.CleanupThreshold)
	v.SetDefault("notifications.max_keep", defaults.Notifications.MaxKeep)
	v.SetDefault("digest.outbox_dir", defaults.Digest.OutboxDir)
	v.SetDefault("digest.from_address", defaults.Digest.FromAddress)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaults, nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaults, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Notifications.CleanupThreshold <= 0 {
		cfg.Notifications.CleanupThreshold = defaults.Notifications.CleanupThreshold
	}
	if cfg.Notifications.MaxKeep <= 0 {
		cfg.Notifications.MaxKeep = defaults.Notifications.MaxKeep
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("database_path", cfg.DatabasePath)
	v.Set("log_path", cfg.LogPath)
	v.Set("user", cfg.User)
	v.Set("notifications", cfg.Notifications)
	v.Set("digest", cfg.Digest)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
