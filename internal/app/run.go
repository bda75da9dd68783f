package app

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/teamboard/internal/digest"
	"github.com/nhle/teamboard/internal/logging"
	"github.com/nhle/teamboard/internal/model"
	"github.com/nhle/teamboard/internal/notify"
	"github.com/nhle/teamboard/internal/store"
)

// Run loads the configuration, opens the database, wires the services,
// and runs the program until the user quits. An empty configPath uses
// the default location.
func Run(configPath string) error {
	if configPath == "" {
		configPath = model.DefaultConfigPath()
	}

	cfg, err := model.LoadConfig(configPath)
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.LogPath)
	if err != nil {
		return fmt.Errorf("opening log: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	s, err := store.NewSQLiteStore(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer s.Close()

	svc := notify.NewService(s, notify.CleanupPolicy{
		Threshold: cfg.Notifications.CleanupThreshold,
		Keep:      cfg.Notifications.MaxKeep,
	}, log)
	digests := digest.NewWriter(cfg.Digest.OutboxDir, cfg.Digest.FromAddress)

	log.Info().Str("config", configPath).Msg("starting")

	p := tea.NewProgram(New(s, cfg, svc, digests, log), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}
