// Package logging configures the application's structured logger. The
// TUI owns stdout, so diagnostics go to a file.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// New returns a zerolog logger writing JSON lines to the file at path,
// creating parent directories as needed. An empty path discards all
// output.
func New(path string) (zerolog.Logger, error) {
	if path == "" {
		return zerolog.New(io.Discard), nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return zerolog.Logger{}, fmt.Errorf("creating log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("opening log file %s: %w", path, err)
	}

	logger := zerolog.New(f).
		Level(zerolog.InfoLevel).
		With().
		Timestamp().
		Str("service", "teamboard").
		Logger()
	zerolog.TimeFieldFormat = time.RFC3339

	return logger, nil
}
