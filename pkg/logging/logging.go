// Package logging sets up the process-wide slog backend. Output always goes
// to stdout; an optional rotated log file can be layered on top.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/decred/slog"
	"github.com/jrick/logrotate/rotator"
)

// LogConfig holds the knobs for a LogBackend.
type LogConfig struct {
	// LogFile is the path of the rotated log file. Empty disables file
	// logging.
	LogFile string

	// DebugLevel is the level applied to every logger minted from the
	// backend: trace, debug, info, warn, error or critical. Empty means
	// info.
	DebugLevel string

	// MaxLogFiles is how many rolled files to keep. Zero keeps them all.
	MaxLogFiles int
}

// LogBackend is a factory for subsystem loggers sharing one output.
type LogBackend struct {
	backend *slog.Backend
	level   slog.Level
	rotator *rotator.Rotator
}

// NewLogBackend initializes logging from the given config.
func NewLogBackend(cfg LogConfig) (*LogBackend, error) {
	b := &LogBackend{level: slog.LevelInfo}
	if cfg.DebugLevel != "" {
		level, ok := slog.LevelFromString(cfg.DebugLevel)
		if !ok {
			return nil, fmt.Errorf("unknown debug level %q", cfg.DebugLevel)
		}
		b.level = level
	}

	var w io.Writer = os.Stdout
	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o700); err != nil {
			return nil, fmt.Errorf("creating log dir: %w", err)
		}
		r, err := rotator.New(cfg.LogFile, 32*1024, false, cfg.MaxLogFiles)
		if err != nil {
			return nil, fmt.Errorf("creating log rotator: %w", err)
		}
		b.rotator = r
		w = io.MultiWriter(os.Stdout, r)
	}
	b.backend = slog.NewBackend(w)
	return b, nil
}

// Logger returns a logger for the given subsystem tag at the configured
// level.
func (b *LogBackend) Logger(tag string) slog.Logger {
	log := b.backend.Logger(tag)
	log.SetLevel(b.level)
	return log
}

// Close flushes and closes the rotated log file, if any.
func (b *LogBackend) Close() error {
	if b.rotator != nil {
		return b.rotator.Close()
	}
	return nil
}
