// Package logging builds the structured logger shared by all commands.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// DebugEnv enables debug logging when set to "1".
const DebugEnv = "TYPEOUT_DEBUG"

// Config configures the logger.
type Config struct {
	// Output receives log lines. Nil discards everything.
	Output io.Writer
	// Debug lowers the level to debug.
	Debug bool
}

// New returns a text logger for cfg.
func New(cfg Config) *slog.Logger {
	if cfg.Output == nil {
		return slog.New(slog.DiscardHandler)
	}
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cfg.Output, &slog.HandlerOptions{Level: level}))
}

// DebugFromEnv reports whether TYPEOUT_DEBUG=1 is set.
func DebugFromEnv() bool {
	return os.Getenv(DebugEnv) == "1"
}

// OpenFile opens path for appending, creating parent directories.
func OpenFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}
