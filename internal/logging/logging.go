// Package logging builds the subsystem loggers shared by the server and the
// terminal client.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/decred/slog"
	"github.com/jrick/logrotate/rotator"
)

// Subsystem tags.
const (
	Server = "SRVR"
	Room   = "ROOM"
	Game   = "GAME"
	Local  = "LOCL"
)

type LogConfig struct {
	// LogFile, when set, receives a copy of every line and is rotated.
	LogFile     string
	DebugLevel  string
	MaxLogFiles int
	// MaxLogSizeKB is the rotation threshold.
	MaxLogSizeKB int64
	// Stdout disables console output when false and a LogFile is set.
	Stdout bool
}

type LogBackend struct {
	mu      sync.Mutex
	backend *slog.Backend
	rotator *rotator.Rotator
	level   slog.Level
	loggers map[string]slog.Logger
}

type logWriter struct {
	stdout io.Writer
	rot    *rotator.Rotator
}

func (w logWriter) Write(p []byte) (int, error) {
	if w.stdout != nil {
		w.stdout.Write(p)
	}
	if w.rot != nil {
		w.rot.Write(p)
	}
	return len(p), nil
}

// NewLogBackend sets up the backend. The level string is one of trace, debug,
// info, warn, error, critical or off.
func NewLogBackend(cfg LogConfig) (*LogBackend, error) {
	level, ok := slog.LevelFromString(strings.ToLower(cfg.DebugLevel))
	if !ok {
		return nil, fmt.Errorf("invalid log level %q", cfg.DebugLevel)
	}

	w := logWriter{stdout: os.Stdout}
	var r *rotator.Rotator
	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o700); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
		maxFiles := cfg.MaxLogFiles
		if maxFiles <= 0 {
			maxFiles = 3
		}
		sizeKB := cfg.MaxLogSizeKB
		if sizeKB <= 0 {
			sizeKB = 10 * 1024
		}
		var err error
		r, err = rotator.New(cfg.LogFile, sizeKB, false, maxFiles)
		if err != nil {
			return nil, fmt.Errorf("create log rotator: %w", err)
		}
		w.rot = r
		if !cfg.Stdout {
			w.stdout = nil
		}
	}

	return &LogBackend{
		backend: slog.NewBackend(w),
		rotator: r,
		level:   level,
		loggers: make(map[string]slog.Logger),
	}, nil
}

// Logger returns the logger for subsystem, creating it at the backend level.
func (b *LogBackend) Logger(subsystem string) slog.Logger {
	b.mu.Lock()
	defer b.mu.Unlock()
	if l, ok := b.loggers[subsystem]; ok {
		return l
	}
	l := b.backend.Logger(subsystem)
	l.SetLevel(b.level)
	b.loggers[subsystem] = l
	return l
}

// SetLevel changes the level of every subsystem, present and future.
func (b *LogBackend) SetLevel(level slog.Level) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.level = level
	for _, l := range b.loggers {
		l.SetLevel(level)
	}
}

func (b *LogBackend) Close() error {
	if b.rotator == nil {
		return nil
	}
	return b.rotator.Close()
}
