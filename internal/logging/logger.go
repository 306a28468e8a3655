// Package logging attaches a zerolog logger to a context.
package logging

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	maxLogSizeMB  = 10
	maxLogBackups = 3
	maxLogAgeDays = 30
)

// Config defines how the logger writes.
type Config struct {
	// Writer receives console output. Nil means stderr.
	Writer io.Writer
	// File, when set, additionally receives JSON lines with rotation.
	File string
	// Plain disables the human console format (used by tests).
	Plain   bool
	NoColor bool
	Level   zerolog.Level
}

// New returns a copy of ctx carrying a logger built from cfg.
func New(ctx context.Context, cfg Config) context.Context {
	var console io.Writer = cfg.Writer
	if console == nil {
		console = os.Stderr
	}
	if !cfg.Plain {
		console = zerolog.ConsoleWriter{Out: console, NoColor: cfg.NoColor, TimeFormat: "15:04:05"}
	}

	w := console
	if cfg.File != "" {
		w = zerolog.MultiLevelWriter(console, &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    maxLogSizeMB,
			MaxBackups: maxLogBackups,
			MaxAge:     maxLogAgeDays,
		})
	}

	logger := zerolog.New(w).With().Timestamp().Logger().Level(cfg.Level)
	return logger.WithContext(ctx)
}

// Get returns the logger on ctx, or a disabled logger if there is none.
func Get(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

// ParseLevel maps a level name to a zerolog level, defaulting to warn.
func ParseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || s == "" {
		return zerolog.WarnLevel
	}
	return lvl
}
