// Package logging provides the small leveled logger used across the module and
// adapters for zap and logrus.
package logging

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Fields is a minimal structured field map for logs.
type Fields map[string]any

// Logger is a tiny leveled logger. If a component receives a nil Logger it
// falls back to NopLogger.
type Logger interface {
	Debug(msg string, f Fields)
	Info(msg string, f Fields)
	Warn(msg string, f Fields)
	Error(msg string, f Fields)
}

// NopLogger discards every entry.
type NopLogger struct{}

func (NopLogger) Debug(string, Fields) {}
func (NopLogger) Info(string, Fields)  {}
func (NopLogger) Warn(string, Fields)  {}
func (NopLogger) Error(string, Fields) {}

// OrNop returns l, or NopLogger when l is nil.
func OrNop(l Logger) Logger {
	if l == nil {
		return NopLogger{}
	}
	return l
}

// Backends and formats accepted by New.
const (
	BackendZap    = "zap"
	BackendLogrus = "logrus"

	FormatJSON    = "json"
	FormatConsole = "console"
)

// Config selects and tunes the logging backend.
type Config struct {
	Backend string
	Level   string
	Format  string
}

// New builds a Logger for cfg. The returned sync function flushes buffered
// entries and should be deferred by the caller.
func New(cfg Config) (Logger, func() error, error) {
	switch cfg.Backend {
	case "", BackendZap:
		return newZap(cfg)
	case BackendLogrus:
		return newLogrus(cfg)
	default:
		return nil, nil, fmt.Errorf("logging: unknown backend %q", cfg.Backend)
	}
}

func newZap(cfg Config) (Logger, func() error, error) {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		parsed, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, nil, fmt.Errorf("logging: %w", err)
		}
		level = parsed
	}

	zcfg := zap.NewProductionConfig()
	if cfg.Format == FormatConsole {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)

	l, err := zcfg.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("logging: build zap logger: %w", err)
	}
	return ZapLogger{L: l}, l.Sync, nil
}

func newLogrus(cfg Config) (Logger, func() error, error) {
	l := logrus.New()
	l.SetOutput(os.Stderr)

	if cfg.Level != "" {
		level, err := logrus.ParseLevel(cfg.Level)
		if err != nil {
			return nil, nil, fmt.Errorf("logging: %w", err)
		}
		l.SetLevel(level)
	}

	if cfg.Format == FormatConsole {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		l.SetFormatter(&logrus.JSONFormatter{})
	}

	return LogrusLogger{E: logrus.NewEntry(l)}, func() error { return nil }, nil
}
