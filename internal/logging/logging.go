// Package logging builds the zap logger used across browser-cli and adds the
// Action category that records one entry per user-visible browser action.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// CategoryAction tags entries written by Logger.Action.
const CategoryAction = "action"

// Options configures New.
type Options struct {
	Level       string   // debug, info, warn, error (default info)
	Format      string   // console or json (default console)
	OutputPaths []string // default stderr
}

// Logger is a *zap.Logger with an Action level entry point.
type Logger struct {
	*zap.Logger
}

// Wrap adapts an existing zap logger. A nil logger discards everything.
func Wrap(l *zap.Logger) *Logger {
	if l == nil {
		l = zap.NewNop()
	}
	return &Logger{Logger: l}
}

// Nop returns a Logger that discards everything.
func Nop() *Logger {
	return Wrap(nil)
}

// ParseLevel maps a level name to a zap level. The Java-style names used by
// older configs (fine, finer, finest) read as debug.
func ParseLevel(s string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info", "action":
		return zapcore.InfoLevel, nil
	case "debug", "fine", "finer", "finest", "trace":
		return zapcore.DebugLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error", "severe":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q (use debug, info, warn or error)", s)
	}
}

// New builds a Logger writing to stderr unless OutputPaths says otherwise.
func New(opts Options) (*Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	var encoderConfig zapcore.EncoderConfig
	encoding := strings.ToLower(opts.Format)
	switch encoding {
	case "", "console":
		encoding = "console"
		encoderConfig = zap.NewDevelopmentEncoderConfig()
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	case "json":
		encoderConfig = zap.NewProductionEncoderConfig()
		encoderConfig.TimeKey = "timestamp"
	default:
		return nil, fmt.Errorf("unknown log format %q (use console or json)", opts.Format)
	}
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	outputs := opts.OutputPaths
	if len(outputs) == 0 {
		outputs = []string{"stderr"}
	}

	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Encoding:         encoding,
		EncoderConfig:    encoderConfig,
		OutputPaths:      outputs,
		ErrorOutputPaths: []string{"stderr"},
	}
	l, err := cfg.Build(zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return Wrap(l), nil
}

// Action records a user-visible browser action at info level.
func (l *Logger) Action(msg string, fields ...zap.Field) {
	if l == nil || l.Logger == nil {
		return
	}
	l.Logger.Info(msg, append(fields, zap.String("category", CategoryAction))...)
}

// Named returns a child logger scoped to a component.
func (l *Logger) Named(name string) *Logger {
	return Wrap(l.Logger.Named(name))
}

// With returns a child logger carrying fields.
func (l *Logger) With(fields ...zap.Field) *Logger {
	return Wrap(l.Logger.With(fields...))
}
