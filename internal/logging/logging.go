// Package logging builds the zap logger shared by the client.
package logging

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects the sink. The interactive TUI owns the terminal, so it only
// logs when a file is configured.
type Options struct {
	// File is a path to append JSON log lines to. Empty means no file.
	File string
	// Stderr logs to stderr in console format when File is empty.
	Stderr bool
	Debug  bool
}

// New returns a Nop logger when no sink is selected.
func New(opts Options) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if opts.Debug {
		level = zapcore.DebugLevel
	}

	switch {
	case strings.TrimSpace(opts.File) != "":
		return newFileLogger(strings.TrimSpace(opts.File), level)
	case opts.Stderr:
		config := zap.NewDevelopmentConfig()
		config.Level = zap.NewAtomicLevelAt(level)
		config.DisableStacktrace = true
		config.OutputPaths = []string{"stderr"}
		config.ErrorOutputPaths = []string{"stderr"}
		return config.Build()
	default:
		return zap.NewNop(), nil
	}
}

func newFileLogger(path string, level zapcore.Level) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(level)
	config.Encoding = "json"
	config.EncoderConfig = zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
	config.OutputPaths = []string{path}
	// zap's own errors must not reach the terminal either.
	config.ErrorOutputPaths = []string{path}
	return config.Build()
}

// Sync flushes buffered entries. Safe on nil and on Nop loggers.
func Sync(logger *zap.Logger) error {
	if logger == nil {
		return nil
	}
	return logger.Sync()
}
