package common

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger interface for structured logging
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// zeroLogger wraps zerolog.Logger to implement our Logger interface.
// args are key-value pairs.
type zeroLogger struct {
	logger zerolog.Logger
}

func (l *zeroLogger) Debug(msg string, args ...any) {
	l.logger.Debug().Fields(args).Msg(msg)
}

func (l *zeroLogger) Info(msg string, args ...any) {
	l.logger.Info().Fields(args).Msg(msg)
}

func (l *zeroLogger) Warn(msg string, args ...any) {
	l.logger.Warn().Fields(args).Msg(msg)
}

func (l *zeroLogger) Error(msg string, args ...any) {
	l.logger.Error().Fields(args).Msg(msg)
}

// SetupLogger creates a structured logger based on configuration
func SetupLogger(level, format string, w io.Writer) Logger {
	// Parse log level
	var zl zerolog.Level
	switch strings.ToLower(level) {
	case "debug":
		zl = zerolog.DebugLevel
	case "info":
		zl = zerolog.InfoLevel
	case "warn":
		zl = zerolog.WarnLevel
	case "error":
		zl = zerolog.ErrorLevel
	default:
		zl = zerolog.InfoLevel
	}

	if strings.ToLower(format) != "json" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly, NoColor: true}
	}

	return &zeroLogger{
		logger: zerolog.New(w).Level(zl).With().Timestamp().Logger(),
	}
}

// NopLogger discards everything
func NopLogger() Logger {
	return &zeroLogger{logger: zerolog.Nop()}
}
