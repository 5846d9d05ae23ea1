package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ZerologLogger is the zerolog-backed Logger implementation.
type ZerologLogger struct {
	log zerolog.Logger
}

// NewZerologLogger returns a Logger emitting JSON lines on stdout, or a
// human-readable console stream when APP_ENV=dev. Every event carries
// the given component as a field.
func NewZerologLogger(component string) Logger {
	z := zerolog.New(writerFor(os.Getenv("APP_ENV"))).
		With().Timestamp().Str("component", component).Logger()
	return &ZerologLogger{log: z}
}

func writerFor(env string) io.Writer {
	if strings.ToLower(env) == "dev" {
		return zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}
	return os.Stdout
}

func (l *ZerologLogger) Debugf(format string, args ...any) {
	l.log.Debug().Msgf(format, args...)
}

// Debugw logs a message with structured fields attached.
func (l *ZerologLogger) Debugw(msg string, fields map[string]any) {
	ev := l.log.Debug()
	for k, v := range fields {
		ev = ev.Interface(k, v)
	}
	ev.Msg(msg)
}

func (l *ZerologLogger) Infof(format string, args ...any) {
	l.log.Info().Msgf(format, args...)
}

func (l *ZerologLogger) Warnf(format string, args ...any) {
	l.log.Warn().Msgf(format, args...)
}

func (l *ZerologLogger) Errorf(format string, args ...any) {
	l.log.Error().Msgf(format, args...)
}
