package logger

import corelogger "github.com/axelvallin-balder/schedule-builder-sub001/core/logger"

// Logger re-exports the engine-wide logging interface so packages
// outside core need a single import.
type Logger = corelogger.Logger

// NopLogger discards every event. Used in tests and as the default when
// no logger is wired.
type NopLogger struct{}

func (NopLogger) Debugf(string, ...any)         {}
func (NopLogger) Debugw(string, map[string]any) {}
func (NopLogger) Infof(string, ...any)          {}
func (NopLogger) Warnf(string, ...any)          {}
func (NopLogger) Errorf(string, ...any)         {}

// New builds the zerolog-backed Logger tagged with the given component.
// Output format follows APP_ENV.
func New(component string) Logger {
	return NewZerologLogger(component)
}
