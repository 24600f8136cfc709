// Package oteladapters provides OpenTelemetry-backed implementations of the
// query engine observability interfaces, for users who want plug-and-play
// logging and metrics without implementing the interfaces themselves.
package oteladapters

import (
	"log/slog"

	"go.opentelemetry.io/contrib/bridges/otelslog"

	"github.com/kofrasa/activerecord-go/activerecord/postgresengine"
)

// SlogLogger implements postgresengine.Logger on top of a slog.Logger.
// When constructed with NewSlogLogger it routes records through the
// OpenTelemetry slog bridge, giving automatic trace correlation.
type SlogLogger struct {
	logger *slog.Logger
}

// NewSlogLogger creates a logger backed by the OpenTelemetry slog bridge,
// using the global OpenTelemetry LoggerProvider.
func NewSlogLogger(name string) *SlogLogger {
	return &SlogLogger{logger: otelslog.NewLogger(name)}
}

// NewSlogLoggerWithHandler creates a logger using the provided slog.Handler
// as-is, without OpenTelemetry trace correlation. Useful for tests and for
// plain structured logging setups.
func NewSlogLoggerWithHandler(handler slog.Handler) *SlogLogger {
	return &SlogLogger{logger: slog.New(handler)}
}

// Debug logs a debug message.
func (l *SlogLogger) Debug(msg string, args ...any) {
	l.logger.Debug(msg, args...)
}

// Info logs an info message.
func (l *SlogLogger) Info(msg string, args ...any) {
	l.logger.Info(msg, args...)
}

// Warn logs a warning message.
func (l *SlogLogger) Warn(msg string, args ...any) {
	l.logger.Warn(msg, args...)
}

// Error logs an error message.
func (l *SlogLogger) Error(msg string, args ...any) {
	l.logger.Error(msg, args...)
}

// Ensure SlogLogger implements postgresengine.Logger.
var _ postgresengine.Logger = (*SlogLogger)(nil)
