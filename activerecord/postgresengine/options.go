package postgresengine

import (
	"time"
)

// Logger interface for SQL query logging, operational messages, warnings,
// and error reporting. A nil logger disables all logging.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// MetricsCollector interface for collecting engine performance metrics.
// Implementations are free to map these onto any metrics backend.
type MetricsCollector interface {
	RecordDuration(metric string, duration time.Duration, labels map[string]string)
	IncrementCounter(metric string, labels map[string]string)
	RecordValue(metric string, value float64, labels map[string]string)
}

// Option defines a functional option for configuring an Executor.
type Option func(*Executor) error

// WithLogger sets the logger for the Executor.
//
// Debug level: SQL statements with execution timing (development use)
// Info level: operation summaries with row counts and durations
// Warn level: non-critical issues like cleanup failures
// Error level: failures that cause operation errors.
func WithLogger(logger Logger) Option {
	return func(e *Executor) error {
		e.logger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the Executor. The collector
// receives per-operation durations and error counters.
func WithMetrics(collector MetricsCollector) Option {
	return func(e *Executor) error {
		e.metricsCollector = collector
		return nil
	}
}
