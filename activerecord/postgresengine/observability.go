package postgresengine

import (
	"math"
	"time"
)

const (
	metricOperationDuration = "activerecord_operation_duration"
	metricOperationErrors   = "activerecord_operation_errors"
	labelOperation          = "operation"
	labelTable              = "table"
)

// logQueryWithDuration logs SQL statements with execution time at debug
// level if the logger is configured.
func (e *Executor) logQueryWithDuration(sqlQuery string, action string, duration time.Duration) {
	if e.logger != nil {
		e.logger.Debug(logMsgSQLExecuted+action, logAttrDurationMS, toMilliseconds(duration), logAttrQuery, sqlQuery)
	}
}

// logOperation logs operational information at info level if the logger is configured.
func (e *Executor) logOperation(action string, args ...any) {
	if e.logger != nil {
		e.logger.Info(logMsgOperation+action, args...)
	}
}

// logError logs error information at the error level if the logger is configured.
func (e *Executor) logError(message string, err error, args ...any) {
	if e.logger != nil {
		allArgs := []any{logAttrError, err.Error()}
		allArgs = append(allArgs, args...)
		e.logger.Error(message, allArgs...)
	}

	if e.metricsCollector != nil {
		e.metricsCollector.IncrementCounter(metricOperationErrors, map[string]string{labelTable: e.table})
	}
}

// recordDuration records an operation duration if the collector is configured.
func (e *Executor) recordDuration(operation string, duration time.Duration) {
	if e.metricsCollector != nil {
		labels := map[string]string{
			labelOperation: operation,
			labelTable:     e.table,
		}
		e.metricsCollector.RecordDuration(metricOperationDuration, duration, labels)
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}
