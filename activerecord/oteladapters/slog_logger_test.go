package oteladapters_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kofrasa/activerecord-go/activerecord/oteladapters"
)

func Test_SlogLogger_RoutesAllLevelsToHandler(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})

	logger := oteladapters.NewSlogLoggerWithHandler(handler)

	logger.Debug("executed sql", "duration_ms", 1.5)
	logger.Info("select completed", "table", "users")
	logger.Warn("cleanup failed")
	logger.Error("query failed", "error", "connection reset")

	output := buf.String()
	assert.Contains(t, output, "level=DEBUG")
	assert.Contains(t, output, "executed sql")
	assert.Contains(t, output, "duration_ms=1.5")
	assert.Contains(t, output, "level=INFO")
	assert.Contains(t, output, "table=users")
	assert.Contains(t, output, "level=WARN")
	assert.Contains(t, output, "level=ERROR")
	assert.Contains(t, output, "connection reset")
}

func Test_NewSlogLogger_UsesTheBridge(t *testing.T) {
	logger := oteladapters.NewSlogLogger("activerecord-test")

	// the global provider is a no-op by default; logging must not panic
	assert.NotPanics(t, func() {
		logger.Info("noop provider message")
	})
}
