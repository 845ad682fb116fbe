package stratalog

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetupForTesting(t *testing.T) {
	var buf bytes.Buffer

	SetupForTesting(t, &buf, slog.LevelDebug)

	slog.Debug("debug message", "dag", "demo")
	slog.Info("info message", "task", "extract")
	slog.Error("error message", "attempt", 2)

	output := buf.String()
	assert.Contains(t, output, "debug message")
	assert.Contains(t, output, "info message")
	assert.Contains(t, output, "error message")
	assert.Contains(t, output, "dag=demo")
	assert.Contains(t, output, "task=extract")
	assert.Contains(t, output, "attempt=2")
}

func TestSetupForTestingLogLevel(t *testing.T) {
	var buf bytes.Buffer

	SetupForTesting(t, &buf, slog.LevelInfo)

	slog.Debug("debug message")
	slog.Info("info message")

	output := buf.String()
	assert.NotContains(t, output, "debug message")
	assert.Contains(t, output, "info message")
}

func TestDisable(t *testing.T) {
	var buf bytes.Buffer
	SetupForTesting(t, &buf, slog.LevelDebug)

	Disable()
	slog.Error("should be discarded")

	assert.Empty(t, buf.String())
}
