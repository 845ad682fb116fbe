package stratalog

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mattn/go-isatty"
)

// Setup configures the global slog logger based on display options and log level.
// It automatically handles TTY detection and respects shell redirection (2>).
//
// Logging behavior:
//   - isInteractive=true + stderr is terminal: Logs to timestamped file in temp dir
//     (writing to stderr would corrupt the TUI)
//   - isInteractive=true + stderr redirected: Logs to stderr
//   - isInteractive=false: Logs to stderr
//
// Returns the fully qualified log file path (empty string if logging to stderr).
func Setup(isInteractive bool, level slog.Level) (string, error) {
	var output io.Writer
	var logFilePath string

	if isInteractive && isatty.IsTerminal(os.Stderr.Fd()) {
		timestamp := time.Now().Format("2006-01-02T15-04-05")
		logFileName := fmt.Sprintf("stratus-debug-%s.log", timestamp)
		logFilePath = filepath.Join(os.TempDir(), logFileName)

		logFile, err := os.OpenFile(logFilePath, //nolint:gosec // Log file in temp directory
			os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
		if err != nil {
			return "", err
		}

		output = logFile
	} else {
		output = os.Stderr
		logFilePath = ""
	}

	handler := slog.NewTextHandler(output, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))

	return logFilePath, nil
}

// Disable configures slog to discard all log output.
// This is used when --verbose is not set.
func Disable() {
	handler := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.LevelError + 1, // Higher than any log level, discards everything
	})
	slog.SetDefault(slog.New(handler))
}

// SetupForTesting configures slog to write to a custom writer for testing.
// The original logger is automatically restored when the test completes.
func SetupForTesting(t *testing.T, w io.Writer, level slog.Level) {
	originalLogger := slog.Default()

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))

	t.Cleanup(func() {
		slog.SetDefault(originalLogger)
	})
}
