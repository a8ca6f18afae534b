// Package util provides the logging, statistics and diagnostic formatting
// helpers shared by the send and listen paths.
package util

import (
	"fmt"
	"io"
	"os"

	"github.com/pterm/pterm"
)

// logger writes time-stamped leveled lines to stderr, keeping stdout for
// datagram reports.
var logger = pterm.DefaultLogger.
	WithTime(true).
	WithMaxWidth(1000).
	WithWriter(os.Stderr)

func init() {
	logger.TimeFormat = "02 Jan 15:04:05"
}

func LogDebug(format string, args ...any) {
	logger.Debug(fmt.Sprintf(format, args...))
}

func LogInfo(format string, args ...any) {
	logger.Info(fmt.Sprintf(format, args...))
}

func LogWarning(format string, args ...any) {
	logger.Warn(fmt.Sprintf(format, args...))
}

func LogError(format string, args ...any) {
	logger.Error(fmt.Sprintf(format, args...))
}

// EnableDebug lowers the log level so LogDebug lines are shown.
func EnableDebug() {
	logger.Level = pterm.LogLevelDebug
}

// SetLogOutput redirects all log lines to w and returns the previous
// writer.
func SetLogOutput(w io.Writer) io.Writer {
	prev := logger.Writer
	logger.Writer = w
	return prev
}
