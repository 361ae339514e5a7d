// Package logging wraps charmbracelet/log for the formatter pipeline.
package logging

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

//nolint:gochecknoglobals // package-level logger shared by every phase
var (
	defaultMu     sync.Mutex
	defaultLogger *log.Logger
)

// New creates a logger writing to stderr at the given level.
// Valid levels: "trace", "debug", "info", "warn", "error".
func New(level string) *log.Logger {
	return NewWriter(os.Stderr, level)
}

// NewWriter creates a logger writing to w.
func NewWriter(w io.Writer, level string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: false,
		ReportCaller:    false,
	})
	setLoggerLevel(logger, level)
	return logger
}

func setLoggerLevel(logger *log.Logger, level string) {
	switch strings.ToLower(level) {
	case "trace", "debug":
		logger.SetLevel(log.DebugLevel)
	case "info":
		logger.SetLevel(log.InfoLevel)
	case "warn", "warning":
		logger.SetLevel(log.WarnLevel)
	case "error":
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.WarnLevel)
	}
}

// Default returns the package-level default logger.
func Default() *log.Logger {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultLogger == nil {
		defaultLogger = New("warn")
	}
	return defaultLogger
}

// SetDefault sets the package-level default logger.
func SetDefault(logger *log.Logger) {
	defaultMu.Lock()
	defaultLogger = logger
	defaultMu.Unlock()
}

// SetLevel updates the log level of the default logger.
func SetLevel(level string) {
	setLoggerLevel(Default(), level)
}

// Tracing reports whether level asks for layout and cursor trace events.
func Tracing(level string) bool {
	return strings.EqualFold(level, "trace")
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return NewWriter(io.Discard, "error")
}
