// Package logging is the diagnostic logger. It writes to stderr so log
// lines never land inside a widget drawn on the terminal.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// Logger is the global structured logger.
var Logger = newLogger(os.Stderr, log.WarnLevel, false)

func newLogger(w io.Writer, level log.Level, jsonOutput bool) *log.Logger {
	formatter := log.TextFormatter
	if jsonOutput {
		formatter = log.JSONFormatter
	}
	return log.NewWithOptions(w, log.Options{
		Prefix:    "p",
		Level:     level,
		Formatter: formatter,
	})
}

// Setup configures the logger. verbose forces debug level; otherwise level
// is parsed from the configured log_level. A nil w means stderr.
func Setup(level string, verbose, jsonOutput bool, w io.Writer) error {
	lvl := log.WarnLevel
	if level != "" {
		parsed, err := log.ParseLevel(level)
		if err != nil {
			return fmt.Errorf("log_level %q: %w", level, err)
		}
		lvl = parsed
	}
	if verbose {
		lvl = log.DebugLevel
	}
	if w == nil {
		w = os.Stderr
	}
	Logger = newLogger(w, lvl, jsonOutput)
	return nil
}

// Debug logs a debug message.
func Debug(msg string, keyvals ...any) {
	Logger.Debug(msg, keyvals...)
}

// Info logs an info message.
func Info(msg string, keyvals ...any) {
	Logger.Info(msg, keyvals...)
}

// Warn logs a warning message.
func Warn(msg string, keyvals ...any) {
	Logger.Warn(msg, keyvals...)
}

// Error logs an error message.
func Error(msg string, keyvals ...any) {
	Logger.Error(msg, keyvals...)
}

// With returns a logger with additional key/value pairs.
func With(keyvals ...any) *log.Logger {
	return Logger.With(keyvals...)
}
