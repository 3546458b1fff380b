// Package logger builds the charmbracelet loggers used by the host layers.
package logger

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// New creates a text logger on stderr that follows the global log level.
func New(prefix string) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          prefix,
		ReportTimestamp: true,
		Formatter:       log.TextFormatter,
		Level:           log.GetLevel(),
	})
}

// NewWithConfig creates a logger with explicit options, mostly for tests and the CLI.
func NewWithConfig(w io.Writer, prefix string, level log.Level, showTimestamp bool, formatter log.Formatter) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix:          prefix,
		Level:           level,
		ReportTimestamp: showTimestamp,
		Formatter:       formatter,
	})
}

// SetLevel parses level ("debug", "info", ...) and applies it globally.
// Unknown levels leave the current level untouched and return the error.
func SetLevel(level string) error {
	parsed, err := log.ParseLevel(level)
	if err != nil {
		return err
	}
	log.SetLevel(parsed)
	return nil
}

// Discard returns a logger that writes nothing.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}
