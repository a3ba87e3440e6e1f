// Package logger builds charmbracelet/log loggers for the panama packages.
// Loggers write to stderr so that stdout stays free for the serve protocol.
package logger

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// New creates a prefixed charm log that respects the global log level.
func New(prefix string) *log.Logger {
	return NewWithConfig(os.Stderr, prefix, log.GetLevel(), false, true, log.TextFormatter)
}

// NewWithConfig creates a charm log with custom config
func NewWithConfig(w io.Writer, prefix string, level log.Level, caller bool, showTimestamp bool, fmt log.Formatter) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix:          prefix,
		Level:           level,
		ReportCaller:    caller,
		ReportTimestamp: showTimestamp,
		Formatter:       fmt,
	})
}

// ParseLevel maps a level name to a log level, falling back to def.
func ParseLevel(name string, def log.Level) log.Level {
	if name == "" {
		return def
	}
	level, err := log.ParseLevel(name)
	if err != nil {
		log.Warnf("Unknown log level %q, using %s", name, def)
		return def
	}
	return level
}
