package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Component names used for the "component" field
const (
	ComponentApp     = "app"
	ComponentUI      = "ui"
	ComponentLibrary = "library"
	ComponentIndex   = "index"
)

// New creates a JSON logger writing to writer at the given level
func New(writer io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(writer).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// NewConsole creates a human-readable logger on stderr
func NewConsole(level zerolog.Level) zerolog.Logger {
	consoleWriter := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}
	return New(consoleWriter, level)
}

// Level maps the verbose flag to a log level
func Level(verbose bool) zerolog.Level {
	if verbose {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}

// For returns a child logger tagged with the component name
func For(l zerolog.Logger, component string) zerolog.Logger {
	return l.With().Str("component", component).Logger()
}

// Nop returns a disabled logger, used by tests and as a default
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
