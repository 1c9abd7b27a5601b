// Package logging builds the process logger.
package logging

import (
	"io"

	"github.com/rs/zerolog"
)

// New returns a console logger writing to w. Verbose enables debug output;
// otherwise only warnings and errors are shown.
func New(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	console := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "15:04:05",
	}

	return zerolog.New(console).
		Level(level).
		With().
		Timestamp().
		Str("app", "tanager").
		Logger()
}
