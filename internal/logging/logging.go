// Package logging provides structured logging setup for fieldlog.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup initializes the global zerolog logger.
// Dev mode uses human-readable console output at debug level; prod uses JSON
// at info level.
func Setup(devMode bool) {
	log.Logger = New(os.Stderr, devMode)
}

// New builds a logger writing to w with the same rules as Setup.
func New(w io.Writer, devMode bool) zerolog.Logger {
	if devMode {
		out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
		return zerolog.New(out).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	}
	return zerolog.New(w).Level(zerolog.InfoLevel).With().Timestamp().Logger()
}
