package cliconfig

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger builds the process logger at the level the -v count selects.
func Logger(verbose int) zerolog.Logger {
	level := zerolog.InfoLevel
	switch {
	case verbose == 1:
		level = zerolog.DebugLevel
	case verbose >= 2:
		level = zerolog.TraceLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).
		With().Timestamp().Logger()
}
