package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New constructs a zerolog.Logger writing to stderr. Development mode logs at
// debug level through the console writer; everything else is JSON at info.
func New(appEnv string, verbose bool) zerolog.Logger {
	return NewWithWriter(os.Stderr, appEnv, verbose)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(w io.Writer, appEnv string, verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if appEnv == "development" || verbose {
		level = zerolog.DebugLevel
	}

	logger := zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Logger()

	if appEnv == "development" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339})
	}

	return logger
}
