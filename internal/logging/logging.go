// Package logging builds the process-wide zerolog logger.
package logging

import (
	"io"
	"log"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Level wraps zerolog.Level so it can be decoded by envconfig
type Level zerolog.Level

// Decode implements envconfig.Decoder
func (l *Level) Decode(value string) error {
	level, err := zerolog.ParseLevel(value)
	if err != nil {
		return err
	}
	*l = Level(level)
	return nil
}

func (l Level) String() string {
	return zerolog.Level(l).String()
}

// Options controls logger construction
type Options struct {
	Level  string
	Pretty bool
	Out    io.Writer
}

// New returns a configured logger and routes the std log package through it
func New(opts Options) zerolog.Logger {
	var lvl Level
	if err := lvl.Decode(opts.Level); err != nil || opts.Level == "" {
		lvl = Level(zerolog.InfoLevel)
	}
	zerolog.SetGlobalLevel(zerolog.Level(lvl))
	zerolog.DurationFieldUnit = time.Millisecond

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	if opts.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	logger := zerolog.New(out).With().Timestamp().Str("service", "kidsmoney").Logger()
	UseAsStandardLoggerOutput(&logger)
	return logger
}

// UseAsStandardLoggerOutput uses the specified logger as the go std log output
func UseAsStandardLoggerOutput(logger *zerolog.Logger) {
	log.SetFlags(0)
	log.SetOutput(logger)
}

// Nop returns a disabled logger, handy in tests
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
