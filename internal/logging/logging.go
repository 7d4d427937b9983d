// Package logging builds the process logger: a zerolog console writer for
// humans, or plain JSON lines when output is machine-read.
package logging

import (
	"io"

	"github.com/rs/zerolog"
)

const consoleTimeFormat = "15:04:05.000"

type Options struct {
	Level zerolog.Level
	// JSON writes one JSON object per line instead of the console format.
	JSON    bool
	NoColor bool
}

func New(w io.Writer, opts Options) zerolog.Logger {
	if w == nil {
		return zerolog.Nop()
	}
	out := w
	if !opts.JSON {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: consoleTimeFormat, NoColor: opts.NoColor}
	}
	return zerolog.New(out).Level(opts.Level).With().Timestamp().Logger()
}

// Component derives a logger tagged with the emitting component.
func Component(l zerolog.Logger, name string) zerolog.Logger {
	return l.With().Str("component", name).Logger()
}
