// Package bakclog configures the structured logger the compiler's stages
// share. Every stage logs through this package rather than the standard
// library's log package, so diagnostics carry structured fields (stage,
// line, column) instead of ad-hoc formatted strings.
package bakclog

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Logger is the process-wide structured logger. Assigning a logger built
// by New replaces it; tests may swap it for one writing to a buffer.
var Logger = New(os.Stderr, false)

// New builds a zerolog.Logger writing to w. When pretty is true, output is
// a human-readable console writer; otherwise it's newline-delimited JSON
// (the default Logger, which the CLI uses in every mode), suited to redirection into a log
// aggregator.
func New(w io.Writer, pretty bool) zerolog.Logger {
	out := w
	if pretty {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}
	return zerolog.New(out).With().Timestamp().Logger()
}

// SetLevel adjusts the minimum level Logger emits.
func SetLevel(level zerolog.Level) {
	Logger = Logger.Level(level)
}

// Stage returns a child logger tagged with the pipeline stage name, so
// every line it emits is attributable to lexing, parsing, semantic
// analysis, lowering, optimizing, or codegen.
func Stage(name string) zerolog.Logger {
	return Logger.With().Str("stage", name).Logger()
}
