package main

import (
	"io"

	"github.com/rs/zerolog"
)

// newLogger writes human-readable records to w. Quiet keeps errors only,
// verbose adds debug detail; the default shows warnings.
func newLogger(w io.Writer, quiet, verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	switch {
	case quiet:
		level = zerolog.ErrorLevel
	case verbose:
		level = zerolog.DebugLevel
	}

	out := zerolog.ConsoleWriter{
		Out:          w,
		NoColor:      true,
		PartsExclude: []string{zerolog.TimestampFieldName},
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
