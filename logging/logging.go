package logging

import (
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

const TimeFormat = "2006-01-02 15:04:05"

// New returns a zerolog Logger with timestamps. Format 'console' gives human
// readable lines, 'json' gives one JSON object per line and 'auto' (or
// anything else) picks console output for a terminal and JSON otherwise.
func New(w io.Writer, format, level string, debug bool) zerolog.Logger {
	var out io.Writer = w

	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
	case "console":
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: TimeFormat, NoColor: !terminal(w)}
	default:
		if terminal(w) {
			out = zerolog.ConsoleWriter{Out: w, TimeFormat: TimeFormat}
		}
	}

	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	if debug {
		lvl = zerolog.DebugLevel
	}

	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}

func terminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
