// Package logging builds the charmbracelet/log logger that commands share
// through their context.
package logging

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
)

const prefix = "quotabar"

// Flags holds the CLI flags that affect logging.
type Flags struct {
	Verbose bool
	Quiet   bool
	NoColor bool
	JSON    bool
}

// Level maps the flags to a log level. Quiet wins over verbose.
func (f Flags) Level() log.Level {
	switch {
	case f.Quiet:
		return log.ErrorLevel
	case f.Verbose:
		return log.DebugLevel
	default:
		return log.WarnLevel
	}
}

// New creates a logger writing to w. Verbose output carries timestamps.
func New(w io.Writer, f Flags) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		Prefix:          prefix,
		Level:           f.Level(),
		ReportTimestamp: f.Verbose && !f.Quiet,
		TimeFormat:      time.TimeOnly,
	})
	if f.NoColor {
		l.SetColorProfile(termenv.Ascii)
	}
	if f.JSON {
		l.SetFormatter(log.JSONFormatter)
	}
	return l
}
