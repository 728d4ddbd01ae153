package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/weavex/quotabar/internal/config"
	"github.com/weavex/quotabar/internal/display"
	"github.com/weavex/quotabar/internal/logging"
)

// Command output goes to outWriter and diagnostics to errWriter. Tests swap
// both.
var (
	outWriter io.Writer = os.Stdout
	errWriter io.Writer = os.Stderr
)

func out(format string, a ...any) {
	_, _ = fmt.Fprintf(outWriter, format, a...)
}

func outln(a ...any) {
	_, _ = fmt.Fprintln(outWriter, a...)
}

func outJSON(v any) error {
	return display.OutputJSON(outWriter, v)
}

// newLogger builds the diagnostics logger from the persistent flags and
// the color setting of cfg.
func newLogger(cfg config.Config) *log.Logger {
	return logging.New(errWriter, logging.Flags{
		Verbose: verbose,
		Quiet:   quiet,
		NoColor: colorDisabled(cfg),
		JSON:    jsonOutput,
	})
}
