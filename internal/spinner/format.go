package spinner

import (
	"strings"
)

// CompletionInfo describes a finished billing request.
type CompletionInfo struct {
	Endpoint string
	Err      error
}

// Success reports whether the request succeeded.
func (c CompletionInfo) Success() bool { return c.Err == nil }

// ShouldShow returns true if the spinner should be displayed.
// The spinner is hidden for quiet mode, JSON output, or non-TTY (piped) output.
func ShouldShow(quiet, json, nonTTY bool) bool {
	return !quiet && !json && !nonTTY
}

// FormatTitle formats the spinner title showing in-flight endpoints.
func FormatTitle(inflight []string) string {
	if len(inflight) == 0 {
		return "Fetching quota..."
	}
	return "Fetching " + strings.Join(inflight, ", ") + "..."
}
