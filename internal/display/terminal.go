package display

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
)

// stdoutSize is swapped by tests.
var stdoutSize = func() (int, bool) {
	fd := os.Stdout.Fd()
	if !term.IsTerminal(fd) {
		return 0, false
	}
	w, _, err := term.GetSize(fd)
	return w, err == nil && w > 0
}

// FitsWidth reports whether every line of s fits on stdout. Output that is
// not going to a terminal always fits.
func FitsWidth(s string) bool {
	w, ok := stdoutSize()
	return !ok || lipgloss.Width(s) <= w
}
