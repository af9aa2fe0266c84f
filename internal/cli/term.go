package cli

import (
	"os"

	"golang.org/x/term"
)

// defaultWidth is used when the output is not a terminal.
const defaultWidth = 80

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// terminalWidth returns the column count of f, or defaultWidth.
func terminalWidth(f *os.File) int {
	if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
		return w
	}
	return defaultWidth
}

// outputWidth resolves the configured width against the terminal.
func (c *CLI) outputWidth(f *os.File) int {
	if c.Config.Width > 0 {
		return c.Config.Width
	}
	return terminalWidth(f)
}
