package output

import (
	"os"

	"golang.org/x/term"
)

// Separator width bounds.
const (
	DefaultWidth = 80
	MaxWidth     = 120
)

// TerminalWidth returns the column count of f when it is a terminal, capped
// at MaxWidth, or DefaultWidth otherwise.
func TerminalWidth(f *os.File) int {
	fd := int(f.Fd()) // #nosec G115 -- file descriptors fit in int
	if !term.IsTerminal(fd) {
		return DefaultWidth
	}
	width, _, err := term.GetSize(fd)
	if err != nil || width <= 0 {
		return DefaultWidth
	}
	if width > MaxWidth {
		return MaxWidth
	}
	return width
}
