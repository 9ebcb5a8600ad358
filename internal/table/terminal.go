package table

import (
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// FallbackWidth is used when the output is not a terminal.
const FallbackWidth = 80

// TerminalWidth reports the column count of w.
// COLUMNS overrides detection; non-terminal writers get FallbackWidth.
func TerminalWidth(w io.Writer) int {
	if v := strings.TrimSpace(os.Getenv("COLUMNS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return FallbackWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return FallbackWidth
	}
	return width
}
