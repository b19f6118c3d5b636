package secsheets

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// TerminalPageSize returns the number of table rows that fit on the
// current terminal, leaving two lines for headers and borders. When the
// height cannot be determined (not a tty, piped output) or is too small
// to be useful, it falls back to DefaultPageSize.
func TerminalPageSize() int {
	_, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return DefaultPageSize
	}
	rows := height - 2
	if rows < 1 {
		return DefaultPageSize
	}
	return rows
}

// ClearTerminal clears the screen and homes the cursor using ANSI escape
// sequences.
func ClearTerminal(w io.Writer) {
	fmt.Fprint(w, "\033[2J\033[H")
}
