package output

import (
	"os"

	"golang.org/x/term"
)

// IsTTY reports whether stdout is attached to a terminal.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// StylesForTerminal returns GetStyles on a terminal and PlainStyles otherwise.
func StylesForTerminal() *Styles {
	if IsTTY() {
		return GetStyles()
	}
	return PlainStyles()
}
