package ui

import (
	"io"
	"os"

	"golang.org/x/term"
)

// TerminalWidth returns the width in columns of w when it is a terminal,
// and Display.DefaultTerminalWidth otherwise (pipes, files, buffers).
func TerminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return Display.DefaultTerminalWidth
	}

	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return Display.DefaultTerminalWidth
	}

	width, _, err := term.GetSize(fd)
	if err != nil || width <= 0 {
		return Display.DefaultTerminalWidth
	}
	return width
}
