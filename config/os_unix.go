//go:build !windows

package config

import (
	"os"
	"strings"

	"golang.org/x/term"
)

// path and path list separators
const reservedFileChars = "/:"

// fixFileName does not let names become hidden files or parent references.
func fixFileName(name string) string {
	return strings.TrimLeft(name, ".")
}

func colorTerminal(stream *os.File) bool {
	return term.IsTerminal(int(stream.Fd()))
}
