package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// checkState classifies one preflight result for the deps report.
type checkState int

const (
	checkOK checkState = iota
	checkWarn
	checkFail
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
)

// renderCheckLine formats one preflight result as "  Name: [OK] detail".
func renderCheckLine(label string, state checkState, message string, colorize bool) string {
	tag, color := "OK", ansiGreen
	switch state {
	case checkWarn:
		tag, color = "WARN", ansiYellow
	case checkFail:
		tag, color = "FAIL", ansiRed
	}
	line := fmt.Sprintf("  %-9s [%s]", label+":", tag)
	if message != "" {
		line += " " + message
	}
	if colorize {
		line = color + line + ansiReset
	}
	return line
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
