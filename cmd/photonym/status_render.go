package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"photonym/internal/preflight"
)

const (
	ansiReset = "\x1b[0m"
	ansiRed   = "\x1b[31m"
	ansiGreen = "\x1b[32m"
)

func renderCheckLine(result preflight.Result, colorize bool) string {
	mark := "ok"
	color := ansiGreen
	if !result.Passed {
		mark = "FAIL"
		color = ansiRed
	}
	if colorize {
		mark = color + mark + ansiReset
	}
	line := fmt.Sprintf("  [%s] %s", mark, result.Name)
	if result.Detail != "" {
		line += ": " + result.Detail
	}
	return line
}

func useColor(file *os.File) bool {
	if file == nil {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
