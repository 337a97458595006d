package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"nasflow/internal/preflight"
	"nasflow/internal/tracking"
)

const (
	statusLabelWidth = 20
	statusIndent     = "  "
)

func renderSectionHeader(title string) string {
	return fmt.Sprintf("== %s ==", strings.TrimSpace(title))
}

// renderCheckLine formats one preflight result as an aligned status line.
func renderCheckLine(result preflight.Result, colorize bool) string {
	label, tint := "OK", color.New(color.FgGreen)
	if !result.Passed {
		label, tint = "ERROR", color.New(color.FgRed)
	}
	line := fmt.Sprintf("%s%-*s [%s] %s", statusIndent, statusLabelWidth, result.Name+":", label, result.Detail)
	if !colorize {
		return line
	}
	tint.EnableColor()
	return tint.Sprint(line)
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// statusPainter renders status labels, colored only on a terminal.
type statusPainter struct {
	colors map[tracking.Status]*color.Color
}

func newStatusPainter(colorize bool) statusPainter {
	colors := map[tracking.Status]*color.Color{
		tracking.StatusDetected:  color.New(color.FgYellow),
		tracking.StatusCopied:    color.New(color.FgCyan),
		tracking.StatusCompleted: color.New(color.FgGreen),
	}
	for _, c := range colors {
		if colorize {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return statusPainter{colors: colors}
}

func (p statusPainter) label(status tracking.Status) string {
	if c, ok := p.colors[status]; ok {
		return c.Sprint(status.String())
	}
	return status.String()
}
