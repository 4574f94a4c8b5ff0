// Package ui prints the status lines third-wheel shows while it works.
package ui

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
)

// Prefix starts every status line.
const Prefix = `/_\ `

var (
	// Colors for different message types
	StatusColor  = color.New(color.FgCyan)
	SuccessColor = color.New(color.FgGreen, color.Bold)
	WarningColor = color.New(color.FgYellow, color.Bold)
	ErrorColor   = color.New(color.FgRed, color.Bold)
	MutedColor   = color.New(color.FgHiBlack)
)

var (
	mu        sync.Mutex
	out       io.Writer = os.Stdout
	useColors           = true
)

// Init applies the color preference. NO_COLOR in the environment also
// disables colors.
func Init(noColor bool) {
	mu.Lock()
	defer mu.Unlock()
	useColors = !noColor && os.Getenv("NO_COLOR") == ""
	color.NoColor = !useColors
}

// SetOutput redirects all ui output, mainly for tests. Nil restores stdout.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w == nil {
		w = os.Stdout
	}
	out = w
}

// Output returns the current writer.
func Output() io.Writer {
	mu.Lock()
	defer mu.Unlock()
	return out
}

func colorsEnabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return useColors
}

func line(c *color.Color, format string, args ...interface{}) {
	w := Output()
	_, _ = c.Fprintf(w, Prefix+format, args...)
	_, _ = fmt.Fprintln(w)
}

// Status prints a progress line.
func Status(format string, args ...interface{}) {
	line(StatusColor, format, args...)
}

// Success prints a completion line.
func Success(format string, args ...interface{}) {
	line(SuccessColor, format, args...)
}

// Warning prints a warning line.
func Warning(format string, args ...interface{}) {
	line(WarningColor, format, args...)
}

// Error prints an error line.
func Error(format string, args ...interface{}) {
	line(ErrorColor, format, args...)
}

// Muted prints a dim line without the prefix.
func Muted(format string, args ...interface{}) {
	_, _ = MutedColor.Fprintf(Output(), format+"\n", args...)
}
