package ui

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Color definitions for consistent styling across the UI.
var (
	// Current slot: bold cyan so "now" stands out
	colorCurrent = color.New(color.FgCyan, color.Bold)

	// Tasks: yellow to make them pop
	colorTask = color.New(color.FgYellow)

	// Headers: bold
	colorHeader = color.New(color.Bold)

	// Notices: green, they report something the engine did for you
	colorNotice = color.New(color.FgGreen)

	// Muted: for secondary information
	colorMuted = color.New(color.FgWhite, color.Faint)
)

// termWidth returns the terminal width, or a default if detection fails.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // sensible default
	}
	return width
}

// DisableColor disables all color output.
func DisableColor() {
	color.NoColor = true
}

// EnableColor enables color output (if terminal supports it).
func EnableColor() {
	color.NoColor = false
}

func formatCurrent(s string) string {
	return colorCurrent.Sprint(s)
}

func formatTask(s string) string {
	return colorTask.Sprint(s)
}

func formatHeader(s string) string {
	return colorHeader.Sprint(s)
}

func formatNotice(s string) string {
	return colorNotice.Sprint(s)
}

func formatMuted(s string) string {
	return colorMuted.Sprint(s)
}
