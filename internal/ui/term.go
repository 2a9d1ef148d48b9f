package ui

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Color definitions for consistent styling across the UI.
var (
	// Free slots: green, open for work
	colorFree = color.New(color.FgGreen)

	// Unavailable slots: dim/grey, machine blocked
	colorUnavailable = color.New(color.FgWhite, color.Faint)

	// Occupied slots: bold cyan, a scheduled task
	colorOccupied = color.New(color.FgCyan, color.Bold)

	// Headers: bold
	colorHeader = color.New(color.Bold)

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

// formatFree formats text for a free slot.
func formatFree(s string) string {
	return colorFree.Sprint(s)
}

// formatUnavailable formats text for a blocked slot.
func formatUnavailable(s string) string {
	return colorUnavailable.Sprint(s)
}

// formatOccupied formats text for an occupied slot.
func formatOccupied(s string) string {
	return colorOccupied.Sprint(s)
}

// formatHeader formats text as a header.
func formatHeader(s string) string {
	return colorHeader.Sprint(s)
}

// formatMuted formats text as secondary/muted.
func formatMuted(s string) string {
	return colorMuted.Sprint(s)
}
