// Package theme provides color themes for the TUI.
package theme

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme holds all colors for a TUI theme. Values are hex strings.
type Theme struct {
	Name        string
	Bg          string // base background
	BgHighlight string // panels, subtle highlight
	BgSelection string // cursor, selection
	Fg          string // primary foreground
	FgMuted     string // out-of-month days, secondary text
	Accent      string // title, borders
	Free        string // free slots
	Unavailable string // blocked slots
	Occupied    string // scheduled-task slots
	Today       string // today marker
	Warning     string // rejections, busy notices
}

// Catppuccin variants, plus a plain light theme.
var themes = map[string]Theme{
	"mocha": {
		Name:        "mocha",
		Bg:          "#1e1e2e",
		BgHighlight: "#313244",
		BgSelection: "#45475a",
		Fg:          "#cdd6f4",
		FgMuted:     "#6c7086",
		Accent:      "#89b4fa",
		Free:        "#a6e3a1",
		Unavailable: "#6c7086",
		Occupied:    "#89dceb",
		Today:       "#f9e2af",
		Warning:     "#f38ba8",
	},
	"macchiato": {
		Name:        "macchiato",
		Bg:          "#24273a",
		BgHighlight: "#363a4f",
		BgSelection: "#494d64",
		Fg:          "#cad3f5",
		FgMuted:     "#6e738d",
		Accent:      "#8aadf4",
		Free:        "#a6da95",
		Unavailable: "#6e738d",
		Occupied:    "#91d7e3",
		Today:       "#eed49f",
		Warning:     "#ed8796",
	},
	"frappe": {
		Name:        "frappe",
		Bg:          "#303446",
		BgHighlight: "#414559",
		BgSelection: "#51576d",
		Fg:          "#c6d0f5",
		FgMuted:     "#737994",
		Accent:      "#8caaee",
		Free:        "#a6d189",
		Unavailable: "#737994",
		Occupied:    "#99d1db",
		Today:       "#e5c890",
		Warning:     "#e78284",
	},
	"latte": {
		Name:        "latte",
		Bg:          "#eff1f5",
		BgHighlight: "#e6e9ef",
		BgSelection: "#ccd0da",
		Fg:          "#4c4f69",
		FgMuted:     "#9ca0b0",
		Accent:      "#1e66f5",
		Free:        "#40a02b",
		Unavailable: "#9ca0b0",
		Occupied:    "#04a5e5",
		Today:       "#df8e1d",
		Warning:     "#d20f39",
	},
}

// Load returns the theme with the given name.
// Falls back to mocha if the theme is not found.
func Load(name string) (*Theme, error) {
	if name == "" {
		name = "mocha"
	}
	name = strings.ToLower(name)

	t, ok := themes[name]
	if !ok {
		if name != "mocha" {
			return Load("mocha")
		}
		return nil, fmt.Errorf("unknown theme %q", name)
	}
	return &t, nil
}

// Color returns a lipgloss.Color for the given hex string.
func Color(hex string) lipgloss.Color {
	return lipgloss.Color(hex)
}

// Available returns a list of available theme names.
func Available() []string {
	return []string{"frappe", "latte", "macchiato", "mocha"}
}

// IsAvailable reports whether a theme name is available.
func IsAvailable(name string) bool {
	_, ok := themes[strings.ToLower(name)]
	return ok
}
