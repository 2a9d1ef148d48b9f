package tui

import (
	"github.com/charmbracelet/lipgloss"

	"machcal/internal/tui/theme"
)

// Styles holds the lipgloss styles derived from a theme.
type Styles struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Header   lipgloss.Style
	Muted    lipgloss.Style

	FreeCell     lipgloss.Style
	UnavailCell  lipgloss.Style
	OccupiedCell lipgloss.Style
	CursorCell   lipgloss.Style

	Today    lipgloss.Style
	OutMonth lipgloss.Style
	Badge    lipgloss.Style

	Status      lipgloss.Style
	StatusError lipgloss.Style
	Help        lipgloss.Style

	Panel lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(t *theme.Theme) *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Foreground(theme.Color(t.Accent)).
			Bold(true),
		Subtitle: lipgloss.NewStyle().
			Foreground(theme.Color(t.Fg)).
			Bold(true),
		Header: lipgloss.NewStyle().
			Foreground(theme.Color(t.Fg)).
			Bold(true),
		Muted: lipgloss.NewStyle().
			Foreground(theme.Color(t.FgMuted)),

		FreeCell: lipgloss.NewStyle().
			Foreground(theme.Color(t.Free)),
		UnavailCell: lipgloss.NewStyle().
			Foreground(theme.Color(t.Unavailable)),
		OccupiedCell: lipgloss.NewStyle().
			Foreground(theme.Color(t.Occupied)).
			Bold(true),
		CursorCell: lipgloss.NewStyle().
			Background(theme.Color(t.BgSelection)).
			Bold(true),

		Today: lipgloss.NewStyle().
			Foreground(theme.Color(t.Today)).
			Bold(true),
		OutMonth: lipgloss.NewStyle().
			Foreground(theme.Color(t.FgMuted)),
		Badge: lipgloss.NewStyle().
			Foreground(theme.Color(t.Occupied)),

		Status: lipgloss.NewStyle().
			Foreground(theme.Color(t.Free)),
		StatusError: lipgloss.NewStyle().
			Foreground(theme.Color(t.Warning)).
			Bold(true),
		Help: lipgloss.NewStyle().
			Foreground(theme.Color(t.FgMuted)),

		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Color(t.Accent)).
			Padding(0, 1),
	}
}
