package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"machcal/internal/grid"
	"machcal/internal/validate"
	"machcal/internal/view"
)

const weekColWidth = 12

// View renders the model.
func (m Model) View() string {
	if m.err != nil {
		return fmt.Sprintf("error: %v\n", m.err)
	}

	var sections []string
	sections = append(sections, m.renderHeader())

	switch {
	case m.loading && m.grid == nil:
		sections = append(sections, m.styles.Muted.Render("loading..."))
	case m.grid == nil:
		sections = append(sections, m.styles.Muted.Render("no data"))
	case m.grid.Week != nil:
		sections = append(sections, m.renderWeek(m.grid.Week))
	case m.grid.Month != nil:
		sections = append(sections, m.renderMonth(m.grid.Month))
	case m.grid.Year != nil:
		sections = append(sections, m.renderYear(m.grid.Year))
	}

	if m.mode == ModePrompt {
		sections = append(sections, m.renderTaskPicker())
	}
	sections = append(sections, m.renderFooter())

	out := lipgloss.JoinVertical(lipgloss.Left, sections...)
	if m.width > 0 {
		lines := strings.Split(out, "\n")
		for i, line := range lines {
			lines[i] = ansi.Truncate(line, m.width, "")
		}
		out = strings.Join(lines, "\n")
	}
	return out
}

func (m Model) renderHeader() string {
	title := m.styles.Title.Render("machcal")
	period := ""
	if m.grid != nil {
		period = m.styles.Subtitle.Render(m.grid.Title)
	}
	machine := m.styles.Muted.Render("no machines")
	if name := m.machine(); name != "" {
		machine = m.styles.Header.Render(name)
	}
	return title + "  " + period + "  " + machine
}

func (m Model) renderWeek(w *grid.WeekGrid) string {
	var b strings.Builder

	// Day header row.
	b.WriteString(strings.Repeat(" ", 7))
	for _, col := range w.Days {
		label := col.Label
		if col.Today {
			label = m.styles.Today.Render(label)
		} else {
			label = m.styles.Header.Render(label)
		}
		b.WriteString(padCell(label, weekColWidth))
	}
	b.WriteString("\n")

	for slot := 0; slot < w.DayEnd-w.DayStart; slot++ {
		hour := w.DayStart + slot
		b.WriteString(m.styles.Muted.Render(fmt.Sprintf("%02d:00  ", hour)))
		for day, col := range w.Days {
			cell := col.Slots[slot]
			label := m.slotLabel(cell)
			if m.cursor.Day == day && m.cursor.Slot == slot {
				label = m.styles.CursorCell.Render(stripStyle(label))
			}
			b.WriteString(padCell(label, weekColWidth))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// slotLabel renders one week-view cell.
func (m Model) slotLabel(cell grid.SlotCell) string {
	switch cell.State {
	case validate.StateOccupied:
		return m.styles.OccupiedCell.Render("■ " + m.taskName(cell.TaskID, weekColWidth-3))
	case validate.StateUnavailable:
		return m.styles.UnavailCell.Render("✗ blocked")
	default:
		return m.styles.FreeCell.Render("·")
	}
}

// taskName resolves a task id to its display name, truncated to fit.
func (m Model) taskName(taskID string, width int) string {
	for _, t := range m.tasks {
		if t.ID == taskID {
			return ansi.Truncate(t.Name, width, "…")
		}
	}
	if len(taskID) > width {
		return taskID[:width]
	}
	return taskID
}

func (m Model) renderMonth(mg *grid.MonthGrid) string {
	var b strings.Builder

	for _, name := range []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"} {
		b.WriteString(padCell(m.styles.Header.Render(name), 10))
	}
	b.WriteString("\n")

	for _, week := range mg.Weeks {
		for _, cell := range week {
			b.WriteString(padCell(m.monthCell(cell), 10))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// monthCell renders a day number with its aggregate indicators: the
// event count and the day-level availability mark.
func (m Model) monthCell(cell grid.DayCell) string {
	label := fmt.Sprintf("%2d", cell.Date.Day())

	switch cell.Availability {
	case grid.MarkFull:
		label += "✗"
	case grid.MarkPartial:
		label += "~"
	default:
		label += " "
	}
	if cell.EventCount > 0 {
		label += m.styles.Badge.Render(fmt.Sprintf("•%d", cell.EventCount))
	}

	switch {
	case cell.Today:
		return m.styles.Today.Render(stripStyle(label))
	case !cell.InMonth:
		return m.styles.OutMonth.Render(stripStyle(label))
	default:
		return label
	}
}

func (m Model) renderYear(yg *grid.YearGrid) string {
	blocks := make([]string, 0, 12)
	for _, month := range yg.Months {
		blocks = append(blocks, m.renderMiniMonth(month))
	}

	var rows []string
	for i := 0; i < 12; i += 3 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top,
			blocks[i], "  ", blocks[i+1], "  ", blocks[i+2]))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) renderMiniMonth(month grid.MonthCell) string {
	var b strings.Builder
	b.WriteString(m.styles.Header.Render(month.Label))
	b.WriteString("\n")

	for _, week := range month.Weeks {
		for _, cell := range week {
			label := fmt.Sprintf("%2d ", cell.Date.Day())
			switch {
			case cell.Today:
				label = m.styles.Today.Render(label)
			case !cell.InMonth:
				label = m.styles.OutMonth.Render(label)
			case cell.HasEvents:
				label = m.styles.Badge.Render(label)
			}
			b.WriteString(label)
		}
		b.WriteString("\n")
	}

	return b.String()
}

// renderTaskPicker lists tasks by number for the schedule prompt.
func (m Model) renderTaskPicker() string {
	var b strings.Builder
	b.WriteString(m.styles.Header.Render("Schedule task"))
	b.WriteString("\n")
	for i, t := range m.tasks {
		fmt.Fprintf(&b, "%2d. %s (%dh)\n", i+1, t.Name, t.DurationHours)
	}
	b.WriteString(m.prompt.View())
	return m.styles.Panel.Render(b.String())
}

func (m Model) renderFooter() string {
	if m.statusMsg != "" {
		if m.statusIsErr {
			return m.styles.StatusError.Render(m.statusMsg)
		}
		return m.styles.Status.Render(m.statusMsg)
	}

	var help string
	switch m.views.State().Kind {
	case view.KindWeek:
		help = "←↓↑→ move · u block · s schedule · x unschedule · y/m/w views · n/p period · tab machine · t today · q quit"
	default:
		help = "enter drill down · ←/→ or n/p period · y/m/w views · tab machine · t today · q quit"
	}
	return m.styles.Help.Render(help)
}

// padCell pads a styled cell to the given display width.
func padCell(s string, width int) string {
	gap := width - lipgloss.Width(s)
	if gap < 0 {
		return ansi.Truncate(s, width, "…")
	}
	return s + strings.Repeat(" ", gap)
}

// stripStyle drops ANSI sequences so a cell can be restyled whole.
func stripStyle(s string) string {
	return ansi.Strip(s)
}
