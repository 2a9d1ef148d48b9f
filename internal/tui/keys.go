package tui

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"machcal/internal/tui/commands"
	"machcal/internal/view"
)

// handleNormalKey processes keys in normal mode.
func (m Model) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "y":
		m.views.SetView(view.KindYear, m.views.State().Anchor)
		m.logViewChange("key")
		return propagate(m.refresh())
	case "m":
		m.views.SetView(view.KindMonth, m.views.State().Anchor)
		m.logViewChange("key")
		return propagate(m.refresh())
	case "w":
		m.views.SetView(view.KindWeek, m.views.State().Anchor)
		m.logViewChange("key")
		return propagate(m.refresh())

	case "p":
		m.views.NavigatePrevious()
		return propagate(m.refresh())
	case "n":
		m.views.NavigateNext()
		return propagate(m.refresh())

	case "t":
		m.views.GoToToday(today())
		m.cursor.Day = weekdayIndex(today())
		return propagate(m.refresh())

	case "tab":
		return m.cycleMachine(1)
	case "shift+tab":
		return m.cycleMachine(-1)

	case "enter":
		return m.drillDown()

	case "left", "h":
		return m.moveCursor(-1, 0)
	case "right", "l":
		return m.moveCursor(1, 0)
	case "up", "k":
		return m.moveCursor(0, -1)
	case "down", "j":
		return m.moveCursor(0, 1)

	case "u":
		return m.toggleAtCursor()
	case "s":
		return m.openSchedulePrompt()
	case "x":
		return m.unscheduleAtCursor()
	}

	return m, nil
}

// cycleMachine selects the next or previous machine and reloads.
func (m Model) cycleMachine(dir int) (tea.Model, tea.Cmd) {
	if len(m.machines) == 0 {
		return m, nil
	}
	m.machineIdx = (m.machineIdx + dir + len(m.machines)) % len(m.machines)
	return propagate(m.refresh())
}

// drillDown activates the cell target for the current view: year cells
// open their month, month views open the anchor's week.
func (m Model) drillDown() (tea.Model, tea.Cmd) {
	s := m.views.State()
	switch s.Kind {
	case view.KindYear:
		m.views.Apply(view.MonthCellTarget(s.Anchor.Year(), s.Anchor.Month()))
	case view.KindMonth:
		m.views.Apply(view.DayCellTarget(s.Anchor))
	default:
		return m, nil
	}
	m.logViewChange("drill-down")
	return propagate(m.refresh())
}

// logViewChange records the current view state in the debug log.
func (m Model) logViewChange(reason string) {
	s := m.views.State()
	LogViewChange(string(s.Kind), s.Anchor.Format("2006-01-02"), reason)
}

// moveCursor moves the week-view cursor. Outside the week view,
// horizontal movement navigates between periods instead.
func (m Model) moveCursor(dx, dy int) (tea.Model, tea.Cmd) {
	if m.views.State().Kind != view.KindWeek {
		if dx < 0 {
			m.views.NavigatePrevious()
			return propagate(m.refresh())
		}
		if dx > 0 {
			m.views.NavigateNext()
			return propagate(m.refresh())
		}
		return m, nil
	}

	m.cursor.Day += dx
	if m.cursor.Day < 0 {
		m.cursor.Day = 0
	}
	if m.cursor.Day > 6 {
		m.cursor.Day = 6
	}
	m.cursor.Slot += dy
	m.clampCursor()
	LogCursorMove(m.cursor.Day, m.cursor.Slot, "key")
	return m, nil
}

// toggleAtCursor toggles availability for the slot under the cursor.
func (m Model) toggleAtCursor() (tea.Model, tea.Cmd) {
	cell, ok := m.cursorCell()
	if !ok {
		return m, nil
	}
	if m.machine() == "" {
		return propagate(m.setStatus("no machines registered", true), commands.ClearStatusAfter(statusDuration))
	}
	return m, commands.ToggleAvailability(m.ctrl, m.machine(), m.cursorDate(), cell.Hour)
}

// openSchedulePrompt enters prompt mode to pick a task for the slot
// under the cursor.
func (m Model) openSchedulePrompt() (tea.Model, tea.Cmd) {
	if _, ok := m.cursorCell(); !ok {
		return m, nil
	}
	if len(m.tasks) == 0 {
		return propagate(m.setStatus("no tasks registered", true), commands.ClearStatusAfter(statusDuration))
	}
	if m.machine() == "" {
		return propagate(m.setStatus("no machines registered", true), commands.ClearStatusAfter(statusDuration))
	}
	m.mode = ModePrompt
	m.prompt.SetValue("")
	m.prompt.Focus()
	return m, nil
}

// unscheduleAtCursor removes the event occupying the cursor's slot.
func (m Model) unscheduleAtCursor() (tea.Model, tea.Cmd) {
	cell, ok := m.cursorCell()
	if !ok || cell.EventID == "" {
		return m, nil
	}
	return m, commands.Unschedule(m.ctrl, cell.EventID)
}

// handlePromptKey processes keys while the schedule prompt is open.
func (m Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = ModeNormal
		m.prompt.Blur()
		return m, nil

	case "enter":
		input := strings.TrimSpace(m.prompt.Value())
		m.mode = ModeNormal
		m.prompt.Blur()

		n, err := strconv.Atoi(input)
		if err != nil || n < 1 || n > len(m.tasks) {
			return propagate(m.setStatus("pick a task number from the list", true), commands.ClearStatusAfter(statusDuration))
		}

		cell, ok := m.cursorCell()
		if !ok {
			return m, nil
		}
		task := m.tasks[n-1]
		return m, commands.DropTask(m.ctrl, task.ID, m.machine(), m.cursorDate(), cell.Hour)
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}
