package tui

import (
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"machcal/internal/schedule"
	"machcal/internal/tui/commands"
	"machcal/internal/validate"
)

const statusDuration = 3 * time.Second

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		LogKeyPress(msg)
		if m.mode == ModePrompt {
			return m.handlePromptKey(msg)
		}
		return m.handleNormalKey(msg)

	case commands.CatalogMsg:
		m.machines = msg.Machines
		m.tasks = msg.Tasks
		m.machineIdx = 0
		if cfg := m.config.Calendar.Machine; cfg != "" {
			for i, name := range msg.Machines {
				if name == cfg {
					m.machineIdx = i
					break
				}
			}
		}
		return propagate(m.refresh())

	case commands.SnapshotMsg:
		// A newer load is already in flight; this answer is stale.
		if msg.Gen != m.loadGen {
			return m, nil
		}
		m.loading = false
		m.snapshot = msg.Snapshot
		return m.render(), nil

	case commands.ToggledMsg:
		if msg.Blocked {
			m = m.setStatus(fmt.Sprintf("Blocked %02d:00", msg.Hour), false)
		} else {
			m = m.setStatus(fmt.Sprintf("Unblocked %02d:00", msg.Hour), false)
		}
		return m.reloadAfterMutation()

	case commands.ScheduledMsg:
		m = m.setStatus(fmt.Sprintf("Scheduled %02d:00-%02d:00", msg.Event.StartHour, msg.Event.EndHour), false)
		return m.reloadAfterMutation()

	case commands.UnscheduledMsg:
		m = m.setStatus("Unscheduled", false)
		return m.reloadAfterMutation()

	case commands.ErrMsg:
		LogError("tui", msg.Err)
		m.loading = false
		m = m.setStatus(describeError(msg.Err), true)
		return m, commands.ClearStatusAfter(statusDuration)

	case commands.ClearStatusMsg:
		m.statusMsg = ""
		m.statusIsErr = false
		return m, nil
	}

	return m, nil
}

// reloadAfterMutation clears caches touched by a write and refetches.
func (m Model) reloadAfterMutation() (tea.Model, tea.Cmd) {
	m.ix.Clear()
	m.avail.Clear()
	next, cmd := m.refresh()
	return next, tea.Batch(cmd, commands.ClearStatusAfter(statusDuration))
}

func (m Model) setStatus(s string, isErr bool) Model {
	m.statusMsg = s
	m.statusIsErr = isErr
	return m
}

// propagate adapts (Model, tea.Cmd) to the tea.Model interface return.
func propagate(m Model, cmd tea.Cmd) (tea.Model, tea.Cmd) {
	return m, cmd
}

// describeError maps domain errors onto short status-line messages.
func describeError(err error) string {
	var rej *validate.Rejection
	if errors.As(err, &rej) {
		switch rej.Reason {
		case validate.ReasonOccupied:
			return fmt.Sprintf("%02d:00 is already occupied", rej.Hour)
		case validate.ReasonUnavailable:
			return fmt.Sprintf("%02d:00 is blocked on this machine", rej.Hour)
		case validate.ReasonInvalidRange:
			return "task does not fit before end of day"
		}
	}

	switch {
	case errors.Is(err, schedule.ErrBusy):
		return "busy, try again"
	case errors.Is(err, schedule.ErrSlotOccupied):
		return "slot is occupied by a scheduled task"
	case errors.Is(err, schedule.ErrTaskNotFound):
		return "no such task"
	case errors.Is(err, schedule.ErrEventNotFound):
		return "no such event"
	case errors.Is(err, schedule.ErrStorageUnavailable):
		return "storage unavailable, showing empty data"
	case errors.Is(err, schedule.ErrStorageWriteFailed):
		return "write failed, change not saved"
	}
	return err.Error()
}
