// Package commands provides TUI command constructors and message types.
package commands

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"machcal/internal/availability"
	"machcal/internal/controller"
	"machcal/internal/grid"
	"machcal/internal/index"
	"machcal/internal/schedule"
	"machcal/internal/view"
)

// SnapshotMsg carries freshly loaded calendar data. Gen echoes the load
// generation passed to LoadSnapshot so the model can discard stale
// responses after rapid navigation.
type SnapshotMsg struct {
	Gen      int
	State    view.State
	Snapshot *grid.Snapshot
}

// CatalogMsg carries the machine and task lists.
type CatalogMsg struct {
	Machines []string
	Tasks    []*schedule.TaskInfo
}

// ToggledMsg is sent after an availability toggle succeeds.
type ToggledMsg struct {
	Hour    int
	Blocked bool
}

// ScheduledMsg is sent after a task is scheduled.
type ScheduledMsg struct {
	Event *schedule.Event
}

// UnscheduledMsg is sent after an event is removed.
type UnscheduledMsg struct {
	EventID string
}

// ErrMsg is sent when an error occurs.
type ErrMsg struct {
	Err error
}

// ClearStatusMsg is sent to clear the status message.
type ClearStatusMsg struct{}

// Catalog is what LoadCatalog reads from.
type Catalog interface {
	ListMachines(ctx context.Context) ([]string, error)
	ListTasks(ctx context.Context) ([]*schedule.TaskInfo, error)
}

// LoadSnapshot fetches availability and events for the view's visible
// range and returns them as a SnapshotMsg tagged with gen.
func LoadSnapshot(store *availability.Store, ix *index.Index, machine string, state view.State, gen int) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		start, end := view.VisibleRange(state)

		snap := &grid.Snapshot{Machine: machine}

		if machine != "" {
			avail, err := store.GetForRange(ctx, machine, start, end)
			if err != nil {
				return ErrMsg{Err: err}
			}
			snap.Availability = avail
		}

		events, err := ix.EventsForRange(ctx, start, end)
		if err != nil {
			return ErrMsg{Err: err}
		}
		snap.Events = events

		return SnapshotMsg{Gen: gen, State: state, Snapshot: snap}
	}
}

// LoadCatalog fetches the machine and task lists.
func LoadCatalog(cat Catalog) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		machines, err := cat.ListMachines(ctx)
		if err != nil {
			return ErrMsg{Err: err}
		}
		tasks, err := cat.ListTasks(ctx)
		if err != nil {
			return ErrMsg{Err: err}
		}

		return CatalogMsg{Machines: machines, Tasks: tasks}
	}
}

// ToggleAvailability flips one hour's availability through the
// interaction controller.
func ToggleAvailability(ctrl *controller.Controller, machine string, date time.Time, hour int) tea.Cmd {
	return func() tea.Msg {
		hours, err := ctrl.ToggleAvailability(context.Background(), machine, date, hour)
		if err != nil {
			return ErrMsg{Err: err}
		}
		return ToggledMsg{Hour: hour, Blocked: hours.Contains(hour)}
	}
}

// DropTask schedules a task onto a slot through the interaction
// controller.
func DropTask(ctrl *controller.Controller, taskID, machine string, date time.Time, startHour int) tea.Cmd {
	return func() tea.Msg {
		event, err := ctrl.DropTask(context.Background(), taskID, machine, date, startHour)
		if err != nil {
			return ErrMsg{Err: err}
		}
		return ScheduledMsg{Event: event}
	}
}

// Unschedule removes an event through the interaction controller.
func Unschedule(ctrl *controller.Controller, eventID string) tea.Cmd {
	return func() tea.Msg {
		if err := ctrl.Unschedule(context.Background(), eventID); err != nil {
			return ErrMsg{Err: err}
		}
		return UnscheduledMsg{EventID: eventID}
	}
}

// ClearStatusAfter clears the status line after the given delay.
func ClearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
