package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"machcal/internal/grid"
	"machcal/internal/schedule"
	"machcal/internal/tui/commands"
	"machcal/internal/validate"
	"machcal/internal/view"
)

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return model, cmd
}

func TestCatalogSelectsConfiguredMachine(t *testing.T) {
	store := newFakeStore()
	m := newTestModel(t, store)
	m.config.Calendar.Machine = "LATHE-02"

	m, cmd := update(t, m, commands.CatalogMsg{
		Machines: []string{"CNC-01", "LATHE-02"},
	})

	if m.machine() != "LATHE-02" {
		t.Errorf("machine = %q, want LATHE-02", m.machine())
	}
	if cmd == nil {
		t.Error("catalog load should trigger a snapshot refresh")
	}
}

func TestStaleSnapshotDiscarded(t *testing.T) {
	m := newTestModel(t, newFakeStore())

	m, _ = m.refresh()
	m, _ = m.refresh() // second load supersedes the first

	snap := &grid.Snapshot{Machine: "M1"}
	m, _ = update(t, m, commands.SnapshotMsg{Gen: m.loadGen - 1, Snapshot: snap})
	if m.snapshot != nil {
		t.Error("stale snapshot should be discarded")
	}

	m, _ = update(t, m, commands.SnapshotMsg{Gen: m.loadGen, Snapshot: snap})
	if m.snapshot != snap {
		t.Error("current-generation snapshot should be applied")
	}
	if m.loading {
		t.Error("loading should clear once the current snapshot lands")
	}
	if m.grid == nil {
		t.Error("applying a snapshot should render the grid")
	}
}

func TestErrMsgSetsStatus(t *testing.T) {
	m := newTestModel(t, newFakeStore())

	m, cmd := update(t, m, commands.ErrMsg{Err: schedule.ErrBusy})
	if !m.statusIsErr || m.statusMsg == "" {
		t.Errorf("status = %q (err=%v), want busy notice", m.statusMsg, m.statusIsErr)
	}
	if cmd == nil {
		t.Error("error status should schedule a clear")
	}

	m, _ = update(t, m, commands.ClearStatusMsg{})
	if m.statusMsg != "" {
		t.Error("status should clear")
	}
}

func TestDescribeError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "busy", err: schedule.ErrBusy, want: "busy"},
		{name: "occupied slot", err: schedule.ErrSlotOccupied, want: "occupied"},
		{name: "rejection occupied", err: &validate.Rejection{Reason: validate.ReasonOccupied, Hour: 11}, want: "11:00"},
		{name: "rejection range", err: &validate.Rejection{Reason: validate.ReasonInvalidRange}, want: "does not fit"},
		{name: "storage read", err: schedule.ErrStorageUnavailable, want: "storage unavailable"},
		{name: "storage write", err: schedule.ErrStorageWriteFailed, want: "not saved"},
		{name: "unknown", err: errors.New("boom"), want: "boom"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := describeError(tc.err)
			if !strings.Contains(got, tc.want) {
				t.Errorf("describeError(%v) = %q, want it to mention %q", tc.err, got, tc.want)
			}
		})
	}
}

func TestViewSwitchKeys(t *testing.T) {
	m := newTestModel(t, newFakeStore())

	m, _ = update(t, m, keyMsg("y"))
	if m.views.State().Kind != view.KindYear {
		t.Errorf("after 'y': kind = %v, want year", m.views.State().Kind)
	}

	m, _ = update(t, m, keyMsg("w"))
	if m.views.State().Kind != view.KindWeek {
		t.Errorf("after 'w': kind = %v, want week", m.views.State().Kind)
	}

	m, _ = update(t, m, keyMsg("m"))
	if m.views.State().Kind != view.KindMonth {
		t.Errorf("after 'm': kind = %v, want month", m.views.State().Kind)
	}
}

func TestPeriodNavigationKeys(t *testing.T) {
	m := newTestModel(t, newFakeStore())
	m.views.SetView(view.KindMonth, time.Date(2025, time.March, 10, 0, 0, 0, 0, time.Local))

	m, _ = update(t, m, keyMsg("n"))
	if got := m.views.State().Anchor.Month(); got != time.April {
		t.Errorf("after 'n': month = %v, want April", got)
	}

	m, _ = update(t, m, keyMsg("p"))
	m, _ = update(t, m, keyMsg("p"))
	if got := m.views.State().Anchor.Month(); got != time.February {
		t.Errorf("after 'p' twice: month = %v, want February", got)
	}
}

func TestDrillDownKeys(t *testing.T) {
	m := newTestModel(t, newFakeStore())
	anchor := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.Local)

	m.views.SetView(view.KindYear, anchor)
	m, _ = update(t, m, keyMsg("enter"))
	if m.views.State().Kind != view.KindMonth {
		t.Fatalf("year drill-down: kind = %v, want month", m.views.State().Kind)
	}

	m, _ = update(t, m, keyMsg("enter"))
	if s := m.views.State(); s.Kind != view.KindWeek {
		t.Fatalf("month drill-down: kind = %v, want week", s.Kind)
	}
}

func TestMachineCycling(t *testing.T) {
	m := newTestModel(t, newFakeStore())
	m.machines = []string{"A", "B", "C"}

	m, _ = update(t, m, keyMsg("tab"))
	if m.machine() != "B" {
		t.Errorf("after tab: machine = %q, want B", m.machine())
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.machine() != "C" {
		t.Errorf("after shift+tab twice: machine = %q, want C (wrap)", m.machine())
	}
}

func TestCursorMovementClamped(t *testing.T) {
	m := newTestModel(t, newFakeStore())
	day := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.Local)
	m.views.SetView(view.KindWeek, day)
	m.snapshot = &grid.Snapshot{Machine: "M1"}
	m = m.render()
	m.cursor = Position{}

	// Left edge stays put.
	m, _ = update(t, m, keyMsg("h"))
	if m.cursor.Day != 0 {
		t.Errorf("cursor day = %d, want 0 at left edge", m.cursor.Day)
	}

	m, _ = update(t, m, keyMsg("l"))
	m, _ = update(t, m, keyMsg("j"))
	if m.cursor.Day != 1 || m.cursor.Slot != 1 {
		t.Errorf("cursor = %+v, want day 1 slot 1", m.cursor)
	}

	// Slot is clamped to the visible hour window.
	for i := 0; i < 50; i++ {
		m, _ = update(t, m, keyMsg("j"))
	}
	maxSlot := m.grid.Week.DayEnd - m.grid.Week.DayStart - 1
	if m.cursor.Slot != maxSlot {
		t.Errorf("cursor slot = %d, want clamped to %d", m.cursor.Slot, maxSlot)
	}
}

func TestSchedulePromptFlow(t *testing.T) {
	m := newTestModel(t, newFakeStore())
	day := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.Local)
	m.views.SetView(view.KindWeek, day)
	m.machines = []string{"M1"}
	m.tasks = []*schedule.TaskInfo{{ID: "t1", Name: "mill housing", DurationHours: 2}}
	m.snapshot = &grid.Snapshot{Machine: "M1"}
	m = m.render()

	m, _ = update(t, m, keyMsg("s"))
	if m.mode != ModePrompt {
		t.Fatalf("mode = %v, want prompt", m.mode)
	}

	// Esc backs out.
	m, _ = update(t, m, keyMsg("esc"))
	if m.mode != ModeNormal {
		t.Fatalf("mode after esc = %v, want normal", m.mode)
	}

	// Bad input is rejected with a status message.
	m, _ = update(t, m, keyMsg("s"))
	m.prompt.SetValue("9")
	m, _ = update(t, m, keyMsg("enter"))
	if m.mode != ModeNormal || !m.statusIsErr {
		t.Errorf("bad task number should return to normal with an error status, got mode=%v err=%v", m.mode, m.statusIsErr)
	}

	// A valid pick produces a drop command.
	m, _ = update(t, m, keyMsg("s"))
	m.prompt.SetValue("1")
	_, cmd := update(t, m, keyMsg("enter"))
	if cmd == nil {
		t.Error("valid task pick should produce a schedule command")
	}
}

func TestPromptRequiresTasksAndMachines(t *testing.T) {
	m := newTestModel(t, newFakeStore())
	day := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.Local)
	m.views.SetView(view.KindWeek, day)
	m.snapshot = &grid.Snapshot{}
	m = m.render()

	m, _ = update(t, m, keyMsg("s"))
	if m.mode == ModePrompt {
		t.Error("prompt should not open with no tasks registered")
	}
	if !m.statusIsErr {
		t.Error("expected an error status explaining why")
	}
}
