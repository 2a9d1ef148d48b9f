// Package tui provides the terminal user interface for machcal.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"machcal/internal/availability"
	"machcal/internal/config"
	"machcal/internal/controller"
	"machcal/internal/grid"
	"machcal/internal/index"
	"machcal/internal/schedule"
	"machcal/internal/tui/commands"
	"machcal/internal/tui/theme"
	"machcal/internal/view"
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModePrompt      // Picking a task to schedule at the cursor
)

// Position is the cursor position in the week grid.
type Position struct {
	Day  int // 0=Monday, 6=Sunday
	Slot int // Index into the visible hour window
}

// Store is the storage surface the TUI needs.
type Store interface {
	schedule.Provider
	schedule.TaskProvider
	ListMachines(ctx context.Context) ([]string, error)
	ListTasks(ctx context.Context) ([]*schedule.TaskInfo, error)
}

// Model is the main TUI model.
type Model struct {
	// Dependencies
	store  Store
	config *config.Config

	// Theme and styles
	theme  *theme.Theme
	styles *Styles

	// Calendar stack
	views    *view.Manager
	renderer *grid.Renderer
	avail    *availability.Store
	ix       *index.Index
	ctrl     *controller.Controller

	// Catalog
	machines   []string
	machineIdx int
	tasks      []*schedule.TaskInfo

	// Rendered data. loadGen tags snapshot loads; responses carrying an
	// older generation are discarded so rapid navigation cannot paint a
	// stale week over the current one.
	snapshot *grid.Snapshot
	grid     *grid.Grid
	loadGen  int
	loading  bool

	// Interaction
	mode   Mode
	cursor Position
	prompt textinput.Model

	// Terminal dimensions
	width  int
	height int

	// Messages
	statusMsg   string
	statusIsErr bool

	// Error state
	err error
}

// New creates a new TUI model.
func New(store Store, cfg *config.Config) *Model {
	t, err := theme.Load(cfg.UI.Theme)
	if err != nil {
		t, _ = theme.Load("mocha")
	}

	prompt := textinput.New()
	prompt.Placeholder = "task number"
	prompt.CharLimit = 4
	prompt.Width = 20

	av := availability.New(store)
	ix := index.New(store)

	m := &Model{
		store:    store,
		config:   cfg,
		theme:    t,
		styles:   NewStyles(t),
		views:    view.New(time.Now()),
		renderer: grid.New(grid.Capabilities{ShowMachines: true, Interactive: true}, cfg.Calendar.DayStartHour, cfg.Calendar.DayEndHour),
		avail:    av,
		ix:       ix,
		ctrl:     controller.New(av, ix, store),
		mode:     ModeNormal,
		cursor:   Position{Day: weekdayIndex(time.Now())},
		prompt:   prompt,
	}
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return commands.LoadCatalog(m.store)
}

// machine returns the selected machine name, or "" when none exist.
func (m Model) machine() string {
	if len(m.machines) == 0 {
		return ""
	}
	return m.machines[m.machineIdx]
}

// refresh bumps the load generation and kicks off a snapshot load for
// the current view and machine.
func (m Model) refresh() (Model, tea.Cmd) {
	m.loadGen++
	m.loading = true
	return m, commands.LoadSnapshot(m.avail, m.ix, m.machine(), m.views.State(), m.loadGen)
}

// render re-renders the grid description from the current snapshot.
func (m Model) render() Model {
	m.grid = m.renderer.Render(m.views.State(), m.snapshot, today())
	m.clampCursor()
	return m
}

// clampCursor keeps the cursor inside the visible hour window.
func (m *Model) clampCursor() {
	if m.grid == nil || m.grid.Week == nil {
		return
	}
	maxSlot := m.grid.Week.DayEnd - m.grid.Week.DayStart - 1
	if m.cursor.Slot > maxSlot {
		m.cursor.Slot = maxSlot
	}
	if m.cursor.Slot < 0 {
		m.cursor.Slot = 0
	}
}

// cursorCell returns the slot cell under the cursor in the week view.
func (m Model) cursorCell() (grid.SlotCell, bool) {
	if m.grid == nil || m.grid.Week == nil {
		return grid.SlotCell{}, false
	}
	col := m.grid.Week.Days[m.cursor.Day]
	if m.cursor.Slot >= len(col.Slots) {
		return grid.SlotCell{}, false
	}
	return col.Slots[m.cursor.Slot], true
}

// cursorDate returns the date of the cursor's day column.
func (m Model) cursorDate() time.Time {
	if m.grid != nil && m.grid.Week != nil {
		return m.grid.Week.Days[m.cursor.Day].Date
	}
	return m.views.State().Anchor
}

func today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// weekdayIndex maps a date to its Monday-based column index.
func weekdayIndex(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7
	}
	return wd - 1
}

// Run starts the TUI.
func Run(store Store, cfg *config.Config) error {
	return RunWithDebug(store, cfg, false)
}

// RunWithDebug starts the TUI with optional debug logging.
func RunWithDebug(store Store, cfg *config.Config, debug bool) error {
	if err := InitDebugLogger(debug); err != nil {
		return err
	}
	defer CloseDebugLogger()

	model := New(store, cfg)
	p := tea.NewProgram(*model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
