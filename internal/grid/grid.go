// Package grid provides the calendar grid renderer: a pure function from
// view state and data snapshots to a declarative grid description.
//
// The description carries cells, state flags and labels only; turning it
// into terminal output (or anything else) is the presentation layer's job.
package grid

import (
	"time"

	"machcal/internal/dateutil"
	"machcal/internal/schedule"
	"machcal/internal/validate"
	"machcal/internal/view"
)

// Capabilities configure one renderer for all calendar modes. The
// scheduler screen and the machine-settings screen share the renderer and
// differ only in this set.
type Capabilities struct {
	ShowMachines   bool // label slots with machine names
	Interactive    bool // cells respond to selection/toggling
	EnableDragDrop bool // free cells accept task drops
}

// Snapshot is the data a render consumes: availability and events for the
// visible range, fetched ahead of time. Machine selects whose availability
// the hour-level views show; an empty Machine renders aggregate
// indicators across all machines.
type Snapshot struct {
	Machine      string
	Availability map[string]schedule.HourSet  // YYYY-MM-DD -> unavailable hours
	Events       map[string][]*schedule.Event // YYYY-MM-DD -> events, all machines
}

// AvailabilityMark is the day-level availability indicator used by the
// month view.
type AvailabilityMark int

const (
	MarkNone    AvailabilityMark = iota // no unavailable hours
	MarkPartial                         // some hours blocked
	MarkFull                            // all 24 hours blocked
)

// Grid is a rendered calendar description. Exactly one of Year, Month and
// Week is set, matching View.
type Grid struct {
	View  view.Kind
	Title string

	Year  *YearGrid
	Month *MonthGrid
	Week  *WeekGrid
}

// YearGrid holds twelve mini-month cells.
type YearGrid struct {
	Year   int
	Months [12]MonthCell
}

// MonthCell is one mini-month in the year view. Target is the drill-down
// view state for activating the cell.
type MonthCell struct {
	Month  time.Month
	Label  string
	Weeks  [][7]MiniDayCell
	Target view.State
}

// MiniDayCell is a day in a year-view mini-month.
type MiniDayCell struct {
	Date      time.Time
	InMonth   bool
	Today     bool
	HasEvents bool
}

// MonthGrid is the month view: the weeks-of-month grid at full cell size.
type MonthGrid struct {
	Year  int
	Month time.Month
	Weeks [][7]DayCell
}

// DayCell is a day in the month view, carrying the aggregate indicators
// and the drill-down target for the cell.
type DayCell struct {
	Date         time.Time
	InMonth      bool
	Today        bool
	EventCount   int
	Availability AvailabilityMark
	Target       view.State
}

// WeekGrid is the week view: seven day columns of hour slots.
type WeekGrid struct {
	Machine  string
	DayStart int // first rendered hour
	DayEnd   int // one past the last rendered hour
	Days     [7]DayColumn
}

// DayColumn is one day of hour slots in the week view.
type DayColumn struct {
	Date  time.Time
	Label string
	Today bool
	Slots []SlotCell
}

// SlotCell is a single (machine, date, hour) cell. State follows the
// shared precedence rule: occupied > unavailable > free.
type SlotCell struct {
	Hour        int
	State       validate.CellState
	EventID     string // set when occupied
	TaskID      string // set when occupied
	MachineName string // set when ShowMachines is on
	Interactive bool
	Droppable   bool
}

// Renderer renders grid descriptions. It holds configuration only and is
// safe to share; rendering never mutates it or the snapshot.
type Renderer struct {
	caps     Capabilities
	dayStart int
	dayEnd   int
}

// New creates a renderer. dayStart/dayEnd bound the week view's hour rows
// as [dayStart, dayEnd); passing 0,0 renders the full 24 hours.
func New(caps Capabilities, dayStart, dayEnd int) *Renderer {
	if dayStart == 0 && dayEnd == 0 {
		dayEnd = schedule.HoursPerDay
	}
	return &Renderer{caps: caps, dayStart: dayStart, dayEnd: dayEnd}
}

// Render produces the grid description for the given view state.
// today is passed in so rendering stays a pure function.
func (r *Renderer) Render(s view.State, snap *Snapshot, today time.Time) *Grid {
	g := &Grid{View: s.Kind, Title: view.Title(s)}
	switch s.Kind {
	case view.KindYear:
		g.Year = r.renderYear(s.Anchor.Year(), snap, today)
	case view.KindWeek:
		g.Week = r.renderWeek(s.Anchor, snap, today)
	default:
		g.Month = r.renderMonth(s.Anchor.Year(), s.Anchor.Month(), snap, today)
	}
	return g
}

func (r *Renderer) renderYear(year int, snap *Snapshot, today time.Time) *YearGrid {
	yg := &YearGrid{Year: year}
	for month := time.January; month <= time.December; month++ {
		cell := MonthCell{
			Month:  month,
			Label:  month.String(),
			Target: view.MonthCellTarget(year, month),
		}
		for _, row := range dateutil.MonthWeeks(year, month) {
			var miniRow [7]MiniDayCell
			for i, day := range row {
				miniRow[i] = MiniDayCell{
					Date:      day,
					InMonth:   dateutil.InMonth(day, year, month),
					Today:     dateutil.SameDay(day, today),
					HasEvents: len(snap.eventsOn(day)) > 0,
				}
			}
			cell.Weeks = append(cell.Weeks, miniRow)
		}
		yg.Months[month-time.January] = cell
	}
	return yg
}

func (r *Renderer) renderMonth(year int, month time.Month, snap *Snapshot, today time.Time) *MonthGrid {
	mg := &MonthGrid{Year: year, Month: month}
	for _, row := range dateutil.MonthWeeks(year, month) {
		var cells [7]DayCell
		for i, day := range row {
			cells[i] = DayCell{
				Date:         day,
				InMonth:      dateutil.InMonth(day, year, month),
				Today:        dateutil.SameDay(day, today),
				EventCount:   len(snap.eventsOn(day)),
				Availability: availabilityMark(snap.hoursOn(day)),
				Target:       view.DayCellTarget(day),
			}
		}
		mg.Weeks = append(mg.Weeks, cells)
	}
	return mg
}

func (r *Renderer) renderWeek(anchor time.Time, snap *Snapshot, today time.Time) *WeekGrid {
	wg := &WeekGrid{
		Machine:  snap.Machine,
		DayStart: r.dayStart,
		DayEnd:   r.dayEnd,
	}

	for i, day := range dateutil.WeekDays(anchor) {
		col := DayColumn{
			Date:  day,
			Label: day.Format("Mon 02"),
			Today: dateutil.SameDay(day, today),
		}

		unavailable := snap.hoursOn(day)
		events := snap.eventsOn(day)

		for hour := r.dayStart; hour < r.dayEnd; hour++ {
			cell := SlotCell{Hour: hour, Interactive: r.caps.Interactive}
			if r.caps.ShowMachines {
				cell.MachineName = snap.Machine
			}

			for _, e := range events {
				if e.Machine == snap.Machine && e.Covers(hour) {
					cell.EventID = e.ID
					cell.TaskID = e.TaskID
					break
				}
			}

			cell.State = validate.CellStateOf(cell.EventID != "", unavailable.Contains(hour))
			cell.Droppable = r.caps.EnableDragDrop && cell.State == validate.StateFree
			col.Slots = append(col.Slots, cell)
		}

		wg.Days[i] = col
	}
	return wg
}

// availabilityMark derives the day-level indicator from an hour set.
func availabilityMark(hours schedule.HourSet) AvailabilityMark {
	switch {
	case hours.IsFull():
		return MarkFull
	case !hours.IsEmpty():
		return MarkPartial
	default:
		return MarkNone
	}
}

func (s *Snapshot) eventsOn(day time.Time) []*schedule.Event {
	if s == nil || s.Events == nil {
		return nil
	}
	return s.Events[dateutil.FormatDate(day)]
}

func (s *Snapshot) hoursOn(day time.Time) schedule.HourSet {
	if s == nil || s.Availability == nil {
		return schedule.HourSet{}
	}
	return s.Availability[dateutil.FormatDate(day)]
}
