// Package view provides the calendar view state machine: which of the
// year, month or week views is active and which date anchors it.
package view

import (
	"fmt"
	"time"

	"machcal/internal/dateutil"
)

// Kind identifies a calendar view.
type Kind string

const (
	KindYear  Kind = "year"
	KindMonth Kind = "month"
	KindWeek  Kind = "week"
)

// State is the full view state: the active view kind and its anchor date.
// Week anchors are normalized to the Monday of their week.
type State struct {
	Kind   Kind
	Anchor time.Time
}

// Manager is the view state machine. It owns the only mutable view state
// and performs no I/O; navigation is a pure function of the current state.
type Manager struct {
	state    State
	onChange func(State)
}

// New creates a Manager in the initial state: the month view anchored on
// the given date, normally today.
func New(today time.Time) *Manager {
	return &Manager{
		state: State{Kind: KindMonth, Anchor: dateutil.TruncateToDay(today)},
	}
}

// State returns the current view state.
func (m *Manager) State() State {
	return m.state
}

// OnChange registers a callback fired after every state transition.
// The presentation layer uses it to trigger re-renders.
func (m *Manager) OnChange(fn func(State)) {
	m.onChange = fn
}

// SetView switches the view kind. A zero anchor keeps the current anchor
// date; otherwise the view re-anchors on the given date.
func (m *Manager) SetView(kind Kind, anchor time.Time) {
	if anchor.IsZero() {
		anchor = m.state.Anchor
	}
	m.apply(State{Kind: kind, Anchor: anchor})
}

// NavigatePrevious moves one period back: a year, a month or a week
// depending on the active view.
func (m *Manager) NavigatePrevious() {
	m.shift(-1)
}

// NavigateNext moves one period forward.
func (m *Manager) NavigateNext() {
	m.shift(1)
}

func (m *Manager) shift(direction int) {
	anchor := m.state.Anchor
	switch m.state.Kind {
	case KindYear:
		anchor = anchor.AddDate(direction, 0, 0)
	case KindMonth:
		anchor = dateutil.AddMonths(anchor, direction)
	case KindWeek:
		anchor = anchor.AddDate(0, 0, 7*direction)
	}
	m.apply(State{Kind: m.state.Kind, Anchor: anchor})
}

// GoToToday re-anchors the current view on today's date.
func (m *Manager) GoToToday(today time.Time) {
	m.apply(State{Kind: m.state.Kind, Anchor: dateutil.TruncateToDay(today)})
}

// Apply transitions to an explicit state. Drill-down targets produced by
// MonthCellTarget and DayCellTarget are applied through here.
func (m *Manager) Apply(s State) {
	m.apply(s)
}

func (m *Manager) apply(s State) {
	m.state = normalize(s)
	if m.onChange != nil {
		m.onChange(m.state)
	}
}

// normalize pins the anchor to the canonical day for the view kind:
// Monday for weeks, midnight of the given day otherwise.
func normalize(s State) State {
	switch s.Kind {
	case KindWeek:
		s.Anchor = dateutil.WeekStart(s.Anchor)
	default:
		s.Anchor = dateutil.TruncateToDay(s.Anchor)
	}
	return s
}

// Title returns the operator-facing label for the current period:
// "2025", "March 2025" or "Mar 03 - Mar 09, 2025".
func (m *Manager) Title() string {
	return Title(m.state)
}

// Title renders the period label for any view state.
func Title(s State) string {
	switch s.Kind {
	case KindYear:
		return fmt.Sprintf("%d", s.Anchor.Year())
	case KindWeek:
		monday := dateutil.WeekStart(s.Anchor)
		sunday := monday.AddDate(0, 0, 6)
		return fmt.Sprintf("%s - %s, %d",
			monday.Format("Jan 02"), sunday.Format("Jan 02"), sunday.Year())
	default:
		return s.Anchor.Format("January 2006")
	}
}

// VisibleRange returns the inclusive date range the current view displays,
// which is the range the renderer requests data for. Month views include
// the leading and trailing out-of-month grid days.
func (m *Manager) VisibleRange() (start, end time.Time) {
	return VisibleRange(m.state)
}

// VisibleRange computes the displayed range for any view state.
func VisibleRange(s State) (start, end time.Time) {
	switch s.Kind {
	case KindYear:
		start = time.Date(s.Anchor.Year(), time.January, 1, 0, 0, 0, 0, s.Anchor.Location())
		end = time.Date(s.Anchor.Year(), time.December, 31, 0, 0, 0, 0, s.Anchor.Location())
	case KindWeek:
		start = dateutil.WeekStart(s.Anchor)
		end = start.AddDate(0, 0, 6)
	default:
		weeks := dateutil.MonthWeeks(s.Anchor.Year(), s.Anchor.Month())
		start = weeks[0][0]
		end = weeks[len(weeks)-1][6]
	}
	return start, end
}

// MonthCellTarget is the drill-down state for clicking a month cell in
// the year view: the month view anchored on the first of that month.
func MonthCellTarget(year int, month time.Month) State {
	return State{
		Kind:   KindMonth,
		Anchor: time.Date(year, month, 1, 0, 0, 0, 0, time.Local),
	}
}

// DayCellTarget is the drill-down state for clicking a day cell in the
// month view: the week view anchored on that day's Monday.
func DayCellTarget(date time.Time) State {
	return State{
		Kind:   KindWeek,
		Anchor: dateutil.WeekStart(date),
	}
}
