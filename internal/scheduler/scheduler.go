// Package scheduler finds free slots for tasks within the working-hour
// window. It is pure decision logic: callers supply the busy hours, the
// scheduler answers where a task fits.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"machcal/internal/dateutil"
	"machcal/internal/schedule"
)

// BusyFunc reports the hours on a date that cannot take new work, the
// union of occupied and unavailable hours for one machine.
type BusyFunc func(ctx context.Context, date time.Time) (schedule.HourSet, error)

// Scheduler suggests slots within a configured day window.
type Scheduler struct {
	dayStart int
	dayEnd   int
}

// New creates a Scheduler for the [dayStart, dayEnd) working window.
func New(dayStart, dayEnd int) *Scheduler {
	return &Scheduler{dayStart: dayStart, dayEnd: dayEnd}
}

// Slot is a suggested placement for a task.
type Slot struct {
	Date      time.Time
	StartHour int
	EndHour   int
}

// CanFit reports whether a task of the given duration fits at startHour
// without leaving the day window.
func (s *Scheduler) CanFit(startHour, duration int) bool {
	if duration <= 0 || startHour < s.dayStart {
		return false
	}
	return startHour+duration <= s.dayEnd
}

// FirstFit returns the earliest start hour in the day window where
// duration consecutive hours are all free of the given busy set. The
// second return is false when no such run exists.
func (s *Scheduler) FirstFit(busy schedule.HourSet, duration int) (int, bool) {
	if duration <= 0 || duration > s.dayEnd-s.dayStart {
		return 0, false
	}

	run := 0
	for hour := s.dayStart; hour < s.dayEnd; hour++ {
		if busy.Contains(hour) {
			run = 0
			continue
		}
		run++
		if run == duration {
			return hour - duration + 1, true
		}
	}
	return 0, false
}

// NextFit scans forward from the given date for the first slot that fits
// a task of the given duration, looking at most maxDays ahead. Busy hours
// come from the supplied lookup so the scan works off whatever the caller
// considers blocking.
func (s *Scheduler) NextFit(ctx context.Context, busy BusyFunc, from time.Time, duration, maxDays int) (Slot, error) {
	day := dateutil.TruncateToDay(from)
	for i := 0; i < maxDays; i++ {
		hours, err := busy(ctx, day)
		if err != nil {
			return Slot{}, err
		}
		if start, ok := s.FirstFit(hours, duration); ok {
			return Slot{Date: day, StartHour: start, EndHour: start + duration}, nil
		}
		day = day.AddDate(0, 0, 1)
	}
	return Slot{}, fmt.Errorf("%w: no free %dh slot within %d days", schedule.ErrSlotUnavailable, duration, maxDays)
}
