// Package schedule defines the core domain types for machcal.
package schedule

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"machcal/internal/dateutil"
)

// Event represents a production task scheduled onto a machine slot.
// The hour range is half-open: an event covering 9:00-11:00 has
// StartHour 9 and EndHour 11.
type Event struct {
	ID        string
	TaskID    string
	Machine   string
	Date      time.Time // calendar date, midnight local
	StartHour int
	EndHour   int // exclusive
	CreatedAt time.Time
}

// NewEvent creates a scheduled event with validation.
// The hour range must satisfy 0 <= start < end <= 24; events never
// cross midnight.
func NewEvent(taskID, machine string, date time.Time, startHour, endHour int) (*Event, error) {
	if taskID == "" {
		return nil, ErrEmptyTaskID
	}
	if machine == "" {
		return nil, ErrEmptyMachine
	}
	if startHour < 0 || endHour > HoursPerDay || startHour >= endHour {
		return nil, fmt.Errorf("%w: hours %d-%d", ErrInvalidRange, startHour, endHour)
	}
	return &Event{
		ID:        uuid.NewString(),
		TaskID:    taskID,
		Machine:   machine,
		Date:      dateutil.TruncateToDay(date),
		StartHour: startHour,
		EndHour:   endHour,
		CreatedAt: time.Now(),
	}, nil
}

// Covers returns true if the event occupies the given hour.
func (e *Event) Covers(hour int) bool {
	return hour >= e.StartHour && hour < e.EndHour
}

// Overlaps returns true if this event and other occupy a common hour
// on the same machine and date.
func (e *Event) Overlaps(other *Event) bool {
	if other == nil {
		return false
	}
	if e.Machine != other.Machine {
		return false
	}
	if !dateutil.SameDay(e.Date, other.Date) {
		return false
	}
	return e.StartHour < other.EndHour && other.StartHour < e.EndHour
}

// Duration returns the event length in hours.
func (e *Event) Duration() int {
	return e.EndHour - e.StartHour
}

// TaskInfo describes a production task as served by a TaskProvider.
type TaskInfo struct {
	ID            string
	Name          string
	DurationHours int
	Color         string
}
