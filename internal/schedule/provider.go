package schedule

import (
	"context"
	"time"
)

// Provider defines the storage backend consumed by the availability store
// and the schedule index. Implementations persist availability rows with
// full-replacement semantics and store events without overlap checking;
// conflict detection happens above this layer.
type Provider interface {
	// GetAvailability returns the unavailable hours for a machine on a date.
	// A machine/date with no stored row is fully available (empty set).
	GetAvailability(ctx context.Context, machine string, date time.Time) (HourSet, error)

	// SetAvailability replaces the full unavailable-hour set for a
	// machine on a date. An empty set clears the row's effect but the
	// row is never deleted outright.
	SetAvailability(ctx context.Context, machine string, date time.Time, hours HourSet) error

	// GetEventsByDate returns all events on a date, across machines,
	// ordered by machine then start hour.
	GetEventsByDate(ctx context.Context, date time.Time) ([]*Event, error)

	// AddEvent persists an event and returns its id.
	AddEvent(ctx context.Context, event *Event) (string, error)

	// RemoveEvent deletes an event by id.
	// Returns ErrEventNotFound if no such event exists.
	RemoveEvent(ctx context.Context, id string) error
}

// RangeProvider is an optional extension for backends with a batch
// availability endpoint. The availability store falls back to per-date
// GetAvailability calls when the provider does not implement it.
type RangeProvider interface {
	// GetAvailabilityRange returns unavailable hours for each date in
	// [start, end] (inclusive), keyed by YYYY-MM-DD. Dates with no
	// stored row are omitted.
	GetAvailabilityRange(ctx context.Context, machine string, start, end time.Time) (map[string]HourSet, error)
}

// EventRangeProvider is an optional extension for backends that can
// fetch events for a span of dates in one call. Consumers fall back to
// per-date GetEventsByDate calls when it is not implemented.
type EventRangeProvider interface {
	// GetEventsByRange returns all events with dates in [start, end]
	// (inclusive), ordered by date, machine, start hour.
	GetEventsByRange(ctx context.Context, start, end time.Time) ([]*Event, error)
}

// TaskProvider resolves production task metadata, most importantly the
// duration used by slot validation when a task is dropped onto the grid.
type TaskProvider interface {
	// GetTaskByID returns task metadata.
	// Returns ErrTaskNotFound if no such task exists.
	GetTaskByID(ctx context.Context, id string) (*TaskInfo, error)
}
