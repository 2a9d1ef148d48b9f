// Package index provides the schedule index: a date-scoped view over
// scheduled events used for occupancy checks and conflict detection.
package index

import (
	"context"
	"fmt"
	"sync"
	"time"

	"machcal/internal/dateutil"
	"machcal/internal/schedule"
)

// Index caches scheduled events per date and mediates event writes.
// Overlap rejection happens here, before an event reaches storage:
// the provider stores whatever it is given.
type Index struct {
	provider schedule.Provider

	mu     sync.Mutex
	byDate map[string][]*schedule.Event // YYYY-MM-DD -> events, all machines
}

// New creates an Index backed by the given provider.
func New(provider schedule.Provider) *Index {
	return &Index{
		provider: provider,
		byDate:   make(map[string][]*schedule.Event),
	}
}

// EventsForDate returns the events on a date. If machine is empty, events
// for all machines are returned; month and year aggregate indicators use
// that form.
func (ix *Index) EventsForDate(ctx context.Context, machine string, date time.Time) ([]*schedule.Event, error) {
	events, err := ix.loadDate(ctx, date)
	if err != nil {
		return nil, err
	}
	if machine == "" {
		return events, nil
	}

	var filtered []*schedule.Event
	for _, e := range events {
		if e.Machine == machine {
			filtered = append(filtered, e)
		}
	}
	return filtered, nil
}

// EventsForRange returns events for each date in [start, end]
// (inclusive), keyed by YYYY-MM-DD. Dates without events are omitted.
// A provider implementing schedule.EventRangeProvider serves the whole
// span in one call; otherwise each date is loaded individually.
func (ix *Index) EventsForRange(ctx context.Context, start, end time.Time) (map[string][]*schedule.Event, error) {
	if rp, ok := ix.provider.(schedule.EventRangeProvider); ok {
		return ix.rangeBatch(ctx, rp, start, end)
	}

	result := make(map[string][]*schedule.Event)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		events, err := ix.loadDate(ctx, d)
		if err != nil {
			return nil, err
		}
		if len(events) > 0 {
			result[dateutil.FormatDate(d)] = events
		}
	}
	return result, nil
}

func (ix *Index) rangeBatch(ctx context.Context, rp schedule.EventRangeProvider, start, end time.Time) (map[string][]*schedule.Event, error) {
	events, err := rp.GetEventsByRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", schedule.ErrStorageUnavailable, err)
	}

	result := make(map[string][]*schedule.Event)
	for _, e := range events {
		key := dateutil.FormatDate(e.Date)
		result[key] = append(result[key], e)
	}

	// Cache every date in the span, empty slices included, so later
	// per-date reads stay local.
	ix.mu.Lock()
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		key := dateutil.FormatDate(d)
		if events, ok := result[key]; ok {
			ix.byDate[key] = events
		} else {
			ix.byDate[key] = []*schedule.Event{}
		}
	}
	ix.mu.Unlock()

	return result, nil
}

// IsOccupied returns true if any event covers the hour on that machine and date.
func (ix *Index) IsOccupied(ctx context.Context, machine string, date time.Time, hour int) (bool, error) {
	e, err := ix.EventAt(ctx, machine, date, hour)
	if err != nil {
		return false, err
	}
	return e != nil, nil
}

// EventAt returns the event covering the hour on that machine and date,
// or nil if the hour is not occupied.
func (ix *Index) EventAt(ctx context.Context, machine string, date time.Time, hour int) (*schedule.Event, error) {
	events, err := ix.loadDate(ctx, date)
	if err != nil {
		return nil, err
	}
	for _, e := range events {
		if e.Machine == machine && e.Covers(hour) {
			return e, nil
		}
	}
	return nil, nil
}

// Add persists a new event after checking it against existing events on
// the same machine and date. An overlap is rejected with a
// schedule.ConflictError carrying the conflicting event; nothing is
// written in that case.
func (ix *Index) Add(ctx context.Context, event *schedule.Event) (string, error) {
	existing, err := ix.loadDate(ctx, event.Date)
	if err != nil {
		return "", err
	}

	for _, e := range existing {
		if event.Overlaps(e) {
			return "", &schedule.ConflictError{Conflicting: e}
		}
	}

	id, err := ix.provider.AddEvent(ctx, event)
	if err != nil {
		return "", fmt.Errorf("%w: %v", schedule.ErrStorageWriteFailed, err)
	}

	dateKey := dateutil.FormatDate(event.Date)
	ix.mu.Lock()
	if cached, ok := ix.byDate[dateKey]; ok {
		ix.byDate[dateKey] = append(cached, event)
	}
	ix.mu.Unlock()

	return id, nil
}

// Remove deletes an event by id.
// Returns schedule.ErrEventNotFound if no such event exists.
func (ix *Index) Remove(ctx context.Context, id string) error {
	if err := ix.provider.RemoveEvent(ctx, id); err != nil {
		return err
	}

	ix.mu.Lock()
	for dateKey, events := range ix.byDate {
		for i, e := range events {
			if e.ID == id {
				ix.byDate[dateKey] = append(events[:i], events[i+1:]...)
				break
			}
		}
	}
	ix.mu.Unlock()

	return nil
}

// Invalidate drops the cached events for one date.
func (ix *Index) Invalidate(date time.Time) {
	ix.mu.Lock()
	delete(ix.byDate, dateutil.FormatDate(date))
	ix.mu.Unlock()
}

// Clear drops every cached date.
func (ix *Index) Clear() {
	ix.mu.Lock()
	ix.byDate = make(map[string][]*schedule.Event)
	ix.mu.Unlock()
}

func (ix *Index) loadDate(ctx context.Context, date time.Time) ([]*schedule.Event, error) {
	dateKey := dateutil.FormatDate(date)

	ix.mu.Lock()
	if events, ok := ix.byDate[dateKey]; ok {
		ix.mu.Unlock()
		return events, nil
	}
	ix.mu.Unlock()

	events, err := ix.provider.GetEventsByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", schedule.ErrStorageUnavailable, err)
	}
	if events == nil {
		events = []*schedule.Event{}
	}

	ix.mu.Lock()
	ix.byDate[dateKey] = events
	ix.mu.Unlock()

	return events, nil
}
