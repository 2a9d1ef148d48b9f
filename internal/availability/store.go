// Package availability provides the per-machine availability store with
// date-scoped caching over a storage provider.
package availability

import (
	"context"
	"fmt"
	"sync"
	"time"

	"machcal/internal/dateutil"
	"machcal/internal/schedule"
)

// cacheKey identifies one availability row.
type cacheKey struct {
	machine string
	date    string // YYYY-MM-DD
}

// Store reads and writes per-machine unavailable hours through a storage
// provider, caching results keyed by (machine, date).
//
// Reads degrade gracefully: a failed fetch yields an empty set alongside an
// error wrapping schedule.ErrStorageUnavailable, so the caller can keep the
// UI usable. Writes are full-replacement: on success the cache entry is
// updated synchronously before the call returns; on failure the cache is
// left untouched so the caller can retry against last-known-good data.
type Store struct {
	provider schedule.Provider

	mu    sync.Mutex
	cache map[cacheKey]schedule.HourSet
}

// New creates a Store backed by the given provider.
func New(provider schedule.Provider) *Store {
	return &Store{
		provider: provider,
		cache:    make(map[cacheKey]schedule.HourSet),
	}
}

func keyFor(machine string, date time.Time) cacheKey {
	return cacheKey{machine: machine, date: dateutil.FormatDate(date)}
}

// GetForDate returns the unavailable hours for a machine on a date.
// Cached values are returned without touching the provider. On fetch
// failure an empty set is returned together with the storage error.
func (s *Store) GetForDate(ctx context.Context, machine string, date time.Time) (schedule.HourSet, error) {
	key := keyFor(machine, date)

	s.mu.Lock()
	if hours, ok := s.cache[key]; ok {
		s.mu.Unlock()
		return hours, nil
	}
	s.mu.Unlock()

	hours, err := s.provider.GetAvailability(ctx, machine, date)
	if err != nil {
		return schedule.HourSet{}, fmt.Errorf("%w: %v", schedule.ErrStorageUnavailable, err)
	}

	s.mu.Lock()
	s.cache[key] = hours
	s.mu.Unlock()

	return hours, nil
}

// GetForRange returns unavailable hours for every date in [start, end]
// (inclusive), keyed by YYYY-MM-DD. Dates with no unavailable hours map to
// an empty set. The provider's batch endpoint is used when it offers one;
// otherwise the store falls back to one GetForDate call per day.
func (s *Store) GetForRange(ctx context.Context, machine string, start, end time.Time) (map[string]schedule.HourSet, error) {
	start = dateutil.TruncateToDay(start)
	end = dateutil.TruncateToDay(end)

	if rp, ok := s.provider.(schedule.RangeProvider); ok {
		return s.getRangeBatch(ctx, rp, machine, start, end)
	}
	return s.getRangePerDate(ctx, machine, start, end)
}

func (s *Store) getRangeBatch(ctx context.Context, rp schedule.RangeProvider, machine string, start, end time.Time) (map[string]schedule.HourSet, error) {
	fetched, err := rp.GetAvailabilityRange(ctx, machine, start, end)
	if err != nil {
		return emptyRange(start, end), fmt.Errorf("%w: %v", schedule.ErrStorageUnavailable, err)
	}

	result := make(map[string]schedule.HourSet)
	s.mu.Lock()
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		dateKey := dateutil.FormatDate(day)
		hours := fetched[dateKey] // zero value (empty set) for absent rows
		s.cache[cacheKey{machine: machine, date: dateKey}] = hours
		result[dateKey] = hours
	}
	s.mu.Unlock()

	return result, nil
}

func (s *Store) getRangePerDate(ctx context.Context, machine string, start, end time.Time) (map[string]schedule.HourSet, error) {
	result := make(map[string]schedule.HourSet)
	var firstErr error

	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		hours, err := s.GetForDate(ctx, machine, day)
		if err != nil && firstErr == nil {
			firstErr = err
		}
		result[dateutil.FormatDate(day)] = hours
	}

	return result, firstErr
}

// Set replaces the full unavailable-hour set for a machine on a date and
// writes it through to the provider. The cache entry is refreshed only
// after the write succeeds.
func (s *Store) Set(ctx context.Context, machine string, date time.Time, hours schedule.HourSet) error {
	if err := s.provider.SetAvailability(ctx, machine, date, hours); err != nil {
		return fmt.Errorf("%w: %v", schedule.ErrStorageWriteFailed, err)
	}

	s.mu.Lock()
	s.cache[keyFor(machine, date)] = hours
	s.mu.Unlock()

	return nil
}

// ToggleHour flips a single hour's availability and persists the new set,
// returning it. The read-modify-write is not atomic across concurrent
// callers; the interaction controller serializes calls per slot target.
func (s *Store) ToggleHour(ctx context.Context, machine string, date time.Time, hour int) (schedule.HourSet, error) {
	if hour < 0 || hour >= schedule.HoursPerDay {
		return schedule.HourSet{}, fmt.Errorf("%w: %d", schedule.ErrInvalidHour, hour)
	}

	hours, err := s.GetForDate(ctx, machine, date)
	if err != nil {
		return schedule.HourSet{}, err
	}

	hours.Toggle(hour)
	if err := s.Set(ctx, machine, date, hours); err != nil {
		return schedule.HourSet{}, err
	}
	return hours, nil
}

// IsUnavailable returns true if the hour is marked unavailable for the
// machine on the date. Fetch failures degrade to available.
func (s *Store) IsUnavailable(ctx context.Context, machine string, date time.Time, hour int) (bool, error) {
	hours, err := s.GetForDate(ctx, machine, date)
	if err != nil {
		return false, err
	}
	return hours.Contains(hour), nil
}

// Invalidate drops the cache entry for one (machine, date) key, forcing
// the next read to hit the provider. Used after failed optimistic updates
// and after scheduling mutations that may have made the entry stale.
func (s *Store) Invalidate(machine string, date time.Time) {
	s.mu.Lock()
	delete(s.cache, keyFor(machine, date))
	s.mu.Unlock()
}

// InvalidateMachine drops every cached entry for one machine, across all
// dates. Used when switching the selected machine after bulk edits.
func (s *Store) InvalidateMachine(machine string) {
	s.mu.Lock()
	for key := range s.cache {
		if key.machine == machine {
			delete(s.cache, key)
		}
	}
	s.mu.Unlock()
}

// Clear drops every cache entry.
func (s *Store) Clear() {
	s.mu.Lock()
	s.cache = make(map[cacheKey]schedule.HourSet)
	s.mu.Unlock()
}

// CachedLen returns the number of cached entries. Exposed for tests.
func (s *Store) CachedLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cache)
}

func emptyRange(start, end time.Time) map[string]schedule.HourSet {
	result := make(map[string]schedule.HourSet)
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		result[dateutil.FormatDate(day)] = schedule.HourSet{}
	}
	return result
}
