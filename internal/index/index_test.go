package index

import (
	"context"
	"errors"
	"testing"
	"time"

	"machcal/internal/dateutil"
	"machcal/internal/schedule"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

// fakeProvider is an in-memory event store that performs no overlap checks,
// matching the contract that conflict detection lives in the index.
type fakeProvider struct {
	events map[string]*schedule.Event // id -> event

	listCalls int
	failReads bool
	failWrite bool
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{events: make(map[string]*schedule.Event)}
}

func (f *fakeProvider) GetAvailability(context.Context, string, time.Time) (schedule.HourSet, error) {
	return schedule.HourSet{}, nil
}

func (f *fakeProvider) SetAvailability(context.Context, string, time.Time, schedule.HourSet) error {
	return nil
}

func (f *fakeProvider) GetEventsByDate(_ context.Context, d time.Time) ([]*schedule.Event, error) {
	f.listCalls++
	if f.failReads {
		return nil, errors.New("connection refused")
	}
	var result []*schedule.Event
	for _, e := range f.events {
		if dateutil.SameDay(e.Date, d) {
			result = append(result, e)
		}
	}
	return result, nil
}

func (f *fakeProvider) AddEvent(_ context.Context, e *schedule.Event) (string, error) {
	if f.failWrite {
		return "", errors.New("disk full")
	}
	f.events[e.ID] = e
	return e.ID, nil
}

func (f *fakeProvider) RemoveEvent(_ context.Context, id string) error {
	if _, ok := f.events[id]; !ok {
		return schedule.ErrEventNotFound
	}
	delete(f.events, id)
	return nil
}

func mustEvent(t *testing.T, taskID, machine string, d time.Time, start, end int) *schedule.Event {
	t.Helper()
	e, err := schedule.NewEvent(taskID, machine, d, start, end)
	if err != nil {
		t.Fatalf("NewEvent: %v", err)
	}
	return e
}

func TestAddAndQuery(t *testing.T) {
	ix := New(newFakeProvider())
	ctx := context.Background()
	day := date(2025, time.March, 10)

	e := mustEvent(t, "t1", "M1", day, 9, 11)
	id, err := ix.Add(ctx, e)
	if err != nil {
		t.Fatalf("Add() error: %v", err)
	}
	if id != e.ID {
		t.Errorf("Add() id = %q, want %q", id, e.ID)
	}

	occupied, err := ix.IsOccupied(ctx, "M1", day, 9)
	if err != nil {
		t.Fatalf("IsOccupied() error: %v", err)
	}
	if !occupied {
		t.Error("hour 9 should be occupied")
	}

	occupied, err = ix.IsOccupied(ctx, "M1", day, 11)
	if err != nil {
		t.Fatalf("IsOccupied() error: %v", err)
	}
	if occupied {
		t.Error("hour 11 should be free, end hour is exclusive")
	}

	occupied, err = ix.IsOccupied(ctx, "M2", day, 9)
	if err != nil {
		t.Fatalf("IsOccupied() error: %v", err)
	}
	if occupied {
		t.Error("other machine should not be occupied")
	}
}

func TestAddRejectsOverlap(t *testing.T) {
	ix := New(newFakeProvider())
	ctx := context.Background()
	day := date(2025, time.March, 10)

	first := mustEvent(t, "t1", "M1", day, 9, 11)
	if _, err := ix.Add(ctx, first); err != nil {
		t.Fatalf("Add() error: %v", err)
	}

	tests := []struct {
		name       string
		event      *schedule.Event
		wantReject bool
	}{
		{name: "identical range", event: mustEvent(t, "t2", "M1", day, 9, 11), wantReject: true},
		{name: "partial overlap", event: mustEvent(t, "t2", "M1", day, 10, 12), wantReject: true},
		{name: "containing range", event: mustEvent(t, "t2", "M1", day, 8, 12), wantReject: true},
		{name: "adjacent after", event: mustEvent(t, "t2", "M1", day, 11, 13), wantReject: false},
		{name: "same hours other machine", event: mustEvent(t, "t2", "M2", day, 9, 11), wantReject: false},
		{name: "same hours other day", event: mustEvent(t, "t2", "M1", date(2025, time.March, 11), 9, 11), wantReject: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ix.Add(ctx, tt.event)
			if !tt.wantReject {
				if err != nil {
					t.Fatalf("Add() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, schedule.ErrEventOverlap) {
				t.Fatalf("Add() error = %v, want ErrEventOverlap", err)
			}
			var conflict *schedule.ConflictError
			if !errors.As(err, &conflict) {
				t.Fatal("rejection should carry a ConflictError")
			}
			if conflict.Conflicting.ID != first.ID {
				t.Errorf("conflicting event = %s, want %s", conflict.Conflicting.ID, first.ID)
			}
		})
	}
}

func TestNoTwoEventsOverlapInvariant(t *testing.T) {
	ix := New(newFakeProvider())
	ctx := context.Background()
	day := date(2025, time.March, 10)

	// Attempt a series of adds, some conflicting; verify the surviving set.
	candidates := []struct{ start, end int }{
		{9, 11}, {10, 12}, {11, 13}, {12, 14}, {8, 9}, {8, 10},
	}
	for _, c := range candidates {
		_, _ = ix.Add(ctx, mustEvent(t, "t", "M1", day, c.start, c.end))
	}

	events, err := ix.EventsForDate(ctx, "M1", day)
	if err != nil {
		t.Fatalf("EventsForDate() error: %v", err)
	}
	for i := 0; i < len(events); i++ {
		for j := i + 1; j < len(events); j++ {
			if events[i].Overlaps(events[j]) {
				t.Errorf("stored events overlap: %d-%d and %d-%d",
					events[i].StartHour, events[i].EndHour,
					events[j].StartHour, events[j].EndHour)
			}
		}
	}
}

func TestEventsForDateAllMachines(t *testing.T) {
	ix := New(newFakeProvider())
	ctx := context.Background()
	day := date(2025, time.March, 10)

	if _, err := ix.Add(ctx, mustEvent(t, "t1", "M1", day, 9, 11)); err != nil {
		t.Fatalf("Add() error: %v", err)
	}
	if _, err := ix.Add(ctx, mustEvent(t, "t2", "M2", day, 9, 11)); err != nil {
		t.Fatalf("Add() error: %v", err)
	}

	all, err := ix.EventsForDate(ctx, "", day)
	if err != nil {
		t.Fatalf("EventsForDate() error: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("all machines = %d events, want 2", len(all))
	}

	one, err := ix.EventsForDate(ctx, "M1", day)
	if err != nil {
		t.Fatalf("EventsForDate() error: %v", err)
	}
	if len(one) != 1 {
		t.Errorf("M1 = %d events, want 1", len(one))
	}
}

func TestRemove(t *testing.T) {
	provider := newFakeProvider()
	ix := New(provider)
	ctx := context.Background()
	day := date(2025, time.March, 10)

	e := mustEvent(t, "t1", "M1", day, 9, 11)
	if _, err := ix.Add(ctx, e); err != nil {
		t.Fatalf("Add() error: %v", err)
	}

	if err := ix.Remove(ctx, e.ID); err != nil {
		t.Fatalf("Remove() error: %v", err)
	}

	occupied, err := ix.IsOccupied(ctx, "M1", day, 9)
	if err != nil {
		t.Fatalf("IsOccupied() error: %v", err)
	}
	if occupied {
		t.Error("hour should be free after removal")
	}

	if err := ix.Remove(ctx, e.ID); !errors.Is(err, schedule.ErrEventNotFound) {
		t.Errorf("Remove() of missing event = %v, want ErrEventNotFound", err)
	}
}

func TestCachePerDate(t *testing.T) {
	provider := newFakeProvider()
	ix := New(provider)
	ctx := context.Background()
	day := date(2025, time.March, 10)

	if _, err := ix.EventsForDate(ctx, "", day); err != nil {
		t.Fatalf("EventsForDate() error: %v", err)
	}
	if _, err := ix.EventsForDate(ctx, "", day); err != nil {
		t.Fatalf("EventsForDate() error: %v", err)
	}
	if provider.listCalls != 1 {
		t.Errorf("provider reads = %d, want 1 (second read cached)", provider.listCalls)
	}

	ix.Invalidate(day)
	if _, err := ix.EventsForDate(ctx, "", day); err != nil {
		t.Fatalf("EventsForDate() error: %v", err)
	}
	if provider.listCalls != 2 {
		t.Errorf("provider reads = %d, want 2 after invalidation", provider.listCalls)
	}
}

func TestReadFailurePropagates(t *testing.T) {
	provider := newFakeProvider()
	provider.failReads = true
	ix := New(provider)

	_, err := ix.IsOccupied(context.Background(), "M1", date(2025, time.March, 10), 9)
	if !errors.Is(err, schedule.ErrStorageUnavailable) {
		t.Errorf("error = %v, want ErrStorageUnavailable", err)
	}
}

func TestAddWriteFailureLeavesCacheClean(t *testing.T) {
	provider := newFakeProvider()
	ix := New(provider)
	ctx := context.Background()
	day := date(2025, time.March, 10)

	provider.failWrite = true
	_, err := ix.Add(ctx, mustEvent(t, "t1", "M1", day, 9, 11))
	if !errors.Is(err, schedule.ErrStorageWriteFailed) {
		t.Fatalf("Add() error = %v, want ErrStorageWriteFailed", err)
	}

	occupied, err := ix.IsOccupied(ctx, "M1", day, 9)
	if err != nil {
		t.Fatalf("IsOccupied() error: %v", err)
	}
	if occupied {
		t.Error("failed write must not leave the slot occupied in cache")
	}
}
