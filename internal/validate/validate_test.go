package validate

import (
	"context"
	"errors"
	"testing"
	"time"

	"machcal/internal/schedule"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

// fakeSlots serves occupancy and availability from fixed hour sets.
type fakeSlots struct {
	occupied    schedule.HourSet
	unavailable schedule.HourSet
	err         error
}

func (f *fakeSlots) IsOccupied(_ context.Context, _ string, _ time.Time, hour int) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.occupied.Contains(hour), nil
}

func (f *fakeSlots) IsUnavailable(_ context.Context, _ string, _ time.Time, hour int) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.unavailable.Contains(hour), nil
}

func TestCellStateOf(t *testing.T) {
	tests := []struct {
		name        string
		occupied    bool
		unavailable bool
		want        CellState
	}{
		{name: "free", want: StateFree},
		{name: "unavailable", unavailable: true, want: StateUnavailable},
		{name: "occupied", occupied: true, want: StateOccupied},
		{name: "occupied wins over unavailable", occupied: true, unavailable: true, want: StateOccupied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CellStateOf(tt.occupied, tt.unavailable); got != tt.want {
				t.Errorf("CellStateOf(%v, %v) = %v, want %v", tt.occupied, tt.unavailable, got, tt.want)
			}
		})
	}
}

func TestCanMarkUnavailable(t *testing.T) {
	// Event on M1 2025-03-10 covering 9:00-11:00.
	slots := &fakeSlots{occupied: schedule.NewHourSet(9, 10)}
	v := New(slots, slots)
	ctx := context.Background()
	day := date(2025, time.March, 10)

	tests := []struct {
		name string
		hour int
		want bool
	}{
		{name: "occupied start hour", hour: 9, want: false},
		{name: "occupied middle hour", hour: 10, want: false},
		{name: "free hour past event", hour: 12, want: true},
		{name: "free hour before event", hour: 8, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.CanMarkUnavailable(ctx, "M1", day, tt.hour)
			if err != nil {
				t.Fatalf("CanMarkUnavailable() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("CanMarkUnavailable(hour %d) = %v, want %v", tt.hour, got, tt.want)
			}
		})
	}

	if _, err := v.CanMarkUnavailable(ctx, "M1", day, 24); !errors.Is(err, schedule.ErrInvalidHour) {
		t.Errorf("hour 24 error = %v, want ErrInvalidHour", err)
	}
}

func TestCanMarkUnavailableOnAlreadyUnavailableHour(t *testing.T) {
	// Toggling an unavailable hour back must be allowed.
	slots := &fakeSlots{unavailable: schedule.NewHourSet(9)}
	v := New(slots, slots)

	got, err := v.CanMarkUnavailable(context.Background(), "M1", date(2025, time.March, 10), 9)
	if err != nil {
		t.Fatalf("CanMarkUnavailable() error: %v", err)
	}
	if !got {
		t.Error("unavailable hour without an event should be toggleable")
	}
}

func TestCanScheduleTask(t *testing.T) {
	slots := &fakeSlots{
		occupied:    schedule.NewHourSet(13, 14),
		unavailable: schedule.NewHourSet(17),
	}
	v := New(slots, slots)
	ctx := context.Background()
	day := date(2025, time.March, 10)

	tests := []struct {
		name       string
		start      int
		duration   int
		wantReason Reason
		wantHour   int
	}{
		{name: "fits in free range", start: 9, duration: 3},
		{name: "ends exactly at occupied", start: 10, duration: 3},
		{name: "ends at midnight", start: 21, duration: 3},
		{name: "hits occupied hour", start: 12, duration: 2, wantReason: ReasonOccupied, wantHour: 13},
		{name: "starts on occupied hour", start: 13, duration: 1, wantReason: ReasonOccupied, wantHour: 13},
		{name: "hits unavailable hour", start: 16, duration: 2, wantReason: ReasonUnavailable, wantHour: 17},
		{name: "occupied reported before later unavailable", start: 12, duration: 6, wantReason: ReasonOccupied, wantHour: 13},
		{name: "duration past midnight", start: 22, duration: 3, wantReason: ReasonInvalidRange, wantHour: 22},
		{name: "zero duration", start: 9, duration: 0, wantReason: ReasonInvalidRange, wantHour: 9},
		{name: "negative duration", start: 9, duration: -2, wantReason: ReasonInvalidRange, wantHour: 9},
		{name: "negative start", start: -1, duration: 2, wantReason: ReasonInvalidRange, wantHour: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.CanScheduleTask(ctx, "M1", day, tt.start, tt.duration)
			if tt.wantReason == "" {
				if err != nil {
					t.Fatalf("CanScheduleTask() unexpected error: %v", err)
				}
				return
			}

			var rej *Rejection
			if !errors.As(err, &rej) {
				t.Fatalf("CanScheduleTask() error = %v, want *Rejection", err)
			}
			if rej.Reason != tt.wantReason {
				t.Errorf("reason = %q, want %q", rej.Reason, tt.wantReason)
			}
			if rej.Hour != tt.wantHour {
				t.Errorf("hour = %d, want %d", rej.Hour, tt.wantHour)
			}
		})
	}
}

// If a range of consecutive hours is free, every sub-range must also be free.
func TestCanScheduleTaskMonotonic(t *testing.T) {
	slots := &fakeSlots{
		occupied:    schedule.NewHourSet(6),
		unavailable: schedule.NewHourSet(18),
	}
	v := New(slots, slots)
	ctx := context.Background()
	day := date(2025, time.March, 10)

	// 7..17 is free (11 hours).
	const freeStart, freeLen = 7, 11
	if err := v.CanScheduleTask(ctx, "M1", day, freeStart, freeLen); err != nil {
		t.Fatalf("full free range rejected: %v", err)
	}

	for start := freeStart; start < freeStart+freeLen; start++ {
		for duration := 1; start+duration <= freeStart+freeLen; duration++ {
			if err := v.CanScheduleTask(ctx, "M1", day, start, duration); err != nil {
				t.Errorf("sub-range start=%d duration=%d rejected: %v", start, duration, err)
			}
		}
	}
}

func TestRejectionUnwrap(t *testing.T) {
	tests := []struct {
		reason Reason
		want   error
	}{
		{reason: ReasonOccupied, want: schedule.ErrSlotOccupied},
		{reason: ReasonUnavailable, want: schedule.ErrSlotUnavailable},
		{reason: ReasonInvalidRange, want: schedule.ErrInvalidRange},
	}

	for _, tt := range tests {
		rej := &Rejection{Reason: tt.reason, Hour: 9}
		if !errors.Is(rej, tt.want) {
			t.Errorf("Rejection(%q) does not match %v", tt.reason, tt.want)
		}
	}
}

func TestValidatorPropagatesStorageErrors(t *testing.T) {
	slots := &fakeSlots{err: schedule.ErrStorageUnavailable}
	v := New(slots, slots)
	ctx := context.Background()
	day := date(2025, time.March, 10)

	if _, err := v.CanMarkUnavailable(ctx, "M1", day, 9); !errors.Is(err, schedule.ErrStorageUnavailable) {
		t.Errorf("CanMarkUnavailable() error = %v, want storage error", err)
	}
	if err := v.CanScheduleTask(ctx, "M1", day, 9, 2); !errors.Is(err, schedule.ErrStorageUnavailable) {
		t.Errorf("CanScheduleTask() error = %v, want storage error", err)
	}
}

func TestCellState(t *testing.T) {
	slots := &fakeSlots{
		occupied:    schedule.NewHourSet(9),
		unavailable: schedule.NewHourSet(9, 10),
	}
	v := New(slots, slots)
	ctx := context.Background()
	day := date(2025, time.March, 10)

	tests := []struct {
		hour int
		want CellState
	}{
		{hour: 9, want: StateOccupied}, // occupied wins even when also unavailable
		{hour: 10, want: StateUnavailable},
		{hour: 11, want: StateFree},
	}

	for _, tt := range tests {
		got, err := v.CellState(ctx, "M1", day, tt.hour)
		if err != nil {
			t.Fatalf("CellState(hour %d) error: %v", tt.hour, err)
		}
		if got != tt.want {
			t.Errorf("CellState(hour %d) = %v, want %v", tt.hour, got, tt.want)
		}
	}
}
