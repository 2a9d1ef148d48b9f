package schedule

import (
	"errors"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func TestNewEvent(t *testing.T) {
	tests := []struct {
		name    string
		taskID  string
		machine string
		start   int
		end     int
		wantErr error
	}{
		{name: "valid", taskID: "t1", machine: "M1", start: 9, end: 11},
		{name: "full day", taskID: "t1", machine: "M1", start: 0, end: 24},
		{name: "single hour", taskID: "t1", machine: "M1", start: 23, end: 24},
		{name: "empty task", taskID: "", machine: "M1", start: 9, end: 11, wantErr: ErrEmptyTaskID},
		{name: "empty machine", taskID: "t1", machine: "", start: 9, end: 11, wantErr: ErrEmptyMachine},
		{name: "negative start", taskID: "t1", machine: "M1", start: -1, end: 2, wantErr: ErrInvalidRange},
		{name: "end past midnight", taskID: "t1", machine: "M1", start: 22, end: 25, wantErr: ErrInvalidRange},
		{name: "zero duration", taskID: "t1", machine: "M1", start: 9, end: 9, wantErr: ErrInvalidRange},
		{name: "inverted range", taskID: "t1", machine: "M1", start: 11, end: 9, wantErr: ErrInvalidRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := NewEvent(tt.taskID, tt.machine, date(2025, time.March, 10), tt.start, tt.end)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("NewEvent() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewEvent() unexpected error: %v", err)
			}
			if ev.ID == "" {
				t.Error("NewEvent() did not assign an id")
			}
			if ev.Duration() != tt.end-tt.start {
				t.Errorf("Duration() = %d, want %d", ev.Duration(), tt.end-tt.start)
			}
		})
	}
}

func TestEventCovers(t *testing.T) {
	ev := &Event{Machine: "M1", Date: date(2025, time.March, 10), StartHour: 9, EndHour: 11}

	tests := []struct {
		hour int
		want bool
	}{
		{hour: 8, want: false},
		{hour: 9, want: true},
		{hour: 10, want: true},
		{hour: 11, want: false}, // end hour is exclusive
		{hour: 12, want: false},
	}

	for _, tt := range tests {
		if got := ev.Covers(tt.hour); got != tt.want {
			t.Errorf("Covers(%d) = %v, want %v", tt.hour, got, tt.want)
		}
	}
}

func TestEventOverlaps(t *testing.T) {
	base := &Event{Machine: "M1", Date: date(2025, time.March, 10), StartHour: 9, EndHour: 11}

	tests := []struct {
		name  string
		other *Event
		want  bool
	}{
		{
			name:  "same range",
			other: &Event{Machine: "M1", Date: date(2025, time.March, 10), StartHour: 9, EndHour: 11},
			want:  true,
		},
		{
			name:  "partial overlap",
			other: &Event{Machine: "M1", Date: date(2025, time.March, 10), StartHour: 10, EndHour: 12},
			want:  true,
		},
		{
			name:  "adjacent after",
			other: &Event{Machine: "M1", Date: date(2025, time.March, 10), StartHour: 11, EndHour: 13},
			want:  false,
		},
		{
			name:  "adjacent before",
			other: &Event{Machine: "M1", Date: date(2025, time.March, 10), StartHour: 7, EndHour: 9},
			want:  false,
		},
		{
			name:  "different machine",
			other: &Event{Machine: "M2", Date: date(2025, time.March, 10), StartHour: 9, EndHour: 11},
			want:  false,
		},
		{
			name:  "different date",
			other: &Event{Machine: "M1", Date: date(2025, time.March, 11), StartHour: 9, EndHour: 11},
			want:  false,
		},
		{name: "nil", other: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.Overlaps(tt.other); got != tt.want {
				t.Errorf("Overlaps() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConflictError(t *testing.T) {
	conflict := &ConflictError{
		Conflicting: &Event{TaskID: "t7", Machine: "M1", StartHour: 9, EndHour: 11},
	}

	if !errors.Is(conflict, ErrEventOverlap) {
		t.Error("ConflictError should match ErrEventOverlap")
	}

	var ce *ConflictError
	if !errors.As(error(conflict), &ce) {
		t.Fatal("errors.As failed on ConflictError")
	}
	if ce.Conflicting.TaskID != "t7" {
		t.Errorf("Conflicting.TaskID = %q, want %q", ce.Conflicting.TaskID, "t7")
	}
}
