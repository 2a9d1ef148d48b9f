// Package validate provides slot validation: the pure decision logic that
// determines whether hours can be blocked out or scheduled over.
package validate

import (
	"context"
	"fmt"
	"time"

	"machcal/internal/schedule"
)

// Occupancy answers whether an hour is covered by a scheduled event.
// Implemented by the schedule index.
type Occupancy interface {
	IsOccupied(ctx context.Context, machine string, date time.Time, hour int) (bool, error)
}

// Availability answers whether an hour is marked unavailable.
// Implemented by the availability store.
type Availability interface {
	IsUnavailable(ctx context.Context, machine string, date time.Time, hour int) (bool, error)
}

// CellState is the visual and logical state of one (machine, date, hour)
// slot. Every slot is in exactly one state; occupied takes precedence over
// unavailable, which takes precedence over free.
type CellState int

const (
	StateFree CellState = iota
	StateUnavailable
	StateOccupied
)

// String returns the state name used in grid descriptions and messages.
func (s CellState) String() string {
	switch s {
	case StateOccupied:
		return "occupied"
	case StateUnavailable:
		return "unavailable"
	default:
		return "free"
	}
}

// CellStateOf applies the precedence rule to raw occupancy and
// availability flags. This is the single definition shared by every view
// and by validation; nothing else may re-derive the precedence.
func CellStateOf(occupied, unavailable bool) CellState {
	switch {
	case occupied:
		return StateOccupied
	case unavailable:
		return StateUnavailable
	default:
		return StateFree
	}
}

// Reason identifies why a scheduling attempt was rejected.
type Reason string

const (
	ReasonOccupied     Reason = "occupied"
	ReasonUnavailable  Reason = "unavailable"
	ReasonInvalidRange Reason = "invalidRange"
)

// Rejection is a terminal validation failure. Hour names the first hour
// that failed, so the operator sees exactly why the interaction was
// refused. Rejections are never retried automatically.
type Rejection struct {
	Reason Reason
	Hour   int
}

func (r *Rejection) Error() string {
	switch r.Reason {
	case ReasonOccupied:
		return fmt.Sprintf("hour %02d:00 is occupied by a scheduled task", r.Hour)
	case ReasonUnavailable:
		return fmt.Sprintf("hour %02d:00 is marked unavailable", r.Hour)
	default:
		return "task does not fit within a single day"
	}
}

// Unwrap maps the rejection onto the domain sentinel errors.
func (r *Rejection) Unwrap() error {
	switch r.Reason {
	case ReasonOccupied:
		return schedule.ErrSlotOccupied
	case ReasonUnavailable:
		return schedule.ErrSlotUnavailable
	default:
		return schedule.ErrInvalidRange
	}
}

// Validator makes slot decisions from occupancy and availability data.
// It has no state and performs no mutations.
type Validator struct {
	occ   Occupancy
	avail Availability
}

// New creates a Validator over the given data sources.
func New(occ Occupancy, avail Availability) *Validator {
	return &Validator{occ: occ, avail: avail}
}

// CanMarkUnavailable returns false iff the hour is occupied by a scheduled
// event: a scheduled task always wins, so an occupied hour can never be
// blocked out. Unavailability of the hour itself does not matter here;
// toggling an already-unavailable hour back to available is legal.
func (v *Validator) CanMarkUnavailable(ctx context.Context, machine string, date time.Time, hour int) (bool, error) {
	if hour < 0 || hour >= schedule.HoursPerDay {
		return false, fmt.Errorf("%w: %d", schedule.ErrInvalidHour, hour)
	}
	occupied, err := v.occ.IsOccupied(ctx, machine, date, hour)
	if err != nil {
		return false, err
	}
	return !occupied, nil
}

// CanScheduleTask checks whether a task of the given duration fits at
// startHour. Every hour in [startHour, startHour+duration) must be neither
// occupied nor unavailable; the check fails fast on the first bad hour and
// returns a *Rejection naming it. Ranges that escape the day are rejected
// as invalid: there is no cross-midnight scheduling.
func (v *Validator) CanScheduleTask(ctx context.Context, machine string, date time.Time, startHour, duration int) error {
	if duration <= 0 || startHour < 0 || startHour+duration > schedule.HoursPerDay {
		return &Rejection{Reason: ReasonInvalidRange, Hour: startHour}
	}

	for hour := startHour; hour < startHour+duration; hour++ {
		occupied, err := v.occ.IsOccupied(ctx, machine, date, hour)
		if err != nil {
			return err
		}
		if occupied {
			return &Rejection{Reason: ReasonOccupied, Hour: hour}
		}

		unavailable, err := v.avail.IsUnavailable(ctx, machine, date, hour)
		if err != nil {
			return err
		}
		if unavailable {
			return &Rejection{Reason: ReasonUnavailable, Hour: hour}
		}
	}

	return nil
}

// CellState resolves the state of a single slot using the shared
// precedence rule.
func (v *Validator) CellState(ctx context.Context, machine string, date time.Time, hour int) (CellState, error) {
	occupied, err := v.occ.IsOccupied(ctx, machine, date, hour)
	if err != nil {
		return StateFree, err
	}
	unavailable, err := v.avail.IsUnavailable(ctx, machine, date, hour)
	if err != nil {
		return StateFree, err
	}
	return CellStateOf(occupied, unavailable), nil
}
