package schedule

import (
	"errors"
	"fmt"
)

// Validation errors. Validation rejections are terminal: the caller reports
// them to the operator and never retries automatically.
var (
	ErrEmptyTaskID     = errors.New("task id cannot be empty")
	ErrEmptyMachine    = errors.New("machine cannot be empty")
	ErrInvalidHour     = errors.New("hour must be between 0 and 23")
	ErrInvalidRange    = errors.New("hour range must fit within a single day")
	ErrSlotOccupied    = errors.New("slot is occupied by a scheduled task")
	ErrSlotUnavailable = errors.New("slot is marked unavailable")
)

// Domain errors.
var (
	ErrEventOverlap  = errors.New("event overlaps with an existing event")
	ErrEventNotFound = errors.New("event not found")
	ErrTaskNotFound  = errors.New("task not found")
	ErrBusy          = errors.New("another slot operation is in flight")
)

// Storage errors. Reads degrade to empty data; writes leave prior state in
// place so the operator can retry manually. There is no automatic retry.
var (
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrStorageWriteFailed = errors.New("storage write failed")
	ErrMachineNotFound    = errors.New("machine not found")
)

// ConflictError reports that a new event would overlap an existing one.
// The conflicting event is carried for operator-facing messaging.
type ConflictError struct {
	Conflicting *Event
}

func (e *ConflictError) Error() string {
	c := e.Conflicting
	return fmt.Sprintf("%v: task %s at %02d:00-%02d:00", ErrEventOverlap, c.TaskID, c.StartHour, c.EndHour)
}

// Unwrap makes errors.Is(err, ErrEventOverlap) work on conflict errors.
func (e *ConflictError) Unwrap() error {
	return ErrEventOverlap
}
