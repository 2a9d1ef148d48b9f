// Package controller mediates slot interactions: toggling availability,
// dropping tasks onto slots and unscheduling events. It validates before
// mutating and reports outcomes through callbacks.
package controller

import (
	"context"
	"fmt"
	"sync"
	"time"

	"machcal/internal/availability"
	"machcal/internal/index"
	"machcal/internal/schedule"
	"machcal/internal/validate"
)

// SlotClick is the outcome of a toggle-availability interaction.
// Err is nil on success; Hours then holds the new unavailable-hour set.
type SlotClick struct {
	Machine string
	Date    time.Time
	Hour    int
	Hours   schedule.HourSet
	Err     error
}

// SlotDrop is the outcome of a drop-task interaction.
// Err is nil on success; Event then holds the created event.
type SlotDrop struct {
	TaskID    string
	Machine   string
	Date      time.Time
	StartHour int
	Event     *schedule.Event
	Err       error
}

// Controller coordinates one interaction at a time. While an interaction's
// write is in flight the controller is busy and further requests are
// dropped with schedule.ErrBusy rather than queued; the busy state is
// cleared on every exit path, success or failure.
type Controller struct {
	store     *availability.Store
	index     *index.Index
	tasks     schedule.TaskProvider
	validator *validate.Validator

	onSlotClick func(SlotClick)
	onSlotDrop  func(SlotDrop)

	mu   sync.Mutex
	busy bool
}

// New creates a controller over the given store, index and task provider.
func New(store *availability.Store, ix *index.Index, tasks schedule.TaskProvider) *Controller {
	return &Controller{
		store:     store,
		index:     ix,
		tasks:     tasks,
		validator: validate.New(ix, store),
	}
}

// OnSlotClick registers the toggle-outcome callback.
func (c *Controller) OnSlotClick(fn func(SlotClick)) {
	c.onSlotClick = fn
}

// OnSlotDrop registers the drop-outcome callback.
func (c *Controller) OnSlotDrop(fn func(SlotDrop)) {
	c.onSlotDrop = fn
}

// Busy reports whether an interaction is currently in flight.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// begin claims the controller for one interaction.
func (c *Controller) begin() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy {
		return schedule.ErrBusy
	}
	c.busy = true
	return nil
}

// end releases the controller. Deferred on every interaction so the busy
// flag can never stick after an error.
func (c *Controller) end() {
	c.mu.Lock()
	c.busy = false
	c.mu.Unlock()
}

// ToggleAvailability flips one hour's availability for a machine.
// The toggle is refused with schedule.ErrSlotOccupied if the hour is
// covered by a scheduled event, and with schedule.ErrBusy if another
// interaction is in flight. On success the new hour set is returned and
// the affected cell can be re-rendered.
func (c *Controller) ToggleAvailability(ctx context.Context, machine string, date time.Time, hour int) (schedule.HourSet, error) {
	if err := c.begin(); err != nil {
		return schedule.HourSet{}, err
	}
	defer c.end()

	hours, err := c.toggle(ctx, machine, date, hour)
	c.reportClick(SlotClick{Machine: machine, Date: date, Hour: hour, Hours: hours, Err: err})
	return hours, err
}

func (c *Controller) toggle(ctx context.Context, machine string, date time.Time, hour int) (schedule.HourSet, error) {
	ok, err := c.validator.CanMarkUnavailable(ctx, machine, date, hour)
	if err != nil {
		return schedule.HourSet{}, err
	}
	if !ok {
		return schedule.HourSet{}, fmt.Errorf("%w: hour %02d:00", schedule.ErrSlotOccupied, hour)
	}
	return c.store.ToggleHour(ctx, machine, date, hour)
}

// DropTask schedules a task onto a slot. The task's duration comes from
// the task provider; every hour in the resulting range must be free. On
// any validation failure nothing is mutated and the error names the
// offending hour. On success the availability cache entry for the slot's
// date is invalidated: occupancy changed, and downstream consumers may
// derive availability from it.
func (c *Controller) DropTask(ctx context.Context, taskID, machine string, date time.Time, startHour int) (*schedule.Event, error) {
	if err := c.begin(); err != nil {
		return nil, err
	}
	defer c.end()

	event, err := c.drop(ctx, taskID, machine, date, startHour)
	c.reportDrop(SlotDrop{TaskID: taskID, Machine: machine, Date: date, StartHour: startHour, Event: event, Err: err})
	return event, err
}

func (c *Controller) drop(ctx context.Context, taskID, machine string, date time.Time, startHour int) (*schedule.Event, error) {
	task, err := c.tasks.GetTaskByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if err := c.validator.CanScheduleTask(ctx, machine, date, startHour, task.DurationHours); err != nil {
		return nil, err
	}

	event, err := schedule.NewEvent(taskID, machine, date, startHour, startHour+task.DurationHours)
	if err != nil {
		return nil, err
	}

	if _, err := c.index.Add(ctx, event); err != nil {
		return nil, err
	}

	c.store.Invalidate(machine, date)
	return event, nil
}

// Unschedule removes a scheduled event and frees its slot.
func (c *Controller) Unschedule(ctx context.Context, eventID string) error {
	if err := c.begin(); err != nil {
		return err
	}
	defer c.end()

	return c.index.Remove(ctx, eventID)
}

func (c *Controller) reportClick(result SlotClick) {
	if c.onSlotClick != nil {
		c.onSlotClick(result)
	}
}

func (c *Controller) reportDrop(result SlotDrop) {
	if c.onSlotDrop != nil {
		c.onSlotDrop(result)
	}
}
