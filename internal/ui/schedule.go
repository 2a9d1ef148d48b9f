package ui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"machcal/internal/availability"
	"machcal/internal/dateutil"
	"machcal/internal/index"
	"machcal/internal/schedule"
	"machcal/internal/scheduler"
	"machcal/internal/validate"
)

// searchHorizonDays bounds how far ahead --auto looks for a free slot.
const searchHorizonDays = 30

func (a *App) scheduleCmd() *cobra.Command {
	var (
		date string
		auto bool
	)

	cmd := &cobra.Command{
		Use:   "schedule TASK_ID MACHINE [START_HOUR]",
		Short: "Schedule a task onto a machine slot",
		Long: `Schedule a production task starting at the given hour. The task's
registered duration determines how many hours it occupies; every hour
in the range must be free and available.

With --auto the start hour is omitted and the first slot that fits the
task is used, searching forward from the given date.`,
		Args: cobra.RangeArgs(2, 3),
		Example: `  machcal schedule 8a4f... CNC-01 9
  machcal schedule 8a4f... CNC-01 13 --date 2025-03-10
  machcal schedule 8a4f... CNC-01 --auto`,
		RunE: func(_ *cobra.Command, args []string) error {
			taskID, machine := args[0], args[1]

			day, err := dateutil.ParseDate(date)
			if err != nil {
				return err
			}

			ctx := context.Background()
			if err := a.requireMachine(ctx, machine); err != nil {
				return err
			}

			start := 0
			switch {
			case auto:
				start, day, err = a.findSlot(ctx, taskID, machine, day)
				if err != nil {
					return err
				}
			case len(args) == 3:
				start, err = strconv.Atoi(args[2])
				if err != nil {
					return fmt.Errorf("start hour must be a number, got %q", args[2])
				}
			default:
				return errors.New("provide a start hour or use --auto")
			}

			event, err := a.controller().DropTask(ctx, taskID, machine, day, start)
			if err != nil {
				return describeRejection(err)
			}

			fmt.Printf("Scheduled %s on %s %s %02d:00-%02d:00 (event %s)\n",
				event.TaskID, machine, dateutil.FormatDate(day), event.StartHour, event.EndHour, event.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Date (YYYY-MM-DD, defaults to today)")
	cmd.Flags().BoolVar(&auto, "auto", false, "Pick the first free slot that fits the task")
	return cmd
}

// findSlot searches forward from the given date for the first span of
// free hours that fits the task on the machine.
func (a *App) findSlot(ctx context.Context, taskID, machine string, from time.Time) (int, time.Time, error) {
	task, err := a.store.GetTaskByID(ctx, taskID)
	if err != nil {
		return 0, from, fmt.Errorf("looking up task: %w", err)
	}

	avail := availability.New(a.store)
	ix := index.New(a.store)
	busy := func(ctx context.Context, date time.Time) (schedule.HourSet, error) {
		hours, err := avail.GetForDate(ctx, machine, date)
		if err != nil {
			return schedule.HourSet{}, err
		}
		events, err := ix.EventsForDate(ctx, machine, date)
		if err != nil {
			return schedule.HourSet{}, err
		}
		for _, e := range events {
			for h := e.StartHour; h < e.EndHour; h++ {
				hours.Add(h)
			}
		}
		return hours, nil
	}

	s := scheduler.New(a.config.Calendar.DayStartHour, a.config.Calendar.DayEndHour)
	slot, err := s.NextFit(ctx, busy, from, task.DurationHours, searchHorizonDays)
	if err != nil {
		return 0, from, err
	}
	return slot.StartHour, slot.Date, nil
}

func (a *App) unscheduleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unschedule EVENT_ID",
		Short: "Remove a scheduled event and free its slot",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			err := a.controller().Unschedule(context.Background(), args[0])
			if errors.Is(err, schedule.ErrEventNotFound) {
				return fmt.Errorf("no event with id %s", args[0])
			}
			if err != nil {
				return fmt.Errorf("unscheduling: %w", err)
			}
			fmt.Printf("Unscheduled event %s\n", args[0])
			return nil
		},
	}
}

// describeRejection turns validation errors into actionable messages.
func describeRejection(err error) error {
	var rej *validate.Rejection
	if errors.As(err, &rej) {
		switch rej.Reason {
		case validate.ReasonOccupied:
			return fmt.Errorf("hour %02d:00 is already occupied by another task", rej.Hour)
		case validate.ReasonUnavailable:
			return fmt.Errorf("hour %02d:00 is blocked on this machine", rej.Hour)
		case validate.ReasonInvalidRange:
			return errors.New("the task does not fit before the end of the day")
		}
	}

	var conflict *schedule.ConflictError
	if errors.As(err, &conflict) {
		return fmt.Errorf("conflicts with event %s (%02d:00-%02d:00)",
			conflict.Conflicting.ID, conflict.Conflicting.StartHour, conflict.Conflicting.EndHour)
	}

	return fmt.Errorf("scheduling: %w", err)
}
