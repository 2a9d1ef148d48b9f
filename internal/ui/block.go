package ui

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"machcal/internal/dateutil"
	"machcal/internal/schedule"
)

func (a *App) blockCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "block MACHINE HOUR",
		Short: "Toggle an hour's availability for a machine",
		Long: `Mark one hour as unavailable for a machine, or clear the mark if
the hour is already blocked. The toggle is refused while a scheduled
task occupies the hour.`,
		Args: cobra.ExactArgs(2),
		Example: `  machcal block CNC-01 9
  machcal block CNC-01 14 --date 2025-03-10`,
		RunE: func(_ *cobra.Command, args []string) error {
			machine := args[0]
			hour, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("hour must be a number, got %q", args[1])
			}

			day, err := dateutil.ParseDate(date)
			if err != nil {
				return err
			}

			ctx := context.Background()
			if err := a.requireMachine(ctx, machine); err != nil {
				return err
			}

			hours, err := a.controller().ToggleAvailability(ctx, machine, day, hour)
			if errors.Is(err, schedule.ErrSlotOccupied) {
				return fmt.Errorf("hour %02d:00 on %s is occupied by a scheduled task; unschedule it first",
					hour, dateutil.FormatDate(day))
			}
			if err != nil {
				return fmt.Errorf("toggling availability: %w", err)
			}

			if hours.Contains(hour) {
				fmt.Printf("Blocked %s %02d:00 on %s\n", machine, hour, dateutil.FormatDate(day))
			} else {
				fmt.Printf("Unblocked %s %02d:00 on %s\n", machine, hour, dateutil.FormatDate(day))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Date (YYYY-MM-DD, defaults to today)")
	return cmd
}

// requireMachine rejects commands naming an unregistered machine early,
// with a friendlier message than a bare foreign key failure.
func (a *App) requireMachine(ctx context.Context, name string) error {
	ok, err := a.store.HasMachine(ctx, name)
	if err != nil {
		return fmt.Errorf("checking machine: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: %s (register it with 'machcal machines add')", schedule.ErrMachineNotFound, name)
	}
	return nil
}
