package ui

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"machcal/internal/availability"
	"machcal/internal/dateutil"
	"machcal/internal/index"
	"machcal/internal/summary"
)

func (a *App) statsCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show weekly utilization per machine",
		Long: `Show scheduled, blocked and free hours for every machine in the week
containing the given date, with utilization as scheduled work over the
hours the machine was open.`,
		Example: `  machcal stats
  machcal stats --date 2025-03-10`,
		RunE: func(_ *cobra.Command, _ []string) error {
			day, err := dateutil.ParseDate(date)
			if err != nil {
				return err
			}

			ctx := context.Background()
			machines, err := a.store.ListMachines(ctx)
			if err != nil {
				return fmt.Errorf("listing machines: %w", err)
			}
			if len(machines) == 0 {
				fmt.Println("No machines registered. Add one with 'machcal machines add NAME'.")
				return nil
			}

			week, err := summary.BuildWeekSummary(ctx,
				availability.New(a.store), index.New(a.store), machines, day,
				summary.Options{
					DayStart: a.config.Calendar.DayStartHour,
					DayEnd:   a.config.Calendar.DayEndHour,
				})
			if err != nil {
				return fmt.Errorf("building summary: %w", err)
			}

			fmt.Printf("Week %s - %s\n",
				dateutil.FormatDate(week.Start), dateutil.FormatDate(week.End))

			rows := make([][]string, 0, len(week.Machines))
			for _, m := range week.Machines {
				rows = append(rows, []string{
					m.Machine,
					strconv.Itoa(m.ScheduledHours) + "h",
					strconv.Itoa(m.BlockedHours) + "h",
					strconv.Itoa(m.FreeHours) + "h",
					fmt.Sprintf("%.0f%%", m.Utilization*100),
				})
			}

			t := table.New().
				Headers("MACHINE", "SCHEDULED", "BLOCKED", "FREE", "UTILIZATION").
				Border(lipgloss.RoundedBorder()).
				BorderRow(false).
				Rows(rows...)
			fmt.Println(t.Render())
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Any date in the week (YYYY-MM-DD, defaults to today)")
	return cmd
}
