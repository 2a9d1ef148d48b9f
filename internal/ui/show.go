package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"machcal/internal/availability"
	"machcal/internal/dateutil"
	"machcal/internal/grid"
	"machcal/internal/index"
	"machcal/internal/validate"
	"machcal/internal/view"
)

func (a *App) showCmd() *cobra.Command {
	var (
		date    string
		machine string
		noColor bool
		copyOut bool
	)

	cmd := &cobra.Command{
		Use:   "show MACHINE",
		Short: "Show a machine's week as an hour grid",
		Long: `Display one week of a machine's calendar: every hour slot marked
free, blocked, or occupied by a scheduled task.

This is the non-interactive view. Run machcal without arguments for
the full calendar.`,
		Args: cobra.MaximumNArgs(1),
		Example: `  machcal show CNC-01
  machcal show CNC-01 --date 2025-03-10
  machcal show CNC-01 --copy`,
		RunE: func(_ *cobra.Command, args []string) error {
			if len(args) > 0 {
				machine = args[0]
			} else {
				machine = a.config.Calendar.Machine
			}
			if machine == "" {
				return fmt.Errorf("no machine given and none configured; try 'machcal show MACHINE'")
			}
			if noColor {
				DisableColor()
			}

			day, err := dateutil.ParseDate(date)
			if err != nil {
				return err
			}

			ctx := context.Background()
			if err := a.requireMachine(ctx, machine); err != nil {
				return err
			}

			state := view.State{Kind: view.KindWeek, Anchor: dateutil.WeekStart(day)}
			snap, err := a.weekSnapshot(ctx, machine, state)
			if err != nil {
				return err
			}

			r := grid.New(grid.Capabilities{ShowMachines: true},
				a.config.Calendar.DayStartHour, a.config.Calendar.DayEndHour)
			g := r.Render(state, snap, dateutil.TruncateToDay(time.Now()))

			out := renderWeekTable(g)
			fmt.Printf("=== %s · %s ===\n", formatHeader(machine), g.Title)
			fmt.Println(out)

			if copyOut {
				if err := clipboard.WriteAll(stripForClipboard(machine, g)); err != nil {
					return fmt.Errorf("copying to clipboard: %w", err)
				}
				fmt.Println(formatMuted("Copied to clipboard."))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Any date in the week to show (YYYY-MM-DD, defaults to today)")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable color output")
	cmd.Flags().BoolVar(&copyOut, "copy", false, "Copy a plain-text version to the clipboard")
	return cmd
}

// weekSnapshot gathers availability and events for the visible week.
func (a *App) weekSnapshot(ctx context.Context, machine string, state view.State) (*grid.Snapshot, error) {
	start, end := view.VisibleRange(state)

	store := availability.New(a.store)
	avail, err := store.GetForRange(ctx, machine, start, end)
	if err != nil {
		return nil, fmt.Errorf("fetching availability: %w", err)
	}

	events, err := index.New(a.store).EventsForRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("fetching events: %w", err)
	}

	return &grid.Snapshot{
		Machine:      machine,
		Availability: avail,
		Events:       events,
	}, nil
}

// renderWeekTable turns a week grid description into a lipgloss table.
func renderWeekTable(g *grid.Grid) string {
	week := g.Week

	headers := make([]string, 0, 8)
	headers = append(headers, "HOUR")
	for _, col := range week.Days {
		label := col.Label
		if col.Today {
			label += " *"
		}
		headers = append(headers, label)
	}

	var rows [][]string
	for i := 0; i < week.DayEnd-week.DayStart; i++ {
		hour := week.DayStart + i
		row := make([]string, 0, 8)
		row = append(row, fmt.Sprintf("%02d:00", hour))
		for _, col := range week.Days {
			row = append(row, slotLabel(col.Slots[i]))
		}
		rows = append(rows, row)
	}

	t := lgtable.New().
		Headers(headers...).
		Border(lipgloss.RoundedBorder()).
		BorderRow(false).
		Rows(rows...)
	return t.Render()
}

// slotLabel formats a single cell for terminal output.
func slotLabel(cell grid.SlotCell) string {
	switch cell.State {
	case validate.StateOccupied:
		return formatOccupied("■ " + shortID(cell.TaskID))
	case validate.StateUnavailable:
		return formatUnavailable("✗")
	default:
		return formatFree("·")
	}
}

// shortID truncates uuids for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// stripForClipboard renders a plain-text week summary for pasting.
func stripForClipboard(machine string, g *grid.Grid) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s — %s\n", machine, g.Title)
	for _, col := range g.Week.Days {
		fmt.Fprintf(&b, "%s:", dateutil.FormatDate(col.Date))
		any := false
		for _, cell := range col.Slots {
			switch cell.State {
			case validate.StateOccupied:
				fmt.Fprintf(&b, " %02d:00=task:%s", cell.Hour, shortID(cell.TaskID))
				any = true
			case validate.StateUnavailable:
				fmt.Fprintf(&b, " %02d:00=blocked", cell.Hour)
				any = true
			}
		}
		if !any {
			b.WriteString(" free")
		}
		b.WriteString("\n")
	}
	return b.String()
}
