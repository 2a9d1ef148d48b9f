// Package summary aggregates week-level utilization per machine.
package summary

import (
	"context"
	"fmt"
	"time"

	"machcal/internal/availability"
	"machcal/internal/dateutil"
	"machcal/internal/index"
)

// MachineStats holds one machine's aggregated hours for a week. Capacity
// is the working window across seven days; utilization is scheduled work
// as a fraction of the hours the machine was actually open.
type MachineStats struct {
	Machine        string
	ScheduledHours int
	BlockedHours   int
	FreeHours      int
	Utilization    float64
}

// WeekSummary holds per-machine stats for one calendar week.
type WeekSummary struct {
	Start    time.Time
	End      time.Time
	Machines []MachineStats
}

// Options configures the working window used for capacity.
type Options struct {
	DayStart int
	DayEnd   int
}

// BuildWeekSummary aggregates the week containing ref for the given
// machines. Blocked hours outside the working window do not count
// against capacity.
func BuildWeekSummary(ctx context.Context, store *availability.Store, ix *index.Index, machines []string, ref time.Time, opts Options) (*WeekSummary, error) {
	start := dateutil.WeekStart(ref)
	end := start.AddDate(0, 0, 6)

	events, err := ix.EventsForRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("fetching events: %w", err)
	}

	capacity := 7 * (opts.DayEnd - opts.DayStart)
	summary := &WeekSummary{Start: start, End: end}

	for _, machine := range machines {
		blocked, err := store.GetForRange(ctx, machine, start, end)
		if err != nil {
			return nil, fmt.Errorf("fetching availability for %s: %w", machine, err)
		}

		stats := MachineStats{Machine: machine}
		for _, hours := range blocked {
			for h := opts.DayStart; h < opts.DayEnd; h++ {
				if hours.Contains(h) {
					stats.BlockedHours++
				}
			}
		}
		for _, dayEvents := range events {
			for _, e := range dayEvents {
				if e.Machine == machine {
					stats.ScheduledHours += e.Duration()
				}
			}
		}

		stats.FreeHours = capacity - stats.BlockedHours - stats.ScheduledHours
		if stats.FreeHours < 0 {
			stats.FreeHours = 0
		}
		if open := capacity - stats.BlockedHours; open > 0 {
			stats.Utilization = float64(stats.ScheduledHours) / float64(open)
		}

		summary.Machines = append(summary.Machines, stats)
	}

	return summary, nil
}
