package ui

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

func (a *App) tasksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Manage production tasks",
	}

	var (
		hours    int
		colorTag string
	)
	add := &cobra.Command{
		Use:   "add NAME",
		Short: "Register a production task",
		Args:  cobra.ExactArgs(1),
		Example: `  machcal tasks add "mill housing" --hours 3
  machcal tasks add "deburr batch" --hours 1 --color yellow`,
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := a.store.CreateTask(context.Background(), args[0], hours, colorTag)
			if err != nil {
				return fmt.Errorf("creating task: %w", err)
			}
			fmt.Printf("Added task %s (%s, %dh)\n", args[0], id, hours)
			return nil
		},
	}
	add.Flags().IntVar(&hours, "hours", 1, "Task duration in whole hours")
	add.Flags().StringVar(&colorTag, "color", "", "Display color for the task")

	list := &cobra.Command{
		Use:   "list",
		Short: "List registered tasks",
		RunE: func(_ *cobra.Command, _ []string) error {
			tasks, err := a.store.ListTasks(context.Background())
			if err != nil {
				return fmt.Errorf("listing tasks: %w", err)
			}

			if len(tasks) == 0 {
				fmt.Println("No tasks registered. Add one with 'machcal tasks add NAME --hours N'.")
				return nil
			}

			rows := make([][]string, 0, len(tasks))
			for _, t := range tasks {
				rows = append(rows, []string{t.ID, t.Name, strconv.Itoa(t.DurationHours) + "h", t.Color})
			}

			t := table.New().
				Headers("ID", "NAME", "DURATION", "COLOR").
				Border(lipgloss.RoundedBorder()).
				BorderRow(false).
				Rows(rows...)
			fmt.Println(t.Render())
			return nil
		},
	}

	cmd.AddCommand(add, list)
	return cmd
}
