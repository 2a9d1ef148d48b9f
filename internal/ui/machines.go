package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func (a *App) machinesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "machines",
		Short: "Manage machines",
	}

	add := &cobra.Command{
		Use:   "add NAME",
		Short: "Register a machine",
		Args:  cobra.ExactArgs(1),
		Example: `  machcal machines add CNC-01
  machcal machines add "Lathe 2"`,
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.store.AddMachine(context.Background(), args[0]); err != nil {
				return fmt.Errorf("adding machine: %w", err)
			}
			fmt.Printf("Added machine %s\n", args[0])
			return nil
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List registered machines",
		RunE: func(_ *cobra.Command, _ []string) error {
			machines, err := a.store.ListMachines(context.Background())
			if err != nil {
				return fmt.Errorf("listing machines: %w", err)
			}

			if len(machines) == 0 {
				fmt.Println("No machines registered. Add one with 'machcal machines add NAME'.")
				return nil
			}

			for _, m := range machines {
				fmt.Printf("  %s\n", m)
			}
			return nil
		},
	}

	cmd.AddCommand(add, list)
	return cmd
}
