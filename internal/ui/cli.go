package ui

import (
	"fmt"

	"github.com/spf13/cobra"

	"machcal/internal/availability"
	"machcal/internal/config"
	"machcal/internal/controller"
	"machcal/internal/db"
	"machcal/internal/index"
	"machcal/internal/tui"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	store  *db.SQLite
	config *config.Config
	root   *cobra.Command
	debug  bool // Enable debug logging
}

// NewApp creates a new CLI application with the given store and config.
func NewApp(store *db.SQLite, cfg *config.Config) *App {
	a := &App{store: store, config: cfg}

	a.root = &cobra.Command{
		Use:   "machcal",
		Short: "A machine-shop scheduling calendar",
		Long: `Machcal is a slot-scheduling calendar for machine shops.

It tracks per-machine availability hour by hour, schedules production
tasks into free slots, and guards against double-booking. Run without
arguments to open the interactive calendar.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return tui.RunWithDebug(a.store, a.config, a.debug)
		},
	}

	// Add global flags
	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging (logs to temp file)")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.machinesCmd())
	a.root.AddCommand(a.tasksCmd())
	a.root.AddCommand(a.blockCmd())
	a.root.AddCommand(a.scheduleCmd())
	a.root.AddCommand(a.unscheduleCmd())
	a.root.AddCommand(a.showCmd())
	a.root.AddCommand(a.statsCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("machcal %s (commit: %s)\n", Version, Commit)
		},
	}
}

// controller wires the slot-interaction stack over the SQLite store.
func (a *App) controller() *controller.Controller {
	return controller.New(availability.New(a.store), index.New(a.store), a.store)
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}
