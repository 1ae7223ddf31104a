package ui

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/tenmin/internal/config"
	"github.com/javiermolinar/tenmin/internal/logger"
	"github.com/javiermolinar/tenmin/internal/scheduler"
	"github.com/javiermolinar/tenmin/internal/tui"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	config     *config.Config
	clock      scheduler.Clock
	root       *cobra.Command
	configPath string // --config override
	debug      bool   // Enable debug logging
}

// NewApp creates a new CLI application with the given config.
func NewApp(cfg *config.Config) *App {
	a := &App{config: cfg, clock: scheduler.RealClock{}}

	a.root = &cobra.Command{
		Use:   "tenmin",
		Short: "Plan the next few hours in 10-minute blocks",
		Long: `Tenmin lays the coming hours out as a grid of 10-minute slots.

Drop tasks onto slots, let later tasks shift down when you insert
something, and keep whatever does not fit in an unscheduled pool.
The window rolls forward on its own as the clock moves.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			return tui.Run(a.config)
		},
	}

	// Add global flags
	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging")
	a.root.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (default "+config.DefaultConfigPath()+")")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.serveCmd())
	a.root.AddCommand(a.slotsCmd())
	a.root.AddCommand(a.planCmd())

	return a
}

// setup reloads the config when --config is given and starts file logging.
func (a *App) setup(cmd *cobra.Command) error {
	if a.configPath != "" {
		cfg, err := config.LoadFrom(a.configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		a.config = cfg
	}
	if a.debug {
		a.config.Log.Debug = true
	}

	// Only the server writes to the console; everything else owns the terminal
	console := cmd.Name() == "serve"
	return logger.Init(logger.Config{
		Debug:   a.config.Log.Debug,
		Dir:     a.config.Log.Dir,
		Console: console,
	})
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		// No config or log file needed
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tenmin %s (commit: %s)\n", Version, Commit)
		},
	}
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

// Close releases resources held by the application.
func (a *App) Close() error {
	return logger.Close()
}
