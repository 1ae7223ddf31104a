package ui

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/tenmin/internal/timeblock"
)

func (a *App) slotsCmd() *cobra.Command {
	var (
		hours   int
		noColor bool
	)

	cmd := &cobra.Command{
		Use:   "slots",
		Short: "Print the slot window starting this hour",
		Long: `Print the 10-minute slot grid that the planner would start with now.

The window begins at the top of the current hour. The slot holding
the current time is marked with *.`,
		Example: `  tenmin slots
  tenmin slots --hours 8`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if noColor {
				DisableColor()
			}
			if hours == 0 {
				hours = a.config.Schedule.Hours
			}

			now := a.clock.Now()
			s, err := timeblock.NewSchedule(hours, now)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "=== %s ===\n\n", formatHeader(now.Format("Monday, January 2, 2006")))
			fmt.Fprint(out, RenderGrid(s, termWidth()))
			fmt.Fprintf(out, "\n%s\n", formatMuted(fmt.Sprintf("%d slots, now %s", s.Window().Len(), timeblock.FormatClock(now))))
			return nil
		},
	}

	cmd.Flags().IntVar(&hours, "hours", 0, "Window span in hours (defaults to config)")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable color output")
	return cmd
}
