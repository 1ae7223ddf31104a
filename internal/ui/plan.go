package ui

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/tenmin/internal/engine"
	"github.com/javiermolinar/tenmin/internal/scheduler"
	"github.com/javiermolinar/tenmin/internal/timeblock"
)

func (a *App) planCmd() *cobra.Command {
	var (
		hours    int
		showGrid bool
		noColor  bool
	)

	cmd := &cobra.Command{
		Use:   "plan [title...]",
		Short: "Lay tasks into the next free slots and print the plan",
		Long: `Place each title into the next free 10-minute slot from now, in order.

Titles that do not fit before the window ends are kept unscheduled.
The result is printed as a plain-text plan that can be pasted anywhere.`,
		Example: `  tenmin plan "Standup" "Review PRs" "Write report"
  tenmin plan --hours 2 --grid "Deep work"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if noColor {
				DisableColor()
			}

			opts := engine.OptionsFromConfig(a.config)
			opts.Clock = a.clock
			if hours > 0 {
				opts.Hours = hours
			}
			st, err := engine.NewState(opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, title := range args {
				if err := planTitle(st, title); err != nil {
					return err
				}
			}

			if showGrid {
				fmt.Fprintln(out, RenderGrid(st.Schedule(), termWidth()))
			}
			fmt.Fprint(out, st.PlanText())
			if notices := st.RecentNotices(); len(notices) > 0 {
				fmt.Fprintf(out, "\n%s", RenderNotices(notices))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&hours, "hours", 0, "Window span in hours (defaults to config)")
	cmd.Flags().BoolVar(&showGrid, "grid", false, "Also print the slot grid")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable color output")
	return cmd
}

// planTitle places title in the next free slot, or the pool when the
// window is full.
func planTitle(st *engine.State, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return timeblock.ErrEmptyTitle
	}

	slot, ok := scheduler.NextFreeSlot(st.Schedule(), st.Now())
	if !ok {
		if _, err := st.AddToPool(title); err != nil {
			return fmt.Errorf("adding %q: %w", title, err)
		}
		return nil
	}
	if _, err := st.Place("", slot.ID, title); err != nil {
		return fmt.Errorf("placing %q: %w", title, err)
	}
	return nil
}
