package timeblock

import (
	"fmt"
	"strings"
	"time"
)

// PlanText renders the schedule as a plain-text day plan: one line per
// occupied slot in time order, followed by the unscheduled pool.
func (s *Schedule) PlanText() string {
	var b strings.Builder

	origin := s.window.Origin()
	end := origin.Add(time.Duration(s.window.Len()) * SlotDuration)
	fmt.Fprintf(&b, "Plan %s, %s-%s\n", origin.Format("Mon Jan 2"), FormatClock(origin), FormatClock(end))

	empty := true
	for _, slot := range s.window.slots {
		tasks := s.TasksInSlot(slot.ID)
		if len(tasks) == 0 {
			continue
		}
		empty = false
		titles := make([]string, 0, len(tasks))
		for _, t := range tasks {
			titles = append(titles, t.Title)
		}
		fmt.Fprintf(&b, "%s  %s\n", slot.DisplayTime, strings.Join(titles, "; "))
	}
	if empty {
		b.WriteString("(nothing scheduled)\n")
	}

	if len(s.pool) > 0 {
		b.WriteString("\nUnscheduled\n")
		for _, t := range s.pool {
			fmt.Fprintf(&b, "- %s\n", t.Title)
		}
	}

	return b.String()
}
