package timeblock

import (
	"strings"
	"testing"
	"time"
)

// testNow is 09:25 on a fixed day, so the window starts at 09:00 and the
// current slot is 09:20 (0, 2).
var testNow = time.Date(2030, 1, 1, 9, 25, 0, 0, time.UTC)

// scheduleFromString creates a Schedule from string notation.
//   - Letters (A-Z) are tasks with that id, titled "Task <letter>"
//   - "-" is an empty slot
//   - "|" separates hour-columns
//
// Example: "---A--|B-----" is two columns, A at (0,3) and B at (1,0).
// The window is generated from testNow, then trimmed or extended so the
// slot count matches the string.
func scheduleFromString(t *testing.T, s string) *Schedule {
	t.Helper()

	cells := strings.ReplaceAll(s, "|", "")
	hours := (len(cells) + SlotsPerHour - 1) / SlotsPerHour
	sched, err := NewSchedule(hours, testNow)
	if err != nil {
		t.Fatalf("NewSchedule(%d) error = %v", hours, err)
	}
	sched.window.slots = sched.window.slots[:len(cells)]

	for offset, ch := range cells {
		if ch == '-' {
			continue
		}
		sched.scheduled = append(sched.scheduled, Task{
			ID:         string(ch),
			Title:      "Task " + string(ch),
			TimeSlotID: sched.window.slots[offset].ID,
		})
	}
	return sched
}

// withPool appends pooled tasks named by the letters in ids.
func withPool(s *Schedule, ids string) *Schedule {
	for _, ch := range ids {
		s.pool = append(s.pool, Task{ID: string(ch), Title: "Task " + string(ch)})
	}
	return s
}

// printSchedule renders a Schedule in the notation of scheduleFromString.
// A slot holding several tasks shows the first one placed.
func printSchedule(s *Schedule) string {
	var b strings.Builder
	for i, slot := range s.window.slots {
		if i > 0 && slot.MinuteIndex == 0 {
			b.WriteByte('|')
		}
		tasks := s.TasksInSlot(slot.ID)
		if len(tasks) == 0 {
			b.WriteByte('-')
			continue
		}
		b.WriteString(tasks[0].ID)
	}
	return b.String()
}

// printPool returns the pooled task ids in order.
func printPool(s *Schedule) string {
	var b strings.Builder
	for _, t := range s.pool {
		b.WriteString(t.ID)
	}
	return b.String()
}

// mustValidate fails the test if s breaks an invariant.
func mustValidate(t *testing.T, s *Schedule) {
	t.Helper()
	if err := s.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

// labels returns the DisplayTime of every slot.
func labels(w *Window) []string {
	out := make([]string, 0, w.Len())
	for _, s := range w.Slots() {
		out = append(out, s.DisplayTime)
	}
	return out
}
