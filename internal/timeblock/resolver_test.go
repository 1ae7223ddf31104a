package timeblock

import (
	"errors"
	"reflect"
	"testing"
)

// slotID returns the id of the slot at (hour, minute), failing if absent.
func slotID(t *testing.T, s *Schedule, hour, minute int) string {
	t.Helper()
	slot, ok := s.Window().SlotAt(hour, minute)
	if !ok {
		t.Fatalf("no slot at h%d:m%d", hour, minute)
	}
	return slot.ID
}

func TestSchedule_Place(t *testing.T) {
	tests := []struct {
		name         string
		grid         string
		pool         string
		task         string
		hour         int
		minute       int
		wantGrid     string
		wantPool     string
		wantOverflow int
	}{
		{
			name:     "pool task into empty slot",
			grid:     "------|------",
			pool:     "A",
			task:     "A",
			hour:     0,
			minute:   2,
			wantGrid: "--A---|------",
		},
		{
			name:     "occupant shifts forward",
			grid:     "--B---|------",
			pool:     "A",
			task:     "A",
			hour:     0,
			minute:   2,
			wantGrid: "--AB--|------",
		},
		{
			name:         "cascade through the column",
			grid:         "--BC-D|------",
			pool:         "A",
			task:         "A",
			hour:         0,
			minute:       2,
			wantGrid:     "--ABC-|------",
			wantPool:     "D",
			wantOverflow: 1,
		},
		{
			name:     "earlier occupants stay",
			grid:     "B-C---|------",
			pool:     "A",
			task:     "A",
			hour:     0,
			minute:   1,
			wantGrid: "BA-C--|------",
		},
		{
			name:         "minute five overflows instead of wrapping",
			grid:         "-----B|C-----",
			pool:         "A",
			task:         "A",
			hour:         0,
			minute:       5,
			wantGrid:     "-----A|C-----",
			wantPool:     "B",
			wantOverflow: 1,
		},
		{
			name:     "other columns untouched",
			grid:     "------|B-----",
			pool:     "A",
			task:     "A",
			hour:     0,
			minute:   0,
			wantGrid: "A-----|B-----",
		},
		{
			name:     "scheduled task moves within its column",
			grid:     "A-B---|------",
			task:     "A",
			hour:     0,
			minute:   2,
			wantGrid: "--AB--|------",
		},
		{
			name:     "scheduled task moves across columns",
			grid:     "A-----|-B----",
			task:     "A",
			hour:     1,
			minute:   1,
			wantGrid: "------|-AB---",
		},
		{
			name:         "partial last column overflows",
			grid:         "------|BC",
			pool:         "A",
			task:         "A",
			hour:         1,
			minute:       0,
			wantGrid:     "------|AB",
			wantPool:     "C",
			wantOverflow: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := withPool(scheduleFromString(t, tt.grid), tt.pool)

			ns, res, err := s.Place(tt.task, slotID(t, s, tt.hour, tt.minute), "")
			if err != nil {
				t.Fatalf("Place() error = %v", err)
			}
			mustValidate(t, ns)

			if got := printSchedule(ns); got != tt.wantGrid {
				t.Errorf("grid = %q, want %q", got, tt.wantGrid)
			}
			if got := printPool(ns); got != tt.wantPool {
				t.Errorf("pool = %q, want %q", got, tt.wantPool)
			}
			if len(res.Unscheduled) != tt.wantOverflow {
				t.Errorf("overflow = %v, want %d", res.Unscheduled, tt.wantOverflow)
			}
			if ns.TaskCount() != s.TaskCount() {
				t.Errorf("TaskCount() = %d, want %d", ns.TaskCount(), s.TaskCount())
			}
			for _, slot := range ns.Window().Slots() {
				if slot.MinuteIndex > MaxMinuteIndex {
					t.Errorf("slot %s has minute index %d", slot.ID, slot.MinuteIndex)
				}
			}
			for _, id := range res.Unscheduled {
				if task, _ := ns.Task(id); task.IsScheduled() {
					t.Errorf("overflowed task %s still references %s", id, task.TimeSlotID)
				}
			}
		})
	}
}

func TestSchedule_Place_NewTask(t *testing.T) {
	s := scheduleFromString(t, "--B---")
	target := slotID(t, s, 0, 2)

	ns, res, err := s.Place("fresh", target, "  Call Ana  ")
	if err != nil {
		t.Fatalf("Place() error = %v", err)
	}
	mustValidate(t, ns)

	got, ok := ns.Task("fresh")
	if !ok {
		t.Fatal("new task not created")
	}
	if got.Title != "Call Ana" || got.TimeSlotID != target {
		t.Errorf("task = %+v", got)
	}
	if b, _ := ns.Task("B"); b.TimeSlotID != target {
		t.Errorf("B moved to %s, creation should not cascade", b.TimeSlotID)
	}
	if res.Task == nil || res.Task.ID != "fresh" {
		t.Errorf("result task = %+v", res.Task)
	}
}

func TestSchedule_Place_NewTaskDefaults(t *testing.T) {
	s := scheduleFromString(t, "------")

	ns, res, err := s.Place("", slotID(t, s, 0, 0), "")
	if err != nil {
		t.Fatalf("Place() error = %v", err)
	}
	if res.Task == nil || res.Task.ID == "" {
		t.Fatalf("result task = %+v", res.Task)
	}
	if got, _ := ns.Task(res.Task.ID); got.Title != DefaultTaskTitle {
		t.Errorf("Title = %q, want %q", got.Title, DefaultTaskTitle)
	}
}

func TestSchedule_Place_AlreadyThere(t *testing.T) {
	s := withPool(scheduleFromString(t, "--AB--|------"), "P")
	before := s.Snapshot()

	ns, res, err := s.Place("A", slotID(t, s, 0, 2), "ignored")
	if err != nil {
		t.Fatalf("Place() error = %v", err)
	}
	if res.Changed {
		t.Error("Changed = true, want false")
	}
	if !reflect.DeepEqual(ns.Snapshot(), before) {
		t.Error("no-op place changed the schedule")
	}
}

func TestSchedule_Place_Idempotent(t *testing.T) {
	s := withPool(scheduleFromString(t, "--B---"), "A")
	target := slotID(t, s, 0, 2)

	once, _, err := s.Place("A", target, "")
	if err != nil {
		t.Fatalf("Place() error = %v", err)
	}
	twice, res, err := once.Place("A", target, "")
	if err != nil {
		t.Fatalf("second Place() error = %v", err)
	}
	if res.Changed || !reflect.DeepEqual(twice.Snapshot(), once.Snapshot()) {
		t.Error("second identical place should be a no-op")
	}
}

func TestSchedule_Place_UnknownSlot(t *testing.T) {
	s := withPool(scheduleFromString(t, "------"), "A")

	ns, _, err := s.Place("A", "slot-nope", "")
	if !errors.Is(err, ErrSlotNotFound) {
		t.Errorf("error = %v, want ErrSlotNotFound", err)
	}
	if ns != s {
		t.Error("failed place should return the receiver")
	}
}

func TestSchedule_Reorder(t *testing.T) {
	s := withPool(scheduleFromString(t, "A-B---|------"), "P")

	ns, res, err := s.Reorder("A", slotID(t, s, 0, 2))
	if err != nil {
		t.Fatalf("Reorder() error = %v", err)
	}
	mustValidate(t, ns)

	// No cascade: B keeps its slot and shares it with A
	if b, _ := ns.Task("B"); b.TimeSlotID != slotID(t, s, 0, 2) {
		t.Errorf("B moved to %s", b.TimeSlotID)
	}
	if a, _ := ns.Task("A"); a.TimeSlotID != slotID(t, s, 0, 2) {
		t.Errorf("A at %s", a.TimeSlotID)
	}
	if len(res.Moves) != 1 {
		t.Errorf("moves = %+v", res.Moves)
	}

	same, res, err := ns.Reorder("A", slotID(t, s, 0, 2))
	if err != nil || res.Changed || same != ns {
		t.Errorf("repeat reorder: changed=%v err=%v", res.Changed, err)
	}
}

func TestSchedule_Reorder_Errors(t *testing.T) {
	s := withPool(scheduleFromString(t, "A-----"), "P")
	target := slotID(t, s, 0, 3)

	tests := []struct {
		name    string
		task    string
		slot    string
		wantErr error
	}{
		{"pooled task", "P", target, ErrTaskNotScheduled},
		{"unknown task", "Z", target, ErrTaskNotFound},
		{"unknown slot", "A", "slot-nope", ErrSlotNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ns, _, err := s.Reorder(tt.task, tt.slot)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if ns != s {
				t.Error("failed reorder should return the receiver")
			}
		})
	}
}

func TestSchedule_Unschedule(t *testing.T) {
	s := withPool(scheduleFromString(t, "A-B---"), "P")

	ns, res, err := s.Unschedule("A")
	if err != nil {
		t.Fatalf("Unschedule() error = %v", err)
	}
	mustValidate(t, ns)
	if got := printPool(ns); got != "PA" {
		t.Errorf("pool = %q, want PA", got)
	}
	if got := printSchedule(ns); got != "--B---" {
		t.Errorf("grid = %q", got)
	}
	if !reflect.DeepEqual(res.Unscheduled, []string{"A"}) {
		t.Errorf("unscheduled = %v", res.Unscheduled)
	}

	again, res, err := ns.Unschedule("A")
	if err != nil || res.Changed || again != ns {
		t.Errorf("unscheduling a pooled task: changed=%v err=%v", res.Changed, err)
	}

	if _, _, err := ns.Unschedule("Z"); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("error = %v, want ErrTaskNotFound", err)
	}
}

func TestSchedule_Remove(t *testing.T) {
	tests := []struct {
		name     string
		task     string
		wantGrid string
		wantPool string
	}{
		{"scheduled", "A", "--B---", "P"},
		{"pooled", "P", "A-B---", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := withPool(scheduleFromString(t, "A-B---"), "P")

			ns, res, err := s.Remove(tt.task)
			if err != nil {
				t.Fatalf("Remove() error = %v", err)
			}
			mustValidate(t, ns)
			if got := printSchedule(ns); got != tt.wantGrid {
				t.Errorf("grid = %q, want %q", got, tt.wantGrid)
			}
			if got := printPool(ns); got != tt.wantPool {
				t.Errorf("pool = %q, want %q", got, tt.wantPool)
			}
			if _, ok := ns.Task(tt.task); ok {
				t.Error("task still present")
			}
			if res.Task == nil || res.Task.ID != tt.task {
				t.Errorf("result task = %+v", res.Task)
			}
			if _, ok := s.Task(tt.task); !ok {
				t.Error("receiver lost the task")
			}
		})
	}

	s := scheduleFromString(t, "A-----")
	if _, _, err := s.Remove("Z"); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("error = %v, want ErrTaskNotFound", err)
	}
}

func TestSchedule_AddToPool(t *testing.T) {
	s := withPool(scheduleFromString(t, "------"), "P")

	ns, res, err := s.AddToPool("  Inbox zero ")
	if err != nil {
		t.Fatalf("AddToPool() error = %v", err)
	}
	mustValidate(t, ns)

	pool := ns.Pool()
	if len(pool) != 2 {
		t.Fatalf("pool size = %d, want 2", len(pool))
	}
	if pool[1].Title != "Inbox zero" || pool[1].IsScheduled() || pool[1].ID != res.Task.ID {
		t.Errorf("added = %+v", pool[1])
	}

	same, _, err := s.AddToPool("   ")
	if !errors.Is(err, ErrEmptyTitle) {
		t.Errorf("error = %v, want ErrEmptyTitle", err)
	}
	if same != s {
		t.Error("failed add should return the receiver")
	}
}
