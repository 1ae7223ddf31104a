package timeblock

import (
	"fmt"
	"slices"
	"time"
)

// Schedule is the complete reconciliation state: the window, the tasks
// placed in it, and the unscheduled pool.
//
// Like Window, Schedule is an immutable value. Operations return a new
// *Schedule; on error they return the receiver unchanged.
type Schedule struct {
	window    *Window
	scheduled []Task
	pool      []Task
}

// NoticeKind identifies an advisory notification.
type NoticeKind string

const (
	NoticeTasksUnscheduled NoticeKind = "tasks_unscheduled"
	NoticeBlockAdded       NoticeKind = "block_added"
	NoticeBlockDeleted     NoticeKind = "block_deleted"
)

// Notice is an advisory message for the presentation layer.
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Count   int        `json:"count,omitempty"`
	Message string     `json:"message"`
}

func unscheduledNotice(n int) Notice {
	return Notice{
		Kind:    NoticeTasksUnscheduled,
		Count:   n,
		Message: fmt.Sprintf("%d %s moved to unscheduled", n, plural(n, "task", "tasks")),
	}
}

func blockAddedNotice() Notice {
	return Notice{Kind: NoticeBlockAdded, Message: "New 10-minute block added"}
}

func blockDeletedNotice(n int) Notice {
	return Notice{
		Kind:    NoticeBlockDeleted,
		Count:   n,
		Message: fmt.Sprintf("Hour column deleted, %d %s moved to unscheduled", n, plural(n, "task", "tasks")),
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// TaskMove records a task changing slot. An empty slot id means the pool.
type TaskMove struct {
	TaskID string `json:"task_id"`
	From   string `json:"from,omitempty"`
	To     string `json:"to,omitempty"`
}

// TaskRemap records a task whose slot kept its id but changed position.
type TaskRemap struct {
	TaskID string   `json:"task_id"`
	SlotID string   `json:"slot_id"`
	From   Position `json:"from"`
	To     Position `json:"to"`
}

// Result describes what an operation changed.
type Result struct {
	Changed      bool        `json:"changed"`
	Task         *Task       `json:"task,omitempty"`
	Slot         *TimeSlot   `json:"slot,omitempty"`
	Moves        []TaskMove  `json:"moves,omitempty"`
	Unscheduled  []string    `json:"unscheduled,omitempty"`
	RemovedSlots []string    `json:"removed_slots,omitempty"`
	Remapped     []TaskRemap `json:"remapped,omitempty"`
	Notices      []Notice    `json:"notices,omitempty"`
}

// NewSchedule generates a window of the given span with no tasks.
func NewSchedule(hours int, now time.Time) (*Schedule, error) {
	w, err := GenerateWindow(hours, now)
	if err != nil {
		return nil, err
	}
	return &Schedule{window: w}, nil
}

// Window returns the schedule's slot window.
func (s *Schedule) Window() *Window {
	return s.window
}

// Scheduled returns a copy of the tasks placed in slots.
func (s *Schedule) Scheduled() []Task {
	return slices.Clone(s.scheduled)
}

// Pool returns a copy of the unscheduled tasks in pool order.
func (s *Schedule) Pool() []Task {
	return slices.Clone(s.pool)
}

// TaskCount returns the total number of tasks, scheduled or not.
func (s *Schedule) TaskCount() int {
	return len(s.scheduled) + len(s.pool)
}

// Task looks up a task in either set.
func (s *Schedule) Task(id string) (Task, bool) {
	if i := indexOfTask(s.scheduled, id); i >= 0 {
		return s.scheduled[i], true
	}
	if i := indexOfTask(s.pool, id); i >= 0 {
		return s.pool[i], true
	}
	return Task{}, false
}

// TasksInSlot returns the tasks referencing slotID, in scheduling order.
func (s *Schedule) TasksInSlot(slotID string) []Task {
	var result []Task
	for _, t := range s.scheduled {
		if t.TimeSlotID == slotID {
			result = append(result, t)
		}
	}
	return result
}

// RefreshCurrent moves the IsCurrent marker to now's bucket.
// Positions, ids and task references are untouched.
func (s *Schedule) RefreshCurrent(now time.Time) *Schedule {
	ns := s.clone()
	ns.window = s.window.RefreshCurrent(now)
	return ns
}

// Rollover expires hour-column 0. Tasks on its slots move to the pool.
// A window holding a single column or less is left as is.
func (s *Schedule) Rollover(now time.Time) (*Schedule, Result, error) {
	if s.window.Len() <= SlotsPerHour {
		return s, Result{}, nil
	}

	ns, res, err := s.dropColumn(0, now)
	if err != nil {
		return s, Result{}, err
	}
	if n := len(res.Unscheduled); n > 0 {
		res.Notices = append(res.Notices, unscheduledNotice(n))
	}
	return ns, res, nil
}

// DeleteColumn removes an hour-column on request. Tasks on its slots move
// to the pool and later columns are renumbered.
func (s *Schedule) DeleteColumn(hour int, now time.Time) (*Schedule, Result, error) {
	ns, res, err := s.dropColumn(hour, now)
	if err != nil {
		return s, Result{}, err
	}
	res.Notices = append(res.Notices, blockDeletedNotice(len(res.Unscheduled)))
	return ns, res, nil
}

func (s *Schedule) dropColumn(hour int, now time.Time) (*Schedule, Result, error) {
	nw, removed, err := s.window.RemoveColumn(hour, now)
	if err != nil {
		return s, Result{}, fmt.Errorf("delete column %d: %w", hour, err)
	}

	gone := make(map[string]bool, len(removed))
	res := Result{Changed: true}
	for _, slot := range removed {
		gone[slot.ID] = true
		res.RemovedSlots = append(res.RemovedSlots, slot.ID)
	}

	ns := &Schedule{window: nw, pool: slices.Clone(s.pool)}
	for _, t := range s.scheduled {
		if !gone[t.TimeSlotID] {
			ns.scheduled = append(ns.scheduled, t)
			continue
		}
		res.Moves = append(res.Moves, TaskMove{TaskID: t.ID, From: t.TimeSlotID})
		res.Unscheduled = append(res.Unscheduled, t.ID)
		t.TimeSlotID = ""
		ns.pool = append(ns.pool, t)
	}

	return ns, res, nil
}

// InsertSlotAfter inserts a slot right after (hour, minute) and remaps the
// tasks whose slots shifted. No task is unscheduled by an insertion.
func (s *Schedule) InsertSlotAfter(hour, minute int, now time.Time) (*Schedule, Result, error) {
	nw, inserted, err := s.window.InsertAfter(hour, minute, now)
	if err != nil {
		return s, Result{}, fmt.Errorf("insert after %s: %w", Position{Hour: hour, Minute: minute}, err)
	}
	insertAt := inserted.Offset()

	// Old position of every slot, keyed by id
	oldPos := make(map[string]Position, s.window.Len())
	for _, slot := range s.window.slots {
		oldPos[slot.ID] = slot.Position()
	}

	ns := &Schedule{
		window:    nw,
		scheduled: slices.Clone(s.scheduled),
		pool:      slices.Clone(s.pool),
	}
	res := Result{Changed: true, Slot: &inserted}
	for i, t := range ns.scheduled {
		from := oldPos[t.TimeSlotID]
		if from.Offset() < insertAt {
			continue
		}
		to := PositionOf(from.Offset() + 1)
		moved, ok := nw.SlotAt(to.Hour, to.Minute)
		if !ok {
			return s, Result{}, fmt.Errorf("%w: no slot at %s after insert", ErrInvariantViolation, to)
		}
		ns.scheduled[i].TimeSlotID = moved.ID
		res.Remapped = append(res.Remapped, TaskRemap{
			TaskID: t.ID,
			SlotID: moved.ID,
			From:   from,
			To:     to,
		})
	}
	res.Notices = append(res.Notices, blockAddedNotice())

	return ns, res, nil
}

// Validate checks every structural invariant and returns the first
// violation wrapped in ErrInvariantViolation.
func (s *Schedule) Validate() error {
	if s.window == nil {
		return fmt.Errorf("%w: schedule has no window", ErrInvariantViolation)
	}

	slotIDs := make(map[string]bool, s.window.Len())
	current := 0
	for i, slot := range s.window.slots {
		p := slot.Position()
		if !p.Valid() {
			return fmt.Errorf("%w: slot %s has position %s", ErrInvariantViolation, slot.ID, p)
		}
		if p.Offset() != i {
			return fmt.Errorf("%w: slot %s at %s, expected %s", ErrInvariantViolation, slot.ID, p, PositionOf(i))
		}
		if slotIDs[slot.ID] {
			return fmt.Errorf("%w: duplicate slot id %s", ErrInvariantViolation, slot.ID)
		}
		slotIDs[slot.ID] = true
		if want := FormatClock(s.window.StartOf(slot)); slot.DisplayTime != want {
			return fmt.Errorf("%w: slot %s labeled %s, expected %s", ErrInvariantViolation, slot.ID, slot.DisplayTime, want)
		}
		if slot.IsCurrent {
			current++
		}
	}
	if current > 1 {
		return fmt.Errorf("%w: %d slots flagged current", ErrInvariantViolation, current)
	}

	taskIDs := make(map[string]bool, s.TaskCount())
	for _, t := range s.scheduled {
		if taskIDs[t.ID] {
			return fmt.Errorf("%w: duplicate task id %s", ErrInvariantViolation, t.ID)
		}
		taskIDs[t.ID] = true
		if !slotIDs[t.TimeSlotID] {
			return fmt.Errorf("%w: task %s references missing slot %q", ErrInvariantViolation, t.ID, t.TimeSlotID)
		}
	}
	for _, t := range s.pool {
		if taskIDs[t.ID] {
			return fmt.Errorf("%w: duplicate task id %s", ErrInvariantViolation, t.ID)
		}
		taskIDs[t.ID] = true
		if t.IsScheduled() {
			return fmt.Errorf("%w: pooled task %s references slot %s", ErrInvariantViolation, t.ID, t.TimeSlotID)
		}
	}

	return nil
}

// Repair returns a schedule that satisfies Validate: positions are
// re-densified, labels recomputed, dangling task references sent to the
// pool and duplicate task ids dropped.
func (s *Schedule) Repair(now time.Time) *Schedule {
	ns := s.clone()
	if ns.window == nil {
		ns.window = &Window{origin: FloorToHour(now)}
	}
	ns.window.densify()
	ns.window.relabel(now)

	seen := make(map[string]bool, s.TaskCount())
	var scheduled, pool []Task
	for _, t := range ns.scheduled {
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		if _, ok := ns.window.Slot(t.TimeSlotID); !ok {
			t.TimeSlotID = ""
			pool = append(pool, t)
			continue
		}
		scheduled = append(scheduled, t)
	}
	for _, t := range ns.pool {
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		t.TimeSlotID = ""
		pool = append(pool, t)
	}
	ns.scheduled = scheduled
	ns.pool = pool

	return ns
}

// Snapshot is a read-only, serializable view of a Schedule.
type Snapshot struct {
	Origin    time.Time  `json:"origin"`
	Slots     []TimeSlot `json:"slots"`
	Scheduled []Task     `json:"scheduled"`
	Pool      []Task     `json:"pool"`
}

// Snapshot copies the schedule into a Snapshot.
func (s *Schedule) Snapshot() Snapshot {
	snap := Snapshot{
		Origin:    s.window.Origin(),
		Slots:     s.window.Slots(),
		Scheduled: slices.Clone(s.scheduled),
		Pool:      slices.Clone(s.pool),
	}
	// Empty sets encode as [] rather than null.
	if snap.Scheduled == nil {
		snap.Scheduled = []Task{}
	}
	if snap.Pool == nil {
		snap.Pool = []Task{}
	}
	return snap
}

// FromSnapshot rebuilds a Schedule from a snapshot as is. The result is
// not validated; call Validate or Repair before trusting it.
func FromSnapshot(snap Snapshot) *Schedule {
	return &Schedule{
		window: &Window{
			origin: snap.Origin,
			slots:  slices.Clone(snap.Slots),
		},
		scheduled: slices.Clone(snap.Scheduled),
		pool:      slices.Clone(snap.Pool),
	}
}

// clone creates a copy of the schedule.
func (s *Schedule) clone() *Schedule {
	ns := &Schedule{
		scheduled: slices.Clone(s.scheduled),
		pool:      slices.Clone(s.pool),
	}
	if s.window != nil {
		ns.window = s.window.clone()
	}
	return ns
}

func indexOfTask(tasks []Task, id string) int {
	return slices.IndexFunc(tasks, func(t Task) bool { return t.ID == id })
}
