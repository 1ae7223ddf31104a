package timeblock

import (
	"fmt"
	"slices"
)

// Place drops a task onto a slot.
//
// An id unknown to both sets creates a task right in the slot, titled
// from title or DefaultTaskTitle. An empty id gets a fresh one.
//
// A known task claims the slot after every other occupant of the target's
// hour-column at or after the target minute shifts forward one slot.
// Occupants with no next slot in that column go to the pool. A task
// already on slotID is left alone.
func (s *Schedule) Place(taskID, slotID, title string) (*Schedule, Result, error) {
	target, ok := s.window.Slot(slotID)
	if !ok {
		return s, Result{}, fmt.Errorf("place on %q: %w", slotID, ErrSlotNotFound)
	}

	moving, exists := s.Task(taskID)
	if !exists || taskID == "" {
		return s.create(taskID, target, title)
	}
	if moving.TimeSlotID == slotID {
		return s, Result{}, nil
	}

	ns := &Schedule{window: s.window}
	res := Result{Changed: true}
	var overflow []Task

	for _, t := range s.scheduled {
		if t.ID == moving.ID {
			continue
		}
		slot, ok := s.window.Slot(t.TimeSlotID)
		if !ok || slot.HourIndex != target.HourIndex || slot.MinuteIndex < target.MinuteIndex {
			ns.scheduled = append(ns.scheduled, t)
			continue
		}

		from := t.TimeSlotID
		next, ok := s.window.SlotAt(slot.HourIndex, slot.MinuteIndex+1)
		if !ok {
			t.TimeSlotID = ""
			overflow = append(overflow, t)
			res.Unscheduled = append(res.Unscheduled, t.ID)
			res.Moves = append(res.Moves, TaskMove{TaskID: t.ID, From: from})
			continue
		}
		t.TimeSlotID = next.ID
		ns.scheduled = append(ns.scheduled, t)
		res.Moves = append(res.Moves, TaskMove{TaskID: t.ID, From: from, To: next.ID})
	}

	for _, t := range s.pool {
		if t.ID != moving.ID {
			ns.pool = append(ns.pool, t)
		}
	}
	ns.pool = append(ns.pool, overflow...)

	res.Moves = append(res.Moves, TaskMove{TaskID: moving.ID, From: moving.TimeSlotID, To: slotID})
	moving.TimeSlotID = slotID
	ns.scheduled = append(ns.scheduled, moving)
	res.Task = &moving

	if n := len(res.Unscheduled); n > 0 {
		res.Notices = append(res.Notices, unscheduledNotice(n))
	}

	return ns, res, nil
}

// create adds a brand-new task directly into target.
func (s *Schedule) create(taskID string, target TimeSlot, title string) (*Schedule, Result, error) {
	if taskID == "" {
		taskID = NewTaskID()
	}
	t := Task{ID: taskID, Title: titleOrDefault(title), TimeSlotID: target.ID}

	ns := s.clone()
	ns.scheduled = append(ns.scheduled, t)

	return ns, Result{
		Changed: true,
		Task:    &t,
		Moves:   []TaskMove{{TaskID: t.ID, To: target.ID}},
	}, nil
}

// Reorder reassigns a scheduled task to slotID without touching the slot's
// current occupants.
func (s *Schedule) Reorder(taskID, slotID string) (*Schedule, Result, error) {
	if _, ok := s.window.Slot(slotID); !ok {
		return s, Result{}, fmt.Errorf("reorder onto %q: %w", slotID, ErrSlotNotFound)
	}
	i := indexOfTask(s.scheduled, taskID)
	if i < 0 {
		if indexOfTask(s.pool, taskID) >= 0 {
			return s, Result{}, fmt.Errorf("reorder %q: %w", taskID, ErrTaskNotScheduled)
		}
		return s, Result{}, fmt.Errorf("reorder %q: %w", taskID, ErrTaskNotFound)
	}

	t := s.scheduled[i]
	if t.TimeSlotID == slotID {
		return s, Result{}, nil
	}

	ns := s.clone()
	ns.scheduled[i].TimeSlotID = slotID
	moved := ns.scheduled[i]

	return ns, Result{
		Changed: true,
		Task:    &moved,
		Moves:   []TaskMove{{TaskID: taskID, From: t.TimeSlotID, To: slotID}},
	}, nil
}

// Unschedule moves a scheduled task to the end of the pool.
// A task already in the pool is left alone.
func (s *Schedule) Unschedule(taskID string) (*Schedule, Result, error) {
	i := indexOfTask(s.scheduled, taskID)
	if i < 0 {
		if indexOfTask(s.pool, taskID) >= 0 {
			return s, Result{}, nil
		}
		return s, Result{}, fmt.Errorf("unschedule %q: %w", taskID, ErrTaskNotFound)
	}

	ns := s.clone()
	t := ns.scheduled[i]
	from := t.TimeSlotID
	ns.scheduled = slices.Delete(ns.scheduled, i, i+1)
	t.TimeSlotID = ""
	ns.pool = append(ns.pool, t)

	return ns, Result{
		Changed:     true,
		Task:        &t,
		Moves:       []TaskMove{{TaskID: taskID, From: from}},
		Unscheduled: []string{taskID},
	}, nil
}

// Remove destroys a task from whichever set holds it.
func (s *Schedule) Remove(taskID string) (*Schedule, Result, error) {
	ns := s.clone()

	var removed Task
	if i := indexOfTask(ns.scheduled, taskID); i >= 0 {
		removed = ns.scheduled[i]
		ns.scheduled = slices.Delete(ns.scheduled, i, i+1)
	} else if i := indexOfTask(ns.pool, taskID); i >= 0 {
		removed = ns.pool[i]
		ns.pool = slices.Delete(ns.pool, i, i+1)
	} else {
		return s, Result{}, fmt.Errorf("remove %q: %w", taskID, ErrTaskNotFound)
	}

	return ns, Result{Changed: true, Task: &removed}, nil
}

// AddToPool creates an unscheduled task.
func (s *Schedule) AddToPool(title string) (*Schedule, Result, error) {
	t, err := NewTask(title)
	if err != nil {
		return s, Result{}, err
	}

	ns := s.clone()
	ns.pool = append(ns.pool, t)

	return ns, Result{Changed: true, Task: &t}, nil
}
