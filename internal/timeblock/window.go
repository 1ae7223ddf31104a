package timeblock

import (
	"slices"
	"time"
)

// Window is the ordered, time-anchored set of slots currently displayed.
//
// Window is immutable: every operation returns a new Window and leaves the
// receiver untouched, so old references stay valid for snapshots and
// comparisons.
//
// Slots are kept dense: the slot at index i always sits at offset i from
// the origin, so (HourIndex, MinuteIndex) is unique and labels can be
// replayed from the origin at any time.
type Window struct {
	origin time.Time
	slots  []TimeSlot
}

// GenerateWindow builds hours*6 slots starting at the top of now's hour.
// Exactly one slot is flagged current: the one at now's 10-minute bucket.
func GenerateWindow(hours int, now time.Time) (*Window, error) {
	if hours < 1 {
		return nil, ErrInvalidSpan
	}

	origin := FloorToHour(now)
	w := &Window{
		origin: origin,
		slots:  make([]TimeSlot, 0, hours*SlotsPerHour),
	}
	for offset := 0; offset < hours*SlotsPerHour; offset++ {
		start := origin.Add(time.Duration(offset) * SlotDuration)
		s := TimeSlot{ID: generatedSlotID(start)}
		s.setPosition(PositionOf(offset))
		w.slots = append(w.slots, s)
	}
	w.relabel(now)

	return w, nil
}

// Origin returns the wall-clock time of position (0, 0).
func (w *Window) Origin() time.Time {
	return w.origin
}

// Len returns the number of slots in the window.
func (w *Window) Len() int {
	return len(w.slots)
}

// Columns returns the number of hour-columns, counting a partial last column.
func (w *Window) Columns() int {
	return (len(w.slots) + SlotsPerHour - 1) / SlotsPerHour
}

// Slots returns a copy of the slots in (hour, minute) order.
func (w *Window) Slots() []TimeSlot {
	return slices.Clone(w.slots)
}

// Column returns the slots sharing the given hour index.
func (w *Window) Column(hour int) []TimeSlot {
	var result []TimeSlot
	for _, s := range w.slots {
		if s.HourIndex == hour {
			result = append(result, s)
		}
	}
	return result
}

// Slot returns the slot with the given id.
func (w *Window) Slot(id string) (TimeSlot, bool) {
	for _, s := range w.slots {
		if s.ID == id {
			return s, true
		}
	}
	return TimeSlot{}, false
}

// SlotAt returns the slot at the given coordinates.
func (w *Window) SlotAt(hour, minute int) (TimeSlot, bool) {
	p := Position{Hour: hour, Minute: minute}
	if !p.Valid() {
		return TimeSlot{}, false
	}
	offset := p.Offset()
	if offset >= len(w.slots) {
		return TimeSlot{}, false
	}
	return w.slots[offset], true
}

// Current returns the slot flagged as the present 10-minute bucket.
func (w *Window) Current() (TimeSlot, bool) {
	for _, s := range w.slots {
		if s.IsCurrent {
			return s, true
		}
	}
	return TimeSlot{}, false
}

// StartOf returns the wall-clock start of a slot, replayed from the origin.
func (w *Window) StartOf(s TimeSlot) time.Time {
	return w.origin.Add(time.Duration(s.Offset()) * SlotDuration)
}

// RefreshCurrent returns a window whose IsCurrent flags match now.
// Ids and positions are never touched.
func (w *Window) RefreshCurrent(now time.Time) *Window {
	nw := w.clone()
	nw.markCurrent(now)
	return nw
}

// InsertAfter inserts one new slot right after the slot at (hour, minute).
// Every slot at or past the insertion point moves one step forward in
// absolute time, rolling into the next hour-column past minute index 5.
// Returns the new window and the inserted slot.
func (w *Window) InsertAfter(hour, minute int, now time.Time) (*Window, TimeSlot, error) {
	target, ok := w.SlotAt(hour, minute)
	if !ok {
		return w, TimeSlot{}, ErrSlotNotFound
	}
	insertAt := target.Offset() + 1

	nw := w.clone()

	// Shift from absolute offsets so column boundaries need no special case
	for i := range nw.slots {
		offset := nw.slots[i].Offset()
		if offset >= insertAt {
			nw.slots[i].setPosition(PositionOf(offset + 1))
		}
	}

	inserted := TimeSlot{ID: nw.uniqueInsertedID()}
	inserted.setPosition(PositionOf(insertAt))
	nw.slots = append(nw.slots, inserted)

	slices.SortFunc(nw.slots, compareSlots)
	nw.relabel(now)

	s, _ := nw.Slot(inserted.ID)
	return nw, s, nil
}

// RemoveColumn drops every slot of the given hour-column and renumbers the
// columns after it. Removing column 0 moves the origin forward one hour,
// so the remaining labels stay put; removing a later column keeps the
// origin and the later columns relabel to close the gap.
// Returns the new window and the removed slots.
func (w *Window) RemoveColumn(hour int, now time.Time) (*Window, []TimeSlot, error) {
	removed := w.Column(hour)
	if len(removed) == 0 {
		return w, nil, ErrSlotNotFound
	}
	if len(w.slots) <= SlotsPerHour {
		return w, nil, ErrLastColumn
	}

	nw := &Window{
		origin: w.origin,
		slots:  make([]TimeSlot, 0, len(w.slots)-len(removed)),
	}
	if hour == 0 {
		nw.origin = w.origin.Add(time.Hour)
	}
	for _, s := range w.slots {
		switch {
		case s.HourIndex == hour:
			continue
		case s.HourIndex > hour:
			s.HourIndex--
		}
		nw.slots = append(nw.slots, s)
	}
	nw.relabel(now)

	return nw, removed, nil
}

// clone creates a copy of the window.
func (w *Window) clone() *Window {
	return &Window{
		origin: w.origin,
		slots:  slices.Clone(w.slots),
	}
}

// relabel recomputes DisplayTime and IsCurrent for every slot in order.
func (w *Window) relabel(now time.Time) {
	for i := range w.slots {
		w.slots[i].DisplayTime = FormatClock(w.StartOf(w.slots[i]))
	}
	w.markCurrent(now)
}

// markCurrent flags the slot whose start matches now's 10-minute bucket.
func (w *Window) markCurrent(now time.Time) {
	bucket := FloorToSlot(now)
	for i := range w.slots {
		w.slots[i].IsCurrent = w.StartOf(w.slots[i]).Equal(bucket)
	}
}

// densify reorders the slots and reassigns positions from slice order.
func (w *Window) densify() {
	slices.SortStableFunc(w.slots, compareSlots)
	for i := range w.slots {
		w.slots[i].setPosition(PositionOf(i))
	}
}

func (w *Window) uniqueInsertedID() string {
	for {
		id := insertedSlotID()
		if _, taken := w.Slot(id); !taken {
			return id
		}
	}
}
