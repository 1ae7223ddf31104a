package timeblock

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// TimeSlot is one 10-minute cell of the window.
type TimeSlot struct {
	ID          string `json:"id"`
	DisplayTime string `json:"display_time"` // "HH:MM", derived from origin and position
	HourIndex   int    `json:"hour_index"`
	MinuteIndex int    `json:"minute_index"`
	IsCurrent   bool   `json:"is_current"`
}

// Position returns the slot's (hour, minute) coordinates.
func (s TimeSlot) Position() Position {
	return Position{Hour: s.HourIndex, Minute: s.MinuteIndex}
}

// Offset returns the slot's distance from the window origin in slots.
func (s TimeSlot) Offset() int {
	return s.Position().Offset()
}

// setPosition moves the slot to p without touching its id.
func (s *TimeSlot) setPosition(p Position) {
	s.HourIndex = p.Hour
	s.MinuteIndex = p.Minute
}

// generatedSlotID derives an id from the slot's absolute start time.
func generatedSlotID(start time.Time) string {
	return start.Format("slot-20060102-1504")
}

// insertedSlotID returns a random id for slots created by insertion.
func insertedSlotID() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "block-" + id[:8]
}

// compareSlots orders slots by hour index, then minute index.
func compareSlots(a, b TimeSlot) int {
	if a.HourIndex != b.HourIndex {
		return a.HourIndex - b.HourIndex
	}
	return a.MinuteIndex - b.MinuteIndex
}
