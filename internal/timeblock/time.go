package timeblock

import (
	"fmt"
	"time"
)

const (
	// SlotMinutes is the width of one slot.
	SlotMinutes = 10
	// SlotsPerHour is the number of slots in a full hour-column.
	SlotsPerHour = 60 / SlotMinutes
	// MaxMinuteIndex is the last minute index inside a column.
	MaxMinuteIndex = SlotsPerHour - 1
	// DefaultHours is the span of a freshly generated window.
	DefaultHours = 4
)

// SlotDuration is SlotMinutes as a time.Duration.
const SlotDuration = SlotMinutes * time.Minute

// FloorToHour truncates t to the start of its local hour.
func FloorToHour(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
}

// FloorToSlot truncates t to the start of its 10-minute bucket.
func FloorToSlot(t time.Time) time.Time {
	m := (t.Minute() / SlotMinutes) * SlotMinutes
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), m, 0, 0, t.Location())
}

// FormatClock formats t as "HH:MM".
func FormatClock(t time.Time) string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// Position locates a slot inside the window.
type Position struct {
	Hour   int `json:"hour_index"`
	Minute int `json:"minute_index"`
}

// PositionOf converts an absolute slot offset into a Position.
// Offsets past MaxMinuteIndex roll into the next hour-column.
func PositionOf(offset int) Position {
	return Position{Hour: offset / SlotsPerHour, Minute: offset % SlotsPerHour}
}

// Offset returns the number of slots between the window origin and p.
func (p Position) Offset() int {
	return p.Hour*SlotsPerHour + p.Minute
}

// Valid reports whether p has a non-negative hour and an in-range minute index.
func (p Position) Valid() bool {
	return p.Hour >= 0 && p.Minute >= 0 && p.Minute <= MaxMinuteIndex
}

// String returns "h<hour>:m<minute>".
func (p Position) String() string {
	return fmt.Sprintf("h%d:m%d", p.Hour, p.Minute)
}
