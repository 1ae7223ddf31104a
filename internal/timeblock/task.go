// Package timeblock defines the core time-slot and task types for tenmin
// and the pure transformations that reconcile them.
package timeblock

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// DefaultTaskTitle is used when a task is created inside a slot without text.
const DefaultTaskTitle = "New Task"

// Reference errors. Both satisfy errors.Is(err, ErrReferenceNotFound).
var (
	ErrReferenceNotFound = errors.New("reference not found")
	ErrSlotNotFound      = fmt.Errorf("slot %w", ErrReferenceNotFound)
	ErrTaskNotFound      = fmt.Errorf("task %w", ErrReferenceNotFound)
)

// Caller errors.
var (
	ErrEmptyTitle       = errors.New("title cannot be empty")
	ErrInvalidSpan      = errors.New("window must span at least one hour")
	ErrLastColumn       = errors.New("cannot delete the only hour column")
	ErrTaskNotScheduled = errors.New("task is not scheduled")
)

// ErrInvariantViolation signals a state the operations should never produce.
var ErrInvariantViolation = errors.New("invariant violation")

// Task is a card that either sits in one slot or in the unscheduled pool.
type Task struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	TimeSlotID string `json:"time_slot_id,omitempty"` // empty means unscheduled
}

// NewTask creates an unscheduled task with a fresh id.
// The title is trimmed and must not be empty.
func NewTask(title string) (Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Task{}, ErrEmptyTitle
	}
	return Task{ID: NewTaskID(), Title: title}, nil
}

// NewTaskID returns a new opaque task identifier.
func NewTaskID() string {
	return uuid.NewString()
}

// IsScheduled returns true if the task references a slot.
func (t Task) IsScheduled() bool {
	return t.TimeSlotID != ""
}

// titleOrDefault trims title and falls back to DefaultTaskTitle.
func titleOrDefault(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return DefaultTaskTitle
	}
	return title
}
