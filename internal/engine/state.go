// Package engine owns the live schedule and serializes every command
// against it.
package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/javiermolinar/tenmin/internal/config"
	"github.com/javiermolinar/tenmin/internal/logger"
	"github.com/javiermolinar/tenmin/internal/scheduler"
	"github.com/javiermolinar/tenmin/internal/timeblock"
)

// Engine errors.
var (
	ErrStopped        = errors.New("engine stopped")
	ErrAlreadyRunning = errors.New("engine already running")
	ErrNothingToUndo  = errors.New("nothing to undo")
)

const defaultMaxHistory = 50

// Options configures a State or Engine.
type Options struct {
	Hours         int
	TickInterval  time.Duration
	RolloverAfter time.Duration
	Strict        bool
	NoticeBuffer  int
	Clock         scheduler.Clock // nil uses the system clock
}

// OptionsFromConfig maps the loaded configuration onto engine options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Hours:         cfg.Schedule.Hours,
		TickInterval:  cfg.TickInterval(),
		RolloverAfter: cfg.RolloverAfter(),
		Strict:        cfg.Engine.Strict,
		NoticeBuffer:  cfg.Engine.NoticeBuffer,
	}
}

// historyEntry is a schedule as it was before a user command.
type historyEntry struct {
	op       string
	schedule *timeblock.Schedule
}

// State is the synchronous core of the engine. It is not safe for
// concurrent use: callers either own it from a single goroutine (the TUI
// update loop) or go through Engine.
type State struct {
	advancer *scheduler.Advancer
	strict   bool

	schedule *timeblock.Schedule

	// Schedules are immutable, so history holds plain references
	history    []historyEntry
	maxHistory int

	notices    []timeblock.Notice
	maxNotices int
	onNotice   func(timeblock.Notice)
}

// NewState creates a State with a freshly generated window.
func NewState(opts Options) (*State, error) {
	if opts.Hours == 0 {
		opts.Hours = timeblock.DefaultHours
	}
	st := &State{
		advancer:   scheduler.NewAdvancer(opts.Clock, opts.RolloverAfter),
		strict:     opts.Strict,
		maxHistory: defaultMaxHistory,
		maxNotices: opts.NoticeBuffer,
	}

	s, err := timeblock.NewSchedule(opts.Hours, st.advancer.Now())
	if err != nil {
		return nil, fmt.Errorf("generating window: %w", err)
	}
	st.schedule = s

	return st, nil
}

// OnNotice registers a callback invoked for every notice emitted.
func (st *State) OnNotice(fn func(timeblock.Notice)) {
	st.onNotice = fn
}

// Schedule returns the current schedule. The value is immutable.
func (st *State) Schedule() *timeblock.Schedule {
	return st.schedule
}

// Snapshot returns a serializable copy of the current schedule.
func (st *State) Snapshot() timeblock.Snapshot {
	return st.schedule.Snapshot()
}

// PlanText returns the current schedule as a plain-text day plan.
func (st *State) PlanText() string {
	return st.schedule.PlanText()
}

// Now returns the engine's current time.
func (st *State) Now() time.Time {
	return st.advancer.Now()
}

// RecentNotices returns the most recent notices, oldest first.
func (st *State) RecentNotices() []timeblock.Notice {
	out := make([]timeblock.Notice, len(st.notices))
	copy(out, st.notices)
	return out
}

// CanUndo returns true if there are commands to undo.
func (st *State) CanUndo() bool {
	return len(st.history) > 0
}

// Reset discards the schedule and generates a new window of the given
// span from the current time.
func (st *State) Reset(hours int) (timeblock.Result, error) {
	s, err := timeblock.NewSchedule(hours, st.advancer.Now())
	if err != nil {
		return timeblock.Result{}, fmt.Errorf("reset: %w", err)
	}
	st.schedule = s
	st.history = nil
	st.advancer.Rebase()
	logger.Info("window reset", "hours", hours, "origin", s.Window().Origin().Format(time.Kitchen))
	return timeblock.Result{Changed: true}, nil
}

// Tick ages the window. A rollover clears the undo history, since older
// schedules still hold the expired column.
func (st *State) Tick() (scheduler.TickResult, error) {
	ns, res, err := st.advancer.Tick(st.schedule)
	if err != nil {
		return scheduler.TickResult{}, err
	}
	if _, err := st.commit("tick", ns, res.Result, false); err != nil {
		return scheduler.TickResult{}, err
	}
	if res.RolledOver {
		st.history = nil
		logger.Info("window rolled over",
			"removed_slots", len(res.RemovedSlots),
			"unscheduled", len(res.Unscheduled),
			"origin", ns.Window().Origin().Format(time.Kitchen))
	}
	return res, nil
}

// InsertSlotAfter inserts a slot after (hour, minute).
func (st *State) InsertSlotAfter(hour, minute int) (timeblock.Result, error) {
	ns, res, err := st.schedule.InsertSlotAfter(hour, minute, st.advancer.Now())
	if err != nil {
		return res, err
	}
	return st.commit("insert", ns, res, true)
}

// Place drops a task onto a slot, creating it if the id is new.
func (st *State) Place(taskID, slotID, title string) (timeblock.Result, error) {
	ns, res, err := st.schedule.Place(taskID, slotID, title)
	if err != nil {
		return res, err
	}
	return st.commit("place", ns, res, true)
}

// Reorder moves a scheduled task to slotID without cascading.
func (st *State) Reorder(taskID, slotID string) (timeblock.Result, error) {
	ns, res, err := st.schedule.Reorder(taskID, slotID)
	if err != nil {
		return res, err
	}
	return st.commit("reorder", ns, res, true)
}

// Unschedule moves a task to the pool.
func (st *State) Unschedule(taskID string) (timeblock.Result, error) {
	ns, res, err := st.schedule.Unschedule(taskID)
	if err != nil {
		return res, err
	}
	return st.commit("unschedule", ns, res, true)
}

// Remove destroys a task.
func (st *State) Remove(taskID string) (timeblock.Result, error) {
	ns, res, err := st.schedule.Remove(taskID)
	if err != nil {
		return res, err
	}
	return st.commit("remove", ns, res, true)
}

// AddToPool creates an unscheduled task.
func (st *State) AddToPool(title string) (timeblock.Result, error) {
	ns, res, err := st.schedule.AddToPool(title)
	if err != nil {
		return res, err
	}
	return st.commit("add", ns, res, true)
}

// DeleteColumn removes an hour-column, sending its tasks to the pool.
func (st *State) DeleteColumn(hour int) (timeblock.Result, error) {
	ns, res, err := st.schedule.DeleteColumn(hour, st.advancer.Now())
	if err != nil {
		return res, err
	}
	return st.commit("delete column", ns, res, true)
}

// Undo restores the schedule as it was before the last user command and
// returns that command's name.
func (st *State) Undo() (string, error) {
	if len(st.history) == 0 {
		return "", ErrNothingToUndo
	}

	entry := st.history[len(st.history)-1]
	st.history = st.history[:len(st.history)-1]

	// The restored schedule may predate a tick
	st.schedule = entry.schedule.RefreshCurrent(st.advancer.Now())
	logger.Debug("undo", "op", entry.op, "remaining", len(st.history))

	return entry.op, nil
}

// commit validates ns and swaps it in. In strict mode a broken invariant
// rejects the new state; otherwise the state is repaired and a warning
// logged.
func (st *State) commit(op string, ns *timeblock.Schedule, res timeblock.Result, undoable bool) (timeblock.Result, error) {
	if ns == st.schedule {
		logger.Debug("command was a no-op", "op", op)
		return res, nil
	}

	if err := ns.Validate(); err != nil {
		if st.strict {
			logger.Error("rejecting state", "op", op, "error", err)
			return timeblock.Result{}, fmt.Errorf("%s: %w", op, err)
		}
		logger.Warn("repairing state", "op", op, "error", err)
		ns = ns.Repair(st.advancer.Now())
	}

	if undoable {
		st.pushHistory(op)
	}
	st.schedule = ns
	logger.Debug("command applied", "op", op, "moves", len(res.Moves), "slots", ns.Window().Len())

	for _, n := range res.Notices {
		st.record(n)
	}
	return res, nil
}

// pushHistory saves the current schedule before a modification.
func (st *State) pushHistory(op string) {
	if len(st.history) >= st.maxHistory {
		st.history = st.history[1:]
	}
	st.history = append(st.history, historyEntry{op: op, schedule: st.schedule})
}

// record appends a notice to the bounded log and forwards it.
func (st *State) record(n timeblock.Notice) {
	logger.Info(n.Message, "kind", n.Kind, "count", n.Count)

	if st.maxNotices > 0 {
		if len(st.notices) >= st.maxNotices {
			st.notices = st.notices[1:]
		}
		st.notices = append(st.notices, n)
	}
	if st.onNotice != nil {
		st.onNotice(n)
	}
}
