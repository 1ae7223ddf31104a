package engine

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/javiermolinar/tenmin/internal/logger"
	"github.com/javiermolinar/tenmin/internal/scheduler"
	"github.com/javiermolinar/tenmin/internal/timeblock"
)

// DefaultTickInterval is how often the loop ages the window.
const DefaultTickInterval = time.Minute

// command is a unit of work run by the loop against the State.
type command struct {
	apply func(st *State) (any, error)
	reply chan reply
}

type reply struct {
	val any
	err error
}

// Engine runs a single goroutine that owns a State. User commands and
// ticks share one queue, so no two mutations ever interleave.
type Engine struct {
	state    *State
	interval time.Duration

	cmds    chan command
	notices chan timeblock.Notice
	done    chan struct{}
	running atomic.Bool
}

// New creates an Engine. Call Run to start its loop.
func New(opts Options) (*Engine, error) {
	st, err := NewState(opts)
	if err != nil {
		return nil, err
	}

	interval := opts.TickInterval
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	buffer := opts.NoticeBuffer
	if buffer <= 0 {
		buffer = 1
	}

	e := &Engine{
		state:    st,
		interval: interval,
		cmds:     make(chan command),
		notices:  make(chan timeblock.Notice, buffer),
		done:     make(chan struct{}),
	}
	st.OnNotice(e.publish)

	return e, nil
}

// Run processes commands and ticks until ctx is cancelled.
// It returns nil on cancellation; the schedule is discarded with the loop.
func (e *Engine) Run(ctx context.Context) error {
	if !e.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer close(e.done)

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	logger.Info("engine started", "tick", e.interval, "slots", e.state.Schedule().Window().Len())
	for {
		select {
		case <-ctx.Done():
			logger.Info("engine stopped")
			return nil
		case cmd := <-e.cmds:
			val, err := cmd.apply(e.state)
			cmd.reply <- reply{val: val, err: err}
		case <-ticker.C:
			if _, err := e.state.Tick(); err != nil {
				logger.Error("tick failed", "error", err)
			}
		}
	}
}

// Done is closed once Run has returned.
func (e *Engine) Done() <-chan struct{} {
	return e.done
}

// Notices delivers advisory notices as they happen. Notices are dropped
// when nobody keeps up with the channel; RecentNotices keeps a log.
func (e *Engine) Notices() <-chan timeblock.Notice {
	return e.notices
}

func (e *Engine) publish(n timeblock.Notice) {
	select {
	case e.notices <- n:
	default:
		logger.Debug("notice dropped, channel full", "kind", n.Kind)
	}
}

// call runs fn on the loop goroutine and waits for its result.
func call[T any](ctx context.Context, e *Engine, fn func(st *State) (T, error)) (T, error) {
	var zero T
	r := make(chan reply, 1)
	cmd := command{
		apply: func(st *State) (any, error) { return fn(st) },
		reply: r,
	}

	select {
	case e.cmds <- cmd:
	case <-e.done:
		return zero, ErrStopped
	case <-ctx.Done():
		return zero, ctx.Err()
	}

	select {
	case rep := <-r:
		val, _ := rep.val.(T)
		return val, rep.err
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Reset regenerates the window from the current time. Tasks are dropped.
func (e *Engine) Reset(ctx context.Context, hours int) (timeblock.Result, error) {
	return call(ctx, e, func(st *State) (timeblock.Result, error) { return st.Reset(hours) })
}

// Tick ages the window immediately, outside the ticker's schedule.
func (e *Engine) Tick(ctx context.Context) (scheduler.TickResult, error) {
	return call(ctx, e, func(st *State) (scheduler.TickResult, error) { return st.Tick() })
}

// InsertSlotAfter inserts a slot after (hour, minute).
func (e *Engine) InsertSlotAfter(ctx context.Context, hour, minute int) (timeblock.Result, error) {
	return call(ctx, e, func(st *State) (timeblock.Result, error) { return st.InsertSlotAfter(hour, minute) })
}

// Place drops a task onto a slot.
func (e *Engine) Place(ctx context.Context, taskID, slotID, title string) (timeblock.Result, error) {
	return call(ctx, e, func(st *State) (timeblock.Result, error) { return st.Place(taskID, slotID, title) })
}

// Reorder moves a scheduled task without cascading.
func (e *Engine) Reorder(ctx context.Context, taskID, slotID string) (timeblock.Result, error) {
	return call(ctx, e, func(st *State) (timeblock.Result, error) { return st.Reorder(taskID, slotID) })
}

// Unschedule moves a task to the pool.
func (e *Engine) Unschedule(ctx context.Context, taskID string) (timeblock.Result, error) {
	return call(ctx, e, func(st *State) (timeblock.Result, error) { return st.Unschedule(taskID) })
}

// Remove destroys a task.
func (e *Engine) Remove(ctx context.Context, taskID string) (timeblock.Result, error) {
	return call(ctx, e, func(st *State) (timeblock.Result, error) { return st.Remove(taskID) })
}

// AddToPool creates an unscheduled task.
func (e *Engine) AddToPool(ctx context.Context, title string) (timeblock.Result, error) {
	return call(ctx, e, func(st *State) (timeblock.Result, error) { return st.AddToPool(title) })
}

// DeleteColumn removes an hour-column.
func (e *Engine) DeleteColumn(ctx context.Context, hour int) (timeblock.Result, error) {
	return call(ctx, e, func(st *State) (timeblock.Result, error) { return st.DeleteColumn(hour) })
}

// Undo reverts the last user command.
func (e *Engine) Undo(ctx context.Context) (string, error) {
	return call(ctx, e, func(st *State) (string, error) { return st.Undo() })
}

// Snapshot returns a copy of the current schedule.
func (e *Engine) Snapshot(ctx context.Context) (timeblock.Snapshot, error) {
	return call(ctx, e, func(st *State) (timeblock.Snapshot, error) { return st.Snapshot(), nil })
}

// PlanText returns the current day plan as text.
func (e *Engine) PlanText(ctx context.Context) (string, error) {
	return call(ctx, e, func(st *State) (string, error) { return st.PlanText(), nil })
}

// RecentNotices returns the notice log, oldest first.
func (e *Engine) RecentNotices(ctx context.Context) ([]timeblock.Notice, error) {
	return call(ctx, e, func(st *State) ([]timeblock.Notice, error) { return st.RecentNotices(), nil })
}
