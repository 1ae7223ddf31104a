// Package scheduler provides time-aware logic that ages a schedule forward.
package scheduler

import (
	"fmt"
	"time"

	"github.com/javiermolinar/tenmin/internal/timeblock"
)

// DefaultRolloverAfter is how long the window runs between rollovers.
const DefaultRolloverAfter = 60 * time.Minute

// Advancer decides on each tick whether the oldest hour-column has expired.
//
// Elapsed time is measured from the last rollover, or from when the
// window was generated if none has happened yet. It is not safe for
// concurrent use.
type Advancer struct {
	clock         Clock
	rolloverAfter time.Duration
	lastRollover  time.Time
}

// NewAdvancer creates an Advancer whose baseline is the clock's current
// time. A nil clock uses the system clock and a non-positive threshold
// uses DefaultRolloverAfter.
func NewAdvancer(clock Clock, rolloverAfter time.Duration) *Advancer {
	if clock == nil {
		clock = RealClock{}
	}
	if rolloverAfter <= 0 {
		rolloverAfter = DefaultRolloverAfter
	}
	return &Advancer{
		clock:         clock,
		rolloverAfter: rolloverAfter,
		lastRollover:  clock.Now(),
	}
}

// Now returns the advancer's current time.
func (a *Advancer) Now() time.Time {
	return a.clock.Now()
}

// RolloverAfter returns the configured expiry threshold.
func (a *Advancer) RolloverAfter() time.Duration {
	return a.rolloverAfter
}

// LastRollover returns the rollover baseline.
func (a *Advancer) LastRollover() time.Time {
	return a.lastRollover
}

// Rebase restarts the rollover countdown from now. Call it whenever a
// fresh window is generated.
func (a *Advancer) Rebase() {
	a.lastRollover = a.clock.Now()
}

// Elapsed returns the time since the last rollover.
func (a *Advancer) Elapsed() time.Duration {
	return a.clock.Now().Sub(a.lastRollover)
}

// Due returns true if the next tick would roll s over.
// A window of one column or less never rolls over.
func (a *Advancer) Due(s *timeblock.Schedule) bool {
	return a.Elapsed() >= a.rolloverAfter && s.Window().Len() > timeblock.SlotsPerHour
}

// TickResult describes a single tick.
type TickResult struct {
	timeblock.Result
	RolledOver bool          `json:"rolled_over"`
	Elapsed    time.Duration `json:"elapsed"`
}

// Tick ages the schedule. When the threshold has passed since the last
// rollover, hour-column 0 is removed, its tasks move to the pool and the
// baseline moves to now. Otherwise only the current-slot marker is
// refreshed. At most one column expires per threshold period.
func (a *Advancer) Tick(s *timeblock.Schedule) (*timeblock.Schedule, TickResult, error) {
	now := a.clock.Now()
	res := TickResult{Elapsed: a.Elapsed()}

	if !a.Due(s) {
		ns := s.RefreshCurrent(now)
		return ns, res, nil
	}

	ns, rolled, err := s.Rollover(now)
	if err != nil {
		return s, res, fmt.Errorf("rollover: %w", err)
	}
	res.Result = rolled
	res.RolledOver = rolled.Changed
	if res.RolledOver {
		a.lastRollover = now
	}

	return ns, res, nil
}

// NextFreeSlot returns the first slot at or after now's 10-minute bucket
// that holds no task. If now is before the window, the search starts at
// the first slot.
func NextFreeSlot(s *timeblock.Schedule, now time.Time) (timeblock.TimeSlot, bool) {
	w := s.Window()
	from := timeblock.FloorToSlot(now)

	for _, slot := range w.Slots() {
		if w.StartOf(slot).Before(from) {
			continue
		}
		if len(s.TasksInSlot(slot.ID)) == 0 {
			return slot, true
		}
	}
	return timeblock.TimeSlot{}, false
}
