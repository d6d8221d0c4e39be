package engine

import "time"

// scheduledAction is one deferred callback keyed by the monotonic clock.
type scheduledAction struct {
	id uint64
	at time.Time
	fn func()
}

// Scheduler is the engine's deferred-action queue. All "waiting" in the
// core (most importantly the voice release after a stop ramp) is
// expressed as a scheduled action drained once per tick, never as a
// blocking wait or an asynchronous timer that could re-enter the engine
// mid-frame.
type Scheduler struct {
	nextID  uint64
	actions []scheduledAction
}

// NewScheduler creates an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// After schedules fn to run once now+d has passed. Returns an id usable
// with Cancel or Fire.
func (s *Scheduler) After(now time.Time, d time.Duration, fn func()) uint64 {
	s.nextID++
	s.actions = append(s.actions, scheduledAction{
		id: s.nextID,
		at: now.Add(d),
		fn: fn,
	})
	return s.nextID
}

// Cancel removes a pending action without running it.
// Returns false if the action already ran or was never scheduled.
func (s *Scheduler) Cancel(id uint64) bool {
	for i := range s.actions {
		if s.actions[i].id == id {
			s.actions = append(s.actions[:i], s.actions[i+1:]...)
			return true
		}
	}
	return false
}

// Fire runs a pending action immediately, regardless of its due time,
// and removes it. Used to force-complete a pending voice release before
// a new voice starts. Returns false if the action is not pending.
func (s *Scheduler) Fire(id uint64) bool {
	for i := range s.actions {
		if s.actions[i].id == id {
			fn := s.actions[i].fn
			s.actions = append(s.actions[:i], s.actions[i+1:]...)
			fn()
			return true
		}
	}
	return false
}

// Drain runs every action whose due time has passed, in scheduling
// order, and returns how many ran. Actions scheduled while draining run
// on a later tick, never re-entrantly within this one.
func (s *Scheduler) Drain(now time.Time) int {
	var due []scheduledAction
	remaining := s.actions[:0]
	for _, a := range s.actions {
		if !a.at.After(now) {
			due = append(due, a)
		} else {
			remaining = append(remaining, a)
		}
	}
	s.actions = remaining

	for _, a := range due {
		a.fn()
	}
	return len(due)
}

// Pending returns the number of queued actions.
func (s *Scheduler) Pending() int {
	return len(s.actions)
}
