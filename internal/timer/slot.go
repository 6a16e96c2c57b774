// Package timer holds single-owner cancellable timers.
package timer

import (
	"sync"
	"time"
)

// Slot is one kind of pending callback for an owner, such as a room's trick
// resolution. At most one callback is pending per slot.
//
// All methods must be called with the owner locked. Callbacks run with the
// owner locked too, so they see the same serialization as every other event.
type Slot struct {
	owner sync.Locker
	timer *time.Timer
	gen   uint64
}

func NewSlot(owner sync.Locker) *Slot {
	return &Slot{owner: owner}
}

// Schedule replaces any pending callback with fn, run after d.
func (s *Slot) Schedule(d time.Duration, fn func()) {
	s.Stop()
	s.gen++
	gen := s.gen
	s.timer = time.AfterFunc(d, func() {
		s.owner.Lock()
		defer s.owner.Unlock()
		// A Stop or Schedule that ran after the timer fired but before we got
		// the lock has already moved gen on.
		if s.gen != gen || s.timer == nil {
			return
		}
		s.timer = nil
		fn()
	})
}

// Stop cancels the pending callback, reporting whether there was one.
func (s *Slot) Stop() bool {
	if s.timer == nil {
		return false
	}
	s.timer.Stop()
	s.timer = nil
	s.gen++
	return true
}

func (s *Slot) Pending() bool {
	return s.timer != nil
}
