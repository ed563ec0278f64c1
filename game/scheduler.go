package game

import (
	"log"
	"time"
)

// scheduler drives automatic round advancement for one session: Idle
// until the session starts, Running while a timer is armed, Ended once
// stopped. It holds a single time.AfterFunc timer re-armed each round,
// with a generation counter so a fired-but-stale callback can never
// advance a round that was already advanced (or ended) by someone else.
type scheduler struct {
	session *Session

	// gen and timer are guarded by the session lock.
	gen   uint64
	timer *time.Timer
}

func newScheduler(s *Session) *scheduler {
	return &scheduler{session: s}
}

// arm schedules the next automatic advance, invalidating any pending
// timer. Caller holds the session lock.
func (sc *scheduler) arm(d time.Duration) {
	if sc.timer != nil {
		sc.timer.Stop()
	}
	sc.gen++
	gen := sc.gen
	sc.timer = time.AfterFunc(d, func() { sc.fire(gen) })
}

// stop cancels any pending advance. Caller holds the session lock.
// Bumping the generation covers the window where the timer has fired
// but its callback has not yet taken the lock.
func (sc *scheduler) stop() {
	if sc.timer != nil {
		sc.timer.Stop()
		sc.timer = nil
	}
	sc.gen++
}

// fire runs on the timer goroutine. It revalidates the generation and
// the active flag under the session lock, so a callback racing an
// all-submitted advance or endGame is a no-op. Nothing waits on this
// goroutine: unexpected state is logged and dropped, never panicked.
func (sc *scheduler) fire(gen uint64) {
	s := sc.session
	s.mu.Lock()
	if !s.active || gen != sc.gen {
		s.mu.Unlock()
		return
	}
	log.Printf("game %s: round %d timed out, advancing", s.id, s.currentRound)
	var events []event
	s.advanceLocked(&events)
	s.mu.Unlock()
	s.publish(events)
}
