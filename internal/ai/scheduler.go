package ai

import (
	"time"
)

// Scheduler runs cooperative timers in virtual time.
//
// Time only moves when Advance is called, so a Scheduler is driven by the
// owner's Tick. Keyed timers are unique per key: scheduling a key that is
// already pending replaces (restarts) it. Anonymous timers are fire-and-forget
// and may overlap freely.
//
// Callbacks run synchronously inside Advance and may schedule or cancel other
// timers. Not safe for concurrent use.
type Scheduler struct {
	now    time.Duration
	seq    uint64
	timers []*timer
}

type timer struct {
	key   string // "" for anonymous timers
	due   time.Duration
	every time.Duration // 0 for one-shot timers
	seq   uint64
	fn    func()
}

// NewScheduler creates an empty scheduler at virtual time zero.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Now returns the current virtual time.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// After runs fn once after d. Anonymous timers cannot be cancelled individually.
func (s *Scheduler) After(d time.Duration, fn func()) {
	s.add(&timer{due: s.now + max(d, 0), fn: fn})
}

// AfterKey runs fn once after d, replacing any pending timer with the same key.
func (s *Scheduler) AfterKey(key string, d time.Duration, fn func()) {
	s.Cancel(key)
	s.add(&timer{key: key, due: s.now + max(d, 0), fn: fn})
}

// Every runs fn first after `first`, then every interval until cancelled.
// A non-positive interval is ignored.
func (s *Scheduler) Every(key string, first, interval time.Duration, fn func()) {
	if interval <= 0 {
		return
	}
	s.Cancel(key)
	s.add(&timer{key: key, due: s.now + max(first, 0), every: interval, fn: fn})
}

// Cancel removes the pending timer with key. Returns false if none was pending.
func (s *Scheduler) Cancel(key string) bool {
	for i, t := range s.timers {
		if t.key == key {
			s.timers = append(s.timers[:i], s.timers[i+1:]...)
			return true
		}
	}
	return false
}

// Pending reports whether a timer with key is scheduled.
func (s *Scheduler) Pending(key string) bool {
	for _, t := range s.timers {
		if t.key == key {
			return true
		}
	}
	return false
}

// Remaining returns time left until the keyed timer fires.
func (s *Scheduler) Remaining(key string) (time.Duration, bool) {
	for _, t := range s.timers {
		if t.key == key {
			return t.due - s.now, true
		}
	}
	return 0, false
}

// Len returns the number of pending timers.
func (s *Scheduler) Len() int {
	return len(s.timers)
}

// Clear drops every pending timer except those whose key is listed in keep.
func (s *Scheduler) Clear(keep ...string) {
	kept := s.timers[:0]
	for _, t := range s.timers {
		for _, k := range keep {
			if t.key != "" && t.key == k {
				kept = append(kept, t)
				break
			}
		}
	}
	clear(s.timers[len(kept):])
	s.timers = kept
}

// Advance moves virtual time forward by dt and fires every timer that falls due,
// earliest first, ties in scheduling order. A repeating timer fires as many
// times as its interval fits into dt.
func (s *Scheduler) Advance(dt time.Duration) {
	if dt < 0 {
		return
	}
	target := s.now + dt

	for {
		idx := s.nextDue(target)
		if idx < 0 {
			break
		}
		t := s.timers[idx]
		s.now = t.due

		if t.every > 0 {
			t.due += t.every
			s.seq++
			t.seq = s.seq
		} else {
			s.timers = append(s.timers[:idx], s.timers[idx+1:]...)
		}
		t.fn()
	}

	s.now = target
}

func (s *Scheduler) nextDue(limit time.Duration) int {
	idx := -1
	for i, t := range s.timers {
		if t.due > limit {
			continue
		}
		if idx < 0 || t.due < s.timers[idx].due || (t.due == s.timers[idx].due && t.seq < s.timers[idx].seq) {
			idx = i
		}
	}
	return idx
}

func (s *Scheduler) add(t *timer) {
	s.seq++
	t.seq = s.seq
	s.timers = append(s.timers, t)
}
