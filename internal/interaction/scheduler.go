package interaction

import (
	"sort"
	"sync"
	"time"
)

// Scheduler abstracts the host timer facility so debounce/decay logic can run
// against a deterministic fake in tests. The returned cancel func stops the
// pending callback; calling it after the callback fired is a no-op.
type Scheduler interface {
	Schedule(d time.Duration, fn func()) (cancel func())
}

// TimerScheduler schedules against the real clock.
type TimerScheduler struct{}

func (TimerScheduler) Schedule(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}

// ManualScheduler is a deterministic scheduler for tests and headless runs.
// Time only moves when Advance is called; due callbacks fire in order.
type ManualScheduler struct {
	mu     sync.Mutex
	now    time.Duration
	seq    int
	timers map[int]manualTimer
}

type manualTimer struct {
	due time.Duration
	seq int
	fn  func()
}

func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{timers: map[int]manualTimer{}}
}

func (s *ManualScheduler) Schedule(d time.Duration, fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d < 0 {
		d = 0
	}
	s.seq++
	id := s.seq
	s.timers[id] = manualTimer{due: s.now + d, seq: id, fn: fn}
	return func() {
		s.mu.Lock()
		delete(s.timers, id)
		s.mu.Unlock()
	}
}

// Advance moves the fake clock forward and fires every timer that comes due,
// in due-time order.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	s.now += d
	var due []manualTimer
	for id, t := range s.timers {
		if t.due <= s.now {
			due = append(due, t)
			delete(s.timers, id)
		}
	}
	s.mu.Unlock()

	sort.Slice(due, func(i, j int) bool {
		if due[i].due != due[j].due {
			return due[i].due < due[j].due
		}
		return due[i].seq < due[j].seq
	})
	for _, t := range due {
		t.fn()
	}
}

// Pending reports how many timers are armed.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}
