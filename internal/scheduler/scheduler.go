// Package scheduler runs keyed, cancellable timer jobs for one session.
package scheduler

import (
	"sort"
	"sync"
	"time"
)

// Scheduler owns debounced and repeating jobs by key.
// Callbacks never overlap: they run one at a time, like a single event loop.
// After Dispose every pending job is stopped and new jobs are ignored.
type Scheduler struct {
	clock Clock

	mu       sync.Mutex
	jobs     map[string]*job
	nextGen  uint64
	disposed bool

	// serializes callbacks
	runMu sync.Mutex
}

type job struct {
	gen      uint64
	fn       func()
	interval time.Duration // zero for one-shot
	timer    Timer
}

// New creates a scheduler on clock. A nil clock means RealClock.
func New(clock Clock) *Scheduler {
	if clock == nil {
		clock = RealClock{}
	}
	return &Scheduler{
		clock: clock,
		jobs:  make(map[string]*job),
	}
}

// ScheduleDebounced runs fn once delay has passed without another call for the same key.
// Each call restarts the wait (trailing debounce) and replaces fn.
func (s *Scheduler) ScheduleDebounced(key string, fn func(), delay time.Duration) {
	s.schedule(key, fn, delay, 0)
}

// ScheduleRepeating runs fn every interval until the key is cancelled.
// Scheduling an existing key replaces it.
func (s *Scheduler) ScheduleRepeating(key string, fn func(), interval time.Duration) {
	if interval <= 0 {
		return
	}
	s.schedule(key, fn, interval, interval)
}

func (s *Scheduler) schedule(key string, fn func(), delay, interval time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed {
		return
	}
	if old, ok := s.jobs[key]; ok {
		old.timer.Stop()
	}

	s.nextGen++
	gen := s.nextGen
	j := &job{gen: gen, fn: fn, interval: interval}
	j.timer = s.clock.AfterFunc(delay, func() { s.fire(key, gen) })
	s.jobs[key] = j
}

// fire runs the job for key if gen is still current.
func (s *Scheduler) fire(key string, gen uint64) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	s.mu.Lock()
	j, ok := s.jobs[key]
	if !ok || j.gen != gen || s.disposed {
		s.mu.Unlock()
		return
	}
	if j.interval > 0 {
		j.timer = s.clock.AfterFunc(j.interval, func() { s.fire(key, gen) })
	} else {
		delete(s.jobs, key)
	}
	fn := j.fn
	s.mu.Unlock()

	fn()
}

// Cancel stops the job for key. It reports whether a job was pending.
func (s *Scheduler) Cancel(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[key]
	if !ok {
		return false
	}
	j.timer.Stop()
	delete(s.jobs, key)
	return true
}

// Pending reports whether a job is scheduled under key.
func (s *Scheduler) Pending(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.jobs[key]
	return ok
}

// Keys lists scheduled job keys in sorted order.
func (s *Scheduler) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]string, 0, len(s.jobs))
	for k := range s.jobs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Dispose stops every job. It is safe to call more than once.
func (s *Scheduler) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, j := range s.jobs {
		j.timer.Stop()
		delete(s.jobs, key)
	}
	s.disposed = true
}

// Disposed reports whether Dispose has been called.
func (s *Scheduler) Disposed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disposed
}
