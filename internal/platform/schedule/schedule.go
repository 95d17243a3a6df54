// Package schedule provides keyed one-shot timers. Scheduling a key that
// already has a pending timer supersedes the previous one, so at most one
// callback is outstanding per key.
package schedule

import (
	"sync"
	"time"
)

// Runner owns a set of keyed one-shot timers.
type Runner struct {
	mu      sync.Mutex
	timers  map[string]*time.Timer
	stopped bool
}

// NewRunner constructs an empty Runner.
func NewRunner() *Runner {
	return &Runner{timers: make(map[string]*time.Timer)}
}

// Schedule arms fn to run once after delay. Any pending timer for the same
// key is cancelled first. After Stop, Schedule is a no-op.
func (r *Runner) Schedule(key string, delay time.Duration, fn func()) {
	if r == nil || key == "" || fn == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return
	}
	if existing, ok := r.timers[key]; ok {
		existing.Stop()
	}
	r.timers[key] = time.AfterFunc(delay, func() {
		r.mu.Lock()
		delete(r.timers, key)
		stopped := r.stopped
		r.mu.Unlock()
		if stopped {
			return
		}
		fn()
	})
}

// Cancel stops the pending timer for key, if any. It reports whether a timer
// was cancelled before firing.
func (r *Runner) Cancel(key string) bool {
	if r == nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	timer, ok := r.timers[key]
	if !ok {
		return false
	}
	delete(r.timers, key)
	return timer.Stop()
}

// Pending reports whether a timer is armed for key.
func (r *Runner) Pending(key string) bool {
	if r == nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.timers[key]
	return ok
}

// Stop cancels all pending timers and rejects further scheduling. Used at
// shutdown.
func (r *Runner) Stop() {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopped = true
	for key, timer := range r.timers {
		timer.Stop()
		delete(r.timers, key)
	}
}
