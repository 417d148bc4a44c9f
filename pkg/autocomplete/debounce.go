package autocomplete

import (
	"sync"
	"time"
)

// Debouncer holds at most one pending dispatch.
// Every Schedule supersedes the previous one, so a burst of input produces a
// single dispatch carrying the last query once the input has been quiet for
// the configured interval.
type Debouncer struct {
	clock Clock
	wait  time.Duration

	mu      sync.Mutex
	timer   Timer
	gen     uint64
	stopped bool
}

// NewDebouncer creates a debouncer. A nil clock uses the wall clock.
func NewDebouncer(wait time.Duration, clock Clock) *Debouncer {
	if clock == nil {
		clock = realClock{}
	}
	return &Debouncer{clock: clock, wait: wait}
}

// Schedule cancels any pending dispatch and arms a new one for query.
// An empty query only cancels. Returns false when nothing was armed.
func (d *Debouncer) Schedule(query string, dispatch func(string)) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.cancelLocked()
	if d.stopped || query == "" || dispatch == nil {
		return false
	}

	gen := d.gen
	d.timer = d.clock.AfterFunc(d.wait, func() {
		d.mu.Lock()
		// A timer that fired while being replaced must stay silent.
		if d.stopped || d.gen != gen {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.gen++
		d.mu.Unlock()

		dispatch(query)
	})
	return true
}

// Cancel drops the pending dispatch, if any. Safe to call repeatedly.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	d.cancelLocked()
	d.mu.Unlock()
}

// Stop cancels and refuses any later Schedule.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	d.cancelLocked()
	d.stopped = true
	d.mu.Unlock()
}

// Pending reports whether a dispatch is armed.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

func (d *Debouncer) cancelLocked() {
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
