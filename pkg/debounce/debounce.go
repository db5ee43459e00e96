// Package debounce coalesces bursts of calls into one trailing call
// after a quiet period. Used at the boundary in front of rapid-fire
// mutation requests, such as per-keystroke title edits.
package debounce

import (
	"sync"
	"time"
)

// Debouncer runs the most recent function passed to Call once no new
// call has arrived for the configured delay. Earlier pending calls are
// replaced, not queued.
type Debouncer struct {
	delay time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

func New(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Call schedules fn after the quiet period, cancelling any previously
// scheduled call. fn runs on the timer goroutine.
func (d *Debouncer) Call(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}

	d.timer = time.AfterFunc(d.delay, fn)
}

// Stop cancels a pending call, if any.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
