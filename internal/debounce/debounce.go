// Package debounce collapses bursts of triggers into one delayed call.
package debounce

import (
	"sync"
	"time"

	"capture-gpt/backend/internal/clock"
)

// Debouncer runs fn once the trigger stream has been quiet for delay.
// At most one call is scheduled at any time.
type Debouncer struct {
	clock clock.Clock
	delay time.Duration
	fn    func()

	mu    sync.Mutex
	timer clock.Timer
	gen   uint64
}

// New returns a Debouncer. fn is called without any Debouncer lock held.
func New(c clock.Clock, delay time.Duration, fn func()) *Debouncer {
	return &Debouncer{clock: c, delay: delay, fn: fn}
}

// Trigger schedules fn after the quiet period, replacing any scheduled call.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = d.clock.AfterFunc(d.delay, func() { d.fire(gen) })
}

// Cancel drops the scheduled call, reporting whether one was pending.
func (d *Debouncer) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer == nil {
		return false
	}
	d.timer.Stop()
	d.timer = nil
	d.gen++
	return true
}

// Flush runs the scheduled call immediately, if there is one.
func (d *Debouncer) Flush() {
	if d.Cancel() {
		d.fn()
	}
}

// Pending reports whether a call is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	// A real timer may fire after being replaced; the generation guards it.
	if gen != d.gen || d.timer == nil {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.mu.Unlock()
	d.fn()
}
