// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package workspace

import (
	"sync"
	"time"
)

// A Debouncer delays a function call until a period of inactivity has
// elapsed. Each call to Trigger restarts the delay and replaces the pending
// function. A zero Debouncer is not ready for use; call NewDebouncer.
type Debouncer struct {
	delay time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

// NewDebouncer returns a Debouncer with the given delay. If delay <= 0,
// DefaultDebounce is used.
func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Debouncer{delay: delay}
}

// Trigger schedules f to run after the delay, cancelling any call that is
// pending from a previous Trigger.
func (d *Debouncer) Trigger(f func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, f)
}

// Stop cancels a pending call, if any. It reports whether a call was
// cancelled before it ran.
func (d *Debouncer) Stop() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer == nil {
		return false
	}
	ok := d.timer.Stop()
	d.timer = nil
	return ok
}
