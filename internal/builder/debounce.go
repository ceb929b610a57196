package builder

import (
	"sync"
	"time"
)

// Debouncer coalesces bursts of calls into a single trailing-edge fire.
// Each Trigger cancels the pending timer and schedules a fresh one, so the
// callback runs once per quiet period, never concurrently with itself from
// the same Debouncer.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
	fn    func()
}

func NewDebouncer(delay time.Duration, fn func()) *Debouncer {
	return &Debouncer{delay: delay, fn: fn}
}

// Trigger (re)starts the countdown. The callback fires on a timer goroutine
// once no Trigger has arrived for the full delay.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.fn)
}

// Stop cancels any pending fire.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
