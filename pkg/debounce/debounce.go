// Package debounce delays an action until a quiet period has elapsed since
// the last time it was scheduled, coalescing bursts into a single run.
package debounce

import (
	"sync"
	"time"
)

// DefaultDelay is the editor's quiet period before an auto-save.
const DefaultDelay = 1500 * time.Millisecond

// Debouncer runs at most one pending action per quiet period.
// Actions never overlap: a run waits for the previous one to return.
// An action must not call Flush or Stop on its own Debouncer.
type Debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	action  func()
	seq     uint64
	stopped bool

	run sync.Mutex
	wg  sync.WaitGroup
}

// New creates a Debouncer. A non-positive delay uses DefaultDelay.
func New(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Debouncer{delay: delay}
}

// Delay returns the quiet period.
func (d *Debouncer) Delay() time.Duration {
	return d.delay
}

// Schedule replaces the pending action and restarts the quiet period.
// It is a no-op after Stop.
func (d *Debouncer) Schedule(action func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped || action == nil {
		return
	}

	d.seq++
	seq := d.seq
	d.action = action
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() { d.fire(seq) })
}

// Cancel drops the pending action, if any.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
}

// Flush runs the pending action now and returns after it completes.
// With nothing pending it waits for a running action instead.
// It reports whether an action was run by this call.
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	action := d.take()
	d.mu.Unlock()

	if action == nil {
		d.run.Lock()
		d.run.Unlock()
		return false
	}
	defer d.wg.Done()
	d.exec(action)
	return true
}

// Pending reports whether an action is waiting for its quiet period.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.action != nil
}

// Stop cancels the pending action, rejects future ones and waits up to
// timeout for a running action to finish. It reports whether it finished.
func (d *Debouncer) Stop(timeout time.Duration) bool {
	d.mu.Lock()
	d.stopped = true
	d.cancelLocked()
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}

func (d *Debouncer) fire(seq uint64) {
	d.mu.Lock()
	if seq != d.seq {
		d.mu.Unlock()
		return
	}
	action := d.take()
	d.mu.Unlock()

	if action == nil {
		return
	}
	defer d.wg.Done()
	d.exec(action)
}

// take must be called with mu held. A non-nil result has been added to wg.
func (d *Debouncer) take() func() {
	if d.action == nil || d.stopped {
		return nil
	}
	action := d.action
	d.cancelLocked()
	d.wg.Add(1)
	return action
}

func (d *Debouncer) cancelLocked() {
	d.seq++
	d.action = nil
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

func (d *Debouncer) exec(action func()) {
	d.run.Lock()
	defer d.run.Unlock()
	action()
}
