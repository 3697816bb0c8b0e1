// Package debounce provides trailing-edge debouncing primitives: a cancelable
// fire-once timer and a value whose settled copy lags the live one.
package debounce

import (
	"sync"
	"time"
)

// Timer calls fn once after delay has passed without a Reset. Every Reset
// restarts the window; only the last one in a burst fires.
type Timer struct {
	mu      sync.Mutex
	delay   time.Duration
	fn      func()
	timer   *time.Timer
	gen     uint64
	pending bool
	closed  bool
}

func NewTimer(delay time.Duration, fn func()) *Timer {
	return &Timer{delay: delay, fn: fn}
}

// Reset starts the window, or restarts it if one is already running.
// It is a no-op after Close.
func (t *Timer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	if t.timer != nil {
		t.timer.Stop()
	}
	t.gen++
	gen := t.gen
	t.pending = true
	t.timer = time.AfterFunc(t.delay, func() { t.fire(gen) })
}

func (t *Timer) fire(gen uint64) {
	t.mu.Lock()
	// A Reset or Stop that raced with this callback bumps gen.
	if gen != t.gen || !t.pending {
		t.mu.Unlock()
		return
	}
	t.pending = false
	t.mu.Unlock()
	t.fn()
}

// Stop cancels the pending call, if any, and reports whether one was pending.
func (t *Timer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopLocked()
}

func (t *Timer) stopLocked() bool {
	was := t.pending
	if t.timer != nil {
		t.timer.Stop()
	}
	t.gen++
	t.pending = false
	return was
}

// Flush runs the pending call immediately on the calling goroutine. It
// reports whether a call was pending.
func (t *Timer) Flush() bool {
	t.mu.Lock()
	was := t.stopLocked()
	t.mu.Unlock()
	if was {
		t.fn()
	}
	return was
}

func (t *Timer) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending
}

// Close cancels any pending call and makes further Resets no-ops.
func (t *Timer) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
	t.closed = true
}
