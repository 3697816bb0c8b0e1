package debounce

import (
	"sync"
	"time"
)

// Value holds a live value and a settled copy that only catches up after the
// live value has been quiet for the delay. onSettle runs with each settled
// value that differs from the previous one.
type Value[T any] struct {
	mu       sync.Mutex
	live     T
	settled  T
	equal    func(a, b T) bool
	onSettle func(T)
	timer    *Timer
}

func NewValue[T any](initial T, delay time.Duration, equal func(a, b T) bool, onSettle func(T)) *Value[T] {
	v := &Value[T]{
		live:     initial,
		settled:  initial,
		equal:    equal,
		onSettle: onSettle,
	}
	v.timer = NewTimer(delay, v.settle)
	return v
}

// Set replaces the live value and restarts the settle window.
func (v *Value[T]) Set(x T) {
	v.mu.Lock()
	v.live = x
	v.mu.Unlock()
	v.timer.Reset()
}

func (v *Value[T]) settle() {
	v.mu.Lock()
	changed := !v.equal(v.settled, v.live)
	v.settled = v.live
	settled := v.settled
	v.mu.Unlock()
	if changed && v.onSettle != nil {
		v.onSettle(settled)
	}
}

func (v *Value[T]) Live() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.live
}

func (v *Value[T]) Settled() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.settled
}

// Stale reports whether the settled value lags the live one.
func (v *Value[T]) Stale() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return !v.equal(v.settled, v.live)
}

// Flush settles immediately if a window is open.
func (v *Value[T]) Flush() {
	v.timer.Flush()
}

// Close cancels the open window without settling.
func (v *Value[T]) Close() {
	v.timer.Close()
}
