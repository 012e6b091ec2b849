// Package sched defines the frame-scheduling capability the animation
// runtime requires from its host, plus the stock implementations.
//
// The runtime needs exactly three things from its environment: "run this
// callback before the next repaint", "run this callback after a delay",
// and a monotonic notion of now. Any host that supplies them satisfies
// the [Host] contract: the built-in [Loop] for standalone use, an
// embedder's own frame pump, or [Manual] for deterministic tests.
//
// Frame and timer callbacks are delivered on a single goroutine. There is
// no parallelism between animations; "concurrent" tweens are interleaved
// callbacks on that one scheduling goroutine.
package sched

import "time"

// Host schedules work against the environment's frame clock.
type Host interface {
	// RequestFrame schedules fn to run once at the next frame
	// opportunity, passing the frame timestamp. The returned cancel
	// function prevents a not-yet-fired callback from running and is
	// safe to call more than once.
	RequestFrame(fn func(now time.Time)) (cancel func())

	// After schedules fn to run once after d has elapsed. The returned
	// cancel function prevents a not-yet-fired callback from running.
	After(d time.Duration, fn func()) (cancel func())

	// Now reports the host's current time.
	Now() time.Time
}

// Headless is a Host for environments with no frame source, such as
// non-interactive test processes. Frame and timer requests are accepted
// and silently dropped; every entry point stays callable and returns a
// working no-op cancel, so code paths that animate remain usable where
// nothing can be drawn.
type Headless struct{}

// RequestFrame drops fn and returns a no-op cancel.
func (Headless) RequestFrame(fn func(now time.Time)) (cancel func()) {
	return func() {}
}

// After drops fn and returns a no-op cancel.
func (Headless) After(d time.Duration, fn func()) (cancel func()) {
	return func() {}
}

// Now reports the system time.
func (Headless) Now() time.Time {
	return time.Now()
}
