package sched

import (
	"sync"
	"time"
)

// DefaultInterval is the frame interval targeted by [Loop], nominally
// 60 Hz.
const DefaultInterval = time.Second / 60

type frameRequest struct {
	fn        func(now time.Time)
	cancelled bool
}

// Loop is a self-driving Host for standalone use, pacing frames with a
// ticker at a fixed interval. Embedders that already own a frame pump
// should implement [Host] against it instead of running a second loop.
//
// All frame and timer callbacks run on the loop's single goroutine.
// A Loop is single-use: once stopped it cannot be restarted.
type Loop struct {
	interval time.Duration
	clock    Clock

	mu      sync.Mutex
	pending []*frameRequest
	started bool
	stopped bool

	work chan func()
	quit chan struct{}
}

// NewLoop creates a loop pacing frames every interval. A non-positive
// interval selects [DefaultInterval].
func NewLoop(interval time.Duration) *Loop {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Loop{
		interval: interval,
		clock:    realClock{},
		work:     make(chan func()),
		quit:     make(chan struct{}),
	}
}

// SetClock replaces the loop's time source. Must be called before Start.
func (l *Loop) SetClock(c Clock) {
	if c != nil {
		l.clock = c
	}
}

// Start begins delivering frames. Calling Start on a running loop is a
// no-op.
func (l *Loop) Start() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.started || l.stopped {
		return
	}
	l.started = true
	go l.run()
}

// Stop halts frame delivery and releases the loop goroutine. Pending
// frame requests are dropped. Calling Stop more than once is a no-op.
func (l *Loop) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stopped {
		return
	}
	l.stopped = true
	l.pending = nil
	close(l.quit)
}

// IsRunning reports whether the loop is delivering frames.
func (l *Loop) IsRunning() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.started && !l.stopped
}

// RequestFrame implements [Host].
func (l *Loop) RequestFrame(fn func(now time.Time)) (cancel func()) {
	if fn == nil {
		return func() {}
	}
	r := &frameRequest{fn: fn}
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return func() {}
	}
	l.pending = append(l.pending, r)
	l.mu.Unlock()
	return func() {
		l.mu.Lock()
		r.cancelled = true
		l.mu.Unlock()
	}
}

// After implements [Host]. The callback is delivered on the loop
// goroutine, so it observes the same single-threaded model as frames.
func (l *Loop) After(d time.Duration, fn func()) (cancel func()) {
	if fn == nil {
		return func() {}
	}
	timer := time.AfterFunc(d, func() {
		select {
		case l.work <- fn:
		case <-l.quit:
		}
	})
	return func() { timer.Stop() }
}

// Now implements [Host].
func (l *Loop) Now() time.Time {
	return l.clock.Now()
}

func (l *Loop) run() {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()
	for {
		select {
		case <-l.quit:
			return
		case fn := <-l.work:
			fn()
		case <-ticker.C:
			l.tick()
		}
	}
}

// tick drains the requests queued before this frame. Callbacks requested
// while the batch runs land in the next frame, matching repaint-callback
// semantics.
func (l *Loop) tick() {
	l.mu.Lock()
	batch := l.pending
	l.pending = nil
	fns := make([]func(time.Time), 0, len(batch))
	for _, r := range batch {
		if !r.cancelled {
			fns = append(fns, r.fn)
		}
	}
	l.mu.Unlock()

	now := l.clock.Now()
	for _, fn := range fns {
		fn(now)
	}
}
