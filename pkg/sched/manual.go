package sched

import (
	"sort"
	"sync"
	"time"
)

type manualTimer struct {
	due       time.Time
	fn        func()
	cancelled bool
	seq       int
}

// Manual is a Host that only advances when told to, for deterministic
// animation tests. [Step] moves the clock and delivers exactly one frame
// opportunity; callbacks scheduled during a step run on the next step,
// matching repaint-callback semantics.
type Manual struct {
	mu      sync.Mutex
	now     time.Time
	pending []*frameRequest
	timers  []*manualTimer
	seq     int
}

// NewManual returns a Manual host starting at a fixed epoch.
func NewManual() *Manual {
	return &Manual{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

// RequestFrame implements [Host].
func (m *Manual) RequestFrame(fn func(now time.Time)) (cancel func()) {
	if fn == nil {
		return func() {}
	}
	r := &frameRequest{fn: fn}
	m.mu.Lock()
	m.pending = append(m.pending, r)
	m.mu.Unlock()
	return func() {
		m.mu.Lock()
		r.cancelled = true
		m.mu.Unlock()
	}
}

// After implements [Host]. The callback fires during the first Step whose
// clock reaches the deadline.
func (m *Manual) After(d time.Duration, fn func()) (cancel func()) {
	if fn == nil {
		return func() {}
	}
	m.mu.Lock()
	t := &manualTimer{due: m.now.Add(d), fn: fn, seq: m.seq}
	m.seq++
	m.timers = append(m.timers, t)
	m.mu.Unlock()
	return func() {
		m.mu.Lock()
		t.cancelled = true
		m.mu.Unlock()
	}
}

// Now implements [Host].
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Step advances the clock by d, fires any timers that have come due in
// deadline order, then delivers one frame to the callbacks requested
// before this step.
func (m *Manual) Step(d time.Duration) {
	m.mu.Lock()
	m.now = m.now.Add(d)
	now := m.now

	var due []*manualTimer
	rest := m.timers[:0]
	for _, t := range m.timers {
		switch {
		case t.cancelled:
		case !t.due.After(now):
			due = append(due, t)
		default:
			rest = append(rest, t)
		}
	}
	m.timers = rest
	sort.Slice(due, func(i, j int) bool {
		if due[i].due.Equal(due[j].due) {
			return due[i].seq < due[j].seq
		}
		return due[i].due.Before(due[j].due)
	})

	batch := m.pending
	m.pending = nil
	fns := make([]func(time.Time), 0, len(batch))
	for _, r := range batch {
		if !r.cancelled {
			fns = append(fns, r.fn)
		}
	}
	m.mu.Unlock()

	for _, t := range due {
		t.fn()
	}
	for _, fn := range fns {
		fn(now)
	}
}

// StepN runs Step(d) n times.
func (m *Manual) StepN(n int, d time.Duration) {
	for i := 0; i < n; i++ {
		m.Step(d)
	}
}

// PendingFrames reports how many frame callbacks await the next step.
func (m *Manual) PendingFrames() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, r := range m.pending {
		if !r.cancelled {
			n++
		}
	}
	return n
}

// PendingTimers reports how many timers have not yet fired.
func (m *Manual) PendingTimers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.timers {
		if !t.cancelled {
			n++
		}
	}
	return n
}
