// Package queue bounds how many animation starts dispatch per frame.
//
// Many simultaneous animation starts (a staggered list reveal, a burst
// of counters) would otherwise land on the same frame and spike CPU/GPU
// load. The queue admits tasks in FIFO batches of at most MaxConcurrent,
// yielding one frame opportunity between batches.
package queue

import (
	"sync"
	"time"

	"github.com/Clemens865/devdigger-sub001/pkg/errors"
	"github.com/Clemens865/devdigger-sub001/pkg/sched"
)

// DefaultMaxConcurrent is the batch size used when none is configured.
const DefaultMaxConcurrent = 3

// Queue drains zero-argument tasks in frame-paced FIFO batches.
//
// The queue is Idle until the first Enqueue, Draining while batches are
// scheduled, and Idle again once the pending list empties. Tasks run
// synchronously inside a frame callback and are expected to hand control
// back quickly; a task that animates should start a tween and return,
// not block.
//
// A panicking task is recovered and reported; it never stops later
// batches from draining.
type Queue struct {
	host sched.Host

	mu            sync.Mutex
	pending       []func()
	maxConcurrent int
	draining      bool
}

// New creates a queue draining against host. A non-positive
// maxConcurrent selects [DefaultMaxConcurrent]; a nil host yields a
// queue that accepts tasks but never runs them, matching the headless
// no-op policy.
func New(host sched.Host, maxConcurrent int) *Queue {
	if host == nil {
		host = sched.Headless{}
	}
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrent
	}
	return &Queue{
		host:          host,
		maxConcurrent: maxConcurrent,
	}
}

// Enqueue appends a task and, if the queue is idle, schedules a drain at
// the next frame opportunity. nil tasks are ignored.
func (q *Queue) Enqueue(task func()) {
	if task == nil {
		return
	}
	q.mu.Lock()
	q.pending = append(q.pending, task)
	if !q.draining {
		q.draining = true
		q.host.RequestFrame(q.drain)
	}
	q.mu.Unlock()
}

// Stagger enqueues tasks in order, spreading their dispatch across
// frames under the concurrency bound. It is sugar for repeated Enqueue.
func (q *Queue) Stagger(tasks ...func()) {
	for _, task := range tasks {
		q.Enqueue(task)
	}
}

// SetMaxConcurrent bounds how many tasks dispatch per batch. Values
// below 1 are clamped to 1. The new bound applies from the next batch.
func (q *Queue) SetMaxConcurrent(n int) {
	if n < 1 {
		n = 1
	}
	q.mu.Lock()
	q.maxConcurrent = n
	q.mu.Unlock()
}

// Clear discards all pending tasks. A batch already dispatched is not
// interrupted.
func (q *Queue) Clear() {
	q.mu.Lock()
	q.pending = nil
	q.mu.Unlock()
}

// Len reports the number of tasks still waiting for dispatch.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// drain runs one batch, then either schedules the next batch or goes
// idle. Tasks enqueued by a running task join the pending list and drain
// on later frames.
func (q *Queue) drain(time.Time) {
	q.mu.Lock()
	n := min(q.maxConcurrent, len(q.pending))
	batch := make([]func(), n)
	copy(batch, q.pending[:n])
	q.pending = q.pending[n:]
	q.mu.Unlock()

	for _, task := range batch {
		errors.Isolate("queue.task", task)
	}

	q.mu.Lock()
	if len(q.pending) > 0 {
		q.host.RequestFrame(q.drain)
	} else {
		q.draining = false
	}
	q.mu.Unlock()
}
