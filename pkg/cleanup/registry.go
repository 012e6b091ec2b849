// Package cleanup tracks cancellation callbacks for running animation
// effects so they can be torn down in one sweep, e.g. when a window or
// tab goes away.
package cleanup

import (
	"sync"

	"github.com/Clemens865/devdigger-sub001/pkg/errors"
)

// Registry is a set of cancellation callbacks, one per still-running
// effect. Entries are keyed by identity, not by name: registering the
// same function twice yields two independent entries, each removed
// exactly once, by its unregister function or by [Registry.CancelAll].
type Registry struct {
	mu      sync.Mutex
	entries map[int]func()
	nextID  int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[int]func()),
	}
}

// Register adds a cancellation callback and returns its unregister
// function. Unregister removes the entry without invoking it and is safe
// to call more than once.
func (r *Registry) Register(cancel func()) (unregister func()) {
	if cancel == nil {
		return func() {}
	}
	r.mu.Lock()
	id := r.nextID
	r.nextID++
	r.entries[id] = cancel
	r.mu.Unlock()
	return func() {
		r.mu.Lock()
		delete(r.entries, id)
		r.mu.Unlock()
	}
}

// CancelAll invokes every registered callback and clears the set. Each
// callback is isolated so one panicking cancel cannot prevent the others
// from running. Callbacks registered while CancelAll runs are kept for a
// later sweep.
func (r *Registry) CancelAll() {
	r.mu.Lock()
	cancels := make([]func(), 0, len(r.entries))
	for _, cancel := range r.entries {
		cancels = append(cancels, cancel)
	}
	r.entries = make(map[int]func())
	r.mu.Unlock()

	for _, cancel := range cancels {
		errors.Isolate("cleanup.CancelAll", cancel)
	}
}

// Len reports the number of active entries.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
