package tween

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/Clemens865/devdigger-sub001/pkg/accessibility"
	"github.com/Clemens865/devdigger-sub001/pkg/cleanup"
	"github.com/Clemens865/devdigger-sub001/pkg/easing"
	"github.com/Clemens865/devdigger-sub001/pkg/errors"
	"github.com/Clemens865/devdigger-sub001/pkg/sched"
)

// State represents the lifecycle of a running tween.
//
// The state machine is:
//
//	Pending ──first frame──► Running ──progress ≥ 1──► Completed
//	   │                        │
//	   └────────Cancel──────────┴──────────► Cancelled
//
// Completed and Cancelled are terminal; a runner never leaves them.
type State int

const (
	// StatePending means the tween is created but no frame has fired yet.
	StatePending State = iota
	// StateRunning means the start timestamp is recorded and frames are
	// being scheduled.
	StateRunning
	// StateCompleted means the tween reached its end value.
	StateCompleted
	// StateCancelled means the tween was cancelled before completing.
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Config describes a tween request. All fields have usable zero values:
// a zero Duration completes immediately, a zero Easing is linear, and nil
// callbacks are skipped.
type Config struct {
	// From is the starting value. Non-finite values are normalized to 0.
	From float64
	// To is the ending value. Non-finite values are normalized to From.
	To float64
	// Duration is the requested length of the animation. The motion
	// gate may substitute its reduced-motion fallback; the request is
	// not a guarantee. Non-positive durations complete immediately.
	Duration time.Duration
	// Easing selects the easing kind. Unknown kinds resolve to ease-out.
	Easing easing.Kind
	// OnUpdate receives the interpolated value once per frame,
	// synchronously from the frame callback.
	OnUpdate func(value float64)
	// OnComplete fires once, after the final OnUpdate. Never fires on
	// cancellation.
	OnComplete func()
}

// Snapshot is a point-in-time view of a runner, serialized by the
// diagnostics server.
type Snapshot struct {
	ID         string  `json:"id"`
	From       float64 `json:"from"`
	To         float64 `json:"to"`
	DurationMs float64 `json:"durationMs"`
	Easing     string  `json:"easing"`
	State      string  `json:"state"`
	Progress   float64 `json:"progress"`
}

// Runner is a single in-flight tween. Callers hold it only to cancel or
// inspect; all mutation happens in the runner's own frame step.
type Runner struct {
	id       ulid.ULID
	host     sched.Host
	fn       easing.Func
	kind     easing.Kind
	from, to float64
	duration time.Duration

	mu          sync.Mutex
	state       State
	start       time.Time
	progress    float64
	cancelFrame func()
	unregister  func()
	onUpdate    func(float64)
	onComplete  func()
}

// Start begins a tween against host. The gate is consulted before any
// scheduling: under reduced motion the fallback duration and easing
// replace the request. The runner registers its cancellation in registry
// (when non-nil) and deregisters on completion or cancellation.
//
// gate, registry, and both callbacks may be nil. A nil host degrades to
// [sched.Headless]: the returned runner is valid and cancellable but
// never progresses, except that a non-positive resolved duration still
// completes immediately: one synchronous update to To, then completion.
func Start(host sched.Host, gate *accessibility.Gate, registry *cleanup.Registry, cfg Config) *Runner {
	if host == nil {
		host = sched.Headless{}
	}

	kind := gate.ResolveEasing(cfg.Easing)
	duration := gate.ResolveDuration(cfg.Duration)
	if duration < 0 {
		duration = 0
	}

	from := finiteOr(cfg.From, 0)
	r := &Runner{
		id:         ulid.Make(),
		host:       host,
		fn:         easing.For(kind),
		kind:       kind,
		from:       from,
		to:         finiteOr(cfg.To, from),
		duration:   duration,
		onUpdate:   cfg.OnUpdate,
		onComplete: cfg.OnComplete,
	}

	if r.duration == 0 {
		r.state = StateCompleted
		r.progress = 1
		onUpdate := r.onUpdate
		onComplete := r.onComplete
		if onUpdate != nil {
			to := r.to
			errors.Isolate("tween.OnUpdate", func() { onUpdate(to) })
		}
		if onComplete != nil {
			errors.Isolate("tween.OnComplete", onComplete)
		}
		return r
	}

	if registry != nil {
		r.unregister = registry.Register(r.Cancel)
	}
	r.cancelFrame = host.RequestFrame(r.frame)
	return r
}

// frame is the per-frame step. A cancelled runner's already-scheduled
// frame lands here and exits without invoking callbacks.
func (r *Runner) frame(now time.Time) {
	r.mu.Lock()
	if r.state == StateCompleted || r.state == StateCancelled {
		r.mu.Unlock()
		return
	}

	value, done := r.advanceLocked(now)

	var unregister func()
	if done {
		r.state = StateCompleted
		r.cancelFrame = nil
		unregister = r.unregister
		r.unregister = nil
	} else {
		r.cancelFrame = r.host.RequestFrame(r.frame)
	}
	onUpdate := r.onUpdate
	onComplete := r.onComplete
	r.mu.Unlock()

	if unregister != nil {
		unregister()
	}
	if onUpdate != nil {
		errors.Isolate("tween.OnUpdate", func() { onUpdate(value) })
	}
	if done && onComplete != nil {
		errors.Isolate("tween.OnComplete", onComplete)
	}
}

// advanceLocked computes one step: the first call records the start
// timestamp, later calls derive clamped progress from elapsed time. The
// outcome value makes the step testable without a scheduler. At full
// progress the value is To exactly, with no floating-point drift.
func (r *Runner) advanceLocked(now time.Time) (value float64, done bool) {
	if r.state == StatePending {
		r.state = StateRunning
		r.start = now
	}

	elapsed := now.Sub(r.start)
	progress := easing.Clamp01(float64(elapsed) / float64(r.duration))
	r.progress = progress

	if progress >= 1 {
		return r.to, true
	}
	return r.from + (r.to-r.from)*r.fn(progress), false
}

// Cancel stops the tween: any scheduled frame is cancelled, no further
// OnUpdate or OnComplete calls happen, and the registry entry is removed.
// Cancelling a completed or already-cancelled runner is a no-op, so
// either side of the handle may call it any number of times.
func (r *Runner) Cancel() {
	r.mu.Lock()
	if r.state == StateCompleted || r.state == StateCancelled {
		r.mu.Unlock()
		return
	}
	r.state = StateCancelled
	cancelFrame := r.cancelFrame
	r.cancelFrame = nil
	unregister := r.unregister
	r.unregister = nil
	r.onUpdate = nil
	r.onComplete = nil
	r.mu.Unlock()

	if cancelFrame != nil {
		cancelFrame()
	}
	if unregister != nil {
		unregister()
	}
}

// ID returns the runner's unique identifier.
func (r *Runner) ID() string {
	return r.id.String()
}

// State returns the current lifecycle state.
func (r *Runner) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Done reports whether the runner is in a terminal state.
func (r *Runner) Done() bool {
	s := r.State()
	return s == StateCompleted || s == StateCancelled
}

// Progress returns the clamped linear progress of the last frame step.
func (r *Runner) Progress() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.progress
}

// Snapshot returns a point-in-time view for diagnostics.
func (r *Runner) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Snapshot{
		ID:         r.id.String(),
		From:       r.from,
		To:         r.to,
		DurationMs: float64(r.duration) / float64(time.Millisecond),
		Easing:     r.kind.String(),
		State:      r.state.String(),
		Progress:   r.progress,
	}
}

func finiteOr(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}
