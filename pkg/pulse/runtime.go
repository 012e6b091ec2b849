// Package pulse assembles the animation runtime: one Runtime owns the
// frame host, motion gate, cleanup registry, animation queue, frame-rate
// monitor, and optional diagnostics. Applications create a Runtime
// explicitly and pass it where animation is needed; there is no package
// level singleton.
package pulse

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Clemens865/devdigger-sub001/pkg/accessibility"
	"github.com/Clemens865/devdigger-sub001/pkg/cleanup"
	"github.com/Clemens865/devdigger-sub001/pkg/config"
	"github.com/Clemens865/devdigger-sub001/pkg/diag"
	"github.com/Clemens865/devdigger-sub001/pkg/fps"
	"github.com/Clemens865/devdigger-sub001/pkg/queue"
	"github.com/Clemens865/devdigger-sub001/pkg/sched"
	"github.com/Clemens865/devdigger-sub001/pkg/tween"
)

// Options configures a Runtime. The zero value is usable: a headless
// host, no motion preference signal, and default configuration.
type Options struct {
	// Host drives frames and timers. nil selects [sched.Headless].
	Host sched.Host
	// Preference is the platform reduced-motion signal. nil means full
	// motion unless the config forces reduction.
	Preference accessibility.Preference
	// Config carries resolved pulse.yaml values. nil selects defaults.
	Config *config.Resolved
	// Logger receives diagnostics server logs. nil selects slog.Default.
	Logger *slog.Logger
}

// Runtime is the assembled animation engine.
type Runtime struct {
	host     sched.Host
	gate     *accessibility.Gate
	registry *cleanup.Registry
	queue    *queue.Queue
	monitor  *fps.Monitor
	cfg      *config.Resolved
	log      *slog.Logger

	trace   *diag.TraceBuffer
	metrics *diag.Metrics
	server  *diag.Server

	mu          sync.Mutex
	active      map[string]*tween.Runner
	cancelTrace func()
	lastFrame   time.Time
	started     bool
	closed      bool
}

// New assembles a runtime from options. Nothing is scheduled until
// Start.
func New(opts Options) *Runtime {
	host := opts.Host
	if host == nil {
		host = sched.Headless{}
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	r := &Runtime{
		host:     host,
		gate:     buildGate(cfg, opts.Preference),
		registry: cleanup.NewRegistry(),
		queue:    queue.New(host, cfg.QueueMaxConcurrent),
		monitor:  fps.NewMonitor(host, cfg.MonitorWindow),
		cfg:      cfg,
		log:      log,
		active:   make(map[string]*tween.Runner),
	}

	if cfg.DiagnosticsEnabled {
		r.trace = diag.NewTraceBuffer(cfg.TraceSamples, cfg.TraceThreshold)
		r.metrics = diag.NewMetrics()
		r.server = diag.NewServer(diag.Sources{
			AppName:    cfg.AppName,
			Trace:      r.trace,
			Metrics:    r.metrics,
			FPS:        r.FPS,
			Animations: r.ActiveAnimations,
			QueueDepth: r.queue.Len,
		}, log)
	}
	return r
}

// buildGate maps the configured reduced-motion mode onto a gate. The
// "never" mode drops the preference signal entirely, "always" pins it
// on, and "system" passes the platform signal through.
func buildGate(cfg *config.Resolved, pref accessibility.Preference) *accessibility.Gate {
	switch cfg.ReducedMotion {
	case config.ReducedMotionAlways:
		pref = accessibility.Static(true)
	case config.ReducedMotionNever:
		pref = nil
	}
	g := accessibility.NewGate(pref)
	g.FallbackDuration = cfg.ReducedDuration
	return g
}

// Start begins the frame-rate monitor and, when diagnostics are enabled,
// the frame trace loop and debug server. It returns the debug server
// port, or 0 when diagnostics are off. Starting twice is a no-op.
func (r *Runtime) Start() (int, error) {
	r.mu.Lock()
	if r.started || r.closed {
		r.mu.Unlock()
		return 0, nil
	}
	r.started = true
	r.mu.Unlock()

	r.monitor.Start()

	if r.server == nil {
		return 0, nil
	}

	port, err := r.server.Start(r.cfg.DiagnosticsPort)
	if err != nil {
		return 0, err
	}

	r.mu.Lock()
	r.lastFrame = time.Time{}
	r.cancelTrace = r.host.RequestFrame(r.traceFrame)
	r.mu.Unlock()

	r.log.Info("animation diagnostics enabled", "port", port)
	return port, nil
}

// Animate starts a tween with the runtime's gate and registry. A zero
// Duration picks up the configured default; explicit durations, easing,
// and callbacks pass through to the tween. The runner is tracked for the
// diagnostics /animations listing until it finishes.
func (r *Runtime) Animate(cfg tween.Config) *tween.Runner {
	if cfg.Duration == 0 {
		cfg.Duration = r.cfg.DefaultDuration
	}

	r.mu.Lock()
	host := r.host
	if r.closed {
		host = sched.Headless{}
	}
	r.mu.Unlock()

	runner := tween.Start(host, r.gate, r.registry, cfg)

	r.mu.Lock()
	r.pruneLocked()
	if !runner.Done() {
		r.active[runner.ID()] = runner
	}
	r.mu.Unlock()
	return runner
}

// Enqueue adds a task to the animation queue.
func (r *Runtime) Enqueue(task func()) { r.queue.Enqueue(task) }

// Stagger enqueues tasks in order so they drain over successive frames.
func (r *Runtime) Stagger(tasks ...func()) { r.queue.Stagger(tasks...) }

// FPS reports the monitor's current frames-per-second estimate.
func (r *Runtime) FPS() int { return r.monitor.FPS() }

// ActiveAnimations returns snapshots of the tweens still in flight.
func (r *Runtime) ActiveAnimations() []tween.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pruneLocked()
	snapshots := make([]tween.Snapshot, 0, len(r.active))
	for _, runner := range r.active {
		snapshots = append(snapshots, runner.Snapshot())
	}
	return snapshots
}

// CancelAll cancels every registered animation. The queue keeps its
// pending tasks; use Shutdown for a full teardown.
func (r *Runtime) CancelAll() {
	r.registry.CancelAll()
	r.mu.Lock()
	r.pruneLocked()
	r.mu.Unlock()
}

// Shutdown stops the monitor, discards queued tasks, cancels all
// animations, and shuts down the debug server. The runtime cannot be
// restarted; subsequent Animate calls return inert runners.
func (r *Runtime) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	cancelTrace := r.cancelTrace
	r.cancelTrace = nil
	r.mu.Unlock()

	if cancelTrace != nil {
		cancelTrace()
	}
	r.monitor.Stop()
	r.queue.Clear()
	r.registry.CancelAll()

	r.mu.Lock()
	r.active = make(map[string]*tween.Runner)
	server := r.server
	r.mu.Unlock()

	if server != nil {
		return server.Stop(ctx)
	}
	return nil
}

// Gate exposes the motion gate, e.g. for callers that branch on
// ReduceMotion before composing an animation.
func (r *Runtime) Gate() *accessibility.Gate { return r.gate }

// Registry exposes the cleanup registry for auxiliary cancel funcs.
func (r *Runtime) Registry() *cleanup.Registry { return r.registry }

// Queue exposes the animation queue.
func (r *Runtime) Queue() *queue.Queue { return r.queue }

// Monitor exposes the frame-rate monitor.
func (r *Runtime) Monitor() *fps.Monitor { return r.monitor }

// Config returns the resolved configuration the runtime was built with.
func (r *Runtime) Config() *config.Resolved { return r.cfg }

// Trace returns the frame trace buffer, or nil when diagnostics are off.
func (r *Runtime) Trace() *diag.TraceBuffer { return r.trace }

// pruneLocked drops finished runners from the active set.
func (r *Runtime) pruneLocked() {
	for id, runner := range r.active {
		if runner.Done() {
			delete(r.active, id)
		}
	}
}

// traceFrame samples one frame into the trace buffer and metrics, then
// reschedules itself.
func (r *Runtime) traceFrame(now time.Time) {
	r.mu.Lock()
	if r.closed || r.cancelTrace == nil {
		r.mu.Unlock()
		return
	}
	last := r.lastFrame
	r.lastFrame = now
	r.pruneLocked()
	activeTweens := len(r.active)
	r.mu.Unlock()

	if !last.IsZero() {
		frameDuration := now.Sub(last)
		sample := diag.FrameSample{
			Timestamp:    now.UnixMilli(),
			FrameMs:      float64(frameDuration) / float64(time.Millisecond),
			FPS:          r.monitor.FPS(),
			ActiveTweens: activeTweens,
			QueueDepth:   r.queue.Len(),
		}
		r.trace.Add(sample, frameDuration)
		r.metrics.Observe(sample, frameDuration > r.trace.Threshold())
	}

	r.mu.Lock()
	if !r.closed && r.cancelTrace != nil {
		r.cancelTrace = r.host.RequestFrame(r.traceFrame)
	}
	r.mu.Unlock()
}
