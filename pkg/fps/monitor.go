// Package fps measures actual frame throughput so callers can degrade
// gracefully, skipping non-essential animations when the host cannot
// keep up.
package fps

import (
	"math"
	"sync"
	"time"

	"github.com/Clemens865/devdigger-sub001/pkg/errors"
	"github.com/Clemens865/devdigger-sub001/pkg/sched"
)

const (
	// DefaultFPS is reported before the first sampling window completes.
	DefaultFPS = 60
	// DefaultWindow is the rolling window over which frames are counted.
	DefaultWindow = time.Second
)

// Monitor counts frame callbacks over rolling windows of roughly one
// second and reports the estimated frames per second.
//
// Start and Stop use boolean idempotence: the first Start begins
// sampling, further Starts are no-ops, and any single Stop halts it.
// There is no reference counting.
type Monitor struct {
	host   sched.Host
	window time.Duration

	mu          sync.Mutex
	running     bool
	fps         int
	frameCount  int
	windowStart time.Time
	cancelFrame func()
	subs        map[int]func(int)
	nextID      int
}

// NewMonitor creates a monitor sampling against host. A non-positive
// window selects [DefaultWindow].
func NewMonitor(host sched.Host, window time.Duration) *Monitor {
	if host == nil {
		host = sched.Headless{}
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &Monitor{
		host:   host,
		window: window,
		fps:    DefaultFPS,
		subs:   make(map[int]func(int)),
	}
}

// Start begins sampling. Starting a running monitor is a no-op.
func (m *Monitor) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return
	}
	m.running = true
	m.frameCount = 0
	m.windowStart = m.host.Now()
	m.cancelFrame = m.host.RequestFrame(m.frame)
}

// Stop halts sampling. The last computed FPS value is retained.
// Stopping a stopped monitor is a no-op.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	cancelFrame := m.cancelFrame
	m.cancelFrame = nil
	m.mu.Unlock()

	if cancelFrame != nil {
		cancelFrame()
	}
}

// IsRunning reports whether the monitor is sampling.
func (m *Monitor) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// FPS returns the most recently computed frames-per-second estimate, not
// a live count. Before the first window completes it returns
// [DefaultFPS].
func (m *Monitor) FPS() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fps
}

// OnChange subscribes to FPS updates, fired once per completed window.
// Returns an unsubscribe function. Subscriber panics are isolated.
func (m *Monitor) OnChange(fn func(fps int)) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.subs[id] = fn
	m.mu.Unlock()
	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

// frame counts one frame callback and closes the window once it spans at
// least the configured duration.
func (m *Monitor) frame(now time.Time) {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}

	m.frameCount++
	elapsed := now.Sub(m.windowStart)

	var notify []func(int)
	var fps int
	if elapsed >= m.window {
		elapsedMs := float64(elapsed) / float64(time.Millisecond)
		fps = int(math.Round(float64(m.frameCount) * 1000 / elapsedMs))
		m.fps = fps
		m.frameCount = 0
		m.windowStart = now
		notify = make([]func(int), 0, len(m.subs))
		for _, fn := range m.subs {
			notify = append(notify, fn)
		}
	}
	m.cancelFrame = m.host.RequestFrame(m.frame)
	m.mu.Unlock()

	for _, fn := range notify {
		fn := fn
		errors.Isolate("fps.OnChange", func() { fn(fps) })
	}
}
