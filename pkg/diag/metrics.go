package diag

import "github.com/prometheus/client_golang/prometheus"

// Metrics exposes the runtime's frame and workload gauges to a
// Prometheus registry. Unlike server-side code this is a library, so
// nothing is registered globally in init; each runtime owns its own
// registry via [NewMetrics].
type Metrics struct {
	registry *prometheus.Registry

	framesTotal  prometheus.Counter
	droppedTotal prometheus.Counter
	fps          prometheus.Gauge
	activeTweens prometheus.Gauge
	queueDepth   prometheus.Gauge
}

// NewMetrics creates and registers the runtime metrics on a fresh
// registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		framesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pulse_frames_total",
			Help: "Total number of frames observed by the animation runtime.",
		}),
		droppedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pulse_dropped_frames_total",
			Help: "Total number of frames exceeding the dropped-frame threshold.",
		}),
		fps: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pulse_fps",
			Help: "Most recent frames-per-second estimate.",
		}),
		activeTweens: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pulse_active_tweens",
			Help: "Number of tweens currently in flight.",
		}),
		queueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pulse_queue_depth",
			Help: "Number of animation tasks waiting in the queue.",
		}),
	}

	m.registry.MustRegister(
		m.framesTotal,
		m.droppedTotal,
		m.fps,
		m.activeTweens,
		m.queueDepth,
	)
	return m
}

// Observe records one frame sample.
func (m *Metrics) Observe(sample FrameSample, dropped bool) {
	m.framesTotal.Inc()
	if dropped {
		m.droppedTotal.Inc()
	}
	m.fps.Set(float64(sample.FPS))
	m.activeTweens.Set(float64(sample.ActiveTweens))
	m.queueDepth.Set(float64(sample.QueueDepth))
}

// Gatherer returns the registry backing the /metrics endpoint.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}
