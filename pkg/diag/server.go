package diag

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Clemens865/devdigger-sub001/pkg/tween"
)

// Sources supplies the live data the debug server reports. Any field may
// be nil; the corresponding endpoint then returns an empty value.
type Sources struct {
	// AppName labels the /health payload, typically the host
	// application's module name.
	AppName string
	// Trace backs the /frames timeline.
	Trace *TraceBuffer
	// Metrics backs the /metrics endpoint.
	Metrics *Metrics
	// FPS reports the current frames-per-second estimate.
	FPS func() int
	// Animations lists the tweens currently in flight.
	Animations func() []tween.Snapshot
	// QueueDepth reports pending animation tasks.
	QueueDepth func() int
}

// Server is a local HTTP server for inspecting the animation runtime
// from devtools. It binds loopback-style ephemeral ports and is meant
// for development only.
type Server struct {
	sources Sources
	log     *slog.Logger

	mu       sync.Mutex
	server   *http.Server
	listener net.Listener
}

// NewServer creates a debug server over the given sources. A nil logger
// selects slog.Default.
func NewServer(sources Sources, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{sources: sources, log: log}
}

// Start begins serving on the given port and returns the actual port,
// useful when port is 0 for ephemeral allocation. Starting a running
// server returns its current port.
func (s *Server) Start(port int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server != nil {
		if s.listener != nil {
			return s.listener.Addr().(*net.TCPAddr).Port, nil
		}
		return port, nil
	}

	// Bind the listener first to fail fast on port conflicts.
	listener, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		return 0, fmt.Errorf("diag server listen: %w", err)
	}
	actualPort := listener.Addr().(*net.TCPAddr).Port

	server := &http.Server{Handler: s.routes()}
	s.server = server
	s.listener = listener

	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.mu.Lock()
			s.server = nil
			s.listener = nil
			s.mu.Unlock()
			s.log.Error("diag server failed", "error", err)
		}
	}()

	s.log.Debug("diag server listening", "port", actualPort)
	return actualPort, nil
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	server := s.server
	s.server = nil
	s.listener = nil
	s.mu.Unlock()

	if server == nil {
		return nil
	}
	return server.Shutdown(ctx)
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet},
	}))

	r.Get("/health", s.handleHealth)
	r.Get("/frames", s.handleFrames)
	r.Get("/fps", s.handleFPS)
	r.Get("/animations", s.handleAnimations)
	if s.sources.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(
			s.sources.Metrics.Gatherer(),
			promhttp.HandlerOpts{},
		))
	}
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]string{
		"status": "ok",
		"app":    s.sources.AppName,
	})
}

func (s *Server) handleFrames(w http.ResponseWriter, _ *http.Request) {
	var timeline FrameTimeline
	if s.sources.Trace != nil {
		timeline = s.sources.Trace.Snapshot()
	}
	writeJSON(w, timeline)
}

func (s *Server) handleFPS(w http.ResponseWriter, _ *http.Request) {
	current := 0
	if s.sources.FPS != nil {
		current = s.sources.FPS()
	}
	writeJSON(w, map[string]int{"fps": current})
}

func (s *Server) handleAnimations(w http.ResponseWriter, _ *http.Request) {
	snapshots := []tween.Snapshot{}
	if s.sources.Animations != nil {
		snapshots = s.sources.Animations()
	}
	depth := 0
	if s.sources.QueueDepth != nil {
		depth = s.sources.QueueDepth()
	}
	writeJSON(w, map[string]any{
		"animations": snapshots,
		"queueDepth": depth,
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
