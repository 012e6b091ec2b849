package diag

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/Clemens865/devdigger-sub001/pkg/tween"
)

// waitForServer polls the health endpoint until ready or timeout.
func waitForServer(port int, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	url := fmt.Sprintf("http://127.0.0.1:%d/health", port)
	for time.Now().Before(deadline) {
		resp, err := http.Get(url)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(5 * time.Millisecond)
	}
	return fmt.Errorf("server not ready after %v", timeout)
}

// waitForServerDown polls until the server stops responding or timeout.
func waitForServerDown(port int, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	url := fmt.Sprintf("http://127.0.0.1:%d/health", port)
	for time.Now().Before(deadline) {
		resp, err := http.Get(url)
		if err != nil {
			return nil // Connection refused = server is down
		}
		resp.Body.Close()
		time.Sleep(5 * time.Millisecond)
	}
	return fmt.Errorf("server still running after %v", timeout)
}

func getJSON(t *testing.T, port int, path string, out any) {
	t.Helper()
	resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d%s", port, path))
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET %s status = %d, want 200", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
}

func TestServerStartStop(t *testing.T) {
	s := NewServer(Sources{AppName: "devdigger"}, nil)
	port, err := s.Start(0)
	if err != nil {
		t.Fatalf("Start(0) error: %v", err)
	}
	defer s.Stop(context.Background())

	if err := waitForServer(port, 2*time.Second); err != nil {
		t.Fatalf("server not ready: %v", err)
	}

	var health map[string]string
	getJSON(t, port, "/health", &health)
	if health["status"] != "ok" {
		t.Errorf("health status = %q, want \"ok\"", health["status"])
	}
	if health["app"] != "devdigger" {
		t.Errorf("health app = %q, want \"devdigger\"", health["app"])
	}

	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("Stop() error: %v", err)
	}
	if err := waitForServerDown(port, 2*time.Second); err != nil {
		t.Errorf("server did not stop: %v", err)
	}
}

func TestServerFramesEndpoint(t *testing.T) {
	trace := NewTraceBuffer(8, 0)
	trace.Add(FrameSample{Timestamp: 1, FrameMs: 16.7, FPS: 60}, 16*time.Millisecond)
	trace.Add(FrameSample{Timestamp: 2, FrameMs: 40.0, FPS: 25}, 40*time.Millisecond)

	s := NewServer(Sources{Trace: trace}, nil)
	port, err := s.Start(0)
	if err != nil {
		t.Fatalf("Start(0) error: %v", err)
	}
	defer s.Stop(context.Background())
	if err := waitForServer(port, 2*time.Second); err != nil {
		t.Fatalf("server not ready: %v", err)
	}

	var timeline FrameTimeline
	getJSON(t, port, "/frames", &timeline)
	if len(timeline.Samples) != 2 {
		t.Fatalf("len(Samples) = %d, want 2", len(timeline.Samples))
	}
	if timeline.DroppedFrames != 1 {
		t.Errorf("DroppedFrames = %d, want 1", timeline.DroppedFrames)
	}
	if timeline.Samples[1].FPS != 25 {
		t.Errorf("Samples[1].FPS = %d, want 25", timeline.Samples[1].FPS)
	}
}

func TestServerFPSAndAnimations(t *testing.T) {
	s := NewServer(Sources{
		FPS: func() int { return 48 },
		Animations: func() []tween.Snapshot {
			return []tween.Snapshot{{ID: "abc", State: "running", Progress: 0.5}}
		},
		QueueDepth: func() int { return 2 },
	}, nil)
	port, err := s.Start(0)
	if err != nil {
		t.Fatalf("Start(0) error: %v", err)
	}
	defer s.Stop(context.Background())
	if err := waitForServer(port, 2*time.Second); err != nil {
		t.Fatalf("server not ready: %v", err)
	}

	var fpsResp map[string]int
	getJSON(t, port, "/fps", &fpsResp)
	if fpsResp["fps"] != 48 {
		t.Errorf("fps = %d, want 48", fpsResp["fps"])
	}

	var anim struct {
		Animations []tween.Snapshot `json:"animations"`
		QueueDepth int              `json:"queueDepth"`
	}
	getJSON(t, port, "/animations", &anim)
	if len(anim.Animations) != 1 || anim.Animations[0].ID != "abc" {
		t.Errorf("animations = %+v, want one snapshot with ID abc", anim.Animations)
	}
	if anim.QueueDepth != 2 {
		t.Errorf("queueDepth = %d, want 2", anim.QueueDepth)
	}
}

func TestServerMetricsEndpoint(t *testing.T) {
	metrics := NewMetrics()
	metrics.Observe(FrameSample{FPS: 60, ActiveTweens: 1}, false)

	s := NewServer(Sources{Metrics: metrics}, nil)
	port, err := s.Start(0)
	if err != nil {
		t.Fatalf("Start(0) error: %v", err)
	}
	defer s.Stop(context.Background())
	if err := waitForServer(port, 2*time.Second); err != nil {
		t.Fatalf("server not ready: %v", err)
	}

	resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/metrics", port))
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read /metrics body: %v", err)
	}
	if !strings.Contains(string(body), "pulse_frames_total 1") {
		t.Errorf("/metrics output missing pulse_frames_total 1:\n%s", body)
	}
}

func TestServerFailFastOnPortConflict(t *testing.T) {
	blocker, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to create blocker listener: %v", err)
	}
	defer blocker.Close()
	blockedPort := blocker.Addr().(*net.TCPAddr).Port

	s := NewServer(Sources{}, nil)
	if _, err := s.Start(blockedPort); err == nil {
		s.Stop(context.Background())
		t.Error("expected error when binding to occupied port, got nil")
	}
}

func TestServerAlreadyRunningReturnsPort(t *testing.T) {
	s := NewServer(Sources{}, nil)
	port1, err := s.Start(0)
	if err != nil {
		t.Fatalf("Start(0) error: %v", err)
	}
	defer s.Stop(context.Background())

	port2, err := s.Start(0)
	if err != nil {
		t.Fatalf("second Start returned error: %v", err)
	}
	if port1 != port2 {
		t.Errorf("expected same port %d, got %d", port1, port2)
	}
}

func TestServerStopIdempotent(t *testing.T) {
	s := NewServer(Sources{}, nil)
	if _, err := s.Start(0); err != nil {
		t.Fatalf("Start(0) error: %v", err)
	}
	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("first Stop() error: %v", err)
	}
	if err := s.Stop(context.Background()); err != nil {
		t.Errorf("second Stop() error: %v", err)
	}
}
