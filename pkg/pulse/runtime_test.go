package pulse

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/Clemens865/devdigger-sub001/pkg/accessibility"
	"github.com/Clemens865/devdigger-sub001/pkg/config"
	"github.com/Clemens865/devdigger-sub001/pkg/diag"
	"github.com/Clemens865/devdigger-sub001/pkg/sched"
	"github.com/Clemens865/devdigger-sub001/pkg/tween"
)

func testConfig(t *testing.T, cfg config.Config) *config.Resolved {
	t.Helper()
	resolved, err := config.ResolveConfig(&cfg)
	if err != nil {
		t.Fatalf("ResolveConfig() error: %v", err)
	}
	return resolved
}

func TestAnimateAppliesDefaultDuration(t *testing.T) {
	m := sched.NewManual()
	rt := New(Options{
		Host: m,
		Config: testConfig(t, config.Config{
			Animation: config.AnimationConfig{
				DefaultDurationMs: 100,
				DefaultEasing:     "linear",
			},
		}),
	})

	var values []float64
	done := false
	runner := rt.Animate(tween.Config{
		To:         100,
		Easing:     rt.Config().DefaultEasing,
		OnUpdate:   func(v float64) { values = append(values, v) },
		OnComplete: func() { done = true },
	})

	m.StepN(5, 25*time.Millisecond)

	if !done {
		t.Fatal("tween did not complete within the default duration")
	}
	if runner.State() != tween.StateCompleted {
		t.Errorf("State() = %v, want completed", runner.State())
	}
	if len(values) == 0 || values[len(values)-1] != 100 {
		t.Errorf("final value = %v, want exactly 100", values)
	}
}

func TestActiveAnimationsTracksAndPrunes(t *testing.T) {
	m := sched.NewManual()
	rt := New(Options{Host: m, Config: testConfig(t, config.Config{
		Animation: config.AnimationConfig{DefaultDurationMs: 100},
	})})

	a := rt.Animate(tween.Config{To: 1})
	b := rt.Animate(tween.Config{To: 2})

	if got := len(rt.ActiveAnimations()); got != 2 {
		t.Fatalf("ActiveAnimations() = %d runners, want 2", got)
	}

	a.Cancel()
	m.StepN(5, 25*time.Millisecond) // completes b

	if got := len(rt.ActiveAnimations()); got != 0 {
		t.Errorf("ActiveAnimations() = %d after finish, want 0", got)
	}
	if b.State() != tween.StateCompleted {
		t.Errorf("b.State() = %v, want completed", b.State())
	}
}

func TestReducedMotionAlwaysOverridesPreference(t *testing.T) {
	m := sched.NewManual()
	rt := New(Options{
		Host:       m,
		Preference: accessibility.Static(false), // platform says full motion
		Config: testConfig(t, config.Config{
			Animation: config.AnimationConfig{ReducedMotion: "always"},
		}),
	})

	done := false
	rt.Animate(tween.Config{
		To:         1,
		Duration:   5 * time.Second,
		OnComplete: func() { done = true },
	})

	// The 120ms reduced fallback replaces the 5s request.
	m.StepN(10, 16*time.Millisecond)
	if !done {
		t.Error("tween did not complete within the reduced-motion fallback")
	}
}

func TestReducedMotionNeverIgnoresPreference(t *testing.T) {
	m := sched.NewManual()
	rt := New(Options{
		Host:       m,
		Preference: accessibility.Static(true), // platform asks for reduction
		Config: testConfig(t, config.Config{
			Animation: config.AnimationConfig{ReducedMotion: "never"},
		}),
	})

	done := false
	rt.Animate(tween.Config{
		To:         1,
		Duration:   time.Second,
		OnComplete: func() { done = true },
	})

	m.StepN(10, 16*time.Millisecond) // 160ms, past the reduced fallback
	if done {
		t.Error("tween completed early; preference should be ignored")
	}
}

func TestCancelAll(t *testing.T) {
	m := sched.NewManual()
	rt := New(Options{Host: m})

	var updates int
	rt.Animate(tween.Config{To: 1, Duration: time.Second, OnUpdate: func(float64) { updates++ }})
	rt.Animate(tween.Config{To: 2, Duration: time.Second})

	rt.CancelAll()
	m.StepN(3, 16*time.Millisecond)

	if updates != 0 {
		t.Errorf("OnUpdate fired %d times after CancelAll, want 0", updates)
	}
	if got := len(rt.ActiveAnimations()); got != 0 {
		t.Errorf("ActiveAnimations() = %d after CancelAll, want 0", got)
	}
}

func TestShutdown(t *testing.T) {
	m := sched.NewManual()
	rt := New(Options{Host: m})
	if _, err := rt.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	ran := false
	rt.Enqueue(func() { ran = true })
	rt.Animate(tween.Config{To: 1, Duration: time.Second})

	if err := rt.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() error: %v", err)
	}
	if err := rt.Shutdown(context.Background()); err != nil {
		t.Errorf("second Shutdown() error: %v", err)
	}

	m.StepN(5, 16*time.Millisecond)
	if ran {
		t.Error("queued task ran after Shutdown")
	}
	if rt.Monitor().IsRunning() {
		t.Error("monitor still running after Shutdown")
	}

	// Post-shutdown animations are inert.
	runner := rt.Animate(tween.Config{To: 1, Duration: time.Second})
	m.StepN(5, 16*time.Millisecond)
	if runner.Done() {
		t.Error("post-shutdown tween progressed")
	}
}

func TestDiagnosticsEndToEnd(t *testing.T) {
	m := sched.NewManual()
	rt := New(Options{
		Host: m,
		Config: testConfig(t, config.Config{
			Diagnostics: config.DiagnosticsConfig{Enabled: true, Port: 0},
		}),
	})

	port, err := rt.Start()
	if err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if port == 0 {
		t.Fatal("Start() = port 0 with diagnostics enabled")
	}
	defer rt.Shutdown(context.Background())

	rt.Animate(tween.Config{To: 1, Duration: time.Second})
	m.StepN(4, 16*time.Millisecond)

	if rt.Trace() == nil {
		t.Fatal("Trace() = nil with diagnostics enabled")
	}
	// First frame only establishes the baseline timestamp.
	if got := len(rt.Trace().Snapshot().Samples); got != 3 {
		t.Errorf("trace recorded %d samples after 4 frames, want 3", got)
	}

	resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/frames", port))
	if err != nil {
		t.Fatalf("GET /frames: %v", err)
	}
	defer resp.Body.Close()

	var timeline diag.FrameTimeline
	if err := json.NewDecoder(resp.Body).Decode(&timeline); err != nil {
		t.Fatalf("decode /frames: %v", err)
	}
	if len(timeline.Samples) != 3 {
		t.Errorf("/frames returned %d samples, want 3", len(timeline.Samples))
	}
	if timeline.Samples[0].ActiveTweens != 1 {
		t.Errorf("ActiveTweens = %d, want 1", timeline.Samples[0].ActiveTweens)
	}
}

func TestZeroOptionsIsUsable(t *testing.T) {
	rt := New(Options{})

	done := false
	rt.Animate(tween.Config{To: 1, Duration: time.Second, OnComplete: func() { done = true }})
	rt.Enqueue(func() {})

	if done {
		t.Error("headless tween completed")
	}
	if got := rt.FPS(); got != 60 {
		t.Errorf("FPS() = %d before sampling, want 60", got)
	}
	if err := rt.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error: %v", err)
	}
}
