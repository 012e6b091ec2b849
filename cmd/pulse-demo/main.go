// Command pulse-demo runs the animation runtime against the real-time
// frame loop and serves diagnostics over HTTP. It animates a handful of
// values forever so the /frames, /fps, and /animations endpoints have
// something to show.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Clemens865/devdigger-sub001/pkg/config"
	"github.com/Clemens865/devdigger-sub001/pkg/pulse"
	"github.com/Clemens865/devdigger-sub001/pkg/sched"
	"github.com/Clemens865/devdigger-sub001/pkg/tween"
)

func main() {
	port := flag.Int("port", 0, "diagnostics port (0 picks an ephemeral port)")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	resolved, err := config.ResolveConfig(&config.Config{
		App: config.AppConfig{Name: "pulse-demo"},
		Diagnostics: config.DiagnosticsConfig{
			Enabled: true,
			Port:    *port,
		},
	})
	if err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	loop := sched.NewLoop(sched.DefaultInterval)
	loop.Start()
	defer loop.Stop()

	rt := pulse.New(pulse.Options{
		Host:   loop,
		Config: resolved,
		Logger: log,
	})

	actualPort, err := rt.Start()
	if err != nil {
		log.Error("failed to start runtime", "error", err)
		os.Exit(1)
	}
	fmt.Printf("diagnostics at http://127.0.0.1:%d/frames\n", actualPort)

	// A perpetual ping-pong animation keeps the active set non-empty.
	var animate func(from, to float64)
	animate = func(from, to float64) {
		rt.Animate(tween.Config{
			From:       from,
			To:         to,
			Duration:   2 * time.Second,
			OnComplete: func() { animate(to, from) },
		})
	}
	animate(0, 100)

	stop := rt.Monitor().OnChange(func(fps int) {
		log.Info("frame rate", "fps", fps)
	})
	defer stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rt.Shutdown(ctx); err != nil {
		log.Error("shutdown", "error", err)
	}
}
