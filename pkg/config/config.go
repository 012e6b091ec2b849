// Package config loads the optional pulse.yaml file that tunes the
// animation runtime, resolving defaults from the enclosing Go module.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"
	"gopkg.in/yaml.v3"

	"github.com/Clemens865/devdigger-sub001/pkg/easing"
	"github.com/Clemens865/devdigger-sub001/pkg/tween"
)

// ReducedMotionMode selects how the runtime decides whether to reduce
// motion.
type ReducedMotionMode string

const (
	// ReducedMotionSystem follows the host's motion preference.
	ReducedMotionSystem ReducedMotionMode = "system"
	// ReducedMotionAlways reduces motion unconditionally.
	ReducedMotionAlways ReducedMotionMode = "always"
	// ReducedMotionNever ignores the host preference.
	ReducedMotionNever ReducedMotionMode = "never"
)

// Config represents the optional pulse.yaml configuration.
type Config struct {
	App         AppConfig         `yaml:"app"`
	Animation   AnimationConfig   `yaml:"animation"`
	Queue       QueueConfig       `yaml:"queue"`
	Monitor     MonitorConfig     `yaml:"monitor"`
	Diagnostics DiagnosticsConfig `yaml:"diagnostics"`
}

// AppConfig contains application metadata.
type AppConfig struct {
	Name string `yaml:"name,omitempty"`
}

// AnimationConfig contains tween defaults.
type AnimationConfig struct {
	DefaultDurationMs int    `yaml:"defaultDurationMs,omitempty"`
	DefaultEasing     string `yaml:"defaultEasing,omitempty"`
	ReducedMotion     string `yaml:"reducedMotion,omitempty"`
	ReducedDurationMs int    `yaml:"reducedDurationMs,omitempty"`
	HighlightColor    string `yaml:"highlightColor,omitempty"`
}

// QueueConfig contains animation queue settings.
type QueueConfig struct {
	MaxConcurrent int `yaml:"maxConcurrent,omitempty"`
}

// MonitorConfig contains frame-rate monitor settings.
type MonitorConfig struct {
	WindowMs int `yaml:"windowMs,omitempty"`
}

// DiagnosticsConfig contains debug server and frame trace settings.
type DiagnosticsConfig struct {
	Enabled      bool `yaml:"enabled,omitempty"`
	Port         int  `yaml:"port,omitempty"`
	TraceSamples int  `yaml:"traceSamples,omitempty"`
	ThresholdMs  int  `yaml:"thresholdMs,omitempty"`
}

// Resolved contains resolved configuration values with defaults applied.
type Resolved struct {
	Root       string
	ModulePath string
	AppName    string

	DefaultDuration time.Duration
	DefaultEasing   easing.Kind
	ReducedMotion   ReducedMotionMode
	ReducedDuration time.Duration
	HighlightColor  color.RGBA

	QueueMaxConcurrent int
	MonitorWindow      time.Duration

	DiagnosticsEnabled bool
	DiagnosticsPort    int
	TraceSamples       int
	TraceThreshold     time.Duration
}

const (
	defaultDuration = 300 * time.Millisecond
	reducedDuration = 120 * time.Millisecond
)

// LoadOptional reads pulse.yaml if present. A missing file yields the
// zero config; every field then falls back to its default in Resolve.
func LoadOptional(dir string) (*Config, error) {
	path := filepath.Join(dir, "pulse.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read pulse.yaml: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse pulse.yaml: %w", err)
	}

	return &cfg, nil
}

// Resolve loads pulse.yaml (if present) and resolves defaults. The app
// name falls back to the last segment of the module path.
func Resolve(dir string) (*Resolved, error) {
	modulePath, err := readModulePath(dir)
	if err != nil {
		return nil, err
	}

	cfg, err := LoadOptional(dir)
	if err != nil {
		return nil, err
	}

	resolved, err := ResolveConfig(cfg)
	if err != nil {
		return nil, err
	}

	resolved.Root = dir
	resolved.ModulePath = modulePath
	if resolved.AppName == "" {
		resolved.AppName = defaultAppName(modulePath, dir)
	}
	return resolved, nil
}

// ResolveConfig applies defaults and validation to an already loaded
// config, without touching the filesystem.
func ResolveConfig(cfg *Config) (*Resolved, error) {
	if cfg == nil {
		cfg = &Config{}
	}

	r := &Resolved{
		AppName:         strings.TrimSpace(cfg.App.Name),
		DefaultDuration: defaultDuration,
		DefaultEasing:   easing.KindEaseOut,
		ReducedMotion:   ReducedMotionSystem,
		ReducedDuration: reducedDuration,
	}

	if cfg.Animation.DefaultDurationMs < 0 {
		return nil, fmt.Errorf("animation.defaultDurationMs must not be negative (got %d)", cfg.Animation.DefaultDurationMs)
	}
	if cfg.Animation.DefaultDurationMs > 0 {
		r.DefaultDuration = time.Duration(cfg.Animation.DefaultDurationMs) * time.Millisecond
	}

	if name := strings.TrimSpace(cfg.Animation.DefaultEasing); name != "" {
		r.DefaultEasing = easing.ParseKind(name)
	}

	if mode := strings.TrimSpace(cfg.Animation.ReducedMotion); mode != "" {
		switch ReducedMotionMode(mode) {
		case ReducedMotionSystem, ReducedMotionAlways, ReducedMotionNever:
			r.ReducedMotion = ReducedMotionMode(mode)
		default:
			return nil, fmt.Errorf("animation.reducedMotion must be one of system, always, never (got %q)", mode)
		}
	}

	if cfg.Animation.ReducedDurationMs < 0 {
		return nil, fmt.Errorf("animation.reducedDurationMs must not be negative (got %d)", cfg.Animation.ReducedDurationMs)
	}
	if cfg.Animation.ReducedDurationMs > 0 {
		r.ReducedDuration = time.Duration(cfg.Animation.ReducedDurationMs) * time.Millisecond
	}

	if name := strings.TrimSpace(cfg.Animation.HighlightColor); name != "" {
		c, ok := tween.ColorByName(name)
		if !ok {
			return nil, fmt.Errorf("animation.highlightColor %q is not a recognized color name", name)
		}
		r.HighlightColor = c
	}

	r.QueueMaxConcurrent = cfg.Queue.MaxConcurrent
	if r.QueueMaxConcurrent < 0 {
		return nil, fmt.Errorf("queue.maxConcurrent must not be negative (got %d)", cfg.Queue.MaxConcurrent)
	}

	if cfg.Monitor.WindowMs < 0 {
		return nil, fmt.Errorf("monitor.windowMs must not be negative (got %d)", cfg.Monitor.WindowMs)
	}
	if cfg.Monitor.WindowMs > 0 {
		r.MonitorWindow = time.Duration(cfg.Monitor.WindowMs) * time.Millisecond
	}

	r.DiagnosticsEnabled = cfg.Diagnostics.Enabled
	r.DiagnosticsPort = cfg.Diagnostics.Port
	if r.DiagnosticsPort < 0 || r.DiagnosticsPort > 65535 {
		return nil, fmt.Errorf("diagnostics.port must be between 0 and 65535 (got %d)", cfg.Diagnostics.Port)
	}
	r.TraceSamples = cfg.Diagnostics.TraceSamples
	if r.TraceSamples < 0 {
		return nil, fmt.Errorf("diagnostics.traceSamples must not be negative (got %d)", cfg.Diagnostics.TraceSamples)
	}
	if cfg.Diagnostics.ThresholdMs < 0 {
		return nil, fmt.Errorf("diagnostics.thresholdMs must not be negative (got %d)", cfg.Diagnostics.ThresholdMs)
	}
	if cfg.Diagnostics.ThresholdMs > 0 {
		r.TraceThreshold = time.Duration(cfg.Diagnostics.ThresholdMs) * time.Millisecond
	}

	return r, nil
}

// Default returns the resolved configuration with every field at its
// default, as if pulse.yaml were absent.
func Default() *Resolved {
	r, _ := ResolveConfig(nil)
	return r
}

// FindProjectRoot walks up from the current directory to find go.mod.
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not in a Go module (no go.mod found)")
		}
		dir = parent
	}
}

func readModulePath(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, "go.mod"))
	if err != nil {
		return "", fmt.Errorf("failed to read go.mod: %w", err)
	}
	path := modfile.ModulePath(data)
	if path == "" {
		return "", fmt.Errorf("could not determine module path from go.mod")
	}
	return path, nil
}

func defaultAppName(modulePath, dir string) string {
	base := filepath.Base(dir)
	modName, _, ok := module.SplitPathVersion(modulePath)
	if ok {
		parts := strings.Split(modName, "/")
		if len(parts) > 0 {
			base = parts[len(parts)-1]
		}
	}
	if base == "" {
		return "pulse_app"
	}
	return base
}
