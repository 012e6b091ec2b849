// Package accessibility gates animation behavior on the host's
// reduced-motion preference.
//
// The gate is a before-the-fact policy check: the tweener and queue
// helpers consult it once, before any scheduling begins. It never
// interrupts an animation that is already running.
package accessibility

import (
	"time"

	"github.com/Clemens865/devdigger-sub001/pkg/easing"
)

// Fallbacks applied when the host prefers reduced motion. Short and
// linear: long or springy motion is exactly what the preference asks to
// avoid.
const (
	ReducedDuration = 120 * time.Millisecond
	ReducedEasing   = easing.KindLinear
)

// Preference reports the host's reduced-motion setting. It is queried
// synchronously each time the gate resolves a request, so a preference
// change applies to the next animation started.
type Preference interface {
	PrefersReducedMotion() bool
}

// PreferenceFunc adapts a plain function to the Preference interface.
type PreferenceFunc func() bool

func (f PreferenceFunc) PrefersReducedMotion() bool { return f() }

// Static is a fixed Preference, useful as a default or in tests.
type Static bool

func (s Static) PrefersReducedMotion() bool { return bool(s) }

// Gate resolves requested durations and easing kinds against the host
// preference. With no preference signal it passes requests through
// unchanged.
type Gate struct {
	// Preference is the host signal. nil means full motion.
	Preference Preference
	// FallbackDuration overrides ReducedDuration when positive.
	FallbackDuration time.Duration
	// FallbackEasing replaces the requested kind under reduced motion.
	FallbackEasing easing.Kind
}

// NewGate creates a gate with the stock fallbacks. pref may be nil.
func NewGate(pref Preference) *Gate {
	return &Gate{
		Preference:       pref,
		FallbackDuration: ReducedDuration,
		FallbackEasing:   ReducedEasing,
	}
}

// ReduceMotion reports whether the host currently prefers reduced motion.
func (g *Gate) ReduceMotion() bool {
	return g != nil && g.Preference != nil && g.Preference.PrefersReducedMotion()
}

// ResolveDuration returns the duration to animate with: the caller's
// request normally, the short fallback under reduced motion. The
// caller-specified duration is a request, not a guarantee.
func (g *Gate) ResolveDuration(requested time.Duration) time.Duration {
	if !g.ReduceMotion() {
		return requested
	}
	if g.FallbackDuration > 0 {
		return g.FallbackDuration
	}
	return ReducedDuration
}

// ResolveEasing returns the easing kind to animate with, overriding the
// caller's request with the gentle fallback under reduced motion.
func (g *Gate) ResolveEasing(requested easing.Kind) easing.Kind {
	if !g.ReduceMotion() {
		return requested
	}
	return g.FallbackEasing
}
