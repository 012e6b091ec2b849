// Package easing provides the closed-form easing functions used by the
// animation runtime.
//
// Each easing function maps normalized progress t in [0, 1] to eased
// progress. Callers are responsible for clamping t before evaluation;
// values outside [0, 1] produce extrapolated results.
//
// Easing is selected by [Kind]. Unrecognized kinds resolve to [EaseOut].
// This fallback is load-bearing: animations configured with a kind the
// runtime does not know keep running with ease-out character instead of
// failing, and golden outputs depend on it.
package easing

// Func maps normalized progress to eased progress.
type Func func(t float64) float64

// Kind identifies a named easing function.
type Kind int

const (
	// KindLinear is constant-velocity progress.
	KindLinear Kind = iota
	// KindEaseIn starts slowly and accelerates (quadratic).
	KindEaseIn
	// KindEaseOut starts quickly and decelerates (quadratic).
	KindEaseOut
	// KindEaseInOut accelerates through the midpoint then decelerates.
	KindEaseInOut
)

// String returns the canonical name of the kind. Unknown kinds report as
// "ease-out", matching the resolution in [For].
func (k Kind) String() string {
	switch k {
	case KindLinear:
		return "linear"
	case KindEaseIn:
		return "ease-in"
	case KindEaseOut:
		return "ease-out"
	case KindEaseInOut:
		return "ease-in-out"
	default:
		return "ease-out"
	}
}

// Linear returns t unchanged.
func Linear(t float64) float64 {
	return t
}

// EaseIn is quadratic ease-in: t².
func EaseIn(t float64) float64 {
	return t * t
}

// EaseOut is quadratic ease-out: 1 - (1-t)².
func EaseOut(t float64) float64 {
	inv := 1 - t
	return 1 - inv*inv
}

// EaseInOut is piecewise quadratic: 2t² below the midpoint,
// 1 - (-2t+2)²/2 above it.
func EaseInOut(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	inv := -2*t + 2
	return 1 - inv*inv/2
}

// For returns the easing function for kind. Unrecognized kinds fall back
// to [EaseOut] rather than erroring; see the package comment.
func For(kind Kind) Func {
	switch kind {
	case KindLinear:
		return Linear
	case KindEaseIn:
		return EaseIn
	case KindEaseOut:
		return EaseOut
	case KindEaseInOut:
		return EaseInOut
	default:
		return EaseOut
	}
}

// ParseKind resolves a configuration name to a Kind. Unrecognized names
// fall back to [KindEaseOut], preserving the runtime's permissive
// handling of unknown easing requests.
func ParseKind(name string) Kind {
	switch name {
	case "linear":
		return KindLinear
	case "ease-in", "easeIn":
		return KindEaseIn
	case "ease-out", "easeOut":
		return KindEaseOut
	case "ease-in-out", "easeInOut":
		return KindEaseInOut
	default:
		return KindEaseOut
	}
}

// Clamp01 clamps t to [0, 1].
func Clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}
