// Package tween drives single animated values from a start to an end
// over time.
//
// [Start] runs a scalar tween against a host frame scheduler; it is the
// runtime's workhorse for positions, opacities, counters, and progress
// values. [Tween] is the pure interpolation half: it maps the 0-1
// progress range to any value range or type and has no timing behavior
// of its own.
package tween

import (
	"image/color"

	"golang.org/x/image/colornames"
)

// Tween interpolates between Begin and End values based on progress.
//
// Use the helper constructors ([Float64], [PointTween], [RGBA]) for
// common types, or create custom tweens with a Lerp function.
type Tween[T any] struct {
	// Begin is the starting value (when t = 0).
	Begin T
	// End is the ending value (when t = 1).
	End T
	// Lerp linearly interpolates between Begin and End. Receives the
	// begin value, end value, and progress t in [0, 1].
	Lerp func(a, b T, t float64) T
}

// Evaluate returns the interpolated value at t (0.0 to 1.0).
func (tw *Tween[T]) Evaluate(t float64) T {
	if tw.Lerp == nil {
		return tw.End
	}
	return tw.Lerp(tw.Begin, tw.End, t)
}

// LerpFloat64 linearly interpolates between two float64 values.
func LerpFloat64(a, b float64, t float64) float64 {
	return a + (b-a)*t
}

// Point is a 2D position, used for panel and particle movement.
type Point struct {
	X, Y float64
}

// LerpPoint linearly interpolates between two Point values.
func LerpPoint(a, b Point, t float64) Point {
	return Point{
		X: LerpFloat64(a.X, b.X, t),
		Y: LerpFloat64(a.Y, b.Y, t),
	}
}

// LerpRGBA linearly interpolates between two colors per channel.
func LerpRGBA(a, b color.RGBA, t float64) color.RGBA {
	return color.RGBA{
		R: uint8(LerpFloat64(float64(a.R), float64(b.R), t)),
		G: uint8(LerpFloat64(float64(a.G), float64(b.G), t)),
		B: uint8(LerpFloat64(float64(a.B), float64(b.B), t)),
		A: uint8(LerpFloat64(float64(a.A), float64(b.A), t)),
	}
}

// Float64 creates a tween for float64 values.
func Float64(begin, end float64) *Tween[float64] {
	return &Tween[float64]{
		Begin: begin,
		End:   end,
		Lerp:  LerpFloat64,
	}
}

// PointTween creates a tween for Point values.
func PointTween(begin, end Point) *Tween[Point] {
	return &Tween[Point]{
		Begin: begin,
		End:   end,
		Lerp:  LerpPoint,
	}
}

// RGBA creates a tween for color values.
func RGBA(begin, end color.RGBA) *Tween[color.RGBA] {
	return &Tween[color.RGBA]{
		Begin: begin,
		End:   end,
		Lerp:  LerpRGBA,
	}
}

// ColorByName resolves an SVG 1.1 color name ("tomato", "steelblue") to
// its RGBA value, for configuration files that name highlight or particle
// tints. The second result reports whether the name was recognized.
func ColorByName(name string) (color.RGBA, bool) {
	c, ok := colornames.Map[name]
	return c, ok
}
