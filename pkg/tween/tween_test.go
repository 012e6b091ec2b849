package tween

import (
	"image/color"
	"testing"
)

func TestTweenEvaluate(t *testing.T) {
	opacity := Float64(0, 1)
	if got := opacity.Evaluate(0.5); got != 0.5 {
		t.Errorf("Evaluate(0.5) = %v, want 0.5", got)
	}
	if got := opacity.Evaluate(0); got != 0 {
		t.Errorf("Evaluate(0) = %v, want 0", got)
	}
	if got := opacity.Evaluate(1); got != 1 {
		t.Errorf("Evaluate(1) = %v, want 1", got)
	}

	counter := Float64(200, 1200)
	if got := counter.Evaluate(0.25); got != 450 {
		t.Errorf("Evaluate(0.25) = %v, want 450", got)
	}
}

func TestTweenNilLerpReturnsEnd(t *testing.T) {
	tw := &Tween[string]{Begin: "a", End: "b"}
	if got := tw.Evaluate(0.1); got != "b" {
		t.Errorf("Evaluate with nil Lerp = %q, want %q", got, "b")
	}
}

func TestPointTween(t *testing.T) {
	position := PointTween(Point{X: 0, Y: 0}, Point{X: 100, Y: 50})
	mid := position.Evaluate(0.5)
	if mid.X != 50 || mid.Y != 25 {
		t.Errorf("Evaluate(0.5) = %+v, want {50 25}", mid)
	}
}

func TestRGBATween(t *testing.T) {
	fade := RGBA(
		color.RGBA{R: 255, G: 0, B: 0, A: 255},
		color.RGBA{R: 0, G: 0, B: 255, A: 255},
	)
	mid := fade.Evaluate(0.5)
	if mid.R != 127 || mid.B != 127 || mid.A != 255 {
		t.Errorf("Evaluate(0.5) = %+v, want half red, half blue, opaque", mid)
	}
}

func TestCustomLerp(t *testing.T) {
	type pair struct{ a, b float64 }
	tw := &Tween[pair]{
		Begin: pair{0, 0},
		End:   pair{100, 200},
		Lerp: func(a, b pair, t float64) pair {
			return pair{
				a: a.a + (b.a-a.a)*t,
				b: a.b + (b.b-a.b)*t,
			}
		},
	}
	mid := tw.Evaluate(0.5)
	if mid.a != 50 || mid.b != 100 {
		t.Errorf("Evaluate(0.5) = %+v, want {50 100}", mid)
	}
}

func TestColorByName(t *testing.T) {
	c, ok := ColorByName("steelblue")
	if !ok {
		t.Fatal("steelblue should be a recognized color name")
	}
	if c.R != 70 || c.G != 130 || c.B != 180 {
		t.Errorf("steelblue = %+v, want {70 130 180 255}", c)
	}

	if _, ok := ColorByName("not-a-color"); ok {
		t.Error("unrecognized name reported ok")
	}
}
