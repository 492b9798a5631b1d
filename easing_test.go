package warpgrid

import (
	"math"
	"testing"
)

func TestEasingSingleStep(t *testing.T) {
	e := Easing{Rate: 0.035}
	got := e.Advance(-900)
	assertNear(t, "current", got, -31.5)
}

func TestEasingConvergenceLaw(t *testing.T) {
	tests := []struct {
		name           string
		rate, from, to float64
		steps          int
	}{
		{"pan", 0.035, 0, -900, 20},
		{"pointer", 0.1, 400, 12, 50},
		{"positive", 0.5, -10, 10, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := Easing{Current: tt.from, Rate: tt.rate}
			start := math.Abs(tt.to - tt.from)
			for k := 1; k <= tt.steps; k++ {
				e.Advance(tt.to)
				want := start * math.Pow(1-tt.rate, float64(k))
				if !approxEqual(math.Abs(tt.to-e.Current), want, 1e-9) {
					t.Fatalf("step %d: distance %v, want %v", k, math.Abs(tt.to-e.Current), want)
				}
			}
		})
	}
}

func TestEasingNeverOvershoots(t *testing.T) {
	e := Easing{Current: 0, Rate: 0.9}
	for range 100 {
		if e.Advance(1) > 1 {
			t.Fatalf("overshot: %v", e.Current)
		}
	}
}

func TestEasingTwentyTicks(t *testing.T) {
	e := Easing{Rate: 0.035}
	for range 20 {
		e.Advance(-900)
	}
	want := -900 * (1 - math.Pow(1-0.035, 20))
	if !approxEqual(e.Current, want, 1e-9) {
		t.Errorf("after 20 ticks = %v, want %v", e.Current, want)
	}
}

func TestEasedPoint(t *testing.T) {
	p := NewEasedPoint(Vec2{400, 300}, 0.1)
	if p.Distance() != 0 {
		t.Errorf("new point should be at rest, distance %v", p.Distance())
	}
	p.Target = Vec2{500, 200}
	got := p.Advance()
	assertNear(t, "x", got.X, 410)
	assertNear(t, "y", got.Y, 290)
	assertNear(t, "distance", p.Distance(), math.Hypot(90, 90))

	p.Snap(Vec2{1, 2})
	if p.Current != (Vec2{1, 2}) || p.Target != (Vec2{1, 2}) {
		t.Errorf("Snap: %+v", p)
	}
}
