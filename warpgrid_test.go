package warpgrid

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if !approxEqual(got, want, epsilon) {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func TestRectIntersects(t *testing.T) {
	base := Rect{10, 10, 100, 100}
	tests := []struct {
		name   string
		other  Rect
		expect bool
	}{
		{"overlapping", Rect{50, 50, 100, 100}, true},
		{"fully contained", Rect{20, 20, 10, 10}, true},
		{"adjacent right", Rect{110, 10, 50, 50}, false},
		{"one unit in", Rect{109, 10, 50, 50}, true},
		{"disjoint right", Rect{111, 10, 50, 50}, false},
		{"disjoint above", Rect{10, -100, 50, 50}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.Intersects(tt.other); got != tt.expect {
				t.Errorf("Intersects(%v) = %v, want %v", tt.other, got, tt.expect)
			}
		})
	}
}

func TestSizeHelpers(t *testing.T) {
	s := Size{W: 800, H: 600}
	if c := s.Center(); c != (Vec2{400, 300}) {
		t.Errorf("Center = %v, want {400 300}", c)
	}
	if got := s.Scaled(4); got != (Size{3200, 2400}) {
		t.Errorf("Scaled(4) = %v, want {3200 2400}", got)
	}
	if got := (Size{3, 3}).Scaled(0.5); got != (Size{1, 1}) {
		t.Errorf("Scaled(0.5) = %v, want {1 1}", got)
	}
	if s.Empty() {
		t.Error("800x600 should not be empty")
	}
	for _, e := range []Size{{0, 10}, {10, 0}, {-1, 5}} {
		if !e.Empty() {
			t.Errorf("%v should be empty", e)
		}
	}
}

func TestVec2(t *testing.T) {
	d := Vec2{4, 6}.Sub(Vec2{1, 2})
	if d != (Vec2{3, 4}) {
		t.Errorf("Sub = %v, want {3 4}", d)
	}
	assertNear(t, "Len", d.Len(), 5)
}

func TestStageString(t *testing.T) {
	if StageVertex.String() != "vertex" || StageFragment.String() != "fragment" {
		t.Errorf("got %q, %q", StageVertex, StageFragment)
	}
	if Stage(9).String() != "unknown" {
		t.Errorf("Stage(9) = %q", Stage(9))
	}
}
