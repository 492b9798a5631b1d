package warpgrid

import (
	"math"
	"testing"
)

func TestPanTargetScenario(t *testing.T) {
	grid := NewContainer("grid")
	pan := NewPanController(grid, 0.75, 0.035)
	pan.PointerMoved(Vec2{400, 300}, Size{800, 600}, Size{800, 3000})

	assertNear(t, "target.Y", pan.Target().Y, -900)
	// Content fits horizontally, so there is nothing to pan.
	assertNear(t, "target.X", pan.Target().X, 0)
}

func TestPanTargetBound(t *testing.T) {
	viewports := []Size{{800, 600}, {1280, 800}, {320, 480}}
	contents := []Size{{3600, 3000}, {500, 400}, {1280, 801}, {10000, 10000}}
	for _, vp := range viewports {
		var pointers []Vec2
		for px := 0; px <= vp.W; px += vp.W / 8 {
			for py := 0; py <= vp.H; py += vp.H / 8 {
				pointers = append(pointers, Vec2{float64(px), float64(py)})
			}
		}
		// The cursor can be reported outside the window.
		pointers = append(pointers,
			Vec2{-50, float64(2 * vp.H)},
			Vec2{float64(3 * vp.W), -float64(vp.H)},
		)
		for _, content := range contents {
			boundX := 0.75 * float64(max(0, content.W-vp.W))
			boundY := 0.75 * float64(max(0, content.H-vp.H))
			for _, p := range pointers {
				pan := NewPanController(NewContainer("g"), 0.75, 0.035)
				pan.PointerMoved(p, vp, content)
				tg := pan.Target()
				if math.Abs(tg.X) > boundX+epsilon || math.Abs(tg.Y) > boundY+epsilon {
					t.Fatalf("vp %v content %v pointer %v: target %v exceeds (%v, %v)",
						vp, content, p, tg, boundX, boundY)
				}
			}
		}
	}
}

func TestPanClampsOutsidePointer(t *testing.T) {
	pan := NewPanController(NewContainer("g"), 0.75, 0.035)
	vp, content := Size{800, 600}, Size{1800, 1600}
	pan.PointerMoved(Vec2{-50, 1200}, vp, content)
	assertNear(t, "target x", pan.Target().X, 0)
	assertNear(t, "target y", pan.Target().Y, -750)
}

func TestPanTickWritesContainer(t *testing.T) {
	grid := NewContainer("grid")
	pan := NewPanController(grid, 0.75, 0.035)
	pan.PointerMoved(Vec2{0, 300}, Size{800, 600}, Size{800, 3000})

	pan.Tick()
	assertNear(t, "offset", pan.Offset().Y, -31.5)
	assertNear(t, "grid.Y", grid.Y, -31.5)
	assertNear(t, "world ty", grid.WorldTransform()[5], -31.5)

	for range 19 {
		pan.Tick()
	}
	want := -900 * (1 - math.Pow(1-0.035, 20))
	if !approxEqual(grid.Y, want, 1e-9) {
		t.Errorf("after 20 ticks grid.Y = %v, want %v", grid.Y, want)
	}
}

func TestPanReset(t *testing.T) {
	grid := NewContainer("grid")
	pan := NewPanController(grid, 0.75, 0.035)
	pan.PointerMoved(Vec2{800, 600}, Size{800, 600}, Size{4000, 4000})
	for range 10 {
		pan.Tick()
	}
	pan.Reset()
	if pan.Offset() != (Vec2{}) || pan.Target() != (Vec2{}) {
		t.Errorf("Reset left offset %v target %v", pan.Offset(), pan.Target())
	}
	if grid.X != 0 || grid.Y != 0 {
		t.Errorf("grid at (%v, %v), want origin", grid.X, grid.Y)
	}
}

func TestPanEmptyViewportIgnored(t *testing.T) {
	pan := NewPanController(NewContainer("g"), 0.75, 0.035)
	pan.PointerMoved(Vec2{10, 10}, Size{}, Size{1000, 1000})
	if pan.Target() != (Vec2{}) {
		t.Errorf("target %v, want zero", pan.Target())
	}
}
