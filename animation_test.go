package warpgrid

import (
	"math"
	"testing"

	"github.com/tanema/gween/ease"
)

func TestScalarTweenReachesTarget(t *testing.T) {
	tw := NewScalarTween(0, 1, 1.0, ease.Linear)
	if tw.Value != 0 || tw.Done {
		t.Fatalf("fresh tween: value %v done %v", tw.Value, tw.Done)
	}

	// Exact halves avoid float32 accumulation drift.
	mid := tw.Update(0.5)
	if math.Abs(mid-0.5) > 0.01 {
		t.Errorf("midpoint = %f, want ~0.5", mid)
	}
	tw.Update(0.5)
	if !tw.Done {
		t.Fatal("expected Done after full duration")
	}
	if math.Abs(tw.Value-1) > 0.01 {
		t.Errorf("Value = %f, want ~1", tw.Value)
	}
	// Further updates hold the final value.
	if got := tw.Update(1); got != tw.Value {
		t.Errorf("Update after done = %f", got)
	}
}

func TestScalarTweenZeroDuration(t *testing.T) {
	tw := NewScalarTween(0, 1, 0, ease.OutCubic)
	if !tw.Done || tw.Value != 1 {
		t.Errorf("zero duration: value %v done %v, want 1 true", tw.Value, tw.Done)
	}
}

func TestScalarTweenEasingShapesCurve(t *testing.T) {
	linear := NewScalarTween(0, 1, 1, ease.Linear)
	out := NewScalarTween(0, 1, 1, ease.OutCubic)
	l := linear.Update(0.25)
	o := out.Update(0.25)
	if o <= l {
		t.Errorf("outCubic at 0.25 = %f, should lead linear %f", o, l)
	}
}

func TestEaseFunc(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
	}{
		{"", true},
		{"linear", true},
		{"outCubic", true},
		{"in-out-sine", true},
		{"OUT_BOUNCE", true},
		{"wobble", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn, err := EaseFunc(tt.name)
			if tt.ok && (err != nil || fn == nil) {
				t.Errorf("EaseFunc(%q) = %v", tt.name, err)
			}
			if !tt.ok && err == nil {
				t.Errorf("EaseFunc(%q) should fail", tt.name)
			}
		})
	}
}
