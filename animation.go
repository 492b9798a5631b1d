package warpgrid

import (
	"fmt"
	"strings"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// ScalarTween animates a single float64 from one value to another over a
// fixed duration. The render loop uses it to fade the distortion strength in
// after startup. Call Update(dt) each frame; Value holds the latest sample.
type ScalarTween struct {
	tween *gween.Tween
	Value float64
	Done  bool
}

// NewScalarTween creates a tween from -> to over duration seconds. A
// non-positive duration yields a finished tween already at to.
func NewScalarTween(from, to float64, duration float32, fn ease.TweenFunc) *ScalarTween {
	if duration <= 0 {
		return &ScalarTween{Value: to, Done: true}
	}
	return &ScalarTween{
		tween: gween.New(float32(from), float32(to), duration, fn),
		Value: from,
	}
}

// Update advances the tween by dt seconds and returns the current value.
func (t *ScalarTween) Update(dt float32) float64 {
	if t.Done {
		return t.Value
	}
	val, finished := t.tween.Update(dt)
	t.Value = float64(val)
	t.Done = finished
	return t.Value
}

var easeFuncs = map[string]ease.TweenFunc{
	"linear":     ease.Linear,
	"inquad":     ease.InQuad,
	"outquad":    ease.OutQuad,
	"inoutquad":  ease.InOutQuad,
	"incubic":    ease.InCubic,
	"outcubic":   ease.OutCubic,
	"inoutcubic": ease.InOutCubic,
	"insine":     ease.InSine,
	"outsine":    ease.OutSine,
	"inoutsine":  ease.InOutSine,
	"inexpo":     ease.InExpo,
	"outexpo":    ease.OutExpo,
	"inoutexpo":  ease.InOutExpo,
	"outback":    ease.OutBack,
	"outbounce":  ease.OutBounce,
}

// EaseFunc looks up an easing function by name ("outCubic", "in-out-sine",
// "linear", ...). Matching ignores case, dashes and underscores.
func EaseFunc(name string) (ease.TweenFunc, error) {
	key := strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.ToLower(name))
	if key == "" {
		key = "linear"
	}
	fn, ok := easeFuncs[key]
	if !ok {
		return nil, fmt.Errorf("warpgrid: unknown ease %q", name)
	}
	return fn, nil
}
