package warpgrid

// Easing is an exponential smoother: each Advance moves Current a fixed
// fraction of the remaining distance toward the target. For 0 < Rate < 1 the
// distance shrinks by (1 - Rate) per call and never overshoots.
type Easing struct {
	Current float64
	Rate    float64
}

// Advance moves Current toward target and returns the new value.
func (e *Easing) Advance(target float64) float64 {
	e.Current += (target - e.Current) * e.Rate
	return e.Current
}

// EasedPoint eases a 2D position toward a moving target, one Easing per axis.
// It backs both the pan offset and the pointer position.
type EasedPoint struct {
	Target  Vec2
	Current Vec2
	Rate    float64
}

// NewEasedPoint returns a point at rest at p.
func NewEasedPoint(p Vec2, rate float64) EasedPoint {
	return EasedPoint{Target: p, Current: p, Rate: rate}
}

// Advance eases Current one step toward Target and returns it.
func (e *EasedPoint) Advance() Vec2 {
	x := Easing{Current: e.Current.X, Rate: e.Rate}
	y := Easing{Current: e.Current.Y, Rate: e.Rate}
	e.Current = Vec2{x.Advance(e.Target.X), y.Advance(e.Target.Y)}
	return e.Current
}

// Snap sets both Target and Current to p, skipping any animation.
func (e *EasedPoint) Snap(p Vec2) {
	e.Target = p
	e.Current = p
}

// Distance returns how far Current is from Target.
func (e *EasedPoint) Distance() float64 {
	return e.Target.Sub(e.Current).Len()
}
