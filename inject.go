package warpgrid

// injectQueue holds synthetic pointer positions in viewport coordinates.
// One position is consumed per Update; while any are queued the real
// cursor is ignored.
type injectQueue struct {
	events []Vec2
}

// push queues a pointer move.
func (q *injectQueue) push(x, y float64) {
	q.events = append(q.events, Vec2{X: x, Y: y})
}

// pop removes and returns the oldest queued move.
func (q *injectQueue) pop() (Vec2, bool) {
	if len(q.events) == 0 {
		return Vec2{}, false
	}
	p := q.events[0]
	copy(q.events, q.events[1:])
	q.events = q.events[:len(q.events)-1]
	return p, true
}

func (q *injectQueue) len() int {
	return len(q.events)
}

// InjectMove queues a pointer move to (x, y) in viewport coordinates. The
// move is applied on the next Update, exactly like a real cursor move.
func (g *Game) InjectMove(x, y float64) {
	g.inject.push(x, y)
}

// InjectSweep queues a straight pointer path from (fromX, fromY) to
// (toX, toY), one move per frame over frames frames (minimum 2).
func (g *Game) InjectSweep(fromX, fromY, toX, toY float64, frames int) {
	frames = max(frames, 2)
	for i := range frames {
		t := float64(i) / float64(frames-1)
		g.inject.push(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
}

// pendingInjections reports how many injected moves are still queued.
func (g *Game) pendingInjections() int {
	return g.inject.len()
}

// processInjectedInput applies one queued move. It reports whether a move
// was consumed, in which case the real cursor is skipped this frame.
func (g *Game) processInjectedInput() bool {
	p, ok := g.inject.pop()
	if !ok {
		return false
	}
	g.rc.PointerMoved(p)
	return true
}
