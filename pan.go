package warpgrid

// PanController maps the pointer position to a scroll offset for the content
// container. Moving the pointer across the viewport scrolls across the part
// of the content that does not fit, scaled by Damping so the edges are never
// reached. The offset eases toward its target on every Tick.
type PanController struct {
	container *Node
	offset    EasedPoint
	damping   float64
}

// NewPanController creates a controller that translates container.
func NewPanController(container *Node, damping, ease float64) *PanController {
	return &PanController{
		container: container,
		offset:    NewEasedPoint(Vec2{}, ease),
		damping:   damping,
	}
}

// PointerMoved recomputes the pan target for pointer p:
//
//	target = -(p / viewport * max(0, content - viewport) * damping)
//
// per axis, with p clamped to the viewport. An empty viewport leaves the
// target unchanged.
func (c *PanController) PointerMoved(p Vec2, viewport, content Size) {
	if viewport.Empty() {
		return
	}
	c.offset.Target = Vec2{
		X: panAxis(p.X, viewport.W, content.W, c.damping),
		Y: panAxis(p.Y, viewport.H, content.H, c.damping),
	}
}

func panAxis(p float64, viewport, content int, damping float64) float64 {
	p = min(max(p, 0), float64(viewport))
	overflow := float64(max(0, content-viewport))
	return -(p / float64(viewport) * overflow * damping)
}

// Tick eases the offset one step and writes it to the container.
func (c *PanController) Tick() {
	cur := c.offset.Advance()
	c.container.SetPosition(cur.X, cur.Y)
}

// Reset snaps the offset to zero, used when the viewport is resized.
func (c *PanController) Reset() {
	c.offset.Snap(Vec2{})
	c.container.SetPosition(0, 0)
}

// Target returns the offset being eased toward.
func (c *PanController) Target() Vec2 {
	return c.offset.Target
}

// Offset returns the current offset.
func (c *PanController) Offset() Vec2 {
	return c.offset.Current
}
