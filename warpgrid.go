package warpgrid

import "math"

// Vec2 is a 2D vector used for positions, offsets, and pointer coordinates
// throughout the API.
type Vec2 struct {
	X, Y float64
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{v.X - o.X, v.Y - o.Y}
}

// Len returns the Euclidean length of v.
func (v Vec2) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// Size is a width/height pair in logical pixels. It is used for the viewport,
// the content extent, and the canvas backing size.
type Size struct {
	W, H int
}

// Center returns the midpoint of a rectangle of this size anchored at the origin.
func (s Size) Center() Vec2 {
	return Vec2{float64(s.W) / 2, float64(s.H) / 2}
}

// Empty reports whether either dimension is non-positive.
func (s Size) Empty() bool {
	return s.W <= 0 || s.H <= 0
}

// Scaled returns the size multiplied by f, truncated to whole pixels.
func (s Size) Scaled(f float64) Size {
	return Size{int(math.Floor(float64(s.W) * f)), int(math.Floor(float64(s.H) * f))}
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Intersects reports whether r and other share a non-empty area.
// Rectangles that only touch along an edge do not intersect.
func (r Rect) Intersects(other Rect) bool {
	return r.X < other.X+other.Width &&
		r.X+r.Width > other.X &&
		r.Y < other.Y+other.Height &&
		r.Y+r.Height > other.Y
}

// NodeType distinguishes the role of a Node in the content layout tree.
type NodeType uint8

const (
	NodeTypeContainer NodeType = iota // group node carrying the pan transform
	NodeTypeImage                     // image cell: a wrapper rectangle holding one image
)

// Stage identifies a shader stage.
type Stage uint8

const (
	StageVertex Stage = iota
	StageFragment
)

func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	default:
		return "unknown"
	}
}
