package warpgrid

import "image"

// nodeIDCounter is a plain counter; nodes are only touched from the game
// goroutine.
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// Node is an element of the content layout tree. A container carries the
// pan translation; image cells carry a laid-out rectangle (relative to their
// parent) and the decoded image once it has loaded.
type Node struct {
	// Identity
	ID   uint32
	Name string
	Type NodeType

	// Hierarchy
	Parent   *Node
	children []*Node

	// Translation (local). Containers are panned by writing X and Y.
	X, Y float64

	// Layout is the cell's wrapper rectangle in the parent's space.
	Layout Rect

	// Source is the asset path the cell's image is loaded from.
	Source string

	Visible bool

	image image.Image

	worldTransform [6]float64
	transformDirty bool
}

func nodeDefaults(n *Node) {
	n.ID = nextNodeID()
	n.Visible = true
	n.transformDirty = true
	n.worldTransform = identityTransform
}

// NewContainer creates a container node with no visual representation.
func NewContainer(name string) *Node {
	n := &Node{Name: name, Type: NodeTypeContainer}
	nodeDefaults(n)
	return n
}

// NewImageCell creates an image cell occupying layout within its parent.
// The cell renders nothing until SetImage is called.
func NewImageCell(name, source string, layout Rect) *Node {
	n := &Node{Name: name, Type: NodeTypeImage, Source: source, Layout: layout}
	nodeDefaults(n)
	return n
}

// SetImage attaches the decoded image to the cell. A nil image marks the cell
// as not loaded again.
func (n *Node) SetImage(img image.Image) {
	n.image = img
}

// Image returns the decoded image, or nil while the cell is still loading.
func (n *Node) Image() image.Image {
	return n.image
}

// Loaded reports whether the cell has a decoded image to draw.
func (n *Node) Loaded() bool {
	return n.image != nil
}

// --- Tree manipulation ---

// AddChild appends child to this node's children.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil or child is an ancestor of this node (cycle).
func (n *Node) AddChild(child *Node) {
	if child == nil {
		panic("warpgrid: cannot add nil child")
	}
	if isAncestor(child, n) {
		panic("warpgrid: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = n
	n.children = append(n.children, child)
	markSubtreeDirty(child)
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// ChildAt returns the child at the given index.
func (n *Node) ChildAt(index int) *Node {
	return n.children[index]
}

// Extent returns the size of the union of the children's layout rectangles,
// measured from the container origin. This is the scrollable content size.
func (n *Node) Extent() Size {
	var w, h float64
	for _, c := range n.children {
		w = max(w, c.Layout.X+c.Layout.Width)
		h = max(h, c.Layout.Y+c.Layout.Height)
	}
	return Size{W: int(w), H: int(h)}
}

// --- Helpers ---

// isAncestor reports whether candidate is an ancestor of node.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from n.children without clearing child.Parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (n *Node) removeChildByPtr(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}

// markSubtreeDirty sets transformDirty on node and all its descendants.
func markSubtreeDirty(node *Node) {
	node.transformDirty = true
	for _, child := range node.children {
		markSubtreeDirty(child)
	}
}
