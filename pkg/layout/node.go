package layout

import "fmt"

// FixState says why, if at all, a node is held at its pinned position.
type FixState int

const (
	// Free nodes are moved by the layout.
	Free FixState = iota
	// UserFixed nodes were pinned by the caller and stay pinned until
	// released with SetFixed.
	UserFixed
	// Dragging nodes follow the pointer until DragEnd.
	Dragging
	// Hovering nodes are held while the pointer rests on them.
	Hovering
)

func (s FixState) String() string {
	switch s {
	case Free:
		return "free"
	case UserFixed:
		return "fixed"
	case Dragging:
		return "dragging"
	case Hovering:
		return "hovering"
	}
	return fmt.Sprintf("FixState(%d)", int(s))
}

// Node is a vertex of the layout. X, Y and Z are updated in place after every
// tick; renderers read them directly.
type Node struct {
	Index int
	X     float64
	Y     float64
	Z     float64

	// Width and Height size the node's rectangle for overlap avoidance.
	Width  float64
	Height float64

	// Fixed is the node's pin state. Use the drag and SetFixed methods on
	// Layout to change it.
	Fixed FixState

	// PX, PY and PZ hold the pinned position of a fixed node.
	PX, PY, PZ float64

	// sticky survives drag and hover transitions.
	sticky bool
}

// EffectivelyFixed reports whether the layout must hold n at its pinned
// position.
func (n *Node) EffectivelyFixed() bool {
	return n.Fixed != Free
}

// released is the state a node falls back to when a drag or hover ends.
func (n *Node) released() FixState {
	if n.sticky {
		return UserFixed
	}
	return Free
}

func (n *Node) coord(dim int) float64 {
	switch dim {
	case 0:
		return n.X
	case 1:
		return n.Y
	}
	return n.Z
}

func (n *Node) setCoord(dim int, v float64) {
	switch dim {
	case 0:
		n.X = v
	case 1:
		n.Y = v
	default:
		n.Z = v
	}
}

func (n *Node) pinned(dim int) float64 {
	switch dim {
	case 0:
		return n.PX
	case 1:
		return n.PY
	}
	return n.PZ
}

func (n *Node) pin() {
	n.PX, n.PY, n.PZ = n.X, n.Y, n.Z
}

// Link is an undirected edge between two node indices. Length scales the
// ideal distance of this link; zero means 1.
type Link struct {
	Source int     `json:"source" yaml:"source"`
	Target int     `json:"target" yaml:"target"`
	Length float64 `json:"length,omitempty" yaml:"length,omitempty"`
}

// EffectiveLength returns Length, or 1 when it is unset.
func (l Link) EffectiveLength() float64 {
	if l.Length == 0 {
		return 1
	}
	return l.Length
}

// Constraint separates two nodes along one axis:
//
//	pos[Right] - pos[Left] >= Gap   (== Gap when Equality is set)
type Constraint struct {
	Axis     string  `json:"axis" yaml:"axis"`
	Left     int     `json:"left" yaml:"left"`
	Right    int     `json:"right" yaml:"right"`
	Gap      float64 `json:"gap" yaml:"gap"`
	Equality bool    `json:"equality,omitempty" yaml:"equality,omitempty"`
}

// Group clusters nodes for overlap avoidance. Leaves are node indices and
// Groups are indices of nested groups in the same slice. A node may belong
// to at most one group, and a group to at most one parent.
type Group struct {
	Leaves  []int   `json:"leaves,omitempty" yaml:"leaves,omitempty"`
	Groups  []int   `json:"groups,omitempty" yaml:"groups,omitempty"`
	Padding float64 `json:"padding,omitempty" yaml:"padding,omitempty"`
}
