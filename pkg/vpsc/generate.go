package vpsc

import (
	"sort"

	"github.com/emirpasic/gods/sets/treeset"
	rbt "github.com/emirpasic/gods/trees/redblacktree"
)

// MinSeparation is added to every generated separation so that solved
// rectangles end strictly apart.
const MinSeparation = 1e-6

// =============================================================================
// Axis Accessors
// =============================================================================

// axis bundles the per-axis operations that let one sweep-line algorithm
// generate constraints along either X or Y.
type axis struct {
	centre         func(r *Rectangle) float64
	open           func(r *Rectangle) float64
	close          func(r *Rectangle) float64
	size           func(r *Rectangle) float64
	makeRect       func(open, close, centre, size float64) *Rectangle
	findNeighbours func(s *sweep, v int)
}

var xAxis = axis{
	centre: (*Rectangle).CX,
	open:   func(r *Rectangle) float64 { return r.Y0 },
	close:  func(r *Rectangle) float64 { return r.Y1 },
	size:   (*Rectangle).Width,
	makeRect: func(open, close, centre, size float64) *Rectangle {
		return NewRectangle(centre-size/2, centre+size/2, open, close)
	},
	findNeighbours: (*sweep).findXNeighbours,
}

var yAxis = axis{
	centre: (*Rectangle).CY,
	open:   func(r *Rectangle) float64 { return r.X0 },
	close:  func(r *Rectangle) float64 { return r.X1 },
	size:   (*Rectangle).Height,
	makeRect: func(open, close, centre, size float64) *Rectangle {
		return NewRectangle(open, close, centre-size/2, centre+size/2)
	},
	findNeighbours: (*sweep).findYNeighbours,
}

// =============================================================================
// Sweep Line
// =============================================================================

// sweepNode is a rectangle while it is crossed by the sweep line. Neighbour
// sets hold node indices, ordered like the scanline.
type sweepNode struct {
	v    *Variable
	r    *Rectangle
	pos  float64
	prev *treeset.Set
	next *treeset.Set
}

type event struct {
	open bool
	node int
	pos  float64
}

// sweep owns every node handle for the duration of one generation pass.
type sweep struct {
	nodes    []sweepNode
	scanline *rbt.Tree
}

func newSweep() *sweep {
	return &sweep{}
}

// compare orders node indices by centre position, breaking ties by index so
// that rectangles sharing a centre remain distinct entries.
func (s *sweep) compare(a, b interface{}) int {
	i, j := a.(int), b.(int)
	pi, pj := s.nodes[i].pos, s.nodes[j].pos
	switch {
	case pi < pj:
		return -1
	case pi > pj:
		return 1
	case i < j:
		return -1
	case i > j:
		return 1
	}
	return 0
}

func (s *sweep) newSet() *treeset.Set {
	return treeset.NewWith(s.compare)
}

// step moves one node along the scanline, forward (successor) or backward.
func (s *sweep) step(n *rbt.Node, forward bool) *rbt.Node {
	if forward {
		return successor(n)
	}
	return predecessor(n)
}

func (s *sweep) lookup(v int) *rbt.Node {
	n, found := s.scanline.Floor(v)
	if !found || n.Key.(int) != v {
		return nil
	}
	return n
}

func (s *sweep) link(v, u int, forward bool) {
	if forward {
		s.nodes[v].next.Add(u)
		s.nodes[u].prev.Add(v)
	} else {
		s.nodes[v].prev.Add(u)
		s.nodes[u].next.Add(v)
	}
}

func (s *sweep) findXNeighbours(v int) {
	for _, forward := range []bool{true, false} {
		n := s.lookup(v)
		for n = s.step(n, forward); n != nil; n = s.step(n, forward) {
			u := n.Key.(int)
			ovx := s.nodes[u].r.OverlapX(s.nodes[v].r)
			if ovx <= 0 || ovx <= s.nodes[u].r.OverlapY(s.nodes[v].r) {
				s.link(v, u, forward)
			}
			if ovx <= 0 {
				break
			}
		}
	}
}

func (s *sweep) findYNeighbours(v int) {
	for _, forward := range []bool{true, false} {
		n := s.step(s.lookup(v), forward)
		if n == nil {
			continue
		}
		u := n.Key.(int)
		if s.nodes[u].r.OverlapX(s.nodes[v].r) > 0 {
			s.link(v, u, forward)
		}
	}
}

func successor(n *rbt.Node) *rbt.Node {
	if n.Right != nil {
		n = n.Right
		for n.Left != nil {
			n = n.Left
		}
		return n
	}
	p := n.Parent
	for p != nil && n == p.Right {
		n, p = p, p.Parent
	}
	return p
}

func predecessor(n *rbt.Node) *rbt.Node {
	if n.Left != nil {
		n = n.Left
		for n.Right != nil {
			n = n.Right
		}
		return n
	}
	p := n.Parent
	for p != nil && n == p.Left {
		n, p = p, p.Parent
	}
	return p
}

// generateConstraints sweeps rectangles along the open/close axis and emits
// separation constraints between neighbours along the centre axis.
func generateConstraints(rs []*Rectangle, vars []*Variable, ax axis, minSep float64) []*Constraint {
	n := len(rs)
	s := newSweep()
	s.nodes = make([]sweepNode, n)
	events := make([]event, 0, 2*n)
	for i, r := range rs {
		s.nodes[i] = sweepNode{v: vars[i], r: r, pos: ax.centre(r)}
		s.nodes[i].prev = s.newSet()
		s.nodes[i].next = s.newSet()
		events = append(events,
			event{open: true, node: i, pos: ax.open(r)},
			event{open: false, node: i, pos: ax.close(r)})
	}
	sort.SliceStable(events, func(a, b int) bool {
		ea, eb := events[a], events[b]
		if ea.pos != eb.pos {
			return ea.pos < eb.pos
		}
		return ea.open && !eb.open
	})

	s.scanline = rbt.NewWith(s.compare)
	var cs []*Constraint
	makeConstraint := func(l, r int) {
		sep := (ax.size(s.nodes[l].r)+ax.size(s.nodes[r].r))/2 + minSep
		cs = append(cs, NewConstraint(s.nodes[l].v, s.nodes[r].v, sep))
	}
	for _, e := range events {
		v := e.node
		if e.open {
			s.scanline.Put(v, nil)
			ax.findNeighbours(s, v)
			continue
		}
		s.scanline.Remove(v)
		for _, u := range s.nodes[v].prev.Values() {
			makeConstraint(u.(int), v)
			s.nodes[u.(int)].next.Remove(v)
		}
		for _, u := range s.nodes[v].next.Values() {
			makeConstraint(v, u.(int))
			s.nodes[u.(int)].prev.Remove(v)
		}
	}
	return cs
}

// =============================================================================
// Public API
// =============================================================================

// GenerateXConstraints returns constraints that separate rs horizontally
// wherever horizontal separation is the cheaper way to remove an overlap.
// vars[i] is the horizontal centre variable of rs[i].
func GenerateXConstraints(rs []*Rectangle, vars []*Variable) []*Constraint {
	return generateConstraints(rs, vars, xAxis, MinSeparation)
}

// GenerateYConstraints returns constraints that separate rs vertically.
// vars[i] is the vertical centre variable of rs[i].
func GenerateYConstraints(rs []*Rectangle, vars []*Variable) []*Constraint {
	return generateConstraints(rs, vars, yAxis, MinSeparation)
}

// RemoveOverlaps moves the centres of rs so that no two rectangles overlap,
// first horizontally and then vertically. Widths and heights are preserved.
func RemoveOverlaps(rs []*Rectangle) error {
	if err := removeOverlapsAlong(rs, xAxis, (*Rectangle).SetXCentre); err != nil {
		return err
	}
	return removeOverlapsAlong(rs, yAxis, (*Rectangle).SetYCentre)
}

func removeOverlapsAlong(rs []*Rectangle, ax axis, set func(*Rectangle, float64)) error {
	vs := make([]*Variable, len(rs))
	for i, r := range rs {
		vs[i] = NewVariable(ax.centre(r), 1)
	}
	cs := generateConstraints(rs, vs, ax, MinSeparation)
	if _, err := NewSolver(vs, cs).Solve(); err != nil {
		return err
	}
	for i, v := range vs {
		set(rs[i], v.Position())
	}
	return nil
}
