package graph

import (
	"math"

	"github.com/matzehuels/stresslayout/pkg/geom"
	"github.com/matzehuels/stresslayout/pkg/layout"
)

// =============================================================================
// Result - Layout Output
// =============================================================================

// Result is the serialization format for a finished layout.
type Result struct {
	RunID  string  `json:"run_id"`
	Dims   int     `json:"dims"`
	Ticks  int     `json:"ticks"`
	Stress float64 `json:"stress"`
	Bounds Bounds  `json:"bounds"`

	Nodes  []PlacedNode `json:"nodes"`
	Edges  []Edge       `json:"edges,omitempty"`
	Groups []GroupHull  `json:"groups,omitempty"`
}

// GroupHull outlines a group: the convex hull of its members' rectangles,
// including those of nested groups, grown by the group's padding.
type GroupHull struct {
	ID   string       `json:"id,omitempty"`
	Hull []geom.Point `json:"hull"`
}

// PlacedNode is a node with its final position.
type PlacedNode struct {
	ID     string         `json:"id"`
	Label  string         `json:"label,omitempty"`
	X      float64        `json:"x"`
	Y      float64        `json:"y"`
	Z      float64        `json:"z,omitempty"`
	Width  float64        `json:"width,omitempty"`
	Height float64        `json:"height,omitempty"`
	Fixed  bool           `json:"fixed,omitempty"`
	Meta   map[string]any `json:"meta,omitempty"`
}

// Bounds is the bounding box of the placed node rectangles.
type Bounds struct {
	X0 float64 `json:"x0"`
	X1 float64 `json:"x1"`
	Y0 float64 `json:"y0"`
	Y1 float64 `json:"y1"`
}

// Width returns X1 - X0.
func (b Bounds) Width() float64 { return b.X1 - b.X0 }

// Height returns Y1 - Y0.
func (b Bounds) Height() float64 { return b.Y1 - b.Y0 }

// NewResult pairs the nodes of g with the positions computed by l, which
// must have been built from g.Problem().
func NewResult(g Graph, l *layout.Layout) Result {
	nodes := l.Nodes()
	res := Result{
		RunID:  l.RunID(),
		Dims:   l.Options().Dims,
		Ticks:  l.Ticks(),
		Stress: l.Stress(),
		Nodes:  make([]PlacedNode, len(nodes)),
		Edges:  g.Edges,
	}
	b := Bounds{X0: math.Inf(1), X1: math.Inf(-1), Y0: math.Inf(1), Y1: math.Inf(-1)}
	for i, v := range nodes {
		pn := PlacedNode{X: v.X, Y: v.Y, Z: v.Z, Width: v.Width, Height: v.Height, Fixed: v.EffectivelyFixed()}
		if i < len(g.Nodes) {
			pn.ID = g.Nodes[i].ID
			pn.Label = g.Nodes[i].Label
			pn.Meta = g.Nodes[i].Meta
		}
		res.Nodes[i] = pn
		b.X0 = math.Min(b.X0, v.X-v.Width/2)
		b.X1 = math.Max(b.X1, v.X+v.Width/2)
		b.Y0 = math.Min(b.Y0, v.Y-v.Height/2)
		b.Y1 = math.Max(b.Y1, v.Y+v.Height/2)
	}
	if len(nodes) > 0 {
		res.Bounds = b
	}
	res.Groups = groupHulls(g, res.Nodes)
	return res
}

// groupHulls outlines each group of g. Groups whose members cannot be
// resolved are skipped.
func groupHulls(g Graph, nodes []PlacedNode) []GroupHull {
	if len(g.Groups) == 0 {
		return nil
	}
	byID := make(map[string]int, len(nodes))
	for i, n := range nodes {
		byID[n.ID] = i
	}
	groupByID := make(map[string]int, len(g.Groups))
	for i, gr := range g.Groups {
		if gr.ID != "" {
			groupByID[gr.ID] = i
		}
	}

	var members func(i int, seen map[int]bool) []int
	members = func(i int, seen map[int]bool) []int {
		if seen[i] {
			return nil
		}
		seen[i] = true
		var out []int
		for _, id := range g.Groups[i].Leaves {
			if j, ok := byID[id]; ok {
				out = append(out, j)
			}
		}
		for _, id := range g.Groups[i].Groups {
			if c, ok := groupByID[id]; ok {
				out = append(out, members(c, seen)...)
			}
		}
		return out
	}

	hulls := make([]GroupHull, 0, len(g.Groups))
	for i, gr := range g.Groups {
		var ps []geom.Point
		for _, j := range members(i, map[int]bool{}) {
			n := nodes[j]
			hw, hh := n.Width/2+gr.Padding, n.Height/2+gr.Padding
			ps = append(ps,
				geom.Point{X: n.X - hw, Y: n.Y - hh},
				geom.Point{X: n.X + hw, Y: n.Y - hh},
				geom.Point{X: n.X + hw, Y: n.Y + hh},
				geom.Point{X: n.X - hw, Y: n.Y + hh},
			)
		}
		if len(ps) == 0 {
			continue
		}
		hulls = append(hulls, GroupHull{ID: gr.ID, Hull: geom.ConvexHull(ps)})
	}
	return hulls
}
