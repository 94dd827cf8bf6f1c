package layout

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Components returns the node indices of each connected component, ordered
// by smallest member.
func (l *Layout) Components() [][]int {
	g := simple.NewUndirectedGraph()
	for i := range l.nodes {
		g.AddNode(simple.Node(i))
	}
	for _, e := range l.links {
		if e.Source == e.Target {
			continue
		}
		g.SetEdge(simple.Edge{F: simple.Node(e.Source), T: simple.Node(e.Target)})
	}

	var comps [][]int
	for _, c := range topo.ConnectedComponents(g) {
		ids := make([]int, len(c))
		for i, n := range c {
			ids[i] = int(n.ID())
		}
		sort.Ints(ids)
		comps = append(comps, ids)
	}
	sort.Slice(comps, func(i, j int) bool { return comps[i][0] < comps[j][0] })
	return comps
}

// packComponents lays the connected components out in a row across the
// middle of the canvas, ComponentPadding apart. Layouts with fixed nodes are
// left alone.
func (l *Layout) packComponents() {
	for _, v := range l.nodes {
		if v.EffectivelyFixed() {
			return
		}
	}
	comps := l.Components()
	if len(comps) < 2 {
		return
	}

	type box struct{ x0, x1, y0, y1 float64 }
	boxes := make([]box, len(comps))
	total := l.opts.ComponentPadding * float64(len(comps)-1)
	for i, c := range comps {
		b := box{math.Inf(1), math.Inf(-1), math.Inf(1), math.Inf(-1)}
		for _, j := range c {
			v := l.nodes[j]
			b.x0 = math.Min(b.x0, v.X-v.Width/2)
			b.x1 = math.Max(b.x1, v.X+v.Width/2)
			b.y0 = math.Min(b.y0, v.Y-v.Height/2)
			b.y1 = math.Max(b.y1, v.Y+v.Height/2)
		}
		boxes[i] = b
		total += b.x1 - b.x0
	}

	x := l.descent.X
	cursor := (l.opts.Size[0] - total) / 2
	cy := l.opts.Size[1] / 2
	for i, c := range comps {
		b := boxes[i]
		dx := cursor - b.x0
		dy := cy - (b.y0+b.y1)/2
		for _, j := range c {
			x[0][j] += dx
			x[1][j] += dy
			l.nodes[j].X = x[0][j]
			l.nodes[j].Y = x[1][j]
		}
		cursor += b.x1 - b.x0 + l.opts.ComponentPadding
	}
	l.log.Debug("packed components", "run", l.runID, "components", len(comps))
}
