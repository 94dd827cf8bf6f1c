package layout

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/stresslayout/pkg/descent"
	"github.com/matzehuels/stresslayout/pkg/errors"
	"github.com/matzehuels/stresslayout/pkg/vpsc"
)

// fixedWeight holds a fixed node near its pinned position during projection.
const fixedWeight = 1000.0

type projectionPhase int

const (
	phaseNone projectionPhase = iota
	phaseUser
	phaseAll
)

// projector enforces separation constraints after each descent step. Overlap
// constraints along x depend on y and vice versa, so both axes are projected
// together once the y step has been taken.
type projector struct {
	nodes         []*Node
	user          [3][]Constraint
	groups        []Group
	avoidOverlaps bool
	dims          int
	phase         projectionPhase
	log           *log.Logger
}

func newProjector(l *Layout) (*projector, error) {
	p := &projector{
		nodes:         l.nodes,
		groups:        l.groups,
		avoidOverlaps: l.opts.AvoidOverlaps,
		dims:          l.opts.Dims,
		phase:         phaseAll,
		log:           l.log,
	}
	for _, c := range l.constraints {
		dim, _ := errors.ValidateAxis(c.Axis, p.dims)
		p.user[dim] = append(p.user[dim], c)
	}
	for dim := 0; dim < p.dims; dim++ {
		vs := make([]*vpsc.Variable, len(p.nodes))
		for i := range vs {
			vs[i] = vpsc.NewVariable(0, 1)
		}
		if err := vpsc.CheckFeasible(vs, userConstraints(p.user[dim], vs)); err != nil {
			return nil, errors.Wrap(errors.ErrCodeUnsatisfiable, err, "%s constraints are infeasible", axisNames[dim])
		}
	}
	return p, nil
}

var axisNames = [3]string{"x", "y", "z"}

// projections returns one projection per dimension. Dimension 0 is handled
// together with dimension 1.
func (p *projector) projections() []descent.Projection {
	ps := make([]descent.Projection, p.dims)
	ps[1] = p.projectXY
	if p.dims == 3 {
		ps[2] = p.projectZ
	}
	return ps
}

func (p *projector) projectXY(x [][]float64, dim int) error {
	if p.phase == phaseNone {
		return nil
	}
	overlaps := p.phase == phaseAll && p.avoidOverlaps
	var rs []*vpsc.Rectangle
	if overlaps {
		rs = p.rectangles(x)
	}

	xs, err := p.solveAxis(x[0], 0, rs, func(r *vpsc.Rectangle, v float64) { r.SetXCentre(v) })
	if err != nil {
		return err
	}
	copy(x[0], xs)
	ys, err := p.solveAxis(x[1], 1, rs, func(r *vpsc.Rectangle, v float64) { r.SetYCentre(v) })
	if err != nil {
		return err
	}
	copy(x[1], ys)
	return nil
}

func (p *projector) projectZ(x [][]float64, dim int) error {
	if p.phase == phaseNone {
		return nil
	}
	zs, err := p.solveAxis(x[dim], dim, nil, nil)
	if err != nil {
		return err
	}
	copy(x[dim], zs)
	return nil
}

// solveAxis places the nodes along one axis as close to pos as the user
// constraints, and the overlap constraints when rs is set, allow. Solved
// centres are written back into rs with set.
//
// Overlap and group constraints are generated from intermediate positions
// and may contradict a user constraint. Abandoned generated constraints are
// skipped. When a user constraint is abandoned instead, the step is solved
// with the user constraints alone, and only their failure is an error.
func (p *projector) solveAxis(pos []float64, dim int, rs []*vpsc.Rectangle, set func(*vpsc.Rectangle, float64)) ([]float64, error) {
	vs := p.variables(pos, dim)
	cs := userConstraints(p.user[dim], vs)
	nUser := len(cs)
	all := vs
	if rs != nil {
		if len(p.groups) > 0 {
			root, boundary := p.hierarchy(rs, vs)
			if dim == 0 {
				cs = append(cs, vpsc.GenerateXGroupConstraints(root)...)
			} else {
				cs = append(cs, vpsc.GenerateYGroupConstraints(root)...)
			}
			all = append(append([]*vpsc.Variable(nil), vs...), boundary()...)
		} else if dim == 0 {
			cs = append(cs, vpsc.GenerateXConstraints(rs, vs)...)
		} else {
			cs = append(cs, vpsc.GenerateYConstraints(rs, vs)...)
		}
	}
	if len(cs) == 0 && !p.anyFixed() {
		return pos, nil
	}
	if _, err := vpsc.NewSolver(all, cs).Solve(); err != nil {
		var ue *errors.UnsatisfiableError
		switch {
		case !errors.As(err, &ue):
			return nil, err
		case !abandoned(cs[:nUser]):
			p.log.Debug("generated constraints abandoned", "axis", axisNames[dim], "count", countAbandoned(cs[nUser:]))
		case nUser < len(cs):
			// A generated constraint won against a user constraint. The user
			// constraints are feasible on their own, so solve them alone.
			p.log.Debug("overlap constraints skipped for this step", "axis", axisNames[dim])
			vs = p.variables(pos, dim)
			if _, err := vpsc.NewSolver(vs, userConstraints(p.user[dim], vs)).Solve(); err != nil {
				return nil, err
			}
		default:
			return nil, err
		}
	}
	out := make([]float64, len(vs))
	for i, v := range vs {
		out[i] = v.Position()
		if rs != nil {
			set(rs[i], out[i])
		}
	}
	return out, nil
}

// variables returns one solver variable per node, desired at pos or, for
// fixed nodes, at the pinned coordinate.
func (p *projector) variables(pos []float64, dim int) []*vpsc.Variable {
	vs := make([]*vpsc.Variable, len(p.nodes))
	for i, v := range p.nodes {
		if v.EffectivelyFixed() {
			vs[i] = vpsc.NewVariable(v.pinned(dim), fixedWeight)
		} else {
			vs[i] = vpsc.NewVariable(pos[i], 1)
		}
	}
	return vs
}

func abandoned(cs []*vpsc.Constraint) bool { return countAbandoned(cs) > 0 }

func countAbandoned(cs []*vpsc.Constraint) int {
	k := 0
	for _, c := range cs {
		if c.Unsatisfiable() {
			k++
		}
	}
	return k
}

func (p *projector) anyFixed() bool {
	for _, v := range p.nodes {
		if v.EffectivelyFixed() {
			return true
		}
	}
	return false
}

func userConstraints(cs []Constraint, vs []*vpsc.Variable) []*vpsc.Constraint {
	out := make([]*vpsc.Constraint, 0, len(cs))
	for _, c := range cs {
		if c.Equality {
			out = append(out, vpsc.NewEquality(vs[c.Left], vs[c.Right], c.Gap))
		} else {
			out = append(out, vpsc.NewConstraint(vs[c.Left], vs[c.Right], c.Gap))
		}
	}
	return out
}

// rectangles returns each node's box centred on its current position.
func (p *projector) rectangles(x [][]float64) []*vpsc.Rectangle {
	rs := make([]*vpsc.Rectangle, len(p.nodes))
	for i, v := range p.nodes {
		cx, cy := x[0][i], x[1][i]
		rs[i] = vpsc.NewRectangle(cx-v.Width/2, cx+v.Width/2, cy-v.Height/2, cy+v.Height/2)
	}
	return rs
}

// hierarchy builds the vpsc group tree for one axis. Ungrouped nodes and
// top-level groups hang off an uncontained root. The returned function lists
// the boundary variables once constraints have been generated.
func (p *projector) hierarchy(rs []*vpsc.Rectangle, vs []*vpsc.Variable) (*vpsc.Group, func() []*vpsc.Variable) {
	gs := make([]*vpsc.Group, len(p.groups))
	for i, g := range p.groups {
		gs[i] = &vpsc.Group{Padding: g.Padding}
	}
	grouped := make([]bool, len(p.nodes))
	hasParent := make([]bool, len(gs))
	for i, g := range p.groups {
		for _, leaf := range g.Leaves {
			gs[i].Leaves = append(gs[i].Leaves, &vpsc.Leaf{Bounds: rs[leaf], Variable: vs[leaf]})
			grouped[leaf] = true
		}
		for _, c := range g.Groups {
			gs[i].Groups = append(gs[i].Groups, gs[c])
			hasParent[c] = true
		}
	}

	root := &vpsc.Group{}
	for i, ok := range grouped {
		if !ok {
			root.Leaves = append(root.Leaves, &vpsc.Leaf{Bounds: rs[i], Variable: vs[i]})
		}
	}
	for i, g := range gs {
		if !hasParent[i] {
			root.Groups = append(root.Groups, g)
		}
	}
	vpsc.ComputeGroupBounds(root)

	return root, func() []*vpsc.Variable {
		var bs []*vpsc.Variable
		for _, g := range gs {
			if g.MinVar != nil {
				bs = append(bs, g.MinVar, g.MaxVar)
			}
		}
		return bs
	}
}

// validateGroups rejects hierarchies that are not a forest of non-empty
// groups over distinct nodes.
func validateGroups(groups []Group, n int) error {
	if len(groups) == 0 {
		return nil
	}
	owner := make(map[int]int)
	parent := make([]int, len(groups))
	for i := range parent {
		parent[i] = -1
	}
	for i, g := range groups {
		if len(g.Leaves) == 0 && len(g.Groups) == 0 {
			return errors.New(errors.ErrCodeInvalidInput, "group %d is empty", i)
		}
		if err := errors.ValidateNonNegative(fieldName("group", i, "padding"), g.Padding); err != nil {
			return err
		}
		for _, leaf := range g.Leaves {
			if err := errors.ValidateIndex(fieldName("group", i, "leaves"), leaf, n); err != nil {
				return err
			}
			if prev, ok := owner[leaf]; ok {
				return errors.New(errors.ErrCodeInvalidInput, "node %d is in groups %d and %d", leaf, prev, i)
			}
			owner[leaf] = i
		}
		for _, c := range g.Groups {
			if err := errors.ValidateIndex(fieldName("group", i, "groups"), c, len(groups)); err != nil {
				return err
			}
			if parent[c] >= 0 {
				return errors.New(errors.ErrCodeInvalidInput, "group %d has parents %d and %d", c, parent[c], i)
			}
			parent[c] = i
		}
	}
	// With at most one parent each, a group not reachable from a root lies
	// on a cycle.
	for i := range groups {
		seen := 0
		for g := i; parent[g] >= 0; g = parent[g] {
			if seen++; seen > len(groups) {
				return errors.New(errors.ErrCodeInvalidInput, "group %d is nested inside itself", i)
			}
		}
	}
	return nil
}
