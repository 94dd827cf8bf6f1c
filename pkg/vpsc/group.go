package vpsc

// groupBoundaryWeight is the weight given to group boundary variables, which
// should follow their members rather than pull on them.
const groupBoundaryWeight = 0.01

// Leaf is a rectangle in a group hierarchy together with its centre variable
// along the axis being generated.
type Leaf struct {
	Bounds   *Rectangle
	Variable *Variable
}

// Group is a node in a hierarchy of rectangle clusters. Members of a group
// are kept inside its boundary, and the group as a whole is kept apart from
// its siblings.
type Group struct {
	Leaves  []*Leaf
	Groups  []*Group
	Padding float64 // Margin around members, split evenly either side of the boundary; 0 selects 1
	Bounds  *Rectangle

	// MinVar and MaxVar are the boundary positions along the generated axis.
	// They are created on demand by the generators.
	MinVar, MaxVar *Variable

	minRect, maxRect *Rectangle
}

func (g *Group) padding() float64 {
	if g.Padding == 0 {
		return 1
	}
	return g.Padding
}

// ComputeGroupBounds sets g.Bounds, and the bounds of every descendant group,
// to the union of the member rectangles grown by the group's padding, and
// returns g.Bounds.
func ComputeGroupBounds(g *Group) *Rectangle {
	b := EmptyRectangle()
	for _, l := range g.Leaves {
		b = l.Bounds.Union(b)
	}
	for _, c := range g.Groups {
		b = ComputeGroupBounds(c).Union(b)
	}
	g.Bounds = b.Inflate(g.padding())
	return g.Bounds
}

// GroupVariables returns every variable referenced by the hierarchy rooted at
// g: leaf variables and the boundary variables of contained groups.
func GroupVariables(g *Group) []*Variable {
	var vs []*Variable
	var walk func(g *Group, contained bool)
	walk = func(g *Group, contained bool) {
		if contained && g.MinVar != nil {
			vs = append(vs, g.MinVar, g.MaxVar)
		}
		for _, l := range g.Leaves {
			vs = append(vs, l.Variable)
		}
		for _, c := range g.Groups {
			walk(c, true)
		}
	}
	walk(g, false)
	return vs
}

// GenerateXGroupConstraints returns horizontal constraints for the hierarchy
// rooted at root. Bounds must be current; see ComputeGroupBounds.
func GenerateXGroupConstraints(root *Group) []*Constraint {
	return generateGroupConstraints(root, xAxis, MinSeparation, false)
}

// GenerateYGroupConstraints is the vertical counterpart of
// GenerateXGroupConstraints.
func GenerateYGroupConstraints(root *Group) []*Constraint {
	return generateGroupConstraints(root, yAxis, MinSeparation, false)
}

// generateGroupConstraints works innermost first so that child bounds and
// boundary variables exist before they stand in for the child at this level.
func generateGroupConstraints(root *Group, ax axis, minSep float64, contained bool) []*Constraint {
	padding := root.padding()
	var childConstraints []*Constraint
	for _, g := range root.Groups {
		childConstraints = append(childConstraints, generateGroupConstraints(g, ax, minSep, true)...)
	}

	n := len(root.Leaves) + len(root.Groups)
	if contained {
		n += 2
	}
	vs := make([]*Variable, 0, n)
	rs := make([]*Rectangle, 0, n)
	if contained {
		// The boundary boxes fill the padding strips just inside the bounds.
		c, s := ax.centre(root.Bounds), ax.size(root.Bounds)/2
		open, close := ax.open(root.Bounds), ax.close(root.Bounds)
		root.minRect = ax.makeRect(open, close, c-s+padding/2, padding)
		root.maxRect = ax.makeRect(open, close, c+s-padding/2, padding)
		ensureBoundaryVars(root)
		root.MinVar.Desired = ax.centre(root.minRect)
		root.MaxVar.Desired = ax.centre(root.maxRect)
		rs = append(rs, root.minRect, root.maxRect)
		vs = append(vs, root.MinVar, root.MaxVar)
	}
	for _, l := range root.Leaves {
		rs = append(rs, l.Bounds)
		vs = append(vs, l.Variable)
	}
	for _, g := range root.Groups {
		ensureBoundaryVars(g)
		g.minRect = ax.makeRect(ax.open(g.Bounds), ax.close(g.Bounds), ax.centre(g.Bounds), ax.size(g.Bounds))
		rs = append(rs, g.minRect)
		vs = append(vs, g.MinVar)
	}

	cs := generateConstraints(rs, vs, ax, minSep)
	if len(root.Groups) > 0 {
		for _, g := range root.Groups {
			shrink := (g.padding() - ax.size(g.Bounds)) / 2
			for _, c := range cs {
				switch {
				case c.Right == g.MinVar:
					c.Gap += shrink
				case c.Left == g.MinVar:
					c.Left = g.MaxVar
					c.Gap += shrink
				}
			}
		}
	}
	return append(childConstraints, cs...)
}

func ensureBoundaryVars(g *Group) {
	if g.MinVar == nil {
		g.MinVar = NewVariable(0, groupBoundaryWeight)
	}
	if g.MaxVar == nil {
		g.MaxVar = NewVariable(0, groupBoundaryWeight)
	}
}
