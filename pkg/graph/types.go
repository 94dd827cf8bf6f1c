package graph

import (
	"github.com/matzehuels/stresslayout/pkg/errors"
	"github.com/matzehuels/stresslayout/pkg/layout"
)

// Input formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// =============================================================================
// Graph - Layout Input
// =============================================================================

// Graph is the serialization format for layout input.
type Graph struct {
	Nodes       []Node       `json:"nodes" yaml:"nodes"`
	Edges       []Edge       `json:"edges" yaml:"edges"`
	Constraints []Constraint `json:"constraints,omitempty" yaml:"constraints,omitempty"`
	Groups      []Group      `json:"groups,omitempty" yaml:"groups,omitempty"`
}

// Node is a vertex. Width and Height size it for overlap avoidance; X, Y and
// Z are its pinned position when Fixed is set.
type Node struct {
	ID     string         `json:"id" yaml:"id"`
	Label  string         `json:"label,omitempty" yaml:"label,omitempty"` // Display label (defaults to ID)
	Width  float64        `json:"width,omitempty" yaml:"width,omitempty"`
	Height float64        `json:"height,omitempty" yaml:"height,omitempty"`
	Fixed  bool           `json:"fixed,omitempty" yaml:"fixed,omitempty"`
	X      float64        `json:"x,omitempty" yaml:"x,omitempty"`
	Y      float64        `json:"y,omitempty" yaml:"y,omitempty"`
	Z      float64        `json:"z,omitempty" yaml:"z,omitempty"`
	Meta   map[string]any `json:"meta,omitempty" yaml:"meta,omitempty"`
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Edge is an undirected link. Length multiplies the ideal link distance;
// zero means 1.
type Edge struct {
	From   string  `json:"from" yaml:"from"`
	To     string  `json:"to" yaml:"to"`
	Length float64 `json:"length,omitempty" yaml:"length,omitempty"`
}

// Constraint keeps Right at least Gap after Left along Axis, or exactly Gap
// after it when Equality is set.
type Constraint struct {
	Axis     string  `json:"axis" yaml:"axis"`
	Left     string  `json:"left" yaml:"left"`
	Right    string  `json:"right" yaml:"right"`
	Gap      float64 `json:"gap,omitempty" yaml:"gap,omitempty"`
	Equality bool    `json:"equality,omitempty" yaml:"equality,omitempty"`
}

// Group clusters nodes (Leaves) and nested groups (Groups, by group ID).
type Group struct {
	ID      string   `json:"id,omitempty" yaml:"id,omitempty"`
	Leaves  []string `json:"leaves,omitempty" yaml:"leaves,omitempty"`
	Groups  []string `json:"groups,omitempty" yaml:"groups,omitempty"`
	Padding float64  `json:"padding,omitempty" yaml:"padding,omitempty"`
}

// =============================================================================
// Graph → layout conversion
// =============================================================================

// Problem is a Graph resolved to the index-based types of pkg/layout. Node i
// corresponds to Graph.Nodes[i].
type Problem struct {
	Nodes       []*layout.Node
	Links       []layout.Link
	Constraints []layout.Constraint
	Groups      []layout.Group
}

// Problem resolves IDs to indices. It returns INVALID_INPUT for empty or
// duplicate IDs and for references to unknown nodes or groups.
func (g Graph) Problem() (*Problem, error) {
	index := make(map[string]int, len(g.Nodes))
	p := &Problem{Nodes: make([]*layout.Node, len(g.Nodes))}
	for i, n := range g.Nodes {
		if n.ID == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "node %d has no id", i)
		}
		if _, dup := index[n.ID]; dup {
			return nil, errors.New(errors.ErrCodeInvalidInput, "duplicate node id %q", n.ID)
		}
		index[n.ID] = i
		v := &layout.Node{Index: i, X: n.X, Y: n.Y, Z: n.Z, Width: n.Width, Height: n.Height}
		if n.Fixed {
			v.Fixed = layout.UserFixed
			v.PX, v.PY, v.PZ = n.X, n.Y, n.Z
		}
		p.Nodes[i] = v
	}
	lookup := func(what, id string) (int, error) {
		i, ok := index[id]
		if !ok {
			return 0, errors.New(errors.ErrCodeInvalidInput, "%s references unknown node %q", what, id)
		}
		return i, nil
	}

	p.Links = make([]layout.Link, len(g.Edges))
	for i, e := range g.Edges {
		s, err := lookup("edge", e.From)
		if err != nil {
			return nil, err
		}
		t, err := lookup("edge", e.To)
		if err != nil {
			return nil, err
		}
		p.Links[i] = layout.Link{Source: s, Target: t, Length: e.Length}
	}

	p.Constraints = make([]layout.Constraint, len(g.Constraints))
	for i, c := range g.Constraints {
		l, err := lookup("constraint", c.Left)
		if err != nil {
			return nil, err
		}
		r, err := lookup("constraint", c.Right)
		if err != nil {
			return nil, err
		}
		p.Constraints[i] = layout.Constraint{Axis: c.Axis, Left: l, Right: r, Gap: c.Gap, Equality: c.Equality}
	}

	groupIndex := make(map[string]int, len(g.Groups))
	for i, gr := range g.Groups {
		if gr.ID == "" {
			continue
		}
		if _, dup := groupIndex[gr.ID]; dup {
			return nil, errors.New(errors.ErrCodeInvalidInput, "duplicate group id %q", gr.ID)
		}
		groupIndex[gr.ID] = i
	}
	p.Groups = make([]layout.Group, len(g.Groups))
	for i, gr := range g.Groups {
		out := layout.Group{Padding: gr.Padding}
		for _, id := range gr.Leaves {
			leaf, err := lookup("group", id)
			if err != nil {
				return nil, err
			}
			out.Leaves = append(out.Leaves, leaf)
		}
		for _, id := range gr.Groups {
			c, ok := groupIndex[id]
			if !ok {
				return nil, errors.New(errors.ErrCodeInvalidInput, "group references unknown group %q", id)
			}
			out.Groups = append(out.Groups, c)
		}
		p.Groups[i] = out
	}
	return p, nil
}
