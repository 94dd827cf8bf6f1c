package vpsc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func leaf(r *Rectangle) *Leaf {
	return &Leaf{Bounds: r, Variable: NewVariable(r.CX(), 1)}
}

func TestComputeGroupBounds(t *testing.T) {
	inner := &Group{Leaves: []*Leaf{leaf(NewRectangle(0, 2, 0, 2)), leaf(NewRectangle(1, 3, 1, 4))}}
	root := &Group{
		Leaves: []*Leaf{leaf(NewRectangle(5, 6, -1, 0))},
		Groups: []*Group{inner},
	}

	// default padding 1 grows each level by 1 on every side
	b := ComputeGroupBounds(root)
	assert.Equal(t, NewRectangle(-1, 4, -1, 5), inner.Bounds)
	assert.Equal(t, NewRectangle(-2, 7, -2, 6), b)

	empty := &Group{}
	assert.True(t, ComputeGroupBounds(empty).IsEmpty())
}

func TestGroupConstraintsKeepMembersInside(t *testing.T) {
	b := leaf(NewRectangle(0, 2, 0, 2))
	c := leaf(NewRectangle(1, 3, 0, 2))
	a := leaf(NewRectangle(2.5, 4.5, 0, 2))
	g := &Group{Leaves: []*Leaf{b, c}}
	root := &Group{Leaves: []*Leaf{a}, Groups: []*Group{g}}
	ComputeGroupBounds(root)

	cs := GenerateXGroupConstraints(root)
	vs := GroupVariables(root)
	require.Len(t, vs, 5)
	require.NotNil(t, g.MinVar)
	require.NotNil(t, g.MaxVar)
	require.NoError(t, CheckFeasible(vs, cs))

	_, err := NewSolver(vs, cs).Solve()
	require.NoError(t, err)
	assertSatisfied(t, cs)

	// padding defaults to 1, so members keep half of it to each boundary
	lo, hi := g.MinVar.Position(), g.MaxVar.Position()
	for _, m := range []*Leaf{b, c} {
		half := m.Bounds.Width() / 2
		assert.GreaterOrEqual(t, m.Variable.Position()-half, lo+0.5-1e-6)
		assert.LessOrEqual(t, m.Variable.Position()+half, hi-0.5+1e-6)
	}
	assert.GreaterOrEqual(t, a.Variable.Position()-a.Bounds.Width()/2, hi+0.5-1e-6)
	assert.GreaterOrEqual(t, c.Variable.Position()-b.Variable.Position(), 2-1e-6)
}

func TestGroupPaddingSplitsAcrossBoundary(t *testing.T) {
	tests := []struct {
		name    string
		size    float64
		padding float64
	}{
		{"large members", 30, 10},
		{"members smaller than padding", 2, 10},
		{"default padding", 4, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			member := leaf(NewRectangle(0, tt.size, 0, tt.size))
			// starts overlapping the member
			sibling := leaf(NewRectangle(tt.size/2, 1.5*tt.size, 0, tt.size))
			g := &Group{Leaves: []*Leaf{member}, Padding: tt.padding}
			root := &Group{Leaves: []*Leaf{sibling}, Groups: []*Group{g}, Padding: 3}
			ComputeGroupBounds(root)

			cs := GenerateXGroupConstraints(root)
			vs := GroupVariables(root)
			_, err := NewSolver(vs, cs).Solve()
			require.NoError(t, err)
			assertSatisfied(t, cs)

			half := g.padding() / 2
			lo, hi := g.MinVar.Position(), g.MaxVar.Position()
			mLeft := member.Variable.Position() - tt.size/2
			mRight := member.Variable.Position() + tt.size/2
			sLeft := sibling.Variable.Position() - tt.size/2

			assert.GreaterOrEqual(t, mLeft-lo, half-1e-6, "member to min boundary")
			assert.GreaterOrEqual(t, hi-mRight, half-1e-6, "member to max boundary")
			assert.GreaterOrEqual(t, sLeft-hi, half-1e-6, "max boundary to sibling")
			assert.GreaterOrEqual(t, sLeft-mRight, g.padding()-1e-6, "member to sibling")
		})
	}
}

func TestGroupVariablesRootOnly(t *testing.T) {
	root := &Group{Leaves: []*Leaf{leaf(NewRectangle(0, 1, 0, 1)), leaf(NewRectangle(2, 3, 0, 1))}}
	ComputeGroupBounds(root)

	cs := GenerateYGroupConstraints(root)
	assert.Empty(t, cs)
	assert.Len(t, GroupVariables(root), 2)
	assert.Nil(t, root.MinVar)
}
