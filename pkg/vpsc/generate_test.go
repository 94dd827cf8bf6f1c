package vpsc

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func centreVars(rs []*Rectangle, centre func(*Rectangle) float64) []*Variable {
	vs := make([]*Variable, len(rs))
	for i, r := range rs {
		vs[i] = NewVariable(centre(r), 1)
	}
	return vs
}

func cloneRects(rs []*Rectangle) []*Rectangle {
	out := make([]*Rectangle, len(rs))
	for i, r := range rs {
		c := *r
		out[i] = &c
	}
	return out
}

func TestGenerateXConstraintsTwoRects(t *testing.T) {
	rs := []*Rectangle{NewRectangle(0, 2, 0, 1), NewRectangle(1, 3, 0, 1)}
	vs := centreVars(rs, (*Rectangle).CX)

	cs := GenerateXConstraints(rs, vs)
	require.Len(t, cs, 1)
	assert.Same(t, vs[0], cs[0].Left)
	assert.Same(t, vs[1], cs[0].Right)
	assert.InDelta(t, 2, cs[0].Gap, 1e-5)

	_, err := NewSolver(vs, cs).Solve()
	require.NoError(t, err)
	for i, v := range vs {
		rs[i].SetXCentre(v.Position())
	}
	assert.Zero(t, rs[0].OverlapX(rs[1]))
	assert.Equal(t, 1.0, rs[0].OverlapY(rs[1]))

	ys := GenerateYConstraints(rs, centreVars(rs, (*Rectangle).CY))
	assert.Empty(t, ys)
}

func TestGenerateConstraintsDisjoint(t *testing.T) {
	rs := []*Rectangle{NewRectangle(0, 1, 0, 1), NewRectangle(5, 6, 5, 6)}
	assert.Empty(t, GenerateXConstraints(rs, centreVars(rs, (*Rectangle).CX)))
	assert.Empty(t, GenerateYConstraints(rs, centreVars(rs, (*Rectangle).CY)))
}

func TestRemoveOverlapsThreeRects(t *testing.T) {
	rs := []*Rectangle{
		NewRectangle(0, 4, 0, 4),
		NewRectangle(3, 5, 1, 2),
		NewRectangle(1, 3, 3, 5),
	}
	assert.Equal(t, 2, CountOverlaps(rs))

	require.NoError(t, RemoveOverlaps(rs))
	assert.Zero(t, CountOverlaps(rs))
	assert.InDelta(t, 1, rs[1].Y0, 1e-9)
	assert.InDelta(t, 2, rs[1].Y1, 1e-9)
}

func TestRemoveOverlapsFiveRects(t *testing.T) {
	rs := []*Rectangle{
		NewRectangle(148.314, 303.923, 94.4755, 161.8497),
		NewRectangle(251.725, 326.6396, 20.0193, 69.6838),
		NewRectangle(201.235, 263.6349, 117.221, 236.923),
		NewRectangle(127.445, 193.7047, 46.5891, 186.5991),
		NewRectangle(194.259, 285.7201, 204.182, 259.1324),
	}
	require.Positive(t, CountOverlaps(rs))

	require.NoError(t, RemoveOverlaps(rs))
	assert.Zero(t, CountOverlaps(rs))
}

func TestRemoveOverlapsCoincident(t *testing.T) {
	rs := []*Rectangle{NewRectangle(0, 2, 0, 2), NewRectangle(0, 2, 0, 2)}

	require.NoError(t, RemoveOverlaps(rs))
	assert.Zero(t, CountOverlaps(rs))
}

func TestRemoveOverlapsPreservesSize(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	rs := make([]*Rectangle, 25)
	for i := range rs {
		x, y := rng.Float64()*50, rng.Float64()*50
		w, h := 5+rng.Float64()*10, 5+rng.Float64()*10
		rs[i] = NewRectangle(x, x+w, y, y+h)
	}
	before := cloneRects(rs)

	require.NoError(t, RemoveOverlaps(rs))
	assert.Zero(t, CountOverlaps(rs))
	for i := range rs {
		assert.InDelta(t, before[i].Width(), rs[i].Width(), 1e-9)
		assert.InDelta(t, before[i].Height(), rs[i].Height(), 1e-9)
	}
}

func TestRemoveOverlapsIdempotent(t *testing.T) {
	rs := []*Rectangle{
		NewRectangle(0, 4, 0, 4),
		NewRectangle(3, 5, 1, 2),
		NewRectangle(1, 3, 3, 5),
	}
	require.NoError(t, RemoveOverlaps(rs))
	once := cloneRects(rs)

	require.NoError(t, RemoveOverlaps(rs))
	for i := range rs {
		assert.InDelta(t, once[i].CX(), rs[i].CX(), 1e-5)
		assert.InDelta(t, once[i].CY(), rs[i].CY(), 1e-5)
	}
}

func TestRemoveOverlapsEmpty(t *testing.T) {
	assert.NoError(t, RemoveOverlaps(nil))
}
