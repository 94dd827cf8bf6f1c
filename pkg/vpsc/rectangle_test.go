package vpsc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRectangleOverlap(t *testing.T) {
	tests := []struct {
		name   string
		a, b   *Rectangle
		ox, oy float64
	}{
		{"partial", NewRectangle(0, 2, 0, 1), NewRectangle(1, 3, 0, 1), 1, 1},
		{"reversed", NewRectangle(1, 3, 0, 1), NewRectangle(0, 2, 0, 1), 1, 1},
		{"touching", NewRectangle(0, 1, 0, 1), NewRectangle(1, 2, 0, 1), 0, 1},
		{"disjoint", NewRectangle(0, 1, 0, 1), NewRectangle(3, 4, 3, 4), 0, 0},
		{"contained", NewRectangle(0, 10, 0, 10), NewRectangle(4, 6, 4, 6), 6, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.ox, tt.a.OverlapX(tt.b))
			assert.Equal(t, tt.oy, tt.a.OverlapY(tt.b))
		})
	}
}

func TestRectangleCentres(t *testing.T) {
	r := NewRectangle(0, 4, 2, 4)
	assert.Equal(t, 2.0, r.CX())
	assert.Equal(t, 3.0, r.CY())

	r.SetXCentre(10)
	r.SetYCentre(-1)
	assert.Equal(t, NewRectangle(8, 12, -2, 0), r)
	assert.Equal(t, 4.0, r.Width())
	assert.Equal(t, 2.0, r.Height())
}

func TestRectangleUnion(t *testing.T) {
	e := EmptyRectangle()
	assert.True(t, e.IsEmpty())

	a := NewRectangle(0, 1, 0, 1)
	assert.Equal(t, a, e.Union(a))
	assert.Equal(t, NewRectangle(0, 5, -1, 1), a.Union(NewRectangle(4, 5, -1, 0)))
	assert.False(t, a.IsEmpty())

	assert.Equal(t, NewRectangle(-2, 3, -2, 3), a.Inflate(2))
	assert.True(t, e.Inflate(2).IsEmpty())
}

func TestRayIntersection(t *testing.T) {
	r := NewRectangle(2, 4, 0, 2)

	x, y, ok := r.RayIntersection(0, 1)
	assert.True(t, ok)
	assert.InDelta(t, 2, x, 1e-12)
	assert.InDelta(t, 1, y, 1e-12)

	x, y, ok = r.RayIntersection(3, 10)
	assert.True(t, ok)
	assert.InDelta(t, 3, x, 1e-12)
	assert.InDelta(t, 2, y, 1e-12)

	_, _, ok = r.RayIntersection(3.5, 1.5)
	assert.False(t, ok)
}
