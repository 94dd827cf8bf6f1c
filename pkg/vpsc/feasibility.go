package vpsc

import (
	"github.com/matzehuels/stresslayout/pkg/errors"
)

// feasibilityTolerance absorbs rounding when summing gaps around a cycle.
const feasibilityTolerance = 1e-9

type diffEdge struct {
	from, to int
	w        float64
	c        *Constraint
}

// CheckFeasible reports whether the constraints admit any placement at all,
// ignoring desired positions. Each constraint right - left >= gap is a
// difference constraint, so the set is infeasible exactly when the constraint
// graph has a negative cycle, which Bellman-Ford detects in O(V·E).
//
// Variable scales are ignored: the check treats every Scale as 1.
// The returned error has code UNSATISFIABLE and wraps an
// *errors.UnsatisfiableError identifying a constraint on the cycle; variable
// indices refer to positions in vs.
func CheckFeasible(vs []*Variable, cs []*Constraint) error {
	index := make(map[*Variable]int, len(vs))
	for i, v := range vs {
		index[v] = i
	}
	edges := make([]diffEdge, 0, 2*len(cs))
	for i, c := range cs {
		l, okL := index[c.Left]
		r, okR := index[c.Right]
		if !okL || !okR {
			return errors.New(errors.ErrCodeIndexOutOfRange, "constraint %d references a variable outside the set", i)
		}
		// left - right <= -gap
		edges = append(edges, diffEdge{from: r, to: l, w: -c.Gap, c: c})
		if c.Equality {
			// right - left <= gap
			edges = append(edges, diffEdge{from: l, to: r, w: c.Gap, c: c})
		}
	}

	// A virtual source at distance 0 from every variable.
	dist := make([]float64, len(vs))
	for round := 0; round < len(vs); round++ {
		changed := false
		for _, e := range edges {
			if d := dist[e.from] + e.w; d < dist[e.to]-feasibilityTolerance {
				dist[e.to] = d
				changed = true
			}
		}
		if !changed {
			return nil
		}
	}
	for _, e := range edges {
		if dist[e.from]+e.w < dist[e.to]-feasibilityTolerance {
			return errors.Wrap(errors.ErrCodeUnsatisfiable, &errors.UnsatisfiableError{
				Left:     index[e.c.Left],
				Right:    index[e.c.Right],
				Gap:      e.c.Gap,
				Equality: e.c.Equality,
			}, "constraints contain a contradictory cycle")
		}
	}
	return nil
}
