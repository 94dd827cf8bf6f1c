// Package shortestpaths computes shortest-path distances over undirected,
// non-negatively weighted graphs.
//
// Distances are computed with Dijkstra's algorithm from every source, using
// the indexed heap from pkg/pqueue for decrease-key. Unreachable pairs are
// reported as +Inf, and every node is at distance 0 from itself.
//
// Edges are supplied in any caller type together with accessor functions:
//
//	calc, err := shortestpaths.New(n, links,
//	    func(l Link) int { return l.Source },
//	    func(l Link) int { return l.Target },
//	    nil, // unit length
//	)
//	D := calc.DistanceMatrix()
package shortestpaths

import (
	"fmt"
	"math"

	"github.com/matzehuels/stresslayout/pkg/errors"
	"github.com/matzehuels/stresslayout/pkg/pqueue"
)

// Edge is the default edge representation used by [FromEdges].
// A zero Length means unit length.
type Edge struct {
	Source int     `json:"source"`
	Target int     `json:"target"`
	Length float64 `json:"length,omitempty"`
}

type neighbour struct {
	id     int
	length float64
}

// Calculator holds the adjacency structure for repeated distance queries.
// It is immutable after construction and safe for concurrent reads.
type Calculator struct {
	neighbours [][]neighbour
}

// New builds a Calculator over n nodes. source and target extract the endpoint
// indices of an edge; length extracts its length and may be nil, in which case
// every edge has length 1.
//
// Endpoints must lie in [0,n) and lengths must be non-negative; violations
// return an error with code INDEX_OUT_OF_RANGE or INVALID_INPUT.
func New[E any](n int, edges []E, source, target func(E) int, length func(E) float64) (*Calculator, error) {
	if n < 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "node count must be non-negative, got %d", n)
	}
	c := &Calculator{neighbours: make([][]neighbour, n)}
	for i, e := range edges {
		u, v := source(e), target(e)
		if err := errors.ValidateIndex(edgeField(i, "source"), u, n); err != nil {
			return nil, err
		}
		if err := errors.ValidateIndex(edgeField(i, "target"), v, n); err != nil {
			return nil, err
		}
		l := 1.0
		if length != nil {
			l = length(e)
		}
		if err := errors.ValidateNonNegative(edgeField(i, "length"), l); err != nil {
			return nil, err
		}
		c.neighbours[u] = append(c.neighbours[u], neighbour{id: v, length: l})
		c.neighbours[v] = append(c.neighbours[v], neighbour{id: u, length: l})
	}
	return c, nil
}

// FromEdges builds a Calculator from [Edge] values.
func FromEdges(n int, edges []Edge) (*Calculator, error) {
	return New(n, edges,
		func(e Edge) int { return e.Source },
		func(e Edge) int { return e.Target },
		func(e Edge) float64 {
			if e.Length == 0 {
				return 1
			}
			return e.Length
		})
}

// NodeCount returns the number of nodes.
func (c *Calculator) NodeCount() int { return len(c.neighbours) }

// DistanceMatrix returns the n×n matrix of shortest-path distances.
// The result is symmetric with a zero diagonal.
func (c *Calculator) DistanceMatrix() [][]float64 {
	n := len(c.neighbours)
	D := make([][]float64, n)
	for i := range D {
		D[i], _ = c.dijkstra(i, -1)
	}
	return D
}

// DistancesFromNode returns the shortest-path distance from start to every node.
func (c *Calculator) DistancesFromNode(start int) ([]float64, error) {
	if err := errors.ValidateIndex("start node", start, len(c.neighbours)); err != nil {
		return nil, err
	}
	dist, _ := c.dijkstra(start, -1)
	return dist, nil
}

// PathFromNodeToNode returns the nodes on a shortest path from start to end,
// both included, and its length. An unreachable end yields a nil path and
// +Inf.
func (c *Calculator) PathFromNodeToNode(start, end int) ([]int, float64, error) {
	n := len(c.neighbours)
	if err := errors.ValidateIndex("start node", start, n); err != nil {
		return nil, 0, err
	}
	if err := errors.ValidateIndex("end node", end, n); err != nil {
		return nil, 0, err
	}
	dist, prev := c.dijkstra(start, end)
	if math.IsInf(dist[end], 1) {
		return nil, dist[end], nil
	}
	var path []int
	for v := end; v != -1; v = prev[v] {
		path = append(path, v)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, dist[end], nil
}

type entry struct {
	id int
	d  float64
}

// dijkstra returns distances from start and each node's predecessor on its
// shortest path (-1 for start and unreached nodes). A stop index >= 0 ends
// the search once that node is settled.
func (c *Calculator) dijkstra(start, stop int) ([]float64, []int) {
	n := len(c.neighbours)
	dist := make([]float64, n)
	prev := make([]int, n)
	handles := make([]*pqueue.Handle[entry], n)
	q := pqueue.New(func(a, b entry) bool { return a.d <= b.d })
	for i := 0; i < n; i++ {
		d := math.Inf(1)
		if i == start {
			d = 0
		}
		dist[i] = d
		prev[i] = -1
		handles[i] = q.Push(entry{id: i, d: d})
	}
	for !q.Empty() {
		u, _ := q.Pop()
		if math.IsInf(u.d, 1) || u.id == stop {
			break
		}
		for _, nb := range c.neighbours[u.id] {
			h := handles[nb.id]
			if !h.Queued() {
				continue
			}
			if t := u.d + nb.length; t < dist[nb.id] {
				dist[nb.id] = t
				prev[nb.id] = u.id
				q.ReduceKey(h, entry{id: nb.id, d: t})
			}
		}
	}
	return dist, prev
}

func edgeField(i int, field string) string {
	return fmt.Sprintf("edge %d %s", i, field)
}
