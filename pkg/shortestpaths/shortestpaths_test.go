package shortestpaths

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/matzehuels/stresslayout/pkg/errors"
)

func pairs(ps [][2]int) []Edge {
	edges := make([]Edge, len(ps))
	for i, p := range ps {
		edges[i] = Edge{Source: p[0], Target: p[1]}
	}
	return edges
}

func TestDistancesFromNode(t *testing.T) {
	calc, err := FromEdges(5, pairs([][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 4}, {4, 1}}))
	require.NoError(t, err)

	d, err := calc.DistancesFromNode(0)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 2, 3, 2}, d)
}

func TestDistanceMatrix(t *testing.T) {
	calc, err := FromEdges(5, pairs([][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 4}, {4, 1}}))
	require.NoError(t, err)

	want := [][]float64{
		{0, 1, 2, 3, 2},
		{1, 0, 1, 2, 1},
		{2, 1, 0, 1, 2},
		{3, 2, 1, 0, 1},
		{2, 1, 2, 1, 0},
	}
	assert.Equal(t, want, calc.DistanceMatrix())
}

func TestNoEdges(t *testing.T) {
	calc, err := FromEdges(3, nil)
	require.NoError(t, err)

	D := calc.DistanceMatrix()
	for i := range D {
		for j := range D[i] {
			if i == j {
				assert.Equal(t, 0.0, D[i][j])
			} else {
				assert.True(t, math.IsInf(D[i][j], 1), "D[%d][%d] = %v, want +Inf", i, j, D[i][j])
			}
		}
	}
}

func TestDisconnectedComponents(t *testing.T) {
	calc, err := FromEdges(4, pairs([][2]int{{0, 1}, {2, 3}}))
	require.NoError(t, err)

	D := calc.DistanceMatrix()
	assert.Equal(t, 1.0, D[0][1])
	assert.Equal(t, 1.0, D[3][2])
	assert.True(t, math.IsInf(D[0][2], 1))
	assert.True(t, math.IsInf(D[3][1], 1))
}

func TestWeightedAccessors(t *testing.T) {
	type link struct {
		from, to string
		w        float64
	}
	ids := map[string]int{"a": 0, "b": 1, "c": 2}
	links := []link{{"a", "b", 5}, {"b", "c", 1}, {"a", "c", 2}}

	calc, err := New(3, links,
		func(l link) int { return ids[l.from] },
		func(l link) int { return ids[l.to] },
		func(l link) float64 { return l.w })
	require.NoError(t, err)

	d, err := calc.DistancesFromNode(0)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 3, 2}, d)
}

func TestInvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		n     int
		edges []Edge
		code  errors.Code
	}{
		{"negative n", -1, nil, errors.ErrCodeInvalidInput},
		{"source out of range", 2, []Edge{{Source: 2, Target: 0}}, errors.ErrCodeIndexOutOfRange},
		{"negative target", 2, []Edge{{Source: 0, Target: -1}}, errors.ErrCodeIndexOutOfRange},
		{"negative length", 2, []Edge{{Source: 0, Target: 1, Length: -2}}, errors.ErrCodeInvalidInput},
		{"NaN length", 2, []Edge{{Source: 0, Target: 1, Length: math.NaN()}}, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromEdges(tt.n, tt.edges)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.code), "code = %v, want %v", errors.GetCode(err), tt.code)
		})
	}

	calc, err := FromEdges(2, nil)
	require.NoError(t, err)
	_, err = calc.DistancesFromNode(2)
	assert.True(t, errors.Is(err, errors.ErrCodeIndexOutOfRange))
}

func TestMatchesFloydWarshall(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	const n = 30

	g := simple.NewWeightedUndirectedGraph(0, math.Inf(1))
	for i := 0; i < n; i++ {
		g.AddNode(simple.Node(i))
	}
	var edges []Edge
	for len(edges) < 45 {
		u, v := rnd.Intn(n), rnd.Intn(n)
		if u == v || g.HasEdgeBetween(int64(u), int64(v)) {
			continue
		}
		w := float64(1 + rnd.Intn(4))
		g.SetWeightedEdge(g.NewWeightedEdge(simple.Node(u), simple.Node(v), w))
		edges = append(edges, Edge{Source: u, Target: v, Length: w})
	}

	oracle, ok := path.FloydWarshall(g)
	require.True(t, ok)

	calc, err := FromEdges(n, edges)
	require.NoError(t, err)
	D := calc.DistanceMatrix()
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			assert.Equal(t, oracle.Weight(int64(i), int64(j)), D[i][j], "D[%d][%d]", i, j)
		}
	}
}

func TestPathFromNodeToNode(t *testing.T) {
	edges := []Edge{
		{Source: 0, Target: 1, Length: 1},
		{Source: 1, Target: 2, Length: 1},
		{Source: 0, Target: 2, Length: 5},
		{Source: 2, Target: 3, Length: 1},
	}
	calc, err := FromEdges(5, edges)
	require.NoError(t, err)

	path, d, err := calc.PathFromNodeToNode(0, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3}, path)
	assert.Equal(t, 3.0, d)

	path, d, err = calc.PathFromNodeToNode(3, 0)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 2, 1, 0}, path)
	assert.Equal(t, 3.0, d)

	path, d, err = calc.PathFromNodeToNode(2, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, path)
	assert.Equal(t, 0.0, d)

	path, d, err = calc.PathFromNodeToNode(0, 4)
	require.NoError(t, err)
	assert.Nil(t, path)
	assert.True(t, math.IsInf(d, 1))

	_, _, err = calc.PathFromNodeToNode(0, 5)
	assert.True(t, errors.Is(err, errors.ErrCodeIndexOutOfRange))
}
