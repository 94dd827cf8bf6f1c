package layout

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/mds"
)

// classicalScaling seeds x with classical multidimensional scaling of the
// ideal distances, centred on centre. Axes the embedding cannot fill are
// jittered around the centre. It reports false, leaving x untouched, when the
// graph is disconnected or too small.
func (l *Layout) classicalScaling(x [][]float64, centre []float64) bool {
	n := len(l.ideal)
	if n < 2 {
		return false
	}
	dist := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := l.ideal[i][j]
			if !finite(d) {
				return false
			}
			dist.SetSym(i, j, d)
		}
	}

	var v mat.Dense
	k, _ := mds.TorgersonScaling(&v, nil, dist)
	if k < 1 || v.IsEmpty() {
		return false
	}
	_, cols := v.Dims()
	k = min(k, cols)
	for dim := range x {
		var mean float64
		if dim < k {
			for i := 0; i < n; i++ {
				mean += v.At(i, dim)
			}
			mean /= float64(n)
		}
		for i := 0; i < n; i++ {
			if dim < k {
				x[dim][i] = centre[dim] + v.At(i, dim) - mean
			} else {
				x[dim][i] = centre[dim] + jitter*l.rand.Float64()
			}
		}
	}
	return true
}
