// Package descent minimizes layout stress by gradient descent.
//
// Stress is the sum over node pairs of (D[u][v] - |x_u - x_v|)² / D[u][v]²,
// where D holds the ideal distances. Pairs with an infinite ideal distance
// (disconnected nodes) are ignored.
//
// A [Descent] keeps positions in k dimensions, one slice per dimension. Each
// step computes the gradient and the per-dimension Hessian, picks the step
// size that is optimal along the negative gradient, and moves every node.
// [Descent.ReduceStress] takes a single such step; [Descent.RungeKutta]
// integrates the gradient flow with a fourth order Runge-Kutta scheme and is
// smoother for animation.
//
// Projections hook constraint solvers into the descent: after each
// dimension's step the registered [Projection] for that dimension may move
// positions back into the feasible region.
//
// All scratch storage is allocated by [New]; steps do not allocate.
package descent

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/matzehuels/stresslayout/pkg/errors"
)

// coincident is the squared distance below which two nodes are treated as
// sitting on the same spot and pushed apart at random.
const coincident = 1e-9

// Projection moves the positions x onto the feasible region of some
// constraint set. x is indexed [dimension][node]. The projection for dim runs
// once dimensions 0 through dim have taken their step, and may adjust any of
// them; later dimensions still hold the positions from before the step.
type Projection func(x [][]float64, dim int) error

// Option configures a Descent.
type Option func(*Descent)

// WithRandom sets the source used to separate coincident nodes. The default
// is a PseudoRandom with seed 1.
func WithRandom(r Random) Option {
	return func(d *Descent) {
		if r != nil {
			d.rand = r
		}
	}
}

// WithProjections sets the projection for each dimension in order. Nil
// entries, and dimensions beyond len(ps), are left unconstrained.
func WithProjections(ps ...Projection) Option {
	return func(d *Descent) {
		copy(d.Project, ps)
	}
}

// Descent holds positions, ideal distances and derivative buffers for one
// layout. It is not safe for concurrent use.
type Descent struct {
	// D is the n×n ideal distance matrix.
	D [][]float64
	// X holds positions, X[dim][node]. The slices are updated in place.
	X [][]float64
	// G is the gradient from the last derivative computation, G[dim][node].
	G [][]float64
	// H holds one n×n Hessian block per dimension.
	H []*mat.Dense
	// Project holds an optional projection per dimension.
	Project []Projection

	k, n int
	rand Random

	hd                             [][]float64
	x0, rk1, rk2, rk3, rk4, m1, m2 []float64
	tmp                            [][]float64
	dv, dv2, huu                   []float64
}

// New returns a Descent over the positions x, indexed [dimension][node], with
// ideal distances dist. x is used directly, not copied.
//
// Every dimension must hold the same number of nodes n, and dist must be n×n;
// otherwise New returns an error with code DIMENSION_MISMATCH.
func New(x [][]float64, dist [][]float64, opts ...Option) (*Descent, error) {
	k := len(x)
	if k == 0 {
		return nil, errors.New(errors.ErrCodeDimensionMismatch, "positions need at least one dimension")
	}
	n := len(x[0])
	for i, row := range x {
		if len(row) != n {
			return nil, errors.New(errors.ErrCodeDimensionMismatch,
				"dimension %d has %d positions, want %d", i, len(row), n)
		}
	}
	if err := errors.ValidateSquareMatrix("distance matrix", dist, n); err != nil {
		return nil, err
	}

	d := &Descent{
		D:       dist,
		X:       x,
		G:       make2(k, n),
		H:       make([]*mat.Dense, k),
		Project: make([]Projection, k),
		k:       k,
		n:       n,
		rand:    NewPseudoRandom(1),
		hd:      make2(k, n),
		x0:      make([]float64, k*n),
		rk1:     make([]float64, k*n),
		rk2:     make([]float64, k*n),
		rk3:     make([]float64, k*n),
		rk4:     make([]float64, k*n),
		m1:      make([]float64, k*n),
		m2:      make([]float64, k*n),
		tmp:     make2(k, n),
		dv:      make([]float64, k),
		dv2:     make([]float64, k),
		huu:     make([]float64, k),
	}
	if n > 0 {
		for i := range d.H {
			d.H[i] = mat.NewDense(n, n, nil)
		}
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

func make2(k, n int) [][]float64 {
	backing := make([]float64, k*n)
	rows := make([][]float64, k)
	for i := range rows {
		rows[i] = backing[i*n : (i+1)*n : (i+1)*n]
	}
	return rows
}

// Dims returns the number of dimensions.
func (d *Descent) Dims() int { return d.k }

// Len returns the number of nodes.
func (d *Descent) Len() int { return d.n }

// ComputeDerivatives fills G and H for the positions x, which need not be X.
// Nodes of x that coincide with an earlier node are moved by a random offset
// first, so x may be modified.
func (d *Descent) ComputeDerivatives(x [][]float64) {
	n, k := d.n, d.k
	if n <= 1 {
		return
	}
	for u := 0; u < n; u++ {
		for i := 0; i < k; i++ {
			d.huu[i] = 0
			d.G[i][u] = 0
		}
		for v := 0; v < n; v++ {
			if u == v {
				continue
			}
			var sd2 float64
			for displaces := n; ; displaces-- {
				sd2 = 0
				for i := 0; i < k; i++ {
					dx := x[i][u] - x[i][v]
					d.dv[i] = dx
					d.dv2[i] = dx * dx
					sd2 += d.dv2[i]
				}
				if sd2 > coincident || displaces == 0 {
					break
				}
				for i := 0; i < k; i++ {
					x[i][v] += d.rand.Float64()
				}
			}
			l := math.Sqrt(sd2)
			ideal := d.D[u][v]
			// still coincident after n displacements: the pair sits out this step
			if sd2 <= coincident || math.IsInf(ideal, 0) || math.IsNaN(ideal) {
				for i := 0; i < k; i++ {
					d.H[i].RawRowView(u)[v] = 0
				}
				continue
			}
			ideal2 := ideal * ideal
			gs := (l - ideal) / (ideal2 * l)
			hs := -1 / (ideal2 * l * l * l)
			for i := 0; i < k; i++ {
				d.G[i][u] += d.dv[i] * gs
				h := hs * (ideal*(d.dv2[i]-sd2) + l*sd2)
				d.H[i].RawRowView(u)[v] = h
				d.huu[i] -= h
			}
		}
		for i := 0; i < k; i++ {
			d.H[i].RawRowView(u)[u] = d.huu[i]
		}
	}
}

// ComputeStepSize returns the step along -dir that minimizes the quadratic
// model given by the current G and H: Σ gᵀdir / Σ dirᵀH·dir. A zero or
// non-finite curvature yields 0, meaning no step.
func (d *Descent) ComputeStepSize(dir [][]float64) float64 {
	if d.n == 0 {
		return 0
	}
	var num, den float64
	for i := 0; i < d.k; i++ {
		num += floats.Dot(d.G[i], dir[i])
		for r := 0; r < d.n; r++ {
			d.hd[i][r] = floats.Dot(d.H[i].RawRowView(r), dir[i])
		}
		den += floats.Dot(dir[i], d.hd[i])
	}
	if den == 0 || math.IsInf(den, 0) || math.IsNaN(den) {
		return 0
	}
	return num / den
}

// TakeDescentStep sets x = x - step·dir.
func (d *Descent) TakeDescentStep(x, dir []float64, step float64) {
	floats.AddScaled(x, -step, dir)
}

// ReduceStress takes one steepest-descent step from X, applies the
// projections, and returns the new stress.
func (d *Descent) ReduceStress() (float64, error) {
	d.ComputeDerivatives(d.X)
	step := d.ComputeStepSize(d.G)
	for i := 0; i < d.k; i++ {
		d.TakeDescentStep(d.X[i], d.G[i], step)
		if p := d.Project[i]; p != nil {
			if err := p(d.X, i); err != nil {
				return d.ComputeStress(), err
			}
		}
	}
	return d.ComputeStress(), nil
}

// RungeKutta advances X by one fourth order Runge-Kutta step of the gradient
// flow and returns the new stress. Every intermediate position is projected,
// so the whole trajectory respects the constraints. On a projection error X
// is left unchanged.
func (d *Descent) RungeKutta() (float64, error) {
	d.flatten(d.X, d.x0)
	if err := d.computeNextPosition(d.x0, d.rk1); err != nil {
		return d.ComputeStress(), err
	}
	mid(d.x0, d.rk1, d.m1)
	if err := d.computeNextPosition(d.m1, d.rk2); err != nil {
		return d.ComputeStress(), err
	}
	mid(d.x0, d.rk2, d.m2)
	if err := d.computeNextPosition(d.m2, d.rk3); err != nil {
		return d.ComputeStress(), err
	}
	if err := d.computeNextPosition(d.rk3, d.rk4); err != nil {
		return d.ComputeStress(), err
	}
	for i := 0; i < d.k; i++ {
		off := i * d.n
		for j := 0; j < d.n; j++ {
			p := off + j
			d.X[i][j] = (d.rk1[p] + 2*d.rk2[p] + 2*d.rk3[p] + d.rk4[p]) / 6
		}
	}
	return d.ComputeStress(), nil
}

func (d *Descent) computeNextPosition(x0, r []float64) error {
	d.unflatten(x0, d.tmp)
	d.ComputeDerivatives(d.tmp)
	step := d.ComputeStepSize(d.G)
	for i := 0; i < d.k; i++ {
		d.TakeDescentStep(d.tmp[i], d.G[i], step)
		if p := d.Project[i]; p != nil {
			if err := p(d.tmp, i); err != nil {
				return err
			}
		}
	}
	d.flatten(d.tmp, r)
	return nil
}

// flatten copies x, dimension after dimension, into r.
func (d *Descent) flatten(x [][]float64, r []float64) {
	for i := 0; i < d.k; i++ {
		copy(r[i*d.n:(i+1)*d.n], x[i])
	}
}

func (d *Descent) unflatten(r []float64, x [][]float64) {
	for i := 0; i < d.k; i++ {
		copy(x[i], r[i*d.n:(i+1)*d.n])
	}
}

func mid(a, b, m []float64) {
	for i := range a {
		m[i] = a[i] + (b[i]-a[i])/2
	}
}

// ComputeStress returns the stress of X.
func (d *Descent) ComputeStress() float64 {
	var stress float64
	for u := 0; u < d.n-1; u++ {
		for v := u + 1; v < d.n; v++ {
			ideal := d.D[u][v]
			if math.IsInf(ideal, 0) || math.IsNaN(ideal) {
				continue
			}
			var sd2 float64
			for i := 0; i < d.k; i++ {
				dx := d.X[i][u] - d.X[i][v]
				sd2 += dx * dx
			}
			rl := ideal - math.Sqrt(sd2)
			stress += rl * rl / (ideal * ideal)
		}
	}
	return stress
}
