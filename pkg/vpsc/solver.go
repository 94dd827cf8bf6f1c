package vpsc

import (
	"math"
	"time"

	"github.com/matzehuels/stresslayout/pkg/errors"
	"github.com/matzehuels/stresslayout/pkg/observability"
)

const (
	// LagrangianTolerance is the Lagrange multiplier below which an active
	// constraint is split during Solver.Satisfy.
	LagrangianTolerance = -1e-4

	// ZeroUpperBound is the slack below which a constraint counts as violated.
	ZeroUpperBound = -1e-10

	// costTolerance ends Solve once successive costs differ by at most this much.
	costTolerance = 1e-4

	// equalityTolerance is the slack within which an equality inside a single
	// block is considered already satisfied.
	equalityTolerance = 1e-9

	// maxSolveRounds caps the outer Satisfy loop in Solve.
	maxSolveRounds = 100
)

// =============================================================================
// Variables and Constraints
// =============================================================================

// Variable is a one-dimensional position to be placed by the solver.
type Variable struct {
	Desired float64 // Desired position
	Weight  float64 // Cost of moving away from Desired
	Scale   float64 // Position scale factor, normally 1

	id     int
	offset float64
	block  *Block
	cIn    []*Constraint
	cOut   []*Constraint
}

// NewVariable returns a variable with the given desired position and weight
// and a scale of 1.
func NewVariable(desired, weight float64) *Variable {
	return &Variable{Desired: desired, Weight: weight, Scale: 1}
}

// DFDV returns the derivative of the variable's cost term.
func (v *Variable) DFDV() float64 {
	return 2 * v.Weight * (v.Position() - v.Desired)
}

// Position returns the solved position. Before the variable has been assigned
// to a block (by Solver.Satisfy or Solver.Solve) it returns Desired.
func (v *Variable) Position() float64 {
	if v.block == nil {
		return v.Desired
	}
	return (v.block.ps.scale*v.block.posn + v.offset) / v.Scale
}

// visitNeighbours calls f for every active constraint on v, skipping the one
// leading back to prev.
func (v *Variable) visitNeighbours(prev *Variable, f func(c *Constraint, next *Variable)) {
	for _, c := range v.cOut {
		if c.active && c.Right != prev {
			f(c, c.Right)
		}
	}
	for _, c := range v.cIn {
		if c.active && c.Left != prev {
			f(c, c.Left)
		}
	}
}

// Constraint requires Right.Scale*Right - Left.Scale*Left >= Gap, or == Gap
// when Equality is set.
type Constraint struct {
	Left, Right *Variable
	Gap         float64
	Equality    bool

	lm            float64
	active        bool
	unsatisfiable bool
}

// NewConstraint returns an inequality constraint right - left >= gap.
func NewConstraint(left, right *Variable, gap float64) *Constraint {
	return &Constraint{Left: left, Right: right, Gap: gap}
}

// NewEquality returns an equality constraint right - left == gap.
func NewEquality(left, right *Variable, gap float64) *Constraint {
	return &Constraint{Left: left, Right: right, Gap: gap, Equality: true}
}

// Slack returns how far the constraint is from being tight. Negative slack
// means it is violated. Unsatisfiable constraints report math.MaxFloat64.
func (c *Constraint) Slack() float64 {
	if c.unsatisfiable {
		return math.MaxFloat64
	}
	return c.Right.Scale*c.Right.Position() - c.Gap - c.Left.Scale*c.Left.Position()
}

// Active reports whether the constraint is currently tight inside a block.
func (c *Constraint) Active() bool { return c.active }

// Unsatisfiable reports whether the solver gave up on the constraint.
func (c *Constraint) Unsatisfiable() bool { return c.unsatisfiable }

// =============================================================================
// Blocks
// =============================================================================

type positionStats struct {
	scale      float64
	ab, ad, a2 float64
}

func (ps *positionStats) addVariable(v *Variable) {
	ai := ps.scale / v.Scale
	bi := v.offset / v.Scale
	wi := v.Weight
	ps.ab += wi * ai * bi
	ps.ad += wi * ai * v.Desired
	ps.a2 += wi * ai * ai
}

func (ps *positionStats) posn() float64 {
	return (ps.ad - ps.ab) / ps.a2
}

// Block is a set of variables held at fixed offsets from each other by
// active constraints.
type Block struct {
	vars []*Variable
	posn float64
	ps   positionStats
	ind  int
}

func newBlock(v *Variable) *Block {
	v.offset = 0
	b := &Block{ps: positionStats{scale: v.Scale}}
	b.addVariable(v)
	return b
}

func (b *Block) addVariable(v *Variable) {
	v.block = b
	b.vars = append(b.vars, v)
	b.ps.addVariable(v)
	b.posn = b.ps.posn()
}

func (b *Block) updateWeightedPosition() {
	b.ps.ab, b.ps.ad, b.ps.a2 = 0, 0, 0
	for _, v := range b.vars {
		b.ps.addVariable(v)
	}
	b.posn = b.ps.posn()
}

// computeLM sets the Lagrange multiplier of every active constraint in the
// subtree rooted at v and returns v's contribution to the parent.
func (b *Block) computeLM(v, u *Variable, post func(c *Constraint)) float64 {
	dfdv := v.DFDV()
	v.visitNeighbours(u, func(c *Constraint, next *Variable) {
		d := b.computeLM(next, v, post)
		if next == c.Right {
			dfdv += d * c.Left.Scale
			c.lm = d
		} else {
			dfdv += d * c.Right.Scale
			c.lm = -d
		}
		post(c)
	})
	return dfdv / v.Scale
}

func (b *Block) populateSplitBlock(v, prev *Variable) {
	v.visitNeighbours(prev, func(c *Constraint, next *Variable) {
		if next == c.Right {
			next.offset = v.offset + c.Gap
		} else {
			next.offset = v.offset - c.Gap
		}
		b.addVariable(next)
		b.populateSplitBlock(next, v)
	})
}

func (b *Block) findMinLM() *Constraint {
	var m *Constraint
	b.computeLM(b.vars[0], nil, func(c *Constraint) {
		if !c.Equality && (m == nil || c.lm < m.lm) {
			m = c
		}
	})
	return m
}

func (b *Block) findMinLMBetween(lv, rv *Variable) *Constraint {
	b.computeLM(lv, nil, func(*Constraint) {})
	var m *Constraint
	b.findPath(lv, nil, rv, func(c *Constraint, next *Variable) {
		if !c.Equality && c.Right == next && (m == nil || c.lm < m.lm) {
			m = c
		}
	})
	return m
}

func (b *Block) findPath(v, prev, to *Variable, visit func(c *Constraint, next *Variable)) bool {
	found := false
	v.visitNeighbours(prev, func(c *Constraint, next *Variable) {
		if !found && (next == to || b.findPath(next, v, to, visit)) {
			found = true
			visit(c, next)
		}
	})
	return found
}

// isActiveDirectedPathBetween reports whether u reaches v following active
// constraints left to right.
func (b *Block) isActiveDirectedPathBetween(u, v *Variable) bool {
	if u == v {
		return true
	}
	for i := len(u.cOut) - 1; i >= 0; i-- {
		c := u.cOut[i]
		if c.active && b.isActiveDirectedPathBetween(c.Right, v) {
			return true
		}
	}
	return false
}

func splitBlock(c *Constraint) (*Block, *Block) {
	c.active = false
	return createSplitBlock(c.Left), createSplitBlock(c.Right)
}

func createSplitBlock(start *Variable) *Block {
	b := newBlock(start)
	b.populateSplitBlock(start, nil)
	return b
}

func (b *Block) splitBetween(vl, vr *Variable) (c *Constraint, lb, rb *Block) {
	c = b.findMinLMBetween(vl, vr)
	if c == nil {
		return nil, nil, nil
	}
	lb, rb = splitBlock(c)
	return c, lb, rb
}

func (b *Block) mergeAcross(other *Block, c *Constraint, dist float64) {
	c.active = true
	for _, v := range other.vars {
		v.offset += dist
		b.addVariable(v)
	}
	b.posn = b.ps.posn()
}

func (b *Block) cost() float64 {
	sum := 0.0
	for _, v := range b.vars {
		d := v.Position() - v.Desired
		sum += d * d * v.Weight
	}
	return sum
}

type blocks struct {
	list []*Block
}

func newBlocks(vs []*Variable) *blocks {
	bs := &blocks{list: make([]*Block, len(vs))}
	for i, v := range vs {
		b := newBlock(v)
		b.ind = i
		bs.list[i] = b
	}
	return bs
}

func (bs *blocks) cost() float64 {
	sum := 0.0
	for _, b := range bs.list {
		sum += b.cost()
	}
	return sum
}

func (bs *blocks) insert(b *Block) {
	b.ind = len(bs.list)
	bs.list = append(bs.list, b)
}

func (bs *blocks) remove(b *Block) {
	last := len(bs.list) - 1
	swap := bs.list[last]
	bs.list[last] = nil
	bs.list = bs.list[:last]
	if b != swap {
		bs.list[b.ind] = swap
		swap.ind = b.ind
	}
}

// merge activates c, folding the smaller of its two blocks into the larger.
func (bs *blocks) merge(c *Constraint) {
	l, r := c.Left.block, c.Right.block
	dist := c.Right.offset - c.Left.offset - c.Gap
	if len(l.vars) < len(r.vars) {
		r.mergeAcross(l, c, dist)
		bs.remove(l)
	} else {
		l.mergeAcross(r, c, -dist)
		bs.remove(r)
	}
}

func (bs *blocks) updateBlockPositions() {
	for _, b := range bs.list {
		b.updateWeightedPosition()
	}
}

// split breaks every block at its most negative Lagrange multiplier and
// returns the released constraints appended to inactive.
func (bs *blocks) split(inactive []*Constraint) []*Constraint {
	bs.updateBlockPositions()
	snapshot := append([]*Block(nil), bs.list...)
	for _, b := range snapshot {
		c := b.findMinLM()
		if c == nil || c.lm >= LagrangianTolerance {
			continue
		}
		owner := c.Left.block
		lb, rb := splitBlock(c)
		bs.insert(lb)
		bs.insert(rb)
		bs.remove(owner)
		inactive = append(inactive, c)
	}
	return inactive
}

// =============================================================================
// Solver
// =============================================================================

// Solver places variables as close as possible to their desired positions,
// weighted by Variable.Weight, subject to separation constraints.
//
// The solver is single-use per constraint topology and is not safe for
// concurrent use. Variables and constraints are owned by the solver until
// Solve returns.
type Solver struct {
	vs       []*Variable
	cs       []*Constraint
	bs       *blocks
	inactive []*Constraint

	// redundant holds equalities already satisfied rigidly inside a block;
	// they are rechecked on the next Satisfy.
	redundant []*Constraint

	// MaxIterations caps the number of constraints processed by a single
	// Satisfy call. Zero selects a limit proportional to the problem size.
	MaxIterations int
}

// NewSolver wires constraints to their variables and resets all solver state
// on them. Zero Weight and Scale default to 1. A variable must not appear in
// two solvers at once.
func NewSolver(vs []*Variable, cs []*Constraint) *Solver {
	for i, v := range vs {
		v.id = i
		v.cIn = v.cIn[:0]
		v.cOut = v.cOut[:0]
		v.block = nil
		if v.Scale == 0 {
			v.Scale = 1
		}
		if v.Weight == 0 {
			v.Weight = 1
		}
	}
	for _, c := range cs {
		c.Left.cOut = append(c.Left.cOut, c)
		c.Right.cIn = append(c.Right.cIn, c)
	}
	s := &Solver{vs: vs, cs: cs}
	s.resetInactive()
	return s
}

func (s *Solver) resetInactive() {
	s.redundant = nil
	s.inactive = make([]*Constraint, len(s.cs))
	for i, c := range s.cs {
		c.active = false
		c.unsatisfiable = false
		s.inactive[i] = c
	}
}

// Variables returns the solver's variables.
func (s *Solver) Variables() []*Variable { return s.vs }

// Constraints returns the solver's constraints.
func (s *Solver) Constraints() []*Constraint { return s.cs }

// Cost returns the weighted squared displacement of the current placement.
func (s *Solver) Cost() float64 {
	if s.bs == nil {
		return 0
	}
	return s.bs.cost()
}

// SetStartingPositions discards all blocks and places each variable in its
// own block at the given position.
func (s *Solver) SetStartingPositions(ps []float64) {
	s.resetInactive()
	s.bs = newBlocks(s.vs)
	for i, b := range s.bs.list {
		if i < len(ps) {
			b.posn = ps[i]
		}
	}
}

// SetDesiredPositions updates every variable's desired position.
func (s *Solver) SetDesiredPositions(ps []float64) {
	for i, v := range s.vs {
		if i < len(ps) {
			v.Desired = ps[i]
		}
	}
}

// mostViolated returns the inactive constraint with least slack, preferring
// equalities, and drops it from the inactive list if it will be processed.
func (s *Solver) mostViolated() *Constraint {
	minSlack := math.MaxFloat64
	var v *Constraint
	n := len(s.inactive)
	del := n
	for i, c := range s.inactive {
		if c.unsatisfiable {
			continue
		}
		slack := c.Slack()
		if c.Equality || slack < minSlack {
			minSlack = slack
			v = c
			del = i
			if c.Equality {
				break
			}
		}
	}
	if del != n && (minSlack < ZeroUpperBound && !v.active || v.Equality) {
		s.inactive[del] = s.inactive[n-1]
		s.inactive[n-1] = nil
		s.inactive = s.inactive[:n-1]
	}
	return v
}

func (s *Solver) iterationLimit() int {
	if s.MaxIterations > 0 {
		return s.MaxIterations
	}
	return 1000 + 50*(len(s.vs)+len(s.cs))
}

// Satisfy moves variables until no constraint is violated. It returns an
// UNSATISFIABLE error if the iteration limit is hit.
func (s *Solver) Satisfy() error {
	if s.bs == nil {
		s.bs = newBlocks(s.vs)
	}
	s.inactive = append(s.inactive, s.redundant...)
	s.redundant = s.redundant[:0]
	s.inactive = s.bs.split(s.inactive)
	limit := s.iterationLimit()
	for iter := 0; ; iter++ {
		v := s.mostViolated()
		if v == nil || !(v.Equality || v.Slack() < ZeroUpperBound && !v.active) {
			return nil
		}
		if iter >= limit {
			return errors.New(errors.ErrCodeUnsatisfiable,
				"no feasible placement found after %d iterations", limit)
		}
		lb, rb := v.Left.block, v.Right.block
		if lb != rb {
			s.bs.merge(v)
			continue
		}
		if v.Equality && math.Abs(v.Slack()) <= equalityTolerance {
			s.redundant = append(s.redundant, v)
			continue
		}
		if lb.isActiveDirectedPathBetween(v.Right, v.Left) {
			// cycle of active constraints
			v.unsatisfiable = true
			continue
		}
		c, splitL, splitR := lb.splitBetween(v.Left, v.Right)
		if c == nil {
			v.unsatisfiable = true
			continue
		}
		s.bs.insert(splitL)
		s.bs.insert(splitR)
		s.bs.remove(lb)
		s.inactive = append(s.inactive, c)
		if v.Slack() >= 0 {
			s.inactive = append(s.inactive, v)
		} else {
			s.bs.merge(v)
		}
	}
}

// Solve repeatedly satisfies and re-splits until the cost settles and returns
// the final cost. Positions are readable through Variable.Position
// afterwards, even when an error is returned.
//
// If any constraint had to be abandoned the error has code UNSATISFIABLE and
// wraps an *errors.UnsatisfiableError naming the first such constraint.
func (s *Solver) Solve() (float64, error) {
	start := time.Now()
	cost, err := s.solve()
	observability.Solver().OnSolve(len(s.vs), len(s.cs), cost, time.Since(start), err)
	return cost, err
}

func (s *Solver) solve() (float64, error) {
	if err := s.Satisfy(); err != nil {
		return s.Cost(), err
	}
	last, cost := math.MaxFloat64, s.bs.cost()
	for round := 0; math.Abs(last-cost) > costTolerance; round++ {
		if round >= maxSolveRounds {
			break
		}
		if err := s.Satisfy(); err != nil {
			return s.bs.cost(), err
		}
		last = cost
		cost = s.bs.cost()
	}
	for _, c := range s.cs {
		if c.unsatisfiable {
			return cost, errors.Wrap(errors.ErrCodeUnsatisfiable, &errors.UnsatisfiableError{
				Left:     c.Left.id,
				Right:    c.Right.id,
				Gap:      c.Gap,
				Equality: c.Equality,
			}, "constraint abandoned")
		}
	}
	return cost, nil
}
