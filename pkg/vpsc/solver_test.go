package vpsc

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/stresslayout/pkg/errors"
)

func variables(desired ...float64) []*Variable {
	vs := make([]*Variable, len(desired))
	for i, d := range desired {
		vs[i] = NewVariable(d, 1)
	}
	return vs
}

func positions(vs []*Variable) []float64 {
	ps := make([]float64, len(vs))
	for i, v := range vs {
		ps[i] = v.Position()
	}
	return ps
}

func assertSatisfied(t *testing.T, cs []*Constraint) {
	t.Helper()
	for i, c := range cs {
		if c.Equality {
			assert.InDelta(t, 0, c.Slack(), 1e-6, "equality %d", i)
		} else {
			assert.GreaterOrEqual(t, c.Slack(), -1e-6, "constraint %d", i)
		}
	}
}

func TestSolverTwoVariables(t *testing.T) {
	vs := variables(0, 0)
	cs := []*Constraint{NewConstraint(vs[0], vs[1], 2)}

	cost, err := NewSolver(vs, cs).Solve()
	require.NoError(t, err)
	assert.InDelta(t, -1, vs[0].Position(), 1e-9)
	assert.InDelta(t, 1, vs[1].Position(), 1e-9)
	assert.InDelta(t, 2, cost, 1e-9)
	assert.True(t, cs[0].Active())
}

func TestSolverAlreadySatisfied(t *testing.T) {
	vs := variables(0, 5)
	cs := []*Constraint{NewConstraint(vs[0], vs[1], 2)}

	cost, err := NewSolver(vs, cs).Solve()
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0, 5}, positions(vs), 1e-12)
	assert.Zero(t, cost)
}

func TestSolverChain(t *testing.T) {
	vs := variables(0, 0, 0)
	cs := []*Constraint{
		NewConstraint(vs[0], vs[1], 1),
		NewConstraint(vs[1], vs[2], 1),
	}

	_, err := NewSolver(vs, cs).Solve()
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{-1, 0, 1}, positions(vs), 1e-9)
	assertSatisfied(t, cs)
}

func TestSolverWeights(t *testing.T) {
	vs := []*Variable{NewVariable(0, 1000), NewVariable(0, 1)}
	cs := []*Constraint{NewConstraint(vs[0], vs[1], 1)}

	_, err := NewSolver(vs, cs).Solve()
	require.NoError(t, err)
	assert.InDelta(t, -1.0/1001, vs[0].Position(), 1e-9)
	assert.InDelta(t, 1000.0/1001, vs[1].Position(), 1e-9)
}

func TestSolverFanOut(t *testing.T) {
	vs := variables(0, 0, 0)
	cs := []*Constraint{
		NewConstraint(vs[0], vs[1], 2),
		NewConstraint(vs[0], vs[2], 2),
	}

	_, err := NewSolver(vs, cs).Solve()
	require.NoError(t, err)
	assertSatisfied(t, cs)
	assert.InDeltaSlice(t, []float64{-4.0 / 3, 2.0 / 3, 2.0 / 3}, positions(vs), 1e-9)
}

func TestSolverEquality(t *testing.T) {
	vs := variables(0, 10)
	cs := []*Constraint{NewEquality(vs[0], vs[1], 2)}

	_, err := NewSolver(vs, cs).Solve()
	require.NoError(t, err)
	assert.InDelta(t, 4, vs[0].Position(), 1e-9)
	assert.InDelta(t, 6, vs[1].Position(), 1e-9)
}

func TestSolverRedundantEqualities(t *testing.T) {
	vs := variables(0, 0, 0)
	cs := []*Constraint{
		NewEquality(vs[0], vs[1], 2),
		NewEquality(vs[1], vs[2], 3),
		NewEquality(vs[0], vs[2], 5),
	}

	_, err := NewSolver(vs, cs).Solve()
	require.NoError(t, err)
	assertSatisfied(t, cs)
	assert.InDelta(t, -7.0/3, vs[0].Position(), 1e-9)
}

func TestSolverContradiction(t *testing.T) {
	vs := variables(0, 0)
	cs := []*Constraint{
		NewConstraint(vs[0], vs[1], 1),
		NewConstraint(vs[1], vs[0], 1),
	}

	_, err := NewSolver(vs, cs).Solve()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeUnsatisfiable))

	var ue *errors.UnsatisfiableError
	require.True(t, stderrors.As(err, &ue))
	assert.Equal(t, 1, ue.Left)
	assert.Equal(t, 0, ue.Right)
	assert.True(t, cs[1].Unsatisfiable())
	assert.False(t, cs[0].Unsatisfiable())
}

func TestSolverIterationLimit(t *testing.T) {
	vs := variables(0, 0, 0)
	cs := []*Constraint{
		NewConstraint(vs[0], vs[1], 1),
		NewConstraint(vs[1], vs[2], 1),
	}
	s := NewSolver(vs, cs)
	s.MaxIterations = 1

	_, err := s.Solve()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeUnsatisfiable))
}

func TestSolverDesiredAndStartingPositions(t *testing.T) {
	vs := variables(0, 0)
	cs := []*Constraint{NewConstraint(vs[0], vs[1], 1)}
	s := NewSolver(vs, cs)
	_, err := s.Solve()
	require.NoError(t, err)

	s.SetDesiredPositions([]float64{10, 10})
	s.SetStartingPositions([]float64{10, 10})
	_, err = s.Solve()
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{9.5, 10.5}, positions(vs), 1e-9)
	assert.InDelta(t, 0.5, s.Cost(), 1e-9)
}

func TestSolverDefaultsZeroWeightAndScale(t *testing.T) {
	vs := []*Variable{{Desired: 0}, {Desired: 0}}
	cs := []*Constraint{NewConstraint(vs[0], vs[1], 2)}

	_, err := NewSolver(vs, cs).Solve()
	require.NoError(t, err)
	assert.Equal(t, 1.0, vs[0].Weight)
	assert.Equal(t, 1.0, vs[1].Scale)
	assert.InDelta(t, 1, vs[1].Position(), 1e-9)
}

func TestCheckFeasible(t *testing.T) {
	tests := []struct {
		name    string
		build   func(vs []*Variable) []*Constraint
		wantErr bool
	}{
		{
			name: "chain",
			build: func(vs []*Variable) []*Constraint {
				return []*Constraint{NewConstraint(vs[0], vs[1], 1), NewConstraint(vs[1], vs[2], 1)}
			},
		},
		{
			name: "consistent equalities",
			build: func(vs []*Variable) []*Constraint {
				return []*Constraint{
					NewEquality(vs[0], vs[1], 2),
					NewEquality(vs[1], vs[2], 3),
					NewEquality(vs[0], vs[2], 5),
				}
			},
		},
		{
			name: "zero-gap cycle",
			build: func(vs []*Variable) []*Constraint {
				return []*Constraint{NewConstraint(vs[0], vs[1], 0), NewConstraint(vs[1], vs[0], 0)}
			},
		},
		{
			name: "positive cycle",
			build: func(vs []*Variable) []*Constraint {
				return []*Constraint{
					NewConstraint(vs[0], vs[1], 1),
					NewConstraint(vs[1], vs[2], 1),
					NewConstraint(vs[2], vs[0], 1),
				}
			},
			wantErr: true,
		},
		{
			name: "contradictory equalities",
			build: func(vs []*Variable) []*Constraint {
				return []*Constraint{
					NewEquality(vs[0], vs[1], 2),
					NewEquality(vs[1], vs[2], 3),
					NewEquality(vs[0], vs[2], 4),
				}
			},
			wantErr: true,
		},
		{
			name: "equality against inequality",
			build: func(vs []*Variable) []*Constraint {
				return []*Constraint{NewEquality(vs[0], vs[1], 0), NewConstraint(vs[0], vs[1], 1)}
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vs := variables(0, 0, 0)
			err := CheckFeasible(vs, tt.build(vs))
			if (err != nil) != tt.wantErr {
				t.Errorf("CheckFeasible() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeUnsatisfiable) {
				t.Errorf("CheckFeasible() code = %v, want %v", errors.GetCode(err), errors.ErrCodeUnsatisfiable)
			}
		})
	}
}

func TestCheckFeasibleForeignVariable(t *testing.T) {
	vs := variables(0, 0)
	other := NewVariable(0, 1)
	err := CheckFeasible(vs, []*Constraint{NewConstraint(vs[0], other, 1)})
	assert.True(t, errors.Is(err, errors.ErrCodeIndexOutOfRange))
}
