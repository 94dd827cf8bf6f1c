// Package vpsc solves Variable Placement with Separation Constraints.
//
// Given one-dimensional variables with desired positions and weights, and
// constraints of the form
//
//	right - left >= gap   (or == gap)
//
// the [Solver] finds the placement minimizing Σ weight·(position − desired)²
// subject to every constraint. It works by merging variables into rigid
// blocks as violated constraints become active and splitting blocks again
// where a Lagrange multiplier shows a constraint is pulling the wrong way.
//
// # Overlap Removal
//
// The package also generates separation constraints for axis-aligned
// rectangles with a sweep line. [GenerateXConstraints] and
// [GenerateYConstraints] emit constraints between rectangles that would
// overlap, and [RemoveOverlaps] runs both passes to move rectangle centres
// apart with minimal total displacement:
//
//	rs := []*vpsc.Rectangle{
//	    vpsc.NewRectangle(0, 2, 0, 1),
//	    vpsc.NewRectangle(1, 3, 0, 1),
//	}
//	if err := vpsc.RemoveOverlaps(rs); err != nil {
//	    return err
//	}
//
// Nested clusters of rectangles are handled by [GenerateXGroupConstraints]
// and [GenerateYGroupConstraints], which keep members inside their group's
// padded boundary and groups apart from their siblings.
//
// # Infeasibility
//
// Constraint sets built by the generators are always feasible. Hand-written
// sets may not be: [CheckFeasible] detects contradictions up front, and
// [Solver.Solve] reports an UNSATISFIABLE error (see pkg/errors) rather than
// looping when it meets a cycle of active constraints.
package vpsc
