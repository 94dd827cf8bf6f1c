// Package geom provides small planar geometry helpers used around graph
// layouts: orientation tests, convex hulls of node positions, and radial
// ordering of points around a centre.
//
// Orientation follows screen coordinates (y grows downward), so a positive
// [IsLeft] is a clockwise turn on screen.
package geom

import (
	"math"
	"sort"
)

// Point is a position in the plane.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// IsLeft reports on which side of the line through p0 and p1 the point p2
// lies: > 0 left of it, 0 on it, < 0 right of it.
func IsLeft(p0, p1, p2 Point) float64 {
	return (p1.X-p0.X)*(p2.Y-p0.Y) - (p2.X-p0.X)*(p1.Y-p0.Y)
}

// ConvexHull returns the vertices of the convex hull of ps with Andrew's
// monotone chain algorithm. Every point of ps is left of or on each hull edge
// and consecutive vertices turn left. Collinear boundary points are dropped
// and the first vertex is not repeated at the end.
func ConvexHull(ps []Point) []Point {
	if len(ps) < 3 {
		return dedupe(ps)
	}
	sorted := append([]Point(nil), ps...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].X != sorted[j].X {
			return sorted[i].X < sorted[j].X
		}
		return sorted[i].Y < sorted[j].Y
	})

	hull := make([]Point, 0, 2*len(sorted))
	for _, p := range sorted {
		for len(hull) >= 2 && IsLeft(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for i := len(sorted) - 2; i >= 0; i-- {
		p := sorted[i]
		for len(hull) >= lower && IsLeft(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	// the last point repeats the first
	return dedupe(hull[:len(hull)-1])
}

func dedupe(ps []Point) []Point {
	if len(ps) == 2 && ps[0] == ps[1] {
		return []Point{ps[0]}
	}
	return append([]Point(nil), ps...)
}

// ClockwiseRadialSweep calls f for each point of ps in order of increasing
// angle around centre, which is clockwise on screen. i is the position of p
// in the sweep. ps itself is not reordered.
func ClockwiseRadialSweep(centre Point, ps []Point, f func(p Point, i int)) {
	sorted := append([]Point(nil), ps...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return angle(centre, sorted[i]) < angle(centre, sorted[j])
	})
	for i, p := range sorted {
		f(p, i)
	}
}

func angle(c, p Point) float64 {
	return math.Atan2(p.Y-c.Y, p.X-c.X)
}
