package vpsc

import (
	"github.com/tidwall/rtree"
)

// OverlappingPairs returns every pair (i, j), i < j, of rectangles in rs
// that overlap on both axes. Candidates come from an R-tree, so the cost is
// close to O(n log n) for sparse layouts.
func OverlappingPairs(rs []*Rectangle) [][2]int {
	var tr rtree.RTreeG[int]
	for i, r := range rs {
		tr.Insert([2]float64{r.X0, r.Y0}, [2]float64{r.X1, r.Y1}, i)
	}
	var pairs [][2]int
	for i, r := range rs {
		tr.Search([2]float64{r.X0, r.Y0}, [2]float64{r.X1, r.Y1},
			func(_, _ [2]float64, j int) bool {
				if j > i && r.OverlapX(rs[j]) > 0 && r.OverlapY(rs[j]) > 0 {
					pairs = append(pairs, [2]int{i, j})
				}
				return true
			})
	}
	return pairs
}

// CountOverlaps returns the number of overlapping rectangle pairs in rs.
func CountOverlaps(rs []*Rectangle) int {
	return len(OverlappingPairs(rs))
}
