package layout

import "math"

// SymmetricDiffLinkLengths sets each link's Length to 1 + w·sqrt(|A∪B| - |A∩B|),
// where A and B are the neighbour sets of its endpoints. Links between nodes
// in sparse, dissimilar neighbourhoods become longer.
func (l *Layout) SymmetricDiffLinkLengths(w float64) {
	l.computeLinkLengths(w, func(a, b map[int]struct{}) float64 {
		return math.Sqrt(float64(unionCount(a, b) - intersectionCount(a, b)))
	})
}

// JaccardLinkLengths sets each link's Length to 1 + w·|A∩B|/|A∪B|. Links
// touching a leaf keep length 1.
func (l *Layout) JaccardLinkLengths(w float64) {
	l.computeLinkLengths(w, func(a, b map[int]struct{}) float64 {
		if min(len(a), len(b)) < 2 {
			return 0
		}
		return float64(intersectionCount(a, b)) / float64(unionCount(a, b))
	})
}

func (l *Layout) computeLinkLengths(w float64, f func(a, b map[int]struct{}) float64) {
	n := len(l.nodes)
	for _, e := range l.links {
		n = max(n, e.Source+1, e.Target+1)
	}
	neighbours := make([]map[int]struct{}, n)
	for i := range neighbours {
		neighbours[i] = make(map[int]struct{})
	}
	for _, e := range l.links {
		if e.Source < 0 || e.Target < 0 {
			continue
		}
		neighbours[e.Source][e.Target] = struct{}{}
		neighbours[e.Target][e.Source] = struct{}{}
	}
	for i, e := range l.links {
		if e.Source < 0 || e.Target < 0 {
			continue
		}
		l.links[i].Length = 1 + w*f(neighbours[e.Source], neighbours[e.Target])
	}
}

func unionCount(a, b map[int]struct{}) int {
	return len(a) + len(b) - intersectionCount(a, b)
}

func intersectionCount(a, b map[int]struct{}) int {
	if len(b) < len(a) {
		a, b = b, a
	}
	n := 0
	for k := range a {
		if _, ok := b[k]; ok {
			n++
		}
	}
	return n
}
