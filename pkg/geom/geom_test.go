package geom

import (
	"fmt"
	"math"
	"testing"

	"github.com/matzehuels/stresslayout/pkg/descent"
)

func TestIsLeft(t *testing.T) {
	tests := []struct {
		name string
		p2   Point
		sign int
	}{
		{"left", Point{1, 1}, 1},
		{"on", Point{2, 0}, 0},
		{"right", Point{1, -1}, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsLeft(Point{0, 0}, Point{1, 0}, tt.p2)
			if sign(got) != tt.sign {
				t.Errorf("IsLeft() = %v, want sign %d", got, tt.sign)
			}
		})
	}
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func TestConvexHullRandom(t *testing.T) {
	rand := descent.NewPseudoRandom(1)
	nextInt := func(r float64) float64 { return math.Round(rand.Float64() * r) }

	for k := 0; k < 100; k++ {
		ps := make([]Point, 5)
		for i := range ps {
			ps[i] = Point{nextInt(100), nextInt(100)}
		}
		h := ConvexHull(ps)
		if len(h) >= 2 && h[0] == h[len(h)-1] {
			t.Fatalf("hull %d repeats its first point: %v", k, h)
		}
		for i := 2; i < len(h); i++ {
			p, q, r := h[i-2], h[i-1], h[i]
			if IsLeft(p, q, r) < 0 {
				t.Errorf("hull %d turns right at %d: %v", k, i, h)
			}
			for _, s := range ps {
				if IsLeft(p, q, s) < 0 {
					t.Errorf("hull %d: point %v outside edge %v-%v", k, s, p, q)
				}
			}
		}
	}
}

func TestConvexHullSquare(t *testing.T) {
	ps := []Point{{0, 0}, {2, 2}, {1, 1}, {2, 0}, {0, 2}, {1, 0}}
	h := ConvexHull(ps)
	want := []Point{{0, 0}, {2, 0}, {2, 2}, {0, 2}}
	if fmt.Sprint(h) != fmt.Sprint(want) {
		t.Errorf("ConvexHull() = %v, want %v", h, want)
	}
}

func TestConvexHullDegenerate(t *testing.T) {
	tests := []struct {
		name string
		ps   []Point
		want int
	}{
		{"empty", nil, 0},
		{"single", []Point{{1, 1}}, 1},
		{"duplicate pair", []Point{{1, 1}, {1, 1}}, 1},
		{"pair", []Point{{1, 1}, {2, 3}}, 2},
		{"vertical line", []Point{{0, 0}, {0, 1}, {0, 2}}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ConvexHull(tt.ps); len(got) != tt.want {
				t.Errorf("ConvexHull() = %v, want %d points", got, tt.want)
			}
		})
	}
}

func TestClockwiseRadialSweep(t *testing.T) {
	rand := descent.NewPseudoRandom(5)
	nextInt := func(r float64) float64 { return math.Round(rand.Float64() * r) }

	const n = 100
	ps := make([]Point, n)
	var cx, cy float64
	for i := range ps {
		ps[i] = Point{nextInt(400), nextInt(400)}
		cx += ps[i].X
		cy += ps[i].Y
	}
	q := Point{cx / n, cy / n}

	var prev *Point
	count := 0
	ClockwiseRadialSweep(q, ps, func(p Point, i int) {
		if i != count {
			t.Fatalf("index %d, want %d", i, count)
		}
		count++
		if prev != nil && IsLeft(q, *prev, p) < 0 {
			t.Errorf("sweep went backwards at %d: %v then %v", i, *prev, p)
		}
		prev = &p
	})
	if count != n {
		t.Errorf("visited %d points, want %d", count, n)
	}
}

func ExampleConvexHull() {
	hull := ConvexHull([]Point{{0, 0}, {4, 0}, {2, 1}, {4, 4}, {0, 4}})
	fmt.Println(hull)
	// Output: [{0 0} {4 0} {4 4} {0 4}]
}
