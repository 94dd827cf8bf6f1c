package vpsc

import "math"

// Rectangle is an axis-aligned box spanning [X0,X1] × [Y0,Y1].
type Rectangle struct {
	X0 float64 `json:"x"`
	X1 float64 `json:"X"`
	Y0 float64 `json:"y"`
	Y1 float64 `json:"Y"`
}

// NewRectangle returns the rectangle [x0,x1] × [y0,y1].
func NewRectangle(x0, x1, y0, y1 float64) *Rectangle {
	return &Rectangle{X0: x0, X1: x1, Y0: y0, Y1: y1}
}

// EmptyRectangle returns the identity element for Union.
func EmptyRectangle() *Rectangle {
	return &Rectangle{X0: math.Inf(1), X1: math.Inf(-1), Y0: math.Inf(1), Y1: math.Inf(-1)}
}

// CX returns the horizontal centre.
func (r *Rectangle) CX() float64 { return (r.X0 + r.X1) / 2 }

// CY returns the vertical centre.
func (r *Rectangle) CY() float64 { return (r.Y0 + r.Y1) / 2 }

// Width returns X1 - X0.
func (r *Rectangle) Width() float64 { return r.X1 - r.X0 }

// Height returns Y1 - Y0.
func (r *Rectangle) Height() float64 { return r.Y1 - r.Y0 }

// IsEmpty reports whether the rectangle contains no points.
func (r *Rectangle) IsEmpty() bool { return r.X0 > r.X1 || r.Y0 > r.Y1 }

// OverlapX returns the horizontal overlap of r and o, measured from whichever
// of the two has the smaller centre, or 0 when they are disjoint.
func (r *Rectangle) OverlapX(o *Rectangle) float64 {
	ux, vx := r.CX(), o.CX()
	if ux <= vx && o.X0 < r.X1 {
		return r.X1 - o.X0
	}
	if vx <= ux && r.X0 < o.X1 {
		return o.X1 - r.X0
	}
	return 0
}

// OverlapY is the vertical counterpart of OverlapX.
func (r *Rectangle) OverlapY(o *Rectangle) float64 {
	uy, vy := r.CY(), o.CY()
	if uy <= vy && o.Y0 < r.Y1 {
		return r.Y1 - o.Y0
	}
	if vy <= uy && r.Y0 < o.Y1 {
		return o.Y1 - r.Y0
	}
	return 0
}

// SetXCentre translates r horizontally so that its centre is cx.
func (r *Rectangle) SetXCentre(cx float64) {
	dx := cx - r.CX()
	r.X0 += dx
	r.X1 += dx
}

// SetYCentre translates r vertically so that its centre is cy.
func (r *Rectangle) SetYCentre(cy float64) {
	dy := cy - r.CY()
	r.Y0 += dy
	r.Y1 += dy
}

// Union returns the smallest rectangle containing r and o.
func (r *Rectangle) Union(o *Rectangle) *Rectangle {
	return &Rectangle{
		X0: math.Min(r.X0, o.X0),
		X1: math.Max(r.X1, o.X1),
		Y0: math.Min(r.Y0, o.Y0),
		Y1: math.Max(r.Y1, o.Y1),
	}
}

// Inflate returns r grown by pad on every side.
func (r *Rectangle) Inflate(pad float64) *Rectangle {
	return &Rectangle{X0: r.X0 - pad, X1: r.X1 + pad, Y0: r.Y0 - pad, Y1: r.Y1 + pad}
}

// RayIntersection returns the point where the segment from the centre of r
// to (x, y) leaves r. ok is false when (x, y) lies inside r.
func (r *Rectangle) RayIntersection(x, y float64) (px, py float64, ok bool) {
	cx, cy := r.CX(), r.CY()
	sides := [4][4]float64{
		{r.X0, r.Y0, r.X1, r.Y0}, // top
		{r.X1, r.Y0, r.X1, r.Y1}, // right
		{r.X1, r.Y1, r.X0, r.Y1}, // bottom
		{r.X0, r.Y1, r.X0, r.Y0}, // left
	}
	for _, s := range sides {
		if px, py, hit := lineIntersection(cx, cy, x, y, s[0], s[1], s[2], s[3]); hit {
			return px, py, true
		}
	}
	return 0, 0, false
}

// lineIntersection intersects segments (x1,y1)-(x2,y2) and (x3,y3)-(x4,y4).
func lineIntersection(x1, y1, x2, y2, x3, y3, x4, y4 float64) (float64, float64, bool) {
	dx12, dy12 := x2-x1, y2-y1
	dx34, dy34 := x4-x3, y4-y3
	denom := dy34*dx12 - dx34*dy12
	if denom == 0 {
		return 0, 0, false
	}
	dx31, dy31 := x1-x3, y1-y3
	ua := (dx34*dy31 - dy34*dx31) / denom
	ub := (dx12*dy31 - dy12*dx31) / denom
	if ua < 0 || ua > 1 || ub < 0 || ub > 1 {
		return 0, 0, false
	}
	return x1 + ua*dx12, y1 + ua*dy12, true
}
