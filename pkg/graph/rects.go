package graph

import "github.com/matzehuels/stresslayout/pkg/vpsc"

// Rect is a box given by its centre and size, as read and written by the
// overlap removal command.
type Rect struct {
	ID     string  `json:"id,omitempty" yaml:"id,omitempty"`
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// ToRectangles converts rs to solver rectangles.
func ToRectangles(rs []Rect) []*vpsc.Rectangle {
	out := make([]*vpsc.Rectangle, len(rs))
	for i, r := range rs {
		out[i] = vpsc.NewRectangle(r.X-r.Width/2, r.X+r.Width/2, r.Y-r.Height/2, r.Y+r.Height/2)
	}
	return out
}

// FromRectangles copies the centres of vs back into rs.
func FromRectangles(rs []Rect, vs []*vpsc.Rectangle) []Rect {
	out := make([]Rect, len(rs))
	for i, r := range rs {
		r.X, r.Y = vs[i].CX(), vs[i].CY()
		out[i] = r
	}
	return out
}
