package layout

import "github.com/matzehuels/stresslayout/pkg/errors"

// Interactive pinning. A node pinned with SetFixed stays pinned through drags
// and hovers; other nodes are released when the drag or hover ends.

func (l *Layout) node(i int) (*Node, error) {
	if err := errors.ValidateIndex("node", i, len(l.nodes)); err != nil {
		return nil, err
	}
	return l.nodes[i], nil
}

// SetFixed pins node i at its current position, or releases it.
func (l *Layout) SetFixed(i int, fixed bool) error {
	v, err := l.node(i)
	if err != nil {
		return err
	}
	v.sticky = fixed
	switch {
	case fixed && v.Fixed == Free:
		v.Fixed = UserFixed
		v.pin()
	case !fixed && v.Fixed == UserFixed:
		v.Fixed = Free
	}
	return nil
}

// DragStart pins node i where it is until DragEnd.
func (l *Layout) DragStart(i int) error {
	v, err := l.node(i)
	if err != nil {
		return err
	}
	v.Fixed = Dragging
	v.pin()
	return nil
}

// DragMove moves the pinned position of node i and resumes the layout so the
// rest of the graph follows.
func (l *Layout) DragMove(i int, x, y float64) error {
	v, err := l.node(i)
	if err != nil {
		return err
	}
	v.PX, v.PY = x, y
	v.X, v.Y = x, y
	l.Resume()
	return nil
}

// DragEnd releases node i unless it was fixed with SetFixed.
func (l *Layout) DragEnd(i int) error {
	v, err := l.node(i)
	if err != nil {
		return err
	}
	v.Fixed = v.released()
	return nil
}

// HoverStart holds node i in place while the pointer rests on it.
func (l *Layout) HoverStart(i int) error {
	v, err := l.node(i)
	if err != nil {
		return err
	}
	if v.Fixed != Dragging {
		v.Fixed = Hovering
		v.pin()
	}
	return nil
}

// HoverEnd releases a hovered node.
func (l *Layout) HoverEnd(i int) error {
	v, err := l.node(i)
	if err != nil {
		return err
	}
	if v.Fixed == Hovering {
		v.Fixed = v.released()
	}
	return nil
}
