package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/stresslayout/pkg/errors"
)

func TestFixStateTransitions(t *testing.T) {
	type step func(l *Layout) error
	var (
		fix       step = func(l *Layout) error { return l.SetFixed(0, true) }
		unfix     step = func(l *Layout) error { return l.SetFixed(0, false) }
		dragStart step = func(l *Layout) error { return l.DragStart(0) }
		dragEnd   step = func(l *Layout) error { return l.DragEnd(0) }
		hover     step = func(l *Layout) error { return l.HoverStart(0) }
		unhover   step = func(l *Layout) error { return l.HoverEnd(0) }
	)
	tests := []struct {
		name  string
		steps []step
		want  FixState
	}{
		{"fixed", []step{fix}, UserFixed},
		{"fixed then released", []step{fix, unfix}, Free},
		{"drag", []step{dragStart}, Dragging},
		{"drag released", []step{dragStart, dragEnd}, Free},
		{"drag of fixed node stays fixed", []step{fix, dragStart, dragEnd}, UserFixed},
		{"hover", []step{hover}, Hovering},
		{"hover released", []step{hover, unhover}, Free},
		{"hover of fixed node stays fixed", []step{fix, hover, unhover}, UserFixed},
		{"hover does not interrupt drag", []step{dragStart, hover}, Dragging},
		{"hover end does not release drag", []step{dragStart, unhover}, Dragging},
		{"unfix during drag releases on drag end", []step{fix, dragStart, unfix, dragEnd}, Free},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New([]*Node{{X: 3, Y: 4}, {}}, nil, Options{})
			for _, s := range tt.steps {
				require.NoError(t, s(l))
			}
			v := l.Nodes()[0]
			assert.Equal(t, tt.want, v.Fixed, "got %s", v.Fixed)
			assert.Equal(t, tt.want != Free, v.EffectivelyFixed())
		})
	}
}

func TestDragPinsPosition(t *testing.T) {
	l := New([]*Node{{X: 3, Y: 4}, {X: 5, Y: 6}}, []Link{{Source: 0, Target: 1}}, Options{})
	require.NoError(t, l.Start())
	l.Stop()

	v := l.Nodes()[0]
	require.NoError(t, l.DragStart(0))
	assert.Equal(t, v.X, v.PX)
	assert.Equal(t, v.Y, v.PY)

	require.NoError(t, l.DragMove(0, 200, 150))
	assert.True(t, l.Running(), "drag move resumes the layout")
	_, err := l.Tick()
	require.NoError(t, err)
	assert.Equal(t, 200.0, v.X)
	assert.Equal(t, 150.0, v.Y)
}

func TestDragIndexOutOfRange(t *testing.T) {
	l := New([]*Node{{}}, nil, Options{})
	for _, err := range []error{
		l.DragStart(1), l.DragMove(-1, 0, 0), l.DragEnd(2),
		l.HoverStart(5), l.HoverEnd(5), l.SetFixed(9, true),
	} {
		assert.True(t, errors.Is(err, errors.ErrCodeIndexOutOfRange), "got %v", err)
	}
}

func TestFixStateString(t *testing.T) {
	assert.Equal(t, "free", Free.String())
	assert.Equal(t, "dragging", Dragging.String())
	assert.Equal(t, "FixState(9)", FixState(9).String())
}
