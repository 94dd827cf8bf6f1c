// Package layout arranges graph nodes by stress majorization under
// separation constraints.
//
// A [Layout] owns the nodes, links, constraints and groups of one graph.
// [Layout.Start] computes ideal distances from shortest paths, places nodes
// near the centre of the canvas and wires a [descent.Descent] to projections
// that enforce constraints through the vpsc solver. Each [Layout.Tick] then
// advances positions by one Runge-Kutta step and cools the alpha parameter
// from the relative stress improvement; once alpha drops under the
// convergence threshold the run ends.
//
// Ticks are driven by the caller, one per animation frame, or all at once
// with [Layout.Run]:
//
//	l := layout.New(nodes, links, layout.Options{AvoidOverlaps: true})
//	if err := l.Run(ctx); err != nil {
//	    return err
//	}
//	for _, n := range l.Nodes() {
//	    fmt.Println(n.X, n.Y)
//	}
//
// Nodes are updated in place after every tick. Lifecycle events (start,
// tick, end) are delivered synchronously to listeners registered with
// [Layout.On].
package layout

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/stresslayout/pkg/descent"
	"github.com/matzehuels/stresslayout/pkg/errors"
	"github.com/matzehuels/stresslayout/pkg/observability"
	"github.com/matzehuels/stresslayout/pkg/shortestpaths"
)

// jitter is the side of the square around the canvas centre in which free
// nodes are first placed.
const jitter = 10.0

// EventType names a lifecycle event.
type EventType string

const (
	EventStart EventType = "start"
	EventTick  EventType = "tick"
	EventEnd   EventType = "end"
)

// Event is delivered to listeners registered with On.
type Event struct {
	Type   EventType
	Alpha  float64
	Stress float64
	Tick   int
	RunID  string
}

// Layout is a constrained stress-majorization layout of one graph. It is not
// safe for concurrent use; independent layouts may run in parallel.
type Layout struct {
	opts        Options
	nodes       []*Node
	links       []Link
	constraints []Constraint
	groups      []Group
	distances   [][]float64

	log       *log.Logger
	listeners map[EventType][]func(Event)

	descent *descent.Descent
	rand    *descent.PseudoRandom
	proj    *projector
	ideal   [][]float64

	runID      string
	alpha      float64
	lastStress float64
	hasLast    bool
	ticks      int
	started    time.Time
}

// New returns a layout of nodes and links. When nodes is empty, Start creates
// one node per index referenced by links.
func New(nodes []*Node, links []Link, opts Options) *Layout {
	opts = opts.withDefaults()
	return &Layout{
		opts:      opts,
		nodes:     nodes,
		links:     links,
		log:       opts.Logger,
		listeners: make(map[EventType][]func(Event)),
	}
}

// Nodes returns the layout's nodes.
func (l *Layout) Nodes() []*Node { return l.nodes }

// Links returns the layout's links.
func (l *Layout) Links() []Link { return l.links }

// Options returns the effective options.
func (l *Layout) Options() Options { return l.opts }

// SetLinkDistance changes the ideal link length for the next Start.
func (l *Layout) SetLinkDistance(d float64) {
	l.opts.LinkDistance = d
}

// SetConstraints replaces the separation constraints. They take effect on
// the next Start.
func (l *Layout) SetConstraints(cs []Constraint) {
	l.constraints = cs
}

// SetGroups replaces the node groups. They take effect on the next Start.
func (l *Layout) SetGroups(gs []Group) {
	l.groups = gs
}

// SetDistanceMatrix supplies graph distances in link units, bypassing the
// shortest path computation. The matrix is scaled by LinkDistance.
func (l *Layout) SetDistanceMatrix(d [][]float64) {
	l.distances = d
}

// On registers f for events of type t.
func (l *Layout) On(t EventType, f func(Event)) {
	l.listeners[t] = append(l.listeners[t], f)
}

func (l *Layout) emit(e Event) {
	e.RunID = l.runID
	for _, f := range l.listeners[e.Type] {
		f(e)
	}
}

// RunID identifies the current run. It changes on every Start.
func (l *Layout) RunID() string { return l.runID }

// Ticks returns the number of ticks taken since Start.
func (l *Layout) Ticks() int { return l.ticks }

// Stress returns the stress of the current positions, or 0 before Start.
func (l *Layout) Stress() float64 {
	if l.descent == nil {
		return 0
	}
	return l.descent.ComputeStress()
}

// =============================================================================
// Lifecycle
// =============================================================================

// Start validates the input, computes ideal distances, places the nodes,
// runs the settling iterations and starts the run at the initial alpha.
//
// Malformed input returns INDEX_OUT_OF_RANGE, INVALID_INPUT or
// DIMENSION_MISMATCH errors; contradictory constraints return UNSATISFIABLE.
func (l *Layout) Start() error {
	if err := l.opts.validate(); err != nil {
		return err
	}
	if len(l.nodes) == 0 {
		l.nodes = nodesFromLinks(l.links)
	}
	n := len(l.nodes)
	for i, v := range l.nodes {
		v.Index = i
		if v.Fixed == UserFixed {
			v.sticky = true
		}
	}
	if err := l.validateInput(); err != nil {
		return err
	}

	ideal, err := l.idealDistances()
	if err != nil {
		return err
	}
	l.ideal = ideal

	l.rand = descent.NewPseudoRandom(l.opts.Seed)
	x := l.initialPositions()

	proj, err := newProjector(l)
	if err != nil {
		return err
	}
	l.proj = proj

	d, err := descent.New(x, ideal, descent.WithRandom(l.rand), descent.WithProjections(proj.projections()...))
	if err != nil {
		return err
	}
	l.descent = d
	l.runID = uuid.NewString()
	l.ticks = 0
	l.hasLast = false
	l.alpha = 0
	l.started = time.Now()

	l.log.Debug("layout start", "run", l.runID, "nodes", n, "links", len(l.links),
		"constraints", len(l.constraints), "groups", len(l.groups))
	observability.Layout().OnLayoutStart(context.Background(), l.runID, n, len(l.links))

	if err := l.settle(); err != nil {
		return err
	}
	l.writeBack()
	l.Resume()
	return nil
}

// settle runs the initial steepest-descent iterations, enabling more of the
// constraints at each phase.
func (l *Layout) settle() error {
	phases := []struct {
		phase projectionPhase
		n     int
	}{
		{phaseNone, l.opts.InitialUnconstrainedIterations},
		{phaseUser, l.opts.InitialUserConstraintIterations},
		{phaseAll, l.opts.InitialAllConstraintsIterations},
	}
	defer func() { l.proj.phase = phaseAll }()
	for _, p := range phases {
		l.proj.phase = p.phase
		for i := 0; i < p.n; i++ {
			if _, err := l.descent.ReduceStress(); err != nil {
				return err
			}
		}
	}
	return nil
}

// Alpha returns the cooling parameter. It is 0 when the layout is not
// running.
func (l *Layout) Alpha() float64 { return l.alpha }

// SetAlpha sets the cooling parameter. A running layout keeps going with the
// new value, or ends on the next tick if a is not positive. A stopped layout
// is started when a is positive.
func (l *Layout) SetAlpha(a float64) {
	if l.alpha > 0 {
		if a > 0 {
			l.alpha = a
		} else {
			l.alpha = 0
		}
		return
	}
	if a > 0 && l.descent != nil {
		l.alpha = a
		l.emit(Event{Type: EventStart, Alpha: a})
	}
}

// Resume restarts cooling from the initial alpha.
func (l *Layout) Resume() { l.SetAlpha(l.opts.InitialAlpha) }

// Stop makes the next tick end the run.
func (l *Layout) Stop() { l.SetAlpha(0) }

// Running reports whether ticks still move nodes.
func (l *Layout) Running() bool { return l.alpha > 0 }

// Tick advances the layout by one step. It returns true when the run has
// ended, at which point an end event has been delivered.
//
// A projection failure is logged and returned; positions are left as they
// were before the tick.
func (l *Layout) Tick() (bool, error) {
	return l.tick(context.Background())
}

// Step implements animate.Task.
func (l *Layout) Step() (bool, error) { return l.Tick() }

func (l *Layout) tick(ctx context.Context) (bool, error) {
	if l.descent == nil {
		return true, errors.New(errors.ErrCodeInvalidInput, "layout has not been started")
	}
	if l.alpha < l.opts.ConvergenceThreshold {
		l.finish(ctx, nil)
		return true, nil
	}

	s, err := l.descent.RungeKutta()
	if err != nil {
		l.log.Warn("projection failed", "run", l.runID, "tick", l.ticks, "err", err)
		return false, err
	}
	switch {
	case s == 0:
		l.alpha = 0
	case l.hasLast && l.lastStress >= s:
		l.alpha = l.lastStress/s - 1
	}
	l.lastStress, l.hasLast = s, true
	l.ticks++
	l.writeBack()

	l.log.Debug("tick", "run", l.runID, "tick", l.ticks, "alpha", l.alpha, "stress", s)
	observability.Layout().OnTick(ctx, l.runID, l.ticks, l.alpha, s)
	l.emit(Event{Type: EventTick, Alpha: l.alpha, Stress: s, Tick: l.ticks})
	return false, nil
}

func (l *Layout) finish(ctx context.Context, err error) {
	l.alpha = 0
	l.hasLast = false
	if l.opts.HandleDisconnected {
		l.packComponents()
	}
	stress := l.descent.ComputeStress()
	l.log.Info("layout converged", "run", l.runID, "ticks", l.ticks, "stress", stress)
	observability.Layout().OnLayoutEnd(ctx, l.runID, l.ticks, stress, time.Since(l.started), err)
	l.emit(Event{Type: EventEnd, Alpha: 0, Stress: stress, Tick: l.ticks})
}

// Run starts the layout if needed and ticks until it ends, MaxTicks is
// reached or ctx is cancelled.
func (l *Layout) Run(ctx context.Context) error {
	if l.descent == nil {
		if err := l.Start(); err != nil {
			return err
		}
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if l.opts.MaxTicks > 0 && l.ticks >= l.opts.MaxTicks && l.Running() {
			l.log.Warn("tick limit reached", "run", l.runID, "ticks", l.ticks, "alpha", l.alpha)
			l.Stop()
		}
		done, err := l.tick(ctx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

// writeBack copies descent positions to the nodes, holding fixed nodes at
// their pinned positions.
func (l *Layout) writeBack() {
	x := l.descent.X
	for i, v := range l.nodes {
		for dim := range x {
			if v.EffectivelyFixed() {
				x[dim][i] = v.pinned(dim)
			}
			v.setCoord(dim, x[dim][i])
		}
	}
}

// =============================================================================
// Setup
// =============================================================================

func nodesFromLinks(links []Link) []*Node {
	n := 0
	for _, e := range links {
		n = max(n, e.Source+1, e.Target+1)
	}
	nodes := make([]*Node, n)
	for i := range nodes {
		nodes[i] = &Node{Index: i}
	}
	return nodes
}

func (l *Layout) validateInput() error {
	n := len(l.nodes)
	for i, e := range l.links {
		if err := errors.ValidateIndex(linkField(i, "source"), e.Source, n); err != nil {
			return err
		}
		if err := errors.ValidateIndex(linkField(i, "target"), e.Target, n); err != nil {
			return err
		}
	}
	for i, c := range l.constraints {
		if _, err := errors.ValidateAxis(c.Axis, l.opts.Dims); err != nil {
			return err
		}
		if err := errors.ValidateIndex(constraintField(i, "left"), c.Left, n); err != nil {
			return err
		}
		if err := errors.ValidateIndex(constraintField(i, "right"), c.Right, n); err != nil {
			return err
		}
		if err := errors.ValidateFinite(constraintField(i, "gap"), c.Gap); err != nil {
			return err
		}
	}
	for i, v := range l.nodes {
		if err := errors.ValidateNonNegative(nodeField(i, "width"), v.Width); err != nil {
			return err
		}
		if err := errors.ValidateNonNegative(nodeField(i, "height"), v.Height); err != nil {
			return err
		}
	}
	return validateGroups(l.groups, n)
}

// idealDistances returns the matrix of target separations: graph distances
// scaled to layout units.
func (l *Layout) idealDistances() ([][]float64, error) {
	n := len(l.nodes)
	if l.distances != nil {
		if err := errors.ValidateSquareMatrix("distance matrix", l.distances, n); err != nil {
			return nil, err
		}
		d := make([][]float64, n)
		for i, row := range l.distances {
			d[i] = make([]float64, n)
			for j, v := range row {
				d[i][j] = v * l.opts.LinkDistance
			}
		}
		return d, nil
	}
	calc, err := shortestpaths.New(n, l.links,
		func(e Link) int { return e.Source },
		func(e Link) int { return e.Target },
		l.linkLength,
	)
	if err != nil {
		return nil, err
	}
	return calc.DistanceMatrix(), nil
}

// linkLength is the ideal length of e in layout units.
func (l *Layout) linkLength(e Link) float64 {
	d := l.opts.LinkDistance
	if l.opts.LinkDistanceFunc != nil {
		d = l.opts.LinkDistanceFunc(e)
	}
	return d * e.EffectiveLength()
}

// initialPositions places fixed nodes at their pinned positions and free
// nodes either by classical MDS or at random near the canvas centre.
func (l *Layout) initialPositions() [][]float64 {
	n, k := len(l.nodes), l.opts.Dims
	x := make([][]float64, k)
	for dim := range x {
		x[dim] = make([]float64, n)
	}
	centre := []float64{l.opts.Size[0] / 2, l.opts.Size[1] / 2, 0}

	placed := false
	if l.opts.InitialLayout == InitialMDS {
		placed = l.classicalScaling(x, centre)
		if !placed {
			l.log.Debug("mds placement unavailable, using random placement", "nodes", n)
		}
	}
	for i, v := range l.nodes {
		for dim := 0; dim < k; dim++ {
			switch {
			case v.EffectivelyFixed():
				x[dim][i] = v.pinned(dim)
			case !placed:
				x[dim][i] = centre[dim] + jitter*l.rand.Float64()
			}
		}
	}
	return x
}

func linkField(i int, name string) string       { return fieldName("link", i, name) }
func constraintField(i int, name string) string { return fieldName("constraint", i, name) }
func nodeField(i int, name string) string       { return fieldName("node", i, name) }

func fieldName(kind string, i int, name string) string {
	return fmt.Sprintf("%s[%d].%s", kind, i, name)
}

func finite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}
