package layout

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stresslayout/pkg/errors"
)

const (
	// DefaultWidth and DefaultHeight size the canvas around whose centre
	// nodes are first placed.
	DefaultWidth  = 800.0
	DefaultHeight = 600.0

	// DefaultLinkDistance is the ideal length of a link.
	DefaultLinkDistance = 20.0

	// DefaultInitialAlpha is the cooling parameter set by Start and Resume.
	DefaultInitialAlpha = 0.1

	// DefaultConvergenceThreshold ends a run once alpha falls below it.
	DefaultConvergenceThreshold = 1e-5

	// DefaultMaxTicks bounds Run.
	DefaultMaxTicks = 10000

	// DefaultComponentPadding separates packed components.
	DefaultComponentPadding = 20.0

	// DefaultSeed seeds initial placement and tie-breaking.
	DefaultSeed = int64(42)
)

// Initial placement strategies.
const (
	InitialRandom = "random"
	InitialMDS    = "mds"
)

// Options configures a Layout. Zero values select the defaults above.
type Options struct {
	// Size is the canvas width and height.
	Size [2]float64

	// LinkDistance is the ideal length of a link with Length 1.
	LinkDistance float64
	// LinkDistanceFunc, when set, overrides LinkDistance per link.
	LinkDistanceFunc func(Link) float64

	AvoidOverlaps      bool
	HandleDisconnected bool
	ComponentPadding   float64

	// Dims is 2 or 3.
	Dims int
	Seed int64

	InitialAlpha         float64
	ConvergenceThreshold float64
	MaxTicks             int

	// Settling steps taken by Start before animation begins: first with no
	// constraints, then with user constraints, then with every constraint.
	InitialUnconstrainedIterations  int
	InitialUserConstraintIterations int
	InitialAllConstraintsIterations int

	// InitialLayout is InitialRandom or InitialMDS.
	InitialLayout string

	Logger *log.Logger
}

func (o Options) withDefaults() Options {
	if o.Size[0] == 0 {
		o.Size[0] = DefaultWidth
	}
	if o.Size[1] == 0 {
		o.Size[1] = DefaultHeight
	}
	if o.LinkDistance == 0 {
		o.LinkDistance = DefaultLinkDistance
	}
	if o.Dims == 0 {
		o.Dims = 2
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.InitialAlpha == 0 {
		o.InitialAlpha = DefaultInitialAlpha
	}
	if o.ConvergenceThreshold == 0 {
		o.ConvergenceThreshold = DefaultConvergenceThreshold
	}
	if o.MaxTicks == 0 {
		o.MaxTicks = DefaultMaxTicks
	}
	if o.ComponentPadding == 0 {
		o.ComponentPadding = DefaultComponentPadding
	}
	if o.InitialLayout == "" {
		o.InitialLayout = InitialRandom
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	return o
}

func (o Options) validate() error {
	if o.Dims != 2 && o.Dims != 3 {
		return errors.New(errors.ErrCodeInvalidConfig, "dims must be 2 or 3, got %d", o.Dims)
	}
	if err := errors.ValidatePositive("link distance", o.LinkDistance); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid link distance")
	}
	for i, v := range o.Size {
		if err := errors.ValidatePositive("size", v); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid size[%d]", i)
		}
	}
	if o.InitialAlpha <= 0 || o.ConvergenceThreshold <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "alpha and convergence threshold must be positive")
	}
	if o.MaxTicks < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "max ticks must be non-negative, got %d", o.MaxTicks)
	}
	if o.InitialUnconstrainedIterations < 0 || o.InitialUserConstraintIterations < 0 || o.InitialAllConstraintsIterations < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "initial iterations must be non-negative")
	}
	switch o.InitialLayout {
	case InitialRandom, InitialMDS:
	default:
		return errors.New(errors.ErrCodeInvalidConfig,
			"unknown initial layout %q (must be one of: %s, %s)", o.InitialLayout, InitialRandom, InitialMDS)
	}
	return nil
}
