// Package pipeline runs the load → paths → layout → export sequence shared
// by every stresslayout command.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Paths: compute all-pairs graph distances, served from a cache when the
//     same graph structure was laid out before
//  2. Layout: run the constrained stress majorization to convergence
//  3. Export: pair node IDs with their positions in a [graph.Result]
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, logger)
//	opts := pipeline.Options{LinkDistance: 40, AvoidOverlaps: true}
//	result, err := runner.ExecuteFile(ctx, "graph.yaml", opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	graph.WriteResult(result.Output, os.Stdout)
//
// Build a layout without running it, to drive ticks yourself:
//
//	l, err := runner.Build(ctx, g, opts)
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stresslayout/pkg/graph"
	"github.com/matzehuels/stresslayout/pkg/layout"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and config files
// =============================================================================

const (
	DefaultWidth                = layout.DefaultWidth
	DefaultHeight               = layout.DefaultHeight
	DefaultLinkDistance         = layout.DefaultLinkDistance
	DefaultInitialAlpha         = layout.DefaultInitialAlpha
	DefaultConvergenceThreshold = layout.DefaultConvergenceThreshold
	DefaultMaxTicks             = layout.DefaultMaxTicks
	DefaultComponentPadding     = layout.DefaultComponentPadding
	DefaultSeed                 = layout.DefaultSeed
	DefaultDims                 = 2

	// DefaultInitialLayout is the initial placement strategy.
	DefaultInitialLayout = layout.InitialRandom

	// DefaultLinkLengthWeight scales the link length heuristics.
	DefaultLinkLengthWeight = 1.0

	// DefaultCacheTTL is how long distance matrices stay cached.
	DefaultCacheTTL = 7 * 24 * time.Hour
)

// Link length heuristics.
const (
	LinkLengthsNone      = "none"
	LinkLengthsSymmetric = "symmetric"
	LinkLengthsJaccard   = "jaccard"
)

// ValidLinkLengths is the set of supported link length heuristics.
var ValidLinkLengths = map[string]bool{
	LinkLengthsNone:      true,
	LinkLengthsSymmetric: true,
	LinkLengthsJaccard:   true,
}

// ValidInitialLayouts is the set of supported initial placements.
var ValidInitialLayouts = map[string]bool{
	layout.InitialRandom: true,
	layout.InitialMDS:    true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a layout run. It can be read from
// TOML config files and JSON.
type Options struct {
	// Canvas
	Width  float64 `json:"width,omitempty" toml:"width"`
	Height float64 `json:"height,omitempty" toml:"height"`

	// Geometry
	Dims               int     `json:"dims,omitempty" toml:"dims"`
	LinkDistance       float64 `json:"link_distance,omitempty" toml:"link_distance"`
	LinkLengths        string  `json:"link_lengths,omitempty" toml:"link_lengths"`
	LinkLengthWeight   float64 `json:"link_length_weight,omitempty" toml:"link_length_weight"`
	AvoidOverlaps      bool    `json:"avoid_overlaps,omitempty" toml:"avoid_overlaps"`
	HandleDisconnected bool    `json:"handle_disconnected,omitempty" toml:"handle_disconnected"`
	ComponentPadding   float64 `json:"component_padding,omitempty" toml:"component_padding"`

	// Convergence
	InitialLayout            string  `json:"initial_layout,omitempty" toml:"initial_layout"`
	Seed                     int64   `json:"seed,omitempty" toml:"seed"`
	InitialAlpha             float64 `json:"initial_alpha,omitempty" toml:"initial_alpha"`
	ConvergenceThreshold     float64 `json:"convergence_threshold,omitempty" toml:"convergence_threshold"`
	MaxTicks                 int     `json:"max_ticks,omitempty" toml:"max_ticks"`
	UnconstrainedIterations  int     `json:"unconstrained_iterations,omitempty" toml:"unconstrained_iterations"`
	UserConstraintIterations int     `json:"user_constraint_iterations,omitempty" toml:"user_constraint_iterations"`
	AllConstraintsIterations int     `json:"all_constraints_iterations,omitempty" toml:"all_constraints_iterations"`

	// Refresh recomputes distances even when they are cached.
	Refresh bool `json:"refresh,omitempty" toml:"-"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-" toml:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Output is the serializable layout.
	Output graph.Result

	// Layout is the finished layout, for callers that keep ticking.
	Layout *layout.Layout

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	Components int
	Ticks      int
	Stress     float64
	Overlaps   int // overlapping node pairs left in the result
	PathsTime  time.Duration
	LayoutTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	DistancesHit bool // Whether the distance matrix came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateLinkLengths checks that a link length heuristic is valid.
func ValidateLinkLengths(mode string) error {
	if !ValidLinkLengths[mode] {
		return fmt.Errorf("invalid link_lengths: %q (must be one of: none, symmetric, jaccard)", mode)
	}
	return nil
}

// ValidateInitialLayout checks that an initial placement is valid.
func ValidateInitialLayout(name string) error {
	if !ValidInitialLayouts[name] {
		return fmt.Errorf("invalid initial_layout: %q (must be one of: random, mds)", name)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// SetDefaults fills unset fields with the package defaults.
func (o *Options) SetDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Dims == 0 {
		o.Dims = DefaultDims
	}
	if o.LinkDistance == 0 {
		o.LinkDistance = DefaultLinkDistance
	}
	if o.LinkLengths == "" {
		o.LinkLengths = LinkLengthsNone
	}
	if o.LinkLengthWeight == 0 {
		o.LinkLengthWeight = DefaultLinkLengthWeight
	}
	if o.ComponentPadding == 0 {
		o.ComponentPadding = DefaultComponentPadding
	}
	if o.InitialLayout == "" {
		o.InitialLayout = DefaultInitialLayout
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
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateAndSetDefaults applies defaults and checks every field. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()
	if o.Dims != 2 && o.Dims != 3 {
		return fmt.Errorf("invalid dims: %d (must be 2 or 3)", o.Dims)
	}
	if o.Width < 0 || o.Height < 0 {
		return fmt.Errorf("invalid canvas size: %vx%v", o.Width, o.Height)
	}
	if o.LinkDistance < 0 {
		return fmt.Errorf("invalid link_distance: %v (must be positive)", o.LinkDistance)
	}
	if o.MaxTicks < 0 {
		return fmt.Errorf("invalid max_ticks: %d", o.MaxTicks)
	}
	if err := ValidateLinkLengths(o.LinkLengths); err != nil {
		return err
	}
	if err := ValidateInitialLayout(o.InitialLayout); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// LayoutOptions converts o to layout options.
func (o *Options) LayoutOptions() layout.Options {
	return layout.Options{
		Size:                            [2]float64{o.Width, o.Height},
		LinkDistance:                    o.LinkDistance,
		AvoidOverlaps:                   o.AvoidOverlaps,
		HandleDisconnected:              o.HandleDisconnected,
		ComponentPadding:                o.ComponentPadding,
		Dims:                            o.Dims,
		Seed:                            o.Seed,
		InitialAlpha:                    o.InitialAlpha,
		ConvergenceThreshold:            o.ConvergenceThreshold,
		MaxTicks:                        o.MaxTicks,
		InitialUnconstrainedIterations:  o.UnconstrainedIterations,
		InitialUserConstraintIterations: o.UserConstraintIterations,
		InitialAllConstraintsIterations: o.AllConstraintsIterations,
		InitialLayout:                   o.InitialLayout,
		Logger:                          o.Logger,
	}
}
