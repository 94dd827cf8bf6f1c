package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stresslayout/pkg/cache"
	"github.com/matzehuels/stresslayout/pkg/graph"
	"github.com/matzehuels/stresslayout/pkg/layout"
	"github.com/matzehuels/stresslayout/pkg/shortestpaths"
	"github.com/matzehuels/stresslayout/pkg/vpsc"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger: it doesn't store
// pipeline results. Multiple goroutines can safely use the same Runner with
// different graphs and options.
type Runner struct {
	Cache  cache.Cache
	Logger *log.Logger
}

// NewRunner creates a runner. If c is nil, a NullCache is used (caching
// disabled).
func NewRunner(c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Logger: logger}
}

// ExecuteFile reads a graph file and runs Execute on it.
func (r *Runner) ExecuteFile(ctx context.Context, path string, opts Options) (*Result, error) {
	g, err := graph.ReadGraphFile(path)
	if err != nil {
		return nil, err
	}
	return r.Execute(ctx, g, opts)
}

// Execute lays g out to convergence.
func (r *Runner) Execute(ctx context.Context, g graph.Graph, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}
	pathsStart := time.Now()
	l, hit, err := r.build(ctx, g, opts)
	if err != nil {
		return nil, err
	}
	result.Stats.PathsTime = time.Since(pathsStart)
	result.CacheInfo.DistancesHit = hit

	layoutStart := time.Now()
	if err := l.Run(ctx); err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Stats.LayoutTime = time.Since(layoutStart)

	result.Layout = l
	result.Output = graph.NewResult(g, l)
	result.Stats.NodeCount = len(g.Nodes)
	result.Stats.EdgeCount = len(g.Edges)
	result.Stats.Components = len(l.Components())
	result.Stats.Ticks = l.Ticks()
	result.Stats.Stress = result.Output.Stress
	result.Stats.Overlaps = countOverlaps(result.Output.Nodes)

	r.Logger.Info("computed layout",
		"nodes", result.Stats.NodeCount,
		"edges", result.Stats.EdgeCount,
		"ticks", result.Stats.Ticks,
		"stress", result.Stats.Stress,
		"overlaps", result.Stats.Overlaps,
		"duration", result.Stats.LayoutTime)
	return result, nil
}

// Build prepares a layout of g without starting it.
func (r *Runner) Build(ctx context.Context, g graph.Graph, opts Options) (*layout.Layout, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	l, _, err := r.build(ctx, g, opts)
	return l, err
}

func (r *Runner) build(ctx context.Context, g graph.Graph, opts Options) (*layout.Layout, bool, error) {
	p, err := g.Problem()
	if err != nil {
		return nil, false, err
	}
	l := layout.New(p.Nodes, p.Links, opts.LayoutOptions())
	l.SetConstraints(p.Constraints)
	l.SetGroups(p.Groups)

	switch opts.LinkLengths {
	case LinkLengthsSymmetric:
		l.SymmetricDiffLinkLengths(opts.LinkLengthWeight)
	case LinkLengthsJaccard:
		l.JaccardLinkLengths(opts.LinkLengthWeight)
	}

	if len(p.Nodes) == 0 {
		return l, false, nil
	}
	d, hit, err := r.DistancesWithCacheInfo(ctx, len(p.Nodes), l.Links(), opts.Refresh)
	if err != nil {
		return nil, false, fmt.Errorf("paths: %w", err)
	}
	l.SetDistanceMatrix(d)
	return l, hit, nil
}

// DistancesWithCacheInfo returns the all-pairs graph distances in link units
// and whether they came from the cache.
func (r *Runner) DistancesWithCacheInfo(ctx context.Context, n int, links []layout.Link, refresh bool) ([][]float64, bool, error) {
	compute := func() ([][]float64, error) {
		calc, err := shortestpaths.New(n, links,
			func(e layout.Link) int { return e.Source },
			func(e layout.Link) int { return e.Target },
			layout.Link.EffectiveLength,
		)
		if err != nil {
			return nil, err
		}
		return calc.DistanceMatrix(), nil
	}
	key := cache.DistanceKey(n, links)
	if refresh {
		_ = r.Cache.Delete(ctx, key)
	}
	d, hit, err := cache.Distances(ctx, r.Cache, key, DefaultCacheTTL, compute)
	if err != nil {
		return nil, false, err
	}
	r.Logger.Debug("distances ready", "nodes", n, "cached", hit)
	return d, hit, nil
}

// Distances is DistancesWithCacheInfo without the cache hit info.
func (r *Runner) Distances(ctx context.Context, n int, links []layout.Link) ([][]float64, error) {
	d, _, err := r.DistancesWithCacheInfo(ctx, n, links, false)
	return d, err
}

// Route returns one shortest path between two nodes and its length in link
// lengths. Routes are not cached.
func (r *Runner) Route(n int, links []layout.Link, from, to int) ([]int, float64, error) {
	calc, err := shortestpaths.New(n, links,
		func(e layout.Link) int { return e.Source },
		func(e layout.Link) int { return e.Target },
		layout.Link.EffectiveLength,
	)
	if err != nil {
		return nil, 0, err
	}
	return calc.PathFromNodeToNode(from, to)
}

// countOverlaps counts overlapping pairs among the sized nodes.
func countOverlaps(nodes []graph.PlacedNode) int {
	var rs []*vpsc.Rectangle
	for _, n := range nodes {
		if n.Width > 0 && n.Height > 0 {
			rs = append(rs, vpsc.NewRectangle(n.X-n.Width/2, n.X+n.Width/2, n.Y-n.Height/2, n.Y+n.Height/2))
		}
	}
	return vpsc.CountOverlaps(rs)
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
