package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stresslayout/pkg/config"
	"github.com/matzehuels/stresslayout/pkg/pipeline"
)

// loadConfig reads the config file named by --config, or the per-user
// default if it exists, and attaches the logger to the command context.
func (c *CLI) loadConfig(cmd *cobra.Command, _ []string) error {
	cmd.SetContext(withLogger(cmd.Context(), c.Logger))

	if c.configPath != "" {
		f, err := config.Load(c.configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		c.Config = f
		c.Logger.Debug("loaded config", "path", c.configPath)
		return nil
	}

	path, err := config.DefaultPath()
	if err != nil {
		c.Logger.Debug("no config directory", "err", err)
		return nil
	}
	f, err := config.LoadOrDefault(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	c.Config = f
	return nil
}

// layoutFlags are the command-line overrides for pipeline options.
type layoutFlags struct {
	opts pipeline.Options
}

// register binds the flags to cmd.
func (f *layoutFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.Float64Var(&f.opts.Width, "width", pipeline.DefaultWidth, "canvas width")
	fs.Float64Var(&f.opts.Height, "height", pipeline.DefaultHeight, "canvas height")
	fs.IntVar(&f.opts.Dims, "dims", pipeline.DefaultDims, "number of dimensions: 2 or 3")
	fs.Float64VarP(&f.opts.LinkDistance, "link-distance", "d", pipeline.DefaultLinkDistance, "ideal length of a unit link")
	fs.StringVar(&f.opts.LinkLengths, "link-lengths", pipeline.LinkLengthsNone, "link length heuristic: none, symmetric, jaccard")
	fs.Float64Var(&f.opts.LinkLengthWeight, "link-length-weight", pipeline.DefaultLinkLengthWeight, "weight of the link length heuristic")
	fs.BoolVar(&f.opts.AvoidOverlaps, "avoid-overlaps", false, "keep node rectangles from overlapping")
	fs.BoolVar(&f.opts.HandleDisconnected, "handle-disconnected", false, "pack disconnected components side by side")
	fs.Float64Var(&f.opts.ComponentPadding, "component-padding", pipeline.DefaultComponentPadding, "gap between packed components")
	fs.StringVar(&f.opts.InitialLayout, "initial-layout", pipeline.DefaultInitialLayout, "initial placement: random, mds")
	fs.Int64Var(&f.opts.Seed, "seed", pipeline.DefaultSeed, "random seed")
	fs.IntVar(&f.opts.MaxTicks, "max-ticks", pipeline.DefaultMaxTicks, "tick limit per run")
	fs.Float64Var(&f.opts.ConvergenceThreshold, "threshold", pipeline.DefaultConvergenceThreshold, "alpha below which the layout stops")
	fs.BoolVar(&f.opts.Refresh, "refresh", false, "recompute cached distances")
}

// merge overlays the flags the user set on base, the options from the
// config file.
func (f *layoutFlags) merge(cmd *cobra.Command, base pipeline.Options) pipeline.Options {
	fs := cmd.Flags()
	set := func(name string, apply func()) {
		if fs.Changed(name) {
			apply()
		}
	}
	opts := base
	set("width", func() { opts.Width = f.opts.Width })
	set("height", func() { opts.Height = f.opts.Height })
	set("dims", func() { opts.Dims = f.opts.Dims })
	set("link-distance", func() { opts.LinkDistance = f.opts.LinkDistance })
	set("link-lengths", func() { opts.LinkLengths = f.opts.LinkLengths })
	set("link-length-weight", func() { opts.LinkLengthWeight = f.opts.LinkLengthWeight })
	set("avoid-overlaps", func() { opts.AvoidOverlaps = f.opts.AvoidOverlaps })
	set("handle-disconnected", func() { opts.HandleDisconnected = f.opts.HandleDisconnected })
	set("component-padding", func() { opts.ComponentPadding = f.opts.ComponentPadding })
	set("initial-layout", func() { opts.InitialLayout = f.opts.InitialLayout })
	set("seed", func() { opts.Seed = f.opts.Seed })
	set("max-ticks", func() { opts.MaxTicks = f.opts.MaxTicks })
	set("threshold", func() { opts.ConvergenceThreshold = f.opts.ConvergenceThreshold })
	opts.Refresh = f.opts.Refresh
	return opts
}
