package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/stresslayout/pkg/graph"
	"github.com/matzehuels/stresslayout/pkg/pipeline"
)

// layoutCommand creates the layout command for computing node positions.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		jobs    int
		flags   layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "layout <graph> [graph...]",
		Short: "Compute node positions for one or more graphs",
		Long: `Compute node positions for one or more graphs.

Each input is a JSON or YAML graph file with nodes, edges and optional
constraints and groups. The result, node positions plus run statistics, is
written as JSON next to the input (<input>.layout.json) unless -o is given.

Options are read from the config file first; flags override them.
All-pairs distances are cached locally for faster subsequent runs.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != "" && len(args) > 1 {
				return fmt.Errorf("--output needs a single input, got %d", len(args))
			}
			opts := flags.merge(cmd, c.Config.Layout)
			return c.runLayout(cmd.Context(), args, opts, output, noCache, jobs)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, - for stdout (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", defaultJobs, "graphs laid out concurrently")
	flags.register(cmd)

	return cmd
}

// runLayout lays out every input, at most jobs at a time, and reports the
// results in input order.
func (c *CLI) runLayout(ctx context.Context, inputs []string, opts pipeline.Options, output string, noCache bool, jobs int) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Cache.Close()

	opts.Logger = c.Logger
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	results := make([]*pipeline.Result, len(inputs))
	paths := make([]string, len(inputs))

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Laying out %s...", plural(len(inputs), "graph")))
	spinner.Start()

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(jobs, 1))
	for i, input := range inputs {
		i, input := i, input
		g.Go(func() error {
			res, err := runner.ExecuteFile(gctx, input, opts)
			if err != nil {
				return fmt.Errorf("%s: %w", input, err)
			}
			path := outputPath(input, output)
			if err := writeResult(res.Output, path); err != nil {
				return fmt.Errorf("write output %s: %w", path, err)
			}
			mu.Lock()
			results[i], paths[i] = res, path
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		spinner.StopWithError("Layout failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	for i, res := range results {
		if paths[i] == "-" {
			continue
		}
		printSuccess("Layout complete")
		printFile(paths[i])
		printStats(res.Stats, res.CacheInfo.DistancesHit)
	}
	if len(inputs) > 1 {
		prog.done(fmt.Sprintf("Laid out %s", plural(len(inputs), "graph")))
	}
	return nil
}

// outputPath returns where the result for input is written.
func outputPath(input, output string) string {
	if output != "" {
		return output
	}
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return base + ".layout.json"
}

func writeResult(r graph.Result, path string) error {
	if path == "-" {
		return graph.WriteResult(r, os.Stdout)
	}
	return graph.WriteResultFile(r, path)
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
