package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stresslayout/pkg/graph"
	"github.com/matzehuels/stresslayout/pkg/pipeline"
)

// watchCommand creates the watch command, an interactive view of a layout
// converging.
func (c *CLI) watchCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		flags   layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "watch <graph>",
		Short: "Animate a layout in the terminal",
		Long: `Animate a layout in the terminal, one tick per frame.

Nodes can be selected with tab and dragged with the arrow keys; the rest of
the graph follows. Press f to pin the selected node in place. With -o, the
positions at exit are written as JSON.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.merge(cmd, c.Config.Layout)
			return c.runWatch(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write final positions to this file")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	flags.register(cmd)

	return cmd
}

func (c *CLI) runWatch(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	g, err := graph.ReadGraphFile(input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Cache.Close()

	// The TUI owns the terminal; keep log lines out of it.
	quiet := c.Logger.With()
	quiet.SetLevel(log.WarnLevel)
	runner.Logger = quiet
	opts.Logger = quiet

	l, err := runner.Build(ctx, g, opts)
	if err != nil {
		return err
	}
	if err := l.Start(); err != nil {
		return err
	}

	labels := make([]string, len(g.Nodes))
	for i := range g.Nodes {
		labels[i] = g.Nodes[i].DisplayLabel()
	}
	m := NewWatchModel(l, labels)
	if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	if m.Err != nil {
		return m.Err
	}

	if output == "" {
		return nil
	}
	if err := writeResult(graph.NewResult(g, l), output); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}
	printSuccess("Saved layout after %d ticks", l.Ticks())
	printFile(output)
	return nil
}
