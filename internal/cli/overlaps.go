package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stresslayout/pkg/graph"
	"github.com/matzehuels/stresslayout/pkg/vpsc"
)

// overlapsCommand creates the overlaps command, which moves rectangles apart
// with the least total displacement.
func (c *CLI) overlapsCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "overlaps <rects>",
		Short: "Remove overlaps between rectangles",
		Long: `Remove overlaps between rectangles.

The input is a JSON or YAML list of rectangles, each with an id, a centre
(x, y) and a size (width, height). Rectangles are moved horizontally, then
vertically, as little as possible so that no two overlap. The result is
printed as JSON unless -o is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runOverlaps(cmd.Context(), args[0], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")

	return cmd
}

func (c *CLI) runOverlaps(ctx context.Context, input, output string) error {
	rs, err := graph.ReadRectsFile(input)
	if err != nil {
		return fmt.Errorf("load rectangles %s: %w", input, err)
	}

	logger := loggerFromContext(ctx)
	prog := newProgress(logger)
	vs := graph.ToRectangles(rs)
	before := vpsc.CountOverlaps(vs)
	if err := vpsc.RemoveOverlaps(vs); err != nil {
		return fmt.Errorf("remove overlaps: %w", err)
	}
	if after := vpsc.CountOverlaps(vs); after > 0 {
		logger.Warn("overlaps remain", "pairs", after)
	}
	out := graph.FromRectangles(rs, vs)
	prog.done(fmt.Sprintf("Separated %s of %s", plural(before, "overlapping pair"), plural(len(rs), "rectangle")))

	if output == "" {
		return graph.WriteRects(out, os.Stdout)
	}
	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("create %s: %w", output, err)
	}
	if err := graph.WriteRects(out, f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", output, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	printSuccess("Overlaps removed")
	printFile(output)
	return nil
}
