package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stresslayout/pkg/graph"
)

// pathsCommand creates the paths command, which prints all-pairs shortest
// path lengths.
func (c *CLI) pathsCommand() *cobra.Command {
	var (
		asJSON   bool
		noCache  bool
		from, to string
	)

	cmd := &cobra.Command{
		Use:   "paths <graph>",
		Short: "Print all-pairs shortest path lengths of a graph",
		Long: `Print all-pairs shortest path lengths of a graph, measured in link lengths.

Edges are undirected; an edge without a length counts as 1. Unreachable pairs
print as ∞ in the table and null in JSON.

With --from and --to, print one shortest route between two nodes instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (from == "") != (to == "") {
				return fmt.Errorf("--from and --to must be given together")
			}
			if from != "" {
				return c.runRoute(args[0], from, to, asJSON, os.Stdout)
			}
			return c.runPaths(cmd.Context(), args[0], asJSON, noCache, os.Stdout)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the matrix as JSON")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&from, "from", "", "route start node ID")
	cmd.Flags().StringVar(&to, "to", "", "route end node ID")

	return cmd
}

func (c *CLI) runPaths(ctx context.Context, input string, asJSON, noCache bool, w io.Writer) error {
	g, err := graph.ReadGraphFile(input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}
	p, err := g.Problem()
	if err != nil {
		return err
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Cache.Close()

	d, err := runner.Distances(ctx, len(p.Nodes), p.Links)
	if err != nil {
		return fmt.Errorf("paths: %w", err)
	}

	ids := make([]string, len(g.Nodes))
	for i, n := range g.Nodes {
		ids[i] = n.ID
	}
	if asJSON {
		return writeDistancesJSON(w, ids, d)
	}
	_, err = fmt.Fprintln(w, distanceTable(ids, d))
	return err
}

func (c *CLI) runRoute(input, from, to string, asJSON bool, w io.Writer) error {
	g, err := graph.ReadGraphFile(input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}
	p, err := g.Problem()
	if err != nil {
		return err
	}
	src, dst := nodeIndex(g, from), nodeIndex(g, to)
	if src < 0 {
		return fmt.Errorf("unknown node %q", from)
	}
	if dst < 0 {
		return fmt.Errorf("unknown node %q", to)
	}

	runner, err := c.newRunner(true)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Cache.Close()

	path, length, err := runner.Route(len(p.Nodes), p.Links, src, dst)
	if err != nil {
		return fmt.Errorf("route: %w", err)
	}

	ids := make([]string, len(path))
	for i, v := range path {
		ids[i] = g.Nodes[v].ID
	}
	if asJSON {
		var l *float64
		if path != nil {
			l = &length
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Path   []string `json:"path"`
			Length *float64 `json:"length"`
		}{ids, l})
	}
	if path == nil {
		_, err = fmt.Fprintf(w, "%s is unreachable from %s\n", to, from)
		return err
	}
	_, err = fmt.Fprintf(w, "%s %s\n", strings.Join(ids, " "+iconArrow+" "), StyleDim.Render("("+formatDistance(length)+")"))
	return err
}

func nodeIndex(g graph.Graph, id string) int {
	for i, n := range g.Nodes {
		if n.ID == id {
			return i
		}
	}
	return -1
}

func writeDistancesJSON(w io.Writer, ids []string, d [][]float64) error {
	rows := make([][]*float64, len(d))
	for i, row := range d {
		rows[i] = make([]*float64, len(row))
		for j := range row {
			if !math.IsInf(row[j], 0) {
				rows[i][j] = &row[j]
			}
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Nodes     []string     `json:"nodes"`
		Distances [][]*float64 `json:"distances"`
	}{ids, rows})
}

// distanceTable renders d as a bordered table with node IDs on both axes.
func distanceTable(ids []string, d [][]float64) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	cellStyle := lipgloss.NewStyle().Foreground(colorWhite).Align(lipgloss.Right)

	rows := make([][]string, len(d))
	for i, row := range d {
		rows[i] = append(make([]string, 0, len(row)+1), ids[i])
		for _, v := range row {
			rows[i] = append(rows[i], formatDistance(v))
		}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(append([]string{""}, ids...)...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow || col == 0 {
				return headerStyle
			}
			return cellStyle
		}).
		Render()
}

func formatDistance(v float64) string {
	if math.IsInf(v, 0) {
		return "∞"
	}
	return strconv.FormatFloat(v, 'g', 4, 64)
}
