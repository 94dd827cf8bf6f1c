// Package graph provides the wire formats around a layout run.
//
// This package sits at the serialization boundary between files and the
// index-based types of pkg/layout:
//
//   - [Graph]: layout input, nodes and edges keyed by string IDs, plus
//     separation constraints and node groups
//   - [Result]: layout output, positioned nodes and run statistics
//   - [Rect]: input and output of standalone overlap removal
//
// # Graph Input
//
// Graphs are JSON or YAML documents:
//
//	{
//	  "nodes": [{"id": "a", "width": 30, "height": 20}, {"id": "b"}],
//	  "edges": [{"from": "a", "to": "b", "length": 2}],
//	  "constraints": [{"axis": "y", "left": "a", "right": "b", "gap": 40}],
//	  "groups": [{"id": "g", "leaves": ["a", "b"], "padding": 5}]
//	}
//
// A node with "fixed": true is pinned at its x and y (and z). Edges are
// undirected for layout purposes. Common operations:
//
//	g, _ := graph.ReadGraphFile("g.yaml")  // File → Graph (format by extension)
//	p, _ := g.Problem()                     // Graph → layout nodes, links, ...
//	res := graph.NewResult(g, l)            // finished layout → Result
//	graph.WriteResult(res, os.Stdout)       // Result → JSON
//
// # Node Metadata
//
// The meta object carries arbitrary key-value data through to the result
// unchanged.
//
// # Concurrency
//
// All functions are safe for concurrent reads but not concurrent writes.
package graph
