// Package pkg holds the libraries behind stresslayout, a constraint-based
// graph layout engine.
//
// # Overview
//
// Nodes are placed so that their Euclidean distances approach their
// shortest-path distances in the graph, while separation, alignment and
// non-overlap constraints are kept. The packages fall into three groups:
//
//  1. Algorithms: [pqueue], [shortestpaths], [vpsc], [descent], [geom]
//  2. Orchestration: [layout], [animate], [pipeline]
//  3. Surfaces: [graph] (file formats), [config], [cache], [errors],
//     [observability], [buildinfo]
//
// # Architecture
//
//	graph file (JSON/YAML)
//	         ↓
//	    [graph] package (resolve IDs to indices)
//	         ↓
//	    [shortestpaths] package (ideal distances, cached by [cache])
//	         ↓
//	    [layout] package (stress majorization with [descent], projected by [vpsc])
//	         ↓
//	    JSON result
//
// # Quick Start
//
//	runner := pipeline.NewRunner(nil, nil)
//	res, err := runner.ExecuteFile(ctx, "graph.yaml", pipeline.Options{AvoidOverlaps: true})
//	if err != nil {
//	    return err
//	}
//	return graph.WriteResult(res.Output, os.Stdout)
package pkg
