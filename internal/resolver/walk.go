package resolver

import "github.com/cpgo/cpgo/internal/graph"

// Walk and WalkGraph are thin aliases over the graph package's own
// traversal: the node variant set is closed (spec §9) and owned by graph,
// so the walk itself lives there (and is what RegisterAll uses too) rather
// than being duplicated per consumer package.
func Walk(n graph.Node, visit func(graph.Node)) { graph.Walk(n, visit) }

func WalkGraph(g *graph.Graph, visit func(graph.Node)) { graph.WalkGraph(g, visit) }
