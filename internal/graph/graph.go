package graph

import "fmt"

// Graph owns every node produced during a project run: the arena (Nodes,
// keyed by stable ID), the FQN->Record index spec §6 requires as a
// top-level output, and the flat list of declarations the resolver had to
// infer because no real declaration existed for a dangling reference.
type Graph struct {
	Nodes            map[string]Node
	TranslationUnits []*TranslationUnit
	FQNIndex         map[string]*Record
	Inferred         []Node
	Problems         []*Problem
}

func NewGraph() *Graph {
	return &Graph{
		Nodes:    make(map[string]Node),
		FQNIndex: make(map[string]*Record),
	}
}

// Register adds n to the arena under its Header.ID. It is safe to call
// multiple times for the same ID (idempotent), matching the "duplicate
// insertion is a no-op" guard spec §7 requires of resolver passes.
func (g *Graph) Register(n Node) {
	if n == nil {
		return
	}
	id := n.Head().ID
	if id == "" {
		return
	}
	g.Nodes[id] = n
}

// Lookup returns the node for id, if registered.
func (g *Graph) Lookup(id string) (Node, bool) {
	n, ok := g.Nodes[id]
	return n, ok
}

// AddTranslationUnit appends tu to the top-level list and registers its own
// node. tu's body is still being built at this point (Phase A has not yet
// added its Namespace, and Phase B has not yet walked its declarations'
// bodies); RegisterAll does the deep registration once every file has been
// fully processed.
func (g *Graph) AddTranslationUnit(tu *TranslationUnit) {
	g.TranslationUnits = append(g.TranslationUnits, tu)
	g.Register(tu)
}

// RegisterAll walks every translation unit and registers every node
// reachable from it into the arena, so that RefersTo/DFG/InvokesIDs edges
// (stored as IDs, not live pointers) can always be followed back to a live
// node via Lookup. Called once by the driver after both frontend phases
// have finished building the graph.
func (g *Graph) RegisterAll() {
	WalkGraph(g, g.Register)
}

// AddRecord indexes a Record by its FQN. Per spec §3 invariant 1, a second
// AddRecord call for the same FQN is expected to merge into the existing
// Record rather than create a sibling: it is the caller's responsibility
// (the scope manager / frontend Phase A) to detect that case and merge
// fields/methods before calling AddRecord again; AddRecord itself simply
// enforces the one-per-FQN invariant by refusing to silently replace a
// different instance under the same name.
func (g *Graph) AddRecord(r *Record) error {
	if existing, ok := g.FQNIndex[r.Name]; ok && existing != r {
		return fmt.Errorf("graph: record FQN %q already indexed by a different instance", r.Name)
	}
	g.FQNIndex[r.Name] = r
	g.Register(r)
	return nil
}

// RecordByFQN looks up a Record by its fully-qualified name.
func (g *Graph) RecordByFQN(fqn string) (*Record, bool) {
	r, ok := g.FQNIndex[fqn]
	return r, ok
}

// AddInferred records a declaration synthesized by the resolver (spec §3
// invariant 4, §6's "flat list of inferred declarations" output) and
// registers it in the arena so later passes can resolve references to it
// like any other declaration.
func (g *Graph) AddInferred(n Node) {
	g.Inferred = append(g.Inferred, n)
	g.Register(n)
}

// AddProblem records a non-fatal translation failure (spec §4.5, §7).
func (g *Graph) AddProblem(p *Problem) {
	g.Problems = append(g.Problems, p)
	g.Register(p)
}
