package resolver

import (
	"fmt"

	"github.com/cpgo/cpgo/internal/diag"
	"github.com/cpgo/cpgo/internal/graph"
	"github.com/cpgo/cpgo/internal/typesys"
)

// Context is the shared state every pass reads and mutates. Unlike the
// frontend's Frontend, a resolver Context carries no scope.Manager: by the
// time the pipeline runs, cross-reference information lives on the graph
// itself (static types, FQNs), which is what keeps a pass self-contained
// enough to describe its own dependencies.
type Context struct {
	Graph *graph.Graph
	Types *typesys.Registry
	Diag  *diag.Collector
}

// Pass is one resolution step. Name and DependsOn let the Pipeline schedule
// passes by a dependency DAG rather than a hardcoded list, per spec §4.4's
// description of self-describing passes.
type Pass interface {
	Name() string
	DependsOn() []string
	Run(ctx *Context) error
}

// Pipeline runs a set of passes in dependency order.
type Pipeline struct {
	byName map[string]Pass
	order  []string
}

// NewPipeline topologically sorts passes by DependsOn and returns a
// Pipeline ready to Run. An unknown dependency name or a dependency cycle
// is reported as an error rather than silently dropped or run out of
// order.
func NewPipeline(passes ...Pass) (*Pipeline, error) {
	byName := make(map[string]Pass, len(passes))
	for _, p := range passes {
		if _, exists := byName[p.Name()]; exists {
			return nil, fmt.Errorf("resolver: duplicate pass name %q", p.Name())
		}
		byName[p.Name()] = p
	}

	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state := make(map[string]int, len(passes))
	var order []string

	var visit func(name string) error
	visit = func(name string) error {
		switch state[name] {
		case done:
			return nil
		case visiting:
			return fmt.Errorf("resolver: dependency cycle at pass %q", name)
		}
		p, ok := byName[name]
		if !ok {
			return fmt.Errorf("resolver: pass %q depends on unknown pass %q", name, name)
		}
		state[name] = visiting
		for _, dep := range p.DependsOn() {
			if _, ok := byName[dep]; !ok {
				return fmt.Errorf("resolver: pass %q depends on unknown pass %q", name, dep)
			}
			if err := visit(dep); err != nil {
				return err
			}
		}
		state[name] = done
		order = append(order, name)
		return nil
	}

	for _, p := range passes {
		if err := visit(p.Name()); err != nil {
			return nil, err
		}
	}

	return &Pipeline{byName: byName, order: order}, nil
}

// Run executes every pass once, in dependency order.
func (p *Pipeline) Run(ctx *Context) error {
	for _, name := range p.order {
		if err := p.byName[name].Run(ctx); err != nil {
			return fmt.Errorf("resolver: pass %q: %w", name, err)
		}
	}
	return nil
}

// Order returns the scheduled pass names, for diagnostics and tests.
func (p *Pipeline) Order() []string {
	return append([]string(nil), p.order...)
}

// DefaultPasses returns the five-pass pipeline spec §4.4 names, in their
// declared dependency order: interface implementations and embedded-member
// resolution before variable/field resolution (which a widening step at
// the end of ResolveReferences leans on); initializer-list data flow and
// function-pointer calls run last since neither depends on the others.
func DefaultPasses() []Pass {
	return []Pass{
		&ResolveInterfaceImplementations{},
		&ResolveEmbeddedMembers{},
		&ResolveReferences{},
		&ResolveInitializerListDFG{},
		&ResolveFunctionPointerCalls{AmbiguityCap: DefaultAmbiguityCap},
	}
}
