package resolver

import (
	"strings"

	"github.com/cpgo/cpgo/internal/graph"
	"github.com/cpgo/cpgo/internal/typesys"
)

// ResolveReferences resolves every Member expression's field/method target
// from its Base's static type, falling through embedded members
// (ResolveEmbeddedMembers's SuperTypeDeclarations) before giving up and
// synthesizing an inferred Field (spec §3 invariant 4: a refersTo target
// must be scope-reachable or inferred, never left dangling). It also makes
// a second attempt at any DeclaredReference the frontend left unresolved -
// a forward reference to a package-level var/function declared in a file
// whose Phase B had not yet run when the reference was first lowered - by
// name against a whole-graph index built once up front.
//
// There is no deferred unknown-base worklist: ResolveInterfaceImplementations
// and ResolveEmbeddedMembers, which are the only passes that could still
// widen a node's static type, have already run by the time this pass
// starts, so a base type that is still unknown here will not become known
// later within this same pipeline invocation.
type ResolveReferences struct{}

func (ResolveReferences) Name() string { return "ResolveReferences" }
func (ResolveReferences) DependsOn() []string {
	return []string{"ResolveInterfaceImplementations", "ResolveEmbeddedMembers"}
}

func (ResolveReferences) Run(ctx *Context) error {
	byName := buildNameIndex(ctx.Graph)

	WalkGraph(ctx.Graph, func(n graph.Node) {
		switch v := n.(type) {
		case *graph.Member:
			resolveMember(ctx, v)
		case *graph.DeclaredReference:
			if v.RefersToID != "" {
				return
			}
			if candidates, ok := byName[simpleRefName(v.FQN)]; ok && len(candidates) > 0 {
				v.RefersToID = candidates[0].Head().ID
			}
		}
	})

	widenInterfaceSubTypes(ctx)
	return nil
}

func simpleRefName(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}

// buildNameIndex indexes every package-level Function/Variable/Record by
// simple name, across every Namespace in the run.
func buildNameIndex(g *graph.Graph) map[string][]graph.Node {
	idx := make(map[string][]graph.Node)
	add := func(name string, n graph.Node) {
		idx[name] = append(idx[name], n)
	}
	for _, tu := range g.TranslationUnits {
		for _, ns := range tu.Namespaces {
			for _, fn := range ns.Functions {
				add(fn.Name, fn)
			}
			for _, v := range ns.Variables {
				add(v.Name, v)
			}
			for _, r := range ns.Records {
				add(simpleRefName(r.Name), r)
			}
		}
	}
	return idx
}

func resolveMember(ctx *Context, m *graph.Member) {
	if m.RefersToID != "" || m.Base == nil {
		return
	}
	baseType := m.Base.Typ().Type
	if baseType == nil {
		return
	}
	record, ok := ctx.Graph.RecordByFQN(baseTypeName(baseType.CanonicalName()))
	if !ok {
		inferMember(ctx, m)
		return
	}

	if n, ok := findMember(record, m.Name, map[*graph.Record]bool{}); ok {
		m.RefersToID = n.Head().ID
		return
	}
	inferMember(ctx, m)
}

// inferMember synthesizes a Field declaration for a member access that
// resolved to no real declaration, per spec §3 invariant 4.
func inferMember(ctx *Context, m *graph.Member) {
	file := ""
	if m.Location != nil {
		file = m.Location.File
	}
	fd := &graph.Field{
		Header:   graph.Header{ID: graph.NewID(file, 0, graph.KindField, m.Name, m.ID), Name: m.Name, Kind: graph.KindField},
		Inferred: true,
	}
	fd.Type = ctx.Types.Unknown()
	ctx.Graph.AddInferred(fd)
	m.RefersToID = fd.ID
}

// widenInterfaceSubTypes implements the post-Pass-3 interface-subtyping
// widening step (spec §4.4): any node statically typed as an interface
// declared in this run gets every struct implementing that interface
// (per Pass 1) added to its PossibleSubTypes.
func widenInterfaceSubTypes(ctx *Context) {
	implementers := make(map[string][]typesys.Type)
	for fqn, r := range ctx.Graph.FQNIndex {
		if r.RecordKind != graph.RecordStruct {
			continue
		}
		selfType := ctx.Types.Intern(typesys.NewObjectType(fqn))
		for _, ifc := range r.ImplementedInterfaces {
			implementers[ifc.CanonicalName()] = append(implementers[ifc.CanonicalName()], selfType)
		}
	}
	if len(implementers) == 0 {
		return
	}

	WalkGraph(ctx.Graph, func(n graph.Node) {
		ht, ok := n.(graph.HasType)
		if !ok {
			return
		}
		typed := ht.Typ()
		if typed.Type == nil {
			return
		}
		if subs, ok := implementers[typed.Type.CanonicalName()]; ok {
			typed.WidenSubTypes(subs)
		}
	})
}
