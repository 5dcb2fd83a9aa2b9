package resolver

import (
	"strings"

	"github.com/cpgo/cpgo/internal/graph"
)

// ResolveEmbeddedMembers resolves every Record's SuperClasses (the static
// types of its embedded fields, or the embedded interfaces an interface
// lists) to a concrete Record declared in this run, appending it to
// SuperTypeDeclarations (spec §8 scenario 2). A SuperClasses entry whose
// type is not itself declared in this run (an embedded stdlib or
// third-party type) is left unresolved, which is expected: spec §4.5 does
// not treat this as an error.
type ResolveEmbeddedMembers struct{}

func (ResolveEmbeddedMembers) Name() string        { return "ResolveEmbeddedMembers" }
func (ResolveEmbeddedMembers) DependsOn() []string { return []string{"ResolveInterfaceImplementations"} }

func (ResolveEmbeddedMembers) Run(ctx *Context) error {
	for _, r := range ctx.Graph.FQNIndex {
		for _, super := range r.SuperClasses {
			name := baseTypeName(super.CanonicalName())
			target, ok := ctx.Graph.RecordByFQN(name)
			if !ok || target == r {
				continue
			}
			if !containsRecord(r.SuperTypeDeclarations, target) {
				r.SuperTypeDeclarations = append(r.SuperTypeDeclarations, target)
			}
		}
	}

	WalkGraph(ctx.Graph, func(n graph.Node) {
		mc, ok := n.(*graph.MemberCall)
		if !ok || mc.Base == nil || len(mc.InvokesIDs) > 0 {
			return
		}
		resolveMemberCall(ctx, mc)
	})
	return nil
}

// resolveMemberCall implements "rewrite the call's base as base.embedded
// and continue resolution there" (spec §4.4 Pass 2): base.m(...) resolves
// against base's own Record first, then - transparently, via findMember's
// recursion into SuperTypeDeclarations - against whichever embedded field
// actually promotes a matching method.
func resolveMemberCall(ctx *Context, mc *graph.MemberCall) {
	baseType := mc.Base.Typ().Type
	if baseType == nil {
		return
	}
	record, ok := ctx.Graph.RecordByFQN(baseTypeName(baseType.CanonicalName()))
	if !ok {
		return
	}
	n, ok := findMember(record, mc.Name, map[*graph.Record]bool{})
	if !ok {
		return
	}
	if m, ok := n.(*graph.Method); ok {
		mc.InvokesIDs = []string{m.ID}
	}
}

// baseTypeName strips pointer/array sigils so an embedded `*Base` or
// `[]Base` still resolves against the plain Record FQN.
func baseTypeName(canonical string) string {
	return strings.TrimLeft(canonical, "*[]")
}

func containsRecord(list []*graph.Record, r *graph.Record) bool {
	for _, existing := range list {
		if existing == r {
			return true
		}
	}
	return false
}

// findMember looks up name among r's own Fields/Methods, then recurses
// into its resolved embedded Records (SuperTypeDeclarations), depth-first,
// so a field declared two embedding levels up is still found. visited
// guards against an embedding cycle.
func findMember(r *graph.Record, name string, visited map[*graph.Record]bool) (graph.Node, bool) {
	if r == nil || visited[r] {
		return nil, false
	}
	visited[r] = true

	for _, fd := range r.Fields {
		if fd.Name == name {
			return fd, true
		}
	}
	for _, m := range r.Methods {
		if m.Name == name {
			return m, true
		}
	}
	for _, super := range r.SuperTypeDeclarations {
		if n, ok := findMember(super, name, visited); ok {
			return n, true
		}
	}
	return nil, false
}
