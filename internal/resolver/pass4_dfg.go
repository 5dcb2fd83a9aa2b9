package resolver

import "github.com/cpgo/cpgo/internal/graph"

// ResolveInitializerListDFG wires the data-flow edges spec §3 invariant 5
// requires for every composite literal: each initializer flows into its
// KeyValue (if keyed) which flows into the enclosing InitializerList; an
// unkeyed initializer flows directly into the list. When the list's
// inferred type resolves to a known Record, every KeyValue whose key is a
// string literal matching a field name additionally gets a direct DFG
// edge from its value to that field's definition (invariant 5 in full:
// "contributes a DFG edge from the value to that field's definition",
// not merely into the literal).
type ResolveInitializerListDFG struct{}

func (ResolveInitializerListDFG) Name() string        { return "ResolveInitializerListDFG" }
func (ResolveInitializerListDFG) DependsOn() []string { return []string{"ResolveReferences"} }

func (ResolveInitializerListDFG) Run(ctx *Context) error {
	WalkGraph(ctx.Graph, func(n graph.Node) {
		il, ok := n.(*graph.InitializerList)
		if !ok {
			return
		}

		var record *graph.Record
		if il.Type != nil {
			record, _ = ctx.Graph.RecordByFQN(baseTypeName(il.Type.CanonicalName()))
		}

		for _, init := range il.Initializers {
			if kv, ok := init.(*graph.KeyValue); ok {
				if kv.Value != nil {
					graph.AddDFGEdge(ctx.Graph, kv.Value, kv)
				}
				graph.AddDFGEdge(ctx.Graph, kv, il)
				if record != nil {
					wireKeyValueToField(ctx, record, kv)
				}
				continue
			}
			graph.AddDFGEdge(ctx.Graph, init, il)
		}
	})
	return nil
}

// wireKeyValueToField adds the invariant-5 edge from kv.Value to the field
// of record named by kv.Key, when kv.Key is a string literal matching a
// field's simple name.
func wireKeyValueToField(ctx *Context, record *graph.Record, kv *graph.KeyValue) {
	lit, ok := kv.Key.(*graph.Literal)
	if !ok || kv.Value == nil {
		return
	}
	name, ok := lit.Value.(string)
	if !ok {
		return
	}
	for _, field := range record.Fields {
		if field.Name == name {
			graph.AddDFGEdge(ctx.Graph, kv.Value, field)
			return
		}
	}
}
