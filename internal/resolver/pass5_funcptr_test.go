package resolver

import (
	"testing"

	"github.com/cpgo/cpgo/internal/diag"
	"github.com/cpgo/cpgo/internal/graph"
	"github.com/cpgo/cpgo/internal/typesys"
)

func matchingFunc(reg *typesys.Registry, id, name string, sig typesys.Type) *graph.Function {
	fn := &graph.Function{Header: graph.Header{ID: id, Name: name, Kind: graph.KindFunction}, FuncType: sig}
	return fn
}

func TestResolveFunctionPointerCalls_BindsSingleCandidate(t *testing.T) {
	reg := typesys.NewRegistry()
	g := graph.NewGraph()
	ctx := &Context{Graph: g, Types: reg, Diag: diag.NewCollector()}

	sig := fnType(reg, nil, nil)
	target := matchingFunc(reg, "target", "Target", sig)

	v := &graph.Variable{Header: graph.Header{ID: "v", Name: "handler", Kind: graph.KindVariable}}
	v.Type = sig
	ref := &graph.DeclaredReference{Header: graph.Header{ID: "ref", Kind: graph.KindDeclaredReference}, FQN: "handler"}
	ref.RefersToID = "v"
	call := &graph.Call{Header: graph.Header{ID: "call", Kind: graph.KindCall}, Callee: ref}

	ns := &graph.Namespace{Header: graph.Header{ID: "ns", Kind: graph.KindNamespace}, Functions: []*graph.Function{target}}
	fn := &graph.Function{
		Header: graph.Header{ID: "caller", Kind: graph.KindFunction},
		Body: &graph.Compound{
			Header: graph.Header{ID: "body", Kind: graph.KindCompound},
			Statements: []graph.Statement{
				&graph.DeclarationStatement{Header: graph.Header{ID: "decl", Kind: graph.KindDeclStmt}, Declarations: []graph.Node{v}},
				call,
			},
		},
	}
	ns.Functions = append(ns.Functions, fn)
	tu := &graph.TranslationUnit{Header: graph.Header{ID: "tu", Kind: graph.KindTranslationUnit}, Namespaces: []*graph.Namespace{ns}}
	g.AddTranslationUnit(tu)
	g.Register(ref)
	g.Register(v)

	p := ResolveFunctionPointerCalls{AmbiguityCap: 3}
	if err := p.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(call.InvokesIDs) != 1 || call.InvokesIDs[0] != "target" {
		t.Fatalf("expected the call to bind to the single matching function, got %v", call.InvokesIDs)
	}
}

func TestResolveFunctionPointerCalls_AbandonsAboveAmbiguityCap(t *testing.T) {
	reg := typesys.NewRegistry()
	g := graph.NewGraph()
	ctx := &Context{Graph: g, Types: reg, Diag: diag.NewCollector()}

	sig := fnType(reg, nil, nil)
	var fns []*graph.Function
	for i := 0; i < 4; i++ {
		fns = append(fns, matchingFunc(reg, string(rune('a'+i)), string(rune('A'+i)), sig))
	}

	v := &graph.Variable{Header: graph.Header{ID: "v", Name: "handler", Kind: graph.KindVariable}}
	v.Type = sig
	ref := &graph.DeclaredReference{Header: graph.Header{ID: "ref", Kind: graph.KindDeclaredReference}, FQN: "handler"}
	ref.RefersToID = "v"
	call := &graph.Call{Header: graph.Header{ID: "call", Kind: graph.KindCall}, Callee: ref}

	ns := &graph.Namespace{Header: graph.Header{ID: "ns", Kind: graph.KindNamespace}, Functions: fns}
	caller := &graph.Function{
		Header: graph.Header{ID: "caller", Kind: graph.KindFunction},
		Body: &graph.Compound{
			Header: graph.Header{ID: "body", Kind: graph.KindCompound},
			Statements: []graph.Statement{
				&graph.DeclarationStatement{Header: graph.Header{ID: "decl", Kind: graph.KindDeclStmt}, Declarations: []graph.Node{v}},
				call,
			},
		},
	}
	ns.Functions = append(ns.Functions, caller)
	tu := &graph.TranslationUnit{Header: graph.Header{ID: "tu", Kind: graph.KindTranslationUnit}, Namespaces: []*graph.Namespace{ns}}
	g.AddTranslationUnit(tu)
	g.Register(ref)
	g.Register(v)

	p := ResolveFunctionPointerCalls{AmbiguityCap: 3}
	if err := p.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(call.InvokesIDs) != 0 {
		t.Fatalf("expected the call to be left unbound above the ambiguity cap, got %v", call.InvokesIDs)
	}
	if ctx.Diag.Len() == 0 {
		t.Fatalf("expected a diagnostic to be recorded for the abandoned binding")
	}
}
