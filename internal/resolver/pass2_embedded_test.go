package resolver

import (
	"testing"

	"github.com/cpgo/cpgo/internal/graph"
	"github.com/cpgo/cpgo/internal/typesys"
)

func TestResolveEmbeddedMembers_ResolvesSuperClasses(t *testing.T) {
	reg := typesys.NewRegistry()
	ctx := &Context{Graph: graph.NewGraph(), Types: reg}

	baseT := reg.Intern(typesys.NewObjectType("p.Base"))
	base := &graph.Record{
		Header:     graph.Header{ID: "base", Name: "p.Base", Kind: graph.KindRecord},
		RecordKind: graph.RecordStruct,
		Methods: []*graph.Method{
			{Function: graph.Function{Header: graph.Header{ID: "base.M", Name: "M"}}},
		},
	}
	outer := &graph.Record{
		Header:       graph.Header{ID: "outer", Name: "p.Outer", Kind: graph.KindRecord},
		RecordKind:   graph.RecordStruct,
		SuperClasses: []typesys.Type{baseT},
	}
	ctx.Graph.AddRecord(base)
	ctx.Graph.AddRecord(outer)

	if err := (ResolveEmbeddedMembers{}).Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(outer.SuperTypeDeclarations) != 1 || outer.SuperTypeDeclarations[0] != base {
		t.Fatalf("expected Outer.SuperTypeDeclarations = [Base], got %v", outer.SuperTypeDeclarations)
	}
}

func TestResolveEmbeddedMembers_RewritesMemberCallToPromotedMethod(t *testing.T) {
	reg := typesys.NewRegistry()
	ctx := &Context{Graph: graph.NewGraph(), Types: reg}

	baseT := reg.Intern(typesys.NewObjectType("p.Base"))
	outerT := reg.Intern(typesys.NewObjectType("p.Outer"))

	base := &graph.Record{
		Header:     graph.Header{ID: "base", Name: "p.Base", Kind: graph.KindRecord},
		RecordKind: graph.RecordStruct,
		Methods: []*graph.Method{
			{Function: graph.Function{Header: graph.Header{ID: "base.Greet", Name: "Greet"}}},
		},
	}
	outer := &graph.Record{
		Header:       graph.Header{ID: "outer", Name: "p.Outer", Kind: graph.KindRecord},
		RecordKind:   graph.RecordStruct,
		SuperClasses: []typesys.Type{baseT},
	}
	ctx.Graph.AddRecord(base)
	ctx.Graph.AddRecord(outer)

	outerVar := &graph.Variable{Header: graph.Header{ID: "o", Name: "o", Kind: graph.KindVariable}}
	outerVar.Type = outerT

	baseRef := &graph.DeclaredReference{Header: graph.Header{ID: "ref-o", Kind: graph.KindDeclaredReference}, FQN: "o"}
	baseRef.Type = outerT

	call := &graph.MemberCall{
		Header: graph.Header{ID: "call-greet", Kind: graph.KindMemberCall},
		Base:   baseRef,
		Name:   "Greet",
	}
	ctx.Graph.Register(call)
	ctx.Graph.Register(baseRef)
	ctx.Graph.Register(outerVar)

	// Register call as reachable from the graph's traversal by attaching
	// it to a translation unit, matching how WalkGraph discovers nodes in
	// production (spec §9's arena-with-index-vectors pattern): a bare
	// expression statement (here, the MemberCall itself) satisfies
	// graph.Statement directly, same as the frontend's ExprStmt lowering.
	fn := &graph.Function{
		Header: graph.Header{ID: "caller", Name: "caller", Kind: graph.KindFunction},
		Body: &graph.Compound{
			Header: graph.Header{ID: "body", Kind: graph.KindCompound},
			Statements: []graph.Statement{
				&graph.DeclarationStatement{
					Header:       graph.Header{ID: "decl", Kind: graph.KindDeclStmt},
					Declarations: []graph.Node{outerVar},
				},
				call,
			},
		},
	}
	ns := &graph.Namespace{Header: graph.Header{ID: "ns", Name: "p", Kind: graph.KindNamespace}, Functions: []*graph.Function{fn}}
	tu := &graph.TranslationUnit{Header: graph.Header{ID: "tu", Kind: graph.KindTranslationUnit}, Namespaces: []*graph.Namespace{ns}}
	ctx.Graph.AddTranslationUnit(tu)

	if err := (ResolveEmbeddedMembers{}).Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(call.InvokesIDs) != 1 || call.InvokesIDs[0] != "base.Greet" {
		t.Fatalf("expected MemberCall to resolve to the embedded Base.Greet method, got %v", call.InvokesIDs)
	}
}
