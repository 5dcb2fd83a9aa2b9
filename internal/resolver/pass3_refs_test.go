package resolver

import (
	"testing"

	"github.com/cpgo/cpgo/internal/graph"
	"github.com/cpgo/cpgo/internal/typesys"
)

func TestResolveReferences_InfersMissingMember(t *testing.T) {
	reg := typesys.NewRegistry()
	ctx := &Context{Graph: graph.NewGraph(), Types: reg}

	recT := reg.Intern(typesys.NewObjectType("p.S"))
	rec := &graph.Record{Header: graph.Header{ID: "s", Name: "p.S", Kind: graph.KindRecord}, RecordKind: graph.RecordStruct}
	ctx.Graph.AddRecord(rec)

	base := &graph.DeclaredReference{Header: graph.Header{ID: "ref", Kind: graph.KindDeclaredReference}, FQN: "s"}
	base.Type = recT
	member := &graph.Member{Header: graph.Header{ID: "mem", Kind: graph.KindMember}, Base: base, Name: "Missing"}

	tu := wrapAsTU(member)
	ctx.Graph.AddTranslationUnit(tu)

	if err := (ResolveReferences{}).Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if member.RefersToID == "" {
		t.Fatalf("expected Member.RefersTo to be set (inferred), got empty")
	}
	n, ok := ctx.Graph.Lookup(member.RefersToID)
	if !ok {
		t.Fatalf("expected inferred field to be registered in the graph")
	}
	fd, ok := n.(*graph.Field)
	if !ok || !fd.Inferred {
		t.Fatalf("expected an inferred Field, got %#v", n)
	}
	if len(ctx.Graph.Inferred) != 1 {
		t.Fatalf("expected exactly one inferred declaration, got %d", len(ctx.Graph.Inferred))
	}
}

func TestResolveReferences_ResolvesRealField(t *testing.T) {
	reg := typesys.NewRegistry()
	ctx := &Context{Graph: graph.NewGraph(), Types: reg}

	recT := reg.Intern(typesys.NewObjectType("p.S"))
	field := &graph.Field{Header: graph.Header{ID: "s.X", Name: "X", Kind: graph.KindField}}
	rec := &graph.Record{
		Header:     graph.Header{ID: "s", Name: "p.S", Kind: graph.KindRecord},
		RecordKind: graph.RecordStruct,
		Fields:     []*graph.Field{field},
	}
	ctx.Graph.AddRecord(rec)

	base := &graph.DeclaredReference{Header: graph.Header{ID: "ref", Kind: graph.KindDeclaredReference}, FQN: "s"}
	base.Type = recT
	member := &graph.Member{Header: graph.Header{ID: "mem", Kind: graph.KindMember}, Base: base, Name: "X"}

	tu := wrapAsTU(member)
	ctx.Graph.AddTranslationUnit(tu)

	if err := (ResolveReferences{}).Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if member.RefersToID != "s.X" {
		t.Fatalf("expected Member to resolve to the real field s.X, got %q", member.RefersToID)
	}
	if len(ctx.Graph.Inferred) != 0 {
		t.Fatalf("expected no inferred declarations when a real field matches")
	}
}

func TestResolveReferences_WidensPossibleSubTypesAfterInterfaceImpl(t *testing.T) {
	reg := typesys.NewRegistry()
	g := graph.NewGraph()
	ctx := &Context{Graph: g, Types: reg}

	ifcT := reg.Intern(typesys.NewObjectType("p.I"))
	sig := fnType(reg, nil, []typesys.Type{reg.Intern(typesys.NewObjectType("int"))})
	ifc := &graph.Record{Header: graph.Header{ID: "ifc", Name: "p.I", Kind: graph.KindRecord}, RecordKind: graph.RecordInterface,
		Methods: []*graph.Method{{Function: graph.Function{Header: graph.Header{ID: "ifc.F", Name: "F"}, FuncType: sig}}}}
	s := &graph.Record{Header: graph.Header{ID: "s", Name: "p.S", Kind: graph.KindRecord}, RecordKind: graph.RecordStruct,
		Methods: []*graph.Method{{Function: graph.Function{Header: graph.Header{ID: "s.F", Name: "F"}, FuncType: sig}}}}
	g.AddRecord(ifc)
	g.AddRecord(s)

	param := &graph.ParamVariable{Header: graph.Header{ID: "param", Name: "i", Kind: graph.KindParamVariable}}
	param.Type = ifcT
	fn := &graph.Function{Header: graph.Header{ID: "fn", Name: "Use", Kind: graph.KindFunction}, Parameters: []*graph.ParamVariable{param}}
	ns := &graph.Namespace{Header: graph.Header{ID: "ns", Kind: graph.KindNamespace}, Functions: []*graph.Function{fn}}
	tu := &graph.TranslationUnit{Header: graph.Header{ID: "tu", Kind: graph.KindTranslationUnit}, Namespaces: []*graph.Namespace{ns}}
	g.AddTranslationUnit(tu)

	if err := (ResolveInterfaceImplementations{}).Run(ctx); err != nil {
		t.Fatalf("pass1: %v", err)
	}
	if err := (ResolveReferences{}).Run(ctx); err != nil {
		t.Fatalf("pass3: %v", err)
	}

	found := false
	for _, st := range param.PossibleSubTypes {
		if st.CanonicalName() == "p.S" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected param i's PossibleSubTypes to widen to include p.S, got %v", param.PossibleSubTypes)
	}
}

// wrapAsTU builds the minimal TranslationUnit/Namespace/Function shell
// WalkGraph needs to reach a standalone expression under test.
func wrapAsTU(expr graph.Expression) *graph.TranslationUnit {
	fn := &graph.Function{
		Header: graph.Header{ID: "fn", Kind: graph.KindFunction},
		Body: &graph.Compound{
			Header:     graph.Header{ID: "body", Kind: graph.KindCompound},
			Statements: []graph.Statement{expr},
		},
	}
	ns := &graph.Namespace{Header: graph.Header{ID: "ns", Kind: graph.KindNamespace}, Functions: []*graph.Function{fn}}
	return &graph.TranslationUnit{Header: graph.Header{ID: "tu", Kind: graph.KindTranslationUnit}, Namespaces: []*graph.Namespace{ns}}
}
