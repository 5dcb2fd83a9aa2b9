package resolver

import (
	"testing"

	"github.com/cpgo/cpgo/internal/graph"
	"github.com/cpgo/cpgo/internal/typesys"
)

func TestResolveInitializerListDFG_WiresValueToMatchingField(t *testing.T) {
	reg := typesys.NewRegistry()
	ctx := &Context{Graph: graph.NewGraph(), Types: reg}

	pointT := reg.Intern(typesys.NewObjectType("p.Point"))
	xField := &graph.Field{Header: graph.Header{ID: "p.Point.X", Name: "X", Kind: graph.KindField}}
	rec := &graph.Record{
		Header:     graph.Header{ID: "rec", Name: "p.Point", Kind: graph.KindRecord},
		RecordKind: graph.RecordStruct,
		Fields:     []*graph.Field{xField},
	}
	ctx.Graph.AddRecord(rec)

	keyLit := &graph.Literal{Header: graph.Header{ID: "key", Kind: graph.KindLiteral}, Value: "X"}
	valLit := &graph.Literal{Header: graph.Header{ID: "val", Kind: graph.KindLiteral}, Value: 1}
	kv := &graph.KeyValue{Header: graph.Header{ID: "kv", Kind: graph.KindKeyValue}, Key: keyLit, Value: valLit}
	il := &graph.InitializerList{Header: graph.Header{ID: "il", Kind: graph.KindInitializerList}, Initializers: []graph.Expression{kv}}
	il.Type = pointT

	tu := wrapAsTU(il)
	ctx.Graph.AddTranslationUnit(tu)

	if err := (ResolveInitializerListDFG{}).Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	foundOnField := false
	for _, id := range xField.PrevDFG {
		if id == "val" {
			foundOnField = true
		}
	}
	if !foundOnField {
		t.Fatalf("expected field X to have a DFG edge from the literal value, got %v", xField.PrevDFG)
	}

	foundOnList := false
	for _, id := range il.PrevDFG {
		if id == "kv" {
			foundOnList = true
		}
	}
	if !foundOnList {
		t.Fatalf("expected the InitializerList to have a DFG edge from its KeyValue, got %v", il.PrevDFG)
	}
}

func TestResolveInitializerListDFG_UnkeyedInitializerFlowsDirectlyToList(t *testing.T) {
	ctx := &Context{Graph: graph.NewGraph(), Types: typesys.NewRegistry()}

	valLit := &graph.Literal{Header: graph.Header{ID: "val", Kind: graph.KindLiteral}, Value: 1}
	il := &graph.InitializerList{Header: graph.Header{ID: "il", Kind: graph.KindInitializerList}, Initializers: []graph.Expression{valLit}}

	tu := wrapAsTU(il)
	ctx.Graph.AddTranslationUnit(tu)

	if err := (ResolveInitializerListDFG{}).Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(il.PrevDFG) != 1 || il.PrevDFG[0] != "val" {
		t.Fatalf("expected the list to receive a direct DFG edge from the unkeyed value, got %v", il.PrevDFG)
	}
}
