package graph

import (
	"testing"

	"github.com/cpgo/cpgo/internal/typesys"
)

func newRecord(id, fqn string) *Record {
	return &Record{
		Header:     Header{ID: id, Name: fqn, Kind: KindRecord},
		RecordKind: RecordStruct,
	}
}

func TestGraph_AddRecordEnforcesOneFQNPerRun(t *testing.T) {
	g := NewGraph()
	a := newRecord("id-a", "m/pkg.Thing")
	if err := g.AddRecord(a); err != nil {
		t.Fatalf("unexpected error adding first record: %v", err)
	}

	b := newRecord("id-b", "m/pkg.Thing")
	if err := g.AddRecord(b); err == nil {
		t.Fatalf("expected an error indexing a second, distinct record under the same FQN")
	}

	// Re-adding the very same instance is idempotent.
	if err := g.AddRecord(a); err != nil {
		t.Fatalf("re-adding the same record instance should not error: %v", err)
	}

	got, ok := g.RecordByFQN("m/pkg.Thing")
	if !ok || got != a {
		t.Fatalf("expected RecordByFQN to return the first-registered instance")
	}
}

func TestGraph_RegisterAndLookup(t *testing.T) {
	g := NewGraph()
	v := &Variable{Header: Header{ID: "v1", Name: "x", Kind: KindVariable}}
	g.Register(v)

	got, ok := g.Lookup("v1")
	if !ok || got != v {
		t.Fatalf("expected Lookup to return the registered node")
	}

	if _, ok := g.Lookup("missing"); ok {
		t.Fatalf("expected Lookup to report missing for an unregistered ID")
	}
}

func TestAddDFGEdge_IsIdempotent(t *testing.T) {
	lit := &Literal{Header: Header{ID: "lit1", Kind: KindLiteral}}
	field := &Field{Header: Header{ID: "field1", Kind: KindField}}

	for i := 0; i < 3; i++ {
		AddDFGEdge(nil, lit, field)
	}

	if len(lit.NextDFG) != 1 || lit.NextDFG[0] != "field1" {
		t.Fatalf("expected exactly one deduped NextDFG edge, got %v", lit.NextDFG)
	}
	if len(field.PrevDFG) != 1 || field.PrevDFG[0] != "lit1" {
		t.Fatalf("expected exactly one deduped PrevDFG edge, got %v", field.PrevDFG)
	}
}

func TestTyped_WidenSubTypesIsIdempotentAndDeduped(t *testing.T) {
	reg := typesys.NewRegistry()
	s := reg.Intern(typesys.NewObjectType("m/pkg.S"))

	typed := &Typed{}
	typed.WidenSubTypes([]typesys.Type{s})
	typed.WidenSubTypes([]typesys.Type{s})

	if len(typed.PossibleSubTypes) != 1 {
		t.Fatalf("expected WidenSubTypes to dedupe, got %d entries", len(typed.PossibleSubTypes))
	}
}

func TestNewID_StableAcrossRepeatedCalls(t *testing.T) {
	a := NewID("pkg/file.go", 10, KindFunction, "Do", "func() error")
	b := NewID("pkg/file.go", 10, KindFunction, "Do", "func() error")
	if a != b {
		t.Fatalf("expected NewID to be deterministic, got %q and %q", a, b)
	}

	c := NewID("pkg/file.go", 10, KindFunction, "Do", "func(int) error")
	if a == c {
		t.Fatalf("expected differing signatures to produce differing IDs")
	}
}
