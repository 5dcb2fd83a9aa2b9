package resolver

import (
	"github.com/cpgo/cpgo/internal/graph"
	"github.com/cpgo/cpgo/internal/typesys"
)

// ResolveInterfaceImplementations populates every struct Record's
// ImplementedInterfaces: a struct implements an interface declared
// anywhere in this run's Graph if it has a Method matching every one of
// the interface's Method signatures by name and parameter/return types.
// Runs before ResolveEmbeddedMembers, so an interface satisfied only via a
// promoted embedded method is not detected here.
type ResolveInterfaceImplementations struct{}

func (ResolveInterfaceImplementations) Name() string       { return "ResolveInterfaceImplementations" }
func (ResolveInterfaceImplementations) DependsOn() []string { return nil }

func (ResolveInterfaceImplementations) Run(ctx *Context) error {
	type entry struct {
		fqn    string
		record *graph.Record
	}

	var structs, interfaces []entry
	for fqn, r := range ctx.Graph.FQNIndex {
		switch r.RecordKind {
		case graph.RecordStruct:
			structs = append(structs, entry{fqn: fqn, record: r})
		case graph.RecordInterface:
			interfaces = append(interfaces, entry{fqn: fqn, record: r})
		}
	}

	for _, s := range structs {
		for _, ifc := range interfaces {
			if !implementsInterface(s.record, ifc.record) {
				continue
			}
			t := ctx.Types.Intern(typesys.NewObjectType(ifc.fqn))
			if !containsType(s.record.ImplementedInterfaces, t) {
				s.record.ImplementedInterfaces = append(s.record.ImplementedInterfaces, t)
			}
		}
	}
	return nil
}

// implementsInterface reports whether s has, for every method ifc
// declares, a same-named method whose parameter and return types match
// element-wise.
func implementsInterface(s, ifc *graph.Record) bool {
	if len(ifc.Methods) == 0 {
		return false
	}
	for _, want := range ifc.Methods {
		if !hasMatchingMethod(s, want) {
			return false
		}
	}
	return true
}

func hasMatchingMethod(s *graph.Record, want *graph.Method) bool {
	for _, have := range s.Methods {
		if have.Name != want.Name {
			continue
		}
		haveFn, ok1 := have.FuncType.(*typesys.FunctionType)
		wantFn, ok2 := want.FuncType.(*typesys.FunctionType)
		if !ok1 || !ok2 {
			continue
		}
		if typesys.SignaturesEqual(haveFn.Parameters, wantFn.Parameters) &&
			typesys.SignaturesEqual(haveFn.Returns, wantFn.Returns) {
			return true
		}
	}
	return false
}

func containsType(list []typesys.Type, t typesys.Type) bool {
	for _, existing := range list {
		if existing.Equal(t) {
			return true
		}
	}
	return false
}
