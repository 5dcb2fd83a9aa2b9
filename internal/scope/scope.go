// Package scope implements the scope manager: a tree of lexical/name-space
// scopes with cross-file name-space merging, used both while the frontend
// materializes declarations and while the resolver looks references up.
//
// Grounded on spec §4.2. The NameScope-by-FQN map is, per spec §9, "the
// critical deduplication structure": entering a NameScope whose FQN already
// has a scope reactivates it instead of creating a sibling, so that a
// package spanning many files ends up with exactly one NameScope. Every
// other scope kind gets a fresh scope on each EnterScope.
package scope

import "github.com/cpgo/cpgo/internal/graph"

// Kind is one of the scope kinds spec §4.2 lists.
type Kind int

const (
	KindGlobal Kind = iota
	KindNameScope
	KindFunction
	KindBlock
	KindLoop
	KindSwitch
	KindTry
	KindTemplate
	KindRecord
	KindValueDeclaration
)

// Scope is one node of the scope tree.
type Scope struct {
	Kind   Kind
	Parent *Scope
	Children []*Scope

	// AstNode is the declaration node this scope is anchored to. For a
	// NameScope this is the Namespace that currently owns it; reactivating
	// the scope for a later file updates this anchor (spec §9: "do not
	// rely on object identity of the AST node a scope was first attached
	// to; reactivation updates the AST anchor").
	AstNode graph.Node

	// FQN is set for NameScope scopes: the fully-qualified namespace name
	// that is this manager's deduplication key.
	FQN string

	// ValueDecls holds variables/parameters/functions/fields by simple
	// name; each slot is an ordered list because spec §4.2 requires stable
	// insertion order within a name for deterministic resolution.
	ValueDecls map[string][]graph.Node

	// StructureDecls holds records and namespaces by simple name.
	StructureDecls map[string]graph.Node

	// Typedefs holds type-alias bindings visible in this scope.
	Typedefs map[string]graph.Node
}

func newScope(kind Kind, parent *Scope, node graph.Node) *Scope {
	return &Scope{
		Kind:           kind,
		Parent:         parent,
		AstNode:        node,
		ValueDecls:     make(map[string][]graph.Node),
		StructureDecls: make(map[string]graph.Node),
		Typedefs:       make(map[string]graph.Node),
	}
}

// addValue appends decl under name, preserving insertion order.
func (s *Scope) addValue(name string, decl graph.Node) {
	s.ValueDecls[name] = append(s.ValueDecls[name], decl)
}

// AddValue is the exported form of addValue, used by the frontend when a
// declaration must be registered in a scope other than the current one -
// e.g. a Method must additionally be a value declaration of its Record's
// enclosing name scope (spec §3 invariant 2), not just of the Record's own
// scope that add_declaration's default dispatch would pick.
func (s *Scope) AddValue(name string, decl graph.Node) {
	s.addValue(name, decl)
}

// isValueDeclarationCapable reports whether a scope of this kind is a
// legitimate home for a value declaration. It reports true for every kind,
// Record included: AddDeclaration adds value declarations to whichever
// scope is current.
func (k Kind) isValueDeclarationCapable() bool {
	return true
}

// isStructureDeclarationCapable reports whether a scope of this kind is a
// legitimate home for a record/namespace declaration: only Global and
// NameScope scopes are, per spec §4.2's add_declaration dispatch rule.
func (k Kind) isStructureDeclarationCapable() bool {
	return k == KindGlobal || k == KindNameScope
}
