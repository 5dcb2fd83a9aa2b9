package scope

import (
	"fmt"
	"os"

	"github.com/cpgo/cpgo/internal/graph"
	"github.com/cpgo/cpgo/internal/typesys"
)

// Manager owns the scope tree for one project run (or, mid-merge, for one
// file being folded into a shared run). current tracks the innermost scope
// the frontend is presently inside.
type Manager struct {
	Global  *Scope
	current *Scope

	scopesByNode    map[graph.Node]*Scope
	nameScopesByFQN map[string]*Scope
}

// NewManager creates a Manager with an empty Global scope.
func NewManager() *Manager {
	g := newScope(KindGlobal, nil, nil)
	return &Manager{
		Global:          g,
		current:         g,
		scopesByNode:    make(map[graph.Node]*Scope),
		nameScopesByFQN: make(map[string]*Scope),
	}
}

// Current returns the innermost active scope.
func (m *Manager) Current() *Scope { return m.current }

// hasSignature is implemented by Function and (via embedding) Method.
type hasSignature interface {
	Signature() typesys.Type
}

// EnterScope pushes a new scope of kind for node and makes it current. For
// a NameScope, fqn is the deduplication key: if a NameScope with this FQN
// already exists anywhere in the tree, it is reactivated (its AstNode
// anchor moves to node) instead of a sibling being created, so that a
// package spanning many files collapses onto one NameScope.
func (m *Manager) EnterScope(node graph.Node, kind Kind, fqn string) *Scope {
	if kind == KindNameScope && fqn != "" {
		if existing, ok := m.nameScopesByFQN[fqn]; ok {
			existing.AstNode = node
			if node != nil {
				m.scopesByNode[node] = existing
			}
			m.current = existing
			return existing
		}
	}

	s := newScope(kind, m.current, node)
	if kind == KindNameScope {
		s.FQN = fqn
		if fqn != "" {
			m.nameScopesByFQN[fqn] = s
		}
	}
	if m.current != nil {
		m.current.Children = append(m.current.Children, s)
	}
	if node != nil {
		m.scopesByNode[node] = s
	}
	m.current = s
	return s
}

// LeaveScope pops the scope anchored to node, restoring current to its
// parent. A leave for a node with no registered scope is a no-op, logged as
// a warning rather than treated as fatal: the frontend walks real ASTs
// where a malformed subtree can desync enter/leave pairs, and one file's
// bookkeeping mistake should not abort the whole run.
func (m *Manager) LeaveScope(node graph.Node) {
	s, ok := m.scopesByNode[node]
	if !ok {
		fmt.Fprintf(os.Stderr, "warning: scope: leave_scope called for an unregistered node\n")
		return
	}
	if s != m.current {
		fmt.Fprintf(os.Stderr, "warning: scope: leave_scope node does not match the innermost scope; unwinding anyway\n")
	}
	if s.Parent != nil {
		m.current = s.Parent
	} else {
		m.current = m.Global
	}
}

// ResetToGlobal re-anchors the Global scope to tu (a new translation unit
// being processed) and makes it current, used between files within one run.
func (m *Manager) ResetToGlobal(tu graph.Node) {
	m.Global.AstNode = tu
	if tu != nil {
		m.scopesByNode[tu] = m.Global
	}
	m.current = m.Global
}

// AddDeclaration routes decl into the appropriate map of the appropriate
// scope: Problem and Include always go to Global; Record and Namespace
// declarations go to the nearest scope capable of holding structure
// declarations (Global or NameScope); everything else is a value
// declaration and is added to the current scope.
func (m *Manager) AddDeclaration(decl graph.Node) {
	if decl == nil {
		return
	}
	name := decl.Head().Name

	switch decl.Head().Kind {
	case graph.KindProblem, graph.KindInclude:
		m.Global.StructureDecls[simpleName(name)] = decl
		if decl.Head().Kind == graph.KindInclude {
			m.Global.addValue(simpleName(name), decl)
		}
		return
	case graph.KindRecord, graph.KindNamespace:
		s := m.current
		for s != nil && !s.Kind.isStructureDeclarationCapable() {
			s = s.Parent
		}
		if s == nil {
			s = m.Global
		}
		s.StructureDecls[simpleName(name)] = decl
		return
	default:
		m.current.addValue(simpleName(name), decl)
	}
}

// simpleName strips a "pkg.Name" or "pkg/sub.Name" qualifier down to the
// trailing identifier, matching the unqualified keys scopes index value and
// structure declarations under.
func simpleName(name string) string {
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' {
			return name[i+1:]
		}
	}
	return name
}

// ResolveReference walks outward from from, looking for a value declaration
// named name. If want is a FunctionType, candidates are additionally
// restricted to declarations whose own signature matches want element-wise
// (spec §4.2): this is what lets a variable and a same-named function
// coexist in nested scopes without one hiding the other incorrectly.
func (m *Manager) ResolveReference(name string, want typesys.Type, from *Scope) (graph.Node, bool) {
	if from == nil {
		from = m.current
	}
	wantFn, wantIsFn := want.(*typesys.FunctionType)

	for s := from; s != nil; s = s.Parent {
		candidates := s.ValueDecls[name]
		if len(candidates) == 0 {
			continue
		}
		if !wantIsFn {
			return candidates[len(candidates)-1], true
		}
		for i := len(candidates) - 1; i >= 0; i-- {
			hs, ok := candidates[i].(hasSignature)
			if !ok {
				continue
			}
			if fn, ok := hs.Signature().(*typesys.FunctionType); ok && fn.Equal(wantFn) {
				return candidates[i], true
			}
		}
	}
	return nil, false
}

// ResolveFunction returns every function/method declaration reachable from
// from whose simple name is name and whose parameter types match argTypes
// element-wise. If name contains a namespace qualifier ("pkg.Name"), the
// search jumps straight to that NameScope instead of walking outward.
func (m *Manager) ResolveFunction(name string, argTypes []typesys.Type, from *Scope) []graph.Node {
	qualifier, simple := splitQualifier(name)
	if qualifier != "" {
		if ns, ok := m.nameScopesByFQN[qualifier]; ok {
			return matchFunctions(ns.ValueDecls[simple], argTypes)
		}
		return nil
	}

	if from == nil {
		from = m.current
	}
	var out []graph.Node
	for s := from; s != nil; s = s.Parent {
		out = append(out, matchFunctions(s.ValueDecls[simple], argTypes)...)
	}
	return out
}

func matchFunctions(candidates []graph.Node, argTypes []typesys.Type) []graph.Node {
	var out []graph.Node
	for _, c := range candidates {
		hs, ok := c.(hasSignature)
		if !ok {
			continue
		}
		fn, ok := hs.Signature().(*typesys.FunctionType)
		if !ok {
			continue
		}
		if typesys.SignaturesEqual(fn.Parameters, argTypes) {
			out = append(out, c)
		}
	}
	return out
}

func splitQualifier(name string) (qualifier, simple string) {
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' {
			return name[:i], name[i+1:]
		}
	}
	return "", name
}

// GetRecordForName walks outward from from looking for a Record structure
// declaration named name.
func (m *Manager) GetRecordForName(from *Scope, name string) (*graph.Record, bool) {
	if from == nil {
		from = m.current
	}
	_, simple := splitQualifier(name)
	for s := from; s != nil; s = s.Parent {
		if decl, ok := s.StructureDecls[simple]; ok {
			if r, ok := decl.(*graph.Record); ok {
				return r, true
			}
		}
	}
	return nil, false
}

// MergeFrom folds every NameScope of other into this manager: if this
// manager already has a NameScope under the same FQN, other's value and
// structure declarations are appended into it (cross-file package merge,
// spec §4.2); otherwise other's NameScope is adopted wholesale. Global-scope
// declarations (Problems, Includes routed to Global) are always merged into
// this manager's Global scope.
func (m *Manager) MergeFrom(other *Manager) {
	for name, decl := range other.Global.StructureDecls {
		if _, exists := m.Global.StructureDecls[name]; !exists {
			m.Global.StructureDecls[name] = decl
		}
	}
	for name, decls := range other.Global.ValueDecls {
		m.Global.ValueDecls[name] = mergeValueSlots(m.Global.ValueDecls[name], decls)
	}

	for fqn, s := range other.nameScopesByFQN {
		local, ok := m.nameScopesByFQN[fqn]
		if !ok {
			s.Parent = m.Global
			m.nameScopesByFQN[fqn] = s
			m.Global.Children = append(m.Global.Children, s)
			if s.AstNode != nil {
				m.scopesByNode[s.AstNode] = s
			}
			continue
		}
		for name, decl := range s.StructureDecls {
			if _, exists := local.StructureDecls[name]; !exists {
				local.StructureDecls[name] = decl
			}
		}
		for name, decls := range s.ValueDecls {
			local.ValueDecls[name] = mergeValueSlots(local.ValueDecls[name], decls)
		}
		for name, td := range s.Typedefs {
			if _, exists := local.Typedefs[name]; !exists {
				local.Typedefs[name] = td
			}
		}
	}
}

func mergeValueSlots(into, from []graph.Node) []graph.Node {
	seen := make(map[string]bool, len(into))
	for _, n := range into {
		seen[n.Head().ID] = true
	}
	for _, n := range from {
		if !seen[n.Head().ID] {
			into = append(into, n)
			seen[n.Head().ID] = true
		}
	}
	return into
}
