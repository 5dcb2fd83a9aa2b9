package graph

import "github.com/cpgo/cpgo/internal/typesys"

// TranslationUnit is the graph anchor for a single source file (spec §3,
// §4.3's per-project driver).
type TranslationUnit struct {
	Header
	Namespaces []*Namespace
	Problems   []*Problem
}

// Namespace is the declaration-side anchor of a NameScope: a package, with
// its records, free functions, variables and includes. Methods are not in
// Functions; they hang off their Record's Methods list. Two files in the same package
// share one Namespace, per the scope manager's NameScope-by-FQN invariant.
type Namespace struct {
	Header
	Records   []*Record
	Functions []*Function
	Variables []*Variable
	Includes  []*Include
}

// Record is a struct, interface or type-alias declaration. Per spec §3
// invariant 1, its Name is always a fully qualified "module-path/pkg.Name"
// and two same-FQN declarations across files are merged into one Record
// sharing one name scope.
type Record struct {
	Header
	RecordKind RecordKind

	Fields  []*Field
	Methods []*Method

	// Generics holds the record's own type parameters (Go generics), in
	// declaration order.
	Generics []typesys.Type

	// SuperClasses / SuperTypeDeclarations capture embedded interfaces
	// (interface embedding another interface) or embedded struct fields
	// whose type is itself a record, per spec §8 scenario 2.
	SuperClasses          []typesys.Type
	SuperTypeDeclarations []*Record

	// ImplementedInterfaces is populated by resolver Pass 1
	// (ResolveInterfaceImplementations).
	ImplementedInterfaces []typesys.Type

	// AliasOf is set only for RecordAlias records (spec §9's alias
	// representation; see DESIGN.md for why this module uses an explicit
	// field rather than the original's synthetic-function workaround).
	AliasOf typesys.Type
}

// Function is a free function declaration. A function literal is lowered
// as an anonymous Function wrapped in a Lambda expression (spec §4.3).
type Function struct {
	Header
	Parameters  []*ParamVariable
	ReturnTypes []typesys.Type
	Body        *Compound
	FuncType    typesys.Type
	Variadic    bool
}

// Signature returns the function's type, used by the scope manager to
// element-wise match candidates against a call's argument/return types.
func (f *Function) Signature() typesys.Type { return f.FuncType }

// Method is a Function with a Receiver variable (spec §3). Per spec §3
// invariant 2, a Method must be reachable both from its Record's Methods
// list and as a function-typed value in the Record's enclosing name scope.
type Method struct {
	Function
	Receiver  *ParamVariable
	RecordFQN string
}

// ParamVariable is a function/method parameter (including the receiver).
type ParamVariable struct {
	Header
	Typed
	Variadic bool
}

// Variable is a local or package-level variable/constant declaration.
type Variable struct {
	Header
	Typed
	Initializer Node
	IsConst     bool
}

// Field is a struct field or, for an interface record, a required method
// signature slot is instead represented as a Method on the interface
// Record; Field covers data members only. Inferred is set when the
// resolver (Pass 3) had to synthesize the field because no declaration
// existed for a resolved member access.
type Field struct {
	Header
	Typed
	DataFlow
	Embedded bool
	Inferred bool
}

// Include is an import declaration. Name is the import's local alias if it
// has one, otherwise the last segment of its import path; the imported
// package's self-reported name is not consulted for it. Path is the import
// path.
type Include struct {
	Header
	Path string
}

// Problem marks a subtree the frontend could not translate (a parse
// failure, or lowering fallback) without aborting the rest of the file,
// per spec §4.5.
type Problem struct {
	Header
	Message string
}
