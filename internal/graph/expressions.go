package graph

import "github.com/cpgo/cpgo/internal/typesys"

// Expression is implemented by every expression node variant: a Node that
// also carries a static Type.
type Expression interface {
	Node
	HasType
}

// Literal is a constant value of a known (or inferred) type.
type Literal struct {
	Header
	Typed
	DataFlow
	Value any
}

// DeclaredReference is a name reference that the resolver may bind via
// RefersTo to a declaration (spec §3 invariant 4), or leave unresolved
// (RefersToID == "").
type DeclaredReference struct {
	Header
	Typed
	DataFlow
	RefersTo
	FQN string
}

// Member is a selector expression `base.Name` where base is not a resolved
// import alias (otherwise the frontend would have produced a
// DeclaredReference with an import-qualified FQN, per spec §4.3).
type Member struct {
	Header
	Typed
	DataFlow
	RefersTo
	Base Expression
	Name string
}

// MemberCall is a method-call expression `base.Name(args...)`.
type MemberCall struct {
	Header
	Typed
	DataFlow
	Base      Expression
	Name      string
	Arguments []Expression
	InvokesIDs []string
}

// Call is a plain call expression `callee(args...)`. InvokesIDs is
// populated by resolver Pass 5 (FunctionPointerCall) when callee resolves
// to a function-pointer value rather than a FunctionDeclaration directly.
type Call struct {
	Header
	Typed
	DataFlow
	Callee     Expression
	Arguments  []Expression
	InvokesIDs []string
	FQN        string
}

// Binary is a two-operand operator expression.
type Binary struct {
	Header
	Typed
	DataFlow
	Op  string
	LHS Expression
	RHS Expression
}

// Unary is a one-operand operator expression (including increment/decrement
// lowered from IncDecStmt).
type Unary struct {
	Header
	Typed
	DataFlow
	Op      string
	Input   Expression
	Postfix bool
}

// Cast represents both an explicit conversion and a Go type assertion:
// spec §4.3 lowers `x.(T)` to a Cast expression with CastType T, so this
// module has no separate TypeAssert node variant (see DESIGN.md).
type Cast struct {
	Header
	Typed
	DataFlow
	CastType typesys.Type
	Inner    Expression
}

// New represents `new(T)`: a pointer-typed expression whose Initializer is
// a Construct of type T (spec §4.3).
type New struct {
	Header
	Typed
	DataFlow
	Initializer *Construct
}

// ArrayCreation represents `make([]T, dims...)`.
type ArrayCreation struct {
	Header
	Typed
	DataFlow
	Dimensions []Expression
}

// Construct represents a constructor-style expression: `make(map[K]V, ...)`,
// `make(chan T)`, or the outer node of a composite literal (whose sole
// argument is an InitializerList, spec §4.3).
type Construct struct {
	Header
	Typed
	DataFlow
	Arguments []Expression
}

// InitializerList is the element list of a composite literal.
type InitializerList struct {
	Header
	Typed
	DataFlow
	Initializers []Expression
}

// KeyValue is one `key: value` element of a composite literal or map
// literal. Per spec §4.3, an identifier key inside a composite literal is
// treated as a string-literal key (it names a field), which is what Pass 4
// (InitializerList DFG) keys off of.
type KeyValue struct {
	Header
	Typed
	DataFlow
	Key   Expression
	Value Expression
}

// Tuple wraps N sub-expressions for a multi-valued context (a multi-return,
// or the multi-valued RHS of an assignment).
type Tuple struct {
	Header
	Typed
	DataFlow
	Elements []Expression
}

// DestructureTuple denotes projection of one element (Index) from a
// tuple-producing expression. RefersTo targets that producing expression;
// spec §8 scenario 4 requires two DestructureTuple expressions from one
// `a, b := f()` to share the same RefersTo target with indices 0 and 1.
type DestructureTuple struct {
	Header
	Typed
	DataFlow
	RefersTo
	Index int
}

// Lambda wraps an anonymous Function literal so it can appear in
// expression position (spec §4.3).
type Lambda struct {
	Header
	Typed
	DataFlow
	Function *Function
}
