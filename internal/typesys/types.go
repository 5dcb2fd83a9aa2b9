// Package typesys implements the graph's type system: a small closed set of
// value-compared type variants (ObjectType, PointerType, FunctionType,
// TupleType, UnknownType, MissingType) plus a per-run interning registry so
// that structurally equal types share a single instance.
//
// The variant shapes and the canonical FunctionType naming rule are grounded
// on original_source/cpg-language-go/src/main/golang/types.go and
// frontend/handler.go's handleType/handleTypingType, which parse exactly
// this grammar from both textual FQNs and go/ast or go/types input.
package typesys

import "strings"

// PointerOrigin distinguishes a Go pointer (*T) from a slice/array ([]T),
// both of which are represented as PointerType per the data model.
type PointerOrigin int

const (
	OriginPointer PointerOrigin = iota
	OriginArray
)

func (o PointerOrigin) String() string {
	if o == OriginArray {
		return "ARRAY"
	}
	return "POINTER"
}

// Type is the common interface implemented by every type variant. Types are
// value-compared: two Type instances are Equal iff their CanonicalName is
// equal, and the Registry guarantees that equal types share one instance.
type Type interface {
	CanonicalName() string
	TypeName() string
	Equal(other Type) bool
}

// base carries the fields shared by every named/object-ish type.
type base struct {
	name string
}

// ObjectType is a named type: a built-in (int, string, error, ...) or an
// FQN-qualified record type, optionally carrying generic type arguments
// (map's K/V, chan's element type, or an instantiated Go generic).
type ObjectType struct {
	base
	Generics []Type
}

func NewObjectType(name string, generics ...Type) *ObjectType {
	return &ObjectType{base: base{name: name}, Generics: generics}
}

func (t *ObjectType) TypeName() string { return t.name }

func (t *ObjectType) CanonicalName() string {
	switch {
	case len(t.Generics) == 0:
		return t.name
	case t.name == "map" && len(t.Generics) == 2:
		return "map[" + t.Generics[0].CanonicalName() + "]" + t.Generics[1].CanonicalName()
	case t.name == "chan" && len(t.Generics) == 1:
		return "chan " + t.Generics[0].CanonicalName()
	default:
		parts := make([]string, len(t.Generics))
		for i, g := range t.Generics {
			parts[i] = g.CanonicalName()
		}
		return t.name + "<" + strings.Join(parts, ",") + ">"
	}
}

func (t *ObjectType) Equal(other Type) bool {
	o, ok := other.(*ObjectType)
	return ok && o.CanonicalName() == t.CanonicalName()
}

// AddGeneric appends a generic type argument. Per the interning contract,
// callers must do this before the type is handed to Registry.Intern, or on
// a local, not-yet-interned copy.
func (t *ObjectType) AddGeneric(g Type) {
	t.Generics = append(t.Generics, g)
}

// PointerType wraps an element type, distinguishing *T from []T via Origin.
type PointerType struct {
	Element Type
	Origin  PointerOrigin
}

func NewPointerType(element Type, origin PointerOrigin) *PointerType {
	return &PointerType{Element: element, Origin: origin}
}

func (t *PointerType) TypeName() string { return t.CanonicalName() }

func (t *PointerType) CanonicalName() string {
	if t.Origin == OriginArray {
		return "[]" + t.Element.CanonicalName()
	}
	return "*" + t.Element.CanonicalName()
}

func (t *PointerType) Equal(other Type) bool {
	o, ok := other.(*PointerType)
	if !ok || o.Origin != t.Origin {
		return false
	}
	return o.Element.Equal(t.Element)
}

// FunctionType represents func(P1, ...) (R1, ...). Its canonical name is
// the invariant from spec §3.3: "func(" + joined param type names + ")",
// suffixed with " T" for a single return or " (T1, T2, ...)" for multiple.
type FunctionType struct {
	Parameters []Type
	Returns    []Type
	name       string
}

func NewFunctionType(parameters, returns []Type) *FunctionType {
	t := &FunctionType{Parameters: parameters, Returns: returns}
	t.name = FuncTypeName(parameters, returns)
	return t
}

func (t *FunctionType) TypeName() string     { return t.name }
func (t *FunctionType) CanonicalName() string { return t.name }

func (t *FunctionType) Equal(other Type) bool {
	o, ok := other.(*FunctionType)
	return ok && o.name == t.name
}

// FuncTypeName computes the canonical FunctionType name per spec §3
// invariant 3: func(<params>) [ " "+ret | " ("+joined-rets+")" ].
func FuncTypeName(parameters, returns []Type) string {
	paramNames := make([]string, len(parameters))
	for i, p := range parameters {
		paramNames[i] = p.CanonicalName()
	}

	var suffix string
	switch len(returns) {
	case 0:
		suffix = ""
	case 1:
		suffix = " " + returns[0].CanonicalName()
	default:
		retNames := make([]string, len(returns))
		for i, r := range returns {
			retNames[i] = r.CanonicalName()
		}
		suffix = " (" + strings.Join(retNames, ", ") + ")"
	}

	return "func(" + strings.Join(paramNames, ", ") + ")" + suffix
}

// TupleType represents the ordered element types of a multi-valued
// expression, used for the static type of a Tuple expression.
type TupleType struct {
	Elements []Type
}

func NewTupleType(elements []Type) *TupleType { return &TupleType{Elements: elements} }

func (t *TupleType) TypeName() string { return t.CanonicalName() }

func (t *TupleType) CanonicalName() string {
	parts := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		parts[i] = e.CanonicalName()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (t *TupleType) Equal(other Type) bool {
	o, ok := other.(*TupleType)
	if !ok || len(o.Elements) != len(t.Elements) {
		return false
	}
	for i := range t.Elements {
		if !o.Elements[i].Equal(t.Elements[i]) {
			return false
		}
	}
	return true
}

// UnknownType is produced whenever the oracle cannot answer and the type
// parser cannot otherwise resolve an expression. A single instance exists
// per registry.
type UnknownType struct{}

func (UnknownType) TypeName() string      { return "UNKNOWN" }
func (UnknownType) CanonicalName() string { return "UNKNOWN" }
func (UnknownType) Equal(other Type) bool { _, ok := other.(UnknownType); return ok }

// MissingType marks a type slot that was never populated (distinct from
// UnknownType, which marks a slot the oracle explicitly could not answer).
type MissingType struct{}

func (MissingType) TypeName() string      { return "MISSING" }
func (MissingType) CanonicalName() string { return "MISSING" }
func (MissingType) Equal(other Type) bool { _, ok := other.(MissingType); return ok }

// SignaturesEqual compares two parameter/return type lists element-wise, as
// required by scope resolution (§4.2) and interface-implementation matching
// (§4.4 Pass 1).
func SignaturesEqual(a, b []Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
