package graph

import "github.com/cpgo/cpgo/internal/typesys"

// Typed is embedded by every expression and value-declaration node. Type is
// the statically-assigned type; PossibleSubTypes is populated only by the
// interface-subtyping widening step (spec §4.4, after Pass 3) for nodes
// typed as an interface with discovered structural implementers.
type Typed struct {
	Type             typesys.Type
	PossibleSubTypes []typesys.Type
}

func (t *Typed) Typ() *Typed { return t }

// HasType is implemented by every node embedding Typed.
type HasType interface {
	Typ() *Typed
}

// WidenSubTypes unions newTypes into t's PossibleSubTypes, skipping ones
// already present, so repeated resolver runs stay idempotent.
func (t *Typed) WidenSubTypes(newTypes []typesys.Type) {
	for _, nt := range newTypes {
		found := false
		for _, existing := range t.PossibleSubTypes {
			if existing.Equal(nt) {
				found = true
				break
			}
		}
		if !found {
			t.PossibleSubTypes = append(t.PossibleSubTypes, nt)
		}
	}
}
