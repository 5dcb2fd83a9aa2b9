package typesys

import "sync"

// Registry interns types by canonical name so that structurally equal types
// share a single instance for the lifetime of a project run. Per spec §9,
// one Registry exists per run, owned by the top-level driver, and mutation
// (e.g. ObjectType.AddGeneric) must happen before interning or on a local
// copy — Intern never mutates the instance it is given, it only decides
// whether to keep it or hand back an existing one.
type Registry struct {
	mu      sync.Mutex
	byName  map[string]Type
	unknown Type
	missing Type
}

func NewRegistry() *Registry {
	return &Registry{
		byName:  make(map[string]Type),
		unknown: UnknownType{},
		missing: MissingType{},
	}
}

// Intern returns the registry's canonical instance for t, registering t as
// that instance if none exists yet for t.CanonicalName().
func (r *Registry) Intern(t Type) Type {
	if t == nil {
		return r.unknown
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	name := t.CanonicalName()
	if existing, ok := r.byName[name]; ok {
		return existing
	}
	r.byName[name] = t
	return t
}

// Unknown returns the registry's single UnknownType instance.
func (r *Registry) Unknown() Type { return r.unknown }

// Missing returns the registry's single MissingType instance.
func (r *Registry) Missing() Type { return r.missing }

// Lookup returns the interned type for a canonical name, if one has been
// produced by a prior Intern call.
func (r *Registry) Lookup(canonicalName string) (Type, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byName[canonicalName]
	return t, ok
}

// Size reports how many distinct types have been interned; used in tests to
// check that equal types really do collapse to one instance.
func (r *Registry) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byName)
}
