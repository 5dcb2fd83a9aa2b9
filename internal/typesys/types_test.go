package typesys

import "testing"

func TestFunctionType_CanonicalName(t *testing.T) {
	cases := []struct {
		name       string
		parameters []Type
		returns    []Type
		want       string
	}{
		{"no params no returns", nil, nil, "func()"},
		{"single return", []Type{NewObjectType("int")}, []Type{NewObjectType("string")}, "func(int) string"},
		{
			"multiple returns",
			[]Type{NewObjectType("int"), NewObjectType("error")},
			[]Type{NewObjectType("int"), NewObjectType("error")},
			"func(int, error) (int, error)",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ft := NewFunctionType(tc.parameters, tc.returns)
			if ft.CanonicalName() != tc.want {
				t.Fatalf("got %q, want %q", ft.CanonicalName(), tc.want)
			}
		})
	}
}

func TestFunctionType_EqualityIsByCanonicalName(t *testing.T) {
	a := NewFunctionType([]Type{NewObjectType("int")}, []Type{NewObjectType("error")})
	b := NewFunctionType([]Type{NewObjectType("int")}, []Type{NewObjectType("error")})
	c := NewFunctionType([]Type{NewObjectType("string")}, []Type{NewObjectType("error")})

	if !a.Equal(b) {
		t.Fatalf("expected structurally identical FunctionTypes to be Equal")
	}
	if a.Equal(c) {
		t.Fatalf("expected differing parameter types to be non-Equal")
	}
}

func TestRegistry_InternsEqualTypesToOneInstance(t *testing.T) {
	reg := NewRegistry()
	a := reg.Intern(NewObjectType("m/pkg.Thing"))
	b := reg.Intern(NewObjectType("m/pkg.Thing"))

	if a != b {
		t.Fatalf("expected Intern to return the same instance for equal canonical names")
	}
	if reg.Size() != 1 {
		t.Fatalf("expected registry to hold exactly one instance, got %d", reg.Size())
	}
}

func TestRegistry_PointerAndArrayAreDistinct(t *testing.T) {
	reg := NewRegistry()
	elem := reg.Intern(NewObjectType("int"))

	ptr := reg.Intern(NewPointerType(elem, OriginPointer))
	arr := reg.Intern(NewPointerType(elem, OriginArray))

	if ptr.Equal(arr) {
		t.Fatalf("expected *T and []T to be distinct types")
	}
	if ptr.CanonicalName() != "*int" {
		t.Fatalf("got %q, want *int", ptr.CanonicalName())
	}
	if arr.CanonicalName() != "[]int" {
		t.Fatalf("got %q, want []int", arr.CanonicalName())
	}
}
