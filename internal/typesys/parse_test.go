package typesys

import "testing"

func TestParseString_Grammar(t *testing.T) {
	mod := ModuleContext{ModulePath: "example.com/m", Package: "pkg"}

	cases := []struct {
		input string
		want  string
	}{
		{"int", "int"},
		{"error", "error"},
		{"Widget", "example.com/m/pkg.Widget"},
		{"*Widget", "*example.com/m/pkg.Widget"},
		{"[]int", "[]int"},
		{"map[string]int", "map[string]int"},
		{"chan int", "chan int"},
		{"func()", "func()"},
		{"func(int) error", "func(int) error"},
		{"func(int, string) (int, error)", "func(int, string) (int, error)"},
		{"**int", "**int"},
		{"[]*Widget", "[]*example.com/m/pkg.Widget"},
	}

	reg := NewRegistry()
	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			got := ParseString(reg, tc.input, mod)
			if got.CanonicalName() != tc.want {
				t.Fatalf("ParseString(%q) = %q, want %q", tc.input, got.CanonicalName(), tc.want)
			}
		})
	}
}

func TestParseString_UnresolvableYieldsUnknown(t *testing.T) {
	reg := NewRegistry()
	mod := ModuleContext{ModulePath: "example.com/m", Package: "pkg"}

	got := ParseString(reg, "map[int]", mod)
	if _, ok := got.(UnknownType); !ok {
		t.Fatalf("expected UnknownType for malformed input, got %T", got)
	}
}

// TestParseString_IdempotentUnderRender exercises spec's property test:
// parse(render(parse(s))) == parse(s), for every grammar form.
func TestParseString_IdempotentUnderRender(t *testing.T) {
	mod := ModuleContext{ModulePath: "example.com/m", Package: "pkg"}

	inputs := []string{
		"int",
		"Widget",
		"*Widget",
		"[]int",
		"[]*Widget",
		"map[string]int",
		"map[string][]int",
		"chan int",
		"chan *Widget",
		"func()",
		"func(int) error",
		"func(int, string) (int, error)",
		"func(func(int) int) string",
	}

	for _, s := range inputs {
		t.Run(s, func(t *testing.T) {
			reg := NewRegistry()
			first := ParseString(reg, s, mod)
			rendered := first.CanonicalName()
			second := ParseString(reg, rendered, mod)

			if !first.Equal(second) {
				t.Fatalf("parse(render(parse(%q))) = %q, want %q", s, second.CanonicalName(), first.CanonicalName())
			}
		})
	}
}

func TestSignaturesEqual(t *testing.T) {
	reg := NewRegistry()
	mod := ModuleContext{Package: "pkg"}

	a := []Type{ParseString(reg, "int", mod), ParseString(reg, "error", mod)}
	b := []Type{ParseString(reg, "int", mod), ParseString(reg, "error", mod)}
	c := []Type{ParseString(reg, "int", mod)}

	if !SignaturesEqual(a, b) {
		t.Fatalf("expected identical signatures to be equal")
	}
	if SignaturesEqual(a, c) {
		t.Fatalf("expected differing-length signatures to be unequal")
	}
}
