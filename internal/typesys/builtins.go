package typesys

// builtins is the set of bare identifiers that resolve to a built-in
// ObjectType rather than being qualified against the current package,
// per spec §4.1.
var builtins = map[string]bool{
	"bool": true, "byte": true, "int": true, "int8": true, "int16": true,
	"int32": true, "int64": true, "uint": true, "uint8": true, "uint16": true,
	"uint32": true, "uint64": true, "float32": true, "float64": true,
	"complex64": true, "complex128": true, "rune": true, "string": true,
	"uintptr": true, "error": true, "any": true,
}

// IsBuiltin reports whether name is one of the language's built-in type
// identifiers.
func IsBuiltin(name string) bool {
	return builtins[name]
}
