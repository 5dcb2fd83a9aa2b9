package typesys

import (
	"go/ast"
	"go/types"
	"strings"
)

// ModuleContext supplies the module path and current package name used to
// qualify a bare identifier into an FQN ("module-path/package.Name"), per
// spec §4.1.
type ModuleContext struct {
	ModulePath string
	Package    string
}

// PackageFQN returns the "module-path/package" prefix (without the trailing
// ".Name") that identifies this package's NameScope, per spec §3 invariant
// 1. Package may be empty when the current file sits at the module root.
func (m ModuleContext) PackageFQN() string {
	switch {
	case m.ModulePath == "" && m.Package == "":
		return ""
	case m.ModulePath == "":
		return m.Package
	case m.Package == "":
		return m.ModulePath
	default:
		return m.ModulePath + "/" + m.Package
	}
}

// Qualify is the exported form of qualify, used by the frontend to compute
// a Record's FQN (spec §3 invariant 1) the same way the type parser
// qualifies a bare type identifier.
func (m ModuleContext) Qualify(name string) string {
	return m.qualify(name)
}

// qualify turns a bare type name into the current package's FQN, unless it
// is already qualified (contains "." or "/") or is a built-in.
func (m ModuleContext) qualify(name string) string {
	if name == "" || IsBuiltin(name) {
		return name
	}
	if strings.ContainsAny(name, "./") {
		return name
	}
	prefix := m.PackageFQN()
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

// ParseString parses a textual type expression per the grammar
//
//	T ::= id | *T | []T | map[T]T | chan T |
//	      func(T,...) | func(T,...) T | func(T,...) (T,...)
//
// and returns an interned Type. Unresolvable input yields UnknownType,
// never an error — type-parsing failure is non-fatal per spec §7.
func ParseString(reg *Registry, s string, mod ModuleContext) Type {
	s = strings.TrimSpace(s)
	t, rest := parseTypeExpr(reg, s, mod)
	if t == nil || strings.TrimSpace(rest) != "" {
		return reg.Intern(reg.Unknown())
	}
	return reg.Intern(t)
}

func parseTypeExpr(reg *Registry, s string, mod ModuleContext) (Type, string) {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, "*"):
		elem, rest := parseTypeExpr(reg, s[1:], mod)
		if elem == nil {
			return nil, s
		}
		return NewPointerType(reg.Intern(elem), OriginPointer), rest

	case strings.HasPrefix(s, "[]"):
		elem, rest := parseTypeExpr(reg, s[2:], mod)
		if elem == nil {
			return nil, s
		}
		return NewPointerType(reg.Intern(elem), OriginArray), rest

	case strings.HasPrefix(s, "map["):
		inner, rest, ok := takeBracketed(s[4:])
		if !ok {
			return nil, s
		}
		key, krest := parseTypeExpr(reg, inner, mod)
		if key == nil || strings.TrimSpace(krest) != "" {
			return nil, s
		}
		val, vrest := parseTypeExpr(reg, rest, mod)
		if val == nil {
			return nil, s
		}
		mt := NewObjectType("map", reg.Intern(key), reg.Intern(val))
		return mt, vrest

	case strings.HasPrefix(s, "chan"):
		rest := strings.TrimSpace(s[len("chan"):])
		elem, rest2 := parseTypeExpr(reg, rest, mod)
		if elem == nil {
			return nil, s
		}
		return NewObjectType("chan", reg.Intern(elem)), rest2

	case strings.HasPrefix(s, "func("):
		return parseFuncTypeExpr(reg, s, mod)
	}

	return parseIdentExpr(s, mod)
}

// parseIdentExpr consumes a leading identifier (possibly dotted/slashed FQN)
// and returns the remainder of the string.
func parseIdentExpr(s string, mod ModuleContext) (Type, string) {
	i := 0
	for i < len(s) && isIdentRune(s[i]) {
		i++
	}
	if i == 0 {
		return nil, s
	}
	name := s[:i]
	return NewObjectType(mod.qualify(name)), s[i:]
}

func isIdentRune(b byte) bool {
	return b == '.' || b == '/' || b == '_' ||
		(b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// takeBracketed consumes up to the matching ']' for a "map[" that has
// already had its "map[" prefix stripped down to the content start, and
// returns the bracket's contents plus the remainder after ']'.
func takeBracketed(s string) (inner string, rest string, ok bool) {
	depth := 1
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return s[:i], s[i+1:], true
			}
		}
	}
	return "", s, false
}

func parseFuncTypeExpr(reg *Registry, s string, mod ModuleContext) (Type, string) {
	s = s[len("func("):]
	params, rest, ok := splitParenList(s)
	if !ok {
		return nil, s
	}

	var paramTypes []Type
	for _, p := range splitTopLevelCommas(params) {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		pt, pr := parseTypeExpr(reg, p, mod)
		if pt == nil || strings.TrimSpace(pr) != "" {
			return nil, s
		}
		paramTypes = append(paramTypes, reg.Intern(pt))
	}

	rest = strings.TrimSpace(rest)
	var returnTypes []Type
	switch {
	case strings.HasPrefix(rest, "("):
		rets, rest2, ok := splitParenList(rest[1:])
		if !ok {
			return nil, s
		}
		for _, r := range splitTopLevelCommas(rets) {
			r = strings.TrimSpace(r)
			if r == "" {
				continue
			}
			rt, rr := parseTypeExpr(reg, r, mod)
			if rt == nil || strings.TrimSpace(rr) != "" {
				return nil, s
			}
			returnTypes = append(returnTypes, reg.Intern(rt))
		}
		rest = rest2
	case rest != "":
		rt, rr := parseTypeExpr(reg, rest, mod)
		if rt != nil {
			returnTypes = append(returnTypes, reg.Intern(rt))
			rest = rr
		}
	}

	return NewFunctionType(paramTypes, returnTypes), rest
}

// splitParenList consumes up to the matching ')' (the opening '(' having
// already been consumed by the caller) and returns its contents plus the
// remainder.
func splitParenList(s string) (inner string, rest string, ok bool) {
	depth := 1
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return s[:i], s[i+1:], true
			}
		}
	}
	return "", s, false
}

func splitTopLevelCommas(s string) []string {
	var out []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, s[start:i])
				start = i + 1
			}
		}
	}
	out = append(out, s[start:])
	return out
}

// ParseASTExpr parses a Go AST type expression (e.g. from a field type,
// parameter type, or make()/new() argument) into an interned Type. Grounded
// on original_source/cpg-language-go/frontend/handler.go's handleType,
// which switches on the same *ast.Ident/*ast.SelectorExpr/*ast.StarExpr/
// *ast.ArrayType/*ast.MapType/*ast.ChanType/*ast.FuncType cases.
func ParseASTExpr(reg *Registry, expr ast.Expr, mod ModuleContext) Type {
	t := parseASTExpr(reg, expr, mod)
	return reg.Intern(t)
}

func parseASTExpr(reg *Registry, expr ast.Expr, mod ModuleContext) Type {
	switch v := expr.(type) {
	case *ast.Ident:
		return NewObjectType(mod.qualify(v.Name))
	case *ast.SelectorExpr:
		pkg, ok := v.X.(*ast.Ident)
		if !ok {
			return reg.Unknown()
		}
		return NewObjectType(pkg.Name + "." + v.Sel.Name)
	case *ast.StarExpr:
		return NewPointerType(reg.Intern(parseASTExpr(reg, v.X, mod)), OriginPointer)
	case *ast.ArrayType:
		return NewPointerType(reg.Intern(parseASTExpr(reg, v.Elt, mod)), OriginArray)
	case *ast.MapType:
		key := reg.Intern(parseASTExpr(reg, v.Key, mod))
		val := reg.Intern(parseASTExpr(reg, v.Value, mod))
		return NewObjectType("map", key, val)
	case *ast.ChanType:
		elem := reg.Intern(parseASTExpr(reg, v.Value, mod))
		return NewObjectType("chan", elem)
	case *ast.Ellipsis:
		return NewPointerType(reg.Intern(parseASTExpr(reg, v.Elt, mod)), OriginArray)
	case *ast.FuncType:
		params := fieldListTypes(reg, v.Params, mod)
		var returns []Type
		if v.Results != nil {
			returns = fieldListTypes(reg, v.Results, mod)
		}
		return NewFunctionType(params, returns)
	case *ast.InterfaceType:
		return NewObjectType(mod.qualify("interface{}"))
	case *ast.IndexExpr:
		// a generic instantiation, e.g. Set[int]
		base := parseASTExpr(reg, v.X, mod)
		arg := reg.Intern(parseASTExpr(reg, v.Index, mod))
		if ot, ok := base.(*ObjectType); ok {
			return NewObjectType(ot.TypeName(), arg)
		}
		return base
	case *ast.IndexListExpr:
		base := parseASTExpr(reg, v.X, mod)
		ot, ok := base.(*ObjectType)
		if !ok {
			return base
		}
		generics := make([]Type, 0, len(v.Indices))
		for _, idx := range v.Indices {
			generics = append(generics, reg.Intern(parseASTExpr(reg, idx, mod)))
		}
		return NewObjectType(ot.TypeName(), generics...)
	}
	return reg.Unknown()
}

func fieldListTypes(reg *Registry, list *ast.FieldList, mod ModuleContext) []Type {
	if list == nil {
		return nil
	}
	var out []Type
	for _, field := range list.List {
		t := reg.Intern(parseASTExpr(reg, field.Type, mod))
		n := len(field.Names)
		if n == 0 {
			n = 1
		}
		for i := 0; i < n; i++ {
			out = append(out, t)
		}
	}
	return out
}

// ParseGoType parses a go/types.Type (from the type-checker oracle) into an
// interned Type. Grounded on handleTypingType in the same original
// reference file, which switches on *types.Named/Interface/Struct,
// *types.Pointer, *types.Array/Slice, *types.Map, *types.Chan,
// *types.Basic and *types.Signature.
func ParseGoType(reg *Registry, t types.Type) Type {
	return reg.Intern(parseGoType(reg, t))
}

func parseGoType(reg *Registry, t types.Type) Type {
	switch v := t.(type) {
	case *types.Named, *types.Interface, *types.Struct:
		return NewObjectType(t.String())
	case *types.Pointer:
		return NewPointerType(reg.Intern(parseGoType(reg, v.Elem())), OriginPointer)
	case *types.Array:
		return NewPointerType(reg.Intern(parseGoType(reg, v.Elem())), OriginArray)
	case *types.Slice:
		return NewPointerType(reg.Intern(parseGoType(reg, v.Elem())), OriginArray)
	case *types.Map:
		key := reg.Intern(parseGoType(reg, v.Key()))
		val := reg.Intern(parseGoType(reg, v.Elem()))
		return NewObjectType("map", key, val)
	case *types.Chan:
		elem := reg.Intern(parseGoType(reg, v.Elem()))
		return NewObjectType("chan", elem)
	case *types.Basic:
		return NewObjectType(v.String())
	case *types.Signature:
		params := make([]Type, v.Params().Len())
		for i := range params {
			params[i] = reg.Intern(parseGoType(reg, v.Params().At(i).Type()))
		}
		returns := make([]Type, v.Results().Len())
		for i := range returns {
			returns[i] = reg.Intern(parseGoType(reg, v.Results().At(i).Type()))
		}
		return NewFunctionType(params, returns)
	}
	return reg.Unknown()
}
