package frontend

import (
	"go/ast"
	"go/token"
	"strconv"

	"github.com/cpgo/cpgo/internal/graph"
	"github.com/cpgo/cpgo/internal/scope"
	"github.com/cpgo/cpgo/internal/typesys"
)

// handleExpr dispatches one expression node. Grounded on handleExpr in the
// original frontend, which switches on the same *ast.Ident/*ast.BasicLit/
// *ast.CallExpr/*ast.BinaryExpr/... cases.
func (f *Frontend) handleExpr(fc *fileContext, expr ast.Expr) graph.Expression {
	if expr == nil {
		return nil
	}
	switch v := expr.(type) {
	case *ast.Ident:
		return f.handleIdent(fc, v)
	case *ast.BasicLit:
		return f.handleBasicLit(fc, v)
	case *ast.CallExpr:
		return f.handleCallExpr(fc, v)
	case *ast.BinaryExpr:
		return f.handleBinaryExpr(fc, v)
	case *ast.UnaryExpr:
		return f.handleUnaryExpr(fc, v)
	case *ast.StarExpr:
		return f.handleStarExpr(fc, v)
	case *ast.SelectorExpr:
		return f.handleSelectorExpr(fc, v)
	case *ast.IndexExpr:
		return f.handleIndexExpr(fc, v)
	case *ast.KeyValueExpr:
		return f.handleKeyValueExpr(fc, v)
	case *ast.CompositeLit:
		return f.handleCompositeLit(fc, v)
	case *ast.TypeAssertExpr:
		return f.handleTypeAssertExpr(fc, v)
	case *ast.FuncLit:
		return f.handleFuncLit(fc, v)
	case *ast.ParenExpr:
		return f.handleExpr(fc, v.X)
	case *ast.SliceExpr:
		return f.handleSliceExpr(fc, v)
	}

	lit := &graph.Literal{Header: graph.Header{ID: f.newID(fc, graph.KindLiteral, "<unsupported>", expr.Pos()), Kind: graph.KindLiteral}}
	lit.Type = f.Types.Unknown()
	f.Diag.Warnf("frontend", fc.Path, "unsupported expression kind %T", expr)
	return lit
}

func (f *Frontend) handleIdent(fc *fileContext, id *ast.Ident) graph.Expression {
	if id.Name == "nil" || id.Name == "true" || id.Name == "false" {
		lit := &graph.Literal{Header: graph.Header{ID: f.newID(fc, graph.KindLiteral, id.Name, id.Pos()), Name: id.Name, Kind: graph.KindLiteral}, Value: id.Name}
		lit.Type = f.Types.Unknown()
		return lit
	}

	ref := &graph.DeclaredReference{
		Header: graph.Header{ID: f.newID(fc, graph.KindDeclaredReference, id.Name, id.Pos()), Name: id.Name, Kind: graph.KindDeclaredReference},
		FQN:    id.Name,
	}
	if t := f.typeOf(fc, id); t != nil {
		ref.Type = t
	} else {
		ref.Type = f.Types.Unknown()
	}

	if decl, ok := f.Scopes.ResolveReference(id.Name, ref.Type, f.Scopes.Current()); ok {
		ref.RefersToID = decl.Head().ID
	}
	return ref
}

func (f *Frontend) handleBasicLit(fc *fileContext, lit *ast.BasicLit) graph.Expression {
	l := &graph.Literal{Header: graph.Header{ID: f.newID(fc, graph.KindLiteral, lit.Value, lit.Pos()), Kind: graph.KindLiteral}}
	switch lit.Kind {
	case token.INT:
		l.Value = lit.Value
		l.Type = f.Types.Intern(typesys.NewObjectType("int"))
	case token.FLOAT:
		l.Value = lit.Value
		l.Type = f.Types.Intern(typesys.NewObjectType("float64"))
	case token.STRING:
		unquoted, err := strconv.Unquote(lit.Value)
		if err != nil {
			unquoted = lit.Value
		}
		l.Value = unquoted
		l.Type = f.Types.Intern(typesys.NewObjectType("string"))
	case token.CHAR:
		l.Value = lit.Value
		l.Type = f.Types.Intern(typesys.NewObjectType("rune"))
	default:
		l.Value = lit.Value
		l.Type = f.Types.Unknown()
	}
	return l
}

// handleCallExpr special-cases `new(T)` and `make(T, ...)`, lowers a
// selector-callee into a MemberCall, and otherwise produces a plain Call.
// Grounded on handleCallExpr in the original frontend.
func (f *Frontend) handleCallExpr(fc *fileContext, call *ast.CallExpr) graph.Expression {
	if id, ok := call.Fun.(*ast.Ident); ok {
		switch id.Name {
		case "new":
			if len(call.Args) == 1 {
				return f.handleNewExpr(fc, call)
			}
		case "make":
			if len(call.Args) >= 1 {
				return f.handleMakeExpr(fc, call)
			}
		}
	}

	if sel, ok := call.Fun.(*ast.SelectorExpr); ok {
		if pkg, ok := sel.X.(*ast.Ident); ok && f.isImportName(fc, pkg.Name) {
			c := &graph.Call{
				Header: graph.Header{ID: f.newID(fc, graph.KindCall, sel.Sel.Name, call.Pos()), Name: sel.Sel.Name, Kind: graph.KindCall},
				FQN:    fc.importsByName[pkg.Name] + "." + sel.Sel.Name,
			}
			c.Callee = f.handleExpr(fc, sel)
			c.Arguments = f.handleExprList(fc, call.Args)
			if t := f.typeOf(fc, call); t != nil {
				c.Type = t
			} else {
				c.Type = f.Types.Unknown()
			}
			return c
		}

		mc := &graph.MemberCall{
			Header: graph.Header{ID: f.newID(fc, graph.KindMemberCall, sel.Sel.Name, call.Pos()), Name: sel.Sel.Name, Kind: graph.KindMemberCall},
			Base:   f.handleExpr(fc, sel.X),
			Name:   sel.Sel.Name,
		}
		mc.Arguments = f.handleExprList(fc, call.Args)
		if t := f.typeOf(fc, call); t != nil {
			mc.Type = t
		} else {
			mc.Type = f.Types.Unknown()
		}
		return mc
	}

	name := ""
	if id, ok := call.Fun.(*ast.Ident); ok {
		name = id.Name
	}
	c := &graph.Call{
		Header: graph.Header{ID: f.newID(fc, graph.KindCall, name, call.Pos()), Name: name, Kind: graph.KindCall},
		FQN:    fc.ModCtx.Qualify(name),
	}
	c.Callee = f.handleExpr(fc, call.Fun)
	c.Arguments = f.handleExprList(fc, call.Args)
	if t := f.typeOf(fc, call); t != nil {
		c.Type = t
	} else {
		c.Type = f.Types.Unknown()
	}
	return c
}

func (f *Frontend) handleExprList(fc *fileContext, exprs []ast.Expr) []graph.Expression {
	out := make([]graph.Expression, 0, len(exprs))
	for _, e := range exprs {
		out = append(out, f.handleExpr(fc, e))
	}
	return out
}

func (f *Frontend) isImportName(fc *fileContext, name string) bool {
	_, ok := fc.importsByName[name]
	return ok
}

// handleNewExpr lowers `new(T)` to a New expression wrapping a Construct of
// type T, per spec §4.3.
func (f *Frontend) handleNewExpr(fc *fileContext, call *ast.CallExpr) graph.Expression {
	elemType := typesys.ParseASTExpr(f.Types, call.Args[0], fc.ModCtx)
	constructID := f.newID(fc, graph.KindConstruct, "new", call.Pos())
	construct := &graph.Construct{Header: graph.Header{ID: constructID, Kind: graph.KindConstruct}}
	construct.Type = elemType

	n := &graph.New{Header: graph.Header{ID: f.newID(fc, graph.KindNew, "new", call.Pos()), Kind: graph.KindNew}, Initializer: construct}
	n.Type = f.Types.Intern(typesys.NewPointerType(elemType, typesys.OriginPointer))
	return n
}

// handleMakeExpr lowers `make([]T, n)` to ArrayCreation and `make(map[K]V)`
// / `make(chan T)` to Construct, per spec §4.3.
func (f *Frontend) handleMakeExpr(fc *fileContext, call *ast.CallExpr) graph.Expression {
	t := typesys.ParseASTExpr(f.Types, call.Args[0], fc.ModCtx)

	if _, isArray := call.Args[0].(*ast.ArrayType); isArray {
		ac := &graph.ArrayCreation{Header: graph.Header{ID: f.newID(fc, graph.KindArrayCreation, "make", call.Pos()), Kind: graph.KindArrayCreation}}
		ac.Type = t
		ac.Dimensions = f.handleExprList(fc, call.Args[1:])
		return ac
	}

	c := &graph.Construct{Header: graph.Header{ID: f.newID(fc, graph.KindConstruct, "make", call.Pos()), Kind: graph.KindConstruct}}
	c.Type = t
	c.Arguments = f.handleExprList(fc, call.Args[1:])
	return c
}

func (f *Frontend) handleBinaryExpr(fc *fileContext, be *ast.BinaryExpr) graph.Expression {
	b := &graph.Binary{
		Header: graph.Header{ID: f.newID(fc, graph.KindBinary, be.Op.String(), be.Pos()), Kind: graph.KindBinary},
		Op:     be.Op.String(),
		LHS:    f.handleExpr(fc, be.X),
		RHS:    f.handleExpr(fc, be.Y),
	}
	if t := f.typeOf(fc, be); t != nil {
		b.Type = t
	} else {
		b.Type = b.LHS.Typ().Type
	}
	return b
}

func (f *Frontend) handleUnaryExpr(fc *fileContext, ue *ast.UnaryExpr) graph.Expression {
	u := &graph.Unary{
		Header: graph.Header{ID: f.newID(fc, graph.KindUnary, ue.Op.String(), ue.Pos()), Kind: graph.KindUnary},
		Op:     ue.Op.String(),
		Input:  f.handleExpr(fc, ue.X),
	}
	if ue.Op == token.AND {
		u.Type = f.Types.Intern(typesys.NewPointerType(u.Input.Typ().Type, typesys.OriginPointer))
	} else {
		u.Type = u.Input.Typ().Type
	}
	return u
}

// handleStarExpr lowers `*p` (a pointer dereference in expression position)
// to a Unary with Op "*". Used in type position it is handled instead by
// typesys.ParseASTExpr.
func (f *Frontend) handleStarExpr(fc *fileContext, se *ast.StarExpr) graph.Expression {
	u := &graph.Unary{
		Header: graph.Header{ID: f.newID(fc, graph.KindUnary, "*", se.Pos()), Kind: graph.KindUnary},
		Op:     "*",
		Input:  f.handleExpr(fc, se.X),
	}
	if pt, ok := u.Input.Typ().Type.(*typesys.PointerType); ok {
		u.Type = pt.Element
	} else {
		u.Type = f.Types.Unknown()
	}
	return u
}

// handleSelectorExpr tells an import-qualified reference (`pkg.Name`) from
// a genuine member access (`x.Field`): the former becomes a
// DeclaredReference with an FQN, the latter a Member. Grounded on
// handleSelectorExpr / procesIdentResolveImports in the original frontend.
func (f *Frontend) handleSelectorExpr(fc *fileContext, sel *ast.SelectorExpr) graph.Expression {
	if pkg, ok := sel.X.(*ast.Ident); ok && f.isImportName(fc, pkg.Name) {
		fqn := fc.importsByName[pkg.Name] + "." + sel.Sel.Name
		ref := &graph.DeclaredReference{
			Header: graph.Header{ID: f.newID(fc, graph.KindDeclaredReference, sel.Sel.Name, sel.Pos()), Name: sel.Sel.Name, Kind: graph.KindDeclaredReference},
			FQN:    fqn,
		}
		if t := f.typeOf(fc, sel); t != nil {
			ref.Type = t
		} else {
			ref.Type = f.Types.Unknown()
		}
		return ref
	}

	m := &graph.Member{
		Header: graph.Header{ID: f.newID(fc, graph.KindMember, sel.Sel.Name, sel.Pos()), Name: sel.Sel.Name, Kind: graph.KindMember},
		Base:   f.handleExpr(fc, sel.X),
		Name:   sel.Sel.Name,
	}
	if t := f.typeOf(fc, sel); t != nil {
		m.Type = t
	} else {
		m.Type = f.Types.Unknown()
	}
	return m
}

// handleIndexExpr lowers `a[i]` to a Binary with Op "[]", per this module's
// array-indexing redesign (no dedicated subscript node variant - see
// DESIGN.md).
func (f *Frontend) handleIndexExpr(fc *fileContext, ie *ast.IndexExpr) graph.Expression {
	b := &graph.Binary{
		Header: graph.Header{ID: f.newID(fc, graph.KindBinary, "[]", ie.Pos()), Kind: graph.KindBinary},
		Op:     "[]",
		LHS:    f.handleExpr(fc, ie.X),
		RHS:    f.handleExpr(fc, ie.Index),
	}
	if t := f.typeOf(fc, ie); t != nil {
		b.Type = t
	} else if pt, ok := b.LHS.Typ().Type.(*typesys.PointerType); ok {
		b.Type = pt.Element
	} else {
		b.Type = f.Types.Unknown()
	}
	return b
}

// handleSliceExpr lowers `a[lo:hi]` to a Binary with Op "[:]" whose RHS is a
// Tuple of the present bound expressions; the result keeps a's own type.
func (f *Frontend) handleSliceExpr(fc *fileContext, se *ast.SliceExpr) graph.Expression {
	var bounds []graph.Expression
	if se.Low != nil {
		bounds = append(bounds, f.handleExpr(fc, se.Low))
	}
	if se.High != nil {
		bounds = append(bounds, f.handleExpr(fc, se.High))
	}
	if se.Max != nil {
		bounds = append(bounds, f.handleExpr(fc, se.Max))
	}
	tup := &graph.Tuple{Header: graph.Header{ID: f.newID(fc, graph.KindTuple, "[:]", se.Pos()), Kind: graph.KindTuple}, Elements: bounds}
	tup.Type = f.Types.Unknown()

	b := &graph.Binary{
		Header: graph.Header{ID: f.newID(fc, graph.KindBinary, "[:]", se.Pos()), Kind: graph.KindBinary},
		Op:     "[:]",
		LHS:    f.handleExpr(fc, se.X),
		RHS:    tup,
	}
	b.Type = b.LHS.Typ().Type
	return b
}

func (f *Frontend) handleKeyValueExpr(fc *fileContext, kv *ast.KeyValueExpr) graph.Expression {
	var key graph.Expression
	// An identifier key inside a composite literal names a field, not a
	// value reference; treat it as a string literal (spec §4.3).
	if id, ok := kv.Key.(*ast.Ident); ok {
		lit := &graph.Literal{Header: graph.Header{ID: f.newID(fc, graph.KindLiteral, id.Name, id.Pos()), Kind: graph.KindLiteral}, Value: id.Name}
		lit.Type = f.Types.Intern(typesys.NewObjectType("string"))
		key = lit
	} else {
		key = f.handleExpr(fc, kv.Key)
	}

	node := &graph.KeyValue{
		Header: graph.Header{ID: f.newID(fc, graph.KindKeyValue, "", kv.Pos()), Kind: graph.KindKeyValue},
		Key:    key,
		Value:  f.handleExpr(fc, kv.Value),
	}
	node.Type = node.Value.Typ().Type
	return node
}

// handleCompositeLit wraps the element list in an InitializerList, itself
// wrapped in a Construct carrying the literal's static type, per spec
// §4.3's composite-literal lowering.
func (f *Frontend) handleCompositeLit(fc *fileContext, cl *ast.CompositeLit) graph.Expression {
	var t typesys.Type
	if cl.Type != nil {
		t = typesys.ParseASTExpr(f.Types, cl.Type, fc.ModCtx)
	} else if got := f.typeOf(fc, cl); got != nil {
		t = got
	} else {
		t = f.Types.Unknown()
	}

	il := &graph.InitializerList{Header: graph.Header{ID: f.newID(fc, graph.KindInitializerList, "", cl.Pos()), Kind: graph.KindInitializerList}}
	il.Type = t
	for _, elt := range cl.Elts {
		il.Initializers = append(il.Initializers, f.handleExpr(fc, elt))
	}

	c := &graph.Construct{Header: graph.Header{ID: f.newID(fc, graph.KindConstruct, "", cl.Pos()), Kind: graph.KindConstruct}}
	c.Type = t
	c.Arguments = []graph.Expression{il}
	return c
}

// handleTypeAssertExpr lowers `x.(T)` to a Cast (this module has no
// separate TypeAssert node variant; see graph.Cast's doc comment).
func (f *Frontend) handleTypeAssertExpr(fc *fileContext, ta *ast.TypeAssertExpr) graph.Expression {
	var castType typesys.Type
	if ta.Type != nil {
		castType = typesys.ParseASTExpr(f.Types, ta.Type, fc.ModCtx)
	} else {
		castType = f.Types.Unknown()
	}
	c := &graph.Cast{
		Header:   graph.Header{ID: f.newID(fc, graph.KindCast, "", ta.Pos()), Kind: graph.KindCast},
		CastType: castType,
		Inner:    f.handleExpr(fc, ta.X),
	}
	c.Type = castType
	return c
}

// handleFuncLit wraps an anonymous Function literal in a Lambda so it can
// appear in expression position, per spec §4.3.
func (f *Frontend) handleFuncLit(fc *fileContext, fl *ast.FuncLit) graph.Expression {
	fn := &graph.Function{Header: graph.Header{ID: f.newID(fc, graph.KindFunction, "", fl.Pos()), Kind: graph.KindFunction}}
	f.Scopes.EnterScope(fn, scope.KindFunction, "")
	f.addFuncTypeData(fc, fn, fl.Type)
	fn.Body = f.handleBlockStmt(fc, fl.Body)
	f.Scopes.LeaveScope(fn)

	l := &graph.Lambda{Header: graph.Header{ID: f.newID(fc, graph.KindLambda, "", fl.Pos()), Kind: graph.KindLambda}, Function: fn}
	l.Type = fn.FuncType
	return l
}
