package frontend

import (
	"go/ast"
	"go/token"

	"github.com/cpgo/cpgo/internal/graph"
	"github.com/cpgo/cpgo/internal/scope"
	"github.com/cpgo/cpgo/internal/typesys"
)

// handleTypeSpec dispatches a top-level type declaration to the struct,
// interface or alias handler. Grounded on handleTypeSpec in the original
// frontend.
func (f *Frontend) handleTypeSpec(fc *fileContext, ts *ast.TypeSpec) *graph.Record {
	fqn := fc.ModCtx.Qualify(ts.Name.Name)

	switch t := ts.Type.(type) {
	case *ast.StructType:
		return f.handleStructTypeSpec(fc, ts, fqn, t)
	case *ast.InterfaceType:
		return f.handleInterfaceTypeSpec(fc, ts, fqn, t)
	default:
		return f.handleTypeAlias(fc, ts, fqn)
	}
}

func (f *Frontend) recordGenerics(fc *fileContext, typeParams *ast.FieldList) []typesys.Type {
	if typeParams == nil {
		return nil
	}
	var out []typesys.Type
	for _, field := range typeParams.List {
		for _, nameIdent := range field.Names {
			out = append(out, f.Types.Intern(typesys.NewObjectType(nameIdent.Name)))
		}
	}
	return out
}

// handleStructTypeSpec builds a Record of kind struct, one Field per struct
// member (a nameless member, e.g. `Base`, is an embedded field - spec §8
// scenario 2). Grounded on handleStructTypeSpec in the original frontend.
func (f *Frontend) handleStructTypeSpec(fc *fileContext, ts *ast.TypeSpec, fqn string, st *ast.StructType) *graph.Record {
	r := &graph.Record{
		Header: graph.Header{
			ID:   f.newID(fc, graph.KindRecord, fqn, ts.Pos()),
			Name: fqn,
			Kind: graph.KindRecord,
		},
		RecordKind: graph.RecordStruct,
		Generics:   f.recordGenerics(fc, ts.TypeParams),
	}

	f.Scopes.EnterScope(r, scope.KindRecord, "")
	if st.Fields != nil {
		for _, field := range st.Fields.List {
			t := typesys.ParseASTExpr(f.Types, field.Type, fc.ModCtx)
			if len(field.Names) == 0 {
				fd := f.newField(fc, embeddedFieldName(field.Type), field.Pos(), t, true)
				r.Fields = append(r.Fields, fd)
				if ot, ok := t.(*typesys.ObjectType); ok {
					r.SuperClasses = append(r.SuperClasses, ot)
				}
				continue
			}
			for _, nameIdent := range field.Names {
				fd := f.newField(fc, nameIdent.Name, nameIdent.Pos(), t, false)
				r.Fields = append(r.Fields, fd)
			}
		}
	}
	f.Scopes.LeaveScope(r)

	return r
}

func (f *Frontend) newField(fc *fileContext, name string, pos token.Pos, t typesys.Type, embedded bool) *graph.Field {
	fd := &graph.Field{
		Header:   graph.Header{ID: f.newID(fc, graph.KindField, name, pos), Name: name, Kind: graph.KindField},
		Embedded: embedded,
	}
	fd.Type = t
	return fd
}

// embeddedFieldName derives the field's implicit name from its type
// expression (the unqualified type name, per Go's embedding rule).
func embeddedFieldName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return embeddedFieldName(t.X)
	case *ast.SelectorExpr:
		return t.Sel.Name
	case *ast.IndexExpr:
		return embeddedFieldName(t.X)
	}
	return ""
}

// handleInterfaceTypeSpec builds a Record of kind interface: every named
// method becomes a Method with no Body, and every embedded interface
// contributes to SuperClasses (spec §8 scenario 2), resolved to a concrete
// SuperTypeDeclarations entry in resolver Pass 2 if the embedded interface
// turns out to be declared in this run. Grounded on handleInterfaceTypeSpec.
func (f *Frontend) handleInterfaceTypeSpec(fc *fileContext, ts *ast.TypeSpec, fqn string, it *ast.InterfaceType) *graph.Record {
	r := &graph.Record{
		Header: graph.Header{
			ID:   f.newID(fc, graph.KindRecord, fqn, ts.Pos()),
			Name: fqn,
			Kind: graph.KindRecord,
		},
		RecordKind: graph.RecordInterface,
		Generics:   f.recordGenerics(fc, ts.TypeParams),
	}

	if it.Methods == nil {
		return r
	}
	for _, m := range it.Methods.List {
		ft, ok := m.Type.(*ast.FuncType)
		if !ok {
			// an embedded interface: no Names, Type is the embedded type.
			t := typesys.ParseASTExpr(f.Types, m.Type, fc.ModCtx)
			r.SuperClasses = append(r.SuperClasses, t)
			continue
		}
		for _, nameIdent := range m.Names {
			method := &graph.Method{
				Function:  graph.Function{Header: graph.Header{ID: f.newID(fc, graph.KindMethod, nameIdent.Name, nameIdent.Pos()), Name: nameIdent.Name, Kind: graph.KindMethod}},
				RecordFQN: fqn,
			}
			f.addFuncTypeData(fc, &method.Function, ft)
			r.Methods = append(r.Methods, method)
		}
	}
	return r
}

// handleTypeAlias sets AliasOf directly rather than synthesizing a function
// declaration the way the original frontend's handleTypeAlias workaround
// does (see DESIGN.md).
func (f *Frontend) handleTypeAlias(fc *fileContext, ts *ast.TypeSpec, fqn string) *graph.Record {
	r := &graph.Record{
		Header: graph.Header{
			ID:   f.newID(fc, graph.KindRecord, fqn, ts.Pos()),
			Name: fqn,
			Kind: graph.KindRecord,
		},
		RecordKind: graph.RecordAlias,
		Generics:   f.recordGenerics(fc, ts.TypeParams),
		AliasOf:    typesys.ParseASTExpr(f.Types, ts.Type, fc.ModCtx),
	}
	return r
}

// handleFuncDecl handles both free functions and methods. For a method, the
// record its receiver names is located via the scope manager's structure
// lookup and the Method is registered twice: once under the Record's own
// scope, once under the Record's enclosing NameScope (spec §3 invariant 2).
// Grounded on handleFuncDecl in the original frontend.
func (f *Frontend) handleFuncDecl(fc *fileContext, fd *ast.FuncDecl) (graph.Node, bool) {
	name := fd.Name.Name

	if fd.Recv == nil || len(fd.Recv.List) == 0 {
		fn := &graph.Function{Header: graph.Header{ID: f.newID(fc, graph.KindFunction, name, fd.Pos()), Name: name, Kind: graph.KindFunction}}
		f.Scopes.EnterScope(fn, scope.KindFunction, "")
		f.addFuncTypeData(fc, fn, fd.Type)
		if fd.Body != nil {
			fn.Body = f.handleBlockStmt(fc, fd.Body)
		}
		f.Scopes.LeaveScope(fn)
		return fn, true
	}

	recv := fd.Recv.List[0]
	recvType := recv.Type
	if star, ok := recvType.(*ast.StarExpr); ok {
		recvType = star.X
	}
	recvTypeName := embeddedFieldName(recvType)
	recvType2 := typesys.ParseASTExpr(f.Types, recv.Type, fc.ModCtx)

	record, found := f.Scopes.GetRecordForName(f.Scopes.Current(), recvTypeName)
	if !found {
		f.Diag.Warnf("frontend", fc.Path, "method %s: record %s not found for receiver", name, recvTypeName)
	}

	m := &graph.Method{
		Function: graph.Function{Header: graph.Header{ID: f.newID(fc, graph.KindMethod, name, fd.Pos()), Name: name, Kind: graph.KindMethod}},
	}
	if record != nil {
		m.RecordFQN = record.Name
	}

	if record != nil {
		f.Scopes.EnterScope(record, scope.KindRecord, "")
	}
	f.Scopes.EnterScope(m, scope.KindFunction, "")

	if len(recv.Names) > 0 && recv.Names[0].Name != "_" {
		receiver := f.newParamVariable(fc, recv.Names[0].Name, recv.Pos(), recvType2, false)
		m.Receiver = receiver
		f.Scopes.AddDeclaration(receiver)
	}

	f.addFuncTypeData(fc, &m.Function, fd.Type)
	if fd.Body != nil {
		m.Body = f.handleBlockStmt(fc, fd.Body)
	}

	f.Scopes.LeaveScope(m)

	if record != nil {
		record.Methods = append(record.Methods, m)
		// spec §3 invariant 2: a Method must also be reachable as a value
		// declaration of the Record's enclosing NameScope under its simple
		// name, not only via Record.Methods.
		f.Scopes.Current().AddValue(name, m)
		if f.Scopes.Current().Parent != nil {
			f.Scopes.Current().Parent.AddValue(name, m)
		}
		f.Scopes.LeaveScope(record)
	}

	return m, false
}

func (f *Frontend) newParamVariable(fc *fileContext, name string, pos token.Pos, t typesys.Type, variadic bool) *graph.ParamVariable {
	pv := &graph.ParamVariable{
		Header:   graph.Header{ID: f.newID(fc, graph.KindParamVariable, name, pos), Name: name, Kind: graph.KindParamVariable},
		Variadic: variadic,
	}
	pv.Type = t
	return pv
}

// addFuncTypeData builds fn's Parameters, ReturnTypes and interned FuncType
// from a *ast.FuncType, and adds each named parameter/return variable to
// the current (function) scope. Grounded on addFuncTypeData in the
// original frontend.
func (f *Frontend) addFuncTypeData(fc *fileContext, fn *graph.Function, ft *ast.FuncType) {
	var paramVars []*graph.ParamVariable
	var paramTypes []typesys.Type

	if ft.Params != nil {
		for _, field := range ft.Params.List {
			_, variadic := field.Type.(*ast.Ellipsis)
			t := typesys.ParseASTExpr(f.Types, field.Type, fc.ModCtx)

			if len(field.Names) == 0 {
				pv := f.newParamVariable(fc, "", field.Pos(), t, variadic)
				paramVars = append(paramVars, pv)
				paramTypes = append(paramTypes, t)
				continue
			}
			for _, nameIdent := range field.Names {
				name := nameIdent.Name
				if name == "_" {
					name = ""
				}
				pv := f.newParamVariable(fc, name, nameIdent.Pos(), t, variadic)
				paramVars = append(paramVars, pv)
				paramTypes = append(paramTypes, t)
			}
		}
	}
	for _, pv := range paramVars {
		f.Scopes.AddDeclaration(pv)
	}

	var returnTypes []typesys.Type
	if ft.Results != nil {
		for _, field := range ft.Results.List {
			t := typesys.ParseASTExpr(f.Types, field.Type, fc.ModCtx)
			n := len(field.Names)
			if n == 0 {
				n = 1
			}
			for i := 0; i < n; i++ {
				returnTypes = append(returnTypes, t)
			}
			for _, nameIdent := range field.Names {
				v := &graph.Variable{Header: graph.Header{ID: f.newID(fc, graph.KindVariable, nameIdent.Name, nameIdent.Pos()), Name: nameIdent.Name, Kind: graph.KindVariable}}
				v.Type = t
				f.Scopes.AddDeclaration(v)
			}
		}
	}

	fn.Parameters = paramVars
	fn.ReturnTypes = returnTypes
	fn.Variadic = len(paramVars) > 0 && paramVars[len(paramVars)-1].Variadic
	fn.FuncType = f.Types.Intern(typesys.NewFunctionType(paramTypes, returnTypes))
}

// handleGenDecl handles a package-level var/const GenDecl (type GenDecls are
// filtered out by Phase A/B before this is reached). It registers every
// declared variable in the current scope and the enclosing Namespace itself,
// so the phaseB caller need not add it again.
func (f *Frontend) handleGenDecl(fc *fileContext, gd *ast.GenDecl) graph.Node {
	var last graph.Node
	for _, spec := range gd.Specs {
		vs, ok := spec.(*ast.ValueSpec)
		if !ok {
			continue
		}
		for _, v := range f.handleValueSpec(fc, gd, vs) {
			f.Scopes.AddDeclaration(v)
			if fc.Namespace != nil {
				fc.Namespace.Variables = append(fc.Namespace.Variables, v)
			}
			last = v
		}
	}
	return last
}

// handleValueSpec lowers one `var`/`const` spec into one Variable per name.
// When a single value initializes several names (`var a, b = f()`), each
// Variable's Initializer is a DestructureTuple projecting its index out of
// the shared call expression, per spec §8 scenario 4's DFG contract.
func (f *Frontend) handleValueSpec(fc *fileContext, gd *ast.GenDecl, vs *ast.ValueSpec) []*graph.Variable {
	var declaredType typesys.Type
	if vs.Type != nil {
		declaredType = typesys.ParseASTExpr(f.Types, vs.Type, fc.ModCtx)
	}

	var rhs []graph.Expression
	for _, val := range vs.Values {
		rhs = append(rhs, f.handleExpr(fc, val))
	}

	multiFromSingle := len(vs.Values) == 1 && len(vs.Names) > 1

	vars := make([]*graph.Variable, len(vs.Names))
	for i, nameIdent := range vs.Names {
		name := nameIdent.Name
		v := &graph.Variable{
			Header:  graph.Header{ID: f.newID(fc, graph.KindVariable, name, nameIdent.Pos()), Name: name, Kind: graph.KindVariable},
			IsConst: gd.Tok == token.CONST,
		}
		if declaredType != nil {
			v.Type = declaredType
		} else if t := f.typeOf(fc, nameIdent); t != nil {
			v.Type = t
		} else {
			v.Type = f.Types.Unknown()
		}

		switch {
		case multiFromSingle && len(rhs) == 1:
			dt := &graph.DestructureTuple{
				Header: graph.Header{ID: f.newID(fc, graph.KindDestructureTuple, name, nameIdent.Pos()), Kind: graph.KindDestructureTuple},
				Index:  i,
			}
			dt.Type = v.Type
			dt.RefersToID = rhs[0].Head().ID
			v.Initializer = dt
		case i < len(rhs):
			v.Initializer = rhs[i]
		}
		vars[i] = v
	}
	return vars
}

// typeOf consults the best-effort go/types oracle for e's static type,
// returning nil (not UnknownType) when no oracle answer is available so
// callers can fall back to their own AST-based guess first.
func (f *Frontend) typeOf(fc *fileContext, e ast.Expr) typesys.Type {
	if fc.Info == nil {
		return nil
	}
	tv, ok := fc.Info.Types[e]
	if !ok || tv.Type == nil {
		return nil
	}
	return typesys.ParseGoType(f.Types, tv.Type)
}
