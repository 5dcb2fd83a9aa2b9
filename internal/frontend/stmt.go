package frontend

import (
	"go/ast"
	"go/token"

	"github.com/cpgo/cpgo/internal/graph"
	"github.com/cpgo/cpgo/internal/scope"
)

// handleStmt dispatches one statement node. Grounded on handleStmt in the
// original frontend. A bare expression (an ExprStmt, or the lowered form of
// IncDecStmt/SendStmt) satisfies graph.Statement directly, since Statement
// requires only Head().
func (f *Frontend) handleStmt(fc *fileContext, stmt ast.Stmt) graph.Statement {
	if stmt == nil {
		return nil
	}
	switch v := stmt.(type) {
	case *ast.BlockStmt:
		return f.handleBlockStmt(fc, v)
	case *ast.ExprStmt:
		return f.handleExpr(fc, v.X)
	case *ast.AssignStmt:
		return f.handleAssignStmt(fc, v)
	case *ast.DeclStmt:
		return f.handleDeclStmt(fc, v)
	case *ast.IfStmt:
		return f.handleIfStmt(fc, v)
	case *ast.ForStmt:
		return f.handleForStmt(fc, v)
	case *ast.RangeStmt:
		return f.handleRangeStmt(fc, v)
	case *ast.SwitchStmt:
		return f.handleSwitchStmt(fc, v)
	case *ast.TypeSwitchStmt:
		return f.handleTypeSwitchStmt(fc, v)
	case *ast.ReturnStmt:
		return f.handleReturnStmt(fc, v)
	case *ast.BranchStmt:
		return f.handleBranchStmt(fc, v)
	case *ast.IncDecStmt:
		return f.handleIncDecStmt(fc, v)
	case *ast.LabeledStmt:
		return f.handleLabeledStmt(fc, v)
	case *ast.GoStmt:
		return f.handleExpr(fc, v.Call)
	case *ast.DeferStmt:
		return f.handleExpr(fc, v.Call)
	case *ast.SendStmt:
		return f.handleSendStmt(fc, v)
	case *ast.EmptyStmt:
		return nil
	}

	f.Diag.Warnf("frontend", fc.Path, "unsupported statement kind %T", stmt)
	return &graph.Problem{
		Header:  graph.Header{ID: f.newID(fc, graph.KindProblem, "unsupported-statement", stmt.Pos()), Kind: graph.KindProblem},
		Message: "unsupported statement",
	}
}

func (f *Frontend) handleBlockStmt(fc *fileContext, b *ast.BlockStmt) *graph.Compound {
	c := &graph.Compound{Header: graph.Header{ID: f.newID(fc, graph.KindCompound, "", b.Pos()), Kind: graph.KindCompound}}
	f.Scopes.EnterScope(c, scope.KindBlock, "")
	for _, s := range b.List {
		if stmt := f.handleStmt(fc, s); stmt != nil {
			c.Statements = append(c.Statements, stmt)
		}
	}
	f.Scopes.LeaveScope(c)
	return c
}

// handleAssignStmt lowers `:=`/`=` into either a DeclarationStatement (for
// DEFINE, wrapping one Variable per LHS name) or a Compound of per-name
// Binary "=" assignments (for plain ASSIGN) - spec §4.3's "a Compound of N
// binary assignments with the same DestructureTuple pattern." A single
// multi-valued RHS assigned to several LHS names produces one
// DestructureTuple per name sharing the same RefersTo target, per spec §8
// scenario 4. Grounded on handleAssignStmt.
func (f *Frontend) handleAssignStmt(fc *fileContext, as *ast.AssignStmt) graph.Statement {
	rhs := f.handleExprList(fc, as.Rhs)
	multiFromSingle := len(as.Rhs) == 1 && len(as.Lhs) > 1

	if as.Tok == token.DEFINE {
		ds := &graph.DeclarationStatement{Header: graph.Header{ID: f.newID(fc, graph.KindDeclStmt, "", as.Pos()), Kind: graph.KindDeclStmt}}
		for i, lhsExpr := range as.Lhs {
			id, ok := lhsExpr.(*ast.Ident)
			if !ok || id.Name == "_" {
				continue
			}
			v := &graph.Variable{Header: graph.Header{ID: f.newID(fc, graph.KindVariable, id.Name, id.Pos()), Name: id.Name, Kind: graph.KindVariable}}
			if t := f.typeOf(fc, id); t != nil {
				v.Type = t
			} else {
				v.Type = f.Types.Unknown()
			}

			switch {
			case multiFromSingle && len(rhs) == 1:
				dt := &graph.DestructureTuple{Header: graph.Header{ID: f.newID(fc, graph.KindDestructureTuple, id.Name, id.Pos()), Kind: graph.KindDestructureTuple}, Index: i}
				dt.Type = v.Type
				dt.RefersToID = rhs[0].Head().ID
				v.Initializer = dt
			case i < len(rhs):
				v.Initializer = rhs[i]
			}
			f.Scopes.AddDeclaration(v)
			ds.Declarations = append(ds.Declarations, v)
		}
		return ds
	}

	if len(as.Lhs) == 1 && len(as.Rhs) == 1 {
		return f.assignOne(fc, as.Lhs[0], rhs[0], as.Pos())
	}

	c := &graph.Compound{Header: graph.Header{ID: f.newID(fc, graph.KindCompound, "", as.Pos()), Kind: graph.KindCompound}}
	for i, lhsExpr := range as.Lhs {
		var value graph.Expression
		switch {
		case multiFromSingle && len(rhs) == 1:
			dt := &graph.DestructureTuple{Header: graph.Header{ID: f.newID(fc, graph.KindDestructureTuple, "", lhsExpr.Pos()), Kind: graph.KindDestructureTuple}, Index: i}
			dt.RefersToID = rhs[0].Head().ID
			dt.Type = f.Types.Unknown()
			value = dt
		case i < len(rhs):
			value = rhs[i]
		}
		if value != nil {
			c.Statements = append(c.Statements, f.assignOne(fc, lhsExpr, value, lhsExpr.Pos()))
		}
	}
	return c
}

func (f *Frontend) assignOne(fc *fileContext, lhsExpr ast.Expr, rhs graph.Expression, pos token.Pos) *graph.Binary {
	lhs := f.handleExpr(fc, lhsExpr)
	b := &graph.Binary{
		Header: graph.Header{ID: f.newID(fc, graph.KindBinary, "=", pos), Kind: graph.KindBinary},
		Op:     "=",
		LHS:    lhs,
		RHS:    rhs,
	}
	b.Type = lhs.Typ().Type
	graph.AddDFGEdge(f.Graph, rhs, lhs)
	return b
}

// handleDeclStmt lowers an inline `var`/`const` group appearing as a
// statement. Grounded on handleDeclStmt.
func (f *Frontend) handleDeclStmt(fc *fileContext, ds *ast.DeclStmt) graph.Statement {
	gd, ok := ds.Decl.(*ast.GenDecl)
	if !ok {
		return nil
	}
	out := &graph.DeclarationStatement{Header: graph.Header{ID: f.newID(fc, graph.KindDeclStmt, "", ds.Pos()), Kind: graph.KindDeclStmt}}
	for _, spec := range gd.Specs {
		vs, ok := spec.(*ast.ValueSpec)
		if !ok {
			continue
		}
		for _, v := range f.handleValueSpec(fc, gd, vs) {
			f.Scopes.AddDeclaration(v)
			out.Declarations = append(out.Declarations, v)
		}
	}
	return out
}

func (f *Frontend) handleIfStmt(fc *fileContext, is *ast.IfStmt) graph.Statement {
	c := &graph.Compound{Header: graph.Header{ID: f.newID(fc, graph.KindCompound, "", is.Pos()), Kind: graph.KindCompound}}
	f.Scopes.EnterScope(c, scope.KindBlock, "")
	defer f.Scopes.LeaveScope(c)

	ifNode := &graph.If{Header: graph.Header{ID: f.newID(fc, graph.KindIf, "", is.Pos()), Kind: graph.KindIf}}
	if is.Init != nil {
		// fold the init statement's declarations into this if's own block
		// scope rather than representing it as a separate node; the init
		// statement's effect is captured via its Variable declarations.
		f.handleStmt(fc, is.Init)
	}
	ifNode.Condition = f.handleExpr(fc, is.Cond)
	ifNode.Then = f.handleStmt(fc, is.Body)
	if is.Else != nil {
		ifNode.Else = f.handleStmt(fc, is.Else)
	}
	return ifNode
}

func (f *Frontend) handleForStmt(fc *fileContext, fs *ast.ForStmt) graph.Statement {
	loop := &graph.For{Header: graph.Header{ID: f.newID(fc, graph.KindFor, "", fs.Pos()), Kind: graph.KindFor}}
	f.Scopes.EnterScope(loop, scope.KindLoop, "")
	defer f.Scopes.LeaveScope(loop)

	if fs.Init != nil {
		loop.Init = f.handleStmt(fc, fs.Init)
	}
	if fs.Cond != nil {
		loop.Condition = f.handleExpr(fc, fs.Cond)
	}
	if fs.Post != nil {
		loop.Post = f.handleStmt(fc, fs.Post)
	}
	loop.Body = f.handleStmt(fc, fs.Body)
	return loop
}

// handleRangeStmt lowers `for k, v := range it` to a ForEach whose Variable
// is a DeclarationStatement of the key/value Variables (DEFINE) or a
// Binary "=" reassignment (ASSIGN), per spec §4.3's for-range contract.
// Grounded on handleRangeStmnt in the original frontend.
func (f *Frontend) handleRangeStmt(fc *fileContext, rs *ast.RangeStmt) graph.Statement {
	fe := &graph.ForEach{Header: graph.Header{ID: f.newID(fc, graph.KindForEach, "", rs.Pos()), Kind: graph.KindForEach}}
	f.Scopes.EnterScope(fe, scope.KindLoop, "")
	defer f.Scopes.LeaveScope(fe)

	fe.Iterable = f.handleExpr(fc, rs.X)

	if rs.Tok == token.DEFINE {
		ds := &graph.DeclarationStatement{Header: graph.Header{ID: f.newID(fc, graph.KindDeclStmt, "", rs.Pos()), Kind: graph.KindDeclStmt}}
		for _, e := range []ast.Expr{rs.Key, rs.Value} {
			id, ok := e.(*ast.Ident)
			if !ok || id.Name == "_" {
				continue
			}
			v := &graph.Variable{Header: graph.Header{ID: f.newID(fc, graph.KindVariable, id.Name, id.Pos()), Name: id.Name, Kind: graph.KindVariable}}
			if t := f.typeOf(fc, id); t != nil {
				v.Type = t
			} else {
				v.Type = f.Types.Unknown()
			}
			f.Scopes.AddDeclaration(v)
			ds.Declarations = append(ds.Declarations, v)
		}
		fe.Variable = ds
	} else if rs.Key != nil {
		lhs := f.handleExpr(fc, rs.Key)
		b := &graph.Binary{Header: graph.Header{ID: f.newID(fc, graph.KindBinary, "=", rs.Pos()), Kind: graph.KindBinary}, Op: "=", LHS: lhs}
		b.Type = lhs.Typ().Type
		fe.Variable = b
	}

	fe.Body = f.handleStmt(fc, rs.Body)
	return fe
}

func (f *Frontend) handleSwitchStmt(fc *fileContext, ss *ast.SwitchStmt) graph.Statement {
	sw := &graph.Switch{Header: graph.Header{ID: f.newID(fc, graph.KindSwitch, "", ss.Pos()), Kind: graph.KindSwitch}}
	f.Scopes.EnterScope(sw, scope.KindSwitch, "")
	defer f.Scopes.LeaveScope(sw)

	if ss.Init != nil {
		f.handleStmt(fc, ss.Init)
	}
	if ss.Tag != nil {
		sw.Selector = f.handleExpr(fc, ss.Tag)
	}
	f.handleCaseClauses(fc, ss.Body, sw)
	return sw
}

// handleTypeSwitchStmt approximates `switch v := x.(type)` as a value
// switch whose Selector is the asserted expression; per-case type bindings
// are not modeled separately (this module's Non-goals exclude a dedicated
// type-switch node - see DESIGN.md).
func (f *Frontend) handleTypeSwitchStmt(fc *fileContext, tss *ast.TypeSwitchStmt) graph.Statement {
	sw := &graph.Switch{Header: graph.Header{ID: f.newID(fc, graph.KindSwitch, "", tss.Pos()), Kind: graph.KindSwitch}}
	f.Scopes.EnterScope(sw, scope.KindSwitch, "")
	defer f.Scopes.LeaveScope(sw)

	if tss.Init != nil {
		f.handleStmt(fc, tss.Init)
	}
	switch assign := tss.Assign.(type) {
	case *ast.AssignStmt:
		if len(assign.Rhs) == 1 {
			if ta, ok := assign.Rhs[0].(*ast.TypeAssertExpr); ok {
				sw.Selector = f.handleExpr(fc, ta.X)
			}
		}
	case *ast.ExprStmt:
		if ta, ok := assign.X.(*ast.TypeAssertExpr); ok {
			sw.Selector = f.handleExpr(fc, ta.X)
		}
	}
	f.handleCaseClauses(fc, tss.Body, sw)
	return sw
}

func (f *Frontend) handleCaseClauses(fc *fileContext, body *ast.BlockStmt, sw *graph.Switch) {
	for _, stmt := range body.List {
		cc, ok := stmt.(*ast.CaseClause)
		if !ok {
			continue
		}
		if cc.List == nil {
			d := &graph.Default{Header: graph.Header{ID: f.newID(fc, graph.KindDefault, "", cc.Pos()), Kind: graph.KindDefault}}
			for _, s := range cc.Body {
				if stmt := f.handleStmt(fc, s); stmt != nil {
					d.Body = append(d.Body, stmt)
				}
			}
			sw.Default = d
			continue
		}
		c := &graph.Case{Header: graph.Header{ID: f.newID(fc, graph.KindCase, "", cc.Pos()), Kind: graph.KindCase}}
		c.Values = f.handleExprList(fc, cc.List)
		for _, s := range cc.Body {
			if stmt := f.handleStmt(fc, s); stmt != nil {
				c.Body = append(c.Body, stmt)
			}
		}
		sw.Cases = append(sw.Cases, c)
	}
}

func (f *Frontend) handleReturnStmt(fc *fileContext, rs *ast.ReturnStmt) graph.Statement {
	ret := &graph.Return{Header: graph.Header{ID: f.newID(fc, graph.KindReturn, "", rs.Pos()), Kind: graph.KindReturn}}
	if len(rs.Results) > 1 {
		elems := f.handleExprList(fc, rs.Results)
		tup := &graph.Tuple{Header: graph.Header{ID: f.newID(fc, graph.KindTuple, "", rs.Pos()), Kind: graph.KindTuple}, Elements: elems}
		tup.Type = f.Types.Unknown()
		ret.Values = []graph.Expression{tup}
	} else if len(rs.Results) == 1 {
		ret.Values = []graph.Expression{f.handleExpr(fc, rs.Results[0])}
	}
	return ret
}

func (f *Frontend) handleBranchStmt(fc *fileContext, bs *ast.BranchStmt) graph.Statement {
	label := ""
	if bs.Label != nil {
		label = bs.Label.Name
	}
	switch bs.Tok {
	case token.BREAK:
		return &graph.Break{Header: graph.Header{ID: f.newID(fc, graph.KindBreak, label, bs.Pos()), Kind: graph.KindBreak}, Label: label}
	case token.CONTINUE:
		return &graph.Continue{Header: graph.Header{ID: f.newID(fc, graph.KindContinue, label, bs.Pos()), Kind: graph.KindContinue}, Label: label}
	default:
		// goto/fallthrough: no dedicated node variant; represented as an
		// unlabeled Break/Continue would misstate control flow, so record
		// it as a Problem instead (non-fatal, spec §4.5).
		return &graph.Problem{
			Header:  graph.Header{ID: f.newID(fc, graph.KindProblem, bs.Tok.String(), bs.Pos()), Kind: graph.KindProblem},
			Message: "unsupported branch: " + bs.Tok.String(),
		}
	}
}

// handleIncDecStmt lowers `x++`/`x--` to a postfix Unary. Grounded on
// handleIncDecStmt in the original frontend.
func (f *Frontend) handleIncDecStmt(fc *fileContext, ids *ast.IncDecStmt) graph.Statement {
	op := "++"
	if ids.Tok == token.DEC {
		op = "--"
	}
	u := &graph.Unary{
		Header:  graph.Header{ID: f.newID(fc, graph.KindUnary, op, ids.Pos()), Kind: graph.KindUnary},
		Op:      op,
		Input:   f.handleExpr(fc, ids.X),
		Postfix: true,
	}
	u.Type = u.Input.Typ().Type
	return u
}

func (f *Frontend) handleLabeledStmt(fc *fileContext, ls *ast.LabeledStmt) graph.Statement {
	l := &graph.Label{Header: graph.Header{ID: f.newID(fc, graph.KindLabel, ls.Label.Name, ls.Pos()), Name: ls.Label.Name, Kind: graph.KindLabel}}
	l.Statement = f.handleStmt(fc, ls.Stmt)
	return l
}

// handleSendStmt lowers `ch <- v` to a Binary "<-" statement.
func (f *Frontend) handleSendStmt(fc *fileContext, ss *ast.SendStmt) graph.Statement {
	lhs := f.handleExpr(fc, ss.Chan)
	b := &graph.Binary{
		Header: graph.Header{ID: f.newID(fc, graph.KindBinary, "<-", ss.Pos()), Kind: graph.KindBinary},
		Op:     "<-",
		LHS:    lhs,
		RHS:    f.handleExpr(fc, ss.Value),
	}
	b.Type = f.Types.Unknown()
	return b
}
