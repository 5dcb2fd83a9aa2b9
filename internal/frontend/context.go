// Package frontend implements the two-phase per-file translation frontend
// (spec.md §4.3): Phase A emits record skeletons across every file of a
// project before Phase B walks function/method/variable bodies, so that a
// method on a struct declared in file B can already see the struct's scope
// even though file A is walked first.
//
// Grounded on original_source/cpg-language-go/src/main/golang/frontend/
// handler.go, whose HandleFileRecordDeclarations/HandleFileContent pair is
// exactly this Phase A/Phase B split; the oracle wiring (go/parser,
// go/ast.NewCommentMap, go/types.Config) is this module's concrete
// implementation of the parser/type-info oracle spec.md §6 leaves external.
package frontend

import (
	"go/ast"
	"go/token"
	"go/types"

	"github.com/cpgo/cpgo/internal/diag"
	"github.com/cpgo/cpgo/internal/graph"
	"github.com/cpgo/cpgo/internal/scope"
	"github.com/cpgo/cpgo/internal/typesys"
)

// fileContext is the short-lived "current file / current TU / current
// package" bundle spec.md §5 describes, reset at each file transition.
type fileContext struct {
	Path   string
	File   *ast.File
	ModCtx typesys.ModuleContext

	// importsByName maps the display name an import is referred to by in
	// source (local alias, package's self-reported name, or last path
	// segment - spec §4.3 Phase A's priority rule) to its import path, so
	// that handleSelectorExpr can tell a package-qualified reference from
	// a genuine member access.
	importsByName map[string]string

	Comments ast.CommentMap
	Info     *types.Info // possibly partial if go/types checking failed for this file's package

	TU        *graph.TranslationUnit
	Namespace *graph.Namespace

	seq int
}

// nextSeq returns a per-file, deterministically increasing disambiguator
// for node IDs: since the frontend's file and statement/expression
// traversal order is fixed (spec §5: sequential, no parallelism), the same
// input always produces the same sequence of values here, which is what
// lets two runs over one project yield node-identity-isomorphic graphs
// (spec §8).
func (fc *fileContext) nextSeq() int {
	fc.seq++
	return fc.seq
}

func (fc *fileContext) commentFor(n ast.Node) string {
	groups, ok := (map[ast.Node][]*ast.CommentGroup)(fc.Comments)[n]
	if !ok {
		return ""
	}
	var text string
	for _, g := range groups {
		text += g.Text()
	}
	return text
}

// Frontend owns the per-project state the two-phase driver shares: the
// graph being built, the type registry and scope manager (one of each per
// run, per spec §5's shared-resource policy), and the diagnostic collector.
type Frontend struct {
	Graph  *graph.Graph
	Types  *typesys.Registry
	Scopes *scope.Manager
	Diag   *diag.Collector

	ModulePath string
	Fset       *token.FileSet

	files      []*fileContext
	byPkg      map[string][]*fileContext
	namespaces map[string]*graph.Namespace
}
