package frontend

import (
	"fmt"
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"path/filepath"
	"sort"

	"github.com/cpgo/cpgo/internal/diag"
	"github.com/cpgo/cpgo/internal/graph"
	"github.com/cpgo/cpgo/internal/scope"
	"github.com/cpgo/cpgo/internal/typesys"
)

// New creates a Frontend for one project run, owning the single Graph,
// type Registry and scope Manager spec §5 requires.
func New(modulePath string) *Frontend {
	return &Frontend{
		Graph:      graph.NewGraph(),
		Types:      typesys.NewRegistry(),
		Scopes:     scope.NewManager(),
		Diag:       diag.NewCollector(),
		ModulePath: modulePath,
		Fset:       token.NewFileSet(),
		byPkg:      make(map[string][]*fileContext),
		namespaces: make(map[string]*graph.Namespace),
	}
}

// ProcessProject is the per-project driver entry point (spec §4.3): parse
// every file, run a best-effort go/types check per package directory, then
// run Phase A over every file before Phase B over every file. Per-file
// parse failures are recorded as Problems and skip only that file (spec
// §4.5); the whole run never aborts because of one bad file.
func (f *Frontend) ProcessProject(root string, paths []string) error {
	sorted := append([]string(nil), paths...)
	sort.Strings(sorted)

	for _, p := range sorted {
		if err := f.parseFile(root, p); err != nil {
			f.Diag.Errorf("frontend", p, "parse failure: %v", err)
			f.Graph.AddProblem(&graph.Problem{
				Header:  graph.Header{ID: graph.NewID(p, 0, graph.KindProblem, "parse", p), Kind: graph.KindProblem, Name: "parse-failure"},
				Message: err.Error(),
			})
			continue
		}
	}

	f.typeCheckPackages()

	for _, fc := range f.files {
		if err := f.phaseA(fc); err != nil {
			f.Diag.Errorf("frontend", fc.Path, "phase A failure: %v", err)
		}
	}
	for _, fc := range f.files {
		if err := f.phaseB(fc); err != nil {
			f.Diag.Errorf("frontend", fc.Path, "phase B failure: %v", err)
		}
	}

	f.Graph.RegisterAll()
	return nil
}

func (f *Frontend) parseFile(root, path string) error {
	astFile, err := parser.ParseFile(f.Fset, path, nil, parser.ParseComments)
	if err != nil {
		return err
	}

	relDir, err := filepath.Rel(root, filepath.Dir(path))
	if err != nil || relDir == "." {
		relDir = ""
	}
	relDir = filepath.ToSlash(relDir)

	modCtx := typesys.ModuleContext{ModulePath: f.ModulePath, Package: relDir}
	if f.ModulePath == "" && relDir == "" {
		// No module descriptor and the file sits at the project root: fall
		// back to the package's own declared name for naming, per spec
		// §6 ("the absence of a module descriptor is non-fatal; file
		// paths become the naming prefix").
		modCtx.Package = astFile.Name.Name
	}

	fc := &fileContext{
		Path:          path,
		File:          astFile,
		ModCtx:        modCtx,
		importsByName: make(map[string]string),
		Comments:      ast.NewCommentMap(f.Fset, astFile, astFile.Comments),
	}

	for _, imp := range astFile.Imports {
		fc.importsByName[importName(imp, nil)] = importPath(imp)
	}

	f.files = append(f.files, fc)
	f.byPkg[modCtx.PackageFQN()] = append(f.byPkg[modCtx.PackageFQN()], fc)
	return nil
}

// typeCheckPackages runs go/types.Config.Check once per package directory,
// best-effort: a package that fails to type-check (missing import, a file
// using language features the checker rejects) is logged as a warning and
// every file in that package still gets the partial Info the checker filled
// in; any lookup that Info does not answer falls back to AST-only parsing /
// UnknownType, per spec §7 error kind 5 ("type parsing failure yields
// UnknownType; non-fatal").
func (f *Frontend) typeCheckPackages() {
	for pkgFQN, fcs := range f.byPkg {
		astFiles := make([]*ast.File, len(fcs))
		for i, fc := range fcs {
			astFiles[i] = fc.File
		}

		info := &types.Info{
			Types:      make(map[ast.Expr]types.TypeAndValue),
			Defs:       make(map[*ast.Ident]types.Object),
			Uses:       make(map[*ast.Ident]types.Object),
			Selections: make(map[*ast.SelectorExpr]*types.Selection),
		}
		cfg := &types.Config{
			Importer: importer.ForCompiler(f.Fset, "source", nil),
			Error:    func(err error) { f.Diag.Warnf("frontend", pkgFQN, "type-check: %v", err) },
		}

		pkg, err := cfg.Check(pkgFQN, f.Fset, astFiles, info)
		if err != nil {
			// Partial Info may still be useful; keep it rather than
			// discarding it wholesale.
			f.Diag.Warnf("frontend", pkgFQN, "package did not fully type-check: %v", err)
		}
		for _, fc := range fcs {
			fc.Info = info
			if pkg != nil {
				for _, imp := range fc.File.Imports {
					if importsPkg := findImportedPackage(pkg, importPath(imp)); importsPkg != nil {
						fc.importsByName[importName(imp, pkg)] = importPath(imp)
					}
				}
			}
		}
	}
}

func findImportedPackage(pkg *types.Package, path string) *types.Package {
	for _, imp := range pkg.Imports() {
		if imp.Path() == path {
			return imp
		}
	}
	return nil
}

// packageNamespace returns the single Namespace declaration shared by every
// file of fc's package, creating it on first use. Per spec §3 invariant 1,
// two files in the same package share one Namespace / NameScope; later
// files just reactivate the scope created for the first one (spec §9).
func (f *Frontend) packageNamespace(fc *fileContext) *graph.Namespace {
	fqn := fc.ModCtx.PackageFQN()
	if ns, ok := f.namespaces[fqn]; ok {
		return ns
	}
	ns := &graph.Namespace{
		Header: graph.Header{
			ID:   graph.NewID(fc.Path, 0, graph.KindNamespace, fqn, fqn),
			Name: fqn,
			Kind: graph.KindNamespace,
		},
	}
	f.namespaces[fqn] = ns
	f.Graph.Register(ns)
	return ns
}

func (f *Frontend) newLocation(pos, end token.Pos) *graph.Location {
	startPos := f.Fset.Position(pos)
	endPos := f.Fset.Position(end)
	return &graph.Location{
		File:        startPos.Filename,
		StartOffset: startPos.Offset,
		EndOffset:   endPos.Offset,
		StartLine:   startPos.Line,
		StartColumn: startPos.Column,
		EndLine:     endPos.Line,
		EndColumn:   endPos.Column,
	}
}

func (f *Frontend) newID(fc *fileContext, kind graph.Kind, name string, pos token.Pos) string {
	line := f.Fset.Position(pos).Line
	return graph.NewID(fc.Path, line, kind, name, fmt.Sprintf("%d", fc.nextSeq()))
}
