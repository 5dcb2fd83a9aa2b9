package frontend

import (
	"go/ast"
	"go/types"
	"strconv"
	"strings"
)

// importName picks an include's display name in priority order: the
// import spec's local alias, the type-checked package's self-reported
// name, then the last path segment - spec §4.3 Phase A's rule, grounded on
// getImportName in original_source/.../frontend/handler.go.
func importName(spec *ast.ImportSpec, pkg *types.Package) string {
	if spec.Name != nil {
		return spec.Name.Name
	}
	if pkg != nil {
		if imp := pkg.Imports(); imp != nil {
			p := importPath(spec)
			for _, candidate := range imp {
				if candidate.Path() == p {
					return candidate.Name()
				}
			}
		}
	}
	return lastPathSegment(importPath(spec))
}

func importPath(spec *ast.ImportSpec) string {
	p, err := strconv.Unquote(spec.Path.Value)
	if err != nil {
		return spec.Path.Value
	}
	return p
}

func lastPathSegment(p string) string {
	parts := strings.Split(p, "/")
	return parts[len(parts)-1]
}
