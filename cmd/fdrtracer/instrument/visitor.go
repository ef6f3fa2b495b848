// Package instrument - function selection logic.
//
// This file decides which function declarations receive tracing hooks.
// Selection looks only at the declaration itself: whether it has a body,
// how many statements the body holds, and what the attribute list says
// about the function's name.
package instrument

import (
	"go/ast"
)

// selectFunctions walks the file's declarations in source order and
// returns the ones to instrument, tallying the skips.
//
// Only top-level function and method declarations are candidates.
// Function literals are recorded as part of their enclosing function;
// giving every closure its own ID would explode the funcmap for little
// analytical value.
func (in *Instrumenter) selectFunctions(file *ast.File) ([]*ast.FuncDecl, Stats) {
	var targets []*ast.FuncDecl
	var stats Stats

	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok {
			continue
		}

		// Bodyless declarations (assembly stubs, linkname targets) have
		// nothing to hook into.
		if fn.Body == nil {
			stats.SkippedBodyless++
			continue
		}

		name := funcName(file, fn)
		switch in.opts.Attrs.Match(name) {
		case AttrNever:
			stats.SkippedExcluded++
			continue
		case AttrAlways:
			// Overrides the size threshold.
		default:
			if countStatements(fn.Body) < in.opts.MinStatements {
				stats.SkippedSmall++
				continue
			}
		}

		stats.Instrumented++
		targets = append(targets, fn)
	}

	return targets, stats
}

// countStatements counts the statements in a body, including statements
// nested in blocks, loops, and conditionals. Blocks themselves are not
// counted, so `func f() { x := 1 }` holds exactly one statement.
func countStatements(body *ast.BlockStmt) int {
	n := 0
	ast.Inspect(body, func(node ast.Node) bool {
		switch node.(type) {
		case *ast.BlockStmt:
			return true
		case ast.Stmt:
			n++
		case *ast.FuncLit:
			// Closure bodies belong to the enclosing function's trace;
			// their statements still count toward its size.
			return true
		}
		return true
	})
	return n
}

// funcName renders a declaration's qualified name the way the attribute
// list and the funcmap refer to it: "pkg.Func" for functions and
// "pkg.Recv.Method" for methods, with any receiver pointer stripped.
func funcName(file *ast.File, fn *ast.FuncDecl) string {
	pkg := file.Name.Name
	if fn.Recv == nil || len(fn.Recv.List) == 0 {
		return pkg + "." + fn.Name.Name
	}
	if recv := receiverTypeName(fn.Recv.List[0].Type); recv != "" {
		return pkg + "." + recv + "." + fn.Name.Name
	}
	return pkg + "." + fn.Name.Name
}

// receiverTypeName extracts the base type name from a receiver
// expression: T, *T, T[P], and *T[P] all yield "T".
func receiverTypeName(expr ast.Expr) string {
	for {
		switch t := expr.(type) {
		case *ast.Ident:
			return t.Name
		case *ast.StarExpr:
			expr = t.X
		case *ast.IndexExpr:
			expr = t.X
		case *ast.IndexListExpr:
			expr = t.X
		default:
			return ""
		}
	}
}
