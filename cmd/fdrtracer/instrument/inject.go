// Package instrument - hook and import injection.
//
// This file builds the synthetic AST nodes inserted into instrumented
// files: the fdr.Enter / defer fdr.Exit statement pair and the runtime
// facade import.
package instrument

import (
	"go/ast"
	"go/token"
	"strconv"
)

// insertHooks prepends the tracing pair to a function body:
//
//	fdr.Enter(id)
//	defer fdr.Exit(id)
//	// original statements
//
// The deferred exit fires on every return path, panics included, so the
// trace always pairs an exit with its entry.
func insertHooks(fn *ast.FuncDecl, id int32) {
	enter := &ast.ExprStmt{X: hookCall("Enter", id)}
	exit := &ast.DeferStmt{Call: hookCall("Exit", id)}
	fn.Body.List = append([]ast.Stmt{enter, exit}, fn.Body.List...)
}

// hookCall builds the call expression fdr.<name>(<id>).
func hookCall(name string, id int32) *ast.CallExpr {
	return &ast.CallExpr{
		Fun: &ast.SelectorExpr{
			X:   ast.NewIdent(FacadePackageName),
			Sel: ast.NewIdent(name),
		},
		Args: []ast.Expr{
			&ast.BasicLit{
				Kind:  token.INT,
				Value: strconv.FormatInt(int64(id), 10),
			},
		},
	}
}

// injectImport adds the runtime facade import to the file. The caller has
// already established the import is absent; hooks referencing the fdr
// package without it would not compile.
//
// An existing import block is extended; a file without one gets a grouped
// import inserted after the package clause.
func injectImport(file *ast.File) {
	spec := &ast.ImportSpec{
		Path: &ast.BasicLit{
			Kind:  token.STRING,
			Value: strconv.Quote(FacadeImportPath),
		},
	}

	var importDecl *ast.GenDecl
	for _, decl := range file.Decls {
		if gd, ok := decl.(*ast.GenDecl); ok && gd.Tok == token.IMPORT {
			importDecl = gd
			break
		}
	}

	if importDecl == nil {
		importDecl = &ast.GenDecl{
			Tok: token.IMPORT,
			// Non-zero Lparen selects the grouped import form.
			Lparen: 1,
		}
		file.Decls = append([]ast.Decl{importDecl}, file.Decls...)
	}

	importDecl.Specs = append(importDecl.Specs, spec)
	if importDecl.Lparen == 0 && len(importDecl.Specs) > 1 {
		importDecl.Lparen = 1
	}
	file.Imports = append(file.Imports, spec)
}

// importsPath reports whether the file already imports path under any
// alias.
func importsPath(file *ast.File, path string) bool {
	for _, imp := range file.Imports {
		p, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			continue
		}
		if p == path {
			return true
		}
	}
	return false
}
