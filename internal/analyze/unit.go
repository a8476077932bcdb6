package analyze

import (
	"go/ast"
	"go/token"
	"go/types"
	"path/filepath"
	"strconv"
	"strings"
)

// StaticImport is a member made reachable by its unqualified name through a
// dot import.
type StaticImport struct {
	Name   string         // unqualified member name
	Pkg    *types.Package // declaring package
	Object types.Object   // the imported member
	Spec   *ast.ImportSpec
}

// Unit is one compilation unit: a single parsed file and the type
// information of the package it belongs to.
type Unit struct {
	Fset *token.FileSet
	File *ast.File
	Pkg  *types.Package
	Info *types.Info

	// Path is the file name the unit was parsed from.
	Path string
	// Module is the path of the module declaring Pkg, "" when unknown.
	Module string

	staticImports map[string]StaticImport
}

// NewUnit creates a unit for file and records its static imports.
func NewUnit(fset *token.FileSet, file *ast.File, pkg *types.Package, info *types.Info) *Unit {
	u := &Unit{
		Fset: fset,
		File: file,
		Pkg:  pkg,
		Info: info,
		Path: fset.Position(file.Package).Filename,
	}
	u.staticImports = collectStaticImports(file, pkg, info)

	return u
}

// InModule reports whether the package at path belongs to the unit's
// module.
func (u *Unit) InModule(path string) bool {
	if u.Module == "" {
		return u.Pkg != nil && path == u.Pkg.Path()
	}

	return path == u.Module || strings.HasPrefix(path, u.Module+"/")
}

// Name returns the base file name without extension.
func (u *Unit) Name() string {
	base := filepath.Base(u.Path)
	return base[:len(base)-len(filepath.Ext(base))]
}

// TypeOf returns the static type of expr, or nil if unknown.
func (u *Unit) TypeOf(expr ast.Expr) types.Type {
	if u.Info == nil || expr == nil {
		return nil
	}

	return u.Info.TypeOf(expr)
}

// ObjectOf returns the object denoted by id, or nil.
func (u *Unit) ObjectOf(id *ast.Ident) types.Object {
	if u.Info == nil || id == nil {
		return nil
	}

	return u.Info.ObjectOf(id)
}

// Selection returns the field or method selection for sel, or nil when sel
// is a qualified identifier (pkg.Name).
func (u *Unit) Selection(sel *ast.SelectorExpr) *types.Selection {
	if u.Info == nil {
		return nil
	}

	return u.Info.Selections[sel]
}

// PackageOf returns the package named by expr when expr is an import name.
func (u *Unit) PackageOf(expr ast.Expr) *types.Package {
	id, ok := ast.Unparen(expr).(*ast.Ident)
	if !ok {
		return nil
	}

	if pkgName, ok := u.ObjectOf(id).(*types.PkgName); ok {
		return pkgName.Imported()
	}

	return nil
}

// IsType reports whether expr denotes a type rather than a value.
func (u *Unit) IsType(expr ast.Expr) bool {
	if u.Info == nil {
		return false
	}

	tv, ok := u.Info.Types[expr]

	return ok && tv.IsType()
}

// Builtin returns the builtin function called by call, if any.
func (u *Unit) Builtin(call *ast.CallExpr) *types.Builtin {
	id, ok := ast.Unparen(call.Fun).(*ast.Ident)
	if !ok {
		return nil
	}

	b, _ := u.ObjectOf(id).(*types.Builtin)

	return b
}

// StaticImport looks up a dot-imported member by its simple name.
func (u *Unit) StaticImport(name string) (StaticImport, bool) {
	si, ok := u.staticImports[name]
	return si, ok
}

// StaticImports returns all dot-imported members keyed by simple name.
func (u *Unit) StaticImports() map[string]StaticImport {
	return u.staticImports
}

// Position returns the source position of node.
func (u *Unit) Position(node ast.Node) token.Position {
	if node == nil || u.Fset == nil {
		return token.Position{Filename: u.Path}
	}

	return u.Fset.Position(node.Pos())
}

// collectStaticImports records every exported member of dot-imported
// packages, keyed by simple name.
func collectStaticImports(file *ast.File, pkg *types.Package, info *types.Info) map[string]StaticImport {
	imports := make(map[string]StaticImport)

	for _, spec := range file.Imports {
		if spec.Name == nil || spec.Name.Name != "." {
			continue
		}

		imported := importedPackage(spec, pkg, info)
		if imported == nil {
			continue
		}

		scope := imported.Scope()
		for _, name := range scope.Names() {
			obj := scope.Lookup(name)
			if !obj.Exported() {
				continue
			}

			imports[name] = StaticImport{
				Name:   name,
				Pkg:    imported,
				Object: obj,
				Spec:   spec,
			}
		}
	}

	return imports
}

// importedPackage finds the package an import spec refers to, first through
// the implicit PkgName go/types records for dot imports, then through the
// importing package's import list.
func importedPackage(spec *ast.ImportSpec, pkg *types.Package, info *types.Info) *types.Package {
	if info != nil {
		if pkgName, ok := info.Implicits[spec].(*types.PkgName); ok {
			return pkgName.Imported()
		}
	}

	if pkg == nil {
		return nil
	}

	path, err := strconv.Unquote(spec.Path.Value)
	if err != nil {
		return nil
	}

	for _, imp := range pkg.Imports() {
		if imp.Path() == path {
			return imp
		}
	}

	return nil
}
