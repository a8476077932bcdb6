package analyze

import (
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"sort"

	"github.com/cockroachdb/errors"
	"golang.org/x/tools/go/packages"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports |
	packages.NeedModule

// Analyzer loads Go packages and splits them into compilation units.
type Analyzer struct {
	index *TypeIndex
	// Dir is the working directory for package loading (empty means the
	// current directory).
	Dir string
}

// NewAnalyzer creates a new Analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{index: NewTypeIndex()}
}

// Index returns the type index accumulated by all loads so far.
func (a *Analyzer) Index() *TypeIndex {
	return a.index
}

// LoadPackages loads the specified packages and returns one Unit per file.
// Patterns are standard Go package patterns (e.g., "./examples/geom").
func (a *Analyzer) LoadPackages(patterns ...string) ([]*Unit, error) {
	cfg := &packages.Config{
		Mode: LoadMode,
		Dir:  a.Dir,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load packages")
	}

	// Check for package errors
	var errs []error
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	}

	if len(errs) > 0 {
		return nil, errors.Newf("package errors: %v", errs)
	}

	var units []*Unit
	for _, pkg := range pkgs {
		units = append(units, a.processPackage(pkg)...)
	}

	return units, nil
}

// processPackage indexes a loaded package and builds its units.
func (a *Analyzer) processPackage(pkg *packages.Package) []*Unit {
	a.index.AddPackage(pkg.Types)

	for _, imp := range pkg.Imports {
		a.index.AddPackage(imp.Types)
	}

	module := ""
	if pkg.Module != nil {
		module = pkg.Module.Path
	}

	units := make([]*Unit, 0, len(pkg.Syntax))
	for _, file := range pkg.Syntax {
		u := NewUnit(pkg.Fset, file, pkg.Types, pkg.TypesInfo)
		u.Module = module
		units = append(units, u)
	}

	return units
}

// Source is an in-memory package to type-check.
type Source struct {
	// Path is the import path given to the checked package.
	Path string
	// Files maps file names to Go source text.
	Files map[string]string
	// Module is the module path the package belongs to. Defaults to Path.
	Module string
}

// Checked is the result of CheckSource.
type Checked struct {
	Pkg   *types.Package
	Units []*Unit
}

// Unit returns the unit parsed from the named file, or nil.
func (c *Checked) Unit(filename string) *Unit {
	for _, u := range c.Units {
		if u.Path == filename {
			return u
		}
	}

	return nil
}

// CheckSource parses and type-checks an in-memory package. Imports are
// resolved against deps first and then against the default importer.
// Units are returned in file name order.
func CheckSource(src Source, deps ...*types.Package) (*Checked, error) {
	fset := token.NewFileSet()

	names := make([]string, 0, len(src.Files))
	for name := range src.Files {
		names = append(names, name)
	}

	sort.Strings(names)

	files := make([]*ast.File, 0, len(names))
	for _, name := range names {
		f, err := parser.ParseFile(fset, name, src.Files[name], parser.ParseComments)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing %s", name)
		}

		files = append(files, f)
	}

	info := NewInfo()
	conf := types.Config{Importer: newDepImporter(deps)}

	pkg, err := conf.Check(src.Path, fset, files, info)
	if err != nil {
		return nil, errors.Wrapf(err, "type-checking %s", src.Path)
	}

	module := src.Module
	if module == "" {
		module = src.Path
	}

	checked := &Checked{Pkg: pkg}
	for _, f := range files {
		u := NewUnit(fset, f, pkg, info)
		u.Module = module
		checked.Units = append(checked.Units, u)
	}

	return checked, nil
}

// NewInfo returns a types.Info with every map the printer relies on.
func NewInfo() *types.Info {
	return &types.Info{
		Types:      make(map[ast.Expr]types.TypeAndValue),
		Defs:       make(map[*ast.Ident]types.Object),
		Uses:       make(map[*ast.Ident]types.Object),
		Implicits:  make(map[ast.Node]types.Object),
		Selections: make(map[*ast.SelectorExpr]*types.Selection),
		Scopes:     make(map[ast.Node]*types.Scope),
	}
}

// depImporter resolves already-checked packages before falling back to
// export data.
type depImporter struct {
	deps     map[string]*types.Package
	fallback types.Importer
}

func newDepImporter(deps []*types.Package) *depImporter {
	imp := &depImporter{
		deps:     make(map[string]*types.Package, len(deps)),
		fallback: importer.Default(),
	}
	for _, d := range deps {
		imp.deps[d.Path()] = d
	}

	return imp
}

func (i *depImporter) Import(path string) (*types.Package, error) {
	if pkg, ok := i.deps[path]; ok {
		return pkg, nil
	}

	return i.fallback.Import(path)
}
