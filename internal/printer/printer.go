package printer

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"path/filepath"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"go2ts/internal/adapter"
	"go2ts/internal/analyze"
	"go2ts/internal/common"
	"go2ts/internal/diagnostic"
)

// Config holds printer settings.
type Config struct {
	// Indent is the text emitted per indentation level.
	Indent string
	// ExportAll exports unexported package-level declarations too, so that
	// sibling files can import them.
	ExportAll bool
}

// DefaultConfig returns the default printer configuration.
func DefaultConfig() Config {
	return Config{
		Indent:    "  ",
		ExportAll: true,
	}
}

// Output is the result of printing one unit.
type Output struct {
	// Source is the TypeScript text.
	Source string
	// Diagnostics holds every problem reported while printing.
	Diagnostics diagnostic.Diagnostics
	// Siblings lists the files of the same package the unit imports from,
	// as module specifiers ("./point").
	Siblings []string
}

// Printer renders a unit as TypeScript, consulting an adapter chain.
type Printer struct {
	config  Config
	adapter adapter.Adapter
	unit    *analyze.Unit
	erased  map[string]struct{}
	diags   diagnostic.Diagnostics

	out    *strings.Builder
	indent int
	stack  []ast.Node

	// funcs holds the signatures of the enclosing functions, innermost last.
	funcs []*types.Signature
	fresh int

	// methods groups the methods of the unit by receiver base type name.
	methods map[string][]*ast.FuncDecl
	// localTypes holds the type names declared by the unit.
	localTypes map[string]bool
	// siblingMethods holds the methods of the unit whose struct type is
	// declared in another file of the package, by type name.
	siblingMethods map[string][]*ast.FuncDecl
	// augmented holds the type names whose class was already augmented.
	augmented map[string]bool

	// referenced holds, per package path, the members printed by name.
	referenced map[string]map[string]struct{}
	// siblings holds, per sibling file, the declarations referenced.
	siblings map[string]map[string]struct{}
}

var _ adapter.Printer = (*Printer)(nil)

// New binds a printer for unit to the chain whose outermost layer is a. It
// asks the chain for its erased types; a chain unable to answer is a
// configuration error.
func New(a adapter.Adapter, unit *analyze.Unit, config Config) (*Printer, error) {
	if a == nil {
		return nil, errors.New("printer requires an adapter chain")
	}

	if unit == nil {
		return nil, errors.New("printer requires a compilation unit")
	}

	if config.Indent == "" {
		config.Indent = DefaultConfig().Indent
	}

	p := &Printer{
		config:     config,
		adapter:    a,
		unit:       unit,
		out:        &strings.Builder{},
		methods:    make(map[string][]*ast.FuncDecl),
		localTypes: make(map[string]bool),
		referenced: make(map[string]map[string]struct{}),
		siblings:   make(map[string]map[string]struct{}),

		siblingMethods: make(map[string][]*ast.FuncDecl),
		augmented:      make(map[string]bool),
	}

	a.SetPrinter(p)

	erased, err := a.ErasedTypes()
	if err != nil {
		return nil, errors.Wrap(err, "asking the adapter chain for erased types")
	}

	p.erased = erased

	return p, nil
}

// PrintUnit prints the whole unit: imports first, then every declaration in
// source order.
func (p *Printer) PrintUnit() Output {
	p.indexDecls()

	body := p.capture(func() {
		for _, decl := range p.unit.File.Decls {
			p.PrintNode(decl)
		}
	})

	var sb strings.Builder

	header := p.imports()
	if header != "" {
		sb.WriteString(header)
		sb.WriteString("\n")
	}

	sb.WriteString(strings.TrimLeft(body, "\n"))

	return Output{Source: sb.String(), Diagnostics: p.diags, Siblings: sortedKeys(p.siblings)}
}

// Diagnostics returns the problems reported so far.
func (p *Printer) Diagnostics() *diagnostic.Diagnostics {
	return &p.diags
}

// Print implements adapter.Printer.
func (p *Printer) Print(s string) {
	p.out.WriteString(s)
}

// PrintNode implements adapter.Printer.
func (p *Printer) PrintNode(n ast.Node) {
	switch n := n.(type) {
	case nil:
	case ast.Expr:
		p.printExpr(n)
	case ast.Stmt:
		p.printStmt(n)
	case ast.Decl:
		p.printDecl(n)
	default:
		p.Report(n, diagnostic.KindUnsupportedNode, nodeName(n))
	}
}

// PrintArgList implements adapter.Printer.
func (p *Printer) PrintArgList(args []ast.Expr) {
	for i, arg := range args {
		if i > 0 {
			p.Print(", ")
		}

		p.printExpr(arg)
	}
}

// PrintIndent implements adapter.Printer.
func (p *Printer) PrintIndent() {
	p.Print(strings.Repeat(p.config.Indent, p.indent))
}

// StartIndent implements adapter.Printer.
func (p *Printer) StartIndent() {
	p.indent++
}

// EndIndent implements adapter.Printer.
func (p *Printer) EndIndent() {
	if p.indent > 0 {
		p.indent--
	}
}

// Stack implements adapter.Printer.
func (p *Printer) Stack() []ast.Node {
	return p.stack
}

// Parent implements adapter.Printer.
func (p *Printer) Parent() ast.Node {
	if len(p.stack) < 2 {
		return nil
	}

	return p.stack[len(p.stack)-2]
}

// Unit implements adapter.Printer.
func (p *Printer) Unit() *analyze.Unit {
	return p.unit
}

// Report implements adapter.Printer.
func (p *Printer) Report(node ast.Node, kind diagnostic.Kind, params ...any) {
	p.diags.Report(p.unit.Position(node), kind, params...)
}

// DefaultIdentifier implements adapter.Printer: the Name annotation when
// present, else the Go name, suffixed with '_' when it is a TypeScript
// reserved word.
func (p *Printer) DefaultIdentifier(obj types.Object) string {
	if obj == nil {
		return ""
	}

	if name, ok := p.adapter.Context().AnnotationValue(obj, adapter.AnnotationName); ok && name != "" {
		return name
	}

	name := obj.Name()
	if obj.Pkg() != nil && reservedWords[name] {
		return name + "_"
	}

	return name
}

// RootRelativeName implements adapter.Printer: declarations of the unit's
// package print by name, others qualified by the local name of their
// package's import.
func (p *Printer) RootRelativeName(obj types.Object) string {
	if obj == nil {
		return ""
	}

	name := p.adapter.Identifier(obj)

	pkg := obj.Pkg()
	if pkg == nil {
		return name
	}

	if pkg == p.unit.Pkg {
		p.noteSibling(obj, name)
		return name
	}

	p.noteReference(pkg.Path(), name)

	if p.isDotImported(pkg.Path()) {
		return name
	}

	return p.importName(pkg) + "." + name
}

func (p *Printer) push(n ast.Node) {
	p.stack = append(p.stack, n)
}

func (p *Printer) pop() {
	p.stack = p.stack[:len(p.stack)-1]
}

// capture runs fn with a fresh output buffer and returns what it printed.
func (p *Printer) capture(fn func()) string {
	saved := p.out
	p.out = &strings.Builder{}

	defer func() { p.out = saved }()

	fn()

	return p.out.String()
}

func (p *Printer) println(s string) {
	p.PrintIndent()
	p.Print(s)
	p.Print("\n")
}

func (p *Printer) freshName(prefix string) string {
	p.fresh++
	return "_" + prefix + strconv.Itoa(p.fresh)
}

func (p *Printer) indexDecls() {
	for _, decl := range p.unit.File.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			if name := receiverTypeName(d); name != "" {
				p.methods[name] = append(p.methods[name], d)
			}

		case *ast.GenDecl:
			for _, spec := range d.Specs {
				if ts, ok := spec.(*ast.TypeSpec); ok {
					p.localTypes[ts.Name.Name] = true
				}
			}
		}
	}

	if p.unit.Pkg == nil {
		return
	}

	for name, fns := range p.methods {
		if p.localTypes[name] {
			continue
		}

		tn, ok := p.unit.Pkg.Scope().Lookup(name).(*types.TypeName)
		if !ok {
			continue
		}

		if _, isStruct := tn.Type().Underlying().(*types.Struct); isStruct {
			p.siblingMethods[name] = fns
		}
	}
}

func (p *Printer) noteReference(pkgPath, name string) {
	names, ok := p.referenced[pkgPath]
	if !ok {
		names = make(map[string]struct{})
		p.referenced[pkgPath] = names
	}

	names[name] = struct{}{}
}

// noteSibling records a reference to a package-level declaration of
// another file of the unit's package.
func (p *Printer) noteSibling(obj types.Object, name string) {
	if obj.Parent() != p.unit.Pkg.Scope() {
		return
	}

	p.noteSiblingAt(obj.Pos(), name)
}

func (p *Printer) noteSiblingAt(pos token.Pos, name string) {
	if !pos.IsValid() {
		return
	}

	module := p.siblingModule(pos)
	if module == "" {
		return
	}

	names, ok := p.siblings[module]
	if !ok {
		names = make(map[string]struct{})
		p.siblings[module] = names
	}

	names[name] = struct{}{}
}

// siblingModule returns the module specifier of the file declaring pos,
// "" when it is the unit itself or unknown.
func (p *Printer) siblingModule(pos token.Pos) string {
	file := p.unit.Fset.Position(pos).Filename
	if file == "" || file == p.unit.Path {
		return ""
	}

	return "./" + strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
}

func (p *Printer) isDotImported(pkgPath string) bool {
	for _, si := range p.unit.StaticImports() {
		if si.Pkg.Path() == pkgPath {
			return true
		}
	}

	return false
}

// importName returns the name a package is bound to in the unit.
func (p *Printer) importName(pkg *types.Package) string {
	for _, spec := range p.unit.File.Imports {
		path, _ := strconv.Unquote(spec.Path.Value)
		if path != pkg.Path() {
			continue
		}

		if spec.Name != nil && spec.Name.Name != "." && spec.Name.Name != "_" {
			return spec.Name.Name
		}

		return pkg.Name()
	}

	return pkg.Name()
}

// moduleSpecifier turns an import path into a TypeScript module specifier.
// Paths sharing their first element with the unit's package are relative.
func (p *Printer) moduleSpecifier(path string) string {
	first := func(s string) string {
		head, _, _ := strings.Cut(s, "/")
		return head
	}

	if p.unit.Pkg != nil && first(path) == first(p.unit.Pkg.Path()) {
		return common.ModuleRelative(p.unit.Pkg.Path(), path)
	}

	return path
}

// imports renders the import header: the unit's own imports the chain
// keeps, then packages referenced without an import, then sibling files.
func (p *Printer) imports() string {
	var sb strings.Builder

	printed := make(map[string]bool)

	for _, spec := range p.unit.File.Imports {
		path, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}

		printed[path] = true

		module := p.adapter.NeedsImport(spec, path)
		if module == "" {
			continue
		}

		if module == path {
			module = p.moduleSpecifier(path)
		}

		names := p.referenced[path]
		if spec.Name != nil && spec.Name.Name == "." {
			if len(names) == 0 {
				continue
			}

			sb.WriteString("import { " + strings.Join(sortedKeys(names), ", ") + " } from " + quote(module) + ";\n")

			continue
		}

		if len(names) == 0 {
			continue
		}

		local := common.PkgAlias(path)
		if pkg := p.importedPackage(path); pkg != nil {
			local = p.importName(pkg)
		}

		sb.WriteString("import * as " + local + " from " + quote(module) + ";\n")
	}

	var implicit []string
	for path := range p.referenced {
		if !printed[path] {
			implicit = append(implicit, path)
		}
	}

	sort.Strings(implicit)

	for _, path := range implicit {
		local := common.PkgAlias(path)
		if pkg := p.importedPackage(path); pkg != nil {
			local = pkg.Name()
		}

		sb.WriteString("import * as " + local + " from " + quote(p.moduleSpecifier(path)) + ";\n")
	}

	for _, module := range sortedKeys(p.siblings) {
		sb.WriteString("import { " + strings.Join(sortedKeys(p.siblings[module]), ", ") + " } from " + quote(module) + ";\n")
	}

	return sb.String()
}

func (p *Printer) importedPackage(path string) *types.Package {
	if p.unit.Pkg == nil {
		return nil
	}

	var found *types.Package

	var walk func(pkgs []*types.Package)

	seen := make(map[*types.Package]bool)
	walk = func(pkgs []*types.Package) {
		for _, pkg := range pkgs {
			if found != nil || seen[pkg] {
				return
			}

			seen[pkg] = true

			if pkg.Path() == path {
				found = pkg
				return
			}

			walk(pkg.Imports())
		}
	}

	walk(p.unit.Pkg.Imports())

	return found
}

func receiverTypeName(fn *ast.FuncDecl) string {
	if fn.Recv == nil || len(fn.Recv.List) == 0 {
		return ""
	}

	t := fn.Recv.List[0].Type
	for {
		switch tt := t.(type) {
		case *ast.StarExpr:
			t = tt.X
		case *ast.ParenExpr:
			t = tt.X
		case *ast.IndexExpr:
			t = tt.X
		case *ast.IndexListExpr:
			t = tt.X
		case *ast.Ident:
			return tt.Name
		default:
			return ""
		}
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	return keys
}

func nodeName(n ast.Node) string {
	return strings.TrimPrefix(fmt.Sprintf("%T", n), "*ast.")
}

var reservedWords = map[string]bool{
	"arguments": true, "await": true, "catch": true, "class": true, "delete": true,
	"do": true, "enum": true, "eval": true, "export": true, "extends": true,
	"finally": true, "function": true, "in": true, "instanceof": true, "let": true,
	"new": true, "null": true, "super": true, "this": true, "throw": true,
	"try": true, "typeof": true, "undefined": true, "void": true, "while": true,
	"with": true, "yield": true,
}
