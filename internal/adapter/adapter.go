package adapter

import (
	"go/ast"
	"go/types"
	"reflect"
	"strconv"

	"github.com/cockroachdb/errors"

	"go2ts/internal/analyze"
	"go2ts/internal/diagnostic"
)

// VariableKind tells where a variable declaration appears.
type VariableKind int

const (
	// VariableLocal is declared inside a function body.
	VariableLocal VariableKind = iota
	// VariableGlobal is declared at package level.
	VariableGlobal
)

// String returns the kind name.
func (k VariableKind) String() string {
	switch k {
	case VariableLocal:
		return "local"
	case VariableGlobal:
		return "global"
	default:
		return "unknown"
	}
}

// Adapter is one layer of a chain. Implementations embed *Base and override
// the decisions they customize.
type Adapter interface {
	// Parent returns the layer this one delegates to, nil for the root.
	Parent() Adapter
	// Context returns the Context of the run.
	Context() *Context
	// Printer returns the printer bound to the chain.
	Printer() Printer
	// SetPrinter binds p to this layer and every layer below it.
	SetPrinter(p Printer)
	// Flags returns the layer's scratch state.
	Flags() *Flags

	// SubstituteArrayAccess prints an index expression.
	SubstituteArrayAccess(expr *ast.IndexExpr) bool
	// SubstituteIdentifier prints an identifier used as an expression.
	SubstituteIdentifier(ident *ast.Ident) bool
	// SubstituteNewObject prints a composite literal.
	SubstituteNewObject(obj NewObject) bool
	// SubstituteFieldAccess prints an owner.member selector that is not
	// called.
	SubstituteFieldAccess(access FieldAccess) bool
	// SubstituteMethodInvocation prints a call.
	SubstituteMethodInvocation(inv Invocation) bool
	// SubstituteAssignment prints an assignment statement.
	SubstituteAssignment(assign *ast.AssignStmt) bool
	// SubstituteAssignedExpression prints expr assigned to a location of
	// type assigned.
	SubstituteAssignedExpression(assigned types.Type, expr ast.Expr) bool
	// SubstituteForEachLoop prints a range loop. targetHasLength is true
	// when the ranged value has a length; indexVar is a fresh name usable
	// as loop index.
	SubstituteForEachLoop(loop *ast.RangeStmt, targetHasLength bool, indexVar string) bool
	// SubstituteInstanceof prints a dynamic type test of expr (or of the
	// already printed exprStr when not empty) against t.
	SubstituteInstanceof(exprStr string, expr ast.Expr, t types.Type) bool
	// SubstituteCaseStatementPattern prints one pattern of a switch case.
	SubstituteCaseStatementPattern(clause *ast.CaseClause, pattern ast.Expr) bool
	// SubstituteType prints a type reference.
	SubstituteType(expr ast.Expr, t types.Type) bool
	// AdaptDocComment returns the doc comment to print for node; "" drops
	// the comment.
	AdaptDocComment(node ast.Node, text string) string

	// NeedsTypeCast reports whether a conversion must be printed.
	NeedsTypeCast(conv *ast.CallExpr) bool
	// NeedsVariableDecl reports whether a variable declaration must be
	// printed.
	NeedsVariableDecl(spec *ast.ValueSpec, kind VariableKind) bool

	// EraseSuperClass reports whether an embedded struct type is dropped
	// from the extends clause of decl.
	EraseSuperClass(decl *ast.TypeSpec, super *types.Named) bool
	// EraseSuperInterface reports whether an embedded interface is dropped
	// from decl.
	EraseSuperInterface(decl *ast.TypeSpec, super *types.Named) bool
	// IsSubstituteSuperTypes reports whether type mappings apply inside
	// extends and implements clauses.
	IsSubstituteSuperTypes() bool

	// Identifier returns the printed name of obj.
	Identifier(obj types.Object) string
	// QualifiedTypeName returns the printed qualified name of a type.
	QualifiedTypeName(tn *types.TypeName, globals bool) string
	// NeedsImport returns the module to import for an import declaration,
	// or "" when no import is printed.
	NeedsImport(spec *ast.ImportSpec, path string) string
	// ErasedTypes returns the qualified names of types printed as any.
	ErasedTypes() (map[string]struct{}, error)
}

// Factory builds a layer on top of parent.
type Factory func(parent Adapter) (Adapter, error)

// Base implements every decision by delegating to the parent layer, or by
// answering the baseline when there is none. Embed it in layers.
type Base struct {
	parent  Adapter
	context *Context
	printer Printer
	flags   Flags
}

var _ Adapter = (*Base)(nil)

// NewRoot creates the root layer of a chain.
func NewRoot(ctx *Context) (*Base, error) {
	if ctx == nil {
		return nil, errors.WithStack(ErrNilContext)
	}

	return &Base{context: ctx}, nil
}

// NewBase creates a layer delegating to parent and sharing its Context.
func NewBase(parent Adapter) (*Base, error) {
	if isNil(parent) || parent.Context() == nil {
		return nil, errors.WithHint(errors.WithStack(ErrNilParent),
			"a chain must start with a root adapter: use NewRoot with the run context")
	}

	return &Base{parent: parent, context: parent.Context()}, nil
}

// isNil reports whether a is nil or holds a nil pointer.
func isNil(a Adapter) bool {
	if a == nil {
		return true
	}

	v := reflect.ValueOf(a)

	return v.Kind() == reflect.Pointer && v.IsNil()
}

// Compose nests layers on top of root. The layer built by the last factory
// is the outermost one and is returned.
func Compose(root Adapter, layers ...Factory) (Adapter, error) {
	if isNil(root) {
		return nil, errors.WithStack(ErrNilParent)
	}

	current := root
	for i, build := range layers {
		next, err := build(current)
		if err != nil {
			return nil, errors.Wrapf(err, "composing adapter layer %d", i)
		}

		current = next
	}

	return current, nil
}

// Depth returns the number of layers from a down to the root, inclusive.
func Depth(a Adapter) int {
	n := 0
	for ; a != nil; a = a.Parent() {
		n++
	}

	return n
}

// Parent implements Adapter.
func (b *Base) Parent() Adapter {
	if b == nil {
		return nil
	}

	return b.parent
}

// Context implements Adapter. The context is taken from the parent chain on
// first use when it was not set directly.
func (b *Base) Context() *Context {
	if b == nil {
		return nil
	}

	if b.context == nil && b.parent != nil {
		b.context = b.parent.Context()
	}

	return b.context
}

// Printer implements Adapter.
func (b *Base) Printer() Printer {
	return b.printer
}

// SetPrinter implements Adapter.
func (b *Base) SetPrinter(p Printer) {
	b.printer = p
	if b.parent != nil {
		b.parent.SetPrinter(p)
	}
}

// Flags implements Adapter.
func (b *Base) Flags() *Flags {
	return &b.flags
}

// Registration shortcuts, all writing to the shared Context.

// AddTypeMapping registers a name-based type mapping in the Context.
func (b *Base) AddTypeMapping(sourceTypeName, targetTypeName string) {
	b.Context().AddTypeMapping(sourceTypeName, targetTypeName)
}

// AddTypeMappings registers several name-based type mappings.
func (b *Base) AddTypeMappings(nameMappings map[string]string) {
	b.Context().AddTypeMappings(nameMappings)
}

// IsMappedType reports whether sourceTypeName is mapped.
func (b *Base) IsMappedType(sourceTypeName string) bool {
	return b.Context().IsMappedType(sourceTypeName)
}

// TypeMappingTarget returns the mapping target of sourceTypeName.
func (b *Base) TypeMappingTarget(sourceTypeName string) string {
	return b.Context().TypeMappingTarget(sourceTypeName)
}

// AddFunctionalTypeMapping registers a functional type mapping.
func (b *Base) AddFunctionalTypeMapping(fn FunctionalTypeMapping) {
	b.Context().AddFunctionalTypeMapping(fn)
}

// AddAnnotation registers an annotation rule.
func (b *Base) AddAnnotation(descriptor string, filters ...string) error {
	return b.Context().AddAnnotation(descriptor, filters...)
}

// AddAnnotationWithValue registers an annotation rule carrying a value.
func (b *Base) AddAnnotationWithValue(name string, value any, filters ...string) error {
	return b.Context().AddAnnotationWithValue(name, value, filters...)
}

// AddAnnotationProvider registers an annotation provider.
func (b *Base) AddAnnotationProvider(p AnnotationProvider) {
	b.Context().AddAnnotationProvider(p)
}

// EraseTypeVariable marks tp as erased for the rest of the run.
func (b *Base) EraseTypeVariable(tp *types.TypeParam) {
	b.Context().EraseTypeVariable(tp)
}

// Printing shortcuts, all going through the bound Printer.

// Print emits s.
func (b *Base) Print(s string) *Base {
	b.printer.Print(s)
	return b
}

// PrintNode prints n with the printer's full logic.
func (b *Base) PrintNode(n ast.Node) *Base {
	b.printer.PrintNode(n)
	return b
}

// PrintArgList prints args separated by commas.
func (b *Base) PrintArgList(args []ast.Expr) *Base {
	b.printer.PrintArgList(args)
	return b
}

// PrintStringOr prints s, or n when s is empty.
func (b *Base) PrintStringOr(s string, n ast.Node) *Base {
	if s == "" {
		return b.PrintNode(n)
	}

	return b.Print(s)
}

// PrintIndent emits the current indentation.
func (b *Base) PrintIndent() *Base {
	b.printer.PrintIndent()
	return b
}

// StartIndent increments the indentation.
func (b *Base) StartIndent() *Base {
	b.printer.StartIndent()
	return b
}

// EndIndent decrements the indentation.
func (b *Base) EndIndent() *Base {
	b.printer.EndIndent()
	return b
}

// Stack returns the nodes being printed, outermost first.
func (b *Base) Stack() []ast.Node {
	return b.printer.Stack()
}

// ParentNode returns the node enclosing the one being printed.
func (b *Base) ParentNode() ast.Node {
	return b.printer.Parent()
}

// Unit returns the compilation unit being printed.
func (b *Base) Unit() *analyze.Unit {
	return b.printer.Unit()
}

// RootRelativeName renders the qualified name of obj as seen from the
// current unit.
func (b *Base) RootRelativeName(obj types.Object) string {
	return b.printer.RootRelativeName(obj)
}

// Report records a problem at node.
func (b *Base) Report(node ast.Node, kind diagnostic.Kind, params ...any) {
	b.printer.Report(node, kind, params...)
}

// LiteralStringValue returns the unquoted value of a string literal, or ""
// when lit is not one.
func (b *Base) LiteralStringValue(lit ast.Expr) string {
	bl, ok := ast.Unparen(lit).(*ast.BasicLit)
	if !ok {
		return ""
	}

	s, err := strconv.Unquote(bl.Value)
	if err != nil {
		return ""
	}

	return s
}

// Decisions. Each one asks the parent, or answers the baseline at the root.

// SubstituteArrayAccess implements Adapter.
func (b *Base) SubstituteArrayAccess(expr *ast.IndexExpr) bool {
	if b.parent == nil {
		return false
	}

	return b.parent.SubstituteArrayAccess(expr)
}

// SubstituteIdentifier implements Adapter.
func (b *Base) SubstituteIdentifier(ident *ast.Ident) bool {
	if b.parent == nil {
		return false
	}

	return b.parent.SubstituteIdentifier(ident)
}

// SubstituteNewObject implements Adapter.
func (b *Base) SubstituteNewObject(obj NewObject) bool {
	if b.parent == nil {
		return false
	}

	return b.parent.SubstituteNewObject(obj)
}

// SubstituteFieldAccess implements Adapter.
func (b *Base) SubstituteFieldAccess(access FieldAccess) bool {
	if b.parent == nil {
		return false
	}

	return b.parent.SubstituteFieldAccess(access)
}

// SubstituteMethodInvocation implements Adapter.
func (b *Base) SubstituteMethodInvocation(inv Invocation) bool {
	if b.parent == nil {
		return false
	}

	return b.parent.SubstituteMethodInvocation(inv)
}

// SubstituteAssignment implements Adapter.
func (b *Base) SubstituteAssignment(assign *ast.AssignStmt) bool {
	if b.parent == nil {
		return false
	}

	return b.parent.SubstituteAssignment(assign)
}

// SubstituteAssignedExpression implements Adapter.
func (b *Base) SubstituteAssignedExpression(assigned types.Type, expr ast.Expr) bool {
	if b.parent == nil {
		return false
	}

	return b.parent.SubstituteAssignedExpression(assigned, expr)
}

// SubstituteForEachLoop implements Adapter.
func (b *Base) SubstituteForEachLoop(loop *ast.RangeStmt, targetHasLength bool, indexVar string) bool {
	if b.parent == nil {
		return false
	}

	return b.parent.SubstituteForEachLoop(loop, targetHasLength, indexVar)
}

// SubstituteInstanceof implements Adapter.
func (b *Base) SubstituteInstanceof(exprStr string, expr ast.Expr, t types.Type) bool {
	if b.parent == nil {
		return false
	}

	return b.parent.SubstituteInstanceof(exprStr, expr, t)
}

// SubstituteCaseStatementPattern implements Adapter.
func (b *Base) SubstituteCaseStatementPattern(clause *ast.CaseClause, pattern ast.Expr) bool {
	if b.parent == nil {
		return false
	}

	return b.parent.SubstituteCaseStatementPattern(clause, pattern)
}

// SubstituteType implements Adapter.
func (b *Base) SubstituteType(expr ast.Expr, t types.Type) bool {
	if b.parent == nil {
		return false
	}

	return b.parent.SubstituteType(expr, t)
}

// AdaptDocComment implements Adapter.
func (b *Base) AdaptDocComment(node ast.Node, text string) string {
	if b.parent == nil {
		return text
	}

	return b.parent.AdaptDocComment(node, text)
}

// NeedsTypeCast implements Adapter.
func (b *Base) NeedsTypeCast(conv *ast.CallExpr) bool {
	if b.parent == nil {
		return true
	}

	return b.parent.NeedsTypeCast(conv)
}

// NeedsVariableDecl implements Adapter.
func (b *Base) NeedsVariableDecl(spec *ast.ValueSpec, kind VariableKind) bool {
	if b.parent == nil {
		return true
	}

	return b.parent.NeedsVariableDecl(spec, kind)
}

// EraseSuperClass implements Adapter.
func (b *Base) EraseSuperClass(decl *ast.TypeSpec, super *types.Named) bool {
	if b.parent == nil {
		return false
	}

	return b.parent.EraseSuperClass(decl, super)
}

// EraseSuperInterface implements Adapter.
func (b *Base) EraseSuperInterface(decl *ast.TypeSpec, super *types.Named) bool {
	if b.parent == nil {
		return false
	}

	return b.parent.EraseSuperInterface(decl, super)
}

// IsSubstituteSuperTypes implements Adapter.
func (b *Base) IsSubstituteSuperTypes() bool {
	if b.parent == nil {
		return false
	}

	return b.parent.IsSubstituteSuperTypes()
}

// Identifier implements Adapter.
func (b *Base) Identifier(obj types.Object) string {
	if b.parent == nil {
		return b.printer.DefaultIdentifier(obj)
	}

	return b.parent.Identifier(obj)
}

// QualifiedTypeName implements Adapter.
func (b *Base) QualifiedTypeName(tn *types.TypeName, globals bool) string {
	if b.parent == nil {
		return b.printer.RootRelativeName(tn)
	}

	return b.parent.QualifiedTypeName(tn, globals)
}

// NeedsImport implements Adapter.
func (b *Base) NeedsImport(spec *ast.ImportSpec, path string) string {
	if b.parent == nil {
		if spec.Name != nil && spec.Name.Name == "_" {
			return ""
		}

		return path
	}

	return b.parent.NeedsImport(spec, path)
}

// ErasedTypes implements Adapter.
func (b *Base) ErasedTypes() (map[string]struct{}, error) {
	if b.parent == nil {
		return nil, errors.WithHint(errors.WithStack(ErrUnimplemented),
			"no adapter in the chain implements ErasedTypes")
	}

	return b.parent.ErasedTypes()
}

// SubstituteCall resolves the target of call once and offers it to a.
func SubstituteCall(a Adapter, call *ast.CallExpr) bool {
	return a.SubstituteMethodInvocation(ResolveCallTarget(a.Printer().Unit(), call))
}

// SubstituteSelector normalizes a selector and offers it to a.
func SubstituteSelector(a Adapter, sel *ast.SelectorExpr) bool {
	return a.SubstituteFieldAccess(ResolveSelector(a.Printer().Unit(), sel))
}

// SubstituteCompositeLit normalizes a composite literal and offers it to a.
func SubstituteCompositeLit(a Adapter, lit *ast.CompositeLit) bool {
	return a.SubstituteNewObject(ResolveCompositeLit(a.Printer().Unit(), lit))
}
