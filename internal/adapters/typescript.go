package adapters

import (
	"go/ast"
	"go/build"
	"go/token"
	"go/types"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"go2ts/internal/adapter"
	"go2ts/internal/analyze"
	"go2ts/internal/match"
)

// TypeScript is the root layer: predeclared types, builtin functions,
// conversions and maps.
type TypeScript struct {
	*adapter.Base
}

var _ adapter.Adapter = (*TypeScript)(nil)

var predeclaredTypes = map[string]string{
	"bool":           "boolean",
	"string":         "string",
	"int":            "number",
	"int8":           "number",
	"int16":          "number",
	"int32":          "number",
	"int64":          "number",
	"uint":           "number",
	"uint8":          "number",
	"uint16":         "number",
	"uint32":         "number",
	"uint64":         "number",
	"uintptr":        "number",
	"byte":           "number",
	"rune":           "number",
	"float32":        "number",
	"float64":        "number",
	"error":          "Error",
	"untyped bool":   "boolean",
	"untyped int":    "number",
	"untyped rune":   "number",
	"untyped float":  "number",
	"untyped string": "string",
}

// runtimeErasedTypes have no TypeScript counterpart.
var runtimeErasedTypes = []string{
	"context.Context",
	"reflect.Type",
	"reflect.Value",
}

var errorType = types.Universe.Lookup("error").Type()

// NewTypeScript creates the root layer of a chain on ctx and registers the
// predeclared type mappings.
func NewTypeScript(ctx *adapter.Context) (*TypeScript, error) {
	base, err := adapter.NewRoot(ctx)
	if err != nil {
		return nil, err
	}

	ts := &TypeScript{Base: base}
	ts.AddTypeMappings(predeclaredTypes)
	ts.AddFunctionalTypeMapping(byteSliceType)

	return ts, nil
}

func byteSliceType(_ ast.Expr, typeName string) (string, bool) {
	switch typeName {
	case "[]byte", "[]uint8":
		return "Uint8Array", true
	default:
		return "", false
	}
}

// ErasedTypes implements adapter.Adapter.
func (ts *TypeScript) ErasedTypes() (map[string]struct{}, error) {
	erased := make(map[string]struct{}, len(runtimeErasedTypes))
	for _, name := range runtimeErasedTypes {
		erased[name] = struct{}{}
	}

	return erased, nil
}

// SubstituteMethodInvocation lowers conversions and builtin calls.
func (ts *TypeScript) SubstituteMethodInvocation(inv adapter.Invocation) bool {
	unit := ts.Unit()

	if len(inv.Call.Args) == 1 && unit.IsType(inv.Call.Fun) {
		if ts.substituteConversion(inv.Call) {
			return true
		}

		return ts.Base.SubstituteMethodInvocation(inv)
	}

	if b := unit.Builtin(inv.Call); b != nil && ts.substituteBuiltin(b.Name(), inv.Call) {
		return true
	}

	return ts.Base.SubstituteMethodInvocation(inv)
}

func (ts *TypeScript) substituteConversion(call *ast.CallExpr) bool {
	unit := ts.Unit()
	arg := call.Args[0]

	switch match.ClassifyConversion(unit.TypeOf(arg), unit.TypeOf(call.Fun)) {
	case match.ConversionTruncate:
		ts.Print("Math.trunc(").PrintNode(arg).Print(")")
	case match.ConversionRuneToString:
		ts.Print("String.fromCodePoint(").PrintNode(arg).Print(")")
	case match.ConversionBytesToString:
		ts.Print("new TextDecoder().decode(").PrintNode(arg).Print(")")
	case match.ConversionStringToBytes:
		ts.Print("new TextEncoder().encode(").PrintNode(arg).Print(")")
	default:
		return false
	}

	return true
}

// NeedsTypeCast drops conversions between types that print the same.
func (ts *TypeScript) NeedsTypeCast(conv *ast.CallExpr) bool {
	if len(conv.Args) == 1 {
		unit := ts.Unit()
		if match.ClassifyConversion(unit.TypeOf(conv.Args[0]), unit.TypeOf(conv.Fun)) == match.ConversionNone {
			return false
		}
	}

	return ts.Base.NeedsTypeCast(conv)
}

func (ts *TypeScript) substituteBuiltin(name string, call *ast.CallExpr) bool {
	unit := ts.Unit()
	args := call.Args

	switch name {
	case "len", "cap":
		switch under(unit.TypeOf(args[0])).(type) {
		case *types.Map:
			ts.printOperand(args[0])
			ts.Print(".size")
		case *types.Basic, *types.Slice, *types.Array, *types.Pointer:
			ts.printOperand(args[0])
			ts.Print(".length")
		default:
			return false
		}

	case "append":
		ts.printAppend(call)

	case "delete":
		ts.printOperand(args[0])
		ts.Print(".delete(").PrintNode(args[1]).Print(")")

	case "clear":
		if _, isMap := under(unit.TypeOf(args[0])).(*types.Map); !isMap {
			return false
		}

		ts.printOperand(args[0])
		ts.Print(".clear()")

	case "make":
		return ts.printMake(call)

	case "new":
		ts.Print(zeroLiteral(ts.Base, unit.TypeOf(args[0])))

	case "min", "max":
		if !match.IsNumericType(unit.TypeOf(call)) {
			return false
		}

		ts.Print("Math." + name + "(").PrintArgList(args).Print(")")

	case "panic":
		ts.Print("(() => { throw ")

		if t := unit.TypeOf(args[0]); t != nil && types.Implements(t, errorType.Underlying().(*types.Interface)) {
			ts.PrintNode(args[0])
		} else {
			ts.Print("new Error(String(").PrintNode(args[0]).Print("))")
		}

		ts.Print(" })()")

	case "print", "println":
		ts.Print("console.log(").PrintArgList(args).Print(")")

	default:
		return false
	}

	return true
}

func (ts *TypeScript) printAppend(call *ast.CallExpr) {
	unit := ts.Unit()
	args := call.Args
	bytes := match.IsByteSlice(unit.TypeOf(call))

	if bytes {
		ts.Print("new Uint8Array(")
	}

	ts.Print("[...")
	ts.printOperand(args[0])

	for i, arg := range args[1:] {
		ts.Print(", ")

		if call.Ellipsis.IsValid() && i == len(args)-2 {
			ts.Print("...")

			if match.IsStringType(unit.TypeOf(arg)) {
				ts.Print("new TextEncoder().encode(").PrintNode(arg).Print(")")
				continue
			}

			ts.printOperand(arg)

			continue
		}

		ts.PrintNode(arg)
	}

	ts.Print("]")

	if bytes {
		ts.Print(")")
	}
}

func (ts *TypeScript) printMake(call *ast.CallExpr) bool {
	t := ts.Unit().TypeOf(call.Args[0])

	switch u := under(t).(type) {
	case *types.Map:
		ts.Print("new ").PrintNode(call.Args[0]).Print("()")

	case *types.Slice:
		if len(call.Args) < 2 {
			return false
		}

		if match.IsByteSlice(t) {
			ts.Print("new Uint8Array(").PrintNode(call.Args[1]).Print(")")
			return true
		}

		ts.Print("Array.from({ length: ").PrintNode(call.Args[1]).Print(" }, () => " + zeroLiteral(ts.Base, u.Elem()) + ")")

	default:
		return false
	}

	return true
}

// SubstituteArrayAccess reads map elements with get, falling back to the
// zero value of the element type.
func (ts *TypeScript) SubstituteArrayAccess(expr *ast.IndexExpr) bool {
	m, ok := under(ts.Unit().TypeOf(expr.X)).(*types.Map)
	if !ok || ts.isAssignTarget(expr) {
		return ts.Base.SubstituteArrayAccess(expr)
	}

	ts.printMapGet(expr, m)

	return true
}

func (ts *TypeScript) printMapGet(expr *ast.IndexExpr, m *types.Map) {
	ts.Print("(")
	ts.printOperand(expr.X)
	ts.Print(".get(").PrintNode(expr.Index).Print(") ?? " + zeroLiteral(ts.Base, m.Elem()) + ")")
}

func (ts *TypeScript) isAssignTarget(expr *ast.IndexExpr) bool {
	switch parent := ts.ParentNode().(type) {
	case *ast.AssignStmt:
		return slices.Contains(parent.Lhs, ast.Expr(expr))
	case *ast.IncDecStmt:
		return parent.X == ast.Expr(expr)
	default:
		return false
	}
}

// SubstituteAssignment writes map elements with set and prints the
// comma-ok form of map reads.
func (ts *TypeScript) SubstituteAssignment(assign *ast.AssignStmt) bool {
	if ts.assignMapElement(assign) || ts.assignCommaOk(assign) {
		return true
	}

	return ts.Base.SubstituteAssignment(assign)
}

func (ts *TypeScript) assignMapElement(assign *ast.AssignStmt) bool {
	if len(assign.Lhs) != 1 || len(assign.Rhs) != 1 {
		return false
	}

	ix, m := ts.mapIndex(assign.Lhs[0])
	if ix == nil {
		return false
	}

	value := assign.Rhs[0]

	ts.printOperand(ix.X)
	ts.Print(".set(").PrintNode(ix.Index).Print(", ")

	switch assign.Tok {
	case token.ASSIGN:
		if !ts.SubstituteAssignedExpression(m.Elem(), value) {
			ts.PrintNode(value)
		}

	case token.QUO_ASSIGN:
		if match.IsIntegerType(m.Elem()) {
			ts.Print("Math.trunc(")
			ts.printMapGet(ix, m)
			ts.Print(" / ")
			ts.printOperand(value)
			ts.Print(")")

			break
		}

		ts.printMapGet(ix, m)
		ts.Print(" / ")
		ts.printOperand(value)

	case token.AND_NOT_ASSIGN:
		ts.printMapGet(ix, m)
		ts.Print(" & ~")
		ts.printOperand(value)

	default:
		ts.printMapGet(ix, m)
		ts.Print(" " + strings.TrimSuffix(assign.Tok.String(), "=") + " ")
		ts.printOperand(value)
	}

	ts.Print(")")

	return true
}

func (ts *TypeScript) assignCommaOk(assign *ast.AssignStmt) bool {
	if len(assign.Lhs) != 2 || len(assign.Rhs) != 1 {
		return false
	}

	ix, m := ts.mapIndex(assign.Rhs[0])
	if ix == nil {
		return false
	}

	prefix := ""
	if assign.Tok == token.DEFINE {
		if !ts.allDefined(assign.Lhs) {
			return false
		}

		prefix = "let "
	}

	value, ok := assign.Lhs[0], assign.Lhs[1]
	sep := prefix

	if !isBlank(value) {
		ts.Print(sep).PrintNode(value).Print(" = ")
		ts.printMapGet(ix, m)

		sep = ", "
	}

	if !isBlank(ok) {
		ts.Print(sep).PrintNode(ok).Print(" = ")
		ts.printOperand(ix.X)
		ts.Print(".has(").PrintNode(ix.Index).Print(")")

		return true
	}

	if sep == prefix {
		// both blank
		ts.printOperand(ix.X)
		ts.Print(".has(").PrintNode(ix.Index).Print(")")
	}

	return true
}

func (ts *TypeScript) allDefined(lhs []ast.Expr) bool {
	info := ts.Unit().Info

	for _, e := range lhs {
		id, ok := e.(*ast.Ident)
		if !ok {
			return false
		}

		if id.Name != "_" && info.Defs[id] == nil {
			return false
		}
	}

	return true
}

func (ts *TypeScript) mapIndex(e ast.Expr) (*ast.IndexExpr, *types.Map) {
	ix, ok := ast.Unparen(e).(*ast.IndexExpr)
	if !ok {
		return nil, nil
	}

	m, ok := under(ts.Unit().TypeOf(ix.X)).(*types.Map)
	if !ok {
		return nil, nil
	}

	return ix, m
}

// SubstituteInstanceof tests predeclared and builtin types with typeof,
// Array.isArray and instanceof.
func (ts *TypeScript) SubstituteInstanceof(exprStr string, expr ast.Expr, t types.Type) bool {
	subject := func() {
		if exprStr != "" {
			ts.Print(exprStr)
			return
		}

		ts.printOperand(expr)
	}

	if types.Identical(t, errorType) {
		subject()
		ts.Print(" instanceof Error")

		return true
	}

	switch u := under(t).(type) {
	case *types.Basic:
		kind := ""

		switch {
		case u.Info()&types.IsString != 0:
			kind = "string"
		case u.Info()&types.IsNumeric != 0:
			kind = "number"
		case u.Info()&types.IsBoolean != 0:
			kind = "boolean"
		default:
			return ts.Base.SubstituteInstanceof(exprStr, expr, t)
		}

		ts.Print("typeof ")
		subject()
		ts.Print(` === "` + kind + `"`)

	case *types.Slice:
		if match.IsByteSlice(t) {
			subject()
			ts.Print(" instanceof Uint8Array")

			return true
		}

		ts.Print("Array.isArray(")
		subject()
		ts.Print(")")

	case *types.Map:
		subject()
		ts.Print(" instanceof Map")

	case *types.Struct:
		target, mapped := ts.Context().MapType(nil, t)
		if !mapped {
			return ts.Base.SubstituteInstanceof(exprStr, expr, t)
		}

		subject()
		ts.Print(" instanceof " + target)

	default:
		return ts.Base.SubstituteInstanceof(exprStr, expr, t)
	}

	return true
}

// SubstituteAssignedExpression copies struct values stored into a new
// location.
func (ts *TypeScript) SubstituteAssignedExpression(assigned types.Type, expr ast.Expr) bool {
	named, ok := types.Unalias(assigned).(*types.Named)
	if !ok || !ts.copiesOnAssign(named) {
		return ts.Base.SubstituteAssignedExpression(assigned, expr)
	}

	switch ast.Unparen(expr).(type) {
	case *ast.Ident, *ast.SelectorExpr, *ast.IndexExpr, *ast.StarExpr:
	default:
		return ts.Base.SubstituteAssignedExpression(assigned, expr)
	}

	ts.Print("new " + ts.RootRelativeName(named.Obj()) + "({ ...").PrintNode(expr).Print(" })")

	return true
}

// copiesOnAssign reports whether named prints as a class declared by the
// program.
func (ts *TypeScript) copiesOnAssign(named *types.Named) bool {
	if _, isStruct := named.Underlying().(*types.Struct); !isStruct {
		return false
	}

	obj := named.Obj()
	if obj.Pkg() == nil || isStdlib(obj.Pkg().Path()) {
		return false
	}

	if ts.IsMappedType(analyze.QualifiedName(named)) {
		return false
	}

	return !ts.Context().HasAnnotation(obj, adapter.AnnotationErased)
}

// SubstituteNewObject prints byte slice literals as Uint8Array.
func (ts *TypeScript) SubstituteNewObject(obj adapter.NewObject) bool {
	if !match.IsByteSlice(ts.Unit().TypeOf(obj.Lit)) {
		return ts.Base.SubstituteNewObject(obj)
	}

	for _, elt := range obj.Lit.Elts {
		if _, keyed := elt.(*ast.KeyValueExpr); keyed {
			return ts.Base.SubstituteNewObject(obj)
		}
	}

	ts.Print("new Uint8Array([").PrintArgList(obj.Lit.Elts).Print("])")

	return true
}

// SubstituteForEachLoop ranges over the code points of a string when only
// the values are used.
func (ts *TypeScript) SubstituteForEachLoop(loop *ast.RangeStmt, targetHasLength bool, indexVar string) bool {
	value, ok := loop.Value.(*ast.Ident)
	if !ok || isBlank(value) || (loop.Key != nil && !isBlank(loop.Key)) || !match.IsStringType(ts.Unit().TypeOf(loop.X)) {
		return ts.Base.SubstituteForEachLoop(loop, targetHasLength, indexVar)
	}

	decl := "const "
	if loop.Tok != token.DEFINE {
		decl = ""
	}

	ts.Print("for (const " + indexVar + " of ").PrintNode(loop.X).Print(") {\n")
	ts.StartIndent()
	ts.PrintIndent().Print(decl).PrintNode(value).Print(" = " + indexVar + ".codePointAt(0)!;\n")

	for _, stmt := range loop.Body.List {
		ts.PrintNode(stmt)
	}

	ts.EndIndent()
	ts.PrintIndent().Print("}")

	return true
}

// printOperand prints x, parenthesized unless it is a primary expression.
func (ts *TypeScript) printOperand(x ast.Expr) {
	switch x.(type) {
	case *ast.Ident, *ast.SelectorExpr, *ast.CallExpr, *ast.IndexExpr, *ast.ParenExpr,
		*ast.BasicLit, *ast.CompositeLit, *ast.StarExpr:
		ts.PrintNode(x)
	default:
		ts.Print("(").PrintNode(x).Print(")")
	}
}

// zeroLiteral renders the zero value of t.
func zeroLiteral(b *adapter.Base, t types.Type) string {
	switch u := under(t).(type) {
	case *types.Basic:
		switch {
		case u.Info()&types.IsBoolean != 0:
			return "false"
		case u.Info()&types.IsString != 0:
			return `""`
		case u.Info()&types.IsNumeric != 0:
			return "0"
		}

	case *types.Slice:
		if match.IsByteSlice(t) {
			return "new Uint8Array()"
		}

		return "[]"

	case *types.Map:
		return "new Map()"

	case *types.Struct:
		named, ok := types.Unalias(t).(*types.Named)
		if !ok {
			return "{}"
		}

		if target := b.TypeMappingTarget(analyze.QualifiedName(named)); target != "" {
			return "new " + target + "()"
		}

		if named.Obj().Pkg() != nil && !isStdlib(named.Obj().Pkg().Path()) {
			return "new " + b.RootRelativeName(named.Obj()) + "()"
		}
	}

	return "null"
}

func under(t types.Type) types.Type {
	if t == nil {
		return nil
	}

	return t.Underlying()
}

func isBlank(e ast.Expr) bool {
	id, ok := e.(*ast.Ident)
	return ok && id.Name == "_"
}

var stdlibPaths sync.Map

// isStdlib reports whether path is a standard library package, i.e. a
// directory of GOROOT/src.
func isStdlib(path string) bool {
	if path == "" {
		return false
	}

	if known, ok := stdlibPaths.Load(path); ok {
		return known.(bool)
	}

	first, _, _ := strings.Cut(path, "/")
	found := false

	if !strings.Contains(first, ".") {
		info, err := os.Stat(filepath.Join(build.Default.GOROOT, "src", filepath.FromSlash(path)))
		found = err == nil && info.IsDir()
	}

	stdlibPaths.Store(path, found)

	return found
}

// mergeErased returns the union of the parent's erased set and names.
func mergeErased(parent adapter.Adapter, names ...string) (map[string]struct{}, error) {
	inherited, err := parent.ErasedTypes()
	if err != nil {
		return nil, err
	}

	erased := maps.Clone(inherited)
	if erased == nil {
		erased = make(map[string]struct{}, len(names))
	}

	for _, name := range names {
		erased[name] = struct{}{}
	}

	return erased, nil
}
