package printer

import (
	"go/ast"
	"go/constant"
	"go/token"
	"go/types"
	"slices"
	"strconv"
	"strings"

	"go2ts/internal/adapter"
	"go2ts/internal/common"
	"go2ts/internal/diagnostic"
)

func (p *Printer) printDecl(d ast.Decl) {
	p.push(d)
	defer p.pop()

	switch d := d.(type) {
	case *ast.GenDecl:
		switch d.Tok {
		case token.IMPORT:
			// rendered in the header

		case token.TYPE:
			for _, spec := range d.Specs {
				p.printTypeSpec(d, spec.(*ast.TypeSpec))
			}

		case token.VAR, token.CONST:
			printed := false
			for _, spec := range d.Specs {
				if p.printValueSpec(d, spec.(*ast.ValueSpec), adapter.VariableGlobal) {
					printed = true
				}
			}

			if printed {
				p.Print("\n")
			}
		}

	case *ast.FuncDecl:
		if d.Recv == nil {
			p.printFunc(d)
			return
		}

		if name := receiverTypeName(d); p.siblingMethods[name] != nil {
			p.printSiblingMethod(name, d)
			return
		}

		p.printDetachedMethod(d)

	default:
		p.Report(d, diagnostic.KindUnsupportedNode, nodeName(d))
	}
}

func (p *Printer) exportPrefix(obj types.Object) string {
	if p.config.ExportAll || obj.Exported() {
		return "export "
	}

	return ""
}

// isErasedDecl reports whether obj carries the Erased annotation.
func (p *Printer) isErasedDecl(node ast.Node, obj types.Object) bool {
	if obj == nil || !p.adapter.Context().HasAnnotation(obj, adapter.AnnotationErased) {
		return false
	}

	p.Report(node, diagnostic.KindErasedDeclaration, obj.Name())

	return true
}

func (p *Printer) printDoc(node ast.Node, doc *ast.CommentGroup) {
	text := ""
	if doc != nil {
		text = strings.TrimRight(doc.Text(), "\n")
	}

	text = p.adapter.AdaptDocComment(node, text)
	if strings.TrimSpace(text) == "" {
		return
	}

	p.println("/**")

	for _, line := range strings.Split(text, "\n") {
		if line == "" {
			p.println(" *")
			continue
		}

		p.println(" * " + line)
	}

	p.println(" */")
}

func (p *Printer) isErasedTypeParam(tp *types.TypeParam) bool {
	return p.adapter.Flags().IsTypeVariableErased(tp) || p.adapter.Context().IsErasedTypeVariable(tp)
}

func (p *Printer) printTypeParams(list *types.TypeParamList) {
	if list == nil {
		return
	}

	var names []string
	for i := 0; i < list.Len(); i++ {
		if tp := list.At(i); !p.isErasedTypeParam(tp) {
			names = append(names, tp.Obj().Name())
		}
	}

	if len(names) == 0 {
		return
	}

	p.Print("<" + strings.Join(names, ", ") + ">")
}

// typeSetParams returns the type parameters constrained by type sets
// (~int | ~float64, comparable). Their values cannot be typed precisely in
// TypeScript.
func typeSetParams(list *types.TypeParamList) []*types.TypeParam {
	var params []*types.TypeParam

	for i := 0; i < list.Len(); i++ {
		tp := list.At(i)
		if iface, ok := tp.Constraint().Underlying().(*types.Interface); ok && !iface.IsMethodSet() {
			params = append(params, tp)
		}
	}

	return params
}

func (p *Printer) printTypeSpec(gd *ast.GenDecl, ts *ast.TypeSpec) {
	obj, _ := p.unit.ObjectOf(ts.Name).(*types.TypeName)
	if obj == nil || p.isErasedDecl(ts, obj) {
		return
	}

	p.push(ts)
	defer p.pop()

	doc := ts.Doc
	if doc == nil && len(gd.Specs) == 1 {
		doc = gd.Doc
	}

	p.printDoc(ts, doc)

	name := p.adapter.Identifier(obj)
	export := p.exportPrefix(obj)

	named, ok := obj.Type().(*types.Named)
	if ts.Assign.IsValid() || !ok {
		p.PrintIndent()
		p.Print(export + "type " + name + " = ")
		p.printType(ts.Type, nil)
		p.Print(";\n\n")

		return
	}

	switch u := named.Underlying().(type) {
	case *types.Struct:
		p.printClass(ts, named, u, name, export)

	case *types.Interface:
		p.printInterface(ts, named, u, name, export)

	default:
		p.PrintIndent()
		p.Print(export + "type " + name)
		p.printTypeParams(named.TypeParams())
		p.Print(" = ")
		p.printType(ts.Type, u)
		p.Print(";\n\n")
	}
}

func (p *Printer) printClass(ts *ast.TypeSpec, named *types.Named, st *types.Struct, name, export string) {
	flags := p.adapter.Flags()
	embeds := adapter.ClassifyEmbeds(p.adapter, ts, st)

	for _, e := range embeds.Erased {
		p.Report(ts, diagnostic.KindErasedDeclaration, name+"."+e.Name())
	}

	p.PrintIndent()
	p.Print(export + "class " + name)
	p.printTypeParams(named.TypeParams())

	if embeds.Super != nil {
		p.Print(" extends ")
		func() {
			defer flags.DisableTypeSubstitution(!p.adapter.IsSubstituteSuperTypes())()
			p.printType(nil, adapter.EmbeddedNamed(embeds.Super))
		}()
	}

	p.Print(" {\n")
	p.StartIndent()

	astFields := structFields(ts.Type)

	for i := 0; i < st.NumFields(); i++ {
		f := st.Field(i)
		if embeds.IsSuper(f) || slices.Contains(embeds.Erased, f) {
			continue
		}

		field := astFields[f.Name()]

		var node ast.Node = ts
		if field != nil {
			node = field
		}

		if p.isErasedDecl(node, f) {
			continue
		}

		if field != nil {
			p.printDoc(field, field.Doc)
		}

		var typeExpr ast.Expr
		if field != nil && !f.Embedded() {
			typeExpr = field.Type
		}

		p.PrintIndent()
		p.Print(p.adapter.Identifier(f) + ": ")
		p.printType(typeExpr, f.Type())
		p.Print(" = " + p.zeroValue(f.Type()) + ";\n")
	}

	if st.NumFields() > 0 {
		p.Print("\n")
	}

	self := name
	if tps := named.TypeParams(); tps != nil && tps.Len() > 0 {
		self = p.capture(func() {
			p.Print(name)
			p.printTypeParams(tps)
		})
	}

	p.println("constructor(init?: Partial<" + self + ">) {")
	p.StartIndent()

	if embeds.Super != nil {
		p.println("super(init);")
	}

	p.println("Object.assign(this, init);")
	p.EndIndent()
	p.println("}")

	for _, m := range p.methods[ts.Name.Name] {
		p.Print("\n")
		p.printMethod(m)
	}

	p.EndIndent()
	p.println("}")
	p.Print("\n")
}

func (p *Printer) printInterface(ts *ast.TypeSpec, named *types.Named, iface *types.Interface, name, export string) {
	if !iface.IsMethodSet() {
		p.PrintIndent()
		p.Print(export + "type " + name)
		p.printTypeParams(named.TypeParams())
		p.Print(" = ")
		p.printTypeSetUnion(iface)
		p.Print(";\n\n")

		return
	}

	flags := p.adapter.Flags()

	p.PrintIndent()
	p.Print(export + "interface " + name)
	p.printTypeParams(named.TypeParams())

	var supers []*types.Named

	for i := 0; i < iface.NumEmbeddeds(); i++ {
		super, ok := types.Unalias(iface.EmbeddedType(i)).(*types.Named)
		if !ok {
			continue
		}

		if p.adapter.EraseSuperInterface(ts, super) {
			p.Report(ts, diagnostic.KindErasedDeclaration, name+"."+super.Obj().Name())
			continue
		}

		supers = append(supers, super)
	}

	if len(supers) > 0 {
		p.Print(" extends ")
		func() {
			defer flags.DisableTypeSubstitution(!p.adapter.IsSubstituteSuperTypes())()

			for i, super := range supers {
				if i > 0 {
					p.Print(", ")
				}

				p.printType(nil, super)
			}
		}()
	}

	p.Print(" {\n")
	p.StartIndent()

	if it, ok := ts.Type.(*ast.InterfaceType); ok {
		for _, field := range it.Methods.List {
			for _, id := range field.Names {
				fn, ok := p.unit.ObjectOf(id).(*types.Func)
				if !ok || p.isErasedDecl(field, fn) {
					continue
				}

				p.printDoc(field, field.Doc)
				p.PrintIndent()
				p.Print(p.adapter.Identifier(fn))

				ft, _ := field.Type.(*ast.FuncType)
				p.printSignatureTail(ft, fn.Type().(*types.Signature))
				p.Print(";\n")
			}
		}
	}

	p.EndIndent()
	p.println("}")
	p.Print("\n")
}

func (p *Printer) printTypeSetUnion(iface *types.Interface) {
	var terms []types.Type

	for i := 0; i < iface.NumEmbeddeds(); i++ {
		switch e := iface.EmbeddedType(i).(type) {
		case *types.Union:
			for j := 0; j < e.Len(); j++ {
				terms = append(terms, e.Term(j).Type())
			}
		default:
			terms = append(terms, e)
		}
	}

	if len(terms) == 0 {
		p.Print(common.AnyTypeStr)
		return
	}

	for i, t := range terms {
		if i > 0 {
			p.Print(" | ")
		}

		p.printType(nil, t)
	}
}

func (p *Printer) printFunc(fn *ast.FuncDecl) {
	obj, _ := p.unit.ObjectOf(fn.Name).(*types.Func)
	if obj == nil || p.isErasedDecl(fn, obj) {
		return
	}

	sig := obj.Type().(*types.Signature)

	if fn.Name.Name == "init" {
		p.PrintIndent()
		p.Print("(function init() ")
		p.printFuncBody(fn.Body, sig, "")
		p.Print(")();\n\n")

		return
	}

	defer p.adapter.Flags().EraseTypeVariables(typeSetParams(sig.TypeParams())...)()

	p.printDoc(fn, fn.Doc)
	p.PrintIndent()
	p.Print(p.exportPrefix(obj) + "function " + p.adapter.Identifier(obj))
	p.printTypeParams(sig.TypeParams())
	p.printSignatureTail(fn.Type, sig)
	p.Print(" ")
	p.printFuncBody(fn.Body, sig, "")
	p.Print("\n\n")

	if fn.Name.Name == "main" && p.unit.Pkg.Name() == "main" {
		p.Print("main();\n\n")
	}
}

// printMethod prints a struct method inside its class.
func (p *Printer) printMethod(fn *ast.FuncDecl) {
	obj, _ := p.unit.ObjectOf(fn.Name).(*types.Func)
	if obj == nil || p.isErasedDecl(fn, obj) {
		return
	}

	p.push(fn)
	defer p.pop()

	sig := obj.Type().(*types.Signature)

	p.printDoc(fn, fn.Doc)
	p.PrintIndent()
	p.Print(p.adapter.Identifier(obj))
	p.printSignatureTail(fn.Type, sig)
	p.Print(" ")
	p.printFuncBody(fn.Body, sig, p.receiverName(sig))
	p.Print("\n")
}

// printSiblingMethod prints a method whose struct is declared in another
// file of the package. The first such method of a type augments the class
// with the signatures of all of them; each method is then assigned to the
// class prototype.
func (p *Printer) printSiblingMethod(typeName string, fn *ast.FuncDecl) {
	obj, _ := p.unit.ObjectOf(fn.Name).(*types.Func)
	if obj == nil {
		return
	}

	sig := obj.Type().(*types.Signature)

	recv := receiverNamed(sig)
	if recv == nil {
		return
	}

	class := p.adapter.Identifier(recv.Obj())
	p.noteSibling(recv.Obj(), class)

	if !p.augmented[typeName] {
		p.augmented[typeName] = true
		p.printAugmentation(recv, class, p.siblingMethods[typeName])
	}

	if p.isErasedDecl(fn, obj) {
		return
	}

	p.printDoc(fn, fn.Doc)
	p.PrintIndent()
	p.Print(class + ".prototype." + p.adapter.Identifier(obj) + " = function ")
	p.printTypeParams(sig.RecvTypeParams())

	self := p.capture(func() { p.printType(nil, recv) })
	tail := p.capture(func() { p.printSignatureTail(fn.Type, sig) })

	p.Print("(this: " + self)
	if sig.Params().Len() > 0 {
		p.Print(", ")
	}

	p.Print(strings.TrimPrefix(tail, "("))
	p.Print(" ")
	p.printFuncBody(fn.Body, sig, p.receiverName(sig))
	p.Print(";\n\n")
}

// printAugmentation declares the methods fns on the class of recv through
// a module augmentation of the file declaring it.
func (p *Printer) printAugmentation(recv *types.Named, class string, fns []*ast.FuncDecl) {
	module := p.siblingModule(recv.Obj().Pos())
	if module == "" {
		return
	}

	p.println("declare module " + quote(module) + " {")
	p.StartIndent()
	p.PrintIndent()
	p.Print("interface " + class)
	p.printTypeParams(recv.Origin().TypeParams())
	p.Print(" {\n")
	p.StartIndent()

	for _, fn := range fns {
		obj, _ := p.unit.ObjectOf(fn.Name).(*types.Func)
		if obj == nil || p.adapter.Context().HasAnnotation(obj, adapter.AnnotationErased) {
			continue
		}

		p.PrintIndent()
		p.Print(p.adapter.Identifier(obj))
		p.printSignatureTail(fn.Type, obj.Type().(*types.Signature))
		p.Print(";\n")
	}

	p.EndIndent()
	p.println("}")
	p.EndIndent()
	p.println("}")
	p.Print("\n")
}

// printDetachedMethod prints a method that cannot live in a class body as
// a free function taking the receiver first.
func (p *Printer) printDetachedMethod(fn *ast.FuncDecl) {
	obj, _ := p.unit.ObjectOf(fn.Name).(*types.Func)
	if obj == nil {
		return
	}

	sig := obj.Type().(*types.Signature)

	recv := receiverNamed(sig)
	if recv == nil {
		p.Report(fn, diagnostic.KindUnsupportedNode, "method on unnamed receiver")
		return
	}

	if _, isStruct := recv.Underlying().(*types.Struct); isStruct {
		if p.localTypes[recv.Obj().Name()] {
			// printed inside the class
			return
		}

		p.Report(fn, diagnostic.KindUnsupportedNode, "method declared apart from its struct "+recv.Obj().Name())
	}

	if p.isErasedDecl(fn, obj) {
		return
	}

	p.printDoc(fn, fn.Doc)
	p.PrintIndent()
	p.Print(p.exportPrefix(obj) + "function " + p.adapter.Identifier(recv.Obj()) + "$" + p.adapter.Identifier(obj))
	p.printTypeParams(sig.RecvTypeParams())

	recvName := p.receiverName(sig)
	if recvName == "" {
		recvName = "_recv"
	}

	p.Print("(" + recvName + ": ")
	p.printType(nil, sig.Recv().Type())

	if sig.Params().Len() > 0 {
		p.Print(", ")
	}

	tail := p.capture(func() { p.printSignatureTail(fn.Type, sig) })
	p.Print(strings.TrimPrefix(tail, "("))
	p.Print(" ")
	p.printFuncBody(fn.Body, sig, "")
	p.Print("\n\n")
}

func (p *Printer) receiverName(sig *types.Signature) string {
	recv := sig.Recv()
	if recv == nil || recv.Name() == "" || recv.Name() == "_" {
		return ""
	}

	return p.adapter.Identifier(recv)
}

// printSignatureTail prints "(params): results".
func (p *Printer) printSignatureTail(ft *ast.FuncType, sig *types.Signature) {
	var exprs []ast.Expr
	if ft != nil {
		exprs = fieldTypes(ft.Params)
	}

	p.Print("(")

	params := sig.Params()
	for i := 0; i < params.Len(); i++ {
		if i > 0 {
			p.Print(", ")
		}

		v := params.At(i)
		name := p.paramName(v, i)

		if sig.Variadic() && i == params.Len()-1 {
			p.Print("..." + name + ": ")
			p.printType(nil, v.Type())

			continue
		}

		var expr ast.Expr
		if i < len(exprs) {
			expr = exprs[i]
		}

		p.Print(name + ": ")
		p.printType(expr, v.Type())
	}

	p.Print("): ")
	p.printResultType(sig.Results())
}

func (p *Printer) paramName(v *types.Var, i int) string {
	if v.Name() == "" || v.Name() == "_" {
		return "_p" + strconv.Itoa(i)
	}

	return p.adapter.Identifier(v)
}

func (p *Printer) printResultType(results *types.Tuple) {
	switch results.Len() {
	case 0:
		p.Print("void")
	case 1:
		p.printType(nil, results.At(0).Type())
	default:
		p.printType(nil, results)
	}
}

// printFuncBody prints a function body. recv, when set, is bound to this.
func (p *Printer) printFuncBody(body *ast.BlockStmt, sig *types.Signature, recv string) {
	if body == nil {
		p.Print("{}")
		return
	}

	p.funcs = append(p.funcs, sig)
	defer func() { p.funcs = p.funcs[:len(p.funcs)-1] }()

	p.Print("{\n")
	p.StartIndent()

	if recv != "" {
		p.println("const " + recv + " = this;")
	}

	results := sig.Results()
	for i := 0; i < results.Len(); i++ {
		r := results.At(i)
		if r.Name() == "" || r.Name() == "_" {
			continue
		}

		p.PrintIndent()
		p.Print("let " + p.adapter.Identifier(r) + ": ")
		p.printType(nil, r.Type())
		p.Print(" = " + p.zeroValue(r.Type()) + ";\n")
	}

	p.push(body)
	for _, stmt := range body.List {
		p.printStmt(stmt)
	}
	p.pop()

	p.EndIndent()
	p.PrintIndent()
	p.Print("}")
}

// printValueSpec prints a var or const spec and reports whether anything
// was printed.
func (p *Printer) printValueSpec(gd *ast.GenDecl, spec *ast.ValueSpec, kind adapter.VariableKind) bool {
	if !p.adapter.NeedsVariableDecl(spec, kind) {
		return false
	}

	p.push(spec)
	defer p.pop()

	objs := make([]types.Object, len(spec.Names))
	kept := 0

	for i, id := range spec.Names {
		objs[i] = p.unit.ObjectOf(id)
		if id.Name != "_" && !p.isErasedDecl(id, objs[i]) {
			kept++
		}
	}

	if kept == 0 && gd.Tok == token.CONST {
		return false
	}

	doc := spec.Doc
	if doc == nil && len(gd.Specs) == 1 {
		doc = gd.Doc
	}

	if kind == adapter.VariableGlobal {
		p.printDoc(spec, doc)
	}

	prefix := "let "
	if kind == adapter.VariableGlobal && kept > 0 {
		prefix = p.exportPrefix(objs[0]) + prefix
	}

	if gd.Tok == token.VAR && len(spec.Values) == 1 && len(spec.Names) > 1 {
		p.PrintIndent()
		p.Print(prefix + "[" + p.destructuringNames(spec.Names) + "] = ")
		p.printExpr(spec.Values[0])
		p.Print(";\n")

		return true
	}

	for i, id := range spec.Names {
		obj := objs[i]
		if id.Name == "_" || obj == nil || p.adapter.Context().HasAnnotation(obj, adapter.AnnotationErased) {
			if id.Name == "_" && i < len(spec.Values) {
				p.PrintIndent()
				p.printExpr(spec.Values[i])
				p.Print(";\n")
			}

			continue
		}

		name := p.adapter.Identifier(obj)

		if c, ok := obj.(*types.Const); ok {
			p.printConst(c, name, kind)
			continue
		}

		p.PrintIndent()
		if kind == adapter.VariableGlobal {
			p.Print(p.exportPrefix(obj))
		}

		p.Print("let " + name + ": ")
		p.printType(spec.Type, obj.Type())
		p.Print(" = ")

		if i < len(spec.Values) {
			p.printAssigned(obj.Type(), spec.Values[i])
		} else {
			p.Print(p.zeroValue(obj.Type()))
		}

		p.Print(";\n")
	}

	return true
}

func (p *Printer) printConst(c *types.Const, name string, kind adapter.VariableKind) {
	p.PrintIndent()

	if kind == adapter.VariableGlobal {
		p.Print(p.exportPrefix(c))
	}

	p.Print("const " + name)

	if b, ok := c.Type().(*types.Basic); !ok || b.Info()&types.IsUntyped == 0 {
		p.Print(": ")
		p.printType(nil, c.Type())
	}

	p.Print(" = " + constantLiteral(c.Val()) + ";\n")
}

func (p *Printer) destructuringNames(names []*ast.Ident) string {
	parts := make([]string, len(names))

	for i, id := range names {
		if id.Name == "_" {
			continue
		}

		parts[i] = p.adapter.Identifier(p.unit.ObjectOf(id))
	}

	return strings.Join(parts, ", ")
}

func constantLiteral(v constant.Value) string {
	switch v.Kind() {
	case constant.String:
		return quote(constant.StringVal(v))
	case constant.Bool:
		return strconv.FormatBool(constant.BoolVal(v))
	case constant.Int:
		return v.ExactString()
	case constant.Float:
		f, _ := constant.Float64Val(v)
		return strconv.FormatFloat(f, 'g', -1, 64)
	default:
		return "undefined"
	}
}

// structFields indexes the fields of a struct type expression by field
// name; embedded fields are keyed by their type name.
func structFields(expr ast.Expr) map[string]*ast.Field {
	fields := make(map[string]*ast.Field)

	st, ok := expr.(*ast.StructType)
	if !ok {
		return fields
	}

	for _, f := range st.Fields.List {
		if len(f.Names) == 0 {
			if name := embeddedName(f.Type); name != "" {
				fields[name] = f
			}

			continue
		}

		for _, id := range f.Names {
			fields[id.Name] = f
		}
	}

	return fields
}

func embeddedName(expr ast.Expr) string {
	for {
		switch e := expr.(type) {
		case *ast.StarExpr:
			expr = e.X
		case *ast.SelectorExpr:
			return e.Sel.Name
		case *ast.IndexExpr:
			expr = e.X
		case *ast.IndexListExpr:
			expr = e.X
		case *ast.Ident:
			return e.Name
		default:
			return ""
		}
	}
}

// fieldTypes expands a field list into one type expression per entry.
func fieldTypes(list *ast.FieldList) []ast.Expr {
	if list == nil {
		return nil
	}

	var exprs []ast.Expr

	for _, f := range list.List {
		n := len(f.Names)
		if n == 0 {
			n = 1
		}

		for range n {
			exprs = append(exprs, f.Type)
		}
	}

	return exprs
}

func receiverNamed(sig *types.Signature) *types.Named {
	if sig.Recv() == nil {
		return nil
	}

	t := types.Unalias(sig.Recv().Type())
	if ptr, ok := t.(*types.Pointer); ok {
		t = types.Unalias(ptr.Elem())
	}

	named, _ := t.(*types.Named)

	return named
}
