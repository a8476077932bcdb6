package printer

import (
	"bytes"
	"encoding/json"
	"go/ast"
	"go/constant"
	"go/token"
	"go/types"
	"strconv"
	"strings"

	"go2ts/internal/adapter"
	"go2ts/internal/diagnostic"
)

func (p *Printer) printExpr(e ast.Expr) {
	p.push(e)
	defer p.pop()

	switch e := e.(type) {
	case *ast.Ident:
		p.printIdent(e)

	case *ast.BasicLit:
		p.printBasicLit(e)

	case *ast.CompositeLit:
		if adapter.SubstituteCompositeLit(p.adapter, e) {
			return
		}

		p.printCompositeLit(e)

	case *ast.SelectorExpr:
		p.printSelector(e)

	case *ast.CallExpr:
		p.printCall(e)

	case *ast.IndexExpr:
		p.printIndex(e)

	case *ast.IndexListExpr:
		p.printInstantiation(e.X)

	case *ast.SliceExpr:
		p.printExpr(e.X)
		p.Print(".slice(")

		switch {
		case e.Low != nil:
			p.printExpr(e.Low)
		case e.High != nil:
			p.Print("0")
		}

		if e.High != nil {
			p.Print(", ")
			p.printExpr(e.High)
		}

		p.Print(")")

	case *ast.StarExpr:
		p.printExpr(e.X)

	case *ast.UnaryExpr:
		p.printUnary(e)

	case *ast.BinaryExpr:
		p.printBinary(e)

	case *ast.ParenExpr:
		p.Print("(")
		p.printExpr(e.X)
		p.Print(")")

	case *ast.FuncLit:
		sig, _ := p.unit.TypeOf(e).(*types.Signature)
		if sig == nil {
			p.Report(e, diagnostic.KindUnsupportedNode, "untyped function literal")
			p.Print("undefined")

			return
		}

		p.printSignatureTail(e.Type, sig)
		p.Print(" => ")
		p.printFuncBody(e.Body, sig, "")

	case *ast.TypeAssertExpr:
		p.Print("(")
		p.printExpr(e.X)
		p.Print(" as ")
		p.printType(e.Type, nil)
		p.Print(")")

	case *ast.KeyValueExpr:
		p.printExpr(e.Key)
		p.Print(": ")
		p.printExpr(e.Value)

	case *ast.ArrayType, *ast.MapType, *ast.FuncType, *ast.InterfaceType, *ast.StructType, *ast.ChanType:
		p.printType(e, nil)

	default:
		p.Report(e, diagnostic.KindUnsupportedNode, nodeName(e))
		p.Print("undefined")
	}
}

func (p *Printer) printIdent(id *ast.Ident) {
	if p.adapter.SubstituteIdentifier(id) {
		return
	}

	switch obj := p.unit.ObjectOf(id).(type) {
	case nil:
		p.Print(id.Name)

	case *types.Nil:
		p.Print("null")

	case *types.Builtin:
		p.Print(id.Name)

	case *types.Const:
		if obj.Pkg() == nil {
			// true, false and iota
			if tv, ok := p.unit.Info.Types[id]; ok && tv.Value != nil {
				p.Print(constantLiteral(tv.Value))
				return
			}

			p.Print(id.Name)

			return
		}

		p.printObjectRef(obj)

	case *types.TypeName:
		p.printType(id, nil)

	default:
		p.printObjectRef(obj)
	}
}

// printObjectRef prints a reference to a declared object.
func (p *Printer) printObjectRef(obj types.Object) {
	if obj.Pkg() != nil && obj.Parent() == obj.Pkg().Scope() {
		p.Print(p.RootRelativeName(obj))
		return
	}

	p.Print(p.adapter.Identifier(obj))
}

func (p *Printer) printBasicLit(lit *ast.BasicLit) {
	switch lit.Kind {
	case token.STRING:
		s, err := strconv.Unquote(lit.Value)
		if err != nil {
			p.Print(lit.Value)
			return
		}

		p.Print(quote(s))

	case token.CHAR:
		if tv, ok := p.unit.Info.Types[lit]; ok && tv.Value != nil {
			p.Print(tv.Value.ExactString())
			return
		}

		p.Print(lit.Value)

	case token.INT:
		v := lit.Value
		if len(v) > 1 && v[0] == '0' && v[1] >= '0' && v[1] <= '9' {
			v = "0o" + v[1:]
		}

		p.Print(v)

	case token.FLOAT:
		if strings.ContainsAny(lit.Value, "pP") {
			if tv, ok := p.unit.Info.Types[lit]; ok && tv.Value != nil {
				p.Print(constantLiteral(constant.ToFloat(tv.Value)))
				return
			}
		}

		p.Print(lit.Value)

	default:
		p.Report(lit, diagnostic.KindUnsupportedNode, "imaginary literal")
		p.Print("0")
	}
}

func (p *Printer) printCompositeLit(lit *ast.CompositeLit) {
	t := p.unit.TypeOf(lit)
	if t == nil {
		p.Report(lit, diagnostic.KindUnsupportedNode, "untyped composite literal")
		p.Print("undefined")

		return
	}

	switch u := t.Underlying().(type) {
	case *types.Struct:
		_, isNamed := types.Unalias(t).(*types.Named)
		if isNamed {
			p.Print("new ")
			p.printType(nil, t)
			p.Print("(")
		}

		if len(lit.Elts) > 0 || !isNamed {
			p.printStructFields(u, lit)
		}

		if isNamed {
			p.Print(")")
		}

	case *types.Slice, *types.Array:
		p.Print("[")

		for i, elt := range lit.Elts {
			if i > 0 {
				p.Print(", ")
			}

			if kv, ok := elt.(*ast.KeyValueExpr); ok {
				p.Report(kv, diagnostic.KindUnsupportedNode, "indexed array literal")
				elt = kv.Value
			}

			p.printExpr(elt)
		}

		p.Print("]")

	case *types.Map:
		p.Print("new ")
		p.printType(nil, u)
		p.Print("(")

		if len(lit.Elts) > 0 {
			p.Print("[")

			for i, elt := range lit.Elts {
				if i > 0 {
					p.Print(", ")
				}

				kv, ok := elt.(*ast.KeyValueExpr)
				if !ok {
					continue
				}

				p.Print("[")
				p.printExpr(kv.Key)
				p.Print(", ")
				p.printExpr(kv.Value)
				p.Print("]")
			}

			p.Print("]")
		}

		p.Print(")")

	default:
		p.Report(lit, diagnostic.KindUnsupportedNode, "composite literal of "+types.TypeString(t, nil))
		p.Print("undefined")
	}
}

// printStructFields prints the object literal initializing a struct. The
// extended embed is spread into the literal.
func (p *Printer) printStructFields(st *types.Struct, lit *ast.CompositeLit) {
	var embeds adapter.Embeds
	if named, ok := types.Unalias(p.unit.TypeOf(lit)).(*types.Named); ok {
		embeds = adapter.ClassifyEmbeds(p.adapter, nil, named.Underlying().(*types.Struct))
	}

	p.Print("{ ")

	for i, elt := range lit.Elts {
		if i > 0 {
			p.Print(", ")
		}

		var (
			field *types.Var
			value = elt
		)

		if kv, ok := elt.(*ast.KeyValueExpr); ok {
			value = kv.Value
			if id, ok := kv.Key.(*ast.Ident); ok {
				field, _ = p.unit.ObjectOf(id).(*types.Var)
			}
		} else if i < st.NumFields() {
			field = st.Field(i)
		}

		if field == nil {
			p.printExpr(elt)
			continue
		}

		if embeds.IsSuper(field) {
			p.Print("...")
			p.printExpr(value)

			continue
		}

		p.Print(p.adapter.Identifier(field) + ": ")
		p.printAssigned(field.Type(), value)
	}

	p.Print(" }")
}

func (p *Printer) printSelector(sel *ast.SelectorExpr) {
	if adapter.SubstituteSelector(p.adapter, sel) {
		return
	}

	if pkg := p.unit.PackageOf(sel.X); pkg != nil {
		if obj := p.unit.ObjectOf(sel.Sel); obj != nil {
			p.Print(p.RootRelativeName(obj))
			return
		}

		p.Print(p.importName(pkg) + "." + sel.Sel.Name)

		return
	}

	p.printExpr(sel.X)
	p.Print(".")

	if s := p.unit.Selection(sel); s != nil {
		p.Print(p.adapter.Identifier(s.Obj()))
		return
	}

	p.Print(sel.Sel.Name)
}

func (p *Printer) printCall(call *ast.CallExpr) {
	if adapter.SubstituteCall(p.adapter, call) {
		return
	}

	if len(call.Args) == 1 && p.unit.IsType(call.Fun) {
		p.printConversion(call)
		return
	}

	if b := p.unit.Builtin(call); b != nil {
		p.Report(call, diagnostic.KindUnsupportedNode, "builtin "+b.Name())
	}

	if p.printDetachedCall(call) {
		return
	}

	p.printExpr(call.Fun)
	p.Print("(")
	p.printCallArgs(call, call.Args)
	p.Print(")")
}

func (p *Printer) printCallArgs(call *ast.CallExpr, args []ast.Expr) {
	for i, arg := range args {
		if i > 0 {
			p.Print(", ")
		}

		if call.Ellipsis.IsValid() && i == len(args)-1 {
			p.Print("...")
		}

		p.printExpr(arg)
	}
}

func (p *Printer) printConversion(call *ast.CallExpr) {
	if !p.adapter.NeedsTypeCast(call) {
		p.printExpr(call.Args[0])
		return
	}

	p.Print("(")
	p.printExpr(call.Args[0])
	p.Print(" as ")
	p.printType(call.Fun, nil)
	p.Print(")")
}

// printDetachedCall prints a method call on a named non-struct type as a
// call of the free function the method was printed as.
func (p *Printer) printDetachedCall(call *ast.CallExpr) bool {
	sel, ok := ast.Unparen(call.Fun).(*ast.SelectorExpr)
	if !ok {
		return false
	}

	s := p.unit.Selection(sel)
	if s == nil || s.Kind() != types.MethodVal {
		return false
	}

	fn, ok := s.Obj().(*types.Func)
	if !ok {
		return false
	}

	recv := receiverNamed(fn.Type().(*types.Signature))
	if recv == nil {
		return false
	}

	switch recv.Underlying().(type) {
	case *types.Struct, *types.Interface:
		return false
	}

	method := p.adapter.Identifier(recv.Obj()) + "$" + p.adapter.Identifier(fn)
	name := p.adapter.QualifiedTypeName(recv.Obj(), false) + "$" + p.adapter.Identifier(fn)

	if pkg := recv.Obj().Pkg(); pkg == p.unit.Pkg {
		p.noteSiblingAt(fn.Pos(), method)
	} else if pkg != nil {
		p.noteReference(pkg.Path(), method)
	}

	p.Print(name + "(")
	p.printExpr(sel.X)

	if len(call.Args) > 0 {
		p.Print(", ")
	}

	p.printCallArgs(call, call.Args)
	p.Print(")")

	return true
}

func (p *Printer) printIndex(e *ast.IndexExpr) {
	if p.isInstantiation(e.X) {
		p.printInstantiation(e.X)
		return
	}

	if p.adapter.SubstituteArrayAccess(e) {
		return
	}

	p.printExpr(e.X)
	p.Print("[")
	p.printExpr(e.Index)
	p.Print("]")
}

// isInstantiation reports whether x names a generic function or type
// instantiated by the enclosing index expression.
func (p *Printer) isInstantiation(x ast.Expr) bool {
	id := instanceIdent(x)
	if id == nil || p.unit.Info == nil {
		return false
	}

	_, ok := p.unit.Info.Instances[id]

	return ok
}

func (p *Printer) printInstantiation(x ast.Expr) {
	p.printExpr(x)

	if id := instanceIdent(x); id != nil && p.unit.Info != nil {
		if inst, ok := p.unit.Info.Instances[id]; ok {
			p.printTypeArgs(inst.TypeArgs)
		}
	}
}

func instanceIdent(x ast.Expr) *ast.Ident {
	switch x := ast.Unparen(x).(type) {
	case *ast.Ident:
		return x
	case *ast.SelectorExpr:
		return x.Sel
	default:
		return nil
	}
}

func (p *Printer) printUnary(e *ast.UnaryExpr) {
	switch e.Op {
	case token.AND:
		p.printExpr(e.X)

	case token.XOR:
		p.Print("~")
		p.printOperand(e.X, token.XOR)

	case token.ARROW:
		p.Report(e, diagnostic.KindUnsupportedNode, "channel receive")
		p.printExpr(e.X)

	default:
		p.Print(e.Op.String())
		p.printOperand(e.X, e.Op)
	}
}

func (p *Printer) printBinary(e *ast.BinaryExpr) {
	op := e.Op.String()

	switch e.Op {
	case token.EQL:
		op = "==="
		if p.isNil(e.X) || p.isNil(e.Y) {
			op = "=="
		}

	case token.NEQ:
		op = "!=="
		if p.isNil(e.X) || p.isNil(e.Y) {
			op = "!="
		}

	case token.AND_NOT:
		op = "& ~"
	}

	truncate := e.Op == token.QUO && isInteger(p.unit.TypeOf(e))
	if truncate {
		p.Print("Math.trunc(")
	}

	p.printOperand(e.X, e.Op)
	p.Print(" " + op + " ")
	p.printOperand(e.Y, e.Op)

	if truncate {
		p.Print(")")
	}
}

// printOperand parenthesizes nested binary expressions whose Go precedence
// differs from the parent operator's.
func (p *Printer) printOperand(x ast.Expr, parent token.Token) {
	if b, ok := x.(*ast.BinaryExpr); ok && b.Op.Precedence() != parent.Precedence() {
		p.Print("(")
		p.printExpr(x)
		p.Print(")")

		return
	}

	p.printExpr(x)
}

func (p *Printer) isNil(x ast.Expr) bool {
	id, ok := ast.Unparen(x).(*ast.Ident)
	if !ok {
		return false
	}

	_, isNil := p.unit.ObjectOf(id).(*types.Nil)

	return isNil
}

// printAssigned prints expr stored into a location of type t.
func (p *Printer) printAssigned(t types.Type, expr ast.Expr) {
	if p.adapter.SubstituteAssignedExpression(t, expr) {
		return
	}

	p.printExpr(expr)
}

func isInteger(t types.Type) bool {
	if t == nil {
		return false
	}

	b, ok := t.Underlying().(*types.Basic)

	return ok && b.Info()&types.IsInteger != 0
}

// quote renders s as a double-quoted TypeScript string literal.
func quote(s string) string {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(s); err != nil {
		return strconv.Quote(s)
	}

	return strings.TrimSuffix(buf.String(), "\n")
}
