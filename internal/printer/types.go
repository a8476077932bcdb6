package printer

import (
	"fmt"
	"go/ast"
	"go/types"

	"go2ts/internal/analyze"
	"go2ts/internal/common"
	"go2ts/internal/diagnostic"
)

// printType prints a type reference. expr is the syntax the type was
// written with, or nil for types derived from the semantic model.
func (p *Printer) printType(expr ast.Expr, t types.Type) {
	if t == nil && expr != nil {
		t = p.unit.TypeOf(expr)
	}

	if expr != nil && (len(p.stack) == 0 || p.stack[len(p.stack)-1] != ast.Node(expr)) {
		p.push(expr)
		defer p.pop()
	}

	if p.adapter.SubstituteType(expr, t) {
		return
	}

	if t == nil {
		p.Print(common.AnyTypeStr)
		return
	}

	flags := p.adapter.Flags()

	if !flags.TypeSubstitutionDisabled() {
		if target, ok := p.adapter.Context().MapType(expr, t); ok {
			p.Print(target)
			return
		}
	}

	switch tt := types.Unalias(t).(type) {
	case *types.Basic:
		if tt.Kind() == types.UntypedNil {
			p.Print("null")
			return
		}

		p.reportType(expr, t)
		p.Print(common.AnyTypeStr)

	case *types.Pointer:
		p.printType(nil, tt.Elem())

	case *types.Slice:
		p.printElemType(tt.Elem())
		p.Print("[]")

	case *types.Array:
		p.printElemType(tt.Elem())
		p.Print("[]")

	case *types.Map:
		func() {
			defer flags.SetInTypeParameters(true)()

			p.Print("Map<")
			p.printType(nil, tt.Key())
			p.Print(", ")
			p.printType(nil, tt.Elem())
			p.Print(">")
		}()

	case *types.Named:
		if _, erased := p.erased[analyze.QualifiedName(tt)]; erased {
			p.Print(common.AnyTypeStr)
			return
		}

		p.Print(p.adapter.QualifiedTypeName(tt.Obj(), false))
		p.printTypeArgs(tt.TypeArgs())

	case *types.TypeParam:
		if p.isErasedTypeParam(tt) {
			p.Print(common.AnyTypeStr)
			return
		}

		p.Print(tt.Obj().Name())

	case *types.Signature:
		p.Print("(")

		params := tt.Params()
		for i := 0; i < params.Len(); i++ {
			if i > 0 {
				p.Print(", ")
			}

			name := p.paramName(params.At(i), i)
			if tt.Variadic() && i == params.Len()-1 {
				name = "..." + name
			}

			p.Print(name + ": ")
			p.printType(nil, params.At(i).Type())
		}

		p.Print(") => ")
		p.printResultType(tt.Results())

	case *types.Tuple:
		p.Print("[")

		for i := 0; i < tt.Len(); i++ {
			if i > 0 {
				p.Print(", ")
			}

			p.printType(nil, tt.At(i).Type())
		}

		p.Print("]")

	case *types.Interface:
		if !tt.Empty() {
			p.reportType(expr, t)
		}

		p.Print(common.AnyTypeStr)

	case *types.Struct:
		p.Print("{ ")

		for i := 0; i < tt.NumFields(); i++ {
			f := tt.Field(i)
			p.Print(p.adapter.Identifier(f) + ": ")
			p.printType(nil, f.Type())
			p.Print("; ")
		}

		p.Print("}")

	default:
		p.reportType(expr, t)
		p.Print(common.AnyTypeStr)
	}
}

func (p *Printer) printTypeArgs(args *types.TypeList) {
	if args == nil || args.Len() == 0 {
		return
	}

	defer p.adapter.Flags().SetInTypeParameters(true)()

	p.Print("<")

	for i := 0; i < args.Len(); i++ {
		if i > 0 {
			p.Print(", ")
		}

		p.printType(nil, args.At(i))
	}

	p.Print(">")
}

// printElemType prints an array element type, parenthesized when it is a
// function type.
func (p *Printer) printElemType(elem types.Type) {
	if _, isFunc := types.Unalias(elem).(*types.Signature); isFunc {
		p.Print("(")
		p.printType(nil, elem)
		p.Print(")")

		return
	}

	p.printType(nil, elem)
}

func (p *Printer) reportType(expr ast.Expr, t types.Type) {
	var node ast.Node = p.unit.File
	if expr != nil {
		node = expr
	} else if len(p.stack) > 0 {
		node = p.stack[len(p.stack)-1]
	}

	p.Report(node, diagnostic.KindUnsupportedType, types.TypeString(t, nil))
}

// zeroValue renders the Go zero value of t.
func (p *Printer) zeroValue(t types.Type) string {
	if t == nil {
		return "null"
	}

	switch u := t.Underlying().(type) {
	case *types.Basic:
		switch {
		case u.Info()&types.IsBoolean != 0:
			return "false"
		case u.Info()&types.IsString != 0:
			return `""`
		case u.Info()&types.IsNumeric != 0:
			return "0"
		default:
			return "null"
		}

	case *types.Slice:
		return "[]"

	case *types.Array:
		return fmt.Sprintf("Array.from({ length: %d }, () => %s)", u.Len(), p.zeroValue(u.Elem()))

	case *types.Map:
		return "new Map()"

	case *types.Struct:
		named, ok := types.Unalias(t).(*types.Named)
		if !ok {
			return "{}"
		}

		if _, erased := p.erased[analyze.QualifiedName(named)]; erased {
			return "null"
		}

		if _, mapped := p.adapter.Context().MapType(nil, named); mapped {
			return "null"
		}

		return "new " + p.adapter.QualifiedTypeName(named.Obj(), false) + "()"

	default:
		return "null"
	}
}
