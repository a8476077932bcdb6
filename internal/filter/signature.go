package filter

import (
	"go/types"
	"strings"
)

// Signature renders the filter signature of a declaration.
func Signature(obj types.Object) string {
	if obj == nil {
		return ""
	}

	switch o := obj.(type) {
	case *types.Func:
		return funcSignature(o)

	case *types.Var:
		if o.IsField() {
			if owner := fieldOwner(o); owner != nil {
				return qualified(owner) + "." + o.Name()
			}
		}

		return qualified(o)

	default:
		return qualified(obj)
	}
}

func funcSignature(fn *types.Func) string {
	sig, _ := fn.Type().(*types.Signature)

	var sb strings.Builder

	if sig != nil && sig.Recv() != nil {
		sb.WriteString(recvName(sig.Recv().Type()))
	} else {
		sb.WriteString(pkgPrefix(fn.Pkg()))
	}

	if sb.Len() > 0 && !strings.HasSuffix(sb.String(), ".") {
		sb.WriteString(".")
	}

	sb.WriteString(fn.Name())
	sb.WriteString("(")

	if sig != nil {
		params := sig.Params()
		for i := 0; i < params.Len(); i++ {
			if i > 0 {
				sb.WriteString(",")
			}

			sb.WriteString(types.TypeString(params.At(i).Type(), pathQualifier))
		}
	}

	sb.WriteString(")")

	return sb.String()
}

func recvName(t types.Type) string {
	if ptr, ok := t.(*types.Pointer); ok {
		t = ptr.Elem()
	}

	if named, ok := types.Unalias(t).(*types.Named); ok {
		return qualified(named.Obj())
	}

	return types.TypeString(t, pathQualifier)
}

func qualified(obj types.Object) string {
	return pkgPrefix(obj.Pkg()) + obj.Name()
}

func pkgPrefix(pkg *types.Package) string {
	if pkg == nil {
		return ""
	}

	return pkg.Path() + "."
}

func pathQualifier(pkg *types.Package) string {
	return pkg.Path()
}

// fieldOwner finds the package-level named struct declaring field.
func fieldOwner(field *types.Var) types.Object {
	if field.Pkg() == nil {
		return nil
	}

	scope := field.Pkg().Scope()
	for _, name := range scope.Names() {
		tn, ok := scope.Lookup(name).(*types.TypeName)
		if !ok {
			continue
		}

		st, ok := tn.Type().Underlying().(*types.Struct)
		if !ok {
			continue
		}

		for i := 0; i < st.NumFields(); i++ {
			if st.Field(i) == field {
				return tn
			}
		}
	}

	return nil
}
