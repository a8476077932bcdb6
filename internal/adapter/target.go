package adapter

import (
	"go/ast"
	"go/types"
	"slices"

	"go2ts/internal/analyze"
)

// Target is the owner and member a node refers to, the shape substitution
// rules match against.
type Target struct {
	// OwnerType is the static type the member is selected from. It is nil
	// for package-level members and for unresolved targets.
	OwnerType types.Type
	// OwnerPkg is the declaring package of a package-level member.
	OwnerPkg *types.Package
	// OwnerName is the qualified owner name ("strings",
	// "go2ts/examples/geom.Point"). Empty when the owner is unknown.
	OwnerName string
	// Member is the selected member name.
	Member string
}

// Resolved reports whether the owner is known.
func (t Target) Resolved() bool {
	return t.OwnerName != ""
}

// Is reports whether the target is ownerName.member for one of members.
// With no members it only compares the owner.
func (t Target) Is(ownerName string, members ...string) bool {
	if !t.Resolved() || t.OwnerName != ownerName {
		return false
	}

	return len(members) == 0 || slices.Contains(members, t.Member)
}

// Invocation is a normalized call expression.
type Invocation struct {
	Target

	Call *ast.CallExpr
	// Selector is the callee when written owner.member(...), nil otherwise.
	Selector *ast.SelectorExpr
}

// Receiver returns the expression the method is called on, or nil for
// package-level and unqualified calls.
func (inv Invocation) Receiver() ast.Expr {
	if inv.Selector == nil || inv.OwnerType == nil {
		return nil
	}

	return inv.Selector.X
}

// Args returns the call arguments.
func (inv Invocation) Args() []ast.Expr {
	return inv.Call.Args
}

// FieldAccess is a normalized owner.member selector that is not called.
type FieldAccess struct {
	Target

	Selector *ast.SelectorExpr
}

// NewObject is a normalized composite literal. Member is empty.
type NewObject struct {
	Target

	Lit *ast.CompositeLit
}

// ResolveCallTarget derives the owner and member of a call:
//
//  1. owner.member(...) selects member from the package named owner, or
//     from the static type of owner;
//  2. member(...) is looked up among the unit's static (dot) imports;
//  3. otherwise the owner stays unresolved.
func ResolveCallTarget(unit *analyze.Unit, call *ast.CallExpr) Invocation {
	inv := Invocation{Call: call}

	switch fun := ast.Unparen(call.Fun).(type) {
	case *ast.SelectorExpr:
		inv.Selector = fun
		inv.Target = resolveSelectorTarget(unit, fun)

	case *ast.IndexExpr:
		// explicit instantiation: f[T](...) or pkg.F[T](...)
		return resolveInstantiated(unit, call, fun.X)

	case *ast.IndexListExpr:
		return resolveInstantiated(unit, call, fun.X)

	case *ast.Ident:
		inv.Member = fun.Name
		if unit == nil {
			break
		}

		if si, ok := unit.StaticImport(fun.Name); ok && unit.ObjectOf(fun) == si.Object {
			inv.OwnerPkg = si.Pkg
			inv.OwnerName = si.Pkg.Path()
		}
	}

	return inv
}

func resolveInstantiated(unit *analyze.Unit, call *ast.CallExpr, fun ast.Expr) Invocation {
	inner := &ast.CallExpr{Fun: fun, Args: call.Args, Lparen: call.Lparen, Rparen: call.Rparen}
	inv := ResolveCallTarget(unit, inner)
	inv.Call = call

	return inv
}

// ResolveSelector derives the owner and member of a selector expression.
func ResolveSelector(unit *analyze.Unit, sel *ast.SelectorExpr) FieldAccess {
	return FieldAccess{Selector: sel, Target: resolveSelectorTarget(unit, sel)}
}

// ResolveCompositeLit derives the type instantiated by a composite literal.
func ResolveCompositeLit(unit *analyze.Unit, lit *ast.CompositeLit) NewObject {
	obj := NewObject{Lit: lit}
	if unit == nil {
		return obj
	}

	t := unit.TypeOf(lit)
	if t == nil {
		return obj
	}

	obj.OwnerType = t
	obj.OwnerName = analyze.QualifiedName(t)

	return obj
}

func resolveSelectorTarget(unit *analyze.Unit, sel *ast.SelectorExpr) Target {
	target := Target{Member: sel.Sel.Name}
	if unit == nil {
		return target
	}

	if pkg := unit.PackageOf(sel.X); pkg != nil {
		target.OwnerPkg = pkg
		target.OwnerName = pkg.Path()

		return target
	}

	t := unit.TypeOf(sel.X)
	if t == nil {
		return target
	}

	target.OwnerType = t
	target.OwnerName = analyze.QualifiedName(t)

	return target
}
