package adapter_test

import (
	"go/ast"
	"go/types"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go2ts/internal/adapter"
	"go2ts/internal/diagnostic"
)

// wrappingLayer embeds a Base like the built-in layers do.
type wrappingLayer struct {
	*adapter.Base
}

func TestNewBase_NilParent(t *testing.T) {
	var nilBase *adapter.Base
	var nilLayer *wrappingLayer

	tests := []struct {
		name   string
		parent adapter.Adapter
	}{
		{name: "nil interface", parent: nil},
		{name: "nil base pointer", parent: nilBase},
		{name: "nil layer pointer", parent: nilLayer},
		{name: "layer without base", parent: &wrappingLayer{Base: nil}},
		{name: "base without context", parent: &adapter.Base{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := adapter.NewBase(tt.parent)
			require.Error(t, err)
			assert.Nil(t, b)
			assert.True(t, errors.Is(err, adapter.ErrNilParent))
			assert.True(t, adapter.IsConfigurationError(err))
			assert.NotEmpty(t, errors.GetAllHints(err))
		})
	}
}

func TestNilBase_Accessors(t *testing.T) {
	var b *adapter.Base

	assert.Nil(t, b.Parent())
	assert.Nil(t, b.Context())
}

func TestNewRoot_NilContext(t *testing.T) {
	_, err := adapter.NewRoot(nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, adapter.ErrNilContext))
}

func TestCompose_NilRoot(t *testing.T) {
	_, err := adapter.Compose(nil)
	require.ErrorIs(t, err, adapter.ErrNilParent)

	var root *adapter.Base
	_, err = adapter.Compose(root)
	require.ErrorIs(t, err, adapter.ErrNilParent)
}

func TestCompose_FactoryError(t *testing.T) {
	boom := errors.New("boom")
	_, err := adapter.Compose(newRoot(t), func(adapter.Adapter) (adapter.Adapter, error) {
		return nil, boom
	})
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "layer 0")
}

func TestBaseline_AtAnyDepth(t *testing.T) {
	for depth := 0; depth <= 3; depth++ {
		var layers []*countingLayer

		factories := make([]adapter.Factory, depth)
		for i := range factories {
			factories[i] = countingFactory("pass", false, &layers)
		}

		a, err := adapter.Compose(newRoot(t), factories...)
		require.NoError(t, err)
		assert.Equal(t, depth+1, adapter.Depth(a))

		p := &stubPrinter{}
		a.SetPrinter(p)

		ident := ast.NewIdent("x")
		obj := types.NewVar(0, nil, "x", types.Typ[types.Int])
		tn := types.NewTypeName(0, types.NewPackage("example.com/geom", "geom"), "Point", nil)

		assert.False(t, a.SubstituteIdentifier(ident))
		assert.False(t, a.SubstituteArrayAccess(&ast.IndexExpr{}))
		assert.False(t, a.SubstituteNewObject(adapter.NewObject{}))
		assert.False(t, a.SubstituteFieldAccess(adapter.FieldAccess{}))
		assert.False(t, a.SubstituteMethodInvocation(adapter.Invocation{}))
		assert.False(t, a.SubstituteAssignment(&ast.AssignStmt{}))
		assert.False(t, a.SubstituteAssignedExpression(types.Typ[types.Int], ident))
		assert.False(t, a.SubstituteForEachLoop(&ast.RangeStmt{}, true, "i"))
		assert.False(t, a.SubstituteInstanceof("x", ident, types.Typ[types.Int]))
		assert.False(t, a.SubstituteCaseStatementPattern(&ast.CaseClause{}, ident))
		assert.False(t, a.SubstituteType(ident, types.Typ[types.Int]))
		assert.Equal(t, "doc", a.AdaptDocComment(ident, "doc"))

		assert.True(t, a.NeedsTypeCast(&ast.CallExpr{}))
		assert.True(t, a.NeedsVariableDecl(&ast.ValueSpec{}, adapter.VariableLocal))

		assert.False(t, a.EraseSuperClass(&ast.TypeSpec{}, nil))
		assert.False(t, a.EraseSuperInterface(&ast.TypeSpec{}, nil))
		assert.False(t, a.IsSubstituteSuperTypes())

		assert.Equal(t, "x", a.Identifier(obj))
		assert.Equal(t, "root.Point", a.QualifiedTypeName(tn, false))

		spec := &ast.ImportSpec{Path: &ast.BasicLit{Value: `"example.com/geom"`}}
		assert.Equal(t, "example.com/geom", a.NeedsImport(spec, "example.com/geom"))

		spec.Name = ast.NewIdent("_")
		assert.Empty(t, a.NeedsImport(spec, "example.com/geom"))

		for _, l := range layers {
			assert.Equal(t, 1, l.calls, "every layer is consulted once")
		}
	}
}

func TestErasedTypes_Unimplemented(t *testing.T) {
	var layers []*countingLayer

	a, err := adapter.Compose(newRoot(t),
		countingFactory("a", false, &layers),
		countingFactory("b", false, &layers),
	)
	require.NoError(t, err)

	erased, err := a.ErasedTypes()
	require.Error(t, err)
	assert.Nil(t, erased)
	assert.True(t, errors.Is(err, adapter.ErrUnimplemented))
	assert.True(t, adapter.IsConfigurationError(err))
}

func TestFirstMatch_OuterToInner(t *testing.T) {
	tests := []struct {
		name      string
		handles   []bool // innermost first
		wantCalls []int
		wantOK    bool
	}{
		{"outermost handles", []bool{true, false, true}, []int{0, 0, 1}, true},
		{"middle handles", []bool{false, true, false}, []int{0, 1, 1}, true},
		{"innermost handles", []bool{true, false, false}, []int{1, 1, 1}, true},
		{"nobody handles", []bool{false, false, false}, []int{1, 1, 1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var layers []*countingLayer

			factories := make([]adapter.Factory, 0, len(tt.handles))
			for _, h := range tt.handles {
				factories = append(factories, countingFactory("layer", h, &layers))
			}

			a, err := adapter.Compose(newRoot(t), factories...)
			require.NoError(t, err)

			assert.Equal(t, tt.wantOK, a.SubstituteIdentifier(ast.NewIdent("x")))

			calls := make([]int, len(layers))
			for i, l := range layers {
				calls[i] = l.calls
			}

			assert.Equal(t, tt.wantCalls, calls)
		})
	}
}

func TestSharedContext_AcrossLayers(t *testing.T) {
	var layers []*countingLayer

	root := newRoot(t)
	a, err := adapter.Compose(root,
		countingFactory("inner", false, &layers),
		countingFactory("outer", false, &layers),
	)
	require.NoError(t, err)

	layers[0].AddTypeMapping("example.com/geom.Point", "Vec2")
	layers[1].AddTypeMappings(map[string]string{"example.com/geom.Rect": "Box"})

	assert.Same(t, root.Context(), a.Context())
	assert.Same(t, layers[0].Context(), layers[1].Context())

	for _, l := range layers {
		assert.True(t, l.IsMappedType("example.com/geom.Point"))
		assert.Equal(t, "Box", l.TypeMappingTarget("example.com/geom.Rect"))
	}

	layers[1].AddTypeMapping("example.com/geom.Point", "Point2")
	assert.Equal(t, "Point2", root.TypeMappingTarget("example.com/geom.Point"), "last registration wins")
}

func TestPrinterPropagation_ThreeLayers(t *testing.T) {
	var layers []*countingLayer

	root := newRoot(t)
	a, err := adapter.Compose(root,
		countingFactory("one", false, &layers),
		countingFactory("two", false, &layers),
	)
	require.NoError(t, err)

	p := &stubPrinter{name: "P"}
	a.SetPrinter(p)

	assert.Same(t, p, root.Printer())
	for _, l := range layers {
		assert.Same(t, p, l.Printer())
	}

	// binding from a middle layer reaches the root but not the outer layer
	q := &stubPrinter{name: "Q"}
	layers[0].SetPrinter(q)
	assert.Same(t, q, root.Printer())
	assert.Same(t, p, layers[1].Printer())
}

func TestBase_PrintHelpers(t *testing.T) {
	root := newRoot(t)
	p := &stubPrinter{}
	root.SetPrinter(p)

	lit := &ast.BasicLit{Value: `"hello"`}
	root.Print("f(").PrintArgList([]ast.Expr{lit, lit}).Print(")")
	root.PrintStringOr("", lit).PrintStringOr(";", lit)

	assert.Equal(t, "f(<arg>, <arg>)<node>;", p.out.String())
	assert.Equal(t, "hello", root.LiteralStringValue(lit))
	assert.Empty(t, root.LiteralStringValue(ast.NewIdent("hello")))
}

func TestParentOfKind(t *testing.T) {
	fn := &ast.FuncDecl{Name: ast.NewIdent("f")}
	block := &ast.BlockStmt{}
	call := &ast.CallExpr{}
	p := &stubPrinter{stack: []ast.Node{fn, block, call}}

	got, ok := adapter.ParentOfKind[*ast.FuncDecl](p)
	require.True(t, ok)
	assert.Same(t, fn, got)

	_, ok = adapter.ParentOfKind[*ast.CallExpr](p)
	assert.False(t, ok, "the current node is not its own ancestor")
}

func TestBase_Report(t *testing.T) {
	unit := checkWithGeom(t, "package app\n\nvar x = 1\n")

	root := newRoot(t)
	p := &stubPrinter{unit: unit}
	root.SetPrinter(p)

	root.Report(unit.File, diagnostic.KindUserWarning, "careful")

	require.Equal(t, 1, p.diags.Len())
	assert.Equal(t, "G2T100", p.diags.Warnings[0].Code)
	assert.Equal(t, "careful", p.diags.Warnings[0].Message)
}

func TestFlags_RestoredOnEarlyReturn(t *testing.T) {
	var f adapter.Flags

	tp := types.NewTypeParam(types.NewTypeName(0, nil, "T", nil), types.NewInterfaceType(nil, nil))

	visit := func(fail bool) bool {
		defer f.DisableTypeSubstitution(true)()
		defer f.SetInTypeParameters(true)()
		defer f.EraseTypeVariables(tp)()

		if fail {
			return false
		}

		return f.TypeSubstitutionDisabled() && f.InTypeParameters() && f.IsTypeVariableErased(tp)
	}

	assert.False(t, visit(true))
	assert.False(t, f.TypeSubstitutionDisabled())
	assert.False(t, f.InTypeParameters())
	assert.False(t, f.IsTypeVariableErased(tp))

	assert.True(t, visit(false))
	assert.False(t, f.TypeSubstitutionDisabled())
	assert.False(t, f.IsTypeVariableErased(tp))

	func() {
		defer func() { _ = recover() }()
		defer f.DisableTypeSubstitution(true)()
		panic("abort")
	}()
	assert.False(t, f.TypeSubstitutionDisabled(), "restored after a panic")
}

func TestFlags_NestedRestore(t *testing.T) {
	var f adapter.Flags

	restoreOuter := f.DisableTypeSubstitution(true)
	restoreInner := f.DisableTypeSubstitution(false)
	assert.False(t, f.TypeSubstitutionDisabled())

	restoreInner()
	assert.True(t, f.TypeSubstitutionDisabled())

	restoreOuter()
	assert.False(t, f.TypeSubstitutionDisabled())
}

func TestVariableKind_String(t *testing.T) {
	assert.Equal(t, "local", adapter.VariableLocal.String())
	assert.Equal(t, "global", adapter.VariableGlobal.String())
	assert.Equal(t, "unknown", adapter.VariableKind(42).String())
}
