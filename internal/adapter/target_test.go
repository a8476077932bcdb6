package adapter_test

import (
	"go/ast"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go2ts/internal/adapter"
)

const appSource = `package app

import . "example.com/geom"

func bar() {}

func run() {
	p := &Point{X: 1}
	p.Scale(2)
	Origin()
	bar()
	_ = p.X
}

func shadow() {
	Origin := func() int { return 0 }
	Origin()
}
`

func TestResolveCallTarget(t *testing.T) {
	unit := checkWithGeom(t, appSource)
	calls := collect[*ast.CallExpr](unit.File)
	require.Len(t, calls, 4)

	t.Run("method on a value", func(t *testing.T) {
		inv := adapter.ResolveCallTarget(unit, calls[0])
		require.True(t, inv.Resolved())
		assert.Equal(t, "example.com/geom.Point", inv.OwnerName)
		assert.Equal(t, "Scale", inv.Member)
		assert.NotNil(t, inv.OwnerType)
		assert.NotNil(t, inv.Receiver())
		assert.True(t, inv.Is("example.com/geom.Point", "Scale", "Translate"))
		assert.False(t, inv.Is("example.com/geom.Point", "Translate"))
	})

	t.Run("dot import", func(t *testing.T) {
		inv := adapter.ResolveCallTarget(unit, calls[1])
		require.True(t, inv.Resolved())
		assert.Equal(t, "example.com/geom", inv.OwnerName)
		assert.Equal(t, "Origin", inv.Member)
		require.NotNil(t, inv.OwnerPkg)
		assert.Equal(t, "geom", inv.OwnerPkg.Name())
		assert.Nil(t, inv.OwnerType)
		assert.Nil(t, inv.Receiver())
	})

	t.Run("unresolved", func(t *testing.T) {
		inv := adapter.ResolveCallTarget(unit, calls[2])
		assert.False(t, inv.Resolved())
		assert.Equal(t, "bar", inv.Member)
		assert.False(t, inv.Is("", "bar"))
	})

	t.Run("shadowed dot import", func(t *testing.T) {
		inv := adapter.ResolveCallTarget(unit, calls[3])
		assert.False(t, inv.Resolved())
		assert.Equal(t, "Origin", inv.Member)
	})
}

func TestResolveCallTarget_PackageQualified(t *testing.T) {
	unit := checkWithGeom(t, `package app

import g "example.com/geom"

func run() float64 {
	return g.Area(2, 3)
}
`)
	calls := collect[*ast.CallExpr](unit.File)
	require.Len(t, calls, 1)

	inv := adapter.ResolveCallTarget(unit, calls[0])
	assert.Equal(t, "example.com/geom", inv.OwnerName)
	assert.Equal(t, "Area", inv.Member)
	assert.Nil(t, inv.Receiver())
	assert.Len(t, inv.Args(), 2)
}

func TestResolveCallTarget_NoUnit(t *testing.T) {
	call := &ast.CallExpr{Fun: &ast.SelectorExpr{X: ast.NewIdent("p"), Sel: ast.NewIdent("Scale")}}

	inv := adapter.ResolveCallTarget(nil, call)
	assert.False(t, inv.Resolved())
	assert.Equal(t, "Scale", inv.Member)
}

func TestResolveSelectorAndCompositeLit(t *testing.T) {
	unit := checkWithGeom(t, appSource)

	var fieldSel *ast.SelectorExpr
	for _, sel := range collect[*ast.SelectorExpr](unit.File) {
		if sel.Sel.Name == "X" {
			fieldSel = sel
		}
	}
	require.NotNil(t, fieldSel)

	access := adapter.ResolveSelector(unit, fieldSel)
	assert.Equal(t, "example.com/geom.Point", access.OwnerName)
	assert.Equal(t, "X", access.Member)

	lits := collect[*ast.CompositeLit](unit.File)
	require.Len(t, lits, 1)

	obj := adapter.ResolveCompositeLit(unit, lits[0])
	assert.Equal(t, "example.com/geom.Point", obj.OwnerName)
	assert.Empty(t, obj.Member)
}

// invocationRecorder captures what each layer receives.
type invocationRecorder struct {
	*adapter.Base

	seen []adapter.Invocation
}

func (r *invocationRecorder) SubstituteMethodInvocation(inv adapter.Invocation) bool {
	r.seen = append(r.seen, inv)
	return r.Base.SubstituteMethodInvocation(inv)
}

func TestSubstituteCall_SameTargetForEveryLayer(t *testing.T) {
	unit := checkWithGeom(t, appSource)
	calls := collect[*ast.CallExpr](unit.File)

	var recorders []*invocationRecorder

	factory := func(parent adapter.Adapter) (adapter.Adapter, error) {
		base, err := adapter.NewBase(parent)
		if err != nil {
			return nil, err
		}

		r := &invocationRecorder{Base: base}
		recorders = append(recorders, r)

		return r, nil
	}

	a, err := adapter.Compose(newRoot(t), factory, factory, factory)
	require.NoError(t, err)
	a.SetPrinter(&stubPrinter{unit: unit})

	assert.False(t, adapter.SubstituteCall(a, calls[0]))

	require.Len(t, recorders, 3)
	for _, r := range recorders {
		require.Len(t, r.seen, 1)
		assert.Equal(t, recorders[0].seen[0].Target, r.seen[0].Target)
		assert.Same(t, calls[0], r.seen[0].Call)
	}
}
