package adapter_test

import (
	"go/ast"
	"go/types"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"go2ts/internal/adapter"
	"go2ts/internal/analyze"
	"go2ts/internal/diagnostic"
)

// stubPrinter records output and reports without walking any tree.
type stubPrinter struct {
	name  string
	unit  *analyze.Unit
	out   strings.Builder
	stack []ast.Node
	diags diagnostic.Diagnostics
}

func (p *stubPrinter) Print(s string)       { p.out.WriteString(s) }
func (p *stubPrinter) PrintNode(n ast.Node) { p.out.WriteString("<node>") }
func (p *stubPrinter) PrintIndent()         {}
func (p *stubPrinter) StartIndent()         {}
func (p *stubPrinter) EndIndent()           {}
func (p *stubPrinter) Stack() []ast.Node    { return p.stack }
func (p *stubPrinter) Unit() *analyze.Unit  { return p.unit }

func (p *stubPrinter) PrintArgList(args []ast.Expr) {
	for i := range args {
		if i > 0 {
			p.out.WriteString(", ")
		}

		p.out.WriteString("<arg>")
	}
}

func (p *stubPrinter) Parent() ast.Node {
	if len(p.stack) < 2 {
		return nil
	}

	return p.stack[len(p.stack)-2]
}

func (p *stubPrinter) RootRelativeName(obj types.Object) string {
	return "root." + obj.Name()
}

func (p *stubPrinter) DefaultIdentifier(obj types.Object) string {
	return obj.Name()
}

func (p *stubPrinter) Report(node ast.Node, kind diagnostic.Kind, params ...any) {
	p.diags.Report(p.unit.Position(node), kind, params...)
}

// countingLayer counts how often it is asked for an identifier decision and
// handles it when handles is set.
type countingLayer struct {
	*adapter.Base

	name    string
	calls   int
	handles bool
}

func (l *countingLayer) SubstituteIdentifier(ident *ast.Ident) bool {
	l.calls++
	if l.handles {
		return true
	}

	return l.Base.SubstituteIdentifier(ident)
}

func countingFactory(name string, handles bool, into *[]*countingLayer) adapter.Factory {
	return func(parent adapter.Adapter) (adapter.Adapter, error) {
		base, err := adapter.NewBase(parent)
		if err != nil {
			return nil, err
		}

		l := &countingLayer{Base: base, name: name, handles: handles}
		*into = append(*into, l)

		return l, nil
	}
}

func newRoot(t *testing.T) *adapter.Base {
	t.Helper()

	root, err := adapter.NewRoot(adapter.NewContext())
	require.NoError(t, err)

	return root
}

const geomSource = `package geom

// Point is a 2D point.
type Point struct {
	X, Y float64
}

// Scale multiplies both coordinates.
func (p *Point) Scale(f float64) {
	p.X *= f
	p.Y *= f
}

// Origin returns the zero point.
func Origin() Point {
	return Point{}
}

// Area is a shape area.
func Area(w, h float64) float64 {
	return w * h
}
`

// checkWithGeom type-checks src as package "example.com/app" against an
// in-memory "example.com/geom" package.
func checkWithGeom(t *testing.T, src string) *analyze.Unit {
	t.Helper()

	geom, err := analyze.CheckSource(analyze.Source{
		Path:  "example.com/geom",
		Files: map[string]string{"geom.go": geomSource},
	})
	require.NoError(t, err)

	app, err := analyze.CheckSource(analyze.Source{
		Path:  "example.com/app",
		Files: map[string]string{"app.go": src},
	}, geom.Pkg)
	require.NoError(t, err)
	require.Len(t, app.Units, 1)

	return app.Units[0]
}

func collect[T ast.Node](root ast.Node) []T {
	var found []T

	ast.Inspect(root, func(n ast.Node) bool {
		if v, ok := n.(T); ok {
			found = append(found, v)
		}

		return true
	})

	return found
}
