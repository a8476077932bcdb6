package filter_test

import (
	"go/types"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go2ts/internal/analyze"
	"go2ts/internal/filter"
)

func TestMatch(t *testing.T) {
	const sig = "example.com/geom.Point.Scale(float64)"

	tests := []struct {
		name     string
		patterns []string
		want     bool
	}{
		{name: "exact", patterns: []string{sig}, want: true},
		{name: "wildcard", patterns: []string{"*.Scale(*)"}, want: true},
		{name: "no match", patterns: []string{"*.Move(*)"}, want: false},
		{name: "anchored", patterns: []string{"Point.Scale"}, want: false},
		{name: "regexp characters are literal", patterns: []string{"example.com/geom.Point.Scale(float6.)"}, want: false},
		{name: "negation wins", patterns: []string{"*", "!*.Scale(*)"}, want: false},
		{name: "negation order does not matter", patterns: []string{"!*.Scale(*)", "*"}, want: false},
		{name: "unrelated negation", patterns: []string{"*", "!*.Move(*)"}, want: true},
		{name: "only negations", patterns: []string{"!*.Move(*)"}, want: false},
		{name: "empty", patterns: nil, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, filter.Match(tt.patterns, sig))
		})
	}
}

func TestSignature(t *testing.T) {
	checked, err := analyze.CheckSource(analyze.Source{
		Path: "example.com/geom",
		Files: map[string]string{"geom.go": `package geom

type Point struct {
	X, Y float64
}

func (p *Point) Scale(f float64) {}

func Dist(a, b Point) float64 { return 0 }

const Zero = 0
`},
	})
	require.NoError(t, err)

	scope := checked.Pkg.Scope()
	point := scope.Lookup("Point").(*types.TypeName)
	st := point.Type().Underlying().(*types.Struct)
	scale, _, _ := types.LookupFieldOrMethod(point.Type(), true, checked.Pkg, "Scale")

	tests := []struct {
		name string
		obj  types.Object
		want string
	}{
		{name: "type", obj: point, want: "example.com/geom.Point"},
		{name: "field", obj: st.Field(1), want: "example.com/geom.Point.Y"},
		{name: "method", obj: scale, want: "example.com/geom.Point.Scale(float64)"},
		{name: "function", obj: scope.Lookup("Dist"), want: "example.com/geom.Dist(example.com/geom.Point,example.com/geom.Point)"},
		{name: "const", obj: scope.Lookup("Zero"), want: "example.com/geom.Zero"},
		{name: "nil", obj: nil, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, filter.Signature(tt.obj))
		})
	}
}
