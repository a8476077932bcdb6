package adapters_test

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go2ts/internal/adapter"
	"go2ts/internal/adapters"
)

func TestNewTypeScript_NilContext(t *testing.T) {
	_, err := adapters.NewTypeScript(nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, adapter.ErrNilContext))
}

func TestNewTypeScript_RegistersPredeclaredTypes(t *testing.T) {
	ctx := adapter.NewContext()

	ts, err := adapters.NewTypeScript(ctx)
	require.NoError(t, err)

	assert.Nil(t, ts.Parent())
	assert.Equal(t, "number", ctx.TypeMappingTarget("int64"))
	assert.Equal(t, "boolean", ctx.TypeMappingTarget("bool"))
	assert.Equal(t, "Error", ctx.TypeMappingTarget("error"))

	erased, err := ts.ErasedTypes()
	require.NoError(t, err)
	assert.Contains(t, erased, "context.Context")
}

func TestTypeScript_Maps(t *testing.T) {
	unit := checkApp(t, `package app

func Count(words []string) map[string]int {
	counts := make(map[string]int)
	for _, w := range words {
		counts[w]++
	}
	return counts
}

func Get(m map[string]int, k string) int {
	return m[k]
}

func Lookup(m map[string]int, k string) (int, bool) {
	v, ok := m[k]
	return v, ok
}

func Put(m map[string]int, k string, v int) {
	m[k] = v
	m[k] *= 2
	delete(m, "old")
}

func Sizes(m map[string]int, xs []int) int {
	return len(m) + len(xs)
}

func Grow(xs []int, ys []int) []int {
	xs = append(xs, 1, 2)
	return append(xs, ys...)
}
`)

	out := render(t, adapter.NewContext(), unit, nil)

	tests := []struct {
		name string
		want string
	}{
		{"make", "let counts: Map<string, number> = new Map<string, number>();"},
		{"increment", "counts.set(w, (counts.get(w) ?? 0) + 1);"},
		{"read", "return (m.get(k) ?? 0);"},
		{"comma ok", "let v = (m.get(k) ?? 0), ok = m.has(k);"},
		{"write", "m.set(k, v);"},
		{"compound write", "m.set(k, (m.get(k) ?? 0) * 2);"},
		{"delete", `m.delete("old");`},
		{"len", "return m.size + xs.length;"},
		{"append", "xs = [...xs, 1, 2];"},
		{"append spread", "return [...xs, ...ys];"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, out.Source, tt.want)
		})
	}

	assert.Empty(t, out.Diagnostics.Errors)
}

func TestTypeScript_Conversions(t *testing.T) {
	unit := checkApp(t, `package app

func Conv(f float64, n int, r rune, s string, b []byte) {
	_ = int(f)
	_ = float64(n)
	_ = string(r)
	_ = string(b)
	_ = []byte(s)
}
`)

	out := render(t, adapter.NewContext(), unit, nil)

	assert.Contains(t, out.Source, "b: Uint8Array")
	assert.Contains(t, out.Source, "  Math.trunc(f);\n")
	assert.Contains(t, out.Source, "  n;\n")
	assert.Contains(t, out.Source, "  String.fromCodePoint(r);\n")
	assert.Contains(t, out.Source, "  new TextDecoder().decode(b);\n")
	assert.Contains(t, out.Source, "  new TextEncoder().encode(s);\n")
	assert.NotContains(t, out.Source, " as ")
}

func TestTypeScript_Instanceof(t *testing.T) {
	unit := checkApp(t, `package app

func Describe(v any) string {
	switch v.(type) {
	case string:
		return "string"
	case int:
		return "int"
	case error:
		return "error"
	case []int:
		return "slice"
	}
	return "other"
}
`)

	out := render(t, adapter.NewContext(), unit, nil)

	assert.Contains(t, out.Source, `if (typeof v === "string") {`)
	assert.Contains(t, out.Source, `} else if (typeof v === "number") {`)
	assert.Contains(t, out.Source, `} else if (v instanceof Error) {`)
	assert.Contains(t, out.Source, `} else if (Array.isArray(v)) {`)
	assert.Empty(t, out.Diagnostics.Warnings)
}

func TestTypeScript_StructValuesAreCopied(t *testing.T) {
	unit := checkApp(t, `package app

type Point struct {
	X, Y int
}

func Copy(p Point) Point {
	q := p
	return q
}

func Fresh() Point {
	return Point{X: 1}
}
`)

	out := render(t, adapter.NewContext(), unit, nil)

	assert.Contains(t, out.Source, "let q: Point = new Point({ ...p });")
	assert.Contains(t, out.Source, "return new Point({ ...q });")
	assert.Contains(t, out.Source, "return new Point({ X: 1 });")
}

func TestTypeScript_StringRangeYieldsCodePoints(t *testing.T) {
	unit := checkApp(t, `package app

func CountA(s string) int {
	n := 0
	for _, r := range s {
		if r == 'a' {
			n++
		}
	}
	return n
}
`)

	out := render(t, adapter.NewContext(), unit, nil)

	assert.Contains(t, out.Source, "  for (const _i")
	assert.Contains(t, out.Source, " of s) {\n    const r = _i")
	assert.Contains(t, out.Source, ".codePointAt(0)!;\n    if (r === 97) {\n      n++;\n")
	assert.NotContains(t, out.Source, "charCodeAt")
}

func TestTypeScript_ByteSlices(t *testing.T) {
	unit := checkApp(t, `package app

func Bytes() []byte {
	b := make([]byte, 4)
	return append(b, []byte{1, 2}...)
}
`)

	out := render(t, adapter.NewContext(), unit, nil)

	assert.Contains(t, out.Source, "export function Bytes(): Uint8Array {")
	assert.Contains(t, out.Source, "let b: Uint8Array = new Uint8Array(4);")
	assert.Contains(t, out.Source, "return new Uint8Array([...b, ...new Uint8Array([1, 2])]);")
}

func TestTypeScript_Builtins(t *testing.T) {
	unit := checkApp(t, `package app

func Check(n int, err error) int {
	if n < 0 {
		panic("negative")
	}
	if err != nil {
		panic(err)
	}
	return max(n, 1)
}
`)

	out := render(t, adapter.NewContext(), unit, nil)

	assert.Contains(t, out.Source, `(() => { throw new Error(String("negative")) })();`)
	assert.Contains(t, out.Source, "if (err != null) {\n    (() => { throw err })();")
	assert.Contains(t, out.Source, "return Math.max(n, 1);")
	assert.Empty(t, out.Diagnostics.Errors)
}
