package mapping

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
version: "1"
adapters: [stdlib, docs]
typeMappings:
  time.Time: Date
  geom.Point: "{ x: number; y: number }"
annotations:
  - annotation: Erased
    filters: "*.internal*"
  - annotation: "@Name"
    value: area
    filters: ["*.Area(*)", "!*.Legacy*"]
erasedTypes: sync.Mutex
calls:
  - target: example.com/geom.Point.Scale
    print: "$0.scaleBy($1)"
`

func TestParse(t *testing.T) {
	rf, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "1", rf.Version)
	assert.Equal(t, StringOrArray{"stdlib", "docs"}, rf.Adapters)
	assert.Equal(t, "Date", rf.TypeMappings["time.Time"])
	require.Len(t, rf.Annotations, 2)
	assert.Equal(t, StringOrArray{"*.internal*"}, rf.Annotations[0].Filters)
	assert.Equal(t, "@Erased", rf.Annotations[0].Descriptor())
	assert.Equal(t, "@Name('area')", rf.Annotations[1].Descriptor())
	assert.Equal(t, StringOrArray{"sync.Mutex"}, rf.ErasedTypes)
	require.Len(t, rf.Calls, 1)
	assert.Equal(t, "example.com/geom.Point", rf.Calls[0].Owner())
	assert.Equal(t, "Scale", rf.Calls[0].Member())
}

func TestParse_Defaults(t *testing.T) {
	rf, err := Parse([]byte(""))
	require.NoError(t, err)

	assert.Equal(t, CurrentVersion, rf.Version)
	assert.NotNil(t, rf.TypeMappings)
	assert.Empty(t, rf.Adapters)
}

func TestParse_UnknownField(t *testing.T) {
	_, err := Parse([]byte("typeMapping:\n  a: b\n"))
	require.Error(t, err)
}

func TestParse_InvalidStringOrArray(t *testing.T) {
	_, err := Parse([]byte("adapters:\n  docs: true\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected string or list")
}

func TestParseTOML(t *testing.T) {
	data := `
version = "1"
adapters = ["stdlib"]
erasedTypes = "sync.Mutex"

[typeMappings]
"time.Time" = "Date"

[[annotations]]
annotation = "Erased"
filters = "*.internal*"

[[calls]]
target = "strings.ToUpper"
print = "$1.toUpperCase()"
`

	rf, err := ParseTOML([]byte(data))
	require.NoError(t, err)

	assert.Equal(t, StringOrArray{"stdlib"}, rf.Adapters)
	assert.Equal(t, StringOrArray{"sync.Mutex"}, rf.ErasedTypes)
	assert.Equal(t, "Date", rf.TypeMappings["time.Time"])
	require.Len(t, rf.Annotations, 1)
	assert.Equal(t, StringOrArray{"*.internal*"}, rf.Annotations[0].Filters)
	require.Len(t, rf.Calls, 1)
	assert.Equal(t, "strings", rf.Calls[0].Owner())
	assert.Equal(t, "ToUpper", rf.Calls[0].Member())
}

func TestParseTOML_Invalid(t *testing.T) {
	_, err := ParseTOML([]byte("adapters = ["))
	require.Error(t, err)
}

func TestFormatOf(t *testing.T) {
	assert.Equal(t, FormatTOML, FormatOf("rules.toml"))
	assert.Equal(t, FormatTOML, FormatOf("RULES.TOML"))
	assert.Equal(t, FormatYAML, FormatOf("rules.yaml"))
	assert.Equal(t, FormatYAML, FormatOf("rules"))
}

func TestWriteFile_RoundTrip(t *testing.T) {
	original, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	for _, name := range []string{"rules.yaml", "rules.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, WriteFile(original, path))

			loaded, err := LoadFile(path)
			require.NoError(t, err)
			assert.Equal(t, original, loaded)
		})
	}
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "absent.yaml")
}

func TestMerge(t *testing.T) {
	base := &RuleFile{
		Adapters:     StringOrArray{"stdlib"},
		TypeMappings: map[string]string{"a.A": "X", "b.B": "Y"},
		Annotations:  []AnnotationRule{{Annotation: "Erased", Filters: StringOrArray{"*.A"}}},
	}

	base.Merge(&RuleFile{
		TypeMappings: map[string]string{"a.A": "Z"},
		Annotations:  []AnnotationRule{{Annotation: "Erased", Filters: StringOrArray{"*.B"}}},
		ErasedTypes:  StringOrArray{"sync.Mutex"},
	})

	assert.Equal(t, StringOrArray{"stdlib"}, base.Adapters)
	assert.Equal(t, map[string]string{"a.A": "Z", "b.B": "Y"}, base.TypeMappings)
	require.Len(t, base.Annotations, 2)
	assert.Equal(t, StringOrArray{"*.B"}, base.Annotations[1].Filters)
	assert.Equal(t, StringOrArray{"sync.Mutex"}, base.ErasedTypes)

	base.Merge(nil)
	assert.Len(t, base.Annotations, 2)
}

func TestSplitQualified(t *testing.T) {
	tests := []struct {
		input, owner, name string
	}{
		{"strings.ToUpper", "strings", "ToUpper"},
		{"example.com/geom.Area", "example.com/geom", "Area"},
		{"example.com/geom.Point.Scale", "example.com/geom.Point", "Scale"},
		{"int", "", "int"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			owner, name := splitQualified(tt.input)
			assert.Equal(t, tt.owner, owner)
			assert.Equal(t, tt.name, name)
		})
	}
}
